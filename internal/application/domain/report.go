package domain

import (
	"maps"
	"slices"
	"time"
)

// StatusHistogram counts validators per status name and active_ongoing
// validators per batch range. Both kinds of key share one namespace.
type StatusHistogram map[string]int

// Keys returns the histogram keys sorted, for stable output.
func (h StatusHistogram) Keys() []string {
	return slices.Sorted(maps.Keys(h))
}

// StatusReport is what a run hands to the report sinks.
type StatusReport struct {
	Name            string
	GeneratedAt     time.Time
	Node            Endpoint
	TotalKeys       int
	TotalValidators int
	Histogram       StatusHistogram
}

// ReportTimestamp formats t the way report names expect: 2024-12-27_14-35-10 (UTC).
func ReportTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02_15-04-05")
}

// ReportName returns "results-<timestamp>".
func ReportName(t time.Time) string {
	return "results-" + ReportTimestamp(t)
}
