package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dappnode/validator-status/internal/application/domain"
	"github.com/dappnode/validator-status/internal/application/ports"
	"github.com/dappnode/validator-status/internal/logger"
)

var (
	ErrNoAvailableNodes = errors.New("no available Fullnodes")
	ErrNoValidatorData  = errors.New("no validator data")
)

// StatusChecker runs one status check: load keys, pick a node, fetch, aggregate
// and hand the report to the sinks and the notifier.
type StatusChecker struct {
	Keys     ports.KeySource
	Nodes    *NodeChecker
	Fetcher  *ValidatorFetcher
	Sinks    []ports.ReportSink
	Notifier ports.NotifierPort // optional

	Endpoints         []domain.Endpoint
	NotificationTitle string

	// NodeFallback moves on to the next available node when the first one yields
	// no validator data. Off by default: only the first available node is used.
	NodeFallback bool

	Now func() time.Time
}

// Run performs the check. ErrNoAvailableNodes and ErrNoValidatorData (and a key
// source failure) mean the run failed and no report was written. Sink and
// notifier failures are logged only.
func (s *StatusChecker) Run(ctx context.Context) (domain.StatusReport, error) {
	logger.Info("Start Checking Keys")
	pubkeys, err := s.Keys.GetValidatorPubkeys(ctx)
	if err != nil {
		return domain.StatusReport{}, fmt.Errorf("failed to load validator pubkeys: %w", err)
	}
	logger.Info("Loaded %d keys", len(pubkeys))

	logger.Info("Check configured Fullnodes")
	nodes := s.Nodes.CheckNodes(ctx, s.Endpoints)
	if len(nodes) == 0 {
		return domain.StatusReport{}, ErrNoAvailableNodes
	}

	records, node := s.fetch(ctx, pubkeys, nodes)
	if len(records) == 0 {
		return domain.StatusReport{}, ErrNoValidatorData
	}

	logger.Info("Getting Status of Validators")
	histogram := Aggregate(records, s.Fetcher.ChunkSize, len(pubkeys))
	logSummary(histogram, len(records))

	now := s.now()
	report := domain.StatusReport{
		Name:            domain.ReportName(now),
		GeneratedAt:     now,
		Node:            node,
		TotalKeys:       len(pubkeys),
		TotalValidators: len(records),
		Histogram:       histogram,
	}
	s.publish(ctx, report)

	return report, nil
}

// fetch uses the first available node. Later nodes are only tried when
// NodeFallback is set and the previous one returned nothing.
func (s *StatusChecker) fetch(ctx context.Context, pubkeys []string, nodes []domain.Endpoint) ([]domain.ValidatorRecord, domain.Endpoint) {
	for i, node := range nodes {
		logger.Info("Checking %d keys on %s", len(pubkeys), node)
		records, err := s.Fetcher.FetchValidators(ctx, pubkeys, node)
		if err != nil {
			logger.Error("Error checking keys on %s: %v", node, err)
		}

		last := i == len(nodes)-1
		if len(records) > 0 || !s.NodeFallback || last || ctx.Err() != nil {
			return records, node
		}
		logger.Warn("No validator data from %s, trying next available Fullnode", node)
	}
	return nil, ""
}

func (s *StatusChecker) publish(ctx context.Context, report domain.StatusReport) {
	for _, sink := range s.Sinks {
		if err := sink.SaveReport(ctx, report); err != nil {
			logger.Error("Error saving report %s: %v", report.Name, err)
		}
	}

	if s.Notifier == nil {
		return
	}
	title := fmt.Sprintf("%s %s", s.NotificationTitle, domain.ReportTimestamp(report.GeneratedAt))
	if err := s.Notifier.SendStatusSummary(ctx, title, report.Histogram); err != nil {
		logger.Warn("Error sending status notification: %v", err)
	}
}

func logSummary(histogram domain.StatusHistogram, total int) {
	logger.Info("Status: %v", histogram)
	logger.Info("Finished Checking Keys")
	logger.Info("Total Validators checked: %d", total)
	if n := histogram[string(domain.StatusActiveOngoing)]; n > 0 {
		logger.Info("Active Validators: %d", n)
	}
	if n := histogram[string(domain.StatusWithdrawalDone)]; n > 0 {
		logger.Info("Withdrawal Done: %d", n)
	}
	if n := histogram[string(domain.StatusWithdrawalPossible)]; n > 0 {
		logger.Info("Withdrawal Possible: %d", n)
	}
}

func (s *StatusChecker) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
