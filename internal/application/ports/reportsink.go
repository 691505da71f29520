package ports

import (
	"context"

	"github.com/dappnode/validator-status/internal/application/domain"
)

// ReportSink persists a finished status report. Failures are never fatal to a run.
type ReportSink interface {
	SaveReport(ctx context.Context, report domain.StatusReport) error
}
