package ports

import (
	"context"

	"github.com/dappnode/validator-status/internal/application/domain"
)

type NotifierPort interface {
	SendStatusSummary(ctx context.Context, title string, summary domain.StatusHistogram) error
}
