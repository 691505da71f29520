package ports

import (
	"context"

	"github.com/dappnode/validator-status/internal/application/domain"
)

// BeaconChainAdapter is the hexagonal port for the beacon node REST API. Every call
// names the endpoint it targets, since the candidate list is only known at runtime.
type BeaconChainAdapter interface {
	// GetSyncState queries /eth/v1/node/syncing on the endpoint.
	GetSyncState(ctx context.Context, endpoint domain.Endpoint) (domain.SyncState, error)

	// GetValidatorsByID queries /eth/v1/beacon/states/head/validators?id=<ids> and returns
	// the raw response body, whatever the status code. Only transport failures are errors.
	GetValidatorsByID(ctx context.Context, endpoint domain.Endpoint, ids []string) ([]byte, error)
}
