package services

import (
	"context"

	"github.com/dappnode/validator-status/internal/application/domain"
	"github.com/dappnode/validator-status/internal/application/ports"
	"github.com/dappnode/validator-status/internal/logger"
)

// NodeChecker filters the configured beacon nodes down to the ones that are not syncing.
type NodeChecker struct {
	Beacon ports.BeaconChainAdapter
}

// CheckNodes queries every endpoint in order and returns the ones reporting
// is_syncing=false, in input order. A node that cannot be queried is skipped.
func (n *NodeChecker) CheckNodes(ctx context.Context, endpoints []domain.Endpoint) []domain.Endpoint {
	available := make([]domain.Endpoint, 0, len(endpoints))
	for _, endpoint := range endpoints {
		state, err := n.Beacon.GetSyncState(ctx, endpoint)
		if err != nil {
			logger.Error("Error connecting to Fullnode %s: %v", endpoint, err)
			continue
		}

		logger.Info("Fullnode %s is %s", endpoint, state)
		if !state.IsSyncing {
			available = append(available, endpoint)
		}
	}
	return available
}
