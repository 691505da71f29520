package beacon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dappnode/validator-status/internal/application/domain"
	"github.com/dappnode/validator-status/internal/application/ports"
)

type beaconAdapter struct {
	httpClient *http.Client
}

// NewBeaconAdapter returns an adapter able to query any beacon endpoint. The
// timeout bounds every single upstream call.
func NewBeaconAdapter(timeout time.Duration) ports.BeaconChainAdapter {
	return &beaconAdapter{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// syncingResponse is the /eth/v1/node/syncing body. Nodes disagree on whether
// sync_distance is a quoted or a plain number, so it is kept raw.
type syncingResponse struct {
	Data *struct {
		IsSyncing    *bool           `json:"is_syncing"`
		SyncDistance json.RawMessage `json:"sync_distance"`
	} `json:"data"`
}

// GetSyncState retrieves /eth/v1/node/syncing with a single request.
func (b *beaconAdapter) GetSyncState(ctx context.Context, endpoint domain.Endpoint) (domain.SyncState, error) {
	url := nodeURL(endpoint) + "/eth/v1/node/syncing"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.SyncState{}, fmt.Errorf("failed to create syncing request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return domain.SyncState{}, fmt.Errorf("failed to get sync state of %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.SyncState{}, fmt.Errorf("failed to read sync state of %s: %w", endpoint, err)
	}

	var syncing syncingResponse
	if err := json.Unmarshal(body, &syncing); err != nil {
		return domain.SyncState{}, fmt.Errorf("failed to decode sync state of %s (%s): %w", endpoint, resp.Status, err)
	}
	if syncing.Data == nil || syncing.Data.IsSyncing == nil {
		return domain.SyncState{}, fmt.Errorf("no is_syncing in sync state of %s (%s)", endpoint, resp.Status)
	}

	distance, err := parseSyncDistance(syncing.Data.SyncDistance)
	if err != nil {
		return domain.SyncState{}, fmt.Errorf("bad sync_distance from %s: %w", endpoint, err)
	}

	return domain.SyncState{
		IsSyncing:    *syncing.Data.IsSyncing,
		SyncDistance: distance,
	}, nil
}

// parseSyncDistance accepts "12", 12 or a missing value (0).
func parseSyncDistance(raw json.RawMessage) (uint64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		raw = []byte(s)
	}
	distance, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, errors.New("not an unsigned integer: " + string(raw))
	}
	return distance, nil
}

// nodeURL turns a host[:port] endpoint into a base URL. Endpoints that already
// carry a scheme are kept as they are.
func nodeURL(endpoint domain.Endpoint) string {
	u := strings.TrimRight(strings.TrimSpace(string(endpoint)), "/")
	if !strings.Contains(u, "://") {
		u = "http://" + u
	}
	return u
}
