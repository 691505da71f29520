package beacon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dappnode/validator-status/internal/application/domain"
	"github.com/dappnode/validator-status/internal/logger"
)

// GetValidatorsByID retrieves /eth/v1/beacon/states/head/validators for the given ids.
// The body is returned untouched for any status code: callers decide whether it
// holds a usable data array. Only transport failures are errors.
func (b *beaconAdapter) GetValidatorsByID(ctx context.Context, endpoint domain.Endpoint, ids []string) ([]byte, error) {
	// Pubkeys are hex, so the id list needs no escaping.
	url := fmt.Sprintf("%s/eth/v1/beacon/states/head/validators?id=%s", nodeURL(endpoint), strings.Join(ids, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create validators request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query validators on %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read validators response from %s: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Debug("Validators query on %s returned %s", endpoint, resp.Status)
	}
	return body, nil
}
