package web3signer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dappnode/validator-status/internal/application/domain"
	"github.com/dappnode/validator-status/internal/application/ports"
	"github.com/dappnode/validator-status/internal/logger"
)

// Web3SignerAdapter reads the pubkeys of every keystore loaded into a Web3Signer.
type Web3SignerAdapter struct {
	Endpoint string
	client   *http.Client
}

// keystoresResponse is the keymanager API listing from /eth/v1/keystores.
type keystoresResponse struct {
	Data []struct {
		ValidatingPubkey string `json:"validating_pubkey"`
		Readonly         bool   `json:"readonly"`
	} `json:"data"`
}

func NewWeb3SignerAdapter(endpoint string, timeout time.Duration) ports.KeySource {
	return &Web3SignerAdapter{
		Endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

// GetValidatorPubkeys lists the signer's keystores in the order it returns them.
// Blank and repeated pubkeys are dropped. Readonly keystores still belong to
// validators and are kept. Malformed pubkeys are kept and warned about, like
// the key file does.
func (w *Web3SignerAdapter) GetValidatorPubkeys(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s/eth/v1/keystores", w.Endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating Web3Signer request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending Web3Signer request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected Web3Signer status %d: %s", resp.StatusCode, string(body))
	}

	var keystores keystoresResponse
	if err := json.NewDecoder(resp.Body).Decode(&keystores); err != nil {
		return nil, fmt.Errorf("error decoding Web3Signer response: %w", err)
	}

	pubkeys := make([]string, 0, len(keystores.Data))
	seen := make(map[string]struct{}, len(keystores.Data))
	readonly, invalid := 0, 0
	for _, keystore := range keystores.Data {
		pubkey := strings.ToLower(strings.TrimSpace(keystore.ValidatingPubkey))
		if pubkey == "" {
			continue
		}
		if _, ok := seen[pubkey]; ok {
			continue
		}
		seen[pubkey] = struct{}{}

		if keystore.Readonly {
			readonly++
		}
		if !domain.IsBLSPubkey(pubkey) {
			invalid++
			logger.Debug("Not a BLS pubkey: %q", pubkey)
		}
		pubkeys = append(pubkeys, pubkey)
	}

	if invalid > 0 {
		logger.Warn("%d of %d Web3Signer keys are not 48-byte hex pubkeys", invalid, len(pubkeys))
	}
	logger.Info("Read %d keys from Web3Signer (%d readonly)", len(pubkeys), readonly)
	return pubkeys, nil
}
