package keyfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dappnode/validator-status/internal/application/domain"
	"github.com/dappnode/validator-status/internal/application/ports"
	"github.com/dappnode/validator-status/internal/logger"
)

// KeyFileAdapter reads pubkeys from a JSON array of {"pubkey": "0x..."} objects.
// Other fields of each object are ignored.
type KeyFileAdapter struct {
	Path string
}

type keyEntry struct {
	Pubkey string `json:"pubkey"`
}

func NewKeyFileAdapter(path string) ports.KeySource {
	return &KeyFileAdapter{Path: path}
}

func (k *KeyFileAdapter) GetValidatorPubkeys(_ context.Context) ([]string, error) {
	logger.Info("Reading keys from file: %s", k.Path)
	data, err := os.ReadFile(k.Path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", k.Path, err)
	}

	var entries []keyEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error parsing file %s: %w", k.Path, err)
	}

	pubkeys := make([]string, 0, len(entries))
	invalid := 0
	for _, entry := range entries {
		if !domain.IsBLSPubkey(entry.Pubkey) {
			invalid++
			logger.Debug("Not a BLS pubkey: %q", entry.Pubkey)
		}
		pubkeys = append(pubkeys, entry.Pubkey)
	}
	// Invalid keys are still queried, the beacon node decides what to do with them.
	if invalid > 0 {
		logger.Warn("%d of %d keys in %s are not 48-byte hex pubkeys", invalid, len(entries), k.Path)
	}
	return pubkeys, nil
}
