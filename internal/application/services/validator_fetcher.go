package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dappnode/validator-status/internal/application/domain"
	"github.com/dappnode/validator-status/internal/application/ports"
	"github.com/dappnode/validator-status/internal/logger"
)

var errMissingDataArray = errors.New("response has no data array")

// ValidatorFetcher queries validator status in batches of ChunkSize pubkeys.
type ValidatorFetcher struct {
	Beacon    ports.BeaconChainAdapter
	ChunkSize int
}

type validatorsResponse struct {
	Data json.RawMessage `json:"data"`
}

// FetchValidators queries the endpoint one batch at a time and returns every
// record tagged with its batch range. If any batch response lacks a data array
// the raw body is logged and an empty result is returned, dropping the batches
// that already succeeded. Transport failures are returned as errors.
func (f *ValidatorFetcher) FetchValidators(ctx context.Context, pubkeys []string, endpoint domain.Endpoint) ([]domain.ValidatorRecord, error) {
	var records []domain.ValidatorRecord

	for _, batch := range domain.Partition(len(pubkeys), f.ChunkSize) {
		ids := pubkeys[batch.Offset : batch.Offset+batch.Size]
		body, err := f.Beacon.GetValidatorsByID(ctx, endpoint, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch batch %s: %w", batch.Range, err)
		}

		batchRecords, err := parseValidatorsBatch(body)
		if err != nil {
			logger.Error("Malformed response for batch %s: %v", batch.Range, err)
			logger.Error("Response: %s", body)
			return []domain.ValidatorRecord{}, nil
		}

		for i := range batchRecords {
			batchRecords[i].Batch = batch.Range
		}
		records = append(records, batchRecords...)
		logger.Info("Finished Batch %d - %d", batch.Offset, batch.Offset+f.ChunkSize)
	}

	return records, nil
}

func parseValidatorsBatch(body []byte) ([]domain.ValidatorRecord, error) {
	var resp validatorsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	data := bytes.TrimSpace(resp.Data)
	if len(data) == 0 || data[0] != '[' {
		return nil, errMissingDataArray
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode validators: %w", err)
	}

	records := make([]domain.ValidatorRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, newValidatorRecord(entry))
	}
	return records, nil
}

// newValidatorRecord keeps the entry as-is and reads only its status. Entries
// that are not objects or have no status count as StatusUnknown; a non-string
// status is counted under its JSON text.
func newValidatorRecord(entry json.RawMessage) domain.ValidatorRecord {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil {
		return domain.ValidatorRecord{Status: domain.StatusUnknown}
	}

	raw := bytes.TrimSpace(fields["status"])
	if len(raw) == 0 || string(raw) == "null" {
		return domain.ValidatorRecord{Status: domain.StatusUnknown, Fields: fields}
	}
	var status string
	if err := json.Unmarshal(raw, &status); err != nil {
		status = string(raw)
	}
	return domain.ValidatorRecord{Status: domain.ValidatorStatus(status), Fields: fields}
}
