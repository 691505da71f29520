package domain

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------

// Domain types used for anything related to validators
type Endpoint string
type ValidatorStatus string

// Statuses the run summary reports on. Any other status string the beacon node
// returns is counted as-is.
const (
	StatusActiveOngoing      ValidatorStatus = "active_ongoing"
	StatusWithdrawalPossible ValidatorStatus = "withdrawal_possible"
	StatusWithdrawalDone     ValidatorStatus = "withdrawal_done"

	// StatusUnknown stands in for entries that carry no status at all.
	StatusUnknown ValidatorStatus = "unknown"
)

// --------------------------------------------------------

// ValidatorRecord is one entry of the validators-by-id response, tagged with the
// batch that produced it. Fields holds the entry exactly as the beacon node sent
// it, status included.
type ValidatorRecord struct {
	Status ValidatorStatus
	Batch  BatchRange
	Fields map[string]json.RawMessage
}

// MarshalJSON writes the passthrough fields plus the batch tag.
func (r ValidatorRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	batch, err := json.Marshal(r.Batch)
	if err != nil {
		return nil, err
	}
	out["batch"] = batch
	return json.Marshal(out)
}

// --------------------------------------------------------

// Node sync state as reported by /eth/v1/node/syncing
type SyncState struct {
	IsSyncing    bool
	SyncDistance uint64
}

func (s SyncState) String() string {
	if s.IsSyncing {
		return fmt.Sprintf("syncing (%d)", s.SyncDistance)
	}
	return fmt.Sprintf("not syncing (%d)", s.SyncDistance)
}
