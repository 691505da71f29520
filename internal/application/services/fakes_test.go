package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dappnode/validator-status/internal/application/domain"
)

type validatorsCall struct {
	endpoint domain.Endpoint
	ids      []string
}

// fakeBeacon answers sync queries from syncStates/syncErrs and validator queries
// through respond. Every validators call is recorded.
type fakeBeacon struct {
	syncStates map[domain.Endpoint]domain.SyncState
	syncErrs   map[domain.Endpoint]error
	respond    func(call int, endpoint domain.Endpoint, ids []string) ([]byte, error)

	syncCalls       []domain.Endpoint
	validatorsCalls []validatorsCall
}

func (f *fakeBeacon) GetSyncState(_ context.Context, endpoint domain.Endpoint) (domain.SyncState, error) {
	f.syncCalls = append(f.syncCalls, endpoint)
	if err := f.syncErrs[endpoint]; err != nil {
		return domain.SyncState{}, err
	}
	state, ok := f.syncStates[endpoint]
	if !ok {
		return domain.SyncState{}, fmt.Errorf("dial tcp %s: connection refused", endpoint)
	}
	return state, nil
}

func (f *fakeBeacon) GetValidatorsByID(_ context.Context, endpoint domain.Endpoint, ids []string) ([]byte, error) {
	call := len(f.validatorsCalls)
	f.validatorsCalls = append(f.validatorsCalls, validatorsCall{endpoint: endpoint, ids: append([]string(nil), ids...)})
	return f.respond(call, endpoint, ids)
}

type validatorEntry struct {
	Index     string          `json:"index"`
	Balance   string          `json:"balance"`
	Status    string          `json:"status"`
	Validator json.RawMessage `json:"validator"`
}

func responseBody(entries []validatorEntry) []byte {
	body, _ := json.Marshal(map[string]any{
		"execution_optimistic": false,
		"finalized":            false,
		"data":                 entries,
	})
	return body
}

func entryFor(i int, id string, status domain.ValidatorStatus) validatorEntry {
	return validatorEntry{
		Index:     fmt.Sprint(i),
		Balance:   "32000000000",
		Status:    string(status),
		Validator: json.RawMessage(fmt.Sprintf(`{"pubkey":%q,"slashed":false}`, id)),
	}
}

// validatorsBody builds a validators-by-id response with one entry per id, all
// with the given status.
func validatorsBody(ids []string, status domain.ValidatorStatus) []byte {
	entries := make([]validatorEntry, 0, len(ids))
	for i, id := range ids {
		entries = append(entries, entryFor(i, id, status))
	}
	return responseBody(entries)
}

// statusByKey answers every query with statuses[id] for each id, defaulting to
// active_ongoing.
func statusByKey(statuses map[string]domain.ValidatorStatus) func(int, domain.Endpoint, []string) ([]byte, error) {
	return func(_ int, _ domain.Endpoint, ids []string) ([]byte, error) {
		entries := make([]validatorEntry, 0, len(ids))
		for i, id := range ids {
			status, ok := statuses[id]
			if !ok {
				status = domain.StatusActiveOngoing
			}
			entries = append(entries, entryFor(i, id, status))
		}
		return responseBody(entries), nil
	}
}

func pubkeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("0x%096x", i+1)
	}
	return keys
}

type fakeKeySource struct {
	keys []string
	err  error
}

func (f *fakeKeySource) GetValidatorPubkeys(context.Context) ([]string, error) {
	return f.keys, f.err
}

type fakeSink struct {
	reports []domain.StatusReport
	err     error
}

func (f *fakeSink) SaveReport(_ context.Context, report domain.StatusReport) error {
	f.reports = append(f.reports, report)
	return f.err
}

type fakeNotifier struct {
	titles    []string
	summaries []domain.StatusHistogram
	err       error
}

func (f *fakeNotifier) SendStatusSummary(_ context.Context, title string, summary domain.StatusHistogram) error {
	f.titles = append(f.titles, title)
	f.summaries = append(f.summaries, summary)
	return f.err
}
