package keyfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pubkeyA = "0x" + strings.Repeat("a1", 48)
var pubkeyB = "0x" + strings.Repeat("b2", 48)

func writeKeys(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetValidatorPubkeys(t *testing.T) {
	path := writeKeys(t, `[
		{"pubkey": "`+pubkeyA+`", "withdrawal_credentials": "0x01"},
		{"pubkey": "`+pubkeyB+`", "amount": 32000000000},
		{"pubkey": "`+pubkeyA+`"},
		{"pubkey": "not-a-key"}
	]`)

	keys, err := NewKeyFileAdapter(path).GetValidatorPubkeys(context.Background())
	require.NoError(t, err)
	// order kept, duplicates and invalid keys not filtered
	assert.Equal(t, []string{pubkeyA, pubkeyB, pubkeyA, "not-a-key"}, keys)
}

func TestGetValidatorPubkeysEmptyArray(t *testing.T) {
	keys, err := NewKeyFileAdapter(writeKeys(t, `[]`)).GetValidatorPubkeys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestGetValidatorPubkeysErrors(t *testing.T) {
	_, err := NewKeyFileAdapter(filepath.Join(t.TempDir(), "missing.json")).GetValidatorPubkeys(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewKeyFileAdapter(writeKeys(t, `{"pubkey": "0x01"}`)).GetValidatorPubkeys(context.Background())
	assert.Error(t, err)
}
