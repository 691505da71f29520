package domain

import (
	"encoding/hex"
	"strings"

	"github.com/attestantio/go-eth2-client/spec/phase0"
)

// IsBLSPubkey reports whether pubkey is the hex form, 0x prefix optional, of a
// 48-byte BLS public key.
func IsBLSPubkey(pubkey string) bool {
	raw, err := hex.DecodeString(strings.TrimPrefix(pubkey, "0x"))
	if err != nil {
		return false
	}
	return len(raw) == len(phase0.BLSPubKey{})
}
