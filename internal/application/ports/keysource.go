package ports

import "context"

// KeySource provides the validator pubkeys to check. Implemented by the key file
// reader and the Web3Signer adapter.
type KeySource interface {
	GetValidatorPubkeys(ctx context.Context) ([]string, error)
}
