package account

import (
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"
)

var (
	ErrAccountNotFound = errors.New("account not found")
)

type Store interface {
	// Get returns the committed record for an address
	//
	// Returns ErrAccountNotFound if no record exists.
	Get(ctx context.Context, address ed25519.PublicKey) (*Record, error)

	// Apply writes every record in a single atomic batch. Records with zero
	// lamports are removed from the store.
	Apply(ctx context.Context, records ...*Record) error

	// Count returns the number of stored accounts
	Count(ctx context.Context) (uint64, error)
}
