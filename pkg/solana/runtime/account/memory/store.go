package memory

import (
	"context"
	"crypto/ed25519"
	"sync"

	"github.com/code-payments/token-faucet/pkg/solana/runtime/account"
)

type store struct {
	mu      sync.Mutex
	records map[string]*account.Record
}

// New returns a new in memory account.Store
func New() account.Store {
	return &store{
		records: make(map[string]*account.Record),
	}
}

// Get implements account.Store.Get
func (s *store) Get(_ context.Context, address ed25519.PublicKey) (*account.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.records[string(address)]
	if !ok {
		return nil, account.ErrAccountNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

// Apply implements account.Store.Apply
func (s *store) Apply(_ context.Context, records ...*account.Record) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		if record.Lamports == 0 {
			delete(s.records, string(record.Address))
			continue
		}

		cloned := record.Clone()
		s.records[string(record.Address)] = &cloned
	}

	return nil
}

// Count implements account.Store.Count
func (s *store) Count(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return uint64(len(s.records)), nil
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*account.Record)
}
