package badger

import (
	"context"
	"crypto/ed25519"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/code-payments/token-faucet/pkg/solana/runtime/account"
)

var accountKeyPrefix = []byte("account:")

// Store is an account.Store backed by a BadgerDB directory.
type Store struct {
	db *badgerdb.DB
}

// Open opens or creates the store in dir.
func Open(dir string) (*Store, error) {
	opts := badgerdb.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "error opening database")
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get implements account.Store.Get
func (s *Store) Get(_ context.Context, address ed25519.PublicKey) (*account.Record, error) {
	var record *account.Record
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(accountKey(address))
		if err == badgerdb.ErrKeyNotFound {
			return account.ErrAccountNotFound
		} else if err != nil {
			return errors.Wrap(err, "error reading account")
		}

		return item.Value(func(val []byte) error {
			record = &account.Record{}
			return record.Unmarshal(address, val)
		})
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Apply implements account.Store.Apply
func (s *Store) Apply(_ context.Context, records ...*account.Record) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		for _, record := range records {
			key := accountKey(record.Address)

			if record.Lamports == 0 {
				if err := txn.Delete(key); err != nil {
					return errors.Wrap(err, "error deleting account")
				}
				continue
			}

			if err := txn.Set(key, record.Marshal()); err != nil {
				return errors.Wrap(err, "error writing account")
			}
		}
		return nil
	})
}

// Count implements account.Store.Count
func (s *Store) Count(_ context.Context) (uint64, error) {
	var count uint64
	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = accountKeyPrefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func (s *Store) reset() error {
	return s.db.DropAll()
}

func accountKey(address ed25519.PublicKey) []byte {
	key := make([]byte, 0, len(accountKeyPrefix)+len(address))
	key = append(key, accountKeyPrefix...)
	return append(key, address...)
}
