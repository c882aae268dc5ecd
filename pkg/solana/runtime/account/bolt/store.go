package bolt

import (
	"context"
	"crypto/ed25519"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/code-payments/token-faucet/pkg/solana/runtime/account"
)

var bucketAccounts = []byte("accounts")

// Store is an account.Store backed by a BoltDB file.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the store at path. The parent directory is created if
// it doesn't exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "error creating directory")
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "error opening database")
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketAccounts)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "error creating bucket")
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
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketAccounts).Get(address)
		if v == nil {
			return account.ErrAccountNotFound
		}

		record = &account.Record{}
		return record.Unmarshal(address, v)
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

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAccounts)
		for _, record := range records {
			if record.Lamports == 0 {
				if err := bucket.Delete(record.Address); err != nil {
					return errors.Wrap(err, "error deleting account")
				}
				continue
			}

			if err := bucket.Put(record.Address, record.Marshal()); err != nil {
				return errors.Wrap(err, "error writing account")
			}
		}
		return nil
	})
}

// Count implements account.Store.Count
func (s *Store) Count(_ context.Context) (uint64, error) {
	var count uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		count = uint64(tx.Bucket(bucketAccounts).Stats().KeyN)
		return nil
	})
	return count, err
}

func (s *Store) reset() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketAccounts); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketAccounts)
		return err
	})
}
