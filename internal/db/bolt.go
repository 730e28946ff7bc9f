package db

import (
	"context"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	boltFile          = "gitstar.bolt"
	boltBucketRecords = "records" // key: record name -> JSON value
)

type BoltStore struct {
	storage *bbolt.DB
}

func NewBoltStore(dataDir string) (*BoltStore, error) {
	path := filepath.Join(dataDir, boltFile)

	instance, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketRecords))
		return err
	}); err != nil {
		_ = instance.Close()
		return nil, err
	}

	return &BoltStore{storage: instance}, nil
}

func (b *BoltStore) Close() error {
	return b.storage.Close()
}

func (b *BoltStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var value []byte
	var found bool
	err := b.storage.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(boltBucketRecords)).Get([]byte(key))
		if v == nil {
			return nil
		}
		// v is only valid inside the transaction.
		value = make([]byte, len(v))
		copy(value, v)
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, found, nil
}

func (b *BoltStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketRecords)).Put([]byte(key), value)
	})
}

func (b *BoltStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketRecords)).Delete([]byte(key))
	})
}

// Keys lists record names in byte order, which is how bbolt iterates.
func (b *BoltStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keys := []string{}
	err := b.storage.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketRecords)).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
