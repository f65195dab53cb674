package kv

import (
	"context"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

type boltStore struct {
	db *bbolt.DB
}

// OpenBolt opens or creates the bolt file at path.
func OpenBolt(path string) (IStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening bolt file %s", path)
	}
	glog.Infof("kv: bolt store at %s", path)
	return &boltStore{db: db}, nil
}

func (s *boltStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid inside the transaction.
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *boltStore) Put(ctx context.Context, bucket, key string, value []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
	return errors.Wrapf(err, "put %s/%s", bucket, key)
}

func (s *boltStore) Delete(ctx context.Context, bucket, key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	return errors.Wrapf(err, "delete %s/%s", bucket, key)
}

func (s *boltStore) ForEach(ctx context.Context, bucket string, fn func(string, []byte) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(string(k), append([]byte(nil), v...))
		})
	})
}

func (s *boltStore) Close() error {
	return s.db.Close()
}
