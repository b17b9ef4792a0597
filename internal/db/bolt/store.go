// Package bolt implements db.Store on an embedded bbolt file, for single-node
// gateways that run without Redis. Hashes and lists live in separate
// top-level buckets; each key is a nested bucket.
package bolt

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/kailas-cloud/taggate/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

var (
	bucketHashes = []byte("hashes")
	bucketLists  = []byte("lists")
)

// Store implements db.Store backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	err = bdb.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketHashes); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketLists)
		return err
	})
	if err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("bbolt init buckets: %w", err)
	}
	return &Store{db: bdb}, nil
}

// Ping reports whether the database file is still open.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	err := s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketHashes) == nil {
			return errors.New("hashes bucket missing")
		}
		return nil
	})
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close closes the underlying file.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady returns once Ping succeeds. A local file is ready as soon as
// it is open, so this only fails on a closed store or expired context.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	if err := db.WaitForReady(ctx, s, timeout); err != nil {
		return fmt.Errorf("bbolt not ready: %w", err)
	}
	return nil
}

// HSet sets hash fields, creating the hash if needed.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: no fields", key)}
	}
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketLists).Bucket([]byte(key)) != nil {
			return db.ErrWrongType
		}
		h, err := tx.Bucket(bucketHashes).CreateBucketIfNotExists([]byte(key))
		if err != nil {
			return err
		}
		for k, v := range fields {
			if err := h.Put([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	return nil
}

// HGetAll returns all fields of a hash. A missing key yields an empty map.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	out := make(map[string]string)
	err := s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketLists).Bucket([]byte(key)) != nil {
			return db.ErrWrongType
		}
		h := tx.Bucket(bucketHashes).Bucket([]byte(key))
		if h == nil {
			return nil
		}
		return h.ForEach(func(k, v []byte) error {
			out[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	return out, nil
}

// Del deletes a key of any type. Missing keys are not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketHashes, bucketLists} {
			err := tx.Bucket(name).DeleteBucket([]byte(key))
			if err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// Exists checks if a key of any type exists.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(bucketHashes).Bucket([]byte(key)) != nil ||
			tx.Bucket(bucketLists).Bucket([]byte(key)) != nil
		return nil
	})
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	return found, nil
}

// RPush appends values to the tail of a list. Element keys are the bucket
// sequence encoded big-endian, so cursor order is insertion order.
func (s *Store) RPush(ctx context.Context, key string, values ...[]byte) error {
	if len(values) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: db.OpRPush, Err: err}
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketHashes).Bucket([]byte(key)) != nil {
			return db.ErrWrongType
		}
		l, err := tx.Bucket(bucketLists).CreateBucketIfNotExists([]byte(key))
		if err != nil {
			return err
		}
		for _, v := range values {
			seq, err := l.NextSequence()
			if err != nil {
				return err
			}
			if err := l.Put(seqKey(seq), v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &db.Error{Op: db.OpRPush, Err: err}
	}
	return nil
}

// LRange returns list elements between start and stop, inclusive, with
// Redis index semantics.
func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpLRange, Err: err}
	}
	var out [][]byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketHashes).Bucket([]byte(key)) != nil {
			return db.ErrWrongType
		}
		l := tx.Bucket(bucketLists).Bucket([]byte(key))
		if l == nil {
			return nil
		}
		from, to, ok := clampRange(int64(l.Stats().KeyN), start, stop)
		if !ok {
			return nil
		}
		var i int64
		c := l.Cursor()
		for k, v := c.First(); k != nil && i <= to; k, v = c.Next() {
			if i >= from {
				// bbolt values are only valid inside the transaction
				out = append(out, append([]byte(nil), v...))
			}
			i++
		}
		return nil
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpLRange, Err: err}
	}
	if out == nil {
		out = [][]byte{}
	}
	return out, nil
}

// clampRange converts Redis-style indices to an inclusive [from, to] range
// over n elements.
func clampRange(n, start, stop int64) (from, to int64, ok bool) {
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop || start >= n {
		return 0, 0, false
	}
	return start, stop, true
}

func seqKey(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}
