package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	deliveredBucket = []byte("delivered")

	errBucketMissing = errors.New("delivered bucket missing")
)

// expiryBytes is the size of a stored value: a big-endian unix expiry.
const expiryBytes = 8

// boltStore maps url hashes to expiry times in a single bucket.
type boltStore struct {
	db              *bolt.DB
	ttl             time.Duration
	cleanupInterval time.Duration
	now             func() time.Time

	sweepMu   sync.Mutex
	lastSweep atomic.Int64
}

func openBolt(path string, opts Options) (Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(deliveredBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	s := &boltStore{
		db:              db,
		ttl:             opts.TTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	s.lastSweep.Store(s.now().Unix())
	return s, nil
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Delivered reports whether url was marked within the TTL. A stale or corrupt
// entry is deleted and reported as not delivered.
func (b *boltStore) Delivered(url string) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}
	now := b.now()
	if err := b.maybeSweep(now); err != nil {
		return false, err
	}

	var live bool
	err := b.update(func(bucket *bolt.Bucket) error {
		key := keyFor(url)
		raw := bucket.Get(key)
		if raw == nil {
			return nil
		}
		if expiry, ok := decodeExpiry(raw); ok && expiry.After(now) {
			live = true
			return nil
		}
		return bucket.Delete(key)
	})
	return live, err
}

// MarkDelivered records url as delivered until now+TTL.
func (b *boltStore) MarkDelivered(url string) error {
	if b == nil || b.db == nil {
		return nil
	}
	now := b.now()
	if err := b.maybeSweep(now); err != nil {
		return err
	}
	return b.update(func(bucket *bolt.Bucket) error {
		return bucket.Put(keyFor(url), encodeExpiry(now.Add(b.ttl)))
	})
}

func (b *boltStore) update(fn func(*bolt.Bucket) error) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(deliveredBucket)
		if bucket == nil {
			return errBucketMissing
		}
		return fn(bucket)
	})
}

// maybeSweep drops expired keys at most once per cleanup interval.
func (b *boltStore) maybeSweep(now time.Time) error {
	due := func() bool {
		return now.Sub(time.Unix(b.lastSweep.Load(), 0)) >= b.cleanupInterval
	}
	if !due() {
		return nil
	}

	b.sweepMu.Lock()
	defer b.sweepMu.Unlock()
	if !due() {
		return nil
	}

	err := b.update(func(bucket *bolt.Bucket) error {
		// Deleting through the cursor skips the following key, so collect first.
		var stale [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			if expiry, ok := decodeExpiry(v); !ok || !expiry.After(now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweep expired entries: %w", err)
	}
	b.lastSweep.Store(now.Unix())
	return nil
}

func encodeExpiry(t time.Time) []byte {
	buf := make([]byte, expiryBytes)
	binary.BigEndian.PutUint64(buf, uint64(t.Unix()))
	return buf
}

func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) != expiryBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
