package storage

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

func TestBoltStoreMarksAndExpiresURLs(t *testing.T) {
	opts := Options{
		TTL:             time.Hour,
		CleanupInterval: time.Minute,
	}

	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "nested", "delivered.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	store.lastSweep.Store(now.Unix())

	const url = "https://news.test/arsenal-sign-striker"

	delivered, err := store.Delivered(url)
	if err != nil || delivered {
		t.Fatalf("expected undelivered url, delivered=%v err=%v", delivered, err)
	}

	if err := store.MarkDelivered(url); err != nil {
		t.Fatalf("MarkDelivered: %v", err)
	}

	delivered, err = store.Delivered(url)
	if err != nil || !delivered {
		t.Fatalf("expected url marked as delivered, got delivered=%v err=%v", delivered, err)
	}

	if delivered, _ := store.Delivered(url + "?utm=1"); delivered {
		t.Fatalf("distinct url must not collide")
	}

	now = now.Add(2 * time.Hour)
	delivered, err = store.Delivered(url)
	if err != nil {
		t.Fatalf("Delivered after expiry: %v", err)
	}
	if delivered {
		t.Fatalf("expected entry to expire and be removed")
	}
}

func TestBoltStoreCleanupSweepsExpired(t *testing.T) {
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "delivered.db"), Options{TTL: time.Hour, CleanupInterval: time.Minute})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	store.lastSweep.Store(now.Unix())

	for _, u := range []string{"https://news.test/a", "https://news.test/b"} {
		if err := store.MarkDelivered(u); err != nil {
			t.Fatalf("MarkDelivered(%s): %v", u, err)
		}
	}

	if err := store.maybeSweep(now.Add(3 * time.Hour)); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if got := store.lastSweep.Load(); got != now.Add(3*time.Hour).Unix() {
		t.Fatalf("lastSweep not advanced: %d", got)
	}

	var remaining int
	err = store.db.View(func(tx *bolt.Tx) error {
		remaining = tx.Bucket(deliveredBucket).Stats().KeyN
		return nil
	})
	if err != nil || remaining != 0 {
		t.Fatalf("expected empty bucket after sweep, got %d keys (err=%v)", remaining, err)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkDelivered("https://news.test/x"); err != nil {
		t.Fatalf("noop store MarkDelivered: %v", err)
	}
	if delivered, _ := store.Delivered("https://news.test/x"); delivered {
		t.Fatalf("noop store must never report delivered")
	}
}

func TestNewStoreValidates(t *testing.T) {
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing path")
	}
	if _, err := NewStore("redis", "x", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
