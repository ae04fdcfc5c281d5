// Package storage remembers which article URLs the watcher already delivered.
package storage

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic key derivation
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Store tracks delivered article URLs.
type Store interface {
	Close() error
	Delivered(url string) (bool, error)
	MarkDelivered(url string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

const (
	TypeNone  = "none"
	TypeBBolt = "bbolt"

	defaultTTL             = 5 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// keyFor keeps bucket keys short and fixed-size regardless of URL length.
func keyFor(url string) []byte {
	sum := sha1.Sum([]byte(strings.TrimSpace(url)))
	return []byte(hex.EncodeToString(sum[:]))
}

// noopStore never remembers anything, so every article counts as new.
type noopStore struct{}

func (noopStore) Close() error                   { return nil }
func (noopStore) Delivered(string) (bool, error) { return false, nil }
func (noopStore) MarkDelivered(string) error     { return nil }
