// Package store persists benchmark results in an embedded BadgerDB.
//
// Writes are awaited: Put returns the outcome of the underlying
// transaction instead of firing and forgetting.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"indexbench/bench"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store: closed")

const resultPrefix = "result/"

// Config holds configuration for the result store.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string
	// InMemory disables disk persistence; intended for tests and the
	// one-shot CLI.
	InMemory bool
	// SyncWrites makes every write durable before Put returns.
	SyncWrites bool
	// Logger receives store-level logs. Badger's own logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns the production configuration for a data directory.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns a configuration with no disk I/O.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Store is a badger-backed result sink and result lister.
type Store struct {
	db  *badger.DB
	log *slog.Logger
}

var _ bench.Sink = (*Store)(nil)

// Open opens (and if needed creates) the store.
func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: opening badger at %q: %w", cfg.Path, err)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Store{db: db, log: log}, nil
}

// Put persists one result, keyed by completion time then run ID so that
// iteration order is chronological.
func (s *Store) Put(ctx context.Context, r bench.Result) error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	val, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("store: encoding result %s: %w", r.RunID, err)
	}
	key := fmt.Sprintf("%s%020d/%s", resultPrefix, r.CompletedAt.UnixNano(), r.RunID)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
	if err != nil {
		return fmt.Errorf("store: writing result %s: %w", r.RunID, err)
	}
	return nil
}

// List returns up to limit results, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]bench.Result, error) {
	if s.db.IsClosed() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []bench.Result
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration needs a seek key past the whole prefix.
		seek := append([]byte(resultPrefix), 0xff)
		for it.Seek(seek); it.ValidForPrefix([]byte(resultPrefix)); it.Next() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var r bench.Result
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: listing results: %w", err)
	}
	return out, nil
}

// Close releases the underlying database. Further calls return ErrClosed.
func (s *Store) Close() error {
	start := time.Now()
	err := s.db.Close()
	s.log.Debug("store closed", "elapsed", time.Since(start))
	return err
}
