// Package kv is the string-keyed persistence adapter behind every dashboard store.
//
// Values are JSON documents. Reads never fail: a missing key, a backend error
// or a document that does not decode all come back as "absent", and callers
// fall back to their defaults. Writes report a *domain.StorageError that
// callers log before carrying on with their in-memory state.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// ErrQuotaExceeded is returned by backends that enforce a size budget.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Backend is raw string storage (browser localStorage, Redis, SQLite, ...).
// Get returns ok=false with a nil error when the key does not exist.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Store wraps a Backend with JSON (de)serialization.
type Store struct {
	backend Backend
	logger  logger.Logger
}

// New creates a Store over backend.
func New(backend Backend, log logger.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  log,
	}
}

// Backend exposes the underlying backend (used by health checks).
func (s *Store) Backend() Backend {
	return s.backend
}

// Get decodes the document stored under key into dst.
// It returns false when the key is absent or unreadable; dst is then untouched.
func (s *Store) Get(ctx context.Context, key string, dst any) bool {
	raw, ok := s.Raw(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.Warn("discarding undecodable value",
			logger.String("key", key),
			logger.Error(err))
		return false
	}
	return true
}

// Raw returns the stored string without decoding it.
func (s *Store) Raw(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.Warn("storage read failed",
			logger.String("key", key),
			logger.Error(err))
		return "", false
	}
	return raw, ok
}

// Set encodes value as JSON and stores it under key.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &domain.StorageError{Key: key, Op: "encode", Err: err}
	}
	return s.SetRaw(ctx, key, string(data))
}

// SetRaw stores value verbatim.
func (s *Store) SetRaw(ctx context.Context, key, value string) error {
	if err := s.backend.Set(ctx, key, value); err != nil {
		return &domain.StorageError{Key: key, Op: "set", Err: err}
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		return &domain.StorageError{Key: key, Op: "remove", Err: err}
	}
	return nil
}

// ClearAll wipes every key.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.backend.Clear(ctx); err != nil {
		return &domain.StorageError{Key: "*", Op: "clear", Err: err}
	}
	return nil
}

// Keys lists every stored key.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.backend.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

// Entity is a decoded record that can tell whether it is usable.
type Entity interface {
	Valid() bool
}

// GetList decodes a JSON array stored under key, one element at a time.
// Elements with the wrong shape or failing Valid are dropped; a document that
// is not an array yields an empty list.
func GetList[T Entity](ctx context.Context, s *Store, key string) []T {
	var raws []json.RawMessage
	if !s.Get(ctx, key, &raws) {
		return []T{}
	}

	items := make([]T, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil || !item.Valid() {
			dropped++
			continue
		}
		items = append(items, item)
	}

	if dropped > 0 {
		s.logger.Warn("dropped malformed entries",
			logger.String("key", key),
			logger.Int("dropped", dropped))
	}
	return items
}
