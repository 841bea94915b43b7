// Package syncstore holds the plumbing shared by all entity stores:
// snapshot persistence to the local key-value store and local-only
// identifiers for fallback writes.
package syncstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Persister is the durable local key-value store the entity stores
// snapshot their state into. Get returns (nil, nil) for an absent key.
type Persister interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Save serializes the given state and writes it under key. Persistence
// failures are logged and swallowed, the in-memory state stays the
// source of truth.
func Save(ctx context.Context, p Persister, key string, state any) {
	blob, err := json.Marshal(state)
	if err != nil {
		log.Errorf("marshal state for %s: %s", key, err)
		return
	}
	if err := p.Set(ctx, key, blob); err != nil {
		log.Errorf("persist state for %s: %s", key, err)
	}
}

// Restore reads the snapshot stored under key into out.
// Returns false when no snapshot exists or it cannot be decoded.
func Restore(ctx context.Context, p Persister, key string, out any) bool {
	blob, err := p.Get(ctx, key)
	if err != nil {
		log.Errorf("read persisted state for %s: %s", key, err)
		return false
	}
	if len(blob) == 0 {
		return false
	}
	if err := json.Unmarshal(blob, out); err != nil {
		log.Errorf("unmarshal persisted state for %s: %s", key, err)
		return false
	}
	return true
}

// NewLocalID returns an identifier for entities created locally when the
// remote insert failed. The prefix keeps them distinguishable from
// server-assigned ids.
func NewLocalID() string {
	return "local-" + uuid.NewString()
}

// Memory is an in-memory Persister, used in tests and as a no-disk fallback.
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blobs[key], nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), value...)
	return nil
}
