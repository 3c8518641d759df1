// Package mirror is a best-effort persistent key-value replica of client state.
// Values are stored as JSON. Reads fall back to a caller supplied default and
// writes never fail to the caller; problems are only logged.
package mirror

import (
	"context"
	"encoding/json"
	"io"
	"log"
)

// Backend stores raw JSON documents by key.
type Backend interface {
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
	Store(ctx context.Context, key string, data []byte) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// Mirror wraps a Backend with JSON encoding and failure swallowing. A Mirror
// with a nil backend behaves as an unavailable store.
type Mirror struct {
	backend Backend
	logger  *log.Logger
}

func New(backend Backend, logger *log.Logger) *Mirror {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Mirror{backend: backend, logger: logger}
}

// Get decodes the value stored under key, or returns def when the key is
// absent, the backend is unavailable or the stored value cannot be decoded.
func Get[T any](ctx context.Context, m *Mirror, key string, def T) T {
	if m == nil || m.backend == nil {
		return def
	}
	data, ok, err := m.backend.Load(ctx, key)
	if err != nil {
		m.logger.Printf("mirror: get key=%s error=%v", key, err)
		return def
	}
	if !ok {
		return def
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		m.logger.Printf("mirror: decode key=%s error=%v", key, err)
		return def
	}
	return value
}

// Set stores value under key. It is a silent no-op without a backend.
func (m *Mirror) Set(ctx context.Context, key string, value any) {
	if m == nil || m.backend == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		m.logger.Printf("mirror: encode key=%s error=%v", key, err)
		return
	}
	if err := m.backend.Store(ctx, key, data); err != nil {
		m.logger.Printf("mirror: set key=%s error=%v", key, err)
	}
}

// SetRaw stores an already encoded JSON document.
func (m *Mirror) SetRaw(ctx context.Context, key string, data json.RawMessage) {
	if m == nil || m.backend == nil {
		return
	}
	if err := m.backend.Store(ctx, key, data); err != nil {
		m.logger.Printf("mirror: set key=%s error=%v", key, err)
	}
}

func (m *Mirror) Delete(ctx context.Context, key string) {
	if m == nil || m.backend == nil {
		return
	}
	if err := m.backend.Remove(ctx, key); err != nil {
		m.logger.Printf("mirror: delete key=%s error=%v", key, err)
	}
}

// Exists reports whether a value is stored under key.
func (m *Mirror) Exists(ctx context.Context, key string) bool {
	if m == nil || m.backend == nil {
		return false
	}
	_, ok, err := m.backend.Load(ctx, key)
	if err != nil {
		m.logger.Printf("mirror: exists key=%s error=%v", key, err)
		return false
	}
	return ok
}

// Available reports whether the backend is configured and reachable.
func (m *Mirror) Available(ctx context.Context) bool {
	if m == nil || m.backend == nil {
		return false
	}
	return m.backend.Ping(ctx) == nil
}
