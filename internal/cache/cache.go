// Package cache stores compiled shaders keyed by graph hash, target and
// compile options.
package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrClosed is returned by a store after Close.
var ErrClosed = errors.New("cache: store closed")

// Entry is a compiled shader.
type Entry struct {
	Key        string
	Name       string
	Target     string
	Stage      string
	EntryPoint string
	Source     string
	Created    time.Time
}

// Store persists entries.
type Store interface {
	// Get returns the entry stored under key. The bool is false on a miss.
	Get(ctx context.Context, key string) (Entry, bool, error)
	// Put stores e under e.Key, replacing an existing entry.
	Put(ctx context.Context, e Entry) error
	Close() error
}

// Key joins the parts identifying a compiled shader.
func Key(hash, target, fingerprint string) string {
	return strings.Join([]string{hash, target, fingerprint}, ":")
}

// Memory is an in-process Store.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
	closed  bool
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry)}
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, key string) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return Entry{}, false, ErrClosed
	}
	e, ok := m.entries[key]
	return e, ok, nil
}

// Put implements Store.
func (m *Memory) Put(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.Key == "" {
		return errors.New("cache: empty key")
	}
	if e.Created.IsZero() {
		e.Created = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.entries[e.Key] = e
	return nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close implements Store.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.entries = nil
	return nil
}
