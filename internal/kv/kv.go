// Package kv defines the local key-value storage the entry store persists
// into. Values are opaque strings; drivers live in sub-packages.
package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// DefaultQuota matches the usual per-origin localStorage allowance.
const DefaultQuota int64 = 5 << 20

// ErrQuotaExceeded is returned by Set when the value does not fit.
var ErrQuotaExceeded = errors.New("kv: quota exceeded")

// KV is a string key-value store.
type KV interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key; removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error
}

// CheckQuota reports ErrQuotaExceeded when key plus value exceed limit bytes.
// A limit <= 0 disables the check.
func CheckQuota(limit int64, key, value string) error {
	if limit <= 0 {
		return nil
	}
	if n := int64(len(key) + len(value)); n > limit {
		return fmt.Errorf("%w: %d bytes over a %d byte limit", ErrQuotaExceeded, n, limit)
	}
	return nil
}

// Memory is an in-process KV. The zero value is ready to use.
type Memory struct {
	// Quota bounds a single key plus value, like the on-disk drivers.
	Quota int64
	// SetErr, when non-nil, is returned by every Set.
	SetErr error

	mu   sync.Mutex
	data map[string]string
}

// NewMemory returns a Memory seeded with values.
func NewMemory(values map[string]string) *Memory {
	m := &Memory{data: make(map[string]string, len(values))}
	for k, v := range values {
		m.data[k] = v
	}
	return m
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.SetErr != nil {
		return m.SetErr
	}
	if err := CheckQuota(m.Quota, key, value); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string]string)
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }
