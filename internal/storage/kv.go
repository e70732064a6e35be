// Package storage is the local persistence used when no host tracking service
// is available.
package storage

import (
	"context"
	"errors"
	"sync"
)

var ErrEmptyKey = errors.New("empty key")

// KV is a string key/value backend. Load reports a miss with ok == false and
// a nil error.
type KV interface {
	Load(ctx context.Context, key string) (value string, ok bool, err error)
	Save(ctx context.Context, key, value string) error
}

type MemoryKV struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: map[string]string{}}
}

func (s *MemoryKV) Load(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemoryKV) Save(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}
