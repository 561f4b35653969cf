package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// MemoryKV est l'implémentation en mémoire utilisée par les tests.
// Les TTL sont ignorés : les tests ne durent pas 30 jours.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (s *MemoryKV) Get(_ context.Context, key string, dest any) error {
	s.mu.Lock()
	val, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal([]byte(val), dest)
}

func (s *MemoryKV) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = string(data)
	s.mu.Unlock()
	return nil
}

func (s *MemoryKV) SetTTL(ctx context.Context, key string, value any, _ time.Duration) error {
	return s.Set(ctx, key, value)
}

func (s *MemoryKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryKV) GetByPrefix(_ context.Context, prefix string) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []json.RawMessage
	for k, v := range s.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, json.RawMessage(v))
		}
	}
	return out, nil
}

func (s *MemoryKV) Update(_ context.Context, key string, mutate func(raw json.RawMessage) (any, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, ok := s.data[key]
	if !ok {
		return ErrNotFound
	}
	next, err := mutate(json.RawMessage(val))
	if err != nil {
		return err
	}
	data, err := json.Marshal(next)
	if err != nil {
		return err
	}
	s.data[key] = string(data)
	return nil
}
