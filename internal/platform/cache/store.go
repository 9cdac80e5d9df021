package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

type call struct {
	wg  sync.WaitGroup
	val any
	err error
}

// Store is a small TTL cache with a singleflight loader so a cold key is
// loaded once even under concurrent readers. It backs the HTTP session
// store, where the TTL doubles as the session lifetime.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration

	flightMu sync.Mutex
	flights  map[string]*call
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := time.Now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !e.expiresAt.After(now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: expiresAt}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Invalidate drops every cached entry. Called after restores, which may
// replace any document on disk.
func (s *Store) Invalidate(_ context.Context) {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil || key == "" {
		if loader == nil {
			return nil, nil
		}
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	s.flightMu.Lock()
	if s.flights == nil {
		s.flights = make(map[string]*call)
	}
	if c, ok := s.flights[key]; ok {
		s.flightMu.Unlock()
		c.wg.Wait()
		return c.val, c.err
	}
	c := &call{}
	c.wg.Add(1)
	s.flights[key] = c
	s.flightMu.Unlock()

	if value, ok := s.Get(ctx, key); ok {
		c.val = value
	} else {
		c.val, c.err = loader(ctx)
		if c.err == nil {
			s.Set(ctx, key, c.val)
		}
	}
	c.wg.Done()

	s.flightMu.Lock()
	delete(s.flights, key)
	s.flightMu.Unlock()

	return c.val, c.err
}
