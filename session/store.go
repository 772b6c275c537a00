package session

import (
	"context"
	"sync"
)

type sessionKeyContext struct{}

const defaultSessionKey = "default"

// WithKey sets a routing key for session storage in the context.
func WithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, sessionKeyContext{}, key)
}

// KeyFromContext gets the routing key from the context.
func KeyFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(sessionKeyContext{})
	if value == nil {
		return "", false
	}
	key, ok := value.(string)
	return key, ok
}

func keyOrDefault(ctx context.Context) string {
	key, ok := KeyFromContext(ctx)
	if ok && key != "" {
		return key
	}
	return defaultSessionKey
}

// Cache is the storage backend for conversation contexts.
type Cache interface {
	Set(ctx context.Context, key string, val *Context) error
	Get(ctx context.Context, key string) (*Context, bool, error)
	Del(ctx context.Context, key string) error
}

// MemoryCache is an in-memory Cache for the REPL and tests.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[string]*Context
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: map[string]*Context{}}
}

func (m *MemoryCache) Set(ctx context.Context, key string, val *Context) error {
	m.mu.Lock()
	m.m[key] = val
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Get(ctx context.Context, key string) (*Context, bool, error) {
	m.mu.RLock()
	val, ok := m.m[key]
	m.mu.RUnlock()
	return val, ok, nil
}

func (m *MemoryCache) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.m, key)
	m.mu.Unlock()
	return nil
}

// Store routes conversation contexts by the session key carried in the
// request context. A missing session yields a fresh context.
type Store struct {
	cache Cache
}

func NewStore(cache Cache) *Store {
	return &Store{cache: cache}
}

func NewMemoryStore() *Store {
	return NewStore(NewMemoryCache())
}

func (s *Store) Load(ctx context.Context) (*Context, error) {
	sess, ok, err := s.cache.Get(ctx, keyOrDefault(ctx))
	if err != nil {
		return nil, err
	}
	if !ok || sess == nil {
		return New(), nil
	}
	return sess, nil
}

func (s *Store) Save(ctx context.Context, sess *Context) error {
	return s.cache.Set(ctx, keyOrDefault(ctx), sess)
}

func (s *Store) Clear(ctx context.Context) error {
	return s.cache.Del(ctx, keyOrDefault(ctx))
}
