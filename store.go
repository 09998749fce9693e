/*
Copyright © 2026 xLevitan
*/

package main

import (
	"sync"
	"time"
)

// Store is the key-value capability everything persistent goes through:
// player day state, sessions, stats, the leaderboard, post bindings and
// the pinned start date. Any Redis-like backend satisfies it.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string, ttl time.Duration)
	Del(key string)
}

type storeEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]storeEntry
}

func newMemoryStore(reapInterval time.Duration) *memoryStore {
	ms := &memoryStore{
		entries: make(map[string]storeEntry),
	}
	if reapInterval > 0 {
		go ms.reaperLoop(reapInterval)
	}
	return ms
}

func (ms *memoryStore) Get(key string) (string, bool) {
	ms.mu.RLock()
	e, ok := ms.entries[key]
	ms.mu.RUnlock()

	if !ok {
		return "", false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		ms.Del(key)
		return "", false
	}
	return e.value, true
}

func (ms *memoryStore) Set(key, value string, ttl time.Duration) {
	e := storeEntry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	ms.mu.Lock()
	ms.entries[key] = e
	ms.mu.Unlock()
}

func (ms *memoryStore) Del(key string) {
	ms.mu.Lock()
	delete(ms.entries, key)
	ms.mu.Unlock()
}

// reaperLoop periodically removes entries whose TTL has passed, so the
// map doesn't grow unbounded with expired sessions.
func (ms *memoryStore) reaperLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	for range ticker.C {
		now := time.Now()

		ms.mu.Lock()
		for key, e := range ms.entries {
			if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
				delete(ms.entries, key)
			}
		}
		ms.mu.Unlock()
	}
}
