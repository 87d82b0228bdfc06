// Package concurrency provides the per-key locks used to serialize room mutations.
package concurrency

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

type keyedEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// KeyedMutex hands out one weight-1 semaphore per key, so waiting for a key can be
// abandoned when the context is done. Entries are reference counted and dropped once
// nobody holds or waits for them, so the map does not grow with the number of rooms
// ever touched.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*keyedEntry
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*keyedEntry)}
}

func (k *KeyedMutex) acquireEntry(key string) *keyedEntry {
	k.mu.Lock()
	defer k.mu.Unlock()
	entry, ok := k.entries[key]
	if !ok {
		entry = &keyedEntry{sem: semaphore.NewWeighted(1)}
		k.entries[key] = entry
	}
	entry.refs++
	return entry
}

// Lock acquires the lock for key and returns its release function.
// The release function must be called exactly once, typically deferred.
func (k *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	entry := k.acquireEntry(key)
	if err := entry.sem.Acquire(ctx, 1); err != nil {
		k.release(key, entry)
		return nil, err
	}
	return k.unlocker(key, entry), nil
}

// TryLock acquires the lock for key only if it is free.
func (k *KeyedMutex) TryLock(key string) (func(), bool) {
	entry := k.acquireEntry(key)
	if !entry.sem.TryAcquire(1) {
		k.release(key, entry)
		return nil, false
	}
	return k.unlocker(key, entry), true
}

func (k *KeyedMutex) unlocker(key string, entry *keyedEntry) func() {
	return func() {
		entry.sem.Release(1)
		k.release(key, entry)
	}
}

func (k *KeyedMutex) release(key string, entry *keyedEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(k.entries, key)
	}
}

// Len is the number of keys currently held or awaited.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
