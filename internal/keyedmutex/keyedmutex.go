// Package keyedmutex provides a mutex per string key. Operations against the
// same key are serialized while operations against different keys proceed in
// parallel, which gives single-writer semantics per market without a global
// lock.
package keyedmutex

import "sync"

// KeyedMutex hands out one mutex per key on demand. Locks are never evicted;
// the per-key footprint is a single mutex, negligible next to the market row
// it guards.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an empty KeyedMutex.
func New() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key, creating it on first use.
func (k *KeyedMutex) Lock(key string) {
	k.get(key).Lock()
}

// Unlock releases the mutex for key. It panics if the key was never locked,
// same as unlocking an unlocked sync.Mutex.
func (k *KeyedMutex) Unlock(key string) {
	k.get(key).Unlock()
}

func (k *KeyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}
