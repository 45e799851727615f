// Package keymutex provides a mutex keyed by string, used to serialize
// handoff and settlement operations per parcel while letting operations on
// different parcels run fully in parallel.
package keymutex

import "sync"

// KeyMutex is a set of named mutexes. The zero value is not usable; create
// instances with New. Locks are created lazily on first use and kept for the
// lifetime of the KeyMutex; the key space (parcel IDs) is bounded by the
// working set, so entries are not reaped.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an empty KeyMutex.
func New() *KeyMutex {
	return &KeyMutex{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the mutex for the given key, blocking while another caller
// holds it.
func (k *KeyMutex) Lock(key string) {
	k.lockFor(key).Lock()
}

// Unlock releases the mutex for the given key.
// Unlocking a key that was never locked panics, as with sync.Mutex.
func (k *KeyMutex) Unlock(key string) {
	k.lockFor(key).Unlock()
}

func (k *KeyMutex) lockFor(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	return lock
}
