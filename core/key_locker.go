package core

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

type refLock struct {
	mu  sync.Mutex
	ref int32
}

// KeyLocker serializes operations that share a composite key, typically a
// (resource, identifier) pair. Locks are created on demand and dropped once
// the last holder releases them.
type KeyLocker struct {
	locks sync.Map
	sep   string
}

// NewKeyLocker creates a new KeyLocker.
func NewKeyLocker() *KeyLocker {
	return &KeyLocker{sep: "/"}
}

// Lock acquires the lock for the combined key and returns the release function.
func (kl *KeyLocker) Lock(keys ...any) func() {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%v", k))
	}
	combinedKey := strings.Join(parts, kl.sep)

	lockIface, _ := kl.locks.LoadOrStore(combinedKey, &refLock{})
	lock := lockIface.(*refLock)

	atomic.AddInt32(&lock.ref, 1)
	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()
		if atomic.AddInt32(&lock.ref, -1) == 0 {
			kl.locks.Delete(combinedKey)
		}
	}
}
