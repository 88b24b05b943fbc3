package store

import "sync"

// keyedMutex hands out one RWMutex per key and drops it when the last
// holder releases it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	sync.RWMutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refLock)}
}

func (k *keyedMutex) acquire(key string) *refLock {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	return l
}

func (k *keyedMutex) release(key string, l *refLock) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}

// Lock takes the write lock for key and returns its unlock func.
func (k *keyedMutex) Lock(key string) func() {
	l := k.acquire(key)
	l.Lock()
	return func() {
		l.Unlock()
		k.release(key, l)
	}
}

func (k *keyedMutex) RLock(key string) func() {
	l := k.acquire(key)
	l.RLock()
	return func() {
		l.RUnlock()
		k.release(key, l)
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
