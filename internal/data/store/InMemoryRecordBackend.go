package store

import (
	"context"
	"sync"
)

type InMemoryRecordBackend struct {
	recordMutex *sync.RWMutex
	recordMap   map[string][]byte
}

func InitInMemoryRecordBackend() *InMemoryRecordBackend {
	return &InMemoryRecordBackend{
		recordMutex: new(sync.RWMutex),
		recordMap:   make(map[string][]byte),
	}
}

func (b *InMemoryRecordBackend) Write(ctx context.Context, id string, data []byte) error {
	b.recordMutex.Lock()
	defer b.recordMutex.Unlock()
	b.recordMap[id] = append([]byte(nil), data...)
	return nil
}

func (b *InMemoryRecordBackend) Read(ctx context.Context, id string) ([]byte, error) {
	b.recordMutex.RLock()
	defer b.recordMutex.RUnlock()
	data, found := b.recordMap[id]
	if !found {
		return nil, ErrRecordNotFound
	}
	return append([]byte(nil), data...), nil
}

func (b *InMemoryRecordBackend) Remove(ctx context.Context, id string) (bool, error) {
	b.recordMutex.Lock()
	defer b.recordMutex.Unlock()
	_, found := b.recordMap[id]
	delete(b.recordMap, id)
	return found, nil
}

func (b *InMemoryRecordBackend) Location(id string) string {
	return "memory:" + id
}
