package store

import (
	"context"

	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/data/redisStore"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
)

const recordKeyPrefix = "content:"

// RedisRecordBackend keeps records as plain string keys without expiry.
type RedisRecordBackend struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisRecordBackend returns nil when redis is unreachable.
func GetRedisRecordBackend(ctx context.Context, opts redisStore.Options) *RedisRecordBackend {
	s := redisStore.GetRedisStore(ctx, opts, config.RedisRecordStore)
	if s == nil {
		return nil
	}
	return NewRedisRecordBackend(s)
}

func NewRedisRecordBackend(s *redisStore.Store) *RedisRecordBackend {
	return &RedisRecordBackend{
		store:  s,
		logger: logger_i.NewLogger("RecordStore"),
	}
}

func (b *RedisRecordBackend) Write(ctx context.Context, id string, data []byte) error {
	log := b.logger.WithTrace(ctx).With("contentId", id)
	log.Debug("saving record")
	if err := b.store.Set(ctx, recordKeyPrefix+id, data, 0); err != nil {
		log.Error("error saving record", "error", err)
		return err
	}
	return nil
}

func (b *RedisRecordBackend) Read(ctx context.Context, id string) ([]byte, error) {
	data, err := b.store.GetBytes(ctx, recordKeyPrefix+id)
	if b.store.IsNil(err) {
		return nil, ErrRecordNotFound
	}
	return data, err
}

func (b *RedisRecordBackend) Remove(ctx context.Context, id string) (bool, error) {
	n, err := b.store.DelCount(ctx, recordKeyPrefix+id)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (b *RedisRecordBackend) Location(id string) string {
	return recordKeyPrefix + id
}
