package redisStore

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

var (
	instances = make(map[int]*Store)
	mu        sync.RWMutex
	logger    *logger_i.Logger
	once      sync.Once
)

type Store struct {
	client *redis.Client
	Type   int
}

// Options selects the server; the db number comes from GetRedisStore.
type Options struct {
	Addr     string
	Password string
}

// GetRedisStore returns the shared store for db, connecting on first use.
// It returns nil when redis cannot be reached.
func GetRedisStore(ctx context.Context, opts Options, db int) *Store {

	mu.RLock()
	instance, exists := instances[db]
	mu.RUnlock()

	if exists {
		return instance
	}

	mu.Lock()
	defer mu.Unlock()

	if instance, exists = instances[db]; exists {
		return instance
	}
	return createNewStore(ctx, opts, db)

}

func initLogger() {
	if logger == nil {
		logger = logger_i.NewLogger("Redis Store")
	}
}

func closeRedisStores(ctx context.Context) {
	<-ctx.Done()
	logger.Info("Closing Redis Stores")
	mu.Lock()
	defer mu.Unlock()
	for db, store := range instances {
		err := store.client.Close()
		if err != nil {
			logger.Error("Error closing redis client", "error", err, "db", db)
		}
		delete(instances, db)
	}
	logger.Info("Redis Store Closed successfully")
}

func createNewStore(ctx context.Context, opts Options, db int) *Store {
	addr := opts.Addr
	if addr == "" {
		addr = config.RedisAddr
	}
	newClient := redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              opts.Password,
		DB:                    db,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	initLogger()
	log := logger.With("db", strconv.Itoa(db), "addr", addr)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := newClient.Ping(pingCtx).Err(); err != nil {
		log.Error("Redis is offline", "error", err)
		_ = newClient.Close()
		return nil
	}

	log.Info("Redis store init successfully")

	newStore := &Store{
		client: newClient,
		Type:   db,
	}

	instances[db] = newStore
	once.Do(func() {
		go closeRedisStores(ctx)
	})
	return newStore

}

// NewTestStore wraps an existing client, bypassing the shared registry.
func NewTestStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}
