package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/data/redisStore"
	"github.com/akolanti/ContentAPI/internal/domain/jobModel"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
)

const jobKeyPrefix = "job:"

type RedisJobStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisJobStore returns nil when redis is unreachable.
func GetRedisJobStore(ctx context.Context, opts redisStore.Options) *RedisJobStore {
	s := redisStore.GetRedisStore(ctx, opts, config.RedisJobStore)
	if s == nil {
		return nil
	}
	return NewRedisJobStore(s)
}

func NewRedisJobStore(s *redisStore.Store) *RedisJobStore {
	return &RedisJobStore{
		store:  s,
		logger: logger_i.NewLogger("JobStore"),
	}
}

func (s *RedisJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	log := s.logger.WithTrace(ctx).With("jobId", job.Id)
	log.Debug("saving job")
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, jobKeyPrefix+job.Id, data, config.RedisJobStoreTTL)
	if err == nil {
		log.Debug("Saved job to Redis")
	}
	return err
}

func (s *RedisJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	var job jobModel.Job
	log := s.logger.WithTrace(ctx).With("jobId", jobId)
	log.Debug("getting job")
	val, err := s.store.Get(ctx, jobKeyPrefix+jobId)
	if s.store.IsNil(err) {
		return job, false
	} else if err != nil {
		log.Error("error reading job", "error", err)
		return job, false
	}

	if err = json.Unmarshal([]byte(val), &job); err != nil {
		log.Error("error decoding job", "error", err)
		return job, false
	}

	log.Debug("Job found in Redis")
	return job, true
}

func (s *RedisJobStore) DeleteJob(ctx context.Context, jobID string) {
	err := s.store.Del(ctx, jobKeyPrefix+jobID)
	if err != nil {
		s.logger.Error("Error deleting job from Redis", "jobId", jobID, "error", err)
		return
	}
	s.logger.Debug("Job deleted from Redis", "jobId", jobID)
}
