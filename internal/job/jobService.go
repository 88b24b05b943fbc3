package job

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/domain/jobModel"
	"github.com/akolanti/ContentAPI/internal/metrics"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
)

// Work is the body of a job. It may move job.CurrentStep forward; the
// worker owns the status fields.
type Work func(ctx context.Context, job *jobModel.Job) error

// Task is what travels over the job channel.
type Task struct {
	Ctx  context.Context
	Job  jobModel.Job
	Run  Work
	Done chan error
}

type Service struct {
	JobChannel        chan Task
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	logger            *logger_i.Logger
}

type ServiceConfig struct {
	JobChannel        chan Task
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		logger:            logger_i.NewLogger("JobService"),
	}
}

// Submit queues run as job and waits for a worker to finish it. It returns
// run's error, or ctx's error if the caller gives up first.
func (s *Service) Submit(ctx context.Context, job jobModel.Job, run Work) error {
	log := s.logger.WithTrace(ctx).With("jobId", job.Id)

	job.Status = jobModel.JobStatusQueued
	job.CurrentStep = jobModel.IngestInit
	if job.CreatedTime.IsZero() {
		job.CreatedTime = time.Now()
	}
	if err := s.JobStore.SaveJob(ctx, job); err != nil {
		log.Error("could not save queued job", "error", err)
	}

	task := Task{Ctx: ctx, Job: job, Run: run, Done: make(chan error, 1)}

	metrics.IncrementJobsInQueue()
	select {
	case s.JobChannel <- task: // blocks while the buffer is full
	case <-ctx.Done():
		metrics.DecrementJobsInQueue()
		return ctx.Err()
	}
	log.Info("Created new job")

	// a new worker every few requests, or whenever work is backing up;
	// idle workers retire on their own
	accurateCount := atomic.AddInt64(&s.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || len(s.JobChannel) > 0 {
		metrics.StartDispatcherSignalCount()
		select {
		case s.DispatcherChannel <- true:
		default:
		}
	}

	select {
	case err := <-task.Done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns the last saved state of a job.
func (s *Service) Status(ctx context.Context, id string) (jobModel.Job, bool) {
	if id == "" {
		return jobModel.Job{}, false
	}
	return s.JobStore.GetJob(ctx, id)
}
