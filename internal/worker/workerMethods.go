package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/domain/jobModel"
	"github.com/akolanti/ContentAPI/internal/job"
	"github.com/akolanti/ContentAPI/internal/metrics"
)

func executeJob(task job.Task) {
	current := task.Job
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(current.Status), time.Since(start))
	}()

	parent := task.Ctx
	if parent == nil {
		parent = context.WithValue(context.Background(), config.TRACE_ID_KEY, current.TraceId)
	}
	ctx, cancel := context.WithTimeout(parent, config.IngestJobTimeout)
	defer cancel()
	// state writes must land even when the caller went away
	saveCtx := context.WithoutCancel(ctx)

	log := logger.WithTrace(ctx).With("jobId", current.Id)
	log.Debug("Processing job")

	current.CurrentStep = jobModel.IngestProcessing
	current = saveJobState(saveCtx, current, jobModel.JobStatusRunning)

	err := runSafely(ctx, task.Run, &current)

	current.EndTime = time.Now()
	if err != nil {
		log.Warn("job failed", "step", current.CurrentStep, "error", err)
		current.Error = jobModel.NewJobError(err)
		current.CurrentStep = jobModel.Error
		current = saveJobState(saveCtx, current, jobModel.JobStatusError)
	} else {
		current.CurrentStep = jobModel.Complete
		current = saveJobState(saveCtx, current, jobModel.JobStatusComplete)
	}
	task.Done <- err
}

func runSafely(ctx context.Context, run job.Work, current *jobModel.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return run(ctx, current)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	count := atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker", "reason", reason, "workerCount", count)
	metrics.DecrementActiveWorkerCount()

}

func saveJobState(ctx context.Context, current jobModel.Job, jobStatus jobModel.JobStatus) jobModel.Job {
	current.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, current); err != nil {
		logger.Error("Failed to update job status", "err", err)
	}
	return current
}
