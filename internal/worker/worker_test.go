package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/akolanti/ContentAPI/internal/domain/jobModel"
	"github.com/akolanti/ContentAPI/internal/job"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
)

// MockJobStore keeps every saved state in order
type MockJobStore struct {
	mu     sync.Mutex
	states map[string][]jobModel.Job
}

func newMockJobStore() *MockJobStore {
	return &MockJobStore{states: make(map[string][]jobModel.Job)}
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	states := m.states[jobId]
	if len(states) == 0 {
		return jobModel.Job{}, false
	}
	return states[len(states)-1], true
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, jobID)
}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[j.Id] = append(m.states[j.Id], j)
	return nil
}

func (m *MockJobStore) statuses(id string) []jobModel.JobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []jobModel.JobStatus
	for _, j := range m.states[id] {
		out = append(out, j.Status)
	}
	return out
}

func TestWorkerPool_Flow(t *testing.T) {
	jobStore := newMockJobStore()
	jobSvc := job.InitJobService(job.ServiceConfig{
		JobChannel:        make(chan job.Task, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          jobStore,
	})
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	atomic.StoreInt64(&currentWorkerCount, 0)
	InitServices(jobSvc)
	InitWorkerPool(stopChan, wg)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "flow-trace")

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true
		time.Sleep(50 * time.Millisecond)

		if count := atomic.LoadInt64(&currentWorkerCount); count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a job", func(t *testing.T) {
		var processed int32
		err := jobSvc.Submit(ctx, jobModel.Job{Id: "test-1"}, func(ctx context.Context, j *jobModel.Job) error {
			atomic.AddInt32(&processed, 1)
			if got := ctx.Value(config.TRACE_ID_KEY); got != "flow-trace" {
				t.Errorf("trace id lost, got %v", got)
			}
			j.CurrentStep = jobModel.IngestFetching
			return nil
		})
		if err != nil {
			t.Fatalf("Submit returned %v", err)
		}
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}

		want := []jobModel.JobStatus{jobModel.JobStatusQueued, jobModel.JobStatusRunning, jobModel.JobStatusComplete}
		got := jobStore.statuses("test-1")
		if len(got) != len(want) {
			t.Fatalf("statuses = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("status %d = %s, want %s", i, got[i], want[i])
			}
		}
		final, _ := jobStore.GetJob(ctx, "test-1")
		if final.CurrentStep != jobModel.Complete || final.EndTime.IsZero() {
			t.Errorf("final job = %+v", final)
		}
	})

	t.Run("Failed job records the error", func(t *testing.T) {
		err := jobSvc.Submit(ctx, jobModel.Job{Id: "test-2"}, func(ctx context.Context, j *jobModel.Job) error {
			return contentModel.SizeLimitExceeded(100001, 100000)
		})
		if !contentModel.IsKind(err, contentModel.KindSizeLimitExceeded) {
			t.Fatalf("Submit returned %v", err)
		}
		final, found := jobStore.GetJob(ctx, "test-2")
		if !found || final.Status != jobModel.JobStatusError {
			t.Fatalf("final job = %+v", final)
		}
		if final.Error.Code != 400 || final.Error.Kind != string(contentModel.KindSizeLimitExceeded) {
			t.Errorf("job error = %+v", final.Error)
		}
	})

	t.Run("Panicking job does not kill the worker", func(t *testing.T) {
		err := jobSvc.Submit(ctx, jobModel.Job{Id: "test-3"}, func(ctx context.Context, j *jobModel.Job) error {
			panic("boom")
		})
		if err == nil {
			t.Fatal("expected an error from a panicking job")
		}
		err = jobSvc.Submit(ctx, jobModel.Job{Id: "test-4"}, func(ctx context.Context, j *jobModel.Job) error {
			return nil
		})
		if err != nil {
			t.Errorf("follow-up job failed: %v", err)
		}
	})

	t.Run("Caller cancellation returns early", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		started := make(chan struct{})
		var once sync.Once
		go func() {
			<-started
			cancel()
		}()
		err := jobSvc.Submit(cctx, jobModel.Job{Id: "test-5"}, func(ctx context.Context, j *jobModel.Job) error {
			once.Do(func() { close(started) })
			<-ctx.Done()
			return ctx.Err()
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Submit returned %v", err)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_IdleTimeout(t *testing.T) {
	prevIdle, prevMin := idleTimeout, atomic.LoadInt64(&minWorkerCount)
	t.Cleanup(func() {
		idleTimeout = prevIdle
		atomic.StoreInt64(&minWorkerCount, prevMin)
	})

	atomic.StoreInt64(&currentWorkerCount, 0)
	atomic.StoreInt64(&minWorkerCount, 1)
	idleTimeout = 20 * time.Millisecond
	logger = logger_i.NewLogger("TestWorkerPool")
	InitServices(job.InitJobService(job.ServiceConfig{
		JobChannel: make(chan job.Task),
		JobStore:   newMockJobStore(),
	}))

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	createWorker()
	createWorker()
	createWorker()
	time.Sleep(200 * time.Millisecond)

	if count := atomic.LoadInt64(&currentWorkerCount); count != 1 {
		t.Errorf("idle workers should retire down to the minimum, count is %d", count)
	}

	close(stopChan)
	wg.Wait()
}
