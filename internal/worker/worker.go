package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/job"
	"github.com/akolanti/ContentAPI/internal/metrics"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
)

var (
	_jobService        *job.Service
	stopWorkerChannel  chan bool
	workerWaitGroup    *sync.WaitGroup
	dispatcherChannel  chan bool
	currentWorkerCount int64
	logger             *logger_i.Logger
	minWorkerCount     = int64(config.MinWorkerCount)
	idleTimeout        = config.IdleWorkerTimeout
)

func InitServices(jobService *job.Service) {
	_jobService = jobService
	dispatcherChannel = jobService.DispatcherChannel
}

func InitWorkerPool(stopWorkerChan chan bool, waitGroup *sync.WaitGroup) {
	stopWorkerChannel = stopWorkerChan
	workerWaitGroup = waitGroup
	logger = logger_i.NewLogger("WorkerPool")
	logger.Info("Initializing worker pool")
	go dispatcher()
}

func dispatcher() {
	createWorker()
	logger.Info("Dispatcher started")
	for {
		select {
		case _, ok := <-dispatcherChannel:
			if !ok {
				return
			}
			if atomic.LoadInt64(&currentWorkerCount) < config.MaxWorkerCount {
				logger.Info("Creating new worker", "workerCount", atomic.LoadInt64(&currentWorkerCount))
				createWorker()
			}
		case <-stopWorkerChannel:
			return
		}
	}
}

func createWorker() {
	workerWaitGroup.Add(1)
	atomic.AddInt64(&currentWorkerCount, 1)
	go worker()
	metrics.IncrementActiveWorkerCount()
	logger.Info("Created new worker")
}

func worker() {
	idle := time.NewTimer(idleTimeout)
	defer idle.Stop()
	for {
		select {
		case task := <-_jobService.JobChannel:
			metrics.DecrementJobsInQueue()
			executeJob(task)
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(idleTimeout)

		case <-stopWorkerChannel:
			removeWorker("Stop worker signal received")
			return

		case <-idle.C:
			if tryRetire() {
				return
			}
			idle.Reset(idleTimeout)
		}
	}
}

// tryRetire removes the calling worker unless that would leave fewer than
// minWorkerCount running.
func tryRetire() bool {
	for {
		count := atomic.LoadInt64(&currentWorkerCount)
		if count <= atomic.LoadInt64(&minWorkerCount) {
			return false
		}
		if atomic.CompareAndSwapInt64(&currentWorkerCount, count, count-1) {
			workerWaitGroup.Done()
			metrics.DecrementActiveWorkerCount()
			logger.Info("Removed worker", "reason", "Idle worker timeout", "workerCount", count-1)
			return true
		}
	}
}
