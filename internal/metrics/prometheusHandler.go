package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by route and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of ingestion jobs waiting for a worker",
})

var dispatcherSignalCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var pagesExtracted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pages_extracted_total",
	Help: "Pages written into persisted records",
})

var imagesExtracted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "images_extracted_total",
	Help: "Images written into persisted records",
})

var rejectedDocuments = promauto.NewCounter(prometheus.CounterOpts{
	Name: "documents_rejected_size_total",
	Help: "Documents rolled back for exceeding the character limit",
})

var ingestionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "ingestion_duration_seconds",
	Help:    "Time spent extracting and persisting one document.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60},
}, []string{"outcome"})

var jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "job_duration_seconds",
	Help:    "Total time a job spent in a worker.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60, 120},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func IncrementRejectedDocuments() {
	rejectedDocuments.Inc()
}

func CaptureExtraction(pages, images int) {
	pagesExtracted.Add(float64(pages))
	imagesExtracted.Add(float64(images))
}

func CaptureIngestion(outcome string, timeElapsed time.Duration) {
	ingestionDuration.WithLabelValues(outcome).Observe(timeElapsed.Seconds())
}

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	jobDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
