package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
)

type JobStatus string
type InternalStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit       InternalStatus = "IngestInit"
	IngestFetching   InternalStatus = "IngestFetching"
	IngestProcessing InternalStatus = "IngestProcessing"
	IngestRollback   InternalStatus = "IngestRollback"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"
)

// Job tracks one ingestion attempt; its id is the content id.
type Job struct {
	Id          string                   `json:"id"`
	TraceId     string                   `json:"trace_id"`
	ContentType contentModel.ContentType `json:"content_type"`
	Source      string                   `json:"source"`
	Error       JobError                 `json:"error,omitempty"`
	CreatedTime time.Time                `json:"created_time"`
	EndTime     time.Time                `json:"end_time,omitempty"`
	Status      JobStatus                `json:"status"`
	CurrentStep InternalStatus           `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

// NewJobError records err on a job the way a caller would have seen it.
func NewJobError(err error) JobError {
	kind := contentModel.KindOf(err)
	return JobError{
		Code:    kind.HTTPStatus(),
		Kind:    string(kind),
		Message: err.Error(),
	}
}
