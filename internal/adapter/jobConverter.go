package adapter

import (
	"github.com/akolanti/ContentAPI/internal/api"
	"github.com/akolanti/ContentAPI/internal/domain/jobModel"
)

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Kind:    job.Error.Kind,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	return api.JobResponse{
		Id:          job.Id,
		ContentType: string(job.ContentType),
		Status:      string(job.Status),
		CurrentStep: string(job.CurrentStep),
		StartTime:   job.CreatedTime,
		EndTime:     job.EndTime,
		Error:       errorPtr,
	}
}

func BadRequest(detail string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Success: false,
		Detail:  detail,
		Code:    code,
	}
}
