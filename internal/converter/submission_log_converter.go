package converter

import (
	"strconv"

	"clinic-console/internal/delivery/dto"
	"clinic-console/internal/domain/entity"
)

// SubmissionLogToResponse converts a SubmissionLog entity to SubmissionLogResponse DTO
func SubmissionLogToResponse(log *entity.SubmissionLog) *dto.SubmissionLogResponse {
	if log == nil {
		return nil
	}

	return &dto.SubmissionLogResponse{
		ID:         log.ID,
		FormID:     log.FormID,
		FormKind:   string(log.FormKind),
		Endpoint:   log.Endpoint,
		Status:     string(log.Status),
		StatusCode: log.StatusCode,
		Message:    log.Message,
		Payload:    log.Payload,
		CreatedAt:  log.CreatedAt,
	}
}

// SubmissionLogsToResponses converts a slice of SubmissionLog entities to slice of SubmissionLogResponse DTOs
func SubmissionLogsToResponses(logs []entity.SubmissionLog) []dto.SubmissionLogResponse {
	responses := make([]dto.SubmissionLogResponse, len(logs))
	for i := range logs {
		responses[i] = *SubmissionLogToResponse(&logs[i])
	}
	return responses
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
