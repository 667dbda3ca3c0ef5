package dto

import (
	"time"

	"clinic-console/internal/domain/entity"

	"github.com/google/uuid"
)

// Response DTOs

type SubmissionLogResponse struct {
	ID         int64       `json:"id"`
	FormID     uuid.UUID   `json:"form_id"`
	FormKind   string      `json:"form_kind"`
	Endpoint   string      `json:"endpoint"`
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message,omitempty"`
	Payload    entity.JSON `json:"payload,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

type SubmissionLogListResponse struct {
	Logs  []SubmissionLogResponse `json:"logs"`
	Total int                     `json:"total"`
}
