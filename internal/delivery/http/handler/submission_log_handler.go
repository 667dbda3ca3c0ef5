package handler

import (
	"errors"
	"net/http"
	"strconv"

	"clinic-console/internal/usecase"
	"clinic-console/pkg/response"

	"github.com/gorilla/mux"
)

type SubmissionLogHandler struct {
	submissionLogUsecase usecase.SubmissionLogUsecase
}

func NewSubmissionLogHandler(submissionLogUsecase usecase.SubmissionLogUsecase) *SubmissionLogHandler {
	return &SubmissionLogHandler{
		submissionLogUsecase: submissionLogUsecase,
	}
}

func (h *SubmissionLogHandler) GetSubmissionLog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	logID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid submission log ID", nil)
		return
	}

	submissionLog, err := h.submissionLogUsecase.GetSubmissionLog(r.Context(), logID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSubmissionLogNotFound):
			response.NotFound(w, "Submission log not found")
		case errors.Is(err, usecase.ErrSubmissionLogDisabled):
			response.Error(w, http.StatusServiceUnavailable, "Submission log is disabled", nil)
		default:
			response.InternalServerError(w, "Failed to get submission log")
		}
		return
	}

	response.Success(w, http.StatusOK, "Submission log retrieved successfully", submissionLog)
}

func (h *SubmissionLogHandler) GetAllSubmissionLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.submissionLogUsecase.GetAllSubmissionLogs(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrSubmissionLogDisabled) {
			response.Error(w, http.StatusServiceUnavailable, "Submission log is disabled", nil)
			return
		}
		response.InternalServerError(w, "Failed to get submission logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Submission logs retrieved successfully", logs.Logs, &response.Meta{Total: logs.Total})
}
