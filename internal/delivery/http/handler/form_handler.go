package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-console/internal/delivery/dto"
	"clinic-console/internal/form"
	"clinic-console/internal/usecase"
	"clinic-console/pkg/response"
	"clinic-console/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type FormHandler struct {
	formUsecase usecase.FormUsecase
	validator   *validator.CustomValidator
}

func NewFormHandler(formUsecase usecase.FormUsecase, validator *validator.CustomValidator) *FormHandler {
	return &FormHandler{
		formUsecase: formUsecase,
		validator:   validator,
	}
}

func (h *FormHandler) GetNavigation(w http.ResponseWriter, r *http.Request) {
	entries := h.formUsecase.Navigation(r.Context())
	response.Success(w, http.StatusOK, "Forms retrieved successfully", entries)
}

func (h *FormHandler) OpenForm(w http.ResponseWriter, r *http.Request) {
	resp, err := h.formUsecase.Open(r.Context(), mux.Vars(r)["kind"])
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownFormKind) {
			response.NotFound(w, "Unknown form")
			return
		}
		response.InternalServerError(w, "Failed to open form")
		return
	}

	response.Success(w, http.StatusCreated, "Form opened successfully", resp)
}

func (h *FormHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	formID, ok := parseFormID(w, r)
	if !ok {
		return
	}

	resp, err := h.formUsecase.Get(r.Context(), formID)
	if err != nil {
		writeFormError(w, err, "Failed to get form")
		return
	}

	response.Success(w, http.StatusOK, "Form retrieved successfully", resp)
}

func (h *FormHandler) UpdateFields(w http.ResponseWriter, r *http.Request) {
	formID, ok := parseFormID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateFieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	resp, err := h.formUsecase.UpdateFields(r.Context(), formID, &req)
	if err != nil {
		writeFormError(w, err, "Failed to update form")
		return
	}

	response.Success(w, http.StatusOK, "Form updated successfully", resp)
}

func (h *FormHandler) SelectReference(w http.ResponseWriter, r *http.Request) {
	formID, ok := parseFormID(w, r)
	if !ok {
		return
	}

	var req dto.SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	resp, err := h.formUsecase.Select(r.Context(), formID, &req)
	if err != nil {
		writeFormError(w, err, "Failed to apply selection")
		return
	}

	response.Success(w, http.StatusOK, "Selection applied successfully", resp)
}

func (h *FormHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	formID, ok := parseFormID(w, r)
	if !ok {
		return
	}

	resp, err := h.formUsecase.Submit(r.Context(), formID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrIncompleteForm), errors.Is(err, usecase.ErrInvalidFields):
			response.UnprocessableEntity(w, notificationMessage(resp), resp)
		case errors.Is(err, usecase.ErrSubmissionFailed):
			response.BadGateway(w, notificationMessage(resp), resp)
		case errors.Is(err, usecase.ErrSubmissionInFlight):
			response.Conflict(w, "A submission is already in progress", nil)
		default:
			writeFormError(w, err, "Failed to submit form")
		}
		return
	}

	response.Success(w, http.StatusCreated, notificationMessage(resp), resp)
}

func (h *FormHandler) CloseForm(w http.ResponseWriter, r *http.Request) {
	formID, ok := parseFormID(w, r)
	if !ok {
		return
	}

	if err := h.formUsecase.Close(r.Context(), formID); err != nil {
		writeFormError(w, err, "Failed to close form")
		return
	}

	response.Success(w, http.StatusOK, "Form closed successfully", nil)
}

func (h *FormHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	formID, ok := parseFormID(w, r)
	if !ok {
		return
	}

	notifications, err := h.formUsecase.Notifications(r.Context(), formID)
	if err != nil {
		writeFormError(w, err, "Failed to get notifications")
		return
	}

	response.Success(w, http.StatusOK, "Notifications retrieved successfully", notifications)
}

func (h *FormHandler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	formID, ok := parseFormID(w, r)
	if !ok {
		return
	}

	notificationID, err := uuid.Parse(mux.Vars(r)["notificationId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid notification ID", nil)
		return
	}

	if err := h.formUsecase.DismissNotification(r.Context(), formID, notificationID); err != nil {
		writeFormError(w, err, "Failed to dismiss notification")
		return
	}

	response.Success(w, http.StatusOK, "Notification dismissed successfully", nil)
}

func (h *FormHandler) GetRegistry(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Registry retrieved successfully", h.formUsecase.Registry(r.Context()))
}

func parseFormID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	formID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid form ID", nil)
		return uuid.Nil, false
	}
	return formID, true
}

func writeFormError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrFormNotFound):
		response.NotFound(w, "Form not found")
	case errors.Is(err, form.ErrReferenceNotFound):
		response.NotFound(w, "Selected record not found")
	case errors.Is(err, form.ErrUnknownField),
		errors.Is(err, form.ErrReadOnlyField),
		errors.Is(err, form.ErrNotSelectable),
		errors.Is(err, form.ErrUseSelect):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}

func notificationMessage(resp *dto.SubmitResponse) string {
	if resp == nil || resp.Notification == nil {
		return ""
	}
	return resp.Notification.Message
}
