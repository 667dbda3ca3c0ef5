package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type UpdateFieldsRequest struct {
	Values map[string]string `json:"values" validate:"required,min=1"`
}

type SelectRequest struct {
	Field string `json:"field" validate:"required"`
	ID    int64  `json:"id" validate:"required,gt=0"`
}

// Response DTOs

type OptionResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type FieldResponse struct {
	Name      string           `json:"name"`
	Label     string           `json:"label"`
	Type      string           `json:"type"`
	Required  bool             `json:"required"`
	ReadOnly  bool             `json:"read_only,omitempty"`
	Multiline bool             `json:"multiline,omitempty"`
	Source    string           `json:"source,omitempty"`
	Options   []OptionResponse `json:"options,omitempty"`
}

type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

type FormResponse struct {
	ID            uuid.UUID              `json:"id"`
	Kind          string                 `json:"kind"`
	Title         string                 `json:"title"`
	State         string                 `json:"state"`
	Fields        []FieldResponse        `json:"fields"`
	Values        map[string]string      `json:"values"`
	FieldErrors   map[string]string      `json:"field_errors,omitempty"`
	Notifications []NotificationResponse `json:"notifications"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

type OpenFormResponse struct {
	Form      FormResponse `json:"form"`
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
}

type SubmitResponse struct {
	Form         FormResponse          `json:"form"`
	Notification *NotificationResponse `json:"notification,omitempty"`
}

type NavigationEntry struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Title string `json:"title"`
}
