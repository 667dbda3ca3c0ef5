package converter

import (
	"clinic-console/internal/delivery/dto"
	"clinic-console/internal/domain/entity"
	"clinic-console/internal/form"
)

// FieldToResponse renders any field variant. Reference selects get their
// options from the collections loaded into the session.
func FieldToResponse(f form.Field, session *entity.FormSession) dto.FieldResponse {
	resp := dto.FieldResponse{
		Name:     f.Name(),
		Label:    f.Label(),
		Type:     string(f.Kind()),
		Required: f.Required(),
		ReadOnly: f.ReadOnly(),
	}

	switch field := f.(type) {
	case *form.TextField:
		resp.Multiline = field.Multiline
	case *form.SelectField:
		resp.Source = string(field.Source)
		resp.Options = selectOptions(field, session)
	}

	return resp
}

func selectOptions(field *form.SelectField, session *entity.FormSession) []dto.OptionResponse {
	switch field.Source {
	case form.SourcePatients:
		options := make([]dto.OptionResponse, len(session.Patients))
		for i, p := range session.Patients {
			options[i] = dto.OptionResponse{Value: idString(p.ID), Label: p.FullName}
		}
		return options
	case form.SourceDoctors:
		options := make([]dto.OptionResponse, len(session.Doctors))
		for i, d := range session.Doctors {
			options[i] = dto.OptionResponse{Value: idString(d.ID), Label: d.FullName}
		}
		return options
	default:
		options := make([]dto.OptionResponse, len(field.Options))
		for i, o := range field.Options {
			options[i] = dto.OptionResponse{Value: o.Value, Label: o.Label}
		}
		return options
	}
}

// FormSessionToResponse converts a session and its active notifications to
// FormResponse DTO
func FormSessionToResponse(def *form.Definition, session *entity.FormSession, notifications []entity.Notification) *dto.FormResponse {
	if session == nil {
		return nil
	}

	fields := make([]dto.FieldResponse, len(def.Fields))
	for i, f := range def.Fields {
		fields[i] = FieldToResponse(f, session)
	}

	return &dto.FormResponse{
		ID:            session.ID,
		Kind:          string(session.Kind),
		Title:         def.Title,
		State:         string(session.State),
		Fields:        fields,
		Values:        session.Values,
		FieldErrors:   session.FieldErrors,
		Notifications: NotificationsToResponses(notifications),
		CreatedAt:     session.CreatedAt,
		UpdatedAt:     session.UpdatedAt,
	}
}

func NotificationToResponse(n *entity.Notification) *dto.NotificationResponse {
	if n == nil {
		return nil
	}

	return &dto.NotificationResponse{
		ID:        n.ID,
		Severity:  string(n.Severity),
		Message:   n.Message,
		ExpiresAt: n.ExpiresAt,
	}
}

func NotificationsToResponses(notifications []entity.Notification) []dto.NotificationResponse {
	responses := make([]dto.NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = *NotificationToResponse(&notifications[i])
	}
	return responses
}

// DefinitionsToNavigation lists the sidebar entries in order.
func DefinitionsToNavigation(defs []*form.Definition) []dto.NavigationEntry {
	entries := make([]dto.NavigationEntry, len(defs))
	for i, d := range defs {
		entries[i] = dto.NavigationEntry{
			Kind:  string(d.Kind),
			Label: d.NavLabel,
			Title: d.Title,
		}
	}
	return entries
}
