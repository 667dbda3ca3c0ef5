package form

import (
	"errors"
	"time"

	"clinic-console/internal/domain/entity"
)

var (
	ErrUnknownKind       = errors.New("unknown form kind")
	ErrUnknownField      = errors.New("unknown field")
	ErrReadOnlyField     = errors.New("field is read-only")
	ErrNotSelectable     = errors.New("field does not accept a reference selection")
	ErrReferenceNotFound = errors.New("reference record not found")
	// ErrUseSelect is returned when a lookup field is written directly instead
	// of through a selection.
	ErrUseSelect = errors.New("field must be set through a selection")
)

// Messages are the user-facing notifications of one form.
type Messages struct {
	Incomplete    string
	Invalid       string
	Success       string
	Failure       string
	FailurePrefix string
}

// ServerFailure formats a failure notification that carries the API's message.
func (m Messages) ServerFailure(serverMessage string) string {
	return m.FailurePrefix + ": " + serverMessage
}

// Definition describes one entity form: its fields, the endpoint its payload
// is posted to and how values become that payload.
type Definition struct {
	Kind     entity.FormKind
	Title    string
	NavLabel string
	Endpoint string
	Fields   []Field
	Messages Messages

	NeedsPatients bool
	NeedsDoctors  bool

	// Build turns validated raw values into the request body.
	Build func(values map[string]string, now time.Time) (Payload, error)
	// Lookup fills dependent fields from a selected reference record. Forms
	// without it store the selected id directly.
	Lookup func(session *entity.FormSession, field string, id int64) error
}

// Payload is a request body. Created returns the record the API stored,
// decoded from its response when possible and derived from the request
// otherwise; nil for payloads that produce no registry record.
type Payload interface {
	Created(response []byte) interface{}
}

func (d *Definition) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

func (d *Definition) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name()
	}
	return names
}

// Missing returns the required fields that are empty, in field order.
func (d *Definition) Missing(values map[string]string) []string {
	var missing []string
	for _, f := range d.Fields {
		if f.Required() && values[f.Name()] == "" {
			missing = append(missing, f.Name())
		}
	}
	return missing
}

// Validate checks every non-empty field, sets a message for each failure and
// clears the message of each field that now passes. It reports whether all
// fields passed.
func (d *Definition) Validate(v Checker, values, fieldErrors map[string]string) bool {
	ok := true
	for _, f := range d.Fields {
		raw := values[f.Name()]
		msg := ""
		if raw != "" {
			msg = f.Check(v, raw)
		}
		if msg == "" {
			delete(fieldErrors, f.Name())
			continue
		}
		fieldErrors[f.Name()] = msg
		ok = false
	}
	return ok
}

// SetValue writes a raw value typed by the user.
func (d *Definition) SetValue(session *entity.FormSession, name, value string) error {
	f, ok := d.Field(name)
	if !ok {
		return ErrUnknownField
	}
	if f.ReadOnly() {
		return ErrReadOnlyField
	}
	if sel, isSelect := f.(*SelectField); isSelect && sel.Source != SourceStatic && d.Lookup != nil {
		return ErrUseSelect
	}
	session.Values[name] = value
	return nil
}

// Select applies a reference selection for a select field.
func (d *Definition) Select(session *entity.FormSession, name string, id int64) error {
	f, ok := d.Field(name)
	if !ok {
		return ErrUnknownField
	}
	sel, isSelect := f.(*SelectField)
	if !isSelect || sel.Source == SourceStatic {
		return ErrNotSelectable
	}
	if d.Lookup != nil {
		return d.Lookup(session, name, id)
	}
	session.Values[name] = formatID(id)
	return nil
}
