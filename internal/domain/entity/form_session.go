package entity

import (
	"time"

	"github.com/google/uuid"
)

// FormKind identifies one entity form.
type FormKind string

const (
	FormKindPatient      FormKind = "patient"
	FormKindDoctor       FormKind = "doctor"
	FormKindAppointment  FormKind = "appointment"
	FormKindPrescription FormKind = "prescription"
	FormKindReceipt      FormKind = "receipt"
)

// FormState is the request state of a form session.
type FormState string

const (
	FormStateIdle      FormState = "idle"
	FormStatePending   FormState = "pending"
	FormStateSucceeded FormState = "succeeded"
	FormStateFailed    FormState = "failed"
)

// SubmittableStates are the states from which a new submission may start.
var SubmittableStates = []FormState{FormStateIdle, FormStateSucceeded, FormStateFailed}

// FormSession is the server-side state of one mounted form: raw field values,
// field messages from the last validation, request state and the reference
// collections loaded when it was opened.
type FormSession struct {
	ID          uuid.UUID         `json:"id"`
	Kind        FormKind          `json:"kind"`
	Values      map[string]string `json:"values"`
	FieldErrors map[string]string `json:"field_errors"`
	State       FormState         `json:"state"`
	Patients    Patients          `json:"patients,omitempty"`
	Doctors     Doctors           `json:"doctors,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// IsPending checks if a submission is in flight
func (s *FormSession) IsPending() bool {
	return s.State == FormStatePending
}

// Reset clears every listed field and all field messages.
func (s *FormSession) Reset(fields []string) {
	s.Values = make(map[string]string, len(fields))
	for _, name := range fields {
		s.Values[name] = ""
	}
	s.FieldErrors = map[string]string{}
}

// Clone returns a deep copy so stores never share maps with callers.
func (s *FormSession) Clone() *FormSession {
	out := *s
	out.Values = make(map[string]string, len(s.Values))
	for k, v := range s.Values {
		out.Values[k] = v
	}
	out.FieldErrors = make(map[string]string, len(s.FieldErrors))
	for k, v := range s.FieldErrors {
		out.FieldErrors[k] = v
	}
	out.Patients = append(Patients(nil), s.Patients...)
	out.Doctors = append(Doctors(nil), s.Doctors...)
	return &out
}
