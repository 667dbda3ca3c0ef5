package service

import (
	"sync"

	"clinic-console/internal/domain/entity"
)

// AppState keeps the records created through this process. It is never
// persisted and never refreshed from the API.
type AppState struct {
	mu            sync.RWMutex
	patients      entity.Patients
	doctors       entity.Doctors
	appointments  []entity.Appointment
	prescriptions []entity.Prescription
}

// Registry is a point-in-time copy of an AppState.
type Registry struct {
	Patients      entity.Patients       `json:"patients"`
	Doctors       entity.Doctors        `json:"doctors"`
	Appointments  []entity.Appointment  `json:"appointments"`
	Prescriptions []entity.Prescription `json:"prescriptions"`
}

func NewAppState() *AppState {
	return &AppState{}
}

func (s *AppState) AppendPatient(p entity.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients = append(s.patients, p)
}

func (s *AppState) AppendDoctor(d entity.Doctor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctors = append(s.doctors, d)
}

func (s *AppState) AppendAppointment(a entity.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append(s.appointments, a)
}

func (s *AppState) AppendPrescription(p entity.Prescription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prescriptions = append(s.prescriptions, p)
}

// Append stores a created record according to its type. Unknown types and
// nil are ignored.
func (s *AppState) Append(record interface{}) {
	switch r := record.(type) {
	case entity.Patient:
		s.AppendPatient(r)
	case entity.Doctor:
		s.AppendDoctor(r)
	case entity.Appointment:
		s.AppendAppointment(r)
	case entity.Prescription:
		s.AppendPrescription(r)
	}
}

func (s *AppState) Snapshot() Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Registry{
		Patients:      append(entity.Patients{}, s.patients...),
		Doctors:       append(entity.Doctors{}, s.doctors...),
		Appointments:  append([]entity.Appointment{}, s.appointments...),
		Prescriptions: append([]entity.Prescription{}, s.prescriptions...),
	}
}
