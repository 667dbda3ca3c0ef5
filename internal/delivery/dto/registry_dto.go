package dto

import "clinic-console/internal/domain/entity"

type RegistryResponse struct {
	Patients      entity.Patients       `json:"patients"`
	Doctors       entity.Doctors        `json:"doctors"`
	Appointments  []entity.Appointment  `json:"appointments"`
	Prescriptions []entity.Prescription `json:"prescriptions"`
}
