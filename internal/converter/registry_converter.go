package converter

import (
	"clinic-console/internal/delivery/dto"
	"clinic-console/internal/service"
)

func RegistryToResponse(r service.Registry) *dto.RegistryResponse {
	return &dto.RegistryResponse{
		Patients:      r.Patients,
		Doctors:       r.Doctors,
		Appointments:  r.Appointments,
		Prescriptions: r.Prescriptions,
	}
}
