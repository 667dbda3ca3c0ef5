package entity

import "github.com/shopspring/decimal"

// Specialties offered by the clinic.
const (
	SpecialtyPodiatrist = "Podólogo"
)

// Doctor is a doctor record as returned by GET /medicos.
type Doctor struct {
	ID           int64      `json:"Id_Medico,omitempty"`
	FullName     string     `json:"Nombre_Apellido_Medico"`
	Email        string     `json:"Correo_Electronico_Medico"`
	Phone        FlexString `json:"Telefono_Medico"`
	Specialty    string     `json:"Especialidad"`
	Availability string     `json:"Disponibilidad"`

	ProcedureCost decimal.NullDecimal `json:"Costo_Procedimiento"`
}

// CreateDoctorRequest is the body of POST /medicos.
type CreateDoctorRequest struct {
	FullName     string `json:"Nombre_Apellido_Medico"`
	Email        string `json:"Correo_Electronico_Medico"`
	Phone        string `json:"Telefono_Medico"`
	Specialty    string `json:"Especialidad"`
	Availability string `json:"Disponibilidad"`
}

func (r *CreateDoctorRequest) Record() Doctor {
	return Doctor{
		FullName:     r.FullName,
		Email:        r.Email,
		Phone:        FlexString(r.Phone),
		Specialty:    r.Specialty,
		Availability: r.Availability,
	}
}

type Doctors []Doctor

// ByID returns the first doctor with the given id.
func (d Doctors) ByID(id int64) (Doctor, bool) {
	for _, doctor := range d {
		if doctor.ID == id {
			return doctor, true
		}
	}
	return Doctor{}, false
}
