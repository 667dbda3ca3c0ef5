package entity

import "github.com/shopspring/decimal"

// Patient is a patient record as returned by GET /pacientes.
type Patient struct {
	ID       int64      `json:"Id_Paciente,omitempty"`
	FullName string     `json:"Nombre_Apellido_Paciente"`
	Email    string     `json:"Correo_Electronico_Paciente"`
	Phone    FlexString `json:"Telefono_Paciente"`
	DNI      FlexString `json:"DNI"`
	Age      int        `json:"Edad"`

	// Optional columns read by the receipt form. Nothing in this console writes them.
	ConsultationCost        decimal.NullDecimal `json:"Costo_Consulta"`
	PrescriptionDescription string              `json:"Descripcion_Receta,omitempty"`
}

// CreatePatientRequest is the body of POST /pacientes.
type CreatePatientRequest struct {
	FullName string `json:"Nombre_Apellido_Paciente"`
	Email    string `json:"Correo_Electronico_Paciente"`
	Phone    string `json:"Telefono_Paciente"`
	DNI      string `json:"DNI"`
	Age      int    `json:"Edad"`
}

// Record returns the patient as it would be stored, without a server id.
func (r *CreatePatientRequest) Record() Patient {
	return Patient{
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    FlexString(r.Phone),
		DNI:      FlexString(r.DNI),
		Age:      r.Age,
	}
}

type Patients []Patient

// ByID returns the first patient with the given id.
func (p Patients) ByID(id int64) (Patient, bool) {
	for _, patient := range p {
		if patient.ID == id {
			return patient, true
		}
	}
	return Patient{}, false
}
