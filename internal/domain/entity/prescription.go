package entity

// Prescription is a prescription record.
type Prescription struct {
	ID             int64  `json:"Id_Receta,omitempty"`
	PatientID      int64  `json:"Id_Paciente"`
	MedicationName string `json:"Nombre_Medicamento"`
	MedicationType string `json:"Tipo_Medicamento"`
	Description    string `json:"Descripcion_Receta"`
}

// CreatePrescriptionRequest is the body of POST /recetas.
type CreatePrescriptionRequest struct {
	MedicationName string `json:"Nombre_Medicamento"`
	MedicationType string `json:"Tipo_Medicamento"`
	Description    string `json:"Descripcion_Receta"`
	PatientID      int64  `json:"Id_Paciente"`
}

func (r *CreatePrescriptionRequest) Record() Prescription {
	return Prescription{
		PatientID:      r.PatientID,
		MedicationName: r.MedicationName,
		MedicationType: r.MedicationType,
		Description:    r.Description,
	}
}
