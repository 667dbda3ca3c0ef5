package entity

// CreateReceiptRequest is the body of POST /boletas. Names and DNI are copied
// from the selected patient and doctor records.
type CreateReceiptRequest struct {
	DNI              string  `json:"DNI"`
	PatientName      string  `json:"Nombre_Apellido_Paciente"`
	ConsultationCost float64 `json:"Costo_Consulta"`
	ProcedureCost    float64 `json:"Costo_Procedimiento"`
	DoctorName       string  `json:"Nombre_Apellido_Medico"`
	Description      string  `json:"Descripcion_Receta"`
}
