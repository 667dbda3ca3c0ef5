package entity

// AppointmentTimes are the bookable slots, in display order.
var AppointmentTimes = []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}

// Appointment is an appointment record. Time holds the combined timestamp,
// e.g. 2024-05-01T10:00:00.000Z.
type Appointment struct {
	ID          int64  `json:"Id_Cita,omitempty"`
	PatientID   int64  `json:"Id_Paciente"`
	DoctorID    int64  `json:"Id_Medico"`
	Date        string `json:"Fecha_Cita"`
	Time        string `json:"Hora_Cita"`
	Description string `json:"Descripcion_Cita"`
}

// CreateAppointmentRequest is the body of POST /citas.
type CreateAppointmentRequest struct {
	PatientID   int64  `json:"Id_Paciente"`
	DoctorID    int64  `json:"Id_Medico"`
	Date        string `json:"Fecha_Cita"`
	Time        string `json:"Hora_Cita"`
	Description string `json:"Descripcion_Cita"`
}

func (r *CreateAppointmentRequest) Record() Appointment {
	return Appointment{
		PatientID:   r.PatientID,
		DoctorID:    r.DoctorID,
		Date:        r.Date,
		Time:        r.Time,
		Description: r.Description,
	}
}

// AppointmentTimestamp joins a calendar day and a slot into the timestamp the
// API stores in Hora_Cita.
func AppointmentTimestamp(day, slot string) string {
	return day + "T" + slot + ":00.000Z"
}
