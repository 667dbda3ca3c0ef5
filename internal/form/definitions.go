package form

import (
	"strconv"
	"time"

	"clinic-console/internal/domain/entity"
	"clinic-console/internal/infrastructure/clinicapi"
	"clinic-console/pkg/validator"
)

const (
	incompleteMessage = "Por favor complete todos los campos."
	invalidMessage    = "Revise los campos marcados."

	ageMessage    = "La edad debe ser un número entero."
	amountMessage = "Ingrese un monto válido."
	dateMessage   = "Ingrese una fecha válida (AAAA-MM-DD)."
	optionMessage = "Seleccione una opción válida."
	emailMessage  = "Ingrese un correo electrónico válido."
)

var definitions = []*Definition{
	patientDefinition(),
	doctorDefinition(),
	appointmentDefinition(),
	prescriptionDefinition(),
	receiptDefinition(),
}

// Lookup returns the definition for kind.
func Lookup(kind entity.FormKind) (*Definition, bool) {
	for _, d := range definitions {
		if d.Kind == kind {
			return d, true
		}
	}
	return nil, false
}

// Definitions returns every form in navigation order.
func Definitions() []*Definition {
	return append([]*Definition(nil), definitions...)
}

func patientDefinition() *Definition {
	return &Definition{
		Kind:     entity.FormKindPatient,
		Title:    "Registro de pacientes",
		NavLabel: "Registro paciente",
		Endpoint: clinicapi.EndpointPatients,
		Fields: []Field{
			Text("nombreApellido", "Nombre y apellido"),
			Text("correo", "Correo electrónico").WithRule("email", emailMessage),
			Text("telefono", "Teléfono").WithRule("phone", validator.PhoneMessage),
			Text("dni", "DNI").WithRule("dni", validator.DNIMessage),
			Integer("edad", "Edad", ageMessage),
		},
		Messages: Messages{
			Incomplete:    incompleteMessage,
			Invalid:       invalidMessage,
			Success:       "Paciente registrado satisfactoriamente",
			Failure:       "Hubo un error al registrar el paciente",
			FailurePrefix: "Error al registrar el paciente",
		},
		Build: func(values map[string]string, _ time.Time) (Payload, error) {
			age, err := ParseInt(values["edad"])
			if err != nil {
				return nil, err
			}
			return &patientPayload{entity.CreatePatientRequest{
				FullName: values["nombreApellido"],
				Email:    values["correo"],
				Phone:    values["telefono"],
				DNI:      values["dni"],
				Age:      age,
			}}, nil
		},
	}
}

func doctorDefinition() *Definition {
	return &Definition{
		Kind:     entity.FormKindDoctor,
		Title:    "Registro de médicos",
		NavLabel: "Registro médico",
		Endpoint: clinicapi.EndpointDoctors,
		Fields: []Field{
			Text("name", "Nombre y apellido"),
			Text("email", "Correo electrónico").WithRule("email", emailMessage),
			Text("phone", "Teléfono").WithRule("phone", validator.PhoneMessage),
			Select("specialty", "Especialidad", optionMessage, entity.SpecialtyPodiatrist),
		},
		Messages: Messages{
			Incomplete:    incompleteMessage,
			Invalid:       invalidMessage,
			Success:       "Médico registrado satisfactoriamente",
			Failure:       "Hubo un error al registrar el médico",
			FailurePrefix: "Error al registrar el médico",
		},
		Build: func(values map[string]string, now time.Time) (Payload, error) {
			return &doctorPayload{entity.CreateDoctorRequest{
				FullName:     values["name"],
				Email:        values["email"],
				Phone:        values["phone"],
				Specialty:    values["specialty"],
				Availability: now.UTC().Format(DateLayout),
			}}, nil
		},
	}
}

func appointmentDefinition() *Definition {
	return &Definition{
		Kind:     entity.FormKindAppointment,
		Title:    "Citas",
		NavLabel: "Citas",
		Endpoint: clinicapi.EndpointAppointments,
		Fields: []Field{
			Reference("patientId", "Paciente", SourcePatients, optionMessage),
			Reference("doctorId", "Médico", SourceDoctors, optionMessage),
			Date("day", "Fecha", dateMessage),
			Select("time", "Hora", optionMessage, entity.AppointmentTimes...),
			Text("description", "Descripción").AsMultiline(),
		},
		NeedsPatients: true,
		NeedsDoctors:  true,
		Messages: Messages{
			Incomplete:    incompleteMessage,
			Invalid:       invalidMessage,
			Success:       "Cita registrada correctamente",
			Failure:       "Error al registrar la cita. Por favor, inténtelo de nuevo.",
			FailurePrefix: "Error al registrar la cita",
		},
		Build: func(values map[string]string, _ time.Time) (Payload, error) {
			patientID, err := ParseID(values["patientId"])
			if err != nil {
				return nil, err
			}
			doctorID, err := ParseID(values["doctorId"])
			if err != nil {
				return nil, err
			}
			return &appointmentPayload{entity.CreateAppointmentRequest{
				PatientID:   patientID,
				DoctorID:    doctorID,
				Date:        values["day"],
				Time:        entity.AppointmentTimestamp(values["day"], values["time"]),
				Description: values["description"],
			}}, nil
		},
	}
}

func prescriptionDefinition() *Definition {
	return &Definition{
		Kind:     entity.FormKindPrescription,
		Title:    "Receta",
		NavLabel: "Receta",
		Endpoint: clinicapi.EndpointPrescriptions,
		Fields: []Field{
			Reference("patientId", "Paciente", SourcePatients, optionMessage),
			Text("medicationType", "Tipo de medicamento"),
			Text("medication", "Medicamento"),
			Text("description", "Descripción").AsMultiline(),
		},
		NeedsPatients: true,
		Messages: Messages{
			Incomplete:    incompleteMessage,
			Invalid:       invalidMessage,
			Success:       "Receta registrada correctamente",
			Failure:       "Error al registrar la receta. Por favor, inténtelo de nuevo.",
			FailurePrefix: "Error al registrar la receta",
		},
		Build: func(values map[string]string, _ time.Time) (Payload, error) {
			patientID, err := ParseID(values["patientId"])
			if err != nil {
				return nil, err
			}
			return &prescriptionPayload{entity.CreatePrescriptionRequest{
				MedicationName: values["medication"],
				MedicationType: values["medicationType"],
				Description:    values["description"],
				PatientID:      patientID,
			}}, nil
		},
	}
}

func receiptDefinition() *Definition {
	return &Definition{
		Kind:     entity.FormKindReceipt,
		Title:    "Registro de Boleta",
		NavLabel: "Boleta",
		Endpoint: clinicapi.EndpointReceipts,
		Fields: []Field{
			Reference("patientId", "Paciente", SourcePatients, optionMessage),
			Text("patientName", "Nombre del paciente").AsReadOnly(),
			Text("dni", "DNI").AsReadOnly(),
			Reference("doctorId", "Médico", SourceDoctors, optionMessage),
			Text("doctorName", "Nombre del médico").AsReadOnly(),
			Money("consultCost", "Costo de consulta", amountMessage),
			Money("procedureCost", "Costo de procedimiento", amountMessage),
			Text("description", "Descripción").AsMultiline(),
		},
		NeedsPatients: true,
		NeedsDoctors:  true,
		Messages: Messages{
			Incomplete:    "Todos los campos son requeridos",
			Invalid:       invalidMessage,
			Success:       "Boleta registrada correctamente",
			Failure:       "Error al registrar la boleta. Por favor, inténtelo de nuevo.",
			FailurePrefix: "Error al registrar la boleta",
		},
		Build: func(values map[string]string, _ time.Time) (Payload, error) {
			consult, err := ParseMoney(values["consultCost"])
			if err != nil {
				return nil, err
			}
			procedure, err := ParseMoney(values["procedureCost"])
			if err != nil {
				return nil, err
			}
			return &receiptPayload{entity.CreateReceiptRequest{
				DNI:              values["dni"],
				PatientName:      values["patientName"],
				ConsultationCost: consult.InexactFloat64(),
				ProcedureCost:    procedure.InexactFloat64(),
				DoctorName:       values["doctorName"],
				Description:      values["description"],
			}}, nil
		},
		Lookup: receiptLookup,
	}
}

// receiptLookup copies the selected patient's or doctor's data into the
// dependent fields. An unknown id leaves the session untouched.
func receiptLookup(session *entity.FormSession, field string, id int64) error {
	switch field {
	case "patientId":
		p, ok := session.Patients.ByID(id)
		if !ok {
			return ErrReferenceNotFound
		}
		session.Values["patientId"] = formatID(p.ID)
		session.Values["patientName"] = p.FullName
		session.Values["dni"] = p.DNI.String()
		session.Values["consultCost"] = ""
		if p.ConsultationCost.Valid {
			session.Values["consultCost"] = p.ConsultationCost.Decimal.String()
		}
		session.Values["description"] = p.PrescriptionDescription
	case "doctorId":
		d, ok := session.Doctors.ByID(id)
		if !ok {
			return ErrReferenceNotFound
		}
		session.Values["doctorId"] = formatID(d.ID)
		session.Values["doctorName"] = d.FullName
		session.Values["procedureCost"] = ""
		if d.ProcedureCost.Valid {
			session.Values["procedureCost"] = d.ProcedureCost.Decimal.String()
		}
	default:
		return ErrNotSelectable
	}
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
