package form

import (
	"encoding/json"

	"clinic-console/internal/domain/entity"
)

// The payload types embed the request so they marshal exactly like it.

type patientPayload struct {
	entity.CreatePatientRequest
}

func (p *patientPayload) Created(response []byte) interface{} {
	record := p.CreatePatientRequest.Record()
	if decoded := decodeRecord(response, &entity.Patient{}); decoded != nil && decoded.ID != 0 {
		record = *decoded
	}
	return record
}

type doctorPayload struct {
	entity.CreateDoctorRequest
}

func (p *doctorPayload) Created(response []byte) interface{} {
	record := p.CreateDoctorRequest.Record()
	if decoded := decodeRecord(response, &entity.Doctor{}); decoded != nil && decoded.ID != 0 {
		record = *decoded
	}
	return record
}

type appointmentPayload struct {
	entity.CreateAppointmentRequest
}

func (p *appointmentPayload) Created(response []byte) interface{} {
	record := p.CreateAppointmentRequest.Record()
	if decoded := decodeRecord(response, &entity.Appointment{}); decoded != nil && decoded.ID != 0 {
		record = *decoded
	}
	return record
}

type prescriptionPayload struct {
	entity.CreatePrescriptionRequest
}

func (p *prescriptionPayload) Created(response []byte) interface{} {
	record := p.CreatePrescriptionRequest.Record()
	if decoded := decodeRecord(response, &entity.Prescription{}); decoded != nil && decoded.ID != 0 {
		record = *decoded
	}
	return record
}

type receiptPayload struct {
	entity.CreateReceiptRequest
}

// Receipts are not kept in the registry.
func (p *receiptPayload) Created([]byte) interface{} { return nil }

// decodeRecord returns nil when the response body is not the created record.
func decodeRecord[T any](response []byte, into *T) *T {
	if len(response) == 0 {
		return nil
	}
	if err := json.Unmarshal(response, into); err != nil {
		return nil
	}
	return into
}
