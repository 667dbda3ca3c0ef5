package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatient_DecodesLooseColumns(t *testing.T) {
	body := `[
		{"Id_Paciente": 1, "Nombre_Apellido_Paciente": "Ana Ruiz", "DNI": 12345678, "Telefono_Paciente": "987654321", "Edad": 40, "Costo_Consulta": 80.5, "Descripcion_Receta": "Crema"},
		{"Id_Paciente": 2, "Nombre_Apellido_Paciente": "Luis Paz", "DNI": "87654321", "Costo_Consulta": null}
	]`

	var patients Patients
	require.NoError(t, json.Unmarshal([]byte(body), &patients))
	require.Len(t, patients, 2)

	assert.Equal(t, "12345678", patients[0].DNI.String())
	assert.True(t, patients[0].ConsultationCost.Valid)
	assert.Equal(t, "80.5", patients[0].ConsultationCost.Decimal.String())
	assert.Equal(t, "Crema", patients[0].PrescriptionDescription)

	assert.Equal(t, "87654321", patients[1].DNI.String())
	assert.False(t, patients[1].ConsultationCost.Valid)
}

func TestPatients_ByID(t *testing.T) {
	patients := Patients{{ID: 1, FullName: "Ana"}, {ID: 2, FullName: "Luis"}, {ID: 2, FullName: "Duplicate"}}

	p, ok := patients.ByID(2)
	assert.True(t, ok)
	assert.Equal(t, "Luis", p.FullName)

	_, ok = patients.ByID(9)
	assert.False(t, ok)
}

func TestDoctors_ByID(t *testing.T) {
	doctors := Doctors{{ID: 7, FullName: "Dra. Soto"}}

	d, ok := doctors.ByID(7)
	assert.True(t, ok)
	assert.Equal(t, "Dra. Soto", d.FullName)

	_, ok = doctors.ByID(1)
	assert.False(t, ok)
}

func TestAppointmentTimestamp(t *testing.T) {
	assert.Equal(t, "2024-05-01T10:00:00.000Z", AppointmentTimestamp("2024-05-01", "10:00"))
}

func TestFormSession_ResetAndClone(t *testing.T) {
	s := &FormSession{
		Values:      map[string]string{"a": "1", "b": "2"},
		FieldErrors: map[string]string{"a": "bad"},
	}

	c := s.Clone()
	c.Values["a"] = "changed"
	assert.Equal(t, "1", s.Values["a"])

	s.Reset([]string{"a", "b"})
	assert.Equal(t, map[string]string{"a": "", "b": ""}, s.Values)
	assert.Empty(t, s.FieldErrors)
}

func TestToJSON(t *testing.T) {
	j, err := ToJSON(&CreateReceiptRequest{DNI: "12345678", ConsultationCost: 50})
	require.NoError(t, err)
	assert.Equal(t, "12345678", j["DNI"])
	assert.Equal(t, float64(50), j["Costo_Consulta"])
}
