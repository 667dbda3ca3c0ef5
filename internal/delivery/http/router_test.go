package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"clinic-console/config"
	"clinic-console/internal/delivery/http/handler"
	"clinic-console/internal/delivery/http/middleware"
	"clinic-console/internal/infrastructure/clinicapi"
	"clinic-console/internal/repository"
	"clinic-console/internal/service"
	"clinic-console/internal/usecase"
	"clinic-console/pkg/jwt"
	"clinic-console/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type openedForm struct {
	Form struct {
		ID     string            `json:"id"`
		State  string            `json:"state"`
		Values map[string]string `json:"values"`
	} `json:"form"`
	Token string `json:"token"`
}

type consoleFixture struct {
	server  *httptest.Server
	creates atomic.Int32
}

func newConsoleFixture(t *testing.T, clinic http.HandlerFunc) *consoleFixture {
	t.Helper()

	f := &consoleFixture{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			f.creates.Add(1)
		}
		clinic(w, r)
	}))
	t.Cleanup(upstream.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	cv := validator.NewValidator()
	jwtService := jwt.NewJWTService(config.FormTokenConfig{Secret: "test", Expiry: time.Minute})
	client := clinicapi.NewClient(upstream.URL, clinicapi.WithLogger(log))

	formUsecase := usecase.NewFormUsecase(
		log,
		cv,
		repository.NewFormSessionMemoryRepository(),
		repository.NewNotificationMemoryRepository(),
		client,
		service.NewReferenceLoader(client, log),
		service.NewSubmissionAuditService(nil, log, repository.NewSubmissionLogRepository()),
		service.NewAppState(),
		jwtService,
		config.FormConfig{SessionTTL: time.Hour},
		config.NotificationConfig{TTL: time.Minute},
	)

	router := NewRouter(
		handler.NewFormHandler(formUsecase, cv),
		handler.NewSubmissionLogHandler(usecase.NewSubmissionLogUsecase(nil, log, repository.NewSubmissionLogRepository())),
		middleware.NewFormTokenMiddleware(jwtService),
		middleware.NewCORSMiddleware(),
	)

	f.server = httptest.NewServer(router.Setup())
	t.Cleanup(f.server.Close)
	return f
}

func (f *consoleFixture) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (f *consoleFixture) open(t *testing.T, kind string) openedForm {
	t.Helper()
	status, env := f.do(t, http.MethodPost, "/api/v1/forms/"+kind, "", nil)
	require.Equal(t, http.StatusCreated, status)

	var opened openedForm
	require.NoError(t, json.Unmarshal(env.Data, &opened))
	return opened
}

func clinicAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/pacientes":
		io.WriteString(w, `[{"Id_Paciente": 3, "Nombre_Apellido_Paciente": "Ana Ruiz", "DNI": 12345678, "Costo_Consulta": 80.5, "Descripcion_Receta": "Crema"}]`)
	case r.Method == http.MethodGet && r.URL.Path == "/medicos":
		io.WriteString(w, `[{"Id_Medico": 7, "Nombre_Apellido_Medico": "Dra. Soto", "Costo_Procedimiento": 120}]`)
	case r.Method == http.MethodPost && r.URL.Path == "/pacientes":
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"Id_Paciente": 4}`)
	case r.Method == http.MethodPost && r.URL.Path == "/boletas":
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"message": "Boleta duplicada"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestRouter_Health(t *testing.T) {
	f := newConsoleFixture(t, clinicAPI)

	resp, err := http.Get(f.server.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRouter_Navigation(t *testing.T) {
	f := newConsoleFixture(t, clinicAPI)

	status, env := f.do(t, http.MethodGet, "/api/v1/forms", "", nil)
	require.Equal(t, http.StatusOK, status)

	var entries []struct {
		Kind  string `json:"kind"`
		Label string `json:"label"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 5)
	assert.Equal(t, "patient", entries[0].Kind)
	assert.Equal(t, "Boleta", entries[4].Label)
}

func TestRouter_OpenUnknownForm(t *testing.T) {
	f := newConsoleFixture(t, clinicAPI)

	status, _ := f.do(t, http.MethodPost, "/api/v1/forms/invoice", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_FormTokenRequired(t *testing.T) {
	f := newConsoleFixture(t, clinicAPI)
	first := f.open(t, "patient")
	second := f.open(t, "patient")

	status, _ := f.do(t, http.MethodGet, "/api/v1/forms/"+first.Form.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = f.do(t, http.MethodGet, "/api/v1/forms/"+first.Form.ID, "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = f.do(t, http.MethodGet, "/api/v1/forms/"+first.Form.ID, second.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = f.do(t, http.MethodGet, "/api/v1/forms/"+first.Form.ID, first.Token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRouter_PatientFlow(t *testing.T) {
	f := newConsoleFixture(t, clinicAPI)
	opened := f.open(t, "patient")
	base := "/api/v1/forms/" + opened.Form.ID

	status, env := f.do(t, http.MethodPost, base+"/submit", opened.Token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Por favor complete todos los campos.", env.Message)
	assert.Zero(t, f.creates.Load())

	status, _ = f.do(t, http.MethodPatch, base+"/fields", opened.Token, map[string]interface{}{
		"values": map[string]string{
			"nombreApellido": "Ana Ruiz",
			"correo":         "ana@example.com",
			"telefono":       "12345",
			"dni":            "12345678",
			"edad":           "40",
		},
	})
	require.Equal(t, http.StatusOK, status)

	status, env = f.do(t, http.MethodPost, base+"/submit", opened.Token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Zero(t, f.creates.Load())

	var rejected struct {
		Form struct {
			FieldErrors map[string]string `json:"field_errors"`
		} `json:"form"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rejected))
	assert.Equal(t, validator.PhoneMessage, rejected.Form.FieldErrors["telefono"])

	status, _ = f.do(t, http.MethodPatch, base+"/fields", opened.Token, map[string]interface{}{
		"values": map[string]string{"telefono": "987654321"},
	})
	require.Equal(t, http.StatusOK, status)

	status, env = f.do(t, http.MethodPost, base+"/submit", opened.Token, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Paciente registrado satisfactoriamente", env.Message)
	assert.Equal(t, int32(1), f.creates.Load())

	status, env = f.do(t, http.MethodGet, "/api/v1/registry", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"Id_Paciente":4`)

	status, _ = f.do(t, http.MethodPost, base+"/select", opened.Token, map[string]interface{}{"field": "x", "id": 1})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = f.do(t, http.MethodDelete, base, opened.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = f.do(t, http.MethodGet, base, opened.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = f.do(t, http.MethodDelete, base+"/notifications/"+uuid.NewString(), opened.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_ReceiptFlow(t *testing.T) {
	f := newConsoleFixture(t, clinicAPI)
	opened := f.open(t, "receipt")
	base := "/api/v1/forms/" + opened.Form.ID

	status, _ := f.do(t, http.MethodPost, base+"/select", opened.Token, map[string]interface{}{"field": "patientId", "id": 99})
	assert.Equal(t, http.StatusNotFound, status)

	status, env := f.do(t, http.MethodPost, base+"/select", opened.Token, map[string]interface{}{"field": "patientId", "id": 3})
	require.Equal(t, http.StatusOK, status)

	var view struct {
		Values map[string]string `json:"values"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "12345678", view.Values["dni"])
	assert.Equal(t, "80.5", view.Values["consultCost"])
	assert.Equal(t, "Crema", view.Values["description"])

	status, _ = f.do(t, http.MethodPost, base+"/select", opened.Token, map[string]interface{}{"field": "doctorId", "id": 7})
	require.Equal(t, http.StatusOK, status)

	status, _ = f.do(t, http.MethodPatch, base+"/fields", opened.Token, map[string]interface{}{
		"values": map[string]string{"dni": "87654321"},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = f.do(t, http.MethodPost, base+"/submit", opened.Token, nil)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "Error al registrar la boleta: Boleta duplicada", env.Message)

	status, env = f.do(t, http.MethodGet, base+"/notifications", opened.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "Boleta duplicada")
}

func TestRouter_SubmissionsDisabledWithoutDatabase(t *testing.T) {
	f := newConsoleFixture(t, clinicAPI)

	status, _ := f.do(t, http.MethodGet, "/api/v1/submissions", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}
