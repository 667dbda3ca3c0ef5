package http

import (
	"net/http"

	"clinic-console/internal/delivery/http/handler"
	"clinic-console/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	formHandler          *handler.FormHandler
	submissionLogHandler *handler.SubmissionLogHandler
	formTokenMiddleware  *middleware.FormTokenMiddleware
	corsMiddleware       *middleware.CORSMiddleware
}

func NewRouter(
	formHandler *handler.FormHandler,
	submissionLogHandler *handler.SubmissionLogHandler,
	formTokenMiddleware *middleware.FormTokenMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		formHandler:          formHandler,
		submissionLogHandler: submissionLogHandler,
		formTokenMiddleware:  formTokenMiddleware,
		corsMiddleware:       corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Navigation and form mounting (public)
	api.HandleFunc("/forms", r.formHandler.GetNavigation).Methods(http.MethodGet)
	api.HandleFunc("/forms/{kind:[a-z]+}", r.formHandler.OpenForm).Methods(http.MethodPost)

	// Form session routes (protected by form token)
	forms := api.PathPrefix("/forms/{id}").Subrouter()
	forms.Use(r.formTokenMiddleware.Authenticate)
	forms.HandleFunc("", r.formHandler.GetForm).Methods(http.MethodGet)
	forms.HandleFunc("", r.formHandler.CloseForm).Methods(http.MethodDelete)
	forms.HandleFunc("/fields", r.formHandler.UpdateFields).Methods(http.MethodPatch)
	forms.HandleFunc("/submit", r.formHandler.SubmitForm).Methods(http.MethodPost)
	forms.HandleFunc("/notifications", r.formHandler.GetNotifications).Methods(http.MethodGet)
	forms.HandleFunc("/notifications/{notificationId}", r.formHandler.DismissNotification).Methods(http.MethodDelete)
	forms.Handle("/select", middleware.RequireReferenceForm(http.HandlerFunc(r.formHandler.SelectReference))).Methods(http.MethodPost)

	// Records created in this process and the submission audit
	api.HandleFunc("/registry", r.formHandler.GetRegistry).Methods(http.MethodGet)
	api.HandleFunc("/submissions", r.submissionLogHandler.GetAllSubmissionLogs).Methods(http.MethodGet)
	api.HandleFunc("/submissions/{id:[0-9]+}", r.submissionLogHandler.GetSubmissionLog).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
