package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"clinic-console/config"
	"clinic-console/internal/converter"
	"clinic-console/internal/delivery/dto"
	"clinic-console/internal/domain/entity"
	"clinic-console/internal/domain/repository"
	"clinic-console/internal/form"
	"clinic-console/internal/infrastructure/clinicapi"
	"clinic-console/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrFormNotFound    = errors.New("form not found")
	ErrUnknownFormKind = errors.New("unknown form kind")
	ErrIncompleteForm  = errors.New("required fields are empty")
	ErrInvalidFields   = errors.New("fields failed validation")
	// ErrSubmissionInFlight is returned when a submit arrives while the
	// previous one has not completed.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrSubmissionFailed   = errors.New("clinic API rejected the submission")
)

// ClinicGateway posts create requests to the clinic API.
type ClinicGateway interface {
	Create(ctx context.Context, endpoint string, payload interface{}) ([]byte, error)
}

// TokenIssuer signs form tokens.
type TokenIssuer interface {
	GenerateFormToken(formID uuid.UUID, formKind string) (string, error)
	GetExpiry() time.Duration
}

type FormUsecase interface {
	Navigation(ctx context.Context) []dto.NavigationEntry
	Open(ctx context.Context, kind string) (*dto.OpenFormResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.FormResponse, error)
	UpdateFields(ctx context.Context, id uuid.UUID, req *dto.UpdateFieldsRequest) (*dto.FormResponse, error)
	Select(ctx context.Context, id uuid.UUID, req *dto.SelectRequest) (*dto.FormResponse, error)
	// Submit returns the form view together with ErrIncompleteForm,
	// ErrInvalidFields or ErrSubmissionFailed so callers can show the
	// notification it produced.
	Submit(ctx context.Context, id uuid.UUID) (*dto.SubmitResponse, error)
	Close(ctx context.Context, id uuid.UUID) error
	Notifications(ctx context.Context, id uuid.UUID) ([]dto.NotificationResponse, error)
	DismissNotification(ctx context.Context, id, notificationID uuid.UUID) error
	Registry(ctx context.Context) *dto.RegistryResponse
}

type formUsecase struct {
	log              *logrus.Logger
	checker          form.Checker
	sessionRepo      repository.FormSessionRepository
	notificationRepo repository.NotificationRepository
	gateway          ClinicGateway
	references       service.ReferenceLoader
	audit            service.SubmissionAuditService
	state            *service.AppState
	tokens           TokenIssuer
	sessionTTL       time.Duration
	notificationTTL  time.Duration
	now              func() time.Time

	mu       sync.Mutex
	inflight map[uuid.UUID]context.CancelFunc
}

func NewFormUsecase(
	log *logrus.Logger,
	checker form.Checker,
	sessionRepo repository.FormSessionRepository,
	notificationRepo repository.NotificationRepository,
	gateway ClinicGateway,
	references service.ReferenceLoader,
	audit service.SubmissionAuditService,
	state *service.AppState,
	tokens TokenIssuer,
	formCfg config.FormConfig,
	notificationCfg config.NotificationConfig,
) FormUsecase {
	return &formUsecase{
		log:              log,
		checker:          checker,
		sessionRepo:      sessionRepo,
		notificationRepo: notificationRepo,
		gateway:          gateway,
		references:       references,
		audit:            audit,
		state:            state,
		tokens:           tokens,
		sessionTTL:       formCfg.SessionTTL,
		notificationTTL:  notificationCfg.TTL,
		now:              time.Now,
		inflight:         make(map[uuid.UUID]context.CancelFunc),
	}
}

func (u *formUsecase) Navigation(ctx context.Context) []dto.NavigationEntry {
	return converter.DefinitionsToNavigation(form.Definitions())
}

// Open mounts a new form session, loading the reference collections the form
// selects from.
func (u *formUsecase) Open(ctx context.Context, kind string) (*dto.OpenFormResponse, error) {
	def, ok := form.Lookup(entity.FormKind(kind))
	if !ok {
		return nil, ErrUnknownFormKind
	}

	refs := u.references.Load(ctx, def.NeedsPatients, def.NeedsDoctors)

	now := u.now()
	session := &entity.FormSession{
		ID:        uuid.New(),
		Kind:      def.Kind,
		State:     entity.FormStateIdle,
		Patients:  refs.Patients,
		Doctors:   refs.Doctors,
		CreatedAt: now,
		UpdatedAt: now,
	}
	session.Reset(def.FieldNames())

	if err := u.sessionRepo.Save(ctx, session, u.sessionTTL); err != nil {
		u.log.Warnf("Failed to save form session: %+v", err)
		return nil, err
	}

	token, err := u.tokens.GenerateFormToken(session.ID, string(session.Kind))
	if err != nil {
		u.log.Errorf("Failed to sign form token: %+v", err)
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"form_id": session.ID, "form_kind": session.Kind}).Info("Form opened")

	return &dto.OpenFormResponse{
		Form:      *converter.FormSessionToResponse(def, session, nil),
		Token:     token,
		ExpiresIn: int64(u.tokens.GetExpiry().Seconds()),
	}, nil
}

func (u *formUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.FormResponse, error) {
	def, session, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.view(ctx, def, session), nil
}

// UpdateFields writes raw values as typed. Nothing is stored if any field is
// rejected.
func (u *formUsecase) UpdateFields(ctx context.Context, id uuid.UUID, req *dto.UpdateFieldsRequest) (*dto.FormResponse, error) {
	def, session, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(req.Values))
	for name := range req.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := def.SetValue(session, name, req.Values[name]); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	if err := u.save(ctx, session); err != nil {
		return nil, err
	}
	return u.view(ctx, def, session), nil
}

// Select applies a reference selection. For the receipt form this copies the
// selected record's data into the dependent fields.
func (u *formUsecase) Select(ctx context.Context, id uuid.UUID, req *dto.SelectRequest) (*dto.FormResponse, error) {
	def, session, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := def.Select(session, req.Field, req.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", req.Field, err)
	}

	if err := u.save(ctx, session); err != nil {
		return nil, err
	}
	return u.view(ctx, def, session), nil
}

// Submit runs the submission flow:
// 1. Required guard, no network call when a field is empty
// 2. Format validation of every field
// 3. Atomic transition to pending, rejecting concurrent submits
// 4. One create request to the clinic API
// 5. Failure keeps the values; success resets them and records the new entity
func (u *formUsecase) Submit(ctx context.Context, id uuid.UUID) (*dto.SubmitResponse, error) {
	def, session, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.IsPending() {
		return nil, ErrSubmissionInFlight
	}

	if missing := def.Missing(session.Values); len(missing) > 0 {
		n := u.notify(ctx, id, entity.NotificationError, def.Messages.Incomplete)
		return u.submitView(ctx, def, session, n), ErrIncompleteForm
	}

	valid := def.Validate(u.checker, session.Values, session.FieldErrors)
	if err := u.save(ctx, session); err != nil {
		return nil, err
	}
	if !valid {
		n := u.notify(ctx, id, entity.NotificationError, def.Messages.Invalid)
		return u.submitView(ctx, def, session, n), ErrInvalidFields
	}

	payload, err := def.Build(session.Values, u.now())
	if err != nil {
		u.log.Errorf("Failed to build %s payload: %+v", def.Kind, err)
		return nil, err
	}

	if err := u.sessionRepo.Transition(ctx, id, entity.FormStatePending, entity.SubmittableStates...); err != nil {
		if errors.Is(err, repository.ErrStateConflict) {
			return nil, ErrSubmissionInFlight
		}
		return nil, u.mapSessionErr(err)
	}
	session.State = entity.FormStatePending

	reqCtx, done := u.track(ctx, id)
	body, sendErr := u.gateway.Create(reqCtx, def.Endpoint, payload)
	done()

	u.recordAttempt(ctx, session, def, payload, sendErr)

	if sendErr != nil {
		return u.submitFailed(ctx, def, session, sendErr)
	}
	return u.submitSucceeded(ctx, def, session, payload, body)
}

func (u *formUsecase) submitFailed(ctx context.Context, def *form.Definition, session *entity.FormSession, sendErr error) (*dto.SubmitResponse, error) {
	if err := u.sessionRepo.Transition(ctx, session.ID, entity.FormStateFailed, entity.FormStatePending); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			// Closed while the request was in flight.
			return nil, ErrFormNotFound
		}
		u.log.Warnf("Failed to mark form %s failed: %+v", session.ID, err)
		return nil, err
	}
	session.State = entity.FormStateFailed

	message := def.Messages.Failure
	if serverMessage, ok := clinicapi.ServerMessage(sendErr); ok {
		message = def.Messages.ServerFailure(serverMessage)
	}

	n := u.notify(ctx, session.ID, entity.NotificationError, message)
	return u.submitView(ctx, def, session, n), fmt.Errorf("%w: %w", ErrSubmissionFailed, sendErr)
}

func (u *formUsecase) submitSucceeded(ctx context.Context, def *form.Definition, session *entity.FormSession, payload form.Payload, body []byte) (*dto.SubmitResponse, error) {
	u.state.Append(payload.Created(body))

	// Closed while the request was in flight; Save would recreate it.
	if _, err := u.sessionRepo.FindByID(ctx, session.ID); err != nil {
		return nil, u.mapSessionErr(err)
	}

	session.Reset(def.FieldNames())
	if err := u.save(ctx, session); err != nil {
		u.log.Warnf("Failed to reset form %s: %+v", session.ID, err)
	}

	if err := u.sessionRepo.Transition(ctx, session.ID, entity.FormStateSucceeded, entity.FormStatePending); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrFormNotFound
		}
		u.log.Warnf("Failed to mark form %s succeeded: %+v", session.ID, err)
		return nil, err
	}
	session.State = entity.FormStateSucceeded

	n := u.notify(ctx, session.ID, entity.NotificationSuccess, def.Messages.Success)
	return u.submitView(ctx, def, session, n), nil
}

// Close discards a session and cancels its in-flight request, if any.
func (u *formUsecase) Close(ctx context.Context, id uuid.UUID) error {
	if _, _, err := u.load(ctx, id); err != nil {
		return err
	}

	u.mu.Lock()
	if cancel, ok := u.inflight[id]; ok {
		cancel()
		delete(u.inflight, id)
	}
	u.mu.Unlock()

	if err := u.sessionRepo.Delete(ctx, id); err != nil {
		return u.mapSessionErr(err)
	}
	if err := u.notificationRepo.DeleteByForm(ctx, id); err != nil {
		u.log.Warnf("Failed to delete notifications of form %s: %+v", id, err)
	}

	u.log.WithField("form_id", id).Info("Form closed")
	return nil
}

func (u *formUsecase) Notifications(ctx context.Context, id uuid.UUID) ([]dto.NotificationResponse, error) {
	if _, _, err := u.load(ctx, id); err != nil {
		return nil, err
	}

	notifications, err := u.notificationRepo.FindActive(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find notifications of form %s: %+v", id, err)
		return nil, err
	}
	return converter.NotificationsToResponses(notifications), nil
}

func (u *formUsecase) DismissNotification(ctx context.Context, id, notificationID uuid.UUID) error {
	if _, _, err := u.load(ctx, id); err != nil {
		return err
	}

	if err := u.notificationRepo.Dismiss(ctx, id, notificationID); err != nil {
		u.log.Warnf("Failed to dismiss notification %s: %+v", notificationID, err)
		return err
	}
	return nil
}

func (u *formUsecase) Registry(ctx context.Context) *dto.RegistryResponse {
	return converter.RegistryToResponse(u.state.Snapshot())
}

func (u *formUsecase) load(ctx context.Context, id uuid.UUID) (*form.Definition, *entity.FormSession, error) {
	session, err := u.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, u.mapSessionErr(err)
	}

	def, ok := form.Lookup(session.Kind)
	if !ok {
		u.log.Errorf("Form %s has unknown kind %q", id, session.Kind)
		return nil, nil, ErrUnknownFormKind
	}
	return def, session, nil
}

func (u *formUsecase) save(ctx context.Context, session *entity.FormSession) error {
	session.UpdatedAt = u.now()
	if err := u.sessionRepo.Save(ctx, session, u.sessionTTL); err != nil {
		u.log.Warnf("Failed to save form %s: %+v", session.ID, err)
		return u.mapSessionErr(err)
	}
	return nil
}

func (u *formUsecase) mapSessionErr(err error) error {
	if errors.Is(err, repository.ErrSessionNotFound) {
		return ErrFormNotFound
	}
	return err
}

// track derives the context of an upstream call. It outlives the caller's
// request and is cancelled only by Close or by done.
func (u *formUsecase) track(ctx context.Context, id uuid.UUID) (context.Context, func()) {
	reqCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	u.mu.Lock()
	u.inflight[id] = cancel
	u.mu.Unlock()

	return reqCtx, func() {
		u.mu.Lock()
		delete(u.inflight, id)
		u.mu.Unlock()
		cancel()
	}
}

func (u *formUsecase) notify(ctx context.Context, formID uuid.UUID, severity entity.NotificationSeverity, message string) *entity.Notification {
	now := u.now()
	n := &entity.Notification{
		ID:        uuid.New(),
		FormID:    formID,
		Severity:  severity,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(u.notificationTTL),
	}

	if err := u.notificationRepo.Push(ctx, n); err != nil {
		u.log.Warnf("Failed to push notification for form %s: %+v", formID, err)
	}
	return n
}

func (u *formUsecase) recordAttempt(ctx context.Context, session *entity.FormSession, def *form.Definition, payload form.Payload, sendErr error) {
	attempt := service.SubmissionAttempt{
		FormID:    session.ID,
		FormKind:  session.Kind,
		Endpoint:  def.Endpoint,
		Succeeded: sendErr == nil,
		Payload:   payload,
	}
	if sendErr != nil {
		attempt.StatusCode = clinicapi.StatusCode(sendErr)
		attempt.Message = sendErr.Error()
	}

	// Audit failures never fail the submission.
	_ = u.audit.Record(context.WithoutCancel(ctx), attempt)
}

func (u *formUsecase) view(ctx context.Context, def *form.Definition, session *entity.FormSession) *dto.FormResponse {
	notifications, err := u.notificationRepo.FindActive(ctx, session.ID)
	if err != nil {
		u.log.Warnf("Failed to find notifications of form %s: %+v", session.ID, err)
	}
	return converter.FormSessionToResponse(def, session, notifications)
}

func (u *formUsecase) submitView(ctx context.Context, def *form.Definition, session *entity.FormSession, n *entity.Notification) *dto.SubmitResponse {
	return &dto.SubmitResponse{
		Form:         *u.view(ctx, def, session),
		Notification: converter.NotificationToResponse(n),
	}
}
