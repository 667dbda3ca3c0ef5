package middleware

import (
	"context"
	"net/http"
	"strings"

	"clinic-console/pkg/jwt"
	"clinic-console/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type contextKey string

const (
	FormIDKey   contextKey = "form_id"
	FormKindKey contextKey = "form_kind"
)

type FormTokenMiddleware struct {
	jwtService *jwt.JWTService
}

func NewFormTokenMiddleware(jwtService *jwt.JWTService) *FormTokenMiddleware {
	return &FormTokenMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate requires a form token issued for the session named by the
// {id} route variable.
func (m *FormTokenMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		formID, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid form ID", nil)
			return
		}
		if claims.FormID != formID {
			response.Forbidden(w, "Token was issued for another form")
			return
		}

		ctx := context.WithValue(r.Context(), FormIDKey, claims.FormID)
		ctx = context.WithValue(ctx, FormKindKey, claims.FormKind)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetFormIDFromContext extracts the authenticated form ID from context
func GetFormIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	formID, ok := ctx.Value(FormIDKey).(uuid.UUID)
	return formID, ok
}

// GetFormKindFromContext extracts the authenticated form kind from context
func GetFormKindFromContext(ctx context.Context) (string, bool) {
	kind, ok := ctx.Value(FormKindKey).(string)
	return kind, ok
}
