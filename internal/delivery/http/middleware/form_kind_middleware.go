package middleware

import (
	"net/http"

	"clinic-console/internal/domain/entity"
	"clinic-console/pkg/response"
)

// RequireFormKind creates a middleware that checks if the form has any of the allowed kinds
// Kind is read from context (set by FormTokenMiddleware from JWT claims)
func RequireFormKind(allowed ...entity.FormKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			kind, ok := GetFormKindFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Form information not found")
				return
			}

			for _, k := range allowed {
				if entity.FormKind(kind) == k {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "This form has no reference selections")
		})
	}
}

// RequireReferenceForm is a convenience middleware for forms that select
// patients or doctors
func RequireReferenceForm(next http.Handler) http.Handler {
	return RequireFormKind(entity.FormKindAppointment, entity.FormKindPrescription, entity.FormKindReceipt)(next)
}
