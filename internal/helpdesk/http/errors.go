package http

import (
	"errors"
	"net/http"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/service"
	"github.com/vvpcampus/helpdesk/pkg/httpx"
	"github.com/vvpcampus/helpdesk/pkg/slogx"
)

// writeServiceError translates service error kinds into HTTP responses.
// Specific wrappers are matched before their kinds so credentials failures
// land on 401 rather than the generic 403.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized,
			"invalid_credentials", "Invalid email or password.")

	case errors.Is(err, service.ErrNoProfile):
		httpx.WriteError(w, http.StatusUnauthorized,
			"no_role", "This account has no role assigned. Contact an administrator.")

	case errors.Is(err, service.ErrThrottled):
		httpx.WriteError(w, http.StatusTooManyRequests,
			"too_many_attempts", "Too many failed attempts. Try again later.")

	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", err.Error())

	case errors.Is(err, service.ErrAuthorization):
		httpx.WriteError(w, http.StatusForbidden,
			"forbidden", err.Error())

	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound,
			"not_found", err.Error())

	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict,
			"conflict", err.Error())

	case errors.Is(err, service.ErrState):
		httpx.WriteError(w, http.StatusConflict,
			"invalid_state", err.Error())

	case errors.Is(err, service.ErrStoreUnavailable):
		httpx.WriteError(w, http.StatusServiceUnavailable,
			"service_unavailable", "Temporary storage problem. Try again shortly.")

	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "Something went wrong.")
	}
}
