package http

import (
	"net/http"

	"github.com/vvpcampus/helpdesk/pkg/httpx"
)

// MeHandler returns the caller's resolved identity. Clients use it after
// login to decide which dashboard to render.
type MeHandler struct{}

type meResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFrom(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized,
			"invalid_token", "No session.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, meResponse{
		UserID: ident.UserID,
		Email:  ident.Email,
		Role:   ident.Role.String(),
	})
}
