package http

import (
	"encoding/json"
	"net/http"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/service"
	"github.com/vvpcampus/helpdesk/pkg/httpx"
)

type RegisterHandler struct {
	RegisterService *service.RegisterService
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type registerResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Request body must be valid JSON.")
		return
	}

	u, err := h.RegisterService.Register(ctx, req.Email, req.Password, req.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// Register validated the role, so this parse only canonicalizes.
	role, _ := domain.ParseRole(req.Role)

	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		UserID: u.ID,
		Email:  u.Email,
		Role:   role.String(),
	})
}
