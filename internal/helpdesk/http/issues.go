package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/service"
	"github.com/vvpcampus/helpdesk/pkg/httpx"
)

type IssuesHandler struct {
	IssueService *service.IssueService
}

type createIssueRequest struct {
	DeviceType  string `json:"device_type"`
	Description string `json:"description"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

type issueResponse struct {
	ID          string    `json:"id"`
	DeviceType  string    `json:"device_type"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type issueListResponse struct {
	Issues []issueResponse `json:"issues"`
	Page   int             `json:"page"`
}

func toIssueResponse(i domain.Issue) issueResponse {
	return issueResponse{
		ID:          i.ID,
		DeviceType:  i.DeviceType.String(),
		Description: i.Description,
		Status:      i.Status.String(),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func (h *IssuesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, _ := IdentityFrom(ctx)

	var req createIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Request body must be valid JSON.")
		return
	}

	i, err := h.IssueService.Create(ctx, ident, req.DeviceType, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toIssueResponse(i))
}

// HandleList serves the caller's dashboard: department heads see their own
// issues, engineers see their working set.
func (h *IssuesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, _ := IdentityFrom(ctx)

	page := pageParam(r)

	var (
		issues []domain.Issue
		err    error
	)
	switch ident.Role {
	case domain.RoleDeptHead:
		issues, err = h.IssueService.ListForDeptHead(ctx, ident, page)
	case domain.RoleEngineer:
		issues, err = h.IssueService.ListForEngineer(ctx, ident, page)
	default:
		err = service.ErrWrongRole
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := issueListResponse{
		Issues: make([]issueResponse, len(issues)),
		Page:   page,
	}
	for n, i := range issues {
		resp.Issues[n] = toIssueResponse(i)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *IssuesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	i, err := h.IssueService.Get(ctx, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toIssueResponse(i))
}

func (h *IssuesHandler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, _ := IdentityFrom(ctx)

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Request body must be valid JSON.")
		return
	}

	i, err := h.IssueService.Transition(ctx, ident, r.PathValue("id"), req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toIssueResponse(i))
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
