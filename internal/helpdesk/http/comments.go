package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/service"
	"github.com/vvpcampus/helpdesk/pkg/httpx"
)

type CommentsHandler struct {
	CommentService *service.CommentService
}

type commentRequest struct {
	Text string `json:"text"`
}

type commentResponse struct {
	ID         string    `json:"id"`
	IssueID    string    `json:"issue_id"`
	EngineerID string    `json:"engineer_id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toCommentResponse(c domain.Comment) commentResponse {
	return commentResponse{
		ID:         c.ID,
		IssueID:    c.IssueID,
		EngineerID: c.EngineerID,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (h *CommentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, _ := IdentityFrom(ctx)

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Request body must be valid JSON.")
		return
	}

	c, err := h.CommentService.Create(ctx, ident, r.PathValue("id"), req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCommentResponse(c))
}

func (h *CommentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comments, err := h.CommentService.ListForIssue(ctx, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := struct {
		Comments []commentResponse `json:"comments"`
	}{Comments: make([]commentResponse, len(comments))}
	for n, c := range comments {
		resp.Comments[n] = toCommentResponse(c)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *CommentsHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, _ := IdentityFrom(ctx)

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Request body must be valid JSON.")
		return
	}

	c, err := h.CommentService.Edit(ctx, ident, r.PathValue("id"), req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCommentResponse(c))
}

func (h *CommentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, _ := IdentityFrom(ctx)

	if err := h.CommentService.Delete(ctx, ident, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
