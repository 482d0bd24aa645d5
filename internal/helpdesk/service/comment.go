package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/notify"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/store"
	"github.com/vvpcampus/helpdesk/pkg/idx"
	"github.com/vvpcampus/helpdesk/pkg/slogx"
)

type CommentService struct {
	Store  store.Store
	Events Emitter
}

// Create adds an engineer comment to an issue. Commenting on a terminal
// issue is a state error, not a permissions one; the engineer was allowed,
// the issue just no longer accepts input.
func (s *CommentService) Create(
	ctx context.Context,
	ident domain.Identity,
	issueID, text string,
) (domain.Comment, error) {
	if ident.Role != domain.RoleEngineer {
		return domain.Comment{}, ErrWrongRole
	}
	if text == "" {
		return domain.Comment{}, fmt.Errorf("%w: comment text is required", ErrValidation)
	}

	i, err := s.Store.Issues().GetIssueByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, fmt.Errorf("%w: issue %s", ErrNotFound, issueID)
		}
		return domain.Comment{}, storeFailure(ctx, "issues.get", err)
	}
	if i.Status.Terminal() {
		return domain.Comment{}, ErrIssueTerminal
	}

	c := domain.Comment{
		ID:         idx.New().String(),
		IssueID:    i.ID,
		EngineerID: ident.UserID,
		Text:       text,
	}
	if err := s.Store.Comments().CreateComment(ctx, c); err != nil {
		return domain.Comment{}, storeFailure(ctx, "comments.create", err)
	}

	slogx.FromContext(ctx).Info("comment created",
		"comment_id", c.ID,
		"issue_id", i.ID,
		"engineer_id", ident.UserID,
	)
	s.Events.Emit(notify.Event{
		Kind:        notify.KindCommentAdded,
		DeviceType:  i.DeviceType,
		Description: i.Description,
		CommentText: text,
		ActorEmail:  ident.Email,
	})
	return c, nil
}

// Edit rewrites a comment's text. Only the author may edit, and only while
// the parent issue is still in a non-terminal state.
func (s *CommentService) Edit(
	ctx context.Context,
	ident domain.Identity,
	commentID, text string,
) (domain.Comment, error) {
	if text == "" {
		return domain.Comment{}, fmt.Errorf("%w: comment text is required", ErrValidation)
	}

	c, err := s.authorizeMutation(ctx, ident, commentID)
	if err != nil {
		return domain.Comment{}, err
	}

	if err := s.Store.Comments().UpdateCommentText(ctx, c.ID, text); err != nil {
		return domain.Comment{}, storeFailure(ctx, "comments.update", err)
	}
	c.Text = text
	return c, nil
}

// Delete removes a comment under the same rules as Edit.
func (s *CommentService) Delete(
	ctx context.Context,
	ident domain.Identity,
	commentID string,
) error {
	c, err := s.authorizeMutation(ctx, ident, commentID)
	if err != nil {
		return err
	}

	if err := s.Store.Comments().DeleteComment(ctx, c.ID); err != nil {
		return storeFailure(ctx, "comments.delete", err)
	}
	slogx.FromContext(ctx).Info("comment deleted",
		"comment_id", c.ID,
		"issue_id", c.IssueID,
	)
	return nil
}

// ListForIssue returns an issue's comments newest-first. Both roles may
// read comments on issues they can see.
func (s *CommentService) ListForIssue(ctx context.Context, issueID string) ([]domain.Comment, error) {
	out, err := s.Store.Comments().ListCommentsByIssue(ctx, issueID)
	if err != nil {
		return nil, storeFailure(ctx, "comments.list_by_issue", err)
	}
	return out, nil
}

// authorizeMutation loads the comment and its issue, checking authorship
// before state so an impostor learns nothing about the issue.
func (s *CommentService) authorizeMutation(
	ctx context.Context,
	ident domain.Identity,
	commentID string,
) (domain.Comment, error) {
	c, err := s.Store.Comments().GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, fmt.Errorf("%w: comment %s", ErrNotFound, commentID)
		}
		return domain.Comment{}, storeFailure(ctx, "comments.get", err)
	}
	if c.EngineerID != ident.UserID {
		return domain.Comment{}, ErrNotAuthor
	}

	i, err := s.Store.Issues().GetIssueByID(ctx, c.IssueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, fmt.Errorf("%w: issue %s", ErrNotFound, c.IssueID)
		}
		return domain.Comment{}, storeFailure(ctx, "issues.get", err)
	}
	if i.Status.Terminal() {
		return domain.Comment{}, ErrIssueTerminal
	}
	return c, nil
}
