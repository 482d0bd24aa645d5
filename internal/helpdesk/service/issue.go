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

type IssueService struct {
	Store  store.Store
	Events Emitter

	// AllowDirectClose lets the owning department head close an issue
	// straight from open, skipping the engineer workflow entirely.
	AllowDirectClose bool
}

// Create files a new issue. Only department heads may file; the issue is
// owned by the caller and always starts open.
func (s *IssueService) Create(
	ctx context.Context,
	ident domain.Identity,
	deviceType, description string,
) (domain.Issue, error) {
	if ident.Role != domain.RoleDeptHead {
		return domain.Issue{}, ErrWrongRole
	}

	dt, err := domain.ParseDeviceType(deviceType)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("%w: unknown device type %q", ErrValidation, deviceType)
	}
	if description == "" {
		return domain.Issue{}, fmt.Errorf("%w: description is required", ErrValidation)
	}

	i := domain.Issue{
		ID:          idx.New().String(),
		DeptHeadID:  ident.UserID,
		DeviceType:  dt,
		Description: description,
		Status:      domain.StatusOpen,
	}
	if err := s.Store.Issues().CreateIssue(ctx, i); err != nil {
		return domain.Issue{}, storeFailure(ctx, "issues.create", err)
	}

	slogx.FromContext(ctx).Info("issue created",
		"issue_id", i.ID,
		"device_type", dt.String(),
		"dept_head_id", ident.UserID,
	)
	s.Events.Emit(notify.Event{
		Kind:        notify.KindIssueCreated,
		DeviceType:  dt,
		Description: description,
		OwnerEmail:  ident.Email,
		ActorEmail:  ident.Email,
	})
	return i, nil
}

// Transition moves an issue to a new status, enforcing the role matrix:
//
//   - nobody may move an issue out of a terminal state
//   - engineers may move any issue between open, in_progress and resolved
//   - the owning department head may mark completed, and (when direct
//     close is enabled) close an issue that is still open
//   - a non-owning department head may not touch the issue at all
func (s *IssueService) Transition(
	ctx context.Context,
	ident domain.Identity,
	issueID, newStatus string,
) (domain.Issue, error) {
	target, err := domain.ParseStatus(newStatus)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	i, err := s.Store.Issues().GetIssueByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Issue{}, fmt.Errorf("%w: issue %s", ErrNotFound, issueID)
		}
		return domain.Issue{}, storeFailure(ctx, "issues.get", err)
	}

	// Terminal issues are frozen for everyone, owner included.
	if i.Status.Terminal() {
		return domain.Issue{}, ErrIssueTerminal
	}

	if err := s.allowTransition(ident, i, target); err != nil {
		return domain.Issue{}, err
	}

	if err := s.Store.Issues().UpdateIssueStatus(ctx, i.ID, target); err != nil {
		return domain.Issue{}, storeFailure(ctx, "issues.update_status", err)
	}

	old := i.Status
	i.Status = target

	slogx.FromContext(ctx).Info("issue transitioned",
		"issue_id", i.ID,
		"from", old.String(),
		"to", target.String(),
		"actor_id", ident.UserID,
	)
	s.Events.Emit(notify.Event{
		Kind:        notify.KindIssueTransitioned,
		DeviceType:  i.DeviceType,
		Description: i.Description,
		OwnerEmail:  s.ownerEmail(ctx, ident, i),
		OldStatus:   old,
		NewStatus:   target,
		ActorEmail:  ident.Email,
	})
	return i, nil
}

// ownerEmail resolves the owning dept_head's address for a notification.
// The transition has already committed, so a failed lookup only degrades
// the mail, never the operation.
func (s *IssueService) ownerEmail(ctx context.Context, ident domain.Identity, i domain.Issue) string {
	if i.DeptHeadID == ident.UserID {
		return ident.Email
	}
	owner, err := s.Store.Users().GetUserByID(ctx, i.DeptHeadID)
	if err != nil {
		slogx.FromContext(ctx).Warn("owner lookup for notification failed",
			"issue_id", i.ID,
			"dept_head_id", i.DeptHeadID,
			"error", err,
		)
		return ""
	}
	return owner.Email
}

func (s *IssueService) allowTransition(ident domain.Identity, i domain.Issue, target domain.Status) error {
	switch ident.Role {
	case domain.RoleEngineer:
		switch target {
		case domain.StatusOpen, domain.StatusInProgress, domain.StatusResolved:
			return nil
		default:
			return ErrBadTransition
		}

	case domain.RoleDeptHead:
		if i.DeptHeadID != ident.UserID {
			return ErrNotOwner
		}
		switch target {
		case domain.StatusCompleted:
			return nil
		case domain.StatusClosed:
			if s.AllowDirectClose && i.Status == domain.StatusOpen {
				return nil
			}
			return ErrBadTransition
		default:
			return ErrBadTransition
		}

	default:
		return ErrWrongRole
	}
}

// ListForDeptHead returns the caller's own issues, newest first, one page
// at a time.
func (s *IssueService) ListForDeptHead(
	ctx context.Context,
	ident domain.Identity,
	page int,
) ([]domain.Issue, error) {
	if ident.Role != domain.RoleDeptHead {
		return nil, ErrWrongRole
	}
	if page < 1 {
		page = 1
	}
	out, err := s.Store.Issues().ListIssuesByDeptHead(ctx, ident.UserID, page)
	if err != nil {
		return nil, storeFailure(ctx, "issues.list_by_dept_head", err)
	}
	return out, nil
}

// ListForEngineer returns the engineer's working set: every issue still in
// a non-terminal state, plus closed issues the engineer commented on.
func (s *IssueService) ListForEngineer(
	ctx context.Context,
	ident domain.Identity,
	page int,
) ([]domain.Issue, error) {
	if ident.Role != domain.RoleEngineer {
		return nil, ErrWrongRole
	}
	if page < 1 {
		page = 1
	}
	out, err := s.Store.Issues().ListIssuesVisibleToEngineer(ctx, ident.UserID, page)
	if err != nil {
		return nil, storeFailure(ctx, "issues.list_visible_to_engineer", err)
	}
	return out, nil
}

// Get returns a single issue by ID.
func (s *IssueService) Get(ctx context.Context, issueID string) (domain.Issue, error) {
	i, err := s.Store.Issues().GetIssueByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Issue{}, fmt.Errorf("%w: issue %s", ErrNotFound, issueID)
		}
		return domain.Issue{}, storeFailure(ctx, "issues.get", err)
	}
	return i, nil
}
