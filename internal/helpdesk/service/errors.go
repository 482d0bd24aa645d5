package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vvpcampus/helpdesk/pkg/slogx"
)

// Error kinds. Every error a service returns wraps exactly one of these so
// the HTTP boundary can branch with errors.Is without inspecting strings.
var (
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")
	ErrAuthorization    = errors.New("not authorized")
	ErrNotFound         = errors.New("not found")
	ErrState            = errors.New("invalid state")
	ErrThrottled        = errors.New("too many attempts")
	ErrNoProfile        = errors.New("account has no role")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Specific errors, each wrapping its kind.
var (
	ErrEmailShape         = fmt.Errorf("%w: email not allowed for this role", ErrValidation)
	ErrEmailTaken         = fmt.Errorf("%w: an account with this email already exists", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrAuthorization)
	ErrLockedOut          = fmt.Errorf("%w: try again later", ErrThrottled)
	ErrNotOwner           = fmt.Errorf("%w: only the issue owner may do this", ErrAuthorization)
	ErrWrongRole          = fmt.Errorf("%w: role may not perform this action", ErrAuthorization)
	ErrNotAuthor          = fmt.Errorf("%w: only the comment author may do this", ErrAuthorization)
	ErrIssueTerminal      = fmt.Errorf("%w: issue is closed", ErrState)
	ErrBadTransition      = fmt.Errorf("%w: status not reachable for this role", ErrAuthorization)
)

// storeFailure logs the underlying store error with full context and
// surfaces only a generic retry-later kind; internal detail never reaches
// the caller.
func storeFailure(ctx context.Context, op string, err error) error {
	slogx.FromContext(ctx).Error("store operation failed",
		"op", op,
		"error", err,
	)
	return fmt.Errorf("%w: %s", ErrStoreUnavailable, op)
}
