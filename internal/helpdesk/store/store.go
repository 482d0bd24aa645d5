package store

import (
	"context"
	"errors"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// PageSize is how many issues a dashboard page shows.
const PageSize = 5

// Store is the root data access interface. Concrete drivers implement this.
// It exposes sub-repositories to keep concerns tidy and testable.
//
// Ownership/cascade rules the driver must enforce:
//   - deleting a user removes their profile, issues and comments
//   - deleting an issue removes its comments
type Store interface {
	Users() Users
	Profiles() Profiles
	Issues() Issues
	Comments() Comments
	Devices() Devices

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Registration
	// (user + profile as one unit) is the only multi-step mutation that
	// needs this.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Tx starts a read/write transaction. The caller MUST Commit or
	// Rollback the returned Tx. Prefer WithTx.
	Tx(ctx context.Context) (Tx, error)

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user. The email must already be normalized
	// (trimmed, lower-cased); a duplicate returns ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up a user by normalized email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// DeleteUser cascades to profile, issues and comments (per schema).
	DeleteUser(ctx context.Context, userID string) error
}

type Profiles interface {
	// CreateProfile inserts the 1:1 profile row for a user.
	CreateProfile(ctx context.Context, p domain.Profile) error

	// GetProfileByUserID returns ErrNotFound when the user has no profile;
	// callers must treat that as a distinct no-role state, never a default.
	GetProfileByUserID(ctx context.Context, userID string) (domain.Profile, error)
}

type Issues interface {
	CreateIssue(ctx context.Context, i domain.Issue) error

	GetIssueByID(ctx context.Context, id string) (domain.Issue, error)

	// UpdateIssueStatus sets the status and bumps updated_at.
	UpdateIssueStatus(ctx context.Context, issueID string, status domain.Status) error

	// ListIssuesByDeptHead returns the owner's issues newest-first,
	// paginated (page is 1-based).
	ListIssuesByDeptHead(ctx context.Context, deptHeadID string, page int) ([]domain.Issue, error)

	// ListIssuesVisibleToEngineer returns issues that are in a non-terminal
	// state OR that the engineer has commented on, as one distinct set,
	// newest-first and paginated. An engineer keeps seeing an issue they
	// engaged with even after it is closed.
	ListIssuesVisibleToEngineer(ctx context.Context, engineerID string, page int) ([]domain.Issue, error)
}

type Comments interface {
	CreateComment(ctx context.Context, c domain.Comment) error

	GetCommentByID(ctx context.Context, id string) (domain.Comment, error)

	// UpdateCommentText sets the text and bumps updated_at.
	UpdateCommentText(ctx context.Context, commentID string, text string) error

	DeleteComment(ctx context.Context, commentID string) error

	// ListCommentsByIssue returns an issue's comments newest-first.
	ListCommentsByIssue(ctx context.Context, issueID string) ([]domain.Comment, error)
}

type Devices interface {
	CreateDevice(ctx context.Context, d domain.Device) error
	GetDeviceByID(ctx context.Context, id string) (domain.Device, error)
	UpdateDevice(ctx context.Context, d domain.Device) error
	DeleteDevice(ctx context.Context, deviceID string) error
	ListDevices(ctx context.Context) ([]domain.Device, error)
}
