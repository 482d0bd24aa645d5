package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
)

// Kind identifies what happened.
type Kind string

const (
	KindIssueCreated      Kind = "issue_created"
	KindIssueTransitioned Kind = "issue_transitioned"
	KindCommentAdded      Kind = "comment_added"
)

// Event is an outbound notification emitted after a mutation commits. It is
// strictly best-effort: nothing downstream of Emit may influence the
// operation that produced it.
type Event struct {
	Kind        Kind
	DeviceType  domain.DeviceType
	Description string
	OwnerEmail  string
	OldStatus   domain.Status // only for transitions
	NewStatus   domain.Status // only for transitions
	CommentText string        // only for comments
	ActorEmail  string
}

// Subject renders the mail subject line for the event.
func (e Event) Subject() string {
	switch e.Kind {
	case KindIssueCreated:
		return "New Issue Created"
	case KindIssueTransitioned:
		return fmt.Sprintf("Issue %s", e.NewStatus)
	case KindCommentAdded:
		return "New Comment Added"
	default:
		return string(e.Kind)
	}
}

// Body renders the mail body for the event.
func (e Event) Body() string {
	switch e.Kind {
	case KindIssueCreated:
		return fmt.Sprintf(
			"A new issue has been created.\n\nDevice: %s\nDescription: %s\nBy: %s\n",
			e.DeviceType, e.Description, e.OwnerEmail,
		)
	case KindIssueTransitioned:
		return fmt.Sprintf(
			"An issue moved from %s to %s.\n\nDevice: %s\nDescription: %s\nOwner: %s\nBy: %s\n",
			e.OldStatus, e.NewStatus, e.DeviceType, e.Description, e.OwnerEmail, e.ActorEmail,
		)
	case KindCommentAdded:
		return fmt.Sprintf(
			"A new comment was added to an issue (Device: %s).\n\nComment: %s\nBy: %s\n",
			e.DeviceType, e.CommentText, e.ActorEmail,
		)
	default:
		return ""
	}
}

// Sender delivers a single event somewhere. Implementations must be safe
// for concurrent use.
type Sender interface {
	Send(ctx context.Context, ev Event) error
}

// LogSender is the dev fallback: it just logs the event.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, ev Event) error {
	s.Logger.Info("notification",
		"kind", string(ev.Kind),
		"subject", ev.Subject(),
		"device_type", ev.DeviceType.String(),
	)
	return nil
}
