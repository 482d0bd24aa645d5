package domain

import "time"

// Comment belongs to exactly one issue and is authored by an engineer.
// Only the author may edit or delete it, and only while the parent issue
// is in a non-terminal state.
type Comment struct {
	ID         string
	IssueID    string
	EngineerID string
	Text       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
