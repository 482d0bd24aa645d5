package sqlite

import (
	"context"
	"time"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
)

type commentsRepo struct {
	db querier
}

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, issue_id, engineer_id, text, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.IssueID, c.EngineerID, c.Text, now, now,
	)
	return mapConflict(err)
}

func (r *commentsRepo) GetCommentByID(ctx context.Context, id string) (domain.Comment, error) {
	var c domain.Comment
	err := r.db.QueryRowContext(ctx,
		`SELECT id, issue_id, engineer_id, text, created_at, updated_at
		 FROM comments WHERE id = ?`, id,
	).Scan(&c.ID, &c.IssueID, &c.EngineerID, &c.Text, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	return c, nil
}

func (r *commentsRepo) UpdateCommentText(ctx context.Context, commentID string, text string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE comments SET text = ?, updated_at = ? WHERE id = ?`,
		text, time.Now().UTC(), commentID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *commentsRepo) DeleteComment(ctx context.Context, commentID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, commentID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *commentsRepo) ListCommentsByIssue(ctx context.Context, issueID string) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, issue_id, engineer_id, text, created_at, updated_at
		 FROM comments
		 WHERE issue_id = ?
		 ORDER BY created_at DESC, id DESC`,
		issueID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.IssueID, &c.EngineerID, &c.Text, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
