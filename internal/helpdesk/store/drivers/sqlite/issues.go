package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/store"
)

type issuesRepo struct {
	db querier
}

func (r *issuesRepo) CreateIssue(ctx context.Context, i domain.Issue) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO issues (id, dept_head_id, device_type, description, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.DeptHeadID, i.DeviceType.String(), i.Description, i.Status.String(), now, now,
	)
	return mapConflict(err)
}

func (r *issuesRepo) GetIssueByID(ctx context.Context, id string) (domain.Issue, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, dept_head_id, device_type, description, status, created_at, updated_at
		 FROM issues WHERE id = ?`, id,
	)
	return scanIssue(row)
}

func (r *issuesRepo) UpdateIssueStatus(ctx context.Context, issueID string, status domain.Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE issues SET status = ?, updated_at = ? WHERE id = ?`,
		status.String(), time.Now().UTC(), issueID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *issuesRepo) ListIssuesByDeptHead(
	ctx context.Context,
	deptHeadID string,
	page int,
) ([]domain.Issue, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, dept_head_id, device_type, description, status, created_at, updated_at
		 FROM issues
		 WHERE dept_head_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		deptHeadID, store.PageSize, pageOffset(page),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIssues(rows)
}

// ListIssuesVisibleToEngineer is the visibility union: every non-terminal
// issue plus any issue the engineer has commented on, deduplicated by the
// single WHERE clause rather than a status filter.
func (r *issuesRepo) ListIssuesVisibleToEngineer(
	ctx context.Context,
	engineerID string,
	page int,
) ([]domain.Issue, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.id, i.dept_head_id, i.device_type, i.description, i.status, i.created_at, i.updated_at
		 FROM issues i
		 WHERE i.status NOT IN ('completed', 'closed')
		    OR EXISTS (
		        SELECT 1 FROM comments c
		        WHERE c.issue_id = i.id AND c.engineer_id = ?
		    )
		 ORDER BY i.created_at DESC, i.id DESC
		 LIMIT ? OFFSET ?`,
		engineerID, store.PageSize, pageOffset(page),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIssues(rows)
}

func pageOffset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * store.PageSize
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanIssue(row rowScanner) (domain.Issue, error) {
	var (
		i          domain.Issue
		deviceType string
		status     string
	)
	err := row.Scan(&i.ID, &i.DeptHeadID, &deviceType, &i.Description, &status, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return domain.Issue{}, mapNotFound(err)
	}

	if i.DeviceType, err = domain.ParseDeviceType(deviceType); err != nil {
		return domain.Issue{}, err
	}
	if i.Status, err = domain.ParseStatus(status); err != nil {
		return domain.Issue{}, err
	}
	return i, nil
}

func collectIssues(rows *sql.Rows) ([]domain.Issue, error) {
	var out []domain.Issue
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}
