package sqlite

import (
	"context"
	"time"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
)

type profilesRepo struct {
	db querier
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		p.UserID, p.Role.String(), now, now,
	)
	return mapConflict(err)
}

func (r *profilesRepo) GetProfileByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	var (
		p    domain.Profile
		role string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, role, created_at, updated_at
		 FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}

	p.Role, err = domain.ParseRole(role)
	if err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}
