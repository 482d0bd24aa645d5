package service

import (
	"context"
	"errors"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/store"
)

type ProfileService struct {
	Store store.Store
}

// Resolve returns the profile for a user ID. A user without a profile row
// gets ErrNoProfile, never a default role; callers must terminate the
// session in that case.
func (s *ProfileService) Resolve(ctx context.Context, userID string) (domain.Profile, error) {
	p, err := s.Store.Profiles().GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, ErrNoProfile
		}
		return domain.Profile{}, storeFailure(ctx, "profiles.get_by_user", err)
	}
	return p, nil
}
