package service

import (
	"context"
	"errors"
	"time"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/store"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/throttle"
	"github.com/vvpcampus/helpdesk/pkg/cryptox"
	"github.com/vvpcampus/helpdesk/pkg/jwtx"
	"github.com/vvpcampus/helpdesk/pkg/slogx"
)

type AuthService struct {
	Store    store.Store
	Throttle *throttle.Limiter
	Sessions *jwtx.Signer
}

// Session is a successful authentication result.
type Session struct {
	User  domain.User
	Role  domain.Role
	Token string
}

// Authenticate checks credentials for the given email and mints a session
// token. The failure counter for the (email, origin) pair is consulted
// before the credential store is touched at all, so a locked-out pair
// cannot probe whether an account exists. Any successful login clears the
// pair's counter.
func (s *AuthService) Authenticate(
	ctx context.Context,
	email, password, origin string,
) (Session, error) {
	log := slogx.FromContext(ctx)

	email = NormalizeEmail(email)

	if s.Throttle.Locked(email, origin) {
		log.Warn("login attempt while locked out",
			"email", email,
			"origin", origin,
		)
		return Session{}, ErrLockedOut
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.recordFailure(ctx, email, origin)
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, storeFailure(ctx, "users.get_by_email", err)
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		s.recordFailure(ctx, email, origin)
		return Session{}, ErrInvalidCredentials
	}

	p, err := s.Store.Profiles().GetProfileByUserID(ctx, u.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Credentials were fine, so this is not a throttle event; the
			// account is simply unusable until a profile exists.
			return Session{}, ErrNoProfile
		}
		return Session{}, storeFailure(ctx, "profiles.get_by_user", err)
	}

	s.Throttle.Reset(email, origin)

	token, err := s.Sessions.Sign(u.ID, u.Email, p.Role.String(), time.Now())
	if err != nil {
		return Session{}, storeFailure(ctx, "sessions.sign", err)
	}

	log.Info("user authenticated",
		"user_id", u.ID,
		"role", p.Role.String(),
	)
	return Session{User: u, Role: p.Role, Token: token}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email, origin string) {
	n := s.Throttle.RecordFailure(email, origin)
	slogx.FromContext(ctx).Info("login failed",
		"email", email,
		"origin", origin,
		"failures", n,
	)
}
