package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/store"
	"github.com/vvpcampus/helpdesk/pkg/cryptox"
	"github.com/vvpcampus/helpdesk/pkg/idx"
	"github.com/vvpcampus/helpdesk/pkg/slogx"
)

// deptHeadPrefixes are the local-part prefixes a department head address
// must start with: one short-code per department, suffixed "hod".
var deptHeadPrefixes = func() []string {
	depts := []string{"it", "ce", "bt", "me", "ch", "ec", "cv"}
	out := make([]string, len(depts))
	for i, d := range depts {
		out[i] = d + "hod"
	}
	return out
}()

type RegisterService struct {
	Store store.Store

	// EmailDomain is the allowed address domain, e.g. "vvpedulink.ac.in".
	EmailDomain string
}

// Register validates the email for the requested role, then creates the
// user and its profile atomically. A duplicate email (including a lost race
// against a concurrent registration) comes back as ErrEmailTaken, never as
// a half-created account.
func (s *RegisterService) Register(
	ctx context.Context,
	email, password, role string,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email = NormalizeEmail(email)

	r, err := domain.ParseRole(role)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: role must be engineer or dept_head", ErrValidation)
	}

	if err := s.validateEmail(email, r); err != nil {
		return domain.User{}, err
	}
	if password == "" {
		return domain.User{}, fmt.Errorf("%w: password is required", ErrValidation)
	}

	// Fast-path duplicate check; the unique constraint below still catches
	// the concurrent case.
	_, err = s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		return domain.User{}, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, storeFailure(ctx, "users.get_by_email", err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, storeFailure(ctx, "hash_password", err)
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return tx.Profiles().CreateProfile(ctx, domain.Profile{
			UserID: u.ID,
			Role:   r,
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Info("registration lost uniqueness race", "email", email)
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, storeFailure(ctx, "users.create", err)
	}

	log.Info("user registered",
		"user_id", u.ID,
		"email", email,
		"role", r.String(),
	)
	return u, nil
}

// validateEmail applies the role-conditioned shape rules: the address must
// belong to the college domain, and department heads must additionally use
// one of the known department HOD prefixes. Domain check runs first.
func (s *RegisterService) validateEmail(email string, role domain.Role) error {
	local, dom, ok := strings.Cut(email, "@")
	if !ok || local == "" || dom == "" {
		return fmt.Errorf("%w: malformed email address", ErrValidation)
	}

	if !strings.EqualFold(dom, s.EmailDomain) {
		return ErrEmailShape
	}

	if role == domain.RoleDeptHead {
		for _, prefix := range deptHeadPrefixes {
			if strings.HasPrefix(local, prefix) {
				return nil
			}
		}
		return ErrEmailShape
	}

	return nil
}

// NormalizeEmail trims and lower-cases an address. All storage and lookups
// go through this so uniqueness is effectively case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
