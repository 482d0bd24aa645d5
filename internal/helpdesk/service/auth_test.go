package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/service"
	"github.com/vvpcampus/helpdesk/pkg/cryptox"
	"github.com/vvpcampus/helpdesk/pkg/idx"
)

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	const origin = "10.0.0.7"

	newSvc := func(t *testing.T) *service.AuthService {
		return &service.AuthService{
			Store:    newTestStore(t),
			Throttle: newThrottle(),
			Sessions: newTestSigner(),
		}
	}

	t.Run("valid credentials mint a session", func(t *testing.T) {
		svc := newSvc(t)
		mustRegister(t, svc.Store, "ravi@vvpedulink.ac.in", "engineer")

		sess, err := svc.Authenticate(ctx, "ravi@vvpedulink.ac.in", "hunter2hunter2", origin)
		require.NoError(t, err)
		require.Equal(t, domain.RoleEngineer, sess.Role)
		require.NotEmpty(t, sess.Token)

		claims, err := svc.Sessions.Verify(sess.Token)
		require.NoError(t, err)
		require.Equal(t, sess.User.ID, claims.Subject)
		require.Equal(t, "engineer", claims.Role)
	})

	t.Run("email matching ignores case", func(t *testing.T) {
		svc := newSvc(t)
		mustRegister(t, svc.Store, "ravi@vvpedulink.ac.in", "engineer")

		_, err := svc.Authenticate(ctx, "RAVI@VVPedulink.ac.in", "hunter2hunter2", origin)
		require.NoError(t, err)
	})

	t.Run("wrong password and unknown email look identical", func(t *testing.T) {
		svc := newSvc(t)
		mustRegister(t, svc.Store, "ravi@vvpedulink.ac.in", "engineer")

		_, err := svc.Authenticate(ctx, "ravi@vvpedulink.ac.in", "wrong", origin)
		require.ErrorIs(t, err, service.ErrInvalidCredentials)

		_, err2 := svc.Authenticate(ctx, "nobody@vvpedulink.ac.in", "wrong", origin)
		require.ErrorIs(t, err2, service.ErrInvalidCredentials)
		require.Equal(t, err.Error(), err2.Error())
	})

	t.Run("locks the pair after five failures", func(t *testing.T) {
		svc := newSvc(t)
		mustRegister(t, svc.Store, "ravi@vvpedulink.ac.in", "engineer")

		for i := 0; i < 5; i++ {
			_, err := svc.Authenticate(ctx, "ravi@vvpedulink.ac.in", "wrong", origin)
			require.ErrorIs(t, err, service.ErrInvalidCredentials)
		}

		// Correct password no longer helps until the window expires.
		_, err := svc.Authenticate(ctx, "ravi@vvpedulink.ac.in", "hunter2hunter2", origin)
		require.ErrorIs(t, err, service.ErrThrottled)
	})

	t.Run("lockout is scoped to the email and origin pair", func(t *testing.T) {
		svc := newSvc(t)
		mustRegister(t, svc.Store, "ravi@vvpedulink.ac.in", "engineer")
		mustRegister(t, svc.Store, "priya@vvpedulink.ac.in", "engineer")

		for i := 0; i < 5; i++ {
			_, _ = svc.Authenticate(ctx, "ravi@vvpedulink.ac.in", "wrong", origin)
		}

		// Same account from another origin is unaffected.
		_, err := svc.Authenticate(ctx, "ravi@vvpedulink.ac.in", "hunter2hunter2", "10.0.0.8")
		require.NoError(t, err)

		// Another account from the locked origin is unaffected too.
		_, err = svc.Authenticate(ctx, "priya@vvpedulink.ac.in", "hunter2hunter2", origin)
		require.NoError(t, err)
	})

	t.Run("success clears the failure counter", func(t *testing.T) {
		svc := newSvc(t)
		mustRegister(t, svc.Store, "ravi@vvpedulink.ac.in", "engineer")

		for i := 0; i < 4; i++ {
			_, _ = svc.Authenticate(ctx, "ravi@vvpedulink.ac.in", "wrong", origin)
		}
		_, err := svc.Authenticate(ctx, "ravi@vvpedulink.ac.in", "hunter2hunter2", origin)
		require.NoError(t, err)

		// Four fresh failures again must not lock: the old ones are gone.
		for i := 0; i < 4; i++ {
			_, err := svc.Authenticate(ctx, "ravi@vvpedulink.ac.in", "wrong", origin)
			require.ErrorIs(t, err, service.ErrInvalidCredentials)
		}
		_, err = svc.Authenticate(ctx, "ravi@vvpedulink.ac.in", "hunter2hunter2", origin)
		require.NoError(t, err)
	})

	t.Run("account without a profile cannot log in", func(t *testing.T) {
		svc := newSvc(t)

		hash, err := cryptox.HashPassword("hunter2hunter2")
		require.NoError(t, err)
		u := domain.User{
			ID:           idx.New().String(),
			Email:        "ghost@vvpedulink.ac.in",
			PasswordHash: hash,
		}
		require.NoError(t, svc.Store.Users().CreateUser(ctx, u))

		_, err = svc.Authenticate(ctx, "ghost@vvpedulink.ac.in", "hunter2hunter2", origin)
		require.ErrorIs(t, err, service.ErrNoProfile)
	})
}

func TestProfileResolve(t *testing.T) {
	ctx := context.Background()

	s := newTestStore(t)
	svc := &service.ProfileService{Store: s}

	ident := mustRegister(t, s, "ithod@vvpedulink.ac.in", "dept_head")

	p, err := svc.Resolve(ctx, ident.UserID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleDeptHead, p.Role)

	_, err = svc.Resolve(ctx, idx.New().String())
	require.ErrorIs(t, err, service.ErrNoProfile)
}
