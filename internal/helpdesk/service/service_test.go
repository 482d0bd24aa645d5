package service_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/notify"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/service"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/store"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/store/drivers/sqlite"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/throttle"
	"github.com/vvpcampus/helpdesk/pkg/jwtx"
)

const testEmailDomain = "vvpedulink.ac.in"

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "helpdesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestSigner() *jwtx.Signer {
	return &jwtx.Signer{
		Secret: []byte("test-session-secret"),
		Issuer: "helpdesk-test",
		TTL:    time.Hour,
	}
}

// captureEmitter records emitted events for assertions.
type captureEmitter struct {
	mu     sync.Mutex
	events []notify.Event
}

func (c *captureEmitter) Emit(ev notify.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *captureEmitter) all() []notify.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notify.Event(nil), c.events...)
}

// mustRegister creates an account through the real registration path and
// returns its identity.
func mustRegister(t *testing.T, s store.Store, email, role string) domain.Identity {
	t.Helper()

	reg := &service.RegisterService{Store: s, EmailDomain: testEmailDomain}
	u, err := reg.Register(context.Background(), email, "hunter2hunter2", role)
	require.NoError(t, err)

	r, err := domain.ParseRole(role)
	require.NoError(t, err)

	return domain.Identity{UserID: u.ID, Email: u.Email, Role: r}
}

func newThrottle() *throttle.Limiter {
	return throttle.NewLimiter(throttle.NewMemory(), 0, 0)
}
