package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	helpdeskhttp "github.com/vvpcampus/helpdesk/internal/helpdesk/http"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/service"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/store/drivers/sqlite"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/throttle"
	"github.com/vvpcampus/helpdesk/pkg/jwtx"
)

const testAdminToken = "test-admin-token"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "helpdesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer := &jwtx.Signer{
		Secret: []byte("test-session-secret"),
		Issuer: "helpdesk-test",
		TTL:    time.Hour,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := helpdeskhttp.NewRouter(signer, "test", st, logger)
	r.AdminToken = testAdminToken
	r.RegisterService = &service.RegisterService{Store: st, EmailDomain: "vvpedulink.ac.in"}
	r.AuthService = &service.AuthService{
		Store:    st,
		Throttle: throttle.NewLimiter(throttle.NewMemory(), 0, 0),
		Sessions: signer,
	}
	r.ProfileService = &service.ProfileService{Store: st}
	r.IssueService = &service.IssueService{Store: st, Events: service.NopEmitter{}, AllowDirectClose: true}
	r.CommentService = &service.CommentService{Store: st, Events: service.NopEmitter{}}
	r.DeviceService = &service.DeviceService{Store: st}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

type apiClient struct {
	t     *testing.T
	base  string
	token string
	admin bool
}

func (c *apiClient) do(method, path string, body any) (*http.Response, map[string]any) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.admin {
		req.Header.Set("X-Admin-Token", testAdminToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

// signUp registers and logs in, returning an authenticated client.
func signUp(t *testing.T, base, email, role string) *apiClient {
	t.Helper()

	c := &apiClient{t: t, base: base}
	resp, _ := c.do(http.MethodPost, "/v1/register", map[string]string{
		"email":    email,
		"password": "hunter2hunter2",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := c.do(http.MethodPost, "/v1/login", map[string]string{
		"email":    email,
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c.token = body["token"].(string)
	return c
}

func TestAccountEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("register login me round trip", func(t *testing.T) {
		c := signUp(t, srv.URL, "ravi@vvpedulink.ac.in", "engineer")

		resp, body := c.do(http.MethodGet, "/v1/me", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "ravi@vvpedulink.ac.in", body["email"])
		require.Equal(t, "engineer", body["role"])
	})

	t.Run("duplicate registration returns conflict", func(t *testing.T) {
		c := &apiClient{t: t, base: srv.URL}
		payload := map[string]string{
			"email":    "ithod@vvpedulink.ac.in",
			"password": "hunter2hunter2",
			"role":     "dept_head",
		}
		resp, _ := c.do(http.MethodPost, "/v1/register", payload)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, body := c.do(http.MethodPost, "/v1/register", payload)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		require.Equal(t, "conflict", body["error"])
	})

	t.Run("role and email come back canonicalized", func(t *testing.T) {
		c := &apiClient{t: t, base: srv.URL}
		resp, body := c.do(http.MethodPost, "/v1/register", map[string]string{
			"email":    "MEHOD@VVPedulink.ac.in",
			"password": "hunter2hunter2",
			"role":     "DEPT_HEAD",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		require.Equal(t, "mehod@vvpedulink.ac.in", body["email"])
		require.Equal(t, "dept_head", body["role"])
	})

	t.Run("bad role email is a 400", func(t *testing.T) {
		c := &apiClient{t: t, base: srv.URL}
		resp, body := c.do(http.MethodPost, "/v1/register", map[string]string{
			"email":    "someone@vvpedulink.ac.in",
			"password": "hunter2hunter2",
			"role":     "dept_head",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "invalid_request", body["error"])
	})

	t.Run("wrong password is a 401", func(t *testing.T) {
		signUp(t, srv.URL, "priya@vvpedulink.ac.in", "engineer")

		c := &apiClient{t: t, base: srv.URL}
		resp, body := c.do(http.MethodPost, "/v1/login", map[string]string{
			"email":    "priya@vvpedulink.ac.in",
			"password": "nope",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "invalid_credentials", body["error"])
	})

	t.Run("protected routes need a token", func(t *testing.T) {
		c := &apiClient{t: t, base: srv.URL}
		resp, body := c.do(http.MethodGet, "/v1/me", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "invalid_token", body["error"])
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		c := &apiClient{t: t, base: srv.URL, token: "not.a.jwt"}
		resp, _ := c.do(http.MethodGet, "/v1/me", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestIssueEndpoints(t *testing.T) {
	srv := newTestServer(t)

	head := signUp(t, srv.URL, "cehod@vvpedulink.ac.in", "dept_head")
	eng := signUp(t, srv.URL, "ravi@vvpedulink.ac.in", "engineer")

	resp, issue := head.do(http.MethodPost, "/v1/issues", map[string]string{
		"device_type": "Printer",
		"description": "paper jam in staff room",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "open", issue["status"])
	issueID := issue["id"].(string)

	t.Run("engineer cannot file issues", func(t *testing.T) {
		resp, body := eng.do(http.MethodPost, "/v1/issues", map[string]string{
			"device_type": "Printer",
			"description": "paper jam",
		})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		require.Equal(t, "forbidden", body["error"])
	})

	t.Run("both dashboards list the issue", func(t *testing.T) {
		resp, body := head.do(http.MethodGet, "/v1/issues", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, body["issues"], 1)

		resp, body = eng.do(http.MethodGet, "/v1/issues?page=1", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, body["issues"], 1)
	})

	t.Run("engineer comments and progresses the issue", func(t *testing.T) {
		resp, _ := eng.do(http.MethodPost, "/v1/issues/"+issueID+"/comments", map[string]string{
			"text": "cleared the feed rollers",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, body := eng.do(http.MethodPost, "/v1/issues/"+issueID+"/status", map[string]string{
			"status": "resolved",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "resolved", body["status"])
	})

	t.Run("owner completes and the issue freezes", func(t *testing.T) {
		resp, body := head.do(http.MethodPost, "/v1/issues/"+issueID+"/status", map[string]string{
			"status": "completed",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "completed", body["status"])

		resp, body = eng.do(http.MethodPost, "/v1/issues/"+issueID+"/comments", map[string]string{
			"text": "too late",
		})
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		require.Equal(t, "invalid_state", body["error"])
	})

	t.Run("missing issue is a 404", func(t *testing.T) {
		resp, _ := eng.do(http.MethodGet, "/v1/issues/nope", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeviceEndpoints(t *testing.T) {
	srv := newTestServer(t)
	eng := signUp(t, srv.URL, "ravi@vvpedulink.ac.in", "engineer")

	t.Run("device types are public", func(t *testing.T) {
		c := &apiClient{t: t, base: srv.URL}
		resp, body := c.do(http.MethodGet, "/v1/device-types", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, body["device_types"], 6)
	})

	t.Run("mutations need the admin token", func(t *testing.T) {
		resp, body := eng.do(http.MethodPost, "/v1/devices", map[string]string{
			"name":        "lab-printer-3",
			"device_type": "Printer",
			"location":    "CS block",
		})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		require.Equal(t, "forbidden", body["error"])
	})

	t.Run("admin token enables the registry", func(t *testing.T) {
		admin := &apiClient{t: t, base: srv.URL, token: eng.token, admin: true}
		resp, device := admin.do(http.MethodPost, "/v1/devices", map[string]string{
			"name":        "lab-printer-3",
			"device_type": "Printer",
			"location":    "CS block",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, body := eng.do(http.MethodGet, "/v1/devices", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, body["devices"], 1)

		resp, _ = admin.do(http.MethodDelete, "/v1/devices/"+device["id"].(string), nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	c := &apiClient{t: t, base: srv.URL}

	resp, body := c.do(http.MethodGet, "/livez", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])

	resp, body = c.do(http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])
}
