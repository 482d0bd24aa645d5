package http

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/service"
	"github.com/vvpcampus/helpdesk/pkg/httpx"
	"github.com/vvpcampus/helpdesk/pkg/jwtx"
	"github.com/vvpcampus/helpdesk/pkg/slogx"
)

type identityKey struct{}

// IdentityFrom returns the resolved caller identity set by SessionMiddleware.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(domain.Identity)
	return ident, ok
}

// SessionMiddleware verifies the bearer token and re-resolves the profile
// from the store on every request. The role claim inside the token is never
// trusted for authorization; a user whose profile disappeared gets a 401
// that clients must treat as a forced logout.
func SessionMiddleware(sessions *jwtx.Signer, profiles *service.ProfileService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := bearerToken(r)
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized,
					"invalid_token", "Missing or malformed Authorization header.")
				return
			}

			claims, err := sessions.Verify(raw)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized,
					"invalid_token", "Session token is invalid or expired.")
				return
			}

			p, err := profiles.Resolve(ctx, claims.Subject)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			ident := domain.Identity{
				UserID: claims.Subject,
				Email:  claims.Email,
				Role:   p.Role,
			}

			log := slogx.FromContext(ctx).With(
				"user_id", ident.UserID,
				"role", ident.Role.String(),
			)
			ctx = slogx.WithContext(ctx, log)
			ctx = context.WithValue(ctx, identityKey{}, ident)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminTokenMiddleware gates a route behind the static admin token carried
// in the X-Admin-Token header. An empty configured token disables the route
// entirely.
func AdminTokenMiddleware(token string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				httpx.WriteError(w, http.StatusForbidden,
					"forbidden", "Administrative endpoints are disabled.")
				return
			}
			got := r.Header.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				httpx.WriteError(w, http.StatusForbidden,
					"forbidden", "Admin token required.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}
