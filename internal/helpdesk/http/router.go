package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/service"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/store"
	"github.com/vvpcampus/helpdesk/pkg/httpx"
	"github.com/vvpcampus/helpdesk/pkg/jwtx"
	"github.com/vvpcampus/helpdesk/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	sessions     *jwtx.Signer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	// AdminToken gates device registry mutations. Empty disables them.
	AdminToken string

	RegisterService *service.RegisterService
	AuthService     *service.AuthService
	ProfileService  *service.ProfileService
	IssueService    *service.IssueService
	CommentService  *service.CommentService
	DeviceService   *service.DeviceService
}

func NewRouter(
	sessions *jwtx.Signer,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		sessions:     sessions,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerIssues()
	r.registerComments()
	r.registerDevices()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h with session verification and a per-user rate limit.
func (r *Router) secured(h http.Handler) http.Handler {
	return httpx.Chain(h,
		SessionMiddleware(r.sessions, r.ProfileService),
		httpx.RateLimitByIP(httpx.LenientLimit),
	)
}

func (r *Router) registerAccounts() {
	// POST /register - strict rate limit by IP (public signup endpoint)
	registerHandler := &RegisterHandler{RegisterService: r.RegisterService}
	r.Mux.Handle("POST /v1/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - strict rate limit keyed by IP and email so one address
	// cannot starve the whole NAT
	loginHandler := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(loginHandler,
			httpx.RateLimit(httpx.StrictLimit, httpx.CompositeKeyExtractor("|",
				httpx.IPKeyExtractor,
				JSONEmailKeyExtractor,
			)),
		),
	)

	meHandler := &MeHandler{}
	r.Mux.Handle("GET /v1/me", r.secured(meHandler))
}

func (r *Router) registerIssues() {
	h := &IssuesHandler{IssueService: r.IssueService}

	r.Mux.Handle("POST /v1/issues", r.secured(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("GET /v1/issues", r.secured(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("GET /v1/issues/{id}", r.secured(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("POST /v1/issues/{id}/status", r.secured(http.HandlerFunc(h.HandleTransition)))
}

func (r *Router) registerComments() {
	h := &CommentsHandler{CommentService: r.CommentService}

	r.Mux.Handle("POST /v1/issues/{id}/comments", r.secured(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("GET /v1/issues/{id}/comments", r.secured(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("PUT /v1/comments/{id}", r.secured(http.HandlerFunc(h.HandleEdit)))
	r.Mux.Handle("DELETE /v1/comments/{id}", r.secured(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerDevices() {
	h := &DevicesHandler{DeviceService: r.DeviceService}

	// Reads are open to any signed-in user; the registry is informational.
	r.Mux.Handle("GET /v1/devices", r.secured(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("GET /v1/devices/{id}", r.secured(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("GET /v1/device-types",
		httpx.Chain(http.HandlerFunc(h.HandleListTypes),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Mutations need the admin token on top of a session.
	admin := AdminTokenMiddleware(r.AdminToken)
	r.Mux.Handle("POST /v1/devices", r.secured(admin(http.HandlerFunc(h.HandleCreate))))
	r.Mux.Handle("PUT /v1/devices/{id}", r.secured(admin(http.HandlerFunc(h.HandleUpdate))))
	r.Mux.Handle("DELETE /v1/devices/{id}", r.secured(admin(http.HandlerFunc(h.HandleDelete))))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
