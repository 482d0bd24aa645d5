package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/vvpcampus/helpdesk/internal/helpdesk/http"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/notify"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/service"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/store"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/store/drivers/sqlite"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/throttle"
	"github.com/vvpcampus/helpdesk/pkg/jwtx"
	"github.com/vvpcampus/helpdesk/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the helpdesk service together: store, migrations,
// services, notification dispatcher and HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	sessions   *jwtx.Signer
	dispatcher *notify.Dispatcher

	registerService *service.RegisterService
	authService     *service.AuthService
	profileService  *service.ProfileService
	issueService    *service.IssueService
	commentService  *service.CommentService
	deviceService   *service.DeviceService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "helpdesk",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.SessionSecret == "" {
		return nil, errors.New("HELPDESK_SESSION_SECRET is required")
	}
	app.sessions = &jwtx.Signer{
		Secret: []byte(cfg.SessionSecret),
		Issuer: cfg.Issuer,
		TTL:    cfg.SessionTTL,
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initNotifications()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.dispatcher.Start()

	app.logger.Info("helpdesk service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully stops the HTTP server, drains pending notifications
// and closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down helpdesk service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.dispatcher.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("helpdesk service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initNotifications() {
	var sender notify.Sender
	if app.cfg.SMTPAddr != "" {
		sender = &notify.SMTPSender{
			Addr:      app.cfg.SMTPAddr,
			From:      app.cfg.SMTPFrom,
			Recipient: app.cfg.SMTPRecipient,
		}
		app.logger.Info("mail notifications enabled",
			"relay", app.cfg.SMTPAddr,
			"recipient", app.cfg.SMTPRecipient,
		)
	} else {
		sender = &notify.LogSender{Logger: app.logger}
		app.logger.Info("no mail relay configured, notifications will be logged")
	}

	app.dispatcher = notify.NewDispatcher(sender, app.logger)
}

func (app *Application) initServices() {
	limiter := throttle.NewLimiter(
		throttle.NewMemory(),
		app.cfg.ThrottleMaxAttempts,
		app.cfg.ThrottleWindow,
	)

	app.registerService = &service.RegisterService{
		Store:       app.db,
		EmailDomain: app.cfg.EmailDomain,
	}
	app.authService = &service.AuthService{
		Store:    app.db,
		Throttle: limiter,
		Sessions: app.sessions,
	}
	app.profileService = &service.ProfileService{Store: app.db}
	app.issueService = &service.IssueService{
		Store:            app.db,
		Events:           app.dispatcher,
		AllowDirectClose: app.cfg.AllowDirectClose,
	}
	app.commentService = &service.CommentService{
		Store:  app.db,
		Events: app.dispatcher,
	}
	app.deviceService = &service.DeviceService{Store: app.db}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.sessions, BuildVersion, app.db, app.logger)

	router.AdminToken = app.cfg.AdminToken
	router.RegisterService = app.registerService
	router.AuthService = app.authService
	router.ProfileService = app.profileService
	router.IssueService = app.issueService
	router.CommentService = app.commentService
	router.DeviceService = app.deviceService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
