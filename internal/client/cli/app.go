package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/api"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/config"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/router"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/session"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/state"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/validation"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/filex"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/logging"
)

type App struct {
	config   *config.Config
	sessions *session.Store
	store    *state.Store
	nav      *router.Navigator
	validate *validation.Validator
	gatherer prometheus.Gatherer
	logger   logging.Logger

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the session store at cfg.SessionDBPath and wires the API
// client, state and navigation around it. in and out are the terminal.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if _, err := filex.EnsureParentDir(cfg.SessionDBPath); err != nil {
		return nil, err
	}
	sessions, err := session.Open(ctx, cfg.SessionDBPath)
	if err != nil {
		logger.Error(ctx, "error initializing session store", "path", cfg.SessionDBPath, "error", err)
		return nil, err
	}

	jar, err := sessions.CookieJar(ctx)
	if err != nil {
		_ = sessions.Close()
		return nil, err
	}

	nav := router.NewNavigator(router.Login)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	client, err := api.New(sessions, nav, api.Options{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.RequestTimeout,
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
		Jar:       jar,
		Logger:    logger,
		Metrics:   api.NewMetrics(reg),
	})
	if err != nil {
		_ = sessions.Close()
		return nil, err
	}

	v, err := validation.New()
	if err != nil {
		_ = sessions.Close()
		return nil, fmt.Errorf("validator: %w", err)
	}

	a := &App{
		config:   cfg,
		sessions: sessions,
		store:    state.NewStore(client, sessions),
		nav:      nav,
		validate: v,
		gatherer: reg,
		logger:   logger,
		reader:   bufio.NewReader(in),
		out:      out,
	}
	nav.Subscribe(a.onNavigate)
	return a, nil
}

func (a *App) Close() error {
	return a.sessions.Close()
}

// Run starts the REPL and closes the session store when it ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.store.Session.State().IsAuthenticated
}

// onNavigate resets the view state when the API client sends a signed-in
// user back to the login view.
func (a *App) onNavigate(from, to string) {
	if to != router.Login || !a.isLoggedIn() {
		return
	}
	a.expireSession()
}

func (a *App) expireSession() {
	a.store.Expire()
	a.println("Your session has expired. Please log in again.")
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
