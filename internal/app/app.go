package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"sessionhub/internal/facilitator"
	"sessionhub/pkg/auth"
	"sessionhub/pkg/config"
	"sessionhub/pkg/logger"
	"sessionhub/pkg/session"
	"sessionhub/pkg/validation"
	"sessionhub/pkg/ws"
)

// App encapsulates the server components and lifecycle.
type App struct {
	cfg       *config.Config
	version   string
	commit    string
	buildDate string

	eng *session.Engine
	hub *ws.Hub
	fac *facilitator.Scheduler
	srv *http.Server
}

// New initializes everything that does not require a running context: the
// validation rules, the hub, the engine and the facilitator. Call Run to
// start the scheduler and the HTTP server and block until shutdown.
func New(cfg *config.Config, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg.Normalize()

	validation.SetRules(validation.Rules{
		MaxTextLen: cfg.Session.MaxTextLen,
		Emojis:     cfg.Session.Emojis,
	})

	hub := ws.NewHub()
	eng := session.New(hub, session.Options{
		HistoryLimit:  cfg.Session.HistoryLimit,
		FlagThreshold: cfg.Session.FlagThreshold,
		StrikeLimit:   cfg.Session.StrikeLimit,
		RateWindow:    cfg.RateWindow(),
		SystemNotice:  cfg.Session.SystemNotice,
		Authorize:     auth.CredentialCheck(cfg.Admin.Credential),
	})

	a := &App{
		cfg:       cfg,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		eng:       eng,
		hub:       hub,
	}
	if cfg.Facilitator.Enabled {
		a.fac = facilitator.New(eng, cfg.Facilitator.Name, cfg.Facilitator.Script,
			cfg.Cooldown(), cfg.Tick(), cfg.Facilitator.Cron)
	}
	return a, nil
}

// Engine exposes the session engine, mainly for tests.
func (a *App) Engine() *session.Engine { return a.eng }

// Run starts the facilitator (if enabled) and the HTTP server, and blocks
// until ctx is canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.fac != nil {
		cancel, err := a.fac.Start(ctx)
		if err != nil {
			return err
		}
		defer cancel()
	}

	a.printBanner()

	errCh := a.startHTTP()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http_shutdown_error", "error", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}
