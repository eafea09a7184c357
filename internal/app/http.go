package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sessionhub/pkg/api"
	"sessionhub/pkg/auth"
	"sessionhub/pkg/banner"
	"sessionhub/pkg/logger"
	"sessionhub/pkg/ws"
)

// printBanner prints the startup banner and build info.
func (a *App) printBanner() {
	verStr := a.version
	if a.commit != "none" && a.commit != "" {
		verStr += " (" + a.commit + ")"
	}
	if a.buildDate != "unknown" && a.buildDate != "" {
		verStr += " @ " + a.buildDate
	}
	banner.Print(a.cfg.Addr(), verStr, a.cfg.Facilitator.Enabled, a.cfg.Admin.Credential != "")
}

// setupHTTPHandlers sets up all HTTP handlers on the provided router.
func (a *App) setupHTTPHandlers(r *mux.Router) {
	limits := auth.NewLimiterPool(20, 40)
	r.Handle("/ws", ws.Handler(a.eng, a.hub, limits))
	api.RegisterRoutes(r, a.eng)
	r.HandleFunc("/healthz", healthzHandler).Methods(http.MethodGet)
	r.HandleFunc("/readyz", a.readyzHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())
}

func (a *App) startHTTP() <-chan error {
	r := mux.NewRouter()
	a.setupHTTPHandlers(r)
	a.srv = &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http_listening", "addr", a.cfg.Addr())
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

// healthzHandler handles the /healthz endpoint.
func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// readyzHandler reports readiness. The engine is memory-only so readiness
// follows liveness, but the endpoint also reports the kill state so ops
// can see a killed session at a glance.
func (a *App) readyzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if a.eng.Killed() {
		_, _ = w.Write([]byte(`{"status":"ok","session":"killed"}`))
		return
	}
	_, _ = w.Write([]byte(`{"status":"ok","session":"live"}`))
}
