package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// healthHandler reports liveness; discovery state doubles as readiness.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// lifecycleHandler dumps the per-module hook tally as JSON.
func (a *App) lifecycleHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	payload := map[string]any{
		"consumed": a.reg.Consumed(),
		"modules":  a.reg.Len(),
		"hooks":    a.met.TallySnapshot(),
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("Failed to encode lifecycle snapshot.", "error", err)
	}
}

// startHealthcheckServer initializes and runs the health check HTTP server,
// which also exposes the Prometheus metrics and the lifecycle debug view.
func (a *App) startHealthcheckServer(port int) {
	a.logger.Debug("Configuring health check server.")
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/lifecycle", a.lifecycleHandler)
	mux.Handle("/metrics", a.met.Handler())

	addr := fmt.Sprintf(":%d", port)
	a.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		a.logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
}

func (a *App) closeHealthcheckServer() error {
	if a.httpServer == nil {
		a.logger.Debug("Health check server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.logger.Info("🩺 Shutting down health check server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	a.logger.Debug("Health check server shut down gracefully.")
	return nil
}
