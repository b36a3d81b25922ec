package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"file-search/internal/catalog"
	"file-search/internal/engine"
	"file-search/internal/handlers"
	"file-search/internal/logging"
	"file-search/internal/middleware"
	"file-search/internal/startup"
)

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	cat, err := catalog.Open(config.DataDir)
	if err != nil {
		startup.LogFatal("Failed to open catalog: %v", err)
	}
	defer func() {
		if err := cat.Close(); err != nil {
			logging.Warn("Error closing catalog: %v", err)
		}
	}()

	eng := engine.New(cat)

	// Periodic full rebuild keeps stores in sync with disk; the design is
	// poll/rebuild based, not event-driven.
	stopRebuild := make(chan struct{})
	go periodicRebuild(eng, config.IndexInterval, stopRebuild)

	h := handlers.New(cat, eng)
	router := setupRouter(h, config.MetricsEnabled)

	handler := middleware.Metrics()(router)
	handler = middleware.Logger(config.LogHealthChecks)(handler)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	if config.MetricsEnabled && config.MetricsPort != config.Port {
		go serveMetrics(config.MetricsPort)
	}

	go handleShutdown(srv, stopRebuild)

	startup.LogServerStarted(config.Port, time.Since(startTime))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, metricsEnabled bool) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/folders", h.ListFolders).Methods("GET")
	api.HandleFunc("/folders", h.AddFolder).Methods("POST")
	api.HandleFunc("/folders", h.RemoveFolder).Methods("DELETE")
	api.HandleFunc("/folders/clear", h.ClearFolders).Methods("POST")
	api.HandleFunc("/search", h.Search).Methods("GET")
	api.HandleFunc("/stats", h.GetStats).Methods("GET")
	api.HandleFunc("/reindex", h.TriggerRebuild).Methods("POST")

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	return r
}

func serveMetrics(port string) {
	m := http.NewServeMux()
	m.Handle("/metrics", promhttp.Handler())
	logging.Info("Metrics listening on port %s", port)
	if err := http.ListenAndServe(":"+port, m); err != nil {
		logging.Error("Metrics server error: %v", err)
	}
}

func periodicRebuild(eng *engine.Engine, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logging.Debug("Periodic rebuild triggered")
			eng.RebuildAll(nil)
		case <-stop:
			return
		}
	}
}

func handleShutdown(srv *http.Server, stopRebuild chan struct{}) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping periodic rebuild")
	close(stopRebuild)

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	}

	startup.LogShutdownComplete()
}
