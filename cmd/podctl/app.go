// ABOUTME: Wires configuration, logging, metrics and the podman client for podctl
// ABOUTME: Serves Prometheus metrics in the background when enabled

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/2389/podman-client/internal/config"
	"github.com/2389/podman-client/internal/libpod"
	"github.com/2389/podman-client/internal/podman"
)

type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	client  *podman.Client
	svc     *libpod.Service
	metrics *http.Server
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	opts := []podman.Option{
		podman.WithAPIVersion(cfg.Socket.APIVersion),
		podman.WithTimeout(cfg.Client.Timeout),
		podman.WithMaxIdleConns(cfg.Client.MaxIdleConns),
		podman.WithLogger(logger),
	}

	a := &app{cfg: cfg, logger: logger}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		m, err := podman.NewMetrics(reg)
		if err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
		opts = append(opts, podman.WithMetrics(m))
		a.metrics = serveMetrics(cfg.Metrics, reg, logger)
	}

	a.client = podman.New(cfg.Socket.Path, opts...)
	a.svc = libpod.New(a.client)

	logger.Debug("podctl configured",
		"socket", cfg.Socket.Path,
		"api_version", cfg.Socket.APIVersion,
		"metrics", cfg.Metrics.Enabled,
	)
	return a, nil
}

// serveMetrics exposes reg on cfg.Addr until Close.
func serveMetrics(cfg config.MetricsConfig, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", "addr", cfg.Addr, "path", cfg.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}

func (a *app) Close() {
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = a.metrics.Shutdown(ctx)
	}
	a.client.Close()
}
