package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"supplyask/internal/config"
	"supplyask/internal/logging"
	"supplyask/internal/query"
	"supplyask/internal/telemetry"
)

// app holds the shared wiring every query-issuing command needs.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	client   *query.Client
	registry *prometheus.Registry
	tracing  *telemetry.Provider
	metrics  *http.Server
}

// newApp builds the logger, tracing, metrics and query client from cfg.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	tp, err := telemetry.Setup(ctx, cfg.Telemetry(), logger)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		tracing:  tp,
		client: query.NewClient(cfg.Endpoint, cfg.Timeout,
			query.WithLogger(logger),
			query.WithMetrics(query.NewMetrics(reg)),
		),
	}

	if cfg.MetricsAddr != "" {
		if err := a.serveMetrics(cfg.MetricsAddr); err != nil {
			a.Close(ctx)
			return nil, err
		}
	}

	logger.Info("supplyask started",
		zap.String("version", Version),
		zap.String("endpoint", a.client.Endpoint()),
		zap.String("config_file", cfg.File),
	)
	return a, nil
}

// serveMetrics exposes the registry on addr in the background.
func (a *app) serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	a.metrics = &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := a.metrics.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server", zap.Error(err))
		}
	}()
	a.logger.Info("serving metrics", zap.String("addr", ln.Addr().String()))
	return nil
}

// Close flushes traces, stops the metrics server and syncs the log.
func (a *app) Close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if a.metrics != nil {
		_ = a.metrics.Shutdown(ctx)
	}
	if err := a.tracing.Shutdown(ctx); err != nil {
		a.logger.Warn("tracing shutdown", zap.Error(err))
	}
	_ = a.logger.Sync()
}
