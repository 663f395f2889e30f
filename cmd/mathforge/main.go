package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/af-corp/mathforge/internal/api"
	"github.com/af-corp/mathforge/internal/audit"
	"github.com/af-corp/mathforge/internal/config"
	"github.com/af-corp/mathforge/internal/guard"
	"github.com/af-corp/mathforge/internal/probe"
	"github.com/af-corp/mathforge/internal/quiz"
	"github.com/af-corp/mathforge/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

func main() {
	configDir := flag.String("config", "configs", "path to configuration directory")
	flag.Parse()

	logger := telemetry.NewLogger(os.Stdout, "info", "json")
	slog.SetDefault(logger)

	// Load configuration
	loader := config.NewLoader(*configDir, logger)
	if err := loader.Load(); err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg := loader.Config()

	logger = telemetry.NewLogger(os.Stdout, cfg.Telemetry.LogLevel, cfg.Telemetry.LogFormat)
	slog.SetDefault(logger)

	// Guard policies
	evaluator := guard.NewEvaluator(func() config.GuardConfig { return loader.Config().Guard })
	if err := evaluator.Load(); err != nil {
		logger.Error("failed to load guard policies", "error", err)
		os.Exit(1)
	}
	loader.OnReload(func(*config.Config) {
		if err := evaluator.Load(); err != nil {
			logger.Error("guard reload failed, keeping previous policies", "error", err)
			return
		}
		logger.Info("guard policies reloaded")
	})

	done := make(chan struct{})
	defer close(done)
	var watchDirs []string
	if cfg.Guard.BundlePath != "" {
		watchDirs = append(watchDirs, cfg.Guard.BundlePath)
	}
	if err := loader.Watch(done, watchDirs...); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}

	// Build handler
	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)
	history := audit.NewRing(cfg.Audit.Capacity)
	handler := api.NewHandler(version, history, quiz.NewGenerator(cfg.Quiz.Seed), evaluator, metrics, loader.Config)

	opts := api.RouterOptions{
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Metrics:            metrics,
	}
	var metricsSrv *http.Server
	if cfg.Telemetry.MetricsPort == 0 {
		opts.MetricsHandler = promhttp.Handler()
	} else {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Telemetry.MetricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(handler, opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	var probeSrv *probe.Server
	if cfg.Probe.GRPCPort > 0 {
		probeSrv = probe.NewServer()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("mathforge starting", "addr", addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if metricsSrv != nil {
		g.Go(func() error {
			logger.Info("metrics server starting", "addr", metricsSrv.Addr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}
	if probeSrv != nil {
		g.Go(func() error {
			return probeSrv.ListenAndServe(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Probe.GRPCPort))
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "cause", context.Cause(gctx))
		if probeSrv != nil {
			probeSrv.SetServing(false)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
		defer cancel()

		errs := []error{srv.Shutdown(shutdownCtx)}
		if metricsSrv != nil {
			errs = append(errs, metricsSrv.Shutdown(shutdownCtx))
		}
		if probeSrv != nil {
			probeSrv.Shutdown(shutdownCtx)
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.Error("mathforge stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("mathforge stopped")
}
