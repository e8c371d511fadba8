package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Riboost-Studio/order-print-hub/internal/api"
	"github.com/Riboost-Studio/order-print-hub/internal/config"
	"github.com/Riboost-Studio/order-print-hub/internal/logger"
	"github.com/Riboost-Studio/order-print-hub/internal/render"
	"github.com/Riboost-Studio/order-print-hub/internal/services"
	"github.com/Riboost-Studio/order-print-hub/internal/utils"
)

const (
	appVersion      = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

// --- Main ---

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the JSON config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "order-print-hub:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// Dashboards read totals as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	// 1. Load Configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()
	log.Info("Configuration loaded",
		zap.String("app", cfg.App.Name),
		zap.String("version", appVersion),
		zap.String("env", cfg.App.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Locate Chrome for the PDF fallback
	chromePath := cfg.PDF.ChromePath
	if sysInfo, err := utils.ValidateSystemRequirements(log); err == nil && chromePath == "" {
		chromePath = sysInfo.ChromePath
	} else if err != nil {
		log.Warn("PDF fallback will fail until Chrome is installed", zap.Error(err))
	}

	// 3. Open the thermal printer once
	device, err := services.OpenDevice(ctx, services.DeviceConfig{
		Interface:     cfg.Thermal.Interface,
		DiscoveryPort: cfg.Thermal.DiscoveryPort,
		Timeout:       cfg.Thermal.Timeout,
		Settle:        cfg.Thermal.Settle,
	}, log.Named("thermal"))
	switch {
	case err != nil:
		log.Warn("Thermal printer unavailable, orders will print as PDF", zap.Error(err))
	case device == nil:
		log.Info("Thermal printer disabled")
	default:
		log.Info("Thermal printer ready", zap.String("device", device.Name()))
	}

	// 4. OS print backend
	backend, err := services.NewPrinterBackend(runtime.GOOS, services.ExecRunner{Timeout: cfg.Print.CommandTimeout})
	if err != nil {
		return err
	}

	// 5. Pipeline and live hub
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewMetrics(reg)

	layout := render.Layout{Currency: cfg.Receipt.Currency, LineWidth: cfg.Thermal.LineWidth}
	thermal := services.NewThermalTransport(device, layout, services.WithThermalLogger(log.Named("thermal")))
	renderer := services.NewChromeRenderer(services.ChromeConfig{
		ExecPath:  chromePath,
		NoSandbox: cfg.PDF.NoSandbox,
		Timeout:   cfg.PDF.RenderTimeout,
		Logger:    log.Named("chrome"),
	})
	spool := services.NewSpool(cfg.PDF.TempDir, cfg.PDF.CleanupDelay, log.Named("spool"))
	pdf := services.NewPDFTransport(layout, renderer, backend, spool, services.WithPDFLogger(log.Named("pdf")))
	defer pdf.Close()

	orchestrator := services.NewOrchestrator(thermal, pdf,
		services.WithOrchestratorLogger(log.Named("print")),
		services.WithMetrics(metrics))

	hub := services.NewHub(
		services.WithHubLogger(log.Named("live")),
		services.WithHubMetrics(metrics),
		services.WithHubBuffer(cfg.Live.Buffer),
		services.WithHubQueueSize(cfg.Live.QueueSize),
		services.WithHubHeartbeat(cfg.Live.Heartbeat))
	hub.Start(ctx)
	defer hub.Stop()

	// 6. HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.NewRouter(api.Deps{
			Printer:  orchestrator,
			Hub:      hub,
			Thermal:  thermal,
			Gatherer: reg,
			Logger:   log.Named("http"),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening",
			zap.String("addr", srv.Addr),
			zap.String("print_backend", backend.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	// Streams never finish on their own; close them before draining requests.
	hub.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", zap.Error(err))
	}
	return nil
}
