package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feedhook/feedhook/app/api"
	"github.com/feedhook/feedhook/app/cfg"
	"github.com/feedhook/feedhook/app/config"
	"github.com/feedhook/feedhook/app/engine"
	"github.com/feedhook/feedhook/app/feed"
	"github.com/feedhook/feedhook/app/notify"
	"github.com/feedhook/feedhook/app/scheduler"
	"github.com/feedhook/feedhook/app/store"
)

func main() {
	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting feedhook", "version", appCfg.Version, "dry_run", appCfg.DryRun)

	appConfig, err := config.Load(appCfg.ConfigPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("Configuration loaded",
		"feeds", len(appConfig.Feeds), "webhooks", len(appConfig.Webhooks),
		"health_check", appConfig.HealthCheck != nil)

	st, err := store.Open(appCfg.DataDir)
	if err != nil {
		slog.Error("Failed to open delivery state store", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("Delivery state store opened", "data_dir", appCfg.DataDir)

	httpClient := &http.Client{Timeout: 30 * time.Second}

	fetcher := feed.NewFetcher(httpClient, feed.NewParser(), appCfg.UserAgent)
	notifier := notify.NewNotifier(httpClient, appConfig.Webhooks, st, appCfg.DryRun)
	processor := engine.NewProcessor(st, notifier)

	feedScheduler := scheduler.New(fetcher, processor, appConfig.Feeds, appConfig.HealthCheck, httpClient)
	feedScheduler.Start()
	defer feedScheduler.Stop()

	// Optional status HTTP server
	var httpServer *http.Server
	serverErrChan := make(chan error, 1)
	if appCfg.Port != "" {
		handler := api.NewHandler(st, len(appConfig.Feeds), len(appConfig.Webhooks), appCfg.Version)

		httpServer = &http.Server{
			Addr:         ":" + appCfg.Port,
			Handler:      api.NewServer(handler),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		go func() {
			slog.Info("Starting status HTTP server", "port", appCfg.Port)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Status server failed, shutting down", "error", err)
	}

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
