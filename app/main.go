package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mediacomb/media-comb/app/api"
	"github.com/mediacomb/media-comb/app/cfg"
	"github.com/mediacomb/media-comb/app/collect"
	"github.com/mediacomb/media-comb/app/database"
	"github.com/mediacomb/media-comb/app/profile"
	"github.com/mediacomb/media-comb/app/sheets"
	"github.com/mediacomb/media-comb/app/sources"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
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

	slog.Info("Starting Media Comb server...", "version", appCfg.Version)

	// Database connection
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	// Load client profiles
	profiles := profile.NewCache(appCfg.ProfilesDir)
	if err := profiles.Run(); err != nil {
		log.Fatal("Failed to load profiles:", err)
	}
	slog.Info("Profiles loaded", "dir", appCfg.ProfilesDir, "count", profiles.GetProfileCount())

	// One shared HTTP client; per-request timeouts bound each call
	httpClient := &http.Client{}
	timeout := time.Duration(appCfg.HTTPTimeout) * time.Second

	var extractor *sources.ContentExtractor
	if appCfg.ExtractContent {
		extractor = sources.NewContentExtractor()
	}

	srcs := []sources.Source{
		sources.NewTwitterSource(httpClient, appCfg.TwitterBaseURL, appCfg.UserAgent, timeout),
		sources.NewNewsSource(httpClient, appCfg.NewsBaseURL, appCfg.UserAgent, timeout, extractor),
		sources.NewMeltwaterSource(httpClient, appCfg.MeltwaterBaseURL, appCfg.UserAgent, timeout),
		sources.NewFeedSource(httpClient, appCfg.UserAgent, timeout),
	}

	sink := sheets.NewClient(httpClient, appCfg.SheetsBaseURL, appCfg.UserAgent, timeout)
	runner := collect.NewRunner(srcs, sink)
	mentionRepo := database.NewMentionRepository(db)

	// Initialize HTTP server
	handler := api.NewHandler(profiles, runner, mentionRepo, sink, appCfg.WebhookSecret)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Media Comb server shutdown complete")
}
