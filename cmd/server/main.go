package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/rig/internal/auth"
	"github.com/inamate/rig/internal/codec"
	"github.com/inamate/rig/internal/config"
	"github.com/inamate/rig/internal/engine"
	"github.com/inamate/rig/internal/library"
	"github.com/inamate/rig/internal/live"
	mw "github.com/inamate/rig/internal/middleware"
	"github.com/inamate/rig/internal/skeleton"
	"github.com/inamate/rig/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)
	codec.SetLogger(logger)
	engine.SetLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var st store.Store
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, skeletons are kept in memory")
		st = store.NewMemory()
	} else {
		pg, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("connect to database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		st = pg
	}

	if cfg.AdminKeyHash == "" {
		slog.Warn("ADMIN_KEY_HASH not set, uploads are disabled")
	}
	authService := auth.NewService(cfg.AdminKeyHash, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	libraryService := library.NewService(st, cfg.LoadScale)
	libraryHandler := library.NewHandler(libraryService, cfg.MaxUploadBytes)

	// Skeleton loader for the posing rooms
	loadSkeleton := func(ctx context.Context, id string) (*skeleton.SkeletonData, error) {
		sd, err := libraryService.SkeletonData(ctx, id)
		if errors.Is(err, library.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", live.ErrNotFound, id)
		}
		return sd, err
	}

	hub := live.NewHub()
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Auth routes (public)
	r.HandleFunc("/auth/token", authHandler.Token).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Skeleton API; uploads and deletes need a token
	api := r.PathPrefix("/api").Subrouter()
	libraryHandler.Routes(api, authService.AuthMiddleware)

	// WebSocket endpoint
	r.Handle("/ws/skeletons/{id}", live.NewHandler(hub, loadSkeleton, cfg.Origins())).Methods("GET")

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
