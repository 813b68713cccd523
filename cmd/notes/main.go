package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/aviralrabbit1/nextNotes/internal/config"
	noteDelete "github.com/aviralrabbit1/nextNotes/internal/handlers/note/delete"
	"github.com/aviralrabbit1/nextNotes/internal/handlers/note/get"
	"github.com/aviralrabbit1/nextNotes/internal/handlers/note/getall"
	noteSave "github.com/aviralrabbit1/nextNotes/internal/handlers/note/save"
	"github.com/aviralrabbit1/nextNotes/internal/handlers/note/update"
	"github.com/aviralrabbit1/nextNotes/internal/handlers/user/login"
	userSave "github.com/aviralrabbit1/nextNotes/internal/handlers/user/save"
	JWTMiddleware "github.com/aviralrabbit1/nextNotes/internal/middleware"
	"github.com/aviralrabbit1/nextNotes/internal/storage/postgres"
	"github.com/aviralrabbit1/nextNotes/pkg/auth"
	"github.com/aviralrabbit1/nextNotes/pkg/logger/handlers/slogpretty"
	"github.com/aviralrabbit1/nextNotes/pkg/logger/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.Load()
	log := setupLogger(cfg.Env)

	log.Info("starting notes service", slog.String("env", cfg.Env))
	log.Debug("debug log enabled")
	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}
	tokenManager := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Post("/signup", userSave.New(log, storage))
	router.Post("/login", login.New(log, storage, tokenManager))

	router.Route("/notes", func(r chi.Router) {
		r.Use(JWTMiddleware.JWT(tokenManager))
		r.Post("/", noteSave.New(log, storage))
		r.Get("/", getall.New(log, storage))
		r.Get("/{id}", get.New(log, storage))
		r.Put("/{id}", update.New(log, storage))
		r.Patch("/{id}", update.New(log, storage))
		r.Delete("/{id}", noteDelete.New(log, storage))
	})

	log.Info("starting server", slog.String("address", cfg.Address))
	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.Timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", sl.Err(err))
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}
	handler := opts.NewPrettyHandler(os.Stdout)
	return slog.New(handler)
}
