package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikolaslacerda/book-store-manager/internal/app"
	"github.com/nikolaslacerda/book-store-manager/internal/auth"
	"github.com/nikolaslacerda/book-store-manager/internal/authors"
	"github.com/nikolaslacerda/book-store-manager/internal/books"
	"github.com/nikolaslacerda/book-store-manager/internal/platform/cache"
	"github.com/nikolaslacerda/book-store-manager/internal/platform/db"
	"github.com/nikolaslacerda/book-store-manager/internal/publishers"
	"github.com/nikolaslacerda/book-store-manager/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	var throttle *auth.LoginThrottle
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, login throttle disabled", slog.Any("error", err))
	} else {
		throttle = auth.NewLoginThrottle(redisClient, cfg.LoginMaxAttempts, cfg.LoginAttemptWindow)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(logger, usersRepo)

	authorsRepo := authors.NewRepository(pool)
	authorsService := authors.NewService(authorsRepo)

	publishersRepo := publishers.NewRepository(pool)
	publishersService := publishers.NewService(publishersRepo)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authService := auth.NewService(logger, usersService, tokens, throttle)

	booksRepo := books.NewRepository(pool)
	booksService := books.NewService(logger, booksRepo, usersService, authorsService, publishersService)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AuthService:       authService,
		AuthHandler:       auth.NewHandler(logger, authService),
		UsersHandler:      users.NewHandler(logger, usersService),
		AuthorsHandler:    authors.NewHandler(logger, authorsService),
		PublishersHandler: publishers.NewHandler(logger, publishersService),
		BooksHandler:      books.NewHandler(logger, booksService),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
