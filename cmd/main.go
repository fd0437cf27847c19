package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/kafka"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/repository/postgresql"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/server"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/session"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logger.New()
	defer func() {
		_ = log.Sync()
	}()

	database, err := db.NewDb(ctx)
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}
	defer database.GetPool().Close()

	returnRepo := postgresql.NewReturnRequestRepo(database)
	userRepo := postgresql.NewUserRepo(database)
	auditRepo := postgresql.NewAuditLogRepo(database)
	outboxRepo := postgresql.NewOutboxTaskRepo()
	sessionRepo := postgresql.NewSessionRepo(database)

	seedAdmin(ctx, log, userRepo)

	requestCache := cache.NewReturnCache(returnRepo)
	if err := requestCache.LoadInitialData(ctx); err != nil {
		log.Fatal("cache warmup failed", zap.Error(err))
	}

	stg := storage.NewStorage(database, returnRepo, userRepo, auditRepo, outboxRepo, requestCache, log)
	sessions := session.NewManager(sessionRepo, userRepo, log)

	producer := newProducer(log)
	publisher := kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval: time.Second,
		BatchSize:    10,
		MaxAttempts:  5,
	})

	srv := server.New(stg, sessions, log)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "9000"
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, port)
	})
	g.Go(func() error {
		publisher.Run(gctx)
		return nil
	})
	g.Go(func() error {
		sessions.RunSweeper(gctx, time.Hour)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("service exited with error", zap.Error(err))
	}
	log.Info("service stopped")
}

func newProducer(log *zap.Logger) kafka.Producer {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		log.Warn("KAFKA_BROKERS not set, audit events go to the console producer")
		return kafka.NewConsoleProducer()
	}
	return kafka.NewWriterProducer(strings.Split(brokers, ","))
}

// seedAdmin provisions the admin account from env when it does not exist
// yet. Missing env is not fatal; the service just starts without one.
func seedAdmin(ctx context.Context, log *zap.Logger, users storage.UserRepository) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Warn("ADMIN_USERNAME/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	_, err := users.GetByUsername(ctx, username)
	if err == nil {
		return
	}
	if !errors.Is(err, repository.ErrObjectNotFound) {
		log.Fatal("admin lookup failed", zap.Error(err))
	}

	if err := users.CreateUser(ctx, username, password, "Administrator", "admin"); err != nil {
		log.Fatal("admin seed failed", zap.Error(err))
	}
	log.Info("admin user created", zap.String("username", username))
}
