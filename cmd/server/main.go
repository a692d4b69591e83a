package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"taskboard/internal/audit"
	httpapi "taskboard/internal/http"
	identityHandler "taskboard/internal/identity/handler"
	identityService "taskboard/internal/identity/service"
	identityStore "taskboard/internal/identity/store"
	"taskboard/internal/platform/config"
	"taskboard/internal/platform/httpserver"
	"taskboard/internal/platform/logger"
	"taskboard/internal/platform/metrics"
	platformredis "taskboard/internal/platform/redis"
	taskHandler "taskboard/internal/task/handler"
	taskService "taskboard/internal/task/service"
	taskStore "taskboard/internal/task/store"
	"taskboard/internal/token"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies and supervises the two long-running pieces: the
// HTTP server and the audit worker. Business logic lives in the internal
// service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	m := metrics.New()

	back, err := buildBackends(cfg, m, log)
	if err != nil {
		log.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer back.cleanup()

	tokens := token.NewService(cfg.JWTSigningKey, "taskboard", cfg.TokenTTL)

	publisher := audit.NewPublisher(log, 0)
	var sink audit.Sink
	kafkaSink, err := audit.NewKafkaSink(cfg.Kafka)
	if err != nil {
		log.Error("failed to connect audit sink", "error", err)
		os.Exit(1)
	}
	if kafkaSink != nil {
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("audit events forwarded to kafka", "topic", cfg.Kafka.Topic)
	}
	worker := audit.NewWorker(audit.NewInMemoryStore(), sink, publisher.Inbox(), log)

	identity := identityService.New(back.users, tokens, m, publisher)
	taskSvc := taskService.New(back.tasks, m, publisher)

	router := httpapi.NewRouter(httpapi.Dependencies{
		Logger:   log,
		Metrics:  m,
		Identity: identityHandler.New(identity, log, tokens),
		Tasks:    taskHandler.New(taskSvc, log, tokens),
		Health:   back.health,
	})

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting taskboard", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// backends bundles the storage layer selected at startup: the stores, a
// health probe over whatever external systems are in play, and their cleanup.
type backends struct {
	users   identityStore.UserStore
	tasks   taskStore.TaskStore
	health  func(*http.Request) error
	cleanup func()
}

// buildBackends selects the backing stores: postgres when a DSN is
// configured, in-memory otherwise. When redis is configured the task store is
// wrapped in the per-owner list cache.
func buildBackends(cfg config.Server, m *metrics.Metrics, log *slog.Logger) (*backends, error) {
	b := &backends{cleanup: func() {}}

	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, err
		}
		b.users = identityStore.NewPostgres(db)
		b.tasks = taskStore.NewPostgres(db)
		b.health = func(r *http.Request) error { return db.PingContext(r.Context()) }
		b.cleanup = func() { _ = db.Close() }
		log.Info("using postgres storage")
	} else {
		b.users = identityStore.NewInMemory()
		b.tasks = taskStore.NewInMemory()
		log.Info("using in-memory storage; data is lost on restart")
	}

	cache, err := platformredis.New(cfg.Redis)
	if err != nil {
		b.cleanup()
		return nil, err
	}
	if cache != nil {
		b.tasks = taskStore.NewCached(b.tasks, cache.Client, cfg.Redis.CacheTTL, m, log)
		dbHealth, dbCleanup := b.health, b.cleanup
		b.health = func(r *http.Request) error {
			if dbHealth != nil {
				if err := dbHealth(r); err != nil {
					return err
				}
			}
			return cache.Health(r.Context())
		}
		b.cleanup = func() {
			_ = cache.Close()
			dbCleanup()
		}
		log.Info("task list cache enabled")
	}

	return b, nil
}
