// Command notes-api serves the users and notes REST API.
//
//	@title			Notes API
//	@version		1.0
//	@description	Users and their notes, with uniqueness and referential constraints.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/notekeeper/notes-api/internal/api"
	"github.com/notekeeper/notes-api/internal/core/ports"
	"github.com/notekeeper/notes-api/internal/core/service"
	"github.com/notekeeper/notes-api/internal/infrastructure/config"
	"github.com/notekeeper/notes-api/internal/infrastructure/db/memory"
	"github.com/notekeeper/notes-api/internal/infrastructure/db/mongo"
	"github.com/notekeeper/notes-api/internal/infrastructure/db/postgres"
	"github.com/notekeeper/notes-api/internal/infrastructure/db/redis"
	"github.com/notekeeper/notes-api/internal/infrastructure/events"
	"github.com/notekeeper/notes-api/internal/infrastructure/http/handlers"
	"github.com/notekeeper/notes-api/internal/infrastructure/queue"
	"github.com/notekeeper/notes-api/internal/infrastructure/tracing"
	"github.com/notekeeper/notes-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "notes-api: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: cfg.Tracing.ServiceName,
		Env:     cfg.Env,
	})

	shutdownTracing, err := tracing.Init(tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	deps := map[string]handlers.Pinger{}
	var cleanups []func()
	defer func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}()

	// --- Id sequence ---
	var seq ports.Sequence
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		cleanups = append(cleanups, func() { _ = client.Close() })
		deps["redis"] = handlers.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
		seq = redis.NewSequence(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis id sequence")
	}

	// --- Storage ---
	repos, err := openStore(ctx, cfg, seq, deps, &cleanups)
	if err != nil {
		return err
	}
	log.Info().Str("backend", cfg.Backend).Msg("store ready")

	// --- Repository events ---
	var sink ports.EventPublisher = events.NewLogPublisher(logger.For("events"))
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		cleanups = append(cleanups, func() { _ = kp.Close() })
		deps["kafka"] = kp
		sink = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing events to kafka")
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	dispatcher := queue.NewDispatcher(cfg.Events.Workers, sink, logger.For("dispatcher"))
	dispatcher.Start(workerCtx)
	// runs before the sink cleanups so queued events still reach it
	defer dispatcher.Close()

	svc := service.New(repos, dispatcher, logger.For("service"))

	e := api.NewRouter(api.RouterConfig{
		BaseURL:      cfg.BaseURL,
		Logger:       logger.For("http"),
		Users:        svc.Users,
		Notes:        svc.Notes,
		Dependencies: deps,
		Registerer:   prometheus.DefaultRegisterer,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	return nil
}

// openStore builds the repositories for cfg.Backend. seq, when non-nil,
// replaces the backend's own id allocation.
func openStore(ctx context.Context, cfg *config.Config, seq ports.Sequence, deps map[string]handlers.Pinger, cleanups *[]func()) (service.Repositories, error) {
	switch cfg.Backend {
	case config.BackendMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return service.Repositories{}, err
		}
		*cleanups = append(*cleanups, func() { _ = client.Disconnect(context.Background()) })
		deps["mongodb"] = handlers.PingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) })

		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			return service.Repositories{}, err
		}
		if seq == nil {
			seq = mongo.NewSequence(db)
		}
		return service.Repositories{
			Users: mongo.NewUserRepository(db, seq),
			Notes: mongo.NewNoteRepository(db, seq),
		}, nil

	case config.BackendPostgres:
		db, err := postgres.Open(cfg.Postgres.DSN)
		if err != nil {
			return service.Repositories{}, err
		}
		*cleanups = append(*cleanups, func() { closeGorm(db) })
		deps["postgres"] = handlers.PingFunc(func(ctx context.Context) error { return postgres.Ping(ctx, db) })

		if err := postgres.Migrate(ctx, db); err != nil {
			return service.Repositories{}, err
		}
		if seq == nil {
			seq = postgres.NewSequence(db)
		}
		return service.Repositories{
			Users: postgres.NewUserRepository(db, seq),
			Notes: postgres.NewNoteRepository(db, seq),
		}, nil

	default:
		store := memory.NewStore(seq)
		return service.Repositories{Users: store.Users, Notes: store.Notes}, nil
	}
}

func closeGorm(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
