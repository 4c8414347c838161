package main

import (
	"context"
	"fmt"
	"os"

	"github.com/example/task-tracker/internal/config"
	"github.com/example/task-tracker/internal/database"
	"github.com/example/task-tracker/internal/logging"
	"github.com/example/task-tracker/modules/api"
	"github.com/example/task-tracker/modules/notification"
	"github.com/example/task-tracker/modules/statscache"
	"github.com/example/task-tracker/modules/task"
	"github.com/example/task-tracker/modules/user"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/rs/zerolog"
)

// storage bundles the repositories built for the configured driver.
type storage struct {
	users user.Repository
	tasks task.Store
	close func() error
}

func main() {
	cfg, err := config.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.App.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(cfg, logger))
}

func run(cfg *config.Config, logger zerolog.Logger) int {
	logger.Info().Str("env", cfg.App.Env).Str("driver", cfg.Store.Driver).Msg("starting task tracker")

	store, err := openStorage(context.Background(), cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open storage")
		return 1
	}
	defer func() {
		if err := store.close(); err != nil {
			logger.Error().Err(err).Msg("failed to close storage")
		}
	}()

	hasher, err := user.NewPasswordHasher(cfg.Auth.PasswordHasher)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build password hasher")
		return 1
	}
	tokens := user.NewTokenManager(user.TokenConfig{
		SecretKey: cfg.Auth.JWTSecret,
		Issuer:    cfg.Auth.JWTIssuer,
		TTL:       cfg.Auth.TokenTTL,
	})

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.App.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create application")
		return 1
	}

	userModule := user.NewModule(store.users, hasher, tokens, logging.ForModule(logger, "user"))
	checks := []api.HealthChecker{userModule}

	// Independent modules first, then the ones with dependencies.
	app.Register(userModule)
	app.Register(notification.NewModule(logging.ForModule(logger, "notification")))

	var cache task.StatsCache
	if cfg.Redis.Addr != "" {
		statsCache := statscache.New(statscache.NewClient(cfg.Redis.Addr), cfg.Redis.Prefix, cfg.Redis.TTL)
		cacheModule := statscache.NewModule(statsCache, logging.ForModule(logger, "statscache"))
		app.Register(cacheModule)
		checks = append(checks, cacheModule)
		cache = statsCache
	} else {
		logger.Info().Msg("REDIS_ADDR not set, stats cache disabled")
	}

	taskModule := task.NewModule(store.tasks, cache, logging.ForModule(logger, "task"))
	checks = append(checks, taskModule)
	app.Register(taskModule)

	app.Register(api.NewModule(api.Config{
		Port:         cfg.HTTP.Port,
		CORSOrigin:   cfg.HTTP.CORSOrigin,
		CookieName:   cfg.Auth.CookieName,
		SecureCookie: cfg.SecureCookies(),
		CookieMaxAge: cfg.Auth.TokenTTL,
	}, logging.ForModule(logger, "api"), checks...))

	if err := app.Start(context.Background()); err != nil {
		logger.Error().Err(err).Msg("failed to start application")
		return 1
	}
	logger.Info().Int("port", cfg.HTTP.Port).Msg("application started, press Ctrl+C to shut down")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.App.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				logger.Info().Msg("graceful shutdown initiated")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	logger.Info().Int("code", exitCode).Msg("application exited")
	return exitCode
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := database.OpenPostgres(ctx, database.PostgresOptions{
			URL:            cfg.Store.PostgresURL,
			ConnectTimeout: cfg.Store.ConnectTimeout,
			PingTimeout:    cfg.Store.PingTimeout,
		})
		if err != nil {
			return nil, err
		}
		return &storage{
			users: user.NewPgRepository(pool),
			tasks: task.NewPgStore(pool),
			close: func() error {
				pool.Close()
				return nil
			},
		}, nil
	default:
		db, err := database.OpenSQLite(cfg.Store.SQLitePath, cfg.Store.Debug)
		if err != nil {
			return nil, err
		}
		return &storage{
			users: user.NewGormRepository(db),
			tasks: task.NewGormStore(db),
			close: func() error { return database.CloseSQLite(db) },
		}, nil
	}
}
