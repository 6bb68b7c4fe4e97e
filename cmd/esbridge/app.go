package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esbridge/internal/config"
	"github.com/kailas-cloud/esbridge/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/esbridge/internal/db/redis"
	logpkg "github.com/kailas-cloud/esbridge/internal/logger"
	"github.com/kailas-cloud/esbridge/internal/metrics"
	documentrepo "github.com/kailas-cloud/esbridge/internal/repository/document"
	indexrepo "github.com/kailas-cloud/esbridge/internal/repository/index"
	searchrepo "github.com/kailas-cloud/esbridge/internal/repository/search"
	userrepo "github.com/kailas-cloud/esbridge/internal/repository/user"
	batchuc "github.com/kailas-cloud/esbridge/internal/usecase/batch"
	documentuc "github.com/kailas-cloud/esbridge/internal/usecase/document"
	healthuc "github.com/kailas-cloud/esbridge/internal/usecase/health"
	indexuc "github.com/kailas-cloud/esbridge/internal/usecase/index"
	searchuc "github.com/kailas-cloud/esbridge/internal/usecase/search"
	"github.com/kailas-cloud/esbridge/internal/version"
)

// app is the composition root shared by all commands.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger

	engine *elastic.Client
	store  *dbRedis.Store
	users  *userrepo.Source
}

// bootstrap loads configuration, builds the logger and connects to the
// search engine. The user store is connected only when configured.
func bootstrap(ctx context.Context, command string) (*app, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	logger.Info("Starting esbridge",
		zap.String("command", command),
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Strings("engine_addrs", cfg.Elasticsearch.Addresses),
		zap.Strings("users_addrs", cfg.Users.Addrs),
		zap.String("index", cfg.Index.Name),
	)

	metrics.RegisterEngineMetrics()

	a := &app{env: env, cfg: cfg, logger: logger}

	a.engine, err = elastic.New(elastic.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
		Refresh:   cfg.Elasticsearch.Refresh,
	})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("search engine: %w", err)
	}

	engineTimeout := time.Duration(cfg.Elasticsearch.ReadinessTimeout) * time.Second
	if err := a.engine.WaitForReady(ctx, engineTimeout); err != nil {
		a.close()
		return nil, fmt.Errorf("search engine not ready: %w", err)
	}
	logger.Info("Connected to search engine")

	if !cfg.UsersEnabled() {
		logger.Warn("User store not configured, tutorial routes that read users will fail")
		return a, nil
	}

	a.store, err = dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Users.Addrs,
		Username:   cfg.Users.Username,
		Password:   cfg.Users.Password,
		DB:         cfg.Users.DB,
		ClientName: cfg.Users.ClientName,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	usersTimeout := time.Duration(cfg.Users.ReadinessTimeout) * time.Second
	if err := a.store.WaitForReady(ctx, usersTimeout); err != nil {
		a.close()
		return nil, err
	}
	a.users = userrepo.New(a.store, cfg.Users.KeyPrefix)
	logger.Info("Connected to user store")

	return a, nil
}

// services wires repositories into use case services.
type services struct {
	indices   *indexuc.Service
	documents *documentuc.Service
	batch     *batchuc.Service
	search    *searchuc.Service
	health    *healthuc.Service
}

func (a *app) services() services {
	indexRepo := indexrepo.New(a.engine).WithSettings(indexrepo.Settings{
		Shards:   a.cfg.Elasticsearch.Shards,
		Replicas: a.cfg.Elasticsearch.Replicas,
	})
	docRepo := documentrepo.New(a.engine)
	searchRepo := searchrepo.New(a.engine)

	// Pass nil interfaces (not typed nil pointers) when the user store is absent.
	var (
		docUsers    documentuc.UserSource
		batchUsers  batchuc.UserSource
		usersPinger healthuc.UserStorePinger
	)
	if a.users != nil {
		docUsers = a.users
		batchUsers = a.users
		usersPinger = a.store
	}

	return services{
		indices:   indexuc.New(indexRepo, a.cfg.Index.Name),
		documents: documentuc.New(docRepo, docUsers, a.cfg.Index.Name),
		batch: batchuc.New(docRepo, batchUsers, a.cfg.Index.Name).
			WithMaxBatchSize(a.cfg.Index.MaxBatchSize),
		search: searchuc.New(searchRepo).
			WithPagination(a.cfg.Index.DefaultPageSize, a.cfg.Index.MaxPageSize),
		health: healthuc.New(a.engine, usersPinger),
	}
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
	_ = a.logger.Sync()
}
