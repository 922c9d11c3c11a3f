package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-system/internal/domain/auth"
	"github.com/yanqian/faq-system/internal/domain/faq"
	"github.com/yanqian/faq-system/internal/domain/upload"
	"github.com/yanqian/faq-system/internal/infra/config"
	"github.com/yanqian/faq-system/internal/infra/database"
	"github.com/yanqian/faq-system/internal/infra/faqrepo"
	"github.com/yanqian/faq-system/internal/infra/faqstore"
	"github.com/yanqian/faq-system/internal/infra/storage"
	"github.com/yanqian/faq-system/internal/infra/userrepo"
)

const (
	connectTimeout = 30 * time.Second
	cachePingWait  = 2 * time.Second
)

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{CacheTTL: cfg.Cache.TTL}
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}
}

func provideUploadConfig(cfg *config.Config) upload.Config {
	return upload.Config{MaxBytes: cfg.Upload.MaxBytes}
}

// provideDatabase opens the configured backend and applies migrations when enabled.
// Unlike the cache, a broken database is fatal.
func provideDatabase(cfg *config.Config, logger *slog.Logger) (*database.Handles, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	handles, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, handles, logger); err != nil {
			handles.Close()
			return nil, nil, err
		}
	}
	return handles, handles.Close, nil
}

func provideFAQRepository(handles *database.Handles, logger *slog.Logger) faq.Repository {
	switch handles.Driver() {
	case database.DriverPostgres:
		logger.Info("faq postgres repository enabled")
		return faqrepo.NewPostgresRepository(handles.Pool)
	case database.DriverSQLite:
		logger.Info("faq sqlite repository enabled")
		return faqrepo.NewSQLiteRepository(handles.SQLite)
	default:
		logger.Warn("faq data is kept in memory and lost on restart")
		return faqrepo.NewMemoryRepository()
	}
}

func provideUserRepository(handles *database.Handles) auth.Repository {
	switch handles.Driver() {
	case database.DriverPostgres:
		return userrepo.NewPostgresRepository(handles.Pool)
	case database.DriverSQLite:
		return userrepo.NewSQLiteRepository(handles.SQLite)
	default:
		return userrepo.NewMemoryRepository()
	}
}

// provideListCache prefers Valkey and falls back to the in-process cache when it is unreachable.
func provideListCache(cfg *config.Config, logger *slog.Logger) (faq.ListCache, func()) {
	fallback := func() (faq.ListCache, func()) {
		store := faqstore.NewMemoryStore()
		return store, store.Close
	}
	if !cfg.Cache.Redis.Enabled {
		return fallback()
	}
	opt, err := buildValkeyOptions(cfg.Cache.Redis)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return fallback()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return fallback()
	}
	ctx, cancel := context.WithTimeout(context.Background(), cachePingWait)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return fallback()
	}
	logger.Info("faq valkey cache enabled", "addr", cfg.Cache.Redis.Addr)
	return faqstore.NewValkeyStore(client, cfg.Cache.Prefix), client.Close
}

func buildValkeyOptions(cfg config.RedisConfig) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Addr, "://") {
		return valkey.ParseURL(cfg.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Addr}}, nil
}

func provideObjectStorage(cfg *config.Config, logger *slog.Logger) upload.ObjectStorage {
	s3cfg := cfg.Upload.S3
	if s3cfg.Endpoint == "" || s3cfg.Bucket == "" {
		logger.Info("s3 storage not configured, keeping uploads in memory")
		return storage.NewMemoryStorage()
	}
	store, err := storage.NewS3Storage(s3cfg.Endpoint, s3cfg.AccessKey, s3cfg.SecretKey, s3cfg.Bucket, s3cfg.Region, logger)
	if err != nil {
		logger.Error("failed to initialize s3 storage, keeping uploads in memory", "error", err)
		return storage.NewMemoryStorage()
	}
	logger.Info("s3 upload storage enabled", "bucket", s3cfg.Bucket)
	return store
}
