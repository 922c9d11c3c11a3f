package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"

	"github.com/yanqian/faq-system/internal/infra/config"
)

// Driver names the backend a Handles value talks to.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
	DriverMemory   Driver = "memory"
)

const pingTimeout = 5 * time.Second

// Handles groups the open connection for whichever backend is configured.
// At most one of Pool and SQLite is set; neither means in-memory storage.
type Handles struct {
	Pool       *pgxpool.Pool
	SQLite     *sql.DB
	sqlitePath string
}

// Driver reports the active backend.
func (h *Handles) Driver() Driver {
	switch {
	case h == nil:
		return DriverMemory
	case h.Pool != nil:
		return DriverPostgres
	case h.SQLite != nil:
		return DriverSQLite
	default:
		return DriverMemory
	}
}

// Close releases the underlying connections.
func (h *Handles) Close() {
	if h == nil {
		return
	}
	if h.Pool != nil {
		h.Pool.Close()
	}
	if h.SQLite != nil {
		_ = h.SQLite.Close()
	}
}

// Open connects to Postgres when a DSN is set, otherwise to SQLite when a path is set.
// With neither it returns empty handles and callers keep data in memory.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Handles, error) {
	logger = logger.With("component", "database")
	if dsn := strings.TrimSpace(cfg.Postgres.DSN); dsn != "" {
		pool, err := openPostgres(ctx, dsn, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		logger.Info("postgres connection established")
		return &Handles{Pool: pool}, nil
	}
	if path := strings.TrimSpace(cfg.SQLite.Path); path != "" {
		db, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		logger.Info("sqlite database opened", "path", path)
		return &Handles{SQLite: db, sqlitePath: path}, nil
	}
	logger.Info("no database configured, using memory storage")
	return &Handles{}, nil
}

func openPostgres(ctx context.Context, dsn string, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return pool, nil
}

// OpenSQLite opens the database file at path. Writes are serialized over a single connection.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping failed: %w", err)
	}
	return db, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
}
