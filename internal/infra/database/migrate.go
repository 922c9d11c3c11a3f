package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFiles embed.FS

const migrationsTable = "schema_migrations_faq"

// Migrate applies every pending up migration for the active backend.
func Migrate(ctx context.Context, h *Handles, logger *slog.Logger) error {
	logger = logger.With("component", "database.migrate")
	switch h.Driver() {
	case DriverPostgres:
		sqlDB := stdlib.OpenDBFromPool(h.Pool)
		driver, err := pgxmigrate.WithInstance(sqlDB, &pgxmigrate.Config{MigrationsTable: migrationsTable})
		if err != nil {
			_ = sqlDB.Close()
			return fmt.Errorf("failed to create pgx migrate driver: %w", err)
		}
		return runUp(ctx, "migrations/postgres", "postgres", driver, logger)
	case DriverSQLite:
		// The sqlite driver closes its *sql.DB when migrate is done, so it gets its own connection.
		sqlDB, err := sql.Open("sqlite3", sqliteDSN(h.sqlitePath))
		if err != nil {
			return fmt.Errorf("failed to open sqlite database for migrations: %w", err)
		}
		driver, err := sqlitemigrate.WithInstance(sqlDB, &sqlitemigrate.Config{MigrationsTable: migrationsTable})
		if err != nil {
			_ = sqlDB.Close()
			return fmt.Errorf("failed to create sqlite migrate driver: %w", err)
		}
		return runUp(ctx, "migrations/sqlite", "sqlite3", driver, logger)
	default:
		logger.Info("memory storage, no migrations to apply")
		return nil
	}
}

func runUp(ctx context.Context, dir, name string, driver database.Driver, logger *slog.Logger) error {
	sub, err := fs.Sub(migrationFiles, dir)
	if err != nil {
		_ = driver.Close()
		return err
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("failed to create iofs driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, name, driver)
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		_, _ = m.Close()
	}()

	_, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return errors.New("migration is dirty, please fix it before proceeding")
	}

	done := make(chan error, 1)
	go func() { done <- m.Up() }()
	select {
	case <-ctx.Done():
		m.GracefulStop <- true
		<-done
		return ctx.Err()
	case err := <-done:
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	version, _, _ := m.Version()
	logger.Info("migrations applied", "backend", name, "version", version)
	return nil
}
