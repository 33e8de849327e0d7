package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

type Migrator struct {
	db *sqlx.DB

	logger *slog.Logger
}

func NewDatabaseMigrator(db *sqlx.DB, logger *slog.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
	}
}

func (m *Migrator) createTrigramExtension(ctx context.Context) error {
	// pg_trgm backs the player name search index. It is database-wide, so it is created and
	// committed on its own connection before the schema migrations run.
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect for extension creation: %w", err)
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS pg_trgm SCHEMA public")
	if err != nil {
		return fmt.Errorf("failed to create pg_trgm extension: %w", err)
	}
	return nil
}

func newMigrateInstance(ctx context.Context, conn *sqlx.Conn, schemaName string) (*migrate.Migrate, error) {
	migrationSource, err := iofs.New(embeddedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	dbDriver, err := postgres.WithConnection(ctx, conn.Conn, &postgres.Config{
		DatabaseName: DB_NAME,
		SchemaName:   schemaName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	instance, err := migrate.NewWithInstance("iofs", migrationSource, "postgres", dbDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return instance, nil
}

// Migrate creates schemaName if needed and applies all pending migrations to it
func (m *Migrator) Migrate(ctx context.Context, schemaName string) error {
	logger := m.logger.With("schema", schemaName)

	err := m.createTrigramExtension(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	conn, err := m.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("migrate: failed to connect to db: %w", err)
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pq.QuoteIdentifier(schemaName)))
	if err != nil {
		return fmt.Errorf("migrate: failed to create schema: %w", err)
	}

	// public holds the pg_trgm operator classes
	_, err = conn.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s, public", pq.QuoteIdentifier(schemaName)))
	if err != nil {
		return fmt.Errorf("migrate: failed to set search path: %w", err)
	}

	instance, err := newMigrateInstance(ctx, conn, schemaName)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer instance.Close()

	logger.InfoContext(ctx, "Applying migrations")
	err = instance.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.InfoContext(ctx, "Schema is up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate: failed to migrate: %w", err)
	}

	version, _, err := instance.Version()
	if err != nil {
		return fmt.Errorf("migrate: failed to read version: %w", err)
	}
	logger.InfoContext(ctx, "Migrations applied", "version", version)

	return nil
}
