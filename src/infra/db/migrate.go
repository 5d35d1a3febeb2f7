package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"pharmarx/src/infra/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies pending schema migrations. It uses a short-lived
// database/sql connection through the pgx stdlib adapter; the pgxpool used
// for serving traffic is opened separately.
func Migrate(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) error {
	conn, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer conn.Close()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, conn, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, conn)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	log.Info("schema migrations applied", "version", version)
	return nil
}
