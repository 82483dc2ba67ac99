package repository

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...), "component", "migrations")
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "migrations")
}

func (r *Repository) prepareGoose(logger *slog.Logger) error {
	goose.SetBaseFS(migrationsFS)
	if logger != nil {
		goose.SetLogger(gooseLogger{logger: logger})
	} else {
		goose.SetLogger(goose.NopLogger())
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	return nil
}

// Migrate applies all pending embedded migrations.
func (r *Repository) Migrate(ctx context.Context, logger *slog.Logger) error {
	if err := r.prepareGoose(logger); err != nil {
		return err
	}

	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// ResetSchema rolls every migration back and re-applies them.
// Intended for integration tests only.
func (r *Repository) ResetSchema(ctx context.Context) error {
	if err := r.prepareGoose(nil); err != nil {
		return err
	}

	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	if err := goose.ResetContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("goose reset: %w", err)
	}
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// SchemaVersion returns the currently applied migration version.
func (r *Repository) SchemaVersion(ctx context.Context) (int64, error) {
	if err := r.prepareGoose(nil); err != nil {
		return 0, err
	}

	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("goose version: %w", err)
	}
	return version, nil
}
