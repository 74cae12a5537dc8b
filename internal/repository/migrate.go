package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// MigrationsTable is the goose bookkeeping table.
const MigrationsTable = "schema_migrations"

var (
	ErrSetDialect        = errors.New("migrator: failed to set dialect")
	ErrApplyMigrations   = errors.New("migrator: failed to apply migrations")
	ErrUnknownMigrateCmd = errors.New("migrator: unknown command")
)

// Migrate runs a goose command ("up", "down", "status" or "reset") against pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, command string, log *slog.Logger) error {
	switch command {
	case "", "up", "down", "status", "reset":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMigrateCmd, command)
	}

	// The sql.DB shares pool's connections, so it is not closed here.
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLogger{log: log})
	goose.SetTableName(MigrationsTable)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	var err error
	switch command {
	case "", "up":
		err = goose.UpContext(ctx, db, ".")
	case "down":
		err = goose.DownContext(ctx, db, ".")
	case "status":
		err = goose.StatusContext(ctx, db, ".")
	case "reset":
		err = goose.ResetContext(ctx, db, ".")
	}
	if err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}
	return nil
}

type gooseLogger struct {
	log *slog.Logger
}

func (g *gooseLogger) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

// Fatalf only logs; goose returns the error to the caller as well.
func (g *gooseLogger) Fatalf(format string, args ...any) {
	g.log.Error(fmt.Sprintf(format, args...))
}
