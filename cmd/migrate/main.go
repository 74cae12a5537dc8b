package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/logging"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/migrations"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  up (default)  apply pending migrations
  down          roll back the most recent migration
  status        print applied and pending migrations
  reset         roll back every migration`)
	os.Exit(2)
}

func main() {
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		logging.Setup("")
		logging.Fatal("invalid configuration", "error", err)
	}
	log := logging.Setup(cfg.LogLevel)

	if cfg.Database.URL == "" {
		logging.Fatal("DATABASE_URL is not set")
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "up", "down", "status", "reset":
	default:
		usage()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := repository.NewPool(ctx, cfg.Database.URL, cfg.Database.Name)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool, migrations.FS, cmd, log); err != nil {
		pool.Close()
		logging.Fatal("migration failed", "command", cmd, "error", err)
	}
	log.Info("migration finished", "command", cmd)
}
