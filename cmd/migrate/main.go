package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/angelmondragon/wedsite-backend/pkg/config"
	"github.com/angelmondragon/wedsite-backend/pkg/db"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
	"github.com/angelmondragon/wedsite-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

type options struct {
	cmd     string
	dir     string
	name    string
	version string
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.cmd, "cmd", "up", "migration command: up|down|status|version|create|validate")
	flag.StringVar(&opts.dir, "dir", "", "migrations directory on disk (default: schema embedded in the binary; create uses "+migrate.DefaultDir+")")
	flag.StringVar(&opts.name, "name", "", "migration name (for create)")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	if err := run(context.Background(), opts); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", opts.cmd, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	// create and validate only touch the filesystem
	switch opts.cmd {
	case "create":
		if opts.name == "" {
			return errors.New("missing -name")
		}
		dir := opts.dir
		if dir == "" {
			dir = migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(dir, opts.name)
		if err != nil {
			return err
		}
		fmt.Println("created migration:", path)
		return nil
	case "validate":
		if err := migrate.Validate(migrate.Source(opts.dir)); err != nil {
			return err
		}
		fmt.Println("migration validation passed")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		return errors.New("goose migrations target postgres; sqlite is migrated by the api on boot")
	}

	logg := logger.New(logger.Options{
		ServiceName: "wedsite-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "cmd": opts.cmd, "dir": opts.dir})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		return fmt.Errorf("sql handle: %w", err)
	}

	runner, err := migrate.NewRunner(sqlDB, migrate.Source(opts.dir), logg)
	if err != nil {
		return err
	}
	logg.Info(ctx, "migrate ready")

	switch opts.cmd {
	case "up":
		return runner.Up(ctx)
	case "down":
		return runner.Down(ctx)
	case "status":
		return runner.Status(ctx)
	case "version":
		if opts.version == "" {
			return errors.New("missing -version")
		}
		return runner.MigrateTo(ctx, opts.version)
	default:
		return fmt.Errorf("unknown -cmd value %q", opts.cmd)
	}
}
