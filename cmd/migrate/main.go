package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/partshop/backend/internal/infrastructure/config"
	"github.com/partshop/backend/internal/infrastructure/logger"
	"github.com/partshop/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

var errUsage = errors.New("usage")

// dbCommand runs against a live schema
type dbCommand func(m *migration.Migrator, args []string, log *zap.Logger) error

// fileCommand only touches the migrations directory
type fileCommand func(dir string, args []string, log *zap.Logger) error

var fileCommands = map[string]fileCommand{
	"create": createCmd,
	"list":   listCmd,
}

var dbCommands = map[string]dbCommand{
	"up":   func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Up() },
	"down": func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Down() },
	"step": func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		n, err := intArg(args, "step count")
		if err != nil {
			return err
		}
		return m.Steps(n)
	},
	"force": func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		v, err := intArg(args, "version")
		if err != nil {
			return err
		}
		return m.Force(v)
	},
	"version": versionCmd,
}

func main() {
	path := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: *level, Format: "console", Output: "stdout", Service: "partshop-migrate"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(flag.Arg(0), flag.Args()[1:], *path, log); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
			os.Exit(2)
		}
		log.Fatal("Migration command failed", zap.String("command", flag.Arg(0)), zap.Error(err))
	}
}

func run(command string, args []string, path string, log *zap.Logger) error {
	if fc, ok := fileCommands[command]; ok {
		dir := path
		if dir == "" {
			dir = defaultMigrationsPath
		}
		return fc(dir, args, log)
	}

	dc, ok := dbCommands[command]
	if !ok {
		log.Error("Unknown command", zap.String("command", command))
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	opts := []migration.Option{migration.WithLogger(log)}
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("resolve migrations path: %w", err)
		}
		opts = append(opts, migration.WithDir(abs))
	}
	// the migrator owns db from here and closes it
	m, err := migration.New(db, opts...)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() { _ = m.Close() }()

	return dc(m, args, log)
}

func versionCmd(m *migration.Migrator, _ []string, log *zap.Logger) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		log.Info("No migrations applied")
		return nil
	}
	log.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func createCmd(dir string, args []string, log *zap.Logger) error {
	if len(args) < 1 {
		log.Error("Migration name required")
		return errUsage
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}
	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		return err
	}
	log.Info("Migration created",
		zap.Uint("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
	return nil
}

func listCmd(dir string, _ []string, log *zap.Logger) error {
	files, err := migration.ListMigrations(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Info("No migrations found", zap.String("dir", dir))
		return nil
	}
	for _, mf := range files {
		fmt.Println("  -", mf.Base())
	}
	return nil
}

func intArg(args []string, what string) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%s required: %w", what, errUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[0])
	}
	return n, nil
}

func printUsage() {
	fmt.Println(`Parts shop schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  version               Show the applied version
  force <version>       Record a version without running it (clears dirty state)
  create <name> [desc]  Create a new up/down pair in ./migrations
  list                  List migrations on disk

Flags:
  -path string          Migrations directory; the binary's embedded set is used when empty
  -log-level string     debug, info, warn, error (default: info)

Environment:
  PARTSHOP_DATABASE_HOST, PARTSHOP_DATABASE_PORT, PARTSHOP_DATABASE_USER,
  PARTSHOP_DATABASE_PASSWORD, PARTSHOP_DATABASE_DBNAME, PARTSHOP_DATABASE_SSLMODE

Examples:
  migrate up
  migrate step -1
  migrate create add_barcode_index "Index parts by barcode"`)
}
