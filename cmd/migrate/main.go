package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/xcelerate-fit/xcelerate-backend/internal/schemafix"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/config"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/db"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/logger"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/migrate"
)

type options struct {
	dir     string
	name    string
	version string
	out     string
}

// command is one -cmd value. Commands without needsDB run before config is loaded.
type command struct {
	needsDB bool
	run     func(ctx context.Context, sqlDB *sql.DB, opts options, stdout io.Writer) error
}

var commands = map[string]command{
	"up":         {needsDB: true, run: gooseCommand("up")},
	"down":       {needsDB: true, run: gooseCommand("down")},
	"status":     {needsDB: true, run: gooseCommand("status")},
	"version":    {needsDB: true, run: migrateToVersion},
	"create":     {run: createMigration},
	"validate":   {run: validateMigrations},
	"schema-fix": {run: schemaFix},
}

func main() {
	var opts options
	cmdName := flag.String("cmd", "up", "migration command: "+strings.Join(commandNames(), "|"))
	flag.StringVar(&opts.dir, "dir", "", "migrations directory; empty uses the migrations compiled into the binary ("+migrate.DefaultDir+" for create)")
	flag.StringVar(&opts.name, "name", "", "migration name (create)")
	flag.StringVar(&opts.version, "version", "", "target version YYYYMMDDHHMMSS (version)")
	flag.StringVar(&opts.out, "out", "", "write the schema fix here instead of stdout (schema-fix)")
	flag.Parse()

	if err := run(*cmdName, opts); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", *cmdName, err)
		os.Exit(1)
	}
}

func run(name string, opts options) (err error) {
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command, expected one of %s", strings.Join(commandNames(), ", "))
	}
	if !cmd.needsDB {
		return cmd.run(context.Background(), nil, opts, os.Stdout)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	source := opts.dir
	if source == "" {
		source = "embedded"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env, "cmd": name, "source": source})

	if cfg.DB.IsSQLite() {
		return fmt.Errorf("goose migrations target postgres; sqlite schemas are synced by the api at boot")
	}
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		return fmt.Errorf("sql handle: %w", err)
	}

	logg.Info(ctx, "migrate ready")
	if err := cmd.run(ctx, sqlDB, opts, os.Stdout); err != nil {
		logg.Error(ctx, "migrate failed", err)
		return err
	}
	return nil
}

func gooseCommand(name string) func(context.Context, *sql.DB, options, io.Writer) error {
	return func(ctx context.Context, sqlDB *sql.DB, opts options, _ io.Writer) error {
		return migrate.Run(ctx, sqlDB, opts.dir, name)
	}
}

func migrateToVersion(ctx context.Context, sqlDB *sql.DB, opts options, _ io.Writer) error {
	if opts.version == "" {
		return fmt.Errorf("missing -version")
	}
	return migrate.MigrateToVersion(ctx, sqlDB, opts.dir, opts.version)
}

func createMigration(_ context.Context, _ *sql.DB, opts options, stdout io.Writer) error {
	if opts.name == "" {
		return fmt.Errorf("missing -name")
	}
	path, err := migrate.CreateSQLMigration(dirOrDefault(opts.dir), opts.name)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, "created migration:", path)
	return err
}

func validateMigrations(_ context.Context, _ *sql.DB, opts options, stdout io.Writer) error {
	validate := migrate.ValidateEmbedded
	if opts.dir != "" {
		validate = func() error { return migrate.ValidateDir(opts.dir) }
	}
	if err := validate(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(stdout, "migration validation passed")
	return err
}

// schemaFix prints the hosted repair script; it needs neither config nor a database.
func schemaFix(_ context.Context, _ *sql.DB, opts options, stdout io.Writer) error {
	return writeSchemaFix(opts.out, stdout)
}

func writeSchemaFix(path string, stdout io.Writer) error {
	if path == "" {
		_, err := io.WriteString(stdout, schemafix.Script())
		return err
	}
	if err := os.WriteFile(path, []byte(schemafix.Script()), 0o644); err != nil {
		return err
	}
	_, err := fmt.Fprintln(stdout, "wrote schema fix:", path)
	return err
}

func dirOrDefault(dir string) string {
	if dir == "" {
		return migrate.DefaultDir
	}
	return dir
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
