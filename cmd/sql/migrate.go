package sql

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	_ "github.com/jackc/pgx/v5/stdlib" // Register the pgx database/sql driver
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/kpremium/cmd/env"
	dbpkg "github.com/sig-0/kpremium/storage/sql"
)

const schemaDir = "schema"

// migrateCfg wraps the migrate configuration
type migrateCfg struct {
	rootCfg *sqlCfg
}

// newMigrateCmd creates the migrate command
func newMigrateCmd(rootCfg *sqlCfg) *ffcli.Command {
	cfg := &migrateCfg{
		rootCfg: rootCfg,
	}

	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	rootCfg.RegisterFlags(fs)

	return &ffcli.Command{
		Name:       "migrate",
		ShortUsage: "sql migrate [migration.sql, migration2.sql ...]",
		LongHelp:   "Runs the DB migrations (all embedded migrations, if none are specified)",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *migrateCfg) exec(ctx context.Context, args []string) error {
	names, err := migrationNames(args)
	if err != nil {
		return err
	}

	dsn := os.Getenv(env.Var(env.DBURLSuffix))
	if dsn == "" {
		return fmt.Errorf("missing %s", env.Var(env.DBURLSuffix))
	}

	// Open the DB
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}

	defer func() {
		if err = db.Close(); err != nil {
			fmt.Printf("Unable to gracefully close DB: %s\n", err.Error())
		}
	}()

	// Ping the DB
	if err = db.PingContext(ctx); err != nil {
		return fmt.Errorf("unable to ping DB: %w", err)
	}

	for _, name := range names {
		sqlBytes, err := dbpkg.SchemaFS.ReadFile(path.Join(schemaDir, name))
		if err != nil {
			return fmt.Errorf("unable to read migration %q: %w", name, err)
		}

		fmt.Printf("Running migration %s...\n", name)

		if _, err := db.ExecContext(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("unable to run migration %q: %w", name, err)
		}

		fmt.Printf("Migration %q complete\n", name)
	}

	fmt.Println("All migrations complete!")

	return nil
}

// migrationNames returns the requested migrations, or every embedded one in order
func migrationNames(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	matches, err := fs.Glob(dbpkg.SchemaFS, path.Join(schemaDir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("unable to list migrations: %w", err)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no migration files provided")
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, path.Base(m))
	}

	sort.Strings(names)

	return names, nil
}
