package main

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/commerceprecision/cpe-api/internal/config"
	"github.com/commerceprecision/cpe-api/internal/platform/postgres/migrations"
)

// migrationTableName isolates this application's migration history from any
// other schema users in the same database.
const migrationTableName = "cpe_schema_migrations"

// runMigrations executes the given goose command against the configured
// database using the embedded migration files.
func runMigrations(cfg *config.Config, command string) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(migrationTableName)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() { _ = db.Close() }()

	switch command {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	case "version":
		err = goose.Version(db, ".")
	default:
		return fmt.Errorf("unknown migration command %q (want up, down, status or version)", command)
	}
	if err != nil {
		return fmt.Errorf("migration command %q failed: %w", command, err)
	}

	return nil
}
