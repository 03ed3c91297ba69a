package postgres

import (
	"embed"

	pkgpostgres "github.com/bibbank/purchase-approval/pkg/postgres"
)

// MigrationsDir is the directory inside Migrations holding the schema files.
const MigrationsDir = "migrations"

// Migrations holds the service schema, compiled into the binary.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Migrate applies the service schema to the database at dsn.
func Migrate(dsn string) error {
	return pkgpostgres.RunMigrations(dsn, Migrations, MigrationsDir)
}
