package cmd

import (
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/templui/goalkeeper/internal/db"
)

// DatabaseOptions selects the database commands run against. Defaults come from
// DB_DRIVER and DB_CONNECTION, read from .env when present.
type DatabaseOptions struct {
	Driver     string
	Connection string
}

func BindDatabaseFlags(root *cobra.Command) *DatabaseOptions {
	_ = godotenv.Load()

	opts := &DatabaseOptions{}
	root.PersistentFlags().StringVar(&opts.Driver, "driver", envOr("DB_DRIVER", "sqlite"), "database driver (sqlite or pgx)")
	root.PersistentFlags().StringVar(&opts.Connection, "db", envOr("DB_CONNECTION", "./data/goalkeeper.db?_pragma=foreign_keys(1)&_time_format=sqlite"), "database connection string")
	return opts
}

func (o *DatabaseOptions) open() (*sqlx.DB, error) {
	return db.Init(o.Driver, o.Connection)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
