package store

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// Migrate applies the embedded schema. It is idempotent (every statement
// is IF NOT EXISTS), so it is safe to call on every process startup in
// place of a full relational-migration framework, which this project has
// never needed given its single, append-only schema history.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
