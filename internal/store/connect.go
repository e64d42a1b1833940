package store

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnConfig holds the pieces used to build a Postgres connection string
// from discrete environment variables, mirroring the original's
// construct_postgres_url rather than accepting one opaque DSN.
type ConnConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// DSN builds a postgres:// connection string, URL-encoding the user and
// password so special characters in either don't break the URL.
func (c ConnConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%s", c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	return u.String()
}

// Connect builds a pool tuned the way the original indexer/crawler tuned
// sqlx: a modest max, a small always-on minimum, and generous but bounded
// connection lifetimes so long-running crawls don't leak.
func Connect(ctx context.Context, cfg ConnConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 10 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return pool, nil
}
