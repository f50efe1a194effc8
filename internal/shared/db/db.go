package db

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/cristianortiz/auctionLedger/internal/shared/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	dbPool *pgxpool.Pool
	once   sync.Once
)

// BuildPostgresDSN builds the connection url from the db config, credentials are url escaped
func BuildPostgresDSN(c config.DBConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// GetPostgresDBPool returns a singleton *pgxpool.Pool, the pool is pinged on every call
func GetPostgresDBPool(ctx context.Context, c config.DBConfig) (*pgxpool.Pool, error) {
	var err error
	once.Do(func() {
		poolConfig, configErr := pgxpool.ParseConfig(BuildPostgresDSN(c))
		if configErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", configErr)
			return
		}

		pool, connectErr := pgxpool.NewWithConfig(ctx, poolConfig)
		if connectErr != nil {
			err = fmt.Errorf("unable to connect to DB: %w", connectErr)
			return
		}
		dbPool = pool
	})

	if err != nil {
		return nil, err
	}
	if dbPool == nil {
		return nil, errors.New("database pool was not initialized")
	}
	if pingErr := dbPool.Ping(ctx); pingErr != nil {
		return nil, fmt.Errorf("database pool ping failed: %w", pingErr)
	}

	return dbPool, nil
}
