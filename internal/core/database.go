package database

import (
	"context"
	"fmt"

	"github.com/duynhne/directory-service/config"
	"github.com/duynhne/directory-service/internal/core/domain"
	mongorepo "github.com/duynhne/directory-service/internal/core/repository/mongo"
	"github.com/duynhne/directory-service/internal/core/repository/psql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store is the process-wide storage handle. It is opened once at startup,
// passed to the components that need it and closed on shutdown.
type Store struct {
	Profiles domain.ProfileRepository
	Driver   string

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks that the backing database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the connection pool or client.
func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}

// Open connects to the configured driver, prepares indexes/schema and
// returns the profile repository bound to that connection.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()

	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, err := ConnectMongo(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		repo := mongorepo.NewProfileRepository(client.Database(cfg.Database.MongoDatabase))
		if err := repo.EnsureIndexes(ctx, cfg.Listing.UniqueEmailIndex); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &Store{
			Profiles: repo,
			Driver:   config.DriverMongo,
			ping:     func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
			close:    client.Disconnect,
		}, nil

	case config.DriverPostgres:
		pool, err := ConnectPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		repo := psql.NewProfileRepository(pool)
		if err := repo.EnsureSchema(ctx, cfg.Listing.UniqueEmailIndex); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Profiles: repo,
			Driver:   config.DriverPostgres,
			ping:     pool.Ping,
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

// ConnectMongo connects and pings MongoDB.
func ConnectMongo(ctx context.Context, cfg config.DatabaseConfig) (*mongodriver.Client, error) {
	client, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, nil
}

// ConnectPostgres establishes database connection pool using pgx/v5.
//
// SimpleProtocol mode with statement caching disabled keeps the pool usable
// behind transaction-mode poolers (PgBouncer/PgCat), which otherwise fail with
// "prepared statement stmtcache_* does not exist".
func ConnectPostgres(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.BuildDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolCfg.ConnConfig.StatementCacheCapacity = 0
	poolCfg.ConnConfig.DescriptionCacheCapacity = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
