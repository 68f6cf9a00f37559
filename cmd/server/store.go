package main

import (
	"context"
	"fmt"

	"customer-keeper/internal/config"
	"customer-keeper/internal/repository"
	"customer-keeper/internal/repository/postgres"
	redisstore "customer-keeper/internal/repository/redis"
	"customer-keeper/internal/repository/sqlite"
)

// store bundles the repositories of one backend with its connection.
type store struct {
	users     repository.UserRepository
	customers repository.CustomerRepository
	close     func() error
}

// openStore connects to the configured backend and creates its schema.
func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &store{
			users:     sqlite.NewUserRepository(db),
			customers: sqlite.NewCustomerRepository(db),
			close:     db.Close,
		}, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &store{
			users:     postgres.NewUserRepository(db),
			customers: postgres.NewCustomerRepository(db),
			close:     db.Close,
		}, nil

	case config.DriverRedis:
		client, err := redisstore.Open(ctx, redisstore.Config{
			URL:          cfg.Redis.URL,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			KeyPrefix:    cfg.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		return &store{
			users:     redisstore.NewUserRepository(client, cfg.Redis.KeyPrefix),
			customers: redisstore.NewCustomerRepository(client, cfg.Redis.KeyPrefix),
			close:     client.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}
