package main

import (
	"context"
	"errors"
	"fmt"

	"njaboot/internal/adapter/authapi"
	"njaboot/internal/adapter/localstore"
	"njaboot/internal/adapter/memory"
	redisstore "njaboot/internal/adapter/redis"
	"njaboot/internal/adapter/sqlite"
	"njaboot/internal/app"
	"njaboot/internal/catalog"
	"njaboot/internal/config"
	"njaboot/internal/domain"
	"njaboot/internal/logger"
)

// appEnv holds the stores shared by every command of one invocation.
type appEnv struct {
	cfg     *config.Config
	log     *logger.Logger
	storage domain.LocalStorage
	closers []func() error

	cart    *app.CartStore
	session *app.SessionStore

	catalog *catalog.Catalog
}

func newEnv(ctx context.Context, cfg *config.Config, log *logger.Logger) (*appEnv, error) {
	storage, closer, err := openStorage(ctx, cfg.Client)
	if err != nil {
		return nil, err
	}
	return newEnvWithStorage(ctx, cfg, log, storage, closer)
}

func newEnvWithStorage(ctx context.Context, cfg *config.Config, log *logger.Logger, storage domain.LocalStorage, closer func() error) (*appEnv, error) {
	client, err := authapi.NewClient(cfg.Client.APIURL, authapi.WithTimeout(cfg.Client.HTTPTimeout))
	if err != nil {
		if closer != nil {
			_ = closer()
		}
		return nil, err
	}

	e := &appEnv{cfg: cfg, log: log, storage: storage}
	if closer != nil {
		e.closers = append(e.closers, closer)
	}
	e.cart = app.NewCartStore(ctx, localstore.NewCartRepo(storage), log)
	e.session = app.NewSessionStore(client, localstore.NewProfileRepo(storage), log)
	e.session.Rehydrate(ctx)

	log.Debug(log.WithField(ctx, "driver", cfg.Client.StorageDriver), "client state loaded")
	return e, nil
}

func openStorage(ctx context.Context, cfg config.ClientConfig) (domain.LocalStorage, func() error, error) {
	switch cfg.StorageDriver {
	case config.StorageSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return s, s.Close, nil
	case config.StorageRedis:
		s, err := redisstore.Dial(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis storage: %w", err)
		}
		return s, s.Close, nil
	case config.StorageMemory:
		return memory.New(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Catalog loads the product catalog on first use.
func (e *appEnv) Catalog() (*catalog.Catalog, error) {
	if e.catalog != nil {
		return e.catalog, nil
	}
	c, err := catalog.Load(e.cfg.Client.CatalogPath)
	if err != nil {
		return nil, err
	}
	e.catalog = c
	return c, nil
}

// Close releases the local storage.
func (e *appEnv) Close() error {
	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
