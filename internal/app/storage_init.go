package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/contract/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/contract/internal/health"
	"github.com/vladislavdragonenkov/contract/internal/storage/memory"
	"github.com/vladislavdragonenkov/contract/internal/storage/postgres"
)

// runtimeDependencies — репозитории выбранного хранилища и проверка его доступности.
type runtimeDependencies struct {
	orders         domain.OrderRepository
	history        domain.HistoryRepository
	storageChecker healthcheck.Checker
	closeFn        func() error
}

func (d *runtimeDependencies) close(logger *log.Entry) {
	if d == nil || d.closeFn == nil {
		return
	}
	if err := d.closeFn(); err != nil {
		logger.WithError(err).Warn("failed to close storage")
	}
}

func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	switch cfg.StorageDriver {
	case StorageDriverMemory:
		logger.Info("using in-memory storage")
		return &runtimeDependencies{
			orders:  memory.NewOrderRepository(),
			history: memory.NewHistoryRepository(),
			storageChecker: healthcheck.NewSimpleChecker("storage", func(context.Context) error {
				return nil
			}),
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres dsn is required for storage driver %q", StorageDriverPostgres)
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply postgres migrations: %w", err)
			}
			logger.Info("postgres migrations applied")
		}

		logger.Info("using postgres storage")
		return &runtimeDependencies{
			orders:         postgres.NewOrderRepository(store),
			history:        postgres.NewHistoryRepository(store),
			storageChecker: healthcheck.NewSimpleChecker("postgres", store.Ping),
			closeFn:        store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
