package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/Nikias-Tacain/dealdress-page/internal/domain"
	"github.com/Nikias-Tacain/dealdress-page/internal/storage/memory"
	mongostore "github.com/Nikias-Tacain/dealdress-page/internal/storage/mongo"
)

// storageSet объединяет репозитории одного драйвера и его служебные хуки.
type storageSet struct {
	Orders  domain.OrderRepository
	Numbers domain.OrderNumberRepository

	// Ping проверяет доступность хранилища; nil для in-memory.
	Ping func(ctx context.Context) error
	// Close освобождает соединения; nil для in-memory.
	Close func(ctx context.Context) error
}

// initStorage создаёт репозитории по настроенному драйверу. Для mongo
// дополнительно создаются уникальные индексы, обеспечивающие идемпотентность.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*storageSet, error) {
	switch cfg.StorageDriver {
	case "", StorageMemory:
		logger.Info("using in-memory storage")
		return &storageSet{
			Orders:  memory.NewOrderRepository(),
			Numbers: memory.NewOrderNumberRepository(),
		}, nil

	case StorageMongo:
		store, err := mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("open mongo: %w", err)
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		logger.WithField("database", cfg.MongoDatabase).Info("mongo storage initialized")
		return &storageSet{
			Orders:  mongostore.NewOrderRepository(store),
			Numbers: mongostore.NewOrderNumberRepository(store),
			Ping:    store.Ping,
			Close:   store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
