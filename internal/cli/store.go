package cli

import (
	"context"
	"fmt"

	"weekly-tracker/internal/domain/tracker"
	"weekly-tracker/internal/localstore"
	"weekly-tracker/internal/remote"
	"weekly-tracker/pkg/logger"
)

// OpenStore builds the store selected by settings. The returned func
// releases it.
func OpenStore(ctx context.Context, settings StoreSettings, log logger.Logger) (tracker.Store, func() error, error) {
	switch settings.Backend {
	case BackendRemote:
		store, err := remote.New(settings.Remote.BaseURL,
			remote.WithTimeout(settings.Remote.Timeout),
			remote.WithLogger(log),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("remote store: %w", err)
		}
		return store, func() error { return nil }, nil
	case BackendLocal:
		storage, err := openStorage(ctx, settings)
		if err != nil {
			return nil, nil, err
		}
		store := localstore.New(storage,
			localstore.WithKey(settings.Local.Key),
			localstore.WithLogger(log),
		)
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", settings.Backend)
	}
}

func openStorage(ctx context.Context, settings StoreSettings) (localstore.Storage, error) {
	switch settings.Local.Storage {
	case StorageMemory:
		return localstore.NewMemoryStorage(), nil
	case StorageRedis:
		storage, err := localstore.NewRedisStorage(ctx, localstore.RedisOptions{
			Addr:     settings.Redis.Addr,
			Password: settings.Redis.Password,
			DB:       settings.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("redis storage: %w", err)
		}
		return storage, nil
	case StorageFile, "":
		storage, err := localstore.NewFileStorage(settings.Local.Dir)
		if err != nil {
			return nil, fmt.Errorf("file storage: %w", err)
		}
		return storage, nil
	default:
		return nil, fmt.Errorf("unsupported local storage %q", settings.Local.Storage)
	}
}
