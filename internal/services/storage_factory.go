package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"concertfever-storefront/internal/config"
)

// StorageFactory creates the cart storage selected by configuration
type StorageFactory struct {
	config *config.Config
	logger *logrus.Logger
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config, logger *logrus.Logger) *StorageFactory {
	return &StorageFactory{config: cfg, logger: logger}
}

// CreateCartStorage builds the configured cart storage. When redis is
// selected but unreachable the cookie storage is used instead. The returned
// closer releases the redis client, if any.
func (f *StorageFactory) CreateCartStorage(sessions *SessionService) (CartStorage, func() error, error) {
	noop := func() error { return nil }

	switch f.config.Cart.Storage {
	case "", CartStorageCookie:
		return NewCookieCartStorage(f.config.Session.Secure), noop, nil
	case CartStorageSession:
		return NewSessionCartStorage(sessions), noop, nil
	case CartStorageRedis:
		client := f.newRedisClient()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			f.logger.WithError(err).WithField("addr", f.config.Redis.Addr()).
				Warn("Redis unavailable, falling back to cookie cart storage")
			_ = client.Close()
			return NewCookieCartStorage(f.config.Session.Secure), noop, nil
		}

		f.logger.WithField("addr", f.config.Redis.Addr()).Info("Redis cart storage initialized")
		return NewRedisCartStorage(client, sessions), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown cart storage %q (expected cookie, session or redis)", f.config.Cart.Storage)
	}
}

// Credentials of the account seeded into the mock backend
const (
	DemoUserEmail    = "demo@concertfever.test"
	DemoUserPassword = "demo1234"
)

// CreateBackend returns the REST client, or the in-memory catalogue when
// the backend mode is mock.
func (f *StorageFactory) CreateBackend() Backend {
	if f.config.Backend.Mode == config.BackendModeMock {
		mock := NewMockBackend()
		mock.AddUser("Demo", "User", DemoUserEmail, DemoUserPassword, f.config.Store.SignupBalance)
		f.logger.WithField("demo_user", DemoUserEmail).Warn("Using in-memory mock backend")
		return mock
	}
	f.logger.WithField("url", f.config.Backend.URL).Info("Using ConcertFever backend")
	return NewBackendClient(f.config.Backend.URL, f.config.Backend.Timeout, f.logger)
}

func (f *StorageFactory) newRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         f.config.Redis.Addr(),
		Password:     f.config.Redis.Password,
		DB:           f.config.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}
