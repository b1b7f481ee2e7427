package api

import (
	"os"
	"strings"
	"time"

	"wastewatch/internal/auth"
	"wastewatch/internal/config"
	"wastewatch/internal/opt"
	"wastewatch/internal/store"
)

type Server struct {
	Cfg    config.Config
	Store  store.Store
	Broker EventBroker
	Keys   *auth.Keyring
	Pool   *opt.Pool
	Latest *LatestCache
}

// NewServer creates a Server. If no database URL is configured, uses the
// in-memory store.
func NewServer(cfg config.Config) (*Server, error) {
	var s store.Store
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		s = store.NewMemory()
	} else {
		sp, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		// Run migrations (dev helper)
		if os.Getenv("DB_MIGRATE") != "false" {
			_ = sp.MigrateDir("db/migrations")
		}
		s = sp
	}
	// Broker selection
	var broker EventBroker
	if cfg.RedisURL != "" {
		if rb, err := NewRedisBroker(cfg.RedisURL); err == nil {
			broker = rb
		} else {
			broker = NewBroker()
		}
	} else {
		broker = NewBroker()
	}
	pool := opt.NewPool(
		cfg.Optimizer.Workers,
		time.Duration(cfg.Optimizer.TimeoutMs)*time.Millisecond,
		&opt.Optimizer{MaxPasses: cfg.Optimizer.MaxPasses},
	)
	return &Server{
		Cfg:    cfg,
		Store:  s,
		Broker: broker,
		Keys:   auth.NewKeyring(cfg.SensorAPIKeys),
		Pool:   pool,
		Latest: NewLatestCache(),
	}, nil
}
