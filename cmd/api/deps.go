package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/rrmms-api/internal/config"
	"github.com/yourusername/rrmms-api/internal/metrics"
	"github.com/yourusername/rrmms-api/internal/session"
	"github.com/yourusername/rrmms-api/internal/storage"
	"github.com/yourusername/rrmms-api/internal/storage/memstore"
	"github.com/yourusername/rrmms-api/internal/storage/mongostore"
)

// dependencies はプロセス全体で共有する資源です。起動時に一度だけ作成し、
// 終了時に Close で解放します。
type dependencies struct {
	store    storage.Store
	sessions *session.Manager
	metrics  *metrics.Metrics

	sweeper *session.Sweeper
	redis   *session.RedisBackend
}

func newDependencies(cfg *config.Config) (*dependencies, error) {
	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	deps := &dependencies{
		store:   store,
		metrics: metrics.New(),
	}
	if err := deps.setupSessions(cfg); err != nil {
		_ = store.Close()
		return nil, err
	}
	return deps, nil
}

func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		return memstore.New(), nil
	case config.StoreDriverMongo:
		return mongostore.NewStore(mongostore.Options{
			URI:        cfg.MongoURI,
			RequestsDB: cfg.RequestsDB,
			UsersDB:    cfg.UsersDB,
			Timeout:    cfg.DBTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func (d *dependencies) setupSessions(cfg *config.Config) error {
	opts := session.Options{
		MaxLifetime: cfg.SessionMaxLifetime,
		IdleTimeout: cfg.SessionIdleTimeout,
	}

	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DBTimeout)
		defer cancel()
		backend, err := session.NewRedisBackendFromURL(ctx, cfg.SessionRedisURL)
		if err != nil {
			return err
		}
		d.redis = backend
		d.sessions = session.NewManager(backend, opts)
		log.Info().Msg("Session backend: redis")
	default:
		backend := session.NewMemoryBackend()
		sweeper, err := session.NewSweeper(backend, session.DefaultSweepSchedule, d.metrics.SetActiveSessions)
		if err != nil {
			return err
		}
		sweeper.Start()
		d.sweeper = sweeper
		d.sessions = session.NewManager(backend, opts)
		log.Info().Msg("Session backend: memory")
	}
	return nil
}

// Close はバックグラウンド処理と接続を閉じます。
func (d *dependencies) Close(ctx context.Context) {
	if d.sweeper != nil {
		d.sweeper.Stop(ctx)
	}
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close redis")
		}
	}
	if err := d.store.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close store")
	}
}
