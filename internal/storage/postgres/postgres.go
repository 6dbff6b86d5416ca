// Package postgres stores characters in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duelcore/internal/config"
)

// pingTimeout bounds the connect-time ping and every health check.
const pingTimeout = 5 * time.Second

// Pool is the character store's connection pool. It doubles as a lifecycle
// service: Start watches database health until Stop closes the pool.
type Pool struct {
	db       *pgxpool.Pool
	logger   *zap.Logger
	interval time.Duration

	healthy  atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
}

// Connect opens a pool for cfg and verifies the database answers.
//
// Precondition: cfg must hold valid connection parameters; logger must be non-nil.
// Postcondition: Returns a connected, healthy Pool or a non-nil error.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Pool, error) {
	start := time.Now()
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	db, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	p := &Pool{db: db, logger: logger, interval: cfg.HealthInterval, done: make(chan struct{})}
	if err := p.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	p.healthy.Store(true)

	logger.Info("database connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Name),
		zap.Duration("elapsed", time.Since(start)),
	)
	return p, nil
}

// Characters returns the character repository backed by this pool.
func (p *Pool) Characters() *CharacterRepository {
	return NewCharacterRepository(p.db)
}

// Ping checks that the database answers within pingTimeout.
func (p *Pool) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return p.db.Ping(ctx)
}

// Healthy reports the outcome of the most recent health check.
func (p *Pool) Healthy() bool {
	return p.healthy.Load()
}

// check pings once, logging only transitions between healthy and unhealthy.
func (p *Pool) check(ctx context.Context) {
	err := p.Ping(ctx)
	was := p.healthy.Swap(err == nil)
	switch {
	case err != nil && was:
		p.logger.Warn("database health check failed", zap.Error(err))
	case err == nil && !was:
		p.logger.Info("database reachable again")
	}
}

// Start checks database health every configured interval until Stop.
// A zero interval disables checks; Start then only waits for Stop.
func (p *Pool) Start() error {
	if p.interval <= 0 {
		<-p.done
		return nil
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	ctx := context.Background()
	for {
		select {
		case <-p.done:
			return nil
		case <-ticker.C:
			p.check(ctx)
		}
	}
}

// Stop ends health checks and closes the pool. It is safe to call more than once.
//
// Postcondition: The pool is no longer usable.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.db.Close()
		p.healthy.Store(false)
	})
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool {
	return p.db
}
