package di

import (
	"context"
	"net/http"
	"time"

	"comments-backend/application/commands/bus"
	"comments-backend/application/ports"
	querybus "comments-backend/application/queries/bus"
	"comments-backend/application/services"
	"comments-backend/infrastructure/config"
	"comments-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	SeedSource ports.SeedSource
	Session    *services.ThreadSession
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
	Cache      ports.Cache
	Metrics    *observability.Metrics
	Tracer     *observability.Tracer
	Handler    http.Handler
}

// RetrySeed keeps reloading the seed until the session is ready or ctx is
// done. Each attempt gets its own SEED_TIMEOUT_MS deadline.
func (c *Container) RetrySeed(ctx context.Context, interval time.Duration) {
	if c.SeedSource == nil || interval <= 0 || c.Session.Ready() {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			attemptCtx, cancel := context.WithTimeout(ctx, c.Config.SeedTimeout)
			err := c.Session.Load(attemptCtx, c.SeedSource)
			cancel()

			if err == nil {
				return
			}
			c.Logger.Debug("Seed retry failed", zap.Error(err))
		}
	}
}

// Close releases background resources and flushes the logger
func (c *Container) Close() {
	if closer, ok := c.Cache.(interface{ Close() }); ok {
		closer.Close()
	}
	// Sync returns an error for terminals
	_ = c.Logger.Sync()
}
