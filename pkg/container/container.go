// Package container builds the dependency graph of the service.
package container

import (
	"context"
	"fmt"
	"time"

	"bibliotech/internal/config"
	"bibliotech/internal/handler"
	"bibliotech/internal/infrastructure/database"
	"bibliotech/internal/infrastructure/notify"
	"bibliotech/internal/infrastructure/pubsub"
	"bibliotech/internal/infrastructure/queue"
	"bibliotech/internal/remote"
	"bibliotech/internal/session"
	"bibliotech/pkg/logger"
)

// Container holds every long-lived dependency of the application.
//
// Initialization order matters:
//  1. Config
//  2. Infrastructure (database, redis)
//  3. Remote gateway and notifiers
//  4. Session (loads both caches)
//  5. Handlers
type Container struct {
	Config *config.Config

	// DB is nil when the memory backend is selected.
	DB *database.PostgresDB
	// Redis is nil when disabled or unreachable.
	Redis *pubsub.RedisClient
	// Queue is set when snapshots are enabled and Redis is up.
	Queue *queue.Client

	Gateway  remote.Gateway
	History  *notify.Recorder
	Notifier notify.Notifier
	Session  *session.Session

	AuthorHandler  *handler.AuthorHandler
	BookHandler    *handler.BookHandler
	SessionHandler *handler.SessionHandler
	// SnapshotHandler is nil without a queue.
	SnapshotHandler *handler.SnapshotHandler
}

// NewContainer loads the configuration and builds the container from it.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return New(ctx, cfg)
}

// Option adjusts a container before it is built.
type Option func(*Container)

// WithGateway skips the configured backend and uses gw as the remote store.
func WithGateway(gw remote.Gateway) Option {
	return func(c *Container) { c.Gateway = gw }
}

// New builds the container from cfg. A failed initial load is not fatal: the
// session keeps empty caches and the failure is already in the notification
// feed, so the caller can refresh later.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}
	logger.Info("initializing container", map[string]interface{}{
		"env":     cfg.App.Environment,
		"backend": cfg.Remote.Backend,
	})

	if err := c.initGateway(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.initNotifier(ctx)

	c.Session = session.New(c.Gateway, c.Notifier, session.Options{Locale: cfg.Language()})
	if err := c.Session.Start(ctx); err != nil {
		logger.Error("initial load failed", err)
	}

	c.initHandlers()

	logger.Info("container initialized", map[string]interface{}{
		"authors": len(c.Session.Authors().Records()),
		"books":   len(c.Session.Books().Records()),
	})
	return c, nil
}

func (c *Container) initGateway(ctx context.Context) error {
	if c.Gateway != nil {
		return nil
	}
	if c.Config.Remote.Backend == config.BackendMemory {
		logger.Debug("using in-memory remote store")
		c.Gateway = remote.NewMemory()
		return nil
	}

	db := database.NewPostgresDB(c.Config.Database)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	pg := remote.NewPostgres(db.Pool)
	if c.Config.Remote.AutoMigrate {
		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	c.Gateway = pg
	return nil
}

// initNotifier fans notifications out to the log, the in-process history and,
// when reachable, a Redis channel.
func (c *Container) initNotifier(ctx context.Context) {
	c.History = notify.NewRecorder(c.Config.Notify.History)
	fanout := notify.Multi{notify.LogNotifier{}, c.History}

	if c.Config.Redis.Enabled {
		rc := pubsub.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
		if err := rc.Connect(ctx); err != nil {
			// Redis is optional; run without the channel.
			logger.Error("redis connection failed, notifications stay local", err)
			_ = rc.Close()
		} else {
			c.Redis = rc
			fanout = append(fanout, notify.NewRedisNotifier(rc, c.Config.Redis.Channel))
			if c.Config.Snapshot.Enabled {
				c.Queue = queue.NewClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
			}
		}
	}
	c.Notifier = fanout
}

func (c *Container) initHandlers() {
	c.AuthorHandler = handler.NewAuthorHandler(c.Session)
	c.BookHandler = handler.NewBookHandler(c.Session)
	c.SessionHandler = handler.NewSessionHandler(c.Session, c.History)
	if c.Queue != nil {
		c.SnapshotHandler = handler.NewSnapshotHandler(c.Queue)
	}
}

// Cleanup releases everything New acquired. Safe on a partially built
// container.
func (c *Container) Cleanup() {
	if c.Session != nil {
		c.Session.Close()
	}
	if c.DB != nil {
		c.DB.Close()
	}
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			logger.Error("failed to close task queue", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
	logger.Debug("container cleanup completed")
}
