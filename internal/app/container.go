package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/tskprio/internal/planning/application/commands"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/queries"
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
	"github.com/felixgeelhaar/tskprio/internal/planning/infrastructure/cache"
	"github.com/felixgeelhaar/tskprio/internal/planning/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/tskprio/internal/shared/application"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/database/postgres"
	_ "github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/tskprio/pkg/config"
	"github.com/felixgeelhaar/tskprio/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DBConn     database.Connection
	UnitOfWork sharedApplication.UnitOfWork

	// Repositories
	ProjectRepo project.Repository
	OutboxRepo  outbox.Repository

	// PlanCache is nil when REDIS_URL is unset or Redis is unreachable in development.
	PlanCache *cache.RedisPlanCache

	// Worker only, see EnableOutboxProcessor.
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor

	// Command handlers
	CreateProjectHandler  *commands.CreateProjectHandler
	RenameProjectHandler  *commands.RenameProjectHandler
	DeleteProjectHandler  *commands.DeleteProjectHandler
	AddTaskHandler        *commands.AddTaskHandler
	UpdateTaskHandler     *commands.UpdateTaskHandler
	RemoveTaskHandler     *commands.RemoveTaskHandler
	ImportProjectsHandler *commands.ImportProjectsHandler

	// Query handlers
	ListProjectsHandler  *queries.ListProjectsHandler
	GetProjectHandler    *queries.GetProjectHandler
	GetMatrixHandler     *queries.GetMatrixHandler
	GetActionPlanHandler *queries.GetActionPlanHandler
	PreviewPlanHandler   *queries.PreviewPlanHandler
}

// NewContainer connects to the configured database, applies migrations and
// wires every handler.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.Driver(cfg.DatabaseDriver),
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	logger.Debug("connected to database", "driver", conn.Driver())

	if err := migrations.Run(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if cfg.RedisURL != "" {
		planCache, err := cache.Dial(ctx, cfg.RedisURL, cache.Config{TTL: cfg.PlanCacheTTL}, logger)
		if err != nil {
			if !cfg.IsDevelopment() {
				conn.Close()
				return nil, err
			}
			logger.Warn("Redis not available, action plans will not be cached", "error", err)
		} else {
			c.PlanCache = planCache
			logger.Debug("connected to Redis")
		}
	}

	c.ProjectRepo = persistence.NewProjectRepository(conn)
	c.OutboxRepo = outbox.NewSQLRepository(conn)
	c.UnitOfWork = database.NewUnitOfWork(conn)

	c.CreateProjectHandler = commands.NewCreateProjectHandler(c.ProjectRepo, c.OutboxRepo, c.UnitOfWork)
	c.RenameProjectHandler = commands.NewRenameProjectHandler(c.ProjectRepo, c.OutboxRepo, c.UnitOfWork)
	c.DeleteProjectHandler = commands.NewDeleteProjectHandler(c.ProjectRepo, c.OutboxRepo, c.UnitOfWork)
	c.AddTaskHandler = commands.NewAddTaskHandler(c.ProjectRepo, c.OutboxRepo, c.UnitOfWork)
	c.UpdateTaskHandler = commands.NewUpdateTaskHandler(c.ProjectRepo, c.OutboxRepo, c.UnitOfWork)
	c.RemoveTaskHandler = commands.NewRemoveTaskHandler(c.ProjectRepo, c.OutboxRepo, c.UnitOfWork)
	c.ImportProjectsHandler = commands.NewImportProjectsHandler(c.ProjectRepo, c.OutboxRepo, c.UnitOfWork)

	c.ListProjectsHandler = queries.NewListProjectsHandler(c.ProjectRepo)
	c.GetProjectHandler = queries.NewGetProjectHandler(c.ProjectRepo)
	c.GetMatrixHandler = queries.NewGetMatrixHandler(c.ProjectRepo)
	c.GetActionPlanHandler = queries.NewGetActionPlanHandler(c.ProjectRepo, c.planCache(), logger)
	c.PreviewPlanHandler = queries.NewPreviewPlanHandler()

	return c, nil
}

// planCache avoids handing a typed nil pointer to the query handler.
func (c *Container) planCache() queries.PlanCache {
	if c.PlanCache == nil {
		return nil
	}
	return c.PlanCache
}

// EnableOutboxProcessor connects the event publisher and builds the outbox
// processor. Without RABBITMQ_URL events are drained through a no-op publisher.
func (c *Container) EnableOutboxProcessor() error {
	if c.Config.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
		if err != nil {
			return err
		}
		c.EventPublisher = publisher
	} else {
		c.Logger.Warn("RABBITMQ_URL not set, domain events will be discarded")
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
	}

	processorCfg := outbox.DefaultProcessorConfig()
	if c.Config.OutboxPollInterval > 0 {
		processorCfg.PollInterval = c.Config.OutboxPollInterval
	}
	if c.Config.OutboxBatchSize > 0 {
		processorCfg.BatchSize = c.Config.OutboxBatchSize
	}
	if c.Config.OutboxMaxRetries > 0 {
		processorCfg.MaxRetries = c.Config.OutboxMaxRetries
	}
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorCfg, c.Logger)
	return nil
}

// HealthRegistry returns the checks for the dependencies this container holds.
func (c *Container) HealthRegistry() *observability.HealthRegistry {
	registry := observability.NewHealthRegistry()
	registry.Register("database", observability.DatabaseHealthChecker(c.DBConn.Ping))
	if c.PlanCache != nil {
		registry.Register("redis", observability.RedisHealthChecker(c.PlanCache.Ping))
	}
	if rabbit, ok := c.EventPublisher.(*eventbus.RabbitMQPublisher); ok {
		registry.Register("rabbitmq", observability.RabbitMQHealthChecker(rabbit.Check))
	}
	return registry
}

// Close releases all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("failed to close event publisher", "error", err)
		}
	}
	if c.PlanCache != nil {
		if err := c.PlanCache.Close(); err != nil {
			c.Logger.Warn("failed to close Redis client", "error", err)
		}
	}
	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("failed to close database", "error", err)
		}
	}
}
