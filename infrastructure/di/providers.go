package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"comments-backend/application/commands"
	"comments-backend/application/commands/bus"
	commands_handlers "comments-backend/application/commands/handlers"
	"comments-backend/application/ports"
	"comments-backend/application/queries"
	querybus "comments-backend/application/queries/bus"
	queries_handlers "comments-backend/application/queries/handlers"
	"comments-backend/application/services"
	"comments-backend/domain/core/aggregates"
	"comments-backend/domain/core/entities"
	"comments-backend/domain/core/valueobjects"
	"comments-backend/domain/events"
	"comments-backend/infrastructure/config"
	"comments-backend/infrastructure/messaging/eventbridge"
	"comments-backend/infrastructure/messaging/logging"
	"comments-backend/infrastructure/persistence/dynamodb"
	"comments-backend/infrastructure/persistence/file"
	"comments-backend/infrastructure/persistence/memory"
	"comments-backend/interfaces/http/rest"
	"comments-backend/interfaces/http/rest/middleware"
	"comments-backend/pkg/auth"
	"comments-backend/pkg/extensions"
	"comments-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

const serviceName = "comments-backend"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		zapCfg.Level = level
	}

	return zapCfg.Build()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	// Local runs with only in-process components skip the credential chain
	if !cfg.NeedsAWS() {
		return aws.Config{Region: cfg.AWSRegion}, nil
	}
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideActor builds the session actor from configuration
func ProvideActor(cfg *config.Config) (valueobjects.Actor, error) {
	return valueobjects.NewActor(cfg.ActorID, cfg.ActorName, cfg.ActorAvatar)
}

// ProvideMetrics creates metrics instance. Without ENABLE_METRICS every
// recording is a no-op.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	namespace := fmt.Sprintf("Comments/%s", cfg.Environment)
	if !cfg.EnableMetrics || client == nil {
		return observability.NewMetrics(namespace, nil, logger)
	}
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideSeedSource selects the seed source named by SEED_SOURCE. It returns
// nil for "none", which starts an empty thread.
func ProvideSeedSource(
	cfg *config.Config,
	client *awsdynamodb.Client,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (ports.SeedSource, error) {
	var source ports.SeedSource

	switch cfg.SeedSource {
	case config.SeedSourceNone:
		return nil, nil
	case config.SeedSourceSample:
		source = memory.NewSampleSeedSource()
	case config.SeedSourceFile:
		source = file.NewSeedSource(cfg.SeedFile)
	case config.SeedSourceDynamoDB:
		if client == nil {
			return nil, errors.New("dynamodb seed source requires a DynamoDB client")
		}
		source = dynamodb.NewSeedSource(client, cfg.DynamoDBTable, cfg.ThreadID, logger)
	default:
		return nil, fmt.Errorf("unknown seed source %q", cfg.SeedSource)
	}

	return NewInstrumentedSeedSource(source, metrics, tracer), nil
}

// ProvideEventPublisher assembles the event sinks enabled in configuration.
// With none enabled events are only logged.
func ProvideEventPublisher(
	cfg *config.Config,
	ebClient *awseventbridge.Client,
	dbClient *awsdynamodb.Client,
	logger *zap.Logger,
) ports.EventPublisher {
	var sinks []ports.EventPublisher

	if cfg.EnableEvents && ebClient != nil {
		sinks = append(sinks, eventbridge.NewPublisher(ebClient, cfg.EventBusName, logger))
	}
	if cfg.PersistEvents && dbClient != nil {
		sinks = append(sinks, dynamodb.NewEventStore(dbClient, cfg.DynamoDBTable, cfg.EventRetention, logger))
	}

	switch len(sinks) {
	case 0:
		return logging.NewPublisher(logger)
	case 1:
		return sinks[0]
	default:
		return &multiPublisher{sinks: sinks}
	}
}

// ProvideInMemoryCache creates the projection cache
func ProvideInMemoryCache() ports.Cache {
	return NewInMemoryCache()
}

// ProvideHooks registers the infrastructure reactions to thread changes
func ProvideHooks(cache ports.Cache, metrics *observability.Metrics, logger *zap.Logger) *extensions.HookManager {
	hooks := extensions.NewHookManager()

	hooks.RegisterAll(extensions.MutationPoints, func(ctx context.Context, data extensions.HookData) error {
		return cache.Clear(ctx)
	})

	hooks.RegisterAll(extensions.MutationPoints, func(ctx context.Context, data extensions.HookData) error {
		metrics.RecordThreadSize(ctx, data.ThreadID, data.Count)
		return nil
	})

	hooks.Register(extensions.HookSeedLoadFailed, func(ctx context.Context, data extensions.HookData) error {
		logger.Warn("Thread is not ready", zap.String("threadID", data.ThreadID), zap.Error(data.Err))
		return nil
	})

	return hooks
}

// ProvideThreadSession seeds the session within SEED_TIMEOUT_MS. A failed
// seed yields a session that is not ready rather than an error.
func ProvideThreadSession(
	ctx context.Context,
	cfg *config.Config,
	actor valueobjects.Actor,
	source ports.SeedSource,
	publisher ports.EventPublisher,
	hooks *extensions.HookManager,
	logger *zap.Logger,
) (*services.ThreadSession, error) {
	loadCtx, cancel := context.WithTimeout(ctx, cfg.SeedTimeout)
	defer cancel()

	return services.Initialize(loadCtx, source, actor, logger,
		services.WithEventPublisher(publisher),
		services.WithHooks(hooks),
		services.WithThreadOptions(
			aggregates.WithThreadID(aggregates.ThreadID(cfg.ThreadID)),
			aggregates.WithDomainConfig(cfg.Domain),
		),
	)
}

// ProvideCommentStore exposes the session through its port
func ProvideCommentStore(session *services.ThreadSession) ports.CommentStore {
	return session
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	store ports.CommentStore,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(&zapLoggerAdapter{logger}),
		bus.MetricsMiddleware(metrics),
	)

	addHandler := commands_handlers.NewAddCommentHandler(store, logger)
	if err := commandBus.Register(commands.AddCommentCommand{}, bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			addCmd, ok := cmd.(commands.AddCommentCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type %T", cmd)
			}
			return addHandler.Handle(ctx, addCmd)
		},
	)); err != nil {
		return nil, err
	}

	removeHandler := commands_handlers.NewRemoveCommentHandler(store, logger)
	if err := commandBus.Register(commands.RemoveCommentCommand{}, bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			removeCmd, ok := cmd.(commands.RemoveCommentCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type %T", cmd)
			}
			return nil, removeHandler.Handle(ctx, removeCmd)
		},
	)); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers. Comment
// listings are cached per thread version.
func ProvideQueryBus(
	store ports.CommentStore,
	session *services.ThreadSession,
	cache ports.Cache,
	metrics *observability.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	caching := querybus.NewCachingMiddleware(cache, cfg.CacheTTLSeconds, session)
	measured := querybus.NewMetricsMiddleware(metrics)

	listHandler := queries_handlers.NewListCommentsHandler(store, logger)
	var list querybus.QueryHandler = querybus.QueryHandlerFunc(
		func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListCommentsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return listHandler.Handle(ctx, listQuery)
		},
	)
	if cfg.CacheTTLSeconds > 0 {
		list = caching.Wrap(list)
	}
	if err := queryBus.Register(queries.ListCommentsQuery{}, measured.Wrap(list)); err != nil {
		return nil, err
	}

	defaultSort, err := valueobjects.ParseSortKey(cfg.Domain.DefaultSortKey)
	if err != nil {
		defaultSort = valueobjects.DefaultSortKey
	}
	sessionHandler := queries_handlers.NewGetSessionHandler(store, defaultSort)
	if err := queryBus.Register(queries.GetSessionQuery{}, measured.Wrap(querybus.QueryHandlerFunc(
		func(ctx context.Context, query querybus.Query) (interface{}, error) {
			sessionQuery, ok := query.(queries.GetSessionQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return sessionHandler.Handle(ctx, sessionQuery)
		},
	))); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideJWTValidator creates the token validator. It returns nil when no
// JWT_SECRET is configured, in which case tokens are rejected.
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if cfg.JWTSecret == "" {
		return nil, nil
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	session *services.ThreadSession,
	tracer *observability.Tracer,
	validator *auth.JWTValidator,
	actor valueobjects.Actor,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(commandBus, queryBus, session, tracer, rest.RouterConfig{
		EnableCORS:  cfg.EnableCORS,
		DefaultSort: cfg.Domain.DefaultSortKey,
		ActorID:     actor.ID(),
		Debug:       cfg.IsDevelopment(),
		Auth: middleware.AuthOptions{
			Validator:           validator,
			AllowHeaderIdentity: cfg.IsDevelopment(),
			TrustGateway:        cfg.IsLambda || cfg.LambdaFunctionName != "",
			Fallback: &auth.UserContext{
				UserID: actor.ID(),
				Name:   actor.DisplayName(),
				Avatar: actor.AvatarRef(),
				Source: auth.SourceSession,
			},
		},
	}, logger)
}

// ProvideHTTPHandler builds the routed handler
func ProvideHTTPHandler(router *rest.Router) http.Handler {
	return router.Setup()
}

// InstrumentedSeedSource traces and measures every seed load
type InstrumentedSeedSource struct {
	source  ports.SeedSource
	metrics *observability.Metrics
	tracer  *observability.Tracer
}

// NewInstrumentedSeedSource wraps source
func NewInstrumentedSeedSource(source ports.SeedSource, metrics *observability.Metrics, tracer *observability.Tracer) *InstrumentedSeedSource {
	return &InstrumentedSeedSource{source: source, metrics: metrics, tracer: tracer}
}

// LoadSeed delegates to the wrapped source
func (s *InstrumentedSeedSource) LoadSeed(ctx context.Context) ([]*entities.Comment, error) {
	var seed []*entities.Comment
	start := time.Now()

	err := s.tracer.Trace(ctx, "LoadSeed", func(ctx context.Context) error {
		s.tracer.AddAnnotation(ctx, "seed_source", s.source.Name())
		var err error
		seed, err = s.source.LoadSeed(ctx)
		return err
	})

	s.metrics.RecordSeedLoad(ctx, s.source.Name(), time.Since(start), err)
	return seed, err
}

// Name returns the wrapped source's name
func (s *InstrumentedSeedSource) Name() string {
	return s.source.Name()
}

// multiPublisher sends events to every sink and reports all failures
type multiPublisher struct {
	sinks []ports.EventPublisher
}

func (m *multiPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return m.PublishBatch(ctx, []events.DomainEvent{event})
}

func (m *multiPublisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.PublishBatch(ctx, domainEvents); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// zapLoggerAdapter adapts zap.Logger to the bus.Logger interface
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, fields ...interface{}) {
	a.logger.Info(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) Warn(msg string, fields ...interface{}) {
	a.logger.Warn(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) Error(msg string, fields ...interface{}) {
	a.logger.Error(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) fieldsToZap(fields ...interface{}) []zap.Field {
	var zapFields []zap.Field
	for i := 0; i+1 < len(fields); i += 2 {
		key, _ := fields[i].(string)
		zapFields = append(zapFields, zap.Any(key, fields[i+1]))
	}
	return zapFields
}
