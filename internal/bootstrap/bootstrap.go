package bootstrap

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/nnode/seeder/internal/config"
	"github.com/nnode/seeder/internal/eventbus"
	"github.com/nnode/seeder/internal/logging"
	"github.com/nnode/seeder/internal/models"
	"github.com/nnode/seeder/internal/seeder"
	"github.com/nnode/seeder/internal/storage"
	"github.com/nnode/seeder/internal/telemetry"
)

// StoreFactory builds the document store used by a single run
type StoreFactory func(cfg config.MongoConfig, logger logging.Logger) storage.DocumentStore

// MongoStoreFactory is the production StoreFactory
func MongoStoreFactory(cfg config.MongoConfig, logger logging.Logger) storage.DocumentStore {
	return storage.NewMongoStore(storage.MongoConfig{
		URI:            cfg.URI,
		AppName:        "users-seeder",
		ConnectTimeout: cfg.ConnectTimeout,
	}, logger)
}

// Bootstrap initializes the core system components
type Bootstrap struct {
	Config    *config.Config
	Logger    logging.Logger
	Telemetry *telemetry.Telemetry

	// NewStore defaults to MongoStoreFactory
	NewStore StoreFactory
}

// New creates a new bootstrap instance
func New() *Bootstrap {
	return &Bootstrap{NewStore: MongoStoreFactory}
}

// Initialize loads configuration and sets up logging and telemetry
func (b *Bootstrap) Initialize(ctx context.Context, configFile string) error {
	cfg, err := b.loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	b.Config = cfg

	logger, err := b.initLogging(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	b.Logger = logger

	logger.Debug(ctx, "Configuration loaded successfully",
		zap.String("config_file", configFile),
		zap.String("endpoint", storage.RedactURI(cfg.Mongo.URI)),
		zap.String("database", cfg.Mongo.Database),
		zap.String("collection", cfg.Mongo.Collection),
		zap.Bool("eventbus_enabled", cfg.EventBus.Enabled))

	tel, err := b.initTelemetry(cfg.Telemetry)
	if err != nil {
		logger.Error(ctx, "Failed to initialize telemetry", zap.Error(err))
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	b.Telemetry = tel

	return nil
}

// Run starts telemetry, performs one seed run and stops everything it started.
// The document store and event bus connection live only for this call.
func (b *Bootstrap) Run(ctx context.Context) (*models.InsertAck, error) {
	if b.Config == nil || b.Logger == nil {
		return nil, fmt.Errorf("bootstrap not initialized")
	}

	if err := b.Telemetry.Start(ctx); err != nil {
		b.Logger.Warn(ctx, "Failed to start telemetry", zap.Error(err))
	}
	defer func() {
		if err := b.Stop(context.WithoutCancel(ctx)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to stop components: %v\n", err)
		}
	}()

	publisher := b.openPublisher(ctx)
	defer func() {
		if err := publisher.Close(); err != nil {
			b.Logger.Warn(ctx, "Failed to close event bus", zap.Error(err))
		}
	}()

	newStore := b.NewStore
	if newStore == nil {
		newStore = MongoStoreFactory
	}
	store := newStore(b.Config.Mongo, b.Logger)

	s := seeder.New(store, seeder.Options{
		Database:   b.Config.Mongo.Database,
		Collection: b.Config.Mongo.Collection,
		Endpoint:   storage.RedactURI(b.Config.Mongo.URI),
	}, b.Logger, b.Telemetry, publisher)

	return s.Run(ctx)
}

// openPublisher connects the event bus when enabled. The notification is
// auxiliary, so an unreachable bus degrades to a no-op publisher.
func (b *Bootstrap) openPublisher(ctx context.Context) eventbus.Publisher {
	if !b.Config.EventBus.Enabled {
		return eventbus.NopPublisher{}
	}

	busCfg := eventbus.DefaultNATSConfig()
	busCfg.URL = b.Config.EventBus.URL
	busCfg.ConnectTimeout = b.Config.EventBus.ConnectTimeout
	if b.Config.EventBus.StreamName != "" {
		busCfg.StreamName = b.Config.EventBus.StreamName
	}
	if b.Config.EventBus.SubjectPrefix != "" {
		busCfg.SubjectPrefix = b.Config.EventBus.SubjectPrefix
	}

	bus, err := eventbus.NewNATSEventBus(busCfg, b.Logger.Named("eventbus").Zap())
	if err != nil {
		b.Logger.Warn(ctx, "Event bus unavailable, seed events will not be published",
			zap.String("url", busCfg.URL),
			zap.Error(err))
		return eventbus.NopPublisher{}
	}
	return bus
}

// Stop stops telemetry and flushes the logger
func (b *Bootstrap) Stop(ctx context.Context) error {
	if b.Logger == nil {
		return nil
	}

	if err := b.Telemetry.Stop(ctx); err != nil {
		b.Logger.Error(ctx, "Failed to stop telemetry", zap.Error(err))
		return fmt.Errorf("failed to stop telemetry: %w", err)
	}

	// Sync on a terminal stdout returns EINVAL; not worth failing over.
	_ = b.Logger.Sync()
	return nil
}

func (b *Bootstrap) loadConfig(configFile string) (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromFile(configFile)
	}
	return config.Load()
}

func (b *Bootstrap) initLogging(cfg config.LoggingConfig) (logging.Logger, error) {
	return logging.NewLogger(logging.LoggingConfig{
		Level:      cfg.Level,
		Format:     cfg.Format,
		OutputPath: cfg.OutputPath,
		ErrorPath:  cfg.ErrorPath,
	})
}

func (b *Bootstrap) initTelemetry(cfg config.TelemetryConfig) (*telemetry.Telemetry, error) {
	return telemetry.NewTelemetry(telemetry.TelemetryConfig{
		Enabled:        cfg.Enabled,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		PrometheusPort: cfg.PrometheusPort,
		JaegerEndpoint: cfg.JaegerEndpoint,
		SampleRate:     cfg.SampleRate,
	})
}
