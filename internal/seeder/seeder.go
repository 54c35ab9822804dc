// Package seeder writes the fixed user records into the document store.
//
// A run is strictly linear: connect, insert the batch, report, disconnect.
// Disconnect runs exactly once per run on every exit path.
package seeder

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/nnode/seeder/internal/eventbus"
	"github.com/nnode/seeder/internal/logging"
	"github.com/nnode/seeder/internal/models"
	"github.com/nnode/seeder/internal/storage"
	"github.com/nnode/seeder/internal/telemetry"
)

// Options names the target of a run
type Options struct {
	Database   string
	Collection string
	// Endpoint is used in logs and errors only and should already be redacted
	Endpoint string
}

// Seeder performs a one-time batch insert of the fixed records
type Seeder struct {
	store     storage.DocumentStore
	opts      Options
	logger    logging.Logger
	telemetry *telemetry.Telemetry
	publisher eventbus.Publisher
}

// New creates a seeder. logger, tel and publisher may be nil.
func New(store storage.DocumentStore, opts Options, logger logging.Logger, tel *telemetry.Telemetry, publisher eventbus.Publisher) *Seeder {
	if logger == nil {
		logger = logging.NewNop()
	}
	if publisher == nil {
		publisher = eventbus.NopPublisher{}
	}
	return &Seeder{
		store:     store,
		opts:      opts,
		logger:    logger.Named("seeder"),
		telemetry: tel,
		publisher: publisher,
	}
}

// Run executes connect, insert, report and disconnect once.
// Errors are *ConnectionError or *InsertError and have already been logged at warn level.
func (s *Seeder) Run(ctx context.Context) (ack *models.InsertAck, err error) {
	start := time.Now()
	namespace := s.opts.Database + "." + s.opts.Collection

	ctx, span := s.telemetry.StartSpan(ctx, "seeder.run", trace.WithAttributes(
		attribute.String("db.system", "mongodb"),
		attribute.String("db.name", s.opts.Database),
		attribute.String("db.collection", s.opts.Collection),
	))
	defer span.End()

	defer func() {
		s.recordOutcome(ctx, span, start, ack, err)
	}()
	defer s.disconnect(ctx)

	if err := s.connect(ctx); err != nil {
		s.logger.Warn(ctx, "Failed to connect to document store",
			zap.String("endpoint", s.opts.Endpoint),
			zap.Error(err))
		return nil, &ConnectionError{Endpoint: s.opts.Endpoint, Err: err}
	}
	s.logger.Info(ctx, "Connected successfully to server",
		zap.String("endpoint", s.opts.Endpoint))

	ack, err = s.insert(ctx, models.SeedRecords())
	if err != nil {
		s.logger.Warn(ctx, "Failed to insert documents",
			zap.String("namespace", namespace),
			zap.Error(err))
		return nil, &InsertError{Namespace: namespace, Err: err}
	}
	s.logger.Info(ctx, "Inserted documents",
		zap.String("namespace", namespace),
		zap.Int("inserted_count", ack.InsertedCount),
		zap.Strings("inserted_ids", ack.InsertedIDs))

	s.announce(ctx, span, ack)

	s.logger.Info(ctx, "done.")
	return ack, nil
}

func (s *Seeder) connect(ctx context.Context) error {
	ctx, span := s.telemetry.StartSpan(ctx, "seeder.connect")
	defer span.End()

	if err := s.store.Connect(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "connect failed")
		return err
	}
	return nil
}

func (s *Seeder) insert(ctx context.Context, records []models.Record) (*models.InsertAck, error) {
	ctx, span := s.telemetry.StartSpan(ctx, "seeder.insert",
		trace.WithAttributes(attribute.Int("records", len(records))))
	defer span.End()

	ack, err := s.store.InsertBatch(ctx, s.opts.Database, s.opts.Collection, records)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return nil, err
	}
	return ack, nil
}

// disconnect releases the store on a context that survives cancellation of
// the run, so an interrupted run still closes its connection.
func (s *Seeder) disconnect(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	ctx, span := s.telemetry.StartSpan(ctx, "seeder.disconnect")
	defer span.End()

	if err := s.store.Disconnect(ctx); err != nil {
		span.RecordError(err)
		s.logger.Warn(ctx, "Failed to disconnect from document store", zap.Error(err))
		return
	}
	s.logger.Debug(ctx, "Disconnected from document store")
}

// announce publishes the seed.completed event. The records are already
// persisted, so a publish failure is only logged.
func (s *Seeder) announce(ctx context.Context, span trace.Span, ack *models.InsertAck) {
	event := eventbus.NewSeedCompletedEvent(s.opts.Database, s.opts.Collection, ack.InsertedCount, ack.InsertedIDs)
	if sc := span.SpanContext(); sc.HasTraceID() {
		event.WithTraceID(sc.TraceID().String())
	}

	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Warn(ctx, "Failed to publish seed event",
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}

func (s *Seeder) recordOutcome(ctx context.Context, span trace.Span, start time.Time, ack *models.InsertAck, err error) {
	outcome := Outcome(err)
	if err != nil {
		span.SetStatus(codes.Error, outcome)
	}

	collection := attribute.String("collection", s.opts.Collection)
	if telErr := s.telemetry.IncrementCounter(ctx, "seeder_runs", attribute.String("outcome", outcome), collection); telErr != nil {
		s.logger.Debug(ctx, "Failed to record run counter", zap.Error(telErr))
	}
	if ack != nil {
		if telErr := s.telemetry.AddCounter(ctx, "seeder_records_inserted", int64(ack.InsertedCount), collection); telErr != nil {
			s.logger.Debug(ctx, "Failed to record inserted counter", zap.Error(telErr))
		}
	}
	if telErr := s.telemetry.RecordDuration(ctx, "seeder_run", start, attribute.String("outcome", outcome)); telErr != nil {
		s.logger.Debug(ctx, "Failed to record run duration", zap.Error(telErr))
	}
}
