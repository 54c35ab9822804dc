package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSEventBus publishes events to a NATS JetStream stream
type NATSEventBus struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *zap.Logger
	config *NATSConfig
}

var _ Publisher = (*NATSEventBus)(nil)

// NewNATSEventBus connects to NATS and ensures the stream exists
func NewNATSEventBus(config *NATSConfig, logger *zap.Logger) (*NATSEventBus, error) {
	if config == nil {
		config = DefaultNATSConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid NATS configuration: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	bus := &NATSEventBus{
		logger: logger,
		config: config,
	}

	if err := bus.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	if err := bus.setupStream(); err != nil {
		bus.conn.Close()
		return nil, fmt.Errorf("failed to setup JetStream: %w", err)
	}

	if info, err := bus.GetStreamInfo(); err == nil {
		logger.Debug("JetStream stream ready",
			zap.String("stream", info.Config.Name),
			zap.Strings("subjects", info.Config.Subjects),
			zap.Uint64("messages", info.State.Msgs))
	}

	return bus, nil
}

func (n *NATSEventBus) connect() error {
	opts := []nats.Option{
		nats.Name("seeder-eventbus"),
		nats.Timeout(n.config.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				n.logger.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			n.logger.Debug("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(n.config.URL, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS server: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to get JetStream context: %w", err)
	}

	n.conn = conn
	n.js = js

	n.logger.Info("Connected to NATS JetStream",
		zap.String("url", n.config.URL),
		zap.String("stream", n.config.StreamName))

	return nil
}

// setupStream creates or updates the JetStream stream
func (n *NATSEventBus) setupStream() error {
	streamConfig := &nats.StreamConfig{
		Name:      n.config.StreamName,
		Subjects:  n.config.streamSubjects(),
		Retention: nats.LimitsPolicy,
		MaxAge:    n.config.MaxAge,
		Replicas:  n.config.Replicas,
		Storage:   nats.FileStorage,
	}

	if _, err := n.js.StreamInfo(n.config.StreamName); err != nil {
		if _, err := n.js.AddStream(streamConfig); err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
		n.logger.Info("Created JetStream stream", zap.String("stream", n.config.StreamName))
		return nil
	}

	if _, err := n.js.UpdateStream(streamConfig); err != nil {
		return fmt.Errorf("failed to update stream: %w", err)
	}
	n.logger.Debug("Updated JetStream stream", zap.String("stream", n.config.StreamName))
	return nil
}

// PublishEvent publishes event and waits for the JetStream acknowledgment.
// The event ID doubles as the message ID for server-side deduplication.
func (n *NATSEventBus) PublishEvent(ctx context.Context, event *Event) error {
	subject := n.SubjectFor(event.Type)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := n.js.Publish(subject, data, nats.MsgId(event.ID), nats.Context(ctx)); err != nil {
		n.logger.Error("Failed to publish event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("failed to publish event: %w", err)
	}

	n.logger.Debug("Published event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("subject", subject))

	return nil
}

// SubjectFor maps an event type to its NATS subject
func (n *NATSEventBus) SubjectFor(eventType EventType) string {
	return fmt.Sprintf("%s.%s", n.config.SubjectPrefix, eventType)
}

// GetStreamInfo returns information about the stream
func (n *NATSEventBus) GetStreamInfo() (*nats.StreamInfo, error) {
	return n.js.StreamInfo(n.config.StreamName)
}

// Close drains and closes the connection
func (n *NATSEventBus) Close() error {
	if n.conn == nil || n.conn.IsClosed() {
		return nil
	}
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	return nil
}
