package eventbus

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventTypeSeedCompleted EventType = "seed.completed"
)

// Event is the envelope published on the bus
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Source    string                 `json:"source"`
	Subject   string                 `json:"subject"`
	Data      map[string]interface{} `json:"data"`
	TraceID   string                 `json:"trace_id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
}

// NewEvent creates a new event with generated ID and timestamp
func NewEvent(eventType EventType, source, subject string, data map[string]interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    source,
		Subject:   subject,
		Data:      data,
		Timestamp: time.Now().UTC(),
		Version:   "1.0",
	}
}

// WithTraceID adds a trace ID to the event
func (e *Event) WithTraceID(traceID string) *Event {
	e.TraceID = traceID
	return e
}

// NewSeedCompletedEvent describes a finished batch insert into database.collection
func NewSeedCompletedEvent(database, collection string, insertedCount int, insertedIDs []string) *Event {
	return NewEvent(EventTypeSeedCompleted, "seeder", database+"."+collection, map[string]interface{}{
		"database":       database,
		"collection":     collection,
		"inserted_count": insertedCount,
		"inserted_ids":   insertedIDs,
	})
}

// Publisher sends events to the bus
type Publisher interface {
	PublishEvent(ctx context.Context, event *Event) error
	Close() error
}

// NopPublisher drops every event. Used when the event bus is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, *Event) error { return nil }
func (NopPublisher) Close() error                              { return nil }
