package storage

import (
	"context"
	"net/url"

	"github.com/nnode/seeder/internal/models"
)

// DocumentStore defines the operations the seeder needs from a document database
type DocumentStore interface {
	// Connect opens the connection and verifies the endpoint answers
	Connect(ctx context.Context) error

	// InsertBatch writes records to database.collection in a single operation
	InsertBatch(ctx context.Context, database, collection string, records []models.Record) (*models.InsertAck, error)

	// Disconnect releases the connection. It is a no-op when not connected.
	Disconnect(ctx context.Context) error
}

// RedactURI hides the password of a connection string so it can be logged
func RedactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<invalid uri>"
	}
	return u.Redacted()
}
