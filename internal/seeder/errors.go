package seeder

import (
	"errors"
	"fmt"
)

// ConnectionError reports an unreachable endpoint or rejected credentials
type ConnectionError struct {
	// Endpoint is the redacted connection string
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// InsertError reports a batch write rejected by the store
type InsertError struct {
	// Namespace is database.collection
	Namespace string
	Err       error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("insert into %s failed: %v", e.Namespace, e.Err)
}

func (e *InsertError) Unwrap() error { return e.Err }

// Outcome returns the metric label for the result of a run
func Outcome(err error) string {
	var connErr *ConnectionError
	var insertErr *InsertError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &connErr):
		return "connection_error"
	case errors.As(err, &insertErr):
		return "insert_error"
	default:
		return "error"
	}
}
