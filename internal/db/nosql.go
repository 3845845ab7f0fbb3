package db

import (
	"context"
)

// NoSQLDatabase defines the connection lifecycle of the document store
type NoSQLDatabase interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error
}
