package interfaces

import "context"

// EventPublisher ships engine events to an external sink.
// key groups events that must stay ordered relative to each other (the client id).
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, key string, event any) error
	Close() error
}
