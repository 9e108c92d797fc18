// Package events holds publishers for engine events.
package events

import (
	"context"

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
)

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, any) error { return nil }

func (NopPublisher) Close() error { return nil }

var _ interfaces.EventPublisher = NopPublisher{}
