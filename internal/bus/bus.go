// Package bus carries storage change events between storefront instances.
package bus

import (
	"context"
	"encoding/json"
	"time"
)

// Subject is the NATS subject storage changes are published on.
const Subject = "auraz.storage"

// Event announces that the collection stored under Key now holds Value.
// Origin identifies the publishing instance so it can skip its own events.
type Event struct {
	Key    string          `json:"key"`
	Value  json.RawMessage `json:"value"`
	Origin string          `json:"origin"`
	At     time.Time       `json:"at"`
}

// Handler receives events. It runs on the bus's delivery goroutine.
type Handler func(Event)

type Bus interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe registers h until the returned cancel func is called.
	Subscribe(h Handler) (cancel func(), err error)
	Close() error
}
