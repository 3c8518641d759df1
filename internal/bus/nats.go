package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/nats-io/nats.go"
)

// NATS publishes events as JSON on Subject.
type NATS struct {
	conn   *nats.Conn
	logger *log.Logger
}

func NewNATS(url string, logger *log.Logger) (*NATS, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	conn, err := nats.Connect(url, nats.Name("auraz-storefront"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATS{conn: conn, logger: logger}, nil
}

func (n *NATS) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.conn.Publish(Subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Key, err)
	}
	return nil
}

func (n *NATS) Subscribe(h Handler) (func(), error) {
	sub, err := n.conn.Subscribe(Subject, func(msg *nats.Msg) {
		var ev Event
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			n.logger.Printf("bus: decode event error=%v", err)
			return
		}
		h(ev)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", Subject, err)
	}
	return func() {
		if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			n.logger.Printf("bus: unsubscribe error=%v", err)
		}
	}, nil
}

// Flush waits until the server has processed everything published so far.
func (n *NATS) Flush() error {
	return n.conn.Flush()
}

func (n *NATS) Close() error {
	n.conn.Close()
	return nil
}
