package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectDraftCompleted carries one DraftEvent per finished draft.
const SubjectDraftCompleted = "echo.draft.completed"

// DraftEvent describes how a draft was produced. It never carries message text.
type DraftEvent struct {
	DraftID   string    `json:"draft_id"`
	Mode      string    `json:"mode"`
	Source    string    `json:"source"`
	Reason    string    `json:"reason,omitempty"`
	Intention bool      `json:"intention"`
	Kind      string    `json:"kind"`
	Provider  string    `json:"provider,omitempty"`
	LatencyMS int64     `json:"latency_ms"`
	Options   int       `json:"options"`
	Timestamp time.Time `json:"timestamp"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("echo"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

// PublishDraft emits evt on SubjectDraftCompleted.
func (c *Client) PublishDraft(evt DraftEvent) error {
	return c.Publish(SubjectDraftCompleted, evt)
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

// SubscribeDrafts decodes every DraftEvent on SubjectDraftCompleted and hands
// it to handler. Undecodable messages are logged and skipped.
func (c *Client) SubscribeDrafts(handler func(DraftEvent)) error {
	return c.Subscribe(SubjectDraftCompleted, func(_ string, data []byte) {
		var evt DraftEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			c.logger.Warn("failed to parse draft event", "error", err)
			return
		}
		handler(evt)
	})
}

// Close drains subscriptions and closes the connection.
func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
	}
}
