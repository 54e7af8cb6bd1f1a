package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrBufferFull is returned by Publish when the outgoing buffer has no room
// and the event was dropped.
var ErrBufferFull = errors.New("event buffer full")

// Publisher sends catalog events to RabbitMQ over one long-lived connection.
// Publish only enqueues; Run drains the buffer, dialing on first use and
// reopening the connection after a failure.  A broker that is down or slow
// therefore never delays a request.  Errors are logged and returned so
// callers can ignore them without interrupting the request flow.
type Publisher struct {
	url    string
	log    hclog.Logger
	events chan CatalogEvent

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url string, buffer int, logger hclog.Logger) *Publisher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{url: url, log: logger, events: make(chan CatalogEvent, buffer)}
}

// Publish queues ev for delivery.  It never blocks.
func (p *Publisher) Publish(_ context.Context, ev CatalogEvent) error {
	select {
	case p.events <- ev:
		return nil
	default:
		p.log.Warn("event buffer full, event dropped", "kind", ev.Kind, "provider_id", ev.ProviderID)
		return ErrBufferFull
	}
}

// Run delivers queued events until ctx is cancelled, then closes the
// connection.
func (p *Publisher) Run(ctx context.Context) {
	defer p.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-p.events:
			_ = p.send(ctx, ev)
		}
	}
}

// send publishes ev to CatalogQueue as a persistent JSON message.
func (p *Publisher) send(ctx context.Context, ev CatalogEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("marshal event failed", "error", err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		p.log.Warn("broker unavailable, event dropped", "kind", ev.Kind, "provider_id", ev.ProviderID, "error", err)
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", CatalogQueue, false, false, pub); err != nil {
		p.log.Warn("publish failed", "kind", ev.Kind, "provider_id", ev.ProviderID, "error", err)
		p.reset()
		return err
	}
	return nil
}

// channel returns the open channel, dialing and declaring the queue when
// needed.  Callers hold p.mu.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	if _, err := ch.QueueDeclare(CatalogQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}
