package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const dialTimeout = 5 * time.Second

// Publisher sends listing events to a durable queue.  It dials the broker
// per publish so a broker outage never holds resources between requests.
type Publisher struct {
	url   string
	queue string
	log   zerolog.Logger
}

// NewPublisher returns a Publisher for the queue at url.
func NewPublisher(url, queue string, log zerolog.Logger) *Publisher {
	return &Publisher{url: url, queue: queue, log: log.With().Str("component", "publisher").Logger()}
}

// PublishListingCreated marshals ev and publishes it as a persistent
// message on the default exchange.  Errors are logged and returned so the
// caller can choose to ignore them.
func (p *Publisher) PublishListingCreated(ctx context.Context, ev ListingCreatedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		p.log.Warn().Err(err).Msg("dial broker failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn().Err(err).Msg("open channel failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := declare(ch, p.queue); err != nil {
		p.log.Warn().Err(err).Str("queue", p.queue).Msg("queue declare failed")
		return err
	}
	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.log.Warn().Err(err).Str("queue", p.queue).Msg("publish failed")
		return err
	}
	p.log.Debug().Str("kind", ev.Kind).Uint64("id", ev.ID).Msg("listing event published")
	return nil
}

// declare ensures the durable queue exists.  It is idempotent.
func declare(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(name, true, false, false, false, nil)
}
