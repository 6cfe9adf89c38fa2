package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const appliedQueue = "slots.applied"

// Publisher sends events to RabbitMQ.  Publishing is best-effort by
// contract: every error is logged and returned so callers can ignore
// it without interrupting the request flow.  A Publisher with an
// empty URL is disabled and publishes nothing.
type Publisher struct {
	url string
	log *logrus.Entry
}

// NewPublisher builds a publisher for the given broker URL.
func NewPublisher(url string, log *logrus.Entry) *Publisher {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Publisher{url: url, log: log}
}

// PublishSlotsApplied publishes a SlotsAppliedEvent to the
// "slots.applied" queue.  The queue is declared durable and messages
// are marked persistent so they survive a broker restart.
func (p *Publisher) PublishSlotsApplied(ctx context.Context, event SlotsAppliedEvent) error {
	if p.url == "" {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.WithError(err).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.WithError(err).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare so a fresh broker works without setup.
	if _, err := ch.QueueDeclare(
		appliedQueue, // name
		true,         // durable
		false,        // autoDelete
		false,        // exclusive
		false,        // noWait
		nil,          // args
	); err != nil {
		p.log.WithError(err).Warn("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.WithError(err).Warn("rabbitmq: marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", appliedQueue, false, false, pub); err != nil {
		p.log.WithError(err).Warn("rabbitmq: publish failed")
		return err
	}
	return nil
}
