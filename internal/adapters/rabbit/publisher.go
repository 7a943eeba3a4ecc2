package rabbit

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/campus-reservations/internal/outbox"
)

const Exchange = "campus.reservations"

type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	err = ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil)
	if err != nil {
		return nil, err
	}
	return &Publisher{ch: ch}, nil
}

func (p *Publisher) Name() string { return "rabbit" }

// Publish sends rec to the exchange with its event type as routing key.
func (p *Publisher) Publish(ctx context.Context, rec outbox.Record) error {
	msg := amqp.Publishing{
		MessageId:    rec.DedupeKey,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    rec.CreatedAt,
		Type:         rec.Type,
		Headers:      amqp.Table{"kind": string(rec.Kind), "aggregate_id": rec.AggregateID},
		Body:         rec.Payload,
	}
	return p.ch.PublishWithContext(ctx, Exchange, rec.Type, false, false, msg)
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}
