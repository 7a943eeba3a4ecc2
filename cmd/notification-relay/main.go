package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/campus-reservations/internal/adapters/rabbit"
	"github.com/robertarktes/campus-reservations/internal/config"
	"github.com/robertarktes/campus-reservations/internal/domain"
	"github.com/robertarktes/campus-reservations/internal/observability"
	"github.com/robertarktes/campus-reservations/internal/outbox"
	"github.com/robertarktes/campus-reservations/internal/reservation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.RabbitURL == "" {
		log.Fatal("RABBIT_URL is required")
	}

	shutdownOtel, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger(cfg.LogLevel)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()
	consumer, err := rabbit.NewConsumer(conn, cfg.RabbitQueue)
	if err != nil {
		log.Fatalf("failed to create consumer: %v", err)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deliveries, err := consumer.Consume(ctx)
	if err != nil {
		log.Fatalf("failed to consume %s: %v", cfg.RabbitQueue, err)
	}

	relay := NewRelay(logger)
	go relay.Run(ctx, deliveries)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutdown notification relay")
}

// Relay turns reservation events into requester-facing notifications.
type Relay struct {
	logger observability.Logger
}

func NewRelay(logger observability.Logger) *Relay {
	return &Relay{logger: logger}
}

func (r *Relay) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	r.logger.Info("Notification relay started")
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				r.logger.Warn("delivery channel closed")
				return
			}
			r.handle(d)
		}
	}
}

// handle acks what it could relay. Undecodable messages are rejected without
// requeue since redelivery would fail the same way.
func (r *Relay) handle(d amqp.Delivery) {
	entry := r.logger.WithFields(map[string]interface{}{"event": d.Type, "message_id": d.MessageId})
	if err := r.relay(d.Type, d.Body, entry); err != nil {
		entry.Error("dropping undeliverable event: ", err)
		if err := d.Reject(false); err != nil {
			entry.Error("reject failed: ", err)
		}
		return
	}
	if err := d.Ack(false); err != nil {
		entry.Error("ack failed: ", err)
	}
}

func (r *Relay) relay(eventType string, body []byte, entry observability.Logger) error {
	switch {
	case strings.HasPrefix(eventType, "approval."):
		var a domain.Approval
		if err := json.Unmarshal(body, &a); err != nil {
			return errors.Wrapf(err, "decode %s", eventType)
		}
		entry.WithFields(map[string]interface{}{
			"approval_id": a.ID,
			"user_id":     a.UserID,
			"kind":        a.Kind,
		}).Info(notificationText(eventType, a))
	case eventType == outbox.EventItemAdded:
		var it domain.Item
		if err := json.Unmarshal(body, &it); err != nil {
			return errors.Wrapf(err, "decode %s", eventType)
		}
		entry.WithField("item_id", it.ID).Info("new equipment available: " + it.Name)
	default:
		return errors.Newf("unknown event type %q", eventType)
	}
	return nil
}

func notificationText(eventType string, a domain.Approval) string {
	b := reservation.Summarize(a)
	var what string
	switch {
	case b.Mixed():
		what = "equipment and classroom request"
	case b.OnlyClassrooms():
		what = "classroom request"
	default:
		what = "equipment request"
	}
	switch eventType {
	case outbox.EventApprovalApproved:
		return "your " + what + " was approved"
	case outbox.EventApprovalRejected:
		return "your " + what + " was rejected: " + a.RejectionReason
	}
	return "your " + what + " is awaiting approval"
}
