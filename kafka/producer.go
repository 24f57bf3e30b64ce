package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
)

// CheckoutProducer publishes checkout events.
type CheckoutProducer interface {
	SendCheckoutEvent(ctx context.Context, event models.CheckoutEvent) error
	Close()
}

type checkoutProducer struct {
	writer *kafka.Writer
}

// NewCheckoutProducer creates a producer for the checkout topic.
func NewCheckoutProducer(brokers []string, topic string) CheckoutProducer {
	return &checkoutProducer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// SendCheckoutEvent publishes the event keyed by user so one user's
// checkouts stay ordered.
func (p *checkoutProducer) SendCheckoutEvent(ctx context.Context, event models.CheckoutEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	})
}

func (p *checkoutProducer) Close() {
	_ = p.writer.Close()
}
