package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
)

// PaymentEventProducer publishes payment lifecycle events.
type PaymentEventProducer interface {
	SendPaymentEvent(ctx context.Context, event models.PaymentEvent) error
	Close()
}

type paymentEventProducer struct {
	writer *kafka.Writer
}

// NewPaymentEventProducer creates a producer for the payment events topic.
func NewPaymentEventProducer(brokers []string, topic string) PaymentEventProducer {
	return &paymentEventProducer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// SendPaymentEvent publishes the event keyed by order ID.
func (p *paymentEventProducer) SendPaymentEvent(ctx context.Context, event models.PaymentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
	})
}

func (p *paymentEventProducer) Close() {
	_ = p.writer.Close()
}
