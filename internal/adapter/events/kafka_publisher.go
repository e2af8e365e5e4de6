package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/rl1809/warehouse-orders/internal/core/domain"
)

const (
	eventTypeOrderPlaced    = "order.placed"
	eventTypeOrderCancelled = "order.cancelled"
)

// KafkaPublisher writes order lifecycle events to a single topic, keyed
// by order id so all events for one order land in the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, ev domain.OrderPlaced) error {
	return p.publish(ctx, eventTypeOrderPlaced, ev.OrderID, ev)
}

func (p *KafkaPublisher) PublishOrderCancelled(ctx context.Context, ev domain.OrderCancelled) error {
	return p.publish(ctx, eventTypeOrderCancelled, ev.OrderID, ev)
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType string, orderID int64, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(orderID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event: %w", eventType, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher discards events; used in tests and when no broker is
// configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, domain.OrderPlaced) error { return nil }

func (NopPublisher) PublishOrderCancelled(context.Context, domain.OrderCancelled) error { return nil }
