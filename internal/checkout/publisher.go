package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderPlaced   = "order.placed"
	DefaultOrdersTopic = "storefront.orders"
)

type OrderPlaced struct {
	EventID    string    `json:"event_id"`
	OrderID    string    `json:"order_id"`
	Email      string    `json:"email"`
	ItemCount  int       `json:"item_count"`
	TotalCents int64     `json:"total_cents"`
	PlacedAt   time.Time `json:"placed_at"`
}

func newOrderPlaced(o Order) OrderPlaced {
	return OrderPlaced{
		EventID:    uuid.NewString(),
		OrderID:    o.ID,
		Email:      o.Customer.Email,
		ItemCount:  o.Summary.ItemCount,
		TotalCents: o.Summary.TotalCents,
		PlacedAt:   o.CreatedAt,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e OrderPlaced) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderPlaced) error { return nil }
func (NopPublisher) Close() error                             { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	w     messageWriter
	topic string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultOrdersTopic
	}
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireAll,
		},
		topic: topic,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e OrderPlaced) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(e.OrderID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
			{Key: "source", Value: []byte("storefront")},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", EventOrderPlaced, p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
