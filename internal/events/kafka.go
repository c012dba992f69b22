package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/santhosharam/kottravai-backend/internal/config"
	"github.com/santhosharam/kottravai-backend/internal/entities"

	"github.com/segmentio/kafka-go"
)

// orderCreated is the wire shape of the order.created event consumed by
// downstream analytics.
type orderCreated struct {
	OrderID   int64     `json:"order_id"`
	Reference string    `json:"reference"`
	Email     string    `json:"email,omitempty"`
	Total     int       `json:"total"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type kafkaPublisher struct {
	logger *slog.Logger
	writer *kafka.Writer
	topic  string
}

func NewKafkaPublisher(logger *slog.Logger, cfg config.Kafka) *kafkaPublisher {
	return &kafkaPublisher{
		logger: logger.With(slog.String("publisher", "kafka")),
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
		topic: cfg.Topic,
	}
}

// PublishOrderCreated emits one event per placed order, keyed by reference
// so per-order events stay in one partition.
func (p *kafkaPublisher) PublishOrderCreated(ctx context.Context, o entities.Order) error {
	payload, err := json.Marshal(orderCreated{
		OrderID:   o.ID,
		Reference: o.Reference,
		Email:     o.Email,
		Total:     o.Total,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(o.Reference),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to write order event: %w", err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
