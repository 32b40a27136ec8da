package repository

import (
	"context"

	"MarketBoard/internal/domain/models"
	pkgkafka "MarketBoard/pkg/kafka"
)

// KafkaPublisher emits refresh events keyed by source so consumers read
// each source's refreshes in order.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a publisher over an existing producer.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishRefresh(ctx context.Context, ev *models.RefreshEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.SourceID), ev)
}

// PublishMessage lets the log collector flush aggregated entries through
// the same producer. Unkeyed, ordering does not matter for logs.
func (p *KafkaPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
