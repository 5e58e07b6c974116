package repository

import (
	"context"

	"FxPulse/internal/domain/models"
	drepo "FxPulse/internal/domain/repository"
	pkgkafka "FxPulse/pkg/kafka"
)

// KafkaSignals publishes fired signals onto a topic, keyed by symbol so
// per-symbol ordering is preserved across partitions.
type KafkaSignals struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSignals creates the publisher.
func NewKafkaSignals(producer *pkgkafka.Producer, topic string) drepo.SignalPublisher {
	return &KafkaSignals{producer: producer, topic: topic}
}

func (p *KafkaSignals) Publish(ctx context.Context, sig models.Signal) error {
	return p.producer.Publish(ctx, p.topic, []byte(sig.Symbol), sig)
}

func (p *KafkaSignals) Close() error {
	return p.producer.Close()
}
