package repository

import (
	"context"

	"github.com/franciiscocg/Trading212/internal/domain/models"
	"github.com/franciiscocg/Trading212/internal/domain/repository"
	pkgkafka "github.com/franciiscocg/Trading212/pkg/kafka"
)

// KafkaSyncPublisher announces completed sync runs on a Kafka topic,
// keyed by user so per-user ordering is preserved.
type KafkaSyncPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSyncPublisher creates the Kafka event publisher.
func NewKafkaSyncPublisher(producer *pkgkafka.Producer, topic string) repository.EventPublisher {
	return &KafkaSyncPublisher{producer: producer, topic: topic}
}

func (p *KafkaSyncPublisher) PublishSync(ctx context.Context, result *models.AggregateResult) error {
	return p.producer.Publish(ctx, p.topic, []byte(result.UserID), result.Event())
}

func (p *KafkaSyncPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
