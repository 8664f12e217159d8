package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	id "hackhub/pkg/domain"
)

// KafkaStore publishes lifecycle events to a Kafka/Redpanda topic, keyed by
// team so per-team ordering survives partitioning. It satisfies Store so the
// Publisher does not care whether events land in memory or on a broker.
type KafkaStore struct {
	client *kgo.Client
	topic  string
}

// NewKafkaStore connects a producer to the given brokers.
func NewKafkaStore(brokers []string, topic string) (*KafkaStore, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaStore{client: client, topic: topic}, nil
}

// Append produces the event synchronously. Emission happens after the state
// change committed, so a broker failure is reported but must not be able to
// roll the transition back.
func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal lifecycle event: %w", err)
	}
	record := &kgo.Record{
		Key:   []byte(event.TeamID.String()),
		Value: payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce lifecycle event: %w", err)
	}
	return nil
}

// ListByTeam is not supported on the broker sink; reads go through the
// in-memory or downstream consumer stores.
func (s *KafkaStore) ListByTeam(context.Context, id.TeamID) ([]Event, error) {
	return nil, errWriteOnly
}

func (s *KafkaStore) Close() {
	s.client.Close()
}
