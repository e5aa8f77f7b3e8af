package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/brandvoice/internal/models"
)

// RunPublisher announces finished runs to downstream consumers.
type RunPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewRunPublisher(cfg KafkaConfig) (*RunPublisher, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...", slog.String("broker", cfg.Broker))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   cfg.Broker,
		"client.id":           cfg.ClientID,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
		"enable.idempotence":  true,
		"acks":                "all",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &RunPublisher{producer: p, topic: cfg.Topic}, nil
}

func (rp *RunPublisher) Close() {
	if rp == nil || rp.producer == nil {
		return
	}
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := rp.producer.Flush(FLUSH_TIMEOUT_MS); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	rp.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}

// Publish sends the run summary and waits for the broker to acknowledge it.
func (rp *RunPublisher) Publish(ctx context.Context, summary models.RunSummary) error {
	msg, err := newRunSummaryMessage(rp.topic, summary)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, DELIVERY_TIMEOUT)
	defer cancel()

	deliveries := make(chan kafka.Event, 1)
	err = produceWithRetry(ctx, PRODUCE_RETRY_DELAY, func() error {
		return rp.producer.Produce(msg, deliveries)
	})
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce run summary: %w", err)
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("[KafkaClient] delivery not confirmed: %w", ctx.Err())
	case ev := <-deliveries:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("[KafkaClient] unexpected delivery event %v", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("[KafkaClient] delivery failed: %w", m.TopicPartition.Error)
		}
	}

	slog.Info("[KafkaClient] Published run summary",
		slog.String("topic", rp.topic),
		slog.String("run_id", summary.RunID))
	return nil
}

// produceWithRetry waits between attempts so a full local queue has time to
// drain before the next one.
func produceWithRetry(ctx context.Context, delay time.Duration, produce func() error) error {
	var err error
	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		if err = produce(); err == nil {
			return nil
		}
		if attempt == MAX_RETRIES {
			break
		}

		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}

func newRunSummaryMessage(topic string, summary models.RunSummary) (*kafka.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] failed to marshal run summary: %w", err)
	}

	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(summary.RunID),
		Value:          data,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}, nil
}
