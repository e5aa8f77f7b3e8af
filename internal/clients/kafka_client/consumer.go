package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/brandvoice/internal/models"
)

// RunSubscriber follows the run-summary topic. Offsets are committed only
// after a summary was handled.
type RunSubscriber struct {
	consumer *kafka.Consumer
	iter     *MessageIterator
	commits  *CommitHandler
}

func NewRunSubscriber(cfg KafkaConfig) (*RunSubscriber, error) {
	slog.Info("[KafkaClient] Initializing Kafka Consumer...",
		slog.String("broker", cfg.Broker),
		slog.String("group_id", cfg.GroupID),
		slog.String("topic", cfg.Topic))

	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Broker,
		"group.id":           cfg.GroupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
		"isolation.level":    "read_committed",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create consumer: %w", err)
	}

	if err := c.SubscribeTopics([]string{cfg.Topic}, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("[KafkaClient] Failed to subscribe to topic: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Consumer initialized successfully")
	return &RunSubscriber{
		consumer: c,
		iter:     NewMessageIterator(c),
		commits:  NewCommitHandler(c),
	}, nil
}

// Consume hands every run summary to handle until ctx is cancelled or handle
// fails. Messages that are not run summaries are logged and committed.
func (rs *RunSubscriber) Consume(ctx context.Context, handle func(models.RunSummary) error) error {
	for {
		msg, err := rs.iter.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		summary, err := decodeRunSummary(msg)
		if err != nil {
			slog.Warn("[KafkaClient] Skipping malformed run summary",
				slog.String("error", err.Error()))
		} else if err := handle(summary); err != nil {
			return err
		}

		if err := rs.commits.Commit(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func (rs *RunSubscriber) Close() {
	if rs == nil || rs.consumer == nil {
		return
	}
	if err := rs.consumer.Close(); err != nil {
		slog.Warn("[KafkaClient] Failed to close consumer", slog.String("error", err.Error()))
	}
}

func decodeRunSummary(msg *kafka.Message) (models.RunSummary, error) {
	var summary models.RunSummary
	if err := json.Unmarshal(msg.Value, &summary); err != nil {
		return summary, fmt.Errorf("[KafkaClient] failed to decode run summary: %w", err)
	}
	if summary.RunID == "" {
		summary.RunID = string(msg.Key)
	}
	return summary, nil
}
