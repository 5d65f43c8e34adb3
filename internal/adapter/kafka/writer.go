package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/hluleko/smart-travel-planner/internal/config"
	"github.com/hluleko/smart-travel-planner/internal/domain"
)

// Writer publishes user activity to a Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured activity topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaActivityTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// RecordActivity publishes one activity record.
func (w *Writer) RecordActivity(ctx context.Context, activity domain.Activity) error {
	msg, err := serializeToMessage(activity)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish activity: %w", err)
	}
	w.logger.Debug("activity published", "action", activity.Action, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Activity into a Kafka message keyed by user,
// or by details for anonymous activity.
func serializeToMessage(activity domain.Activity) (kafkago.Message, error) {
	data, err := json.Marshal(activity)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize activity: %w", err)
	}
	key := activity.UserID.String()
	if key == "" {
		key = activity.Details
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "action", Value: []byte(activity.Action)},
			{Key: "recorded_at", Value: []byte(activity.RecordedAt.Format(time.RFC3339))},
		},
	}, nil
}
