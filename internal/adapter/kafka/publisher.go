// Package kafka publishes newly inserted incidents to a Kafka topic so
// downstream consumers (alerting, analytics) see only deduplicated records.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/civicpulse/incident-etl/internal/domain"
)

// Publisher produces incident messages to a Kafka topic.
// It implements pipeline.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishBatch serializes and publishes the incidents in a single
// WriteMessages call. Only incidents that survived deduplication should be
// passed in; the message key is the external ID so replays of the same
// incident land on the same partition.
func (p *Publisher) PublishBatch(ctx context.Context, incidents []domain.Incident) error {
	if len(incidents) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(incidents))
	for i := range incidents {
		msg, err := serializeToMessage(incidents[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an Incident into a Kafka message.
func serializeToMessage(incident domain.Incident) (kafkago.Message, error) {
	data, err := json.Marshal(incident)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize incident: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(incident.ExternalID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(incident.Source)},
			{Key: "severity", Value: []byte(incident.Severity)},
			{Key: "reported_at", Value: []byte(incident.ReportedAt.Format(time.RFC3339))},
		},
	}, nil
}
