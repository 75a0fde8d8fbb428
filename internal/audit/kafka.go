package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the sink uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes events keyed by booking id so one booking's events
// stay ordered within a partition.
type KafkaSink struct {
	writer messageWriter
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Deliver(ctx context.Context, ev Event) error {
	value, err := json.Marshal(eventBody(ev))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(ev.BookingID), 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(ev.ID)},
			{Key: "event_type", Value: []byte(ev.Kind)},
		},
	})
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

// SplitBrokers parses a comma separated broker list.
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func eventBody(ev Event) map[string]any {
	return map[string]any{
		"event_id":    ev.ID,
		"kind":        ev.Kind,
		"booking_id":  ev.BookingID,
		"number":      ev.Number,
		"provider_id": ev.ProviderID,
		"client_id":   ev.ClientID,
		"actor":       ev.Actor,
		"occurred_at": ev.OccurredAt,
		"data":        ev.Data,
	}
}
