package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per entity change. Keys look like
// "recipe-created-<id>" and values are the entity as JSON.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "encoding event %s", key)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}
	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrapf(err, "publishing event %s", key)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type discard struct{}

func (discard) Publish(context.Context, string, interface{}) error { return nil }
func (discard) Close() error                                      { return nil }

// Discard is used when no brokers are configured.
var Discard = discard{}
