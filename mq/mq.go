package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// Topic names follow {entity}_{operation}. Downstream feed and notification
// consumers key on them, so they must not change.
const (
	TopicRecipeCollectionPost = "recipe_collection_post"
	TopicRecipeItemPut        = "recipe_item_put"
)

// Wire statuses carried inside event payloads.
const (
	StatusCreated = "201 Created"
	StatusOK      = "200 OK"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher appends domain events to per-user-keyed streams. Messages with
// the same key land in the same partition, so one user's events arrive in
// emission order.
type Publisher struct {
	writer kafkaWriter
}

func NewPublisher(brokers []string) *Publisher {
	return &Publisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}}
}

// Publish encodes payload as a JSON array, preserving field order, and
// blocks until the transport acknowledges the write.
func (p *Publisher) Publish(ctx context.Context, topic, key string, payload []any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
}

// Close flushes buffered messages before shutdown.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
