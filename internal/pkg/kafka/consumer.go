package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Handler processes one message. Returned errors are logged and the message is skipped.
type Handler func(ctx context.Context, value []byte) error

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	return &Consumer{reader: reader}
}

// Run reads messages until ctx is cancelled. Messages are handled one at a time.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	cfg := c.reader.Config()
	logrus.WithFields(logrus.Fields{
		"brokers": cfg.Brokers,
		"topic":   cfg.Topic,
		"group":   cfg.GroupID,
	}).Info("Kafka consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				logrus.Info("Kafka consumer stopped")
				return nil
			}
			logrus.Errorf("Error reading message from Kafka: %v", err)
			continue
		}

		logrus.Debugf("Received message from topic %s [partition %d, offset %d]",
			msg.Topic, msg.Partition, msg.Offset)

		if err := handle(ctx, msg.Value); err != nil {
			logrus.Errorf("Failed to handle message at offset %d: %v", msg.Offset, err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
