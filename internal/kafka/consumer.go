package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Consumer struct {
	brokers []string
	reader  *kafka.Reader
	log     logrus.FieldLogger
}

func NewConsumer(brokers []string, groupID, topic string, log logrus.FieldLogger) *Consumer {
	return &Consumer{
		brokers: brokers,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

func (c *Consumer) CheckConnection(ctx context.Context) error {
	return checkConnection(ctx, c.brokers, c.log)
}

// Consume reads messages until ctx is done. Context cancellation ends the
// loop with a nil error.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, BookingEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := HandleMessage(ctx, msg, handler); err != nil {
			c.log.WithError(err).WithField("offset", msg.Offset).Error("failed to handle message")
		}
	}
}

// HandleMessage decodes one message and passes it to handler.
func HandleMessage(ctx context.Context, msg kafka.Message, handler func(context.Context, BookingEvent) error) error {
	var event BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return err
	}
	return handler(ctx, event)
}
