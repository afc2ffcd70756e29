package kafka

import (
	"context"
	"errors"

	kafkago "github.com/segmentio/kafka-go"

	"storefront/internal/config"
	"storefront/internal/infrastructure/encoding/avro"
	"storefront/internal/infrastructure/storage"
	"storefront/pkg/logger"
)

// Deliverer receives events written by other processes.
type Deliverer interface {
	Deliver(e storage.Event)
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafkago.Message, error)
	Close() error
}

// EventConsumer feeds remote storage events into the local origin.
type EventConsumer struct {
	reader    messageReader
	codec     *avro.EventCodec
	namespace string
	target    Deliverer
	log       logger.Logger
}

// NewEventConsumer joins a consumer group of its own: every process must see every event.
func NewEventConsumer(cfg config.KafkaConfig, namespace, contextID string, codec *avro.EventCodec, target Deliverer, log logger.Logger) *EventConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.ConsumerGroup + "-" + contextID,
		Topic:    cfg.StorageTopic,
		MinBytes: 1e3,
		MaxBytes: 1e6,
	})
	return newEventConsumer(reader, namespace, codec, target, log)
}

func newEventConsumer(reader messageReader, namespace string, codec *avro.EventCodec, target Deliverer, log logger.Logger) *EventConsumer {
	return &EventConsumer{
		reader:    reader,
		codec:     codec,
		namespace: namespace,
		target:    target,
		log:       log,
	}
}

// Start blocks until ctx is cancelled or the reader fails.
func (c *EventConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		c.handle(msg)
	}
}

func (c *EventConsumer) handle(msg kafkago.Message) {
	namespace, e, err := c.codec.Decode(msg.Value)
	if err != nil {
		c.log.Warn("skip undecodable storage event",
			logger.Int64("offset", msg.Offset),
			logger.Error(err),
		)
		return
	}
	if namespace != c.namespace {
		return
	}
	c.target.Deliver(e)
}

func (c *EventConsumer) Close() {
	_ = c.reader.Close()
}
