package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"storefront/internal/config"
	"storefront/internal/infrastructure/encoding/avro"
	"storefront/internal/infrastructure/storage"
	"storefront/pkg/logger"
)

// syncProducer is the part of *kgo.Client the producer uses.
type syncProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// Producer publishes storage events (Avro) and confirmed orders (JSON).
// It implements storage.Broadcaster and checkout.OrderPublisher.
type Producer struct {
	client       syncProducer
	codec        *avro.EventCodec
	namespace    string
	storageTopic string
	orderTopic   string
	log          logger.Logger
}

func NewProducer(cfg config.KafkaConfig, namespace string, codec *avro.EventCodec, log logger.Logger) (*Producer, error) {
	log.Info("connecting kafka producer",
		logger.Any("brokers", cfg.Brokers),
		logger.String("storage_topic", cfg.StorageTopic),
		logger.String("order_topic", cfg.OrderTopic),
	)

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.StorageTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.DisableIdempotentWrite(),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return newProducer(client, cfg, namespace, codec, log), nil
}

func newProducer(client syncProducer, cfg config.KafkaConfig, namespace string, codec *avro.EventCodec, log logger.Logger) *Producer {
	return &Producer{
		client:       client,
		codec:        codec,
		namespace:    namespace,
		storageTopic: cfg.StorageTopic,
		orderTopic:   cfg.OrderTopic,
		log:          log,
	}
}

// Broadcast keys records by storage key so writes to one key stay ordered.
func (p *Producer) Broadcast(ctx context.Context, e storage.Event) error {
	payload, err := p.codec.Encode(p.namespace, e)
	if err != nil {
		return fmt.Errorf("encode storage event: %w", err)
	}
	return p.produce(ctx, &kgo.Record{
		Topic:     p.storageTopic,
		Key:       []byte(p.namespace + "/" + e.Key),
		Value:     payload,
		Timestamp: e.At,
	})
}

func (p *Producer) PublishOrder(ctx context.Context, payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload is empty")
	}
	if p.orderTopic == "" {
		return nil
	}
	return p.produce(ctx, &kgo.Record{
		Topic:     p.orderTopic,
		Key:       []byte(uuid.NewString()),
		Value:     payload,
		Timestamp: time.Now().UTC(),
	})
}

func (p *Producer) produce(ctx context.Context, rec *kgo.Record) error {
	results := p.client.ProduceSync(ctx, rec)
	if err := results.FirstErr(); err != nil {
		p.log.Error("kafka publish failed",
			logger.String("topic", rec.Topic),
			logger.Int("payload_bytes", len(rec.Value)),
			logger.Error(err),
		)
		return fmt.Errorf("publish to kafka topic %s: %w", rec.Topic, err)
	}
	return nil
}

func (p *Producer) Close(ctx context.Context) error {
	p.log.Info("closing kafka producer")
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
