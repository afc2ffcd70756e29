package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"storefront/internal/config"
	"storefront/internal/infrastructure/encoding/avro"
	"storefront/internal/infrastructure/storage"
	"storefront/pkg/logger"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	args := m.Called(ctx, rs)
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		results = append(results, kgo.ProduceResult{Record: r, Err: args.Error(0)})
	}
	return results
}

func (m *MockClient) Close() {
	m.Called()
}

type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Deliver(e storage.Event) {
	m.Called(e)
}

// fakeReader replays messages then blocks until the context ends.
type fakeReader struct {
	messages []kafkago.Message
	closed   bool
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		return msg, nil
	}
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

var kafkaCfg = config.KafkaConfig{
	Brokers:      []string{"localhost:9092"},
	StorageTopic: "storage-events",
	OrderTopic:   "orders",
}

func newCodec(t *testing.T) *avro.EventCodec {
	t.Helper()
	codec, err := avro.NewEventCodec()
	require.NoError(t, err)
	return codec
}

func TestProducer_Broadcast(t *testing.T) {
	// Arrange
	ctx := context.Background()
	codec := newCodec(t)
	client := new(MockClient)
	producer := newProducer(client, kafkaCfg, "shop", codec, logger.NewNop())
	event := storage.Event{Key: "cart", Value: []byte(`[]`), Context: "tab-a", At: time.UnixMilli(1750000000000).UTC()}

	client.On("ProduceSync", ctx, mock.MatchedBy(func(rs []*kgo.Record) bool {
		if len(rs) != 1 || rs[0].Topic != "storage-events" || string(rs[0].Key) != "shop/cart" {
			return false
		}
		namespace, got, err := codec.Decode(rs[0].Value)
		return err == nil && namespace == "shop" && got.Context == "tab-a"
	})).Return(nil).Once()

	// Act
	err := producer.Broadcast(ctx, event)

	// Assert
	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestProducer_PublishOrder(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	producer := newProducer(client, kafkaCfg, "shop", newCodec(t), logger.NewNop())
	client.On("ProduceSync", ctx, mock.MatchedBy(func(rs []*kgo.Record) bool {
		return len(rs) == 1 && rs[0].Topic == "orders" && len(rs[0].Key) > 0
	})).Return(errors.New("broker down")).Once()

	err := producer.PublishOrder(ctx, []byte(`{"id":"ord-1"}`))

	assert.ErrorContains(t, err, "publish to kafka topic orders")
	client.AssertExpectations(t)
}

func TestProducer_PublishOrder_EmptyPayload(t *testing.T) {
	client := new(MockClient)
	producer := newProducer(client, kafkaCfg, "shop", newCodec(t), logger.NewNop())

	err := producer.PublishOrder(context.Background(), []byte{})

	assert.ErrorContains(t, err, "payload is empty")
	client.AssertNotCalled(t, "ProduceSync", mock.Anything, mock.Anything)
}

func TestProducer_PublishOrder_NoTopicIsSkipped(t *testing.T) {
	client := new(MockClient)
	cfg := kafkaCfg
	cfg.OrderTopic = ""
	producer := newProducer(client, cfg, "shop", newCodec(t), logger.NewNop())

	assert.NoError(t, producer.PublishOrder(context.Background(), []byte(`{}`)))
	client.AssertNotCalled(t, "ProduceSync", mock.Anything, mock.Anything)
}

func TestProducer_Close(t *testing.T) {
	client := new(MockClient)
	client.On("Close").Return().Once()
	producer := newProducer(client, kafkaCfg, "shop", newCodec(t), logger.NewNop())

	assert.NoError(t, producer.Close(context.Background()))
	client.AssertExpectations(t)
}

func TestEventConsumer_DeliversOwnNamespaceOnly(t *testing.T) {
	// Arrange
	codec := newCodec(t)
	mine := storage.Event{Key: "cart", Value: []byte(`[]`), Context: "remote", At: time.UnixMilli(1750000000000).UTC()}
	ours, err := codec.Encode("shop", mine)
	require.NoError(t, err)
	theirs, err := codec.Encode("other-shop", mine)
	require.NoError(t, err)

	reader := &fakeReader{messages: []kafkago.Message{
		{Value: []byte("not avro"), Offset: 1},
		{Value: theirs, Offset: 2},
		{Value: ours, Offset: 3},
	}}
	target := new(MockDeliverer)
	target.On("Deliver", mine).Return().Once()
	consumer := newEventConsumer(reader, "shop", codec, target, logger.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// Act
	err = consumer.Start(ctx)
	consumer.Close()

	// Assert
	assert.NoError(t, err)
	assert.True(t, reader.closed)
	target.AssertExpectations(t)
}

func TestEventConsumer_IntoOrigin(t *testing.T) {
	codec := newCodec(t)
	origin := storage.NewOrigin(storage.NewMemoryArea())
	tab := origin.Open("local")

	var seen []storage.Event
	tab.OnChange("cart", func(e storage.Event) { seen = append(seen, e) })

	remote, err := codec.Encode("shop", storage.Event{Key: "cart", Value: []byte(`[]`), Context: "remote", At: time.Now()})
	require.NoError(t, err)
	echo, err := codec.Encode("shop", storage.Event{Key: "cart", Value: []byte(`[]`), Context: "local", At: time.Now()})
	require.NoError(t, err)

	consumer := newEventConsumer(&fakeReader{messages: []kafkago.Message{{Value: remote}, {Value: echo}}}, "shop", codec, origin, logger.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, consumer.Start(ctx))

	require.Len(t, seen, 1)
	assert.Equal(t, "remote", seen[0].Context)
}
