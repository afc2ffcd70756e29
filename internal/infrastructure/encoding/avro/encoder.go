package avro

import (
	"fmt"
	"time"

	"github.com/linkedin/goavro/v2"

	"storefront/internal/infrastructure/storage"
)

// Encoder wraps a goavro codec. Codecs are safe for concurrent use.
type Encoder struct {
	codec *goavro.Codec
}

// NewEncoder creates a new encoder from an Avro schema string
func NewEncoder(schema string) (*Encoder, error) {
	codec, err := goavro.NewCodec(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create avro codec: %w", err)
	}
	return &Encoder{codec: codec}, nil
}

// EncodeNative converts a Go native map to Avro binary format
func (e *Encoder) EncodeNative(native interface{}) ([]byte, error) {
	binary, err := e.codec.BinaryFromNative(nil, native)
	if err != nil {
		return nil, fmt.Errorf("failed to encode to avro binary: %w", err)
	}
	return binary, nil
}

func (e *Encoder) DecodeNative(binary []byte) (interface{}, error) {
	native, _, err := e.codec.NativeFromBinary(binary)
	if err != nil {
		return nil, fmt.Errorf("failed to decode avro binary: %w", err)
	}
	return native, nil
}

// EventCodec turns storage events into StorageEvent records and back.
type EventCodec struct {
	enc *Encoder
}

func NewEventCodec() (*EventCodec, error) {
	enc, err := NewEncoder(StorageEventSchema)
	if err != nil {
		return nil, err
	}
	return &EventCodec{enc: enc}, nil
}

func (c *EventCodec) Encode(namespace string, e storage.Event) ([]byte, error) {
	var value interface{}
	if !e.Removed && e.Value != nil {
		value = goavro.Union("bytes", e.Value)
	}
	return c.enc.EncodeNative(map[string]interface{}{
		"namespace": namespace,
		"key":       e.Key,
		"value":     value,
		"removed":   e.Removed,
		"context":   e.Context,
		"at":        e.At.UnixMilli(),
	})
}

// Decode returns the namespace the event was written in and the event itself.
func (c *EventCodec) Decode(binary []byte) (string, storage.Event, error) {
	native, err := c.enc.DecodeNative(binary)
	if err != nil {
		return "", storage.Event{}, err
	}
	m, ok := native.(map[string]interface{})
	if !ok {
		return "", storage.Event{}, fmt.Errorf("storage event is %T, not a record", native)
	}

	e := storage.Event{}
	e.Key, _ = m["key"].(string)
	e.Context, _ = m["context"].(string)
	e.Removed, _ = m["removed"].(bool)
	if at, ok := m["at"].(int64); ok {
		e.At = time.UnixMilli(at).UTC()
	}
	if union, ok := m["value"].(map[string]interface{}); ok {
		e.Value, _ = union["bytes"].([]byte)
	}
	namespace, _ := m["namespace"].(string)
	return namespace, e, nil
}
