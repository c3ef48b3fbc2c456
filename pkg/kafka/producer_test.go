package kafka

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)

	p, err := NewProducer(WithBrokers([]string{"localhost:9092"}), WithClientID("test"), WithBatchTimeout(time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, time.Millisecond, p.writer.BatchTimeout)
	assert.NoError(t, p.Close())
}

func TestToKafkaMessage(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	km, err := toKafkaMessage(Message{
		Topic:   "fueldesk.dispatches",
		Key:     "d-1",
		Value:   map[string]int{"generation": 3},
		Headers: map[string]string{"phase": "success", "endpoint": "predict"},
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "fueldesk.dispatches", km.Topic)
	assert.Equal(t, []byte("d-1"), km.Key)
	assert.JSONEq(t, `{"generation":3}`, string(km.Value))
	assert.Equal(t, now, km.Time)
	assert.Equal(t, []kafka.Header{
		{Key: "endpoint", Value: []byte("predict")},
		{Key: "phase", Value: []byte("success")},
	}, km.Headers)

	km, err = toKafkaMessage(Message{Topic: "t", Value: []byte("raw")}, now)
	require.NoError(t, err)
	assert.Nil(t, km.Key)
	assert.Equal(t, []byte("raw"), km.Value)

	_, err = toKafkaMessage(Message{Value: "x"}, now)
	assert.Error(t, err)

	_, err = toKafkaMessage(Message{Topic: "t", Value: func() {}}, now)
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Compression(0), parseCompression("none"))
	assert.Equal(t, kafka.Snappy, parseCompression("snappy"))
	assert.Equal(t, kafka.Zstd, parseCompression("zstd"))
	assert.Equal(t, kafka.Gzip, parseCompression("unknown"))
}
