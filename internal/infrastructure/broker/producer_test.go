package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishWritesKeyedJSONMessage(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaProducerWithWriter(fw)

	payload := map[string]string{"account_id": "acme", "type": "created"}
	err := p.Publish(context.Background(), "partition-key", payload)
	require.NoError(t, err)

	require.Len(t, fw.messages, 1)
	msg := fw.messages[0]
	assert.Equal(t, []byte("partition-key"), msg.Key)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, payload, decoded)
}

func TestPublishPropagatesWriteError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker unreachable")}
	p := NewKafkaProducerWithWriter(fw)

	err := p.Publish(context.Background(), "k", map[string]string{"a": "b"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "kafka write failed")
}

func TestPublishRejectsUnmarshalableValue(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaProducerWithWriter(fw)

	err := p.Publish(context.Background(), "k", make(chan int))
	require.Error(t, err)
	assert.Empty(t, fw.messages)
}

func TestCloseShutsDownWriter(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaProducerWithWriter(fw)

	require.NoError(t, p.Close())
	assert.True(t, fw.closed)
}
