package emitter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-service/internal/domains/account/model"
)

type published struct {
	key   string
	event *model.AccountEvent
}

// fakePublisher records every publish. An optional block channel lets
// tests hold the worker inside Publish.
type fakePublisher struct {
	mu       sync.Mutex
	messages []published
	err      error
	block    chan struct{}
	closed   bool
}

func (f *fakePublisher) Publish(ctx context.Context, key string, value interface{}) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, published{key: key, event: value.(*model.AccountEvent)})
	return nil
}

func (f *fakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePublisher) recorded() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]published, len(f.messages))
	copy(out, f.messages)
	return out
}

func TestEmitterPublishesOneMessagePerEmit(t *testing.T) {
	pub := &fakePublisher{}
	em := New(pub, 16)

	em.EmitCreated("acme", "Acme Corp", "tenant")
	em.EmitInactivated("acme", "billing lapsed")
	em.EmitReactivated("acme", "paid up")
	em.EmitUpdated("acme", "Acme Inc", "renamed")

	require.NoError(t, em.Close())

	msgs := pub.recorded()
	require.Len(t, msgs, 4)

	assert.Equal(t, model.EventCreated, msgs[0].event.Type)
	assert.Equal(t, model.EventInactivated, msgs[1].event.Type)
	assert.Equal(t, model.EventReactivated, msgs[2].event.Type)
	assert.Equal(t, model.EventUpdated, msgs[3].event.Type)

	// All events for one account share a single partition key.
	for _, m := range msgs {
		assert.Equal(t, msgs[0].key, m.key)
		assert.Equal(t, "acme", m.event.AccountID)
	}

	assert.True(t, pub.closed)
}

func TestEmitterPublishErrorIsSwallowed(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	em := New(pub, 16)

	// Emits after a broker failure must still be accepted.
	em.EmitCreated("acme", "Acme", "")
	em.EmitUpdated("acme", "Acme", "still fine")

	require.NoError(t, em.Close())
	assert.Empty(t, pub.recorded())
}

func TestEmitterDropsWhenQueueFull(t *testing.T) {
	pub := &fakePublisher{block: make(chan struct{})}
	em := New(pub, 1)

	// First emit is picked up by the worker and blocks inside Publish,
	// second fills the queue, third must be dropped without blocking.
	em.EmitCreated("a", "A", "")

	// Give the worker a moment to dequeue the first event.
	time.Sleep(50 * time.Millisecond)

	em.EmitCreated("b", "B", "")

	done := make(chan struct{})
	go func() {
		em.EmitCreated("c", "C", "")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked on a full queue")
	}

	close(pub.block)
	require.NoError(t, em.Close())

	msgs := pub.recorded()
	require.Len(t, msgs, 2)
	assert.Equal(t, "a", msgs[0].event.AccountID)
	assert.Equal(t, "b", msgs[1].event.AccountID)
}

func TestEmitterCloseIsIdempotentAndDropsLateEmits(t *testing.T) {
	pub := &fakePublisher{}
	em := New(pub, 4)

	require.NoError(t, em.Close())
	require.NoError(t, em.Close())

	// Must not panic on a closed queue.
	em.EmitCreated("late", "Late", "")
	assert.Empty(t, pub.recorded())
}
