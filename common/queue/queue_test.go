package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecraft/funnels/common/logger"
)

func TestMemoryQueuePubSub(t *testing.T) {
	q := NewMemoryQueue(10, logger.New("error", "json"))
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})

	err := q.Subscribe(ctx, "page.published", func(ctx context.Context, key string, value []byte) error {
		mu.Lock()
		got = append(got, key)
		if len(got) == 2 {
			close(done)
		}
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, q.Publish(ctx, "page.published", "page-1", []byte(`{}`)))
	require.NoError(t, q.Publish(ctx, "page.published", "page-2", []byte(`{}`)))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for messages")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"page-1", "page-2"}, got)
}

func TestMemoryQueuePublishAfterClose(t *testing.T) {
	q := NewMemoryQueue(10, logger.New("error", "json"))
	require.NoError(t, q.Close())

	// Publishing to a closed queue is a quiet no-op
	assert.NoError(t, q.Publish(context.Background(), "page.published", "k", []byte(`{}`)))
	assert.NoError(t, q.Close())
}

func TestMemoryQueueDropsWhenFull(t *testing.T) {
	q := NewMemoryQueue(1, logger.New("error", "json"))
	defer q.Close()

	ctx := context.Background()
	require.NoError(t, q.Publish(ctx, "topic", "first", []byte(`{}`)))
	// Buffer is full with no subscriber draining; the event is dropped, not blocked on
	require.NoError(t, q.Publish(ctx, "topic", "second", []byte(`{}`)))
}
