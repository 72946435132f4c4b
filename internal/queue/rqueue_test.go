package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sokinpui/spark.go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueue(t *testing.T) (*RQueue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, "strategy_queue"), mr
}

func TestRQueue(t *testing.T) {
	q, mr := newQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, &models.StrategyTask{TaskID: "1", Task: "t", Stack: "s"}))
	items, err := mr.List("strategy_queue")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	task, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, "1", task.TaskID)

	task, err = q.Dequeue(ctx, 100*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestRQueueDeadLettersMalformedItems(t *testing.T) {
	q, mr := newQueue(t)

	for _, raw := range []string{"{not json", "null"} {
		_, err := mr.Lpush("strategy_queue", raw)
		require.NoError(t, err)

		task, err := q.Dequeue(context.Background(), time.Second)
		assert.Nil(t, task)
		assert.ErrorIs(t, err, ErrMalformed)
	}

	dead, err := mr.List(q.DeadLetterName())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"{not json", "null"}, dead)
}
