package email

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

func newQueue(t *testing.T) (*Queue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewQueue(rdb, "test_jobs"), mr
}

func TestEnqueueDequeue_FIFO(t *testing.T) {
	q, _ := newQueue(t)
	ctx := context.Background()

	first := domain.NewEmailJob(uuid.New(), "a@example.com", domain.EmailConfirmation)
	second := domain.NewEmailJob(uuid.New(), "b@example.com", domain.EmailCancellation)
	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, second))

	got, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first, *got)

	got, err = q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second, *got)
}

func TestEnqueueAt_PromotesOnlyDueJobs(t *testing.T) {
	q, mr := newQueue(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return now }

	due := domain.NewEmailJob(uuid.New(), "a@example.com", domain.EmailConfirmation)
	due.Attempt = 1
	later := domain.NewEmailJob(uuid.New(), "b@example.com", domain.EmailConfirmation)

	require.NoError(t, q.EnqueueAt(ctx, due, now.Add(-time.Second)))
	require.NoError(t, q.EnqueueAt(ctx, later, now.Add(time.Hour)))

	got, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, due.ID, got.ID)
	assert.Equal(t, 1, got.Attempt)

	members, err := mr.ZMembers("test_jobs:delayed")
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestDequeue_BadPayload(t *testing.T) {
	q, mr := newQueue(t)

	_, err := mr.Lpush("test_jobs:ready", "not-json")
	require.NoError(t, err)

	_, err = q.Dequeue(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrDecodeJob)
}
