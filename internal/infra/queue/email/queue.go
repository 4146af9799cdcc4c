package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

const promoteBatch = 100

// promoteDueScript переносит созревшие отложенные задачи в очередь готовых
var promoteDueScript = redis.NewScript(`
local due = redis.call("ZRANGEBYSCORE", KEYS[1], "-inf", ARGV[1], "LIMIT", 0, ARGV[2])
for _, job in ipairs(due) do
  redis.call("ZREM", KEYS[1], job)
  redis.call("LPUSH", KEYS[2], job)
end
return #due
`)

// Queue очередь писем в Redis: список готовых задач и sorted set отложенных (score = unix ms)
type Queue struct {
	rdb        *redis.Client
	readyKey   string
	delayedKey string
	now        func() time.Time
}

// NewQueue создает очередь с ключами {name}:ready и {name}:delayed
func NewQueue(rdb *redis.Client, name string) *Queue {
	if name == "" {
		name = "email_jobs"
	}
	return &Queue{
		rdb:        rdb,
		readyKey:   name + ":ready",
		delayedKey: name + ":delayed",
		now:        time.Now,
	}
}

// Enqueue ставит задачу в очередь на немедленную обработку
func (q *Queue) Enqueue(ctx context.Context, job domain.EmailJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("%w: Enqueue - encode job: %v", ErrEnqueue, err)
	}

	if err := q.rdb.LPush(ctx, q.readyKey, data).Err(); err != nil {
		return fmt.Errorf("%w: Enqueue - lpush: %v", ErrEnqueue, err)
	}
	return nil
}

// EnqueueAt откладывает задачу до момента at
func (q *Queue) EnqueueAt(ctx context.Context, job domain.EmailJob, at time.Time) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("%w: EnqueueAt - encode job: %v", ErrEnqueue, err)
	}

	member := redis.Z{Score: float64(at.UnixMilli()), Member: data}
	if err := q.rdb.ZAdd(ctx, q.delayedKey, member).Err(); err != nil {
		return fmt.Errorf("%w: EnqueueAt - zadd: %v", ErrEnqueue, err)
	}
	return nil
}

// Dequeue забирает следующую задачу, ожидая не дольше timeout.
// Возвращает nil, nil, если задач нет.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*domain.EmailJob, error) {
	if err := q.promoteDue(ctx); err != nil {
		return nil, err
	}

	res, err := q.rdb.BRPop(ctx, timeout, q.readyKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Dequeue - brpop: %v", ErrDequeue, err)
	}

	// BRPOP возвращает пару [ключ, значение]
	if len(res) != 2 {
		return nil, fmt.Errorf("%w: Dequeue - unexpected reply length %d", ErrDequeue, len(res))
	}

	var job domain.EmailJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeJob, err)
	}
	return &job, nil
}

func (q *Queue) promoteDue(ctx context.Context) error {
	nowMs := strconv.FormatInt(q.now().UnixMilli(), 10)
	err := promoteDueScript.Run(ctx, q.rdb, []string{q.delayedKey, q.readyKey}, nowMs, promoteBatch).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: promote delayed jobs: %v", ErrDequeue, err)
	}
	return nil
}
