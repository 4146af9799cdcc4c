package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

const (
	keyPrefix  = "availability"
	scanBatch  = 200
	DefaultTTL = 5 * time.Minute
)

// Cache read-through кэш доступности в Redis.
// Значения живут не дольше TTL. Мутации бронирований сбрасывают ключи даты
// и все ключи диапазонов, покрывающих эту дату.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache создает кэш доступности
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// DateKey ключ слотов услуги на дату
func DateKey(serviceID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s:%s:date:%s", keyPrefix, serviceID, date.Format(domain.DateFormat))
}

// RangeKey ключ списка доступных дат услуги в диапазоне
func RangeKey(serviceID uuid.UUID, start, end time.Time) string {
	return fmt.Sprintf("%s:%s:range:%s:%s", keyPrefix, serviceID,
		start.Format(domain.DateFormat), end.Format(domain.DateFormat))
}

// GetDate возвращает слоты из кэша; ok=false при промахе
func (c *Cache) GetDate(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]domain.Slot, bool, error) {
	var slots []domain.Slot
	ok, err := c.get(ctx, DateKey(serviceID, date), &slots)
	return slots, ok, err
}

// SetDate сохраняет слоты на дату
func (c *Cache) SetDate(ctx context.Context, serviceID uuid.UUID, date time.Time, slots []domain.Slot) error {
	return c.set(ctx, DateKey(serviceID, date), slots)
}

// GetRange возвращает доступные даты диапазона из кэша
func (c *Cache) GetRange(ctx context.Context, serviceID uuid.UUID, start, end time.Time) ([]time.Time, bool, error) {
	var raw []string
	ok, err := c.get(ctx, RangeKey(serviceID, start, end), &raw)
	if err != nil || !ok {
		return nil, ok, err
	}

	dates := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		d, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			return nil, false, fmt.Errorf("%w: GetRange - parse date %q: %v", ErrCacheRead, s, err)
		}
		dates = append(dates, d)
	}
	return dates, true, nil
}

// SetRange сохраняет доступные даты диапазона
func (c *Cache) SetRange(ctx context.Context, serviceID uuid.UUID, start, end time.Time, dates []time.Time) error {
	raw := make([]string, 0, len(dates))
	for _, d := range dates {
		raw = append(raw, d.Format(domain.DateFormat))
	}
	return c.set(ctx, RangeKey(serviceID, start, end), raw)
}

// InvalidateDate сбрасывает слоты услуги на дату и все диапазоны, которые её содержат
func (c *Cache) InvalidateDate(ctx context.Context, serviceID uuid.UUID, date time.Time) error {
	keys := []string{DateKey(serviceID, date)}
	day := date.Format(domain.DateFormat)

	pattern := fmt.Sprintf("%s:%s:range:*", keyPrefix, serviceID)
	iter := c.rdb.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		start, end, ok := parseRangeKey(key)
		if !ok {
			continue
		}
		// даты в формате YYYY-MM-DD сравниваются лексикографически
		if start <= day && day <= end {
			keys = append(keys, key)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: InvalidateDate - scan: %v", ErrCacheInvalidate, err)
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: InvalidateDate - del: %v", ErrCacheInvalidate, err)
	}
	return nil
}

// InvalidateAll сбрасывает все ключи доступности (после изменений расписания, настроек и услуг)
func (c *Cache) InvalidateAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keyPrefix+":*", scanBatch).Iterator()

	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("%w: InvalidateAll - del: %v", ErrCacheInvalidate, err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: InvalidateAll - scan: %v", ErrCacheInvalidate, err)
	}

	if len(batch) > 0 {
		if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("%w: InvalidateAll - del: %v", ErrCacheInvalidate, err)
		}
	}
	return nil
}

func (c *Cache) get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: get %s: %v", ErrCacheRead, key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", ErrCacheRead, key, err)
	}
	return true, nil
}

func (c *Cache) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrCacheWrite, key, err)
	}

	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrCacheWrite, key, err)
	}
	return nil
}

// parseRangeKey извлекает границы диапазона из ключа availability:{id}:range:{start}:{end}
func parseRangeKey(key string) (string, string, bool) {
	parts := strings.Split(key, ":")
	if len(parts) != 5 || parts[2] != "range" {
		return "", "", false
	}
	return parts[3], parts[4], true
}
