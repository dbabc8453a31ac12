package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	availableSlotsPrefix = "slots:available:"
	slotsVersionPrefix   = "slots:version:"
)

// setIfVersion пишет список только если версия врача не менялась с момента чтения
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// Options параметры подключения к Redis
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// SlotCache кэширует списки свободных слотов врача в Redis
type SlotCache struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// Connect создаёт клиент и проверяет соединение
func Connect(ctx context.Context, opts Options, logger *zap.Logger) (*SlotCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("Connected to Redis", zap.String("addr", opts.Addr))

	return NewSlotCache(rdb, opts.TTL, logger), nil
}

func NewSlotCache(rdb redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *SlotCache {
	return &SlotCache{rdb: rdb, ttl: ttl, logger: logger}
}

func key(doctorID int64) string {
	return availableSlotsPrefix + strconv.FormatInt(doctorID, 10)
}

func versionKey(doctorID int64) string {
	return slotsVersionPrefix + strconv.FormatInt(doctorID, 10)
}

// Version возвращает счётчик инвалидаций врача, 0 если их не было
func (c *SlotCache) Version(ctx context.Context, doctorID int64) (int64, error) {
	version, err := c.rdb.Get(ctx, versionKey(doctorID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("get slots version: %w", err)
	}
	return version, nil
}

// GetAvailable читает список из кэша, false если записи нет
func (c *SlotCache) GetAvailable(ctx context.Context, doctorID int64) ([]*model.Slot, bool, error) {
	data, err := c.rdb.Get(ctx, key(doctorID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get cached slots: %w", err)
	}

	var slots []*model.Slot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, false, fmt.Errorf("decode cached slots: %w", err)
	}

	return slots, true, nil
}

// SetAvailable сохраняет список с TTL, если с чтения version врача никто не инвалидировал.
// Возвращает false, когда список устарел и не записан.
func (c *SlotCache) SetAvailable(ctx context.Context, doctorID, version int64, slots []*model.Slot) (bool, error) {
	data, err := json.Marshal(slots)
	if err != nil {
		return false, fmt.Errorf("encode slots: %w", err)
	}

	stored, err := setIfVersion.Run(ctx, c.rdb,
		[]string{key(doctorID), versionKey(doctorID)},
		version, data, c.ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("set cached slots: %w", err)
	}

	return stored == 1, nil
}

// Invalidate поднимает версию и удаляет кэш врачей
func (c *SlotCache) Invalidate(ctx context.Context, doctorIDs ...int64) error {
	if len(doctorIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(doctorIDs))
	_, err := c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range doctorIDs {
			pipe.Incr(ctx, versionKey(id))
			keys = append(keys, key(id))
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete cached slots: %w", err)
	}

	c.logger.Debug("Slot cache invalidated", zap.Int64s("doctor_ids", doctorIDs))
	return nil
}

// Close закрывает соединение с Redis
func (c *SlotCache) Close() error {
	return c.rdb.Close()
}
