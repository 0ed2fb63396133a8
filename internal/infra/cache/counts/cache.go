// Package counts кеширует количество записей по дням в Redis.
// Ключи версионируются: любая мутация записи увеличивает версию,
// после чего старые ключи просто истекают по TTL
package counts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL время жизни закешированных счетчиков
const DefaultTTL = 5 * time.Minute

const keyPrefix = "gtp:counts"

// Cache кеш счетчиков записей
type Cache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewCache создает кеш поверх клиента Redis
func NewCache(rdb redis.UniversalClient, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get возвращает счетчики за диапазон [from, to] (ключ - дата YYYY-MM-DD)
// и версию кеша, прочитанную до обращения к ключу. Третий результат false
// означает промах; версию нужно передать в Set после чтения из хранилища
func (c *Cache) Get(ctx context.Context, from, to string) (map[string]int, int64, bool, error) {
	version, err := c.version(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	key := entryKey(version, from, to)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, version, false, fmt.Errorf("counts: get %s: %w", key, err)
	}

	var counts map[string]int
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, version, false, fmt.Errorf("counts: decode %s: %w", key, err)
	}
	return counts, version, true, nil
}

// Set сохраняет счетчики за диапазон под версией, полученной из Get.
// Если между Get и Set версия сменилась, запись ляжет под устаревший ключ
// и не будет прочитана
func (c *Cache) Set(ctx context.Context, from, to string, version int64, counts map[string]int) error {
	key := entryKey(version, from, to)

	raw, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("counts: encode: %w", err)
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("counts: set %s: %w", key, err)
	}
	return nil
}

// Invalidate делает недействительными все закешированные счетчики
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, versionKey()).Err(); err != nil {
		return fmt.Errorf("counts: bump version: %w", err)
	}
	return nil
}

func (c *Cache) version(ctx context.Context) (int64, error) {
	version, err := c.rdb.Get(ctx, versionKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("counts: get version: %w", err)
	}
	return version, nil
}

func entryKey(version int64, from, to string) string {
	return fmt.Sprintf("%s:v%d:%s:%s", keyPrefix, version, from, to)
}

func versionKey() string {
	return keyPrefix + ":version"
}
