// Package cache implementa el puerto ports.CatalogCache: Redis cuando hay REDIS_URL,
// no-op en caso contrario.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/boutique-api/internal/application/ports"
)

var _ ports.CatalogCache = (*RedisCache)(nil)

// NewRedisClient crea el cliente go-redis y valida la conexión al arrancar.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// RedisCache guarda lecturas del catálogo como JSON con TTL.
// Las claves llevan la versión vigente del catálogo: Invalidate incrementa la versión
// y las entradas anteriores dejan de leerse hasta que expiran.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache construye la caché. prefix separa entornos que comparten Redis.
func NewRedisCache(rdb *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) versionKey() string {
	return c.prefix + ":catalog:version"
}

// slot clave de key en la versión vigente del catálogo.
func (c *RedisCache) slot(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, c.versionKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("leer versión del catálogo: %w", err)
	}
	return fmt.Sprintf("%s:catalog:v%d:%s", c.prefix, v, key), nil
}

// Get carga en dst la entrada de key. found=false si no existe o expiró.
// La versión se resuelve una sola vez: el slot devuelto es el que debe usar Set.
func (c *RedisCache) Get(ctx context.Context, key string, dst any) (string, bool, error) {
	slot, err := c.slot(ctx, key)
	if err != nil {
		return "", false, err
	}
	data, err := c.rdb.Get(ctx, slot).Bytes()
	if errors.Is(err, redis.Nil) {
		return slot, false, nil
	}
	if err != nil {
		return slot, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return slot, false, fmt.Errorf("decodificar %s: %w", key, err)
	}
	return slot, true, nil
}

// Set guarda value como JSON en slot con el TTL configurado.
func (c *RedisCache) Set(ctx context.Context, slot string, value any) error {
	if slot == "" {
		return errors.New("slot de caché vacío")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("codificar %s: %w", slot, err)
	}
	if err := c.rdb.Set(ctx, slot, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", slot, err)
	}
	return nil
}

// Invalidate descarta todo el catálogo cacheado subiendo la versión.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, c.versionKey()).Err(); err != nil {
		return fmt.Errorf("invalidar catálogo: %w", err)
	}
	return nil
}

// Ping verifica la conexión; lo usa el health check.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
