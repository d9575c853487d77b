// Package cache implementa el caché de pronósticos sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/AQIB050506/stockmaster/internal/application/dto"
	"github.com/AQIB050506/stockmaster/internal/application/forecast"
)

var _ forecast.Cache = (*RedisForecastCache)(nil)

// RedisForecastCache implementación de forecast.Cache sobre Redis.
type RedisForecastCache struct {
	client *redis.Client
}

// NewRedisForecastCache construye el caché contra un servidor Redis.
func NewRedisForecastCache(addr, password string, db int) *RedisForecastCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisForecastCache{client: client}
}

// Ping verifica la conexión.
func (c *RedisForecastCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (c *RedisForecastCache) Close() error {
	return c.client.Close()
}

// Get devuelve el pronóstico cacheado; (nil, false, nil) si no hay entrada.
func (c *RedisForecastCache) Get(ctx context.Context, key string) ([]dto.ForecastDTO, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var forecasts []dto.ForecastDTO
	if err := json.Unmarshal([]byte(val), &forecasts); err != nil {
		return nil, false, err
	}
	return forecasts, true, nil
}

// Set guarda el pronóstico con el TTL indicado.
func (c *RedisForecastCache) Set(ctx context.Context, key string, value []dto.ForecastDTO, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
