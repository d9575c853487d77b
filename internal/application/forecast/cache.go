package forecast

import (
	"context"
	"time"

	"github.com/AQIB050506/stockmaster/internal/application/dto"
)

// Cache puerto para cachear el resultado del pronóstico entre refrescos del
// dashboard. La implementación redis vive en infrastructure/cache.
type Cache interface {
	Get(ctx context.Context, key string) ([]dto.ForecastDTO, bool, error)
	Set(ctx context.Context, key string, value []dto.ForecastDTO, ttl time.Duration) error
}

// NoopCache descarta todo (tests y entornos sin redis).
type NoopCache struct{}

func (NoopCache) Get(_ context.Context, _ string) ([]dto.ForecastDTO, bool, error) {
	return nil, false, nil
}

func (NoopCache) Set(_ context.Context, _ string, _ []dto.ForecastDTO, _ time.Duration) error {
	return nil
}
