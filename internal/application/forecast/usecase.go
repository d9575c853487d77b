// Package forecast implementa el pronóstico de demanda de corto plazo: proyecta
// días hasta el quiebre y cantidad sugerida de reposición por (producto, bodega)
// a partir de las entregas completadas.
package forecast

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AQIB050506/stockmaster/internal/application/dto"
	"github.com/AQIB050506/stockmaster/internal/domain/entity"
	domforecast "github.com/AQIB050506/stockmaster/internal/domain/forecast"
	"github.com/AQIB050506/stockmaster/internal/domain/repository"
)

const (
	historyWindowDays = 60  // ventana de entregas consideradas
	deliveryScanLimit = 200 // entregas completadas más recientes por bodega
	coverageDays      = 30  // días que debe cubrir la reposición sugerida
	safeHorizonDays   = 60  // quiebre más allá de esto se considera seguro
	reorderWindowDays = 21  // llegar al mínimo más allá de esto no urge
	monitoringDays    = 999 // marcador para "sin demanda, solo vigilancia"

	confidenceHighAt = 20 // entregas calificadas para confianza alta
	confidenceLowAt  = 5  // por debajo de esto la confianza es baja

	cacheKey = "forecasts:all"
)

// ForecastUseCase genera la lista de pronósticos ordenada por urgencia.
// El resultado se cachea brevemente: el dashboard lo refresca con frecuencia y
// el cálculo escanea todas las parejas (producto, bodega).
type ForecastUseCase struct {
	stockRepo repository.StockRepository
	txRepo    repository.TransactionRepository
	estimator domforecast.Estimator
	cache     Cache
	cacheTTL  time.Duration
	now       func() time.Time
}

// NewForecastUseCase construye el caso de uso. estimator nil usa la tasa media
// diaria (estrategia de producción); cacheStore nil desactiva el caché.
func NewForecastUseCase(
	stockRepo repository.StockRepository,
	txRepo repository.TransactionRepository,
	estimator domforecast.Estimator,
	cacheStore Cache,
	cacheTTL time.Duration,
) *ForecastUseCase {
	if estimator == nil {
		estimator = domforecast.NewMeanRateEstimator(historyWindowDays)
	}
	if cacheStore == nil {
		cacheStore = NoopCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &ForecastUseCase{
		stockRepo: stockRepo,
		txRepo:    txRepo,
		estimator: estimator,
		cache:     cacheStore,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

// WithClock fija el reloj del caso de uso (tests).
func (uc *ForecastUseCase) WithClock(now func() time.Time) *ForecastUseCase {
	uc.now = now
	return uc
}

// GetForecasts calcula el pronóstico para todas las parejas (producto, bodega)
// con producto activo, ordenado por días-hasta-quiebre ascendente y, a igualdad,
// por stock actual ascendente.
func (uc *ForecastUseCase) GetForecasts(ctx context.Context) ([]dto.ForecastDTO, error) {
	if cached, ok, err := uc.cache.Get(ctx, cacheKey); err == nil && ok {
		return cached, nil
	}

	rows, err := uc.stockRepo.ListForForecast(ctx)
	if err != nil {
		return nil, fmt.Errorf("read model de pronóstico: %w", err)
	}

	now := uc.now()
	deliveriesByWarehouse := make(map[string][]*entity.Transaction)

	forecasts := make([]dto.ForecastDTO, 0, len(rows))
	for _, row := range rows {
		if !row.ProductActive {
			continue
		}

		deliveries, ok := deliveriesByWarehouse[row.WarehouseID]
		if !ok {
			deliveries, err = uc.txRepo.ListCompletedDeliveries(ctx, row.WarehouseID, deliveryScanLimit)
			if err != nil {
				return nil, fmt.Errorf("entregas completadas de la bodega %s: %w", row.WarehouseID, err)
			}
			deliveriesByWarehouse[row.WarehouseID] = deliveries
		}

		if f := uc.forecastPair(row, deliveries, now); f != nil {
			forecasts = append(forecasts, *f)
		}
	}

	sort.SliceStable(forecasts, func(i, j int) bool {
		if forecasts[i].DaysUntilShortage != forecasts[j].DaysUntilShortage {
			return forecasts[i].DaysUntilShortage < forecasts[j].DaysUntilShortage
		}
		return forecasts[i].CurrentStock.LessThan(forecasts[j].CurrentStock)
	})

	_ = uc.cache.Set(ctx, cacheKey, forecasts, uc.cacheTTL)
	return forecasts, nil
}

// forecastPair aplica el algoritmo a una pareja (producto, bodega); nil suprime
// el pronóstico (stock juzgado seguro).
func (uc *ForecastUseCase) forecastPair(
	row repository.ForecastStockItem,
	deliveries []*entity.Transaction,
	now time.Time,
) *dto.ForecastDTO {
	samples := collectSamples(deliveries, row.ProductID, now)

	currentQty := row.Quantity.InexactFloat64()
	minLevel := row.MinStockLevel.InexactFloat64()
	maxLevel := row.MaxStockLevel.InexactFloat64()
	if maxLevel <= 0 {
		maxLevel = minLevel * 2
	}

	base := dto.ForecastDTO{
		ProductID:     row.ProductID,
		ProductName:   row.ProductName,
		SKU:           row.SKU,
		UnitOfMeasure: row.UnitOfMeasure,
		WarehouseID:   row.WarehouseID,
		WarehouseName: row.WarehouseName,
		WarehouseCode: row.WarehouseCode,
		CurrentStock:  row.Quantity,
		MinStockLevel: row.MinStockLevel,
		Confidence:    "low",
	}

	// Sin historial de entregas: solo alertar si el stock ya está bajo.
	if len(samples) == 0 {
		switch {
		case currentQty <= minLevel:
			base.Signal = dto.ForecastSignalShortage
			base.DaysUntilShortage = 0
			base.SuggestedReorder = fallbackReorder(maxLevel-currentQty, minLevel)
			base.Reason = "sin datos históricos de demanda"
			return &base
		case currentQty <= minLevel*2:
			base.Signal = dto.ForecastSignalMonitoring
			base.DaysUntilShortage = monitoringDays
			base.DaysUntilMinLevel = monitoringDays
			base.SuggestedReorder = decimal.NewFromFloat(minLevel * 2)
			base.Reason = "sin datos históricos - vigilancia de niveles"
			return &base
		default:
			return nil
		}
	}

	dailyDemand := uc.estimator.DailyRate(samples, now)

	// Hubo entregas pero ninguna dentro de la ventana: misma lógica de vigilancia
	// con un umbral más estricto (1.5 × mínimo).
	if dailyDemand == 0 {
		switch {
		case currentQty <= minLevel:
			base.Signal = dto.ForecastSignalShortage
			base.DaysUntilShortage = 0
			base.SuggestedReorder = fallbackReorder(maxLevel-currentQty, minLevel)
			base.Reason = "sin demanda reciente detectada"
			return &base
		case currentQty <= minLevel*1.5:
			base.Signal = dto.ForecastSignalMonitoring
			base.DaysUntilShortage = monitoringDays
			base.DaysUntilMinLevel = monitoringDays
			base.SuggestedReorder = decimal.NewFromFloat(minLevel * 2)
			base.Reason = "sin demanda reciente - vigilancia de stock"
			return &base
		default:
			return nil
		}
	}

	daysUntilShortage := int(math.Ceil(currentQty / dailyDemand))
	if daysUntilShortage < 0 {
		daysUntilShortage = 0
	}
	daysUntilMinLevel := int(math.Ceil((currentQty - minLevel) / dailyDemand))
	if daysUntilMinLevel < 0 {
		daysUntilMinLevel = 0
	}

	// Stock juzgado seguro: quiebre lejano y mínimo lejano.
	if daysUntilShortage > safeHorizonDays && daysUntilMinLevel > reorderWindowDays {
		return nil
	}

	suggested := math.Ceil(dailyDemand*coverageDays + minLevel - currentQty)
	if suggested < minLevel {
		suggested = minLevel
	}

	base.Signal = dto.ForecastSignalDemand
	base.DailyDemand = math.Round(dailyDemand*100) / 100
	base.DaysUntilShortage = daysUntilShortage
	base.DaysUntilMinLevel = daysUntilMinLevel
	base.SuggestedReorder = decimal.NewFromFloat(suggested)
	base.Confidence = confidenceFor(len(samples))
	base.Reason = fmt.Sprintf("basado en %d entregas históricas", len(samples))
	return &base
}

// collectSamples extrae de las entregas completadas las que contienen el
// producto dentro de la ventana, sumando las cantidades de sus líneas.
func collectSamples(deliveries []*entity.Transaction, productID string, now time.Time) []domforecast.DeliverySample {
	cutoff := now.AddDate(0, 0, -historyWindowDays)

	var samples []domforecast.DeliverySample
	for _, t := range deliveries {
		if t.CompletedAt == nil || t.CompletedAt.Before(cutoff) {
			continue
		}
		qty := 0.0
		found := false
		for _, item := range t.Items {
			if item.ProductID == productID {
				qty += item.Quantity.InexactFloat64()
				found = true
			}
		}
		if found {
			samples = append(samples, domforecast.DeliverySample{
				CompletedAt: *t.CompletedAt,
				Quantity:    qty,
			})
		}
	}
	return samples
}

// fallbackReorder devuelve max−actual, o 2×mínimo cuando eso no es positivo.
func fallbackReorder(gap, minLevel float64) decimal.Decimal {
	if gap <= 0 {
		gap = minLevel * 2
	}
	return decimal.NewFromFloat(gap)
}

func confidenceFor(qualifying int) string {
	switch {
	case qualifying >= confidenceHighAt:
		return "high"
	case qualifying < confidenceLowAt:
		return "low"
	default:
		return "medium"
	}
}
