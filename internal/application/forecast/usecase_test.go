package forecast_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AQIB050506/stockmaster/internal/application/dto"
	"github.com/AQIB050506/stockmaster/internal/application/forecast"
	"github.com/AQIB050506/stockmaster/internal/domain/entity"
	"github.com/AQIB050506/stockmaster/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	items []repository.ForecastStockItem
}

func (r *fakeStockRepo) Get(context.Context, string, string) (*entity.Stock, error) {
	return nil, nil
}
func (r *fakeStockRepo) ApplyDelta(context.Context, string, string, decimal.Decimal) error {
	return nil
}
func (r *fakeStockRepo) List(context.Context, string, string, int, int) ([]*entity.Stock, error) {
	return nil, nil
}
func (r *fakeStockRepo) UpdateLocation(context.Context, string, string) error { return nil }
func (r *fakeStockRepo) ListLowStock(context.Context) ([]repository.LowStockItem, error) {
	return nil, nil
}
func (r *fakeStockRepo) ListForForecast(context.Context) ([]repository.ForecastStockItem, error) {
	return r.items, nil
}

type fakeTxRepo struct {
	deliveriesByWarehouse map[string][]*entity.Transaction
	scanCalls             map[string]int
}

func (r *fakeTxRepo) Create(context.Context, *entity.Transaction) error { return nil }
func (r *fakeTxRepo) GetByID(context.Context, string) (*entity.Transaction, error) {
	return nil, nil
}
func (r *fakeTxRepo) List(context.Context, repository.TransactionFilter) ([]*entity.Transaction, int, error) {
	return nil, 0, nil
}
func (r *fakeTxRepo) MarkCompleted(context.Context, string, time.Time) error { return nil }
func (r *fakeTxRepo) MarkCancelled(context.Context, string) error            { return nil }
func (r *fakeTxRepo) ListCompletedDeliveries(_ context.Context, warehouseID string, _ int) ([]*entity.Transaction, error) {
	if r.scanCalls == nil {
		r.scanCalls = make(map[string]int)
	}
	r.scanCalls[warehouseID]++
	return r.deliveriesByWarehouse[warehouseID], nil
}

type memoryCache struct {
	data map[string][]dto.ForecastDTO
	sets int
	hits int
}

func (c *memoryCache) Get(_ context.Context, key string) ([]dto.ForecastDTO, bool, error) {
	v, ok := c.data[key]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []dto.ForecastDTO, _ time.Duration) error {
	if c.data == nil {
		c.data = make(map[string][]dto.ForecastDTO)
	}
	c.data[key] = value
	c.sets++
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func stockItem(productID, warehouseID string, qty, minLevel, maxLevel int64) repository.ForecastStockItem {
	return repository.ForecastStockItem{
		ProductID:     productID,
		ProductName:   "Producto " + productID,
		SKU:           "SKU-" + productID,
		UnitOfMeasure: "units",
		MinStockLevel: decimal.NewFromInt(minLevel),
		MaxStockLevel: decimal.NewFromInt(maxLevel),
		ProductActive: true,
		WarehouseID:   warehouseID,
		WarehouseName: "Bodega " + warehouseID,
		WarehouseCode: warehouseID,
		Quantity:      decimal.NewFromInt(qty),
	}
}

// deliveries genera n entregas completadas de qtyEach unidades del producto,
// una por día empezando hace n días.
func deliveries(productID, warehouseID string, n int, qtyEach int64) []*entity.Transaction {
	list := make([]*entity.Transaction, 0, n)
	for i := 0; i < n; i++ {
		completedAt := testNow.AddDate(0, 0, -(n - i))
		list = append(list, &entity.Transaction{
			ID:            "tx-" + productID + "-" + warehouseID,
			Type:          entity.TransactionTypeDelivery,
			Status:        entity.TransactionStatusCompleted,
			FromWarehouse: warehouseID,
			Items: []entity.TransactionItem{
				{ProductID: productID, Quantity: decimal.NewFromInt(qtyEach)},
			},
			CompletedAt: &completedAt,
		})
	}
	return list
}

func newUC(stock *fakeStockRepo, txRepo *fakeTxRepo, cache forecast.Cache) *forecast.ForecastUseCase {
	return forecast.NewForecastUseCase(stock, txRepo, nil, cache, time.Minute).
		WithClock(func() time.Time { return testNow })
}

// ──────────────────────────────────────────────────────────────────────────────
// Sin historial
// ──────────────────────────────────────────────────────────────────────────────

func TestGetForecasts_SinHistorialStockBajo(t *testing.T) {
	stock := &fakeStockRepo{items: []repository.ForecastStockItem{
		stockItem("p1", "w1", 40, 50, 200),
	}}
	uc := newUC(stock, &fakeTxRepo{}, nil)

	forecasts, err := uc.GetForecasts(context.Background())
	require.NoError(t, err)
	require.Len(t, forecasts, 1)

	f := forecasts[0]
	assert.Equal(t, dto.ForecastSignalShortage, f.Signal)
	assert.Zero(t, f.DaysUntilShortage, "stock ya bajo el mínimo: quiebre inmediato")
	assert.Equal(t, "low", f.Confidence)
	assert.True(t, f.SuggestedReorder.Equal(decimal.NewFromInt(160)),
		"sugerencia = max − actual cuando hay espacio")
}

func TestGetForecasts_SinHistorialVigilancia(t *testing.T) {
	// 80 está entre min (50) y 2×min (100): solo vigilancia.
	stock := &fakeStockRepo{items: []repository.ForecastStockItem{
		stockItem("p1", "w1", 80, 50, 200),
	}}
	uc := newUC(stock, &fakeTxRepo{}, nil)

	forecasts, err := uc.GetForecasts(context.Background())
	require.NoError(t, err)
	require.Len(t, forecasts, 1)

	f := forecasts[0]
	assert.Equal(t, dto.ForecastSignalMonitoring, f.Signal)
	assert.Equal(t, 999, f.DaysUntilShortage, "marcador de vigilancia")
	assert.True(t, f.SuggestedReorder.Equal(decimal.NewFromInt(100)), "sugerencia 2×mínimo")
}

func TestGetForecasts_SinHistorialStockSano(t *testing.T) {
	stock := &fakeStockRepo{items: []repository.ForecastStockItem{
		stockItem("p1", "w1", 500, 50, 1000),
	}}
	uc := newUC(stock, &fakeTxRepo{}, nil)

	forecasts, err := uc.GetForecasts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, forecasts, "sin historial y stock sano no hay pronóstico")
}

// ──────────────────────────────────────────────────────────────────────────────
// Con demanda histórica
// ──────────────────────────────────────────────────────────────────────────────

func TestGetForecasts_ProyeccionConDemanda(t *testing.T) {
	stock := &fakeStockRepo{items: []repository.ForecastStockItem{
		stockItem("p1", "w1", 240, 50, 400),
	}}
	// 25 entregas de 12 unidades, la más antigua hace 25 días → 300/25 = 12/día.
	txRepo := &fakeTxRepo{deliveriesByWarehouse: map[string][]*entity.Transaction{
		"w1": deliveries("p1", "w1", 25, 12),
	}}
	uc := newUC(stock, txRepo, nil)

	forecasts, err := uc.GetForecasts(context.Background())
	require.NoError(t, err)
	require.Len(t, forecasts, 1)

	f := forecasts[0]
	assert.Equal(t, dto.ForecastSignalDemand, f.Signal)
	assert.InDelta(t, 12.0, f.DailyDemand, 0.01)
	assert.Equal(t, 20, f.DaysUntilShortage, "ceil(240/12) = 20")
	assert.Equal(t, 16, f.DaysUntilMinLevel, "ceil((240-50)/12) = 16")
	// ceil(12*30 + 50 - 240) = 170
	assert.True(t, f.SuggestedReorder.Equal(decimal.NewFromInt(170)),
		"reposición = tasa×30 + mínimo − actual")
	assert.Equal(t, "high", f.Confidence, "25 entregas dan confianza alta")
}

func TestGetForecasts_SuprimeStockSeguro(t *testing.T) {
	// 12/día sobre 5000 unidades: quiebre a >60 días y mínimo a >21 días.
	stock := &fakeStockRepo{items: []repository.ForecastStockItem{
		stockItem("p1", "w1", 5000, 50, 8000),
	}}
	txRepo := &fakeTxRepo{deliveriesByWarehouse: map[string][]*entity.Transaction{
		"w1": deliveries("p1", "w1", 25, 12),
	}}
	uc := newUC(stock, txRepo, nil)

	forecasts, err := uc.GetForecasts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, forecasts, "stock juzgado seguro se suprime del reporte")
}

func TestGetForecasts_ConfianzaPorMuestras(t *testing.T) {
	cases := []struct {
		name        string
		nDeliveries int
		expected    string
	}{
		{"pocas entregas", 4, "low"},
		{"entregas moderadas", 10, "medium"},
		{"muchas entregas", 20, "high"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stock := &fakeStockRepo{items: []repository.ForecastStockItem{
				stockItem("p1", "w1", 100, 50, 400),
			}}
			txRepo := &fakeTxRepo{deliveriesByWarehouse: map[string][]*entity.Transaction{
				"w1": deliveries("p1", "w1", tc.nDeliveries, 10),
			}}
			uc := newUC(stock, txRepo, nil)

			forecasts, err := uc.GetForecasts(context.Background())
			require.NoError(t, err)
			require.Len(t, forecasts, 1)
			assert.Equal(t, tc.expected, forecasts[0].Confidence)
		})
	}
}

func TestGetForecasts_ProductoInactivoSeOmite(t *testing.T) {
	inactive := stockItem("p1", "w1", 10, 50, 200)
	inactive.ProductActive = false
	stock := &fakeStockRepo{items: []repository.ForecastStockItem{inactive}}
	uc := newUC(stock, &fakeTxRepo{}, nil)

	forecasts, err := uc.GetForecasts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, forecasts, "productos inactivos no generan pronóstico")
}

func TestGetForecasts_OrdenPorUrgencia(t *testing.T) {
	stock := &fakeStockRepo{items: []repository.ForecastStockItem{
		stockItem("lento", "w1", 600, 50, 900),  // 12/día → quiebre a 50 días
		stockItem("urgente", "w1", 60, 50, 200), // 12/día → quiebre a 5 días
		stockItem("vacio", "w2", 10, 50, 200),   // sin historial, bajo mínimo → 0 días
	}}
	txRepo := &fakeTxRepo{deliveriesByWarehouse: map[string][]*entity.Transaction{
		"w1": append(
			deliveries("lento", "w1", 25, 12),
			deliveries("urgente", "w1", 25, 12)...,
		),
	}}
	uc := newUC(stock, txRepo, nil)

	forecasts, err := uc.GetForecasts(context.Background())
	require.NoError(t, err)
	require.Len(t, forecasts, 3)

	assert.Equal(t, "vacio", forecasts[0].ProductID, "quiebre inmediato primero")
	assert.Equal(t, "urgente", forecasts[1].ProductID)
	assert.Equal(t, "lento", forecasts[2].ProductID)
}

func TestGetForecasts_EscaneaCadaBodegaUnaVez(t *testing.T) {
	stock := &fakeStockRepo{items: []repository.ForecastStockItem{
		stockItem("p1", "w1", 40, 50, 200),
		stockItem("p2", "w1", 40, 50, 200),
		stockItem("p3", "w2", 40, 50, 200),
	}}
	txRepo := &fakeTxRepo{}
	uc := newUC(stock, txRepo, nil)

	_, err := uc.GetForecasts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, txRepo.scanCalls["w1"], "las entregas de la bodega se cargan una sola vez")
	assert.Equal(t, 1, txRepo.scanCalls["w2"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Caché
// ──────────────────────────────────────────────────────────────────────────────

func TestGetForecasts_UsaCache(t *testing.T) {
	stock := &fakeStockRepo{items: []repository.ForecastStockItem{
		stockItem("p1", "w1", 40, 50, 200),
	}}
	cache := &memoryCache{}
	uc := newUC(stock, &fakeTxRepo{}, cache)

	first, err := uc.GetForecasts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "el primer cálculo se guarda en caché")

	second, err := uc.GetForecasts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits, "la segunda lectura sale del caché")
	assert.Equal(t, first, second)
}
