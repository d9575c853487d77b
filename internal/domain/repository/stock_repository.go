package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/AQIB050506/stockmaster/internal/domain/entity"
)

// ForecastStockItem fila cruda del read model del pronóstico: stock actual con
// los niveles min/max del producto y los datos de la bodega ya resueltos.
type ForecastStockItem struct {
	ProductID     string
	ProductName   string
	SKU           string
	UnitOfMeasure string
	MinStockLevel decimal.Decimal
	MaxStockLevel decimal.Decimal
	ProductActive bool
	WarehouseID   string
	WarehouseName string
	WarehouseCode string
	Quantity      decimal.Decimal
}

// LowStockItem fila de la alerta de stock bajo: un registro de stock cuyo
// producto activo está en o por debajo de su nivel mínimo, con producto y
// bodega ya resueltos.
type LowStockItem struct {
	StockID       string
	ProductID     string
	ProductName   string
	SKU           string
	Category      string
	UnitOfMeasure string
	MinStockLevel decimal.Decimal
	WarehouseID   string
	WarehouseName string
	WarehouseCode string
	Quantity      decimal.Decimal
	Location      string
}

// StockRepository define el puerto para consultar y mutar stock por
// (producto, bodega). ApplyDelta debe ser un read-modify-write atómico en el
// almacén (incremento nativo sobre la clave única), nunca leer-luego-escribir.
type StockRepository interface {
	// Get devuelve el stock actual; si no existe registro devuelve el valor
	// cero para la pareja (cantidad 0, reserva 0).
	Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)

	// ApplyDelta incrementa (o decrementa) la cantidad con un upsert atómico.
	// Crea el registro si no existe, partiendo de cantidad 0. No recorta a cero.
	ApplyDelta(ctx context.Context, productID, warehouseID string, delta decimal.Decimal) error

	// List lista registros de stock; productID y warehouseID vacíos no filtran.
	List(ctx context.Context, productID, warehouseID string, limit, offset int) ([]*entity.Stock, error)

	// UpdateLocation actualiza la nota de ubicación física de un registro.
	UpdateLocation(ctx context.Context, id, location string) error

	// ListLowStock devuelve los registros de productos activos cuya cantidad
	// está en o por debajo del nivel mínimo del producto.
	ListLowStock(ctx context.Context) ([]LowStockItem, error)

	// ListForForecast devuelve el read model para el pronóstico de demanda.
	ListForForecast(ctx context.Context) ([]ForecastStockItem, error)
}
