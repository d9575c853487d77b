package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU rastreado por el inventario.
// MinStockLevel/MaxStockLevel alimentan el pronóstico de demanda;
// si MaxStockLevel es 0 el pronóstico asume 2 × MinStockLevel.
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	Description   string
	Category      string
	UnitOfMeasure string // kg, pcs, liters, boxes, units, meters
	CostPrice     decimal.Decimal
	SellingPrice  decimal.Decimal
	MinStockLevel decimal.Decimal
	MaxStockLevel decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EffectiveMaxStock devuelve el nivel máximo, o 2 × mínimo cuando no está definido.
func (p *Product) EffectiveMaxStock() decimal.Decimal {
	if p.MaxStockLevel.GreaterThan(decimal.Zero) {
		return p.MaxStockLevel
	}
	return p.MinStockLevel.Mul(decimal.NewFromInt(2))
}
