package dto

import "github.com/shopspring/decimal"

// Señales del pronóstico (tipo de resultado etiquetado, sin campos ad hoc).
const (
	ForecastSignalShortage   = "shortage"   // quiebre inmediato o proyectado
	ForecastSignalMonitoring = "monitoring" // sin demanda reciente, stock bajo vigilancia
	ForecastSignalDemand     = "demand"     // proyección basada en demanda histórica
)

// ForecastDTO proyección de quiebre de stock y sugerencia de reposición para
// una pareja (producto, bodega).
type ForecastDTO struct {
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	SKU               string          `json:"sku"`
	UnitOfMeasure     string          `json:"unit_of_measure"`
	WarehouseID       string          `json:"warehouse_id"`
	WarehouseName     string          `json:"warehouse_name"`
	WarehouseCode     string          `json:"warehouse_code"`
	Signal            string          `json:"signal"` // shortage | monitoring | demand
	CurrentStock      decimal.Decimal `json:"current_stock"`
	MinStockLevel     decimal.Decimal `json:"min_stock_level"`
	DailyDemand       float64         `json:"daily_demand"`
	DaysUntilShortage int             `json:"days_until_shortage"`
	DaysUntilMinLevel int             `json:"days_until_min_level"`
	SuggestedReorder  decimal.Decimal `json:"suggested_reorder_quantity"`
	Confidence        string          `json:"confidence"` // low | medium | high
	Reason            string          `json:"reason"`
}

// ForecastListResponse respuesta de GET /api/forecasts, ordenada por urgencia.
type ForecastListResponse struct {
	Count int           `json:"count"`
	Items []ForecastDTO `json:"items"`
}
