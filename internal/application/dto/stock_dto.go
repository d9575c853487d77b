package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockResponse representación HTTP de un registro de stock.
type StockResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	Location          string          `json:"location,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// StockListResponse listado de registros de stock.
type StockListResponse struct {
	Count int             `json:"count"`
	Items []StockResponse `json:"items"`
}

// StockAlertResponse un registro de stock bajo con producto y bodega resueltos.
type StockAlertResponse struct {
	StockID       string          `json:"stock_id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	SKU           string          `json:"sku"`
	Category      string          `json:"category,omitempty"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name"`
	WarehouseCode string          `json:"warehouse_code"`
	Quantity      decimal.Decimal `json:"quantity"`
	Location      string          `json:"location,omitempty"`
}

// StockAlertListResponse listado de alertas de stock bajo.
type StockAlertListResponse struct {
	Count int                  `json:"count"`
	Items []StockAlertResponse `json:"items"`
}

// UpdateStockLocationRequest body para PUT /api/stock/:id/location.
type UpdateStockLocationRequest struct {
	Location string `json:"location"`
}
