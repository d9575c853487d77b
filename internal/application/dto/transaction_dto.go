package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionItemRequest línea de una transacción en el request.
type TransactionItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price,omitempty"`
	Location  string          `json:"location,omitempty"`
}

// CreateTransactionRequest body para POST /api/transactions/{receipt|delivery|transfer|adjustment}.
// El tipo lo fija la ruta; los endpoints requeridos dependen del tipo.
type CreateTransactionRequest struct {
	FromWarehouse string                   `json:"from_warehouse,omitempty"`
	ToWarehouse   string                   `json:"to_warehouse,omitempty"`
	Counterparty  string                   `json:"counterparty,omitempty"` // proveedor o cliente
	Items         []TransactionItemRequest `json:"items"`
	Notes         string                   `json:"notes,omitempty"`
	Reason        string                   `json:"reason,omitempty"` // solo adjustment
}

// TransactionItemResponse línea de una transacción en respuestas.
type TransactionItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Location  string          `json:"location,omitempty"`
}

// TransactionResponse representación HTTP de una transacción.
type TransactionResponse struct {
	ID            string                    `json:"id"`
	Type          string                    `json:"type"`
	Reference     string                    `json:"reference"`
	Status        string                    `json:"status"`
	FromWarehouse string                    `json:"from_warehouse,omitempty"`
	ToWarehouse   string                    `json:"to_warehouse,omitempty"`
	Counterparty  string                    `json:"counterparty,omitempty"`
	Items         []TransactionItemResponse `json:"items"`
	Notes         string                    `json:"notes,omitempty"`
	CreatedBy     string                    `json:"created_by"`
	CreatedAt     time.Time                 `json:"created_at"`
	CompletedAt   *time.Time                `json:"completed_at,omitempty"`
}

// TransactionListResponse listado paginado de transacciones.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
