package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de inventario.
const (
	TransactionTypeReceipt    = "receipt"    // entrada de mercancía
	TransactionTypeDelivery   = "delivery"   // salida a cliente
	TransactionTypeTransfer   = "transfer"   // traslado entre bodegas
	TransactionTypeAdjustment = "adjustment" // corrección manual (cantidad con signo)
)

// Estados del ciclo de vida de una transacción.
// draft → waiting → ready → completed (terminal); cualquier estado no terminal → cancelled.
const (
	TransactionStatusDraft     = "draft"
	TransactionStatusWaiting   = "waiting"
	TransactionStatusReady     = "ready"
	TransactionStatusCompleted = "completed"
	TransactionStatusCancelled = "cancelled"
)

// TransactionItem es una línea de una transacción: producto, cantidad y precio.
// Para adjustment la cantidad lleva signo (el caller codifica la dirección).
type TransactionItem struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Location  string // nota de ubicación, opcional
}

// Transaction representa un movimiento previsto o realizado de productos.
// Inmutable una vez completada o cancelada; la referencia es inmutable desde
// su asignación.
type Transaction struct {
	ID            string
	Type          string
	Reference     string // <PREFIJO>-<timestamp>-<aleatorio>, única
	Status        string
	FromWarehouse string // requerida para delivery/transfer/adjustment
	ToWarehouse   string // requerida para receipt/transfer
	Counterparty  string // proveedor o cliente, texto libre
	Items         []TransactionItem
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
	CompletedAt   *time.Time // solo al completar
}

// IsTerminal indica si la transacción ya no admite transiciones.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusCompleted || t.Status == TransactionStatusCancelled
}

// TotalQuantity suma las cantidades de todas las líneas.
func (t *Transaction) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range t.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// AffectedWarehouses devuelve las bodegas tocadas por el movimiento (sin vacías).
func (t *Transaction) AffectedWarehouses() []string {
	var out []string
	if t.FromWarehouse != "" {
		out = append(out, t.FromWarehouse)
	}
	if t.ToWarehouse != "" {
		out = append(out, t.ToWarehouse)
	}
	return out
}
