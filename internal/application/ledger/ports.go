package ledger

import (
	"context"

	"github.com/AQIB050506/stockmaster/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Se usa en la creación para que la verificación
// de disponibilidad y el insert de la transacción viajen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
	) error) error
}

// StockChangedEvent evento emitido al completar una transacción, nombrando las
// bodegas afectadas. Entrega fire-and-forget: sin garantía de orden ni entrega.
type StockChangedEvent struct {
	TransactionID string   `json:"transaction_id"`
	Type          string   `json:"type"`
	Warehouses    []string `json:"warehouses"`
}

// Notifier publica eventos de cambio de stock hacia los suscriptores externos.
// Las implementaciones no deben propagar errores al camino de completado.
type Notifier interface {
	NotifyStockChanged(ctx context.Context, event StockChangedEvent)
}

// NoopNotifier descarta los eventos (tests y entornos sin broker).
type NoopNotifier struct{}

func (NoopNotifier) NotifyStockChanged(_ context.Context, _ StockChangedEvent) {}
