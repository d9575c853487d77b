package repository

import (
	"context"
	"time"

	"github.com/AQIB050506/stockmaster/internal/domain/entity"
)

// TransactionFilter filtros para listar transacciones.
type TransactionFilter struct {
	Type        string
	Status      string
	WarehouseID string // coincide con origen o destino
	Limit       int
	Offset      int
}

// TransactionRepository define el puerto de persistencia para transacciones.
//
// Create debe devolver domain.ErrDuplicate ante una violación del constraint
// único de la referencia, para que el caller pueda regenerarla y reintentar.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, int, error)

	// MarkCompleted fija status=completed y completedAt. Solo afecta filas en
	// estado no terminal; devuelve domain.ErrInvalidState si no aplicó.
	MarkCompleted(ctx context.Context, id string, completedAt time.Time) error

	// MarkCancelled fija status=cancelled. Solo afecta filas no completadas;
	// devuelve domain.ErrInvalidState si no aplicó.
	MarkCancelled(ctx context.Context, id string) error

	// ListCompletedDeliveries devuelve las entregas completadas más recientes
	// de una bodega origen (hasta limit), ordenadas por completedAt ascendente.
	ListCompletedDeliveries(ctx context.Context, warehouseID string, limit int) ([]*entity.Transaction, error)
}
