package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la cantidad actual de un producto en una bodega.
// La pareja (ProductID, WarehouseID) es única; el registro se crea de forma
// perezosa en la primera mutación y nunca se elimina, solo se lleva a cero.
//
// Quantity puede quedar negativa si transacciones concurrentes agotan el stock
// entre la verificación de disponibilidad y la aplicación del movimiento
// (carrera documentada); no se corrige automáticamente.
type Stock struct {
	ID               string
	ProductID        string
	WarehouseID      string
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	Location         string // nota de ubicación física dentro de la bodega
	UpdatedAt        time.Time
}

// AvailableQuantity devuelve la cantidad disponible (Quantity − ReservedQuantity).
// Puede ser negativa si las reservas superan la cantidad en mano.
func (s *Stock) AvailableQuantity() decimal.Decimal {
	return s.Quantity.Sub(s.ReservedQuantity)
}
