package entity

import "time"

// Warehouse representa una bodega o punto de almacenamiento (multi-bodega).
type Warehouse struct {
	ID        string
	Code      string // código único, mayúsculas
	Name      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
