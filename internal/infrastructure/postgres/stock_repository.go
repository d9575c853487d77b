package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/AQIB050506/stockmaster/internal/domain"
	"github.com/AQIB050506/stockmaster/internal/domain/entity"
	"github.com/AQIB050506/stockmaster/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en una bodega. Sin registro
// devuelve el valor cero de la pareja.
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	query := `
		SELECT id, product_id, warehouse_id, quantity, reserved_quantity, location, updated_at
		FROM stock WHERE product_id = $1 AND warehouse_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&s.ID, &s.ProductID, &s.WarehouseID, &s.Quantity, &s.ReservedQuantity, &s.Location, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{
				ProductID:        productID,
				WarehouseID:      warehouseID,
				Quantity:         decimal.Zero,
				ReservedQuantity: decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// ApplyDelta incrementa la cantidad con un upsert atómico sobre la clave única
// (product_id, warehouse_id). El incremento lo resuelve la base de datos, por lo
// que deltas concurrentes sobre la misma pareja nunca se pierden.
func (r *StockRepo) ApplyDelta(ctx context.Context, productID, warehouseID string, delta decimal.Decimal) error {
	query := `
		INSERT INTO stock (id, product_id, warehouse_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, $3, $4, 0, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = stock.quantity + EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, uuid.New().String(), productID, warehouseID, delta)
	if err != nil {
		return fmt.Errorf("apply stock delta: %w", err)
	}
	return nil
}

// List lista registros de stock; productID y warehouseID vacíos no filtran.
func (r *StockRepo) List(ctx context.Context, productID, warehouseID string, limit, offset int) ([]*entity.Stock, error) {
	query := `
		SELECT id, product_id, warehouse_id, quantity, reserved_quantity, location, updated_at
		FROM stock WHERE 1=1`
	args := []any{}
	pos := 1
	if productID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, productID)
		pos++
	}
	if warehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, warehouseID)
		pos++
	}
	query += " ORDER BY product_id, warehouse_id"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, limit, offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.ID, &s.ProductID, &s.WarehouseID, &s.Quantity, &s.ReservedQuantity, &s.Location, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// UpdateLocation actualiza la nota de ubicación física de un registro de stock.
func (r *StockRepo) UpdateLocation(ctx context.Context, id, location string) error {
	query := `UPDATE stock SET location = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, location)
	if err != nil {
		return fmt.Errorf("update stock location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListLowStock devuelve los registros de productos activos en o por debajo de
// su nivel mínimo, con producto y bodega resueltos. La comparación es sobre la
// cantidad física, no la disponible: la reserva no dispara alertas.
func (r *StockRepo) ListLowStock(ctx context.Context) ([]repository.LowStockItem, error) {
	query := `
		SELECT s.id, p.id, p.name, p.sku, p.category, p.unit_of_measure, p.min_stock_level,
		       w.id, w.name, w.code, s.quantity, s.location
		FROM stock s
		JOIN products p ON p.id = s.product_id
		JOIN warehouses w ON w.id = s.warehouse_id
		WHERE p.is_active AND s.quantity <= p.min_stock_level
		ORDER BY s.quantity - p.min_stock_level, p.name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var list []repository.LowStockItem
	for rows.Next() {
		var item repository.LowStockItem
		if err := rows.Scan(
			&item.StockID, &item.ProductID, &item.ProductName, &item.SKU,
			&item.Category, &item.UnitOfMeasure, &item.MinStockLevel,
			&item.WarehouseID, &item.WarehouseName, &item.WarehouseCode,
			&item.Quantity, &item.Location,
		); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// ListForForecast devuelve el read model del pronóstico: todas las parejas de
// stock con los niveles del producto y los datos de la bodega resueltos.
func (r *StockRepo) ListForForecast(ctx context.Context) ([]repository.ForecastStockItem, error) {
	query := `
		SELECT p.id, p.name, p.sku, p.unit_of_measure, p.min_stock_level, p.max_stock_level, p.is_active,
		       w.id, w.name, w.code, s.quantity
		FROM stock s
		JOIN products p ON p.id = s.product_id
		JOIN warehouses w ON w.id = s.warehouse_id
		WHERE w.is_active
		ORDER BY p.name, w.code`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stock for forecast: %w", err)
	}
	defer rows.Close()

	var list []repository.ForecastStockItem
	for rows.Next() {
		var item repository.ForecastStockItem
		if err := rows.Scan(
			&item.ProductID, &item.ProductName, &item.SKU, &item.UnitOfMeasure,
			&item.MinStockLevel, &item.MaxStockLevel, &item.ProductActive,
			&item.WarehouseID, &item.WarehouseName, &item.WarehouseCode, &item.Quantity,
		); err != nil {
			return nil, fmt.Errorf("scan forecast item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}
