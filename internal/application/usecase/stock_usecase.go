package usecase

import (
	"context"

	"github.com/AQIB050506/stockmaster/internal/application/dto"
	"github.com/AQIB050506/stockmaster/internal/domain"
	"github.com/AQIB050506/stockmaster/internal/domain/entity"
	"github.com/AQIB050506/stockmaster/internal/domain/repository"
)

// StockUseCase consultas de solo lectura sobre el Stock Ledger y actualización
// de la nota de ubicación. Las cantidades solo mutan vía transacciones.
type StockUseCase struct {
	stockRepo   repository.StockRepository
	productRepo repository.ProductRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(stockRepo repository.StockRepository, productRepo repository.ProductRepository) *StockUseCase {
	return &StockUseCase{stockRepo: stockRepo, productRepo: productRepo}
}

// List lista registros de stock; productID y warehouseID vacíos no filtran.
// Leer nunca muta: lecturas repetidas entre transacciones devuelven lo mismo.
func (uc *StockUseCase) List(ctx context.Context, productID, warehouseID string, limit, offset int) (*dto.StockListResponse, error) {
	list, err := uc.stockRepo.List(ctx, productID, warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toStockResponse(s))
	}
	return &dto.StockListResponse{Count: len(items), Items: items}, nil
}

// GetProductStock devuelve el stock de un producto en todas las bodegas.
func (uc *StockUseCase) GetProductStock(ctx context.Context, productID string) (*dto.StockListResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.List(ctx, productID, "", 0, 0)
}

// LowStockAlerts devuelve los registros de productos activos en o por debajo
// de su nivel mínimo. Es una foto del estado actual del ledger, sin caché ni
// supresión: complementa al pronóstico, que proyecta demanda futura.
func (uc *StockUseCase) LowStockAlerts(ctx context.Context) (*dto.StockAlertListResponse, error) {
	rows, err := uc.stockRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockAlertResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.StockAlertResponse{
			StockID:       r.StockID,
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			SKU:           r.SKU,
			Category:      r.Category,
			UnitOfMeasure: r.UnitOfMeasure,
			MinStockLevel: r.MinStockLevel,
			WarehouseID:   r.WarehouseID,
			WarehouseName: r.WarehouseName,
			WarehouseCode: r.WarehouseCode,
			Quantity:      r.Quantity,
			Location:      r.Location,
		})
	}
	return &dto.StockAlertListResponse{Count: len(items), Items: items}, nil
}

// UpdateLocation actualiza la nota de ubicación física de un registro de stock.
func (uc *StockUseCase) UpdateLocation(ctx context.Context, stockID, location string) error {
	return uc.stockRepo.UpdateLocation(ctx, stockID, location)
}

func toStockResponse(s *entity.Stock) dto.StockResponse {
	return dto.StockResponse{
		ID:                s.ID,
		ProductID:         s.ProductID,
		WarehouseID:       s.WarehouseID,
		Quantity:          s.Quantity,
		ReservedQuantity:  s.ReservedQuantity,
		AvailableQuantity: s.AvailableQuantity(),
		Location:          s.Location,
		UpdatedAt:         s.UpdatedAt,
	}
}
