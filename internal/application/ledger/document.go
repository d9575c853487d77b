package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/AQIB050506/stockmaster/internal/domain"
	"github.com/AQIB050506/stockmaster/internal/domain/entity"
)

// DocumentLine línea de un comprobante de movimiento con el producto resuelto.
type DocumentLine struct {
	ProductName   string
	SKU           string
	UnitOfMeasure string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
}

// DocumentGenerator genera el comprobante PDF de un movimiento (recepción,
// entrega, traslado o ajuste). La implementación maroto vive en infrastructure/pdf.
type DocumentGenerator interface {
	GenerateMovementPDF(
		ctx context.Context,
		transaction *entity.Transaction,
		from, to *entity.Warehouse,
		lines []DocumentLine,
	) ([]byte, error)
}

// WithDocumentGenerator fija el generador de comprobantes.
func (uc *TransactionUseCase) WithDocumentGenerator(gen DocumentGenerator) *TransactionUseCase {
	uc.docs = gen
	return uc
}

// MovementDocument genera el comprobante PDF de una transacción, resolviendo
// productos y bodegas para el encabezado y las líneas.
func (uc *TransactionUseCase) MovementDocument(ctx context.Context, id string) ([]byte, error) {
	if uc.docs == nil {
		return nil, domain.ErrNotFound
	}
	transaction, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var from, to *entity.Warehouse
	if transaction.FromWarehouse != "" {
		if from, err = uc.warehouseRepo.GetByID(ctx, transaction.FromWarehouse); err != nil {
			return nil, err
		}
	}
	if transaction.ToWarehouse != "" {
		if to, err = uc.warehouseRepo.GetByID(ctx, transaction.ToWarehouse); err != nil {
			return nil, err
		}
	}

	lines := make([]DocumentLine, 0, len(transaction.Items))
	for _, item := range transaction.Items {
		line := DocumentLine{Quantity: item.Quantity, UnitPrice: item.UnitPrice}
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product != nil {
			line.ProductName = product.Name
			line.SKU = product.SKU
			line.UnitOfMeasure = product.UnitOfMeasure
		} else {
			line.ProductName = item.ProductID
		}
		lines = append(lines, line)
	}

	return uc.docs.GenerateMovementPDF(ctx, transaction, from, to, lines)
}
