// Package ledger implementa el motor de transacciones de inventario: la máquina
// de estados del ciclo de vida y la aplicación de mutaciones de stock por tipo
// al completar (receipt, delivery, transfer, adjustment).
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AQIB050506/stockmaster/internal/application/dto"
	"github.com/AQIB050506/stockmaster/internal/domain"
	"github.com/AQIB050506/stockmaster/internal/domain/entity"
	"github.com/AQIB050506/stockmaster/internal/domain/repository"
	"github.com/AQIB050506/stockmaster/pkg/logger"
)

// Intentos de insert ante colisión de referencia (sufijo aleatorio de 3 dígitos).
const referenceInsertAttempts = 3

// TransactionUseCase gobierna el ciclo de vida de las transacciones de
// inventario y dispara la mutación de stock al completar.
//
// La mutación por línea es un incremento atómico por (producto, bodega) contra
// el almacén; las líneas de una misma transacción se aplican de forma
// independiente y NO se revierten si una línea posterior falla. La mutación y la
// escritura de estado tampoco comparten una unidad atómica: un fallo de
// persistencia entre ambas deja estado parcial que se registra para reparación
// manual.
type TransactionUseCase struct {
	txRunner      TxRunner
	txRepo        repository.TransactionRepository
	stockRepo     repository.StockRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	notifier      Notifier
	docs          DocumentGenerator
	log           *logger.Logger
}

// NewTransactionUseCase construye el caso de uso.
func NewTransactionUseCase(
	txRunner TxRunner,
	txRepo repository.TransactionRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	notifier Notifier,
	log *logger.Logger,
) *TransactionUseCase {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &TransactionUseCase{
		txRunner:      txRunner,
		txRepo:        txRepo,
		stockRepo:     stockRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		notifier:      notifier,
		log:           log,
	}
}

// Create valida el request, ejecuta la verificación de disponibilidad (solo
// delivery/transfer, consultiva) y persiste la transacción en estado draft.
// La verificación y el insert corren en una misma transacción de BD, pero la
// disponibilidad NO se revalida al completar: existe una ventana de carrera
// documentada entre creación y completado.
func (uc *TransactionUseCase) Create(
	ctx context.Context,
	txType string,
	in dto.CreateTransactionRequest,
	actorID string,
) (*entity.Transaction, error) {
	if err := validateCreate(txType, in); err != nil {
		return nil, err
	}
	if err := uc.resolveEndpoints(ctx, txType, in); err != nil {
		return nil, err
	}
	if err := uc.resolveProducts(ctx, in.Items); err != nil {
		return nil, err
	}

	notes := in.Notes
	if txType == entity.TransactionTypeAdjustment && in.Reason != "" {
		notes = fmt.Sprintf("Stock adjustment: %s", in.Reason)
	}

	now := time.Now()
	transaction := &entity.Transaction{
		ID:            uuid.New().String(),
		Type:          txType,
		Reference:     NewReference(txType),
		Status:        entity.TransactionStatusDraft,
		FromWarehouse: in.FromWarehouse,
		ToWarehouse:   in.ToWarehouse,
		Counterparty:  in.Counterparty,
		Items:         toEntityItems(in.Items),
		Notes:         notes,
		CreatedBy:     actorID,
		CreatedAt:     now,
	}

	err := uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
	) error {
		if txType == entity.TransactionTypeDelivery || txType == entity.TransactionTypeTransfer {
			if err := checkAvailability(ctx, stockRepo, in.FromWarehouse, transaction.Items); err != nil {
				return err
			}
		}
		return createWithReferenceRetry(ctx, txRepo, transaction)
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// Complete aplica la mutación de stock según el tipo sobre cada línea, marca la
// transacción como completada y emite la notificación de cambio de stock.
func (uc *TransactionUseCase) Complete(ctx context.Context, id string) (*entity.Transaction, error) {
	transaction, err := uc.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, domain.ErrNotFound
	}
	if transaction.IsTerminal() {
		return nil, domain.ErrInvalidState
	}

	if err := uc.applyMutations(ctx, transaction); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := uc.txRepo.MarkCompleted(ctx, id, now); err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			// Otro completado ganó la carrera después de nuestra mutación:
			// estado parcial (stock aplicado dos veces), requiere reparación.
			uc.log.Error().
				Str("transaction_id", id).
				Msg("completado concurrente detectado tras aplicar stock")
			return nil, err
		}
		uc.log.Error().Err(err).
			Str("transaction_id", id).
			Int("applied_lines", len(transaction.Items)).
			Msg("stock aplicado pero la escritura de estado falló; requiere reparación manual")
		return nil, fmt.Errorf("marcar transacción completada: %w", err)
	}

	transaction.Status = entity.TransactionStatusCompleted
	transaction.CompletedAt = &now

	uc.notifier.NotifyStockChanged(ctx, StockChangedEvent{
		TransactionID: transaction.ID,
		Type:          transaction.Type,
		Warehouses:    transaction.AffectedWarehouses(),
	})

	return transaction, nil
}

// Cancel marca la transacción como cancelada. Nunca toca stock: una transacción
// no completada jamás mutó cantidades. Idempotente mientras no esté completada.
func (uc *TransactionUseCase) Cancel(ctx context.Context, id string) (*entity.Transaction, error) {
	transaction, err := uc.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, domain.ErrNotFound
	}
	if transaction.Status == entity.TransactionStatusCompleted {
		return nil, domain.ErrInvalidState
	}

	if err := uc.txRepo.MarkCancelled(ctx, id); err != nil {
		return nil, err
	}
	transaction.Status = entity.TransactionStatusCancelled
	return transaction, nil
}

// GetByID obtiene una transacción por ID.
func (uc *TransactionUseCase) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	transaction, err := uc.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, domain.ErrNotFound
	}
	return transaction, nil
}

// List lista transacciones con filtros de tipo, estado y bodega.
func (uc *TransactionUseCase) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, int, error) {
	return uc.txRepo.List(ctx, filter)
}

// applyMutations ejecuta la tabla de mutaciones del tipo sobre cada línea.
// Cada delta es un upsert-con-incremento atómico; no hay rollback de líneas ya
// aplicadas si una posterior falla (limitación documentada), así que el error
// se registra con el índice de la línea para soportar reparación manual.
func (uc *TransactionUseCase) applyMutations(ctx context.Context, t *entity.Transaction) error {
	for i, item := range t.Items {
		var err error
		switch t.Type {
		case entity.TransactionTypeReceipt:
			err = uc.stockRepo.ApplyDelta(ctx, item.ProductID, t.ToWarehouse, item.Quantity)
		case entity.TransactionTypeDelivery:
			err = uc.stockRepo.ApplyDelta(ctx, item.ProductID, t.FromWarehouse, item.Quantity.Neg())
		case entity.TransactionTypeTransfer:
			err = uc.stockRepo.ApplyDelta(ctx, item.ProductID, t.FromWarehouse, item.Quantity.Neg())
			if err == nil {
				err = uc.stockRepo.ApplyDelta(ctx, item.ProductID, t.ToWarehouse, item.Quantity)
			}
		case entity.TransactionTypeAdjustment:
			// La cantidad lleva signo: el caller codifica la dirección.
			err = uc.stockRepo.ApplyDelta(ctx, item.ProductID, t.FromWarehouse, item.Quantity)
		default:
			err = domain.ErrInvalidInput
		}
		if err != nil {
			uc.log.Error().Err(err).
				Str("transaction_id", t.ID).
				Str("type", t.Type).
				Int("failed_line", i).
				Int("applied_lines", i).
				Msg("mutación de stock falló a mitad de transacción; líneas previas no revertidas")
			return fmt.Errorf("aplicar línea %d de la transacción %s: %w", i, t.ID, err)
		}
	}
	return nil
}

// resolveEndpoints valida que las bodegas requeridas por el tipo existan.
func (uc *TransactionUseCase) resolveEndpoints(ctx context.Context, txType string, in dto.CreateTransactionRequest) error {
	check := func(id string) error {
		wh, err := uc.warehouseRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrNotFound
		}
		return nil
	}
	if in.FromWarehouse != "" {
		if err := check(in.FromWarehouse); err != nil {
			return err
		}
	}
	if in.ToWarehouse != "" {
		if err := check(in.ToWarehouse); err != nil {
			return err
		}
	}
	return nil
}

// resolveProducts valida que todos los productos referenciados existan.
func (uc *TransactionUseCase) resolveProducts(ctx context.Context, items []dto.TransactionItemRequest) error {
	for _, item := range items {
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

// checkAvailability verifica disponible = cantidad − reservada en la bodega
// origen para cada línea (0 si no existe registro). Consultiva: no se repite al
// completar.
func checkAvailability(
	ctx context.Context,
	stockRepo repository.StockRepository,
	fromWarehouse string,
	items []entity.TransactionItem,
) error {
	for _, item := range items {
		stock, err := stockRepo.Get(ctx, item.ProductID, fromWarehouse)
		if err != nil {
			return err
		}
		available := decimal.Zero
		if stock != nil {
			available = stock.AvailableQuantity()
		}
		if available.LessThan(item.Quantity) {
			return domain.ErrInsufficientStock
		}
	}
	return nil
}

// createWithReferenceRetry inserta la transacción regenerando la referencia si
// el constraint único la rechaza (la unicidad del generador es probabilística).
func createWithReferenceRetry(ctx context.Context, txRepo repository.TransactionRepository, t *entity.Transaction) error {
	var err error
	for attempt := 0; attempt < referenceInsertAttempts; attempt++ {
		err = txRepo.Create(ctx, t)
		if !errors.Is(err, domain.ErrDuplicate) {
			return err
		}
		t.Reference = NewReference(t.Type)
	}
	return err
}

func validateCreate(txType string, in dto.CreateTransactionRequest) error {
	if len(in.Items) == 0 {
		return domain.ErrInvalidInput
	}

	one := decimal.NewFromInt(1)
	for _, item := range in.Items {
		if item.ProductID == "" {
			return domain.ErrInvalidInput
		}
		if item.UnitPrice.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		if txType == entity.TransactionTypeAdjustment {
			// Ajustes con signo: solo se rechaza la cantidad cero.
			if item.Quantity.IsZero() {
				return domain.ErrInvalidInput
			}
		} else if item.Quantity.LessThan(one) {
			return domain.ErrInvalidInput
		}
	}

	switch txType {
	case entity.TransactionTypeReceipt:
		if in.ToWarehouse == "" {
			return domain.ErrInvalidInput
		}
	case entity.TransactionTypeDelivery:
		if in.FromWarehouse == "" {
			return domain.ErrInvalidInput
		}
	case entity.TransactionTypeTransfer:
		if in.FromWarehouse == "" || in.ToWarehouse == "" || in.FromWarehouse == in.ToWarehouse {
			return domain.ErrInvalidInput
		}
	case entity.TransactionTypeAdjustment:
		if in.FromWarehouse == "" {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

func toEntityItems(items []dto.TransactionItemRequest) []entity.TransactionItem {
	out := make([]entity.TransactionItem, 0, len(items))
	for _, item := range items {
		out = append(out, entity.TransactionItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Location:  item.Location,
		})
	}
	return out
}
