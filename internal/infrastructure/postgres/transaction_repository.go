package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/AQIB050506/stockmaster/internal/domain"
	"github.com/AQIB050506/stockmaster/internal/domain/entity"
	"github.com/AQIB050506/stockmaster/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación sobre PostgreSQL (usable con pool o tx).
// Las líneas se guardan como JSONB en la misma fila: se leen y escriben siempre
// junto con la transacción y nunca se consultan sueltas.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// itemRow forma JSONB de una línea.
type itemRow struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Location  string          `json:"location,omitempty"`
}

const transactionColumns = `id, type, reference, status, from_warehouse, to_warehouse, counterparty, items, notes, created_by, created_at, completed_at`

// Create persiste una nueva transacción. Devuelve domain.ErrDuplicate si la
// referencia ya existe, para que el caller regenere y reintente.
func (r *TransactionRepo) Create(ctx context.Context, transaction *entity.Transaction) error {
	items, err := marshalItems(transaction.Items)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.q.Exec(ctx, query,
		transaction.ID, transaction.Type, transaction.Reference, transaction.Status,
		nullable(transaction.FromWarehouse), nullable(transaction.ToWarehouse),
		transaction.Counterparty, items, transaction.Notes,
		nullable(transaction.CreatedBy), transaction.CreatedAt, transaction.CompletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una transacción por ID, con sus líneas.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	t, err := scanTransaction(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// List lista transacciones filtradas, más recientes primero, con el total sin paginar.
func (r *TransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	if filter.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.WarehouseID != "" {
		where += fmt.Sprintf(" AND (from_warehouse = $%d OR to_warehouse = $%d)", pos, pos)
		args = append(args, filter.WarehouseID)
		pos++
	}

	var total int
	if err := r.q.QueryRow(ctx, "SELECT count(*) FROM transactions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	list, err := scanTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, rows.Err()
}

// MarkCompleted fija status=completed y completed_at sobre una fila no terminal.
// Si la fila ya era terminal (o no existe) no afecta nada y devuelve ErrInvalidState.
func (r *TransactionRepo) MarkCompleted(ctx context.Context, id string, completedAt time.Time) error {
	query := `
		UPDATE transactions SET status = $2, completed_at = $3
		WHERE id = $1 AND status NOT IN ($4, $5)`
	tag, err := r.q.Exec(ctx, query, id,
		entity.TransactionStatusCompleted, completedAt,
		entity.TransactionStatusCompleted, entity.TransactionStatusCancelled,
	)
	if err != nil {
		return fmt.Errorf("mark transaction completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// MarkCancelled fija status=cancelled sobre una fila no completada.
func (r *TransactionRepo) MarkCancelled(ctx context.Context, id string) error {
	query := `
		UPDATE transactions SET status = $2
		WHERE id = $1 AND status <> $3`
	tag, err := r.q.Exec(ctx, query, id,
		entity.TransactionStatusCancelled, entity.TransactionStatusCompleted,
	)
	if err != nil {
		return fmt.Errorf("mark transaction cancelled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// ListCompletedDeliveries devuelve las entregas completadas más recientes de una
// bodega origen (hasta limit), reordenadas por completed_at ascendente.
func (r *TransactionRepo) ListCompletedDeliveries(ctx context.Context, warehouseID string, limit int) ([]*entity.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + ` FROM (
			SELECT ` + transactionColumns + `
			FROM transactions
			WHERE type = $1 AND status = $2 AND from_warehouse = $3
			ORDER BY completed_at DESC
			LIMIT $4
		) recent
		ORDER BY completed_at ASC`
	rows, err := r.q.Query(ctx, query,
		entity.TransactionTypeDelivery, entity.TransactionStatusCompleted, warehouseID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list completed deliveries: %w", err)
	}
	defer rows.Close()

	list, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}
	return list, rows.Err()
}

func scanTransactions(rows pgx.Rows) ([]*entity.Transaction, error) {
	var list []*entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, nil
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	var fromWarehouse, toWarehouse, createdBy *string
	var items []byte
	err := row.Scan(
		&t.ID, &t.Type, &t.Reference, &t.Status, &fromWarehouse, &toWarehouse,
		&t.Counterparty, &items, &t.Notes, &createdBy, &t.CreatedAt, &t.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if fromWarehouse != nil {
		t.FromWarehouse = *fromWarehouse
	}
	if toWarehouse != nil {
		t.ToWarehouse = *toWarehouse
	}
	if createdBy != nil {
		t.CreatedBy = *createdBy
	}
	var itemRows []itemRow
	if err := json.Unmarshal(items, &itemRows); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	t.Items = make([]entity.TransactionItem, 0, len(itemRows))
	for _, it := range itemRows {
		t.Items = append(t.Items, entity.TransactionItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Location:  it.Location,
		})
	}
	return &t, nil
}

func marshalItems(items []entity.TransactionItem) ([]byte, error) {
	rows := make([]itemRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, itemRow{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Location:  item.Location,
		})
	}
	out, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal items: %w", err)
	}
	return out, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
