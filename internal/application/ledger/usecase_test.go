package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AQIB050506/stockmaster/internal/application/dto"
	"github.com/AQIB050506/stockmaster/internal/application/ledger"
	"github.com/AQIB050506/stockmaster/internal/domain"
	"github.com/AQIB050506/stockmaster/internal/domain/entity"
	"github.com/AQIB050506/stockmaster/internal/domain/repository"
	"github.com/AQIB050506/stockmaster/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	mu       sync.Mutex
	qty      map[string]decimal.Decimal
	reserved map[string]decimal.Decimal
	deltas   int // llamadas a ApplyDelta
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{
		qty:      make(map[string]decimal.Decimal),
		reserved: make(map[string]decimal.Decimal),
	}
}

func stockKey(productID, warehouseID string) string { return productID + "|" + warehouseID }

func (r *fakeStockRepo) set(productID, warehouseID string, qty int64) {
	r.qty[stockKey(productID, warehouseID)] = decimal.NewFromInt(qty)
}

func (r *fakeStockRepo) quantity(productID, warehouseID string) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.qty[stockKey(productID, warehouseID)]
}

func (r *fakeStockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := stockKey(productID, warehouseID)
	return &entity.Stock{
		ProductID:        productID,
		WarehouseID:      warehouseID,
		Quantity:         r.qty[key],
		ReservedQuantity: r.reserved[key],
	}, nil
}

func (r *fakeStockRepo) ApplyDelta(_ context.Context, productID, warehouseID string, delta decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := stockKey(productID, warehouseID)
	r.qty[key] = r.qty[key].Add(delta)
	r.deltas++
	return nil
}

func (r *fakeStockRepo) List(context.Context, string, string, int, int) ([]*entity.Stock, error) {
	return nil, nil
}

func (r *fakeStockRepo) UpdateLocation(context.Context, string, string) error { return nil }

func (r *fakeStockRepo) ListLowStock(context.Context) ([]repository.LowStockItem, error) {
	return nil, nil
}

func (r *fakeStockRepo) ListForForecast(context.Context) ([]repository.ForecastStockItem, error) {
	return nil, nil
}

type fakeTxRepo struct {
	mu           sync.Mutex
	byID         map[string]*entity.Transaction
	refs         map[string]bool
	dupRemaining int // fuerza ErrDuplicate en los próximos N Create
	createCalls  int
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{byID: make(map[string]*entity.Transaction), refs: make(map[string]bool)}
}

func (r *fakeTxRepo) Create(_ context.Context, t *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.dupRemaining > 0 {
		r.dupRemaining--
		return domain.ErrDuplicate
	}
	if r.refs[t.Reference] {
		return domain.ErrDuplicate
	}
	clone := *t
	r.byID[t.ID] = &clone
	r.refs[t.Reference] = true
	return nil
}

func (r *fakeTxRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTxRepo) List(_ context.Context, _ repository.TransactionFilter) ([]*entity.Transaction, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Transaction
	for _, t := range r.byID {
		clone := *t
		list = append(list, &clone)
	}
	return list, len(list), nil
}

func (r *fakeTxRepo) MarkCompleted(_ context.Context, id string, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok || t.IsTerminal() {
		return domain.ErrInvalidState
	}
	t.Status = entity.TransactionStatusCompleted
	t.CompletedAt = &completedAt
	return nil
}

func (r *fakeTxRepo) MarkCancelled(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok || t.Status == entity.TransactionStatusCompleted {
		return domain.ErrInvalidState
	}
	t.Status = entity.TransactionStatusCancelled
	return nil
}

func (r *fakeTxRepo) ListCompletedDeliveries(context.Context, string, int) ([]*entity.Transaction, error) {
	return nil, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(context.Context, *entity.Product) error { return nil }
func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductRepo) GetBySKU(context.Context, string) (*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) List(context.Context, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Update(context.Context, *entity.Product) error { return nil }

type fakeWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

func (r *fakeWarehouseRepo) Create(context.Context, *entity.Warehouse) error { return nil }
func (r *fakeWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}
func (r *fakeWarehouseRepo) GetByCode(context.Context, string) (*entity.Warehouse, error) {
	return nil, nil
}
func (r *fakeWarehouseRepo) List(context.Context, int, int) ([]*entity.Warehouse, error) {
	return nil, nil
}
func (r *fakeWarehouseRepo) Update(context.Context, *entity.Warehouse) error { return nil }

// fakeTxRunner pasa los mismos repos del caso de uso: no hay atomicidad real en
// los tests, solo la misma composición.
type fakeTxRunner struct {
	txRepo    repository.TransactionRepository
	stockRepo repository.StockRepository
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	txRepo repository.TransactionRepository,
	stockRepo repository.StockRepository,
) error) error {
	return fn(r.txRepo, r.stockRepo)
}

type recordingNotifier struct {
	events []ledger.StockChangedEvent
}

func (n *recordingNotifier) NotifyStockChanged(_ context.Context, event ledger.StockChangedEvent) {
	n.events = append(n.events, event)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	productA   = "prod-a"
	productB   = "prod-b"
	warehouse1 = "wh-1"
	warehouse2 = "wh-2"
)

type fixture struct {
	uc       *ledger.TransactionUseCase
	stock    *fakeStockRepo
	txRepo   *fakeTxRepo
	notifier *recordingNotifier
}

func newFixture() *fixture {
	stock := newFakeStockRepo()
	txRepo := newFakeTxRepo()
	notifier := &recordingNotifier{}
	productRepo := &fakeProductRepo{products: map[string]*entity.Product{
		productA: {ID: productA, SKU: "SKU-A", Name: "Producto A"},
		productB: {ID: productB, SKU: "SKU-B", Name: "Producto B"},
	}}
	warehouseRepo := &fakeWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		warehouse1: {ID: warehouse1, Code: "W1", Name: "Bodega 1"},
		warehouse2: {ID: warehouse2, Code: "W2", Name: "Bodega 2"},
	}}
	runner := &fakeTxRunner{txRepo: txRepo, stockRepo: stock}
	uc := ledger.NewTransactionUseCase(runner, txRepo, stock, productRepo, warehouseRepo, notifier, logger.Nop())
	return &fixture{uc: uc, stock: stock, txRepo: txRepo, notifier: notifier}
}

func items(productID string, qty int64) []dto.TransactionItemRequest {
	return []dto.TransactionItemRequest{
		{ProductID: productID, Quantity: decimal.NewFromInt(qty)},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ReceiptEnDraft(t *testing.T) {
	f := newFixture()

	tx, err := f.uc.Create(context.Background(), entity.TransactionTypeReceipt,
		dto.CreateTransactionRequest{ToWarehouse: warehouse1, Items: items(productA, 50)}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, entity.TransactionStatusDraft, tx.Status, "toda transacción nace en draft")
	assert.Equal(t, "REC", tx.Reference[:3])
	assert.Equal(t, "user-1", tx.CreatedBy)
	assert.True(t, f.stock.quantity(productA, warehouse1).IsZero(),
		"crear nunca muta stock")
}

func TestCreate_ValidacionPorTipo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := []struct {
		name   string
		txType string
		in     dto.CreateTransactionRequest
	}{
		{"sin líneas", entity.TransactionTypeReceipt,
			dto.CreateTransactionRequest{ToWarehouse: warehouse1}},
		{"receipt sin destino", entity.TransactionTypeReceipt,
			dto.CreateTransactionRequest{Items: items(productA, 5)}},
		{"delivery sin origen", entity.TransactionTypeDelivery,
			dto.CreateTransactionRequest{Items: items(productA, 5)}},
		{"transfer mismo origen y destino", entity.TransactionTypeTransfer,
			dto.CreateTransactionRequest{FromWarehouse: warehouse1, ToWarehouse: warehouse1, Items: items(productA, 5)}},
		{"cantidad cero", entity.TransactionTypeReceipt,
			dto.CreateTransactionRequest{ToWarehouse: warehouse1, Items: items(productA, 0)}},
		{"cantidad negativa en receipt", entity.TransactionTypeReceipt,
			dto.CreateTransactionRequest{ToWarehouse: warehouse1, Items: items(productA, -5)}},
		{"ajuste con cantidad cero", entity.TransactionTypeAdjustment,
			dto.CreateTransactionRequest{FromWarehouse: warehouse1, Items: items(productA, 0)}},
		{"tipo desconocido", "inventory_count",
			dto.CreateTransactionRequest{FromWarehouse: warehouse1, Items: items(productA, 5)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(ctx, tc.txType, tc.in, "user-1")
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreate_AjusteNegativoPermitido(t *testing.T) {
	f := newFixture()

	tx, err := f.uc.Create(context.Background(), entity.TransactionTypeAdjustment,
		dto.CreateTransactionRequest{FromWarehouse: warehouse1, Items: items(productA, -10), Reason: "conteo físico"},
		"user-1")
	require.NoError(t, err, "los ajustes llevan cantidad con signo")
	assert.Equal(t, "Stock adjustment: conteo físico", tx.Notes)
}

func TestCreate_BodegaInexistente(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Create(context.Background(), entity.TransactionTypeReceipt,
		dto.CreateTransactionRequest{ToWarehouse: "wh-ghost", Items: items(productA, 5)}, "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_ProductoInexistente(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Create(context.Background(), entity.TransactionTypeReceipt,
		dto.CreateTransactionRequest{ToWarehouse: warehouse1, Items: items("prod-ghost", 5)}, "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_DeliverySinDisponibilidad(t *testing.T) {
	f := newFixture()
	f.stock.set(productA, warehouse1, 10)

	_, err := f.uc.Create(context.Background(), entity.TransactionTypeDelivery,
		dto.CreateTransactionRequest{FromWarehouse: warehouse1, Items: items(productA, 30)}, "user-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Zero(t, f.txRepo.createCalls, "la transacción rechazada no se persiste")
}

func TestCreate_DisponibilidadDescuentaReservas(t *testing.T) {
	f := newFixture()
	f.stock.set(productA, warehouse1, 100)
	f.stock.reserved[stockKey(productA, warehouse1)] = decimal.NewFromInt(95)

	_, err := f.uc.Create(context.Background(), entity.TransactionTypeDelivery,
		dto.CreateTransactionRequest{FromWarehouse: warehouse1, Items: items(productA, 10)}, "user-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"disponible = cantidad − reservada")
}

func TestCreate_ReintentaReferenciaDuplicada(t *testing.T) {
	f := newFixture()
	f.txRepo.dupRemaining = 2

	tx, err := f.uc.Create(context.Background(), entity.TransactionTypeReceipt,
		dto.CreateTransactionRequest{ToWarehouse: warehouse1, Items: items(productA, 5)}, "user-1")
	require.NoError(t, err, "dos colisiones de referencia se absorben reintentando")
	assert.Equal(t, 3, f.txRepo.createCalls)
	assert.NotNil(t, f.txRepo.byID[tx.ID])
}

func TestCreate_AgotaReintentosDeReferencia(t *testing.T) {
	f := newFixture()
	f.txRepo.dupRemaining = 3

	_, err := f.uc.Create(context.Background(), entity.TransactionTypeReceipt,
		dto.CreateTransactionRequest{ToWarehouse: warehouse1, Items: items(productA, 5)}, "user-1")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, 3, f.txRepo.createCalls, "tres intentos y se rinde")
}

// ──────────────────────────────────────────────────────────────────────────────
// Complete: tabla de mutaciones
// ──────────────────────────────────────────────────────────────────────────────

func (f *fixture) createAndGet(t *testing.T, txType string, in dto.CreateTransactionRequest) *entity.Transaction {
	t.Helper()
	tx, err := f.uc.Create(context.Background(), txType, in, "user-1")
	require.NoError(t, err)
	return tx
}

func TestComplete_ReceiptSumaEnDestino(t *testing.T) {
	f := newFixture()
	f.stock.set(productA, warehouse1, 100)
	tx := f.createAndGet(t, entity.TransactionTypeReceipt,
		dto.CreateTransactionRequest{ToWarehouse: warehouse1, Items: items(productA, 50)})

	completed, err := f.uc.Complete(context.Background(), tx.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.TransactionStatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)
	assert.True(t, f.stock.quantity(productA, warehouse1).Equal(decimal.NewFromInt(150)),
		"receipt de 50 sobre 100 debe dejar 150")
}

func TestComplete_DeliveryRestaEnOrigen(t *testing.T) {
	f := newFixture()
	f.stock.set(productA, warehouse1, 150)
	tx := f.createAndGet(t, entity.TransactionTypeDelivery,
		dto.CreateTransactionRequest{FromWarehouse: warehouse1, Items: items(productA, 30)})

	_, err := f.uc.Complete(context.Background(), tx.ID)
	require.NoError(t, err)

	assert.True(t, f.stock.quantity(productA, warehouse1).Equal(decimal.NewFromInt(120)),
		"delivery de 30 sobre 150 debe dejar 120")
}

func TestComplete_TransferMueveEntreBodegas(t *testing.T) {
	f := newFixture()
	f.stock.set(productA, warehouse1, 100)
	f.stock.set(productA, warehouse2, 20)
	tx := f.createAndGet(t, entity.TransactionTypeTransfer,
		dto.CreateTransactionRequest{FromWarehouse: warehouse1, ToWarehouse: warehouse2, Items: items(productA, 40)})

	_, err := f.uc.Complete(context.Background(), tx.ID)
	require.NoError(t, err)

	assert.True(t, f.stock.quantity(productA, warehouse1).Equal(decimal.NewFromInt(60)))
	assert.True(t, f.stock.quantity(productA, warehouse2).Equal(decimal.NewFromInt(60)))
}

func TestComplete_AjusteAplicaSigno(t *testing.T) {
	f := newFixture()
	f.stock.set(productA, warehouse1, 50)
	tx := f.createAndGet(t, entity.TransactionTypeAdjustment,
		dto.CreateTransactionRequest{FromWarehouse: warehouse1, Items: items(productA, -8), Reason: "merma"})

	_, err := f.uc.Complete(context.Background(), tx.ID)
	require.NoError(t, err)

	assert.True(t, f.stock.quantity(productA, warehouse1).Equal(decimal.NewFromInt(42)),
		"el ajuste negativo resta directamente")
}

func TestComplete_CreaRegistroDeStockAusente(t *testing.T) {
	f := newFixture()
	tx := f.createAndGet(t, entity.TransactionTypeReceipt,
		dto.CreateTransactionRequest{ToWarehouse: warehouse2, Items: items(productB, 15)})

	_, err := f.uc.Complete(context.Background(), tx.ID)
	require.NoError(t, err)

	assert.True(t, f.stock.quantity(productB, warehouse2).Equal(decimal.NewFromInt(15)),
		"el registro se crea perezosamente partiendo de 0")
}

func TestComplete_DobleCompletadoAplicaUnaVez(t *testing.T) {
	f := newFixture()
	f.stock.set(productA, warehouse1, 100)
	tx := f.createAndGet(t, entity.TransactionTypeReceipt,
		dto.CreateTransactionRequest{ToWarehouse: warehouse1, Items: items(productA, 50)})

	_, err := f.uc.Complete(context.Background(), tx.ID)
	require.NoError(t, err)

	_, err = f.uc.Complete(context.Background(), tx.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "el segundo completado se rechaza")
	assert.True(t, f.stock.quantity(productA, warehouse1).Equal(decimal.NewFromInt(150)),
		"la mutación se aplica exactamente una vez")
}

func TestComplete_TransaccionInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Complete(context.Background(), "tx-ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestComplete_NoRevalidaDisponibilidad(t *testing.T) {
	f := newFixture()
	f.stock.set(productA, warehouse1, 50)
	tx := f.createAndGet(t, entity.TransactionTypeDelivery,
		dto.CreateTransactionRequest{FromWarehouse: warehouse1, Items: items(productA, 40)})

	// Otra entrega agota el stock entre creación y completado.
	require.NoError(t, f.stock.ApplyDelta(context.Background(), productA, warehouse1, decimal.NewFromInt(-45)))

	_, err := f.uc.Complete(context.Background(), tx.ID)
	require.NoError(t, err, "completar no repite la verificación de disponibilidad")
	assert.True(t, f.stock.quantity(productA, warehouse1).Equal(decimal.NewFromInt(-35)),
		"la cantidad puede quedar negativa (carrera documentada)")
}

func TestComplete_EmiteNotificacion(t *testing.T) {
	f := newFixture()
	f.stock.set(productA, warehouse1, 100)
	tx := f.createAndGet(t, entity.TransactionTypeTransfer,
		dto.CreateTransactionRequest{FromWarehouse: warehouse1, ToWarehouse: warehouse2, Items: items(productA, 10)})

	_, err := f.uc.Complete(context.Background(), tx.ID)
	require.NoError(t, err)

	require.Len(t, f.notifier.events, 1)
	event := f.notifier.events[0]
	assert.Equal(t, tx.ID, event.TransactionID)
	assert.Equal(t, entity.TransactionTypeTransfer, event.Type)
	assert.ElementsMatch(t, []string{warehouse1, warehouse2}, event.Warehouses)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_NuncaMutaStock(t *testing.T) {
	f := newFixture()
	f.stock.set(productA, warehouse1, 100)
	tx := f.createAndGet(t, entity.TransactionTypeDelivery,
		dto.CreateTransactionRequest{FromWarehouse: warehouse1, Items: items(productA, 30)})

	cancelled, err := f.uc.Cancel(context.Background(), tx.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.TransactionStatusCancelled, cancelled.Status)
	assert.True(t, f.stock.quantity(productA, warehouse1).Equal(decimal.NewFromInt(100)),
		"cancelar jamás toca cantidades")
	assert.Zero(t, f.stock.deltas)
}

func TestCancel_CompletadaSeRechaza(t *testing.T) {
	f := newFixture()
	f.stock.set(productA, warehouse1, 100)
	tx := f.createAndGet(t, entity.TransactionTypeReceipt,
		dto.CreateTransactionRequest{ToWarehouse: warehouse1, Items: items(productA, 50)})

	_, err := f.uc.Complete(context.Background(), tx.ID)
	require.NoError(t, err)

	_, err = f.uc.Cancel(context.Background(), tx.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState,
		"una transacción completada no se puede cancelar")
}

func TestCancel_Inexistente(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Cancel(context.Background(), "tx-ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
