package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AQIB050506/stockmaster/internal/application/dto"
	"github.com/AQIB050506/stockmaster/internal/application/ledger"
	"github.com/AQIB050506/stockmaster/internal/domain/entity"
	"github.com/AQIB050506/stockmaster/internal/domain/repository"
)

// TransactionHandler maneja las peticiones HTTP de transacciones de inventario (protegido).
type TransactionHandler struct {
	uc *ledger.TransactionUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *ledger.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// CreateReceipt godoc
// @Summary      Crear recepción de mercancía (entrada)
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "to_warehouse, items; counterparty opcional"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions/receipt [post]
func (h *TransactionHandler) CreateReceipt(c *fiber.Ctx) error {
	return h.create(c, entity.TransactionTypeReceipt)
}

// CreateDelivery godoc
// @Summary      Crear entrega a cliente (salida)
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "from_warehouse, items; counterparty opcional"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions/delivery [post]
func (h *TransactionHandler) CreateDelivery(c *fiber.Ctx) error {
	return h.create(c, entity.TransactionTypeDelivery)
}

// CreateTransfer godoc
// @Summary      Crear traslado entre bodegas
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "from_warehouse, to_warehouse distintos, items"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions/transfer [post]
func (h *TransactionHandler) CreateTransfer(c *fiber.Ctx) error {
	return h.create(c, entity.TransactionTypeTransfer)
}

// CreateAdjustment godoc
// @Summary      Crear ajuste manual de stock (cantidad con signo)
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "from_warehouse, items con cantidad ±, reason"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions/adjustment [post]
func (h *TransactionHandler) CreateAdjustment(c *fiber.Ctx) error {
	return h.create(c, entity.TransactionTypeAdjustment)
}

func (h *TransactionHandler) create(c *fiber.Ctx, txType string) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	transaction, err := h.uc.Create(c.Context(), txType, in, GetActorID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(transaction))
}

// Complete godoc
// @Summary      Completar una transacción (aplica la mutación de stock)
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/complete [put]
func (h *TransactionHandler) Complete(c *fiber.Ctx) error {
	transaction, err := h.uc.Complete(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toTransactionResponse(transaction))
}

// Cancel godoc
// @Summary      Cancelar una transacción (nunca toca stock)
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/cancel [put]
func (h *TransactionHandler) Cancel(c *fiber.Ctx) error {
	transaction, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toTransactionResponse(transaction))
}

// GetByID godoc
// @Summary      Obtener una transacción por ID
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	transaction, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toTransactionResponse(transaction))
}

// List godoc
// @Summary      Listar transacciones
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        type       query  string  false  "receipt | delivery | transfer | adjustment"
// @Param        status     query  string  false  "draft | waiting | ready | completed | cancelled"
// @Param        warehouse  query  string  false  "Bodega origen o destino"
// @Param        limit      query  int     false  "Tamaño de página (default 20)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filter := repository.TransactionFilter{
		Type:        c.Query("type"),
		Status:      c.Query("status"),
		WarehouseID: c.Query("warehouse"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	}
	list, total, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return respondDomainError(c, err)
	}

	items := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, toTransactionResponse(t))
	}
	return c.JSON(dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

// Document godoc
// @Summary      Descargar el comprobante PDF del movimiento
// @Tags         transactions
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la transacción"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/document [get]
func (h *TransactionHandler) Document(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.MovementDocument(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="movimiento.pdf"`)
	return c.Send(pdfBytes)
}

func toTransactionResponse(t *entity.Transaction) dto.TransactionResponse {
	items := make([]dto.TransactionItemResponse, 0, len(t.Items))
	for _, item := range t.Items {
		items = append(items, dto.TransactionItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Location:  item.Location,
		})
	}
	return dto.TransactionResponse{
		ID:            t.ID,
		Type:          t.Type,
		Reference:     t.Reference,
		Status:        t.Status,
		FromWarehouse: t.FromWarehouse,
		ToWarehouse:   t.ToWarehouse,
		Counterparty:  t.Counterparty,
		Items:         items,
		Notes:         t.Notes,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt,
		CompletedAt:   t.CompletedAt,
	}
}
