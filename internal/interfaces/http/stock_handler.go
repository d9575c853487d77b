package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AQIB050506/stockmaster/internal/application/dto"
	"github.com/AQIB050506/stockmaster/internal/application/usecase"
)

// StockHandler maneja las consultas de stock (protegido). Las cantidades solo
// mutan vía transacciones, nunca desde estos endpoints.
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List godoc
// @Summary      Listar registros de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product    query  string  false  "Filtrar por producto"
// @Param        warehouse  query  string  false  "Filtrar por bodega"
// @Param        limit      query  int     false  "Tamaño de página (default 20)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	list, err := h.uc.List(c.Context(), c.Query("product"), c.Query("warehouse"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// Alerts godoc
// @Summary      Alertas de stock bajo
// @Description  Productos activos cuya cantidad está en o por debajo de su nivel mínimo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockAlertListResponse
// @Router       /api/stock/alerts [get]
func (h *StockHandler) Alerts(c *fiber.Ctx) error {
	list, err := h.uc.LowStockAlerts(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// GetProductStock godoc
// @Summary      Stock de un producto en todas las bodegas
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/product/{productId} [get]
func (h *StockHandler) GetProductStock(c *fiber.Ctx) error {
	list, err := h.uc.GetProductStock(c.Context(), c.Params("productId"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// UpdateLocation godoc
// @Summary      Actualizar la nota de ubicación de un registro de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del registro de stock"
// @Param        body  body  dto.UpdateStockLocationRequest  true  "location"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/location [put]
func (h *StockHandler) UpdateLocation(c *fiber.Ctx) error {
	var in dto.UpdateStockLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateLocation(c.Context(), c.Params("id"), in.Location); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ubicación actualizada"})
}
