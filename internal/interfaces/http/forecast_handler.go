package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AQIB050506/stockmaster/internal/application/dto"
	"github.com/AQIB050506/stockmaster/internal/application/forecast"
)

// ForecastHandler maneja las peticiones del pronóstico de demanda (protegido).
type ForecastHandler struct {
	uc *forecast.ForecastUseCase
}

// NewForecastHandler construye el handler.
func NewForecastHandler(uc *forecast.ForecastUseCase) *ForecastHandler {
	return &ForecastHandler{uc: uc}
}

// List godoc
// @Summary      Pronóstico de demanda por (producto, bodega)
// @Description  Proyecta días hasta el quiebre de stock y la cantidad sugerida
//
//	de reposición a partir de las entregas completadas, ordenado por urgencia.
//
// @Tags         forecasts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ForecastListResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/forecasts [get]
func (h *ForecastHandler) List(c *fiber.Ctx) error {
	forecasts, err := h.uc.GetForecasts(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ForecastListResponse{Count: len(forecasts), Items: forecasts})
}
