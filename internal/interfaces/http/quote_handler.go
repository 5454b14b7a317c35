package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/taller3d/printforge-api/internal/application/dto"
	"github.com/taller3d/printforge-api/internal/application/quotes"
	"github.com/taller3d/printforge-api/internal/domain"
)

// QuoteHandler maneja cotizaciones de la galería (público).
type QuoteHandler struct {
	uc *quotes.UseCase
}

// NewQuoteHandler construye el handler de cotizaciones.
func NewQuoteHandler(uc *quotes.UseCase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// Quote godoc
// @Summary      Cotizar un modelo
// @Description  Precio estimado de imprimir un modelo con un filamento. El peso
//
//	cotizado no incluye el margen de seguridad; el margen solo gatilla
//	la búsqueda de lote suficiente.
//
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuoteRequest  true  "model_id, filament_id, quantity, infill_percentage (opcional)"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotes [post]
func (h *QuoteHandler) Quote(c *fiber.Ctx) error {
	var in dto.QuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	quote, err := h.uc.QuoteModel(c.Context(), quoteInput(in))
	if err != nil {
		return quoteError(c, err)
	}
	return c.JSON(dto.QuoteResponse{
		ModelID:      quote.ModelID,
		FilamentID:   quote.FilamentID,
		LotID:        quote.LotID,
		Quantity:     quote.Quantity,
		Infill:       quote.InfillPct,
		Weight:       quote.Weight,
		MaterialCost: quote.MaterialCost.StringFixed(4),
		FixedCost:    quote.FixedCost.StringFixed(4),
		CostOfGoods:  quote.CostOfGoods.StringFixed(4),
		Price:        quote.Price.StringFixed(2),
	})
}

// QuotePDF godoc
// @Summary      Descargar cotización en PDF
// @Tags         quotes
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.QuoteRequest  true  "model_id, filament_id, quantity, infill_percentage (opcional)"
// @Success      200   {file}    binary
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotes/pdf [post]
func (h *QuoteHandler) QuotePDF(c *fiber.Ctx) error {
	var in dto.QuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	pdfBytes, err := h.uc.QuotePDF(c.Context(), quoteInput(in))
	if err != nil {
		return quoteError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="cotizacion.pdf"`)
	return c.Send(pdfBytes)
}

func quoteInput(in dto.QuoteRequest) quotes.QuoteInput {
	return quotes.QuoteInput{
		ModelID:          in.ModelID,
		FilamentID:       in.FilamentID,
		InfillPercentage: in.InfillPercentage,
		Quantity:         in.Quantity,
	}
}

func quoteError(c *fiber.Ctx, err error) error {
	if err == domain.ErrInvalidInput {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if err == domain.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "modelo o filamento no encontrado"})
	}
	if errors.Is(err, domain.ErrInsufficientInventory) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_INVENTORY", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
