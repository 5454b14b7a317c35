package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/taller3d/printforge-api/internal/application/dto"
	"github.com/taller3d/printforge-api/internal/application/inventory"
	"github.com/taller3d/printforge-api/internal/domain"
	"github.com/taller3d/printforge-api/internal/domain/entity"
)

// InventoryHandler maneja lotes y el ledger de inventario (solo owner).
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler de inventario.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// ReceiveLot godoc
// @Summary      Registrar lote comprado
// @Description  Crea el lote y su entrada inicial de ledger con el peso completo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveLotRequest  true  "supplier_id, filament_id, cost, weight_purchased (g), density (g/cm³), wear_and_tear (>= 1.0)"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/lots [post]
func (h *InventoryHandler) ReceiveLot(c *fiber.Ctx) error {
	var in dto.ReceiveLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	parsed, err := parseLotNumerics(c, in.Cost, in.Density, in.WearAndTear)
	if err != nil {
		return err
	}
	lot, err := h.uc.ReceiveLot(c.Context(), inventory.ReceiveLotInput{
		SupplierID:      in.SupplierID,
		FilamentID:      in.FilamentID,
		BrandName:       in.BrandName,
		Cost:            parsed.cost,
		WeightPurchased: in.WeightPurchased,
		Density:         parsed.density,
		ReorderLeadTime: in.ReorderLeadTime,
		WearAndTear:     parsed.wearAndTear,
	})
	if err != nil {
		return inventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lotResponse(lot, lot.WeightPurchased, lot.UnitCost()))
}

// UpdateLot godoc
// @Summary      Corregir lote
// @Description  Edita el lote. Si el lote no ha sido consumido y tiene una única
//
//	entrada de ledger, la entrada inicial se corrige en sitio.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "UUID del lote"
// @Param        body  body  dto.UpdateLotRequest  true  "campos corregidos"
// @Success      200   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/lots/{id} [put]
func (h *InventoryHandler) UpdateLot(c *fiber.Ctx) error {
	var in dto.UpdateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	parsed, err := parseLotNumerics(c, in.Cost, in.Density, in.WearAndTear)
	if err != nil {
		return err
	}
	lot, err := h.uc.UpdateLot(c.Context(), c.Params("id"), inventory.UpdateLotInput{
		BrandName:       in.BrandName,
		Cost:            parsed.cost,
		WeightPurchased: in.WeightPurchased,
		Density:         parsed.density,
		ReorderLeadTime: in.ReorderLeadTime,
		WearAndTear:     parsed.wearAndTear,
	})
	if err != nil {
		return inventoryError(c, err)
	}
	return h.respondWithStock(c, lot)
}

// GetLot godoc
// @Summary      Obtener lote con stock vigente
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del lote"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots/{id} [get]
func (h *InventoryHandler) GetLot(c *fiber.Ctx) error {
	lot, entry, err := h.uc.GetLot(c.Context(), c.Params("id"))
	if err != nil {
		return inventoryError(c, err)
	}
	qty, unitCost := 0, lot.UnitCost()
	if entry != nil {
		qty, unitCost = entry.QuantityAvailable, entry.UnitCost
	}
	return c.JSON(lotResponse(lot, qty, unitCost))
}

// ListLots godoc
// @Summary      Listar lotes con su stock vigente
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LotResponse
// @Router       /api/inventory/lots [get]
func (h *InventoryHandler) ListLots(c *fiber.Ctx) error {
	lots, err := h.uc.ListLots(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for i := range lots {
		_, entry, err := h.uc.GetLot(c.Context(), lots[i].ID)
		if err != nil {
			return inventoryError(c, err)
		}
		qty, unitCost := 0, lots[i].UnitCost()
		if entry != nil {
			qty, unitCost = entry.QuantityAvailable, entry.UnitCost
		}
		out = append(out, lotResponse(&lots[i], qty, unitCost))
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de ledger de un lote
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del lote"
// @Success      200  {array}  dto.LedgerEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots/{id}/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	entries, err := h.uc.History(c.Context(), c.Params("id"))
	if err != nil {
		return inventoryError(c, err)
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LedgerEntryResponse{
			ID:                e.ID,
			LotID:             e.LotID,
			QuantityAvailable: e.QuantityAvailable,
			UnitCost:          e.UnitCost.StringFixed(4),
			CreatedAt:         e.CreatedAt,
		})
	}
	return c.JSON(out)
}

// AvailableLots godoc
// @Summary      Stock disponible para la galería
// @Description  Entradas con stock junto a su lote, compra más antigua primero.
// @Tags         inventory
// @Produce      json
// @Success      200  {array}  dto.AvailableLotResponse
// @Router       /api/inventory/available [get]
func (h *InventoryHandler) AvailableLots(c *fiber.Ctx) error {
	available, err := h.uc.AvailableLots(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.AvailableLotResponse, 0, len(available))
	for _, a := range available {
		out = append(out, dto.AvailableLotResponse{
			EntryID:           a.Entry.ID,
			LotID:             a.Entry.LotID,
			FilamentID:        a.FilamentID,
			QuantityAvailable: a.Entry.QuantityAvailable,
			UnitCost:          a.Entry.UnitCost.StringFixed(4),
			LotPurchasedAt:    a.LotPurchasedAt,
		})
	}
	return c.JSON(out)
}

// ── helpers ───────────────────────────────────────────────────────────────────

type lotNumerics struct {
	cost        decimal.Decimal
	density     decimal.Decimal
	wearAndTear decimal.Decimal
}

func parseLotNumerics(c *fiber.Ctx, cost, density, wearAndTear string) (lotNumerics, error) {
	var out lotNumerics
	var err error
	if out.cost, err = decimal.NewFromString(cost); err != nil {
		return out, malformedNumeric(c, "cost")
	}
	if out.density, err = decimal.NewFromString(density); err != nil {
		return out, malformedNumeric(c, "density")
	}
	if out.wearAndTear, err = decimal.NewFromString(wearAndTear); err != nil {
		return out, malformedNumeric(c, "wear_and_tear")
	}
	return out, nil
}

func (h *InventoryHandler) respondWithStock(c *fiber.Ctx, lot *entity.RawMaterialLot) error {
	_, entry, err := h.uc.GetLot(c.Context(), lot.ID)
	if err != nil {
		return inventoryError(c, err)
	}
	qty, unitCost := 0, lot.UnitCost()
	if entry != nil {
		qty, unitCost = entry.QuantityAvailable, entry.UnitCost
	}
	return c.JSON(lotResponse(lot, qty, unitCost))
}

func inventoryError(c *fiber.Ctx, err error) error {
	if err == domain.ErrInvalidInput {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if err == domain.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote, proveedor o filamento no encontrado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func lotResponse(lot *entity.RawMaterialLot, qty int, unitCost decimal.Decimal) dto.LotResponse {
	return dto.LotResponse{
		ID:                lot.ID,
		SupplierID:        lot.SupplierID,
		FilamentID:        lot.FilamentID,
		BrandName:         lot.BrandName,
		Cost:              lot.Cost.StringFixed(2),
		WeightPurchased:   lot.WeightPurchased,
		Density:           lot.Density.String(),
		ReorderLeadTime:   lot.ReorderLeadTime,
		WearAndTear:       lot.WearAndTear.String(),
		PurchasedAt:       lot.PurchasedAt,
		QuantityAvailable: qty,
		UnitCost:          unitCost.StringFixed(4),
	}
}
