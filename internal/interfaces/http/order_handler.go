package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/taller3d/printforge-api/internal/application/dto"
	"github.com/taller3d/printforge-api/internal/application/inventory"
	"github.com/taller3d/printforge-api/internal/application/orders"
	"github.com/taller3d/printforge-api/internal/domain"
	"github.com/taller3d/printforge-api/internal/domain/entity"
)

// OrderHandler maneja pedidos, ítems y el log de cumplimiento.
type OrderHandler struct {
	uc         *orders.UseCase
	allocation *inventory.AllocationUseCase
}

// NewOrderHandler construye el handler de pedidos.
func NewOrderHandler(uc *orders.UseCase, allocation *inventory.AllocationUseCase) *OrderHandler {
	return &OrderHandler{uc: uc, allocation: allocation}
}

// Create godoc
// @Summary      Crear pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "shipping_id, expedited_service"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.CreateOrder(c.Context(), GetUserID(c), in.ShippingID, in.ExpeditedService)
	if err != nil {
		return orderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(orderResponse(order, entity.FulfillmentReceived))
}

// GetByID godoc
// @Summary      Obtener pedido con su estado vigente
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, status, err := h.uc.GetOrder(c.Context(), c.Params("id"), GetUserID(c), GetRole(c))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(orderResponse(order, status))
}

// List godoc
// @Summary      Listar pedidos propios
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListOrders(c.Context(), GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for i := range list {
		out = append(out, orderResponse(&list[i], ""))
	}
	return c.JSON(out)
}

// ListItems godoc
// @Summary      Listar ítems de un pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del pedido"
// @Success      200  {array}  dto.LineItemResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/items [get]
func (h *OrderHandler) ListItems(c *fiber.Ctx) error {
	items, err := h.uc.ListItems(c.Context(), c.Params("id"), GetUserID(c), GetRole(c))
	if err != nil {
		return orderError(c, err)
	}
	out := make([]dto.LineItemResponse, 0, len(items))
	for i := range items {
		out = append(out, itemResponse(&items[i]))
	}
	return c.JSON(out)
}

// CommitItem godoc
// @Summary      Comprometer ítem de pedido
// @Description  Calcula peso y precio, verifica suficiencia del lote con el margen
//
//	de seguridad y anexa la entrada de consumo al ledger, todo en una
//	transacción. Si el lote no alcanza pero otro lote del mismo
//	filamento sí, el ítem se reasigna antes de persistir.
//
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommitLineItemRequest  true  "model_id, lot_id, quantity, infill_percentage (5-100, opcional)"
// @Success      201   {object}  dto.LineItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *OrderHandler) CommitItem(c *fiber.Ctx) error {
	var in dto.CommitLineItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	// Comprometer contra un pedido exige que el pedido sea del usuario.
	if in.OrderID != nil {
		if _, _, err := h.uc.GetOrder(c.Context(), *in.OrderID, GetUserID(c), GetRole(c)); err != nil {
			return orderError(c, err)
		}
	}
	item, err := h.allocation.CommitLineItem(c.Context(), inventory.CommitLineItemInput{
		OrderID:          in.OrderID,
		ModelID:          in.ModelID,
		LotID:            in.LotID,
		InfillPercentage: in.InfillPercentage,
		Quantity:         in.Quantity,
		IsCustom:         in.IsCustom,
	})
	if err != nil {
		return allocationError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(itemResponse(item))
}

// RequantifyItem godoc
// @Summary      Cambiar cantidad de un ítem
// @Description  Re-verifica suficiencia con la cantidad nueva acreditando primero
//
//	el peso ya consumido. Si ningún lote alcanza, el ítem queda intacto.
//
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "UUID del ítem"
// @Param        body  body  dto.RequantifyLineItemRequest  true  "quantity"
// @Success      200   {object}  dto.LineItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *OrderHandler) RequantifyItem(c *fiber.Ctx) error {
	var in dto.RequantifyLineItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.AuthorizeItemMutation(c.Context(), c.Params("id"), GetUserID(c), GetRole(c)); err != nil {
		return orderError(c, err)
	}
	item, err := h.allocation.RequantifyLineItem(c.Context(), c.Params("id"), in.Quantity)
	if err != nil {
		return allocationError(c, err)
	}
	return c.JSON(itemResponse(item))
}

// ReleaseItem godoc
// @Summary      Liberar ítem
// @Description  Devuelve el peso consumido al lote con una entrada de restauración
//
//	y elimina el ítem.
//
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del ítem"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *OrderHandler) ReleaseItem(c *fiber.Ctx) error {
	if err := h.uc.AuthorizeItemMutation(c.Context(), c.Params("id"), GetUserID(c), GetRole(c)); err != nil {
		return orderError(c, err)
	}
	if err := h.allocation.ReleaseLineItem(c.Context(), c.Params("id")); err != nil {
		return allocationError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AppendStatus godoc
// @Summary      Registrar estado de cumplimiento
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "UUID del pedido"
// @Param        body  body  dto.AppendFulfillmentRequest  true  "status (received|printing|packed|shipped|complete|canceled), notes"
// @Success      201   {object}  dto.FulfillmentEventResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [post]
func (h *OrderHandler) AppendStatus(c *fiber.Ctx) error {
	var in dto.AppendFulfillmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	event, err := h.uc.AppendStatus(c.Context(), c.Params("id"), in.Status, in.Notes, GetUserID(c))
	if err != nil {
		return orderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(eventResponse(event))
}

// StatusHistory godoc
// @Summary      Historial de estados de un pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del pedido"
// @Success      200  {array}  dto.FulfillmentEventResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [get]
func (h *OrderHandler) StatusHistory(c *fiber.Ctx) error {
	events, err := h.uc.StatusHistory(c.Context(), c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	out := make([]dto.FulfillmentEventResponse, 0, len(events))
	for i := range events {
		out = append(out, eventResponse(&events[i]))
	}
	return c.JSON(out)
}

// CreateShipping godoc
// @Summary      Crear opción de envío
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  map[string]string  true  "name, rate, ship_time (días)"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/shipping [post]
func (h *OrderHandler) CreateShipping(c *fiber.Ctx) error {
	var in struct {
		Name     string `json:"name"`
		Rate     string `json:"rate"`
		ShipTime int    `json:"ship_time"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rate, err := decimal.NewFromString(in.Rate)
	if err != nil {
		return malformedNumeric(c, "rate")
	}
	s, err := h.uc.CreateShipping(c.Context(), in.Name, rate, in.ShipTime)
	if err != nil {
		return orderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        s.ID,
		"name":      s.Name,
		"rate":      s.Rate.StringFixed(2),
		"ship_time": s.ShipTime,
	})
}

// ListShipping godoc
// @Summary      Listar opciones de envío
// @Tags         orders
// @Produce      json
// @Success      200  {array}  map[string]string
// @Router       /api/shipping [get]
func (h *OrderHandler) ListShipping(c *fiber.Ctx) error {
	options, err := h.uc.ListShipping(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]fiber.Map, 0, len(options))
	for _, s := range options {
		out = append(out, fiber.Map{
			"id":        s.ID,
			"name":      s.Name,
			"rate":      s.Rate.StringFixed(2),
			"ship_time": s.ShipTime,
		})
	}
	return c.JSON(out)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func orderError(c *fiber.Ctx, err error) error {
	if err == domain.ErrInvalidInput {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if err == domain.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pedido no encontrado"})
	}
	if err == domain.ErrForbidden {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	}
	if err == domain.ErrDuplicate {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// allocationError mapea errores de asignación. La insuficiencia de stock viaja
// con las cantidades para que el cliente sepa cuánto faltó.
func allocationError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInsufficientInventory) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_INVENTORY", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrPriceBelowCost) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "PRICE_BELOW_COST", Message: "el precio de venta quedó por debajo del costo"})
	}
	return orderError(c, err)
}

func orderResponse(o *entity.Order, status string) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                o.ID,
		UserID:            o.UserID,
		ShippingID:        o.ShippingID,
		TotalPrice:        o.TotalPrice.StringFixed(2),
		EstimatedShipDate: o.EstimatedShipDate,
		ExpeditedService:  o.ExpeditedService,
		Status:            status,
		CreatedAt:         o.CreatedAt,
	}
}

func itemResponse(it *entity.OrderLineItem) dto.LineItemResponse {
	return dto.LineItemResponse{
		ID:               it.ID,
		OrderID:          it.OrderID,
		ModelID:          it.ModelID,
		LotID:            it.LotID,
		InfillMultiplier: it.InfillMultiplier.StringFixed(2),
		Quantity:         it.Quantity,
		IsCustom:         it.IsCustom,
		TotalWeight:      it.TotalWeight,
		CostOfGoodsSold:  it.CostOfGoodsSold.StringFixed(4),
		Markup:           it.Markup.String(),
		ItemPrice:        it.ItemPrice.StringFixed(2),
	}
}

func eventResponse(e *entity.FulfillmentEvent) dto.FulfillmentEventResponse {
	return dto.FulfillmentEventResponse{
		ID:        e.ID,
		OrderID:   e.OrderID,
		Status:    e.Status,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
	}
}
