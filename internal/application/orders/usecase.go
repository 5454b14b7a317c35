package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/taller3d/printforge-api/internal/domain"
	"github.com/taller3d/printforge-api/internal/domain/entity"
	"github.com/taller3d/printforge-api/internal/domain/repository"
)

// UseCase pedidos y su log de cumplimiento. El estado vigente de un pedido se
// deriva del evento más reciente del log, nunca de una columna mutable: mismo
// contrato de lectura "última entrada por timestamp" que el ledger de
// inventario.
type UseCase struct {
	orderRepo       repository.OrderRepository
	itemRepo        repository.LineItemRepository
	shippingRepo    repository.ShippingRepository
	fulfillmentRepo repository.FulfillmentRepository
}

// NewUseCase construye el caso de uso de pedidos.
func NewUseCase(
	orderRepo repository.OrderRepository,
	itemRepo repository.LineItemRepository,
	shippingRepo repository.ShippingRepository,
	fulfillmentRepo repository.FulfillmentRepository,
) *UseCase {
	return &UseCase{
		orderRepo:       orderRepo,
		itemRepo:        itemRepo,
		shippingRepo:    shippingRepo,
		fulfillmentRepo: fulfillmentRepo,
	}
}

// CreateOrder crea el pedido con total cero, fija la fecha estimada de envío
// según la opción elegida y anexa el evento inicial "received" al log.
func (uc *UseCase) CreateOrder(ctx context.Context, userID, shippingID string, expedited bool) (*entity.Order, error) {
	if userID == "" || shippingID == "" {
		return nil, domain.ErrInvalidInput
	}
	shipping, err := uc.shippingRepo.GetByID(shippingID)
	if err != nil {
		return nil, err
	}
	if shipping == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	shipDays := shipping.ShipTime
	if expedited && shipDays > 1 {
		shipDays = shipDays / 2
	}
	shipDate := now.AddDate(0, 0, shipDays)

	order := &entity.Order{
		ID:                uuid.New().String(),
		UserID:            userID,
		ShippingID:        shippingID,
		TotalPrice:        decimal.Zero,
		EstimatedShipDate: &shipDate,
		ExpeditedService:  expedited,
		CreatedAt:         now,
	}
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}

	event := &entity.FulfillmentEvent{
		ID:        uuid.New().String(),
		OrderID:   order.ID,
		Status:    entity.FulfillmentReceived,
		CreatedAt: now,
		CreatedBy: userID,
	}
	if err := uc.fulfillmentRepo.Append(event); err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder devuelve el pedido con su estado vigente. Un cliente solo ve sus
// propios pedidos; el owner ve todos.
func (uc *UseCase) GetOrder(ctx context.Context, orderID, userID, role string) (*entity.Order, string, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, "", err
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}
	if role != entity.RoleOwner && order.UserID != userID {
		return nil, "", domain.ErrForbidden
	}
	status, err := uc.CurrentStatus(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	return order, status, nil
}

// ListOrders lista los pedidos del usuario.
func (uc *UseCase) ListOrders(ctx context.Context, userID string) ([]entity.Order, error) {
	return uc.orderRepo.ListByUser(userID)
}

// ListItems lista los ítems de un pedido.
func (uc *UseCase) ListItems(ctx context.Context, orderID, userID, role string) ([]entity.OrderLineItem, error) {
	if _, _, err := uc.GetOrder(ctx, orderID, userID, role); err != nil {
		return nil, err
	}
	return uc.itemRepo.ListByOrder(orderID)
}

// AuthorizeItemMutation verifica que el ítem pueda ser mutado por el usuario:
// si pertenece a un pedido, aplica la misma regla de acceso que GetOrder (el
// cliente solo toca ítems de sus propios pedidos; el owner toca todos). Los
// ítems sin pedido (galería, cotizaciones) no tienen dueño.
func (uc *UseCase) AuthorizeItemMutation(ctx context.Context, itemID, userID, role string) error {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if item.OrderID == nil {
		return nil
	}
	_, _, err = uc.GetOrder(ctx, *item.OrderID, userID, role)
	return err
}

// AppendStatus anexa un nuevo estado al log de cumplimiento del pedido.
func (uc *UseCase) AppendStatus(ctx context.Context, orderID, status, notes, userID string) (*entity.FulfillmentEvent, error) {
	if !entity.ValidFulfillmentStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	event := &entity.FulfillmentEvent{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		Status:    status,
		Notes:     notes,
		CreatedAt: time.Now(),
		CreatedBy: userID,
	}
	if err := uc.fulfillmentRepo.Append(event); err != nil {
		return nil, err
	}
	return event, nil
}

// CurrentStatus devuelve el estado vigente: el evento más reciente del log.
// Pedido sin eventos devuelve cadena vacía.
func (uc *UseCase) CurrentStatus(ctx context.Context, orderID string) (string, error) {
	latest, err := uc.fulfillmentRepo.Latest(orderID)
	if err != nil {
		return "", err
	}
	if latest == nil {
		return "", nil
	}
	return latest.Status, nil
}

// StatusHistory devuelve el log completo de estados del pedido.
func (uc *UseCase) StatusHistory(ctx context.Context, orderID string) ([]entity.FulfillmentEvent, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return uc.fulfillmentRepo.ListByOrder(orderID)
}

// CreateShipping alta de opción de envío.
func (uc *UseCase) CreateShipping(ctx context.Context, name string, rate decimal.Decimal, shipTime int) (*entity.Shipping, error) {
	if name == "" || rate.IsNegative() || shipTime <= 0 {
		return nil, domain.ErrInvalidInput
	}
	s := &entity.Shipping{ID: uuid.New().String(), Name: name, Rate: rate, ShipTime: shipTime}
	if err := uc.shippingRepo.Create(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ListShipping lista las opciones de envío.
func (uc *UseCase) ListShipping(ctx context.Context) ([]entity.Shipping, error) {
	return uc.shippingRepo.List()
}
