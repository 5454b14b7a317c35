package repository

import "github.com/taller3d/printforge-api/internal/domain/entity"

// OrderRepository puerto de persistencia para pedidos.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	ListByUser(userID string) ([]entity.Order, error)
	// UpdateTotals actualiza precio total y fecha estimada de envío.
	UpdateTotals(order *entity.Order) error
}

// LineItemRepository puerto de persistencia para ítems de pedido.
type LineItemRepository interface {
	Create(item *entity.OrderLineItem) error
	GetByID(id string) (*entity.OrderLineItem, error)
	Update(item *entity.OrderLineItem) error
	Delete(id string) error
	ListByOrder(orderID string) ([]entity.OrderLineItem, error)
	// ExistsForLot indica si algún ítem ha consumido del lote (cierra la
	// ventana de corrección del lote).
	ExistsForLot(lotID string) (bool, error)
}

// FulfillmentRepository puerto del log append-only de estados de pedidos.
type FulfillmentRepository interface {
	Append(event *entity.FulfillmentEvent) error
	// Latest devuelve el evento más reciente del pedido (su estado vigente).
	Latest(orderID string) (*entity.FulfillmentEvent, error)
	ListByOrder(orderID string) ([]entity.FulfillmentEvent, error)
}

// ShippingRepository puerto de persistencia para opciones de envío.
type ShippingRepository interface {
	Create(shipping *entity.Shipping) error
	GetByID(id string) (*entity.Shipping, error)
	List() ([]entity.Shipping, error)
}
