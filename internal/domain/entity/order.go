package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shipping opción de envío con su tarifa y días estimados.
type Shipping struct {
	ID       string
	Name     string
	Rate     decimal.Decimal
	ShipTime int // días
}

// Order pedido de un cliente. TotalPrice se recalcula al agregar o quitar
// ítems, nunca se edita directamente.
type Order struct {
	ID               string
	UserID           string
	ShippingID       string
	TotalPrice       decimal.Decimal
	EstimatedShipDate *time.Time
	ExpeditedService bool
	CreatedAt        time.Time
}
