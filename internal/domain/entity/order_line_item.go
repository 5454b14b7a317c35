package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineItem es una cantidad de un modelo impreso con un multiplicador de
// relleno, consumiendo material de un lote concreto.
//
// TotalWeight, CostOfGoodsSold e ItemPrice son campos derivados: se calculan
// con pricing.RequiredWeight y pricing.PriceComponents antes de persistir y
// se recalculan en cada cambio de cantidad o relleno; nunca se confían como
// verdad almacenada independiente de sus entradas.
//
// OrderID nulo indica un ítem pre-fabricado o una cotización todavía sin
// pedido (galería de la tienda).
type OrderLineItem struct {
	ID               string
	OrderID          *string
	ModelID          string
	LotID            string
	InfillMultiplier decimal.Decimal
	Quantity         int
	IsCustom         bool
	TotalWeight      int // gramos, sin margen de seguridad
	CostOfGoodsSold  decimal.Decimal
	Markup           decimal.Decimal
	ItemPrice        decimal.Decimal
	CreatedAt        time.Time
}
