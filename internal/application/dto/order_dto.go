package dto

import "time"

// CreateOrderRequest alta de pedido.
type CreateOrderRequest struct {
	ShippingID       string `json:"shipping_id"`
	ExpeditedService bool   `json:"expedited_service"`
}

// OrderResponse pedido con su estado vigente.
type OrderResponse struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	ShippingID        string     `json:"shipping_id"`
	TotalPrice        string     `json:"total_price"`
	EstimatedShipDate *time.Time `json:"estimated_ship_date,omitempty"`
	ExpeditedService  bool       `json:"expedited_service"`
	Status            string     `json:"status,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// CommitLineItemRequest alta de un ítem de pedido. InfillPercentage (5–100)
// deriva el multiplicador a partir del BaseInfill del modelo; si es nil se usa
// el relleno base (multiplicador 1.0). LotID es el lote elegido; si no tiene
// stock suficiente el servicio lo reasigna a otro lote del mismo filamento.
type CommitLineItemRequest struct {
	OrderID          *string `json:"order_id,omitempty"`
	ModelID          string  `json:"model_id"`
	LotID            string  `json:"lot_id"`
	InfillPercentage *int    `json:"infill_percentage,omitempty"`
	Quantity         int     `json:"quantity"`
	IsCustom         bool    `json:"is_custom"`
}

// RequantifyLineItemRequest cambio de cantidad de un ítem ya comprometido.
type RequantifyLineItemRequest struct {
	Quantity int `json:"quantity"`
}

// LineItemResponse ítem con su desglose derivado.
type LineItemResponse struct {
	ID               string  `json:"id"`
	OrderID          *string `json:"order_id,omitempty"`
	ModelID          string  `json:"model_id"`
	LotID            string  `json:"lot_id"`
	InfillMultiplier string  `json:"infill_multiplier"`
	Quantity         int     `json:"quantity"`
	IsCustom         bool    `json:"is_custom"`
	TotalWeight      int     `json:"total_weight"`
	CostOfGoodsSold  string  `json:"cost_of_goods_sold"`
	Markup           string  `json:"markup"`
	ItemPrice        string  `json:"item_price"`
}

// AppendFulfillmentRequest nuevo estado en el log de cumplimiento.
type AppendFulfillmentRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// FulfillmentEventResponse fila del log de cumplimiento.
type FulfillmentEventResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// QuoteRequest cotización de un modelo con un filamento.
type QuoteRequest struct {
	ModelID          string `json:"model_id"`
	FilamentID       string `json:"filament_id"`
	InfillPercentage *int   `json:"infill_percentage,omitempty"`
	Quantity         int    `json:"quantity"`
}

// QuoteResponse desglose completo de la cotización para auditar cada término.
type QuoteResponse struct {
	ModelID      string `json:"model_id"`
	FilamentID   string `json:"filament_id"`
	LotID        string `json:"lot_id"`
	Quantity     int    `json:"quantity"`
	Infill       int    `json:"infill"`
	Weight       int    `json:"weight"`
	MaterialCost string `json:"material_cost"`
	FixedCost    string `json:"fixed_cost"`
	CostOfGoods  string `json:"cost_of_goods"`
	Price        string `json:"price"`
}
