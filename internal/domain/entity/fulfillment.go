package entity

import "time"

// Estados de cumplimiento de un pedido.
const (
	FulfillmentReceived = "received"
	FulfillmentPrinting = "printing"
	FulfillmentPacked   = "packed"
	FulfillmentShipped  = "shipped"
	FulfillmentComplete = "complete"
	FulfillmentCanceled = "canceled"
)

// FulfillmentEvent es una fila del log append-only de estados de un pedido.
// El estado vigente de un pedido es el evento más reciente por CreatedAt,
// mismo contrato de lectura que el ledger de inventario.
type FulfillmentEvent struct {
	ID        string
	OrderID   string
	Status    string
	Notes     string
	CreatedAt time.Time
	CreatedBy string // UserID
}

// ValidFulfillmentStatus indica si el estado es uno de los conocidos.
func ValidFulfillmentStatus(s string) bool {
	switch s {
	case FulfillmentReceived, FulfillmentPrinting, FulfillmentPacked,
		FulfillmentShipped, FulfillmentComplete, FulfillmentCanceled:
		return true
	}
	return false
}
