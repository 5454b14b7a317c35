package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLedgerEntry es una fila inmutable del ledger de inventario: el
// peso disponible de un lote después de un evento (compra, consumo por un
// ítem de pedido, devolución por borrado de un ítem, corrección).
//
// El ledger es append-only: ningún cambio de stock actualiza una fila
// existente, siempre se agrega una nueva. La lectura de stock vigente de un
// lote es "la entrada más reciente por CreatedAt".
type InventoryLedgerEntry struct {
	ID                string
	LotID             string
	QuantityAvailable int             // gramos restantes tras el evento, >= 0
	UnitCost          decimal.Decimal // costo por gramo heredado del lote
	CreatedAt         time.Time
}

// AvailableLot combina una entrada del ledger con la fecha de compra de su
// lote, que es la clave de ordenamiento FIFO.
type AvailableLot struct {
	Entry          InventoryLedgerEntry
	FilamentID     string
	LotPurchasedAt time.Time
	WearAndTear    decimal.Decimal
	Density        decimal.Decimal
}
