package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawMaterialLot es un lote comprado de filamento: una bobina o caja de un
// proveedor concreto, con su costo total y su peso en gramos. El lote es la
// unidad FIFO del inventario: cada lote origina una o más entradas del ledger
// y el consumo siempre prefiere el lote comprado más antiguo.
//
// Tras su creación el lote es inmutable salvo la ventana de corrección
// descrita en LedgerUseCase.UpdateLot.
type RawMaterialLot struct {
	ID              string
	SupplierID      string
	FilamentID      string
	BrandName       *string
	Cost            decimal.Decimal // costo total de la compra
	WeightPurchased int             // gramos comprados
	Density         decimal.Decimal // g/cm³
	ReorderLeadTime int             // días
	WearAndTear     decimal.Decimal // multiplicador >= 1.0 que infla el consumo de material
	PurchasedAt     time.Time
}

// UnitCost devuelve el costo por gramo del lote (4 decimales).
func (l RawMaterialLot) UnitCost() decimal.Decimal {
	if l.WeightPurchased <= 0 {
		return decimal.Zero
	}
	return l.Cost.DivRound(decimal.NewFromInt(int64(l.WeightPurchased)), 4)
}
