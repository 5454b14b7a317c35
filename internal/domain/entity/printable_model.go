package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PrintableModel es un diseño imprimible. Entrada de solo lectura para los
// cálculos de peso y precio.
type PrintableModel struct {
	ID                   string
	Name                 string
	Description          string
	FilePath             string
	FixedCost            decimal.Decimal // costo fijo por ítem (preparación, electricidad, desgaste de boquilla)
	EstimatedPrintVolume int             // cm³ al 100% de relleno
	BaseInfill           decimal.Decimal // fracción 0–1
	CreatedAt            time.Time
}
