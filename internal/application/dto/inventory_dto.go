package dto

import "time"

// ReceiveLotRequest alta de un lote comprado. Cost en moneda, pesos en gramos,
// densidad en g/cm³. WearAndTear >= 1.0 (1.0 = sin desperdicio extra).
type ReceiveLotRequest struct {
	SupplierID      string  `json:"supplier_id"`
	FilamentID      string  `json:"filament_id"`
	BrandName       *string `json:"brand_name,omitempty"`
	Cost            string  `json:"cost"`
	WeightPurchased int     `json:"weight_purchased"`
	Density         string  `json:"density"`
	ReorderLeadTime int     `json:"reorder_lead_time"`
	WearAndTear     string  `json:"wear_and_tear"`
}

// UpdateLotRequest corrección de un lote. Solo si el lote tiene una única
// entrada de ledger y ningún ítem ha consumido de él, el peso y costo
// corrigen la entrada inicial en sitio; en caso contrario el ledger queda
// intacto.
type UpdateLotRequest struct {
	BrandName       *string `json:"brand_name,omitempty"`
	Cost            string  `json:"cost"`
	WeightPurchased int     `json:"weight_purchased"`
	Density         string  `json:"density"`
	ReorderLeadTime int     `json:"reorder_lead_time"`
	WearAndTear     string  `json:"wear_and_tear"`
}

// LotResponse lote con su lectura de stock vigente.
type LotResponse struct {
	ID                string    `json:"id"`
	SupplierID        string    `json:"supplier_id"`
	FilamentID        string    `json:"filament_id"`
	BrandName         *string   `json:"brand_name,omitempty"`
	Cost              string    `json:"cost"`
	WeightPurchased   int       `json:"weight_purchased"`
	Density           string    `json:"density"`
	ReorderLeadTime   int       `json:"reorder_lead_time"`
	WearAndTear       string    `json:"wear_and_tear"`
	PurchasedAt       time.Time `json:"purchased_at"`
	QuantityAvailable int       `json:"quantity_available"`
	UnitCost          string    `json:"unit_cost"`
}

// AvailableLotResponse entrada disponible del ledger para la galería.
type AvailableLotResponse struct {
	EntryID           string    `json:"entry_id"`
	LotID             string    `json:"lot_id"`
	FilamentID        string    `json:"filament_id"`
	QuantityAvailable int       `json:"quantity_available"`
	UnitCost          string    `json:"unit_cost"`
	LotPurchasedAt    time.Time `json:"lot_purchased_at"`
}

// LedgerEntryResponse fila del historial de un lote.
type LedgerEntryResponse struct {
	ID                string    `json:"id"`
	LotID             string    `json:"lot_id"`
	QuantityAvailable int       `json:"quantity_available"`
	UnitCost          string    `json:"unit_cost"`
	CreatedAt         time.Time `json:"created_at"`
}
