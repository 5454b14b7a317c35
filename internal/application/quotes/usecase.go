package quotes

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/taller3d/printforge-api/internal/application/inventory"
	"github.com/taller3d/printforge-api/internal/domain"
	"github.com/taller3d/printforge-api/internal/domain/entity"
	"github.com/taller3d/printforge-api/internal/domain/pricing"
	"github.com/taller3d/printforge-api/internal/domain/repository"
)

// QuotePDFGenerator puerto de generación del documento PDF de cotización.
type QuotePDFGenerator interface {
	GenerateQuotePDF(ctx context.Context, quote *Quote, model *entity.PrintableModel, filament *entity.Filament) ([]byte, error)
}

// Quote resultado de cotizar un modelo: desglose completo para que el caller
// audite cada término, no solo el precio final.
type Quote struct {
	ModelID      string
	FilamentID   string
	LotID        string
	Quantity     int
	InfillPct    int
	Weight       int // gramos sin margen: es el peso que se cobra
	MaterialCost decimal.Decimal
	FixedCost    decimal.Decimal
	CostOfGoods  decimal.Decimal
	Price        decimal.Decimal
}

// UseCase cotizaciones de la galería: precio estimado de un modelo con un
// filamento, y su documento PDF.
//
// En esta ruta el margen de seguridad se pliega dentro del requerimiento
// antes de la búsqueda (y la búsqueda corre con margen 1.0); en la ruta de
// asignación ocurre lo contrario: requerimiento crudo y margen aplicado por
// la búsqueda. Son dos caminos numéricos deliberadamente separados: el peso
// cotizado al cliente nunca incluye el margen.
type UseCase struct {
	modelRepo    repository.ModelRepository
	filamentRepo repository.FilamentRepository
	lotRepo      repository.LotRepository
	ledgerRepo   repository.LedgerRepository
	pdf          QuotePDFGenerator
	safetyMargin decimal.Decimal
	markup       decimal.Decimal
}

// NewUseCase construye el caso de uso. Márgenes <= 1 usan los defaults del
// paquete inventory.
func NewUseCase(
	modelRepo repository.ModelRepository,
	filamentRepo repository.FilamentRepository,
	lotRepo repository.LotRepository,
	ledgerRepo repository.LedgerRepository,
	pdf QuotePDFGenerator,
	safetyMargin, markup decimal.Decimal,
) *UseCase {
	if safetyMargin.LessThanOrEqual(decimal.NewFromInt(1)) {
		safetyMargin = inventory.DefaultSafetyMargin
	}
	if markup.LessThanOrEqual(decimal.Zero) {
		markup = inventory.DefaultMarkup
	}
	return &UseCase{
		modelRepo:    modelRepo,
		filamentRepo: filamentRepo,
		lotRepo:      lotRepo,
		ledgerRepo:   ledgerRepo,
		pdf:          pdf,
		safetyMargin: safetyMargin,
		markup:       markup,
	}
}

// QuoteInput parámetros de la cotización.
type QuoteInput struct {
	ModelID          string
	FilamentID       string
	InfillPercentage *int
	Quantity         int
}

// QuoteModel calcula el precio estimado de imprimir un modelo con un
// filamento. Busca por FIFO un lote del filamento cuyo stock cubra el
// requerimiento con margen; el precio se calcula sobre el peso sin margen con
// el costo unitario del lote encontrado.
func (uc *UseCase) QuoteModel(ctx context.Context, in QuoteInput) (*Quote, error) {
	if in.ModelID == "" || in.FilamentID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	model, err := uc.modelRepo.GetByID(in.ModelID)
	if err != nil {
		return nil, err
	}
	filament, err := uc.filamentRepo.GetByID(in.FilamentID)
	if err != nil {
		return nil, err
	}
	if model == nil || filament == nil {
		return nil, domain.ErrNotFound
	}

	infillPct := int(model.BaseInfill.Mul(decimal.NewFromInt(100)).IntPart())
	multiplier := decimal.NewFromInt(1)
	if in.InfillPercentage != nil {
		infillPct = *in.InfillPercentage
		multiplier, err = pricing.InfillMultiplierForPercentage(infillPct, model.BaseInfill)
		if err != nil {
			return nil, err
		}
	}

	lots, err := uc.lotRepo.ListByFilament(in.FilamentID)
	if err != nil {
		return nil, err
	}
	if len(lots) == 0 {
		return nil, domain.ErrInsufficientInventory
	}
	// La densidad es atributo del lote; para estimar el requerimiento se usa
	// la del lote más antiguo del filamento (orden de compra ascendente).
	density := lots[0].Density

	weight, err := pricing.RequiredWeight(model.EstimatedPrintVolume, model.BaseInfill, multiplier, density, in.Quantity)
	if err != nil {
		return nil, err
	}

	// Margen plegado en el requerimiento: la búsqueda corre sin margen extra.
	margined := decimal.NewFromInt(int64(weight)).Mul(uc.safetyMargin)
	available, err := uc.ledgerRepo.FindForWeight(margined, "", in.FilamentID)
	if err != nil {
		return nil, err
	}
	if available == nil {
		// Ningún lote cubre el requerimiento: reportar el mejor saldo vigente
		// del filamento para que el faltante sea accionable.
		best := 0
		for _, l := range lots {
			latest, err := uc.ledgerRepo.LatestForLot(l.ID)
			if err != nil {
				return nil, err
			}
			if latest != nil && latest.QuantityAvailable > best {
				best = latest.QuantityAvailable
			}
		}
		return nil, &inventory.InsufficientInventoryError{NeededGrams: margined, AvailableGrams: best}
	}

	comps, err := pricing.PriceComponents(weight, available.Entry.UnitCost, available.WearAndTear, model.FixedCost, in.Quantity, uc.markup)
	if err != nil {
		return nil, err
	}

	return &Quote{
		ModelID:      model.ID,
		FilamentID:   filament.ID,
		LotID:        available.Entry.LotID,
		Quantity:     in.Quantity,
		InfillPct:    infillPct,
		Weight:       comps.Weight,
		MaterialCost: comps.MaterialCost,
		FixedCost:    comps.FixedCost,
		CostOfGoods:  comps.CostOfGoods,
		Price:        comps.SellPrice,
	}, nil
}

// QuotePDF genera el documento PDF de la cotización.
func (uc *UseCase) QuotePDF(ctx context.Context, in QuoteInput) ([]byte, error) {
	quote, err := uc.QuoteModel(ctx, in)
	if err != nil {
		return nil, err
	}
	model, err := uc.modelRepo.GetByID(quote.ModelID)
	if err != nil {
		return nil, err
	}
	filament, err := uc.filamentRepo.GetByID(quote.FilamentID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateQuotePDF(ctx, quote, model, filament)
}
