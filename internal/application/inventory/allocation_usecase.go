package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/taller3d/printforge-api/internal/domain"
	"github.com/taller3d/printforge-api/internal/domain/entity"
	"github.com/taller3d/printforge-api/internal/domain/pricing"
	"github.com/taller3d/printforge-api/internal/domain/repository"
)

// DefaultMarkup margen de venta por defecto sobre el costo.
var DefaultMarkup = decimal.RequireFromString("1.15")

// InsufficientInventoryError detalla el faltante para el mensaje al usuario:
// gramos necesarios (margen incluido) contra gramos disponibles. Nunca se
// sustituye en silencio una cantidad menor.
type InsufficientInventoryError struct {
	NeededGrams    decimal.Decimal
	AvailableGrams int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("inventario insuficiente: se necesitan %sg (margen incluido) y hay %dg disponibles",
		e.NeededGrams.StringFixed(2), e.AvailableGrams)
}

// Unwrap permite errors.Is(err, domain.ErrInsufficientInventory).
func (e *InsufficientInventoryError) Unwrap() error { return domain.ErrInsufficientInventory }

// AllocationUseCase maneja el ciclo de vida de los ítems de pedido contra el
// ledger: compromiso (consume inventario), liberación (lo devuelve) y cambio
// de cantidad. Cada operación corre completa dentro de una transacción con la
// fila del lote bloqueada, cerrando la carrera leer-luego-escribir entre
// asignadores concurrentes.
type AllocationUseCase struct {
	txRunner     TxRunner
	modelRepo    repository.ModelRepository
	lotRepo      repository.LotRepository
	safetyMargin decimal.Decimal
	markup       decimal.Decimal
}

// NewAllocationUseCase construye el servicio. Márgenes <= 1 usan los defaults.
func NewAllocationUseCase(
	txRunner TxRunner,
	modelRepo repository.ModelRepository,
	lotRepo repository.LotRepository,
	safetyMargin, markup decimal.Decimal,
) *AllocationUseCase {
	if safetyMargin.LessThanOrEqual(one) {
		safetyMargin = DefaultSafetyMargin
	}
	if markup.LessThanOrEqual(decimal.Zero) {
		markup = DefaultMarkup
	}
	return &AllocationUseCase{
		txRunner:     txRunner,
		modelRepo:    modelRepo,
		lotRepo:      lotRepo,
		safetyMargin: safetyMargin,
		markup:       markup,
	}
}

// CommitLineItemInput entrada para comprometer un ítem.
// InfillPercentage nil usa el relleno base del modelo (multiplicador 1).
type CommitLineItemInput struct {
	OrderID          *string
	ModelID          string
	LotID            string
	InfillPercentage *int
	Quantity         int
	IsCustom         bool
}

// CommitLineItem calcula peso y precio, verifica suficiencia del lote con el
// margen de seguridad y, en una sola transacción, anexa la entrada de consumo
// al ledger y persiste el ítem. Si el lote elegido no alcanza pero otro lote
// del mismo filamento sí, el ítem se reapunta de forma transparente antes de
// persistir. Si ningún lote alcanza, todo el compromiso se rechaza: sin
// estado parcial.
func (uc *AllocationUseCase) CommitLineItem(ctx context.Context, in CommitLineItemInput) (*entity.OrderLineItem, error) {
	if in.ModelID == "" || in.LotID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	model, err := uc.modelRepo.GetByID(in.ModelID)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, domain.ErrNotFound
	}

	multiplier := one
	if in.InfillPercentage != nil {
		multiplier, err = pricing.InfillMultiplierForPercentage(*in.InfillPercentage, model.BaseInfill)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	var committed *entity.OrderLineItem

	err = uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LedgerRepository,
		itemRepo repository.LineItemRepository,
		orderRepo repository.OrderRepository,
	) error {
		lot, err := lotRepo.GetForUpdate(in.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}

		lot, entry, weight, err := uc.allocate(ledgerRepo, lotRepo, lot, model, multiplier, in.Quantity)
		if err != nil {
			return err
		}

		comps, err := pricing.PriceComponents(weight, entry.UnitCost, lot.WearAndTear, model.FixedCost, in.Quantity, uc.markup)
		if err != nil {
			return err
		}

		consume := &entity.InventoryLedgerEntry{
			ID:                uuid.New().String(),
			LotID:             lot.ID,
			QuantityAvailable: entry.QuantityAvailable - weight,
			UnitCost:          entry.UnitCost,
			CreatedAt:         now,
		}
		if err := ledgerRepo.Append(consume); err != nil {
			return err
		}

		item := &entity.OrderLineItem{
			ID:               uuid.New().String(),
			OrderID:          in.OrderID,
			ModelID:          model.ID,
			LotID:            lot.ID,
			InfillMultiplier: multiplier,
			Quantity:         in.Quantity,
			IsCustom:         in.IsCustom,
			TotalWeight:      weight,
			CostOfGoodsSold:  comps.CostOfGoods,
			Markup:           uc.markup,
			ItemPrice:        comps.SellPrice,
			CreatedAt:        now,
		}
		if err := itemRepo.Create(item); err != nil {
			return err
		}
		if err := refreshOrderTotals(itemRepo, orderRepo, in.OrderID); err != nil {
			return err
		}
		committed = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}

// allocate decide el lote definitivo para el requerimiento: primero el lote
// bloqueado; si su lectura vigente no cubre el peso con margen, busca otro
// lote del mismo filamento (reasignación transparente). Devuelve el lote
// elegido, su lectura vigente y el peso total recalculado con la densidad de
// ese lote.
func (uc *AllocationUseCase) allocate(
	ledgerRepo repository.LedgerRepository,
	lotRepo repository.LotRepository,
	lot *entity.RawMaterialLot,
	model *entity.PrintableModel,
	multiplier decimal.Decimal,
	quantity int,
) (*entity.RawMaterialLot, *entity.InventoryLedgerEntry, int, error) {
	weight, err := pricing.RequiredWeight(model.EstimatedPrintVolume, model.BaseInfill, multiplier, lot.Density, quantity)
	if err != nil {
		return nil, nil, 0, err
	}
	margined := decimal.NewFromInt(int64(weight)).Mul(uc.safetyMargin)

	entry, err := ledgerRepo.LatestForLot(lot.ID)
	if err != nil {
		return nil, nil, 0, err
	}
	available := 0
	if entry != nil {
		available = entry.QuantityAvailable
	}
	if entry != nil && decimal.NewFromInt(int64(available)).GreaterThanOrEqual(margined) {
		return lot, entry, weight, nil
	}

	// Reasignación: otro lote del mismo filamento que sí cubra el margen.
	alt, err := ledgerRepo.FindForWeight(margined, "", lot.FilamentID)
	if err != nil {
		return nil, nil, 0, err
	}
	if alt == nil {
		return nil, nil, 0, &InsufficientInventoryError{NeededGrams: margined, AvailableGrams: available}
	}

	altLot, err := lotRepo.GetForUpdate(alt.Entry.LotID)
	if err != nil {
		return nil, nil, 0, err
	}
	if altLot == nil {
		return nil, nil, 0, domain.ErrNotFound
	}
	// La búsqueda leyó el ledger antes de adquirir el bloqueo: otro asignador
	// pudo consumir del mismo lote y confirmar en medio. Con la fila ya
	// bloqueada se relee la entrada vigente y se decide sobre ella, nunca
	// sobre la lectura previa al bloqueo.
	altEntry, err := ledgerRepo.LatestForLot(altLot.ID)
	if err != nil {
		return nil, nil, 0, err
	}
	altAvailable := 0
	if altEntry != nil {
		altAvailable = altEntry.QuantityAvailable
	}
	// La densidad es atributo del lote: recalcular el peso con el lote
	// reasignado y reverificar el margen contra su stock.
	weight, err = pricing.RequiredWeight(model.EstimatedPrintVolume, model.BaseInfill, multiplier, altLot.Density, quantity)
	if err != nil {
		return nil, nil, 0, err
	}
	margined = decimal.NewFromInt(int64(weight)).Mul(uc.safetyMargin)
	if altEntry == nil || decimal.NewFromInt(int64(altAvailable)).LessThan(margined) {
		return nil, nil, 0, &InsufficientInventoryError{NeededGrams: margined, AvailableGrams: altAvailable}
	}
	return altLot, altEntry, weight, nil
}

// ReleaseLineItem borra el ítem y devuelve su peso total al mismo lote del
// que se consumió, como nueva entrada del ledger. La devolución siempre va al
// lote original, sin importar el orden FIFO vigente.
func (uc *AllocationUseCase) ReleaseLineItem(ctx context.Context, itemID string) error {
	if itemID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LedgerRepository,
		itemRepo repository.LineItemRepository,
		orderRepo repository.OrderRepository,
	) error {
		item, err := itemRepo.GetByID(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if _, err := lotRepo.GetForUpdate(item.LotID); err != nil {
			return err
		}
		entry, err := ledgerRepo.LatestForLot(item.LotID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrConflict
		}
		restore := &entity.InventoryLedgerEntry{
			ID:                uuid.New().String(),
			LotID:             item.LotID,
			QuantityAvailable: entry.QuantityAvailable + item.TotalWeight,
			UnitCost:          entry.UnitCost,
			CreatedAt:         now,
		}
		if err := ledgerRepo.Append(restore); err != nil {
			return err
		}
		if err := itemRepo.Delete(item.ID); err != nil {
			return err
		}
		return refreshOrderTotals(itemRepo, orderRepo, item.OrderID)
	})
}

// RequantifyLineItem cambia la cantidad de un ítem comprometido: recalcula el
// requerimiento con la nueva cantidad y reasigna contra el lote actual
// primero (acreditándole el peso ya consumido por el ítem); solo si no
// alcanza busca otro lote del mismo filamento. Si nada califica, el cambio se
// rechaza y el ítem conserva su cantidad previa: sin actualización parcial.
func (uc *AllocationUseCase) RequantifyLineItem(ctx context.Context, itemID string, newQuantity int) (*entity.OrderLineItem, error) {
	if itemID == "" || newQuantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var updated *entity.OrderLineItem

	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LedgerRepository,
		itemRepo repository.LineItemRepository,
		orderRepo repository.OrderRepository,
	) error {
		item, err := itemRepo.GetByID(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		model, err := uc.modelRepo.GetByID(item.ModelID)
		if err != nil {
			return err
		}
		if model == nil {
			return domain.ErrNotFound
		}
		lot, err := lotRepo.GetForUpdate(item.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		entry, err := ledgerRepo.LatestForLot(item.LotID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrConflict
		}

		newWeight, err := pricing.RequiredWeight(model.EstimatedPrintVolume, model.BaseInfill, item.InfillMultiplier, lot.Density, newQuantity)
		if err != nil {
			return err
		}
		margined := decimal.NewFromInt(int64(newWeight)).Mul(uc.safetyMargin)

		// El propio consumo del ítem cuenta como disponible: al recomprometer
		// se devuelve y se vuelve a consumir en el mismo movimiento.
		effective := entry.QuantityAvailable + item.TotalWeight

		if decimal.NewFromInt(int64(effective)).GreaterThanOrEqual(margined) {
			next := &entity.InventoryLedgerEntry{
				ID:                uuid.New().String(),
				LotID:             lot.ID,
				QuantityAvailable: effective - newWeight,
				UnitCost:          entry.UnitCost,
				CreatedAt:         now,
			}
			if err := ledgerRepo.Append(next); err != nil {
				return err
			}
			comps, err := pricing.PriceComponents(newWeight, entry.UnitCost, lot.WearAndTear, model.FixedCost, newQuantity, item.Markup)
			if err != nil {
				return err
			}
			item.Quantity = newQuantity
			item.TotalWeight = newWeight
			item.CostOfGoodsSold = comps.CostOfGoods
			item.ItemPrice = comps.SellPrice
			if err := itemRepo.Update(item); err != nil {
				return err
			}
			if err := refreshOrderTotals(itemRepo, orderRepo, item.OrderID); err != nil {
				return err
			}
			updated = item
			return nil
		}

		// El lote actual no cubre la nueva cantidad: buscar otro lote del
		// mismo filamento antes de rechazar.
		alt, err := ledgerRepo.FindForWeight(margined, "", lot.FilamentID)
		if err != nil {
			return err
		}
		if alt == nil || alt.Entry.LotID == lot.ID {
			return &InsufficientInventoryError{NeededGrams: margined, AvailableGrams: effective}
		}
		altLot, err := lotRepo.GetForUpdate(alt.Entry.LotID)
		if err != nil {
			return err
		}
		if altLot == nil {
			return domain.ErrNotFound
		}
		// Releer la entrada vigente tras adquirir el bloqueo: la búsqueda
		// corrió sin él y su lectura puede estar desactualizada.
		altEntry, err := ledgerRepo.LatestForLot(altLot.ID)
		if err != nil {
			return err
		}
		altAvailable := 0
		if altEntry != nil {
			altAvailable = altEntry.QuantityAvailable
		}
		altWeight, err := pricing.RequiredWeight(model.EstimatedPrintVolume, model.BaseInfill, item.InfillMultiplier, altLot.Density, newQuantity)
		if err != nil {
			return err
		}
		altMargined := decimal.NewFromInt(int64(altWeight)).Mul(uc.safetyMargin)
		if altEntry == nil || decimal.NewFromInt(int64(altAvailable)).LessThan(altMargined) {
			return &InsufficientInventoryError{NeededGrams: altMargined, AvailableGrams: altAvailable}
		}

		// Devolver el peso previo al lote original y consumir del nuevo.
		restore := &entity.InventoryLedgerEntry{
			ID:                uuid.New().String(),
			LotID:             lot.ID,
			QuantityAvailable: effective,
			UnitCost:          entry.UnitCost,
			CreatedAt:         now,
		}
		if err := ledgerRepo.Append(restore); err != nil {
			return err
		}
		consume := &entity.InventoryLedgerEntry{
			ID:                uuid.New().String(),
			LotID:             altLot.ID,
			QuantityAvailable: altAvailable - altWeight,
			UnitCost:          altEntry.UnitCost,
			CreatedAt:         now,
		}
		if err := ledgerRepo.Append(consume); err != nil {
			return err
		}

		comps, err := pricing.PriceComponents(altWeight, altEntry.UnitCost, altLot.WearAndTear, model.FixedCost, newQuantity, item.Markup)
		if err != nil {
			return err
		}
		item.LotID = altLot.ID
		item.Quantity = newQuantity
		item.TotalWeight = altWeight
		item.CostOfGoodsSold = comps.CostOfGoods
		item.ItemPrice = comps.SellPrice
		if err := itemRepo.Update(item); err != nil {
			return err
		}
		if err := refreshOrderTotals(itemRepo, orderRepo, item.OrderID); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// refreshOrderTotals recalcula el precio total del pedido como la suma de los
// precios de sus ítems. No-op para ítems sin pedido (galería, cotizaciones).
func refreshOrderTotals(itemRepo repository.LineItemRepository, orderRepo repository.OrderRepository, orderID *string) error {
	if orderID == nil {
		return nil
	}
	order, err := orderRepo.GetByID(*orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	items, err := itemRepo.ListByOrder(order.ID)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.ItemPrice)
	}
	order.TotalPrice = total
	return orderRepo.UpdateTotals(order)
}
