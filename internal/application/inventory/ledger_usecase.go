package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/taller3d/printforge-api/internal/domain"
	"github.com/taller3d/printforge-api/internal/domain/entity"
	"github.com/taller3d/printforge-api/internal/domain/repository"
)

// DefaultSafetyMargin factor multiplicativo por defecto sobre el peso
// requerido antes de verificar suficiencia de un lote. Absorbe desperdicio de
// impresión y error de medición.
var DefaultSafetyMargin = decimal.RequireFromString("1.15")

var one = decimal.NewFromInt(1)

// LedgerUseCase administra lotes de materia prima y su ledger append-only:
// alta de lotes, ventana de corrección, disponibilidad y búsqueda FIFO.
type LedgerUseCase struct {
	txRunner     TxRunner
	lotRepo      repository.LotRepository
	ledgerRepo   repository.LedgerRepository
	supplierRepo repository.SupplierRepository
	filamentRepo repository.FilamentRepository
	safetyMargin decimal.Decimal
}

// NewLedgerUseCase construye el caso de uso. safetyMargin <= 1 usa el default.
func NewLedgerUseCase(
	txRunner TxRunner,
	lotRepo repository.LotRepository,
	ledgerRepo repository.LedgerRepository,
	supplierRepo repository.SupplierRepository,
	filamentRepo repository.FilamentRepository,
	safetyMargin decimal.Decimal,
) *LedgerUseCase {
	if safetyMargin.LessThanOrEqual(one) {
		safetyMargin = DefaultSafetyMargin
	}
	return &LedgerUseCase{
		txRunner:     txRunner,
		lotRepo:      lotRepo,
		ledgerRepo:   ledgerRepo,
		supplierRepo: supplierRepo,
		filamentRepo: filamentRepo,
		safetyMargin: safetyMargin,
	}
}

// ReceiveLotInput alta de un lote comprado.
type ReceiveLotInput struct {
	SupplierID      string
	FilamentID      string
	BrandName       *string
	Cost            decimal.Decimal
	WeightPurchased int
	Density         decimal.Decimal
	ReorderLeadTime int
	WearAndTear     decimal.Decimal
}

func (in ReceiveLotInput) validate() error {
	if in.SupplierID == "" || in.FilamentID == "" {
		return domain.ErrInvalidInput
	}
	if in.WeightPurchased <= 0 || in.ReorderLeadTime < 0 {
		return domain.ErrInvalidInput
	}
	if in.Cost.IsNegative() || !in.Density.IsPositive() || in.WearAndTear.LessThan(one) {
		return domain.ErrInvalidInput
	}
	return nil
}

// ReceiveLot crea el lote y su entrada inicial de ledger con el peso comprado
// completo, en una sola transacción. El costo unitario (moneda/gramo) queda
// fijado por la compra y acompaña al lote en todas sus entradas.
func (uc *LedgerUseCase) ReceiveLot(ctx context.Context, in ReceiveLotInput) (*entity.RawMaterialLot, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	filament, err := uc.filamentRepo.GetByID(in.FilamentID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || filament == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	lot := &entity.RawMaterialLot{
		ID:              uuid.New().String(),
		SupplierID:      in.SupplierID,
		FilamentID:      in.FilamentID,
		BrandName:       in.BrandName,
		Cost:            in.Cost,
		WeightPurchased: in.WeightPurchased,
		Density:         in.Density,
		ReorderLeadTime: in.ReorderLeadTime,
		WearAndTear:     in.WearAndTear,
		PurchasedAt:     now,
	}

	err = uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LedgerRepository,
		_ repository.LineItemRepository,
		_ repository.OrderRepository,
	) error {
		if err := lotRepo.Create(lot); err != nil {
			return err
		}
		entry := &entity.InventoryLedgerEntry{
			ID:                uuid.New().String(),
			LotID:             lot.ID,
			QuantityAvailable: lot.WeightPurchased,
			UnitCost:          lot.UnitCost(),
			CreatedAt:         now,
		}
		return ledgerRepo.Append(entry)
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// UpdateLotInput corrección de un lote existente.
type UpdateLotInput struct {
	BrandName       *string
	Cost            decimal.Decimal
	WeightPurchased int
	Density         decimal.Decimal
	ReorderLeadTime int
	WearAndTear     decimal.Decimal
}

// UpdateLot edita un lote. Si el lote tiene exactamente una entrada de ledger
// y ningún ítem de pedido ha consumido de él, la compra se trata como un
// error de digitación: la entrada única se corrige en sitio con el nuevo peso
// y costo unitario. Es la única excepción a la inmutabilidad del ledger. En
// cualquier otro caso la edición del lote no altera el historial.
func (uc *LedgerUseCase) UpdateLot(ctx context.Context, id string, in UpdateLotInput) (*entity.RawMaterialLot, error) {
	if in.WeightPurchased <= 0 || in.Cost.IsNegative() || !in.Density.IsPositive() || in.WearAndTear.LessThan(one) {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.RawMaterialLot
	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LedgerRepository,
		itemRepo repository.LineItemRepository,
		_ repository.OrderRepository,
	) error {
		lot, err := lotRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}

		lot.BrandName = in.BrandName
		lot.Cost = in.Cost
		lot.WeightPurchased = in.WeightPurchased
		lot.Density = in.Density
		lot.ReorderLeadTime = in.ReorderLeadTime
		lot.WearAndTear = in.WearAndTear
		if err := lotRepo.Update(lot); err != nil {
			return err
		}

		entries, err := ledgerRepo.CountForLot(lot.ID)
		if err != nil {
			return err
		}
		consumed, err := itemRepo.ExistsForLot(lot.ID)
		if err != nil {
			return err
		}
		if entries == 1 && !consumed {
			entry, err := ledgerRepo.LatestForLot(lot.ID)
			if err != nil {
				return err
			}
			entry.QuantityAvailable = lot.WeightPurchased
			entry.UnitCost = lot.UnitCost()
			if err := ledgerRepo.UpdateEntry(entry); err != nil {
				return err
			}
		}
		updated = lot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetLot devuelve el lote con su lectura de stock vigente.
func (uc *LedgerUseCase) GetLot(ctx context.Context, id string) (*entity.RawMaterialLot, *entity.InventoryLedgerEntry, error) {
	lot, err := uc.lotRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if lot == nil {
		return nil, nil, domain.ErrNotFound
	}
	latest, err := uc.ledgerRepo.LatestForLot(id)
	if err != nil {
		return nil, nil, err
	}
	return lot, latest, nil
}

// ListLots devuelve todos los lotes.
func (uc *LedgerUseCase) ListLots(ctx context.Context) ([]entity.RawMaterialLot, error) {
	return uc.lotRepo.List()
}

// History devuelve el historial completo del ledger de un lote, más reciente
// primero.
func (uc *LedgerUseCase) History(ctx context.Context, lotID string) ([]entity.InventoryLedgerEntry, error) {
	lot, err := uc.lotRepo.GetByID(lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	return uc.ledgerRepo.ListByLot(lotID)
}

// AvailableLots devuelve las entradas con stock > 0 en orden FIFO: fecha de
// compra del lote ascendente, entrada más reciente primero dentro de cada
// lote.
func (uc *LedgerUseCase) AvailableLots(ctx context.Context) ([]entity.AvailableLot, error) {
	return uc.ledgerRepo.AvailableLots()
}

// FindLotForWeight busca el lote comprado más antiguo cuyo stock vigente
// cubre requiredWeight × margin. margin <= 0 usa el margen configurado;
// margin 1 busca sin margen.
// nil-sin-error significa que ningún lote alcanza: el caller debe rechazar la
// operación informando gramos necesarios vs disponibles.
func (uc *LedgerUseCase) FindLotForWeight(ctx context.Context, requiredWeight int, margin decimal.Decimal, lotID, filamentID string) (*entity.AvailableLot, error) {
	if requiredWeight <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if margin.LessThanOrEqual(decimal.Zero) {
		margin = uc.safetyMargin
	}
	margined := decimal.NewFromInt(int64(requiredWeight)).Mul(margin)
	return uc.ledgerRepo.FindForWeight(margined, lotID, filamentID)
}

// SafetyMargin expone el margen configurado (para los servicios que lo
// aplican a un requerimiento antes de buscar).
func (uc *LedgerUseCase) SafetyMargin() decimal.Decimal {
	return uc.safetyMargin
}
