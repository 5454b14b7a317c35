package inventory_test

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/taller3d/printforge-api/internal/application/inventory"
	"github.com/taller3d/printforge-api/internal/domain/entity"
	"github.com/taller3d/printforge-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: un store compartido respalda todos los repos, de modo que
// las operaciones dentro de una transacción simulada vean los mismos datos.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	lots      []*entity.RawMaterialLot
	entries   []*entity.InventoryLedgerEntry // orden de anexado = orden temporal
	items     map[string]*entity.OrderLineItem
	orders    map[string]*entity.Order
	suppliers map[string]*entity.Supplier
	filaments map[string]*entity.Filament
	models    map[string]*entity.PrintableModel
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:     make(map[string]*entity.OrderLineItem),
		orders:    make(map[string]*entity.Order),
		suppliers: make(map[string]*entity.Supplier),
		filaments: make(map[string]*entity.Filament),
		models:    make(map[string]*entity.PrintableModel),
	}
}

func (s *fakeStore) lot(id string) *entity.RawMaterialLot {
	for _, l := range s.lots {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// latestEntry devuelve la última entrada anexada de un lote (su lectura vigente).
func (s *fakeStore) latestEntry(lotID string) *entity.InventoryLedgerEntry {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].LotID == lotID {
			return s.entries[i]
		}
	}
	return nil
}

// ── LotRepository ─────────────────────────────────────────────────────────────

type fakeLotRepo struct {
	s *fakeStore
	// onLock se invoca en GetForUpdate justo antes de devolver el lote, para
	// simular a un competidor que confirma entre una lectura previa y la
	// adquisición del bloqueo.
	onLock func(lotID string)
}

var _ repository.LotRepository = (*fakeLotRepo)(nil)

func (r *fakeLotRepo) Create(lot *entity.RawMaterialLot) error {
	cp := *lot
	r.s.lots = append(r.s.lots, &cp)
	return nil
}

func (r *fakeLotRepo) GetByID(id string) (*entity.RawMaterialLot, error) {
	if l := r.s.lot(id); l != nil {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeLotRepo) GetForUpdate(id string) (*entity.RawMaterialLot, error) {
	if r.onLock != nil {
		r.onLock(id)
	}
	return r.GetByID(id)
}

func (r *fakeLotRepo) Update(lot *entity.RawMaterialLot) error {
	for i, l := range r.s.lots {
		if l.ID == lot.ID {
			cp := *lot
			r.s.lots[i] = &cp
			return nil
		}
	}
	return nil
}

func (r *fakeLotRepo) ListByFilament(filamentID string) ([]entity.RawMaterialLot, error) {
	var out []entity.RawMaterialLot
	for _, l := range r.s.lots {
		if l.FilamentID == filamentID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchasedAt.Before(out[j].PurchasedAt) })
	return out, nil
}

func (r *fakeLotRepo) List() ([]entity.RawMaterialLot, error) {
	out := make([]entity.RawMaterialLot, 0, len(r.s.lots))
	for _, l := range r.s.lots {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchasedAt.Before(out[j].PurchasedAt) })
	return out, nil
}

// ── LedgerRepository ──────────────────────────────────────────────────────────

type fakeLedgerRepo struct{ s *fakeStore }

var _ repository.LedgerRepository = (*fakeLedgerRepo)(nil)

func (r *fakeLedgerRepo) Append(entry *entity.InventoryLedgerEntry) error {
	cp := *entry
	r.s.entries = append(r.s.entries, &cp)
	return nil
}

func (r *fakeLedgerRepo) GetByID(id string) (*entity.InventoryLedgerEntry, error) {
	for _, e := range r.s.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLedgerRepo) LatestForLot(lotID string) (*entity.InventoryLedgerEntry, error) {
	if e := r.s.latestEntry(lotID); e != nil {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeLedgerRepo) AvailableLots() ([]entity.AvailableLot, error) {
	var out []entity.AvailableLot
	for _, e := range r.s.entries {
		if e.QuantityAvailable <= 0 {
			continue
		}
		lot := r.s.lot(e.LotID)
		out = append(out, entity.AvailableLot{
			Entry:          *e,
			FilamentID:     lot.FilamentID,
			LotPurchasedAt: lot.PurchasedAt,
			WearAndTear:    lot.WearAndTear,
			Density:        lot.Density,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LotPurchasedAt.Equal(out[j].LotPurchasedAt) {
			return out[i].LotPurchasedAt.Before(out[j].LotPurchasedAt)
		}
		return out[i].Entry.CreatedAt.After(out[j].Entry.CreatedAt)
	})
	return out, nil
}

// FindForWeight replica el contrato del adaptador SQL: solo cuenta la entrada
// vigente de cada lote, filtra por stock suficiente y elige la compra más
// antigua.
func (r *fakeLedgerRepo) FindForWeight(requiredGrams decimal.Decimal, lotID, filamentID string) (*entity.AvailableLot, error) {
	var best *entity.AvailableLot
	for _, lot := range r.s.lots {
		if lotID != "" && lot.ID != lotID {
			continue
		}
		if filamentID != "" && lot.FilamentID != filamentID {
			continue
		}
		latest := r.s.latestEntry(lot.ID)
		if latest == nil || latest.QuantityAvailable <= 0 {
			continue
		}
		if decimal.NewFromInt(int64(latest.QuantityAvailable)).LessThan(requiredGrams) {
			continue
		}
		if best == nil || lot.PurchasedAt.Before(best.LotPurchasedAt) {
			best = &entity.AvailableLot{
				Entry:          *latest,
				FilamentID:     lot.FilamentID,
				LotPurchasedAt: lot.PurchasedAt,
				WearAndTear:    lot.WearAndTear,
				Density:        lot.Density,
			}
		}
	}
	return best, nil
}

func (r *fakeLedgerRepo) CountForLot(lotID string) (int, error) {
	n := 0
	for _, e := range r.s.entries {
		if e.LotID == lotID {
			n++
		}
	}
	return n, nil
}

func (r *fakeLedgerRepo) UpdateEntry(entry *entity.InventoryLedgerEntry) error {
	for i, e := range r.s.entries {
		if e.ID == entry.ID {
			cp := *entry
			r.s.entries[i] = &cp
			return nil
		}
	}
	return nil
}

func (r *fakeLedgerRepo) ListByLot(lotID string) ([]entity.InventoryLedgerEntry, error) {
	var out []entity.InventoryLedgerEntry
	for i := len(r.s.entries) - 1; i >= 0; i-- {
		if r.s.entries[i].LotID == lotID {
			out = append(out, *r.s.entries[i])
		}
	}
	return out, nil
}

// ── LineItemRepository ────────────────────────────────────────────────────────

type fakeItemRepo struct{ s *fakeStore }

var _ repository.LineItemRepository = (*fakeItemRepo)(nil)

func (r *fakeItemRepo) Create(item *entity.OrderLineItem) error {
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) GetByID(id string) (*entity.OrderLineItem, error) {
	if it, ok := r.s.items[id]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeItemRepo) Update(item *entity.OrderLineItem) error {
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) Delete(id string) error {
	delete(r.s.items, id)
	return nil
}

func (r *fakeItemRepo) ListByOrder(orderID string) ([]entity.OrderLineItem, error) {
	var out []entity.OrderLineItem
	for _, it := range r.s.items {
		if it.OrderID != nil && *it.OrderID == orderID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) ExistsForLot(lotID string) (bool, error) {
	for _, it := range r.s.items {
		if it.LotID == lotID {
			return true, nil
		}
	}
	return false, nil
}

// ── OrderRepository ───────────────────────────────────────────────────────────

type fakeOrderRepo struct{ s *fakeStore }

var _ repository.OrderRepository = (*fakeOrderRepo)(nil)

func (r *fakeOrderRepo) Create(o *entity.Order) error {
	cp := *o
	r.s.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	if o, ok := r.s.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeOrderRepo) ListByUser(userID string) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range r.s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateTotals(o *entity.Order) error {
	if stored, ok := r.s.orders[o.ID]; ok {
		stored.TotalPrice = o.TotalPrice
		stored.EstimatedShipDate = o.EstimatedShipDate
	}
	return nil
}

// ── Repos de catálogo ─────────────────────────────────────────────────────────

type fakeSupplierRepo struct{ s *fakeStore }

var _ repository.SupplierRepository = (*fakeSupplierRepo)(nil)

func (r *fakeSupplierRepo) Create(sp *entity.Supplier) error {
	cp := *sp
	r.s.suppliers[sp.ID] = &cp
	return nil
}

func (r *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	if sp, ok := r.s.suppliers[id]; ok {
		cp := *sp
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeSupplierRepo) List() ([]entity.Supplier, error) { return nil, nil }

type fakeFilamentRepo struct{ s *fakeStore }

var _ repository.FilamentRepository = (*fakeFilamentRepo)(nil)

func (r *fakeFilamentRepo) Create(f *entity.Filament) error {
	cp := *f
	r.s.filaments[f.ID] = &cp
	return nil
}

func (r *fakeFilamentRepo) GetByID(id string) (*entity.Filament, error) {
	if f, ok := r.s.filaments[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeFilamentRepo) ListByMaterial(materialID string) ([]entity.Filament, error) { return nil, nil }
func (r *fakeFilamentRepo) List() ([]entity.Filament, error)                            { return nil, nil }

type fakeModelRepo struct{ s *fakeStore }

var _ repository.ModelRepository = (*fakeModelRepo)(nil)

func (r *fakeModelRepo) Create(m *entity.PrintableModel) error {
	cp := *m
	r.s.models[m.ID] = &cp
	return nil
}

func (r *fakeModelRepo) GetByID(id string) (*entity.PrintableModel, error) {
	if m, ok := r.s.models[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeModelRepo) List() ([]entity.PrintableModel, error) { return nil, nil }
func (r *fakeModelRepo) Update(m *entity.PrintableModel) error  { return r.Create(m) }

// ── TxRunner ──────────────────────────────────────────────────────────────────

// fakeTxRunner ejecuta fn directamente sobre los fakes. Las operaciones que
// rechazan verifican antes de escribir, así que no hace falta rollback.
type fakeTxRunner struct {
	s      *fakeStore
	onLock func(lotID string)
}

var _ inventory.TxRunner = (*fakeTxRunner)(nil)

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	ledgerRepo repository.LedgerRepository,
	itemRepo repository.LineItemRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return fn(&fakeLotRepo{s: t.s, onLock: t.onLock}, &fakeLedgerRepo{t.s}, &fakeItemRepo{t.s}, &fakeOrderRepo{t.s})
}
