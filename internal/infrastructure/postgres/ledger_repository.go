package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/taller3d/printforge-api/internal/domain/entity"
	"github.com/taller3d/printforge-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación de LedgerRepository sobre PostgreSQL. El ledger es
// append-only: el stock vigente de un lote es su entrada más reciente.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del ledger de inventario.
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const entryColumns = `id, lot_id, quantity_available, unit_cost, created_at`

func scanEntry(row pgx.Row) (*entity.InventoryLedgerEntry, error) {
	var e entity.InventoryLedgerEntry
	err := row.Scan(&e.ID, &e.LotID, &e.QuantityAvailable, &e.UnitCost, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Append anexa una entrada al ledger.
func (r *LedgerRepo) Append(entry *entity.InventoryLedgerEntry) error {
	query := `
		INSERT INTO inventory_ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.LotID, entry.QuantityAvailable, entry.UnitCost, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID.
func (r *LedgerRepo) GetByID(id string) (*entity.InventoryLedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM inventory_ledger_entries WHERE id = $1`
	entry, err := scanEntry(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return entry, nil
}

// LatestForLot obtiene la entrada vigente (más reciente) de un lote.
func (r *LedgerRepo) LatestForLot(lotID string) (*entity.InventoryLedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM inventory_ledger_entries
		WHERE lot_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`
	entry, err := scanEntry(r.q.QueryRow(context.Background(), query, lotID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest ledger entry: %w", err)
	}
	return entry, nil
}

const availableLotSelect = `
	SELECT e.id, e.lot_id, e.quantity_available, e.unit_cost, e.created_at,
	       l.filament_id, l.purchased_at, l.wear_and_tear, l.density
	FROM inventory_ledger_entries e
	JOIN raw_material_lots l ON l.id = e.lot_id`

func scanAvailableLot(row pgx.Row) (*entity.AvailableLot, error) {
	var a entity.AvailableLot
	err := row.Scan(
		&a.Entry.ID, &a.Entry.LotID, &a.Entry.QuantityAvailable, &a.Entry.UnitCost, &a.Entry.CreatedAt,
		&a.FilamentID, &a.LotPurchasedAt, &a.WearAndTear, &a.Density,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AvailableLots lista entradas con stock junto a su lote, compra más antigua
// primero y dentro de cada lote la entrada más reciente primero.
func (r *LedgerRepo) AvailableLots() ([]entity.AvailableLot, error) {
	query := availableLotSelect + `
	WHERE e.quantity_available > 0
	ORDER BY l.purchased_at ASC, e.created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list available lots: %w", err)
	}
	defer rows.Close()

	var out []entity.AvailableLot
	for rows.Next() {
		a, err := scanAvailableLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan available lot: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// FindForWeight busca el lote más antiguo cuya entrada vigente cubre el peso
// requerido. Solo cuenta la entrada vigente de cada lote (DISTINCT ON): una
// entrada vieja con saldo mayor ya consumido no debe satisfacer la búsqueda.
// Bloquea la fila del lote elegido para que la decisión sobreviva hasta el
// consumo dentro de la misma transacción.
func (r *LedgerRepo) FindForWeight(requiredGrams decimal.Decimal, lotID, filamentID string) (*entity.AvailableLot, error) {
	query := `
	SELECT * FROM (
		SELECT DISTINCT ON (e.lot_id)
		       e.id, e.lot_id, e.quantity_available, e.unit_cost, e.created_at,
		       l.filament_id, l.purchased_at, l.wear_and_tear, l.density
		FROM inventory_ledger_entries e
		JOIN raw_material_lots l ON l.id = e.lot_id
		WHERE ($2 = '' OR e.lot_id = $2::uuid)
		  AND ($3 = '' OR l.filament_id = $3::uuid)
		ORDER BY e.lot_id, e.created_at DESC, e.id DESC
	) latest
	WHERE latest.quantity_available > 0
	  AND latest.quantity_available >= $1
	ORDER BY latest.purchased_at ASC
	LIMIT 1`
	a, err := scanAvailableLot(r.q.QueryRow(context.Background(), query, requiredGrams, lotID, filamentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find lot for weight: %w", err)
	}

	// DISTINCT ON no admite FOR UPDATE; se bloquea el lote elegido aparte.
	lock := `SELECT id FROM raw_material_lots WHERE id = $1 FOR UPDATE`
	var locked string
	if err := r.q.QueryRow(context.Background(), lock, a.Entry.LotID).Scan(&locked); err != nil {
		return nil, fmt.Errorf("lock lot %s: %w", a.Entry.LotID, err)
	}
	return a, nil
}

// CountForLot cuenta las entradas de un lote. Una sola entrada significa que
// el lote nunca se consumió y su entrada inicial aún puede corregirse.
func (r *LedgerRepo) CountForLot(lotID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM inventory_ledger_entries WHERE lot_id = $1`
	if err := r.q.QueryRow(context.Background(), query, lotID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ledger entries: %w", err)
	}
	return n, nil
}

// UpdateEntry corrige una entrada existente. Única mutación permitida sobre el
// ledger, reservada a la ventana de corrección de un lote recién recibido.
func (r *LedgerRepo) UpdateEntry(entry *entity.InventoryLedgerEntry) error {
	query := `
		UPDATE inventory_ledger_entries
		SET quantity_available = $2, unit_cost = $3
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, entry.ID, entry.QuantityAvailable, entry.UnitCost)
	if err != nil {
		return fmt.Errorf("update ledger entry: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListByLot lista el historial completo de un lote, más reciente primero.
func (r *LedgerRepo) ListByLot(lotID string) ([]entity.InventoryLedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM inventory_ledger_entries
		WHERE lot_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(context.Background(), query, lotID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []entity.InventoryLedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}
