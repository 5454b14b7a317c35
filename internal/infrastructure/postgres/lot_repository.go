package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taller3d/printforge-api/internal/domain/entity"
	"github.com/taller3d/printforge-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, supplier_id, filament_id, brand_name, cost, weight_purchased, density, reorder_lead_time, wear_and_tear, purchased_at`

func scanLot(row pgx.Row) (*entity.RawMaterialLot, error) {
	var l entity.RawMaterialLot
	err := row.Scan(
		&l.ID, &l.SupplierID, &l.FilamentID, &l.BrandName, &l.Cost,
		&l.WeightPurchased, &l.Density, &l.ReorderLeadTime, &l.WearAndTear, &l.PurchasedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste un lote.
func (r *LotRepo) Create(lot *entity.RawMaterialLot) error {
	query := `
		INSERT INTO raw_material_lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.SupplierID, lot.FilamentID, lot.BrandName, lot.Cost,
		lot.WeightPurchased, lot.Density, lot.ReorderLeadTime, lot.WearAndTear, lot.PurchasedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *LotRepo) GetByID(id string) (*entity.RawMaterialLot, error) {
	query := `SELECT ` + lotColumns + ` FROM raw_material_lots WHERE id = $1`
	lot, err := scanLot(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return lot, nil
}

// GetForUpdate obtiene el lote y bloquea su fila (SELECT FOR UPDATE). Bajo
// este bloqueo corre completa la secuencia leer-disponibilidad → decidir →
// anexar-consumo del asignador.
func (r *LotRepo) GetForUpdate(id string) (*entity.RawMaterialLot, error) {
	query := `SELECT ` + lotColumns + ` FROM raw_material_lots WHERE id = $1 FOR UPDATE`
	lot, err := scanLot(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot for update: %w", err)
	}
	return lot, nil
}

// Update actualiza un lote (ventana de corrección; el ledger se maneja aparte).
func (r *LotRepo) Update(lot *entity.RawMaterialLot) error {
	query := `
		UPDATE raw_material_lots
		SET brand_name = $2, cost = $3, weight_purchased = $4, density = $5, reorder_lead_time = $6, wear_and_tear = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.BrandName, lot.Cost, lot.WeightPurchased, lot.Density, lot.ReorderLeadTime, lot.WearAndTear,
	)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListByFilament lista los lotes de un filamento, compra más antigua primero (orden FIFO).
func (r *LotRepo) ListByFilament(filamentID string) ([]entity.RawMaterialLot, error) {
	query := `SELECT ` + lotColumns + ` FROM raw_material_lots WHERE filament_id = $1 ORDER BY purchased_at ASC`
	return r.list(query, filamentID)
}

// List lista todos los lotes, compra más antigua primero.
func (r *LotRepo) List() ([]entity.RawMaterialLot, error) {
	query := `SELECT ` + lotColumns + ` FROM raw_material_lots ORDER BY purchased_at ASC`
	return r.list(query)
}

func (r *LotRepo) list(query string, args ...any) ([]entity.RawMaterialLot, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	var lots []entity.RawMaterialLot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lots = append(lots, *lot)
	}
	return lots, rows.Err()
}
