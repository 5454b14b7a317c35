package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taller3d/printforge-api/internal/domain"
	"github.com/taller3d/printforge-api/internal/domain/entity"
	"github.com/taller3d/printforge-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL.
type MaterialRepo struct {
	q Querier
}

func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

func (r *MaterialRepo) Create(m *entity.Material) error {
	query := `INSERT INTO materials (id, name, created_at) VALUES ($1, $2, $3)`
	_, err := r.q.Exec(context.Background(), query, m.ID, m.Name, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

func (r *MaterialRepo) GetByID(id string) (*entity.Material, error) {
	var m entity.Material
	query := `SELECT id, name, created_at FROM materials WHERE id = $1`
	err := r.q.QueryRow(context.Background(), query, id).Scan(&m.ID, &m.Name, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return &m, nil
}

func (r *MaterialRepo) List() ([]entity.Material, error) {
	query := `SELECT id, name, created_at FROM materials ORDER BY name ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var materials []entity.Material
	for rows.Next() {
		var m entity.Material
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

var _ repository.FilamentRepository = (*FilamentRepo)(nil)

// FilamentRepo implementación de FilamentRepository sobre PostgreSQL.
type FilamentRepo struct {
	q Querier
}

func NewFilamentRepository(q Querier) *FilamentRepo {
	return &FilamentRepo{q: q}
}

const filamentColumns = `id, material_id, name, color_hex, created_at`

func (r *FilamentRepo) Create(f *entity.Filament) error {
	query := `INSERT INTO filaments (` + filamentColumns + `) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query, f.ID, f.MaterialID, f.Name, f.ColorHex, f.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert filament: %w", err)
	}
	return nil
}

func (r *FilamentRepo) GetByID(id string) (*entity.Filament, error) {
	var f entity.Filament
	query := `SELECT ` + filamentColumns + ` FROM filaments WHERE id = $1`
	err := r.q.QueryRow(context.Background(), query, id).Scan(&f.ID, &f.MaterialID, &f.Name, &f.ColorHex, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get filament: %w", err)
	}
	return &f, nil
}

func (r *FilamentRepo) ListByMaterial(materialID string) ([]entity.Filament, error) {
	query := `SELECT ` + filamentColumns + ` FROM filaments WHERE material_id = $1 ORDER BY name ASC`
	return r.listFilaments(query, materialID)
}

func (r *FilamentRepo) List() ([]entity.Filament, error) {
	query := `SELECT ` + filamentColumns + ` FROM filaments ORDER BY name ASC`
	return r.listFilaments(query)
}

func (r *FilamentRepo) listFilaments(query string, args ...any) ([]entity.Filament, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list filaments: %w", err)
	}
	defer rows.Close()

	var filaments []entity.Filament
	for rows.Next() {
		var f entity.Filament
		if err := rows.Scan(&f.ID, &f.MaterialID, &f.Name, &f.ColorHex, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan filament: %w", err)
		}
		filaments = append(filaments, f)
	}
	return filaments, rows.Err()
}

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, name, address, phone, email, created_at`

func (r *SupplierRepo) Create(s *entity.Supplier) error {
	query := `INSERT INTO suppliers (` + supplierColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query, s.ID, s.Name, s.Address, s.Phone, s.Email, s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	var s entity.Supplier
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`
	err := r.q.QueryRow(context.Background(), query, id).Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &s.Email, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

func (r *SupplierRepo) List() ([]entity.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY name ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &s.Email, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}
