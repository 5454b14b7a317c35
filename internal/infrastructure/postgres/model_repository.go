package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taller3d/printforge-api/internal/domain/entity"
	"github.com/taller3d/printforge-api/internal/domain/repository"
)

var _ repository.ModelRepository = (*ModelRepo)(nil)

// ModelRepo implementación de ModelRepository sobre PostgreSQL.
type ModelRepo struct {
	q Querier
}

func NewModelRepository(q Querier) *ModelRepo {
	return &ModelRepo{q: q}
}

const modelColumns = `id, name, description, file_path, fixed_cost, estimated_print_volume, base_infill, created_at`

func scanModel(row pgx.Row) (*entity.PrintableModel, error) {
	var m entity.PrintableModel
	err := row.Scan(
		&m.ID, &m.Name, &m.Description, &m.FilePath, &m.FixedCost,
		&m.EstimatedPrintVolume, &m.BaseInfill, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ModelRepo) Create(m *entity.PrintableModel) error {
	query := `
		INSERT INTO printable_models (` + modelColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.Name, m.Description, m.FilePath, m.FixedCost,
		m.EstimatedPrintVolume, m.BaseInfill, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert model: %w", err)
	}
	return nil
}

func (r *ModelRepo) GetByID(id string) (*entity.PrintableModel, error) {
	query := `SELECT ` + modelColumns + ` FROM printable_models WHERE id = $1`
	m, err := scanModel(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get model: %w", err)
	}
	return m, nil
}

func (r *ModelRepo) List() ([]entity.PrintableModel, error) {
	query := `SELECT ` + modelColumns + ` FROM printable_models ORDER BY name ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var models []entity.PrintableModel
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		models = append(models, *m)
	}
	return models, rows.Err()
}

func (r *ModelRepo) Update(m *entity.PrintableModel) error {
	query := `
		UPDATE printable_models
		SET name = $2, description = $3, file_path = $4, fixed_cost = $5,
		    estimated_print_volume = $6, base_infill = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		m.ID, m.Name, m.Description, m.FilePath, m.FixedCost,
		m.EstimatedPrintVolume, m.BaseInfill,
	)
	if err != nil {
		return fmt.Errorf("update model: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
