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

var _ repository.ShippingRepository = (*ShippingRepo)(nil)

// ShippingRepo implementación de ShippingRepository sobre PostgreSQL.
type ShippingRepo struct {
	q Querier
}

func NewShippingRepository(q Querier) *ShippingRepo {
	return &ShippingRepo{q: q}
}

func (r *ShippingRepo) Create(s *entity.Shipping) error {
	query := `INSERT INTO shipping_options (id, name, rate, ship_time) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, s.ID, s.Name, s.Rate, s.ShipTime)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert shipping option: %w", err)
	}
	return nil
}

func (r *ShippingRepo) GetByID(id string) (*entity.Shipping, error) {
	var s entity.Shipping
	query := `SELECT id, name, rate, ship_time FROM shipping_options WHERE id = $1`
	err := r.q.QueryRow(context.Background(), query, id).Scan(&s.ID, &s.Name, &s.Rate, &s.ShipTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipping option: %w", err)
	}
	return &s, nil
}

func (r *ShippingRepo) List() ([]entity.Shipping, error) {
	query := `SELECT id, name, rate, ship_time FROM shipping_options ORDER BY rate ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list shipping options: %w", err)
	}
	defer rows.Close()

	var options []entity.Shipping
	for rows.Next() {
		var s entity.Shipping
		if err := rows.Scan(&s.ID, &s.Name, &s.Rate, &s.ShipTime); err != nil {
			return nil, fmt.Errorf("scan shipping option: %w", err)
		}
		options = append(options, s)
	}
	return options, rows.Err()
}
