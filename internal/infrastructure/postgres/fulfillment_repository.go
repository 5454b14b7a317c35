package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taller3d/printforge-api/internal/domain/entity"
	"github.com/taller3d/printforge-api/internal/domain/repository"
)

var _ repository.FulfillmentRepository = (*FulfillmentRepo)(nil)

// FulfillmentRepo implementación del log de estados de pedidos sobre
// PostgreSQL. Solo inserta; el estado vigente es el evento más reciente.
type FulfillmentRepo struct {
	q Querier
}

func NewFulfillmentRepository(q Querier) *FulfillmentRepo {
	return &FulfillmentRepo{q: q}
}

const eventColumns = `id, order_id, status, notes, created_at, created_by`

func scanEvent(row pgx.Row) (*entity.FulfillmentEvent, error) {
	var e entity.FulfillmentEvent
	err := row.Scan(&e.ID, &e.OrderID, &e.Status, &e.Notes, &e.CreatedAt, &e.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *FulfillmentRepo) Append(e *entity.FulfillmentEvent) error {
	query := `
		INSERT INTO fulfillment_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.OrderID, e.Status, e.Notes, e.CreatedAt, e.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("append fulfillment event: %w", err)
	}
	return nil
}

// Latest devuelve el evento más reciente del pedido.
func (r *FulfillmentRepo) Latest(orderID string) (*entity.FulfillmentEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM fulfillment_events
		WHERE order_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`
	e, err := scanEvent(r.q.QueryRow(context.Background(), query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest fulfillment event: %w", err)
	}
	return e, nil
}

func (r *FulfillmentRepo) ListByOrder(orderID string) ([]entity.FulfillmentEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM fulfillment_events
		WHERE order_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list fulfillment events: %w", err)
	}
	defer rows.Close()

	var events []entity.FulfillmentEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fulfillment event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}
