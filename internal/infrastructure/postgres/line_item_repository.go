package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taller3d/printforge-api/internal/domain/entity"
	"github.com/taller3d/printforge-api/internal/domain/repository"
)

var _ repository.LineItemRepository = (*LineItemRepo)(nil)

// LineItemRepo implementación de LineItemRepository sobre PostgreSQL.
type LineItemRepo struct {
	q Querier
}

func NewLineItemRepository(q Querier) *LineItemRepo {
	return &LineItemRepo{q: q}
}

const itemColumns = `id, order_id, model_id, lot_id, infill_multiplier, quantity, is_custom, total_weight, cost_of_goods_sold, markup, item_price, created_at`

func scanItem(row pgx.Row) (*entity.OrderLineItem, error) {
	var it entity.OrderLineItem
	err := row.Scan(
		&it.ID, &it.OrderID, &it.ModelID, &it.LotID, &it.InfillMultiplier,
		&it.Quantity, &it.IsCustom, &it.TotalWeight, &it.CostOfGoodsSold,
		&it.Markup, &it.ItemPrice, &it.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *LineItemRepo) Create(it *entity.OrderLineItem) error {
	query := `
		INSERT INTO order_line_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		it.ID, it.OrderID, it.ModelID, it.LotID, it.InfillMultiplier,
		it.Quantity, it.IsCustom, it.TotalWeight, it.CostOfGoodsSold,
		it.Markup, it.ItemPrice, it.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert line item: %w", err)
	}
	return nil
}

func (r *LineItemRepo) GetByID(id string) (*entity.OrderLineItem, error) {
	query := `SELECT ` + itemColumns + ` FROM order_line_items WHERE id = $1`
	it, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get line item: %w", err)
	}
	return it, nil
}

func (r *LineItemRepo) Update(it *entity.OrderLineItem) error {
	query := `
		UPDATE order_line_items
		SET lot_id = $2, infill_multiplier = $3, quantity = $4, total_weight = $5,
		    cost_of_goods_sold = $6, markup = $7, item_price = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		it.ID, it.LotID, it.InfillMultiplier, it.Quantity, it.TotalWeight,
		it.CostOfGoodsSold, it.Markup, it.ItemPrice,
	)
	if err != nil {
		return fmt.Errorf("update line item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *LineItemRepo) Delete(id string) error {
	query := `DELETE FROM order_line_items WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("delete line item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *LineItemRepo) ListByOrder(orderID string) ([]entity.OrderLineItem, error) {
	query := `SELECT ` + itemColumns + ` FROM order_line_items WHERE order_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()

	var items []entity.OrderLineItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// ExistsForLot indica si algún ítem ha consumido del lote. Cierra la ventana
// de corrección de la entrada inicial del ledger.
func (r *LineItemRepo) ExistsForLot(lotID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM order_line_items WHERE lot_id = $1)`
	if err := r.q.QueryRow(context.Background(), query, lotID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check line items for lot: %w", err)
	}
	return exists, nil
}
