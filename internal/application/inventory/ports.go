package inventory

import (
	"context"

	"github.com/taller3d/printforge-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: la selección del lote y el append que lo consume viven en la
// misma transacción, con la fila del lote bloqueada (SELECT FOR UPDATE).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LedgerRepository,
		itemRepo repository.LineItemRepository,
		orderRepo repository.OrderRepository,
	) error) error
}
