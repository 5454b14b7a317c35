package repository

import (
	"github.com/shopspring/decimal"

	"github.com/taller3d/printforge-api/internal/domain/entity"
)

// LotRepository puerto de persistencia para lotes de materia prima.
type LotRepository interface {
	Create(lot *entity.RawMaterialLot) error
	GetByID(id string) (*entity.RawMaterialLot, error)
	// GetForUpdate obtiene el lote y bloquea su fila (SELECT FOR UPDATE).
	// Serializa a los asignadores concurrentes sobre el mismo lote: la decisión
	// leer-disponibilidad → decidir-suficiencia → anexar-consumo debe ejecutarse
	// completa bajo este bloqueo.
	GetForUpdate(id string) (*entity.RawMaterialLot, error)
	Update(lot *entity.RawMaterialLot) error
	ListByFilament(filamentID string) ([]entity.RawMaterialLot, error)
	List() ([]entity.RawMaterialLot, error)
}

// LedgerRepository puerto de persistencia para el ledger append-only de
// inventario. Append es la única escritura; UpdateEntry existe únicamente para
// la ventana de corrección de lotes sin consumo (ver LedgerUseCase.UpdateLot).
type LedgerRepository interface {
	Append(entry *entity.InventoryLedgerEntry) error
	GetByID(id string) (*entity.InventoryLedgerEntry, error)
	// LatestForLot devuelve la entrada más reciente del lote: su lectura de
	// stock vigente. nil si el lote no tiene entradas.
	LatestForLot(lotID string) (*entity.InventoryLedgerEntry, error)
	// AvailableLots devuelve las entradas con cantidad > 0 ordenadas por fecha
	// de compra del lote ascendente (FIFO) y fecha de creación de la entrada
	// descendente (la última entrada de un lote es su lectura vigente).
	AvailableLots() ([]entity.AvailableLot, error)
	// FindForWeight devuelve la lectura vigente del lote comprado más antiguo
	// cuyo stock cubre requiredGrams (puede ser fraccional: ya trae aplicado
	// el margen de seguridad). lotID o filamentID no vacíos restringen la
	// búsqueda. nil-sin-error es el resultado negativo de primera clase: no
	// hay lote suficiente.
	FindForWeight(requiredGrams decimal.Decimal, lotID, filamentID string) (*entity.AvailableLot, error)
	CountForLot(lotID string) (int, error)
	UpdateEntry(entry *entity.InventoryLedgerEntry) error
	ListByLot(lotID string) ([]entity.InventoryLedgerEntry, error)
}
