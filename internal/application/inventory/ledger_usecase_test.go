package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taller3d/printforge-api/internal/application/inventory"
	"github.com/taller3d/printforge-api/internal/domain"
	"github.com/taller3d/printforge-api/internal/domain/entity"
)

func newLedgerUC(s *fakeStore) *inventory.LedgerUseCase {
	return inventory.NewLedgerUseCase(
		&fakeTxRunner{s: s},
		&fakeLotRepo{s: s},
		&fakeLedgerRepo{s},
		&fakeSupplierRepo{s},
		&fakeFilamentRepo{s},
		dec("1.15"),
	)
}

func seedCatalog(s *fakeStore) {
	s.suppliers["sup-1"] = &entity.Supplier{ID: "sup-1", Name: "FilamentCorp"}
	s.filaments["fil-1"] = &entity.Filament{ID: "fil-1", MaterialID: "mat-1", Name: "PLA Rojo", ColorHex: "ff0000"}
}

// ──────────────────────────────────────────────────────────────────────────────
// ReceiveLot
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiveLot_CreaLoteYEntradaInicial(t *testing.T) {
	s := newFakeStore()
	seedCatalog(s)
	uc := newLedgerUC(s)

	lot, err := uc.ReceiveLot(context.Background(), inventory.ReceiveLotInput{
		SupplierID:      "sup-1",
		FilamentID:      "fil-1",
		Cost:            dec("25.00"),
		WeightPurchased: 1000,
		Density:         dec("1.24"),
		WearAndTear:     dec("1.0"),
	})
	require.NoError(t, err)

	require.Len(t, s.entries, 1)
	entry := s.entries[0]
	assert.Equal(t, lot.ID, entry.LotID)
	assert.Equal(t, 1000, entry.QuantityAvailable, "la entrada inicial lleva el peso completo")
	// Costo unitario: 25.00 / 1000 = 0.0250 (4 decimales)
	assert.True(t, entry.UnitCost.Equal(dec("0.0250")), "got %s", entry.UnitCost)
	assert.True(t, lot.UnitCost().Equal(entry.UnitCost))
}

func TestReceiveLot_Validaciones(t *testing.T) {
	s := newFakeStore()
	seedCatalog(s)
	uc := newLedgerUC(s)

	cases := []struct {
		name string
		in   inventory.ReceiveLotInput
	}{
		{"peso cero", inventory.ReceiveLotInput{SupplierID: "sup-1", FilamentID: "fil-1", Cost: dec("25"), WeightPurchased: 0, Density: dec("1.24"), WearAndTear: dec("1.0")}},
		{"costo negativo", inventory.ReceiveLotInput{SupplierID: "sup-1", FilamentID: "fil-1", Cost: dec("-1"), WeightPurchased: 1000, Density: dec("1.24"), WearAndTear: dec("1.0")}},
		{"densidad cero", inventory.ReceiveLotInput{SupplierID: "sup-1", FilamentID: "fil-1", Cost: dec("25"), WeightPurchased: 1000, Density: decimal.Zero, WearAndTear: dec("1.0")}},
		{"desgaste menor que 1", inventory.ReceiveLotInput{SupplierID: "sup-1", FilamentID: "fil-1", Cost: dec("25"), WeightPurchased: 1000, Density: dec("1.24"), WearAndTear: dec("0.9")}},
		{"sin proveedor", inventory.ReceiveLotInput{FilamentID: "fil-1", Cost: dec("25"), WeightPurchased: 1000, Density: dec("1.24"), WearAndTear: dec("1.0")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.ReceiveLot(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, s.entries, "nada persistido en rechazos")
}

func TestReceiveLot_ProveedorInexistente(t *testing.T) {
	s := newFakeStore()
	seedCatalog(s)
	uc := newLedgerUC(s)

	_, err := uc.ReceiveLot(context.Background(), inventory.ReceiveLotInput{
		SupplierID:      "sup-fantasma",
		FilamentID:      "fil-1",
		Cost:            dec("25"),
		WeightPurchased: 1000,
		Density:         dec("1.24"),
		WearAndTear:     dec("1.0"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateLot — ventana de corrección
// ──────────────────────────────────────────────────────────────────────────────

// Lote recién recibido, sin consumo: la entrada inicial se corrige en sitio.
func TestUpdateLot_CorrigeEntradaInicialEnVentana(t *testing.T) {
	s := newFakeStore()
	seedCatalog(s)
	uc := newLedgerUC(s)

	lot, err := uc.ReceiveLot(context.Background(), inventory.ReceiveLotInput{
		SupplierID: "sup-1", FilamentID: "fil-1",
		Cost: dec("25.00"), WeightPurchased: 1000,
		Density: dec("1.24"), WearAndTear: dec("1.0"),
	})
	require.NoError(t, err)

	// Error de digitación: eran 750 g a $30.
	updated, err := uc.UpdateLot(context.Background(), lot.ID, inventory.UpdateLotInput{
		Cost: dec("30.00"), WeightPurchased: 750,
		Density: dec("1.24"), WearAndTear: dec("1.0"),
	})
	require.NoError(t, err)

	assert.Equal(t, 750, updated.WeightPurchased)
	require.Len(t, s.entries, 1, "corrección en sitio, sin entrada nueva")
	assert.Equal(t, 750, s.entries[0].QuantityAvailable)
	// 30.00 / 750 = 0.04
	assert.True(t, s.entries[0].UnitCost.Equal(dec("0.04")), "got %s", s.entries[0].UnitCost)
}

// Con consumo registrado la ventana se cierra: el lote se edita pero el
// historial del ledger queda intacto.
func TestUpdateLot_VentanaCerradaTrasConsumo(t *testing.T) {
	s := newFakeStore()
	seedCatalog(s)
	addModel(s, "model-1")
	ledgerUC := newLedgerUC(s)
	allocUC := newAllocationUC(s)

	lot, err := ledgerUC.ReceiveLot(context.Background(), inventory.ReceiveLotInput{
		SupplierID: "sup-1", FilamentID: "fil-1",
		Cost: dec("25.00"), WeightPurchased: 1000,
		Density: dec("1.0"), WearAndTear: dec("1.0"),
	})
	require.NoError(t, err)

	_, err = allocUC.CommitLineItem(context.Background(), inventory.CommitLineItemInput{
		ModelID: "model-1", LotID: lot.ID, Quantity: 1,
	})
	require.NoError(t, err)
	require.Len(t, s.entries, 2)

	_, err = ledgerUC.UpdateLot(context.Background(), lot.ID, inventory.UpdateLotInput{
		Cost: dec("30.00"), WeightPurchased: 750,
		Density: dec("1.0"), WearAndTear: dec("1.0"),
	})
	require.NoError(t, err)

	assert.Len(t, s.entries, 2, "el ledger no cambia")
	assert.Equal(t, 1000, s.entries[0].QuantityAvailable, "entrada inicial intacta")
	assert.Equal(t, 750, s.lot(lot.ID).WeightPurchased, "el lote sí se edita")
}

func TestUpdateLot_LoteInexistente(t *testing.T) {
	s := newFakeStore()
	uc := newLedgerUC(s)
	_, err := uc.UpdateLot(context.Background(), "no-existe", inventory.UpdateLotInput{
		Cost: dec("30"), WeightPurchased: 750, Density: dec("1.24"), WearAndTear: dec("1.0"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas FIFO
// ──────────────────────────────────────────────────────────────────────────────

// La búsqueda aplica el margen configurado: un lote con el peso justo pero sin
// margen no califica.
func TestFindLotForWeight_AplicaMargen(t *testing.T) {
	s := newFakeStore()
	addLot(s, "lot-justo", "fil-1", baseTime, 25, "0.10")
	uc := newLedgerUC(s)

	// 25 g requeridos × 1.15 = 28.75 > 25 disponibles.
	found, err := uc.FindLotForWeight(context.Background(), 25, decimal.Zero, "", "fil-1")
	require.NoError(t, err)
	assert.Nil(t, found, "sin margen cubierto no hay lote")

	// Con 29 g sí alcanza.
	s.entries[0].QuantityAvailable = 29
	found, err = uc.FindLotForWeight(context.Background(), 25, decimal.Zero, "", "fil-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "lot-justo", found.Entry.LotID)
}

// Subir el margen solo puede quitar candidatos, nunca agregarlos: el mismo
// stock que califica con margen 1.0 deja de calificar con 1.15.
func TestFindLotForWeight_MargenMayorEsMasEstricto(t *testing.T) {
	s := newFakeStore()
	addLot(s, "lot-a", "fil-1", baseTime, 26, "0.10")
	uc := newLedgerUC(s)

	// 25 g × 1.0 = 25 ≤ 26: califica.
	found, err := uc.FindLotForWeight(context.Background(), 25, dec("1.0"), "", "fil-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "lot-a", found.Entry.LotID)

	// 25 g × 1.15 = 28.75 > 26: el mismo stock ya no alcanza.
	found, err = uc.FindLotForWeight(context.Background(), 25, dec("1.15"), "", "fil-1")
	require.NoError(t, err)
	assert.Nil(t, found)
}

// Orden FIFO estricto por fecha de compra del lote, no por fecha de entrada.
func TestFindLotForWeight_PrefiereCompraMasAntigua(t *testing.T) {
	s := newFakeStore()
	addLot(s, "lot-viejo", "fil-1", baseTime, 100, "0.08")
	addLot(s, "lot-nuevo", "fil-1", baseTime.Add(48*time.Hour), 100, "0.10")
	uc := newLedgerUC(s)

	found, err := uc.FindLotForWeight(context.Background(), 20, decimal.Zero, "", "fil-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "lot-viejo", found.Entry.LotID)
}

func TestAvailableLots_OrdenFIFO(t *testing.T) {
	s := newFakeStore()
	addLot(s, "lot-b", "fil-1", baseTime.Add(24*time.Hour), 100, "0.10")
	addLot(s, "lot-a", "fil-1", baseTime, 100, "0.08")
	addLot(s, "lot-vacio", "fil-1", baseTime.Add(48*time.Hour), 100, "0.10")
	s.latestEntry("lot-vacio").QuantityAvailable = 0
	uc := newLedgerUC(s)

	available, err := uc.AvailableLots(context.Background())
	require.NoError(t, err)
	require.Len(t, available, 2, "las entradas sin stock no aparecen")
	assert.Equal(t, "lot-a", available[0].Entry.LotID, "compra más antigua primero")
	assert.Equal(t, "lot-b", available[1].Entry.LotID)
}

func TestHistory_MasRecientePrimero(t *testing.T) {
	s := newFakeStore()
	seedCatalog(s)
	addModel(s, "model-1")
	ledgerUC := newLedgerUC(s)
	allocUC := newAllocationUC(s)

	lot, err := ledgerUC.ReceiveLot(context.Background(), inventory.ReceiveLotInput{
		SupplierID: "sup-1", FilamentID: "fil-1",
		Cost: dec("25.00"), WeightPurchased: 1000,
		Density: dec("1.0"), WearAndTear: dec("1.0"),
	})
	require.NoError(t, err)
	_, err = allocUC.CommitLineItem(context.Background(), inventory.CommitLineItemInput{
		ModelID: "model-1", LotID: lot.ID, Quantity: 1,
	})
	require.NoError(t, err)

	history, err := ledgerUC.History(context.Background(), lot.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 980, history[0].QuantityAvailable, "el consumo encabeza el historial")
	assert.Equal(t, 1000, history[1].QuantityAvailable)
}
