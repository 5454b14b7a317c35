package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taller3d/printforge-api/internal/domain"
	"github.com/taller3d/printforge-api/internal/domain/pricing"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequiredWeight
// ──────────────────────────────────────────────────────────────────────────────

// Caso de referencia: 100cm³ al 20% base con multiplicador 1.25 y densidad 1.0
// → 100 × 0.20 × 1.25 × 1.0 = 25 gramos por pieza.
func TestRequiredWeight_CasoReferencia(t *testing.T) {
	weight, err := pricing.RequiredWeight(100, dec("0.20"), dec("1.25"), dec("1.0"), 1)
	require.NoError(t, err)
	assert.Equal(t, 25, weight)
}

func TestRequiredWeight_EscalaConCantidad(t *testing.T) {
	one, err := pricing.RequiredWeight(100, dec("0.20"), dec("1.25"), dec("1.0"), 1)
	require.NoError(t, err)
	three, err := pricing.RequiredWeight(100, dec("0.20"), dec("1.25"), dec("1.0"), 3)
	require.NoError(t, err)
	assert.Equal(t, one*3, three, "el peso total debe escalar linealmente con la cantidad")
}

// El redondeo del peso por pieza es mitad hacia arriba, y ocurre ANTES de
// multiplicar por la cantidad.
func TestRequiredWeight_RedondeaPorPiezaAntesDeCantidad(t *testing.T) {
	// 10 × 0.20 × 1.25 × 1.24 = 3.1 → 3 g por pieza → 30 g por 10 piezas
	weight, err := pricing.RequiredWeight(10, dec("0.20"), dec("1.25"), dec("1.24"), 10)
	require.NoError(t, err)
	assert.Equal(t, 30, weight)

	// 10 × 0.20 × 1.25 × 1.40 = 3.5 → redondea a 4 g por pieza
	weight, err = pricing.RequiredWeight(10, dec("0.20"), dec("1.25"), dec("1.40"), 1)
	require.NoError(t, err)
	assert.Equal(t, 4, weight)
}

// Piso de 1 gramo por pieza: un modelo diminuto nunca pesa cero.
func TestRequiredWeight_PisoUnGramo(t *testing.T) {
	weight, err := pricing.RequiredWeight(1, dec("0.10"), dec("1"), dec("1.0"), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, weight, "1 g por pieza × 5 piezas")
}

func TestRequiredWeight_MonotonoEnRelleno(t *testing.T) {
	low, err := pricing.RequiredWeight(500, dec("0.20"), dec("1"), dec("1.24"), 1)
	require.NoError(t, err)
	high, err := pricing.RequiredWeight(500, dec("0.20"), dec("2.5"), dec("1.24"), 1)
	require.NoError(t, err)
	assert.Greater(t, high, low, "más relleno, más peso")
}

func TestRequiredWeight_EntradasInvalidas(t *testing.T) {
	_, err := pricing.RequiredWeight(100, dec("0.20"), dec("1"), dec("1.0"), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = pricing.RequiredWeight(-1, dec("0.20"), dec("1"), dec("1.0"), 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "volumen negativo")

	_, err = pricing.RequiredWeight(100, dec("0.20"), dec("1"), dec("0"), 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "densidad cero")
}

// ──────────────────────────────────────────────────────────────────────────────
// InfillMultiplierForPercentage
// ──────────────────────────────────────────────────────────────────────────────

func TestInfillMultiplier_Derivacion(t *testing.T) {
	// 25% pedido sobre 20% base → 1.25
	m, err := pricing.InfillMultiplierForPercentage(25, dec("0.20"))
	require.NoError(t, err)
	assert.True(t, m.Equal(dec("1.25")), "got %s", m)

	// 20% sobre 20% → 1.00 (identidad)
	m, err = pricing.InfillMultiplierForPercentage(20, dec("0.20"))
	require.NoError(t, err)
	assert.True(t, m.Equal(dec("1")), "got %s", m)

	// 33% sobre 30% → redondeo a 2 decimales: 1.10
	m, err = pricing.InfillMultiplierForPercentage(33, dec("0.30"))
	require.NoError(t, err)
	assert.True(t, m.Equal(dec("1.10")), "got %s", m)
}

// BaseInfill cero usa 20% como base solo para derivar el multiplicador.
func TestInfillMultiplier_BaseInfillCeroUsaFallback(t *testing.T) {
	m, err := pricing.InfillMultiplierForPercentage(40, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, m.Equal(dec("2")), "40 / 20 = 2, got %s", m)
}

func TestInfillMultiplier_PorcentajeFueraDeRango(t *testing.T) {
	_, err := pricing.InfillMultiplierForPercentage(0, dec("0.20"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = pricing.InfillMultiplierForPercentage(101, dec("0.20"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// PriceComponents
// ──────────────────────────────────────────────────────────────────────────────

// Caso de referencia completo, de la derivación del peso al precio final:
// 100 cm³ × 0.20 × 1.0 × 1.25 g/cm³ = 25 g; 25 × $0.02/g × 1.0 desgaste =
// $0.50 material, $2.50 fijo → COGS $3.00 → precio $3.45 con markup 1.15.
func TestPriceComponents_CasoReferencia(t *testing.T) {
	weight, err := pricing.RequiredWeight(100, dec("0.20"), dec("1.0"), dec("1.25"), 1)
	require.NoError(t, err)
	require.Equal(t, 25, weight)

	comps, err := pricing.PriceComponents(weight, dec("0.02"), dec("1.0"), dec("2.50"), 1, dec("1.15"))
	require.NoError(t, err)

	assert.Equal(t, 25, comps.Weight)
	assert.True(t, comps.MaterialCost.Equal(dec("0.50")), "material: got %s", comps.MaterialCost)
	assert.True(t, comps.FixedCost.Equal(dec("2.50")), "fijo: got %s", comps.FixedCost)
	assert.True(t, comps.CostOfGoods.Equal(dec("3.00")), "COGS: got %s", comps.CostOfGoods)
	assert.True(t, comps.SellPrice.Equal(dec("3.45")), "precio: got %s", comps.SellPrice)
}

// El costo fijo es por pieza: con 3 piezas se cobra 3 veces.
func TestPriceComponents_CostoFijoPorPieza(t *testing.T) {
	comps, err := pricing.PriceComponents(75, dec("0.10"), dec("1.0"), dec("0.50"), 3, dec("1.15"))
	require.NoError(t, err)
	assert.True(t, comps.FixedCost.Equal(dec("1.50")), "got %s", comps.FixedCost)
	assert.True(t, comps.CostOfGoods.Equal(dec("9.00")), "got %s", comps.CostOfGoods)
}

// El desgaste multiplica solo el costo de material, nunca el fijo.
func TestPriceComponents_DesgasteNoTocaCostoFijo(t *testing.T) {
	comps, err := pricing.PriceComponents(25, dec("0.10"), dec("1.2"), dec("0.50"), 1, dec("1.15"))
	require.NoError(t, err)
	assert.True(t, comps.MaterialCost.Equal(dec("3.00")), "got %s", comps.MaterialCost)
	assert.True(t, comps.FixedCost.Equal(dec("0.50")), "got %s", comps.FixedCost)
}

func TestPriceComponents_RedondeoCOGSYPrecio(t *testing.T) {
	// 7 g × 0.0333 × 1.0 = 0.2331 + 0.11 = 0.3431 → COGS 0.3431 (4 dec)
	// 0.3431 × 1.15 = 0.394565 → precio 0.39 (2 dec)
	comps, err := pricing.PriceComponents(7, dec("0.0333"), dec("1.0"), dec("0.11"), 1, dec("1.15"))
	require.NoError(t, err)
	assert.True(t, comps.CostOfGoods.Equal(dec("0.3431")), "got %s", comps.CostOfGoods)
	assert.True(t, comps.SellPrice.Equal(dec("0.39")), "got %s", comps.SellPrice)
}

// Invariante: el precio de venta nunca queda por debajo del costo.
func TestPriceComponents_PrecioBajoCosto(t *testing.T) {
	_, err := pricing.PriceComponents(25, dec("0.10"), dec("1.0"), dec("0.50"), 1, dec("0.90"))
	assert.ErrorIs(t, err, domain.ErrPriceBelowCost)
}

// Markup 1.0 exacto es válido: vender al costo no viola el invariante.
func TestPriceComponents_MarkupUnoVendeAlCosto(t *testing.T) {
	comps, err := pricing.PriceComponents(25, dec("0.10"), dec("1.0"), dec("0.50"), 1, dec("1.0"))
	require.NoError(t, err)
	assert.True(t, comps.SellPrice.Equal(dec("3.00")), "got %s", comps.SellPrice)
}

func TestPriceComponents_EntradasInvalidas(t *testing.T) {
	_, err := pricing.PriceComponents(25, dec("0.10"), dec("0.9"), dec("0.50"), 1, dec("1.15"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "desgaste menor que 1")

	_, err = pricing.PriceComponents(25, dec("-0.10"), dec("1.0"), dec("0.50"), 1, dec("1.15"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "costo unitario negativo")

	_, err = pricing.PriceComponents(25, dec("0.10"), dec("1.0"), dec("0.50"), 0, dec("1.15"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")
}

// Pureza: dos llamadas idénticas producen resultados idénticos.
func TestPriceComponents_Determinista(t *testing.T) {
	a, err := pricing.PriceComponents(42, dec("0.0417"), dec("1.1"), dec("0.75"), 2, dec("1.15"))
	require.NoError(t, err)
	b, err := pricing.PriceComponents(42, dec("0.0417"), dec("1.1"), dec("0.75"), 2, dec("1.15"))
	require.NoError(t, err)
	assert.True(t, a.CostOfGoods.Equal(b.CostOfGoods))
	assert.True(t, a.SellPrice.Equal(b.SellPrice))
}
