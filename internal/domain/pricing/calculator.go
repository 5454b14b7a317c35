// Package pricing implementa los cálculos puros de peso y precio del taller
// (servicios de dominio). Toda cifra monetaria usa decimal de punto fijo;
// los pesos son gramos enteros.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/taller3d/printforge-api/internal/domain"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)

	// fallbackBaseInfillPct se usa solo al derivar el multiplicador cuando el
	// modelo tiene BaseInfill cero, para no dividir por cero. Es un fallback
	// documentado, no una corrección silenciosa del dato.
	fallbackBaseInfillPct = decimal.NewFromInt(20)
)

// Components es el desglose completo de un cálculo de precio, de modo que el
// caller pueda mostrar y auditar cada término, no solo el precio final.
type Components struct {
	Weight       int             // gramos totales, sin margen de seguridad
	MaterialCost decimal.Decimal
	FixedCost    decimal.Decimal
	CostOfGoods  decimal.Decimal // 4 decimales
	SellPrice    decimal.Decimal // 2 decimales (moneda)
}

// RequiredWeight calcula los gramos necesarios para imprimir quantity copias
// de un modelo con el relleno efectivo dado:
//
//	effective_infill = baseInfill × infillMultiplier
//	volume_cm3       = printVolume × effective_infill
//	weight_per_item   = round(volume_cm3 × density)   // gramos enteros, mitad hacia arriba
//	total             = weight_per_item × quantity
//
// El peso por ítem nunca baja de 1 gramo para evitar pedidos degenerados de
// peso cero.
func RequiredWeight(printVolumeCm3 int, baseInfill, infillMultiplier, density decimal.Decimal, quantity int) (int, error) {
	if printVolumeCm3 < 0 || quantity <= 0 {
		return 0, domain.ErrInvalidInput
	}
	if baseInfill.IsNegative() || infillMultiplier.IsNegative() || !density.IsPositive() {
		return 0, domain.ErrInvalidInput
	}

	effective := baseInfill.Mul(infillMultiplier)
	volume := decimal.NewFromInt(int64(printVolumeCm3)).Mul(effective)
	perItem := volume.Mul(density).Round(0)
	if perItem.LessThan(one) {
		perItem = one
	}
	return int(perItem.IntPart()) * quantity, nil
}

// InfillMultiplierForPercentage deriva el multiplicador de relleno a partir
// del porcentaje pedido por el cliente:
//
//	multiplier = requestedPct / (baseInfill × 100)
//
// Si el modelo tiene BaseInfill cero, se asume 20% solo para esta derivación.
// El resultado se redondea a 2 decimales, igual que el formulario original.
func InfillMultiplierForPercentage(requestedPct int, baseInfill decimal.Decimal) (decimal.Decimal, error) {
	if requestedPct <= 0 || requestedPct > 100 {
		return decimal.Zero, domain.ErrInvalidInput
	}
	basePct := baseInfill.Mul(hundred)
	if !basePct.IsPositive() {
		basePct = fallbackBaseInfillPct
	}
	return decimal.NewFromInt(int64(requestedPct)).DivRound(basePct, 2), nil
}

// PriceComponents calcula el desglose de costo y precio de venta:
//
//	material_cost = totalWeight × unitCost × wearAndTear
//	fixed_cost    = fixedCostPerItem × quantity
//	cost_of_goods = fixed_cost + material_cost     // 4 decimales
//	sell_price    = cost_of_goods × markup          // 2 decimales
//
// Es una función pura: mismas entradas, mismas salidas. Si el precio de venta
// queda por debajo del costo (markup mal configurado) devuelve
// domain.ErrPriceBelowCost antes de que nada se persista.
func PriceComponents(totalWeight int, unitCost, wearAndTear, fixedCostPerItem decimal.Decimal, quantity int, markup decimal.Decimal) (Components, error) {
	if totalWeight < 0 || quantity <= 0 {
		return Components{}, domain.ErrInvalidInput
	}
	if unitCost.IsNegative() || fixedCostPerItem.IsNegative() || wearAndTear.LessThan(one) || !markup.IsPositive() {
		return Components{}, domain.ErrInvalidInput
	}

	weight := decimal.NewFromInt(int64(totalWeight))
	materialCost := weight.Mul(unitCost).Mul(wearAndTear)
	fixedCost := fixedCostPerItem.Mul(decimal.NewFromInt(int64(quantity)))
	costOfGoods := fixedCost.Add(materialCost).Round(4)
	sellPrice := costOfGoods.Mul(markup).Round(2)

	if sellPrice.LessThan(costOfGoods.Round(2)) {
		return Components{}, domain.ErrPriceBelowCost
	}

	return Components{
		Weight:       totalWeight,
		MaterialCost: materialCost,
		FixedCost:    fixedCost,
		CostOfGoods:  costOfGoods,
		SellPrice:    sellPrice,
	}, nil
}
