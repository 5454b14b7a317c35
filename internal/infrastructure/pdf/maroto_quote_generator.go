// Package pdf implementa la generación del documento de cotización de la
// galería: modelo, filamento, desglose de costos y precio final.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del taller  │  COTIZACIÓN + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MODELO: nombre + descripción                                │
//	│  FILAMENTO: nombre + color + relleno + cantidad              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Peso | Costo material | Costo fijo | COGS            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL: PRECIO ESTIMADO                                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Leyenda de validez                                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/taller3d/printforge-api/internal/application/quotes"
	"github.com/taller3d/printforge-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 90, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const shopName = "Taller 3D PrintForge"

// ── Generator ─────────────────────────────────────────────────────────────────

var _ quotes.QuotePDFGenerator = (*MarotoQuoteGenerator)(nil)

// MarotoQuoteGenerator implementa quotes.QuotePDFGenerator usando Maroto v2.
type MarotoQuoteGenerator struct{}

// NewMarotoQuoteGenerator construye el generador.
func NewMarotoQuoteGenerator() *MarotoQuoteGenerator { return &MarotoQuoteGenerator{} }

// GenerateQuotePDF genera el PDF de la cotización y devuelve sus bytes.
func (g *MarotoQuoteGenerator) GenerateQuotePDF(
	_ context.Context,
	quote *quotes.Quote,
	model *entity.PrintableModel,
	filament *entity.Filament,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cotización de impresión 3D", true).
		WithAuthor(shopName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(modelRow(quote, model, filament))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(breakdownHeaderRow())
	m.AddRows(breakdownRow(quote))

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(quote))

	m.AddRows(line.NewRow(3))
	m.AddRows(legendRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del taller (izq) y título + fecha (der).
func headerRow() core.Row {
	fecha := time.Now().Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New(shopName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Impresión 3D bajo demanda", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COTIZACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// modelRow: modelo cotizado, filamento, relleno y cantidad.
func modelRow(quote *quotes.Quote, model *entity.PrintableModel, filament *entity.Filament) core.Row {
	return row.New(20).Add(
		col.New(12).Add(
			text.New("MODELO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(model.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Filamento: %s (#%s)   |   Relleno: %d%%   |   Cantidad: %d",
				filament.Name, filament.ColorHex, quote.InfillPct, quote.Quantity,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// breakdownHeaderRow: cabecera de la tabla del desglose.
func breakdownHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Peso (g)", 3, align.Center),
		h("Costo material", 3, align.Right),
		h("Costo fijo", 3, align.Right),
		h("Costo de producción", 3, align.Right),
	)
}

// breakdownRow: una sola fila con los términos del desglose.
func breakdownRow(quote *quotes.Quote) core.Row {
	v := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		v(fmt.Sprintf("%d", quote.Weight), 3, align.Center),
		v("$"+quote.MaterialCost.StringFixed(2), 3, align.Right),
		v("$"+quote.FixedCost.StringFixed(2), 3, align.Right),
		v("$"+quote.CostOfGoods.StringFixed(2), 3, align.Right),
	)
}

// totalRow: precio estimado alineado a la derecha.
func totalRow(quote *quotes.Quote) core.Row {
	return row.New(12).Add(
		col.New(6),
		col.New(3).Add(
			text.New("PRECIO ESTIMADO:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2, Top: 2,
			}),
		),
		col.New(3).Add(
			text.New("$"+quote.Price.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1, Top: 2,
			}),
		),
	)
}

// legendRow: validez de la cotización.
func legendRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Precio estimado sujeto a disponibilidad de material al momento del pedido. "+
				"El peso cotizado es el peso estimado de la pieza impresa.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}
