// Package pdf implementa la generación del recibo imprimible de una venta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: RECIBO DE VENTA  │  N° Factura + Fecha             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + Email                                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | IVA% | Total             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Bruto / Impuestos / Neto / A PAGAR / Pagado /     │
//	│           Vuelto                                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VUELTO: desglose por denominación                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strconv"

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

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF del recibo y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	items []*entity.InvoiceItem,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de Venta", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clienteRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de líneas
	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(items) {
		m.AddRows(r)
	}

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))

	// Desglose del vuelto
	if len(invoice.ChangeDenoms) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		for _, r := range changeRows(invoice.ChangeDenoms) {
			m.AddRows(r)
		}
	}

	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Gracias por su compra.", props.Text{
			Size: 8, Align: align.Center, Color: colorGray, Top: 3,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y N° Factura + Fecha (der).
func headerRow(invoice *entity.Invoice) core.Row {
	fecha := invoice.CreatedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("RECIBO DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("Factura N° "+invoice.ID, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// clienteRow: datos del comprador congelados en la venta.
func clienteRow(invoice *entity.Invoice) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.CustomerName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Email: "+invoice.CustomerEmail, props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("P.Unit.", 2, align.Right),
		h("IVA%", 1, align.Center),
		h("Total", 3, align.Right),
	)
}

// tableItemRows: una fila por línea de la venta.
func tableItemRows(items []*entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				strconv.FormatInt(it.Qty, 10),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				fmt.Sprintf("%s (%s)", it.ProductName, it.ProductCode),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				it.TaxRate.StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				it.LineTotal.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(invoice *entity.Invoice) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grandLabel := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: top,
		})
	}
	grandValue := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: top,
		})
	}

	return row.New(34).Add(
		col.New(4),
		col.New(4).Add(
			label("Bruto:", 1),
			label("Impuestos:", 6),
			label("Neto:", 11),
			grandLabel("A PAGAR:", 16),
			label("Pagado:", 22),
			label("Vuelto:", 27),
		),
		col.New(4).Add(
			value(invoice.GrossAmount.StringFixed(2), 1),
			value(invoice.TaxAmount.StringFixed(2), 6),
			value(invoice.NetAmount.StringFixed(2), 11),
			grandValue(invoice.RoundedPayable.StringFixed(2), 16),
			value(invoice.PaidAmount.StringFixed(2), 22),
			value(invoice.BalanceAmount.StringFixed(2), 27),
		),
	)
}

// changeRows: desglose del vuelto por denominación, de mayor a menor.
// El sobrante no representable aparece al final con su clave propia.
func changeRows(change map[string]int64) []core.Row {
	type denomCount struct {
		value int64
		key   string
		count int64
	}
	denoms := make([]denomCount, 0, len(change))
	var remaining int64
	hasRemaining := false
	for k, c := range change {
		if k == entity.ChangeRemainingKey {
			remaining = c
			hasRemaining = true
			continue
		}
		v, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		denoms = append(denoms, denomCount{value: v, key: k, count: c})
	}
	sort.Slice(denoms, func(i, j int) bool { return denoms[i].value > denoms[j].value })

	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("VUELTO ENTREGADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	for _, d := range denoms {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("%s x %d", d.key, d.count), props.Text{
				Size: 8, Top: 1, Left: 2, Color: colorGray,
			}),
		)))
	}
	if hasRemaining {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Sobrante no entregable: %d", remaining), props.Text{
				Size: 8, Top: 1, Left: 2, Color: colorGray,
			}),
		)))
	}
	return rows
}
