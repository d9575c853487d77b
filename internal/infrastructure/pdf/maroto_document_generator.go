// Package pdf implementa la generación del comprobante de movimiento de
// inventario (recepción, entrega, traslado o ajuste).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de movimiento  │  Referencia + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BODEGAS: Origen / Destino  +  Contraparte                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | SKU | Producto | Unidad | Precio Unit.       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  NOTAS + Estado                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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

	"github.com/AQIB050506/stockmaster/internal/application/ledger"
	"github.com/AQIB050506/stockmaster/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Títulos del comprobante por tipo de movimiento.
var documentTitles = map[string]string{
	entity.TransactionTypeReceipt:    "COMPROBANTE DE RECEPCIÓN",
	entity.TransactionTypeDelivery:   "COMPROBANTE DE ENTREGA",
	entity.TransactionTypeTransfer:   "COMPROBANTE DE TRASLADO",
	entity.TransactionTypeAdjustment: "COMPROBANTE DE AJUSTE",
}

var _ ledger.DocumentGenerator = (*MarotoDocumentGenerator)(nil)

// MarotoDocumentGenerator implementa ledger.DocumentGenerator usando Maroto v2.
type MarotoDocumentGenerator struct{}

// NewMarotoDocumentGenerator construye el generador.
func NewMarotoDocumentGenerator() *MarotoDocumentGenerator { return &MarotoDocumentGenerator{} }

// GenerateMovementPDF genera el comprobante y devuelve sus bytes.
func (g *MarotoDocumentGenerator) GenerateMovementPDF(
	_ context.Context,
	transaction *entity.Transaction,
	from, to *entity.Warehouse,
	lines []ledger.DocumentLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de Movimiento", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(transaction))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(warehousesRow(transaction, from, to))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(transaction))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: tipo de movimiento (izq) y referencia + fecha (der).
func headerRow(transaction *entity.Transaction) core.Row {
	title, ok := documentTitles[transaction.Type]
	if !ok {
		title = "COMPROBANTE DE MOVIMIENTO"
	}
	fecha := transaction.CreatedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+strings.ToUpper(transaction.Status), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(transaction.Reference, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 3,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

// warehousesRow: bodega origen/destino y contraparte.
func warehousesRow(transaction *entity.Transaction, from, to *entity.Warehouse) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("BODEGAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Origen: %s   |   Destino: %s",
				warehouseLabel(from), warehouseLabel(to),
			), props.Text{Size: 9, Top: 6}),
			text.New("Contraparte: "+nonEmpty(transaction.Counterparty, "—"), props.Text{
				Size: 8, Top: 11, Color: colorGray,
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
		h("Cant.", 2, align.Right),
		h("SKU", 2, align.Left),
		h("Producto", 5, align.Left),
		h("Unidad", 1, align.Center),
		h("Precio Unit.", 2, align.Right),
	)
}

// tableLineRows: una fila por línea del movimiento.
func tableLineRows(lines []ledger.DocumentLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				l.Quantity.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				l.SKU,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(5).Add(text.New(
				l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				l.UnitOfMeasure,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				"$"+l.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// footerRow: total de unidades, notas y responsable.
func footerRow(transaction *entity.Transaction) core.Row {
	return row.New(18).Add(
		col.New(12).Add(
			text.New("Total unidades: "+transaction.TotalQuantity().String(), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Right: 1,
			}),
			text.New("Notas: "+nonEmpty(transaction.Notes, "—"), props.Text{
				Size: 8, Top: 7, Color: colorGray,
			}),
			text.New("Registrado por: "+nonEmpty(transaction.CreatedBy, "—"), props.Text{
				Size: 8, Top: 13, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func warehouseLabel(w *entity.Warehouse) string {
	if w == nil {
		return "—"
	}
	return fmt.Sprintf("%s (%s)", w.Name, w.Code)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
