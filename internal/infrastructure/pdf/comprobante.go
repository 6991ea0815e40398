// Package pdf genera el comprobante imprimible de una venta efectuada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Comercio  │  N° Venta + Fecha                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + Tipo de documento                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | IVA | Total              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / IVA (13%) / TOTAL                      │
//	│  PAGO: Efectivo recibido + vuelto, o tarjeta                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER DTE: N° de documento + QR de consulta pública       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/Practica-Profesional-25/acme-pos/internal/domain/sale"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// Comprobante datos de la venta a imprimir.
type Comprobante struct {
	Comercio string
	Numero   string
	Fecha    time.Time
	Draft    *sale.Draft
}

// Generator genera comprobantes de venta con Maroto v2 y los escribe en el
// directorio de salida configurado.
type Generator struct {
	outputDir string
}

// NewGenerator construye el generador.
func NewGenerator(outputDir string) *Generator {
	return &Generator{outputDir: outputDir}
}

// Save genera el comprobante y lo escribe como <numero>.pdf en el directorio
// de salida, creándolo si no existe. Devuelve la ruta del archivo.
func (g *Generator) Save(c Comprobante) (string, error) {
	doc, err := g.Generate(c)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: crear directorio de salida: %w", err)
	}
	path := filepath.Join(g.outputDir, c.Numero+".pdf")
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", fmt.Errorf("pdf: escribir comprobante: %w", err)
	}
	return path, nil
}

// Generate genera el PDF y devuelve sus bytes.
func (g *Generator) Generate(c Comprobante) ([]byte, error) {
	if c.Draft == nil {
		return nil, fmt.Errorf("pdf: venta vacía")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de venta "+c.Numero, true).
		WithAuthor(nonEmpty(c.Comercio, "ACME"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(c))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clienteRow(c.Draft.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(c.Draft.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(c.Draft))
	m.AddRows(pagoRow(c.Draft))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range dteFooterRows(c.Draft) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: comercio (izq) y número de venta + fecha (der).
func headerRow(c Comprobante) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(c.Comercio, "ACME"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprobante de venta", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(c.Numero, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 3,
			}),
			text.New("Fecha: "+c.Fecha.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

// clienteRow: nombre del cliente y documento a emitir según su variante.
func clienteRow(customer sale.Customer) core.Row {
	nombre := "Consumidor final"
	documento := string(sale.DocTicket)
	if customer != nil {
		nombre = customer.DisplayName()
		documento = string(customer.DocumentType())
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Documento: %s", nombre, documento),
				props.Text{Size: 9, Top: 7}),
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
		h("P. Unit.", 2, align.Right),
		h("IVA", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableItemRows: una fila por línea de la venta.
func tableItemRows(items []sale.LineItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, item := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", item.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				item.Name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+item.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"$"+item.Tax.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"$"+item.Total.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: subtotal, IVA y total, agregados de las líneas.
func totalsRow(d *sale.Draft) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Subtotal:"),
			label("IVA (13%):"),
			grandLabel("TOTAL:"),
		),
		col.New(3).Add(
			value("$"+d.Subtotal().StringFixed(2)),
			value("$"+d.Tax().StringFixed(2)),
			grandValue("$"+d.Total().StringFixed(2)),
		),
		col.New(3),
	)
}

// pagoRow: método de pago con su detalle.
func pagoRow(d *sale.Draft) core.Row {
	detalle := "—"
	if p := d.Payment; p != nil {
		switch p.Method {
		case sale.PayEfectivo:
			if p.Cash != nil {
				detalle = fmt.Sprintf("Efectivo   |   Recibido: $%s   |   Vuelto: $%s",
					p.Cash.CashAmount.StringFixed(2),
					p.Cash.Change(d.Total()).StringFixed(2))
			}
		case sale.PayTarjeta:
			detalle = "Tarjeta (terminal POS)"
		}
	}
	return row.New(10).Add(
		col.New(12).Add(
			text.New("PAGO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(detalle, props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

// dteFooterRows: número de DTE + QR de consulta pública.
func dteFooterRows(d *sale.Draft) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("DOCUMENTO TRIBUTARIO ELECTRÓNICO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if d.DTENumero != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("N° de documento: "+d.DTENumero, props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1,
			}),
		)))
	}

	if d.QRCode != "" {
		rows = append(rows, row.New(50).Add(
			col.New(4).Add(code.NewQr(d.QRCode, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Escanea el código QR para verificar\neste documento en el portal de Hacienda.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
			),
		))
	} else {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Documento en proceso de emisión.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New("Conserve este comprobante como soporte de su compra.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
