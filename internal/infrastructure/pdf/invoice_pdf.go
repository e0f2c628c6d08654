// Package pdf genera la factura de venta imprimible.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + dirección │  N° Factura + Fecha + Vence  │
//	│  CLIENTE: Nombre + código + dirección │ Agente + placa      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PEDIDOS: Cant | Unidad | Código | Descripción | Precio ... │
//	│  DEVOLUCIONES: misma tabla, si hay                         │
//	│  ABONOS: N° | Fecha | Forma | Cheque | Monto, si hay       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Pedidos / Devoluciones / Descuento / Total ...   │
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
	mconfig "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/margiesol/mew-bad/internal/application/billing"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/pkg/config"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

const dateLayout = "02/01/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	company config.PrintConfig
	money   *moneyFormatter
}

// NewMarotoPDFGenerator construye el generador con los datos de la empresa.
func NewMarotoPDFGenerator(cfg config.PrintConfig) (*MarotoPDFGenerator, error) {
	money, err := newMoneyFormatter(cfg.CurrencyCode)
	if err != nil {
		return nil, err
	}
	return &MarotoPDFGenerator{company: cfg, money: money}, nil
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(ctx context.Context, doc *appbilling.PrintableInvoice) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inv := doc.Invoice
	cfg := mconfig.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+inv.Number, true).
		WithAuthor(g.company.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("PEDIDOS"))
	m.AddRows(lineHeaderRow())
	m.AddRows(g.lineRows(doc.Orders)...)

	if len(doc.Returns) > 0 {
		m.AddRows(row.New(3))
		m.AddRows(sectionTitle("DEVOLUCIONES"))
		m.AddRows(lineHeaderRow())
		m.AddRows(g.lineRows(doc.Returns)...)
	}

	if len(doc.Payments) > 0 {
		m.AddRows(row.New(3))
		m.AddRows(sectionTitle("ABONOS"))
		m.AddRows(paymentHeaderRow())
		m.AddRows(g.paymentRows(doc.Payments)...)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(doc))

	if inv.IsDeleted {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("FACTURA ANULADA", props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: colorRed, Top: 2,
			}),
		)))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y N° factura + fechas (der).
func (g *MarotoPDFGenerator) headerRow(inv *entity.Invoice) core.Row {
	contact := strings.Join(nonBlank(g.company.CompanyAddress, g.company.CompanyPhone), "   |   ")
	return row.New(20).Add(
		col.New(7).Add(
			text.New(g.company.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(contact, "—"), props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("FACTURA DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+inv.Date.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
			text.New(fmt.Sprintf("Plazo: %d días   Vence: %s", inv.Terms, inv.DueDate().Format(dateLayout)), props.Text{
				Size: 8, Align: align.Right, Top: 16, Color: colorGray,
			}),
		),
	)
}

// customerRow: cliente (izq) y agente, placa y entrega (der).
func customerRow(doc *appbilling.PrintableInvoice) core.Row {
	c := doc.Customer
	agent := "—"
	if doc.Agent != nil {
		agent = doc.Agent.Name
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s  (%s)", c.Name, c.Code), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("%s   |   Área: %s", nonEmpty(c.Address, "—"), nonEmpty(c.Area, "—")), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Agente: "+agent, props.Text{Size: 8, Align: align.Right, Top: 6}),
			text.New("Placa: "+nonEmpty(doc.Invoice.PlateNo, "—"), props.Text{Size: 8, Align: align.Right, Top: 10}),
			text.New("Entrega: "+doc.Invoice.DeliveryStatus, props.Text{Size: 8, Align: align.Right, Top: 14}),
		),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

func headerCol(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

// lineHeaderRow: cabecera de la tabla de pedidos o devoluciones.
func lineHeaderRow() core.Row {
	return row.New(6).Add(
		headerCol("Cant.", 1, align.Center),
		headerCol("Unidad", 1, align.Center),
		headerCol("Código", 2, align.Left),
		headerCol("Descripción", 3, align.Left),
		headerCol("Precio", 2, align.Right),
		headerCol("Tasa", 1, align.Center),
		headerCol("Importe", 2, align.Right),
	)
}

func (g *MarotoPDFGenerator) lineRows(lines []appbilling.PrintableLine) []core.Row {
	if len(lines) == 0 {
		return []core.Row{row.New(6).Add(cell("Sin renglones", 12, align.Center))}
	}
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		out = append(out, row.New(6).Add(
			cell(l.Quantity.String(), 1, align.Center),
			cell(l.Unit, 1, align.Center),
			cell(l.ProductCode, 2, align.Left),
			cell(l.Description, 3, align.Left),
			cell(g.money.Format(l.PricePerUnit), 2, align.Right),
			cell(l.Rate.StringFixed(2), 1, align.Center),
			cell(g.money.Format(l.TotalPrice), 2, align.Right),
		))
	}
	return out
}

// paymentHeaderRow: cabecera de la tabla de abonos.
func paymentHeaderRow() core.Row {
	return row.New(6).Add(
		headerCol("N°", 1, align.Center),
		headerCol("Fecha", 2, align.Left),
		headerCol("Días", 1, align.Center),
		headerCol("Forma", 2, align.Left),
		headerCol("Cheque", 4, align.Left),
		headerCol("Monto", 2, align.Right),
	)
}

func (g *MarotoPDFGenerator) paymentRows(payments []*entity.PaymentRecord) []core.Row {
	out := make([]core.Row, 0, len(payments))
	for _, p := range payments {
		cheque := "—"
		if p.Cheque != nil {
			cheque = fmt.Sprintf("%s  %s  (%s)", p.Cheque.ChequeNo, p.Cheque.ChequeDate.Format(dateLayout), p.Cheque.Status)
		}
		out = append(out, row.New(6).Add(
			cell(fmt.Sprint(p.SequenceNo), 1, align.Center),
			cell(p.PaymentDate.Format(dateLayout), 2, align.Left),
			cell(fmt.Sprint(p.Days), 1, align.Center),
			cell(p.PaymentType, 2, align.Left),
			cell(cheque, 4, align.Left),
			cell(g.money.Format(p.Amount), 2, align.Right),
		))
	}
	return out
}

// totalsRow: bloque de totales alineado a la derecha.
func (g *MarotoPDFGenerator) totalsRow(doc *appbilling.PrintableInvoice) core.Row {
	inv := doc.Invoice
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	strong := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top,
		})
	}

	labels := []string{"Pedidos:", "Devoluciones:", "Descuento:", "TOTAL:", "Abonado:", "SALDO:"}
	values := []string{
		g.money.Format(sumLines(doc.Orders)),
		"-" + g.money.Format(sumLines(doc.Returns)),
		"-" + g.money.Format(inv.Discount),
		g.money.Format(inv.GrandTotal),
		g.money.Format(inv.PartialPayment),
		g.money.Format(inv.RemainingBalance),
	}

	labelCol := col.New(3)
	valueCol := col.New(3)
	for i := range labels {
		top := float64(i) * 5
		labelCol.Add(label(labels[i], top))
		if i == 3 || i == 5 {
			valueCol.Add(strong(values[i], top))
		} else {
			valueCol.Add(value(values[i], top))
		}
	}
	status := col.New(3).Add(
		text.New("Estado de pago", props.Text{Size: 8, Color: colorGray, Top: 1, Left: 2}),
		text.New(string(inv.PaymentStatus), props.Text{Style: fontstyle.Bold, Size: 12, Top: 6, Left: 2, Color: colorPrimary}),
	)
	return row.New(32).Add(status, col.New(3), labelCol, valueCol)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func sumLines(lines []appbilling.PrintableLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.TotalPrice)
	}
	return total
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func nonBlank(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
