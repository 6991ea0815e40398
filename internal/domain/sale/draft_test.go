package sale_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Practica-Profesional-25/acme-pos/internal/domain"
	"github.com/Practica-Profesional-25/acme-pos/internal/domain/sale"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Aritmética de líneas (IVA 13%)
// ──────────────────────────────────────────────────────────────────────────────

// Vector de referencia: precio 100.00 × 3 => subtotal 300.00, IVA 39.00,
// total 339.00, redondeado a 2 decimales en cada etapa.
func TestLineItem_AritmeticaIVA(t *testing.T) {
	item := sale.NewLineItem("p1", "Casco", dec("100.00"), 3)

	assert.True(t, dec("300.00").Equal(item.Subtotal), "subtotal: %s", item.Subtotal)
	assert.True(t, dec("39.00").Equal(item.Tax), "IVA: %s", item.Tax)
	assert.True(t, dec("339.00").Equal(item.Total), "total: %s", item.Total)
}

// Precios con centavos: el redondeo pasa por cada etapa, no solo al final.
func TestLineItem_RedondeoPorEtapa(t *testing.T) {
	// 3 × 33.335 = 100.005 -> 100.01 (subtotal redondeado)
	// 100.01 × 0.13 = 13.0013 -> 13.00
	item := sale.NewLineItem("p1", "Tornillo", dec("33.335"), 3)

	assert.True(t, dec("100.01").Equal(item.Subtotal), "subtotal: %s", item.Subtotal)
	assert.True(t, dec("13.00").Equal(item.Tax), "IVA: %s", item.Tax)
	assert.True(t, dec("113.01").Equal(item.Total), "total: %s", item.Total)
}

// ──────────────────────────────────────────────────────────────────────────────
// Draft: agregar productos
// ──────────────────────────────────────────────────────────────────────────────

// Re-agregar el mismo producto incrementa la cantidad de la línea existente,
// nunca duplica la línea.
func TestDraft_AgregarMismoProductoIncrementa(t *testing.T) {
	d := sale.NewDraft()

	require.NoError(t, d.AddItem("p1", "Casco", dec("10.00"), 2, 10))
	require.NoError(t, d.AddItem("p1", "Casco", dec("10.00"), 3, 10))

	require.Len(t, d.Items, 1, "debe existir una sola línea para p1")
	assert.Equal(t, 5, d.Items[0].Quantity)
	assert.True(t, dec("50.00").Equal(d.Items[0].Subtotal))
}

// La cantidad acumulada no puede superar el stock conocido.
func TestDraft_StockLimitaCantidadAcumulada(t *testing.T) {
	d := sale.NewDraft()

	require.NoError(t, d.AddItem("p1", "Casco", dec("10.00"), 3, 5))
	err := d.AddItem("p1", "Casco", dec("10.00"), 3, 5)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStockInsuficiente)
	assert.Equal(t, 3, d.Items[0].Quantity, "la línea no debe modificarse al fallar")
}

func TestDraft_CantidadInvalida(t *testing.T) {
	d := sale.NewDraft()
	assert.ErrorIs(t, d.AddItem("p1", "Casco", dec("10.00"), 0, 5), domain.ErrCantidadInvalida)
	assert.ErrorIs(t, d.AddItem("p1", "Casco", dec("10.00"), -1, 5), domain.ErrCantidadInvalida)
}

func TestDraft_SetQuantityYRemove(t *testing.T) {
	d := sale.NewDraft()
	require.NoError(t, d.AddItem("p1", "Casco", dec("10.00"), 2, 10))

	require.NoError(t, d.SetQuantity("p1", 7, 10))
	assert.Equal(t, 7, d.Items[0].Quantity)
	assert.True(t, dec("70.00").Equal(d.Items[0].Subtotal))

	assert.ErrorIs(t, d.SetQuantity("p1", 11, 10), domain.ErrStockInsuficiente)

	// Cantidad cero elimina la línea.
	require.NoError(t, d.SetQuantity("p1", 0, 10))
	assert.Empty(t, d.Items)
}

// ──────────────────────────────────────────────────────────────────────────────
// Totales de la venta
// ──────────────────────────────────────────────────────────────────────────────

// Los totales del resumen son la suma de los valores por línea; el IVA no se
// vuelve a aplicar a nivel de resumen.
func TestDraft_TotalesSonSumaDeLineas(t *testing.T) {
	d := sale.NewDraft()
	require.NoError(t, d.AddItem("p1", "Casco", dec("100.00"), 3, 10))
	require.NoError(t, d.AddItem("p2", "Guantes", dec("25.50"), 2, 10))

	// p1: 300.00 / 39.00 / 339.00 — p2: 51.00 / 6.63 / 57.63
	assert.True(t, dec("351.00").Equal(d.Subtotal()), "subtotal: %s", d.Subtotal())
	assert.True(t, dec("45.63").Equal(d.Tax()), "IVA: %s", d.Tax())
	assert.True(t, dec("396.63").Equal(d.Total()), "total: %s", d.Total())
	assert.Equal(t, 5, d.TotalQuantity())
}

func TestDraft_Reset(t *testing.T) {
	d := sale.NewDraft()
	require.NoError(t, d.AddItem("p1", "Casco", dec("10.00"), 1, 5))
	d.Customer = sale.DefaultCustomer{}
	d.Status = sale.StatusRechazada
	d.RejectionReason = "rechazo de prueba"

	d.Reset()

	assert.Empty(t, d.Items)
	assert.Nil(t, d.Customer)
	assert.Equal(t, sale.StatusPending, d.Status)
	assert.Empty(t, d.RejectionReason)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes y documento tributario
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomer_DocumentType(t *testing.T) {
	cases := []struct {
		name     string
		customer sale.Customer
		want     sale.DocumentType
	}{
		{"crédito fiscal", sale.CreditoFiscalCustomer{Name: "ACME SA"}, sale.DocCreditoFiscal},
		{"factura", sale.FacturaCustomer{Name: "Ana"}, sale.DocFactura},
		{"consumidor final", sale.DefaultCustomer{}, sale.DocTicket},
		{"existente con NIT", sale.ExistingCustomer{Name: "Beta SA", NIT: "0614-111111-001-2"}, sale.DocCreditoFiscal},
		{"existente sin NIT", sale.ExistingCustomer{Name: "Carlos"}, sale.DocFactura},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.customer.DocumentType())
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Pago en efectivo
// ──────────────────────────────────────────────────────────────────────────────

// Vector del resumen: total 339.00. Con 300.00 no alcanza; con 400.00 el
// vuelto es 61.00.
func TestCashDetails_CoversYChange(t *testing.T) {
	total := dec("339.00")

	corto := sale.CashDetails{CashAmount: dec("300.00")}
	assert.False(t, corto.Covers(total))
	assert.True(t, decimal.Zero.Equal(corto.Change(total)), "sin vuelto negativo")

	sobra := sale.CashDetails{CashAmount: dec("400.00")}
	assert.True(t, sobra.Covers(total))
	assert.True(t, dec("61.00").Equal(sobra.Change(total)), "vuelto: %s", sobra.Change(total))

	exacto := sale.CashDetails{CashAmount: dec("339.00")}
	assert.True(t, exacto.Covers(total))
	assert.True(t, decimal.Zero.Equal(exacto.Change(total)))
}
