package sale

import "github.com/shopspring/decimal"

// PaymentMethod método de pago de la venta.
type PaymentMethod string

const (
	PayEfectivo PaymentMethod = "efectivo"
	PayTarjeta  PaymentMethod = "tarjeta"
)

// POSStatus estado simulado de la terminal de tarjeta. No hay integración
// real con una pasarela en este cliente.
type POSStatus string

const (
	POSReady      POSStatus = "ready"
	POSProcessing POSStatus = "processing"
	POSProcessed  POSStatus = "processed"
)

// CashDetails detalle de pago en efectivo.
type CashDetails struct {
	CashAmount decimal.Decimal
}

// Change vuelto a entregar: max(0, efectivo - total).
func (c CashDetails) Change(total decimal.Decimal) decimal.Decimal {
	change := c.CashAmount.Sub(total)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change.Round(2)
}

// Covers indica si el efectivo alcanza para el total.
func (c CashDetails) Covers(total decimal.Decimal) bool {
	return c.CashAmount.GreaterThanOrEqual(total)
}

// CardDetails detalle de pago con tarjeta (terminal simulada).
type CardDetails struct {
	POSStatus POSStatus
}

// Payment método elegido más el detalle correspondiente. Solo uno de Cash o
// Card está presente según Method.
type Payment struct {
	Method PaymentMethod
	Cash   *CashDetails
	Card   *CardDetails
}
