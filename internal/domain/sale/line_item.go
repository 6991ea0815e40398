package sale

import "github.com/shopspring/decimal"

// IVARate tasa de IVA de El Salvador aplicada por línea (13%).
var IVARate = decimal.NewFromFloat(0.13)

// LineItem es una línea de la venta en curso. Los montos se calculan una sola
// vez por línea y se redondean a 2 decimales en cada etapa para que el mismo
// valor que ve el cajero sea el que viaja al backend.
type LineItem struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}

// NewLineItem construye la línea calculando subtotal, IVA y total.
func NewLineItem(productID, name string, unitPrice decimal.Decimal, quantity int) LineItem {
	item := LineItem{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
	}
	item.setQuantity(quantity)
	return item
}

// setQuantity fija la cantidad y recalcula los montos derivados.
// Subtotal = precio × cantidad; Tax = Subtotal × 13%; Total = Subtotal + Tax.
func (li *LineItem) setQuantity(quantity int) {
	li.Quantity = quantity
	li.Subtotal = li.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
	li.Tax = li.Subtotal.Mul(IVARate).Round(2)
	li.Total = li.Subtotal.Add(li.Tax)
}
