package sale

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Practica-Profesional-25/acme-pos/internal/domain"
)

// Estados de la venta en curso.
const (
	StatusPending   = "pending"
	StatusEfectuada = "efectuada"
	StatusRechazada = "rechazada"
)

// Draft es la venta en construcción. Vive solo en memoria durante la sesión
// del asistente y se descarta al completar o iniciar una venta nueva.
type Draft struct {
	Items    []LineItem
	Customer Customer
	Payment  *Payment

	Status          string
	RejectionReason string

	// Resultado DTE tras una venta efectuada.
	DTENumero string
	QRCode    string
}

// NewDraft crea una venta vacía en estado pending.
func NewDraft() *Draft {
	return &Draft{Status: StatusPending}
}

// AddItem agrega un producto a la venta. Si el producto ya tiene línea, la
// cantidad se incrementa sobre la existente en vez de duplicar la línea.
// stock es la existencia conocida al momento de la selección: la cantidad
// acumulada nunca puede superarla.
func (d *Draft) AddItem(productID, name string, unitPrice decimal.Decimal, quantity, stock int) error {
	if quantity <= 0 {
		return domain.ErrCantidadInvalida
	}

	for i := range d.Items {
		if d.Items[i].ProductID == productID {
			newQuantity := d.Items[i].Quantity + quantity
			if newQuantity > stock {
				return fmt.Errorf("%w: %s (stock %d, solicitado %d)",
					domain.ErrStockInsuficiente, name, stock, newQuantity)
			}
			d.Items[i].setQuantity(newQuantity)
			return nil
		}
	}

	if quantity > stock {
		return fmt.Errorf("%w: %s (stock %d, solicitado %d)",
			domain.ErrStockInsuficiente, name, stock, quantity)
	}
	d.Items = append(d.Items, NewLineItem(productID, name, unitPrice, quantity))
	return nil
}

// SetQuantity fija la cantidad de una línea existente, respetando el stock.
// Cantidad cero o negativa elimina la línea.
func (d *Draft) SetQuantity(productID string, quantity, stock int) error {
	if quantity <= 0 {
		d.RemoveItem(productID)
		return nil
	}
	for i := range d.Items {
		if d.Items[i].ProductID == productID {
			if quantity > stock {
				return fmt.Errorf("%w: %s (stock %d, solicitado %d)",
					domain.ErrStockInsuficiente, d.Items[i].Name, stock, quantity)
			}
			d.Items[i].setQuantity(quantity)
			return nil
		}
	}
	return fmt.Errorf("producto %s no está en la venta", productID)
}

// RemoveItem quita la línea del producto si existe.
func (d *Draft) RemoveItem(productID string) {
	for i := range d.Items {
		if d.Items[i].ProductID == productID {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			return
		}
	}
}

// Subtotal suma de subtotales por línea.
func (d *Draft) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range d.Items {
		sum = sum.Add(item.Subtotal)
	}
	return sum
}

// Tax suma del IVA por línea. El impuesto se calcula una única vez por línea;
// aquí solo se agrega, nunca se recalcula sobre el subtotal global.
func (d *Draft) Tax() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range d.Items {
		sum = sum.Add(item.Tax)
	}
	return sum
}

// Total suma de totales por línea (subtotal + IVA).
func (d *Draft) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range d.Items {
		sum = sum.Add(item.Total)
	}
	return sum
}

// TotalQuantity unidades totales de la venta.
func (d *Draft) TotalQuantity() int {
	n := 0
	for _, item := range d.Items {
		n += item.Quantity
	}
	return n
}

// Reset deja la venta vacía y pendiente, lista para una venta nueva.
func (d *Draft) Reset() {
	*d = Draft{Status: StatusPending}
}
