package wizard

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Practica-Profesional-25/acme-pos/internal/domain"
	"github.com/Practica-Profesional-25/acme-pos/internal/domain/sale"
	"github.com/Practica-Profesional-25/acme-pos/internal/infrastructure/api"
)

// SaleCreator es la porción del cliente API que necesita el asistente.
type SaleCreator interface {
	CreateSale(ctx context.Context, req api.CreateSaleRequest) (*api.Sale, error)
}

// Outcome resultado del envío tal como lo muestra el paso de estado.
type Outcome struct {
	Numero string
	Status string // sale.StatusEfectuada o sale.StatusRechazada
	Reason string
	DTE    string
	QRCode string
}

// Submit envía la venta al backend. Exactamente un envío llega a la red por
// venta: si ya hay uno en vuelo devuelve ErrVentaEnCurso y si la venta ya se
// efectuó, ErrVentaCompletada. Una venta rechazada vuelve a quedar
// disponible para Retry.
//
// El rechazo del backend no es un error de Submit: se devuelve como Outcome
// con estado rechazada y el motivo del servidor, porque el paso de estado lo
// presenta igual que un éxito.
func (w *Wizard) Submit(ctx context.Context) (*Outcome, error) {
	w.mu.Lock()
	switch w.state {
	case submitInFlight:
		w.mu.Unlock()
		return nil, domain.ErrVentaEnCurso
	case submitDone:
		w.mu.Unlock()
		return nil, domain.ErrVentaCompletada
	}
	for _, step := range []Step{StepProductos, StepCliente, StepResumen} {
		if err := w.validateStep(step); err != nil {
			w.mu.Unlock()
			return nil, err
		}
	}
	w.state = submitInFlight
	w.step = StepEstado
	w.draft.Status = sale.StatusPending
	w.draft.RejectionReason = ""
	req := w.buildRequest()
	w.mu.Unlock()

	created, err := w.api.CreateSale(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.state = submitIdle
		w.draft.Status = sale.StatusRechazada
		w.draft.RejectionReason = rejectionReason(err)
		w.log.Warn().Str("numero", w.numero).Str("motivo", w.draft.RejectionReason).
			Msg("venta rechazada")
		return &Outcome{
			Numero: w.numero,
			Status: sale.StatusRechazada,
			Reason: w.draft.RejectionReason,
		}, nil
	}

	w.state = submitDone
	w.draft.Status = sale.StatusEfectuada
	w.draft.DTENumero = created.DTE
	if w.draft.DTENumero == "" {
		// El backend aún no asigna DTE: se emite un identificador provisional
		// hasta que la consulta de estado traiga el definitivo.
		w.draft.DTENumero = fmt.Sprintf("DTE-%d-%06d", w.now().Unix(), rand.Intn(1_000_000))
	}
	w.draft.QRCode = created.QRCode
	if w.draft.QRCode == "" {
		w.draft.QRCode = consultaPublicaURL(w.draft.DTENumero, w.now())
	}
	w.log.Info().Str("numero", w.numero).Str("dte", w.draft.DTENumero).
		Msg("venta efectuada")
	return &Outcome{
		Numero: w.numero,
		Status: sale.StatusEfectuada,
		DTE:    w.draft.DTENumero,
		QRCode: w.draft.QRCode,
	}, nil
}

// Retry reintenta el envío de una venta rechazada. Conserva el mismo número
// de venta y limpia el motivo de rechazo antes de volver a enviar.
func (w *Wizard) Retry(ctx context.Context) (*Outcome, error) {
	w.mu.Lock()
	switch w.state {
	case submitInFlight:
		w.mu.Unlock()
		return nil, domain.ErrVentaEnCurso
	case submitDone:
		w.mu.Unlock()
		return nil, domain.ErrVentaCompletada
	}
	if w.draft.Status != sale.StatusRechazada {
		w.mu.Unlock()
		return nil, fmt.Errorf("no hay venta rechazada que reintentar")
	}
	w.draft.RejectionReason = ""
	w.draft.Status = sale.StatusPending
	w.step = StepResumen
	w.mu.Unlock()

	return w.Submit(ctx)
}

// rejectionReason extrae un motivo presentable del error de envío.
func rejectionReason(err error) string {
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return err.Error()
}

// consultaPublicaURL URL del portal público de Hacienda para verificar el
// documento, usada cuando el backend no manda el QR.
func consultaPublicaURL(dte string, now time.Time) string {
	return fmt.Sprintf(
		"https://admin.factura.gob.sv/consultaPublica?ambiente=00&codGen=%s&fechaEmi=%s",
		dte, now.Format("2006-01-02"))
}

// buildRequest arma el cuerpo de POST /sales a partir de la venta. Todos los
// montos viajan redondeados a 2 decimales. Se llama con el lock tomado.
func (w *Wizard) buildRequest() api.CreateSaleRequest {
	d := w.draft

	lines := make([]api.SaleLineRequest, 0, len(d.Items))
	for _, item := range d.Items {
		lines = append(lines, api.SaleLineRequest{
			ProductID: item.ProductID,
			Nombre:    item.Name,
			Cantidad:  item.Quantity,
			Precio:    item.UnitPrice.Round(2),
			Subtotal:  item.Subtotal,
			Impuesto:  item.Tax,
			Total:     item.Total,
		})
	}

	req := api.CreateSaleRequest{
		Numero:    w.numero,
		Products:  lines,
		Subtotal:  d.Subtotal().Round(2),
		Impuestos: d.Tax().Round(2),
		Total:     d.Total().Round(2),
		Fecha:     w.now().Format(time.RFC3339),
	}

	switch c := d.Customer.(type) {
	case sale.ExistingCustomer:
		req.CustomerID = c.ID
		req.CustomerData = api.SaleCustomerData{
			Tipo:      string(sale.KindExisting),
			Nombre:    c.Name,
			Email:     c.Email,
			DUI:       c.DUI,
			NIT:       c.NIT,
			Telefono:  c.Telefono,
			Direccion: c.Direccion,
		}
	case sale.FacturaCustomer:
		req.CustomerData = api.SaleCustomerData{
			Tipo:   string(sale.KindFactura),
			Nombre: c.Name,
			Email:  c.Email,
		}
	case sale.CreditoFiscalCustomer:
		req.CustomerData = api.SaleCustomerData{
			Tipo:           string(sale.KindCreditoFiscal),
			Nombre:         c.Name,
			RegistroFiscal: c.RegistroFiscal,
			NIT:            c.NIT,
			Giro:           c.Giro,
			Telefono:       c.Telefono,
			Departamento:   c.Departamento,
			Municipio:      c.Municipio,
			Distrito:       c.Distrito,
			Direccion:      c.Direccion,
		}
	default:
		req.CustomerData = api.SaleCustomerData{
			Tipo:   string(sale.KindDefault),
			Nombre: d.Customer.DisplayName(),
		}
	}

	req.PaymentMethod = string(d.Payment.Method)
	switch d.Payment.Method {
	case sale.PayEfectivo:
		cash := d.Payment.Cash.CashAmount.Round(2)
		change := d.Payment.Cash.Change(d.Total())
		req.PaymentDetails = api.SalePaymentDetails{CashAmount: &cash, Change: &change}
	case sale.PayTarjeta:
		req.PaymentDetails = api.SalePaymentDetails{POSStatus: string(d.Payment.Card.POSStatus)}
	}

	return req
}
