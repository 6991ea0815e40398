package wizard_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Practica-Profesional-25/acme-pos/internal/application/wizard"
	"github.com/Practica-Profesional-25/acme-pos/internal/domain"
	"github.com/Practica-Profesional-25/acme-pos/internal/domain/sale"
	"github.com/Practica-Profesional-25/acme-pos/internal/infrastructure/api"
	"github.com/Practica-Profesional-25/acme-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// fakeAPI implementa SaleCreator registrando cada request. Con release
// definido, CreateSale se bloquea hasta que el test lo cierre.
type fakeAPI struct {
	mu      sync.Mutex
	reqs    []api.CreateSaleRequest
	resp    *api.Sale
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeAPI) CreateSale(_ context.Context, req api.CreateSaleRequest) (*api.Sale, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	err := f.err
	resp := f.resp
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if err != nil {
		return nil, err
	}
	if resp != nil {
		return resp, nil
	}
	return &api.Sale{
		ID:     "s1",
		Numero: req.Numero,
		Total:  req.Total,
		Estado: sale.StatusEfectuada,
		DTE:    "DTE-SRV-001",
		QRCode: "https://admin.factura.gob.sv/consultaPublica?codGen=DTE-SRV-001",
	}, nil
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

func (f *fakeAPI) lastReq() api.CreateSaleRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reqs[len(f.reqs)-1]
}

func (f *fakeAPI) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func producto(id, nombre, precio string, stock int) api.Product {
	return api.Product{ID: id, Nombre: nombre, Precio: dec(precio), Stock: stock}
}

// readyWizard deja un asistente en el paso de resumen: un casco de $100 por
// 3 unidades (total $339.00 con IVA), consumidor final.
func readyWizard(t *testing.T, fake *fakeAPI) *wizard.Wizard {
	t.Helper()
	w := wizard.New(fake, logger.Nop())
	require.NoError(t, w.AddItem(producto("p1", "Casco", "100.00", 10), 3))
	require.NoError(t, w.Next())
	require.NoError(t, w.SetCustomer(sale.DefaultCustomer{}))
	require.NoError(t, w.Next())
	return w
}

func efectivo(amount string) sale.Payment {
	return sale.Payment{
		Method: sale.PayEfectivo,
		Cash:   &sale.CashDetails{CashAmount: dec(amount)},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Navegación y validación por paso
// ──────────────────────────────────────────────────────────────────────────────

func TestNext_ExigeProductosClienteYPago(t *testing.T) {
	w := wizard.New(&fakeAPI{}, logger.Nop())

	// Sin productos no se sale del primer paso.
	assert.ErrorIs(t, w.Next(), domain.ErrSinProductos)
	assert.Equal(t, wizard.StepProductos, w.Step())

	require.NoError(t, w.AddItem(producto("p1", "Casco", "100.00", 10), 1))
	require.NoError(t, w.Next())
	assert.Equal(t, wizard.StepCliente, w.Step())

	// Sin cliente no se llega al resumen.
	assert.ErrorIs(t, w.Next(), domain.ErrSinCliente)

	require.NoError(t, w.SetCustomer(sale.DefaultCustomer{}))
	require.NoError(t, w.Next())
	assert.Equal(t, wizard.StepResumen, w.Step())

	// El resumen exige método de pago antes de procesar.
	assert.ErrorIs(t, w.CanProceed(), domain.ErrSinMetodoPago)
	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrSinMetodoPago)
}

func TestPrevious_RetrocedeYConservaDatos(t *testing.T) {
	w := readyWizard(t, &fakeAPI{})

	require.NoError(t, w.Previous())
	assert.Equal(t, wizard.StepCliente, w.Step())
	require.NoError(t, w.Previous())
	assert.Equal(t, wizard.StepProductos, w.Step())

	// Retroceder no borra nada: productos y cliente siguen ahí.
	assert.Len(t, w.Draft().Items, 1)
	assert.NotNil(t, w.Draft().Customer)

	// En el primer paso, retroceder es un no-op.
	require.NoError(t, w.Previous())
	assert.Equal(t, wizard.StepProductos, w.Step())
}

func TestSubmit_EfectivoInsuficienteBloquea(t *testing.T) {
	fake := &fakeAPI{}
	w := readyWizard(t, fake)
	require.NoError(t, w.SetPayment(efectivo("300.00"))) // total 339.00

	_, err := w.Submit(context.Background())

	assert.ErrorIs(t, err, domain.ErrEfectivoInsuficiente)
	assert.Zero(t, fake.calls(), "la venta no debe llegar a la red")
}

func TestSubmit_TarjetaExigeTerminalProcesada(t *testing.T) {
	fake := &fakeAPI{}
	w := readyWizard(t, fake)
	require.NoError(t, w.SetPayment(sale.Payment{
		Method: sale.PayTarjeta,
		Card:   &sale.CardDetails{POSStatus: sale.POSProcessing},
	}))

	_, err := w.Submit(context.Background())

	assert.ErrorIs(t, err, domain.ErrPOSPendiente)
	assert.Zero(t, fake.calls())
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado del request
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_ArmaRequestConMontosRedondeados(t *testing.T) {
	fake := &fakeAPI{}
	w := wizard.New(fake, logger.Nop())
	require.NoError(t, w.AddItem(producto("p1", "Casco", "33.335", 10), 3))
	require.NoError(t, w.Next())
	require.NoError(t, w.SetCustomer(sale.ExistingCustomer{
		ID: "c9", Name: "ACME Import", NIT: "0614-111111-001-1",
	}))
	require.NoError(t, w.Next())
	require.NoError(t, w.SetPayment(efectivo("150.00")))

	out, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sale.StatusEfectuada, out.Status)

	req := fake.lastReq()
	assert.True(t, strings.HasPrefix(req.Numero, "V-"), "numero: %s", req.Numero)

	// Cada monto se redondea por línea y el resumen agrega, no recalcula.
	require.Len(t, req.Products, 1)
	assert.Equal(t, "100.01", req.Products[0].Subtotal.StringFixed(2))
	assert.Equal(t, "13.00", req.Products[0].Impuesto.StringFixed(2))
	assert.Equal(t, "113.01", req.Products[0].Total.StringFixed(2))
	assert.Equal(t, "100.01", req.Subtotal.StringFixed(2))
	assert.Equal(t, "13.00", req.Impuestos.StringFixed(2))
	assert.Equal(t, "113.01", req.Total.StringFixed(2))

	// Cliente existente viaja con su id y sus datos.
	assert.Equal(t, "c9", req.CustomerID)
	assert.Equal(t, string(sale.KindExisting), req.CustomerData.Tipo)

	// Efectivo con vuelto calculado.
	assert.Equal(t, "efectivo", req.PaymentMethod)
	require.NotNil(t, req.PaymentDetails.CashAmount)
	require.NotNil(t, req.PaymentDetails.Change)
	assert.Equal(t, "150.00", req.PaymentDetails.CashAmount.StringFixed(2))
	assert.Equal(t, "36.99", req.PaymentDetails.Change.StringFixed(2))
}

func TestSubmit_ConsumidorFinalSinCustomerID(t *testing.T) {
	fake := &fakeAPI{}
	w := readyWizard(t, fake)
	require.NoError(t, w.SetPayment(efectivo("400.00")))

	_, err := w.Submit(context.Background())
	require.NoError(t, err)

	req := fake.lastReq()
	assert.Empty(t, req.CustomerID)
	assert.Equal(t, string(sale.KindDefault), req.CustomerData.Tipo)
	assert.Equal(t, "Consumidor final", req.CustomerData.Nombre)
}

// ──────────────────────────────────────────────────────────────────────────────
// Envío único
// ──────────────────────────────────────────────────────────────────────────────

// Con un envío en vuelo, disparar de nuevo no produce un segundo POST; tras
// efectuarse, tampoco.
func TestSubmit_UnSoloEnvioPorVenta(t *testing.T) {
	fake := &fakeAPI{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	w := readyWizard(t, fake)
	require.NoError(t, w.SetPayment(efectivo("400.00")))

	done := make(chan *wizard.Outcome, 1)
	go func() {
		out, err := w.Submit(context.Background())
		assert.NoError(t, err)
		done <- out
	}()

	<-fake.started // el primer envío ya está en la red
	assert.True(t, w.Submitting())

	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrVentaEnCurso)

	close(fake.release)
	out := <-done
	assert.Equal(t, sale.StatusEfectuada, out.Status)

	_, err = w.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrVentaCompletada)
	assert.Equal(t, 1, fake.calls(), "exactamente un POST por venta")
}

// ──────────────────────────────────────────────────────────────────────────────
// Resultado: efectuada, rechazada, reintento
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_EfectuadaConDTEDelBackend(t *testing.T) {
	fake := &fakeAPI{}
	w := readyWizard(t, fake)
	require.NoError(t, w.SetPayment(efectivo("400.00")))

	out, err := w.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, sale.StatusEfectuada, out.Status)
	assert.Equal(t, "DTE-SRV-001", out.DTE)
	assert.Contains(t, out.QRCode, "consultaPublica")
	assert.Equal(t, wizard.StepEstado, w.Step())
	assert.Equal(t, sale.StatusEfectuada, w.Draft().Status)
	assert.False(t, w.Active(), "la venta efectuada levanta el bloqueo de navegación")
}

// Si el backend acepta la venta pero aún no trae DTE ni QR, se muestra un
// identificador provisional y la URL de consulta pública.
func TestSubmit_SinDTEUsaProvisional(t *testing.T) {
	fake := &fakeAPI{resp: &api.Sale{ID: "s1", Estado: sale.StatusEfectuada}}
	w := readyWizard(t, fake)
	require.NoError(t, w.SetPayment(efectivo("400.00")))

	out, err := w.Submit(context.Background())

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.DTE, "DTE-"), "dte: %s", out.DTE)
	assert.Contains(t, out.QRCode, "admin.factura.gob.sv/consultaPublica")
	assert.Contains(t, out.QRCode, out.DTE)
}

func TestSubmit_RechazoGuardaMotivoYPermiteRetry(t *testing.T) {
	fake := &fakeAPI{}
	fake.setErr(&api.HTTPError{Status: 400, Message: "stock insuficiente para Casco"})
	w := readyWizard(t, fake)
	require.NoError(t, w.SetPayment(efectivo("400.00")))

	out, err := w.Submit(context.Background())

	// El rechazo no es un error del asistente: es un resultado.
	require.NoError(t, err)
	assert.Equal(t, sale.StatusRechazada, out.Status)
	assert.Equal(t, "stock insuficiente para Casco", out.Reason)
	assert.Equal(t, sale.StatusRechazada, w.Draft().Status)
	numero := w.Numero()

	// El backend se recupera; el reintento conserva el número y limpia el
	// motivo.
	fake.setErr(nil)
	out, err = w.Retry(context.Background())

	require.NoError(t, err)
	assert.Equal(t, sale.StatusEfectuada, out.Status)
	assert.Empty(t, w.Draft().RejectionReason)
	assert.Equal(t, numero, w.Numero(), "el reintento no cambia el número de venta")
	assert.Equal(t, 2, fake.calls())
	assert.Equal(t, fake.reqs[0].Numero, fake.reqs[1].Numero)
}

// Una venta rechazada no es terminal: desde el paso de estado se puede
// volver al resumen, corregir el pago y enviar de nuevo.
func TestPrevious_TrasRechazoVuelveAlResumen(t *testing.T) {
	fake := &fakeAPI{}
	fake.setErr(&api.HTTPError{Status: 400, Message: "monto en efectivo insuficiente"})
	w := readyWizard(t, fake)
	require.NoError(t, w.SetPayment(efectivo("400.00")))

	out, err := w.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, sale.StatusRechazada, out.Status)
	require.Equal(t, wizard.StepEstado, w.Step())

	require.NoError(t, w.Previous())
	assert.Equal(t, wizard.StepResumen, w.Step())

	// De vuelta en el resumen la venta vuelve a ser editable.
	fake.setErr(nil)
	require.NoError(t, w.SetPayment(efectivo("500.00")))
	out, err = w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sale.StatusEfectuada, out.Status)
	assert.Empty(t, w.Draft().RejectionReason)
	assert.Equal(t, 2, fake.calls())
}

// Efectuada sí es terminal: de ahí no se retrocede.
func TestPrevious_VentaEfectuadaNoRetrocede(t *testing.T) {
	w := readyWizard(t, &fakeAPI{})
	require.NoError(t, w.SetPayment(efectivo("400.00")))
	_, err := w.Submit(context.Background())
	require.NoError(t, err)

	err = w.Previous()
	assert.ErrorIs(t, err, domain.ErrVentaCompletada)
	assert.Equal(t, wizard.StepEstado, w.Step())
}

func TestRetry_SoloAplicaAVentaRechazada(t *testing.T) {
	w := readyWizard(t, &fakeAPI{})
	require.NoError(t, w.SetPayment(efectivo("400.00")))

	_, err := w.Retry(context.Background())
	require.Error(t, err)

	_, err = w.Submit(context.Background())
	require.NoError(t, err)
	_, err = w.Retry(context.Background())
	assert.ErrorIs(t, err, domain.ErrVentaCompletada)
}

// ──────────────────────────────────────────────────────────────────────────────
// Venta nueva
// ──────────────────────────────────────────────────────────────────────────────

func TestNewSale_ReiniciaConNumeroNuevo(t *testing.T) {
	fake := &fakeAPI{}
	w := readyWizard(t, fake)
	require.NoError(t, w.SetPayment(efectivo("400.00")))
	_, err := w.Submit(context.Background())
	require.NoError(t, err)
	numeroAnterior := w.Numero()

	require.NoError(t, w.NewSale())

	assert.Equal(t, wizard.StepProductos, w.Step())
	assert.Empty(t, w.Draft().Items)
	assert.Nil(t, w.Draft().Customer)
	assert.Equal(t, sale.StatusPending, w.Draft().Status)
	assert.NotEqual(t, numeroAnterior, w.Numero())
	assert.False(t, w.Active())

	// El asistente queda operable: otra venta completa pasa sin fricción.
	require.NoError(t, w.AddItem(producto("p2", "Guantes", "25.50", 5), 2))
	require.NoError(t, w.Next())
	require.NoError(t, w.SetCustomer(sale.FacturaCustomer{Name: "Ana", Email: "ana@mail.com"}))
	require.NoError(t, w.Next())
	require.NoError(t, w.SetPayment(efectivo("60.00")))
	out, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sale.StatusEfectuada, out.Status)
	assert.Equal(t, 2, fake.calls())
}

// ──────────────────────────────────────────────────────────────────────────────
// Bloqueo de navegación mientras hay venta a medias
// ──────────────────────────────────────────────────────────────────────────────

func TestActive_ReflejaVentaAMedias(t *testing.T) {
	w := wizard.New(&fakeAPI{}, logger.Nop())
	assert.False(t, w.Active(), "asistente recién creado no bloquea nada")

	require.NoError(t, w.AddItem(producto("p1", "Casco", "100.00", 10), 1))
	assert.True(t, w.Active(), "con productos en la venta hay venta a medias")

	require.NoError(t, w.NewSale())
	assert.False(t, w.Active())
}

func TestAddItem_TiempoDeVida(t *testing.T) {
	w := readyWizard(t, &fakeAPI{})
	require.NoError(t, w.SetPayment(efectivo("400.00")))
	_, err := w.Submit(context.Background())
	require.NoError(t, err)

	// Tras efectuarse, la venta es de solo lectura.
	err = w.AddItem(producto("p2", "Guantes", "25.50", 5), 1)
	assert.ErrorIs(t, err, domain.ErrVentaCompletada)
	err = w.SetCustomer(sale.DefaultCustomer{})
	assert.ErrorIs(t, err, domain.ErrVentaCompletada)
}

// Verifica el cálculo de vuelto expuesto al paso de resumen.
func TestDraft_VueltoEnResumen(t *testing.T) {
	w := readyWizard(t, &fakeAPI{})
	require.NoError(t, w.SetPayment(efectivo("400.00")))

	p := w.Draft().Payment
	require.NotNil(t, p.Cash)
	assert.Equal(t, "61.00", p.Cash.Change(w.Draft().Total()).StringFixed(2))

	// Nunca vuelto negativo.
	short := sale.CashDetails{CashAmount: dec("100.00")}
	assert.True(t, short.Change(w.Draft().Total()).IsZero())
}
