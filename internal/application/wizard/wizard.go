// Package wizard implementa el asistente de venta de cuatro pasos:
// selección de productos, selección de cliente, resumen de compra y estado de
// la venta. El asistente es el dueño de la venta en construcción y de su
// envío al backend; la interfaz solo le consulta estado y le delega acciones.
package wizard

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Practica-Profesional-25/acme-pos/internal/domain"
	"github.com/Practica-Profesional-25/acme-pos/internal/domain/sale"
	"github.com/Practica-Profesional-25/acme-pos/internal/infrastructure/api"
	"github.com/Practica-Profesional-25/acme-pos/pkg/logger"
)

// Step es el paso actual del asistente. El orden es fijo: solo se avanza con
// el paso actual válido y solo se retrocede antes del envío.
type Step int

const (
	StepProductos Step = iota + 1
	StepCliente
	StepResumen
	StepEstado
)

// String nombre del paso para la interfaz y el log.
func (s Step) String() string {
	switch s {
	case StepProductos:
		return "Selección de productos"
	case StepCliente:
		return "Selección de cliente"
	case StepResumen:
		return "Resumen de compra"
	case StepEstado:
		return "Estado de la venta"
	}
	return fmt.Sprintf("Paso %d", int(s))
}

// submitState estado del envío. La transición idle -> inFlight ocurre de
// forma síncrona bajo el lock antes de tocar la red: dos envíos simultáneos
// son imposibles aunque el usuario dispare la acción dos veces.
type submitState int

const (
	submitIdle submitState = iota
	submitInFlight
	submitDone
)

// Wizard asistente de venta. Seguro para uso concurrente: la interfaz corre
// en su propia goroutine y el envío en otra.
type Wizard struct {
	mu  sync.Mutex
	api SaleCreator
	log *logger.Logger
	now func() time.Time

	draft  *sale.Draft
	step   Step
	numero string
	state  submitState
}

// New crea un asistente con una venta vacía y número asignado.
func New(creator SaleCreator, log *logger.Logger) *Wizard {
	now := time.Now
	return &Wizard{
		api:    creator,
		log:    log,
		now:    now,
		draft:  sale.NewDraft(),
		step:   StepProductos,
		numero: newNumero(now()),
	}
}

// newNumero genera el número de venta: fecha más un fragmento aleatorio. El
// número vive con la venta en construcción; un reintento conserva el mismo
// número para que el backend pueda deduplicar.
func newNumero(now time.Time) string {
	return fmt.Sprintf("V-%s-%s", now.Format("20060102"), uuid.NewString()[:8])
}

// Draft acceso a la venta en construcción. Mutar la venta directamente es
// responsabilidad exclusiva de la goroutine de la interfaz; las operaciones
// del asistente ya están sincronizadas.
func (w *Wizard) Draft() *sale.Draft {
	return w.draft
}

// Step paso actual.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Numero número de la venta en construcción.
func (w *Wizard) Numero() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.numero
}

// Submitting indica si hay un envío en vuelo.
func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == submitInFlight
}

// Completed indica si la venta ya fue efectuada.
func (w *Wizard) Completed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == submitDone
}

// Active indica si hay una venta a medias. Mientras sea true la interfaz
// bloquea la navegación fuera del asistente; al efectuarse la venta el
// bloqueo se levanta aunque el usuario siga viendo el estado.
func (w *Wizard) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == submitDone {
		return false
	}
	return w.step > StepProductos || len(w.draft.Items) > 0
}

// AddItem agrega un producto del catálogo a la venta.
func (w *Wizard) AddItem(p api.Product, quantity int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardEditable(); err != nil {
		return err
	}
	return w.draft.AddItem(p.ID, p.Nombre, p.Precio, quantity, p.Stock)
}

// SetQuantity fija la cantidad de una línea; cero la elimina.
func (w *Wizard) SetQuantity(productID string, quantity, stock int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardEditable(); err != nil {
		return err
	}
	return w.draft.SetQuantity(productID, quantity, stock)
}

// RemoveItem quita una línea de la venta.
func (w *Wizard) RemoveItem(productID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardEditable(); err != nil {
		return err
	}
	w.draft.RemoveItem(productID)
	return nil
}

// SetCustomer fija el cliente de la venta.
func (w *Wizard) SetCustomer(c sale.Customer) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardEditable(); err != nil {
		return err
	}
	w.draft.Customer = c
	return nil
}

// SetPayment fija el método de pago y su detalle.
func (w *Wizard) SetPayment(p sale.Payment) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardEditable(); err != nil {
		return err
	}
	w.draft.Payment = &p
	return nil
}

func (w *Wizard) guardEditable() error {
	switch w.state {
	case submitInFlight:
		return domain.ErrVentaEnCurso
	case submitDone:
		return domain.ErrVentaCompletada
	}
	return nil
}

// CanProceed valida el paso actual: nil si se puede avanzar, o el error de
// dominio que explica qué falta.
func (w *Wizard) CanProceed() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.validateStep(w.step)
}

func (w *Wizard) validateStep(step Step) error {
	d := w.draft
	switch step {
	case StepProductos:
		if len(d.Items) == 0 {
			return domain.ErrSinProductos
		}
	case StepCliente:
		if d.Customer == nil {
			return domain.ErrSinCliente
		}
	case StepResumen:
		return w.validatePayment()
	}
	return nil
}

func (w *Wizard) validatePayment() error {
	p := w.draft.Payment
	if p == nil {
		return domain.ErrSinMetodoPago
	}
	switch p.Method {
	case sale.PayEfectivo:
		if p.Cash == nil {
			return domain.ErrSinMetodoPago
		}
		if total := w.draft.Total(); !p.Cash.Covers(total) {
			return fmt.Errorf("%w: recibido $%s, total $%s",
				domain.ErrEfectivoInsuficiente,
				p.Cash.CashAmount.StringFixed(2), total.StringFixed(2))
		}
	case sale.PayTarjeta:
		if p.Card == nil {
			return domain.ErrSinMetodoPago
		}
		if p.Card.POSStatus != sale.POSProcessed {
			return domain.ErrPOSPendiente
		}
	default:
		return domain.ErrSinMetodoPago
	}
	return nil
}

// Next avanza al siguiente paso si el actual es válido. El paso de resumen
// no avanza con Next: de ahí se sale con Submit.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardEditable(); err != nil {
		return err
	}
	if w.step >= StepResumen {
		return fmt.Errorf("desde %q la venta se procesa, no se avanza", w.step)
	}
	if err := w.validateStep(w.step); err != nil {
		return err
	}
	w.step++
	return nil
}

// Previous retrocede un paso desde los pasos 2 a 4. Tras un rechazo la
// vuelta al resumen deja el envío en reposo para corregir el pago.
func (w *Wizard) Previous() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardEditable(); err != nil {
		return err
	}
	if w.step > StepProductos {
		w.step--
	}
	if w.step < StepEstado && w.state != submitDone {
		w.state = submitIdle
	}
	return nil
}

// NewSale descarta la venta actual y deja el asistente listo para la
// siguiente, con número nuevo.
func (w *Wizard) NewSale() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == submitInFlight {
		return domain.ErrVentaEnCurso
	}
	w.draft.Reset()
	w.step = StepProductos
	w.state = submitIdle
	w.numero = newNumero(w.now())
	return nil
}
