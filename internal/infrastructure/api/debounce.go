package api

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Debouncer agrupa una ráfaga de invocaciones en una sola: cada llamada a Do
// cancela el timer pendiente y arranca uno nuevo, de modo que solo la última
// llamada dentro de la ventana se ejecuta. Lo posee el componente que dispara
// la búsqueda y se detiene con Stop al desmontar.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer crea el debouncer con la ventana dada.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Do agenda fn tras la ventana de espera, cancelando cualquier invocación
// pendiente anterior.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancela la invocación pendiente si la hay.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Search es una búsqueda con debounce y entrega "gana la última": además de
// agrupar ráfagas de tecleo, descarta el resultado de un request en vuelo si
// ya se disparó una búsqueda más nueva, para que una respuesta fuera de orden
// no regrese la UI a un estado viejo. No cancela el HTTP subyacente; solo
// garantiza que a lo sumo se entrega el resultado de la última llamada.
type Search[F, R any] struct {
	fetch func(context.Context, F) (R, error)
	deb   *Debouncer
	gen   atomic.Uint64
}

// NewSearch construye la búsqueda sobre fetch con la ventana dada.
func NewSearch[F, R any](fetch func(context.Context, F) (R, error), delay time.Duration) *Search[F, R] {
	return &Search[F, R]{fetch: fetch, deb: NewDebouncer(delay)}
}

// Do agenda la búsqueda; callback recibe el resultado solo si esta sigue
// siendo la llamada más reciente cuando el fetch termina.
func (s *Search[F, R]) Do(ctx context.Context, filters F, callback func(R, error)) {
	gen := s.gen.Add(1)
	s.deb.Do(func() {
		result, err := s.fetch(ctx, filters)
		if gen != s.gen.Load() {
			// Llegó una búsqueda más nueva mientras esta estaba en vuelo.
			return
		}
		callback(result, err)
	})
}

// Stop cancela cualquier búsqueda pendiente e invalida las que están en vuelo.
func (s *Search[F, R]) Stop() {
	s.gen.Add(1)
	s.deb.Stop()
}

// NewProductSearch búsqueda de productos con debounce.
func (c *Client) NewProductSearch(delay time.Duration) *Search[ProductFilters, *ProductList] {
	return NewSearch(c.ListProducts, delay)
}

// NewCustomerSearch búsqueda de clientes con debounce.
func (c *Client) NewCustomerSearch(delay time.Duration) *Search[CustomerFilters, *CustomerList] {
	return NewSearch(c.ListCustomers, delay)
}

// NewSaleSearch búsqueda de ventas con debounce.
func (c *Client) NewSaleSearch(delay time.Duration) *Search[SaleFilters, *SaleList] {
	return NewSearch(c.ListSales, delay)
}
