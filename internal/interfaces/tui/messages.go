package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Practica-Profesional-25/acme-pos/internal/application/wizard"
	"github.com/Practica-Profesional-25/acme-pos/internal/infrastructure/api"
)

// Mensajes internos del programa. Las goroutinas que hablan con la red nunca
// tocan el modelo: reportan con uno de estos mensajes.
type (
	errorMsg struct{ err error }

	productsLoadedMsg  struct{ list *api.ProductList }
	customersLoadedMsg struct{ list *api.CustomerList }
	salesLoadedMsg     struct{ list *api.SaleList }

	productSavedMsg    struct{ product *api.Product }
	customerSavedMsg   struct{ customer *api.Customer }
	customerDeletedMsg struct{ nombre string }

	saleSubmittedMsg struct{ outcome *wizard.Outcome }
	invoiceResentMsg struct{ message string }
	pdfSavedMsg      struct{ path string }

	// sessionExpiredMsg llega desde el interceptor 401 del cliente API.
	sessionExpiredMsg struct{}
	// accessDeniedMsg llega desde el interceptor 403, con los permisos que
	// habrían hecho falta.
	accessDeniedMsg struct{ required []string }
)

// Bridge conecta goroutinas ajenas a bubbletea con el programa: implementa
// api.Notifier para los avisos del interceptor y reenvía los resultados de
// las búsquedas con debounce. Attach se llama una vez creado el programa;
// los avisos anteriores se descartan.
type Bridge struct {
	mu sync.Mutex
	p  *tea.Program
}

// NewBridge crea un puente sin programa asociado.
func NewBridge() *Bridge { return &Bridge{} }

// Attach asocia el programa que recibirá los mensajes.
func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.p = p
}

// Send reenvía un mensaje al programa si ya está asociado.
func (b *Bridge) Send(msg tea.Msg) {
	b.mu.Lock()
	p := b.p
	b.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// SessionExpired implementa api.Notifier.
func (b *Bridge) SessionExpired() {
	b.Send(sessionExpiredMsg{})
}

// AccessDenied implementa api.Notifier.
func (b *Bridge) AccessDenied(required []string) {
	b.Send(accessDeniedMsg{required: required})
}
