package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/Practica-Profesional-25/acme-pos/internal/application/wizard"
	"github.com/Practica-Profesional-25/acme-pos/internal/domain/sale"
	"github.com/Practica-Profesional-25/acme-pos/internal/infrastructure/api"
	"github.com/Practica-Profesional-25/acme-pos/internal/infrastructure/pdf"
)

// custMode submodos del paso de cliente.
type custMode int

const (
	custMenu custMode = iota
	custExisting
	custFactura
	custCreditoFiscal
)

var custOptions = []string{
	"Consumidor final",
	"Cliente existente",
	"Factura (cliente nuevo)",
	"Crédito fiscal (cliente nuevo)",
}

// posProcessedMsg la terminal simulada terminó de procesar.
type posProcessedMsg struct{}

const searchDelay = 300 * time.Millisecond

// ventaState estado de las cuatro pantallas del asistente.
type ventaState struct {
	search     *api.Search[api.ProductFilters, *api.ProductList]
	custSearch *api.Search[api.CustomerFilters, *api.CustomerList]

	// paso 1: selección de productos
	searchInput textinput.Model
	products    []api.Product
	cursor      int
	qtyInput    textinput.Model
	qtyFocus    bool

	// paso 2: selección de cliente
	custMode       custMode
	custMenuCursor int
	custInput      textinput.Model
	customers      []api.Customer
	custCursor     int
	inputs         []textinput.Model
	focusIndex     int

	// paso 3: resumen y pago
	payCursor int // 0 efectivo, 1 tarjeta
	cashInput textinput.Model
	posStatus sale.POSStatus

	// paso 4: estado
	outcome *wizard.Outcome
}

func newVentaState(client *api.Client) ventaState {
	s := ventaState{
		search:     client.NewProductSearch(searchDelay),
		custSearch: client.NewCustomerSearch(searchDelay),
		posStatus:  sale.POSReady,
	}
	s.initInputs()
	return s
}

func (s *ventaState) initInputs() {
	s.searchInput = textinput.New()
	s.searchInput.Placeholder = "Buscar producto..."
	s.searchInput.Focus()
	s.qtyInput = textinput.New()
	s.qtyInput.Placeholder = "Cantidad"
	s.qtyInput.CharLimit = 5
	s.custInput = textinput.New()
	s.custInput.Placeholder = "Buscar cliente..."
	s.cashInput = textinput.New()
	s.cashInput.Placeholder = "Efectivo recibido"
	s.cashInput.CharLimit = 12
}

// reset deja el asistente visual como recién abierto, conservando las
// búsquedas ya construidas.
func (s *ventaState) reset() {
	search, custSearch := s.search, s.custSearch
	*s = ventaState{search: search, custSearch: custSearch, posStatus: sale.POSReady}
	s.initInputs()
}

// enterVenta carga el catálogo inicial al entrar al asistente.
func (m Model) enterVenta() tea.Cmd {
	return func() tea.Msg {
		list, err := m.client.ListProducts(context.Background(), api.ProductFilters{Limit: 20})
		if err != nil {
			return errorMsg{err}
		}
		return productsLoadedMsg{list}
	}
}

// ── Update ────────────────────────────────────────────────────────────────────

func (m Model) updateVenta(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		m.venta.products = msg.list.Products
		if m.venta.cursor >= len(m.venta.products) {
			m.venta.cursor = 0
		}
		return m, nil
	case customersLoadedMsg:
		m.venta.customers = msg.list.Customers
		if m.venta.custCursor >= len(m.venta.customers) {
			m.venta.custCursor = 0
		}
		return m, nil
	case saleSubmittedMsg:
		m.venta.outcome = msg.outcome
		if msg.outcome.Status == sale.StatusEfectuada {
			m.notice = "Venta efectuada. DTE: " + msg.outcome.DTE
		} else {
			m.status = "Venta rechazada: " + msg.outcome.Reason
		}
		return m, nil
	case posProcessedMsg:
		m.venta.posStatus = sale.POSProcessed
		m.notice = "Pago con tarjeta procesado"
		return m, nil
	case pdfSavedMsg:
		m.notice = "Comprobante guardado en " + msg.path
		return m, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.status, m.notice = "", ""

	switch m.wiz.Step() {
	case wizard.StepProductos:
		return m.updatePasoProductos(key)
	case wizard.StepCliente:
		return m.updatePasoCliente(key)
	case wizard.StepResumen:
		return m.updatePasoResumen(key)
	case wizard.StepEstado:
		return m.updatePasoEstado(key)
	}
	return m, nil
}

// ── Paso 1: productos ─────────────────────────────────────────────────────────

func (m Model) updatePasoProductos(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.venta.qtyFocus {
		switch key.String() {
		case "esc":
			m.venta.qtyFocus = false
			m.venta.qtyInput.Reset()
			return m, nil
		case "enter":
			return m.agregarProducto()
		}
		var cmd tea.Cmd
		m.venta.qtyInput, cmd = m.venta.qtyInput.Update(key)
		return m, cmd
	}

	switch key.String() {
	case "esc":
		return m.volverAlMenu()
	case "up":
		if m.venta.cursor > 0 {
			m.venta.cursor--
		}
		return m, nil
	case "down":
		if m.venta.cursor < len(m.venta.products)-1 {
			m.venta.cursor++
		}
		return m, nil
	case "enter":
		if len(m.venta.products) == 0 {
			return m, nil
		}
		m.venta.qtyFocus = true
		m.venta.qtyInput.SetValue("1")
		m.venta.qtyInput.Focus()
		return m, nil
	case "ctrl+x":
		if len(m.venta.products) > 0 {
			if err := m.wiz.RemoveItem(m.venta.products[m.venta.cursor].ID); err != nil {
				m.status = err.Error()
			}
		}
		return m, nil
	case "ctrl+n":
		if err := m.wiz.Next(); err != nil {
			m.status = err.Error()
		}
		return m, nil
	}

	// Lo demás escribe en la búsqueda y reprograma el debounce.
	before := m.venta.searchInput.Value()
	var cmd tea.Cmd
	m.venta.searchInput, cmd = m.venta.searchInput.Update(key)
	if q := m.venta.searchInput.Value(); q != before {
		m.buscarProductosVenta(q)
	}
	return m, cmd
}

// buscarProductosVenta programa la búsqueda con debounce; el resultado llega
// como productsLoadedMsg a través del puente. Solo la última búsqueda de una
// ráfaga de tecleo toca la red.
func (m Model) buscarProductosVenta(q string) {
	bridge := m.bridge
	m.venta.search.Do(context.Background(), api.ProductFilters{Nombre: q, Limit: 20},
		func(list *api.ProductList, err error) {
			if err != nil {
				bridge.Send(errorMsg{err})
				return
			}
			bridge.Send(productsLoadedMsg{list})
		})
}

func (m Model) agregarProducto() (tea.Model, tea.Cmd) {
	qty, err := strconv.Atoi(strings.TrimSpace(m.venta.qtyInput.Value()))
	if err != nil {
		m.status = "Cantidad inválida"
		return m, nil
	}
	p := m.venta.products[m.venta.cursor]
	if err := m.wiz.AddItem(p, qty); err != nil {
		m.status = err.Error()
	} else {
		m.notice = fmt.Sprintf("%s x%d agregado", p.Nombre, qty)
	}
	m.venta.qtyFocus = false
	m.venta.qtyInput.Reset()
	return m, nil
}

// ── Paso 2: cliente ───────────────────────────────────────────────────────────

func (m Model) updatePasoCliente(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.venta.custMode {
	case custMenu:
		return m.updateClienteMenu(key)
	case custExisting:
		return m.updateClienteExistente(key)
	default:
		return m.updateClienteFormulario(key)
	}
}

func (m Model) updateClienteMenu(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+p":
		if err := m.wiz.Previous(); err != nil {
			m.status = err.Error()
		}
		return m, nil
	case "up":
		if m.venta.custMenuCursor > 0 {
			m.venta.custMenuCursor--
		}
	case "down":
		if m.venta.custMenuCursor < len(custOptions)-1 {
			m.venta.custMenuCursor++
		}
	case "enter":
		switch m.venta.custMenuCursor {
		case 0: // consumidor final
			return m.seleccionarCliente(sale.DefaultCustomer{})
		case 1:
			m.venta.custMode = custExisting
			m.venta.custInput.Focus()
			return m, m.buscarClientesVentaCmd("")
		case 2:
			m.venta.custMode = custFactura
			m.initFacturaForm()
		case 3:
			m.venta.custMode = custCreditoFiscal
			m.initCreditoFiscalForm()
		}
	}
	return m, nil
}

func (m Model) updateClienteExistente(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.venta.custMode = custMenu
		return m, nil
	case "up":
		if m.venta.custCursor > 0 {
			m.venta.custCursor--
		}
		return m, nil
	case "down":
		if m.venta.custCursor < len(m.venta.customers)-1 {
			m.venta.custCursor++
		}
		return m, nil
	case "enter":
		if len(m.venta.customers) == 0 {
			return m, nil
		}
		c := m.venta.customers[m.venta.custCursor]
		return m.seleccionarCliente(sale.ExistingCustomer{
			ID:        c.ID,
			Name:      c.Nombre,
			Email:     c.Email,
			DUI:       c.DUI,
			NIT:       c.NIT,
			Telefono:  c.Telefono,
			Direccion: c.Direccion,
		})
	}

	before := m.venta.custInput.Value()
	var cmd tea.Cmd
	m.venta.custInput, cmd = m.venta.custInput.Update(key)
	if q := m.venta.custInput.Value(); q != before {
		bridge := m.bridge
		m.venta.custSearch.Do(context.Background(), api.CustomerFilters{Nombre: q, Limit: 20},
			func(list *api.CustomerList, err error) {
				if err != nil {
					bridge.Send(errorMsg{err})
					return
				}
				bridge.Send(customersLoadedMsg{list})
			})
	}
	return m, cmd
}

// buscarClientesVentaCmd carga la primera página sin debounce al abrir la
// búsqueda.
func (m Model) buscarClientesVentaCmd(q string) tea.Cmd {
	return func() tea.Msg {
		list, err := m.client.ListCustomers(context.Background(), api.CustomerFilters{Nombre: q, Limit: 20})
		if err != nil {
			return errorMsg{err}
		}
		return customersLoadedMsg{list}
	}
}

func (m *Model) initFacturaForm() {
	m.venta.inputs = make([]textinput.Model, 2)
	for i, ph := range []string{"Nombre", "Email"} {
		m.venta.inputs[i] = textinput.New()
		m.venta.inputs[i].Placeholder = ph
	}
	m.venta.inputs[0].Focus()
	m.venta.focusIndex = 0
}

func (m *Model) initCreditoFiscalForm() {
	labels := []string{
		"Nombre o razón social", "Registro fiscal", "NIT", "Giro",
		"Teléfono", "Departamento", "Municipio", "Distrito", "Dirección",
	}
	m.venta.inputs = make([]textinput.Model, len(labels))
	for i, ph := range labels {
		m.venta.inputs[i] = textinput.New()
		m.venta.inputs[i].Placeholder = ph
	}
	m.venta.inputs[0].Focus()
	m.venta.focusIndex = 0
}

func (m Model) updateClienteFormulario(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.venta.custMode = custMenu
		return m, nil
	case "tab", "down":
		m.moveFormFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.moveFormFocus(-1)
		return m, nil
	case "ctrl+s", "enter":
		if key.String() == "enter" && m.venta.focusIndex < len(m.venta.inputs)-1 {
			m.moveFormFocus(1)
			return m, nil
		}
		return m.submitClienteFormulario()
	}

	var cmd tea.Cmd
	m.venta.inputs[m.venta.focusIndex], cmd = m.venta.inputs[m.venta.focusIndex].Update(key)
	return m, cmd
}

func (m *Model) moveFormFocus(delta int) {
	m.venta.inputs[m.venta.focusIndex].Blur()
	m.venta.focusIndex = (m.venta.focusIndex + delta + len(m.venta.inputs)) % len(m.venta.inputs)
	m.venta.inputs[m.venta.focusIndex].Focus()
}

func (m Model) submitClienteFormulario() (tea.Model, tea.Cmd) {
	val := func(i int) string { return strings.TrimSpace(m.venta.inputs[i].Value()) }
	if val(0) == "" {
		m.status = "El nombre es obligatorio"
		return m, nil
	}

	if m.venta.custMode == custFactura {
		return m.seleccionarCliente(sale.FacturaCustomer{Name: val(0), Email: val(1)})
	}
	return m.seleccionarCliente(sale.CreditoFiscalCustomer{
		Name:           val(0),
		RegistroFiscal: val(1),
		NIT:            val(2),
		Giro:           val(3),
		Telefono:       val(4),
		Departamento:   val(5),
		Municipio:      val(6),
		Distrito:       val(7),
		Direccion:      val(8),
	})
}

// seleccionarCliente fija el cliente y avanza al resumen.
func (m Model) seleccionarCliente(c sale.Customer) (tea.Model, tea.Cmd) {
	if err := m.wiz.SetCustomer(c); err != nil {
		m.status = err.Error()
		return m, nil
	}
	if err := m.wiz.Next(); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.venta.custMode = custMenu
	m.venta.cashInput.Focus()
	m.notice = "Cliente: " + c.DisplayName() + " · Documento: " + string(c.DocumentType())
	return m, nil
}

// ── Paso 3: resumen y pago ────────────────────────────────────────────────────

func (m Model) updatePasoResumen(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+p":
		if err := m.wiz.Previous(); err != nil {
			m.status = err.Error()
		}
		return m, nil
	case "left", "right":
		m.venta.payCursor = 1 - m.venta.payCursor
		m.venta.posStatus = sale.POSReady
		if m.venta.payCursor == 0 {
			m.venta.cashInput.Focus()
		} else {
			m.venta.cashInput.Blur()
		}
		return m, nil
	case "enter":
		if m.venta.payCursor == 1 && m.venta.posStatus == sale.POSReady {
			// Terminal simulada: no hay pasarela real detrás.
			m.venta.posStatus = sale.POSProcessing
			return m, tea.Tick(1500*time.Millisecond, func(time.Time) tea.Msg {
				return posProcessedMsg{}
			})
		}
		return m, nil
	case "ctrl+s":
		return m.procesarVenta()
	}

	if m.venta.payCursor == 0 {
		var cmd tea.Cmd
		m.venta.cashInput, cmd = m.venta.cashInput.Update(key)
		return m, cmd
	}
	return m, nil
}

// procesarVenta fija el pago elegido y dispara el envío. El asistente
// garantiza un solo envío aunque la tecla se repita.
func (m Model) procesarVenta() (tea.Model, tea.Cmd) {
	var pago sale.Payment
	if m.venta.payCursor == 0 {
		amount, err := decimal.NewFromString(strings.TrimSpace(m.venta.cashInput.Value()))
		if err != nil {
			m.status = "Monto de efectivo inválido"
			return m, nil
		}
		pago = sale.Payment{Method: sale.PayEfectivo, Cash: &sale.CashDetails{CashAmount: amount}}
	} else {
		pago = sale.Payment{Method: sale.PayTarjeta, Card: &sale.CardDetails{POSStatus: m.venta.posStatus}}
	}
	if err := m.wiz.SetPayment(pago); err != nil {
		m.status = err.Error()
		return m, nil
	}
	if err := m.wiz.CanProceed(); err != nil {
		m.status = err.Error()
		return m, nil
	}

	wiz := m.wiz
	return m, func() tea.Msg {
		out, err := wiz.Submit(context.Background())
		if err != nil {
			return errorMsg{err}
		}
		return saleSubmittedMsg{out}
	}
}

// ── Paso 4: estado ────────────────────────────────────────────────────────────

func (m Model) updatePasoEstado(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.wiz.Draft()
	switch key.String() {
	case "esc":
		return m.volverAlMenu()
	case "r":
		if d.Status != sale.StatusRechazada {
			return m, nil
		}
		wiz := m.wiz
		return m, func() tea.Msg {
			out, err := wiz.Retry(context.Background())
			if err != nil {
				return errorMsg{err}
			}
			return saleSubmittedMsg{out}
		}
	case "p":
		if d.Status != sale.StatusEfectuada {
			return m, nil
		}
		comp := pdf.Comprobante{
			Comercio: m.comercio,
			Numero:   m.wiz.Numero(),
			Fecha:    time.Now(),
			Draft:    d,
		}
		gen := m.pdfGen
		return m, func() tea.Msg {
			path, err := gen.Save(comp)
			if err != nil {
				return errorMsg{err}
			}
			return pdfSavedMsg{path}
		}
	case "ctrl+p":
		// Una venta rechazada permite volver al resumen a corregir el pago.
		if err := m.wiz.Previous(); err != nil {
			m.status = err.Error()
		}
		return m, nil
	case "n":
		if err := m.wiz.NewSale(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.venta.reset()
		return m, m.enterVenta()
	}
	return m, nil
}

// ── Views ─────────────────────────────────────────────────────────────────────

func (m Model) viewVenta() string {
	var b strings.Builder
	b.WriteString(m.viewPasos() + "\n\n")

	switch m.wiz.Step() {
	case wizard.StepProductos:
		b.WriteString(m.viewPasoProductos())
	case wizard.StepCliente:
		b.WriteString(m.viewPasoCliente())
	case wizard.StepResumen:
		b.WriteString(m.viewPasoResumen())
	case wizard.StepEstado:
		b.WriteString(m.viewPasoEstado())
	}
	return b.String()
}

// viewPasos indicador de progreso del asistente.
func (m Model) viewPasos() string {
	actual := m.wiz.Step()
	parts := make([]string, 0, 4)
	for s := wizard.StepProductos; s <= wizard.StepEstado; s++ {
		label := fmt.Sprintf("%d. %s", int(s), s)
		switch {
		case s < actual:
			parts = append(parts, stepDoneStyle.Render(label))
		case s == actual:
			parts = append(parts, stepActiveStyle.Render(label))
		default:
			parts = append(parts, dimStyle.Render(label))
		}
	}
	return "  " + strings.Join(parts, dimStyle.Render("  →  ")) +
		dimStyle.Render("    Venta "+m.wiz.Numero())
}

func (m Model) viewPasoProductos() string {
	var b strings.Builder
	b.WriteString("  " + m.venta.searchInput.View() + "\n\n")

	if len(m.venta.products) == 0 {
		b.WriteString(dimStyle.Render("  Sin resultados") + "\n")
	}
	for i, p := range m.venta.products {
		line := fmt.Sprintf("%s %s $%s", pad(p.Nombre, 34), pad("stock "+strconv.Itoa(p.Stock), 12), p.Precio.StringFixed(2))
		if i == m.venta.cursor {
			b.WriteString(selectedStyle.Render("  > "+line) + "\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}
	if m.venta.qtyFocus {
		b.WriteString("\n  Cantidad: " + m.venta.qtyInput.View() + "\n")
	}

	b.WriteString("\n" + m.viewCarrito())
	b.WriteString(helpStyle.Render("enter agregar · ctrl+x quitar · ctrl+n siguiente · esc menú"))
	return boxStyle.Render(b.String())
}

// viewCarrito líneas de la venta con sus totales agregados.
func (m Model) viewCarrito() string {
	d := m.wiz.Draft()
	if len(d.Items) == 0 {
		return dimStyle.Render("  La venta está vacía") + "\n"
	}
	var b strings.Builder
	b.WriteString("  Venta en curso:\n")
	for _, item := range d.Items {
		b.WriteString(fmt.Sprintf("   %s x%-3d  $%s\n",
			pad(item.Name, 30), item.Quantity, item.Total.StringFixed(2)))
	}
	b.WriteString(fmt.Sprintf("   Subtotal $%s · IVA $%s · "+selectedStyle.Render("Total $%s")+"\n",
		d.Subtotal().StringFixed(2), d.Tax().StringFixed(2), d.Total().StringFixed(2)))
	return b.String()
}

func (m Model) viewPasoCliente() string {
	var b strings.Builder

	switch m.venta.custMode {
	case custMenu:
		b.WriteString("  ¿Para quién es la venta?\n\n")
		for i, opt := range custOptions {
			if i == m.venta.custMenuCursor {
				b.WriteString(selectedStyle.Render("  > "+opt) + "\n")
			} else {
				b.WriteString("    " + opt + "\n")
			}
		}
		b.WriteString(helpStyle.Render("enter elegir · ctrl+p paso anterior"))

	case custExisting:
		b.WriteString("  " + m.venta.custInput.View() + "\n\n")
		if len(m.venta.customers) == 0 {
			b.WriteString(dimStyle.Render("  Sin resultados") + "\n")
		}
		for i, c := range m.venta.customers {
			doc := c.DUI
			if c.NIT != "" {
				doc = "NIT " + c.NIT
			}
			line := fmt.Sprintf("%s %s", pad(c.Nombre, 34), dimStyle.Render(doc))
			if i == m.venta.custCursor {
				b.WriteString(selectedStyle.Render("  > "+line) + "\n")
			} else {
				b.WriteString("    " + line + "\n")
			}
		}
		b.WriteString(helpStyle.Render("enter seleccionar · esc volver"))

	default:
		titulo := "Factura"
		if m.venta.custMode == custCreditoFiscal {
			titulo = "Crédito fiscal"
		}
		b.WriteString("  Cliente nuevo · " + titulo + "\n\n")
		for _, input := range m.venta.inputs {
			b.WriteString("  " + input.View() + "\n")
		}
		b.WriteString(helpStyle.Render("tab siguiente campo · ctrl+s confirmar · esc volver"))
	}
	return boxStyle.Render(b.String())
}

func (m Model) viewPasoResumen() string {
	d := m.wiz.Draft()
	var b strings.Builder

	cliente := "Consumidor final"
	documento := string(sale.DocTicket)
	if d.Customer != nil {
		cliente = d.Customer.DisplayName()
		documento = string(d.Customer.DocumentType())
	}
	b.WriteString("  Cliente: " + cliente + dimStyle.Render("  ·  "+documento) + "\n\n")
	b.WriteString(m.viewCarrito() + "\n")

	metodos := []string{"Efectivo", "Tarjeta"}
	b.WriteString("  Método de pago:  ")
	for i, metodo := range metodos {
		if i == m.venta.payCursor {
			b.WriteString(selectedStyle.Render("["+metodo+"]") + "  ")
		} else {
			b.WriteString(dimStyle.Render(" "+metodo+" ") + "  ")
		}
	}
	b.WriteString("\n\n")

	if m.venta.payCursor == 0 {
		b.WriteString("  " + m.venta.cashInput.View() + "\n")
		if amount, err := decimal.NewFromString(strings.TrimSpace(m.venta.cashInput.Value())); err == nil {
			cash := sale.CashDetails{CashAmount: amount}
			if cash.Covers(d.Total()) {
				b.WriteString(okStyle.Render("  Vuelto: $"+cash.Change(d.Total()).StringFixed(2)) + "\n")
			} else {
				b.WriteString(warnStyle.Render("  El efectivo no cubre el total") + "\n")
			}
		}
	} else {
		switch m.venta.posStatus {
		case sale.POSReady:
			b.WriteString("  Terminal lista. enter para cobrar.\n")
		case sale.POSProcessing:
			b.WriteString(warnStyle.Render("  Procesando pago...") + "\n")
		case sale.POSProcessed:
			b.WriteString(okStyle.Render("  Pago procesado") + "\n")
		}
	}

	b.WriteString(helpStyle.Render("←/→ método · ctrl+s procesar venta · ctrl+p paso anterior"))
	return boxStyle.Render(b.String())
}

func (m Model) viewPasoEstado() string {
	d := m.wiz.Draft()
	var b strings.Builder

	switch d.Status {
	case sale.StatusEfectuada:
		b.WriteString(okStyle.Render("  ✓ Venta efectuada") + "\n\n")
		b.WriteString("  Venta:     " + m.wiz.Numero() + "\n")
		b.WriteString("  DTE:       " + d.DTENumero + "\n")
		b.WriteString("  Verificar: " + dimStyle.Render(d.QRCode) + "\n")
		b.WriteString("  Total:     $" + d.Total().StringFixed(2) + "\n")
		if p := d.Payment; p != nil && p.Cash != nil {
			b.WriteString("  Vuelto:    $" + p.Cash.Change(d.Total()).StringFixed(2) + "\n")
		}
		b.WriteString(helpStyle.Render("p imprimir comprobante · n nueva venta · esc menú"))

	case sale.StatusRechazada:
		b.WriteString(errorStyle.Render("  ✗ Venta rechazada") + "\n\n")
		b.WriteString("  Motivo: " + d.RejectionReason + "\n")
		b.WriteString(helpStyle.Render("r reintentar · ctrl+p volver al resumen · n nueva venta"))

	default:
		b.WriteString(warnStyle.Render("  Procesando venta...") + "\n")
	}
	return boxStyle.Render(b.String())
}
