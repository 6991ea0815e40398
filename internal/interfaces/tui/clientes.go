package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Practica-Profesional-25/acme-pos/internal/infrastructure/api"
)

// statsLoadedMsg conteos agregados de clientes.
type statsLoadedMsg struct {
	porDepartamento []api.CustomerStat
	porTipo         []api.CustomerStat
}

// clientesState pantalla de clientes: listado con búsqueda, estadísticas y,
// con permisos de gestión, alta, edición y baja.
type clientesState struct {
	search      *api.Search[api.CustomerFilters, *api.CustomerList]
	searchInput textinput.Model
	customers   []api.Customer
	cursor      int

	statsOpen       bool
	porDepartamento []api.CustomerStat
	porTipo         []api.CustomerStat

	formOpen   bool
	editing    string // id del cliente en edición; vacío = alta
	inputs     []textinput.Model
	focusIndex int
}

func newClientesState(client *api.Client) clientesState {
	s := clientesState{search: client.NewCustomerSearch(searchDelay)}
	s.searchInput = textinput.New()
	s.searchInput.Placeholder = "Buscar cliente..."
	s.searchInput.Focus()
	return s
}

func (m Model) loadClientes() tea.Cmd {
	return func() tea.Msg {
		list, err := m.client.ListCustomers(context.Background(), api.CustomerFilters{Limit: 20})
		if err != nil {
			return errorMsg{err}
		}
		return customersLoadedMsg{list}
	}
}

func (m Model) updateClientes(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case customersLoadedMsg:
		m.clientes.customers = msg.list.Customers
		if m.clientes.cursor >= len(m.clientes.customers) {
			m.clientes.cursor = 0
		}
		return m, nil
	case statsLoadedMsg:
		m.clientes.porDepartamento = msg.porDepartamento
		m.clientes.porTipo = msg.porTipo
		m.clientes.statsOpen = true
		return m, nil
	case customerSavedMsg:
		m.clientes.formOpen = false
		m.notice = "Cliente guardado: " + msg.customer.Nombre
		return m, m.loadClientes()
	case customerDeletedMsg:
		m.notice = "Cliente eliminado: " + msg.nombre
		return m, m.loadClientes()
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.status, m.notice = "", ""

	if m.clientes.formOpen {
		return m.updateClienteForm(key)
	}

	switch key.String() {
	case "esc":
		if m.clientes.statsOpen {
			m.clientes.statsOpen = false
			return m, nil
		}
		return m.volverAlMenu()
	case "up":
		if m.clientes.cursor > 0 {
			m.clientes.cursor--
		}
		return m, nil
	case "down":
		if m.clientes.cursor < len(m.clientes.customers)-1 {
			m.clientes.cursor++
		}
		return m, nil
	case "ctrl+t":
		client := m.client
		return m, func() tea.Msg {
			porDepto, err := client.CustomerStatsByDepartment(context.Background())
			if err != nil {
				return errorMsg{err}
			}
			porTipo, err := client.CustomerStatsByType(context.Background())
			if err != nil {
				return errorMsg{err}
			}
			return statsLoadedMsg{porDepartamento: porDepto, porTipo: porTipo}
		}
	case "ctrl+a":
		if !m.access.CanManageCustomers {
			m.status = "Sin permisos para gestionar clientes"
			return m, nil
		}
		m.abrirClienteForm(nil)
		return m, nil
	case "ctrl+e":
		if !m.access.CanManageCustomers {
			m.status = "Sin permisos para gestionar clientes"
			return m, nil
		}
		if len(m.clientes.customers) == 0 {
			return m, nil
		}
		c := m.clientes.customers[m.clientes.cursor]
		m.abrirClienteForm(&c)
		return m, nil
	case "ctrl+x":
		if !m.access.CanManageCustomers {
			m.status = "Sin permisos para gestionar clientes"
			return m, nil
		}
		if len(m.clientes.customers) == 0 {
			return m, nil
		}
		c := m.clientes.customers[m.clientes.cursor]
		client := m.client
		return m, func() tea.Msg {
			if err := client.DeleteCustomer(context.Background(), c.ID); err != nil {
				return errorMsg{err}
			}
			return customerDeletedMsg{c.Nombre}
		}
	}

	before := m.clientes.searchInput.Value()
	var cmd tea.Cmd
	m.clientes.searchInput, cmd = m.clientes.searchInput.Update(key)
	if q := m.clientes.searchInput.Value(); q != before {
		bridge := m.bridge
		m.clientes.search.Do(context.Background(), api.CustomerFilters{Nombre: q, Limit: 20},
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

// El alta lleva el cliente completo; la edición solo los campos de contacto
// que el backend acepta por PATCH.
var (
	clienteFormLabels = []string{
		"Nombre", "Tipo (factura, creditoFiscal)", "Email", "DUI", "NIT",
		"Registro fiscal", "Giro", "Teléfono", "Departamento", "Municipio",
		"Distrito", "Dirección",
	}
	clienteEditLabels = []string{"Nombre", "Email", "Teléfono", "Dirección"}
)

// abrirClienteForm inicializa el formulario, precargado si edita.
func (m *Model) abrirClienteForm(c *api.Customer) {
	labels := clienteFormLabels
	if c != nil {
		labels = clienteEditLabels
	}
	m.clientes.inputs = make([]textinput.Model, len(labels))
	for i, ph := range labels {
		m.clientes.inputs[i] = textinput.New()
		m.clientes.inputs[i].Placeholder = ph
	}
	if c != nil {
		m.clientes.editing = c.ID
		m.clientes.inputs[0].SetValue(c.Nombre)
		m.clientes.inputs[1].SetValue(c.Email)
		m.clientes.inputs[2].SetValue(c.Telefono)
		m.clientes.inputs[3].SetValue(c.Direccion)
	} else {
		m.clientes.editing = ""
	}
	m.clientes.inputs[0].Focus()
	m.clientes.focusIndex = 0
	m.clientes.formOpen = true
}

func (m Model) updateClienteForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.clientes
	switch key.String() {
	case "esc":
		s.formOpen = false
		return m, nil
	case "tab", "down":
		s.inputs[s.focusIndex].Blur()
		s.focusIndex = (s.focusIndex + 1) % len(s.inputs)
		s.inputs[s.focusIndex].Focus()
		return m, nil
	case "shift+tab", "up":
		s.inputs[s.focusIndex].Blur()
		s.focusIndex = (s.focusIndex - 1 + len(s.inputs)) % len(s.inputs)
		s.inputs[s.focusIndex].Focus()
		return m, nil
	case "ctrl+s":
		return m.submitClienteForm()
	}

	var cmd tea.Cmd
	s.inputs[s.focusIndex], cmd = s.inputs[s.focusIndex].Update(key)
	return m, cmd
}

func (m Model) submitClienteForm() (tea.Model, tea.Cmd) {
	val := func(i int) string { return strings.TrimSpace(m.clientes.inputs[i].Value()) }

	if val(0) == "" {
		m.status = "El nombre es obligatorio"
		return m, nil
	}

	client := m.client
	if id := m.clientes.editing; id != "" {
		nombre, email := val(0), val(1)
		telefono, direccion := val(2), val(3)
		req := api.UpdateCustomerRequest{
			Nombre:    &nombre,
			Email:     &email,
			Telefono:  &telefono,
			Direccion: &direccion,
		}
		return m, func() tea.Msg {
			c, err := client.UpdateCustomer(context.Background(), id, req)
			if err != nil {
				return errorMsg{err}
			}
			return customerSavedMsg{c}
		}
	}

	if val(1) == "" {
		m.status = "El tipo es obligatorio"
		return m, nil
	}
	req := api.CreateCustomerRequest{
		Nombre:         val(0),
		Tipo:           val(1),
		Email:          val(2),
		DUI:            val(3),
		NIT:            val(4),
		RegistroFiscal: val(5),
		Giro:           val(6),
		Telefono:       val(7),
		Departamento:   val(8),
		Municipio:      val(9),
		Distrito:       val(10),
		Direccion:      val(11),
	}
	return m, func() tea.Msg {
		c, err := client.CreateCustomer(context.Background(), req)
		if err != nil {
			return errorMsg{err}
		}
		return customerSavedMsg{c}
	}
}

func (m Model) viewClientes() string {
	if m.clientes.formOpen {
		return m.viewClienteForm()
	}
	if m.clientes.statsOpen {
		return m.viewClienteStats()
	}

	var b strings.Builder
	b.WriteString("  " + m.clientes.searchInput.View() + "\n\n")

	if len(m.clientes.customers) == 0 {
		b.WriteString(dimStyle.Render("  Sin resultados") + "\n")
	}
	for i, c := range m.clientes.customers {
		doc := c.DUI
		if c.NIT != "" {
			doc = "NIT " + c.NIT
		}
		line := fmt.Sprintf("%s %s %s",
			pad(c.Nombre, 30), pad(c.Tipo, 16), dimStyle.Render(doc))
		if i == m.clientes.cursor {
			b.WriteString(selectedStyle.Render("  > "+line) + "\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}

	help := "ctrl+t estadísticas · esc menú"
	if m.access.CanManageCustomers {
		help = "ctrl+a nuevo · ctrl+e editar · ctrl+x eliminar · " + help
	}
	b.WriteString(helpStyle.Render(help))
	return boxStyle.Render(b.String())
}

func (m Model) viewClienteForm() string {
	var b strings.Builder
	titulo := "Nuevo cliente"
	if m.clientes.editing != "" {
		titulo = "Editar cliente"
	}
	b.WriteString("  " + titulo + "\n\n")
	for _, input := range m.clientes.inputs {
		b.WriteString("  " + input.View() + "\n")
	}
	b.WriteString(helpStyle.Render("tab siguiente campo · ctrl+s guardar · esc cancelar"))
	return boxStyle.Render(b.String())
}

func (m Model) viewClienteStats() string {
	var b strings.Builder
	b.WriteString("  Clientes por departamento\n")
	for _, s := range m.clientes.porDepartamento {
		b.WriteString(fmt.Sprintf("   %s %d\n", pad(s.Departamento, 24), s.Count))
	}
	b.WriteString("\n  Clientes por tipo\n")
	for _, s := range m.clientes.porTipo {
		b.WriteString(fmt.Sprintf("   %s %d\n", pad(s.Tipo, 24), s.Count))
	}
	b.WriteString(helpStyle.Render("esc volver"))
	return boxStyle.Render(b.String())
}
