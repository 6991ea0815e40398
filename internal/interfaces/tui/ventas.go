package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Practica-Profesional-25/acme-pos/internal/domain/sale"
	"github.com/Practica-Profesional-25/acme-pos/internal/infrastructure/api"
)

// dteLoadedMsg detalle DTE de la venta seleccionada.
type dteLoadedMsg struct{ dte *api.DTE }

// ventasState pantalla de consulta de ventas.
type ventasState struct {
	search      *api.Search[api.SaleFilters, *api.SaleList]
	searchInput textinput.Model
	sales       []api.Sale
	cursor      int
	dte         *api.DTE
}

func newVentasState(client *api.Client) ventasState {
	s := ventasState{search: client.NewSaleSearch(searchDelay)}
	s.searchInput = textinput.New()
	s.searchInput.Placeholder = "Buscar por número o cliente..."
	s.searchInput.Focus()
	return s
}

func (m Model) loadVentas() tea.Cmd {
	return func() tea.Msg {
		list, err := m.client.ListSales(context.Background(), api.SaleFilters{Limit: 20})
		if err != nil {
			return errorMsg{err}
		}
		return salesLoadedMsg{list}
	}
}

func (m Model) updateVentas(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case salesLoadedMsg:
		m.ventas.sales = msg.list.Sales
		if m.ventas.cursor >= len(m.ventas.sales) {
			m.ventas.cursor = 0
		}
		return m, nil
	case dteLoadedMsg:
		m.ventas.dte = msg.dte
		return m, nil
	case invoiceResentMsg:
		m.notice = msg.message
		return m, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.status, m.notice = "", ""

	switch key.String() {
	case "esc":
		if m.ventas.dte != nil {
			m.ventas.dte = nil
			return m, nil
		}
		return m.volverAlMenu()
	case "up":
		if m.ventas.cursor > 0 {
			m.ventas.cursor--
		}
		return m, nil
	case "down":
		if m.ventas.cursor < len(m.ventas.sales)-1 {
			m.ventas.cursor++
		}
		return m, nil
	case "ctrl+d":
		if len(m.ventas.sales) == 0 {
			return m, nil
		}
		id := m.ventas.sales[m.ventas.cursor].ID
		client := m.client
		return m, func() tea.Msg {
			dte, err := client.GetDTE(context.Background(), id)
			if err != nil {
				return errorMsg{err}
			}
			return dteLoadedMsg{dte}
		}
	case "ctrl+r":
		if len(m.ventas.sales) == 0 {
			return m, nil
		}
		v := m.ventas.sales[m.ventas.cursor]
		if v.Estado != sale.StatusEfectuada {
			m.status = "Solo una venta efectuada puede reenviar su factura"
			return m, nil
		}
		client := m.client
		return m, func() tea.Msg {
			message, err := client.ResendInvoice(context.Background(), v.ID)
			if err != nil {
				return errorMsg{err}
			}
			return invoiceResentMsg{message}
		}
	case "ctrl+p":
		if len(m.ventas.sales) == 0 {
			return m, nil
		}
		v := m.ventas.sales[m.ventas.cursor]
		if v.Estado != sale.StatusPending {
			m.status = "Solo una venta pendiente puede enviarse a procesar"
			return m, nil
		}
		client := m.client
		return m, tea.Batch(
			func() tea.Msg {
				message, err := client.ProcessSale(context.Background(), v.ID)
				if err != nil {
					return errorMsg{err}
				}
				return invoiceResentMsg{message}
			},
			m.loadVentas(),
		)
	}

	before := m.ventas.searchInput.Value()
	var cmd tea.Cmd
	m.ventas.searchInput, cmd = m.ventas.searchInput.Update(key)
	if q := m.ventas.searchInput.Value(); q != before {
		bridge := m.bridge
		m.ventas.search.Do(context.Background(), api.SaleFilters{Numero: q, Limit: 20},
			func(list *api.SaleList, err error) {
				if err != nil {
					bridge.Send(errorMsg{err})
					return
				}
				bridge.Send(salesLoadedMsg{list})
			})
	}
	return m, cmd
}

func (m Model) viewVentas() string {
	if m.ventas.dte != nil {
		return m.viewDTE()
	}

	var b strings.Builder
	b.WriteString("  " + m.ventas.searchInput.View() + "\n\n")

	if len(m.ventas.sales) == 0 {
		b.WriteString(dimStyle.Render("  Sin ventas") + "\n")
	}
	for i, v := range m.ventas.sales {
		estado := v.Estado
		switch v.Estado {
		case sale.StatusEfectuada:
			estado = okStyle.Render(estado)
		case sale.StatusRechazada:
			estado = errorStyle.Render(estado)
		}
		line := fmt.Sprintf("%s %s $%s  %s",
			pad(v.Numero, 24), pad(v.Cliente, 26), pad(v.Total.StringFixed(2), 10), estado)
		if i == m.ventas.cursor {
			b.WriteString(selectedStyle.Render("  > "+line) + "\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}

	b.WriteString(helpStyle.Render("ctrl+d ver DTE · ctrl+r reenviar factura · ctrl+p procesar pendiente · esc menú"))
	return boxStyle.Render(b.String())
}

func (m Model) viewDTE() string {
	dte := m.ventas.dte
	var b strings.Builder
	b.WriteString("  Documento tributario electrónico\n\n")
	b.WriteString("  Estado:            " + dte.Estado + "\n")
	b.WriteString("  Código generación: " + dte.CodigoGeneracion + "\n")
	b.WriteString("  Número de control: " + dte.NumeroControl + "\n")
	b.WriteString("  Generado:          " + dte.FechaGeneracion + "\n")
	if dte.FechaProceso != "" {
		b.WriteString("  Procesado:         " + dte.FechaProceso + "\n")
	}
	b.WriteString(fmt.Sprintf("  Montos:            $%s + $%s IVA = $%s\n",
		dte.Subtotal.StringFixed(2), dte.Impuestos.StringFixed(2), dte.Total.StringFixed(2)))
	if dte.QRCode != "" {
		b.WriteString("  Verificar:         " + dimStyle.Render(dte.QRCode) + "\n")
	}
	b.WriteString(helpStyle.Render("esc volver"))
	return boxStyle.Render(b.String())
}
