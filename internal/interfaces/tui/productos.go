package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/Practica-Profesional-25/acme-pos/internal/infrastructure/api"
)

// productosState pantalla de catálogo: listado con búsqueda y, con permisos
// de gestión, alta y edición.
type productosState struct {
	search      *api.Search[api.ProductFilters, *api.ProductList]
	searchInput textinput.Model
	products    []api.Product
	cursor      int

	formOpen   bool
	editing    string // id del producto en edición; vacío = alta
	inputs     []textinput.Model
	focusIndex int
}

func newProductosState(client *api.Client) productosState {
	s := productosState{search: client.NewProductSearch(searchDelay)}
	s.searchInput = textinput.New()
	s.searchInput.Placeholder = "Buscar producto..."
	s.searchInput.Focus()
	return s
}

func (m Model) loadProductos() tea.Cmd {
	return func() tea.Msg {
		list, err := m.client.ListProducts(context.Background(), api.ProductFilters{Limit: 20})
		if err != nil {
			return errorMsg{err}
		}
		return productsLoadedMsg{list}
	}
}

func (m Model) updateProductos(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		m.productos.products = msg.list.Products
		if m.productos.cursor >= len(m.productos.products) {
			m.productos.cursor = 0
		}
		return m, nil
	case productSavedMsg:
		m.productos.formOpen = false
		m.notice = "Producto guardado: " + msg.product.Nombre
		return m, m.loadProductos()
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.status, m.notice = "", ""

	if m.productos.formOpen {
		return m.updateProductoForm(key)
	}

	switch key.String() {
	case "esc":
		return m.volverAlMenu()
	case "up":
		if m.productos.cursor > 0 {
			m.productos.cursor--
		}
		return m, nil
	case "down":
		if m.productos.cursor < len(m.productos.products)-1 {
			m.productos.cursor++
		}
		return m, nil
	case "ctrl+a":
		if !m.access.CanManageProducts {
			m.status = "Sin permisos para gestionar productos"
			return m, nil
		}
		m.abrirProductoForm(nil)
		return m, nil
	case "ctrl+e":
		if !m.access.CanManageProducts {
			m.status = "Sin permisos para gestionar productos"
			return m, nil
		}
		if len(m.productos.products) == 0 {
			return m, nil
		}
		p := m.productos.products[m.productos.cursor]
		m.abrirProductoForm(&p)
		return m, nil
	}

	before := m.productos.searchInput.Value()
	var cmd tea.Cmd
	m.productos.searchInput, cmd = m.productos.searchInput.Update(key)
	if q := m.productos.searchInput.Value(); q != before {
		bridge := m.bridge
		m.productos.search.Do(context.Background(), api.ProductFilters{Nombre: q, Limit: 20},
			func(list *api.ProductList, err error) {
				if err != nil {
					bridge.Send(errorMsg{err})
					return
				}
				bridge.Send(productsLoadedMsg{list})
			})
	}
	return m, cmd
}

var productoFormLabels = []string{
	"Identificador", "Nombre", "Categoría", "Subcategoría", "Precio", "Stock",
}

// abrirProductoForm inicializa el formulario, precargado si edita.
func (m *Model) abrirProductoForm(p *api.Product) {
	m.productos.inputs = make([]textinput.Model, len(productoFormLabels))
	for i, ph := range productoFormLabels {
		m.productos.inputs[i] = textinput.New()
		m.productos.inputs[i].Placeholder = ph
	}
	if p != nil {
		m.productos.editing = p.ID
		m.productos.inputs[0].SetValue(p.Identificador)
		m.productos.inputs[1].SetValue(p.Nombre)
		m.productos.inputs[2].SetValue(p.Categoria)
		m.productos.inputs[3].SetValue(p.Subcategoria)
		m.productos.inputs[4].SetValue(p.Precio.StringFixed(2))
		m.productos.inputs[5].SetValue(strconv.Itoa(p.Stock))
	} else {
		m.productos.editing = ""
	}
	m.productos.inputs[0].Focus()
	m.productos.focusIndex = 0
	m.productos.formOpen = true
}

func (m Model) updateProductoForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.productos
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
		return m.submitProductoForm()
	}

	var cmd tea.Cmd
	s.inputs[s.focusIndex], cmd = s.inputs[s.focusIndex].Update(key)
	return m, cmd
}

func (m Model) submitProductoForm() (tea.Model, tea.Cmd) {
	val := func(i int) string { return strings.TrimSpace(m.productos.inputs[i].Value()) }

	if val(1) == "" {
		m.status = "El nombre es obligatorio"
		return m, nil
	}
	precio, err := decimal.NewFromString(val(4))
	if err != nil {
		m.status = "Precio inválido"
		return m, nil
	}
	stock, err := strconv.Atoi(val(5))
	if err != nil || stock < 0 {
		m.status = "Stock inválido"
		return m, nil
	}

	client := m.client
	if id := m.productos.editing; id != "" {
		identificador, nombre := val(0), val(1)
		categoria, subcategoria := val(2), val(3)
		req := api.UpdateProductRequest{
			Identificador: &identificador,
			Nombre:        &nombre,
			Categoria:     &categoria,
			Subcategoria:  &subcategoria,
			Precio:        &precio,
			Stock:         &stock,
		}
		return m, func() tea.Msg {
			p, err := client.UpdateProduct(context.Background(), id, req)
			if err != nil {
				return errorMsg{err}
			}
			return productSavedMsg{p}
		}
	}

	req := api.CreateProductRequest{
		Identificador: val(0),
		Nombre:        val(1),
		Categoria:     val(2),
		Subcategoria:  val(3),
		Precio:        precio,
		Stock:         stock,
	}
	return m, func() tea.Msg {
		p, err := client.CreateProduct(context.Background(), req)
		if err != nil {
			return errorMsg{err}
		}
		return productSavedMsg{p}
	}
}

func (m Model) viewProductos() string {
	if m.productos.formOpen {
		return m.viewProductoForm()
	}

	var b strings.Builder
	b.WriteString("  " + m.productos.searchInput.View() + "\n\n")

	if len(m.productos.products) == 0 {
		b.WriteString(dimStyle.Render("  Sin resultados") + "\n")
	}
	for i, p := range m.productos.products {
		line := fmt.Sprintf("%s %s %s $%s  stock %d",
			pad(p.Identificador, 12), pad(p.Nombre, 30), pad(p.Categoria, 16),
			p.Precio.StringFixed(2), p.Stock)
		if i == m.productos.cursor {
			b.WriteString(selectedStyle.Render("  > "+line) + "\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}

	help := "esc menú"
	if m.access.CanManageProducts {
		help = "ctrl+a nuevo · ctrl+e editar · " + help
	}
	b.WriteString(helpStyle.Render(help))
	return boxStyle.Render(b.String())
}

func (m Model) viewProductoForm() string {
	var b strings.Builder
	titulo := "Nuevo producto"
	if m.productos.editing != "" {
		titulo = "Editar producto"
	}
	b.WriteString("  " + titulo + "\n\n")
	for _, input := range m.productos.inputs {
		b.WriteString("  " + input.View() + "\n")
	}
	b.WriteString(helpStyle.Render("tab siguiente campo · ctrl+s guardar · esc cancelar"))
	return boxStyle.Render(b.String())
}
