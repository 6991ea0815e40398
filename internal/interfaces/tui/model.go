// Package tui implementa la interfaz de terminal del punto de venta: un menú
// principal con las secciones habilitadas según los permisos del token, el
// asistente de venta de cuatro pasos y las pantallas de consulta de ventas,
// productos y clientes.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Practica-Profesional-25/acme-pos/internal/application/wizard"
	"github.com/Practica-Profesional-25/acme-pos/internal/domain/access"
	"github.com/Practica-Profesional-25/acme-pos/internal/infrastructure/api"
	"github.com/Practica-Profesional-25/acme-pos/internal/infrastructure/pdf"
	"github.com/Practica-Profesional-25/acme-pos/pkg/logger"
	"github.com/Practica-Profesional-25/acme-pos/pkg/token"
)

type screen int

const (
	screenMenu screen = iota
	screenVenta
	screenVentas
	screenProductos
	screenClientes
)

// menuItem entrada del menú principal. allowed decide si el usuario puede
// entrar; perms son los permisos a nombrar cuando no puede.
type menuItem struct {
	label   string
	target  screen
	allowed func(*access.Context) bool
	perms   []string
}

var menuItems = []menuItem{
	{"Nueva venta", screenVenta, func(a *access.Context) bool { return a.CanProcessSales }, access.AliasProcessSales},
	{"Ventas", screenVentas, func(a *access.Context) bool { return a.CanAccessSales }, access.AliasAccessSales},
	{"Productos", screenProductos, func(a *access.Context) bool { return a.CanAccessProducts }, access.AliasAccessProducts},
	{"Clientes", screenClientes, func(a *access.Context) bool { return a.CanAccessCustomers }, access.AliasAccessCustomers},
	{"Salir", screenMenu, func(*access.Context) bool { return true }, nil},
}

// Model modelo raíz del programa.
type Model struct {
	access   *access.Context
	user     token.UserInfo
	client   *api.Client
	wiz      *wizard.Wizard
	pdfGen   *pdf.Generator
	bridge   *Bridge
	log      *logger.Logger
	comercio string
	loginURL string

	screen screen
	width  int
	height int

	// status lleva errores y avisos; notice confirmaciones. Ambos se pisan
	// con cada acción, no se acumulan.
	status string
	notice string

	sessionExpired bool
	menuCursor     int

	venta     ventaState
	ventas    ventasState
	productos productosState
	clientes  clientesState
}

// Options dependencias del modelo.
type Options struct {
	Access   *access.Context
	User     token.UserInfo
	Client   *api.Client
	Wizard   *wizard.Wizard
	PDF      *pdf.Generator
	Bridge   *Bridge
	Log      *logger.Logger
	Comercio string
	LoginURL string
}

// New construye el modelo raíz.
func New(opts Options) Model {
	m := Model{
		access:   opts.Access,
		user:     opts.User,
		client:   opts.Client,
		wiz:      opts.Wizard,
		pdfGen:   opts.PDF,
		bridge:   opts.Bridge,
		log:      opts.Log,
		comercio: opts.Comercio,
		loginURL: opts.LoginURL,
		screen:   screenMenu,
	}
	m.sessionExpired = opts.Access.IsExpired
	m.venta = newVentaState(opts.Client)
	m.ventas = newVentasState(opts.Client)
	m.productos = newProductosState(opts.Client)
	m.clientes = newClientesState(opts.Client)
	return m
}

// Init no carga nada por adelantado: cada pantalla pide lo suyo al entrar.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update enruta los mensajes: primero los globales, después la pantalla
// activa.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case sessionExpiredMsg:
		// El interceptor 401 manda aquí sin importar qué pantalla disparó
		// la request: se bloquea todo y se manda al usuario al login.
		m.sessionExpired = true
		m.access = access.New("")
		m.screen = screenMenu
		m.status = "Sesión expirada, inicia sesión nuevamente"
		if m.loginURL != "" {
			m.status += "  (" + m.loginURL + ")"
		}
		return m, nil

	case accessDeniedMsg:
		m.status = "Acceso denegado"
		if len(msg.required) > 0 {
			m.status += ". Permisos requeridos: " + strings.Join(msg.required, ", ")
		}
		return m, nil

	case errorMsg:
		m.status = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}

	switch m.screen {
	case screenMenu:
		return m.updateMenu(msg)
	case screenVenta:
		return m.updateVenta(msg)
	case screenVentas:
		return m.updateVentas(msg)
	case screenProductos:
		return m.updateProductos(msg)
	case screenClientes:
		return m.updateClientes(msg)
	}
	return m, nil
}

// View pantalla activa más la línea de estado.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" "+m.comercio+" · Punto de Venta ") + "\n\n")

	switch m.screen {
	case screenMenu:
		b.WriteString(m.viewMenu())
	case screenVenta:
		b.WriteString(m.viewVenta())
	case screenVentas:
		b.WriteString(m.viewVentas())
	case screenProductos:
		b.WriteString(m.viewProductos())
	case screenClientes:
		b.WriteString(m.viewClientes())
	}

	if m.status != "" {
		b.WriteString("\n" + errorStyle.Render(m.status))
	}
	if m.notice != "" {
		b.WriteString("\n" + okStyle.Render(m.notice))
	}
	return b.String()
}

// ── Menú principal ────────────────────────────────────────────────────────────

func (m Model) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "down", "j":
		if m.menuCursor < len(menuItems)-1 {
			m.menuCursor++
		}
	case "q":
		if m.wiz.Active() {
			m.status = "Hay una venta en curso: complétala o inicia una venta nueva"
			return m, nil
		}
		return m, tea.Quit
	case "enter":
		return m.enterMenuItem(menuItems[m.menuCursor])
	}
	return m, nil
}

func (m Model) enterMenuItem(item menuItem) (tea.Model, tea.Cmd) {
	m.status, m.notice = "", ""

	// Con una venta a medias solo se puede volver al asistente. Salir
	// también queda bloqueado hasta cerrar o descartar la venta.
	if m.wiz.Active() && item.target != screenVenta {
		m.status = "Hay una venta en curso: complétala o inicia una venta nueva"
		return m, nil
	}
	if item.label == "Salir" {
		return m, tea.Quit
	}
	if m.sessionExpired {
		m.status = "Sesión expirada, inicia sesión nuevamente"
		return m, nil
	}
	if !item.allowed(m.access) {
		m.status = "Sin acceso a " + item.label +
			". Permisos requeridos: " + strings.Join(item.perms, ", ")
		return m, nil
	}

	m.screen = item.target
	switch item.target {
	case screenVenta:
		return m, m.enterVenta()
	case screenVentas:
		return m, m.loadVentas()
	case screenProductos:
		return m, m.loadProductos()
	case screenClientes:
		return m, m.loadClientes()
	}
	return m, nil
}

func (m Model) viewMenu() string {
	var b strings.Builder

	if m.user.Name != "" || m.user.Email != "" {
		who := m.user.Name
		if who == "" {
			who = m.user.Email
		}
		b.WriteString(dimStyle.Render("Usuario: "+who) + "\n\n")
	}
	if m.sessionExpired {
		b.WriteString(warnStyle.Render("Sesión expirada, inicia sesión nuevamente") + "\n")
		if m.loginURL != "" {
			b.WriteString(dimStyle.Render("Login: "+m.loginURL) + "\n")
		}
		b.WriteString("\n")
	}

	for i, item := range menuItems {
		cursor := "  "
		label := item.label
		if !item.allowed(m.access) && item.label != "Salir" {
			label = dimStyle.Render(label + "  (sin acceso)")
		} else if m.wiz.Active() && item.target != screenVenta {
			label = dimStyle.Render(label + "  (venta en curso)")
		}
		if i == m.menuCursor {
			cursor = selectedStyle.Render("> ")
			if item.allowed(m.access) && !(m.wiz.Active() && item.target != screenVenta) {
				label = selectedStyle.Render(item.label)
			}
		}
		b.WriteString(cursor + label + "\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ mover · enter entrar · q salir"))
	return boxStyle.Render(b.String())
}

// volverAlMenu vuelve al menú salvo que haya una venta a medias.
func (m Model) volverAlMenu() (tea.Model, tea.Cmd) {
	if m.screen == screenVenta && m.wiz.Active() {
		m.status = "Hay una venta en curso: complétala o inicia una venta nueva"
		return m, nil
	}
	m.screen = screenMenu
	m.status, m.notice = "", ""
	return m, nil
}

// separador de columnas en listados.
func pad(s string, width int) string {
	if lipgloss.Width(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}
