package tui

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Practica-Profesional-25/acme-pos/internal/application/wizard"
	"github.com/Practica-Profesional-25/acme-pos/internal/domain/access"
	"github.com/Practica-Profesional-25/acme-pos/internal/infrastructure/api"
	"github.com/Practica-Profesional-25/acme-pos/internal/infrastructure/pdf"
	"github.com/Practica-Profesional-25/acme-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// forgeToken arma un JWT sin firma válida con el payload dado. El front no
// verifica firmas, solo decodifica.
func forgeToken(t *testing.T, payload map[string]any) string {
	t.Helper()
	enc := func(v any) string {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		return base64.RawURLEncoding.EncodeToString(raw)
	}
	header := map[string]any{"alg": "RS256", "typ": "JWT"}
	return enc(header) + "." + enc(payload) + "." +
		base64.RawURLEncoding.EncodeToString([]byte("firma-falsa"))
}

func tokenConPermisos(t *testing.T, perms ...string) string {
	return forgeToken(t, map[string]any{
		"sub":         "auth0|cajero",
		"exp":         time.Now().Add(time.Hour).Unix(),
		"permissions": perms,
	})
}

func modeloDePrueba(t *testing.T, acc *access.Context) Model {
	t.Helper()
	client := api.New("http://127.0.0.1:1", logger.Nop())
	return New(Options{
		Access:   acc,
		Client:   client,
		Wizard:   wizard.New(client, logger.Nop()),
		PDF:      pdf.NewGenerator(t.TempDir()),
		Bridge:   NewBridge(),
		Log:      logger.Nop(),
		Comercio: "ACME",
		LoginURL: "https://acme.infoking.win/login",
	})
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, key := range keys {
		next, _ := m.Update(key)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }
func down() tea.KeyMsg  { return tea.KeyMsg{Type: tea.KeyDown} }

// ──────────────────────────────────────────────────────────────────────────────
// Menú: permisos y sesión
// ──────────────────────────────────────────────────────────────────────────────

// Sin el permiso de la sección, enter no entra y el aviso nombra los
// permisos que faltan.
func TestMenu_SeccionSinPermisoNoEntra(t *testing.T) {
	acc := access.New(tokenConPermisos(t, "read:sales"))
	m := modeloDePrueba(t, acc)

	// Productos es la tercera entrada del menú.
	m = press(t, m, down(), down(), enter())

	assert.Equal(t, screenMenu, m.screen)
	assert.Contains(t, m.status, "Sin acceso a Productos")
	assert.Contains(t, m.status, "read:products")
}

func TestMenu_SeccionConPermisoEntra(t *testing.T) {
	acc := access.New(tokenConPermisos(t, "read:products"))
	m := modeloDePrueba(t, acc)

	m = press(t, m, down(), down(), enter())

	assert.Equal(t, screenProductos, m.screen)
	assert.Empty(t, m.status)
}

func TestMenu_AdminEntraATodo(t *testing.T) {
	acc := access.New(tokenConPermisos(t, "admin"))
	m := modeloDePrueba(t, acc)

	m = press(t, m, down(), enter())

	assert.Equal(t, screenVentas, m.screen)
}

// Con el token vencido ninguna sección abre y se pide iniciar sesión.
func TestMenu_SesionExpiradaBloqueaTodo(t *testing.T) {
	expirado := forgeToken(t, map[string]any{
		"exp":         time.Now().Add(-time.Hour).Unix(),
		"permissions": []string{"admin"},
	})
	m := modeloDePrueba(t, access.New(expirado))

	m = press(t, m, enter())

	assert.Equal(t, screenMenu, m.screen)
	assert.Contains(t, m.status, "Sesión expirada")
	assert.Contains(t, m.View(), "Sesión expirada")
}

// El aviso 401 del interceptor degrada la sesión en caliente, sin importar
// en qué pantalla estaba el usuario.
func TestUpdate_Un401DegradaLaSesion(t *testing.T) {
	acc := access.New(tokenConPermisos(t, "admin"))
	m := modeloDePrueba(t, acc)
	m = press(t, m, down(), enter())
	require.Equal(t, screenVentas, m.screen)

	next, _ := m.Update(sessionExpiredMsg{})
	m = next.(Model)

	assert.Equal(t, screenMenu, m.screen)
	assert.True(t, m.sessionExpired)
	assert.Contains(t, m.status, "Sesión expirada, inicia sesión nuevamente")
	assert.False(t, m.access.CanAccessSales, "los permisos caen con la sesión")
}

func TestUpdate_Un403NombraPermisos(t *testing.T) {
	m := modeloDePrueba(t, access.New(tokenConPermisos(t, "admin")))

	next, _ := m.Update(accessDeniedMsg{required: []string{"write:products", "admin"}})
	m = next.(Model)

	assert.Contains(t, m.status, "write:products")
}

// ──────────────────────────────────────────────────────────────────────────────
// Bloqueo de navegación con venta en curso
// ──────────────────────────────────────────────────────────────────────────────

func TestMenu_VentaEnCursoBloqueaOtrasSecciones(t *testing.T) {
	acc := access.New(tokenConPermisos(t, "admin"))
	m := modeloDePrueba(t, acc)

	// Arranca una venta y agrega un producto: hay venta a medias.
	require.NoError(t, m.wiz.AddItem(api.Product{
		ID: "p1", Nombre: "Casco", Precio: decimal.NewFromInt(100), Stock: 5,
	}, 1))
	require.True(t, m.wiz.Active())

	m = press(t, m, down(), enter()) // intenta entrar a Ventas

	assert.Equal(t, screenMenu, m.screen)
	assert.Contains(t, m.status, "venta en curso")
}

// Con venta a medias tampoco se sale del programa: ni con la entrada
// Salir del menú ni con el atajo q.
func TestMenu_VentaEnCursoBloqueaSalir(t *testing.T) {
	acc := access.New(tokenConPermisos(t, "admin"))
	m := modeloDePrueba(t, acc)

	require.NoError(t, m.wiz.AddItem(api.Product{
		ID: "p1", Nombre: "Casco", Precio: decimal.NewFromInt(100), Stock: 5,
	}, 1))
	require.True(t, m.wiz.Active())

	// Salir es la última entrada del menú.
	m = press(t, m, down(), down(), down(), down())
	next, cmd := m.Update(enter())
	m = next.(Model)
	assert.Nil(t, cmd, "enter en Salir no debe cerrar el programa")
	assert.Contains(t, m.status, "venta en curso")

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = next.(Model)
	assert.Nil(t, cmd, "el atajo q tampoco cierra con venta en curso")
	assert.Contains(t, m.status, "venta en curso")
}

func TestVenta_EscNoSaleConVentaAMedias(t *testing.T) {
	acc := access.New(tokenConPermisos(t, "admin"))
	m := modeloDePrueba(t, acc)
	m = press(t, m, enter()) // Nueva venta
	require.Equal(t, screenVenta, m.screen)

	require.NoError(t, m.wiz.AddItem(api.Product{
		ID: "p1", Nombre: "Casco", Precio: decimal.NewFromInt(100), Stock: 5,
	}, 1))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, screenVenta, m.screen, "con venta a medias no se abandona el asistente")
	assert.Contains(t, m.status, "venta en curso")
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes: gestión detrás de permisos
// ──────────────────────────────────────────────────────────────────────────────

// Sin write:customers la pantalla de clientes queda de solo consulta.
func TestClientes_GestionRequierePermiso(t *testing.T) {
	acc := access.New(tokenConPermisos(t, "read:customers"))
	m := modeloDePrueba(t, acc)
	m = press(t, m, down(), down(), down(), enter()) // Clientes
	require.Equal(t, screenClientes, m.screen)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	assert.False(t, m.clientes.formOpen)
	assert.Contains(t, m.status, "Sin permisos")
}

func TestClientes_AltaValidaElNombre(t *testing.T) {
	acc := access.New(tokenConPermisos(t, "read:customers", "write:customers"))
	m := modeloDePrueba(t, acc)
	m = press(t, m, down(), down(), down(), enter())
	require.Equal(t, screenClientes, m.screen)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	require.True(t, m.clientes.formOpen)
	assert.Len(t, m.clientes.inputs, len(clienteFormLabels))

	// Sin nombre el formulario no envía nada.
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, m.clientes.formOpen)
	assert.Contains(t, m.status, "nombre")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.clientes.formOpen)
}

// La edición precarga los campos de contacto que acepta el PATCH.
func TestClientes_EdicionPrecargaContacto(t *testing.T) {
	acc := access.New(tokenConPermisos(t, "read:customers", "write:customers"))
	m := modeloDePrueba(t, acc)
	m = press(t, m, down(), down(), down(), enter())
	require.Equal(t, screenClientes, m.screen)

	next, _ := m.Update(customersLoadedMsg{&api.CustomerList{Customers: []api.Customer{{
		ID: "c1", Nombre: "Ana Pérez", Email: "ana@mail.com",
		Telefono: "7777-0001", Direccion: "Col. Escalón", Tipo: "factura",
	}}}})
	m = next.(Model)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	require.True(t, m.clientes.formOpen)
	require.Len(t, m.clientes.inputs, len(clienteEditLabels))
	assert.Equal(t, "Ana Pérez", m.clientes.inputs[0].Value())
	assert.Equal(t, "7777-0001", m.clientes.inputs[2].Value())
}

// ──────────────────────────────────────────────────────────────────────────────
// Render básico
// ──────────────────────────────────────────────────────────────────────────────

func TestView_MenuMuestraSeccionesYGating(t *testing.T) {
	acc := access.New(tokenConPermisos(t, "read:sales"))
	m := modeloDePrueba(t, acc)

	view := m.View()

	assert.Contains(t, view, "ACME · Punto de Venta")
	assert.Contains(t, view, "Ventas")
	assert.Contains(t, view, "Productos")
	assert.Contains(t, view, "sin acceso")
}

func TestView_PasoProductosMuestraCarritoVacio(t *testing.T) {
	acc := access.New(tokenConPermisos(t, "admin"))
	m := modeloDePrueba(t, acc)
	m = press(t, m, enter())

	view := m.View()

	assert.Contains(t, view, "Selección de productos")
	assert.Contains(t, view, "La venta está vacía")
}
