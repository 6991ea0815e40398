package access_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Practica-Profesional-25/acme-pos/internal/domain/access"
)

// forgeToken arma un token sin firma válida con los permisos y exp dados.
func forgeToken(t *testing.T, permissions []string, exp int64) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "RS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(map[string]any{
		"permissions": permissions,
		"exp":         exp,
	})
	require.NoError(t, err)
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + ".x"
}

func liveToken(t *testing.T, permissions ...string) string {
	return forgeToken(t, permissions, time.Now().Add(time.Hour).Unix())
}

// ──────────────────────────────────────────────────────────────────────────────
// Flags de capacidad
// ──────────────────────────────────────────────────────────────────────────────

func TestContext_FlagsPorAlias(t *testing.T) {
	cases := []struct {
		name  string
		perms []string
		check func(*access.Context) bool
	}{
		{"read:sales habilita ventas", []string{"read:sales"}, func(c *access.Context) bool { return c.CanAccessSales }},
		{"sales:read (alias histórico) habilita ventas", []string{"sales:read"}, func(c *access.Context) bool { return c.CanAccessSales }},
		{"read:products habilita productos", []string{"read:products"}, func(c *access.Context) bool { return c.CanAccessProducts }},
		{"products:read habilita productos", []string{"products:read"}, func(c *access.Context) bool { return c.CanAccessProducts }},
		{"write:customers habilita gestión de clientes", []string{"write:customers"}, func(c *access.Context) bool { return c.CanManageCustomers }},
		{"create:sales habilita procesar ventas", []string{"create:sales"}, func(c *access.Context) bool { return c.CanProcessSales }},
		{"admin habilita todas las capacidades", []string{"admin"}, func(c *access.Context) bool {
			return c.CanAccessSales && c.CanAccessProducts && c.CanAccessCustomers &&
				c.CanManageProducts && c.CanManageCustomers && c.CanProcessSales && c.CanAdmin
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := access.New(liveToken(t, tc.perms...))
			assert.True(t, tc.check(ctx))
		})
	}
}

// Monotonicidad: si un alias habilita la capacidad, agregar permisos no
// relacionados nunca la deshabilita (los flags son OR puro de pertenencia).
func TestContext_MonotoniaDeFlags(t *testing.T) {
	base := access.New(liveToken(t, "read:sales"))
	require.True(t, base.CanAccessSales)

	extendido := access.New(liveToken(t,
		"read:sales", "write:products", "otro:permiso", "customers:read"))
	assert.True(t, extendido.CanAccessSales,
		"agregar permisos no relacionados no puede apagar la capacidad")
}

// Sin token o con token expirado todo queda en false.
func TestContext_SinTokenOExpirado(t *testing.T) {
	vacio := access.New("")
	expirado := access.New(forgeToken(t, []string{"admin"}, time.Now().Add(-time.Hour).Unix()))

	for name, ctx := range map[string]*access.Context{"sin token": vacio, "expirado": expirado} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, ctx.IsExpired)
			assert.False(t, ctx.CanAccessSales)
			assert.False(t, ctx.CanAdmin)
			assert.False(t, ctx.Has("admin"))
			assert.False(t, ctx.HasAny([]string{"admin", "read:sales"}))
			assert.False(t, ctx.HasAll(nil), "ni la lista vacía pasa sin token vivo")
			assert.False(t, ctx.Allows(nil, false))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Sección protegida
// ──────────────────────────────────────────────────────────────────────────────

func TestContext_Allows(t *testing.T) {
	ctx := access.New(liveToken(t, "read:sales", "create:sales"))

	assert.True(t, ctx.Allows(nil, false), "sin permisos requeridos se muestra")
	assert.True(t, ctx.Allows([]string{"read:sales", "admin"}, false), "alcanza con uno")
	assert.True(t, ctx.Allows([]string{"read:sales", "create:sales"}, true))
	assert.False(t, ctx.Allows([]string{"read:sales", "admin"}, true), "requireAll exige todos")
	assert.False(t, ctx.Allows([]string{"admin"}, false))
}

func TestContext_Gate(t *testing.T) {
	ctx := access.New(liveToken(t, "read:sales"))

	assert.Equal(t, "contenido", ctx.Gate([]string{"read:sales"}, false, "contenido", "alternativa"))
	assert.Equal(t, "alternativa", ctx.Gate([]string{"admin"}, false, "contenido", "alternativa"))
	assert.Equal(t, "", ctx.Gate([]string{"admin"}, false, "contenido", ""))
}
