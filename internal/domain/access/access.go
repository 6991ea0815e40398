// Package access traduce el set de permisos del token en capacidades con
// nombre usadas para habilitar pantallas.
//
// Esto NO es una frontera de seguridad: la autorización real ocurre en el
// backend en cada request. Si un flag queda mal en true, lo peor que pasa es
// que el operador ve una pantalla cuyas operaciones el backend rechazará.
package access

import "github.com/Practica-Profesional-25/acme-pos/pkg/token"

// Permisos conocidos, en formato verbo:recurso.
const (
	PermAdmin = "admin"

	PermReadSales      = "read:sales"
	PermReadProducts   = "read:products"
	PermReadCustomers  = "read:customers"
	PermWriteProducts  = "write:products"
	PermWriteCustomers = "write:customers"
	PermCreateSales    = "create:sales"
)

// Listas de alias por capacidad. Cada capacidad acepta las dos convenciones
// históricas de nombre (verbo:recurso y recurso:verbo) porque ambas aparecen
// en tokens vivos — la redundancia es intencional, no colapsarla. El permiso
// "admin" se incluye explícitamente en cada lista: el guard no auto-eleva.
var (
	AliasAccessSales     = []string{PermReadSales, "sales:read", PermAdmin}
	AliasAccessProducts  = []string{PermReadProducts, "products:read", PermAdmin}
	AliasAccessCustomers = []string{PermReadCustomers, "customers:read", PermAdmin}
	AliasManageProducts  = []string{PermWriteProducts, "products:write", PermAdmin}
	AliasManageCustomers = []string{PermWriteCustomers, "customers:write", PermAdmin}
	AliasProcessSales    = []string{PermCreateSales, "sales:create", PermAdmin}
)

// Context es la foto inmutable de la sesión autenticada: permisos extraídos
// del token y flags de capacidad derivados. Se construye una vez por sesión
// (o cuando cambia el token) y es de solo lectura para todos los consumidores.
type Context struct {
	Permissions []string
	IsExpired   bool

	CanAccessSales     bool
	CanAccessProducts  bool
	CanAccessCustomers bool
	CanManageProducts  bool
	CanManageCustomers bool
	CanProcessSales    bool
	CanAdmin           bool

	permSet map[string]struct{}
}

// New construye el contexto de acceso a partir del token crudo. Un token
// vacío, malformado o expirado produce un contexto con todo en false.
func New(tokenString string) *Context {
	ctx := &Context{
		IsExpired: tokenString == "" || token.IsExpired(tokenString),
		permSet:   map[string]struct{}{},
	}
	if tokenString == "" || ctx.IsExpired {
		return ctx
	}

	ctx.Permissions = token.Permissions(tokenString)
	for _, p := range ctx.Permissions {
		ctx.permSet[p] = struct{}{}
	}

	ctx.CanAccessSales = ctx.HasAny(AliasAccessSales)
	ctx.CanAccessProducts = ctx.HasAny(AliasAccessProducts)
	ctx.CanAccessCustomers = ctx.HasAny(AliasAccessCustomers)
	ctx.CanManageProducts = ctx.HasAny(AliasManageProducts)
	ctx.CanManageCustomers = ctx.HasAny(AliasManageCustomers)
	ctx.CanProcessSales = ctx.HasAny(AliasProcessSales)
	ctx.CanAdmin = ctx.Has(PermAdmin)

	return ctx
}

// Has verifica un permiso puntual contra la foto.
func (c *Context) Has(permission string) bool {
	if c.IsExpired {
		return false
	}
	_, ok := c.permSet[permission]
	return ok
}

// HasAny verifica que al menos uno de los permisos esté presente.
func (c *Context) HasAny(permissions []string) bool {
	for _, p := range permissions {
		if c.Has(p) {
			return true
		}
	}
	return false
}

// HasAll verifica que todos los permisos estén presentes.
func (c *Context) HasAll(permissions []string) bool {
	if c.IsExpired {
		return false
	}
	for _, p := range permissions {
		if !c.Has(p) {
			return false
		}
	}
	return true
}

// Allows es la decisión de sección protegida: sin token vivo nada se muestra;
// sin permisos requeridos se muestra siempre; con requireAll se exigen todos,
// si no alcanza con uno. Es una decisión síncrona y pura, sin estado de carga.
func (c *Context) Allows(required []string, requireAll bool) bool {
	if c.IsExpired {
		return false
	}
	if len(required) == 0 {
		return true
	}
	if requireAll {
		return c.HasAll(required)
	}
	return c.HasAny(required)
}

// Gate renderiza content solo si la verificación pasa; si no, el fallback
// (que puede ser cadena vacía).
func (c *Context) Gate(required []string, requireAll bool, content, fallback string) string {
	if c.Allows(required, requireAll) {
		return content
	}
	return fallback
}
