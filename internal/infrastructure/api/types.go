package api

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ── Productos ─────────────────────────────────────────────────────────────────

// Product producto tal como lo expone el backend.
type Product struct {
	ID            string          `json:"id"`
	Identificador string          `json:"identificador"`
	Nombre        string          `json:"nombre"`
	Categoria     string          `json:"categoria"`
	Subcategoria  string          `json:"subcategoria"`
	Precio        decimal.Decimal `json:"precio"`
	Stock         int             `json:"stock"`
	CreatedAt     string          `json:"createdAt,omitempty"`
	UpdatedAt     string          `json:"updatedAt,omitempty"`
}

// ProductFilters filtros de listado de productos. Los campos vacíos se omiten
// de la query, no se mandan vacíos.
type ProductFilters struct {
	Nombre        string
	Identificador string
	Categoria     string
	Subcategoria  string
	Page          int
	Limit         int
}

func (f ProductFilters) query() map[string]string {
	q := map[string]string{}
	setIf(q, "nombre", f.Nombre)
	setIf(q, "identificador", f.Identificador)
	setIf(q, "categoria", f.Categoria)
	setIf(q, "subcategoria", f.Subcategoria)
	setIfInt(q, "page", f.Page)
	setIfInt(q, "limit", f.Limit)
	return q
}

// CreateProductRequest alta de producto.
type CreateProductRequest struct {
	Identificador string          `json:"identificador"`
	Nombre        string          `json:"nombre"`
	Categoria     string          `json:"categoria"`
	Subcategoria  string          `json:"subcategoria"`
	Precio        decimal.Decimal `json:"precio"`
	Stock         int             `json:"stock"`
}

// UpdateProductRequest modificación parcial de producto (PATCH).
type UpdateProductRequest struct {
	Identificador *string          `json:"identificador,omitempty"`
	Nombre        *string          `json:"nombre,omitempty"`
	Categoria     *string          `json:"categoria,omitempty"`
	Subcategoria  *string          `json:"subcategoria,omitempty"`
	Precio        *decimal.Decimal `json:"precio,omitempty"`
	Stock         *int             `json:"stock,omitempty"`
}

// ProductList página de productos.
type ProductList struct {
	Products []Product
	Page     Page
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// Customer cliente tal como lo expone el backend.
type Customer struct {
	ID             string `json:"id"`
	Nombre         string `json:"nombre"`
	Email          string `json:"email,omitempty"`
	DUI            string `json:"dui,omitempty"`
	NIT            string `json:"nit,omitempty"`
	RegistroFiscal string `json:"registroFiscal,omitempty"`
	Giro           string `json:"giro,omitempty"`
	Telefono       string `json:"telefono,omitempty"`
	Departamento   string `json:"departamento,omitempty"`
	Municipio      string `json:"municipio,omitempty"`
	Distrito       string `json:"distrito,omitempty"`
	Direccion      string `json:"direccion,omitempty"`
	Tipo           string `json:"tipo,omitempty"`
}

// CustomerFilters filtros de listado de clientes.
type CustomerFilters struct {
	Nombre string
	DUI    string
	NIT    string
	Email  string
	Tipo   string
	Page   int
	Limit  int
}

func (f CustomerFilters) query() map[string]string {
	q := map[string]string{}
	setIf(q, "nombre", f.Nombre)
	setIf(q, "dui", f.DUI)
	setIf(q, "nit", f.NIT)
	setIf(q, "email", f.Email)
	setIf(q, "tipo", f.Tipo)
	setIfInt(q, "page", f.Page)
	setIfInt(q, "limit", f.Limit)
	return q
}

// CreateCustomerRequest alta de cliente.
type CreateCustomerRequest struct {
	Nombre         string `json:"nombre"`
	Email          string `json:"email,omitempty"`
	DUI            string `json:"dui,omitempty"`
	NIT            string `json:"nit,omitempty"`
	RegistroFiscal string `json:"registroFiscal,omitempty"`
	Giro           string `json:"giro,omitempty"`
	Telefono       string `json:"telefono,omitempty"`
	Departamento   string `json:"departamento,omitempty"`
	Municipio      string `json:"municipio,omitempty"`
	Distrito       string `json:"distrito,omitempty"`
	Direccion      string `json:"direccion,omitempty"`
	Tipo           string `json:"tipo"`
}

// UpdateCustomerRequest modificación parcial de cliente (PATCH).
type UpdateCustomerRequest struct {
	Nombre    *string `json:"nombre,omitempty"`
	Email     *string `json:"email,omitempty"`
	Telefono  *string `json:"telefono,omitempty"`
	Direccion *string `json:"direccion,omitempty"`
}

// CustomerList página de clientes.
type CustomerList struct {
	Customers []Customer
	Page      Page
}

// CustomerStat conteo agregado de clientes (por departamento o por tipo).
type CustomerStat struct {
	Departamento string `json:"departamento,omitempty"`
	Tipo         string `json:"tipo,omitempty"`
	Count        int    `json:"count"`
}

// ── Ventas ────────────────────────────────────────────────────────────────────

// Sale venta tal como la expone el backend.
type Sale struct {
	ID      string          `json:"id"`
	Numero  string          `json:"numero"`
	Cliente string          `json:"cliente,omitempty"`
	Total   decimal.Decimal `json:"total"`
	Estado  string          `json:"estado"`
	Fecha   string          `json:"fecha,omitempty"`
	DTE     string          `json:"dte,omitempty"`
	QRCode  string          `json:"qrCode,omitempty"`
}

// SaleFilters filtros de listado de ventas.
type SaleFilters struct {
	Numero      string
	Cliente     string
	Estado      string
	FechaInicio string
	FechaFin    string
	Page        int
	Limit       int
}

func (f SaleFilters) query() map[string]string {
	q := map[string]string{}
	setIf(q, "numero", f.Numero)
	setIf(q, "cliente", f.Cliente)
	setIf(q, "estado", f.Estado)
	setIf(q, "fechaInicio", f.FechaInicio)
	setIf(q, "fechaFin", f.FechaFin)
	setIfInt(q, "page", f.Page)
	setIfInt(q, "limit", f.Limit)
	return q
}

// SaleList página de ventas.
type SaleList struct {
	Sales []Sale
	Page  Page
}

// SaleLineRequest línea de producto dentro del request de venta.
type SaleLineRequest struct {
	ProductID string          `json:"productId"`
	Nombre    string          `json:"nombre"`
	Cantidad  int             `json:"cantidad"`
	Precio    decimal.Decimal `json:"precio"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Impuesto  decimal.Decimal `json:"impuesto"`
	Total     decimal.Decimal `json:"total"`
}

// SaleCustomerData datos del cliente embebidos en el request de venta.
type SaleCustomerData struct {
	Tipo           string `json:"tipo"`
	Nombre         string `json:"nombre"`
	Email          string `json:"email,omitempty"`
	DUI            string `json:"dui,omitempty"`
	NIT            string `json:"nit,omitempty"`
	RegistroFiscal string `json:"registroFiscal,omitempty"`
	Giro           string `json:"giro,omitempty"`
	Telefono       string `json:"telefono,omitempty"`
	Departamento   string `json:"departamento,omitempty"`
	Municipio      string `json:"municipio,omitempty"`
	Distrito       string `json:"distrito,omitempty"`
	Direccion      string `json:"direccion,omitempty"`
}

// SalePaymentDetails detalle del método de pago en el request de venta.
type SalePaymentDetails struct {
	CashAmount *decimal.Decimal `json:"cashAmount,omitempty"`
	Change     *decimal.Decimal `json:"change,omitempty"`
	POSStatus  string           `json:"posStatus,omitempty"`
}

// CreateSaleRequest cuerpo de POST /sales. Todos los montos van redondeados
// a 2 decimales antes de transmitir.
type CreateSaleRequest struct {
	Numero         string             `json:"numero"`
	CustomerID     string             `json:"customerId,omitempty"`
	CustomerData   SaleCustomerData   `json:"customerData"`
	Products       []SaleLineRequest  `json:"products"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	Impuestos      decimal.Decimal    `json:"impuestos"`
	Total          decimal.Decimal    `json:"total"`
	PaymentMethod  string             `json:"paymentMethod"`
	PaymentDetails SalePaymentDetails `json:"paymentDetails"`
	Fecha          string             `json:"fecha"`
}

// DTE detalle del documento tributario electrónico de una venta.
type DTE struct {
	Estado           string          `json:"estado"`
	CodigoGeneracion string          `json:"codigoGeneracion"`
	NumeroControl    string          `json:"numeroControl"`
	FechaGeneracion  string          `json:"fechaGeneracion"`
	FechaProceso     string          `json:"fechaProceso,omitempty"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Impuestos        decimal.Decimal `json:"impuestos"`
	Total            decimal.Decimal `json:"total"`
	QRCode           string          `json:"qrCode,omitempty"`
}

// ── Paginación y helpers de query ─────────────────────────────────────────────

// Page metadatos de paginación devueltos por los listados.
type Page struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func setIf(q map[string]string, key, value string) {
	if strings.TrimSpace(value) != "" {
		q[key] = value
	}
}

func setIfInt(q map[string]string, key string, value int) {
	if value > 0 {
		q[key] = strconv.Itoa(value)
	}
}
