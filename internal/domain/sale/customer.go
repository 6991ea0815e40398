package sale

// CustomerKind discrimina las variantes de cliente.
type CustomerKind string

const (
	KindExisting      CustomerKind = "existing"
	KindFactura       CustomerKind = "factura"
	KindCreditoFiscal CustomerKind = "credito-fiscal"
	KindDefault       CustomerKind = "default"
)

// DocumentType tipo de documento tributario que corresponde al cliente.
type DocumentType string

const (
	DocCreditoFiscal DocumentType = "Crédito Fiscal"
	DocFactura       DocumentType = "Factura"
	DocTicket        DocumentType = "Ticket de Venta"
)

// Customer es el cliente de la venta. Es una unión discriminada: exactamente
// una variante activa, cada una con solo los campos que le aplican, en lugar
// de un struct ancho de campos opcionales.
type Customer interface {
	Kind() CustomerKind
	DisplayName() string
	// DocumentType decide el documento a emitir según la variante.
	DocumentType() DocumentType
}

// ExistingCustomer cliente ya registrado en el backend.
type ExistingCustomer struct {
	ID        string
	Name      string
	Email     string
	DUI       string
	NIT       string
	Telefono  string
	Direccion string
}

func (c ExistingCustomer) Kind() CustomerKind  { return KindExisting }
func (c ExistingCustomer) DisplayName() string { return c.Name }

// Un cliente existente con NIT recibe Crédito Fiscal; sin NIT, Factura.
func (c ExistingCustomer) DocumentType() DocumentType {
	if c.NIT != "" {
		return DocCreditoFiscal
	}
	return DocFactura
}

// FacturaCustomer cliente nuevo de consumidor con factura nominal.
type FacturaCustomer struct {
	Name  string
	Email string
}

func (c FacturaCustomer) Kind() CustomerKind         { return KindFactura }
func (c FacturaCustomer) DisplayName() string        { return c.Name }
func (c FacturaCustomer) DocumentType() DocumentType { return DocFactura }

// CreditoFiscalCustomer cliente nuevo con los datos fiscales completos que
// exige un Comprobante de Crédito Fiscal.
type CreditoFiscalCustomer struct {
	Name           string
	RegistroFiscal string
	NIT            string
	Giro           string
	Telefono       string
	Departamento   string
	Municipio      string
	Distrito       string
	Direccion      string
}

func (c CreditoFiscalCustomer) Kind() CustomerKind         { return KindCreditoFiscal }
func (c CreditoFiscalCustomer) DisplayName() string        { return c.Name }
func (c CreditoFiscalCustomer) DocumentType() DocumentType { return DocCreditoFiscal }

// DefaultCustomer es el consumidor final sin identificar.
type DefaultCustomer struct{}

func (c DefaultCustomer) Kind() CustomerKind         { return KindDefault }
func (c DefaultCustomer) DisplayName() string        { return "Consumidor final" }
func (c DefaultCustomer) DocumentType() DocumentType { return DocTicket }
