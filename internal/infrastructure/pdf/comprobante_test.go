package pdf_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Practica-Profesional-25/acme-pos/internal/domain/sale"
	"github.com/Practica-Profesional-25/acme-pos/internal/infrastructure/pdf"
)

func comprobanteDePrueba(t *testing.T) pdf.Comprobante {
	t.Helper()
	d := sale.NewDraft()
	require.NoError(t, d.AddItem("p1", "Casco de moto", decimal.NewFromInt(100), 3, 10))
	d.Customer = sale.DefaultCustomer{}
	d.Payment = &sale.Payment{
		Method: sale.PayEfectivo,
		Cash:   &sale.CashDetails{CashAmount: decimal.NewFromInt(400)},
	}
	d.Status = sale.StatusEfectuada
	d.DTENumero = "DTE-1756500000-000123"
	d.QRCode = "https://admin.factura.gob.sv/consultaPublica?ambiente=00&codGen=DTE-1756500000-000123"

	return pdf.Comprobante{
		Comercio: "ACME",
		Numero:   "V-20260830-abc12345",
		Fecha:    time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC),
		Draft:    d,
	}
}

func TestGenerate_ProduceUnPDF(t *testing.T) {
	g := pdf.NewGenerator(t.TempDir())

	doc, err := g.Generate(comprobanteDePrueba(t))

	require.NoError(t, err)
	require.NotEmpty(t, doc)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestGenerate_VentaVaciaFalla(t *testing.T) {
	g := pdf.NewGenerator(t.TempDir())

	_, err := g.Generate(pdf.Comprobante{Numero: "V-1"})

	require.Error(t, err)
}

func TestSave_EscribeEnElDirectorioDeSalida(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "comprobantes")
	g := pdf.NewGenerator(dir)

	path, err := g.Save(comprobanteDePrueba(t))

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "V-20260830-abc12345.pdf"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
