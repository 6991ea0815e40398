package api

import (
	"context"
	"net/http"

	"github.com/Practica-Profesional-25/acme-pos/internal/domain/access"
)

// ListSales lista ventas con filtros opcionales.
func (c *Client) ListSales(ctx context.Context, filters SaleFilters) (*SaleList, error) {
	env, err := c.do(ctx, http.MethodGet, "/sales", filters.query(), nil, access.AliasAccessSales)
	if err != nil {
		return nil, err
	}
	list := &SaleList{Page: env.Page}
	if err := decodeData(env, &list.Sales); err != nil {
		return nil, err
	}
	return list, nil
}

// GetSale obtiene una venta por ID.
func (c *Client) GetSale(ctx context.Context, id string) (*Sale, error) {
	env, err := c.do(ctx, http.MethodGet, "/sales/"+id, nil, nil, access.AliasAccessSales)
	if err != nil {
		return nil, err
	}
	var s Sale
	if err := decodeData(env, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSale envía la venta armada. El backend responde la venta creada con
// el DTE y el QR cuando la emisión fue inmediata.
func (c *Client) CreateSale(ctx context.Context, req CreateSaleRequest) (*Sale, error) {
	env, err := c.do(ctx, http.MethodPost, "/sales", nil, req, access.AliasProcessSales)
	if err != nil {
		return nil, err
	}
	var s Sale
	if err := decodeData(env, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ProcessSale avanza una venta al procesamiento tributario (PUT .../process).
func (c *Client) ProcessSale(ctx context.Context, id string) (string, error) {
	env, err := c.do(ctx, http.MethodPut, "/sales/"+id+"/process", nil, nil, access.AliasProcessSales)
	if err != nil {
		return "", err
	}
	return string(env.Message), nil
}

// GetDTE obtiene el detalle del DTE de una venta para mostrarlo.
func (c *Client) GetDTE(ctx context.Context, id string) (*DTE, error) {
	env, err := c.do(ctx, http.MethodGet, "/sales/"+id+"/dte", nil, nil, access.AliasAccessSales)
	if err != nil {
		return nil, err
	}
	var dte DTE
	if err := decodeData(env, &dte); err != nil {
		return nil, err
	}
	return &dte, nil
}

// ResendInvoice reenvía la factura y el DTE por email.
func (c *Client) ResendInvoice(ctx context.Context, id string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/sales/"+id+"/resend-invoice", nil, nil, access.AliasAccessSales)
	if err != nil {
		return "", err
	}
	msg := string(env.Message)
	if msg == "" {
		msg = "Factura y DTE reenviados exitosamente"
	}
	return msg, nil
}
