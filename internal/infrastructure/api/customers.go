package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Practica-Profesional-25/acme-pos/internal/domain/access"
)

// ListCustomers lista clientes con filtros opcionales.
func (c *Client) ListCustomers(ctx context.Context, filters CustomerFilters) (*CustomerList, error) {
	env, err := c.do(ctx, http.MethodGet, "/customers", filters.query(), nil, access.AliasAccessCustomers)
	if err != nil {
		return nil, err
	}
	list := &CustomerList{Page: env.Page}
	if err := decodeData(env, &list.Customers); err != nil {
		return nil, err
	}
	return list, nil
}

// SearchCustomers busca clientes por término libre (GET /customers/search).
func (c *Client) SearchCustomers(ctx context.Context, term string, limit int) (*CustomerList, error) {
	q := map[string]string{"q": term}
	if limit > 0 {
		q["limit"] = strconv.Itoa(limit)
	}
	env, err := c.do(ctx, http.MethodGet, "/customers/search", q, nil, access.AliasAccessCustomers)
	if err != nil {
		return nil, err
	}
	list := &CustomerList{Page: env.Page}
	if err := decodeData(env, &list.Customers); err != nil {
		return nil, err
	}
	return list, nil
}

// GetCustomer obtiene un cliente por ID.
func (c *Client) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	env, err := c.do(ctx, http.MethodGet, "/customers/"+id, nil, nil, access.AliasAccessCustomers)
	if err != nil {
		return nil, err
	}
	var cust Customer
	if err := decodeData(env, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

// CreateCustomer crea un cliente.
func (c *Client) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	env, err := c.do(ctx, http.MethodPost, "/customers", nil, req, access.AliasManageCustomers)
	if err != nil {
		return nil, err
	}
	var cust Customer
	if err := decodeData(env, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

// UpdateCustomer modifica parcialmente un cliente (PATCH).
func (c *Client) UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (*Customer, error) {
	env, err := c.do(ctx, http.MethodPatch, "/customers/"+id, nil, req, access.AliasManageCustomers)
	if err != nil {
		return nil, err
	}
	var cust Customer
	if err := decodeData(env, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

// DeleteCustomer elimina un cliente.
func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/customers/"+id, nil, nil, access.AliasManageCustomers)
	return err
}

// CustomerStatsByDepartment conteo de clientes por departamento.
func (c *Client) CustomerStatsByDepartment(ctx context.Context) ([]CustomerStat, error) {
	env, err := c.do(ctx, http.MethodGet, "/customers/stats/departamento", nil, nil, access.AliasAccessCustomers)
	if err != nil {
		return nil, err
	}
	var stats []CustomerStat
	if err := decodeData(env, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// CustomerStatsByType conteo de clientes por tipo.
func (c *Client) CustomerStatsByType(ctx context.Context) ([]CustomerStat, error) {
	env, err := c.do(ctx, http.MethodGet, "/customers/stats/tipo", nil, nil, access.AliasAccessCustomers)
	if err != nil {
		return nil, err
	}
	var stats []CustomerStat
	if err := decodeData(env, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
