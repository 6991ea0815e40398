package api

import (
	"context"
	"net/http"

	"github.com/Practica-Profesional-25/acme-pos/internal/domain/access"
)

// ListProducts lista productos con filtros opcionales.
func (c *Client) ListProducts(ctx context.Context, filters ProductFilters) (*ProductList, error) {
	env, err := c.do(ctx, http.MethodGet, "/products", filters.query(), nil, access.AliasAccessProducts)
	if err != nil {
		return nil, err
	}
	list := &ProductList{Page: env.Page}
	if err := decodeData(env, &list.Products); err != nil {
		return nil, err
	}
	return list, nil
}

// GetProduct obtiene un producto por ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	env, err := c.do(ctx, http.MethodGet, "/products/"+id, nil, nil, access.AliasAccessProducts)
	if err != nil {
		return nil, err
	}
	var p Product
	if err := decodeData(env, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct crea un producto.
func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	env, err := c.do(ctx, http.MethodPost, "/products", nil, req, access.AliasManageProducts)
	if err != nil {
		return nil, err
	}
	var p Product
	if err := decodeData(env, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct modifica parcialmente un producto (PATCH).
func (c *Client) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	env, err := c.do(ctx, http.MethodPatch, "/products/"+id, nil, req, access.AliasManageProducts)
	if err != nil {
		return nil, err
	}
	var p Product
	if err := decodeData(env, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
