package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrSesionExpirada       = errors.New("sesión expirada")
	ErrAccesoDenegado       = errors.New("acceso denegado")
	ErrStockInsuficiente    = errors.New("stock insuficiente")
	ErrCantidadInvalida     = errors.New("cantidad inválida")
	ErrSinProductos         = errors.New("la venta no tiene productos")
	ErrSinCliente           = errors.New("la venta no tiene cliente")
	ErrSinMetodoPago        = errors.New("la venta no tiene método de pago")
	ErrEfectivoInsuficiente = errors.New("el efectivo recibido no cubre el total")
	ErrPOSPendiente         = errors.New("la terminal de tarjeta no ha procesado el pago")
	ErrVentaEnCurso         = errors.New("ya hay un envío de venta en curso")
	ErrVentaCompletada      = errors.New("la venta ya fue enviada")
)
