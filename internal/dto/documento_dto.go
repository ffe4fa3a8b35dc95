package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearDocumentoRequest struct {
	Tipo      string `json:"tipo"       validate:"required,oneof=cotizacion pedido factura"`
	EmpresaID string `json:"empresa_id" validate:"required,uuid"`
	MonedaID  string `json:"moneda_id"  validate:"required,uuid"`
	// TipoCambio: unidades de moneda base por 1 unidad de la moneda del
	// documento. Omitido → 1 (documento en moneda base).
	TipoCambio    *decimal.Decimal `json:"tipo_cambio"`
	ImpuestoPct   *decimal.Decimal `json:"impuesto_pct"`
	Observaciones *string          `json:"observaciones"`
}

type AgregarLineaRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"required"`
	// PrecioUnitario omitido → precio de venta vigente del producto.
	PrecioUnitario *decimal.Decimal `json:"precio_unitario"`
	DescuentoPct   decimal.Decimal  `json:"descuento_pct"`
}

type ActualizarLineaRequest struct {
	Cantidad       *decimal.Decimal `json:"cantidad"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario"`
	DescuentoPct   *decimal.Decimal `json:"descuento_pct"`
}

type CambiarEstadoRequest struct {
	Estado string  `json:"estado" validate:"required,oneof=aceptado rechazado anulado"`
	Motivo *string `json:"motivo"`
}

type EnviarDocumentoRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type DocumentoFilter struct {
	Tipo      string `form:"tipo"`
	EmpresaID string `form:"empresa_id"`
	Estado    string `form:"estado"`
	Desde     string `form:"desde"` // YYYY-MM-DD
	Hasta     string `form:"hasta"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineaResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	NombreProducto string          `json:"nombre_producto,omitempty"`
	Posicion       int             `json:"posicion"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	DescuentoPct   decimal.Decimal `json:"descuento_pct"`
	DescuentoMonto decimal.Decimal `json:"descuento_monto"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	// PrecioEfectivo = subtotal / cantidad (0 si cantidad es 0).
	PrecioEfectivo decimal.Decimal `json:"precio_efectivo"`
}

type DocumentoResponse struct {
	ID              string           `json:"id"`
	Tipo            string           `json:"tipo"`
	Numero          int64            `json:"numero"`
	EmpresaID       string           `json:"empresa_id"`
	MonedaID        string           `json:"moneda_id"`
	TipoCambio      decimal.Decimal  `json:"tipo_cambio"`
	ImpuestoPct     decimal.Decimal  `json:"impuesto_pct"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	MontoImpuesto   decimal.Decimal  `json:"monto_impuesto"`
	Total           decimal.Decimal  `json:"total"`
	TotalMonedaBase *decimal.Decimal `json:"total_moneda_base,omitempty"`
	Estado          string           `json:"estado"`
	EnvioEstado     string           `json:"envio_estado"`
	Observaciones   *string          `json:"observaciones"`
	DocumentoOrigen *string          `json:"documento_origen_id,omitempty"`
	PDFUrl          *string          `json:"pdf_url,omitempty"`
	CreatedAt       string           `json:"created_at"`
	Lineas          []LineaResponse  `json:"lineas"`
}

type DocumentoListResponse struct {
	Items []DocumentoResponse `json:"items"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}
