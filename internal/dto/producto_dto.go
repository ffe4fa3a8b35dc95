package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo        string           `json:"codigo"         validate:"required,min=2,max=40"`
	Nombre        string           `json:"nombre"         validate:"required,min=2,max=120"`
	Descripcion   *string          `json:"descripcion"`
	Categoria     string           `json:"categoria"`
	Tipo          string           `json:"tipo"           validate:"required,oneof=articulo nomenclatura"`
	CostoUnitario *decimal.Decimal `json:"costo_unitario"`
	PrecioVenta   decimal.Decimal  `json:"precio_venta"   validate:"required"`
	UnidadMedida  string           `json:"unidad_medida"`
}

type ActualizarProductoRequest struct {
	Nombre        *string          `json:"nombre"         validate:"omitempty,min=2,max=120"`
	Descripcion   *string          `json:"descripcion"`
	Categoria     *string          `json:"categoria"`
	CostoUnitario *decimal.Decimal `json:"costo_unitario"`
	PrecioVenta   *decimal.Decimal `json:"precio_venta"`
	UnidadMedida  *string          `json:"unidad_medida"`
	MotivoCambio  *string          `json:"motivo_cambio"`
}

type CrearComponenteRequest struct {
	ProductoHijoID    string          `json:"producto_hijo_id"    validate:"required,uuid"`
	CantidadPorUnidad decimal.Decimal `json:"cantidad_por_unidad" validate:"required"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Codigo    string `form:"codigo"`
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Tipo      string `form:"tipo"`
	Activo    string `form:"activo"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID            string          `json:"id"`
	Codigo        string          `json:"codigo"`
	Nombre        string          `json:"nombre"`
	Descripcion   *string         `json:"descripcion"`
	Categoria     string          `json:"categoria"`
	Tipo          string          `json:"tipo"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	PrecioVenta   decimal.Decimal `json:"precio_venta"`
	UnidadMedida  string          `json:"unidad_medida"`
	Activo        bool            `json:"activo"`
}

type ProductoListResponse struct {
	Items []ProductoResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type ComponenteResponse struct {
	ID                string          `json:"id"`
	ProductoPadreID   string          `json:"producto_padre_id"`
	ProductoHijoID    string          `json:"producto_hijo_id"`
	NombreHijo        string          `json:"nombre_hijo,omitempty"`
	CantidadPorUnidad decimal.Decimal `json:"cantidad_por_unidad"`
}

// CostoResponse is the rolled-up unit cost of a product.
type CostoResponse struct {
	ProductoID    string          `json:"producto_id"`
	Nombre        string          `json:"nombre"`
	Tipo          string          `json:"tipo"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
}

type HistorialPrecioResponse struct {
	ID            string          `json:"id"`
	ProductoID    string          `json:"producto_id"`
	CostoAnterior decimal.Decimal `json:"costo_anterior"`
	CostoNuevo    decimal.Decimal `json:"costo_nuevo"`
	VentaAnterior decimal.Decimal `json:"venta_anterior"`
	VentaNueva    decimal.Decimal `json:"venta_nueva"`
	Motivo        *string         `json:"motivo"`
	CreatedAt     string          `json:"created_at"`
}
