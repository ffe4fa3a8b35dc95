package dto

// ─── Empresa ─────────────────────────────────────────────────────────────────

type CrearEmpresaRequest struct {
	RazonSocial string  `json:"razon_social" validate:"required,min=2,max=160"`
	RUT         string  `json:"rut"          validate:"required,min=8,max=20"`
	Giro        *string `json:"giro"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Telefono    *string `json:"telefono"`
	Direccion   *string `json:"direccion"`
}

type ActualizarEmpresaRequest struct {
	RazonSocial *string `json:"razon_social" validate:"omitempty,min=2,max=160"`
	Giro        *string `json:"giro"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Telefono    *string `json:"telefono"`
	Direccion   *string `json:"direccion"`
}

type EmpresaFilter struct {
	RazonSocial string `form:"razon_social"`
	RUT         string `form:"rut"`
	Activo      string `form:"activo"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type EmpresaResponse struct {
	ID          string  `json:"id"`
	RazonSocial string  `json:"razon_social"`
	RUT         string  `json:"rut"`
	Giro        *string `json:"giro"`
	Email       *string `json:"email"`
	Telefono    *string `json:"telefono"`
	Direccion   *string `json:"direccion"`
	Activo      bool    `json:"activo"`
}

type EmpresaListResponse struct {
	Items []EmpresaResponse `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ─── Moneda ──────────────────────────────────────────────────────────────────

type CrearMonedaRequest struct {
	Codigo    string `json:"codigo"    validate:"required,min=2,max=10"`
	Nombre    string `json:"nombre"    validate:"required"`
	Simbolo   string `json:"simbolo"`
	Decimales *int   `json:"decimales" validate:"omitempty,min=0,max=6"`
}

type MonedaResponse struct {
	ID        string `json:"id"`
	Codigo    string `json:"codigo"`
	Nombre    string `json:"nombre"`
	Simbolo   string `json:"simbolo"`
	Decimales int    `json:"decimales"`
}
