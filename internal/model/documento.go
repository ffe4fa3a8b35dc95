package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Document kinds. The three share one shape: a header with tax/currency terms
// plus an ordered list of lines. A cotizacion converts into a pedido, a pedido
// into a factura (the lines are copied, the totals recomputed).
const (
	DocCotizacion = "cotizacion"
	DocPedido     = "pedido"
	DocFactura    = "factura"
)

// Document states. Lines are mutable only while the document is a borrador;
// Emitir freezes them and recomputes the totals one last time.
const (
	EstadoBorrador  = "borrador"
	EstadoEmitido   = "emitido"
	EstadoAceptado  = "aceptado"
	EstadoRechazado = "rechazado"
	EstadoAnulado   = "anulado"
)

// Email delivery states for emitted documents (see worker/retry cron).
const (
	EnvioNoSolicitado = "no_solicitado"
	EnvioPendiente    = "pendiente"
	EnvioEnviado      = "enviado"
	EnvioError        = "error"
)

// Documento is the shared header for cotizaciones, pedidos y facturas.
type Documento struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo   string    `gorm:"type:varchar(20);uniqueIndex:idx_tipo_numero;not null"`
	Numero int64     `gorm:"uniqueIndex:idx_tipo_numero;not null"`

	EmpresaID uuid.UUID `gorm:"type:uuid;index;not null"`
	MonedaID  uuid.UUID `gorm:"type:uuid;not null"`
	// TipoCambio: units of the home currency per 1 unit of the document
	// currency. 1 when the document is already in the home currency.
	TipoCambio  decimal.Decimal `gorm:"type:decimal(12,6);not null;default:1"`
	ImpuestoPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:19"`

	// Derived — recomputed by DocumentoService on every line mutation.
	Subtotal        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	MontoImpuesto   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalMonedaBase decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	Estado        string `gorm:"type:varchar(20);not null;default:'borrador'"`
	Observaciones *string

	// Origin document when created by conversion (cotizacion → pedido → factura).
	DocumentoOrigenID *uuid.UUID `gorm:"type:uuid;index"`

	// PDF / email delivery (async pipeline).
	PDFPath     *string `gorm:"column:pdf_path"`
	EnvioEstado string  `gorm:"type:varchar(20);not null;default:'no_solicitado'"`
	EnvioEmail  *string
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Empresa *Empresa         `gorm:"foreignKey:EmpresaID"`
	Moneda  *Moneda          `gorm:"foreignKey:MonedaID"`
	Lineas  []DocumentoLinea `gorm:"foreignKey:DocumentoID"`
}

// DocumentoLinea is one line of a cotizacion/pedido/factura.
type DocumentoLinea struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentoID uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductoID  uuid.UUID `gorm:"type:uuid;not null"`
	// Posicion orders lines for display; totals are order-independent.
	Posicion int `gorm:"not null"`

	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoPct   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`

	// Derived — computed by costeo.CalcularLinea, persisted for display.
	DescuentoMonto decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}
