package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialPrecio records one price/cost change of a product, written every
// time CostoUnitario or PrecioVenta is updated.
type HistorialPrecio struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	CostoAnterior decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoNuevo    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VentaAnterior decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VentaNueva    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Motivo        *string
	CreatedAt     time.Time
}
