package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductoComponente is one edge of the bill of materials: producing one unit
// of the padre consumes CantidadPorUnidad units of the hijo.
// The padre must be a nomenclatura; the graph of all edges must stay acyclic.
// Both invariants are enforced at creation time (see ProductoService).
type ProductoComponente struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoPadreID   uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_padre_hijo;not null"`
	ProductoHijoID    uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_padre_hijo;not null"`
	CantidadPorUnidad decimal.Decimal `gorm:"type:decimal(12,3);not null"`

	Padre *Producto `gorm:"foreignKey:ProductoPadreID"`
	Hijo  *Producto `gorm:"foreignKey:ProductoHijoID"`
}
