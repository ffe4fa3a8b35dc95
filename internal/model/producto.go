package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product kinds. An "articulo" carries its own declared unit cost; a
// "nomenclatura" derives its cost from its component tree (see costeo package).
const (
	TipoArticulo     = "articulo"
	TipoNomenclatura = "nomenclatura"
)

// Producto represents a catalog entry, either a purchasable article or an
// assembled nomenclatura built from components.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string    `gorm:"uniqueIndex;not null"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	Categoria   string `gorm:"not null;default:'general'"`
	// Tipo: "articulo" | "nomenclatura"
	Tipo string `gorm:"type:varchar(20);not null;default:'articulo'"`
	// CostoUnitario is authoritative only for articulos. For nomenclaturas the
	// effective cost is rolled up from components and never stored here.
	CostoUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PrecioVenta   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnidadMedida  string          `gorm:"not null;default:'unidad'"`
	Activo        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
