package model

import (
	"time"

	"github.com/google/uuid"
)

// Empresa is a client company. RUT is stored as an opaque string — formatting
// and check-digit validation belong to the front end.
type Empresa struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RazonSocial string    `gorm:"not null;index"`
	RUT         string    `gorm:"type:varchar(20);uniqueIndex;not null;column:rut"`
	Giro        *string
	Email       *string
	Telefono    *string
	Direccion   *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
