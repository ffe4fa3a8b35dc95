package model

import (
	"time"

	"github.com/google/uuid"
)

// Moneda is a document currency (CLP, USD, UF, EUR, ...).
type Moneda struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo    string    `gorm:"type:varchar(10);uniqueIndex;not null"`
	Nombre    string    `gorm:"not null"`
	Simbolo   string    `gorm:"type:varchar(5);not null;default:'$'"`
	Decimales int       `gorm:"not null;default:2"`
	CreatedAt time.Time
}
