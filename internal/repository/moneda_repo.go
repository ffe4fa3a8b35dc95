package repository

import (
	"context"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MonedaRepository defines the data access contract for currencies.
type MonedaRepository interface {
	Create(ctx context.Context, m *model.Moneda) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Moneda, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Moneda, error)
	List(ctx context.Context) ([]model.Moneda, error)
}

type monedaRepo struct{ db *gorm.DB }

func NewMonedaRepository(db *gorm.DB) MonedaRepository { return &monedaRepo{db: db} }

func (r *monedaRepo) Create(ctx context.Context, m *model.Moneda) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *monedaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Moneda, error) {
	var m model.Moneda
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *monedaRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Moneda, error) {
	var m model.Moneda
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&m).Error
	return &m, err
}

func (r *monedaRepo) List(ctx context.Context) ([]model.Moneda, error) {
	var monedas []model.Moneda
	err := r.db.WithContext(ctx).Order("codigo asc").Find(&monedas).Error
	return monedas, err
}
