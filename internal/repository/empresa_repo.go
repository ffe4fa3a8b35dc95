package repository

import (
	"context"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/dto"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmpresaRepository defines the data access contract for client companies.
type EmpresaRepository interface {
	Create(ctx context.Context, e *model.Empresa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Empresa, error)
	FindByRUT(ctx context.Context, rut string) (*model.Empresa, error)
	List(ctx context.Context, filter dto.EmpresaFilter) ([]model.Empresa, int64, error)
	Update(ctx context.Context, e *model.Empresa) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type empresaRepo struct{ db *gorm.DB }

func NewEmpresaRepository(db *gorm.DB) EmpresaRepository { return &empresaRepo{db: db} }

func (r *empresaRepo) Create(ctx context.Context, e *model.Empresa) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *empresaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Empresa, error) {
	var e model.Empresa
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *empresaRepo) FindByRUT(ctx context.Context, rut string) (*model.Empresa, error) {
	var e model.Empresa
	err := r.db.WithContext(ctx).Where("rut = ?", rut).First(&e).Error
	return &e, err
}

func (r *empresaRepo) List(ctx context.Context, filter dto.EmpresaFilter) ([]model.Empresa, int64, error) {
	var empresas []model.Empresa
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Empresa{})
	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
	default:
		q = q.Where("activo = true")
	}
	if filter.RazonSocial != "" {
		q = q.Where("razon_social ILIKE ?", "%"+filter.RazonSocial+"%")
	}
	if filter.RUT != "" {
		q = q.Where("rut = ?", filter.RUT)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("razon_social asc").Offset(offset).Limit(filter.Limit).Find(&empresas).Error
	return empresas, total, err
}

func (r *empresaRepo) Update(ctx context.Context, e *model.Empresa) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *empresaRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Empresa{}).Where("id = ?", id).Update("activo", false).Error
}
