package repository

import (
	"context"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/dto"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for the catalog:
// products, their BOM edges, and the price history. Services depend on this
// interface, not on the concrete GORM implementation, enabling clean unit
// testing via in-memory stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Update(ctx context.Context, p *model.Producto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	// BOM edges
	CreateComponente(ctx context.Context, c *model.ProductoComponente) error
	FindComponenteByID(ctx context.Context, id uuid.UUID) (*model.ProductoComponente, error)
	ListComponentesDePadre(ctx context.Context, padreID uuid.UUID) ([]model.ProductoComponente, error)
	DeleteComponente(ctx context.Context, id uuid.UUID) error

	// Snapshot loads the whole catalog (products + edges) in one shot so the
	// costeo package can work over an immutable view. Two queries, no lock:
	// documents never mutate the catalog, and catalog writers invalidate the
	// cost cache afterwards anyway.
	Snapshot(ctx context.Context) ([]model.Producto, []model.ProductoComponente, error)

	// Price history
	CreateHistorial(ctx context.Context, h *model.HistorialPrecio) error
	ListHistorialDeProducto(ctx context.Context, productoID uuid.UUID) ([]model.HistorialPrecio, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	// Activo filter: "false" = inactivos, "all" = todos, anything else = activos (default)
	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}
	if filter.Codigo != "" {
		q = q.Where("codigo = ?", filter.Codigo)
	}
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre asc").Offset(offset).Limit(filter.Limit).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *productoRepo) CreateComponente(ctx context.Context, c *model.ProductoComponente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *productoRepo) FindComponenteByID(ctx context.Context, id uuid.UUID) (*model.ProductoComponente, error) {
	var c model.ProductoComponente
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *productoRepo) ListComponentesDePadre(ctx context.Context, padreID uuid.UUID) ([]model.ProductoComponente, error) {
	var comps []model.ProductoComponente
	err := r.db.WithContext(ctx).
		Preload("Hijo").
		Where("producto_padre_id = ?", padreID).
		Find(&comps).Error
	return comps, err
}

func (r *productoRepo) DeleteComponente(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ProductoComponente{}, "id = ?", id).Error
}

func (r *productoRepo) Snapshot(ctx context.Context) ([]model.Producto, []model.ProductoComponente, error) {
	var productos []model.Producto
	if err := r.db.WithContext(ctx).Find(&productos).Error; err != nil {
		return nil, nil, err
	}
	var componentes []model.ProductoComponente
	if err := r.db.WithContext(ctx).Find(&componentes).Error; err != nil {
		return nil, nil, err
	}
	return productos, componentes, nil
}

func (r *productoRepo) CreateHistorial(ctx context.Context, h *model.HistorialPrecio) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *productoRepo) ListHistorialDeProducto(ctx context.Context, productoID uuid.UUID) ([]model.HistorialPrecio, error) {
	var hist []model.HistorialPrecio
	err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Order("created_at desc").
		Find(&hist).Error
	return hist, err
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
