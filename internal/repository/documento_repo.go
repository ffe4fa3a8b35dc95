package repository

import (
	"context"
	"time"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/dto"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentoRepository defines the data access contract for cotizaciones,
// pedidos y facturas (one table, Tipo discriminator) and their lines.
type DocumentoRepository interface {
	// Create inserts a document header. When tx is non-nil the insert joins
	// that transaction (conversion creates pedido + copies lines atomically).
	Create(ctx context.Context, tx *gorm.DB, d *model.Documento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Documento, error)
	List(ctx context.Context, filter dto.DocumentoFilter) ([]model.Documento, int64, error)
	Save(ctx context.Context, d *model.Documento) error
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error

	// NextNumero reserves the next per-tipo folio inside the given tx.
	NextNumero(tx *gorm.DB, tipo string) (int64, error)

	// Lines
	CreateLinea(ctx context.Context, tx *gorm.DB, l *model.DocumentoLinea) error
	FindLinea(ctx context.Context, documentoID, lineaID uuid.UUID) (*model.DocumentoLinea, error)
	ListLineas(ctx context.Context, documentoID uuid.UUID) ([]model.DocumentoLinea, error)
	SaveLinea(ctx context.Context, l *model.DocumentoLinea) error
	DeleteLinea(ctx context.Context, id uuid.UUID) error
	MaxPosicion(ctx context.Context, documentoID uuid.UUID) (int, error)

	// Async delivery bookkeeping
	SetPDFPath(ctx context.Context, id uuid.UUID, path string) error
	UpdateEnvio(ctx context.Context, id uuid.UUID, estado string, retryCount int, nextRetryAt *time.Time, lastError *string) error
	ListEnviosPendientes(ctx context.Context, before time.Time, limit int) ([]model.Documento, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type documentoRepo struct{ db *gorm.DB }

func NewDocumentoRepository(db *gorm.DB) DocumentoRepository { return &documentoRepo{db: db} }

func (r *documentoRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *documentoRepo) Create(ctx context.Context, tx *gorm.DB, d *model.Documento) error {
	return r.conn(tx).WithContext(ctx).Create(d).Error
}

func (r *documentoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Documento, error) {
	var d model.Documento
	err := r.db.WithContext(ctx).
		Preload("Empresa").
		Preload("Moneda").
		Preload("Lineas", func(q *gorm.DB) *gorm.DB { return q.Order("posicion asc") }).
		Preload("Lineas.Producto").
		First(&d, "id = ?", id).Error
	return &d, err
}

func (r *documentoRepo) List(ctx context.Context, filter dto.DocumentoFilter) ([]model.Documento, int64, error) {
	var docs []model.Documento
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Documento{})
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.EmpresaID != "" {
		q = q.Where("empresa_id = ?", filter.EmpresaID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Desde != "" {
		q = q.Where("created_at >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("created_at < ?::date + interval '1 day'", filter.Hasta)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Empresa").Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&docs).Error
	return docs, total, err
}

func (r *documentoRepo) Save(ctx context.Context, d *model.Documento) error {
	return r.db.WithContext(ctx).Omit("Lineas", "Empresa", "Moneda").Save(d).Error
}

func (r *documentoRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.db.WithContext(ctx).Model(&model.Documento{}).Where("id = ?", id).Update("estado", estado).Error
}

// NextNumero locks the per-tipo folio sequence: max(numero)+1 under
// FOR UPDATE so concurrent emissions never share a folio.
func (r *documentoRepo) NextNumero(tx *gorm.DB, tipo string) (int64, error) {
	var numero int64
	err := tx.Raw(
		`SELECT COALESCE(MAX(numero), 0) + 1 FROM documentos WHERE tipo = ? FOR UPDATE`,
		tipo,
	).Scan(&numero).Error
	return numero, err
}

func (r *documentoRepo) CreateLinea(ctx context.Context, tx *gorm.DB, l *model.DocumentoLinea) error {
	return r.conn(tx).WithContext(ctx).Create(l).Error
}

func (r *documentoRepo) FindLinea(ctx context.Context, documentoID, lineaID uuid.UUID) (*model.DocumentoLinea, error) {
	var l model.DocumentoLinea
	err := r.db.WithContext(ctx).
		Where("id = ? AND documento_id = ?", lineaID, documentoID).
		First(&l).Error
	return &l, err
}

func (r *documentoRepo) ListLineas(ctx context.Context, documentoID uuid.UUID) ([]model.DocumentoLinea, error) {
	var lineas []model.DocumentoLinea
	err := r.db.WithContext(ctx).
		Where("documento_id = ?", documentoID).
		Order("posicion asc").
		Find(&lineas).Error
	return lineas, err
}

func (r *documentoRepo) SaveLinea(ctx context.Context, l *model.DocumentoLinea) error {
	return r.db.WithContext(ctx).Omit("Producto").Save(l).Error
}

func (r *documentoRepo) DeleteLinea(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.DocumentoLinea{}, "id = ?", id).Error
}

func (r *documentoRepo) MaxPosicion(ctx context.Context, documentoID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&model.DocumentoLinea{}).
		Where("documento_id = ?", documentoID).
		Select("COALESCE(MAX(posicion), 0)").
		Scan(&max).Error
	return max, err
}

func (r *documentoRepo) SetPDFPath(ctx context.Context, id uuid.UUID, path string) error {
	return r.db.WithContext(ctx).Model(&model.Documento{}).Where("id = ?", id).Update("pdf_path", path).Error
}

func (r *documentoRepo) UpdateEnvio(ctx context.Context, id uuid.UUID, estado string, retryCount int, nextRetryAt *time.Time, lastError *string) error {
	return r.db.WithContext(ctx).Model(&model.Documento{}).Where("id = ?", id).Updates(map[string]interface{}{
		"envio_estado":  estado,
		"retry_count":   retryCount,
		"next_retry_at": nextRetryAt,
		"last_error":    lastError,
	}).Error
}

func (r *documentoRepo) ListEnviosPendientes(ctx context.Context, before time.Time, limit int) ([]model.Documento, error) {
	var docs []model.Documento
	err := r.db.WithContext(ctx).
		Where("envio_estado = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", model.EnvioPendiente, before).
		Order("next_retry_at asc").
		Limit(limit).
		Find(&docs).Error
	return docs, err
}

func (r *documentoRepo) DB() *gorm.DB { return r.db }
