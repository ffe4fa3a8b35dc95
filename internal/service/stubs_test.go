package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/dto"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/model"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errNoEncontrado = errors.New("not found")

// ── stubProductoRepo ─────────────────────────────────────────────────────────

// stubProductoRepo is an in-memory ProductoRepository for unit tests.
type stubProductoRepo struct {
	productos   map[uuid.UUID]*model.Producto
	componentes map[uuid.UUID]*model.ProductoComponente
	historial   []model.HistorialPrecio
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{
		productos:   make(map[uuid.UUID]*model.Producto),
		componentes: make(map[uuid.UUID]*model.ProductoComponente),
	}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return p, nil
}

func (r *stubProductoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Codigo == codigo {
			return p, nil
		}
	}
	return nil, errNoEncontrado
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return errNoEncontrado
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return errNoEncontrado
	}
	p.Activo = true
	return nil
}

func (r *stubProductoRepo) CreateComponente(_ context.Context, c *model.ProductoComponente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.componentes[c.ID] = c
	return nil
}

func (r *stubProductoRepo) FindComponenteByID(_ context.Context, id uuid.UUID) (*model.ProductoComponente, error) {
	c, ok := r.componentes[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return c, nil
}

func (r *stubProductoRepo) ListComponentesDePadre(_ context.Context, padreID uuid.UUID) ([]model.ProductoComponente, error) {
	var out []model.ProductoComponente
	for _, c := range r.componentes {
		if c.ProductoPadreID == padreID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) DeleteComponente(_ context.Context, id uuid.UUID) error {
	delete(r.componentes, id)
	return nil
}

func (r *stubProductoRepo) Snapshot(_ context.Context) ([]model.Producto, []model.ProductoComponente, error) {
	ps := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		ps = append(ps, *p)
	}
	cs := make([]model.ProductoComponente, 0, len(r.componentes))
	for _, c := range r.componentes {
		cs = append(cs, *c)
	}
	return ps, cs, nil
}

func (r *stubProductoRepo) CreateHistorial(_ context.Context, h *model.HistorialPrecio) error {
	r.historial = append(r.historial, *h)
	return nil
}

func (r *stubProductoRepo) ListHistorialDeProducto(_ context.Context, productoID uuid.UUID) ([]model.HistorialPrecio, error) {
	var out []model.HistorialPrecio
	for _, h := range r.historial {
		if h.ProductoID == productoID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── stubDocumentoRepo ────────────────────────────────────────────────────────

// stubDocumentoRepo is an in-memory DocumentoRepository. FindByID attaches the
// document's lines sorted by posicion, matching the GORM preload.
type stubDocumentoRepo struct {
	docs   map[uuid.UUID]*model.Documento
	lineas map[uuid.UUID]*model.DocumentoLinea
	folios map[string]int64
}

func newStubDocumentoRepo() *stubDocumentoRepo {
	return &stubDocumentoRepo{
		docs:   make(map[uuid.UUID]*model.Documento),
		lineas: make(map[uuid.UUID]*model.DocumentoLinea),
		folios: make(map[string]int64),
	}
}

func (r *stubDocumentoRepo) Create(_ context.Context, _ *gorm.DB, d *model.Documento) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.docs[d.ID] = d
	return nil
}

func (r *stubDocumentoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Documento, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, errNoEncontrado
	}
	copia := *d
	copia.Lineas = nil
	for _, l := range r.lineas {
		if l.DocumentoID == id {
			copia.Lineas = append(copia.Lineas, *l)
		}
	}
	sort.Slice(copia.Lineas, func(i, j int) bool { return copia.Lineas[i].Posicion < copia.Lineas[j].Posicion })
	return &copia, nil
}

func (r *stubDocumentoRepo) List(_ context.Context, _ dto.DocumentoFilter) ([]model.Documento, int64, error) {
	out := make([]model.Documento, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (r *stubDocumentoRepo) Save(_ context.Context, d *model.Documento) error {
	r.docs[d.ID] = d
	return nil
}

func (r *stubDocumentoRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	d, ok := r.docs[id]
	if !ok {
		return errNoEncontrado
	}
	d.Estado = estado
	return nil
}

func (r *stubDocumentoRepo) NextNumero(_ *gorm.DB, tipo string) (int64, error) {
	r.folios[tipo]++
	return r.folios[tipo], nil
}

func (r *stubDocumentoRepo) CreateLinea(_ context.Context, _ *gorm.DB, l *model.DocumentoLinea) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.lineas[l.ID] = l
	return nil
}

func (r *stubDocumentoRepo) FindLinea(_ context.Context, documentoID, lineaID uuid.UUID) (*model.DocumentoLinea, error) {
	l, ok := r.lineas[lineaID]
	if !ok || l.DocumentoID != documentoID {
		return nil, errNoEncontrado
	}
	return l, nil
}

func (r *stubDocumentoRepo) ListLineas(_ context.Context, documentoID uuid.UUID) ([]model.DocumentoLinea, error) {
	var out []model.DocumentoLinea
	for _, l := range r.lineas {
		if l.DocumentoID == documentoID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Posicion < out[j].Posicion })
	return out, nil
}

func (r *stubDocumentoRepo) SaveLinea(_ context.Context, l *model.DocumentoLinea) error {
	r.lineas[l.ID] = l
	return nil
}

func (r *stubDocumentoRepo) DeleteLinea(_ context.Context, id uuid.UUID) error {
	delete(r.lineas, id)
	return nil
}

func (r *stubDocumentoRepo) MaxPosicion(_ context.Context, documentoID uuid.UUID) (int, error) {
	max := 0
	for _, l := range r.lineas {
		if l.DocumentoID == documentoID && l.Posicion > max {
			max = l.Posicion
		}
	}
	return max, nil
}

func (r *stubDocumentoRepo) SetPDFPath(_ context.Context, id uuid.UUID, path string) error {
	d, ok := r.docs[id]
	if !ok {
		return errNoEncontrado
	}
	d.PDFPath = &path
	return nil
}

func (r *stubDocumentoRepo) UpdateEnvio(_ context.Context, id uuid.UUID, estado string, retryCount int, nextRetryAt *time.Time, lastError *string) error {
	d, ok := r.docs[id]
	if !ok {
		return errNoEncontrado
	}
	d.EnvioEstado = estado
	d.RetryCount = retryCount
	d.NextRetryAt = nextRetryAt
	d.LastError = lastError
	return nil
}

func (r *stubDocumentoRepo) ListEnviosPendientes(_ context.Context, before time.Time, _ int) ([]model.Documento, error) {
	var out []model.Documento
	for _, d := range r.docs {
		if d.EnvioEstado == model.EnvioPendiente && d.NextRetryAt != nil && !d.NextRetryAt.After(before) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubDocumentoRepo) DB() *gorm.DB { return nil }

var _ repository.DocumentoRepository = (*stubDocumentoRepo)(nil)

// ── stubEmpresaRepo / stubMonedaRepo ─────────────────────────────────────────

type stubEmpresaRepo struct {
	empresas map[uuid.UUID]*model.Empresa
}

func newStubEmpresaRepo() *stubEmpresaRepo {
	return &stubEmpresaRepo{empresas: make(map[uuid.UUID]*model.Empresa)}
}

func (r *stubEmpresaRepo) Create(_ context.Context, e *model.Empresa) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.empresas[e.ID] = e
	return nil
}

func (r *stubEmpresaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Empresa, error) {
	e, ok := r.empresas[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return e, nil
}

func (r *stubEmpresaRepo) FindByRUT(_ context.Context, rut string) (*model.Empresa, error) {
	for _, e := range r.empresas {
		if e.RUT == rut {
			return e, nil
		}
	}
	return nil, errNoEncontrado
}

func (r *stubEmpresaRepo) List(_ context.Context, _ dto.EmpresaFilter) ([]model.Empresa, int64, error) {
	out := make([]model.Empresa, 0, len(r.empresas))
	for _, e := range r.empresas {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (r *stubEmpresaRepo) Update(_ context.Context, e *model.Empresa) error {
	r.empresas[e.ID] = e
	return nil
}

func (r *stubEmpresaRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	e, ok := r.empresas[id]
	if !ok {
		return errNoEncontrado
	}
	e.Activo = false
	return nil
}

var _ repository.EmpresaRepository = (*stubEmpresaRepo)(nil)

type stubMonedaRepo struct {
	monedas map[uuid.UUID]*model.Moneda
}

func newStubMonedaRepo() *stubMonedaRepo {
	return &stubMonedaRepo{monedas: make(map[uuid.UUID]*model.Moneda)}
}

func (r *stubMonedaRepo) Create(_ context.Context, m *model.Moneda) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.monedas[m.ID] = m
	return nil
}

func (r *stubMonedaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Moneda, error) {
	m, ok := r.monedas[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return m, nil
}

func (r *stubMonedaRepo) FindByCodigo(_ context.Context, codigo string) (*model.Moneda, error) {
	for _, m := range r.monedas {
		if m.Codigo == codigo {
			return m, nil
		}
	}
	return nil, errNoEncontrado
}

func (r *stubMonedaRepo) List(_ context.Context) ([]model.Moneda, error) {
	out := make([]model.Moneda, 0, len(r.monedas))
	for _, m := range r.monedas {
		out = append(out, *m)
	}
	return out, nil
}

var _ repository.MonedaRepository = (*stubMonedaRepo)(nil)
