package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/costeo"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/dto"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/model"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	costoCacheTTL = 4 * time.Hour
	costoGenKey   = "costo:gen"
)

// ProductoService defines the business logic contract for the catalog:
// product CRUD, BOM component links, and the rolled-up unit cost.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	CrearComponente(ctx context.Context, padreID uuid.UUID, req dto.CrearComponenteRequest) (*dto.ComponenteResponse, error)
	ListarComponentes(ctx context.Context, padreID uuid.UUID) ([]dto.ComponenteResponse, error)
	EliminarComponente(ctx context.Context, padreID, componenteID uuid.UUID) error

	CostoUnitario(ctx context.Context, id uuid.UUID) (*dto.CostoResponse, error)
	ListarHistorial(ctx context.Context, id uuid.UUID) ([]dto.HistorialPrecioResponse, error)
}

type productoService struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if _, err := s.repo.FindByCodigo(ctx, req.Codigo); err == nil {
		return nil, fmt.Errorf("ya existe un producto con codigo %s", req.Codigo)
	}

	costo := decimal.Zero
	if req.CostoUnitario != nil {
		costo = *req.CostoUnitario
	}
	if costo.IsNegative() {
		return nil, fmt.Errorf("costo unitario no puede ser negativo")
	}
	if req.Tipo == model.TipoNomenclatura && !costo.IsZero() {
		// Derived, never declared — storing it would just go stale.
		return nil, fmt.Errorf("una nomenclatura no lleva costo declarado; se calcula desde sus componentes")
	}
	if req.PrecioVenta.IsNegative() {
		return nil, fmt.Errorf("precio de venta no puede ser negativo")
	}

	p := &model.Producto{
		Codigo:        req.Codigo,
		Nombre:        req.Nombre,
		Descripcion:   req.Descripcion,
		Categoria:     req.Categoria,
		Tipo:          req.Tipo,
		CostoUnitario: costo,
		PrecioVenta:   req.PrecioVenta,
		UnidadMedida:  req.UnidadMedida,
		Activo:        true,
	}
	if p.Categoria == "" {
		p.Categoria = "general"
	}
	if p.UnidadMedida == "" {
		p.UnidadMedida = "unidad"
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	costoAnterior, ventaAnterior := p.CostoUnitario, p.PrecioVenta

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.Categoria != nil {
		p.Categoria = *req.Categoria
	}
	if req.UnidadMedida != nil {
		p.UnidadMedida = *req.UnidadMedida
	}
	if req.CostoUnitario != nil {
		if p.Tipo == model.TipoNomenclatura {
			return nil, fmt.Errorf("una nomenclatura no lleva costo declarado; se calcula desde sus componentes")
		}
		if req.CostoUnitario.IsNegative() {
			return nil, fmt.Errorf("costo unitario no puede ser negativo")
		}
		p.CostoUnitario = *req.CostoUnitario
	}
	if req.PrecioVenta != nil {
		if req.PrecioVenta.IsNegative() {
			return nil, fmt.Errorf("precio de venta no puede ser negativo")
		}
		p.PrecioVenta = *req.PrecioVenta
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	// Price audit row + cost cache invalidation on any monetary change.
	if !costoAnterior.Equal(p.CostoUnitario) || !ventaAnterior.Equal(p.PrecioVenta) {
		hist := &model.HistorialPrecio{
			ProductoID:    p.ID,
			CostoAnterior: costoAnterior,
			CostoNuevo:    p.CostoUnitario,
			VentaAnterior: ventaAnterior,
			VentaNueva:    p.PrecioVenta,
			Motivo:        req.MotivoCambio,
		}
		if err := s.repo.CreateHistorial(ctx, hist); err != nil {
			return nil, err
		}
		s.invalidarCostos(ctx)
	}

	return productoToResponse(p), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivar(ctx, id)
}

// ── BOM components ───────────────────────────────────────────────────────────

// CrearComponente links hijo under padre. The padre must be a nomenclatura
// and the resulting graph must stay acyclic: a dry-run rollup over the
// prospective graph rejects the edge before anything is persisted, so the
// stored BOM always satisfies the invariant the calculator assumes.
func (s *productoService) CrearComponente(ctx context.Context, padreID uuid.UUID, req dto.CrearComponenteRequest) (*dto.ComponenteResponse, error) {
	hijoID, err := uuid.Parse(req.ProductoHijoID)
	if err != nil {
		return nil, fmt.Errorf("producto_hijo_id invalido: %w", err)
	}
	if req.CantidadPorUnidad.LessThanOrEqual(decimal.Zero) {
		return nil, &costeo.CantidadNoPositivaError{Cantidad: req.CantidadPorUnidad}
	}

	padre, err := s.repo.FindByID(ctx, padreID)
	if err != nil {
		return nil, &costeo.ProductoNoEncontradoError{ProductoID: padreID}
	}
	if padre.Tipo != model.TipoNomenclatura {
		return nil, &costeo.EstructuraBOMInvalidaError{ProductoID: padreID}
	}
	hijo, err := s.repo.FindByID(ctx, hijoID)
	if err != nil {
		return nil, &costeo.ProductoNoEncontradoError{ProductoID: hijoID}
	}

	productos, componentes, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	prospectivo := &model.ProductoComponente{
		ProductoPadreID:   padreID,
		ProductoHijoID:    hijoID,
		CantidadPorUnidad: req.CantidadPorUnidad,
	}
	cat := catalogoDesdeModelos(productos, append(componentes, *prospectivo))
	if _, err := cat.CostoUnitario(padreID); err != nil {
		var ciclo *costeo.CicloBOMError
		if errors.As(err, &ciclo) {
			return nil, ciclo
		}
		var inv *costeo.EstructuraBOMInvalidaError
		if errors.As(err, &inv) {
			return nil, inv
		}
		// Unknown products inside the subtree are tolerated here: the edge
		// itself references two products verified above.
	}

	if err := s.repo.CreateComponente(ctx, prospectivo); err != nil {
		return nil, err
	}
	s.invalidarCostos(ctx)

	return &dto.ComponenteResponse{
		ID:                prospectivo.ID.String(),
		ProductoPadreID:   padreID.String(),
		ProductoHijoID:    hijoID.String(),
		NombreHijo:        hijo.Nombre,
		CantidadPorUnidad: prospectivo.CantidadPorUnidad,
	}, nil
}

func (s *productoService) ListarComponentes(ctx context.Context, padreID uuid.UUID) ([]dto.ComponenteResponse, error) {
	comps, err := s.repo.ListComponentesDePadre(ctx, padreID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ComponenteResponse, 0, len(comps))
	for _, c := range comps {
		item := dto.ComponenteResponse{
			ID:                c.ID.String(),
			ProductoPadreID:   c.ProductoPadreID.String(),
			ProductoHijoID:    c.ProductoHijoID.String(),
			CantidadPorUnidad: c.CantidadPorUnidad,
		}
		if c.Hijo != nil {
			item.NombreHijo = c.Hijo.Nombre
		}
		resp = append(resp, item)
	}
	return resp, nil
}

func (s *productoService) EliminarComponente(ctx context.Context, padreID, componenteID uuid.UUID) error {
	c, err := s.repo.FindComponenteByID(ctx, componenteID)
	if err != nil {
		return err
	}
	if c.ProductoPadreID != padreID {
		return fmt.Errorf("el componente no pertenece al producto indicado")
	}
	if err := s.repo.DeleteComponente(ctx, componenteID); err != nil {
		return err
	}
	s.invalidarCostos(ctx)
	return nil
}

// ── Cost rollup ──────────────────────────────────────────────────────────────

// CostoUnitario returns the effective unit cost: declared for articulos,
// rolled up from the component tree for nomenclaturas. Cached in Redis under
// a generation-scoped key; any catalog mutation bumps the generation so
// every ancestor cost expires at once.
func (s *productoService) CostoUnitario(ctx context.Context, id uuid.UUID) (*dto.CostoResponse, error) {
	cacheKey := s.costoCacheKey(ctx, id)
	if s.rdb != nil && cacheKey != "" {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.CostoResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &costeo.ProductoNoEncontradoError{ProductoID: id}
	}

	productos, componentes, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	cat := catalogoDesdeModelos(productos, componentes)
	costo, err := cat.CostoUnitario(id)
	if err != nil {
		return nil, err
	}

	resp := &dto.CostoResponse{
		ProductoID:    p.ID.String(),
		Nombre:        p.Nombre,
		Tipo:          p.Tipo,
		CostoUnitario: costo,
	}

	// Populate cache — best effort, ignore errors
	if s.rdb != nil && cacheKey != "" {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(context.Background(), cacheKey, b, costoCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *productoService) ListarHistorial(ctx context.Context, id uuid.UUID) ([]dto.HistorialPrecioResponse, error) {
	hist, err := s.repo.ListHistorialDeProducto(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.HistorialPrecioResponse, 0, len(hist))
	for _, h := range hist {
		resp = append(resp, dto.HistorialPrecioResponse{
			ID:            h.ID.String(),
			ProductoID:    h.ProductoID.String(),
			CostoAnterior: h.CostoAnterior,
			CostoNuevo:    h.CostoNuevo,
			VentaAnterior: h.VentaAnterior,
			VentaNueva:    h.VentaNueva,
			Motivo:        h.Motivo,
			CreatedAt:     h.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *productoService) costoCacheKey(ctx context.Context, id uuid.UUID) string {
	if s.rdb == nil {
		return ""
	}
	gen, err := s.rdb.Get(ctx, costoGenKey).Result()
	if err != nil {
		gen = "0"
	}
	return "costo:g" + gen + ":" + id.String()
}

func (s *productoService) invalidarCostos(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Incr(ctx, costoGenKey).Err()
}

// catalogoDesdeModelos builds the immutable snapshot the costeo package
// computes over.
func catalogoDesdeModelos(productos []model.Producto, componentes []model.ProductoComponente) *costeo.Catalogo {
	ps := make([]costeo.Producto, 0, len(productos))
	for _, p := range productos {
		ps = append(ps, costeo.Producto{
			ID:             p.ID,
			EsNomenclatura: p.Tipo == model.TipoNomenclatura,
			CostoUnitario:  p.CostoUnitario,
		})
	}
	cs := make([]costeo.Componente, 0, len(componentes))
	for _, c := range componentes {
		cs = append(cs, costeo.Componente{
			PadreID:  c.ProductoPadreID,
			HijoID:   c.ProductoHijoID,
			Cantidad: c.CantidadPorUnidad,
		})
	}
	return costeo.NewCatalogo(ps, cs)
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:            p.ID.String(),
		Codigo:        p.Codigo,
		Nombre:        p.Nombre,
		Descripcion:   p.Descripcion,
		Categoria:     p.Categoria,
		Tipo:          p.Tipo,
		CostoUnitario: p.CostoUnitario,
		PrecioVenta:   p.PrecioVenta,
		UnidadMedida:  p.UnidadMedida,
		Activo:        p.Activo,
	}
}
