package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/costeo"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/dto"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/model"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/repository"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// conversiones maps each document type to the one it converts into.
var conversiones = map[string]string{
	model.DocCotizacion: model.DocPedido,
	model.DocPedido:     model.DocFactura,
}

// transiciones lists the legal estado changes reachable via CambiarEstado.
// Emitir handles borrador → emitido separately (it recomputes totals and
// kicks off the PDF pipeline).
var transiciones = map[string][]string{
	model.EstadoBorrador: {model.EstadoAnulado},
	model.EstadoEmitido:  {model.EstadoAceptado, model.EstadoRechazado, model.EstadoAnulado},
}

// DocumentoService drives the shared lifecycle of cotizaciones, pedidos y
// facturas: header creation, line editing while en borrador, emission,
// estado transitions, conversion and email delivery.
type DocumentoService interface {
	Crear(ctx context.Context, req dto.CrearDocumentoRequest) (*dto.DocumentoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.DocumentoResponse, error)
	Listar(ctx context.Context, filter dto.DocumentoFilter) (*dto.DocumentoListResponse, error)

	AgregarLinea(ctx context.Context, documentoID uuid.UUID, req dto.AgregarLineaRequest) (*dto.DocumentoResponse, error)
	ActualizarLinea(ctx context.Context, documentoID, lineaID uuid.UUID, req dto.ActualizarLineaRequest) (*dto.DocumentoResponse, error)
	EliminarLinea(ctx context.Context, documentoID, lineaID uuid.UUID) (*dto.DocumentoResponse, error)

	Emitir(ctx context.Context, id uuid.UUID) (*dto.DocumentoResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoRequest) (*dto.DocumentoResponse, error)
	Convertir(ctx context.Context, id uuid.UUID) (*dto.DocumentoResponse, error)
	Enviar(ctx context.Context, id uuid.UUID, req dto.EnviarDocumentoRequest) error
	PDFPath(ctx context.Context, id uuid.UUID) (string, error)
}

type documentoService struct {
	repo            repository.DocumentoRepository
	productoRepo    repository.ProductoRepository
	empresaRepo     repository.EmpresaRepository
	monedaRepo      repository.MonedaRepository
	dispatcher      *worker.Dispatcher
	impuestoDefault decimal.Decimal
}

func NewDocumentoService(
	repo repository.DocumentoRepository,
	productoRepo repository.ProductoRepository,
	empresaRepo repository.EmpresaRepository,
	monedaRepo repository.MonedaRepository,
	dispatcher *worker.Dispatcher,
	impuestoDefault decimal.Decimal,
) DocumentoService {
	return &documentoService{
		repo:            repo,
		productoRepo:    productoRepo,
		empresaRepo:     empresaRepo,
		monedaRepo:      monedaRepo,
		dispatcher:      dispatcher,
		impuestoDefault: impuestoDefault,
	}
}

// Crear opens a new borrador and reserves its per-tipo folio in the same
// transaction, so two concurrent creations never share a numero.
func (s *documentoService) Crear(ctx context.Context, req dto.CrearDocumentoRequest) (*dto.DocumentoResponse, error) {
	empresaID, err := uuid.Parse(req.EmpresaID)
	if err != nil {
		return nil, fmt.Errorf("empresa_id invalido: %w", err)
	}
	monedaID, err := uuid.Parse(req.MonedaID)
	if err != nil {
		return nil, fmt.Errorf("moneda_id invalido: %w", err)
	}

	empresa, err := s.empresaRepo.FindByID(ctx, empresaID)
	if err != nil {
		return nil, fmt.Errorf("empresa no encontrada")
	}
	if !empresa.Activo {
		return nil, fmt.Errorf("la empresa %s esta inactiva", empresa.RazonSocial)
	}
	if _, err := s.monedaRepo.FindByID(ctx, monedaID); err != nil {
		return nil, fmt.Errorf("moneda no encontrada")
	}

	tipoCambio := decimal.NewFromInt(1)
	if req.TipoCambio != nil {
		if req.TipoCambio.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("tipo de cambio debe ser positivo")
		}
		tipoCambio = *req.TipoCambio
	}
	impuesto := s.impuestoDefault
	if req.ImpuestoPct != nil {
		impuesto = *req.ImpuestoPct
	}
	// Reject out-of-range tax at creation, not at the first line.
	if _, err := costeo.TotalizarDocumento(nil, impuesto, nil); err != nil {
		return nil, err
	}

	doc := &model.Documento{
		Tipo:          req.Tipo,
		EmpresaID:     empresaID,
		MonedaID:      monedaID,
		TipoCambio:    tipoCambio,
		ImpuestoPct:   impuesto,
		Estado:        model.EstadoBorrador,
		EnvioEstado:   model.EnvioNoSolicitado,
		Observaciones: req.Observaciones,
	}

	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumero(tx, req.Tipo)
		if err != nil {
			return err
		}
		doc.Numero = numero
		return s.repo.Create(ctx, tx, doc)
	})
	if err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, doc.ID)
}

func (s *documentoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.DocumentoResponse, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return documentoToResponse(doc), nil
}

func (s *documentoService) Listar(ctx context.Context, filter dto.DocumentoFilter) (*dto.DocumentoListResponse, error) {
	docs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DocumentoResponse, 0, len(docs))
	for i := range docs {
		items = append(items, *documentoToResponse(&docs[i]))
	}
	return &dto.DocumentoListResponse{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── line editing (borrador only) ─────────────────────────────────────────────

func (s *documentoService) AgregarLinea(ctx context.Context, documentoID uuid.UUID, req dto.AgregarLineaRequest) (*dto.DocumentoResponse, error) {
	doc, err := s.repo.FindByID(ctx, documentoID)
	if err != nil {
		return nil, err
	}
	if doc.Estado != model.EstadoBorrador {
		return nil, fmt.Errorf("solo un documento en borrador admite cambios de lineas")
	}

	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id invalido: %w", err)
	}
	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, &costeo.ProductoNoEncontradoError{ProductoID: productoID}
	}

	precio := producto.PrecioVenta
	if req.PrecioUnitario != nil {
		precio = *req.PrecioUnitario
	}
	calc, err := costeo.CalcularLinea(req.Cantidad, precio, req.DescuentoPct)
	if err != nil {
		return nil, err
	}

	pos, err := s.repo.MaxPosicion(ctx, documentoID)
	if err != nil {
		return nil, err
	}
	linea := &model.DocumentoLinea{
		DocumentoID:    documentoID,
		ProductoID:     productoID,
		Posicion:       pos + 1,
		Cantidad:       req.Cantidad,
		PrecioUnitario: precio,
		DescuentoPct:   req.DescuentoPct,
		DescuentoMonto: calc.DescuentoMonto,
		Subtotal:       calc.Subtotal,
	}
	if err := s.repo.CreateLinea(ctx, nil, linea); err != nil {
		return nil, err
	}
	if err := s.recalcular(ctx, doc); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, documentoID)
}

func (s *documentoService) ActualizarLinea(ctx context.Context, documentoID, lineaID uuid.UUID, req dto.ActualizarLineaRequest) (*dto.DocumentoResponse, error) {
	doc, err := s.repo.FindByID(ctx, documentoID)
	if err != nil {
		return nil, err
	}
	if doc.Estado != model.EstadoBorrador {
		return nil, fmt.Errorf("solo un documento en borrador admite cambios de lineas")
	}

	linea, err := s.repo.FindLinea(ctx, documentoID, lineaID)
	if err != nil {
		return nil, err
	}
	if req.Cantidad != nil {
		linea.Cantidad = *req.Cantidad
	}
	if req.PrecioUnitario != nil {
		linea.PrecioUnitario = *req.PrecioUnitario
	}
	if req.DescuentoPct != nil {
		linea.DescuentoPct = *req.DescuentoPct
	}

	calc, err := costeo.CalcularLinea(linea.Cantidad, linea.PrecioUnitario, linea.DescuentoPct)
	if err != nil {
		return nil, err
	}
	linea.DescuentoMonto = calc.DescuentoMonto
	linea.Subtotal = calc.Subtotal

	if err := s.repo.SaveLinea(ctx, linea); err != nil {
		return nil, err
	}
	if err := s.recalcular(ctx, doc); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, documentoID)
}

func (s *documentoService) EliminarLinea(ctx context.Context, documentoID, lineaID uuid.UUID) (*dto.DocumentoResponse, error) {
	doc, err := s.repo.FindByID(ctx, documentoID)
	if err != nil {
		return nil, err
	}
	if doc.Estado != model.EstadoBorrador {
		return nil, fmt.Errorf("solo un documento en borrador admite cambios de lineas")
	}
	if _, err := s.repo.FindLinea(ctx, documentoID, lineaID); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteLinea(ctx, lineaID); err != nil {
		return nil, err
	}
	if err := s.recalcular(ctx, doc); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, documentoID)
}

// ── lifecycle ────────────────────────────────────────────────────────────────

// Emitir freezes a borrador. Every line is re-validated first; one bad line
// aborts the whole emission so totals never reflect a partial document.
func (s *documentoService) Emitir(ctx context.Context, id uuid.UUID) (*dto.DocumentoResponse, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Estado != model.EstadoBorrador {
		return nil, fmt.Errorf("solo un borrador puede emitirse (estado actual: %s)", doc.Estado)
	}
	if len(doc.Lineas) == 0 {
		return nil, fmt.Errorf("un documento sin lineas no puede emitirse")
	}
	for i := range doc.Lineas {
		l := &doc.Lineas[i]
		if _, err := costeo.CalcularLinea(l.Cantidad, l.PrecioUnitario, l.DescuentoPct); err != nil {
			return nil, fmt.Errorf("linea %d: %w", l.Posicion, err)
		}
	}

	if err := s.recalcular(ctx, doc); err != nil {
		return nil, err
	}
	doc.Estado = model.EstadoEmitido
	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		payload := worker.DocumentoPDFPayload{DocumentoID: id.String()}
		if err := s.dispatcher.EnqueueDocumentoPDF(ctx, payload); err != nil {
			// The document is emitted either way; the PDF can be re-requested.
			return s.ObtenerPorID(ctx, id)
		}
	}
	return s.ObtenerPorID(ctx, id)
}

func (s *documentoService) CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoRequest) (*dto.DocumentoResponse, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	permitidos := transiciones[doc.Estado]
	valido := false
	for _, e := range permitidos {
		if e == req.Estado {
			valido = true
			break
		}
	}
	if !valido {
		return nil, fmt.Errorf("transicion de estado invalida: %s → %s", doc.Estado, req.Estado)
	}

	doc.Estado = req.Estado
	if req.Motivo != nil {
		doc.Observaciones = req.Motivo
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, id)
}

// Convertir derives the next document in the chain (cotizacion → pedido →
// factura): same empresa, moneda and terms, lines copied, fresh folio. The
// new document starts en borrador so its lines can still be adjusted.
func (s *documentoService) Convertir(ctx context.Context, id uuid.UUID) (*dto.DocumentoResponse, error) {
	origen, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tipoDestino, ok := conversiones[origen.Tipo]
	if !ok {
		return nil, fmt.Errorf("una %s no se convierte en otro documento", origen.Tipo)
	}
	if origen.Estado != model.EstadoEmitido && origen.Estado != model.EstadoAceptado {
		return nil, fmt.Errorf("solo un documento emitido o aceptado puede convertirse (estado actual: %s)", origen.Estado)
	}

	destino := &model.Documento{
		Tipo:              tipoDestino,
		EmpresaID:         origen.EmpresaID,
		MonedaID:          origen.MonedaID,
		TipoCambio:        origen.TipoCambio,
		ImpuestoPct:       origen.ImpuestoPct,
		Subtotal:          origen.Subtotal,
		MontoImpuesto:     origen.MontoImpuesto,
		Total:             origen.Total,
		TotalMonedaBase:   origen.TotalMonedaBase,
		Estado:            model.EstadoBorrador,
		EnvioEstado:       model.EnvioNoSolicitado,
		DocumentoOrigenID: &origen.ID,
	}

	err = s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumero(tx, tipoDestino)
		if err != nil {
			return err
		}
		destino.Numero = numero
		if err := s.repo.Create(ctx, tx, destino); err != nil {
			return err
		}
		for i := range origen.Lineas {
			l := origen.Lineas[i]
			copia := &model.DocumentoLinea{
				DocumentoID:    destino.ID,
				ProductoID:     l.ProductoID,
				Posicion:       l.Posicion,
				Cantidad:       l.Cantidad,
				PrecioUnitario: l.PrecioUnitario,
				DescuentoPct:   l.DescuentoPct,
				DescuentoMonto: l.DescuentoMonto,
				Subtotal:       l.Subtotal,
			}
			if err := s.repo.CreateLinea(ctx, tx, copia); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, destino.ID)
}

// Enviar requests email delivery of an emitted document. The PDF job is
// enqueued when no PDF exists yet; its worker chains the email job.
func (s *documentoService) Enviar(ctx context.Context, id uuid.UUID, req dto.EnviarDocumentoRequest) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if doc.Estado == model.EstadoBorrador {
		return fmt.Errorf("un borrador no puede enviarse; emitirlo primero")
	}

	doc.EnvioEmail = &req.Email
	doc.EnvioEstado = model.EnvioPendiente
	doc.RetryCount = 0
	doc.NextRetryAt = nil
	doc.LastError = nil
	if err := s.repo.Save(ctx, doc); err != nil {
		return err
	}

	if s.dispatcher == nil {
		return nil
	}
	if doc.PDFPath != nil && *doc.PDFPath != "" {
		return s.dispatcher.EnqueueEmail(ctx, worker.EmailPayload{DocumentoID: id.String()})
	}
	return s.dispatcher.EnqueueDocumentoPDF(ctx, worker.DocumentoPDFPayload{DocumentoID: id.String()})
}

func (s *documentoService) PDFPath(ctx context.Context, id uuid.UUID) (string, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if doc.PDFPath == nil || *doc.PDFPath == "" {
		return "", fmt.Errorf("el documento aun no tiene PDF generado")
	}
	return *doc.PDFPath, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

// recalcular rebuilds the header totals from the current lines. Per-line
// subtotals are already rounded, so the result does not depend on line order.
func (s *documentoService) recalcular(ctx context.Context, doc *model.Documento) error {
	lineas, err := s.repo.ListLineas(ctx, doc.ID)
	if err != nil {
		return err
	}
	subtotales := make([]decimal.Decimal, 0, len(lineas))
	for _, l := range lineas {
		subtotales = append(subtotales, l.Subtotal)
	}

	tot, err := costeo.TotalizarDocumento(subtotales, doc.ImpuestoPct, &doc.TipoCambio)
	if err != nil {
		return err
	}
	doc.Subtotal = tot.Subtotal
	doc.MontoImpuesto = tot.MontoImpuesto
	doc.Total = tot.Total
	if tot.TotalMonedaBase != nil {
		doc.TotalMonedaBase = *tot.TotalMonedaBase
	}
	return s.repo.Save(ctx, doc)
}

func documentoToResponse(d *model.Documento) *dto.DocumentoResponse {
	resp := &dto.DocumentoResponse{
		ID:            d.ID.String(),
		Tipo:          d.Tipo,
		Numero:        d.Numero,
		EmpresaID:     d.EmpresaID.String(),
		MonedaID:      d.MonedaID.String(),
		TipoCambio:    d.TipoCambio,
		ImpuestoPct:   d.ImpuestoPct,
		Subtotal:      d.Subtotal,
		MontoImpuesto: d.MontoImpuesto,
		Total:         d.Total,
		Estado:        d.Estado,
		EnvioEstado:   d.EnvioEstado,
		Observaciones: d.Observaciones,
		CreatedAt:     d.CreatedAt.Format(time.RFC3339),
	}
	if !d.TipoCambio.Equal(decimal.NewFromInt(1)) {
		tmb := d.TotalMonedaBase
		resp.TotalMonedaBase = &tmb
	}
	if d.DocumentoOrigenID != nil {
		origen := d.DocumentoOrigenID.String()
		resp.DocumentoOrigen = &origen
	}
	if d.PDFPath != nil && *d.PDFPath != "" {
		url := fmt.Sprintf("/v1/documentos/%s/pdf", d.ID)
		resp.PDFUrl = &url
	}

	resp.Lineas = make([]dto.LineaResponse, 0, len(d.Lineas))
	for _, l := range d.Lineas {
		item := dto.LineaResponse{
			ID:             l.ID.String(),
			ProductoID:     l.ProductoID.String(),
			Posicion:       l.Posicion,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			DescuentoPct:   l.DescuentoPct,
			DescuentoMonto: l.DescuentoMonto,
			Subtotal:       l.Subtotal,
			PrecioEfectivo: costeo.PrecioUnitarioEfectivo(l.Subtotal, l.Cantidad),
		}
		if l.Producto != nil {
			item.NombreProducto = l.Producto.Nombre
		}
		resp.Lineas = append(resp.Lineas, item)
	}
	return resp
}
