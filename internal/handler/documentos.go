package handler

import (
	"net/http"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/apierror"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/dto"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentosHandler exposes the shared lifecycle of cotizaciones, pedidos y
// facturas under a single resource; the tipo travels in the body / filters.
type DocumentosHandler struct{ svc service.DocumentoService }

func NewDocumentosHandler(svc service.DocumentoService) *DocumentosHandler {
	return &DocumentosHandler{svc: svc}
}

// Crear godoc
// @Summary Crea un documento en borrador (cotizacion, pedido o factura)
// @Tags documentos
// @Accept json
// @Produce json
// @Param documento body dto.CrearDocumentoRequest true "Documento"
// @Success 201 {object} dto.DocumentoResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/documentos [post]
func (h *DocumentosHandler) Crear(c *gin.Context) {
	var req dto.CrearDocumentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DocumentosHandler) Listar(c *gin.Context) {
	var filter dto.DocumentoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar documentos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DocumentosHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Documento no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Lines ────────────────────────────────────────────────────────────────────

func (h *DocumentosHandler) AgregarLinea(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AgregarLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarLinea(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DocumentosHandler) ActualizarLinea(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	lineaID, err := uuid.Parse(c.Param("lineaId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de linea invalido"))
		return
	}
	var req dto.ActualizarLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarLinea(c.Request.Context(), id, lineaID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DocumentosHandler) EliminarLinea(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	lineaID, err := uuid.Parse(c.Param("lineaId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de linea invalido"))
		return
	}
	resp, err := h.svc.EliminarLinea(c.Request.Context(), id, lineaID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Lifecycle ────────────────────────────────────────────────────────────────

// Emitir godoc
// @Summary Emite un borrador: congela lineas, asigna totales definitivos
// @Tags documentos
// @Produce json
// @Param id path string true "ID del documento"
// @Success 200 {object} dto.DocumentoResponse
// @Failure 422 {object} apierror.APIError "documento sin lineas o linea invalida"
// @Router /v1/documentos/{id}/emitir [post]
func (h *DocumentosHandler) Emitir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Emitir(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DocumentosHandler) CambiarEstado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DocumentosHandler) Convertir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Convertir(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DocumentosHandler) Enviar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.EnviarDocumentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Enviar(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"detail": "envio encolado"})
}

func (h *DocumentosHandler) DescargarPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	path, err := h.svc.PDFPath(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.FileAttachment(path, "documento.pdf")
}
