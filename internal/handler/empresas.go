package handler

import (
	"net/http"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/apierror"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/dto"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EmpresasHandler struct{ svc service.EmpresaService }

func NewEmpresasHandler(svc service.EmpresaService) *EmpresasHandler {
	return &EmpresasHandler{svc: svc}
}

func (h *EmpresasHandler) Crear(c *gin.Context) {
	var req dto.CrearEmpresaRequest
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

func (h *EmpresasHandler) Listar(c *gin.Context) {
	var filter dto.EmpresaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar empresas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EmpresasHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Empresa no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EmpresasHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarEmpresaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EmpresasHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Monedas ──────────────────────────────────────────────────────────────────

type MonedasHandler struct{ svc service.MonedaService }

func NewMonedasHandler(svc service.MonedaService) *MonedasHandler {
	return &MonedasHandler{svc: svc}
}

func (h *MonedasHandler) Crear(c *gin.Context) {
	var req dto.CrearMonedaRequest
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

func (h *MonedasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar monedas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
