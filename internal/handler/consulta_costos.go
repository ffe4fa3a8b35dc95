package handler

import (
	"net/http"

	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/apierror"
	"github.com/Rafael-Arenas/App-AKGroup-sub003/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ConsultaCostosHandler serves the unit-cost rollup endpoint. Read-only:
// the whole computation runs over an in-memory snapshot of the catalog.
type ConsultaCostosHandler struct {
	svc service.ProductoService
}

func NewConsultaCostosHandler(svc service.ProductoService) *ConsultaCostosHandler {
	return &ConsultaCostosHandler{svc: svc}
}

// GetCosto godoc
// @Summary Costo unitario efectivo (declarado o calculado desde la BOM)
// @Tags costos
// @Produce json
// @Param id path string true "ID del producto"
// @Success 200 {object} dto.CostoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError "ciclo o estructura invalida"
// @Router /v1/costos/{id} [get]
func (h *ConsultaCostosHandler) GetCosto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.CostoUnitario(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
