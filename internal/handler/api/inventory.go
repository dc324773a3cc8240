package api

import (
	"net/http"

	resdto "cruise-booking/internal/handler/dto/response"
	"cruise-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryQueries queries.InventoryQueries
}

func NewInventoryHandler(inventoryQueries queries.InventoryQueries) *InventoryHandler {
	return &InventoryHandler{inventoryQueries: inventoryQueries}
}

// @Summary Voyage inventory
// @Description Availability per cabin type for a voyage
// @Tags inventory
// @Produce json
// @Param voyageId path string true "Voyage ID"
// @Success 200 {object} resdto.VoyageInventoryResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /voyages/{voyageId}/inventory [get]
func (h *InventoryHandler) GetVoyageInventory(c *gin.Context) {
	voyageID, ok := pathUUID(c, "voyageId")
	if !ok {
		return
	}

	view, err := h.inventoryQueries.GetByVoyage(c.Request.Context(), voyageID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromVoyageInventoryView(view))
}
