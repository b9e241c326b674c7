// services/store-service/internal/transport/rest/sales.handler.go
package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type saleRequest struct {
	AccountID int64 `json:"account_id" binding:"required"`
	ItemID    int64 `json:"item_id" binding:"required"`
	Quantity  int   `json:"quantity"`
}

// POST /v1/sales
func (h *Handlers) recordSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id and item_id are required"})
		return
	}
	id, err := h.Ledger.RecordSale(c.Request.Context(), req.AccountID, req.ItemID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sell_id": id})
}

// POST /v1/sales/:id/reverse
func (h *Handlers) reverseSale(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Ledger.ReverseSale(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
