// services/store-service/internal/transport/rest/analytics.handler.go
package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /v1/analytics/top-spenders?n=10
func (h *Handlers) topSpenders(c *gin.Context) {
	n, err := queryInt(c, "n", 10)
	if err != nil {
		writeError(c, err)
		return
	}
	top, err := h.Analytics.TopSpenders(c.Request.Context(), n)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, top)
}

// GET /v1/accounts/:id/items
func (h *Handlers) boughtItems(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	items, err := h.Analytics.BoughtItems(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /v1/accounts/:id/purchases
func (h *Handlers) purchaseHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	history, err := h.Analytics.PurchaseHistory(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
