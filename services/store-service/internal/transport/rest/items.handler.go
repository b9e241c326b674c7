// services/store-service/internal/transport/rest/items.handler.go
package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/item"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const defaultPageSize = 20

type itemRequest struct {
	Model      string          `json:"model"`
	Brand      string          `json:"brand"`
	Attributes string          `json:"attributes"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
	Quantity   int             `json:"quantity"`
}

func (r itemRequest) toItem() item.Item {
	return item.Item{
		Model:      r.Model,
		Brand:      item.Brand(strings.ToUpper(r.Brand)),
		Attributes: r.Attributes,
		Price:      r.Price,
		Currency:   item.Currency(strings.ToUpper(r.Currency)),
		Quantity:   r.Quantity,
	}
}

// GET /v1/items?limit=&offset=  (no paging params: whole catalog)
func (h *Handlers) listItems(c *gin.Context) {
	if c.Query("limit") == "" && c.Query("offset") == "" {
		items, err := h.Catalog.ListAll(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
		return
	}

	limit, err := queryInt(c, "limit", defaultPageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		writeError(c, err)
		return
	}
	items, err := h.Catalog.ListItems(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /v1/items/search?brand=APPLE,SONY&model=&attr=&min_price=&max_price=&currency=&in_stock=true
func (h *Handlers) searchItems(c *gin.Context) {
	filter, err := parseItemFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var items []item.Item
	if len(filter.Brands) == 1 && isBrandOnly(c) {
		items, err = h.Catalog.FindByBrand(c.Request.Context(), filter.Brands[0])
	} else {
		items, err = h.Catalog.FindByAttributes(c.Request.Context(), filter)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func isBrandOnly(c *gin.Context) bool {
	q := c.Request.URL.Query()
	return len(q) == 1 && q.Has("brand")
}

func parseItemFilter(c *gin.Context) (item.Filter, error) {
	var f item.Filter

	if raw := c.Query("brand"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			b, err := item.ParseBrand(part)
			if err != nil {
				return f, err
			}
			f.Brands = append(f.Brands, b)
		}
	}
	f.Model = c.Query("model")
	f.AttributesLike = c.Query("attr")

	if raw := c.Query("currency"); raw != "" {
		cur, err := item.ParseCurrency(raw)
		if err != nil {
			return f, err
		}
		f.Currency = cur
	}

	var err error
	if f.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return f, err
	}

	if raw := c.Query("in_stock"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("in_stock=%q: %w", raw, domainErr.ErrInvalidArgument)
		}
		f.InStockOnly = v
	}
	return f, nil
}

func queryDecimal(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s=%q: %w", key, raw, domainErr.ErrInvalidArgument)
	}
	return &d, nil
}

// GET /v1/items/:id
func (h *Handlers) getItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	it, err := h.Catalog.GetItem(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// POST /v1/items
func (h *Handlers) addItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	id, err := h.Catalog.AddItem(c.Request.Context(), req.toItem())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// PUT /v1/items/:id  (quantity in the body is ignored)
func (h *Handlers) updateItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	it := req.toItem()
	it.ID = id
	if err := h.Catalog.UpdateItemDetails(c.Request.Context(), it); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /v1/items/:id
func (h *Handlers) deleteItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteItem(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
