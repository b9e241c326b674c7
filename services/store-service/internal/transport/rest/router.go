// services/store-service/internal/transport/rest/router.go
package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/app/analytics"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/app/catalog"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/app/directory"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/app/discount"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/app/ledger"
	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("rest")

// Handlers holds the application services the routes call.
type Handlers struct {
	Catalog   *catalog.Service
	Ledger    *ledger.Service
	Discounts *discount.Resolver
	Analytics *analytics.Service
	Directory *directory.Service
}

type RouterOptions struct {
	AllowOrigins []string
}

// NewRouter builds the JSON API under /v1 plus /healthz.
func NewRouter(h *Handlers, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog())

	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")

	items := v1.Group("/items")
	items.GET("", h.listItems)
	items.GET("/search", h.searchItems)
	items.GET("/:id", h.getItem)
	items.POST("", h.addItem)
	items.PUT("/:id", h.updateItem)
	items.DELETE("/:id", h.deleteItem)

	sales := v1.Group("/sales")
	sales.POST("", h.recordSale)
	sales.POST("/:id/reverse", h.reverseSale)

	accounts := v1.Group("/accounts")
	accounts.GET("", h.filterAccounts)
	accounts.POST("", h.registerAccount)
	accounts.GET("/:id", h.getAccount)
	accounts.PUT("/:id", h.updateAccount)
	accounts.DELETE("/:id", h.deleteAccount)
	accounts.GET("/:id/discount", h.getDiscount)
	accounts.GET("/:id/items", h.boughtItems)
	accounts.GET("/:id/purchases", h.purchaseHistory)
	accounts.PUT("/:id/premium", h.grantPremium)
	accounts.DELETE("/:id/premium", h.revokePremium)

	v1.GET("/analytics/top-spenders", h.topSpenders)
	v1.POST("/auth", h.authenticate)

	return r
}

const requestIDHeader = "X-Request-ID"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debugw("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"took", time.Since(start),
			"request_id", c.GetString("request_id"),
		)
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query %s=%q is not a number: %w", key, raw, domainErr.ErrInvalidArgument)
	}
	return v, nil
}
