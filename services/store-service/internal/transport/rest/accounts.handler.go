// services/store-service/internal/transport/rest/accounts.handler.go
package rest

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/account"
	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/premium"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type accountRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Birthday    string `json:"birthday"`
	Country     string `json:"country"`
	Gender      string `json:"gender"`
	City        string `json:"city"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	Image       string `json:"image"`
}

func (r accountRequest) toAccount() (account.Account, error) {
	acc := account.Account{
		Email:       strings.TrimSpace(r.Email),
		Password:    r.Password,
		Name:        r.Name,
		Surname:     r.Surname,
		Country:     account.Country(strings.ToUpper(r.Country)),
		Gender:      account.Gender(strings.ToUpper(r.Gender)),
		City:        r.City,
		Address:     r.Address,
		PhoneNumber: r.PhoneNumber,
		Image:       r.Image,
	}
	if r.Birthday != "" {
		b, err := time.Parse(dateLayout, r.Birthday)
		if err != nil {
			return acc, fmt.Errorf("birthday %q: %w", r.Birthday, domainErr.ErrInvalidArgument)
		}
		acc.Birthday = b
	}
	return acc, nil
}

// POST /v1/accounts
func (h *Handlers) registerAccount(c *gin.Context) {
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	acc, err := req.toAccount()
	if err != nil {
		writeError(c, err)
		return
	}
	id, err := h.Directory.Register(c.Request.Context(), acc)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GET /v1/accounts/:id
func (h *Handlers) getAccount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	acc, err := h.Directory.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

// PUT /v1/accounts/:id  (empty password keeps the current one)
func (h *Handlers) updateAccount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	acc, err := req.toAccount()
	if err != nil {
		writeError(c, err)
		return
	}
	acc.ID = id
	if err := h.Directory.UpdateProfile(c.Request.Context(), acc); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /v1/accounts/:id
func (h *Handlers) deleteAccount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Directory.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /v1/accounts?gender=&country=
func (h *Handlers) filterAccounts(c *gin.Context) {
	var f account.Filter
	if raw := c.Query("gender"); raw != "" {
		g, err := account.ParseGender(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		f.Gender = g
	}
	if raw := c.Query("country"); raw != "" {
		country, err := account.ParseCountry(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		f.Country = country
	}
	accounts, err := h.Analytics.FilterAccounts(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// GET /v1/accounts/:id/discount  ({"discount": null} when not premium)
func (h *Handlers) getDiscount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	d, err := h.Discounts.GetDiscount(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	var percent *int
	if d != nil {
		p := d.Percent()
		percent = &p
	}
	c.JSON(http.StatusOK, gin.H{"account_id": id, "discount": percent})
}

type premiumRequest struct {
	Discount int `json:"discount" binding:"required"`
}

// PUT /v1/accounts/:id/premium
func (h *Handlers) grantPremium(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req premiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "discount is required"})
		return
	}
	d, err := premium.ParseDiscount(req.Discount)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.Directory.GrantPremium(c.Request.Context(), id, d); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /v1/accounts/:id/premium
func (h *Handlers) revokePremium(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Directory.RevokePremium(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type authRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /v1/auth
// Checks credentials only. No session or cookie is issued.
func (h *Handlers) authenticate(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}
	acc, err := h.Directory.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	if acc == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	c.JSON(http.StatusOK, acc)
}
