package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/app/analytics"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/app/catalog"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/app/directory"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/app/discount"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/app/ledger"
	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/infra/memory"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	h := &Handlers{
		Catalog:   catalog.NewService(store),
		Ledger:    ledger.NewService(store, store, store, store, nil, ledger.RetryConfig{MaxAttempts: 1}),
		Discounts: discount.NewResolver(store),
		Analytics: analytics.NewService(store, store, store),
		Directory: directory.NewService(store, store, store),
	}
	return NewRouter(h, RouterOptions{})
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createdID(t *testing.T, w *httptest.ResponseRecorder, field string) int64 {
	t.Helper()
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out[field]
}

func TestSaleFlow(t *testing.T) {
	r := newTestRouter(t)

	accountID := createdID(t, do(t, r, http.MethodPost, "/v1/accounts", gin.H{
		"email": "petr@example.com", "password": "pw", "name": "Petr", "gender": "male", "country": "belarus", "birthday": "1990-01-31",
	}), "id")
	itemID := createdID(t, do(t, r, http.MethodPost, "/v1/items", gin.H{
		"model": "iPhone 15", "brand": "apple", "price": "999.99", "currency": "usd", "quantity": 2,
	}), "id")

	sellID := createdID(t, do(t, r, http.MethodPost, "/v1/sales", gin.H{"account_id": accountID, "item_id": itemID, "quantity": 2}), "sell_id")

	w := do(t, r, http.MethodPost, "/v1/sales", gin.H{"account_id": accountID, "item_id": itemID, "quantity": 1})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock")

	w = do(t, r, http.MethodGet, fmt.Sprintf("/v1/accounts/%d/items", accountID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "iPhone 15")

	w = do(t, r, http.MethodGet, "/v1/analytics/top-spenders?n=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var top []struct {
		AccountID int64  `json:"account_id"`
		Total     string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &top))
	require.Len(t, top, 1)
	assert.Equal(t, accountID, top[0].AccountID)
	assert.Equal(t, "1999.98", top[0].Total)

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/v1/items/%d", itemID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, fmt.Sprintf("/v1/sales/%d/reverse", sellID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, http.MethodPost, fmt.Sprintf("/v1/sales/%d/reverse", sellID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/v1/items/%d", itemID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quantity":2`)
}

func TestDiscountEndpoint(t *testing.T) {
	r := newTestRouter(t)
	id := createdID(t, do(t, r, http.MethodPost, "/v1/accounts", gin.H{"email": "vip@example.com", "password": "pw", "name": "Vip"}), "id")

	w := do(t, r, http.MethodGet, fmt.Sprintf("/v1/accounts/%d/discount", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"discount":null`)

	w = do(t, r, http.MethodPut, fmt.Sprintf("/v1/accounts/%d/premium", id), gin.H{"discount": 20})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/v1/accounts/%d/discount", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"discount":20`)

	w = do(t, r, http.MethodPut, fmt.Sprintf("/v1/accounts/%d/premium", id), gin.H{"discount": 13})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthEndpoint_NeverLeaksPassword(t *testing.T) {
	r := newTestRouter(t)
	createdID(t, do(t, r, http.MethodPost, "/v1/accounts", gin.H{"email": "olga@example.com", "password": "hunter2", "name": "Olga"}), "id")

	w := do(t, r, http.MethodPost, "/v1/auth", gin.H{"email": "olga@example.com", "password": "hunter2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")

	w = do(t, r, http.MethodPost, "/v1/auth", gin.H{"email": "olga@example.com", "password": "hunter3"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListAndSearchItems(t *testing.T) {
	r := newTestRouter(t)
	for i, brand := range []string{"SONY", "SONY", "NOKIA"} {
		createdID(t, do(t, r, http.MethodPost, "/v1/items", gin.H{
			"model": fmt.Sprintf("m%d", i), "brand": brand, "price": 100 * (i + 1), "currency": "EUR", "quantity": i,
		}), "id")
	}

	w := do(t, r, http.MethodGet, "/v1/items?limit=2&offset=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page, 2)
	assert.Equal(t, int64(2), page[0].ID)

	w = do(t, r, http.MethodGet, "/v1/items/search?brand=sony&in_stock=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page, 1)
	assert.Equal(t, int64(2), page[0].ID)

	w = do(t, r, http.MethodGet, "/v1/items/search?brand=motorola", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodGet, "/v1/items?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodGet, "/v1/items/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodGet, "/v1/items/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("x: %w", domainErr.ErrTransient):            http.StatusServiceUnavailable,
		fmt.Errorf("x: %w", domainErr.ErrDuplicateEmail):       http.StatusConflict,
		fmt.Errorf("x: %w", domainErr.ErrReferentialIntegrity): http.StatusConflict,
		errors.New("pq: relation does not exist"):              http.StatusInternalServerError,
	}
	for err, want := range cases {
		got, msg := statusFor(err)
		assert.Equal(t, want, got, err.Error())
		assert.NotContains(t, msg, "pq:")
	}
}
