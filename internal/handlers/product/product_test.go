package product

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vastralaya_back_end/internal/config"
	"vastralaya_back_end/internal/models"
	"vastralaya_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	store.Client = store.NewMemoryKV()

	r := gin.New()
	r.POST("/products", CreateProduct)
	r.GET("/products", GetAllProducts)
	r.GET("/products/search", SearchProducts)
	r.PUT("/products/:id", UpdateProduct)
	r.DELETE("/products/:id", DeleteProduct)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
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

func createProduct(t *testing.T, r *gin.Engine, name string, price float64) models.Product {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/products", gin.H{
		"name":     name,
		"price":    price,
		"category": "sarees",
		"stock":    10,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Product models.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Product
}

func TestCreateProduct(t *testing.T) {
	r := newRouter()
	p := createProduct(t, r, "Banarasi Saree", 4500)

	assert.True(t, strings.HasPrefix(p.ID, "product:"))
	assert.Equal(t, config.RetailerID, p.RetailerID)
	assert.Equal(t, 4500.0, p.Price)

	var stored models.Product
	require.NoError(t, store.Get(t.Context(), p.ID, &stored))
	assert.Equal(t, "Banarasi Saree", stored.Name)
}

func TestCreateProductRejectsBadInput(t *testing.T) {
	r := newRouter()

	w := doJSON(t, r, http.MethodPost, "/products", gin.H{"name": "", "price": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/products", gin.H{"name": "Saree", "price": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAllProducts(t *testing.T) {
	r := newRouter()
	createProduct(t, r, "Saree", 1000)
	createProduct(t, r, "Kurta", 700)

	w := doJSON(t, r, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Products, 2)
}

func TestUpdateProductPartial(t *testing.T) {
	r := newRouter()
	p := createProduct(t, r, "Saree", 1000)

	w := doJSON(t, r, http.MethodPut, "/products/"+p.ID, gin.H{"price": 1200})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Product models.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1200.0, resp.Product.Price)
	assert.Equal(t, "Saree", resp.Product.Name) // champ absent inchangé
	assert.NotNil(t, resp.Product.UpdatedAt)
}

func TestUpdateProductNotFound(t *testing.T) {
	r := newRouter()
	w := doJSON(t, r, http.MethodPut, "/products/product:missing", gin.H{"price": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProduct(t *testing.T) {
	r := newRouter()
	p := createProduct(t, r, "Saree", 1000)

	w := doJSON(t, r, http.MethodDelete, "/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var gone models.Product
	assert.ErrorIs(t, store.Get(t.Context(), p.ID, &gone), store.ErrNotFound)

	w = doJSON(t, r, http.MethodDelete, "/products/"+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchFallsBackToKVScan(t *testing.T) {
	// Elastic absent en test → le fallback scan KV doit répondre
	r := newRouter()
	createProduct(t, r, "Banarasi Saree", 4500)
	createProduct(t, r, "Cotton Kurta", 700)

	w := doJSON(t, r, http.MethodGet, "/products/search?q=saree", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Banarasi Saree", resp.Products[0].Name)

	w = doJSON(t, r, http.MethodGet, "/products/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
