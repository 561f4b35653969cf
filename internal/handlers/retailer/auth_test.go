package retailer

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vastralaya_back_end/internal/middleware"
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
	r.POST("/retailer/login", Login)
	r.POST("/retailer/logout", middleware.RetailerRequired(), Logout)
	r.GET("/retailer/verify", middleware.RetailerRequired(), VerifySession)
	r.POST("/retailer/change-password", middleware.RetailerRequired(), ChangePassword)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Session-Token", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, password string) *httptest.ResponseRecorder {
	t.Helper()
	return postJSON(t, r, "/retailer/login", gin.H{
		"email":    "retailer@vastralaya.in",
		"password": password,
	}, "")
}

func TestRetailerLoginFlow(t *testing.T) {
	t.Setenv("RETAILER_PASSWORD", "opening-day-pass")

	r := newRouter()
	InitPassword()

	// mauvais mot de passe
	w := login(t, r, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// mauvais email
	w = postJSON(t, r, "/retailer/login", gin.H{"email": "nope@example.com", "password": "opening-day-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// bon couple → session
	w = login(t, r, "opening-day-pass")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		SessionToken string `json:"sessionToken"`
		UserType     string `json:"userType"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionToken)
	assert.Equal(t, "retailer", resp.UserType)

	// la session passe le middleware
	req := httptest.NewRequest(http.MethodGet, "/retailer/verify", nil)
	req.Header.Set("X-Session-Token", resp.SessionToken)
	verify := httptest.NewRecorder()
	r.ServeHTTP(verify, req)
	assert.Equal(t, http.StatusOK, verify.Code)

	// logout révoque
	w = postJSON(t, r, "/retailer/logout", nil, resp.SessionToken)
	require.Equal(t, http.StatusOK, w.Code)

	verify = httptest.NewRecorder()
	r.ServeHTTP(verify, req)
	assert.Equal(t, http.StatusUnauthorized, verify.Code)
}

func TestRetailerRequiredWithoutToken(t *testing.T) {
	r := newRouter()

	req := httptest.NewRequest(http.MethodGet, "/retailer/verify", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePassword(t *testing.T) {
	t.Setenv("RETAILER_PASSWORD", "opening-day-pass")

	r := newRouter()
	InitPassword()

	w := login(t, r, "opening-day-pass")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		SessionToken string `json:"sessionToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// mot de passe actuel incorrect
	w = postJSON(t, r, "/retailer/change-password", gin.H{
		"currentPassword": "wrong",
		"newPassword":     "a-new-password",
	}, resp.SessionToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// nouveau trop court
	w = postJSON(t, r, "/retailer/change-password", gin.H{
		"currentPassword": "opening-day-pass",
		"newPassword":     "short",
	}, resp.SessionToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// changement valide
	w = postJSON(t, r, "/retailer/change-password", gin.H{
		"currentPassword": "opening-day-pass",
		"newPassword":     "a-new-password",
	}, resp.SessionToken)
	require.Equal(t, http.StatusOK, w.Code)

	// l'ancien ne marche plus, le nouveau si
	w = login(t, r, "opening-day-pass")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = login(t, r, "a-new-password")
	assert.Equal(t, http.StatusOK, w.Code)
}
