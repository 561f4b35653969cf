package payment

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

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
	r.POST("/create-payment", func(c *gin.Context) {
		c.Set("user_id", "user:alice")
		c.Next()
	}, CreatePayment)
	r.POST("/verify-payment", VerifyPayment)
	return r
}

func seedOrderAndPayment(t *testing.T) (models.Order, models.Payment) {
	t.Helper()

	order := models.Order{
		ID:            "order:1700000000000_abc123def",
		CustomerID:    "user:alice",
		TotalAmount:   3000,
		Status:        models.OrderPending,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, store.Set(t.Context(), order.ID, order))

	payment := models.Payment{
		TransactionID: "TXN1700000000123",
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		Amount:        order.TotalAmount,
		Status:        models.TxnPending,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, store.Set(t.Context(), "payment:"+payment.TransactionID, payment))
	return order, payment
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreatePayment(t *testing.T) {
	r := newRouter()

	w := postJSON(t, r, "/create-payment", gin.H{"amount": 3000, "orderId": "order:1700000000000_abc123def"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		TransactionID string `json:"transactionId"`
		UPILink       string `json:"upiLink"`
		QRData        string `json:"qrData"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, strings.HasPrefix(resp.TransactionID, "TXN"))
	assert.Contains(t, resp.UPILink, "upi://pay?pa=vastralaya@phonepe")
	assert.Contains(t, resp.UPILink, "am=3000")
	assert.Contains(t, resp.UPILink, "cu=INR")
	assert.Contains(t, resp.UPILink, "tr="+resp.TransactionID)
	assert.True(t, strings.HasPrefix(resp.QRData, "data:image/png;base64,"))

	// le paiement pending est persisté
	var stored models.Payment
	require.NoError(t, store.Get(t.Context(), "payment:"+resp.TransactionID, &stored))
	assert.Equal(t, models.TxnPending, stored.Status)
	assert.Equal(t, "user:alice", stored.CustomerID)
}

func TestBuildUPILinkAmountStaysDecimal(t *testing.T) {
	// un gros montant ne doit pas basculer en notation exponentielle
	link := buildUPILink(1000000, "order:1700000000000_abc123def", "TXN1700000000123")
	assert.Contains(t, link, "am=1000000")
	assert.NotContains(t, link, "e+")

	link = buildUPILink(1450.5, "order:1700000000000_abc123def", "TXN1700000000123")
	assert.Contains(t, link, "am=1450.5")
}

func TestCreatePaymentRejectsBadInput(t *testing.T) {
	r := newRouter()

	w := postJSON(t, r, "/create-payment", gin.H{"amount": 0, "orderId": "order:x"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/create-payment", gin.H{"amount": 500, "orderId": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyPaymentSuccess(t *testing.T) {
	r := newRouter()
	order, payment := seedOrderAndPayment(t)

	w := postJSON(t, r, "/verify-payment", gin.H{
		"transactionId": payment.TransactionID,
		"status":        "success",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Order
	require.NoError(t, store.Get(t.Context(), order.ID, &updated))
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, models.OrderConfirmed, updated.Status)

	var closed models.Payment
	require.NoError(t, store.Get(t.Context(), "payment:"+payment.TransactionID, &closed))
	assert.Equal(t, models.TxnSuccess, closed.Status)
	assert.NotNil(t, closed.VerifiedAt)
}

func TestVerifyPaymentFailure(t *testing.T) {
	r := newRouter()
	order, payment := seedOrderAndPayment(t)

	w := postJSON(t, r, "/verify-payment", gin.H{
		"transactionId": payment.TransactionID,
		"status":        "failed",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Order
	require.NoError(t, store.Get(t.Context(), order.ID, &updated))
	assert.Equal(t, models.PaymentFailed, updated.PaymentStatus)
	assert.Equal(t, models.OrderCancelled, updated.Status)
}

func TestVerifyPaymentOnlyOnce(t *testing.T) {
	r := newRouter()
	order, payment := seedOrderAndPayment(t)

	w := postJSON(t, r, "/verify-payment", gin.H{
		"transactionId": payment.TransactionID,
		"status":        "success",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// revenir sur un paiement clos est refusé, la commande ne bouge plus
	w = postJSON(t, r, "/verify-payment", gin.H{
		"transactionId": payment.TransactionID,
		"status":        "failed",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var stored models.Order
	require.NoError(t, store.Get(t.Context(), order.ID, &stored))
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)
	assert.Equal(t, models.OrderConfirmed, stored.Status)

	var closed models.Payment
	require.NoError(t, store.Get(t.Context(), "payment:"+payment.TransactionID, &closed))
	assert.Equal(t, models.TxnSuccess, closed.Status)
}

func TestVerifyPaymentUnknownStatus(t *testing.T) {
	r := newRouter()
	_, payment := seedOrderAndPayment(t)

	w := postJSON(t, r, "/verify-payment", gin.H{
		"transactionId": payment.TransactionID,
		"status":        "maybe",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyPaymentUnknownTransaction(t *testing.T) {
	r := newRouter()

	w := postJSON(t, r, "/verify-payment", gin.H{
		"transactionId": "TXN0000000000000",
		"status":        "success",
	}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVerifyPaymentOrphanPayment(t *testing.T) {
	r := newRouter()

	orphan := models.Payment{
		TransactionID: "TXN1700000000999",
		OrderID:       "order:gone",
		Amount:        500,
		Status:        models.TxnPending,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, store.Set(t.Context(), "payment:"+orphan.TransactionID, orphan))

	// la commande n'existe pas : le paiement est quand même clos
	w := postJSON(t, r, "/verify-payment", gin.H{
		"transactionId": orphan.TransactionID,
		"status":        "success",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var closed models.Payment
	require.NoError(t, store.Get(t.Context(), "payment:"+orphan.TransactionID, &closed))
	assert.Equal(t, models.TxnSuccess, closed.Status)
}

func TestVerifyPaymentSignature(t *testing.T) {
	t.Setenv("UPI_WEBHOOK_SECRET", "test-secret")

	r := newRouter()
	_, payment := seedOrderAndPayment(t)

	body := gin.H{"transactionId": payment.TransactionID, "status": "success"}

	// sans signature → refusé
	w := postJSON(t, r, "/verify-payment", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// mauvaise signature → refusé
	w = postJSON(t, r, "/verify-payment", body, map[string]string{
		"X-Payment-Signature": "deadbeef",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// bonne signature → accepté
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	mac := hmac.New(sha256.New, []byte("test-secret"))
	mac.Write(payload)

	w = postJSON(t, r, "/verify-payment", body, map[string]string{
		"X-Payment-Signature": hex.EncodeToString(mac.Sum(nil)),
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
