package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"vastralaya_back_end/internal/config"
	"vastralaya_back_end/internal/models"
	"vastralaya_back_end/internal/queue"
	"vastralaya_back_end/internal/store"
	"vastralaya_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

var errAlreadyVerified = errors.New("paiement déjà vérifié")

// CreatePayment génère le deep link UPI et le QR associé, puis enregistre
// un paiement en attente. Le rapprochement est auto-déclaré : il n'y a pas
// de passerelle de paiement derrière.
func CreatePayment(c *gin.Context) {
	var input struct {
		Amount  float64 `json:"amount"`
		OrderID string  `json:"orderId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Amount <= 0 || input.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Montant ou commande manquant"})
		return
	}

	now := time.Now()
	transactionID := utils.NewTransactionID(now)
	upiLink := buildUPILink(input.Amount, input.OrderID, transactionID)

	payment := models.Payment{
		TransactionID: transactionID,
		OrderID:       input.OrderID,
		CustomerID:    c.GetString("user_id"),
		Amount:        input.Amount,
		Status:        models.TxnPending,
		CreatedAt:     now,
	}

	if err := store.Set(c.Request.Context(), "payment:"+transactionID, payment); err != nil {
		log.Println("❌ Erreur enregistrement paiement:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création paiement"})
		return
	}

	// QR rendu côté serveur ; le front peut aussi régénérer depuis upiLink
	qrData, err := utils.GenerateUPIQR(upiLink)
	if err != nil {
		log.Println("⚠️ Erreur génération QR:", err)
		qrData = ""
	}

	log.Printf("💳 Paiement %s créé (₹%.2f) pour %s", transactionID, input.Amount, input.OrderID)
	c.JSON(http.StatusOK, gin.H{
		"transactionId": transactionID,
		"upiLink":       upiLink,
		"qrData":        qrData,
	})
}

// buildUPILink construit le deep link upi://pay (format PhonePe).
// Le montant doit rester en chiffres décimaux : les apps UPI ne lisent
// pas la notation exponentielle.
func buildUPILink(amount float64, orderID, transactionID string) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=INR&tn=%s&tr=%s",
		config.MerchantVPA(),
		url.QueryEscape(config.MerchantName()),
		strconv.FormatFloat(amount, 'f', -1, 64),
		url.QueryEscape("Order "+orderID),
		transactionID,
	)
}

// VerifyPayment clôt un paiement et propage le résultat sur la commande :
// success → paid/confirmed, failed → failed/cancelled.
//
// Sans UPI_WEBHOOK_SECRET, le statut est cru sur parole (mode auto-déclaré
// du front). Avec, le body doit porter une signature HMAC-SHA256 dans
// X-Payment-Signature — même bascule que pour un webhook de passerelle.
func VerifyPayment(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	if secret := os.Getenv("UPI_WEBHOOK_SECRET"); secret != "" {
		if !validSignature(payload, c.GetHeader("X-Payment-Signature"), secret) {
			log.Println("❌ Signature paiement invalide")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Signature invalide"})
			return
		}
	} else {
		log.Println("⚠️ Pas de UPI_WEBHOOK_SECRET — statut auto-déclaré accepté")
	}

	var input struct {
		TransactionID string `json:"transactionId"`
		Status        string `json:"status"`
	}
	if err := json.Unmarshal(payload, &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
		return
	}
	if input.Status != models.TxnSuccess && input.Status != models.TxnFailed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu: " + input.Status})
		return
	}

	// 1. Clore le paiement (muté une seule fois)
	var payment models.Payment
	err = store.Update(c.Request.Context(), "payment:"+input.TransactionID, func(raw json.RawMessage) (any, error) {
		var p models.Payment
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		if p.VerifiedAt != nil {
			return nil, errAlreadyVerified
		}
		now := time.Now()
		p.Status = input.Status
		p.VerifiedAt = &now
		payment = p
		return p, nil
	})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paiement introuvable"})
		return
	}
	if errors.Is(err, errAlreadyVerified) {
		c.JSON(http.StatusConflict, gin.H{"error": "Paiement déjà vérifié"})
		return
	}
	if err != nil {
		log.Println("❌ Erreur vérification paiement:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification paiement"})
		return
	}

	// 2. Propager sur la commande
	var order models.Order
	orderFound := true
	err = store.Update(c.Request.Context(), payment.OrderID, func(raw json.RawMessage) (any, error) {
		var o models.Order
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, err
		}
		now := time.Now()
		if input.Status == models.TxnSuccess {
			o.PaymentStatus = models.PaymentPaid
			o.Status = models.OrderConfirmed
		} else {
			o.PaymentStatus = models.PaymentFailed
			o.Status = models.OrderCancelled
		}
		o.UpdatedAt = &now
		order = o
		return o, nil
	})
	if errors.Is(err, store.ErrNotFound) {
		// paiement orphelin : on répond quand même avec le paiement clos
		orderFound = false
	} else if err != nil {
		log.Println("❌ Erreur mise à jour commande:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour commande"})
		return
	}

	if orderFound {
		queue.PublishOrderEvent(c.Request.Context(), queue.OrderEvent{
			Type:    queue.EventPaymentVerified,
			OrderID: order.ID,
			Status:  order.Status,
			Amount:  payment.Amount,
		})

		if input.Status == models.TxnSuccess {
			go sendConfirmation(order)
		}

		c.JSON(http.StatusOK, gin.H{"payment": payment, "order": order})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

func validSignature(payload []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// sendConfirmation envoie l'e-mail de confirmation, avec reçu PDF quand la
// page front est configurée. Best effort, en goroutine.
func sendConfirmation(order models.Order) {
	if order.CustomerEmail == "" {
		return
	}

	html := utils.GenerateOrderConfirmationHTML(order)

	var pdf []byte
	if frontURL := utils.GetFrontendReceiptBaseURL(); frontURL != "" {
		var err error
		pdf, err = utils.RenderReceiptPDF(frontURL, order.ID)
		if err != nil {
			log.Println("❌ Erreur génération PDF reçu:", err)
			pdf = nil
		}
	}

	if err := utils.SendConfirmationEmail(order.CustomerEmail, "Your Vastralaya order is confirmed", html, pdf); err != nil {
		log.Println("❌ Erreur envoi e-mail confirmation:", err)
	} else {
		log.Println("📧 E-mail de confirmation envoyé à", order.CustomerEmail)
	}
}
