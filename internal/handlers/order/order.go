package order

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sort"
	"time"

	"vastralaya_back_end/internal/barcode"
	"vastralaya_back_end/internal/config"
	"vastralaya_back_end/internal/middleware"
	"vastralaya_back_end/internal/models"
	"vastralaya_back_end/internal/queue"
	"vastralaya_back_end/internal/store"
	"vastralaya_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

var errForbidden = errors.New("commande d'un autre client")

// PlaceOrder crée une commande pour le client connecté.
// Volontairement non idempotent : deux envois identiques font deux commandes.
func PlaceOrder(c *gin.Context) {
	var input struct {
		Items           []models.OrderItem `json:"items"`
		TotalAmount     float64            `json:"totalAmount"`
		ShippingAddress models.Address     `json:"shippingAddress"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(input.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}
	if !input.ShippingAddress.Complete() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse de livraison incomplète"})
		return
	}

	// Le front envoie le total ; on le recalcule s'il manque
	total := input.TotalAmount
	if total == 0 {
		total = ComputeTotal(input.Items, config.ShippingFee())
	}

	now := time.Now()
	orderID := utils.NewOrderID(now)
	estimated := barcode.EstimatedDelivery(now)

	order := models.Order{
		ID:                orderID,
		CustomerID:        c.GetString("user_id"),
		CustomerName:      c.GetString("name"),
		CustomerEmail:     c.GetString("email"),
		CustomerPhone:     c.GetString("phone"),
		Items:             input.Items,
		TotalAmount:       total,
		ShippingAddress:   input.ShippingAddress,
		Status:            models.OrderPending,
		PaymentStatus:     models.PaymentPending,
		Barcode:           barcode.Generate(orderID, now),
		TrackingNumber:    barcode.GenerateTracking(now),
		EstimatedDelivery: &estimated,
		DeliveryConfirmed: false,
		CreatedAt:         now,
	}
	if order.CustomerName == "" {
		order.CustomerName = "Customer"
	}

	if err := store.Set(c.Request.Context(), orderID, order); err != nil {
		log.Println("❌ Erreur enregistrement commande:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement commande"})
		return
	}

	queue.PublishOrderEvent(c.Request.Context(), queue.OrderEvent{
		Type:       queue.EventOrderCreated,
		OrderID:    orderID,
		Status:     order.Status,
		CustomerID: order.CustomerID,
		Amount:     order.TotalAmount,
	})

	log.Printf("✅ Commande %s créée (%.2f) pour %s", orderID, total, order.CustomerEmail)
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// ComputeTotal additionne les lignes et ajoute les frais de livraison fixes
func ComputeTotal(items []models.OrderItem, shippingFee float64) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total + shippingFee
}

// GetOrders liste les commandes : toutes pour le revendeur (session),
// les siennes pour un client (bearer token)
func GetOrders(c *gin.Context) {
	if _, ok := middleware.RetailerSession(c); ok {
		orders, err := scanOrders(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
		return
	}

	cust, err := middleware.CustomerFromRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token invalide"})
		return
	}

	all, err := scanOrders(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	orders := make([]models.Order, 0)
	for _, o := range all {
		if o.CustomerID == cust.ID {
			orders = append(orders, o)
		}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// scanOrders scanne le préfixe order: et trie par date décroissante
// (le KV ne garantit aucun ordre)
func scanOrders(c *gin.Context) ([]models.Order, error) {
	raws, err := store.GetByPrefix(c.Request.Context(), "order:")
	if err != nil {
		log.Println("❌ Erreur scan commandes:", err)
		return nil, err
	}

	orders := make([]models.Order, 0, len(raws))
	for _, raw := range raws {
		var o models.Order
		if err := json.Unmarshal(raw, &o); err != nil {
			log.Println("⚠️ Commande illisible ignorée:", err)
			continue
		}
		orders = append(orders, o)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// UpdateStatus pose le nouveau statut (revendeur). Le graphe de transition
// est permissif : tout statut connu peut suivre tout autre, y compris en
// arrière — seule l'appartenance à l'énumération est contrôlée.
func UpdateStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.KnownOrderStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu: " + input.Status})
		return
	}

	orderID := c.Param("id")
	var updated models.Order

	err := store.Update(c.Request.Context(), orderID, func(raw json.RawMessage) (any, error) {
		var o models.Order
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, err
		}
		now := time.Now()
		o.Status = input.Status
		o.UpdatedAt = &now
		updated = o
		return o, nil
	})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		log.Println("❌ Erreur mise à jour statut:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		return
	}

	queue.PublishOrderEvent(c.Request.Context(), queue.OrderEvent{
		Type:    queue.EventStatusChanged,
		OrderID: orderID,
		Status:  updated.Status,
	})

	c.JSON(http.StatusOK, gin.H{"order": updated})
}

// ConfirmDelivery : seul le client propriétaire confirme. confirmed=true
// force le statut à delivered quel que soit le statut courant.
func ConfirmDelivery(c *gin.Context) {
	var input struct {
		Confirmed bool `json:"confirmed"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	orderID := c.Param("id")
	var updated models.Order

	err := store.Update(c.Request.Context(), orderID, func(raw json.RawMessage) (any, error) {
		var o models.Order
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, err
		}
		if o.CustomerID != userID {
			return nil, errForbidden
		}

		now := time.Now()
		o.DeliveryConfirmed = input.Confirmed
		if input.Confirmed {
			o.DeliveryConfirmedAt = &now
			o.Status = models.OrderDelivered
		}
		o.UpdatedAt = &now
		updated = o
		return o, nil
	})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if errors.Is(err, errForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cette commande ne vous appartient pas"})
		return
	}
	if err != nil {
		log.Println("❌ Erreur confirmation livraison:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur confirmation livraison"})
		return
	}

	if input.Confirmed {
		queue.PublishOrderEvent(c.Request.Context(), queue.OrderEvent{
			Type:    queue.EventDeliveryConfirmed,
			OrderID: orderID,
			Status:  updated.Status,
		})
	}

	c.JSON(http.StatusOK, gin.H{"order": updated})
}

// RegenerateBarcode régénère code-barres et numéro de suivi avec le
// timestamp courant (revendeur). L'ancien code devient définitivement
// invalide, aucun historique n'est conservé.
func RegenerateBarcode(c *gin.Context) {
	orderID := c.Param("id")
	var updated models.Order

	err := store.Update(c.Request.Context(), orderID, func(raw json.RawMessage) (any, error) {
		var o models.Order
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, err
		}

		now := time.Now()
		o.Barcode = barcode.Generate(orderID, now)
		o.TrackingNumber = barcode.GenerateTracking(now)
		o.BarcodeRegeneratedAt = &now
		o.UpdatedAt = &now
		updated = o
		return o, nil
	})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		log.Println("❌ Erreur régénération code-barres:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur régénération code-barres"})
		return
	}

	queue.PublishOrderEvent(c.Request.Context(), queue.OrderEvent{
		Type:    queue.EventBarcodeRegenerated,
		OrderID: orderID,
	})

	c.JSON(http.StatusOK, gin.H{
		"order":   updated,
		"message": "Code-barres régénéré",
	})
}
