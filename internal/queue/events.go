package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"vastralaya_back_end/internal/database"
)

// OrderEventsChannel est le canal pub/sub Redis écouté par le flux
// temps réel du dashboard revendeur
const OrderEventsChannel = "orders:events"

// Types d'événements émis par les handlers commandes/paiements
const (
	EventOrderCreated       = "order_created"
	EventStatusChanged      = "status_changed"
	EventDeliveryConfirmed  = "delivery_confirmed"
	EventBarcodeRegenerated = "barcode_regenerated"
	EventPaymentVerified    = "payment_verified"
)

type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	Status     string    `json:"status,omitempty"`
	CustomerID string    `json:"customerId,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
	At         time.Time `json:"at"`
}

// PublishOrderEvent pousse l'événement vers Redis (live feed) et Kafka
// (analytique) si configuré. Best effort : un échec de publication ne doit
// jamais faire échouer l'opération métier.
func PublishOrderEvent(ctx context.Context, evt OrderEvent) {
	if evt.At.IsZero() {
		evt.At = time.Now()
	}

	if database.Redis != nil {
		if data, err := json.Marshal(evt); err == nil {
			if err := database.Redis.Publish(ctx, OrderEventsChannel, data).Err(); err != nil {
				log.Printf("⚠️ Erreur publication Redis (%s): %v", evt.Type, err)
			}
		}
	}

	publishKafka(ctx, evt)
}
