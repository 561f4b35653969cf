package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"vastralaya_back_end/internal/barcode"
	"vastralaya_back_end/internal/models"
	"vastralaya_back_end/internal/store"

	"github.com/gin-gonic/gin"
)

var errAlreadyMigrated = errors.New("commande déjà migrée")

// MigrateOrders rattrape les commandes d'avant l'introduction des
// codes-barres : régénère barcode + suivi quand l'un des deux manque, et
// comble paymentStatus / estimatedDelivery absents. Relancer après une
// migration complète ne modifie plus rien.
//
// Chaque backfill passe par store.Update : une commande modifiée entre le
// scan et l'écriture est relue, et sautée si elle a gagné ses codes
// entre-temps.
func MigrateOrders(c *gin.Context) {
	orders, err := scanOrders(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	migratedCount := 0
	for _, scanned := range orders {
		if scanned.Barcode != "" && scanned.TrackingNumber != "" {
			continue
		}

		err := store.Update(c.Request.Context(), scanned.ID, func(raw json.RawMessage) (any, error) {
			var o models.Order
			if err := json.Unmarshal(raw, &o); err != nil {
				return nil, err
			}
			if o.Barcode != "" && o.TrackingNumber != "" {
				return nil, errAlreadyMigrated
			}

			now := time.Now()
			o.Barcode = barcode.Generate(o.ID, now)
			o.TrackingNumber = barcode.GenerateTracking(now)

			// Approximation assumée : pas de réconciliation réelle possible
			// sur ces vieilles commandes
			if o.PaymentStatus == "" {
				if o.Status == models.OrderCancelled {
					o.PaymentStatus = models.PaymentFailed
				} else {
					o.PaymentStatus = models.PaymentPaid
				}
			}

			if o.EstimatedDelivery == nil {
				estimated := o.CreatedAt.AddDate(0, 0, 7)
				o.EstimatedDelivery = &estimated
			}
			return o, nil
		})
		if errors.Is(err, errAlreadyMigrated) || errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			log.Printf("❌ Erreur migration commande %s: %v", scanned.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur migration commandes"})
			return
		}
		migratedCount++
	}

	log.Printf("✅ Migration terminée : %d/%d commandes", migratedCount, len(orders))
	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("%d commandes migrées", migratedCount),
		"migratedCount": migratedCount,
		"totalOrders":   len(orders),
	})
}
