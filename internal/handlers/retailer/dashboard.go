package retailer

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"vastralaya_back_end/internal/models"
	"vastralaya_back_end/internal/store"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats agrège les chiffres du back-office : commandes,
// chiffre d'affaires, catalogue, paiements. Tout vient de scans KV — le
// volume d'un revendeur unique reste raisonnable.
func GetDashboardStats(c *gin.Context) {
	ctx := c.Request.Context()

	rawOrders, err := store.GetByPrefix(ctx, "order:")
	if err != nil {
		log.Println("❌ Erreur scan commandes dashboard:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération statistiques"})
		return
	}

	var (
		totalOrders   int
		totalRevenue  float64
		ordersByState = map[string]int{}
		last30Days    int
		cutoff        = time.Now().AddDate(0, 0, -30)
	)
	for _, raw := range rawOrders {
		var o models.Order
		if err := json.Unmarshal(raw, &o); err != nil {
			continue
		}
		totalOrders++
		ordersByState[o.Status]++
		if o.PaymentStatus == models.PaymentPaid {
			totalRevenue += o.TotalAmount
		}
		if o.CreatedAt.After(cutoff) {
			last30Days++
		}
	}

	avgOrderValue := 0.0
	if totalOrders > 0 {
		avgOrderValue = totalRevenue / float64(totalOrders)
	}

	rawProducts, err := store.GetByPrefix(ctx, "product:")
	if err != nil {
		log.Println("❌ Erreur scan produits dashboard:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération statistiques"})
		return
	}
	totalProducts := 0
	outOfStock := 0
	for _, raw := range rawProducts {
		var p models.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		totalProducts++
		if p.Stock <= 0 {
			outOfStock++
		}
	}

	rawPayments, err := store.GetByPrefix(ctx, "payment:")
	if err != nil {
		log.Println("❌ Erreur scan paiements dashboard:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération statistiques"})
		return
	}
	paymentsByState := map[string]int{}
	for _, raw := range rawPayments {
		var p models.Payment
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		paymentsByState[p.Status]++
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": gin.H{
			"total":      totalOrders,
			"last30Days": last30Days,
			"byStatus":   ordersByState,
		},
		"revenue": gin.H{
			"total":         totalRevenue,
			"avgOrderValue": avgOrderValue,
			"currency":      "INR",
		},
		"products": gin.H{
			"total":      totalProducts,
			"outOfStock": outOfStock,
		},
		"payments": paymentsByState,
	})
}
