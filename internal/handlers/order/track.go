package order

import (
	"net/http"

	"vastralaya_back_end/internal/barcode"

	"github.com/gin-gonic/gin"
)

// TrackOrder retrouve une commande par code-barres, numéro de suivi ou id.
// Endpoint public, pensé pour la page de suivi : les tirets d'affichage
// sont tolérés. Scan linéaire, premier match retenu.
func TrackOrder(c *gin.Context) {
	identifier := barcode.Normalize(c.Param("identifier"))

	orders, err := scanOrders(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche commande"})
		return
	}

	for _, o := range orders {
		if o.Barcode == identifier || o.TrackingNumber == identifier || o.ID == identifier {
			c.JSON(http.StatusOK, gin.H{"order": o})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
}
