package product

import (
	"net/http"
	"strings"

	"vastralaya_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// SearchProducts cherche dans le catalogue. Elasticsearch d'abord,
// sinon scan KV filtré en mémoire (non optimal, assumé : le catalogue
// d'un revendeur unique reste petit).
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre 'q' manquant"})
		return
	}

	// 🔎 1️⃣ Recherche Elasticsearch (prioritaire)
	results, err := services.SearchProducts(query)
	if err == nil && len(results) > 0 {
		c.JSON(http.StatusOK, gin.H{"products": results})
		return
	}

	// 🔁 2️⃣ Fallback scan KV
	products, err := scanProducts(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche"})
		return
	}

	filtered := products[:0]
	for _, p := range products {
		if containsIgnoreCase(p.Name, query) || containsIgnoreCase(p.Description, query) || containsIgnoreCase(p.Category, query) {
			filtered = append(filtered, p)
		}
	}

	c.JSON(http.StatusOK, gin.H{"products": filtered})
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
