package product

import (
	"log"
	"net/http"

	"vastralaya_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// UploadImage reçoit une image produit en multipart et la pousse dans
// MinIO (revendeur). Retourne l'URL publique à poser sur le produit.
func UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun fichier fourni"})
		return
	}

	imageURL, err := services.UploadProductImage(file)
	if err != nil {
		log.Println("❌ Erreur upload image:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": imageURL})
}
