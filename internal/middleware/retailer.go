package middleware

import (
	"net/http"

	"vastralaya_back_end/internal/models"
	"vastralaya_back_end/internal/store"

	"github.com/gin-gonic/gin"
)

// RetailerRequired vérifie le token de session opaque du revendeur
// (header X-Session-Token) contre le KV
func RetailerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Session-Token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session manquante"})
			c.Abort()
			return
		}

		var session models.Session
		if err := store.Get(c.Request.Context(), "session:"+token, &session); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalide"})
			c.Abort()
			return
		}

		if session.UserType != "retailer" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Réservé au revendeur"})
			c.Abort()
			return
		}

		c.Set("retailer_id", session.UserID)
		c.Set("retailer_email", session.Email)
		c.Next()
	}
}

// RetailerSession tente de charger une session revendeur sans bloquer la
// requête : GET /orders sert le revendeur OU le client selon le header
func RetailerSession(c *gin.Context) (models.Session, bool) {
	token := c.GetHeader("X-Session-Token")
	if token == "" {
		return models.Session{}, false
	}
	var session models.Session
	if err := store.Get(c.Request.Context(), "session:"+token, &session); err != nil {
		return models.Session{}, false
	}
	return session, session.UserType == "retailer"
}
