package user

import (
	"errors"
	"log"
	"net/http"
	"time"

	"vastralaya_back_end/internal/models"
	"vastralaya_back_end/internal/store"

	"github.com/gin-gonic/gin"
)

// GetProfile retourne le profil client. Première lecture sans profil
// enregistré → profil par défaut construit depuis le token.
func GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var profile models.UserProfile
	err := store.Get(c.Request.Context(), "user_profile:"+userID, &profile)
	if errors.Is(err, store.ErrNotFound) {
		profile = models.UserProfile{
			UserID:   userID,
			Name:     c.GetString("name"),
			UserType: "customer",
		}
		c.JSON(http.StatusOK, gin.H{"profile": profile})
		return
	}
	if err != nil {
		log.Println("❌ Erreur récupération profil:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération profil"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateAddress enregistre l'adresse de livraison du client
func UpdateAddress(c *gin.Context) {
	userID := c.GetString("user_id")

	var input models.Address
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.Complete() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse incomplète"})
		return
	}

	ctx := c.Request.Context()
	key := "user_profile:" + userID

	var profile models.UserProfile
	if err := store.Get(ctx, key, &profile); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération profil"})
			return
		}
		profile = models.UserProfile{
			UserID:   userID,
			Name:     c.GetString("name"),
			UserType: "customer",
		}
	}

	now := time.Now()
	profile.Address = &input
	profile.UpdatedAt = &now

	if err := store.Set(ctx, key, profile); err != nil {
		log.Println("❌ Erreur enregistrement adresse:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement adresse"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
