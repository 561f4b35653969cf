package retailer

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"vastralaya_back_end/internal/config"
	"vastralaya_back_end/internal/models"
	"vastralaya_back_end/internal/store"
	"vastralaya_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionTTL = 30 * 24 * time.Hour

// InitPassword pose le hash du mot de passe revendeur depuis
// RETAILER_PASSWORD si aucun hash n'existe encore. Appelé au démarrage.
func InitPassword() {
	ctx := context.Background()

	var existing string
	if err := store.Get(ctx, config.RetailerPasswordKey, &existing); err == nil && existing != "" {
		return
	}

	password := os.Getenv("RETAILER_PASSWORD")
	if password == "" {
		log.Println("⚠️ RETAILER_PASSWORD absent — portail revendeur inaccessible tant qu'il n'est pas posé")
		return
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Println("❌ Erreur hash mot de passe revendeur:", err)
		return
	}
	if err := store.Set(ctx, config.RetailerPasswordKey, hashed); err != nil {
		log.Println("❌ Erreur enregistrement mot de passe revendeur:", err)
		return
	}
	log.Println("✅ Mot de passe revendeur initialisé")
}

// Login ouvre une session revendeur de 30 jours (token opaque)
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Email != config.RetailerEmail() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	ctx := c.Request.Context()

	var hashed string
	if err := store.Get(ctx, config.RetailerPasswordKey, &hashed); err != nil {
		log.Println("❌ Mot de passe revendeur non initialisé")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, hashed)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	token := uuid.NewString()
	session := models.Session{
		UserID:    config.RetailerID,
		Email:     config.RetailerEmail(),
		UserType:  "retailer",
		CreatedAt: time.Now(),
	}
	if err := store.SetTTL(ctx, "session:"+token, session, sessionTTL); err != nil {
		log.Println("❌ Erreur création session revendeur:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création session"})
		return
	}

	log.Println("✅ Session revendeur ouverte pour", session.Email)
	c.JSON(http.StatusOK, gin.H{
		"sessionToken": token,
		"email":        session.Email,
		"userType":     session.UserType,
	})
}

// Logout révoque la session portée par X-Session-Token
func Logout(c *gin.Context) {
	token := c.GetHeader("X-Session-Token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token de session manquant"})
		return
	}
	if err := store.Delete(c.Request.Context(), "session:"+token); err != nil && !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur fermeture session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// VerifySession confirme qu'une session revendeur est toujours valide
// (passe derrière RetailerRequired, donc arriver ici suffit)
func VerifySession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"email":    c.GetString("retailer_email"),
		"userType": "retailer",
	})
}

// ChangePassword remplace le mot de passe revendeur (session requise)
func ChangePassword(c *gin.Context) {
	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le nouveau mot de passe doit faire au moins 8 caractères"})
		return
	}

	ctx := c.Request.Context()

	var hashed string
	if err := store.Get(ctx, config.RetailerPasswordKey, &hashed); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération mot de passe"})
		return
	}

	ok, err := utils.VerifyPassword(input.CurrentPassword, hashed)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Mot de passe actuel incorrect"})
		return
	}

	newHash, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur changement mot de passe"})
		return
	}
	if err := store.Set(ctx, config.RetailerPasswordKey, newHash); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur changement mot de passe"})
		return
	}

	log.Println("🔑 Mot de passe revendeur changé")
	c.JSON(http.StatusOK, gin.H{"success": true})
}
