package user

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"vastralaya_back_end/internal/models"
	"vastralaya_back_end/internal/store"
	"vastralaya_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/markbates/goth/gothic"
)

// ================== AUTH LOCALE ==================

// Signup crée un compte client (hash argon2id, profil par défaut)
func Signup(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email et mot de passe requis"})
		return
	}

	ctx := c.Request.Context()
	userKey := "user:email:" + strings.ToLower(input.Email)

	// email déjà pris ?
	var existing models.User
	if err := store.Get(ctx, userKey, &existing); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	user := models.User{
		ID:        "user:" + uuid.NewString(),
		Name:      input.Name,
		Email:     strings.ToLower(input.Email),
		Phone:     input.Phone,
		Password:  hashed,
		Provider:  "local",
		CreatedAt: time.Now(),
	}

	if err := store.Set(ctx, userKey, user); err != nil {
		log.Println("❌ Erreur création utilisateur:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":  token,
		"userId": user.ID,
		"email":  user.Email,
		"name":   user.Name,
	})
}

// Login authentifie un compte local
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	var user models.User
	err := store.Get(ctx, "user:email:"+strings.ToLower(input.Email), &user)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, user.Password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": user.ID,
		"email":  user.Email,
		"name":   user.Name,
	})
}

// ================== AUTH SOCIALE (WEB) ==================

// BeginAuth démarre le flow OAuth (google / facebook)
func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// CallbackAuth termine le flow OAuth, crée ou retrouve le compte KV,
// puis redirige vers le front avec le JWT en query
func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ Erreur callback OAuth %s: %v", provider, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Échec authentification " + provider})
		return
	}

	user, err := findOrCreateOAuthUser(c, provider, gothUser.UserID, gothUser.Email, gothUser.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	redirectURI := os.Getenv("FRONTEND_URL")
	if redirectURI == "" {
		redirectURI = "http://localhost:5173"
	}

	sep := "?"
	if strings.Contains(redirectURI, "?") {
		sep = "&"
	}
	final := redirectURI + sep + "token=" + url.QueryEscape(token)
	log.Printf("✅ Redirection finale: %s", final)
	c.Redirect(http.StatusTemporaryRedirect, final)
}

// findOrCreateOAuthUser retrouve le compte par email, sinon le crée
func findOrCreateOAuthUser(c *gin.Context, provider, providerID, email, name string) (models.User, error) {
	ctx := c.Request.Context()
	userKey := "user:email:" + strings.ToLower(email)

	var user models.User
	err := store.Get(ctx, userKey, &user)
	if err == nil {
		// compte existant → on rattache le provider
		user.Provider = provider
		user.ProviderID = providerID
		if user.Name == "" {
			user.Name = name
		}
		if err := store.Set(ctx, userKey, user); err != nil {
			return models.User{}, err
		}
		log.Printf("🔄 Compte existant rattaché au provider %s : %s", provider, email)
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, err
	}

	user = models.User{
		ID:         "user:" + uuid.NewString(),
		Name:       name,
		Email:      strings.ToLower(email),
		Provider:   provider,
		ProviderID: providerID,
		CreatedAt:  time.Now(),
	}
	if err := store.Set(ctx, userKey, user); err != nil {
		return models.User{}, err
	}
	log.Printf("🆕 Utilisateur OAuth créé (%s) : %s", provider, email)
	return user, nil
}

// Me retourne l'identité portée par le token
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"userId": c.GetString("user_id"),
		"email":  c.GetString("email"),
		"name":   c.GetString("name"),
		"phone":  c.GetString("phone"),
	})
}
