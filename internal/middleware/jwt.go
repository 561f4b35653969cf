package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

// Customer est l'identité extraite d'un bearer token valide
type Customer struct {
	ID    string
	Email string
	Name  string
	Phone string
}

// CustomerFromRequest résout le bearer token sans interrompre la requête.
// GET /orders sert le revendeur OU le client : le handler décide.
func CustomerFromRequest(c *gin.Context) (Customer, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return Customer{}, errors.New("token manquant")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return Customer{}, errors.New("format Authorization invalide")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return Customer{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Customer{}, errors.New("token invalide")
	}

	if exp, ok := claims["exp"].(float64); ok {
		if time.Now().Unix() > int64(exp) {
			return Customer{}, errors.New("token expiré")
		}
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Customer{}, errors.New("user_id manquant")
	}

	cust := Customer{ID: userID}
	if email, ok := claims["email"].(string); ok {
		cust.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		cust.Name = name
	}
	if phone, ok := claims["phone"].(string); ok {
		cust.Phone = phone
	}
	return cust, nil
}

// AuthRequired exige un bearer token client valide et pose l'identité
// dans le context Gin (user_id, email, name, phone)
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		cust, err := CustomerFromRequest(c)
		if err != nil {
			log.Printf("❌ Auth refusée: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token invalide"})
			c.Abort()
			return
		}

		c.Set("user_id", cust.ID)
		c.Set("email", cust.Email)
		c.Set("name", cust.Name)
		c.Set("phone", cust.Phone)
		c.Next()
	}
}
