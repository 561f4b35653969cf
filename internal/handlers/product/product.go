package product

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sort"
	"time"

	"vastralaya_back_end/internal/config"
	"vastralaya_back_end/internal/database"
	"vastralaya_back_end/internal/models"
	"vastralaya_back_end/internal/services"
	"vastralaya_back_end/internal/store"
	"vastralaya_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

const allProductsCacheKey = "products:all"

// CreateProduct ajoute un produit au catalogue (revendeur)
func CreateProduct(c *gin.Context) {
	var input struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Category    string  `json:"category"`
		ImageURL    string  `json:"imageUrl"`
		Stock       int     `json:"stock"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Name == "" || input.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom ou prix manquant"})
		return
	}

	now := time.Now()
	product := models.Product{
		ID:          utils.NewProductID(now),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		Stock:       input.Stock,
		RetailerID:  config.RetailerID,
		CreatedAt:   now,
	}

	if err := store.Set(c.Request.Context(), product.ID, product); err != nil {
		log.Println("❌ Erreur création produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit"})
		return
	}

	invalidateProductCache()

	// 🔄 Indexation Elasticsearch
	go services.IndexProduct(product)

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// GetAllProducts liste le catalogue public, trié du plus récent au plus
// ancien, avec cache Redis d'une heure
func GetAllProducts(c *gin.Context) {
	ctx := context.Background()

	if database.Redis != nil {
		if val, err := database.Redis.Get(ctx, allProductsCacheKey).Result(); err == nil && val != "" {
			var cached []models.Product
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				c.JSON(http.StatusOK, gin.H{"products": cached})
				return
			}
		}
	}

	products, err := scanProducts(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération produits"})
		return
	}

	if database.Redis != nil {
		if data, err := json.Marshal(products); err == nil {
			database.Redis.Set(ctx, allProductsCacheKey, data, time.Hour)
		}
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetRetailerProducts liste le catalogue côté back-office (revendeur),
// sans cache pour voir les modifications immédiatement
func GetRetailerProducts(c *gin.Context) {
	products, err := scanProducts(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération produits"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func scanProducts(c *gin.Context) ([]models.Product, error) {
	raws, err := store.GetByPrefix(c.Request.Context(), "product:")
	if err != nil {
		log.Println("❌ Erreur scan produits:", err)
		return nil, err
	}

	products := make([]models.Product, 0, len(raws))
	for _, raw := range raws {
		var p models.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			log.Println("⚠️ Produit illisible ignoré:", err)
			continue
		}
		products = append(products, p)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

// UpdateProduct modifie un produit existant (revendeur). Les champs absents
// du body gardent leur valeur.
func UpdateProduct(c *gin.Context) {
	productID := c.Param("id")

	var input struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Category    *string  `json:"category"`
		ImageURL    *string  `json:"imageUrl"`
		Stock       *int     `json:"stock"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var updated models.Product
	err := store.Update(c.Request.Context(), productID, func(raw json.RawMessage) (any, error) {
		var p models.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}

		if input.Name != nil {
			p.Name = *input.Name
		}
		if input.Description != nil {
			p.Description = *input.Description
		}
		if input.Price != nil {
			p.Price = *input.Price
		}
		if input.Category != nil {
			p.Category = *input.Category
		}
		if input.ImageURL != nil {
			p.ImageURL = *input.ImageURL
		}
		if input.Stock != nil {
			p.Stock = *input.Stock
		}

		now := time.Now()
		p.UpdatedAt = &now
		updated = p
		return p, nil
	})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		log.Println("❌ Erreur mise à jour produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	invalidateProductCache()
	go services.IndexProduct(updated)

	c.JSON(http.StatusOK, gin.H{"product": updated})
}

// DeleteProduct retire un produit du catalogue (revendeur)
func DeleteProduct(c *gin.Context) {
	productID := c.Param("id")

	var existing models.Product
	if err := store.Get(c.Request.Context(), productID, &existing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération produit"})
		return
	}

	if err := store.Delete(c.Request.Context(), productID); err != nil {
		log.Println("❌ Erreur suppression produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}

	invalidateProductCache()
	go services.RemoveProductIndex(productID)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func invalidateProductCache() {
	if database.Redis == nil {
		return
	}
	database.Redis.Del(context.Background(), allProductsCacheKey)
}
