package routes

import (
	"net/http"
	"os"
	"strings"

	"vastralaya_back_end/internal/handlers/order"
	"vastralaya_back_end/internal/handlers/payment"
	"vastralaya_back_end/internal/handlers/product"
	"vastralaya_back_end/internal/handlers/retailer"
	"vastralaya_back_end/internal/handlers/user"
	"vastralaya_back_end/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	allowed := []string{"http://localhost:5173", "http://localhost:3000"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		allowed = append(allowed, strings.Split(extra, ",")...)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowed,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Session-Token", "X-Payment-Signature"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ---------- Auth client ----------
	auth := api.Group("/auth")
	{
		auth.POST("/signup", user.Signup)
		auth.POST("/login", middleware.LoginRateLimit(), user.Login)
		auth.GET("/:provider", user.BeginAuth)
		auth.GET("/:provider/callback", user.CallbackAuth)
	}
	api.GET("/me", middleware.AuthRequired(), user.Me)
	api.GET("/profile", middleware.AuthRequired(), user.GetProfile)
	api.PUT("/profile/address", middleware.AuthRequired(), user.UpdateAddress)

	// ---------- Catalogue public ----------
	api.GET("/products", product.GetAllProducts)
	api.GET("/products/search", product.SearchProducts)

	// ---------- Commandes ----------
	api.POST("/orders", middleware.AuthRequired(), order.PlaceOrder)
	api.GET("/orders", order.GetOrders) // client (bearer) ou revendeur (session)
	api.POST("/orders/:id/confirm-delivery", middleware.AuthRequired(), order.ConfirmDelivery)

	// suivi public, sans authentification
	api.GET("/track/:identifier", order.TrackOrder)

	// ---------- Paiements ----------
	api.POST("/create-payment", middleware.AuthRequired(), payment.CreatePayment)
	api.POST("/verify-payment", payment.VerifyPayment)

	// ---------- Portail revendeur ----------
	rt := api.Group("/retailer")
	{
		rt.POST("/login", middleware.LoginRateLimit(), retailer.Login)
		rt.GET("/orders/live", retailer.OrdersWebSocket) // token en query

		authed := rt.Group("")
		authed.Use(middleware.RetailerRequired())
		{
			authed.POST("/logout", retailer.Logout)
			authed.GET("/verify", retailer.VerifySession)
			authed.POST("/change-password", retailer.ChangePassword)
			authed.GET("/dashboard", retailer.GetDashboardStats)
			authed.GET("/products", product.GetRetailerProducts)
		}
	}

	// opérations revendeur sur commandes et catalogue
	admin := api.Group("")
	admin.Use(middleware.RetailerRequired())
	{
		admin.PUT("/orders/:id/status", order.UpdateStatus)
		admin.POST("/orders/:id/regenerate-barcode", order.RegenerateBarcode)
		admin.POST("/migrate-orders", order.MigrateOrders)

		admin.POST("/products", product.CreateProduct)
		admin.PUT("/products/:id", product.UpdateProduct)
		admin.DELETE("/products/:id", product.DeleteProduct)
		admin.POST("/products/upload-image", product.UploadImage)
	}
}
