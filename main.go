package main

import (
	"log"
	"net/http"
	"time"

	"github.com/Amiththillenkery/ammafreshghee/config"
	"github.com/Amiththillenkery/ammafreshghee/controllers"
	"github.com/Amiththillenkery/ammafreshghee/middleware"
	"github.com/Amiththillenkery/ammafreshghee/models"
	"github.com/Amiththillenkery/ammafreshghee/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Amma Fresh API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}, &models.KeepAlive{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if err := models.SeedProducts(db); err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	// Process-scoped collaborators
	services.InitNotificationDispatcher(cfg)
	services.InitPaymentGateway(cfg)

	if cfg.KeepAliveEnabled {
		keepAlive := services.NewKeepAliveService(db)
		keepAlive.Start()
		defer keepAlive.Stop()
	}

	router := setupRouter(cfg)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	log.Printf("Environment: %s, notifications: %s, payment: %s",
		cfg.GoEnv, cfg.NotificationMethod, cfg.PhonePeEnv)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter wires all public and admin routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "x-api-key"},
		MaxAge:       12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		api.GET("/health", healthCheck)

		api.GET("/products", controllers.GetProducts)
		api.GET("/products/:id", controllers.GetProduct)

		api.POST("/orders", controllers.CreateOrder)
		api.GET("/orders/:orderNumber", controllers.GetOrderByNumber)

		api.GET("/track/:orderNumber", controllers.TrackOrder)
		api.GET("/track/phone/:phone", controllers.TrackByPhone)

		api.POST("/payment/initiate", controllers.InitiatePayment)
		api.POST("/payment/callback", controllers.PaymentCallback)
		api.GET("/payment/status/:transactionId", controllers.PaymentStatus)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.RequireAdminKey(cfg))
	{
		admin.GET("/orders", controllers.ListOrders)
		admin.GET("/orders/export", controllers.ExportOrdersExcel)
		admin.GET("/orders/live", controllers.OrderEventsHandler)
		admin.GET("/orders/:id/pdf", controllers.OrderPDF)
		admin.PUT("/orders/:id/status", controllers.UpdateOrderStatus)
		admin.PUT("/products/:id", controllers.UpdateProduct)
		admin.POST("/test-notification", controllers.TestNotification)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Amma Fresh API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
