package main

import (
	"log"
	"os"

	_ "github.com/mansij47/Optiven-Backend/api/swagger" // swagger docs
	"github.com/mansij47/Optiven-Backend/internal/database"
	"github.com/mansij47/Optiven-Backend/internal/handler"
	"github.com/mansij47/Optiven-Backend/internal/middleware"
	"github.com/mansij47/Optiven-Backend/internal/repository"
	"github.com/mansij47/Optiven-Backend/internal/service"
	"github.com/mansij47/Optiven-Backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Optiven Retail Backend API
// @version         1.0
// @description     Multi-tenant inventory, sales, and procurement backend.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "optiven")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	seqRepo := repository.NewSequenceRepository(db)
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	orderRepo := repository.NewSalesOrderRepository(db)
	returnRepo := repository.NewReturnOrderRepository(db)
	vendorReturnRepo := repository.NewVendorReturnRepository(db, seqRepo)
	lossRepo := repository.NewLossOrderRepository(db)
	purchaseRepo := repository.NewPurchaseOrderRepository(db)
	requestedRepo := repository.NewRequestedOrderRepository(db)
	contractRepo := repository.NewContractRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	userService := service.NewUserService(userRepo, auditRepo, txManager)
	productService := service.NewProductService(productRepo, movementRepo, seqRepo, auditRepo, txManager)
	orderService := service.NewOrderService(orderRepo, productRepo, requestedRepo, movementRepo, seqRepo, auditRepo, txManager, wsHub)
	returnService := service.NewReturnService(returnRepo, orderRepo, productRepo, seqRepo, auditRepo, txManager)
	procurementService := service.NewProcurementService(
		returnRepo, productRepo, vendorReturnRepo, lossRepo, purchaseRepo,
		requestedRepo, contractRepo, movementRepo, seqRepo, auditRepo, txManager, wsHub,
	)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService)
	returnHandler := handler.NewReturnHandler(returnService)
	procurementHandler := handler.NewProcurementHandler(procurementService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	productHandler.RegisterRoutes(router.Group(""))
	orderHandler.RegisterRoutes(router.Group(""))
	returnHandler.RegisterRoutes(router.Group(""))
	procurementHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")
	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
