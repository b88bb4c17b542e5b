package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/SzaboCristian/stock-market/internal/backtest"
	"github.com/SzaboCristian/stock-market/internal/config"
	"github.com/SzaboCristian/stock-market/internal/database"
	_ "github.com/SzaboCristian/stock-market/internal/docs" // Import swagger docs
	"github.com/SzaboCristian/stock-market/internal/handlers"
	"github.com/SzaboCristian/stock-market/internal/logger"
	"github.com/SzaboCristian/stock-market/internal/middleware"
	"github.com/SzaboCristian/stock-market/internal/pricesync"
	"github.com/SzaboCristian/stock-market/internal/provider"
	"github.com/SzaboCristian/stock-market/internal/services"
	"github.com/SzaboCristian/stock-market/internal/store"
	"github.com/SzaboCristian/stock-market/internal/validator"
)

// @title           Stock Market API
// @version         1.0
// @description     Stock registry, daily price history, user portfolios and backtests.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	log := logger.Get()

	dbManager, err := database.NewManager(cfg, database.APIPool)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations("migrations"); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize collaborators
	db := dbManager.DB()
	st := store.New(db)
	yahoo := provider.NewYahooProvider(&http.Client{Timeout: cfg.Provider.Timeout}, cfg.Provider.BaseURL)
	tracker := pricesync.NewTracker(st, pricesync.TrackerConfig{
		Epoch: cfg.Sync.Epoch,
		TTL:   cfg.Sync.RefreshTTL,
	}, logger.Named("tracker"))
	ingestor := pricesync.NewIngestor(st, yahoo, tracker, pricesync.IngestorConfig{
		BatchSize:    cfg.Sync.BatchSize,
		MaxRetries:   cfg.Sync.MaxRetries,
		FetchTimeout: cfg.Sync.FetchTimeout,
	}, logger.Named("ingestor"))

	// Initialize services
	userService := services.NewUserService(db)
	portfolioService := services.NewPortfolioService(userService, st, backtest.NewEngine(st))
	stockService := services.NewStockService(db, yahoo)
	priceService := services.NewStockPriceService(db, st, ingestor)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, cfg.JWTSecret, cfg.JWTExpirationDur)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	stockHandler := handlers.NewStockHandler(stockService)
	priceHandler := handlers.NewStockPriceHandler(priceService)
	calculatorHandler := handlers.NewCalculatorHandler()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	v1.GET("/stocks", stockHandler.ListStocks)
	v1.GET("/stocks/:symbol", stockHandler.GetStock)
	v1.GET("/stocks/:symbol/prices", priceHandler.GetHistory)
	v1.GET("/calculator/compound-interest", calculatorHandler.CompoundInterest)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	protected.GET("/profile", authHandler.GetProfile)

	protected.POST("/stocks", stockHandler.CreateStock)
	protected.PUT("/stocks/:symbol", stockHandler.UpdateStock)
	protected.POST("/stocks/:symbol/prices", priceHandler.AddHistory)
	protected.DELETE("/stocks/:symbol/prices", priceHandler.DeleteHistory)

	portfolios := protected.Group("/portfolios")
	portfolios.GET("", portfolioHandler.GetPortfolios)
	portfolios.POST("", portfolioHandler.CreatePortfolio)
	portfolios.PUT("/:id", portfolioHandler.UpdatePortfolio)
	portfolios.DELETE("/:id", portfolioHandler.DeletePortfolio)
	portfolios.GET("/:id/backtest", portfolioHandler.Backtest)

	log.Infof("Starting stock market API on port %s", cfg.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
	return router.Run(":" + cfg.Port)
}
