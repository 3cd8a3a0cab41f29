package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/tcg-portfolio/internal/api/handlers"
	"github.com/codyseavey/tcg-portfolio/internal/config"
	"github.com/codyseavey/tcg-portfolio/internal/services"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Store        store.Store
	Scanner      *services.ScannerService
	PreGrade     *services.PreGradeService
	ROI          *services.ROIEngine
	Trades       *services.TradeService
	Prices       *services.PriceService
	PriceWorker  *services.PriceWorker
	Portfolio    *services.PortfolioService
	ImageStorage *services.ImageStorageService
}

func SetupRouter(cfg *config.Config, svc Services) (*gin.Engine, error) {
	router := gin.Default()
	router.Use(Metrics())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", UserHeader}
	corsConfig.AllowCredentials = false
	router.Use(cors.New(corsConfig))

	limiter, err := NewRateLimiter(cfg.Scan.RatePerSecond, cfg.Scan.Burst, cfg.Scan.MaxClients)
	if err != nil {
		return nil, err
	}

	cardHandler := handlers.NewCardHandler(svc.Store, svc.Prices)
	scanHandler := handlers.NewScanHandler(svc.Scanner)
	gradeHandler := handlers.NewGradeHandler(svc.PreGrade, svc.Store, cfg.Storage.MaxUploadSize)
	collectionHandler := handlers.NewCollectionHandler(svc.Store, svc.Store)
	favoritesHandler := handlers.NewFavoritesHandler(svc.Store, svc.Store, svc.Store)
	portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
	tradeHandler := handlers.NewTradeHandler(svc.Trades)
	roiHandler := handlers.NewROIHandler(svc.ROI, cfg.ROI.TopLimit)
	priceHandler := handlers.NewPriceHandler(svc.PriceWorker, svc.Prices)

	// Serve uploaded pre-grade images
	if svc.ImageStorage != nil {
		router.Static("/images/uploads", svc.ImageStorage.GetStorageDir())
	}

	api := router.Group("/api")
	{
		// Catalog and market data are public
		cards := api.Group("/cards")
		{
			cards.GET("", cardHandler.ListCards)
			cards.GET("/:id", cardHandler.GetCard)
			cards.GET("/:id/chart", cardHandler.GetCardChart)
		}

		roi := api.Group("/roi")
		{
			roi.GET("/top", roiHandler.GetTop)
			roi.GET("/:cardId", roiHandler.GetCard)
		}

		api.GET("/prices/status", priceHandler.GetPriceStatus)

		user := api.Group("", UserIdentity())
		{
			scan := user.Group("/scan", limiter.Middleware())
			{
				scan.POST("", scanHandler.Scan)
				scan.POST("/confirm", scanHandler.Confirm)
			}

			user.POST("/pregrade", limiter.Middleware(), gradeHandler.PreGrade)
			user.GET("/grades/:collectionItemId", gradeHandler.GetGrades)

			collection := user.Group("/collection")
			{
				collection.GET("", collectionHandler.GetCollection)
				collection.POST("", collectionHandler.AddToCollection)
				collection.PUT("/:id", collectionHandler.UpdateCollectionItem)
				collection.DELETE("/:id", collectionHandler.DeleteCollectionItem)
			}

			favorites := user.Group("/favorites")
			{
				favorites.GET("", favoritesHandler.GetFavorites)
				favorites.POST("/:cardId", favoritesHandler.AddFavorite)
				favorites.DELETE("/:cardId", favoritesHandler.RemoveFavorite)
			}

			portfolio := user.Group("/portfolio")
			{
				portfolio.GET("", portfolioHandler.GetValue)
				portfolio.GET("/chart", portfolioHandler.GetChart)
			}

			trades := user.Group("/trade-intents")
			{
				trades.POST("", tradeHandler.CreateIntent)
				trades.GET("", tradeHandler.ListIntents)
				trades.GET("/matches", tradeHandler.GetMatches)
				trades.DELETE("/:id", tradeHandler.DeleteIntent)
			}
		}

		admin := api.Group("/admin", UserIdentity())
		{
			admin.POST("/compute-roi", roiHandler.ComputeAll)
			admin.POST("/ingest-prices", priceHandler.IngestPrices)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router, nil
}
