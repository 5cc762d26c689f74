package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koek1/budget-app/internal/config"
	"github.com/koek1/budget-app/internal/core"
	"github.com/koek1/budget-app/internal/middleware"
)

// SetupRoutes registers every API route on router. Global middleware
// (logging, recovery, CORS) is expected to be applied by the caller first.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	userService core.UserService,
	transactionService core.TransactionService,
	exportService core.ExportService,
	tokenService core.TokenService,
) {
	authMW := middleware.NewAuthMiddleware(tokenService, logger)

	authHandler := NewAuthHandler(userService, tokenService, logger)
	transactionHandler := NewTransactionHandler(transactionService, logger)
	exportHandler := NewExportHandler(exportService, logger)

	apiGroup := router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/profile", authMW.VerifyToken(), authHandler.Profile)
		}

		transactionsGroup := apiGroup.Group("/transactions", authMW.VerifyToken())
		{
			transactionsGroup.GET("", transactionHandler.List)
			transactionsGroup.POST("", transactionHandler.Create)
			transactionsGroup.PUT("/:id", transactionHandler.Update)
			transactionsGroup.DELETE("/:id", transactionHandler.Delete)
		}

		exportGroup := apiGroup.Group("/export", authMW.VerifyToken())
		{
			exportGroup.POST("/excel", exportHandler.Excel)
			exportGroup.GET("/summary", exportHandler.Summary)
		}
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Budget App API is running", "storage": appConfig.StoreBackend})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured", zap.String("storage", appConfig.StoreBackend))
}
