package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ramanbajpai7/AcctAI/internal/ai"
	"github.com/ramanbajpai7/AcctAI/internal/config"
	"github.com/ramanbajpai7/AcctAI/internal/handler"
	"github.com/ramanbajpai7/AcctAI/internal/middleware"
	"github.com/ramanbajpai7/AcctAI/internal/repository"
	"github.com/ramanbajpai7/AcctAI/internal/service"
	"github.com/ramanbajpai7/AcctAI/pkg/logger"
)

// @title AcctAI Accounting API
// @version 1.0
// @description API for bank statement parsing, GST validation and GSTR reconciliation

// @contact.name API Support
// @contact.email support@acctai.in

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Init(cfg.App.LogLevel)
	logger.GetLogger().Info("Starting AcctAI Accounting Service")

	// Connect to database
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	logger.GetLogger().Info("Database connection established")

	// Initialize repositories
	txRepo := repository.NewBankTransactionRepository(db)
	reconRepo := repository.NewReconciliationRepository(db)

	// Initialize services
	importService := service.NewImportService(txRepo, cfg.App.BatchSize)
	reconService := service.NewReconciliationService(reconRepo)
	suggestionService := service.NewSuggestionService(buildSuggestionChain(cfg.AI), txRepo)

	// Initialize handlers
	statementHandler := handler.NewStatementHandler(importService)
	gstHandler := handler.NewGSTHandler()
	reconHandler := handler.NewReconciliationHandler(reconService)
	suggestionHandler := handler.NewSuggestionHandler(suggestionService)

	// Setup router
	router := setupRouter(statementHandler, gstHandler, reconHandler, suggestionHandler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.GetLogger().WithField("address", addr).Info("Server starting")

	if err := router.Run(addr); err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to start server")
	}
}

func connectDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

// buildSuggestionChain wires the providers in fallback order. Remote
// providers without an API key are left out; the keyword provider is
// always last so the chain never comes up empty.
func buildSuggestionChain(cfg config.AIConfig) *ai.Chain {
	providers := make([]ai.Provider, 0, 3)
	if cfg.GroqAPIKey != "" {
		providers = append(providers, ai.NewGroqProvider(cfg.GroqAPIKey, cfg.GroqModel))
	}
	if cfg.GeminiAPIKey != "" {
		providers = append(providers, ai.NewGeminiProvider(cfg.GeminiAPIKey))
	}
	providers = append(providers, ai.NewKeywordProvider())
	return ai.NewChain(providers...)
}

func setupRouter(
	statementHandler *handler.StatementHandler,
	gstHandler *handler.GSTHandler,
	reconHandler *handler.ReconciliationHandler,
	suggestionHandler *handler.SuggestionHandler,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Bank statement routes
		statements := v1.Group("/statements")
		{
			statements.POST("/import", statementHandler.ImportStatement)
			statements.GET("", statementHandler.GetTransactionsByDateRange)
			statements.GET("/:batch_id", statementHandler.GetBatch)
			statements.PATCH("/transactions/:id", statementHandler.UpdateTransaction)
		}

		// GST validation and calculation routes
		gst := v1.Group("/gst")
		{
			gst.POST("/validate-gstin", gstHandler.ValidateGSTIN)
			gst.POST("/validate-pan", gstHandler.ValidatePAN)
			gst.POST("/calculate", gstHandler.CalculateGST)
			gst.POST("/reverse-calculate", gstHandler.ReverseCalculateGST)
			gst.POST("/validate-invoice", gstHandler.ValidateInvoice)
			gst.GET("/rates", gstHandler.GetRates)
		}

		// GSTR reconciliation routes
		gstr := v1.Group("/gstr")
		{
			gstr.POST("/reconcile", reconHandler.Reconcile)
			gstr.GET("/jobs/:job_id", reconHandler.GetJobStatus)
			gstr.GET("/jobs/:job_id/mismatches", reconHandler.GetJobMismatches)
		}

		// AI suggestion routes
		aiGroup := v1.Group("/ai")
		{
			aiGroup.POST("/suggest-ledger", suggestionHandler.SuggestLedger)
			aiGroup.POST("/suggest-ledger/batch/:batch_id", suggestionHandler.SuggestForBatch)
		}
	}

	return router
}
