/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/tieubaoca/docinsight-be/config"
	"github.com/tieubaoca/docinsight-be/database"
	"github.com/tieubaoca/docinsight-be/handler"
	"github.com/tieubaoca/docinsight-be/middleware"
	"github.com/tieubaoca/docinsight-be/repository"
	"github.com/tieubaoca/docinsight-be/service"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the analysis server",
	Long:  `Starts a server that extracts document outlines and runs persona-driven analyses`,
	Run: func(cmd *cobra.Command, args []string) {

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		// Initialize services
		embedder, err := buildEmbedder(cfg)
		if err != nil {
			log.Fatalf("Failed to init embedding provider: %v", err)
		}

		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}

		mongoClient, err := database.ConnectMongo(context.Background(), cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		mongoDb := mongoClient.Database("docinsight")

		runRepo := repository.NewRunRepo(mongoDb)
		fileService := service.NewFileService(cfg.UploadDir)
		wsService := service.NewWebSocketService()
		pipeline := service.NewPipelineService(service.NewPDFService(), embedder, wsService, cfg.Analysis)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		loginHandler := handler.NewLoginHandler(cfg.AdminUsername, cfg.AdminPassword)
		outlineHandler := handler.NewOutlineHandler(pipeline, fileService)
		analyzeHandler := handler.NewAnalyzeHandler(pipeline, embedder, fileService, runRepo, weaviateDb, cfg.Analysis)
		searchHandler := handler.NewSearchHandler(weaviateDb, embedder)
		documentHandler := handler.NewDocumentHandler(fileService)
		uploadHandler := handler.NewUploadHandler(fileService)

		// Setup Gin router
		router := gin.Default()

		// Apply global middleware
		router.Use(corsHandler.CorsMiddleware)

		router.GET("/ws/progress", func(c *gin.Context) {
			wsService.HandleProgress(c.Writer, c.Request)
		})

		apiV1 := router.Group("/api/v1")
		apiV1.POST("/login", loginHandler.HandleLogin)
		{
			apiV1.POST("/outline", outlineHandler.HandleOutline)
			apiV1.POST("/analyze", analyzeHandler.HandleAnalyze)
			apiV1.GET("/runs", analyzeHandler.HandleListRuns)
			apiV1.GET("/runs/:id", analyzeHandler.HandleGetRun)
			apiV1.POST("/sections/search", searchHandler.HandleSearch)
			apiV1.GET("/documents", documentHandler.ListDocuments)
			apiV1.GET("/pdf", documentHandler.ServeDocument)
		}

		// Admin routes - require admin authentication
		adminRoutes := router.Group("/admin/api/v1")
		adminRoutes.Use(middleware.AdminAuthMiddleware)
		{
			adminRoutes.POST("/upload", uploadHandler.UploadDocumentHandler)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
