package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"chatdocs/internal/ai"
	appsvc "chatdocs/internal/app"
	"chatdocs/internal/bootstrap"
	"chatdocs/internal/cache"
	"chatdocs/internal/platform/rabbitmq"
	"chatdocs/internal/repository"
	"chatdocs/internal/transport/http/handler"
	"chatdocs/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	llmClient := ai.NewOpenAICompatibleClient(ai.ClientConfig{
		BaseURL:        app.Config.LLM.BaseURL,
		APIKey:         app.Config.LLM.APIKey,
		Model:          app.Config.LLM.Model,
		EmbeddingModel: app.Config.LLM.EmbeddingModel,
	})
	retryCfg := ai.RetryConfig{
		MaxRetries: app.Config.LLM.MaxRetries,
		RetryDelay: time.Duration(app.Config.LLM.RetryDelaySeconds) * time.Second,
		Timeout:    time.Duration(app.Config.LLM.TimeoutSeconds) * time.Second,
	}
	embedder := ai.WithRetryEmbedder(llmClient, retryCfg)
	completer := ai.WithRetryCompleter(llmClient, retryCfg)

	recordRepo := repository.NewChatRecordRepository(app.MySQL)
	histCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)

	qaService := appsvc.NewQAService(embedder, completer, recordRepo, histCache, appsvc.QAConfig{
		ChunkSize:    app.Config.RAG.ChunkSize,
		ChunkOverlap: app.Config.RAG.ChunkOverlap,
		TopK:         app.Config.RAG.TopK,
		EmbedWorkers: app.Config.RAG.EmbedWorkers,
	})
	historyService := appsvc.NewHistoryService(recordRepo, histCache)
	purgePublisher := rabbitmq.NewPurgePublisher(app.MQConn, app.Config.RabbitMQ.HistoryPurgeQueue)

	documentHandler := handler.NewDocumentHandler(qaService, app.Config.RAG.MaxUploadMB)
	historyHandler := handler.NewHistoryHandler(historyService)
	adminHandler := handler.NewAdminHandler(purgePublisher, app.Config.Auth.AdminToken)

	v1 := router.Group("/api/v1")

	docGroup := v1.Group("/documents")
	docGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	docGroup.POST("/upload", documentHandler.Upload)
	docGroup.POST("/ask", documentHandler.Ask)
	docGroup.GET("/status", documentHandler.Status)
	docGroup.DELETE("/session", documentHandler.EndSession)

	historyGroup := v1.Group("/history")
	historyGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	historyGroup.GET("", historyHandler.List)
	historyGroup.GET("/documents", historyHandler.ListDocuments)
	historyGroup.DELETE("", historyHandler.Delete)
	historyGroup.DELETE("/all", historyHandler.DeleteAll)

	adminGroup := v1.Group("/admin")
	adminGroup.POST("/history/purge", adminHandler.EnqueuePurge)

	return router
}
