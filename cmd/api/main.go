package main

import (
	"fmt"
	"log"

	"promptlab-api/internal/adapter/openai"
	"promptlab-api/internal/adapter/qdrant"
	"promptlab-api/internal/delivery/http/handler"
	"promptlab-api/internal/delivery/http/middleware"
	"promptlab-api/internal/usecase/rag"
	"promptlab-api/pkg/config"
	"promptlab-api/pkg/vectordb"

	"github.com/gofiber/fiber/v2"

	// log
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// @title           PromptLab API
// @version         1.0
// @description     Document Q&A service: upload a document, ask a question, get a grounded answer with sources
// @host            localhost:8080
// @BasePath        /
func main() {
	cfg := config.Load()

	// connect to qdrant
	conn, err := vectordb.Connect(cfg.QdrantAddr)
	if err != nil {
		log.Fatalf("failed to connect to qdrant: %v", err)
	}
	defer conn.Close()
	log.Println("connected to qdrant")

	// initialize openai clients
	embeddingClient := openai.NewEmbeddingClient(cfg.OpenAIKey, cfg.OpenAIEmbeddingModel)
	chatClient := openai.NewChatClient(cfg.OpenAIKey, cfg.OpenAIChatModel)

	// initialize vector store
	vectorStore := qdrant.NewStore(conn, embeddingClient, cfg.EmbeddingDimensions)

	// initialize usecase
	ragUsecase, err := rag.NewRagUsecase(
		vectorStore,
		chatClient,
		cfg.ChunkSize,
		cfg.ChunkOverlap,
		cfg.TopKResults,
	)
	if err != nil {
		log.Fatalf("invalid rag configuration: %v", err)
	}

	// initialize handler
	queryHandler := handler.NewQueryHandler(ragUsecase, cfg.MaxFileSize)

	// initialize fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.MaxFileSize) + 1024*1024,
	})

	// middleware for log request and response in terminal
	app.Use(logger.New())

	app.Get("/health", handler.Health)

	// query routes
	api := app.Group("/api", middleware.UserIdentity())
	api.Post("/query", queryHandler.Query)
	api.Delete("/query/cleanup", queryHandler.Cleanup)

	// Start server
	log.Printf("🚀 Server starting on port %d", cfg.Port)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
