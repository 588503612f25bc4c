package bootstrap

import (
	"context"
	"log"
	"time"

	"super-rag-be/internal/config"
	"super-rag-be/internal/controller"
	"super-rag-be/internal/pkg/logger"
	"super-rag-be/internal/repository/implementation"
	"super-rag-be/internal/service"
	"super-rag-be/pkg/agent"
	"super-rag-be/pkg/agent/grounding"
	"super-rag-be/pkg/agent/memory"
	"super-rag-be/pkg/agent/planner"
	"super-rag-be/pkg/agent/rag"
	"super-rag-be/pkg/agent/reasoning"
	"super-rag-be/pkg/agent/retrieval"
	"super-rag-be/pkg/agent/router"
	"super-rag-be/pkg/docstore"
	"super-rag-be/pkg/embedding"
	"super-rag-be/pkg/llm/gemini"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController      controller.IChatController
	IngestionController controller.IIngestionController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	embeddingProvider := embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingDim)
	log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.EmbeddingModel)

	llmProvider, err := gemini.NewProvider(context.Background(), cfg.Keys.GoogleGemini, cfg.Ai.RouterModel)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: GEMINI (analyst: %s)", cfg.Ai.AnalystModel)

	// 4. Repositories & Document Store
	chunkRepo := implementation.NewDocumentChunkRepository(db)
	qaRepo := implementation.NewQAMemoryRepository(db)
	docs := docstore.NewFSStore(cfg.Ingestion.DataDir)

	// 5. Pipeline Stages
	semanticMemory := memory.New(embeddingProvider, qaRepo, cfg.Ai.MemoryThreshold, sysLogger)
	queryRouter := router.New(llmProvider, cfg.Ai.RouterModel, sysLogger)
	simpleRAG := rag.New(embeddingProvider, chunkRepo, llmProvider, cfg.Ai.SimpleRAGModel, cfg.Ai.SimpleTopK, sysLogger)
	queryPlanner := planner.New(llmProvider, cfg.Ai.PlannerModel, sysLogger)
	hunter := retrieval.NewHunter(embeddingProvider, chunkRepo, docs, cfg.Ai.HunterTopK, sysLogger)
	loader := reasoning.NewContextLoader(llmProvider, cfg.Ai.AnalystModel, time.Duration(cfg.Ai.CacheTTLSeconds)*time.Second, sysLogger)
	analyst := reasoning.NewAnalyst(llmProvider, cfg.Ai.AnalystModel, sysLogger)
	citer := grounding.NewCiter(llmProvider, cfg.Ai.CitationModel, sysLogger)
	formatter := reasoning.NewFormatter(llmProvider, cfg.Ai.FormatterModel, sysLogger)

	orchestrator := agent.NewOrchestrator(
		semanticMemory,
		queryRouter,
		simpleRAG,
		queryPlanner,
		hunter,
		loader,
		analyst,
		citer,
		formatter,
		sysLogger,
	)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedDocsTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedDocsTopic,
		chunkRepo,
		embeddingProvider,
		sysLogger,
	)

	ingestionService := service.NewIngestionService(
		cfg.Ingestion.DataDir,
		cfg.Ingestion.ChunkSize,
		cfg.Ingestion.ChunkOverlap,
		publisherService,
		sysLogger,
	)
	chatService := service.NewChatService(orchestrator, sysLogger)

	// 7. Controllers
	return &Container{
		ChatController:      controller.NewChatController(chatService),
		IngestionController: controller.NewIngestionController(ingestionService),

		ConsumerService: consumerService,
	}
}
