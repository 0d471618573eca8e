package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"amplified-be/internal/config"
	"amplified-be/internal/controller"
	"amplified-be/internal/pkg/logger"
	"amplified-be/internal/repository/memory"
	"amplified-be/internal/repository/unitofwork"
	"amplified-be/internal/service"
	"amplified-be/internal/websocket"
	"amplified-be/pkg/embedding"
	"amplified-be/pkg/embedding/jina"
	"amplified-be/pkg/knowledge"
	"amplified-be/pkg/llm/factory"
	pktNats "amplified-be/pkg/nats"
)

type Container struct {
	// Controllers
	MeetingController   controller.IMeetingController
	EngineController    controller.IEngineController
	KnowledgeController controller.IKnowledgeController
	VoiceController     controller.IVoiceController
	LiveController      controller.ILiveController

	// Background services, main.go starts these.
	ConsumerService   service.IConsumerService
	EventRelayService service.IEventRelayService

	WebSocketHub *websocket.Hub

	// SessionRegistry backs the health endpoint's live session count.
	SessionRegistry *memory.LiveSessionRepository
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI stack
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}
	indexer := knowledge.NewIndexer(embeddingProvider)

	registry := factory.NewRegistry(cfg)
	log.Printf("[INFO] LLM engines registered: %v (default %s)", registry.Names(), registry.DefaultName())

	// In-memory live session registry
	sessionRegistry := memory.NewLiveSessionRepository()

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// A plain nil keeps the services' nil checks meaningful, a typed nil
	// pointer inside the interface would not.
	var eventBus service.IEventPublisher
	if natsPub != nil {
		eventBus = natsPub
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket hub with its own log file, socket chatter drowns app logs
	wsLogger := logger.NewIsolatedLogger("logs/live.log")
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.IndexTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IndexTopic,
		uowFactory,
		indexer,
		eventBus,
	)

	meetingService := service.NewMeetingService(uowFactory, eventBus, sysLogger)
	suggestionService := service.NewSuggestionService(uowFactory, registry, indexer, publisherService, eventBus, sysLogger)
	engineService := service.NewEngineService(uowFactory, registry, eventBus, sysLogger)
	knowledgeService := service.NewKnowledgeService(uowFactory, publisherService, indexer, sysLogger)
	voiceService := service.NewVoiceService(uowFactory)

	var relayService service.IEventRelayService
	if natsSub != nil {
		relayService = service.NewEventRelayService(natsSub, wsHub, wsLogger)
	}

	return &Container{
		MeetingController:   controller.NewMeetingController(meetingService, suggestionService),
		EngineController:    controller.NewEngineController(engineService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),
		VoiceController:     controller.NewVoiceController(voiceService),
		LiveController: controller.NewLiveController(
			wsHub,
			meetingService,
			suggestionService,
			voiceService,
			sessionRegistry,
			wsLogger,
		),
		ConsumerService:   consumerService,
		EventRelayService: relayService,
		WebSocketHub:      wsHub,
		SessionRegistry:   sessionRegistry,
	}
}
