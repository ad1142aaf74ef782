package bootstrap

import (
	"context"
	"log"

	"job-wizard-be/internal/config"
	"job-wizard-be/internal/controller"
	"job-wizard-be/internal/handler"
	"job-wizard-be/internal/pkg/logger"
	"job-wizard-be/internal/repository/memory"
	"job-wizard-be/internal/repository/unitofwork"
	"job-wizard-be/internal/service"
	"job-wizard-be/internal/websocket"
	"job-wizard-be/pkg/hh"
	"job-wizard-be/pkg/llm/factory"

	pktNats "job-wizard-be/pkg/nats"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController        controller.IAuthController
	WizardController      controller.IWizardController
	ApplicationController controller.IApplicationController

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
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
		rdb = nil
	}

	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Collaborators
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	hhClient := hh.NewClient(cfg.JobBoard.BaseURL, cfg.JobBoard.UserAgent, cfg.JobBoard.Timeout)

	queryCache := memory.NewQueryCache()
	suggestionCache := memory.NewSuggestionCache()
	snapshotStore := memory.NewSnapshotStore(rdb, cfg.Wizard.SnapshotTTL)

	// 4. Services
	authService := service.NewAuthService(uowFactory)
	vacancyService := service.NewVacancyService(hhClient, queryCache, sysLogger)
	suggestionService := service.NewSuggestionService(llmProvider, suggestionCache, sysLogger)
	applicationService := service.NewApplicationService(uowFactory)

	wizardService := service.NewWizardService(
		uowFactory,
		vacancyService,
		suggestionService,
		queryCache,
		suggestionCache,
		snapshotStore,
		wsHub,
		natsPub,
		sysLogger,
		cfg.Wizard,
	)

	// Audit worker
	if natsSub != nil {
		auditService := service.NewAuditService(natsSub, sysLogger)
		if err := auditService.Start(); err != nil {
			log.Printf("[WARN] Failed to start audit consumer: %v", err)
		}
	}

	// 5. Transport
	notifHandler := handler.NewNotificationHandler(wsHub, cfg.App.JwtSecret, wsLogger)

	return &Container{
		NotificationHandler:   notifHandler,
		WebSocketHub:          wsHub,
		AuthController:        controller.NewAuthController(authService),
		WizardController:      controller.NewWizardController(wizardService),
		ApplicationController: controller.NewApplicationController(applicationService),
	}
}
