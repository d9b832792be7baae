package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"feedback-pulse/api"
	"feedback-pulse/batch"
	"feedback-pulse/cache"
	"feedback-pulse/config"
	"feedback-pulse/database"
	alertsrepo "feedback-pulse/database/alerts"
	outcomesrepo "feedback-pulse/database/outcomes"
	webhooksrepo "feedback-pulse/database/webhooks"
	"feedback-pulse/ingest"
	"feedback-pulse/llm"
	"feedback-pulse/notifications"
	"feedback-pulse/realtime"
	"feedback-pulse/websocket"
)

// App represents the main application
type App struct {
	config *config.Config

	db    *database.Database
	rawDB *database.DB
	redis *cache.RedisClient

	journeyRepo *database.JourneyRepository
	alertRepo   *alertsrepo.Repository
	webhookRepo *webhooksrepo.Repository
	outcomeRepo *outcomesrepo.Repository

	webhookManager *notifications.WebhookManager
	broker         *realtime.Broker
	hub            *websocket.Hub

	riskMonitor      *RiskMonitor
	patternRefresher *PatternRefresher
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{config: cfg}
}

// Start starts the application
func (a *App) Start() error {
	// 1. Database Connection (GORM)
	fmt.Println("🗄️  Connecting to database...")

	dbPort, err := strconv.Atoi(a.config.DatabasePort)
	if err != nil {
		return fmt.Errorf("invalid database port: %w", err)
	}

	db, err := database.Connect(
		a.config.DatabaseHost,
		dbPort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	// 2. Raw connection for the bulk COPY import path
	rawDB, err := database.NewConnection(database.Config{
		Host:     a.config.DatabaseHost,
		Port:     a.config.DatabasePort,
		User:     a.config.DatabaseUser,
		Password: a.config.DatabasePassword,
		DBName:   a.config.DatabaseName,
	})
	if err != nil {
		return fmt.Errorf("bulk import connection failed: %w", err)
	}
	a.rawDB = rawDB

	// 3. Redis Connection
	fmt.Println("🧠 Connecting to Redis...")
	redisClient := cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)

	if redisClient == nil {
		fmt.Println("⚠️  Redis connection failed. Caching disabled.")
	} else {
		a.redis = redisClient
	}

	// 4. Initialize schema (AutoMigrate + materialized view setup)
	a.journeyRepo = database.NewJourneyRepository(a.db)
	if err := a.journeyRepo.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	a.alertRepo = alertsrepo.NewRepository(a.db.DB())
	a.webhookRepo = webhooksrepo.NewRepository(a.db.DB())
	a.outcomeRepo = outcomesrepo.NewRepository(a.db.DB())

	// 5. Initialize Webhook Manager (with Redis)
	a.webhookManager = notifications.NewWebhookManager(a.webhookRepo, a.redis)

	// 6. Initialize Realtime Broker and Alert Hub
	a.broker = realtime.NewBroker()
	go a.broker.Run()

	a.hub = websocket.NewHub()
	go a.hub.Run()

	// 7. Analysis pipeline
	analysisCache := cache.NewAnalysisCache(a.redis)
	processor := batch.NewProcessor(
		a.config.Batch.MaxWorkers,
		time.Duration(a.config.Batch.TimeoutSeconds)*time.Second,
		analysisCache,
	)

	sources := ingest.NewSourceManager()
	sources.RegisterSource("csv", ingest.NewCSVSource())

	ingestSvc := ingest.NewService(a.journeyRepo, processor, a.broker)

	// 8. Initialize LLM client if enabled
	var llmClient *llm.Client
	if a.config.LLM.Enabled {
		llmClient = llm.NewClient(a.config.LLM.Endpoint, a.config.LLM.APIKey, a.config.LLM.Model)
		log.Printf("✅ LLM Insights ENABLED (Model: %s)", a.config.LLM.Model)
	} else {
		log.Println("ℹ️  LLM Insights DISABLED")
	}

	insightCooldown := time.Duration(a.config.Analysis.InsightCooldownMinutes) * time.Minute
	insights := llm.NewInsights(llmClient, analysisCache, insightCooldown, a.config.LLM.Enabled)

	// 9. Start API Server
	serverPort, err := strconv.Atoi(a.config.ServerPort)
	if err != nil {
		return fmt.Errorf("invalid server port: %w", err)
	}

	apiServer := api.NewServer(api.Deps{
		Config:    a.config,
		Journeys:  a.journeyRepo,
		Alerts:    a.alertRepo,
		Webhooks:  a.webhookRepo,
		Outcomes:  a.outcomeRepo,
		RawDB:     a.rawDB,
		IngestSvc: ingestSvc,
		Sources:   sources,
		Processor: processor,
		WebhookMq: a.webhookManager,
		Broker:    a.broker,
		Hub:       a.hub,
		Insights:  insights,
		LLMClient: llmClient,
		Analysis:  analysisCache,
	})

	go func() {
		if err := apiServer.Start(serverPort); err != nil {
			log.Printf("⚠️  API Server failed: %v", err)
		}
	}()

	// 10. Start background monitors
	log.Println("🚀 Starting background monitors...")

	a.riskMonitor = NewRiskMonitor(a.config, a.journeyRepo, a.alertRepo, a.webhookManager, a.broker, a.hub, a.redis)
	go a.riskMonitor.Start()

	a.patternRefresher = NewPatternRefresher(a.config, a.journeyRepo, a.alertRepo, a.outcomeRepo, analysisCache, a.broker)
	go a.patternRefresher.Start()

	// 11. Wait for interrupt and perform graceful shutdown
	return a.gracefulShutdown()
}

// gracefulShutdown handles graceful shutdown with timeout
func (a *App) gracefulShutdown() error {
	// Setup signal handling
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	// Wait for interrupt signal
	<-interrupt
	fmt.Println("\n🛑 Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown tasks with timeout
	shutdownComplete := make(chan struct{})
	go func() {
		// Stop background monitors
		if a.riskMonitor != nil {
			fmt.Println("📊 Stopping risk monitor...")
			a.riskMonitor.Stop()
		}
		if a.patternRefresher != nil {
			fmt.Println("🔄 Stopping pattern refresher...")
			a.patternRefresher.Stop()
		}

		// Close database connections
		if a.rawDB != nil {
			if err := a.rawDB.Close(); err != nil {
				log.Printf("Error closing bulk import connection: %v", err)
			}
		}
		if a.db != nil {
			if err := a.db.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			} else {
				fmt.Println("✅ Database connection closed")
			}
		}

		// Close Redis connection
		if a.redis != nil {
			if err := a.redis.Close(); err != nil {
				log.Printf("Error closing redis: %v", err)
			} else {
				fmt.Println("✅ Redis connection closed")
			}
		}

		close(shutdownComplete)
	}()

	// Wait for shutdown to complete or timeout
	select {
	case <-shutdownComplete:
		fmt.Println("✅ Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		fmt.Println("⚠️  Shutdown timeout exceeded, forcing exit")
		return fmt.Errorf("shutdown timeout")
	}
}
