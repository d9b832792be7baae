package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

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

// Server handles HTTP API requests
type Server struct {
	cfg       *config.Config
	journeys  *database.JourneyRepository
	alerts    *alertsrepo.Repository
	webhooks  *webhooksrepo.Repository
	outcomes  *outcomesrepo.Repository
	rawDB     *database.DB
	ingestSvc *ingest.Service
	sources   *ingest.SourceManager
	processor *batch.Processor
	webhookMq *notifications.WebhookManager
	broker    *realtime.Broker
	hub       *websocket.Hub
	insights  *llm.Insights
	llmClient *llm.Client
	analysis  *cache.AnalysisCache
}

// Deps carries everything the API server needs. The app wires it once
// at startup.
type Deps struct {
	Config    *config.Config
	Journeys  *database.JourneyRepository
	Alerts    *alertsrepo.Repository
	Webhooks  *webhooksrepo.Repository
	Outcomes  *outcomesrepo.Repository
	RawDB     *database.DB
	IngestSvc *ingest.Service
	Sources   *ingest.SourceManager
	Processor *batch.Processor
	WebhookMq *notifications.WebhookManager
	Broker    *realtime.Broker
	Hub       *websocket.Hub
	Insights  *llm.Insights
	LLMClient *llm.Client
	Analysis  *cache.AnalysisCache
}

// NewServer creates a new API server instance
func NewServer(deps Deps) *Server {
	return &Server{
		cfg:       deps.Config,
		journeys:  deps.Journeys,
		alerts:    deps.Alerts,
		webhooks:  deps.Webhooks,
		outcomes:  deps.Outcomes,
		rawDB:     deps.RawDB,
		ingestSvc: deps.IngestSvc,
		sources:   deps.Sources,
		processor: deps.Processor,
		webhookMq: deps.WebhookMq,
		broker:    deps.Broker,
		hub:       deps.Hub,
		insights:  deps.Insights,
		llmClient: deps.LLMClient,
		analysis:  deps.Analysis,
	}
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	mux := http.NewServeMux()

	// Register routes
	mux.Handle("GET /api/events", s.broker) // SSE Endpoint
	mux.HandleFunc("GET /ws/alerts", s.handleAlertsWS)
	mux.HandleFunc("GET /api/dashboard/stream", s.handleDashboardSSE)

	// Feedback Analysis Routes
	mux.HandleFunc("POST /api/feedback/analyze", s.handleAnalyzeFeedback)
	mux.HandleFunc("POST /api/feedback/batch-analyze", s.handleBatchAnalyze)
	mux.HandleFunc("POST /api/feedback/import", s.handleImportFeedback)
	mux.HandleFunc("POST /api/feedback/backfill", s.handleBackfillFeedback)
	mux.HandleFunc("POST /api/trajectories/batch", s.handleBatchTrajectories)

	// Student Routes
	mux.HandleFunc("GET /api/students/{id}/journey", s.handleGetJourney)
	mux.HandleFunc("GET /api/students/{id}/trajectory", s.handleGetTrajectory)
	mux.HandleFunc("GET /api/students/{id}/similar", s.handleGetSimilarStudents)
	mux.HandleFunc("GET /api/students/{id}/insight", s.handleGetStudentInsight)
	mux.HandleFunc("GET /api/students/{id}/insight/stream", s.handleStudentInsightStream)

	// Pattern Routes
	mux.HandleFunc("GET /api/patterns/similar", s.handleGetSimilarStudents)

	// Course Routes
	mux.HandleFunc("GET /api/courses", s.handleGetActiveCourses)
	mux.HandleFunc("GET /api/courses/{id}/stats", s.handleGetCourseStats)
	mux.HandleFunc("GET /api/courses/{id}/trends", s.handleGetWeeklyTrends)
	mux.HandleFunc("GET /api/courses/{id}/aspects", s.handleGetAspectAverages)
	mux.HandleFunc("GET /api/courses/{id}/risk-summary", s.handleGetRiskSummary)
	mux.HandleFunc("GET /api/courses/{id}/outcomes", s.handleGetCourseOutcomes)

	// Alert Routes
	mux.HandleFunc("GET /api/alerts", s.handleGetAlerts)
	mux.HandleFunc("GET /api/alerts/counts", s.handleGetAlertCounts)
	mux.HandleFunc("POST /api/alerts/{id}/acknowledge", s.handleAcknowledgeAlert)

	// Intervention Routes
	mux.HandleFunc("GET /api/interventions", s.handleGetInterventions)
	mux.HandleFunc("POST /api/interventions", s.handleCreateIntervention)
	mux.HandleFunc("PUT /api/interventions/{id}/status", s.handleUpdateInterventionStatus)

	// Config Routes
	mux.HandleFunc("GET /api/config", s.handleGetConfig)

	// Webhook Management Routes
	mux.HandleFunc("GET /api/config/webhooks", s.handleGetWebhooks)
	mux.HandleFunc("POST /api/config/webhooks", s.handleCreateWebhook)
	mux.HandleFunc("PUT /api/config/webhooks/{id}", s.handleUpdateWebhook)
	mux.HandleFunc("DELETE /api/config/webhooks/{id}", s.handleDeleteWebhook)
	mux.HandleFunc("GET /api/config/webhooks/{id}/deliveries", s.handleGetWebhookDeliveries)

	mux.HandleFunc("GET /health", s.handleHealth)

	// Serve Static Files (Public UI)
	fs := http.FileServer(http.Dir("./public"))
	mux.Handle("GET /", fs)

	// Add middleware
	handler := s.corsMiddleware(s.loggingMiddleware(mux))

	serverAddr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Printf("🚀 API Server starting on %s", serverAddr)
	return http.ListenAndServe(serverAddr, handler)
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// Handlers are distributed across multiple files:
// - handlers_feedback.go: Analysis and ingestion (analyze, batch, import)
// - handlers_students.go: Per-student journeys, trajectories, insights
// - handlers_courses.go: Course dashboards and pattern outcomes
// - handlers_alerts.go: Alerts, interventions, WebSocket subscription
// - handlers_webhooks.go: Webhook management, health check
