package app

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"feedback-pulse/cache"
	"feedback-pulse/config"
	"feedback-pulse/database"
	alertsrepo "feedback-pulse/database/alerts"
	models "feedback-pulse/database/models_pkg"
	outcomesrepo "feedback-pulse/database/outcomes"
	"feedback-pulse/patterns"
	"feedback-pulse/realtime"
)

// refreshCorpusLimit caps how many finished journeys one refresh pass
// clusters per course
const refreshCorpusLimit = 1000

// PatternRefresher periodically reclusters completed journeys per course
// and stores the outcome statistics the dashboards and the similarity
// endpoint read
type PatternRefresher struct {
	cfg      *config.Config
	journeys *database.JourneyRepository
	alerts   *alertsrepo.Repository
	outcomes *outcomesrepo.Repository
	analysis *cache.AnalysisCache
	broker   *realtime.Broker
	done     chan bool
}

// NewPatternRefresher creates a new pattern refresher
func NewPatternRefresher(
	cfg *config.Config,
	journeys *database.JourneyRepository,
	alerts *alertsrepo.Repository,
	outcomes *outcomesrepo.Repository,
	analysis *cache.AnalysisCache,
	broker *realtime.Broker,
) *PatternRefresher {
	return &PatternRefresher{
		cfg:      cfg,
		journeys: journeys,
		alerts:   alerts,
		outcomes: outcomes,
		analysis: analysis,
		broker:   broker,
		done:     make(chan bool),
	}
}

// Start begins the refresh loop
func (pr *PatternRefresher) Start() {
	log.Println("🔄 Pattern Refresher started")

	interval := time.Duration(pr.cfg.Analysis.PatternRefreshIntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial run
	pr.refresh()

	for {
		select {
		case <-ticker.C:
			pr.refresh()
		case <-pr.done:
			log.Println("🔄 Pattern Refresher stopped")
			return
		}
	}
}

// Stop stops the refresh loop
func (pr *PatternRefresher) Stop() {
	close(pr.done)
}

// refresh recomputes cluster outcome statistics for every course with
// feedback inside the pattern lookback window
func (pr *PatternRefresher) refresh() {
	since := time.Now().Add(-database.PatternLookbackAge)

	courses, err := pr.journeys.GetActiveCourses(since)
	if err != nil {
		log.Printf("❌ Pattern refresh: %v", err)
		return
	}

	refreshed := 0
	for _, courseID := range courses {
		if err := pr.refreshCourse(courseID); err != nil {
			log.Printf("❌ Pattern refresh for %s: %v", courseID, err)
			continue
		}
		refreshed++
	}

	if refreshed > 0 {
		if err := pr.journeys.RefreshWeeklyEmotions(); err != nil {
			log.Printf("⚠️  Weekly emotions view refresh failed: %v", err)
		}
		log.Printf("✅ Pattern outcomes refreshed for %d courses", refreshed)

		pr.broker.Broadcast(realtime.EventPatternRefresh, map[string]interface{}{
			"courses_refreshed": refreshed,
			"refreshed_at":      time.Now(),
		})
	}
}

// refreshCourse rebuilds the outcome rows of one course from the final
// journey of every student who completed or dropped it
func (pr *PatternRefresher) refreshCourse(courseID string) error {
	finals, err := pr.journeys.GetCompletedFinalJourneys(courseID, refreshCorpusLimit)
	if err != nil {
		return err
	}
	if len(finals) == 0 {
		return nil
	}

	worked, err := pr.alerts.GetSuccessfulInterventionTypes(courseID)
	if err != nil {
		return err
	}

	matches := make([]patterns.Match, 0, len(finals))
	for _, journey := range finals {
		successes := worked[journey.StudentID]
		if successes == nil {
			successes = []string{}
		}
		matches = append(matches, patterns.Match{
			StudentID: journey.StudentID,
			Profile:   database.ProfileOf(journey),
			// Recomputed against the cluster prototype below
			Similarity: 1.0,
			Outcome: patterns.Outcome{
				CompletionStatus:        journey.CompletionStatus,
				SuccessfulInterventions: successes,
			},
		})
	}

	clusters := patterns.Cluster(matches)
	now := time.Now()

	rows := make([]models.PatternOutcome, 0, len(clusters))
	for i := range clusters {
		cluster := &clusters[i]

		// Cluster cohesion: every member scored against the opener
		prototype := cluster.Members[0].Profile
		total := 0.0
		for j := range cluster.Members {
			cluster.Members[j].Similarity = patterns.Similarity(prototype, cluster.Members[j].Profile)
			total += cluster.Members[j].Similarity
		}
		cluster.AvgSimilarity = total / float64(len(cluster.Members))

		prediction := patterns.PredictOutcomes([]patterns.PatternCluster{*cluster})

		recommended, err := json.Marshal(prediction.RecommendedInterventions)
		if err != nil {
			recommended = []byte("[]")
		}

		rows = append(rows, models.PatternOutcome{
			CourseID:                 courseID,
			ClusterID:                cluster.ID,
			SignaturePrototype:       cluster.Signature,
			MemberCount:              len(cluster.Members),
			AvgSimilarity:            cluster.AvgSimilarity,
			DropoutRisk:              prediction.DropoutRisk,
			InterventionSuccess:      prediction.InterventionSuccess,
			RecommendedInterventions: string(recommended),
			ComputedAt:               now,
		})
	}

	if err := pr.outcomes.ReplaceCourseOutcomes(courseID, rows); err != nil {
		return err
	}

	// Course-level aggregate for dashboards, refreshed alongside the rows
	coursePrediction := patterns.PredictOutcomes(clusters)
	ttl := 2 * time.Duration(pr.cfg.Analysis.PatternRefreshIntervalMinutes) * time.Minute
	if err := pr.analysis.SetOutcomes(context.Background(), courseID, "course", &coursePrediction, ttl); err == nil {
		log.Printf("📦 Cached course outcome aggregate for %s", courseID)
	}

	return nil
}
