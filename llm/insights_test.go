package llm

import (
	"context"
	"math"
	"strings"
	"testing"

	"feedback-pulse/database"
	"feedback-pulse/trajectory"
)

func week(number int, frustration, engagement float64, hidden bool) database.StudentJourney {
	return database.StudentJourney{
		WeekNumber:            number,
		FrustrationLevel:      frustration,
		EngagementLevel:       engagement,
		SatisfactionLevel:     1 - frustration,
		HiddenDissatisfaction: hidden,
	}
}

func TestCountJourneys(t *testing.T) {
	journeys := []database.StudentJourney{
		week(1, 0.2, 0.8, false),
		week(2, 0.7, 0.5, true),
		week(3, 0.9, 0.3, false),
	}

	counts := countJourneys(journeys, true)

	if counts.weeks != 3 {
		t.Errorf("expected 3 weeks, got %d", counts.weeks)
	}
	if counts.highFrustration != 2 {
		t.Errorf("expected 2 high-frustration weeks, got %d", counts.highFrustration)
	}
	if counts.lowEngagement != 1 {
		t.Errorf("expected 1 low-engagement week, got %d", counts.lowEngagement)
	}
	if counts.hiddenWeeks != 1 {
		t.Errorf("expected 1 hidden week, got %d", counts.hiddenWeeks)
	}
	if math.Abs(counts.avgFrustration-0.6) > 1e-9 {
		t.Errorf("expected avg frustration 0.6, got %v", counts.avgFrustration)
	}
	if counts.peakFrustration.WeekNumber != 3 {
		t.Errorf("expected peak frustration in week 3, got week %d", counts.peakFrustration.WeekNumber)
	}
	if counts.troughEngagement.WeekNumber != 3 {
		t.Errorf("expected weakest engagement in week 3, got week %d", counts.troughEngagement.WeekNumber)
	}
}

func TestCountJourneysEmpty(t *testing.T) {
	counts := countJourneys(nil, true)
	if counts.weeks != 0 || counts.avgFrustration != 0 {
		t.Errorf("expected zeroed counts, got %+v", counts)
	}
}

func TestFormatStudentPrompt(t *testing.T) {
	journeys := []database.StudentJourney{
		week(1, 0.2, 0.8, false),
		week(2, 0.85, 0.35, true),
	}

	prompt := FormatStudentPrompt("s-11", "go-101", journeys)

	for _, part := range []string{"s-11", "go-101", "2 weeks", "Week 2", "hidden dissatisfaction", "Intervention plan"} {
		if !strings.Contains(prompt, part) {
			t.Errorf("expected prompt to contain %q", part)
		}
	}
}

func TestFormatStudentPromptEmpty(t *testing.T) {
	prompt := FormatStudentPrompt("s-11", "go-101", nil)
	if !strings.Contains(prompt, "No feedback recorded") {
		t.Errorf("expected empty-record notice, got %q", prompt)
	}
}

func testPrediction() *trajectory.Prediction {
	days := 4
	p := &trajectory.Prediction{}
	p.Risks.FrustrationBoilingPoint = trajectory.FrustrationRisk{
		RiskLevel:       trajectory.RiskCritical,
		DaysToThreshold: &days,
		Urgency:         trajectory.UrgencyImmediate,
	}
	p.Risks.EngagementDropout = trajectory.EngagementRisk{
		DropoutRisk:      trajectory.RiskHigh,
		InterventionType: trajectory.InterventionIntensiveSupport,
	}
	p.Risks.DissatisfactionExplosion = trajectory.ExplosionRisk{
		Risk:                 trajectory.RiskMedium,
		ExplosionProbability: 0.45,
	}
	p.Windows.Primary = trajectory.Window{
		Type:       trajectory.WindowFrustration,
		Timing:     trajectory.UrgencyImmediate,
		TargetDate: "2025-03-14",
	}
	p.Confidence.Overall = 0.72
	return p
}

func TestFormatTrajectoryPrompt(t *testing.T) {
	prompt := FormatTrajectoryPrompt("s-11", testPrediction())

	for _, part := range []string{"s-11", "critical", "4 days", "intensive_support", "45%", "2025-03-14", "72%"} {
		if !strings.Contains(prompt, part) {
			t.Errorf("expected prompt to contain %q", part)
		}
	}
}

func TestRuleBasedSummary(t *testing.T) {
	journey := week(5, 0.82, 0.3, true)
	journey.HiddenConfidence = 0.7
	journey.UrgencyLevel = "high"

	summary := RuleBasedSummary(&journey, testPrediction())

	for _, part := range []string{"Week 5", "Hidden dissatisfaction", "70%", "Urgent signals", "boiling point", "4 days", "intensive_support", "2025-03-14"} {
		if !strings.Contains(summary, part) {
			t.Errorf("expected summary to contain %q, got %q", part, summary)
		}
	}
}

func TestRuleBasedSummaryNilJourney(t *testing.T) {
	if got := RuleBasedSummary(nil, nil); got != "No feedback recorded yet." {
		t.Errorf("expected empty-record notice, got %q", got)
	}
}

func TestStudentInsightDisabledFallsBack(t *testing.T) {
	ins := NewInsights(nil, nil, 0, true)

	journeys := []database.StudentJourney{week(5, 0.82, 0.3, false)}
	text, llmUsed, err := ins.StudentInsight(context.Background(), "s-11", "go-101", journeys, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if llmUsed {
		t.Error("expected rule-based path with nil client")
	}
	if !strings.Contains(text, "Week 5") {
		t.Errorf("expected rule-based summary, got %q", text)
	}
}

func TestStudentInsightEmptyHistory(t *testing.T) {
	ins := NewInsights(nil, nil, 0, false)
	_, _, err := ins.StudentInsight(context.Background(), "s-11", "go-101", nil, nil)
	if err == nil {
		t.Fatal("expected error for empty history, got nil")
	}
}
