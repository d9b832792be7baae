package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"feedback-pulse/cache"
	"feedback-pulse/database"
	"feedback-pulse/helpers"
	"feedback-pulse/trajectory"
)

// Constants for prompt building
const (
	maxPromptWords = 200
	maxWeeksShown  = 8

	highFrustrationFloor = 0.6
	lowEngagementCeiling = 0.4
)

// journeyCounts aggregates emotion statistics across a student's weeks
type journeyCounts struct {
	weeks            int
	highFrustration  int
	lowEngagement    int
	hiddenWeeks      int
	avgFrustration   float64
	avgEngagement    float64
	avgSatisfaction  float64
	peakFrustration  database.StudentJourney
	troughEngagement database.StudentJourney
}

// countJourneys processes a student's stored weeks and returns aggregated statistics
func countJourneys(journeys []database.StudentJourney, trackExtremes bool) journeyCounts {
	counts := journeyCounts{weeks: len(journeys)}
	if len(journeys) == 0 {
		return counts
	}

	peak, trough := -1.0, 2.0
	for _, j := range journeys {
		counts.avgFrustration += j.FrustrationLevel
		counts.avgEngagement += j.EngagementLevel
		counts.avgSatisfaction += j.SatisfactionLevel

		if j.FrustrationLevel >= highFrustrationFloor {
			counts.highFrustration++
		}
		if j.EngagementLevel < lowEngagementCeiling {
			counts.lowEngagement++
		}
		if j.HiddenDissatisfaction {
			counts.hiddenWeeks++
		}

		if trackExtremes {
			if j.FrustrationLevel > peak {
				peak = j.FrustrationLevel
				counts.peakFrustration = j
			}
			if j.EngagementLevel < trough {
				trough = j.EngagementLevel
				counts.troughEngagement = j
			}
		}
	}

	n := float64(len(journeys))
	counts.avgFrustration /= n
	counts.avgEngagement /= n
	counts.avgSatisfaction /= n
	return counts
}

// FormatStudentPrompt creates a deep-dive prompt over a student's stored weeks
func FormatStudentPrompt(studentID, courseID string, journeys []database.StudentJourney) string {
	var sb strings.Builder
	sb.Grow(2048 + len(journeys)*80)

	sb.WriteString(fmt.Sprintf("Run a deep dive on student **%s** in course **%s**:\n\n", studentID, courseID))

	if len(journeys) == 0 {
		sb.WriteString("No feedback recorded yet. Nothing to analyze.\n")
		return sb.String()
	}

	counts := countJourneys(journeys, true)

	// Summary statistics
	sb.WriteString(fmt.Sprintf("📊 **Emotional record (%d weeks)**:\n", counts.weeks))
	sb.WriteString(fmt.Sprintf("- Averages: frustration %s | engagement %s | satisfaction %s\n",
		helpers.FormatScore(counts.avgFrustration),
		helpers.FormatScore(counts.avgEngagement),
		helpers.FormatScore(counts.avgSatisfaction)))
	sb.WriteString(fmt.Sprintf("- High-frustration weeks: %d | low-engagement weeks: %d | hidden-dissatisfaction weeks: %d\n\n",
		counts.highFrustration, counts.lowEngagement, counts.hiddenWeeks))

	// Recent weeks
	sb.WriteString("🗓 **Recent weeks**:\n")
	start := len(journeys) - maxWeeksShown
	if start < 0 {
		start = 0
	}
	for _, j := range journeys[start:] {
		sb.WriteString(fmt.Sprintf("- Week %d: frustration %s, engagement %s",
			j.WeekNumber, helpers.FormatScore(j.FrustrationLevel), helpers.FormatScore(j.EngagementLevel)))
		if j.HiddenDissatisfaction {
			sb.WriteString(", hidden dissatisfaction")
		}
		if j.UrgencyLevel == "high" || j.UrgencyLevel == "critical" {
			sb.WriteString(fmt.Sprintf(", urgency %s", j.UrgencyLevel))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\n⚠️ Peak frustration %s in week %d; weakest engagement %s in week %d.\n",
		helpers.FormatScore(counts.peakFrustration.FrustrationLevel), counts.peakFrustration.WeekNumber,
		helpers.FormatScore(counts.troughEngagement.EngagementLevel), counts.troughEngagement.WeekNumber))

	sb.WriteString("\n**Executive Summary & Plan**:\n")
	sb.WriteString("1. **Diagnosis**: What is driving this student's emotional state?\n")
	sb.WriteString("2. **Key weeks**: Which weeks mark turning points, and what changed?\n")
	sb.WriteString("3. **Intervention plan**:\n")
	sb.WriteString("   - **Action**: CONTACT / MONITOR / ESCALATE / NONE\n")
	sb.WriteString("   - **Reason**: Grounded strictly in the record above.\n")
	sb.WriteString(fmt.Sprintf("\nAnswer for course operations staff. Maximum %d words.", maxPromptWords))

	return sb.String()
}

// FormatTrajectoryPrompt creates a prompt around a computed trajectory report
func FormatTrajectoryPrompt(studentID string, prediction *trajectory.Prediction) string {
	var sb strings.Builder
	sb.Grow(1024)

	sb.WriteString(fmt.Sprintf("A trajectory model produced this report for student **%s**. Interpret it:\n\n", studentID))

	next := prediction.Forecasts.NextWeek
	completion := prediction.Forecasts.CourseCompletion
	sb.WriteString("📈 **Forecasts**:\n")
	sb.WriteString(fmt.Sprintf("- Next week: frustration %s, engagement %s\n",
		helpers.FormatScore(next.FrustrationLevel), helpers.FormatScore(next.EngagementLevel)))
	sb.WriteString(fmt.Sprintf("- Course completion: frustration %s, engagement %s, satisfaction %s\n",
		helpers.FormatScore(completion.FrustrationLevel),
		helpers.FormatScore(completion.EngagementLevel),
		helpers.FormatScore(completion.SatisfactionLevel)))

	risks := prediction.Risks
	sb.WriteString("\n🚨 **Risk escalations**:\n")
	sb.WriteString(fmt.Sprintf("- Frustration boiling point: %s", risks.FrustrationBoilingPoint.RiskLevel))
	if risks.FrustrationBoilingPoint.DaysToThreshold != nil {
		sb.WriteString(fmt.Sprintf(" in ~%s", helpers.FormatDays(*risks.FrustrationBoilingPoint.DaysToThreshold)))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("- Engagement dropout: %s (recommended: %s)\n",
		risks.EngagementDropout.DropoutRisk, risks.EngagementDropout.InterventionType))
	sb.WriteString(fmt.Sprintf("- Hidden-to-open dissatisfaction: %s, probability %s\n",
		risks.DissatisfactionExplosion.Risk,
		helpers.FormatPercent(risks.DissatisfactionExplosion.ExplosionProbability)))

	window := prediction.Windows.Primary
	sb.WriteString(fmt.Sprintf("\n🎯 **Primary intervention window**: %s on %s (%s)\n",
		window.Type, window.TargetDate, window.Timing))
	sb.WriteString(fmt.Sprintf("Overall confidence: %s\n", helpers.FormatPercent(prediction.Confidence.Overall)))

	sb.WriteString("\nEvaluate:\n")
	sb.WriteString("1. **Most pressing risk**: Which escalation should staff act on first?\n")
	sb.WriteString("2. **Timing**: Is the primary window early enough given the forecasts?\n")
	sb.WriteString("3. **Concrete step**: One specific action for that window.\n")
	sb.WriteString(fmt.Sprintf("\nBe direct and practical. Maximum %d words.", maxPromptWords))

	return sb.String()
}

// AnalyzeStudentContext generates a quick LLM health check for one student
func AnalyzeStudentContext(client *Client, studentID string, journeys []database.StudentJourney) (string, error) {
	if len(journeys) == 0 {
		return "", fmt.Errorf("no stored feedback to analyze for %s", studentID)
	}

	var sb strings.Builder
	sb.Grow(1024)
	sb.WriteString(fmt.Sprintf("Quick emotional health check for student **%s**:\n\n", studentID))

	counts := countJourneys(journeys, false)

	sb.WriteString(fmt.Sprintf("- 🔥 Frustration: avg %s across %d weeks (%d weeks above %s)\n",
		helpers.FormatScore(counts.avgFrustration), counts.weeks,
		counts.highFrustration, helpers.FormatScore(highFrustrationFloor)))
	sb.WriteString(fmt.Sprintf("- 📉 Engagement: avg %s (%d weeks below %s)\n",
		helpers.FormatScore(counts.avgEngagement),
		counts.lowEngagement, helpers.FormatScore(lowEngagementCeiling)))
	if counts.hiddenWeeks > 0 {
		sb.WriteString(fmt.Sprintf("- 🎭 Hidden dissatisfaction flagged in %d weeks\n", counts.hiddenWeeks))
	}

	// Add balance context
	if counts.avgFrustration > counts.avgSatisfaction*1.5 {
		sb.WriteString("\nContext: frustration clearly dominates satisfaction.\n")
	} else if counts.avgSatisfaction > counts.avgFrustration*1.5 {
		sb.WriteString("\nContext: satisfaction dominates; record looks healthy.\n")
	} else {
		sb.WriteString("\nContext: mixed signals, contested record.\n")
	}

	sb.WriteString("\nQuick read:\n")
	sb.WriteString("1. Is this student at risk right now?\n")
	sb.WriteString("2. Short-term outlook (improving/worsening)?\n")
	sb.WriteString("3. Support priority score (1-10)?\n")
	sb.WriteString("Answer in under 100 words.")

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	return client.Analyze(ctx, sb.String())
}

// RuleBasedSummary builds the fallback narrative used when the LLM is
// disabled, cooling down, or unreachable.
func RuleBasedSummary(journey *database.StudentJourney, prediction *trajectory.Prediction) string {
	if journey == nil {
		return "No feedback recorded yet."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Week %d: frustration %s, engagement %s, satisfaction %s.",
		journey.WeekNumber,
		helpers.FormatScore(journey.FrustrationLevel),
		helpers.FormatScore(journey.EngagementLevel),
		helpers.FormatScore(journey.SatisfactionLevel)))

	if journey.HiddenDissatisfaction {
		sb.WriteString(fmt.Sprintf(" Hidden dissatisfaction suspected (confidence %s).",
			helpers.FormatPercent(journey.HiddenConfidence)))
	}
	if journey.UrgencyLevel == "high" || journey.UrgencyLevel == "critical" {
		sb.WriteString(" Urgent signals present in the latest feedback.")
	}

	if prediction != nil {
		fru := prediction.Risks.FrustrationBoilingPoint
		if fru.RiskLevel == trajectory.RiskHigh || fru.RiskLevel == trajectory.RiskCritical {
			sb.WriteString(" Frustration is projected to reach the boiling point")
			if fru.DaysToThreshold != nil {
				sb.WriteString(fmt.Sprintf(" in ~%s", helpers.FormatDays(*fru.DaysToThreshold)))
			}
			sb.WriteString(".")
		}

		drop := prediction.Risks.EngagementDropout
		if drop.DropoutRisk == trajectory.RiskHigh || drop.DropoutRisk == trajectory.RiskCritical {
			sb.WriteString(fmt.Sprintf(" Dropout risk is %s; recommended response: %s.",
				drop.DropoutRisk, drop.InterventionType))
		}

		window := prediction.Windows.Primary
		sb.WriteString(fmt.Sprintf(" Suggested intervention: %s by %s.", window.Type, window.TargetDate))
	}

	return sb.String()
}

// Insights produces operator-facing narratives, degrading to rule-based
// summaries when the LLM is disabled, cooling down, or failing.
type Insights struct {
	client   *Client
	cache    *cache.AnalysisCache
	cooldown time.Duration
	enabled  bool
}

// NewInsights creates the insight service. A nil client or enabled=false
// pins it to rule-based summaries.
func NewInsights(client *Client, analysisCache *cache.AnalysisCache, cooldown time.Duration, enabled bool) *Insights {
	return &Insights{
		client:   client,
		cache:    analysisCache,
		cooldown: cooldown,
		enabled:  enabled && client != nil,
	}
}

// StudentInsight narrates one student's record. The per-student cooldown
// keeps repeat dashboard loads from burning tokens on the same data. The
// second return reports whether the LLM produced the text.
func (ins *Insights) StudentInsight(ctx context.Context, studentID, courseID string, journeys []database.StudentJourney, prediction *trajectory.Prediction) (string, bool, error) {
	if len(journeys) == 0 {
		return "", false, fmt.Errorf("no stored feedback for %s in %s", studentID, courseID)
	}

	latest := journeys[len(journeys)-1]
	fallback := RuleBasedSummary(&latest, prediction)

	if !ins.enabled {
		return fallback, false, nil
	}

	scope := studentID + ":" + courseID
	if ins.cache.InInsightCooldown(ctx, scope) {
		return fallback, false, nil
	}

	text, err := ins.client.Analyze(ctx, FormatStudentPrompt(studentID, courseID, journeys))
	if err != nil {
		log.Printf("⚠️  LLM insight failed, using rule-based summary: %v", err)
		return fallback, false, nil
	}

	_ = ins.cache.SetInsightCooldown(ctx, scope, ins.cooldown)
	return text, true, nil
}
