package trajectory

import (
	"math"
	"reflect"
	"testing"
	"time"

	"feedback-pulse/emotion"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestPredictShortHistoryDefaults(t *testing.T) {
	tests := []struct {
		name    string
		history emotion.History
	}{
		{name: "empty history", history: nil},
		{name: "single week", history: emotion.History{weekEntry(1, 0.9, 0.1, 0.1, true)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testPredictor().Predict(tt.history)

			for name, f := range map[string]Forecast{
				"next_week":         got.Forecasts.NextWeek,
				"two_week":          got.Forecasts.TwoWeek,
				"course_completion": got.Forecasts.CourseCompletion,
			} {
				if f.FrustrationLevel != 0.5 || f.EngagementLevel != 0.5 ||
					f.ConfidenceLevel != 0.5 || f.SatisfactionLevel != 0.5 ||
					f.EmotionalTemperature != 0.5 {
					t.Errorf("expected flat 0.5 forecast for %s, got %+v", name, f)
				}
			}

			fru := got.Risks.FrustrationBoilingPoint
			if fru.RiskLevel != RiskUnknown || fru.Urgency != UrgencyRoutine ||
				fru.Trend != CurveInsufficientData || fru.DaysToThreshold != nil {
				t.Errorf("expected unknown frustration risk, got %+v", fru)
			}
			eng := got.Risks.EngagementDropout
			if eng.DropoutRisk != RiskUnknown || eng.InterventionType != InterventionRoutineMonitoring ||
				eng.WeeksToDisengagement != nil || eng.DaysToIntervention != nil {
				t.Errorf("expected unknown dropout risk, got %+v", eng)
			}
			exp := got.Risks.DissatisfactionExplosion
			if exp.Risk != RiskUnknown || exp.Approach != ApproachRoutine ||
				exp.Timing != UrgencyRoutine || exp.DaysToExplosion != nil {
				t.Errorf("expected unknown explosion risk, got %+v", exp)
			}

			if got.Windows.Secondary != nil {
				t.Errorf("expected no secondary window, got %+v", got.Windows.Secondary)
			}
			primary := got.Windows.Primary
			if primary.Type != WindowRoutineCheckIn || primary.Timing != UrgencyRoutine ||
				primary.DaysFromNow != routineCheckInDays || primary.Confidence != routineConfidence {
				t.Errorf("expected routine check-in window, got %+v", primary)
			}
			if primary.TargetDate != "2024-03-15" {
				t.Errorf("expected target date 2024-03-15, got %s", primary.TargetDate)
			}

			conf := got.Confidence
			for name, v := range map[string]float64{
				"next_week":                 conf.NextWeek,
				"two_week":                  conf.TwoWeek,
				"course_completion":         conf.CourseCompletion,
				"frustration_threshold":     conf.FrustrationThreshold,
				"engagement_dropout":        conf.EngagementDropout,
				"dissatisfaction_explosion": conf.DissatisfactionExplosion,
				"intervention_windows":      conf.InterventionWindows,
				"overall":                   conf.Overall,
			} {
				if v != 0.5 {
					t.Errorf("expected confidence 0.5 for %s, got %v", name, v)
				}
			}
		})
	}
}

func TestPredictRisingFrustration(t *testing.T) {
	history := emotion.History{
		weekEntry(1, 0.3, 0.8, 0.6, false),
		weekEntry(2, 0.5, 0.8, 0.6, false),
		weekEntry(3, 0.7, 0.8, 0.6, false),
	}

	got := testPredictor().Predict(history)

	next := got.Forecasts.NextWeek
	if !within(next.FrustrationLevel, 0.9, 1e-6) {
		t.Errorf("expected next-week frustration 0.9, got %v", next.FrustrationLevel)
	}
	if !within(next.EngagementLevel, 0.8, 1e-6) {
		t.Errorf("expected next-week engagement 0.8, got %v", next.EngagementLevel)
	}
	if !within(next.EmotionalTemperature, 0.69, 1e-6) {
		t.Errorf("expected next-week temperature 0.69, got %v", next.EmotionalTemperature)
	}
	if !within(got.Forecasts.TwoWeek.FrustrationLevel, 1.0, 1e-6) {
		t.Errorf("expected two-week frustration clamped to 1, got %v", got.Forecasts.TwoWeek.FrustrationLevel)
	}

	fru := got.Risks.FrustrationBoilingPoint
	if fru.DaysToThreshold == nil {
		t.Fatal("expected days to threshold, got nil")
	}
	if *fru.DaysToThreshold != 3 {
		t.Errorf("expected 3 days to threshold, got %d", *fru.DaysToThreshold)
	}
	if fru.RiskLevel != RiskCritical {
		t.Errorf("expected risk critical, got %s", fru.RiskLevel)
	}
	if fru.Urgency != UrgencyImmediate {
		t.Errorf("expected urgency immediate, got %s", fru.Urgency)
	}
	if fru.Trend != CurveSteadyIncrease {
		t.Errorf("expected trend steady_increase, got %s", fru.Trend)
	}
	if !within(fru.Confidence, 0.79, 1e-6) {
		t.Errorf("expected fit confidence 0.79, got %v", fru.Confidence)
	}

	primary := got.Windows.Primary
	if primary.Type != WindowFrustration {
		t.Errorf("expected frustration window, got %s", primary.Type)
	}
	if primary.DaysFromNow != 3 || primary.Timing != UrgencyImmediate {
		t.Errorf("expected immediate window in 3 days, got %+v", primary)
	}
	if primary.TargetDate != "2024-03-04" {
		t.Errorf("expected target date 2024-03-04, got %s", primary.TargetDate)
	}
	if got.Windows.Secondary != nil {
		t.Errorf("expected no secondary window, got %+v", got.Windows.Secondary)
	}

	if !within(got.Confidence.Overall, 0.686, 1e-6) {
		t.Errorf("expected overall confidence 0.686, got %v", got.Confidence.Overall)
	}
	if !within(got.Confidence.NextWeek, 0.8232, 1e-6) {
		t.Errorf("expected next-week confidence 0.8232, got %v", got.Confidence.NextWeek)
	}
}

func TestPredictStableStudent(t *testing.T) {
	history := emotion.History{
		weekEntry(1, 0.2, 0.8, 0.8, false),
		weekEntry(2, 0.2, 0.8, 0.8, false),
		weekEntry(3, 0.2, 0.8, 0.8, false),
		weekEntry(4, 0.2, 0.8, 0.8, false),
	}

	got := testPredictor().Predict(history)

	fru := got.Risks.FrustrationBoilingPoint
	if fru.RiskLevel != RiskMinimal || fru.Urgency != UrgencyRoutine {
		t.Errorf("expected minimal routine frustration risk, got %+v", fru)
	}
	if fru.Trend != CurveStable {
		t.Errorf("expected stable trend, got %s", fru.Trend)
	}
	if fru.DaysToThreshold != nil {
		t.Errorf("expected no threshold crossing, got %d", *fru.DaysToThreshold)
	}

	eng := got.Risks.EngagementDropout
	if eng.DropoutRisk != RiskLow || eng.InterventionType != InterventionPreventiveCheckIn {
		t.Errorf("expected low dropout risk, got %+v", eng)
	}

	if !within(got.Forecasts.NextWeek.FrustrationLevel, 0.2, 1e-6) {
		t.Errorf("expected flat frustration forecast 0.2, got %v", got.Forecasts.NextWeek.FrustrationLevel)
	}

	primary := got.Windows.Primary
	if primary.Type != WindowRoutineCheckIn || primary.DaysFromNow != routineCheckInDays {
		t.Errorf("expected routine fallback window, got %+v", primary)
	}
}

func TestPredictEngagementDecline(t *testing.T) {
	history := emotion.History{
		weekEntry(1, 0.2, 0.95, 0.7, false),
		weekEntry(2, 0.2, 0.8, 0.7, false),
		weekEntry(3, 0.2, 0.65, 0.7, false),
		weekEntry(4, 0.2, 0.5, 0.7, false),
	}

	got := testPredictor().Predict(history)

	eng := got.Risks.EngagementDropout
	if eng.DropoutRisk != RiskHigh {
		t.Errorf("expected high dropout risk, got %s", eng.DropoutRisk)
	}
	if eng.InterventionType != InterventionIntensiveSupport {
		t.Errorf("expected intensive_support, got %s", eng.InterventionType)
	}
	if eng.WeeksToDisengagement == nil {
		t.Fatal("expected weeks to disengagement, got nil")
	}
	if !within(*eng.WeeksToDisengagement, 4.0/3.0, 1e-6) {
		t.Errorf("expected 1.333 weeks to disengagement, got %v", *eng.WeeksToDisengagement)
	}
	if eng.DaysToIntervention == nil {
		t.Fatal("expected days to intervention, got nil")
	}
	if *eng.DaysToIntervention != 2 {
		t.Errorf("expected 2 days to intervention, got %d", *eng.DaysToIntervention)
	}

	primary := got.Windows.Primary
	if primary.Type != WindowEngagement {
		t.Errorf("expected engagement window, got %s", primary.Type)
	}
	if primary.DaysFromNow != 2 || primary.Timing != UrgencyWithinWeek {
		t.Errorf("expected within_week window in 2 days, got %+v", primary)
	}
	if primary.TargetDate != "2024-03-03" {
		t.Errorf("expected target date 2024-03-03, got %s", primary.TargetDate)
	}
}

func TestPredictHiddenExplosionTiers(t *testing.T) {
	tests := []struct {
		name         string
		history      emotion.History
		wantRisk     RiskLevel
		wantProb     float64
		wantDays     *int
		wantApproach OutreachApproach
		wantTiming   Urgency
	}{
		{
			name: "three hidden weeks with rising frustration and steady satisfaction",
			history: emotion.History{
				weekEntry(1, 0.3, 0.7, 0.7, true),
				weekEntry(2, 0.4, 0.7, 0.75, true),
				weekEntry(3, 0.5, 0.7, 0.72, true),
			},
			wantRisk:     RiskHigh,
			wantProb:     0.8,
			wantDays:     intPtr(8),
			wantApproach: ApproachEmpathetic,
			wantTiming:   UrgencyNextWeek,
		},
		{
			name: "long hidden streak caps probability and pulls timing in",
			history: emotion.History{
				weekEntry(1, 0.3, 0.7, 0.7, true),
				weekEntry(2, 0.35, 0.7, 0.7, true),
				weekEntry(3, 0.4, 0.7, 0.7, true),
				weekEntry(4, 0.45, 0.7, 0.7, true),
				weekEntry(5, 0.5, 0.7, 0.7, true),
				weekEntry(6, 0.55, 0.7, 0.7, true),
			},
			wantRisk:     RiskHigh,
			wantProb:     0.9,
			wantDays:     intPtr(2),
			wantApproach: ApproachEmpathetic,
			wantTiming:   UrgencyImmediate,
		},
		{
			name: "two hidden weeks with rising frustration",
			history: emotion.History{
				weekEntry(1, 0.3, 0.7, 0.4, false),
				weekEntry(2, 0.4, 0.7, 0.45, true),
				weekEntry(3, 0.5, 0.7, 0.42, true),
			},
			wantRisk:     RiskMedium,
			wantProb:     0.5,
			wantDays:     intPtr(17),
			wantApproach: ApproachIndirect,
			wantTiming:   UrgencyNextWeek,
		},
		{
			name: "single hidden week without rising frustration",
			history: emotion.History{
				weekEntry(1, 0.5, 0.7, 0.6, false),
				weekEntry(2, 0.4, 0.7, 0.6, false),
				weekEntry(3, 0.3, 0.7, 0.6, true),
			},
			wantRisk:     RiskLow,
			wantProb:     0.2,
			wantDays:     intPtr(26),
			wantApproach: ApproachSubtle,
			wantTiming:   UrgencyNextWeek,
		},
		{
			name: "no hidden weeks",
			history: emotion.History{
				weekEntry(1, 0.3, 0.7, 0.6, false),
				weekEntry(2, 0.4, 0.7, 0.6, false),
				weekEntry(3, 0.5, 0.7, 0.6, false),
			},
			wantRisk:     RiskMinimal,
			wantProb:     0.1,
			wantDays:     nil,
			wantApproach: ApproachRoutine,
			wantTiming:   UrgencyRoutine,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testPredictor().Predict(tt.history).Risks.DissatisfactionExplosion

			if got.Risk != tt.wantRisk {
				t.Errorf("expected risk %s, got %s", tt.wantRisk, got.Risk)
			}
			if !within(got.ExplosionProbability, tt.wantProb, 1e-9) {
				t.Errorf("expected probability %v, got %v", tt.wantProb, got.ExplosionProbability)
			}
			if tt.wantDays == nil {
				if got.DaysToExplosion != nil {
					t.Errorf("expected no explosion days, got %d", *got.DaysToExplosion)
				}
			} else {
				if got.DaysToExplosion == nil {
					t.Fatalf("expected %d explosion days, got nil", *tt.wantDays)
				}
				if *got.DaysToExplosion != *tt.wantDays {
					t.Errorf("expected %d explosion days, got %d", *tt.wantDays, *got.DaysToExplosion)
				}
			}
			if got.Approach != tt.wantApproach {
				t.Errorf("expected approach %s, got %s", tt.wantApproach, got.Approach)
			}
			if got.Timing != tt.wantTiming {
				t.Errorf("expected timing %s, got %s", tt.wantTiming, got.Timing)
			}
		})
	}
}

func TestPredictCourseCompletionRecentWindow(t *testing.T) {
	// An early spike followed by three calm weeks: near the course end
	// the completion forecast should trust only the recent window.
	history := emotion.History{
		weekEntry(6, 0.6, 0.5, 0.5, false),
		weekEntry(7, 0.7, 0.5, 0.5, false),
		weekEntry(8, 0.8, 0.5, 0.5, false),
		weekEntry(9, 0.2, 0.5, 0.5, false),
		weekEntry(10, 0.2, 0.5, 0.5, false),
		weekEntry(11, 0.2, 0.5, 0.5, false),
	}

	got := testPredictor().Predict(history)

	if !within(got.Forecasts.CourseCompletion.FrustrationLevel, 0.2, 1e-6) {
		t.Errorf("expected course-end frustration 0.2, got %v", got.Forecasts.CourseCompletion.FrustrationLevel)
	}
}

func TestPredictConfidenceCeilings(t *testing.T) {
	history := make(emotion.History, 0, 12)
	for week := 1; week <= 12; week++ {
		history = append(history, weekEntry(week, 0.5, 0.5, 0.5, false))
	}

	got := testPredictor().Predict(history).Confidence

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{name: "overall", got: got.Overall, want: 0.97},
		{name: "next_week hits ceiling", got: got.NextWeek, want: 0.95},
		{name: "two_week hits ceiling", got: got.TwoWeek, want: 0.9},
		{name: "course_completion scales down", got: got.CourseCompletion, want: 0.776},
		{name: "frustration_threshold hits ceiling", got: got.FrustrationThreshold, want: 0.9},
		{name: "engagement_dropout hits ceiling", got: got.EngagementDropout, want: 0.85},
		{name: "dissatisfaction_explosion hits ceiling", got: got.DissatisfactionExplosion, want: 0.8},
		{name: "intervention_windows hits ceiling", got: got.InterventionWindows, want: 0.85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !within(tt.got, tt.want, 1e-6) {
				t.Errorf("expected %v, got %v", tt.want, tt.got)
			}
		})
	}
}

func TestPickWindowsOrdering(t *testing.T) {
	tests := []struct {
		name              string
		risks             RiskEscalations
		wantPrimaryType   WindowType
		wantPrimaryDays   int
		wantSecondaryType WindowType
		wantSecondaryDays int
		wantNoSecondary   bool
	}{
		{
			name: "urgency rank wins",
			risks: RiskEscalations{
				FrustrationBoilingPoint:  FrustrationRisk{DaysToThreshold: intPtr(5), Urgency: UrgencyWithin24Hours, Confidence: 0.7},
				EngagementDropout:        EngagementRisk{DaysToIntervention: intPtr(3), Confidence: 0.9},
				DissatisfactionExplosion: ExplosionRisk{DaysToExplosion: intPtr(2), Timing: UrgencyThisWeek, Confidence: 0.8},
			},
			wantPrimaryType:   WindowFrustration,
			wantPrimaryDays:   5,
			wantSecondaryType: WindowDissatisfaction,
			wantSecondaryDays: 2,
		},
		{
			name: "sooner day breaks urgency ties",
			risks: RiskEscalations{
				EngagementDropout:        EngagementRisk{DaysToIntervention: intPtr(2), Confidence: 0.6},
				DissatisfactionExplosion: ExplosionRisk{DaysToExplosion: intPtr(5), Timing: UrgencyThisWeek, Confidence: 0.9},
			},
			wantPrimaryType:   WindowEngagement,
			wantPrimaryDays:   2,
			wantSecondaryType: WindowDissatisfaction,
			wantSecondaryDays: 5,
		},
		{
			name: "confidence breaks day ties",
			risks: RiskEscalations{
				EngagementDropout:        EngagementRisk{DaysToIntervention: intPtr(4), Confidence: 0.9},
				DissatisfactionExplosion: ExplosionRisk{DaysToExplosion: intPtr(4), Timing: UrgencyThisWeek, Confidence: 0.8},
			},
			wantPrimaryType:   WindowEngagement,
			wantPrimaryDays:   4,
			wantSecondaryType: WindowDissatisfaction,
			wantSecondaryDays: 4,
		},
		{
			name: "distant frustration estimate is not actionable",
			risks: RiskEscalations{
				FrustrationBoilingPoint: FrustrationRisk{DaysToThreshold: intPtr(9), Urgency: UrgencyWithinWeek, Confidence: 0.7},
			},
			wantPrimaryType: WindowRoutineCheckIn,
			wantPrimaryDays: routineCheckInDays,
			wantNoSecondary: true,
		},
		{
			name: "distant engagement window downgrades to routine timing",
			risks: RiskEscalations{
				EngagementDropout: EngagementRisk{DaysToIntervention: intPtr(10), Confidence: 0.6},
			},
			wantPrimaryType: WindowEngagement,
			wantPrimaryDays: 10,
			wantNoSecondary: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickWindows(tt.risks, testNow)

			if got.Primary.Type != tt.wantPrimaryType {
				t.Errorf("expected primary %s, got %s", tt.wantPrimaryType, got.Primary.Type)
			}
			if got.Primary.DaysFromNow != tt.wantPrimaryDays {
				t.Errorf("expected primary in %d days, got %d", tt.wantPrimaryDays, got.Primary.DaysFromNow)
			}
			wantDate := testNow.AddDate(0, 0, tt.wantPrimaryDays).Format(dateLayout)
			if got.Primary.TargetDate != wantDate {
				t.Errorf("expected target date %s, got %s", wantDate, got.Primary.TargetDate)
			}

			if tt.wantNoSecondary {
				if got.Secondary != nil {
					t.Errorf("expected no secondary window, got %+v", got.Secondary)
				}
				return
			}
			if got.Secondary == nil {
				t.Fatal("expected secondary window, got nil")
			}
			if got.Secondary.Type != tt.wantSecondaryType || got.Secondary.DaysFromNow != tt.wantSecondaryDays {
				t.Errorf("expected secondary %s in %d days, got %+v",
					tt.wantSecondaryType, tt.wantSecondaryDays, got.Secondary)
			}
		})
	}
}

func TestPredictDeterministic(t *testing.T) {
	history := emotion.History{
		weekEntry(1, 0.3, 0.8, 0.6, false),
		weekEntry(2, 0.5, 0.7, 0.55, true),
		weekEntry(3, 0.7, 0.6, 0.5, true),
	}

	p := testPredictor()
	first := p.Predict(history)
	second := p.Predict(history)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical predictions, got\n%+v\nand\n%+v", first, second)
	}
}

func TestPredictDoesNotMutateHistory(t *testing.T) {
	history := emotion.History{
		weekEntry(3, 0.7, 0.6, 0.5, false),
		weekEntry(1, 0.3, 0.8, 0.7, false),
		weekEntry(2, 0.5, 0.7, 0.6, false),
	}

	testPredictor().Predict(history)

	wantWeeks := []int{3, 1, 2}
	for i, entry := range history {
		if entry.WeekNumber != wantWeeks[i] {
			t.Fatalf("history reordered: expected week %d at index %d, got %d",
				wantWeeks[i], i, entry.WeekNumber)
		}
	}
}

func testPredictor() *Predictor {
	return &Predictor{now: func() time.Time { return testNow }}
}

func weekEntry(week int, frustration, engagement, satisfaction float64, hidden bool) emotion.HistoryEntry {
	return emotion.HistoryEntry{
		WeekNumber: week,
		Profile: emotion.Profile{
			FrustrationLevel:      frustration,
			EngagementLevel:       engagement,
			ConfidenceLevel:       0.6,
			SatisfactionLevel:     satisfaction,
			HiddenDissatisfaction: hidden,
		},
	}
}

func within(got, want, tolerance float64) bool {
	return math.Abs(got-want) < tolerance
}
