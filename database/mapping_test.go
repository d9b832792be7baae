package database

import (
	"reflect"
	"testing"

	"feedback-pulse/emotion"
)

func sampleProfile() emotion.Profile {
	return emotion.Profile{
		FrustrationLevel:  0.72,
		EngagementLevel:   0.55,
		ConfidenceLevel:   0.34,
		SatisfactionLevel: 0.61,

		FrustrationType:      emotion.FrustrationTechnical,
		FrustrationIntensity: emotion.IntensitySevere,
		FrustrationTrend:     emotion.TrendIncreasing,

		UrgencyLevel:    emotion.UrgencyHigh,
		UrgencySignals:  []string{"exclamation_density", "direct_request"},
		ResponseUrgency: emotion.RespondSameDay,

		EmotionalTemperature: 0.8,
		EmotionalVolatility:  0.25,
		EmotionalTrajectory:  emotion.TrajectoryDeclining,

		HiddenDissatisfaction: true,
		HiddenConfidence:      0.5,
		HiddenSignals:         []string{"faint_praise"},
		PolitenessMask:        0.4,

		DropoutRiskEmotions: []string{"overwhelmed"},
		RecoveryIndicators:  []string{},
		EmotionalTriggers:   []string{"technical_failures"},

		EmotionCoherence:    0.9,
		Authenticity:        0.7,
		EmotionalComplexity: emotion.ComplexityMixed,
	}
}

func TestApplyProfileRoundTrip(t *testing.T) {
	journey := StudentJourney{StudentID: "s1", CourseID: "go-101", WeekNumber: 4}
	profile := sampleProfile()

	ApplyProfile(&journey, profile)

	if journey.PatternSignature == "" {
		t.Error("expected a pattern signature to be set")
	}
	if journey.FrustrationType != "technical" {
		t.Errorf("expected frustration type technical, got %s", journey.FrustrationType)
	}

	got := ProfileOf(journey)
	if !reflect.DeepEqual(got, profile) {
		t.Errorf("expected round-tripped profile %+v, got %+v", profile, got)
	}
}

func TestHistoryOf(t *testing.T) {
	first := StudentJourney{StudentID: "s1", CourseID: "go-101", WeekNumber: 1}
	second := StudentJourney{StudentID: "s1", CourseID: "go-101", WeekNumber: 2}

	profile := sampleProfile()
	ApplyProfile(&first, profile)
	profile.FrustrationLevel = 0.9
	ApplyProfile(&second, profile)

	history := HistoryOf([]StudentJourney{first, second})

	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].WeekNumber != 1 || history[1].WeekNumber != 2 {
		t.Errorf("expected weeks 1 and 2, got %d and %d", history[0].WeekNumber, history[1].WeekNumber)
	}
	if history[0].Profile.FrustrationLevel != 0.72 {
		t.Errorf("expected week 1 frustration 0.72, got %v", history[0].Profile.FrustrationLevel)
	}
	if history[1].Profile.FrustrationLevel != 0.9 {
		t.Errorf("expected week 2 frustration 0.9, got %v", history[1].Profile.FrustrationLevel)
	}
}

func TestAspectScoresOf(t *testing.T) {
	journey := StudentJourney{
		LMSUsability:   intp(4),
		SupportQuality: intp(2),
	}

	got := AspectScoresOf(journey)
	want := map[string]int{AspectLMSUsability: 4, AspectSupportQuality: 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if got := AspectScoresOf(StudentJourney{}); got != nil {
		t.Errorf("expected nil for a journey without ratings, got %v", got)
	}
}

func TestStringListEncoding(t *testing.T) {
	if got := encodeStringList(nil); got != "[]" {
		t.Errorf("expected empty list to encode as [], got %q", got)
	}
	if got := decodeStringList(""); len(got) != 0 {
		t.Errorf("expected empty slice for blank column, got %v", got)
	}
	if got := decodeStringList("not json"); len(got) != 0 {
		t.Errorf("expected empty slice for malformed column, got %v", got)
	}

	encoded := encodeStringList([]string{"a", "b"})
	if got := decodeStringList(encoded); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", got)
	}
}

func intp(v int) *int {
	return &v
}
