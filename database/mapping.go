package database

import (
	"encoding/json"

	"feedback-pulse/emotion"
	"feedback-pulse/patterns"
)

// Aspect rating column names as used in API payloads and CSV imports
const (
	AspectLMSUsability      = "lms_usability"
	AspectInstructorQuality = "instructor_quality"
	AspectContentDifficulty = "content_difficulty"
	AspectSupportQuality    = "support_quality"
	AspectCoursePace        = "course_pace"
)

// ApplyProfile copies an extracted emotion profile onto a journey row,
// including the pattern signature used by similarity queries.
func ApplyProfile(journey *StudentJourney, profile emotion.Profile) {
	journey.FrustrationLevel = profile.FrustrationLevel
	journey.EngagementLevel = profile.EngagementLevel
	journey.ConfidenceLevel = profile.ConfidenceLevel
	journey.SatisfactionLevel = profile.SatisfactionLevel

	journey.FrustrationType = string(profile.FrustrationType)
	journey.FrustrationIntensity = string(profile.FrustrationIntensity)
	journey.FrustrationTrend = string(profile.FrustrationTrend)

	journey.UrgencyLevel = string(profile.UrgencyLevel)
	journey.UrgencySignals = encodeStringList(profile.UrgencySignals)
	journey.ResponseUrgency = string(profile.ResponseUrgency)

	journey.EmotionalTemperature = profile.EmotionalTemperature
	journey.EmotionalVolatility = profile.EmotionalVolatility
	journey.EmotionalTrajectory = string(profile.EmotionalTrajectory)

	journey.HiddenDissatisfaction = profile.HiddenDissatisfaction
	journey.HiddenConfidence = profile.HiddenConfidence
	journey.HiddenSignals = encodeStringList(profile.HiddenSignals)
	journey.PolitenessMask = profile.PolitenessMask

	journey.DropoutEmotions = encodeStringList(profile.DropoutRiskEmotions)
	journey.RecoveryIndicators = encodeStringList(profile.RecoveryIndicators)
	journey.EmotionalTriggers = encodeStringList(profile.EmotionalTriggers)

	journey.EmotionCoherence = profile.EmotionCoherence
	journey.Authenticity = profile.Authenticity
	journey.EmotionalComplexity = string(profile.EmotionalComplexity)

	journey.PatternSignature = patterns.Signature(profile)
}

// ProfileOf rebuilds the emotion profile stored on a journey row
func ProfileOf(journey StudentJourney) emotion.Profile {
	return emotion.Profile{
		FrustrationLevel:  journey.FrustrationLevel,
		EngagementLevel:   journey.EngagementLevel,
		ConfidenceLevel:   journey.ConfidenceLevel,
		SatisfactionLevel: journey.SatisfactionLevel,

		FrustrationType:      emotion.FrustrationType(journey.FrustrationType),
		FrustrationIntensity: emotion.FrustrationIntensity(journey.FrustrationIntensity),
		FrustrationTrend:     emotion.FrustrationTrend(journey.FrustrationTrend),

		UrgencyLevel:    emotion.UrgencyLevel(journey.UrgencyLevel),
		UrgencySignals:  decodeStringList(journey.UrgencySignals),
		ResponseUrgency: emotion.ResponseUrgency(journey.ResponseUrgency),

		EmotionalTemperature: journey.EmotionalTemperature,
		EmotionalVolatility:  journey.EmotionalVolatility,
		EmotionalTrajectory:  emotion.Trajectory(journey.EmotionalTrajectory),

		HiddenDissatisfaction: journey.HiddenDissatisfaction,
		HiddenConfidence:      journey.HiddenConfidence,
		HiddenSignals:         decodeStringList(journey.HiddenSignals),
		PolitenessMask:        journey.PolitenessMask,

		DropoutRiskEmotions: decodeStringList(journey.DropoutEmotions),
		RecoveryIndicators:  decodeStringList(journey.RecoveryIndicators),
		EmotionalTriggers:   decodeStringList(journey.EmotionalTriggers),

		EmotionCoherence:    journey.EmotionCoherence,
		Authenticity:        journey.Authenticity,
		EmotionalComplexity: emotion.Complexity(journey.EmotionalComplexity),
	}
}

// HistoryOf converts journey rows into an emotion history, keeping the
// stored row order
func HistoryOf(journeys []StudentJourney) emotion.History {
	history := make(emotion.History, 0, len(journeys))
	for _, j := range journeys {
		history = append(history, emotion.HistoryEntry{
			WeekNumber: j.WeekNumber,
			Profile:    ProfileOf(j),
		})
	}
	return history
}

// AspectScoresOf collects the non-nil aspect ratings of a journey into
// the extractor's map form. Returns nil when no rating was given.
func AspectScoresOf(journey StudentJourney) map[string]int {
	scores := map[string]int{}
	put := func(name string, value *int) {
		if value != nil {
			scores[name] = *value
		}
	}
	put(AspectLMSUsability, journey.LMSUsability)
	put(AspectInstructorQuality, journey.InstructorQuality)
	put(AspectContentDifficulty, journey.ContentDifficulty)
	put(AspectSupportQuality, journey.SupportQuality)
	put(AspectCoursePace, journey.CoursePace)

	if len(scores) == 0 {
		return nil
	}
	return scores
}

func encodeStringList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return []string{}
	}
	return list
}
