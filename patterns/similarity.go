package patterns

import (
	"math"

	"feedback-pulse/emotion"
)

// Similarity component weights.
const (
	primaryWeight    = 0.4
	tempVolWeight    = 0.2
	hiddenWeight     = 0.15
	urgencyWeight    = 0.15
	trajectoryWeight = 0.1

	// typeMismatchFactor discounts otherwise-identical profiles whose
	// dominant frustration source differs.
	typeMismatchFactor = 0.95
)

// Similarity scores how alike two profiles are, in [0,1]. Reflexive
// (Similarity(a,a) = 1) and symmetric.
func Similarity(a, b emotion.Profile) float64 {
	primaryDiff := (math.Abs(a.FrustrationLevel-b.FrustrationLevel) +
		math.Abs(a.EngagementLevel-b.EngagementLevel) +
		math.Abs(a.ConfidenceLevel-b.ConfidenceLevel) +
		math.Abs(a.SatisfactionLevel-b.SatisfactionLevel)) / 4

	tempVolDiff := (math.Abs(a.EmotionalTemperature-b.EmotionalTemperature) +
		math.Abs(a.EmotionalVolatility-b.EmotionalVolatility)) / 2

	hiddenSim := 0.0
	if a.HiddenDissatisfaction == b.HiddenDissatisfaction {
		hiddenSim = 1
	}

	urgencySim := 1 - math.Abs(urgencyRank(a.UrgencyLevel)-urgencyRank(b.UrgencyLevel))

	trajectorySim := 0.0
	if a.EmotionalTrajectory == b.EmotionalTrajectory {
		trajectorySim = 1
	}

	score := primaryWeight*(1-primaryDiff) +
		tempVolWeight*(1-tempVolDiff) +
		hiddenWeight*hiddenSim +
		urgencyWeight*urgencySim +
		trajectoryWeight*trajectorySim

	if a.FrustrationType != b.FrustrationType {
		score *= typeMismatchFactor
	}
	return math.Min(score, 1)
}
