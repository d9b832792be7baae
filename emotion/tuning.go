package emotion

// Tuning collects the weights and thresholds the extractor scores with.
// Zero values are not usable; start from DefaultTuning and override
// individual fields.
type Tuning struct {
	// WordScale is the frustration contribution of one lexicon hit,
	// StrongAdverbBonus the multiplier step per strong adverb.
	WordScale         float64
	StrongAdverbBonus float64

	// ExplicitFrustrationFloor is the minimum frustration level once an
	// explicit statement ("I'm so frustrated") is present.
	ExplicitFrustrationFloor float64

	// TextWeight and AspectWeight blend text satisfaction with numeric
	// aspect scores when the latter are provided.
	TextWeight   float64
	AspectWeight float64

	// TrendShift is the level delta that flips a trend to
	// increasing/decreasing, SpikeShift the week-over-week jump that
	// marks spiking or fluctuating behavior.
	TrendShift float64
	SpikeShift float64

	// VolatilityScale stretches the mean week-over-week swing onto the
	// [0,1] volatility scale.
	VolatilityScale float64

	// Hidden dissatisfaction scoring.
	HiddenSignalStep       float64
	HiddenConfidenceCap    float64
	HiddenSatisfiedPenalty float64
	HiddenUnsatisfiedBonus float64
	HighSatisfaction       float64
	LowSatisfaction        float64

	// Politeness masking.
	PolitenessStep float64
	PolitenessCap  float64

	// UrgentFrustration escalates the response timeframe one step when
	// frustration exceeds it.
	UrgentFrustration float64
}

// DefaultTuning returns the stock extraction weights.
func DefaultTuning() Tuning {
	return Tuning{
		WordScale:                0.15,
		StrongAdverbBonus:        0.5,
		ExplicitFrustrationFloor: 0.7,
		TextWeight:               0.6,
		AspectWeight:             0.4,
		TrendShift:               0.15,
		SpikeShift:               0.25,
		VolatilityScale:          2.5,
		HiddenSignalStep:         0.25,
		HiddenConfidenceCap:      0.75,
		HiddenSatisfiedPenalty:   0.2,
		HiddenUnsatisfiedBonus:   0.3,
		HighSatisfaction:         0.7,
		LowSatisfaction:          0.4,
		PolitenessStep:           0.2,
		PolitenessCap:            0.8,
		UrgentFrustration:        0.8,
	}
}

// Fixed band boundaries and weights. These shape categorical outputs
// and are not tunable per deployment.
const (
	defaultLevel        = 0.5
	defaultVolatility   = 0.3
	defaultAuthenticity = 0.8

	intensityMildMax     = 0.3
	intensityModerateMax = 0.6
	intensitySevereMax   = 0.85

	// mixedDominanceRatio is how far the combined category hits may
	// exceed the leading category before the type reads as mixed.
	mixedDominanceRatio = 1.5

	bandHighWeight   = 0.9
	bandMediumWeight = 0.5
	bandLowWeight    = 0.1

	explicitHighFloor = 0.8
	explicitLowCap    = 0.2

	trendWindow      = 3
	volatilityWindow = 5

	exclamationStep = 0.05
	exclamationCap  = 0.25
	capsScale       = 0.5
	capsCap         = 0.25
	intensifierStep = 0.1

	coherenceValenceWeight = 0.6
	coherenceClarityWeight = 0.4

	authenticityHiddenPenalty = 0.3
	authenticityMarkerBonus   = 0.1
	authenticityMixedPenalty  = 0.15

	deepGratitudeBonus = 0.1
	politeApologyBonus = 0.15

	complexityMixedMin      = 2
	complexityComplexMin    = 4
	complexityConflictedMin = 3
)
