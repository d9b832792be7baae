package trajectory

// Curve fitting and horizon parameters.
const (
	// linearFitMin is the smallest history that still gets a straight
	// line; quadraticFitMin upgrades the fit to a curve.
	linearFitMin    = 2
	quadraticFitMin = 3

	// courseLengthWeeks is the assumed course length for the completion
	// forecast; pastWeekCutoff switches that forecast onto the recent
	// window once the student is close to the end.
	courseLengthWeeks = 12
	pastWeekCutoff    = 10
	recentFitWindow   = 3

	// forecastHorizonWeeks is how far ahead the threshold analyses scan
	// the fitted curve.
	forecastHorizonWeeks = 3

	daysPerWeek = 7
)

// Critical thresholds per escalation type.
const (
	frustrationBoilingPoint = 0.8
	engagementDropoutFloor  = 0.3
	engagementMediumFloor   = 0.5

	// curveTrendEps is the coefficient magnitude below which a fitted
	// term is treated as flat.
	curveTrendEps = 0.01
)

// Derived temperature weights.
const (
	tempFrustrationWeight = 0.7
	tempEngagementWeight  = 0.3
)

// Day-count bands for frustration threshold risk.
const (
	frustrationCriticalDays = 3
	frustrationHighDays     = 7
	frustrationMediumDays   = 14
)

// Hidden dissatisfaction explosion tiers.
const (
	explosionHighWeeks   = 3
	explosionMediumWeeks = 2
	explosionLowWeeks    = 1

	explosionHighBase   = 0.5
	explosionMediumBase = 0.3
	explosionLowBase    = 0.1
	explosionWeekStep   = 0.1

	explosionHighCap    = 0.9
	explosionMediumCap  = 0.7
	explosionLowCap     = 0.4
	explosionMinimalPct = 0.1

	// Each consecutive hidden week pulls the horizon in by
	// explosionDayStep days, down to the per-tier floor.
	explosionHighHorizon   = 14
	explosionMediumHorizon = 21
	explosionLowHorizon    = 28
	explosionDayStep       = 2
	explosionHighFloor     = 1
	explosionMediumFloor   = 3
	explosionLowFloor      = 7

	satisfactionStableSpread = 0.2
	satisfactionStableFloor  = 0.5
)

// Explosion timing bands.
const (
	explosionImmediateDays = 3
	explosionThisWeekDays  = 7
)

// Intervention window parameters.
const (
	windowActionableDays = 7
	routineCheckInDays   = 14
	routineConfidence    = 0.5

	dateLayout = "2006-01-02"
)

// Confidence blending.
const (
	fullConfidencePoints = 10

	dataQualityWeight = 0.4
	consistencyWeight = 0.3
	recencyWeight     = 0.3

	recencyRecent  = 0.9
	recencyDefault = 0.7

	// Curve analyses blend model fit with data quantity instead.
	fitQualityWeight = 0.7
	fitDataWeight    = 0.3

	// Pattern-based explosion confidence.
	patternDataWeight     = 0.5
	patternStrengthWeight = 0.5
	patternStrengthBase   = 0.5
	patternStrengthStep   = 0.1
)

// Per-prediction-type confidence multipliers and ceilings. Short
// horizons are trusted more, long horizons and hidden states less.
const (
	nextWeekMultiplier  = 1.2
	nextWeekCeiling     = 0.95
	twoWeekMultiplier   = 1.0
	twoWeekCeiling      = 0.9
	courseEndMultiplier = 0.8
	courseEndCeiling    = 0.8
	thresholdMultiplier = 1.1
	thresholdCeiling    = 0.9
	dropoutMultiplier   = 1.0
	dropoutCeiling      = 0.85
	explosionMultiplier = 0.9
	explosionCeiling    = 0.8
	windowsMultiplier   = 1.0
	windowsCeiling      = 0.85
)
