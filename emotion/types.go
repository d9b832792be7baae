package emotion

// FrustrationType categorizes the dominant source of frustration.
type FrustrationType string

const (
	FrustrationTechnical FrustrationType = "technical"
	FrustrationContent   FrustrationType = "content"
	FrustrationPace      FrustrationType = "pace"
	FrustrationSupport   FrustrationType = "support"
	FrustrationMixed     FrustrationType = "mixed"
)

// FrustrationIntensity bands the frustration level into severity tiers.
type FrustrationIntensity string

const (
	IntensityMild     FrustrationIntensity = "mild"
	IntensityModerate FrustrationIntensity = "moderate"
	IntensitySevere   FrustrationIntensity = "severe"
	IntensityCritical FrustrationIntensity = "critical"
)

// FrustrationTrend describes how frustration moved across recent weeks.
type FrustrationTrend string

const (
	TrendIncreasing FrustrationTrend = "increasing"
	TrendDecreasing FrustrationTrend = "decreasing"
	TrendStable     FrustrationTrend = "stable"
	TrendSpiking    FrustrationTrend = "spiking"
)

// UrgencyLevel classifies how urgently the feedback demands attention.
type UrgencyLevel string

const (
	UrgencyLow       UrgencyLevel = "low"
	UrgencyMedium    UrgencyLevel = "medium"
	UrgencyHigh      UrgencyLevel = "high"
	UrgencyCritical  UrgencyLevel = "critical"
	UrgencyImmediate UrgencyLevel = "immediate"
)

// ResponseUrgency maps urgency onto a response timeframe.
type ResponseUrgency string

const (
	RespondWithinHour ResponseUrgency = "within_hour"
	RespondSameDay    ResponseUrgency = "same_day"
	RespondWithinWeek ResponseUrgency = "within_week"
	RespondRoutine    ResponseUrgency = "routine"
)

// Trajectory describes the direction of emotional valence across weeks.
type Trajectory string

const (
	TrajectoryImproving   Trajectory = "improving"
	TrajectoryDeclining   Trajectory = "declining"
	TrajectoryNeutral     Trajectory = "neutral"
	TrajectoryFluctuating Trajectory = "fluctuating"
)

// Complexity grades how layered the emotional expression is.
type Complexity string

const (
	ComplexitySimple     Complexity = "simple"
	ComplexityMixed      Complexity = "mixed"
	ComplexityComplex    Complexity = "complex"
	ComplexityConflicted Complexity = "conflicted"
)

// Profile is the structured emotional snapshot extracted from one
// feedback observation. All float fields are clamped to [0,1], list
// fields carry each tag at most once, and a profile is never mutated
// after extraction; a new observation produces a new profile.
type Profile struct {
	// Primary levels
	FrustrationLevel  float64 `json:"frustration_level"`
	EngagementLevel   float64 `json:"engagement_level"`
	ConfidenceLevel   float64 `json:"confidence_level"`
	SatisfactionLevel float64 `json:"satisfaction_level"`

	// Frustration classification
	FrustrationType      FrustrationType      `json:"frustration_type"`
	FrustrationIntensity FrustrationIntensity `json:"frustration_intensity"`
	FrustrationTrend     FrustrationTrend     `json:"frustration_trend"`

	// Urgency
	UrgencyLevel    UrgencyLevel    `json:"urgency_level"`
	UrgencySignals  []string        `json:"urgency_signals"`
	ResponseUrgency ResponseUrgency `json:"response_urgency"`

	// Emotional dynamics
	EmotionalTemperature float64    `json:"emotional_temperature"`
	EmotionalVolatility  float64    `json:"emotional_volatility"`
	EmotionalTrajectory  Trajectory `json:"emotional_trajectory"`

	// Hidden dissatisfaction
	HiddenDissatisfaction bool     `json:"hidden_dissatisfaction_flag"`
	HiddenConfidence      float64  `json:"hidden_dissatisfaction_confidence"`
	HiddenSignals         []string `json:"hidden_signals"`
	PolitenessMask        float64  `json:"politeness_mask_level"`

	// Advanced markers
	DropoutRiskEmotions []string `json:"dropout_risk_emotions"`
	RecoveryIndicators  []string `json:"positive_recovery_indicators"`
	EmotionalTriggers   []string `json:"emotional_triggers"`

	// Meta-emotional
	EmotionCoherence    float64    `json:"emotion_coherence"`
	Authenticity        float64    `json:"sentiment_authenticity"`
	EmotionalComplexity Complexity `json:"emotional_complexity"`
}

// HistoryEntry pairs one weekly observation with its extracted profile.
type HistoryEntry struct {
	WeekNumber int     `json:"week_number"`
	Profile    Profile `json:"profile"`
}

// History is the ordered weekly emotion series for one (student, course)
// pair. The caller owns it; extraction and prediction never mutate it
// and tolerate out-of-order entries by sorting copies internally.
type History []HistoryEntry
