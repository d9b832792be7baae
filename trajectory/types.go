package trajectory

// RiskLevel grades an escalation risk. Unknown marks analyses that did
// not have enough history to run.
type RiskLevel string

const (
	RiskMinimal  RiskLevel = "minimal"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
	RiskUnknown  RiskLevel = "unknown"
)

// Urgency is the recommended response timeframe for an intervention.
type Urgency string

const (
	UrgencyImmediate     Urgency = "immediate"
	UrgencyWithin24Hours Urgency = "within_24_hours"
	UrgencyThisWeek      Urgency = "this_week"
	UrgencyWithinWeek    Urgency = "within_week"
	UrgencyNextWeek      Urgency = "next_week"
	UrgencyRoutine       Urgency = "routine"
)

// CurveTrend labels the shape of the fitted frustration curve.
type CurveTrend string

const (
	CurveAcceleratingIncrease CurveTrend = "accelerating_increase"
	CurveDecelerating         CurveTrend = "decelerating"
	CurveSteadyIncrease       CurveTrend = "steady_increase"
	CurveSteadyDecrease       CurveTrend = "steady_decrease"
	CurveStable               CurveTrend = "stable"
	CurveInsufficientData     CurveTrend = "insufficient_data"
)

// InterventionType names the support action matched to a dropout risk.
type InterventionType string

const (
	InterventionIntensiveSupport   InterventionType = "intensive_support"
	InterventionTargetedEngagement InterventionType = "targeted_engagement"
	InterventionPreventiveCheckIn  InterventionType = "preventive_check_in"
	InterventionRoutineMonitoring  InterventionType = "routine_monitoring"
)

// OutreachApproach names how to approach a student whose
// dissatisfaction is still hidden.
type OutreachApproach string

const (
	ApproachEmpathetic OutreachApproach = "empathetic_outreach"
	ApproachIndirect   OutreachApproach = "indirect_support"
	ApproachSubtle     OutreachApproach = "subtle_check_in"
	ApproachRoutine    OutreachApproach = "routine_monitoring"
)

// WindowType names the driver behind an intervention window.
type WindowType string

const (
	WindowFrustration     WindowType = "frustration_intervention"
	WindowEngagement      WindowType = "engagement_intervention"
	WindowDissatisfaction WindowType = "dissatisfaction_intervention"
	WindowRoutineCheckIn  WindowType = "routine_check_in"
)

// Forecast is one predicted emotional state at a given horizon.
// Temperature is derived from frustration and engagement, never fitted
// on its own.
type Forecast struct {
	FrustrationLevel     float64 `json:"frustration_level"`
	EngagementLevel      float64 `json:"engagement_level"`
	ConfidenceLevel      float64 `json:"confidence_level"`
	SatisfactionLevel    float64 `json:"satisfaction_level"`
	EmotionalTemperature float64 `json:"emotional_temperature"`
}

// Forecasts carries the three standard horizons.
type Forecasts struct {
	NextWeek         Forecast `json:"next_week"`
	TwoWeek          Forecast `json:"two_week"`
	CourseCompletion Forecast `json:"course_completion"`
}

// FrustrationRisk reports when the frustration curve is expected to hit
// the boiling point. DaysToThreshold is nil when the fitted curve never
// crosses it ahead of the latest observed week.
type FrustrationRisk struct {
	RiskLevel       RiskLevel  `json:"risk_level"`
	DaysToThreshold *int       `json:"days_to_threshold"`
	Urgency         Urgency    `json:"intervention_urgency"`
	Trend           CurveTrend `json:"trend"`
	Confidence      float64    `json:"confidence"`
}

// EngagementRisk reports projected disengagement.
type EngagementRisk struct {
	DropoutRisk          RiskLevel        `json:"dropout_risk"`
	WeeksToDisengagement *float64         `json:"weeks_to_disengagement"`
	InterventionType     InterventionType `json:"intervention_type"`
	DaysToIntervention   *int             `json:"days_to_intervention"`
	Confidence           float64          `json:"confidence"`
}

// ExplosionRisk reports the chance that masked dissatisfaction turns
// into open complaints.
type ExplosionRisk struct {
	Risk                 RiskLevel        `json:"risk"`
	ExplosionProbability float64          `json:"explosion_probability"`
	DaysToExplosion      *int             `json:"days_to_explosion"`
	Approach             OutreachApproach `json:"intervention_approach"`
	Timing               Urgency          `json:"intervention_timing"`
	Confidence           float64          `json:"confidence"`
}

// RiskEscalations groups the three escalation analyses.
type RiskEscalations struct {
	FrustrationBoilingPoint  FrustrationRisk `json:"frustration_boiling_point"`
	EngagementDropout        EngagementRisk  `json:"engagement_dropout_risk"`
	DissatisfactionExplosion ExplosionRisk   `json:"hidden_to_open_dissatisfaction"`
}

// Window is one recommended intervention slot with an absolute target
// date (YYYY-MM-DD).
type Window struct {
	Type        WindowType `json:"type"`
	Timing      Urgency    `json:"timing"`
	DaysFromNow int        `json:"days_from_now"`
	Confidence  float64    `json:"confidence"`
	TargetDate  string     `json:"target_date"`
}

// Windows ranks the recommended interventions. Secondary is nil when
// only one risk produced an actionable day estimate.
type Windows struct {
	Primary   Window  `json:"primary"`
	Secondary *Window `json:"secondary,omitempty"`
}

// ConfidenceScores carries the per-prediction-type confidence values,
// each derived from the same base score.
type ConfidenceScores struct {
	NextWeek                 float64 `json:"next_week"`
	TwoWeek                  float64 `json:"two_week"`
	CourseCompletion         float64 `json:"course_completion"`
	FrustrationThreshold     float64 `json:"frustration_threshold"`
	EngagementDropout        float64 `json:"engagement_dropout"`
	DissatisfactionExplosion float64 `json:"dissatisfaction_explosion"`
	InterventionWindows      float64 `json:"intervention_windows"`
	Overall                  float64 `json:"overall"`
}

// Prediction is the full trajectory report for one student history.
type Prediction struct {
	Forecasts  Forecasts        `json:"emotion_predictions"`
	Risks      RiskEscalations  `json:"risk_escalations"`
	Windows    Windows          `json:"optimal_intervention_windows"`
	Confidence ConfidenceScores `json:"confidence_scores"`
}
