package trajectory

import (
	"math"
	"sort"
	"time"

	"feedback-pulse/emotion"
)

// Predictor forecasts a student's emotional trajectory from weekly
// history. It is stateless apart from the clock, which only feeds the
// absolute target dates on intervention windows.
type Predictor struct {
	now func() time.Time
}

// NewPredictor creates a predictor on the wall clock.
func NewPredictor() *Predictor {
	return &Predictor{now: time.Now}
}

var defaultPredictor = NewPredictor()

// Predict runs the default predictor over the history.
func Predict(history emotion.History) Prediction {
	return defaultPredictor.Predict(history)
}

// Predict forecasts the standard horizons, grades the escalation risks
// and picks intervention windows. Deterministic for a given history and
// clock; insufficient history degrades to documented defaults instead
// of failing.
func (p *Predictor) Predict(history emotion.History) Prediction {
	return p.predictAt(history, p.now())
}

func (p *Predictor) predictAt(history emotion.History, now time.Time) Prediction {
	s := newSeries(history)
	if s.len() < linearFitMin {
		return defaultPrediction(now)
	}

	risks := RiskEscalations{
		FrustrationBoilingPoint:  frustrationRisk(s),
		EngagementDropout:        engagementRisk(s),
		DissatisfactionExplosion: explosionRisk(s),
	}

	return Prediction{
		Forecasts:  forecastAll(s),
		Risks:      risks,
		Windows:    pickWindows(risks, now),
		Confidence: confidenceScores(s),
	}
}

// series is one student's history split into aligned per-dimension
// slices, sorted by week.
type series struct {
	weeks        []float64
	frustration  []float64
	engagement   []float64
	confidence   []float64
	satisfaction []float64
	hidden       []bool
}

func newSeries(history emotion.History) series {
	sorted := make(emotion.History, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WeekNumber < sorted[j].WeekNumber
	})

	s := series{
		weeks:        make([]float64, len(sorted)),
		frustration:  make([]float64, len(sorted)),
		engagement:   make([]float64, len(sorted)),
		confidence:   make([]float64, len(sorted)),
		satisfaction: make([]float64, len(sorted)),
		hidden:       make([]bool, len(sorted)),
	}
	for i, entry := range sorted {
		s.weeks[i] = float64(entry.WeekNumber)
		s.frustration[i] = entry.Profile.FrustrationLevel
		s.engagement[i] = entry.Profile.EngagementLevel
		s.confidence[i] = entry.Profile.ConfidenceLevel
		s.satisfaction[i] = entry.Profile.SatisfactionLevel
		s.hidden[i] = entry.Profile.HiddenDissatisfaction
	}
	return s
}

func (s series) len() int { return len(s.weeks) }

func (s series) latestWeek() float64 { return s.weeks[len(s.weeks)-1] }

// tail returns the last n observations (all of them when shorter).
func (s series) tail(n int) series {
	if s.len() <= n {
		return s
	}
	start := s.len() - n
	return series{
		weeks:        s.weeks[start:],
		frustration:  s.frustration[start:],
		engagement:   s.engagement[start:],
		confidence:   s.confidence[start:],
		satisfaction: s.satisfaction[start:],
		hidden:       s.hidden[start:],
	}
}

// fitDegree follows the data: a straight line until a curve is earned.
func (s series) fitDegree() int {
	if s.len() < quadraticFitMin {
		return 1
	}
	return 2
}

func forecastAll(s series) Forecasts {
	latest := s.latestWeek()

	// Long-range extrapolation near the course end only trusts the
	// recent window.
	course := s
	if latest >= pastWeekCutoff {
		course = s.tail(recentFitWindow)
	}

	return Forecasts{
		NextWeek:         forecastAt(s, latest+1),
		TwoWeek:          forecastAt(s, latest+2),
		CourseCompletion: forecastAt(course, courseLengthWeeks),
	}
}

// forecastAt fits each primary dimension independently and evaluates at
// the target week, clamped to [0,1].
func forecastAt(s series, targetWeek float64) Forecast {
	degree := s.fitDegree()
	fru := clamp01(evalPolynomial(fitPolynomial(s.weeks, s.frustration, degree), targetWeek))
	eng := clamp01(evalPolynomial(fitPolynomial(s.weeks, s.engagement, degree), targetWeek))
	conf := clamp01(evalPolynomial(fitPolynomial(s.weeks, s.confidence, degree), targetWeek))
	sat := clamp01(evalPolynomial(fitPolynomial(s.weeks, s.satisfaction, degree), targetWeek))

	return Forecast{
		FrustrationLevel:     fru,
		EngagementLevel:      eng,
		ConfidenceLevel:      conf,
		SatisfactionLevel:    sat,
		EmotionalTemperature: fru*tempFrustrationWeight + (1-eng)*tempEngagementWeight,
	}
}

func classifyCurveTrend(coeffs []float64) CurveTrend {
	var a, b float64
	if len(coeffs) > 2 {
		a = coeffs[2]
	}
	if len(coeffs) > 1 {
		b = coeffs[1]
	}
	switch {
	case a > curveTrendEps:
		return CurveAcceleratingIncrease
	case a < -curveTrendEps:
		return CurveDecelerating
	case b > curveTrendEps:
		return CurveSteadyIncrease
	case b < -curveTrendEps:
		return CurveSteadyDecrease
	default:
		return CurveStable
	}
}

func fitConfidence(xs, ys, coeffs []float64) float64 {
	dataFactor := math.Min(1, float64(len(xs))/fullConfidencePoints)
	return rSquared(xs, ys, coeffs)*fitQualityWeight + dataFactor*fitDataWeight
}

func frustrationRisk(s series) FrustrationRisk {
	if s.len() < quadraticFitMin {
		return FrustrationRisk{
			RiskLevel: RiskUnknown,
			Urgency:   UrgencyRoutine,
			Trend:     CurveInsufficientData,
		}
	}

	coeffs := fitPolynomial(s.weeks, s.frustration, 2)
	latest := s.latestWeek()
	trend := classifyCurveTrend(coeffs)

	maxPred := 0.0
	for i := 1; i <= forecastHorizonWeeks; i++ {
		maxPred = math.Max(maxPred, clamp01(evalPolynomial(coeffs, latest+float64(i))))
	}

	var days *int
	if maxPred >= frustrationBoilingPoint {
		if root, ok := thresholdCrossing(coeffs, frustrationBoilingPoint, latest); ok {
			d := int((root - latest) * daysPerWeek)
			days = &d
		}
	}

	risk := RiskMinimal
	switch {
	case days != nil && *days <= frustrationCriticalDays:
		risk = RiskCritical
	case days != nil && *days <= frustrationHighDays:
		risk = RiskHigh
	case days != nil && *days <= frustrationMediumDays:
		risk = RiskMedium
	case trend == CurveAcceleratingIncrease || trend == CurveSteadyIncrease:
		risk = RiskLow
	}

	urgency := UrgencyRoutine
	switch risk {
	case RiskCritical:
		urgency = UrgencyImmediate
	case RiskHigh:
		urgency = UrgencyWithin24Hours
	case RiskMedium:
		urgency = UrgencyWithinWeek
	}

	return FrustrationRisk{
		RiskLevel:       risk,
		DaysToThreshold: days,
		Urgency:         urgency,
		Trend:           trend,
		Confidence:      fitConfidence(s.weeks, s.frustration, coeffs),
	}
}

func engagementRisk(s series) EngagementRisk {
	if s.len() < quadraticFitMin {
		return EngagementRisk{
			DropoutRisk:      RiskUnknown,
			InterventionType: InterventionRoutineMonitoring,
		}
	}

	coeffs := fitPolynomial(s.weeks, s.engagement, 2)
	latest := s.latestWeek()

	minPred := 1.0
	for i := 1; i <= forecastHorizonWeeks; i++ {
		minPred = math.Min(minPred, clamp01(evalPolynomial(coeffs, latest+float64(i))))
	}

	risk := RiskLow
	switch {
	case minPred < engagementDropoutFloor:
		risk = RiskHigh
	case minPred < engagementMediumFloor:
		risk = RiskMedium
	}

	var weeksTo *float64
	var daysTo *int
	if minPred <= engagementDropoutFloor {
		if root, ok := thresholdCrossing(coeffs, engagementDropoutFloor, latest); ok {
			w := root - latest
			weeksTo = &w

			// Intervene a week before the projected disengagement.
			d := int(w*daysPerWeek - daysPerWeek)
			if d < 1 {
				d = 1
			}
			daysTo = &d
		}
	}

	itype := InterventionPreventiveCheckIn
	switch risk {
	case RiskHigh:
		itype = InterventionIntensiveSupport
	case RiskMedium:
		itype = InterventionTargetedEngagement
	}

	return EngagementRisk{
		DropoutRisk:          risk,
		WeeksToDisengagement: weeksTo,
		InterventionType:     itype,
		DaysToIntervention:   daysTo,
		Confidence:           fitConfidence(s.weeks, s.engagement, coeffs),
	}
}

func explosionRisk(s series) ExplosionRisk {
	if s.len() < quadraticFitMin {
		return ExplosionRisk{
			Risk:     RiskUnknown,
			Approach: ApproachRoutine,
			Timing:   UrgencyRoutine,
		}
	}

	consecutive := 0
	for i := s.len() - 1; i >= 0; i-- {
		if !s.hidden[i] {
			break
		}
		consecutive++
	}

	recentFru := s.frustration[s.len()-recentFitWindow:]
	frustrationRising := recentFru[len(recentFru)-1] > recentFru[0]

	recentSat := s.satisfaction[s.len()-recentFitWindow:]
	lo, hi := recentSat[0], recentSat[0]
	for _, v := range recentSat[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	satisfactionSteady := hi-lo < satisfactionStableSpread && lo > satisfactionStableFloor

	risk := RiskMinimal
	probability := explosionMinimalPct
	var days *int

	switch {
	case consecutive >= explosionHighWeeks && frustrationRising && satisfactionSteady:
		risk = RiskHigh
		probability = math.Min(explosionHighCap, explosionHighBase+float64(consecutive)*explosionWeekStep)
		days = intPtr(max(explosionHighFloor, explosionHighHorizon-consecutive*explosionDayStep))
	case consecutive >= explosionMediumWeeks && frustrationRising:
		risk = RiskMedium
		probability = math.Min(explosionMediumCap, explosionMediumBase+float64(consecutive)*explosionWeekStep)
		days = intPtr(max(explosionMediumFloor, explosionMediumHorizon-consecutive*explosionDayStep))
	case consecutive >= explosionLowWeeks:
		risk = RiskLow
		probability = math.Min(explosionLowCap, explosionLowBase+float64(consecutive)*explosionWeekStep)
		days = intPtr(max(explosionLowFloor, explosionLowHorizon-consecutive*explosionDayStep))
	}

	approach := ApproachRoutine
	switch risk {
	case RiskHigh:
		approach = ApproachEmpathetic
	case RiskMedium:
		approach = ApproachIndirect
	case RiskLow:
		approach = ApproachSubtle
	}

	timing := UrgencyRoutine
	switch {
	case days != nil && *days <= explosionImmediateDays:
		timing = UrgencyImmediate
	case days != nil && *days <= explosionThisWeekDays:
		timing = UrgencyThisWeek
	case days != nil:
		timing = UrgencyNextWeek
	}

	dataFactor := math.Min(1, float64(s.len())/fullConfidencePoints)
	strength := patternStrengthBase + float64(consecutive)*patternStrengthStep

	return ExplosionRisk{
		Risk:                 risk,
		ExplosionProbability: probability,
		DaysToExplosion:      days,
		Approach:             approach,
		Timing:               timing,
		Confidence:           clamp01(dataFactor*patternDataWeight + strength*patternStrengthWeight),
	}
}

type windowCandidate struct {
	wtype      WindowType
	days       int
	urgency    Urgency
	confidence float64
}

func (c windowCandidate) window(now time.Time) Window {
	return Window{
		Type:        c.wtype,
		Timing:      c.urgency,
		DaysFromNow: c.days,
		Confidence:  c.confidence,
		TargetDate:  now.AddDate(0, 0, c.days).Format(dateLayout),
	}
}

func routineWindow(now time.Time) Window {
	return Window{
		Type:        WindowRoutineCheckIn,
		Timing:      UrgencyRoutine,
		DaysFromNow: routineCheckInDays,
		Confidence:  routineConfidence,
		TargetDate:  now.AddDate(0, 0, routineCheckInDays).Format(dateLayout),
	}
}

// pickWindows ranks the actionable risks and reports the top one or
// two, most urgent first.
func pickWindows(risks RiskEscalations, now time.Time) Windows {
	var candidates []windowCandidate

	if d := risks.FrustrationBoilingPoint.DaysToThreshold; d != nil && *d <= windowActionableDays {
		candidates = append(candidates, windowCandidate{
			wtype:      WindowFrustration,
			days:       *d,
			urgency:    risks.FrustrationBoilingPoint.Urgency,
			confidence: risks.FrustrationBoilingPoint.Confidence,
		})
	}
	if d := risks.EngagementDropout.DaysToIntervention; d != nil {
		urgency := UrgencyRoutine
		if *d <= windowActionableDays {
			urgency = UrgencyWithinWeek
		}
		candidates = append(candidates, windowCandidate{
			wtype:      WindowEngagement,
			days:       *d,
			urgency:    urgency,
			confidence: risks.EngagementDropout.Confidence,
		})
	}
	if d := risks.DissatisfactionExplosion.DaysToExplosion; d != nil {
		candidates = append(candidates, windowCandidate{
			wtype:      WindowDissatisfaction,
			days:       *d,
			urgency:    risks.DissatisfactionExplosion.Timing,
			confidence: risks.DissatisfactionExplosion.Confidence,
		})
	}

	if len(candidates) == 0 {
		return Windows{Primary: routineWindow(now)}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if urgencyRank(a.urgency) != urgencyRank(b.urgency) {
			return urgencyRank(a.urgency) < urgencyRank(b.urgency)
		}
		if a.days != b.days {
			return a.days < b.days
		}
		return a.confidence > b.confidence
	})

	windows := Windows{Primary: candidates[0].window(now)}
	if len(candidates) > 1 {
		secondary := candidates[1].window(now)
		windows.Secondary = &secondary
	}
	return windows
}

// urgencyRank orders urgencies for window ranking, most urgent first.
func urgencyRank(u Urgency) int {
	switch u {
	case UrgencyImmediate:
		return 0
	case UrgencyWithin24Hours:
		return 1
	case UrgencyThisWeek, UrgencyWithinWeek:
		return 2
	case UrgencyNextWeek:
		return 3
	case UrgencyRoutine:
		return 4
	default:
		return 5
	}
}

// confidenceScores blends data quantity, consistency and recency into a
// base score, then scales per prediction type.
func confidenceScores(s series) ConfidenceScores {
	dataFactor := math.Min(1, float64(s.len())/fullConfidencePoints)
	consistency := 1 - math.Min(1, (variance(s.frustration)+variance(s.engagement))/2)
	recency := recencyDefault
	if s.len() >= quadraticFitMin {
		recency = recencyRecent
	}
	base := dataFactor*dataQualityWeight + consistency*consistencyWeight + recency*recencyWeight

	return ConfidenceScores{
		NextWeek:                 math.Min(nextWeekCeiling, base*nextWeekMultiplier),
		TwoWeek:                  math.Min(twoWeekCeiling, base*twoWeekMultiplier),
		CourseCompletion:         math.Min(courseEndCeiling, base*courseEndMultiplier),
		FrustrationThreshold:     math.Min(thresholdCeiling, base*thresholdMultiplier),
		EngagementDropout:        math.Min(dropoutCeiling, base*dropoutMultiplier),
		DissatisfactionExplosion: math.Min(explosionCeiling, base*explosionMultiplier),
		InterventionWindows:      math.Min(windowsCeiling, base*windowsMultiplier),
		Overall:                  base,
	}
}

// defaultPrediction is the hard floor for histories too short to model.
func defaultPrediction(now time.Time) Prediction {
	flat := Forecast{
		FrustrationLevel:     0.5,
		EngagementLevel:      0.5,
		ConfidenceLevel:      0.5,
		SatisfactionLevel:    0.5,
		EmotionalTemperature: 0.5,
	}
	return Prediction{
		Forecasts: Forecasts{NextWeek: flat, TwoWeek: flat, CourseCompletion: flat},
		Risks: RiskEscalations{
			FrustrationBoilingPoint: FrustrationRisk{
				RiskLevel: RiskUnknown,
				Urgency:   UrgencyRoutine,
				Trend:     CurveInsufficientData,
			},
			EngagementDropout: EngagementRisk{
				DropoutRisk:      RiskUnknown,
				InterventionType: InterventionRoutineMonitoring,
			},
			DissatisfactionExplosion: ExplosionRisk{
				Risk:     RiskUnknown,
				Approach: ApproachRoutine,
				Timing:   UrgencyRoutine,
			},
		},
		Windows: Windows{Primary: routineWindow(now)},
		Confidence: ConfidenceScores{
			NextWeek:                 routineConfidence,
			TwoWeek:                  routineConfidence,
			CourseCompletion:         routineConfidence,
			FrustrationThreshold:     routineConfidence,
			EngagementDropout:        routineConfidence,
			DissatisfactionExplosion: routineConfidence,
			InterventionWindows:      routineConfidence,
			Overall:                  routineConfidence,
		},
	}
}

func intPtr(v int) *int {
	return &v
}
