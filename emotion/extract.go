package emotion

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Extractor scores feedback text into emotion profiles. The zero value
// is not usable; construct with NewExtractor.
type Extractor struct {
	tuning Tuning
}

// NewExtractor creates an extractor with the given tuning.
func NewExtractor(t Tuning) *Extractor {
	return &Extractor{tuning: t}
}

var defaultExtractor = NewExtractor(DefaultTuning())

// Extract analyzes feedback text with the stock tuning. Optional aspect
// scores (1-5 scale) refine satisfaction; optional history enables the
// trend, volatility and trajectory fields.
func Extract(text string, aspects map[string]int, history History) Profile {
	return defaultExtractor.Extract(text, aspects, history)
}

// Extract builds the full emotion profile for one feedback text. It
// never fails: empty text maps to the neutral profile, out-of-range
// aspect scores are skipped per key, and short history falls back to
// the documented defaults.
func (e *Extractor) Extract(text string, aspects map[string]int, history History) Profile {
	if strings.TrimSpace(text) == "" {
		return neutralProfile()
	}

	lower := strings.ToLower(text)

	frustration := e.frustrationScore(lower)
	engagement := e.engagementScore(lower)
	confidence := e.confidenceScore(lower)
	satisfaction := e.satisfactionScore(lower, aspects)

	urgency := detectUrgency(lower)
	hidden, hiddenConfidence, hiddenSignals := e.hiddenDissatisfaction(lower, satisfaction)

	return Profile{
		FrustrationLevel:  frustration,
		EngagementLevel:   engagement,
		ConfidenceLevel:   confidence,
		SatisfactionLevel: satisfaction,

		FrustrationType:      classifyFrustrationType(lower),
		FrustrationIntensity: bandIntensity(frustration),
		FrustrationTrend:     e.frustrationTrend(history),

		UrgencyLevel:    urgency,
		UrgencySignals:  detectUrgencySignals(lower),
		ResponseUrgency: e.responseUrgency(urgency, frustration),

		EmotionalTemperature: temperatureScore(text, lower),
		EmotionalVolatility:  e.emotionalVolatility(history),
		EmotionalTrajectory:  e.emotionalTrajectory(history),

		HiddenDissatisfaction: hidden,
		HiddenConfidence:      hiddenConfidence,
		HiddenSignals:         hiddenSignals,
		PolitenessMask:        e.politenessMask(lower, hidden),

		DropoutRiskEmotions: detectDropoutEmotions(lower),
		RecoveryIndicators:  detectRecoveryIndicators(lower),
		EmotionalTriggers:   detectTriggers(lower),

		EmotionCoherence:    coherenceScore(frustration, engagement, confidence, satisfaction),
		Authenticity:        authenticityScore(lower, hidden),
		EmotionalComplexity: gradeComplexity(lower),
	}
}

// neutralProfile is what empty or whitespace-only text maps to.
func neutralProfile() Profile {
	return Profile{
		FrustrationLevel:     defaultLevel,
		EngagementLevel:      defaultLevel,
		ConfidenceLevel:      defaultLevel,
		SatisfactionLevel:    defaultLevel,
		FrustrationType:      FrustrationMixed,
		FrustrationIntensity: IntensityMild,
		FrustrationTrend:     TrendStable,
		UrgencyLevel:         UrgencyLow,
		UrgencySignals:       []string{},
		ResponseUrgency:      RespondRoutine,
		EmotionalTemperature: defaultLevel,
		EmotionalVolatility:  defaultVolatility,
		EmotionalTrajectory:  TrajectoryNeutral,
		HiddenSignals:        []string{},
		DropoutRiskEmotions:  []string{},
		RecoveryIndicators:   []string{},
		EmotionalTriggers:    []string{},
		EmotionCoherence:     1.0,
		Authenticity:         defaultAuthenticity,
		EmotionalComplexity:  ComplexitySimple,
	}
}

// countHits reports how many lexicon words occur in the text. Each word
// counts once no matter how often it repeats.
func countHits(lower string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}

func anyMatch(lower string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func (e *Extractor) frustrationScore(lower string) float64 {
	hits := countHits(lower, generalFrustrationWords)
	for _, cat := range frustrationCategories {
		hits += countHits(lower, cat.words)
	}

	multiplier := 1.0 + e.tuning.StrongAdverbBonus*float64(countHits(lower, strongAdverbs))
	score := math.Min(float64(hits)*e.tuning.WordScale*multiplier, 1.0)

	// An explicit statement outranks whatever the word count says.
	if anyMatch(lower, explicitFrustrationPatterns) {
		score = math.Max(score, e.tuning.ExplicitFrustrationFloor)
	}
	return score
}

// bandedScore weights band hits into one level. No hits keeps the
// neutral default.
func bandedScore(lower string, lex bandedLexicon) float64 {
	high := countHits(lower, lex.high)
	medium := countHits(lower, lex.medium)
	low := countHits(lower, lex.low)

	total := high + medium + low
	if total == 0 {
		return defaultLevel
	}
	weighted := float64(high)*bandHighWeight + float64(medium)*bandMediumWeight + float64(low)*bandLowWeight
	return weighted / float64(total)
}

func (e *Extractor) engagementScore(lower string) float64 {
	score := bandedScore(lower, engagementWords)
	if explicitLoveRe.MatchString(lower) {
		score = math.Max(score, explicitHighFloor)
	}
	if explicitHateRe.MatchString(lower) {
		score = math.Min(score, explicitLowCap)
	}
	return score
}

func (e *Extractor) confidenceScore(lower string) float64 {
	score := bandedScore(lower, confidenceWords)
	if explicitConfidentRe.MatchString(lower) {
		score = math.Max(score, explicitHighFloor)
	}
	if explicitConfusedRe.MatchString(lower) {
		score = math.Min(score, explicitLowCap)
	}
	return score
}

func (e *Extractor) satisfactionScore(lower string, aspects map[string]int) float64 {
	pos := countHits(lower, positiveSatisfactionWords)
	neg := countHits(lower, negativeSatisfactionWords)

	text := defaultLevel
	if pos+neg > 0 {
		text = float64(pos) / float64(pos+neg)
	}

	sum, valid := 0, 0
	for _, v := range aspects {
		if v < 1 || v > 5 {
			continue
		}
		sum += v
		valid++
	}
	if valid == 0 {
		return text
	}

	aspect := (float64(sum)/float64(valid) - 1) / 4 // 1-5 scale onto [0,1]
	return text*e.tuning.TextWeight + aspect*e.tuning.AspectWeight
}

func classifyFrustrationType(lower string) FrustrationType {
	best := FrustrationMixed
	bestHits, total := 0, 0
	for _, cat := range frustrationCategories {
		hits := countHits(lower, cat.words)
		total += hits
		if hits > bestHits {
			best, bestHits = cat.ftype, hits
		}
	}
	if bestHits == 0 {
		return FrustrationMixed
	}
	if float64(total) > float64(bestHits)*mixedDominanceRatio {
		return FrustrationMixed
	}
	return best
}

func bandIntensity(level float64) FrustrationIntensity {
	switch {
	case level < intensityMildMax:
		return IntensityMild
	case level < intensityModerateMax:
		return IntensityModerate
	case level < intensitySevereMax:
		return IntensitySevere
	default:
		return IntensityCritical
	}
}

// lastEntries returns up to n most recent entries, oldest first. The
// caller's slice is never reordered.
func lastEntries(history History, n int) History {
	sorted := make(History, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WeekNumber < sorted[j].WeekNumber
	})
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

func (e *Extractor) frustrationTrend(history History) FrustrationTrend {
	if len(history) < 2 {
		return TrendStable
	}

	recent := lastEntries(history, trendWindow)
	latest := recent[len(recent)-1].Profile.FrustrationLevel
	prior := recent[:len(recent)-1]

	sum := 0.0
	for _, entry := range prior {
		sum += entry.Profile.FrustrationLevel
	}
	diff := latest - sum/float64(len(prior))

	switch {
	case diff > e.tuning.TrendShift:
		return TrendIncreasing
	case diff < -e.tuning.TrendShift:
		return TrendDecreasing
	}
	for _, entry := range prior {
		if math.Abs(latest-entry.Profile.FrustrationLevel) > e.tuning.SpikeShift {
			return TrendSpiking
		}
	}
	return TrendStable
}

func detectUrgency(lower string) UrgencyLevel {
	for _, rung := range urgencyLadder {
		for _, phrase := range rung.phrases {
			if strings.Contains(lower, phrase) {
				return rung.level
			}
		}
	}
	return UrgencyLow
}

func detectUrgencySignals(lower string) []string {
	signals := []string{}
	for _, p := range urgencySignalPatterns {
		if p.re.MatchString(lower) {
			signals = append(signals, p.tag)
		}
	}
	return signals
}

func (e *Extractor) responseUrgency(level UrgencyLevel, frustration float64) ResponseUrgency {
	var response ResponseUrgency
	switch level {
	case UrgencyImmediate, UrgencyCritical:
		response = RespondWithinHour
	case UrgencyHigh:
		response = RespondSameDay
	case UrgencyMedium:
		response = RespondWithinWeek
	default:
		response = RespondRoutine
	}

	// High frustration buys one escalation step.
	if frustration > e.tuning.UrgentFrustration {
		switch response {
		case RespondSameDay:
			response = RespondWithinHour
		case RespondWithinWeek:
			response = RespondSameDay
		case RespondRoutine:
			response = RespondWithinWeek
		}
	}
	return response
}

// temperatureScore needs the original casing for the caps ratio, so it
// takes both forms of the text.
func temperatureScore(text, lower string) float64 {
	hot := countHits(lower, hotWords)
	cold := countHits(lower, coldWords)

	base := defaultLevel
	if hot+cold > 0 {
		base = float64(hot) / float64(hot+cold)
	}

	intensity := 1.0 + intensifierStep*float64(countHits(lower, intensifierWords))
	temperature := clamp01(base * intensity)

	var upper, total int
	for _, r := range text {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	capsRatio := float64(upper) / math.Max(float64(total), 1)

	temperature += math.Min(float64(strings.Count(text, "!"))*exclamationStep, exclamationCap)
	temperature += math.Min(capsRatio*capsScale, capsCap)

	return math.Min(temperature, 1.0)
}

func (e *Extractor) emotionalVolatility(history History) float64 {
	if len(history) < 2 {
		return defaultVolatility
	}

	recent := lastEntries(history, volatilityWindow)
	sum, n := 0.0, 0
	for i := 1; i < len(recent); i++ {
		prev, cur := recent[i-1].Profile, recent[i].Profile
		sum += math.Abs(cur.FrustrationLevel - prev.FrustrationLevel)
		sum += math.Abs(cur.SatisfactionLevel - prev.SatisfactionLevel)
		sum += math.Abs(cur.EmotionalTemperature - prev.EmotionalTemperature)
		n += 3
	}
	return math.Min(sum/float64(n)*e.tuning.VolatilityScale, 1.0)
}

func (e *Extractor) emotionalTrajectory(history History) Trajectory {
	if len(history) < 2 {
		return TrajectoryNeutral
	}

	recent := lastEntries(history, trendWindow)
	valences := make([]float64, len(recent))
	for i, entry := range recent {
		valences[i] = entry.Profile.SatisfactionLevel - entry.Profile.FrustrationLevel
	}

	latest := valences[len(valences)-1]
	prior := valences[:len(valences)-1]
	sum := 0.0
	for _, v := range prior {
		sum += v
	}
	diff := latest - sum/float64(len(prior))

	switch {
	case diff > e.tuning.TrendShift:
		return TrajectoryImproving
	case diff < -e.tuning.TrendShift:
		return TrajectoryDeclining
	}
	for _, v := range prior {
		if math.Abs(latest-v) > e.tuning.SpikeShift {
			return TrajectoryFluctuating
		}
	}
	return TrajectoryNeutral
}

func (e *Extractor) hiddenDissatisfaction(lower string, satisfaction float64) (bool, float64, []string) {
	signals := []string{}
	for _, p := range hiddenPatterns {
		if p.re.MatchString(lower) {
			signals = append(signals, p.tag)
		}
	}
	if anyMatch(lower, praiseWithReservationsRes) {
		signals = append(signals, "praise_with_reservations")
	}
	if faintPraiseRe.MatchString(lower) {
		signals = append(signals, "faint_praise")
	}
	if diplomaticLanguageRe.MatchString(lower) {
		signals = append(signals, "diplomatic_language")
	}

	if len(signals) == 0 {
		return false, 0, signals
	}

	confidence := math.Min(float64(len(signals))*e.tuning.HiddenSignalStep, e.tuning.HiddenConfidenceCap)
	if satisfaction > e.tuning.HighSatisfaction {
		confidence -= e.tuning.HiddenSatisfiedPenalty
	} else if satisfaction < e.tuning.LowSatisfaction {
		confidence += e.tuning.HiddenUnsatisfiedBonus
	}

	return true, clamp01(confidence), signals
}

func (e *Extractor) politenessMask(lower string, hidden bool) float64 {
	if !hidden {
		return 0
	}

	mask := math.Min(float64(countHits(lower, politenessPhrases))*e.tuning.PolitenessStep, e.tuning.PolitenessCap)
	if deepGratitudeRe.MatchString(lower) {
		mask += deepGratitudeBonus
	}
	if politeApologyRe.MatchString(lower) {
		mask += politeApologyBonus
	}
	return math.Min(mask, 1.0)
}

// taggedEmotions collects direct word mentions plus group phrases, each
// emotion at most once.
func taggedEmotions(lower string, words []string, groups []emotionGroup) []string {
	found := []string{}
	seen := map[string]bool{}
	for _, w := range words {
		if strings.Contains(lower, w) {
			found = append(found, w)
			seen[w] = true
		}
	}
	for _, g := range groups {
		if seen[g.name] {
			continue
		}
		for _, phrase := range g.phrases {
			if strings.Contains(lower, phrase) {
				found = append(found, g.name)
				break
			}
		}
	}
	return found
}

func detectDropoutEmotions(lower string) []string {
	return taggedEmotions(lower, dropoutEmotionWords, dropoutEmotionGroups)
}

func detectRecoveryIndicators(lower string) []string {
	return taggedEmotions(lower, recoveryEmotionWords, recoveryEmotionGroups)
}

func detectTriggers(lower string) []string {
	triggers := []string{}
	for _, def := range triggerDefs {
		if anyMatch(lower, def.patterns) {
			triggers = append(triggers, def.name)
		}
	}
	return triggers
}

// coherenceScore checks that related levels line up: frustration should
// mirror dissatisfaction and engagement should track confidence.
func coherenceScore(frustration, engagement, confidence, satisfaction float64) float64 {
	valence := 1.0 - math.Abs((1-satisfaction)-frustration)
	clarity := 1.0 - math.Abs(engagement-confidence)
	return valence*coherenceValenceWeight + clarity*coherenceClarityWeight
}

func authenticityScore(lower string, hidden bool) float64 {
	authenticity := defaultAuthenticity
	if hidden {
		authenticity -= authenticityHiddenPenalty
	}
	if anyMatch(lower, authenticityMarkerRes) {
		authenticity += authenticityMarkerBonus
	}
	if anyMatch(lower, authenticityMixedRes) {
		authenticity -= authenticityMixedPenalty
	}
	return clamp01(authenticity)
}

func gradeComplexity(lower string) Complexity {
	distinct := countHits(lower, emotionVocabulary)

	hasPositive := countHits(lower, positiveEmotionWords) > 0
	hasNegative := countHits(lower, negativeEmotionWords) > 0
	contradiction := hasPositive && hasNegative

	explicit := anyMatch(lower, mixedFeelingRes)

	switch {
	case explicit || (contradiction && distinct >= complexityConflictedMin):
		return ComplexityConflicted
	case distinct >= complexityComplexMin || (contradiction && distinct >= complexityMixedMin):
		return ComplexityComplex
	case distinct >= complexityMixedMin:
		return ComplexityMixed
	default:
		return ComplexitySimple
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}
