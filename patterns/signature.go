package patterns

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"feedback-pulse/emotion"
)

const (
	// signatureFieldClose is the numeric tolerance for one signature
	// field; signatureMatchRatio is the share of fields that must agree
	// before two signatures bucket together.
	signatureFieldClose = 0.2
	signatureMatchRatio = 0.7

	// typeFieldIndex is the position of the frustration type code, the
	// only field compared as a plain string.
	typeFieldIndex = 8

	shortPrefixLen = 1
	longPrefixLen  = 2
)

// Signature renders a profile as a fixed-order pattern key. Identical
// profiles produce byte-identical signatures. The string is a coarse
// bucketing key and is never decoded back into a profile.
func Signature(p emotion.Profile) string {
	hidden := 0
	if p.HiddenDissatisfaction {
		hidden = 1
	}
	return fmt.Sprintf("f%.2f_e%.2f_c%.2f_s%.2f_t%.2f_v%.2f_h%d_u%.1f_ft%s_tr%.1f",
		p.FrustrationLevel,
		p.EngagementLevel,
		p.ConfidenceLevel,
		p.SatisfactionLevel,
		p.EmotionalTemperature,
		p.EmotionalVolatility,
		hidden,
		urgencyRank(p.UrgencyLevel),
		typeCode(p.FrustrationType),
		trajectoryRank(p.EmotionalTrajectory))
}

func urgencyRank(u emotion.UrgencyLevel) float64 {
	switch u {
	case emotion.UrgencyLow:
		return 0.2
	case emotion.UrgencyMedium:
		return 0.4
	case emotion.UrgencyHigh:
		return 0.6
	case emotion.UrgencyCritical:
		return 0.8
	case emotion.UrgencyImmediate:
		return 1.0
	default:
		return 0.0
	}
}

func trajectoryRank(t emotion.Trajectory) float64 {
	switch t {
	case emotion.TrajectoryImproving:
		return 0.8
	case emotion.TrajectoryNeutral:
		return 0.5
	case emotion.TrajectoryDeclining:
		return 0.2
	case emotion.TrajectoryFluctuating:
		return 0.4
	default:
		return 0.5
	}
}

func typeCode(t emotion.FrustrationType) string {
	s := string(t)
	if len(s) > 3 {
		return s[:3]
	}
	return s
}

// signatureClose reports whether two signatures agree on at least 70%
// of their fields. Numeric fields match within 0.2, the frustration
// type code must match exactly.
func signatureClose(a, b string) bool {
	fieldsA := strings.Split(a, "_")
	fieldsB := strings.Split(b, "_")
	if len(fieldsA) != len(fieldsB) {
		return false
	}

	matches := 0
	for i := range fieldsA {
		if fieldMatches(i, fieldsA[i], fieldsB[i]) {
			matches++
		}
	}
	return float64(matches)/float64(len(fieldsA)) >= signatureMatchRatio
}

func fieldMatches(index int, a, b string) bool {
	prefix := shortPrefixLen
	if index >= typeFieldIndex {
		prefix = longPrefixLen
	}
	if len(a) <= prefix || len(b) <= prefix {
		return false
	}
	if index == typeFieldIndex {
		return a == b
	}

	va, errA := strconv.ParseFloat(a[prefix:], 64)
	vb, errB := strconv.ParseFloat(b[prefix:], 64)
	if errA != nil || errB != nil {
		return a == b
	}
	return math.Abs(va-vb) <= signatureFieldClose
}
