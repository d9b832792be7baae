package helpers

import "fmt"

// FormatPercent formats a 0..1 ratio as a whole percentage
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// FormatScore formats an emotion level for messages and logs
func FormatScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatWeekRange renders a week window like "week 5" or "weeks 5-7"
func FormatWeekRange(start, end int) string {
	if start == end {
		return fmt.Sprintf("week %d", start)
	}
	return fmt.Sprintf("weeks %d-%d", start, end)
}

// FormatDays renders a projected day count like "today" or "3 days"
func FormatDays(days int) string {
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

// riskRanks orders risk levels for threshold comparisons. Unknown
// levels rank below minimal.
var riskRanks = map[string]int{
	"minimal":  0,
	"low":      1,
	"medium":   2,
	"high":     3,
	"critical": 4,
}

// RiskRank maps a risk level to its ordering, -1 when unrecognized
func RiskRank(level string) int {
	if rank, ok := riskRanks[level]; ok {
		return rank
	}
	return -1
}

// RiskEmoji picks the marker used in alert messages
func RiskEmoji(level string) string {
	switch level {
	case "critical":
		return "🔴"
	case "high":
		return "🟠"
	case "medium":
		return "🟡"
	case "low":
		return "🟢"
	default:
		return "⚪"
	}
}
