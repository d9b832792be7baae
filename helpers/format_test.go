package helpers

import "testing"

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.78, "78%"},
		{0.0, "0%"},
		{1.0, "100%"},
		{0.006, "1%"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.in); got != tt.want {
			t.Errorf("expected %s for %v, got %s", tt.want, tt.in, got)
		}
	}
}

func TestFormatWeekRange(t *testing.T) {
	if got := FormatWeekRange(5, 5); got != "week 5" {
		t.Errorf("expected week 5, got %s", got)
	}
	if got := FormatWeekRange(5, 7); got != "weeks 5-7" {
		t.Errorf("expected weeks 5-7, got %s", got)
	}
}

func TestFormatDays(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "today"},
		{-2, "today"},
		{1, "1 day"},
		{4, "4 days"},
	}
	for _, tt := range tests {
		if got := FormatDays(tt.in); got != tt.want {
			t.Errorf("expected %s for %d, got %s", tt.want, tt.in, got)
		}
	}
}

func TestRiskRankOrdering(t *testing.T) {
	if RiskRank("critical") <= RiskRank("high") {
		t.Error("expected critical to rank above high")
	}
	if RiskRank("minimal") != 0 {
		t.Errorf("expected minimal rank 0, got %d", RiskRank("minimal"))
	}
	if RiskRank("whatever") != -1 {
		t.Errorf("expected unrecognized rank -1, got %d", RiskRank("whatever"))
	}
}
