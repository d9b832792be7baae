package patterns

import (
	"testing"

	"feedback-pulse/emotion"
)

func TestSignatureFormat(t *testing.T) {
	tests := []struct {
		name    string
		profile emotion.Profile
		want    string
	}{
		{
			name:    "calm improving student",
			profile: baseProfile(),
			want:    "f0.30_e0.80_c0.60_s0.70_t0.40_v0.20_h0_u0.2_fttec_tr0.8",
		},
		{
			name: "hot declining student",
			profile: emotion.Profile{
				FrustrationLevel:      0.72,
				EngagementLevel:       0.55,
				ConfidenceLevel:       0.34,
				SatisfactionLevel:     0.61,
				FrustrationType:       emotion.FrustrationContent,
				UrgencyLevel:          emotion.UrgencyImmediate,
				EmotionalTemperature:  0.8,
				EmotionalVolatility:   0.25,
				EmotionalTrajectory:   emotion.TrajectoryDeclining,
				HiddenDissatisfaction: true,
			},
			want: "f0.72_e0.55_c0.34_s0.61_t0.80_v0.25_h1_u1.0_ftcon_tr0.2",
		},
		{
			name:    "unknown categorical values fall back",
			profile: emotion.Profile{},
			want:    "f0.00_e0.00_c0.00_s0.00_t0.00_v0.00_h0_u0.0_ft_tr0.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Signature(tt.profile)
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSignatureDeterministic(t *testing.T) {
	p := baseProfile()
	first := Signature(p)
	second := Signature(p)
	if first != second {
		t.Errorf("expected identical signatures, got %s and %s", first, second)
	}
}

func TestSignatureClose(t *testing.T) {
	base := Signature(baseProfile())

	threeOff := baseProfile()
	threeOff.ConfidenceLevel = 0.9
	threeOff.FrustrationType = emotion.FrustrationContent
	threeOff.EmotionalTrajectory = emotion.TrajectoryDeclining

	fourOff := threeOff
	fourOff.EmotionalVolatility = 0.5

	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{name: "identical", a: base, b: base, want: true},
		{name: "seven of ten fields agree", a: base, b: Signature(threeOff), want: true},
		{name: "six of ten fields agree", a: base, b: Signature(fourOff), want: false},
		{name: "field count mismatch", a: base, b: "f0.30_e0.80", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := signatureClose(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("expected %v, got %v (a=%s b=%s)", tt.want, got, tt.a, tt.b)
			}
		})
	}
}

// baseProfile is the shared fixture for pattern tests: a calm, engaged,
// improving student.
func baseProfile() emotion.Profile {
	return emotion.Profile{
		FrustrationLevel:     0.3,
		EngagementLevel:      0.8,
		ConfidenceLevel:      0.6,
		SatisfactionLevel:    0.7,
		FrustrationType:      emotion.FrustrationTechnical,
		UrgencyLevel:         emotion.UrgencyLow,
		EmotionalTemperature: 0.4,
		EmotionalVolatility:  0.2,
		EmotionalTrajectory:  emotion.TrajectoryImproving,
	}
}
