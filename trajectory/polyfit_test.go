package trajectory

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFitPolynomialLinear(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ys := []float64{3, 5, 7, 9} // y = 1 + 2x

	coeffs := fitPolynomial(xs, ys, 1)

	if len(coeffs) != 2 {
		t.Fatalf("expected 2 coefficients, got %v", coeffs)
	}
	if !almostEqual(coeffs[0], 1) || !almostEqual(coeffs[1], 2) {
		t.Errorf("expected [1 2], got %v", coeffs)
	}
}

func TestFitPolynomialQuadratic(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{0, 1, 4, 9} // y = x^2

	coeffs := fitPolynomial(xs, ys, 2)

	if len(coeffs) != 3 {
		t.Fatalf("expected 3 coefficients, got %v", coeffs)
	}
	if !almostEqual(coeffs[0], 0) || !almostEqual(coeffs[1], 0) || !almostEqual(coeffs[2], 1) {
		t.Errorf("expected [0 0 1], got %v", coeffs)
	}
}

func TestFitPolynomialSingularFallsBack(t *testing.T) {
	// Identical x values cannot support any slope.
	xs := []float64{2, 2, 2}
	ys := []float64{1, 2, 3}

	coeffs := fitPolynomial(xs, ys, 2)

	if len(coeffs) != 1 {
		t.Fatalf("expected constant fallback, got %v", coeffs)
	}
	if !almostEqual(coeffs[0], 2) {
		t.Errorf("expected mean 2, got %v", coeffs[0])
	}
}

func TestFitPolynomialEmpty(t *testing.T) {
	coeffs := fitPolynomial(nil, nil, 2)
	if len(coeffs) != 1 || coeffs[0] != 0 {
		t.Errorf("expected [0], got %v", coeffs)
	}
}

func TestEvalPolynomial(t *testing.T) {
	tests := []struct {
		name   string
		coeffs []float64
		x      float64
		want   float64
	}{
		{name: "constant", coeffs: []float64{0.5}, x: 10, want: 0.5},
		{name: "linear", coeffs: []float64{1, 2}, x: 3, want: 7},
		{name: "quadratic", coeffs: []float64{1, 2, 3}, x: 2, want: 17},
		{name: "empty", coeffs: nil, x: 5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evalPolynomial(tt.coeffs, tt.x)
			if !almostEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestThresholdCrossing(t *testing.T) {
	tests := []struct {
		name      string
		coeffs    []float64
		threshold float64
		afterWeek float64
		wantRoot  float64
		wantFound bool
	}{
		{
			name:      "linear crossing",
			coeffs:    []float64{0.1, 0.2},
			threshold: 0.8,
			afterWeek: 3,
			wantRoot:  3.5,
			wantFound: true,
		},
		{
			name:      "linear crossing already passed",
			coeffs:    []float64{0.1, 0.2},
			threshold: 0.8,
			afterWeek: 4,
			wantFound: false,
		},
		{
			name:      "quadratic crossing",
			coeffs:    []float64{0, 0, 0.05},
			threshold: 0.8,
			afterWeek: 3,
			wantRoot:  4,
			wantFound: true,
		},
		{
			name:      "both roots ahead picks the sooner",
			coeffs:    []float64{5, -1, 0.05},
			threshold: 0.8,
			afterWeek: 3,
			wantRoot:  6,
			wantFound: true,
		},
		{
			name:      "near-zero quadratic term degrades to linear",
			coeffs:    []float64{0.1, 0.2, 1e-12},
			threshold: 0.8,
			afterWeek: 3,
			wantRoot:  3.5,
			wantFound: true,
		},
		{
			name:      "flat constant never crosses",
			coeffs:    []float64{0.5},
			threshold: 0.8,
			wantFound: false,
		},
		{
			name:      "downward parabola never reaches",
			coeffs:    []float64{0.5, 0, -0.01},
			threshold: 0.8,
			wantFound: false,
		},
		{
			name:      "no coefficients",
			coeffs:    nil,
			threshold: 0.8,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, found := thresholdCrossing(tt.coeffs, tt.threshold, tt.afterWeek)
			if found != tt.wantFound {
				t.Fatalf("expected found=%v, got %v (root=%v)", tt.wantFound, found, root)
			}
			if found && !almostEqual(root, tt.wantRoot) {
				t.Errorf("expected root %v, got %v", tt.wantRoot, root)
			}
		})
	}
}

func TestRSquared(t *testing.T) {
	tests := []struct {
		name   string
		xs     []float64
		ys     []float64
		coeffs []float64
		want   float64
	}{
		{
			name:   "perfect fit",
			xs:     []float64{1, 2, 3},
			ys:     []float64{2, 4, 6},
			coeffs: []float64{0, 2},
			want:   1,
		},
		{
			name:   "flat series reports zero",
			xs:     []float64{1, 2, 3},
			ys:     []float64{0.5, 0.5, 0.5},
			coeffs: []float64{0.5},
			want:   0,
		},
		{
			name:   "worse than mean clamps to zero",
			xs:     []float64{1, 2, 3},
			ys:     []float64{1, 5, 2},
			coeffs: []float64{0, 1},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rSquared(tt.xs, tt.ys, tt.coeffs)
			if !almostEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestVariance(t *testing.T) {
	got := variance([]float64{0.2, 0.4, 0.6})
	want := 0.08 / 3
	if !almostEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if variance(nil) != 0 {
		t.Errorf("expected 0 for empty input, got %v", variance(nil))
	}
}
