package trajectory

import "math"

const (
	// singularEps rejects pivots too small to divide by during
	// elimination; quadraticEps treats a fitted quadratic term of this
	// size as flat so collinear points solve linearly.
	singularEps  = 1e-10
	quadraticEps = 1e-9
)

// fitPolynomial returns least-squares coefficients in ascending order
// (c[0] + c[1]x + ... + c[d]x^d) by solving the normal equations. A
// singular system steps the degree down, bottoming out at the mean of
// ys, so a usable fit always comes back.
func fitPolynomial(xs, ys []float64, degree int) []float64 {
	if len(xs) == 0 {
		return []float64{0}
	}
	for d := degree; d > 0; d-- {
		if coeffs, ok := solveNormalEquations(xs, ys, d); ok {
			return coeffs
		}
	}
	return []float64{mean(ys)}
}

// solveNormalEquations builds the moment matrix of the least-squares
// system and runs Gaussian elimination with partial pivoting.
func solveNormalEquations(xs, ys []float64, degree int) ([]float64, bool) {
	size := degree + 1

	// moments[k] = sum x^k, rhs[i] = sum y*x^i.
	moments := make([]float64, 2*degree+1)
	rhs := make([]float64, size)
	for i, x := range xs {
		pow := 1.0
		for k := 0; k < len(moments); k++ {
			moments[k] += pow
			if k < size {
				rhs[k] += ys[i] * pow
			}
			pow *= x
		}
	}

	matrix := make([][]float64, size)
	for i := range matrix {
		matrix[i] = make([]float64, size+1)
		for j := 0; j < size; j++ {
			matrix[i][j] = moments[i+j]
		}
		matrix[i][size] = rhs[i]
	}

	for col := 0; col < size; col++ {
		pivot := col
		for row := col + 1; row < size; row++ {
			if math.Abs(matrix[row][col]) > math.Abs(matrix[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(matrix[pivot][col]) < singularEps {
			return nil, false
		}
		matrix[col], matrix[pivot] = matrix[pivot], matrix[col]

		for row := col + 1; row < size; row++ {
			factor := matrix[row][col] / matrix[col][col]
			for j := col; j <= size; j++ {
				matrix[row][j] -= factor * matrix[col][j]
			}
		}
	}

	coeffs := make([]float64, size)
	for i := size - 1; i >= 0; i-- {
		sum := matrix[i][size]
		for j := i + 1; j < size; j++ {
			sum -= matrix[i][j] * coeffs[j]
		}
		coeffs[i] = sum / matrix[i][i]
	}
	return coeffs, true
}

func evalPolynomial(coeffs []float64, x float64) float64 {
	result := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = result*x + coeffs[i]
	}
	return result
}

// thresholdCrossing solves coeffs(x) = threshold and returns the
// smallest root strictly after afterWeek.
func thresholdCrossing(coeffs []float64, threshold, afterWeek float64) (float64, bool) {
	var a, b, c float64
	switch len(coeffs) {
	case 0:
		return 0, false
	case 1:
		c = coeffs[0]
	case 2:
		b, c = coeffs[1], coeffs[0]
	default:
		a, b, c = coeffs[2], coeffs[1], coeffs[0]
	}
	c -= threshold

	if math.Abs(a) < quadraticEps {
		if math.Abs(b) < quadraticEps {
			return 0, false
		}
		root := -c / b
		if root > afterWeek {
			return root, true
		}
		return 0, false
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}
	sqrtD := math.Sqrt(discriminant)

	best, found := 0.0, false
	for _, root := range []float64{(-b + sqrtD) / (2 * a), (-b - sqrtD) / (2 * a)} {
		if root > afterWeek && (!found || root < best) {
			best, found = root, true
		}
	}
	return best, found
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// variance is the population variance.
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return sum / float64(len(values))
}

// rSquared measures fit quality, clamped to [0,1]. A zero-variance
// series reports 0 so flat data never inflates confidence.
func rSquared(xs, ys, coeffs []float64) float64 {
	m := mean(ys)
	var ssTotal, ssResidual float64
	for i, x := range xs {
		pred := evalPolynomial(coeffs, x)
		ssTotal += (ys[i] - m) * (ys[i] - m)
		ssResidual += (ys[i] - pred) * (ys[i] - pred)
	}
	if ssTotal == 0 {
		return 0
	}
	return clamp01(1 - ssResidual/ssTotal)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}
