package geom

// Gradient computes the numerical gradient of ys sampled at uniform
// spacing: central differences for interior points, one-sided
// differences at the ends. Matches the finite-difference scheme the
// trajectory generator uses to derive tangent headings.
func Gradient(ys []float64, spacing float64) []float64 {
	n := len(ys)
	out := make([]float64, n)
	if n == 0 || spacing == 0 {
		return out
	}
	if n == 1 {
		return out
	}

	out[0] = (ys[1] - ys[0]) / spacing
	out[n-1] = (ys[n-1] - ys[n-2]) / spacing
	for i := 1; i < n-1; i++ {
		out[i] = (ys[i+1] - ys[i-1]) / (2 * spacing)
	}
	return out
}
