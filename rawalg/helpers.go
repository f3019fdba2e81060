package rawalg

import "gonum.org/v1/gonum/mat"

// strictlyLower returns a copy of m with everything on or above the
// diagonal zeroed.
func strictlyLower(m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c && j < i; j++ {
			out.Set(i, j, m.At(i, j))
		}
	}
	return out
}

// zeroStrictlyLower zeroes everything below the diagonal of m, in place.
func zeroStrictlyLower(m *mat.Dense) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c && j < i; j++ {
			m.Set(i, j, 0)
		}
	}
}

// diagOf returns the diagonal entries of the square matrix m.
func diagOf(m *mat.Dense) []float64 {
	n, _ := m.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = m.At(i, i)
	}
	return out
}

// diagMatrix returns the n x n matrix with d on the diagonal and zero
// elsewhere.
func diagMatrix(d []float64) *mat.Dense {
	n := len(d)
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		out.Set(i, i, d[i])
	}
	return out
}
