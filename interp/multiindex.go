// Package interp implements the multi-index and interpolation machinery
// (spec section 4.4) used to reconstruct a multivariate derivative tensor
// from a batch of univariate UTPM evaluations (Griewank's construction).
//
// Enumerate, Binomial, and Gamma are grounded on
// algopy.py's generate_multi_indices, multi_index_binomial, and gamma.
package interp

// MultiIndex is one row i in N^N with entries summing to D.
type MultiIndex []int

// Enumerate returns the complete set of multi-indices i in N^N with |i|=D,
// ordered lexicographically descending, produced by recursive descent that
// fixes each coordinate from its maximum allowable value downward.
func Enumerate(n, d int) []MultiIndex {
	var out []MultiIndex
	j := make(MultiIndex, n)
	var rec func(pos, remaining int)
	rec = func(pos, remaining int) {
		if pos == n-1 {
			j[n-1] = remaining
			row := make(MultiIndex, n)
			copy(row, j)
			out = append(out, row)
			return
		}
		for a := remaining; a >= 0; a-- {
			j[pos] = a
			rec(pos+1, remaining-a)
		}
	}
	rec(0, d)
	return out
}

// absSum returns the sum of the entries of i.
func absSum(i MultiIndex) int {
	s := 0
	for _, v := range i {
		s += v
	}
	return s
}

// binomial computes z!/[(z-k)!k!] for non-negative integers z,k.
func binomial(z, k int) float64 {
	if k == 0 {
		return 1
	}
	u := 1.0
	for i := 0; i < k; i++ {
		u *= float64(z - i)
	}
	d := 1.0
	for i := 1; i <= k; i++ {
		d *= float64(i)
	}
	return u / d
}

// Binomial computes the multi-index binomial coefficient
// prod_n C(z_n,k_n), per spec section 4.4.
func Binomial(z, k MultiIndex) float64 {
	if len(z) != len(k) {
		panic(ErrShape)
	}
	out := 1.0
	for n := range z {
		out *= binomial(z[n], k[n])
	}
	return out
}

// PositionsFromMultiIndices maps each multi-index row to a tuple of D
// coordinate indices addressing the corresponding element of the symmetric
// D-th-order derivative tensor. A multi-index [2,1,0] (differentiate twice
// w.r.t. x[0] and once w.r.t. x[1]) becomes the position [0,0,1].
func PositionsFromMultiIndices(indices []MultiIndex) [][]int {
	if len(indices) == 0 {
		return nil
	}
	d := absSum(indices[0])
	out := make([][]int, len(indices))
	for m, row := range indices {
		remaining := make(MultiIndex, len(row))
		copy(remaining, row)
		pos := make([]int, 0, d)
		for n := range remaining {
			for remaining[n] > 0 {
				pos = append(pos, n)
				remaining[n]--
			}
		}
		out[m] = pos
	}
	return out
}
