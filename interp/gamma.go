package interp

import "math"

// Gamma computes gamma(i,j), Griewank's eqn. 13.13, used to convert D
// univariate Taylor evaluations into one coefficient of the multivariate
// derivative tensor. Convention: when |k|=0 the corresponding term is zero
// (guards the division by |k| in term3).
func Gamma(i, j MultiIndex) float64 {
	n := len(i)
	d := absSum(j)

	alpha := func(k MultiIndex) float64 {
		absK := absSum(k)
		if absK == 0 {
			return 0
		}
		diffAbs := 0
		for n := 0; n < len(i); n++ {
			diffAbs += intAbs(i[n] - k[n])
		}
		term1 := 1.0
		if diffAbs%2 != 0 {
			term1 = -1.0
		}

		term2 := 1.0
		for n := 0; n < len(i); n++ {
			term2 *= binomial(i[n], k[n])
		}

		term3 := 1.0
		for n := 0; n < len(i); n++ {
			// D*k[n]/|k| need not be an integer in general; Griewank's
			// construction only evaluates this at points where it is.
			ratio := float64(d*k[n]) / float64(absK)
			term3 *= binomialFloat(ratio, j[n])
		}

		term4 := math.Pow(float64(absK)/float64(d), float64(absSum(i)))

		return term1 * term2 * term3 * term4
	}

	total := 0.0
	k := make(MultiIndex, n)
	var rec func(pos int)
	rec = func(pos int) {
		if pos == n {
			total += alpha(k)
			return
		}
		for a := 0; a <= i[pos]; a++ {
			k[pos] = a
			rec(pos + 1)
		}
	}
	rec(0)
	return total
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// binomialFloat computes C(z,k) for a real-valued z and integer k, via the
// falling-factorial form (z choose k) = prod_{a=0}^{k-1}(z-a) / k!, matching
// algopy's own binomial helper which the original applies without an
// integrality check on z.
func binomialFloat(z float64, k int) float64 {
	if k == 0 {
		return 1
	}
	u := 1.0
	for a := 0; a < k; a++ {
		u *= z - float64(a)
	}
	d := 1.0
	for a := 1; a <= k; a++ {
		d *= float64(a)
	}
	return u / d
}
