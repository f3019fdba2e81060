// Package utpmtest supplies shared test helpers for the UTPM engine:
// finite-difference derivative checks, random SPD matrix generation, and
// tolerance-based slice comparison, following the style of the teacher's own
// mat/*_test.go helpers (EqualWithinAbsOrRel-based assertions rather than
// exact float comparison).
package utpmtest

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// FiniteDiff returns central-difference estimates of f's derivatives of
// orders 0..order-1 at t0, using step h: result[k] approximates
// (1/k!) d^k/dt^k f(t)|_{t=t0}, matching the Taylor-coefficient convention
// UTPM arithmetic uses internally (spec section 8, property 1). Only orders
// 0, 1 and 2 are estimated; entries for orders 3 and above are zero
// matrices.
func FiniteDiff(f func(t float64) *mat.Dense, t0 float64, order int, h float64) []*mat.Dense {
	out := make([]*mat.Dense, order)
	out[0] = f(t0)
	if order == 1 {
		return out
	}
	// first derivative via central difference
	plus := f(t0 + h)
	minus := f(t0 - h)
	r, c := out[0].Dims()
	d1 := mat.NewDense(r, c, nil)
	d1.Sub(plus, minus)
	d1.Scale(1/(2*h), d1)
	out[1] = d1

	if order == 2 {
		return out
	}
	// second derivative (already divided by 2! to match the Taylor
	// coefficient, not the raw derivative)
	d2 := mat.NewDense(r, c, nil)
	d2.Add(plus, minus)
	d2.Sub(d2, scaled(out[0], 2))
	d2.Scale(1/(2*h*h), d2)
	out[2] = d2

	for k := 3; k < order; k++ {
		out[k] = mat.NewDense(r, c, nil)
	}
	return out
}

func scaled(m *mat.Dense, s float64) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	out.Scale(s, m)
	return out
}

// RandomSPD returns a random n x n symmetric positive-definite matrix with
// distinct eigenvalues, suitable for exercising Eigh without hitting the
// repeated-eigenvalue precondition.
func RandomSPD(rnd *rand.Rand, n int) *mat.Dense {
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, rnd.NormFloat64())
		}
	}
	spd := mat.NewDense(n, n, nil)
	spd.Mul(a.T(), a)
	for i := 0; i < n; i++ {
		spd.Set(i, i, spd.At(i, i)+float64(n)+float64(i))
	}
	return spd
}

// Close asserts that got and want agree within tol (absolute or relative),
// reported element-wise with t.Errorf in the teacher's own style.
func Close(t *testing.T, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if !floats.EqualWithinAbsOrRel(got[i], want[i], tol, tol) {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
