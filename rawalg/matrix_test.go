package rawalg

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/ngonum/utpm/linalg"
)

var gonumProvider = linalg.Gonum{}

func maxAbsDiff(a, b *Tensor) float64 {
	m := 0.0
	for i := range a.Data {
		if d := math.Abs(a.Data[i] - b.Data[i]); d > m {
			m = d
		}
	}
	return m
}

// TestInverse checks the inv recurrence against hand-derived coefficients
// for a diagonal base point with an identity direction.
func TestInverse(t *testing.T) {
	a := NewTensor(2, 1, 2, 2)
	a.Slice(0, 0).Set(0, 0, 2)
	a.Slice(0, 0).Set(1, 1, 3)
	a.Slice(1, 0).Set(0, 0, 1)
	a.Slice(1, 0).Set(1, 1, 1)

	inv, err := Inv(a, gonumProvider)
	if err != nil {
		t.Fatalf("Inv: %v", err)
	}

	want0 := mat.NewDense(2, 2, []float64{0.5, 0, 0, 1.0 / 3.0})
	want1 := mat.NewDense(2, 2, []float64{-0.25, 0, 0, -1.0 / 9.0})

	if !mat.EqualApprox(inv.Slice(0, 0), want0, 1e-9) {
		t.Errorf("inv[0] = %v, want %v", mat.Formatted(inv.Slice(0, 0)), mat.Formatted(want0))
	}
	if !mat.EqualApprox(inv.Slice(1, 0), want1, 1e-9) {
		t.Errorf("inv[1] = %v, want %v", mat.Formatted(inv.Slice(1, 0)), mat.Formatted(want1))
	}
}

func TestInvRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	a := NewTensor(3, 2, 3, 3)
	for p := 0; p < a.P; p++ {
		for d := 0; d < a.D; d++ {
			s := a.Slice(d, p)
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					s.Set(i, j, rnd.NormFloat64())
				}
				s.Set(i, i, s.At(i, i)+5) // keep base point well-conditioned
			}
		}
	}

	inv1, err := Inv(a, gonumProvider)
	if err != nil {
		t.Fatalf("Inv: %v", err)
	}
	inv2, err := Inv(inv1, gonumProvider)
	if err != nil {
		t.Fatalf("Inv(Inv): %v", err)
	}
	if d := maxAbsDiff(a, inv2); d > 1e-6 {
		t.Errorf("inv(inv(a)) != a, max abs diff %v", d)
	}
}

func TestSolveDotRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewPCG(3, 4))
	a := NewTensor(3, 1, 3, 3)
	x := NewTensor(3, 1, 3, 2)
	for d := 0; d < 3; d++ {
		as, xs := a.Slice(d, 0), x.Slice(d, 0)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				as.Set(i, j, rnd.NormFloat64())
			}
			as.Set(i, i, as.At(i, i)+5)
			for j := 0; j < 2; j++ {
				xs.Set(i, j, rnd.NormFloat64())
			}
		}
	}

	rhs := Dot(a, x, gonumProvider)
	y, err := Solve(a, rhs, gonumProvider)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if d := maxAbsDiff(x, y); d > 1e-6 {
		t.Errorf("solve(a, dot(a,x)) != x, max abs diff %v", d)
	}
}

func TestTransposeRoundTrip(t *testing.T) {
	x := newTestTensor(2, 1, 2, 3, func(d, p, i, j int) float64 { return float64(d*10 + i*3 + j) })
	got := x.Transpose().Transpose()
	if d := maxAbsDiff(x, got); d != 0 {
		t.Errorf("transpose(transpose(x)) != x, max abs diff %v", d)
	}
}

// TestDotProduct checks the dot recurrence against hand-derived coefficients
// for y = x^T . x.
func TestDotProduct(t *testing.T) {
	x := NewTensor(2, 1, 2, 1)
	x.Slice(0, 0).Set(0, 0, 1)
	x.Slice(0, 0).Set(1, 0, 2)
	x.Slice(1, 0).Set(0, 0, 1)
	x.Slice(1, 0).Set(1, 0, 0)

	y := Dot(x.Transpose(), x, gonumProvider)
	if got := y.Slice(0, 0).At(0, 0); got != 5 {
		t.Errorf("y[0] = %v, want 5", got)
	}
	if got := y.Slice(1, 0).At(0, 0); got != 2 {
		t.Errorf("y[1] = %v, want 2", got)
	}
}
