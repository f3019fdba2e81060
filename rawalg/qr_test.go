package rawalg

import (
	"math"
	"math/rand/v2"
	"testing"
)

func identityTensor(d, p, n int) *Tensor {
	out := NewTensor(d, p, n, n)
	for pp := 0; pp < p; pp++ {
		s := out.Slice(0, pp)
		for i := 0; i < n; i++ {
			s.Set(i, i, 1)
		}
	}
	return out
}

func isUpperTriangular(t *Tensor, tol float64) bool {
	for p := 0; p < t.P; p++ {
		for d := 0; d < t.D; d++ {
			s := t.Slice(d, p)
			r, c := s.Dims()
			for i := 0; i < r; i++ {
				for j := 0; j < c && j < i; j++ {
					if math.Abs(s.At(i, j)) > tol {
						return false
					}
				}
			}
		}
	}
	return true
}

// TestQRRandomRectangular checks the qr recurrence on a random 4x3 UTPM of
// degree 3: R must stay upper triangular and dot(Q,R) must reconstruct A at
// every order.
func TestQRRandomRectangular(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 8))
	a := NewTensor(3, 1, 4, 3)
	for d := 0; d < 3; d++ {
		s := a.Slice(d, 0)
		for i := 0; i < 4; i++ {
			for j := 0; j < 3; j++ {
				s.Set(i, j, rnd.NormFloat64())
			}
		}
	}

	q, r, err := QR(a, gonumProvider)
	if err != nil {
		t.Fatalf("QR: %v", err)
	}

	if !isUpperTriangular(r, 1e-8) {
		t.Errorf("R is not upper triangular at every order")
	}

	got := Dot(q, r, gonumProvider)
	if d := maxAbsDiff(a, got); d > 1e-6 {
		t.Errorf("dot(Q,R) != A, max abs diff %v", d)
	}

	qtq := Dot(q.Transpose(), q, gonumProvider)
	id := identityTensorAllOrders(q.D, q.P, q.M)
	if d := maxAbsDiff(qtq, id); d > 1e-6 {
		t.Errorf("dot(Q^T,Q) != I, max abs diff %v", d)
	}
}

// identityTensorAllOrders builds the constant Taylor polynomial equal to the
// n x n identity at every order (d=0 is I, d>=1 is zero).
func identityTensorAllOrders(d, p, n int) *Tensor {
	return identityTensor(d, p, n)
}

func TestQRRankDeficient(t *testing.T) {
	a := NewTensor(1, 1, 3, 2)
	// both columns identical -> rank deficient
	s := a.Slice(0, 0)
	for i := 0; i < 3; i++ {
		s.Set(i, 0, float64(i+1))
		s.Set(i, 1, float64(i+1))
	}
	if _, _, err := QR(a, gonumProvider); err != ErrRankDeficient {
		t.Errorf("QR on rank-deficient A: got %v, want ErrRankDeficient", err)
	}
}

func TestQRPanicsOnMLessThanN(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for M<N")
		}
	}()
	a := NewTensor(1, 1, 2, 3)
	QR(a, gonumProvider)
}
