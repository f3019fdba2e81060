// Package utpm implements the UTPM value type -- a Taylor polynomial whose
// coefficients are matrices, M[t]/<t^D> -- and dispatches the public
// arithmetic (+ - * / dot inv solve qr eigh trace transpose reshape diag)
// onto the scalar kernels in rawalg.
package utpm

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ngonum/utpm/linalg"
	"github.com/ngonum/utpm/rawalg"
)

// UTPM is a Taylor polynomial of matrices: D coefficients, P independent
// directions, each coefficient an N x M matrix.
type UTPM struct {
	t  *rawalg.Tensor
	lp linalg.Provider
}

// New wraps a raw coefficient tensor as a UTPM value, using lp for any
// linear-algebra operation that needs a base-point dense solver.
func New(t *rawalg.Tensor, lp linalg.Provider) *UTPM {
	return &UTPM{t: t, lp: lp}
}

// Zeros allocates a zeroed UTPM of shape (D,P,N,M).
func Zeros(d, p, n, m int, lp linalg.Provider) *UTPM {
	return &UTPM{t: rawalg.NewTensor(d, p, n, m), lp: lp}
}

// ZerosLike allocates a zeroed UTPM with the same shape and provider as x.
func ZerosLike(x *UTPM) *UTPM {
	return &UTPM{t: x.t.ZerosLike(), lp: x.lp}
}

// FromCoeffs builds a UTPM whose d=0 coefficient is base and whose
// directional derivatives are dirs[p] (each an N x M matrix); d>=2
// coefficients start at zero.
func FromCoeffs(base *mat.Dense, dirs []*mat.Dense, order int, lp linalg.Provider) *UTPM {
	n, m := base.Dims()
	p := len(dirs)
	if p == 0 {
		p = 1
	}
	out := rawalg.NewTensor(order, p, n, m)
	for pp := 0; pp < p; pp++ {
		out.SetSlice(0, pp, base)
		if pp < len(dirs) && dirs[pp] != nil {
			out.SetSlice(1, pp, dirs[pp])
		}
	}
	return &UTPM{t: out, lp: lp}
}

// Tensor returns the underlying raw coefficient tensor (shared, not copied).
func (x *UTPM) Tensor() *rawalg.Tensor { return x.t }

// Provider returns the linear-algebra collaborator backing x.
func (x *UTPM) Provider() linalg.Provider { return x.lp }

// Shape returns (D,P,N,M).
func (x *UTPM) Shape() (d, p, n, m int) { return x.t.D, x.t.P, x.t.N, x.t.M }

// Coeff returns the (N,M) coefficient matrix at Taylor order d, direction p,
// as a view sharing storage with x.
func (x *UTPM) Coeff(d, p int) *mat.Dense { return x.t.Slice(d, p) }

// Clone returns a deep copy of x.
func (x *UTPM) Clone() *UTPM { return &UTPM{t: x.t.Clone(), lp: x.lp} }

// Add returns x+y.
func (x *UTPM) Add(y *UTPM) *UTPM { return &UTPM{t: rawalg.Add(x.t, y.t), lp: x.lp} }

// Sub returns x-y.
func (x *UTPM) Sub(y *UTPM) *UTPM { return &UTPM{t: rawalg.Sub(x.t, y.t), lp: x.lp} }

// Neg returns -x.
func (x *UTPM) Neg() *UTPM { return &UTPM{t: rawalg.Neg(x.t), lp: x.lp} }

// MulElementwise returns the elementwise (Hadamard) product x*y.
func (x *UTPM) MulElementwise(y *UTPM) *UTPM {
	return &UTPM{t: rawalg.MulElementwise(x.t, y.t), lp: x.lp}
}

// Div returns the elementwise quotient x/y.
func (x *UTPM) Div(y *UTPM) (*UTPM, error) {
	t, err := rawalg.Div(x.t, y.t)
	if err != nil {
		return nil, err
	}
	return &UTPM{t: t, lp: x.lp}, nil
}

// MulScalar returns x scaled by the plain constant s.
func (x *UTPM) MulScalar(s float64) *UTPM { return &UTPM{t: rawalg.MulScalar(x.t, s), lp: x.lp} }

// DivScalar returns x divided by the plain constant s -- see spec section 9,
// open question 3: s must be a true constant, not a Taylor polynomial.
func (x *UTPM) DivScalar(s float64) *UTPM { return &UTPM{t: rawalg.DivScalar(x.t, s), lp: x.lp} }

// Dot returns the matrix product x.y.
func (x *UTPM) Dot(y *UTPM) *UTPM { return &UTPM{t: rawalg.Dot(x.t, y.t, x.lp), lp: x.lp} }

// Inv returns x^-1.
func (x *UTPM) Inv() (*UTPM, error) {
	t, err := rawalg.Inv(x.t, x.lp)
	if err != nil {
		return nil, err
	}
	return &UTPM{t: t, lp: x.lp}, nil
}

// Solve returns y such that x.y = rhs.
func (x *UTPM) Solve(rhs *UTPM) (*UTPM, error) {
	t, err := rawalg.Solve(x.t, rhs.t, x.lp)
	if err != nil {
		return nil, err
	}
	return &UTPM{t: t, lp: x.lp}, nil
}

// Trace returns the coefficient-wise trace of x as a (D,P,1,1) UTPM scalar.
func (x *UTPM) Trace() *UTPM { return &UTPM{t: rawalg.Trace(x.t, x.lp), lp: x.lp} }

// Transpose returns x^T.
func (x *UTPM) Transpose() *UTPM { return &UTPM{t: x.t.Transpose(), lp: x.lp} }

// QR returns the thin QR factorization of x (requires N >= M).
func (x *UTPM) QR() (q, r *UTPM, err error) {
	qt, rt, err := rawalg.QR(x.t, x.lp)
	if err != nil {
		return nil, nil, err
	}
	return &UTPM{t: qt, lp: x.lp}, &UTPM{t: rt, lp: x.lp}, nil
}

// Eigh returns the symmetric eigendecomposition of x: l is (D,P,N,1), q is
// (D,P,N,N).
func (x *UTPM) Eigh() (l, q *UTPM, err error) {
	lt, qt, err := rawalg.Eigh(x.t, x.lp)
	if err != nil {
		return nil, nil, err
	}
	return &UTPM{t: lt, lp: x.lp}, &UTPM{t: qt, lp: x.lp}, nil
}

// Diag returns the (D,P,N,N) diagonal UTPM whose diagonal is the (D,P,N,1)
// vector UTPM x.
func (x *UTPM) Diag() *UTPM {
	if x.t.M != 1 {
		panic(rawalg.ErrShape)
	}
	n := x.t.N
	out := rawalg.NewTensor(x.t.D, x.t.P, n, n)
	for p := 0; p < x.t.P; p++ {
		for d := 0; d < x.t.D; d++ {
			src := x.t.Slice(d, p)
			dst := out.Slice(d, p)
			for i := 0; i < n; i++ {
				dst.Set(i, i, src.At(i, 0))
			}
		}
	}
	return &UTPM{t: out, lp: x.lp}
}

// Reshape returns a UTPM with the same coefficients as x but trailing shape
// (n,m); n*m must equal x's trailing element count.
func (x *UTPM) Reshape(n, m int) *UTPM {
	if n*m != x.t.N*x.t.M {
		panic(rawalg.ErrShape)
	}
	out := rawalg.NewTensor(x.t.D, x.t.P, n, m)
	copy(out.Data, x.t.Data)
	return &UTPM{t: out, lp: x.lp}
}
