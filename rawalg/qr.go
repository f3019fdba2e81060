package rawalg

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ngonum/utpm/linalg"
)

// QR returns the thin Taylor-QR factorization of x, per spec section 4.1.
// It requires at least as many rows as columns: m >= n with m = x.N rows and
// n = x.M columns, following the (N,M) = (rows,cols) convention used
// throughout this package; it panics with ErrShape otherwise.
//
// Q has shape (D,P,m,n), R has shape (D,P,n,n).
func QR(x *Tensor, lp linalg.Provider) (q, r *Tensor, err error) {
	m, n := x.N, x.M
	if m < n {
		panic(ErrShape)
	}
	q = NewTensor(x.D, x.P, m, n)
	r = NewTensor(x.D, x.P, n, n)

	for p := 0; p < x.P; p++ {
		q0, r0, ferr := lp.QR(x.Slice(0, p))
		if ferr != nil {
			return nil, nil, ferr
		}
		for i := 0; i < n; i++ {
			if math.Abs(r0.At(i, i)) < QRRankTol {
				return nil, nil, ErrRankDeficient
			}
		}
		q.SetSlice(0, p, q0)
		r.SetSlice(0, p, r0)

		r0inv, ierr := lp.Inverse(r0)
		if ierr != nil {
			return nil, nil, ErrSingular
		}

		for dk := 1; dk < x.D; dk++ {
			dF := mat.NewDense(m, n, nil)
			dG := mat.NewDense(n, n, nil)
			for d := 1; d <= dk-1; d++ {
				dF.Add(dF, lp.MatMul(q.Slice(d, p), r.Slice(dk-d, p)))
				dG.Add(dG, lp.MatMul(lp.Transpose(q.Slice(d, p)), q.Slice(dk-d, p)))
			}
			dG.Scale(-1, dG)

			h := mat.NewDense(m, n, nil)
			h.Sub(x.Slice(dk, p), dF)

			s := mat.NewDense(n, n, nil)
			s.Scale(-0.5, dG)

			inner := mat.NewDense(n, n, nil)
			inner.Sub(lp.MatMul(lp.MatMul(lp.Transpose(q0), h), r0inv), s)
			xMat := strictlyLower(inner)
			xMat.Sub(xMat, lp.Transpose(xMat))

			k := mat.NewDense(n, n, nil)
			k.Add(s, xMat)

			rd := mat.NewDense(n, n, nil)
			rd.Sub(lp.MatMul(lp.Transpose(q0), h), lp.MatMul(k, r0))
			zeroStrictlyLower(rd)
			r.SetSlice(dk, p, rd)

			qd := mat.NewDense(m, n, nil)
			qd.Sub(h, lp.MatMul(q0, rd))
			qd2 := lp.MatMul(qd, r0inv)
			q.SetSlice(dk, p, qd2)
		}
	}
	return q, r, nil
}
