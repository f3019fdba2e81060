package rawalg

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ngonum/utpm/linalg"
)

// Eigh returns the Taylor symmetric eigendecomposition of x: l (a (D,P,N,1)
// tensor of eigenvalues) and q (a (D,P,N,N) tensor of eigenvectors), such
// that x = q * diag(l) * q^T at every order, per spec section 4.1.
//
// x must be square at d=0,p for every p, and its base-point eigenvalues must
// be distinct (checked against EighDistinctTol); the recurrence as given is
// undefined at degenerate spectra.
func Eigh(x *Tensor, lp linalg.Provider) (l, q *Tensor, err error) {
	if x.N != x.M {
		panic(ErrNotSquare)
	}
	n := x.N
	l = NewTensor(x.D, x.P, n, 1)
	q = NewTensor(x.D, x.P, n, n)

	for p := 0; p < x.P; p++ {
		a0 := x.Slice(0, p)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if math.Abs(a0.At(i, j)-a0.At(j, i)) > EighDistinctTol {
					return nil, nil, ErrNotSymmetric
				}
			}
		}
		l0, q0, ferr := lp.Eigh(a0)
		if ferr != nil {
			return nil, nil, ferr
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if math.Abs(l0[i]-l0[j]) < EighDistinctTol {
					return nil, nil, ErrNotDistinct
				}
			}
		}
		for i := 0; i < n; i++ {
			l.Data[l.block(0, p)+i] = l0[i]
		}
		q.SetSlice(0, p, q0)

		for dk := 1; dk < x.D; dk++ {
			// dF = [t^dk](Q^T.A.Q), the truncated triple product over every
			// index triple (i,j,k) with i+j+k=dk and i,j,k<dk -- i.e. every
			// factor strictly below order dk. The i=k=0,j=dk term
			// (Q[0]^T.A[dk].Q[0]) is excluded here; it is added separately
			// below as qAq.
			dF := mat.NewDense(n, n, nil)
			for i := 0; i < dk; i++ {
				for k := 0; k < dk; k++ {
					j := dk - i - k
					if j < 0 || j >= dk {
						continue
					}
					term := lp.MatMul(lp.Transpose(q.Slice(i, p)), lp.MatMul(x.Slice(j, p), q.Slice(k, p)))
					dF.Add(dF, term)
				}
			}
			dG := mat.NewDense(n, n, nil)
			for d := 1; d <= dk-1; d++ {
				dG.Add(dG, lp.MatMul(lp.Transpose(q.Slice(d, p)), q.Slice(dk-d, p)))
			}
			s := mat.NewDense(n, n, nil)
			s.Scale(-0.5, dG)

			qAq := lp.MatMul(lp.Transpose(q0), lp.MatMul(x.Slice(dk, p), q0))
			k := mat.NewDense(n, n, nil)
			k.Add(qAq, dF)

			sl := mat.NewDense(n, n, nil)
			sl.Mul(s, diagMatrix(l0))
			ls := mat.NewDense(n, n, nil)
			ls.Mul(diagMatrix(l0), s)
			k.Add(k, sl)
			k.Add(k, ls)

			dl := make([]float64, n)
			for i := 0; i < n; i++ {
				dl[i] = k.At(i, i)
				l.Data[l.block(dk, p)+i] = dl[i]
			}

			h := mat.NewDense(n, n, nil)
			for r := 0; r < n; r++ {
				for c := 0; c < n; c++ {
					if r == c {
						continue
					}
					h.Set(r, c, 1/(l0[c]-l0[r]))
				}
			}

			kMinusDl := mat.NewDense(n, n, nil)
			kMinusDl.Copy(k)
			for i := 0; i < n; i++ {
				kMinusDl.Set(i, i, 0)
			}
			hadamard := mat.NewDense(n, n, nil)
			hadamard.MulElem(h, kMinusDl)
			hadamard.Add(hadamard, s)

			qd := lp.MatMul(q0, hadamard)
			q.SetSlice(dk, p, qd)
		}
	}
	return l, q, nil
}
