package rawalg

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ngonum/utpm/linalg"
)

// Dot returns the truncated Cauchy product z = x . y using matrix
// multiplication at each (c,p) term (spec section 4.1):
//
//	z[d,p] = sum_{c=0..d} x[c,p] * y[d-c,p]
//
// x.M must equal y.N; x and y must share (D,P).
func Dot(x, y *Tensor, lp linalg.Provider) *Tensor {
	if x.D != y.D || x.P != y.P {
		panic(ErrShape)
	}
	if x.M != y.N {
		panic(ErrShape)
	}
	out := NewTensor(x.D, x.P, x.N, y.M)
	for p := 0; p < x.P; p++ {
		for d := 0; d < x.D; d++ {
			acc := mat.NewDense(x.N, y.M, nil)
			for c := 0; c <= d; c++ {
				term := lp.MatMul(x.Slice(c, p), y.Slice(d-c, p))
				acc.Add(acc, term)
			}
			out.SetSlice(d, p, acc)
		}
	}
	return out
}

// Inv returns the Taylor-matrix inverse of x, per spec section 4.1:
//
//	B[0]   = A[0]^-1
//	B[d]   = -B[0] * sum_{c=1..d} A[c]*B[d-c],  d >= 1
func Inv(x *Tensor, lp linalg.Provider) (*Tensor, error) {
	if x.N != x.M {
		panic(ErrNotSquare)
	}
	out := x.ZerosLike()
	for p := 0; p < x.P; p++ {
		b0, err := lp.Inverse(x.Slice(0, p))
		if err != nil {
			return nil, ErrSingular
		}
		out.SetSlice(0, p, b0)
		for d := 1; d < x.D; d++ {
			acc := mat.NewDense(x.N, x.N, nil)
			for c := 1; c <= d; c++ {
				term := lp.MatMul(x.Slice(c, p), out.Slice(d-c, p))
				acc.Add(acc, term)
			}
			res := lp.MatMul(b0, acc)
			res.Scale(-1, res)
			out.SetSlice(d, p, res)
		}
	}
	return out, nil
}

// Solve returns the Taylor-matrix solution y of a*y = x, per spec
// section 4.1:
//
//	Y[0,p] = solve(A[0,p], X[0,p])
//	Y[d,p] = solve(A[0,p], X[d,p] - sum_{k=1..d} A[k,p]*Y[d-k,p]),  d >= 1
//
// Keeps the X[d] base term at every order, resolving spec section 9's open
// question 2 (a variant in the original source drops it).
func Solve(a, x *Tensor, lp linalg.Provider) (*Tensor, error) {
	if a.N != a.M {
		panic(ErrNotSquare)
	}
	if a.N != x.N {
		panic(ErrShape)
	}
	if a.D != x.D || a.P != x.P {
		panic(ErrShape)
	}
	out := NewTensor(x.D, x.P, x.N, x.M)
	for p := 0; p < a.P; p++ {
		y0, err := lp.Solve(a.Slice(0, p), x.Slice(0, p))
		if err != nil {
			return nil, ErrSingular
		}
		out.SetSlice(0, p, y0)
		for d := 1; d < x.D; d++ {
			rhs := mat.NewDense(x.N, x.M, nil)
			rhs.Copy(x.Slice(d, p))
			for k := 1; k <= d; k++ {
				term := lp.MatMul(a.Slice(k, p), out.Slice(d-k, p))
				rhs.Sub(rhs, term)
			}
			yd, err := lp.Solve(a.Slice(0, p), rhs)
			if err != nil {
				return nil, ErrSingular
			}
			out.SetSlice(d, p, yd)
		}
	}
	return out, nil
}

// Trace returns the coefficient-wise scalar trace of x, represented as a
// (D,P,1,1) Tensor (the algopy convention for a UTPM scalar).
func Trace(x *Tensor, lp linalg.Provider) *Tensor {
	if x.N != x.M {
		panic(ErrNotSquare)
	}
	out := NewTensor(x.D, x.P, 1, 1)
	for p := 0; p < x.P; p++ {
		for d := 0; d < x.D; d++ {
			out.Data[out.block(d, p)] = lp.Trace(x.Slice(d, p))
		}
	}
	return out
}
