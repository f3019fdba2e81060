package rawalg

import "math"

// Add returns x+y, coefficient-wise. x and y must share shape.
func Add(x, y *Tensor) *Tensor {
	x.checkShape(y)
	out := &Tensor{D: x.D, P: x.P, N: x.N, M: x.M, Data: make([]float64, len(x.Data))}
	for i := range out.Data {
		out.Data[i] = x.Data[i] + y.Data[i]
	}
	return out
}

// Sub returns x-y, coefficient-wise. x and y must share shape.
func Sub(x, y *Tensor) *Tensor {
	x.checkShape(y)
	out := &Tensor{D: x.D, P: x.P, N: x.N, M: x.M, Data: make([]float64, len(x.Data))}
	for i := range out.Data {
		out.Data[i] = x.Data[i] - y.Data[i]
	}
	return out
}

// Neg returns -x.
func Neg(x *Tensor) *Tensor {
	out := &Tensor{D: x.D, P: x.P, N: x.N, M: x.M, Data: make([]float64, len(x.Data))}
	for i, v := range x.Data {
		out.Data[i] = -v
	}
	return out
}

// AddPlain adds a plain (non-Taylor) matrix into the d=0 slice of every
// direction p, leaving d>=1 untouched. Used for UTPM + plain-array/scalar
// per spec section 4.1.
func AddPlain(x *Tensor, plain []float64) *Tensor {
	if len(plain) != x.N*x.M {
		panic(ErrShape)
	}
	out := x.Clone()
	for p := 0; p < x.P; p++ {
		off := out.block(0, p)
		for i, v := range plain {
			out.Data[off+i] += v
		}
	}
	return out
}

// SubPlain subtracts a plain matrix from the d=0 slice of every direction.
func SubPlain(x *Tensor, plain []float64) *Tensor {
	if len(plain) != x.N*x.M {
		panic(ErrShape)
	}
	out := x.Clone()
	for p := 0; p < x.P; p++ {
		off := out.block(0, p)
		for i, v := range plain {
			out.Data[off+i] -= v
		}
	}
	return out
}

// MulScalar scales every coefficient of x by the constant s.
func MulScalar(x *Tensor, s float64) *Tensor {
	out := &Tensor{D: x.D, P: x.P, N: x.N, M: x.M, Data: make([]float64, len(x.Data))}
	for i, v := range x.Data {
		out.Data[i] = v * s
	}
	return out
}

// DivScalar divides every coefficient of x by the constant s. Valid only
// when s is a true constant, not itself a Taylor polynomial -- see spec
// section 9, open question 3.
func DivScalar(x *Tensor, s float64) *Tensor {
	out := &Tensor{D: x.D, P: x.P, N: x.N, M: x.M, Data: make([]float64, len(x.Data))}
	for i, v := range x.Data {
		out.Data[i] = v / s
	}
	return out
}

// MulElementwise returns the truncated Cauchy product z = x*y where * is the
// elementwise (Hadamard) product:
//
//	z[d] = sum_{c=0..d} x[c] .* y[d-c]
func MulElementwise(x, y *Tensor) *Tensor {
	x.checkShape(y)
	out := x.ZerosLike()
	for p := 0; p < x.P; p++ {
		for d := 0; d < x.D; d++ {
			acc := out.Data[out.block(d, p) : out.block(d, p)+x.N*x.M]
			for c := 0; c <= d; c++ {
				xb := x.Data[x.block(c, p) : x.block(c, p)+x.N*x.M]
				yb := y.Data[y.block(d-c, p) : y.block(d-c, p)+x.N*x.M]
				for i := range acc {
					acc[i] += xb[i] * yb[i]
				}
			}
		}
	}
	return out
}

// Div returns the truncated-convolution quotient z = x/y where / is the
// elementwise reciprocal product, per spec section 4.1:
//
//	z[d] = (x[d] - sum_{c=0..d-1} z[c] .* y[d-c]) ./ y[0]
//
// y[0] must be elementwise nonzero (ErrSingular otherwise).
func Div(x, y *Tensor) (*Tensor, error) {
	x.checkShape(y)
	out := x.ZerosLike()
	size := x.N * x.M
	for p := 0; p < x.P; p++ {
		y0 := y.Data[y.block(0, p) : y.block(0, p)+size]
		for _, v := range y0 {
			if math.Abs(v) < SingularTol {
				return nil, ErrSingular
			}
		}
		for d := 0; d < x.D; d++ {
			acc := make([]float64, size)
			xb := x.Data[x.block(d, p) : x.block(d, p)+size]
			copy(acc, xb)
			for c := 0; c < d; c++ {
				zc := out.Data[out.block(c, p) : out.block(c, p)+size]
				yk := y.Data[y.block(d-c, p) : y.block(d-c, p)+size]
				for i := range acc {
					acc[i] -= zc[i] * yk[i]
				}
			}
			zb := out.Data[out.block(d, p) : out.block(d, p)+size]
			for i := range acc {
				zb[i] = acc[i] / y0[i]
			}
		}
	}
	return out, nil
}
