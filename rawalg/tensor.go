package rawalg

import "gonum.org/v1/gonum/mat"

// Tensor is the raw coefficient storage for a UTPM value: a contiguous
// float64 buffer with leading axes (D,P) -- Taylor order and number of
// directions -- followed by the trailing (N,M) matrix shape. It plays the
// same role for this package that blas64.General/mat.Dense's raw storage
// plays for gonum/mat: a flat buffer addressed by explicit strides, handed
// out as sub-views without copying.
//
// Layout is row-major with the (N,M) block contiguous for a fixed (d,p):
//
//	index(d,p,i,j) = ((d*P+p)*N+i)*M + j
type Tensor struct {
	D, P, N, M int
	Data       []float64
}

// NewTensor allocates a zeroed Tensor of shape (d,p,n,m).
func NewTensor(d, p, n, m int) *Tensor {
	if d < 1 {
		panic(ErrNoOrder)
	}
	if p < 1 {
		panic(ErrNoDirection)
	}
	if n < 0 || m < 0 {
		panic(ErrShape)
	}
	return &Tensor{D: d, P: p, N: n, M: m, Data: make([]float64, d*p*n*m)}
}

// SameShape reports whether t and u have identical (D,P,N,M).
func (t *Tensor) SameShape(u *Tensor) bool {
	return t.D == u.D && t.P == u.P && t.N == u.N && t.M == u.M
}

func (t *Tensor) checkShape(u *Tensor) {
	if !t.SameShape(u) {
		panic(ErrShape)
	}
}

// block returns the (N,M) contiguous block offset for directional slice
// (d,p).
func (t *Tensor) block(d, p int) int {
	return (d*t.P + p) * t.N * t.M
}

// Slice returns the (N,M) coefficient matrix at order d, direction p, as a
// *mat.Dense view sharing storage with t -- writes through.
func (t *Tensor) Slice(d, p int) *mat.Dense {
	off := t.block(d, p)
	return mat.NewDense(t.N, t.M, t.Data[off:off+t.N*t.M])
}

// SetSlice copies src into the (N,M) block at order d, direction p.
func (t *Tensor) SetSlice(d, p int, src mat.Matrix) {
	t.Slice(d, p).Copy(src)
}

// Clone returns a deep copy of t.
func (t *Tensor) Clone() *Tensor {
	out := &Tensor{D: t.D, P: t.P, N: t.N, M: t.M, Data: make([]float64, len(t.Data))}
	copy(out.Data, t.Data)
	return out
}

// ZerosLike returns a zeroed Tensor with the same shape as t.
func (t *Tensor) ZerosLike() *Tensor {
	return NewTensor(t.D, t.P, t.N, t.M)
}

// Zero sets every coefficient of t to zero, in place.
func (t *Tensor) Zero() {
	for i := range t.Data {
		t.Data[i] = 0
	}
}

// AddInto adds u into t in place: t += u.
func (t *Tensor) AddInto(u *Tensor) {
	t.checkShape(u)
	for i, v := range u.Data {
		t.Data[i] += v
	}
}

// SubInto subtracts u from t in place: t -= u.
func (t *Tensor) SubInto(u *Tensor) {
	t.checkShape(u)
	for i, v := range u.Data {
		t.Data[i] -= v
	}
}

// Transpose returns a new Tensor with the last two axes swapped at every
// (d,p) slice.
func (t *Tensor) Transpose() *Tensor {
	out := NewTensor(t.D, t.P, t.M, t.N)
	for d := 0; d < t.D; d++ {
		for p := 0; p < t.P; p++ {
			out.Slice(d, p).Copy(t.Slice(d, p).T())
		}
	}
	return out
}
