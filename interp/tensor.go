package interp

import (
	"fmt"

	"gorgonia.org/tensor"
)

// DerivativeTensor is the symmetric N^D multivariate derivative tensor
// assembled by interpolation, backed by gorgonia.org/tensor.Dense -- the
// generic n-D container collaborator of spec section 6 -- since this is the
// one object in the engine whose dimensionality is the problem size N,
// rather than the engine's own fixed (D,P,N,M) coefficient layout.
type DerivativeTensor struct {
	dense *tensor.Dense
	n, d  int
}

// NewDerivativeTensor allocates a zeroed N^D tensor.
func NewDerivativeTensor(n, d int) *DerivativeTensor {
	shape := make([]int, d)
	for i := range shape {
		shape[i] = n
	}
	dt := tensor.New(tensor.WithShape(shape...), tensor.Of(tensor.Float64))
	return &DerivativeTensor{dense: dt, n: n, d: d}
}

// Set stores value at the coordinate tuple pos (length D, each entry < N).
// Since the tensor represents a symmetric derivative, the caller is expected
// to write the same value at every permutation of pos that it cares about
// reading from (e.g. via SetSymmetric).
func (t *DerivativeTensor) Set(value float64, pos []int) {
	if err := t.dense.SetAt(value, pos...); err != nil {
		panic(err)
	}
}

// SetSymmetric stores value at pos and at every distinct permutation of pos,
// exploiting the symmetry of a derivative tensor (mixed partials commute).
func (t *DerivativeTensor) SetSymmetric(value float64, pos []int) {
	seen := map[string]bool{}
	perm := make([]int, len(pos))
	copy(perm, pos)
	permute(perm, 0, func(p []int) {
		key := fmt.Sprint(p)
		if seen[key] {
			return
		}
		seen[key] = true
		t.Set(value, p)
	})
}

// At returns the value stored at the coordinate tuple pos.
func (t *DerivativeTensor) At(pos []int) float64 {
	v, err := t.dense.At(pos...)
	if err != nil {
		panic(err)
	}
	return v.(float64)
}

// Dense exposes the backing gorgonia tensor for callers that need the full
// container interface (reshape, slice, broadcasting arithmetic).
func (t *DerivativeTensor) Dense() *tensor.Dense { return t.dense }

// permute calls visit with a copy of every permutation of p[pos:],
// permuting p in place and restoring it afterwards. Repeated values in p
// produce repeated visits; SetSymmetric filters those out.
func permute(p []int, pos int, visit func([]int)) {
	if pos == len(p) {
		cp := make([]int, len(p))
		copy(cp, p)
		visit(cp)
		return
	}
	for i := pos; i < len(p); i++ {
		p[pos], p[i] = p[i], p[pos]
		permute(p, pos+1, visit)
		p[pos], p[i] = p[i], p[pos]
	}
}
