package linalg

import (
	"gonum.org/v1/gonum/mat"
)

// Gonum implements Provider using gonum.org/v1/gonum/mat's own
// factorizations -- the teacher repo's own library, called the same way its
// higher-level packages (stat, optimize) call it: as a dependency, at a
// single base-point matrix, never touched by the Taylor machinery above.
type Gonum struct{}

var _ Provider = Gonum{}

// Solve returns y such that a*y = x.
func (Gonum) Solve(a, x *mat.Dense) (*mat.Dense, error) {
	var y mat.Dense
	if err := y.Solve(a, x); err != nil {
		return nil, err
	}
	return &y, nil
}

// Inverse returns the inverse of the square matrix a.
func (Gonum) Inverse(a *mat.Dense) (*mat.Dense, error) {
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return nil, err
	}
	return &inv, nil
}

// QR returns the thin factorization a = q*r, q is m x k, r is k x n,
// k = min(m,n). Requires m >= n (spec section 4.1).
func (Gonum) QR(a *mat.Dense) (q, r *mat.Dense, err error) {
	m, n := a.Dims()
	var fact mat.QR
	fact.Factorize(a)

	qFull := fact.QTo(nil) // m x m
	rFull := fact.RTo(nil) // m x n

	k := min(m, n)
	q = mat.NewDense(m, k, nil)
	q.Copy(qFull.Slice(0, m, 0, k))

	r = mat.NewDense(k, n, nil)
	r.Copy(rFull.Slice(0, k, 0, n))

	return q, r, nil
}

// Eigh returns the ascending eigenvalues and eigenvectors of the symmetric
// matrix a, a = q*diag(l)*q^T.
func (Gonum) Eigh(a *mat.Dense) (l []float64, q *mat.Dense, err error) {
	n, _ := a.Dims()
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, a.At(i, j))
		}
	}

	var eig mat.EigenSym
	ok := eig.Factorize(sym, true)
	if !ok {
		return nil, nil, ErrEighFailed
	}
	l = eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	return l, &vecs, nil
}

// MatMul returns a*b.
func (Gonum) MatMul(a, b *mat.Dense) *mat.Dense {
	ar, _ := a.Dims()
	_, bc := b.Dims()
	out := mat.NewDense(ar, bc, nil)
	out.Mul(a, b)
	return out
}

// Trace returns the trace of the square matrix a.
func (Gonum) Trace(a *mat.Dense) float64 {
	return mat.Trace(a)
}

// Transpose returns the transpose of a.
func (Gonum) Transpose(a *mat.Dense) *mat.Dense {
	r, c := a.Dims()
	out := mat.NewDense(c, r, nil)
	out.Copy(a.T())
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
