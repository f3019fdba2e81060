// Package linalg is the external dense-linear-algebra collaborator boundary
// described in spec section 6: the UTPM core never factorizes a matrix
// itself, it calls Provider at the base-point (d=0) slice of each
// direction.
package linalg

import "gonum.org/v1/gonum/mat"

// Provider is the minimal interface the UTPM core needs from a dense linear
// algebra library: solve, invert, QR-factorize, and symmetrically
// eigendecompose a single plain matrix, plus the elementary matmul/trace/
// transpose operations. All inputs and outputs are single matrices with no
// Taylor dimension.
type Provider interface {
	// Solve returns y such that a*y = x, for square a.
	Solve(a, x *mat.Dense) (*mat.Dense, error)
	// Inverse returns the inverse of the square matrix a.
	Inverse(a *mat.Dense) (*mat.Dense, error)
	// QR returns the thin QR factorization a = q*r, q is m x k, r is k x n,
	// k = min(m,n). Requires m >= n.
	QR(a *mat.Dense) (q, r *mat.Dense, err error)
	// Eigh returns the eigenvalues (ascending) and eigenvectors of the
	// symmetric matrix a, such that a = q*diag(l)*q^T.
	Eigh(a *mat.Dense) (l []float64, q *mat.Dense, err error)
	// MatMul returns a*b.
	MatMul(a, b *mat.Dense) *mat.Dense
	// Trace returns the trace of the square matrix a.
	Trace(a *mat.Dense) float64
	// Transpose returns the transpose of a.
	Transpose(a *mat.Dense) *mat.Dense
}
