// Package rawalg implements the Taylor-arithmetic recurrences that drive the
// UTPM engine: truncated Cauchy products, matrix inverse, linear solve, QR
// and symmetric eigendecomposition on raw (D,P,N,M) coefficient tensors, plus
// their reverse-mode pullbacks.
package rawalg

import "errors"

// Shape mismatches, non-conformant operands, and similar programmer errors
// are caught immediately with a panic carrying one of these sentinels,
// mirroring gonum/mat's own ErrShape convention.
var (
	ErrShape       = errors.New("rawalg: dimension mismatch")
	ErrNotSquare   = errors.New("rawalg: matrix not square")
	ErrNoDirection = errors.New("rawalg: P must be >= 1")
	ErrNoOrder     = errors.New("rawalg: D must be >= 1")
)

// Numeric degeneracies that depend on the value of the base point, not just
// its shape, are reported as returned errors instead of panics.
var (
	ErrSingular       = errors.New("rawalg: singular base-point matrix")
	ErrRankDeficient  = errors.New("rawalg: rank-deficient base point for QR")
	ErrNotDistinct    = errors.New("rawalg: eigh requires distinct eigenvalues")
	ErrNotSymmetric   = errors.New("rawalg: eigh requires a symmetric matrix")
	ErrNotImplemented = errors.New("rawalg: operation not implemented for this shape")
)
