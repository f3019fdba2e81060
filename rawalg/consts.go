package rawalg

// Tolerances governing when a numeric degeneracy is reported. These are
// exported vars, not consts, so a caller can tune them per process -- the
// same pattern gonum/mat uses for ConditionTolerance.
var (
	// SingularTol is the absolute magnitude below which an entry of div's
	// base-point denominator counts as zero, making Div report ErrSingular.
	// Inv and Solve do not use it: they report ErrSingular whenever the
	// linalg provider's inverse or solve returns an error.
	SingularTol = 1e-13

	// EighDistinctTol is the minimum absolute gap required between any two
	// eigenvalues of the base point before Eigh reports ErrNotDistinct. Eigh
	// also uses it as the tolerance of its symmetry check (ErrNotSymmetric).
	EighDistinctTol = 1e-10

	// QRRankTol is the minimum absolute magnitude of each diagonal entry of
	// R[0] before QR reports ErrRankDeficient.
	QRRankTol = 1e-12
)
