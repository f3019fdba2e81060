package utpm

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ngonum/utpm/rawalg"
)

// This file provides the free-function operator dispatch of spec section 9's
// design notes: three concrete call signatures per binary op (UTPM-UTPM,
// UTPM-plain, plain-UTPM) rather than open polymorphism, mirroring the
// teacher's preference for a small fixed set of concrete entry points over a
// generic dispatcher.

// asPlainUTPM wraps a plain matrix as a constant UTPM with like's D and P
// (m at d=0 in every direction, all coefficients above d=0 zero) sharing
// lp, so it can be run through the same rawalg kernels as a genuine UTPM
// operand.
func asPlainUTPM(m *mat.Dense, like *UTPM) *UTPM {
	n, c := m.Dims()
	out := rawalg.NewTensor(like.t.D, like.t.P, n, c)
	for p := 0; p < like.t.P; p++ {
		out.SetSlice(0, p, m)
	}
	return &UTPM{t: out, lp: like.lp}
}

// Dot dispatches x.y for UTPM x UTPM operands.
func Dot(x, y *UTPM) *UTPM { return x.Dot(y) }

// DotPlainRight dispatches x.y for a UTPM x and a plain matrix y.
func DotPlainRight(x *UTPM, y *mat.Dense) *UTPM { return x.Dot(asPlainUTPM(y, x)) }

// DotPlainLeft dispatches x.y for a plain matrix x and a UTPM y.
func DotPlainLeft(x *mat.Dense, y *UTPM) *UTPM { return asPlainUTPM(x, y).Dot(y) }

// Solve dispatches solve(a,x) for UTPM operands.
func Solve(a, x *UTPM) (*UTPM, error) { return a.Solve(x) }

// SolvePlainRHS dispatches solve(a,x) where x is a plain (non-Taylor) matrix.
func SolvePlainRHS(a *UTPM, x *mat.Dense) (*UTPM, error) { return a.Solve(asPlainUTPM(x, a)) }

// SolvePlainA dispatches solve(a,x) where a is a plain (non-Taylor) matrix.
func SolvePlainA(a *mat.Dense, x *UTPM) (*UTPM, error) { return asPlainUTPM(a, x).Solve(x) }

// Add dispatches x+y for UTPM operands.
func Add(x, y *UTPM) *UTPM { return x.Add(y) }

// AddPlain dispatches x+y where y is a plain matrix broadcast into the
// base-point coefficient of x.
func AddPlain(x *UTPM, y *mat.Dense) *UTPM {
	n, c := y.Dims()
	plain := make([]float64, n*c)
	for i := 0; i < n; i++ {
		for j := 0; j < c; j++ {
			plain[i*c+j] = y.At(i, j)
		}
	}
	return &UTPM{t: rawalg.AddPlain(x.t, plain), lp: x.lp}
}

// Inv dispatches inv(x) for a UTPM operand.
func Inv(x *UTPM) (*UTPM, error) { return x.Inv() }

// Eigh dispatches eigh(x) for a UTPM operand.
func Eigh(x *UTPM) (l, q *UTPM, err error) { return x.Eigh() }

// QR dispatches qr(x) for a UTPM operand.
func QR(x *UTPM) (q, r *UTPM, err error) { return x.QR() }

// Trace dispatches trace(x) for a UTPM operand.
func Trace(x *UTPM) *UTPM { return x.Trace() }

// Shape returns (D,P,N,M) for a UTPM operand.
func Shape(x *UTPM) (d, p, n, m int) { return x.Shape() }
