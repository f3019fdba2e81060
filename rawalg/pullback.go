package rawalg

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ngonum/utpm/linalg"
)

// The functions in this file implement the reverse-mode pullback rules of
// spec section 4.2. Every pullback here is itself a truncated-Taylor
// operation at order D: accumulation runs through the same Dot/Add/Sub/
// MulElementwise kernels used in forward mode, not just at the base point.

// PullbackAdd accumulates the add pullback: x1bar += ybar; x2bar += ybar.
func PullbackAdd(x1bar, x2bar, ybar *Tensor) {
	x1bar.AddInto(ybar)
	x2bar.AddInto(ybar)
}

// PullbackSub accumulates the sub pullback: x1bar += ybar; x2bar -= ybar.
func PullbackSub(x1bar, x2bar, ybar *Tensor) {
	x1bar.AddInto(ybar)
	x2bar.SubInto(ybar)
}

// PullbackMul accumulates the elementwise-mul pullback:
//
//	x1bar += ybar .* x2
//	x2bar += ybar .* x1
func PullbackMul(x1bar, x2bar, ybar, x1, x2 *Tensor) {
	x1bar.AddInto(MulElementwise(ybar, x2))
	x2bar.AddInto(MulElementwise(ybar, x1))
}

// PullbackDiv accumulates the elementwise-div pullback (y = x1/x2):
//
//	x1bar += ybar/x2
//	x2bar -= ybar.*y/x2 = ybar.*x1/x2^2
func PullbackDiv(x1bar, x2bar, ybar, x2, y *Tensor) error {
	term1, err := Div(ybar, x2)
	if err != nil {
		return err
	}
	x1bar.AddInto(term1)

	num := MulElementwise(ybar, y)
	term2, err := Div(num, x2)
	if err != nil {
		return err
	}
	x2bar.SubInto(term2)
	return nil
}

// PullbackDot accumulates the matrix-dot pullback (y = x1.x2):
//
//	x1bar += ybar . x2^T
//	x2bar += x1^T . ybar
//
// Uses the textbook transpose convention, resolving spec section 9's open
// question 1 (a variant in the original source transposes x1bar).
func PullbackDot(x1bar, x2bar, ybar, x1, x2 *Tensor, lp linalg.Provider) {
	x1bar.AddInto(Dot(ybar, x2.Transpose(), lp))
	x2bar.AddInto(Dot(x1.Transpose(), ybar, lp))
}

// PullbackTrace accumulates the trace pullback: xbar += ybar*I, broadcasting
// the (D,P,1,1) scalar ybar along the diagonal of the (D,P,N,N) xbar.
func PullbackTrace(xbar, ybar *Tensor) {
	n := xbar.N
	for p := 0; p < xbar.P; p++ {
		for d := 0; d < xbar.D; d++ {
			s := ybar.Data[ybar.block(d, p)]
			slice := xbar.Slice(d, p)
			for i := 0; i < n; i++ {
				slice.Set(i, i, slice.At(i, i)+s)
			}
		}
	}
}

// PullbackInv accumulates the inverse pullback (y = x^-1): xbar -= y^T.ybar.y^T.
func PullbackInv(xbar, ybar, y *Tensor, lp linalg.Provider) {
	yT := y.Transpose()
	tmp := Dot(yT, ybar, lp)
	tmp2 := Dot(tmp, yT, lp)
	xbar.SubInto(tmp2)
}

// PullbackTranspose accumulates the transpose pullback: xbar += ybar^T.
func PullbackTranspose(xbar, ybar *Tensor) {
	xbar.AddInto(ybar.Transpose())
}

// PullbackSolve accumulates the solve pullback (a.y = x):
//
//	xbar += solve(a^T, ybar)
//	abar += -solve(a^T, ybar).y^T
func PullbackSolve(abar, xbar, a, y, ybar *Tensor, lp linalg.Provider) error {
	w, err := Solve(a.Transpose(), ybar, lp)
	if err != nil {
		return err
	}
	xbar.AddInto(w)
	abar.SubInto(Dot(w, y.Transpose(), lp))
	return nil
}

// tensorMaskPerSlice applies mask to every (d,p) slice of t independently,
// returning a new Tensor. mask must not alias its argument.
func tensorMaskPerSlice(t *Tensor, mask func(*mat.Dense) *mat.Dense) *Tensor {
	out := t.ZerosLike()
	for p := 0; p < t.P; p++ {
		for d := 0; d < t.D; d++ {
			out.SetSlice(d, p, mask(t.Slice(d, p)))
		}
	}
	return out
}

// PullbackQR accumulates the QR pullback (a = q.r, M>=N), per spec section
// 4.2:
//
//	V = Q^T.Qbar - R.Rbar^T
//	W = strictly_lower(V^T - V)
//	Abar += Q.(Rbar + W.R^-T)
//	if M>N: Abar += (Qbar - Q.Q^T.Qbar).R^-T
func PullbackQR(abar, q, r, qbar, rbar *Tensor, lp linalg.Provider) error {
	m := q.N
	n := q.M

	v := Sub(Dot(q.Transpose(), qbar, lp), Dot(r, rbar.Transpose(), lp))
	vDiff := Sub(v.Transpose(), v)
	w := tensorMaskPerSlice(vDiff, strictlyLower)

	rInv, err := Inv(r, lp)
	if err != nil {
		return err
	}
	rInvT := rInv.Transpose()

	term := Add(rbar, Dot(w, rInvT, lp))
	abar.AddInto(Dot(q, term, lp))

	if m > n {
		qqtqbar := Dot(q, Dot(q.Transpose(), qbar, lp), lp)
		extra := Dot(Sub(qbar, qqtqbar), rInvT, lp)
		abar.AddInto(extra)
	}
	return nil
}

// PullbackEigh accumulates the symmetric-eigendecomposition pullback
// (a = q.diag(l).q^T), per spec section 4.2:
//
//	H_mn = 1/(L_n - L_m) for m != n, 0 on the diagonal (base-point L only)
//	Abar += Q.(diag(Lbar) + H .* (Q^T.Qbar)).Q^T
func PullbackEigh(abar, l, q, lbar, qbar *Tensor, lp linalg.Provider) {
	n := q.M
	diagLbar := NewTensor(l.D, l.P, n, n)
	for p := 0; p < l.P; p++ {
		for d := 0; d < l.D; d++ {
			slice := diagLbar.Slice(d, p)
			for i := 0; i < n; i++ {
				slice.Set(i, i, lbar.Data[lbar.block(d, p)+i])
			}
		}
	}

	qtqbar := Dot(q.Transpose(), qbar, lp)
	hadamard := qtqbar.ZerosLike()
	for p := 0; p < l.P; p++ {
		l0 := l.Data[l.block(0, p) : l.block(0, p)+n]
		for d := 0; d < l.D; d++ {
			src := qtqbar.Slice(d, p)
			dst := hadamard.Slice(d, p)
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					if i == j {
						continue
					}
					dst.Set(i, j, src.At(i, j)/(l0[j]-l0[i]))
				}
			}
		}
	}

	inner := Add(diagLbar, hadamard)
	abar.AddInto(Dot(q, Dot(inner, q.Transpose(), lp), lp))
}
