package cgraph

import (
	"math"
	"testing"

	"github.com/ngonum/utpm/linalg"
	"github.com/ngonum/utpm/utpm"
)

var lp = linalg.Gonum{}

// TestDotRecording records z = dot(A,x) through the graph, with A a 2x2
// independent and x a 2x1 independent, seed zbar = [1;1], and checks the
// resulting adjoints against hand-derived values.
func TestDotRecording(t *testing.T) {
	g := New(lp)

	a := utpm.Zeros(1, 1, 2, 2, lp)
	a.Coeff(0, 0).Set(0, 0, 10)
	a.Coeff(0, 0).Set(0, 1, 20)
	a.Coeff(0, 0).Set(1, 0, 30)
	a.Coeff(0, 0).Set(1, 1, 40)

	x := utpm.Zeros(1, 1, 2, 1, lp)
	x.Coeff(0, 0).Set(0, 0, 7)
	x.Coeff(0, 0).Set(1, 0, 9)

	aNode := g.RecordLeaf(a)
	xNode := g.RecordLeaf(x)
	zNode, err := g.RecordOp(OpDot, aNode, xNode)
	if err != nil {
		t.Fatalf("RecordOp: %v", err)
	}
	g.SetDependents(zNode)

	zbar := utpm.Zeros(1, 1, 2, 1, lp)
	zbar.Coeff(0, 0).Set(0, 0, 1)
	zbar.Coeff(0, 0).Set(1, 0, 1)

	if err := g.Reverse(zbar); err != nil {
		t.Fatalf("Reverse: %v", err)
	}

	gotA := aNode.Adjoint.Coeff(0, 0)
	wantA := [4]float64{7, 9, 7, 9}
	for idx, want := range wantA {
		i, j := idx/2, idx%2
		if got := gotA.At(i, j); got != want {
			t.Errorf("Abar[%d,%d] = %v, want %v", i, j, got, want)
		}
	}

	gotX := xNode.Adjoint.Coeff(0, 0)
	if got := gotX.At(0, 0); got != 40 {
		t.Errorf("xbar[0] = %v, want 40", got)
	}
	if got := gotX.At(1, 0); got != 60 {
		t.Errorf("xbar[1] = %v, want 60", got)
	}
}

// TestReverseWithoutDependentsFails checks spec section 4.3's fail mode.
func TestReverseWithoutDependentsFails(t *testing.T) {
	g := New(lp)
	x := utpm.Zeros(1, 1, 1, 1, lp)
	g.RecordLeaf(x)
	if err := g.Reverse(x); err != ErrNoDependents {
		t.Errorf("Reverse with no dependents: got %v, want ErrNoDependents", err)
	}
}

// TestForwardReplaysTopology checks that Forward re-evaluates a recorded
// function of new leaf values without rebuilding the graph.
func TestForwardReplaysTopology(t *testing.T) {
	g := New(lp)
	x := utpm.Zeros(1, 1, 1, 1, lp)
	x.Coeff(0, 0).Set(0, 0, 2)
	y := utpm.Zeros(1, 1, 1, 1, lp)
	y.Coeff(0, 0).Set(0, 0, 3)

	xNode := g.RecordLeaf(x)
	yNode := g.RecordLeaf(y)
	zNode, err := g.RecordOp(OpMul, xNode, yNode)
	if err != nil {
		t.Fatalf("RecordOp: %v", err)
	}
	g.SetIndependents(xNode, yNode)

	if got := zNode.Value.Coeff(0, 0).At(0, 0); got != 6 {
		t.Fatalf("initial z = %v, want 6", got)
	}

	x2 := utpm.Zeros(1, 1, 1, 1, lp)
	x2.Coeff(0, 0).Set(0, 0, 5)
	y2 := utpm.Zeros(1, 1, 1, 1, lp)
	y2.Coeff(0, 0).Set(0, 0, 4)
	if err := g.Forward(x2, y2); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if got := zNode.Value.Coeff(0, 0).At(0, 0); got != 20 {
		t.Errorf("z after Forward = %v, want 20", got)
	}
}

// TestReverseForwardDuality checks spec section 8 universal property 2:
// sum_i <xbar_i, xdot_i> = <ybar, ydot>, where ydot comes from a forward run
// with P=1 seeded by xdot.
func TestReverseForwardDuality(t *testing.T) {
	g := New(lp)

	a := utpm.Zeros(1, 1, 2, 2, lp)
	a.Coeff(0, 0).Set(0, 0, 1)
	a.Coeff(0, 0).Set(0, 1, 2)
	a.Coeff(0, 0).Set(1, 0, 3)
	a.Coeff(0, 0).Set(1, 1, 4)

	b := utpm.Zeros(1, 1, 2, 2, lp)
	b.Coeff(0, 0).Set(0, 0, 5)
	b.Coeff(0, 0).Set(0, 1, 6)
	b.Coeff(0, 0).Set(1, 0, 7)
	b.Coeff(0, 0).Set(1, 1, 8)

	aNode := g.RecordLeaf(a)
	bNode := g.RecordLeaf(b)
	sumNode, err := g.RecordOp(OpAdd, aNode, bNode)
	if err != nil {
		t.Fatalf("RecordOp add: %v", err)
	}
	yNode, err := g.RecordOp(OpTrace, sumNode)
	if err != nil {
		t.Fatalf("RecordOp trace: %v", err)
	}
	g.SetDependents(yNode)
	g.SetIndependents(aNode, bNode)

	ybar := utpm.Zeros(1, 1, 1, 1, lp)
	ybar.Coeff(0, 0).Set(0, 0, 1)
	if err := g.Reverse(ybar); err != nil {
		t.Fatalf("Reverse: %v", err)
	}

	adot := utpm.Zeros(1, 1, 2, 2, lp)
	adot.Coeff(0, 0).Set(0, 0, 1)
	adot.Coeff(0, 0).Set(1, 1, 1)
	bdot := utpm.Zeros(1, 1, 2, 2, lp)
	bdot.Coeff(0, 0).Set(0, 1, 1)

	lhs := frobeniusInner(aNode.Adjoint, adot) + frobeniusInner(bNode.Adjoint, bdot)

	if err := g.Forward(adot, bdot); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	ydot := yNode.Value.Coeff(0, 0).At(0, 0)

	if math.Abs(lhs-ydot) > 1e-9 {
		t.Errorf("reverse-forward duality violated: lhs=%v, ydot=%v", lhs, ydot)
	}
}

// TestQRTwoOutputAddressing checks that Graph.Second gives an independently
// addressable node for qr's R output: recording z = dot(Q,R) must reconstruct
// A exactly, and reverse-mode must accumulate into A's leaf through both the
// Q and R paths without the two outputs clobbering each other's adjoint.
func TestQRTwoOutputAddressing(t *testing.T) {
	g := New(lp)

	a := utpm.Zeros(1, 1, 3, 2, lp)
	vals := []float64{1, 0, 0, 1, 1, 1}
	idx := 0
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			a.Coeff(0, 0).Set(i, j, vals[idx])
			idx++
		}
	}

	aNode := g.RecordLeaf(a)
	qrNode, err := g.RecordOp(OpQR, aNode)
	if err != nil {
		t.Fatalf("RecordOp qr: %v", err)
	}
	rNode := g.Second(qrNode)

	zNode, err := g.RecordOp(OpDot, qrNode, rNode)
	if err != nil {
		t.Fatalf("RecordOp dot: %v", err)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			got := zNode.Value.Coeff(0, 0).At(i, j)
			want := a.Coeff(0, 0).At(i, j)
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("dot(Q,R)[%d,%d] = %v, want %v", i, j, got, want)
			}
		}
	}

	g.SetDependents(zNode)
	zbar := utpm.Zeros(1, 1, 3, 2, lp)
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			zbar.Coeff(0, 0).Set(i, j, 1)
		}
	}
	if err := g.Reverse(zbar); err != nil {
		t.Fatalf("Reverse: %v", err)
	}

	// dot(Q,R) is the identity reconstruction of A, so seeding its output
	// adjoint with all-ones must pull a nonzero adjoint back onto A through
	// both the qrNode (Q) and rNode (R) paths.
	abar := aNode.Adjoint.Coeff(0, 0)
	allZero := true
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if abar.At(i, j) != 0 {
				allZero = false
			}
		}
	}
	if allZero {
		t.Errorf("Abar is all zero, want a nonzero adjoint from the qr/dot round trip")
	}
}

func frobeniusInner(a, b *utpm.UTPM) float64 {
	ta, tb := a.Tensor(), b.Tensor()
	sum := 0.0
	for i := range ta.Data {
		sum += ta.Data[i] * tb.Data[i]
	}
	return sum
}
