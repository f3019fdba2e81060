// Package cgraph implements the reverse-mode computational graph of the
// UTPM engine: a tape of nodes recorded in insertion order, each tagged with
// a closed operator kind, evaluated eagerly on record and replayable in
// either direction -- forward to push new leaf values through the existing
// topology, reverse to accumulate adjoints back onto the leaves.
//
// Grounded on algopy.py's Function/CGraph pair: record_op eagerly computing
// self.x via eval() and zeroing operand adjoints via xbar_from_x(), and
// CGraph.forward/reverse walking functionList forward or reversed. Unlike
// the original's implicit process-wide Function.cgraph, a Graph here is an
// explicit value threaded through every call, per spec section 9's design
// note.
package cgraph

import (
	"errors"

	"github.com/ngonum/utpm/linalg"
	"github.com/ngonum/utpm/rawalg"
	"github.com/ngonum/utpm/utpm"
)

// Op is the closed set of recordable operator kinds.
type Op int

const (
	OpLeaf Op = iota
	OpCombine
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpDot
	OpTrace
	OpInv
	OpTranspose
	OpSolve
	OpQR
	OpEigh
	// OpSecond is a thin alias node exposing the second output of a
	// two-output primary (qr's R, eigh's Q) as an independently
	// addressable node, so a later RecordOp can take it as an operand
	// without ambiguity over which output of the primary it means.
	OpSecond
)

// ErrNoDependents is returned by Reverse when no dependent nodes have been
// set via SetDependents -- a user error, per spec section 4.3.
var ErrNoDependents = errors.New("cgraph: reverse called with no dependents set")

// Node is one vertex of the graph: an operator applied to some number of
// operand nodes (empty for a leaf), its eagerly-computed value, and its
// adjoint accumulator.
type Node struct {
	Kind     Op
	Operands []*Node
	Value    *utpm.UTPM

	// Second holds the second output of a two-output operator (qr's R,
	// eigh's Q); Value holds the first (qr's Q, eigh's L). A consumer that
	// needs to use this second output as an operand of a later node must
	// go through Graph.Second to get an addressable alias node for it --
	// Operands always refers to a node's primary Value, never its Second,
	// so there is no ambiguity about which output a downstream op means.
	Second *utpm.UTPM

	Adjoint *utpm.UTPM
	// SecondAdjoint accumulates the adjoint of Second. It is fed either by
	// SetDependents seeding an OpSecond alias node directly, or by that
	// alias node's reval forwarding whatever it accumulated from its own
	// consumers -- see OpSecond.
	SecondAdjoint *utpm.UTPM

	// combineRows/combineCols record the block grid shape for OpCombine,
	// needed to partition the adjoint back onto each operand in Reverse.
	combineRows []int
	combineCols []int
}

// Graph is an explicit recorder: a tape of nodes in insertion order plus the
// designated independent (leaf) and dependent (output) nodes.
type Graph struct {
	nodes        []*Node
	independents []*Node
	dependents   []*Node
	lp           linalg.Provider
}

// New returns an empty graph using lp for any base-point linear algebra its
// recorded operations need.
func New(lp linalg.Provider) *Graph {
	return &Graph{lp: lp}
}

func zeroAdjoint(n *Node) {
	n.Adjoint = utpm.ZerosLike(n.Value)
	if n.Second != nil {
		n.SecondAdjoint = utpm.ZerosLike(n.Second)
	}
}

// RecordLeaf appends an independent leaf node holding value.
func (g *Graph) RecordLeaf(value *utpm.UTPM) *Node {
	n := &Node{Kind: OpLeaf, Value: value}
	zeroAdjoint(n)
	g.nodes = append(g.nodes, n)
	return n
}

// SetIndependents designates which leaf nodes Forward replaces values for,
// in the order Forward's argument list supplies them.
func (g *Graph) SetIndependents(nodes ...*Node) {
	g.independents = nodes
}

// SetDependents designates which nodes Reverse seeds adjoints into, in the
// order Reverse's argument list supplies them.
func (g *Graph) SetDependents(nodes ...*Node) {
	g.dependents = nodes
}

// eval computes n.Value (and n.Second, for two-output ops) from its
// operands' current values, mirroring algopy.py's Function.eval.
func (n *Node) eval(lp linalg.Provider) error {
	switch n.Kind {
	case OpLeaf:
		return nil
	case OpAdd:
		n.Value = n.Operands[0].Value.Add(n.Operands[1].Value)
	case OpSub:
		n.Value = n.Operands[0].Value.Sub(n.Operands[1].Value)
	case OpMul:
		n.Value = n.Operands[0].Value.MulElementwise(n.Operands[1].Value)
	case OpDiv:
		v, err := n.Operands[0].Value.Div(n.Operands[1].Value)
		if err != nil {
			return err
		}
		n.Value = v
	case OpDot:
		n.Value = n.Operands[0].Value.Dot(n.Operands[1].Value)
	case OpTrace:
		n.Value = n.Operands[0].Value.Trace()
	case OpInv:
		v, err := n.Operands[0].Value.Inv()
		if err != nil {
			return err
		}
		n.Value = v
	case OpTranspose:
		n.Value = n.Operands[0].Value.Transpose()
	case OpSolve:
		v, err := n.Operands[0].Value.Solve(n.Operands[1].Value)
		if err != nil {
			return err
		}
		n.Value = v
	case OpQR:
		q, r, err := n.Operands[0].Value.QR()
		if err != nil {
			return err
		}
		n.Value, n.Second = q, r
	case OpEigh:
		l, q, err := n.Operands[0].Value.Eigh()
		if err != nil {
			return err
		}
		n.Value, n.Second = l, q
	case OpCombine:
		grid := make([][]*utpm.UTPM, len(n.combineRows))
		idx := 0
		for r := range n.combineRows {
			grid[r] = make([]*utpm.UTPM, len(n.combineCols))
			for c := range n.combineCols {
				grid[r][c] = n.Operands[idx].Value
				idx++
			}
		}
		n.Value = utpm.CombineBlocks(grid)
	case OpSecond:
		n.Value = n.Operands[0].Second
	}
	return nil
}

// Second appends an alias node exposing primary's second output (qr's R,
// eigh's Q) as its own node, so it can be passed as an operand to a later
// RecordOp without ambiguity over which of primary's two outputs is meant.
// primary must already have been recorded via RecordOp with a kind that
// produces a second output.
func (g *Graph) Second(primary *Node) *Node {
	n := &Node{Kind: OpSecond, Operands: []*Node{primary}}
	if err := n.eval(g.lp); err != nil {
		return nil
	}
	zeroAdjoint(n)
	g.nodes = append(g.nodes, n)
	return n
}

// RecordOp appends an operator node applying kind to operands, eagerly
// evaluating its forward value and zeroing operand adjoints, per spec
// section 4.3.
func (g *Graph) RecordOp(kind Op, operands ...*Node) (*Node, error) {
	n := &Node{Kind: kind, Operands: operands}
	if err := n.eval(g.lp); err != nil {
		return nil, err
	}
	zeroAdjoint(n)
	for _, op := range operands {
		zeroAdjoint(op)
	}
	g.nodes = append(g.nodes, n)
	return n, nil
}

// RecordCombine appends a block-combine node over a row-major grid of
// operand nodes with the given block row/column counts.
func (g *Graph) RecordCombine(grid [][]*Node) (*Node, error) {
	rows := len(grid)
	cols := len(grid[0])
	operands := make([]*Node, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			operands = append(operands, grid[r][c])
		}
	}
	n := &Node{Kind: OpCombine, Operands: operands}
	n.combineRows = make([]int, rows)
	n.combineCols = make([]int, cols)
	for r := 0; r < rows; r++ {
		_, _, rn, _ := grid[r][0].Value.Shape()
		n.combineRows[r] = rn
	}
	for c := 0; c < cols; c++ {
		_, _, _, cm := grid[0][c].Value.Shape()
		n.combineCols[c] = cm
	}
	if err := n.eval(g.lp); err != nil {
		return nil, err
	}
	zeroAdjoint(n)
	for _, op := range operands {
		zeroAdjoint(op)
	}
	g.nodes = append(g.nodes, n)
	return n, nil
}

// Forward replaces each independent's value with the corresponding entry of
// newValues, then re-evaluates every non-leaf node in insertion order,
// making the graph a reusable function of its leaf inputs without
// rebuilding topology.
func (g *Graph) Forward(newValues ...*utpm.UTPM) error {
	for i, n := range g.independents {
		n.Value = newValues[i]
	}
	for _, n := range g.nodes {
		if n.Kind == OpLeaf {
			continue
		}
		if err := n.eval(g.lp); err != nil {
			return err
		}
	}
	return nil
}

// Reverse zeroes all adjoints, seeds each dependent's adjoint with the
// corresponding entry of seeds, then walks nodes in reverse insertion order
// applying each node's local pullback, per spec section 4.2/4.3.
func (g *Graph) Reverse(seeds ...*utpm.UTPM) error {
	if len(g.dependents) == 0 {
		return ErrNoDependents
	}
	for _, n := range g.nodes {
		zeroAdjoint(n)
	}
	for i, n := range g.dependents {
		n.Adjoint = seeds[i]
	}
	for i := len(g.nodes) - 1; i >= 0; i-- {
		if err := g.nodes[i].reval(g.lp); err != nil {
			return err
		}
	}
	return nil
}

// reval applies n's local pullback rule, accumulating into its operands'
// adjoints, mirroring algopy.py's Function.reval.
func (n *Node) reval(lp linalg.Provider) error {
	switch n.Kind {
	case OpLeaf:
		return nil
	case OpAdd:
		rawalg.PullbackAdd(n.Operands[0].Adjoint.Tensor(), n.Operands[1].Adjoint.Tensor(), n.Adjoint.Tensor())
	case OpSub:
		rawalg.PullbackSub(n.Operands[0].Adjoint.Tensor(), n.Operands[1].Adjoint.Tensor(), n.Adjoint.Tensor())
	case OpMul:
		rawalg.PullbackMul(n.Operands[0].Adjoint.Tensor(), n.Operands[1].Adjoint.Tensor(), n.Adjoint.Tensor(),
			n.Operands[0].Value.Tensor(), n.Operands[1].Value.Tensor())
	case OpDiv:
		return rawalg.PullbackDiv(n.Operands[0].Adjoint.Tensor(), n.Operands[1].Adjoint.Tensor(), n.Adjoint.Tensor(),
			n.Operands[1].Value.Tensor(), n.Value.Tensor())
	case OpDot:
		rawalg.PullbackDot(n.Operands[0].Adjoint.Tensor(), n.Operands[1].Adjoint.Tensor(), n.Adjoint.Tensor(),
			n.Operands[0].Value.Tensor(), n.Operands[1].Value.Tensor(), lp)
	case OpTrace:
		rawalg.PullbackTrace(n.Operands[0].Adjoint.Tensor(), n.Adjoint.Tensor())
	case OpInv:
		rawalg.PullbackInv(n.Operands[0].Adjoint.Tensor(), n.Adjoint.Tensor(), n.Value.Tensor(), lp)
	case OpTranspose:
		rawalg.PullbackTranspose(n.Operands[0].Adjoint.Tensor(), n.Adjoint.Tensor())
	case OpSolve:
		return rawalg.PullbackSolve(n.Operands[0].Adjoint.Tensor(), n.Operands[1].Adjoint.Tensor(),
			n.Operands[0].Value.Tensor(), n.Value.Tensor(), n.Adjoint.Tensor(), lp)
	case OpQR:
		qbar, rbar := n.Adjoint, n.SecondAdjoint
		return rawalg.PullbackQR(n.Operands[0].Adjoint.Tensor(), n.Value.Tensor(), n.Second.Tensor(),
			qbar.Tensor(), rbar.Tensor(), lp)
	case OpEigh:
		lbar, qbar := n.Adjoint, n.SecondAdjoint
		rawalg.PullbackEigh(n.Operands[0].Adjoint.Tensor(), n.Value.Tensor(), n.Second.Tensor(),
			lbar.Tensor(), qbar.Tensor(), lp)
	case OpCombine:
		blocks := utpm.SplitBlocks(n.Adjoint, n.combineRows, n.combineCols)
		idx := 0
		for r := range n.combineRows {
			for c := range n.combineCols {
				n.Operands[idx].Adjoint.Tensor().AddInto(blocks[r][c].Tensor())
				idx++
			}
		}
	case OpSecond:
		// Forward whatever this alias accumulated (directly seeded via
		// SetDependents, accumulated from downstream consumers, or both)
		// into the primary's SecondAdjoint, where OpQR/OpEigh's own reval
		// expects to find it.
		primary := n.Operands[0]
		primary.SecondAdjoint.Tensor().AddInto(n.Adjoint.Tensor())
	}
	return nil
}
