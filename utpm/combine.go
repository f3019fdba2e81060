package utpm

import (
	"github.com/ngonum/utpm/rawalg"
)

// CombineBlocks assembles a block-partitioned grid of UTPM values into one
// UTPM, e.g. blocks = [[A,B],[C,D]] produces [[A.tc,B.tc],[C.tc,D.tc]] as a
// single coefficient tensor, per spec section 4.1's combine operation.
// Grounded on algopy.utp.utpm.combine_blocks: every block in a row must
// share row count, every block in a column must share column count, and all
// blocks must share (D,P).
func CombineBlocks(blocks [][]*UTPM) *UTPM {
	rb := len(blocks)
	if rb == 0 || len(blocks[0]) == 0 {
		panic(rawalg.ErrShape)
	}
	cb := len(blocks[0])
	for _, row := range blocks {
		if len(row) != cb {
			panic(rawalg.ErrShape)
		}
	}

	d, p := blocks[0][0].t.D, blocks[0][0].t.P
	lp := blocks[0][0].lp

	rows := make([]int, rb)
	for r := 0; r < rb; r++ {
		rows[r] = blocks[r][0].t.N
	}
	cols := make([]int, cb)
	for c := 0; c < cb; c++ {
		cols[c] = blocks[0][c].t.M
	}

	rowOff := make([]int, rb+1)
	for r := 0; r < rb; r++ {
		rowOff[r+1] = rowOff[r] + rows[r]
	}
	colOff := make([]int, cb+1)
	for c := 0; c < cb; c++ {
		colOff[c+1] = colOff[c] + cols[c]
	}

	out := rawalg.NewTensor(d, p, rowOff[rb], colOff[cb])

	for r := 0; r < rb; r++ {
		for c := 0; c < cb; c++ {
			b := blocks[r][c]
			if b.t.D != d || b.t.P != p || b.t.N != rows[r] || b.t.M != cols[c] {
				panic(rawalg.ErrShape)
			}
			for pp := 0; pp < p; pp++ {
				for dd := 0; dd < d; dd++ {
					src := b.t.Slice(dd, pp)
					dst := out.Slice(dd, pp)
					n, m := src.Dims()
					for i := 0; i < n; i++ {
						for j := 0; j < m; j++ {
							dst.Set(rowOff[r]+i, colOff[c]+j, src.At(i, j))
						}
					}
				}
			}
		}
	}
	return &UTPM{t: out, lp: lp}
}

// SplitBlocks is the inverse of CombineBlocks: it carves whole into a grid of
// blocks with the given row/column sizes, used by combine's pullback (spec
// section 4.2) to partition ybar back onto each operand's adjoint.
func SplitBlocks(whole *UTPM, rowSizes, colSizes []int) [][]*UTPM {
	rowOff := make([]int, len(rowSizes)+1)
	for r, sz := range rowSizes {
		rowOff[r+1] = rowOff[r] + sz
	}
	colOff := make([]int, len(colSizes)+1)
	for c, sz := range colSizes {
		colOff[c+1] = colOff[c] + sz
	}

	out := make([][]*UTPM, len(rowSizes))
	for r := range rowSizes {
		out[r] = make([]*UTPM, len(colSizes))
		for c := range colSizes {
			block := rawalg.NewTensor(whole.t.D, whole.t.P, rowSizes[r], colSizes[c])
			for p := 0; p < whole.t.P; p++ {
				for d := 0; d < whole.t.D; d++ {
					src := whole.t.Slice(d, p)
					dst := block.Slice(d, p)
					for i := 0; i < rowSizes[r]; i++ {
						for j := 0; j < colSizes[c]; j++ {
							dst.Set(i, j, src.At(rowOff[r]+i, colOff[c]+j))
						}
					}
				}
			}
			out[r][c] = &UTPM{t: block, lp: whole.lp}
		}
	}
	return out
}
