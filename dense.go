package garray

import (
	"github.com/ribolab/garray/interval"
	"gonum.org/v1/gonum/floats"
)

// NewDense creates a mutable genome array storing one dense vector per
// chromosome strand.  lengths pre-allocates chromosomes; both it and strands
// may be omitted (strands default to +/-, chromosomes are created on first
// access at DefaultChromSize).
func NewDense(lengths map[string]int, strands ...interval.Strand) *Array {
	return newArray(lengths, strands, func(n int) chromBuffer {
		buf := make(denseBuffer, n)
		return &buf
	})
}

type denseBuffer []float64

func (b *denseBuffer) Len() int { return len(*b) }

func (b *denseBuffer) Grow(n int) {
	grown := make(denseBuffer, n)
	copy(grown, *b)
	*b = grown
}

func (b *denseBuffer) Slice(start, end int) []float64 {
	out := make([]float64, end-start)
	copy(out, (*b)[start:end])
	return out
}

func (b *denseBuffer) Store(start int, vals []float64) {
	copy((*b)[start:start+len(vals)], vals)
}

func (b *denseBuffer) Sum() float64 { return floats.Sum(*b) }

func (b *denseBuffer) Nonzero() []int {
	var out []int
	for i, v := range *b {
		if v != 0 {
			out = append(out, i)
		}
	}
	return out
}
