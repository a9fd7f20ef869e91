package garray

import (
	"github.com/biogo/store/step"
	"github.com/ribolab/garray/interval"
)

// NewSparse creates a mutable genome array storing run-length step vectors
// per chromosome strand.  Memory scales with the number of distinct value
// runs rather than chromosome length, at a higher per-position access cost
// than NewDense; large, sparsely covered genomes are the intended workload.
func NewSparse(lengths map[string]int, strands ...interval.Strand) *Array {
	return newArray(lengths, strands, newSparseBuffer)
}

// sparseValue adapts float64 to the step vector's value interface.
type sparseValue float64

// Equal implements step.Equaler.
func (f sparseValue) Equal(e step.Equaler) bool {
	g, ok := e.(sparseValue)
	return ok && f == g
}

const sparseZero = sparseValue(0)

type sparseBuffer struct {
	vec *step.Vector
	n   int
}

func newSparseBuffer(n int) chromBuffer {
	if n < 1 {
		n = 1
	}
	vec, err := step.New(0, n, sparseZero)
	if err != nil {
		panic(err) // n >= 1, cannot happen
	}
	vec.Relaxed = true
	return &sparseBuffer{vec: vec, n: n}
}

func (b *sparseBuffer) Len() int { return b.n }

func (b *sparseBuffer) Grow(n int) {
	b.vec.SetRange(b.n, n, sparseZero)
	b.n = n
}

func (b *sparseBuffer) Slice(start, end int) []float64 {
	out := make([]float64, end-start)
	if start == end {
		return out
	}
	// Runs within the window expand into the dense result.
	_ = b.vec.DoRange(start, end, func(s, e int, v step.Equaler) {
		val := float64(v.(sparseValue))
		if val == 0 {
			return
		}
		for i := s; i < e; i++ {
			out[i-start] = val
		}
	})
	return out
}

func (b *sparseBuffer) Store(start int, vals []float64) {
	// Coalesce equal neighbors so runs stay runs.
	for i := 0; i < len(vals); {
		j := i + 1
		for j < len(vals) && vals[j] == vals[i] {
			j++
		}
		b.vec.SetRange(start+i, start+j, sparseValue(vals[i]))
		i = j
	}
}

func (b *sparseBuffer) Sum() float64 {
	total := 0.0
	b.vec.Do(func(s, e int, v step.Equaler) {
		total += float64(e-s) * float64(v.(sparseValue))
	})
	return total
}

func (b *sparseBuffer) Nonzero() []int {
	var out []int
	b.vec.Do(func(s, e int, v step.Equaler) {
		if float64(v.(sparseValue)) == 0 {
			return
		}
		for i := s; i < e; i++ {
			out = append(out, i)
		}
	})
	return out
}
