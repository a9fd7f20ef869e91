package garray

import (
	"fmt"
	"math"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/ribolab/garray/interval"
	"gonum.org/v1/gonum/floats"
)

// chromBuffer is one growable chromosome-strand vector.  Implementations
// differ only in storage density; the value contract is identical.
type chromBuffer interface {
	// Len returns the current number of positions.
	Len() int
	// Grow extends the buffer to n positions, preserving existing values and
	// zero-filling the new tail.  n must exceed Len.
	Grow(n int)
	// Slice returns a dense copy of positions [start, end).
	Slice(start, end int) []float64
	// Store overwrites positions [start, start+len(vals)).
	Store(start int, vals []float64)
	// Sum returns the total of all positions.
	Sum() float64
	// Nonzero returns the sorted indices holding nonzero values.
	Nonzero() []int
}

// Array is a mutable genome array.  The storage backend is fixed at
// construction: NewDense and NewSparse share every behavior except the
// buffer representation.  Not safe for concurrent mutation.
type Array struct {
	chroms    map[string]map[interval.Strand]chromBuffer
	strands   []interval.Strand
	chromSize int
	newBuffer func(n int) chromBuffer

	sum       float64
	sumValid  bool
	normalize bool
}

var (
	_ GenomeArray        = (*Array)(nil)
	_ MutableGenomeArray = (*Array)(nil)
)

func newArray(lengths map[string]int, strands []interval.Strand, newBuffer func(n int) chromBuffer) *Array {
	a := &Array{
		chroms:    make(map[string]map[interval.Strand]chromBuffer),
		strands:   defaultStrands(strands),
		chromSize: DefaultChromSize,
		newBuffer: newBuffer,
	}
	for chrom, length := range lengths {
		byStrand := make(map[interval.Strand]chromBuffer, len(a.strands))
		for _, s := range a.strands {
			byStrand[s] = newBuffer(length)
		}
		a.chroms[chrom] = byStrand
	}
	return a
}

// checkInterval validates iv against the array configuration.
func (a *Array) checkInterval(iv interval.Interval) error {
	if err := iv.Check(); err != nil {
		return err
	}
	if !hasStrand(a.strands, iv.Strand) {
		return errors.E(errors.Invalid, fmt.Sprintf("strand %s of %s not configured in array (have %v)", iv.Strand, iv, a.strands))
	}
	return nil
}

// buffer returns the chromosome-strand buffer for iv, creating the
// chromosome and growing its buffers as the bounds policy requires: an
// unknown chromosome starts at the default size, and an end beyond the
// current length grows every strand of the chromosome together to
// max(len+10000, end+10000).
func (a *Array) buffer(iv interval.Interval) (chromBuffer, error) {
	if err := a.checkInterval(iv); err != nil {
		return nil, err
	}
	byStrand, ok := a.chroms[iv.Chrom]
	if !ok {
		byStrand = make(map[interval.Strand]chromBuffer, len(a.strands))
		for _, s := range a.strands {
			byStrand[s] = a.newBuffer(a.chromSize)
		}
		a.chroms[iv.Chrom] = byStrand
	}
	buf := byStrand[iv.Strand]
	if iv.End > buf.Len() {
		newLen := buf.Len() + growPad
		if iv.End+growPad > newLen {
			newLen = iv.End + growPad
		}
		for _, b := range byStrand {
			b.Grow(newLen)
		}
	}
	return buf, nil
}

// Get implements GenomeArray.  Coordinates in the returned vector run in
// chromosome order (leftmost first) and are not reversed for reverse-strand
// intervals.  Out-of-bounds intervals on configured strands grow the array
// rather than failing.
func (a *Array) Get(iv interval.Interval) ([]float64, error) {
	buf, err := a.buffer(iv)
	if err != nil {
		return nil, err
	}
	vals := buf.Slice(iv.Start, iv.End)
	if a.normalize {
		floats.Scale(rpmScale/a.Sum(), vals)
	}
	return vals, nil
}

// Set implements MutableGenomeArray.
func (a *Array) Set(iv interval.Interval, vals []float64) error {
	buf, err := a.buffer(iv)
	if err != nil {
		return err
	}
	if len(vals) != iv.Len() {
		return errors.E(errors.Invalid, fmt.Sprintf("set %s: value vector has length %d, want %d", iv, len(vals), iv.Len()))
	}
	if a.normalize {
		log.Error.Printf("normalization disabled while setting %s; it will be re-enabled afterwards", iv)
	}
	old := a.normalize
	a.normalize = false
	a.sumValid = false
	buf.Store(iv.Start, vals)
	a.normalize = old
	return nil
}

// AddCount implements MutableGenomeArray: value is added to every position
// of iv, never overwriting prior contents.
func (a *Array) AddCount(iv interval.Interval, value float64) error {
	buf, err := a.buffer(iv)
	if err != nil {
		return err
	}
	a.sumValid = false
	vals := buf.Slice(iv.Start, iv.End)
	floats.AddConst(value, vals)
	buf.Store(iv.Start, vals)
	return nil
}

// Sum implements GenomeArray.  The sum is cached and recomputed lazily after
// mutations.
func (a *Array) Sum() float64 {
	if !a.sumValid {
		total := 0.0
		for _, byStrand := range a.chroms {
			for _, buf := range byStrand {
				total += buf.Sum()
			}
		}
		a.sum = total
		a.sumValid = true
	}
	return a.sum
}

// SetSum overrides the sum used for normalization, e.g. with the mapped-read
// total of another dataset.
func (a *Array) SetSum(v float64) {
	a.sum = v
	a.sumValid = true
}

// SetNormalize implements GenomeArray.
func (a *Array) SetNormalize(on bool) { a.normalize = on }

// Chroms implements GenomeArray.
func (a *Array) Chroms() []string {
	out := make([]string, 0, len(a.chroms))
	for chrom := range a.chroms {
		out = append(out, chrom)
	}
	sort.Strings(out)
	return out
}

// Strands implements GenomeArray.
func (a *Array) Strands() []interval.Strand {
	out := make([]interval.Strand, len(a.strands))
	copy(out, a.strands)
	return out
}

// Lengths implements GenomeArray.
func (a *Array) Lengths() map[string]int {
	out := make(map[string]int, len(a.chroms))
	for chrom, byStrand := range a.chroms {
		max := 0
		for _, buf := range byStrand {
			if buf.Len() > max {
				max = buf.Len()
			}
		}
		out[chrom] = max
	}
	return out
}

// Nonzero returns, per chromosome and strand, the sorted positions holding
// nonzero values.
func (a *Array) Nonzero() map[string]map[interval.Strand][]int {
	out := make(map[string]map[interval.Strand][]int, len(a.chroms))
	for chrom, byStrand := range a.chroms {
		m := make(map[interval.Strand][]int, len(byStrand))
		for s, buf := range byStrand {
			m[s] = buf.Nonzero()
		}
		out[chrom] = m
	}
	return out
}

// Like returns an empty array with the same shape and backend as a.
func (a *Array) Like() *Array {
	return newArray(a.Lengths(), a.strands, a.newBuffer)
}

// Equal reports whether a and other hold the same values at every nonzero
// position, within tol.  Chromosome lengths need not match; trailing zeros
// are insignificant.
func (a *Array) Equal(other *Array, tol float64) bool {
	anz, onz := a.Nonzero(), other.Nonzero()
	for _, chrom := range unionChroms(a, other) {
		for _, s := range unionStrands(a.strands, other.strands) {
			av := nonzeroFor(anz, chrom, s)
			ov := nonzeroFor(onz, chrom, s)
			if len(av) != len(ov) {
				return false
			}
			if len(av) == 0 {
				continue
			}
			for i := range av {
				if av[i] != ov[i] {
					return false
				}
			}
			span := interval.Interval{Chrom: chrom, Start: av[0], End: av[len(av)-1] + 1, Strand: s}
			x, err := a.Get(span)
			if err != nil {
				return false
			}
			y, err := other.Get(span)
			if err != nil {
				return false
			}
			for i := range x {
				if math.Abs(x[i]-y[i]) > tol {
					return false
				}
			}
		}
	}
	return true
}

func nonzeroFor(nz map[string]map[interval.Strand][]int, chrom string, s interval.Strand) []int {
	if byStrand, ok := nz[chrom]; ok {
		return byStrand[s]
	}
	return nil
}

func unionChroms(a, b *Array) []string {
	seen := make(map[string]bool)
	for chrom := range a.chroms {
		seen[chrom] = true
	}
	for chrom := range b.chroms {
		seen[chrom] = true
	}
	out := make([]string, 0, len(seen))
	for chrom := range seen {
		out = append(out, chrom)
	}
	sort.Strings(out)
	return out
}

func unionStrands(a, b []interval.Strand) []interval.Strand {
	out := make([]interval.Strand, len(a))
	copy(out, a)
	for _, s := range b {
		if !hasStrand(out, s) {
			out = append(out, s)
		}
	}
	return out
}
