package garray

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/ribolab/garray/interval"
	"gonum.org/v1/gonum/floats"
)

// Mode selects how Combine reconciles the shapes of its operands.
type Mode string

const (
	// ModeSame requires both operands to cover identical chromosomes,
	// strands, and lengths; any mismatch is an error.
	ModeSame Mode = "same"
	// ModeAll operates over the union of both shapes, treating regions
	// absent from one operand as zero.
	ModeAll Mode = "all"
	// ModeTruncate operates over the intersection of both shapes, trimming
	// shared chromosomes to the shorter length.
	ModeTruncate Mode = "truncate"
)

// Operator is an elementwise binary operation writing op(x, y) into dst.
// All three slices have equal length.
type Operator func(dst, x, y []float64)

var (
	// Add is elementwise addition.
	Add Operator = func(dst, x, y []float64) { floats.AddTo(dst, x, y) }
	// Sub is elementwise subtraction, x minus y.
	Sub Operator = func(dst, x, y []float64) { floats.SubTo(dst, x, y) }
	// Mul is elementwise multiplication.
	Mul Operator = func(dst, x, y []float64) { floats.MulTo(dst, x, y) }
)

// Combine applies op positionwise over a and other, reconciling their
// shapes per mode, and returns a new array using a's storage backend.
// Arithmetic always consumes raw values; the normalization flags of the
// operands are ignored and left untouched.
func (a *Array) Combine(other *Array, op Operator, mode Mode) (*Array, error) {
	if a.normalize || other.normalize {
		log.Error.Printf("combining raw values; normalization is ignored during arithmetic")
	}
	var (
		chroms  []string
		strands []interval.Strand
		lengths = make(map[string]int)
	)
	switch mode {
	case ModeSame:
		if err := sameShape(a, other); err != nil {
			return nil, err
		}
		chroms = a.Chroms()
		strands = a.Strands()
		lengths = a.Lengths()
	case ModeAll:
		chroms = unionChroms(a, other)
		strands = unionStrands(a.strands, other.strands)
		al, ol := a.Lengths(), other.Lengths()
		for _, chrom := range chroms {
			length := al[chrom]
			if ol[chrom] > length {
				length = ol[chrom]
			}
			lengths[chrom] = length
		}
	case ModeTruncate:
		al, ol := a.Lengths(), other.Lengths()
		for _, chrom := range unionChroms(a, other) {
			if al[chrom] > 0 && ol[chrom] > 0 {
				chroms = append(chroms, chrom)
				length := al[chrom]
				if ol[chrom] < length {
					length = ol[chrom]
				}
				lengths[chrom] = length
			}
		}
		strands = intersectStrands(a.strands, other.strands)
	default:
		return nil, errors.E(errors.Invalid, fmt.Sprintf("unknown combination mode %q", mode))
	}
	out := newArray(lengths, strands, a.newBuffer)
	for _, chrom := range chroms {
		length := lengths[chrom]
		if length == 0 {
			continue
		}
		for _, s := range strands {
			x := a.rawWindow(chrom, s, length)
			y := other.rawWindow(chrom, s, length)
			dst := make([]float64, length)
			op(dst, x, y)
			iv := interval.Interval{Chrom: chrom, Start: 0, End: length, Strand: s}
			if err := out.Set(iv, dst); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// CombineScalar applies op positionwise between a and a constant broadcast
// to every position, returning a new array with a's shape and backend.
func (a *Array) CombineScalar(value float64, op Operator) (*Array, error) {
	if a.normalize {
		log.Error.Printf("combining raw values; normalization is ignored during arithmetic")
	}
	lengths := a.Lengths()
	out := newArray(lengths, a.strands, a.newBuffer)
	for _, chrom := range a.Chroms() {
		length := lengths[chrom]
		if length == 0 {
			continue
		}
		y := make([]float64, length)
		floats.AddConst(value, y)
		for _, s := range a.strands {
			x := a.rawWindow(chrom, s, length)
			dst := make([]float64, length)
			op(dst, x, y)
			iv := interval.Interval{Chrom: chrom, Start: 0, End: length, Strand: s}
			if err := out.Set(iv, dst); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// rawWindow copies positions [0, length) of one chromosome strand without
// normalization, zero-padding past the buffer and never growing or
// otherwise mutating the array.
func (a *Array) rawWindow(chrom string, s interval.Strand, length int) []float64 {
	out := make([]float64, length)
	byStrand, ok := a.chroms[chrom]
	if !ok {
		return out
	}
	buf, ok := byStrand[s]
	if !ok {
		return out
	}
	n := buf.Len()
	if n > length {
		n = length
	}
	copy(out, buf.Slice(0, n))
	return out
}

func sameShape(a, b *Array) error {
	al, bl := a.Lengths(), b.Lengths()
	if len(al) != len(bl) {
		return errors.E(errors.Precondition, fmt.Sprintf("operands cover %d and %d chromosomes; mode %q requires identical shapes", len(al), len(bl), ModeSame))
	}
	for chrom, length := range al {
		blen, ok := bl[chrom]
		if !ok {
			return errors.E(errors.Precondition, fmt.Sprintf("chromosome %s present in only one operand; mode %q requires identical shapes", chrom, ModeSame))
		}
		if blen != length {
			return errors.E(errors.Precondition, fmt.Sprintf("chromosome %s has lengths %d and %d; mode %q requires identical shapes", chrom, length, blen, ModeSame))
		}
	}
	if len(a.strands) != len(b.strands) {
		return errors.E(errors.Precondition, fmt.Sprintf("operands configure %d and %d strands; mode %q requires identical shapes", len(a.strands), len(b.strands), ModeSame))
	}
	for _, s := range a.strands {
		if !hasStrand(b.strands, s) {
			return errors.E(errors.Precondition, fmt.Sprintf("strand %s present in only one operand; mode %q requires identical shapes", s, ModeSame))
		}
	}
	return nil
}

// intersectStrands returns the strands present in both sets, never nil: a
// disjoint pair yields an empty set, which newArray must not widen back to
// the +/- default.
func intersectStrands(a, b []interval.Strand) []interval.Strand {
	out := make([]interval.Strand, 0, len(a))
	for _, s := range a {
		if hasStrand(b, s) {
			out = append(out, s)
		}
	}
	return out
}
