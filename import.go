package garray

import (
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/ribolab/garray/encoding/wiggle"
	"github.com/ribolab/garray/interval"
)

// Placement is one accumulation produced by a Transform: Value is added to
// every position of Span.
type Placement struct {
	Span  interval.Interval
	Value float64
}

// Transform converts one ungapped alignment span into the placements it
// contributes.  Transforms mirror the MapFuncs but operate on bare
// intervals, for import formats that carry no CIGAR detail.  A transform
// may return no placements to skip a defective alignment (after logging);
// errors abort the import.
type Transform func(iv interval.Interval) ([]Placement, error)

// point builds the single-position placement shared by the offset
// transforms.
func point(iv interval.Interval, offset int, fromThree bool, value float64) []Placement {
	if iv.Len() < offset+1 {
		log.Error.Printf("offset %dnt >= alignment length %dnt at %s; skipping", offset, iv.Len(), iv)
		return nil
	}
	fromLeft := iv.Strand != interval.Rev
	if fromThree {
		fromLeft = !fromLeft
	}
	pos := iv.Start + offset
	if !fromLeft {
		pos = iv.End - offset - 1
	}
	span := interval.Interval{Chrom: iv.Chrom, Start: pos, End: pos + 1, Strand: iv.Strand}
	return []Placement{{Span: span, Value: value}}
}

// FivePrimeTransform places value at a fixed offset in from the 5' end of
// each alignment.
func FivePrimeTransform(offset int, value float64) (Transform, error) {
	if offset < 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("mapping offset %d must be >= 0", offset))
	}
	return func(iv interval.Interval) ([]Placement, error) {
		return point(iv, offset, false, value), nil
	}, nil
}

// ThreePrimeTransform places value at a fixed offset in from the 3' end of
// each alignment.
func ThreePrimeTransform(offset int, value float64) (Transform, error) {
	if offset < 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("mapping offset %d must be >= 0", offset))
	}
	return func(iv interval.Interval) ([]Placement, error) {
		return point(iv, offset, true, value), nil
	}, nil
}

// VariableFivePrimeTransform places value at a 5' offset chosen per
// alignment length from table.
func VariableFivePrimeTransform(table OffsetTable, value float64) (Transform, error) {
	if err := table.check(); err != nil {
		return nil, err
	}
	return func(iv interval.Interval) ([]Placement, error) {
		offset, err := table.offsetFor(iv.Len())
		if err != nil {
			return nil, err
		}
		return point(iv, offset, false, value), nil
	}, nil
}

// CenterTransform trims nibble positions from each end of an alignment and
// spreads value evenly over the remainder.
func CenterTransform(nibble int, value float64) (Transform, error) {
	if nibble < 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("nibble %d must be >= 0", nibble))
	}
	return func(iv interval.Interval) ([]Placement, error) {
		if iv.Len() <= 2*nibble {
			log.Error.Printf("alignment length %dnt <= 2*nibble %dnt at %s; skipping", iv.Len(), 2*nibble, iv)
			return nil, nil
		}
		span := interval.Interval{Chrom: iv.Chrom, Start: iv.Start + nibble, End: iv.End - nibble, Strand: iv.Strand}
		return []Placement{{Span: span, Value: value / float64(span.Len())}}, nil
	}, nil
}

// EntireTransform spreads value evenly over the whole alignment.
func EntireTransform(value float64) Transform {
	t, _ := CenterTransform(0, value)
	return t
}

// AlignmentStream yields ungapped alignment spans one at a time, in the
// manner of a bufio.Scanner.
type AlignmentStream interface {
	// Scan advances to the next alignment, returning false at end of input
	// or on error.
	Scan() bool
	// Interval returns the span of the current alignment.
	Interval() interval.Interval
	// Err returns the error that stopped Scan, if any.
	Err() error
}

// AddAlignments accumulates every alignment from stream through t, skipping
// alignments whose length falls outside [minLen, maxLen] (maxLen <= 0 means
// no upper bound).  It returns the number of alignments accumulated.
func (a *Array) AddAlignments(stream AlignmentStream, t Transform, minLen, maxLen int) (int, error) {
	added := 0
	for stream.Scan() {
		iv := stream.Interval()
		n := iv.Len()
		if n < minLen || (maxLen > 0 && n > maxLen) {
			continue
		}
		placements, err := t(iv)
		if err != nil {
			return added, err
		}
		for _, p := range placements {
			if err := a.AddCount(p.Span, p.Value); err != nil {
				return added, err
			}
		}
		if len(placements) > 0 {
			added++
		}
	}
	return added, stream.Err()
}

// AddWiggle accumulates every entry of r onto strand.  Values add to any
// existing contents, so several files can layer into one array.
func (a *Array) AddWiggle(r *wiggle.Reader, strand interval.Strand) error {
	for {
		entry, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		iv := interval.Interval{Chrom: entry.Chrom, Start: entry.Start, End: entry.End, Strand: strand}
		if err := a.AddCount(iv, entry.Value); err != nil {
			return err
		}
	}
}
