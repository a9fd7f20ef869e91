package garray

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
	"github.com/ribolab/garray/interval"
)

// MapFunc converts alignments overlapping an interval into positional
// counts.  It returns the alignments that contributed at least one in-bounds
// position ("accepted") and a count vector of length iv.Len(), indexed by
// position - iv.Start.  MapFuncs are pure: fixed configuration, no state
// across calls.
//
// Per-alignment defects (too short for the configured offset or trim) are
// logged and skipped; only configuration errors abort a query.
type MapFunc func(reads []*sam.Record, iv interval.Interval) ([]*sam.Record, []float64, error)

// alignedPositions returns the reference positions covered by read bases,
// leftmost first.  Insertions and clips contribute nothing; deletions and
// skips advance the reference without contributing.
func alignedPositions(r *sam.Record) []int {
	out := make([]int, 0, r.Len())
	pos := r.Pos
	for _, co := range r.Cigar {
		consume := co.Type().Consumes()
		n := co.Len()
		if consume.Reference == 1 {
			if consume.Query == 1 {
				for i := 0; i < n; i++ {
					out = append(out, pos+i)
				}
			}
			pos += n
		}
	}
	return out
}

// endOffsetPosition resolves a fixed offset from one read end to a genomic
// position.  Position lists run genome-leftmost-first, so "offset in from
// the 5' end" is index offset on the forward strand and -offset-1 on the
// reverse; fromThree flips the ends.  Unstranded intervals use the forward
// arithmetic.
func endOffsetPosition(positions []int, iv interval.Interval, offset int, fromThree bool) int {
	fromLeft := iv.Strand != interval.Rev
	if fromThree {
		fromLeft = !fromLeft
	}
	if fromLeft {
		return positions[offset]
	}
	return positions[len(positions)-offset-1]
}

func offsetMap(offset int, fromThree bool) (MapFunc, error) {
	if offset < 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("mapping offset %d must be >= 0", offset))
	}
	fn := func(reads []*sam.Record, iv interval.Interval) ([]*sam.Record, []float64, error) {
		counts := make([]float64, iv.Len())
		var accepted []*sam.Record
		for _, read := range reads {
			positions := alignedPositions(read)
			if len(positions) < offset+1 {
				log.Error.Printf("offset %dnt >= read length %dnt for %s; skipping", offset, len(positions), read.Name)
				continue
			}
			site := endOffsetPosition(positions, iv, offset, fromThree)
			if iv.Contains(site) {
				accepted = append(accepted, read)
				counts[site-iv.Start]++
			}
		}
		return accepted, counts, nil
	}
	return fn, nil
}

// FivePrimeMap returns a MapFunc counting each alignment once, offset
// positions in from its 5' end toward the 3' end.
func FivePrimeMap(offset int) (MapFunc, error) {
	return offsetMap(offset, false)
}

// ThreePrimeMap returns a MapFunc counting each alignment once, offset
// positions in from its 3' end toward the 5' end.
func ThreePrimeMap(offset int) (MapFunc, error) {
	return offsetMap(offset, true)
}

// OffsetTable maps read lengths to five-prime offsets for
// VariableFivePrimeMap and VariableFivePrimeTransform.  Lengths absent from
// Offsets fall back to Default when HasDefault is set; with no usable entry
// the lookup is a configuration error.
type OffsetTable struct {
	Offsets    map[int]int
	Default    int
	HasDefault bool
}

func (t OffsetTable) offsetFor(length int) (int, error) {
	if offset, ok := t.Offsets[length]; ok {
		return offset, nil
	}
	if t.HasDefault {
		return t.Default, nil
	}
	return 0, errors.E(errors.Precondition, fmt.Sprintf("no offset for read length %d and no default entry in table", length))
}

func (t OffsetTable) check() error {
	for length, offset := range t.Offsets {
		if offset < 0 {
			return errors.E(errors.Invalid, fmt.Sprintf("offset %d for read length %d must be >= 0", offset, length))
		}
	}
	if t.HasDefault && t.Default < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("default offset %d must be >= 0", t.Default))
	}
	return nil
}

// VariableFivePrimeMap returns a MapFunc like FivePrimeMap with the offset
// chosen per alignment length from table.
func VariableFivePrimeMap(table OffsetTable) (MapFunc, error) {
	if err := table.check(); err != nil {
		return nil, err
	}
	fn := func(reads []*sam.Record, iv interval.Interval) ([]*sam.Record, []float64, error) {
		counts := make([]float64, iv.Len())
		var accepted []*sam.Record
		for _, read := range reads {
			positions := alignedPositions(read)
			offset, err := table.offsetFor(len(positions))
			if err != nil {
				return nil, nil, err
			}
			if len(positions) < offset+1 {
				log.Error.Printf("offset %dnt >= read length %dnt for %s; skipping", offset, len(positions), read.Name)
				continue
			}
			site := endOffsetPosition(positions, iv, offset, false)
			if iv.Contains(site) {
				accepted = append(accepted, read)
				counts[site-iv.Start]++
			}
		}
		return accepted, counts, nil
	}
	return fn, nil
}

// NibbleMap returns a MapFunc trimming nibble positions from each end of an
// alignment and spreading one count evenly (1/N) over the N positions that
// remain.  The fraction divides by the alignment's full remaining length,
// not the part visible in the window.  nibble 0 maps reads along their
// entire length.
func NibbleMap(nibble int) (MapFunc, error) {
	if nibble < 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("nibble %d must be >= 0", nibble))
	}
	fn := func(reads []*sam.Record, iv interval.Interval) ([]*sam.Record, []float64, error) {
		counts := make([]float64, iv.Len())
		var accepted []*sam.Record
		for _, read := range reads {
			positions := alignedPositions(read)
			if len(positions) <= 2*nibble {
				log.Error.Printf("read length %dnt <= 2*nibble %dnt for %s; skipping", len(positions), 2*nibble, read.Name)
				continue
			}
			if nibble > 0 {
				positions = positions[nibble : len(positions)-nibble]
			}
			weight := 1.0 / float64(len(positions))
			hit := false
			for _, pos := range positions {
				if iv.Contains(pos) {
					counts[pos-iv.Start] += weight
					hit = true
				}
			}
			if hit {
				accepted = append(accepted, read)
			}
		}
		return accepted, counts, nil
	}
	return fn, nil
}

// EntireMap returns the default mapping: each alignment contributes 1/N to
// every one of its N aligned positions.
func EntireMap() MapFunc {
	fn, _ := NibbleMap(0)
	return fn
}
