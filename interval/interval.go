// Package interval defines the genomic interval value type used throughout
// garray.  Intervals are zero-based and half-open: [Start, End) on a named
// chromosome and strand, following the convention of binary alignment
// formats.  One-based text formats (wiggle, VCF) are converted at their
// codec boundaries, never here.
package interval

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Strand identifies which strand of a chromosome an interval refers to.
type Strand byte

const (
	// Fwd is the forward (Watson, '+') strand.
	Fwd Strand = '+'
	// Rev is the reverse (Crick, '-') strand.
	Rev Strand = '-'
	// None ('.') marks an unstranded interval.  Queries on None match
	// records from both strands.
	None Strand = '.'
)

// String returns the single-character strand symbol.
func (s Strand) String() string { return string(rune(s)) }

// Valid reports whether s is one of '+', '-', '.'.
func (s Strand) Valid() bool { return s == Fwd || s == Rev || s == None }

// ParseStrand converts a one-character strand symbol to a Strand.
func ParseStrand(s string) (Strand, error) {
	if len(s) == 1 {
		if t := Strand(s[0]); t.Valid() {
			return t, nil
		}
	}
	return None, errors.E(errors.Invalid, fmt.Sprintf("invalid strand %q (want +, - or .)", s))
}

// Interval is a zero-based half-open genomic range.
type Interval struct {
	Chrom  string
	Start  int
	End    int
	Strand Strand
}

// New returns a validated Interval.
func New(chrom string, start, end int, strand Strand) (Interval, error) {
	iv := Interval{Chrom: chrom, Start: start, End: end, Strand: strand}
	return iv, iv.Check()
}

// Check verifies the interval coordinate and strand invariants.
func (i Interval) Check() error {
	if i.Start < 0 || i.End < i.Start {
		return errors.E(errors.Invalid, fmt.Sprintf("invalid interval %s: want 0 <= start <= end", i))
	}
	if !i.Strand.Valid() {
		return errors.E(errors.Invalid, fmt.Sprintf("invalid strand %q in interval %s", rune(i.Strand), i))
	}
	return nil
}

// Len returns the number of positions covered by the interval.
func (i Interval) Len() int { return i.End - i.Start }

// Contains reports whether position pos lies inside the interval.
func (i Interval) Contains(pos int) bool { return pos >= i.Start && pos < i.End }

func (i Interval) String() string {
	return fmt.Sprintf("%s:%d-%d(%s)", i.Chrom, i.Start, i.End, i.Strand)
}
