package garray

import (
	"github.com/ribolab/garray/interval"
)

const (
	// DefaultChromSize is the buffer length guessed for chromosomes created
	// without a declared length.  Declaring lengths up front avoids repeated
	// regrowth on large genomes.
	DefaultChromSize = 10 * 1000 * 1000

	// growPad is the slack added beyond a requested out-of-bounds position
	// when a chromosome buffer grows.
	growPad = 10000

	// rpmScale is the reads-per-million normalization numerator.
	rpmScale = 1e6
)

// GenomeArray is the read contract shared by all backends.
type GenomeArray interface {
	// Get returns the values at each position of iv, leftmost first.  The
	// returned slice is freshly allocated and never aliases internal storage.
	// Values are scaled by 1e6/Sum() while normalization is enabled.
	Get(iv interval.Interval) ([]float64, error)

	// Sum returns the total of all values in the array.  The raw sum is
	// reported even while normalization is enabled.
	Sum() float64

	// SetNormalize toggles reads-per-million scaling of fetched values.
	SetNormalize(on bool)

	// Chroms returns the chromosome names in the array, sorted.
	Chroms() []string

	// Strands returns the strands configured for the array.
	Strands() []interval.Strand

	// Lengths maps each chromosome to its length.  All strands of one
	// chromosome share a length; growth keeps them in step.
	Lengths() map[string]int
}

// MutableGenomeArray adds the write path offered by the dense and sparse
// backends.
type MutableGenomeArray interface {
	GenomeArray

	// Set overwrites the values over iv.  vals must have length iv.Len().
	// Raw values are always written: normalization is transiently disabled
	// for the duration of the write.
	Set(iv interval.Interval, vals []float64) error

	// AddCount accumulates value at every position of iv.
	AddCount(iv interval.Interval, value float64) error
}

// defaultStrands substitutes +/- for an unspecified strand set.  An empty
// non-nil set stays empty: combination modes can legitimately produce a
// strandless shape.
func defaultStrands(strands []interval.Strand) []interval.Strand {
	if strands == nil {
		return []interval.Strand{interval.Fwd, interval.Rev}
	}
	out := make([]interval.Strand, len(strands))
	copy(out, strands)
	return out
}

func hasStrand(strands []interval.Strand, s interval.Strand) bool {
	for _, t := range strands {
		if t == s {
			return true
		}
	}
	return false
}
