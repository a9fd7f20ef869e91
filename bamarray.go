package garray

import (
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
	"github.com/ribolab/garray/bamsource"
	"github.com/ribolab/garray/interval"
	"gonum.org/v1/gonum/floats"
)

// BAMArray is a read-only genome array computed on demand from one or more
// indexed alignment sources.  Each query fetches only the alignments
// overlapping the interval, passes them through the filter chain, and maps
// them with the active MapFunc; no genome-wide buffer ever exists.  That
// makes mapping rules and filters swappable at runtime for free, a property
// the storage backends cannot offer.
//
// There is no write path.  For elementwise arithmetic, materialize with
// ToGenomeArray first.
type BAMArray struct {
	sources []bamsource.Source
	mapFn   MapFunc
	filters *FilterChain
	strands []interval.Strand
	lengths map[string]int

	sum       float64
	sumValid  bool
	normalize bool
	closed    bool
}

var _ GenomeArray = (*BAMArray)(nil)

// NewBAMArray creates a BAMArray over the given sources with the default
// entire-read mapping and an empty filter chain.  Reference names and
// lengths come from source metadata; a name shared by several sources takes
// its maximum declared length.
func NewBAMArray(sources ...bamsource.Source) (*BAMArray, error) {
	if len(sources) == 0 {
		return nil, errors.E(errors.Invalid, "at least one alignment source required")
	}
	lengths := make(map[string]int)
	for _, src := range sources {
		refs, err := src.References()
		if err != nil {
			return nil, err
		}
		for name, length := range refs {
			if length > lengths[name] {
				lengths[name] = length
			}
		}
	}
	return &BAMArray{
		sources: sources,
		mapFn:   EntireMap(),
		filters: NewFilterChain(),
		strands: []interval.Strand{interval.Fwd, interval.Rev},
		lengths: lengths,
	}, nil
}

// SetMapping installs fn as the active mapping rule.  The swap is a pure
// reference change; no source data is touched.  Must not race in-flight
// queries.
func (b *BAMArray) SetMapping(fn MapFunc) { b.mapFn = fn }

// Mapping returns the active mapping rule.
func (b *BAMArray) Mapping() MapFunc { return b.mapFn }

// AddFilter registers a filter applied to every subsequent query.
func (b *BAMArray) AddFilter(name string, f Filter) { b.filters.Add(name, f) }

// RemoveFilter deletes and returns a registered filter.
func (b *BAMArray) RemoveFilter(name string) (Filter, error) { return b.filters.Remove(name) }

// GetWithAlignments returns the accepted alignments over iv together with
// the mapped count vector.  Unknown chromosomes yield no alignments and a
// zero vector, not an error.
func (b *BAMArray) GetWithAlignments(iv interval.Interval) ([]*sam.Record, []float64, error) {
	if err := iv.Check(); err != nil {
		return nil, nil, err
	}
	if _, ok := b.lengths[iv.Chrom]; !ok {
		return nil, make([]float64, iv.Len()), nil
	}
	var reads []*sam.Record
	for _, src := range b.sources {
		fetched, err := src.Fetch(iv.Chrom, iv.Start, iv.End)
		if err != nil {
			return nil, nil, err
		}
		reads = append(reads, fetched...)
	}
	reads = b.filters.apply(reads, iv.Strand)
	accepted, counts, err := b.mapFn(reads, iv)
	if err != nil {
		return nil, nil, err
	}
	if b.normalize {
		total, err := b.mappedTotal()
		if err != nil {
			return nil, nil, err
		}
		floats.Scale(rpmScale/total, counts)
	}
	return accepted, counts, nil
}

// Get implements GenomeArray.
func (b *BAMArray) Get(iv interval.Interval) ([]float64, error) {
	_, counts, err := b.GetWithAlignments(iv)
	return counts, err
}

// mappedTotal returns the unfiltered mapped-read total across sources,
// computed once from index metadata.
func (b *BAMArray) mappedTotal() (float64, error) {
	if !b.sumValid {
		var total int64
		for _, src := range b.sources {
			n, err := src.MappedReads()
			if err != nil {
				return 0, err
			}
			total += n
		}
		b.sum = float64(total)
		b.sumValid = true
	}
	return b.sum, nil
}

// Sum implements GenomeArray.  The total is the mapped-read count from
// source metadata; filters do not reduce it, so normalized values under a
// narrow filter remain comparable across filter settings.
func (b *BAMArray) Sum() float64 {
	total, err := b.mappedTotal()
	if err != nil {
		log.Panicf("reading mapped-read counts: %v", err)
	}
	return total
}

// SetNormalize implements GenomeArray.
func (b *BAMArray) SetNormalize(on bool) { b.normalize = on }

// Chroms implements GenomeArray.
func (b *BAMArray) Chroms() []string {
	out := make([]string, 0, len(b.lengths))
	for chrom := range b.lengths {
		out = append(out, chrom)
	}
	sort.Strings(out)
	return out
}

// Strands implements GenomeArray.
func (b *BAMArray) Strands() []interval.Strand {
	out := make([]interval.Strand, len(b.strands))
	copy(out, b.strands)
	return out
}

// Lengths implements GenomeArray.
func (b *BAMArray) Lengths() map[string]int {
	out := make(map[string]int, len(b.lengths))
	for chrom, length := range b.lengths {
		out[chrom] = length
	}
	return out
}

// ToGenomeArray materializes the current view (active mapping, filters, and
// normalization state) into a mutable array, iterating every chromosome
// strand once in fixed windows.  newArray is typically NewDense or
// NewSparse.
func (b *BAMArray) ToGenomeArray(newArray func(map[string]int, ...interval.Strand) *Array) (*Array, error) {
	out := newArray(b.Lengths(), b.strands...)
	for _, chrom := range b.Chroms() {
		length := b.lengths[chrom]
		for _, s := range b.strands {
			for start := 0; start < length; start += defaultWindowSize {
				end := start + defaultWindowSize
				if end > length {
					end = length
				}
				iv := interval.Interval{Chrom: chrom, Start: start, End: end, Strand: s}
				vec, err := b.Get(iv)
				if err != nil {
					return nil, err
				}
				if err := out.Set(iv, vec); err != nil {
					return nil, err
				}
			}
		}
	}
	return out, nil
}

// Close releases every underlying source.  It must be called exactly once.
func (b *BAMArray) Close() error {
	if b.closed {
		return errors.E(errors.Invalid, "BAMArray: Close called twice")
	}
	b.closed = true
	var firstErr error
	for _, src := range b.sources {
		if err := src.Close(); err != nil && firstErr == nil {
			firstErr = errors.E(err, "closing alignment source")
		}
	}
	return firstErr
}
