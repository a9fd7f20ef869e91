package bamsource

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
)

// Fake is an in-memory Source for unit tests and for callers that already
// hold records.  Records are matched against fetch windows by simple overlap
// scans; they need not be sorted.
type Fake struct {
	refs   map[string]int
	recs   []*sam.Record
	closed bool
}

// NewFake creates a Fake source with the given reference length table and
// records.  The mapped-read count is len(recs).
func NewFake(refs map[string]int, recs ...*sam.Record) *Fake {
	return &Fake{refs: refs, recs: recs}
}

// Fetch implements Source.
func (f *Fake) Fetch(chrom string, start, end int) ([]*sam.Record, error) {
	if start < 0 || end < start {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("fetch %s:%d-%d: want 0 <= start <= end", chrom, start, end))
	}
	var out []*sam.Record
	for _, rec := range f.recs {
		if rec.Ref != nil && rec.Ref.Name() == chrom && rec.Pos < end && rec.End() > start {
			out = append(out, rec)
		}
	}
	return out, nil
}

// References implements Source.
func (f *Fake) References() (map[string]int, error) {
	refs := make(map[string]int, len(f.refs))
	for name, length := range f.refs {
		refs[name] = length
	}
	return refs, nil
}

// MappedReads implements Source.
func (f *Fake) MappedReads() (int64, error) {
	return int64(len(f.recs)), nil
}

// Close implements Source.
func (f *Fake) Close() error {
	if f.closed {
		return errors.New("fake source: Close called twice")
	}
	f.closed = true
	return nil
}
