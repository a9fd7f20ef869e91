package garray_test

import (
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/ribolab/garray"
	"github.com/ribolab/garray/encoding/wiggle"
	"github.com/ribolab/garray/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceStream struct {
	ivs []interval.Interval
	i   int
}

func (s *sliceStream) Scan() bool {
	if s.i < len(s.ivs) {
		s.i++
		return true
	}
	return false
}

func (s *sliceStream) Interval() interval.Interval { return s.ivs[s.i-1] }
func (s *sliceStream) Err() error                  { return nil }

func TestAddAlignmentsFivePrime(t *testing.T) {
	a := garray.NewDense(map[string]int{"chr1": 1000})
	stream := &sliceStream{ivs: []interval.Interval{
		iv("chr1", 100, 110, interval.Fwd),
		iv("chr1", 100, 110, interval.Rev),
	}}
	tr, err := garray.FivePrimeTransform(0, 1)
	require.NoError(t, err)
	n, err := a.AddAlignments(stream, tr, 0, 0)
	require.NoError(t, err)
	expect.EQ(t, n, 2)

	vec, err := a.Get(iv("chr1", 100, 101, interval.Fwd))
	require.NoError(t, err)
	expect.EQ(t, vec, []float64{1})
	vec, err = a.Get(iv("chr1", 109, 110, interval.Rev))
	require.NoError(t, err)
	expect.EQ(t, vec, []float64{1})
	expect.EQ(t, a.Sum(), 2.0)
}

func TestAddAlignmentsLengthGate(t *testing.T) {
	a := garray.NewDense(map[string]int{"chr1": 1000})
	stream := &sliceStream{ivs: []interval.Interval{
		iv("chr1", 0, 20, interval.Fwd),  // too short
		iv("chr1", 0, 30, interval.Fwd),  // kept
		iv("chr1", 0, 100, interval.Fwd), // too long
	}}
	tr, err := garray.FivePrimeTransform(0, 1)
	require.NoError(t, err)
	n, err := a.AddAlignments(stream, tr, 25, 50)
	require.NoError(t, err)
	expect.EQ(t, n, 1)
	expect.EQ(t, a.Sum(), 1.0)
}

func TestThreePrimeTransform(t *testing.T) {
	tr, err := garray.ThreePrimeTransform(2, 1)
	require.NoError(t, err)
	placements, err := tr(iv("chr1", 100, 110, interval.Fwd))
	require.NoError(t, err)
	require.Len(t, placements, 1)
	expect.EQ(t, placements[0].Span, iv("chr1", 107, 108, interval.Fwd))

	placements, err = tr(iv("chr1", 100, 110, interval.Rev))
	require.NoError(t, err)
	require.Len(t, placements, 1)
	expect.EQ(t, placements[0].Span, iv("chr1", 102, 103, interval.Rev))
}

func TestTransformShortAlignmentSkipped(t *testing.T) {
	tr, err := garray.FivePrimeTransform(15, 1)
	require.NoError(t, err)
	placements, err := tr(iv("chr1", 100, 110, interval.Fwd))
	require.NoError(t, err)
	expect.EQ(t, len(placements), 0)
}

func TestVariableFivePrimeTransform(t *testing.T) {
	table := garray.OffsetTable{Offsets: map[int]int{10: 3}, Default: 1, HasDefault: true}
	tr, err := garray.VariableFivePrimeTransform(table, 1)
	require.NoError(t, err)

	placements, err := tr(iv("chr1", 100, 110, interval.Fwd))
	require.NoError(t, err)
	expect.EQ(t, placements[0].Span.Start, 103)
	placements, err = tr(iv("chr1", 100, 108, interval.Fwd))
	require.NoError(t, err)
	expect.EQ(t, placements[0].Span.Start, 101)

	tr, err = garray.VariableFivePrimeTransform(garray.OffsetTable{Offsets: map[int]int{10: 3}}, 1)
	require.NoError(t, err)
	_, err = tr(iv("chr1", 100, 108, interval.Fwd))
	assert.Error(t, err)
}

func TestCenterTransform(t *testing.T) {
	tr, err := garray.CenterTransform(2, 1)
	require.NoError(t, err)
	placements, err := tr(iv("chr1", 100, 110, interval.Fwd))
	require.NoError(t, err)
	require.Len(t, placements, 1)
	expect.EQ(t, placements[0].Span, iv("chr1", 102, 108, interval.Fwd))
	expect.EQ(t, placements[0].Value, 1.0/6.0)

	// Alignments shorter than the trim are skipped, not errors.
	placements, err = tr(iv("chr1", 100, 104, interval.Fwd))
	require.NoError(t, err)
	expect.EQ(t, len(placements), 0)
}

func TestEntireTransform(t *testing.T) {
	tr := garray.EntireTransform(1)
	placements, err := tr(iv("chr1", 100, 110, interval.Rev))
	require.NoError(t, err)
	require.Len(t, placements, 1)
	expect.EQ(t, placements[0].Span, iv("chr1", 100, 110, interval.Rev))
	expect.EQ(t, placements[0].Value, 0.1)
}

func TestAddWiggle(t *testing.T) {
	for name, newArray := range backends {
		t.Run(name, func(t *testing.T) {
			a := newArray(map[string]int{"chr1": 1000})
			r := wiggle.NewReader(strings.NewReader(`variableStep chrom=chr1
5	2.0
8	3.5
`))
			require.NoError(t, a.AddWiggle(r, interval.Fwd))
			vec, err := a.Get(iv("chr1", 4, 8, interval.Fwd))
			require.NoError(t, err)
			expect.EQ(t, vec, []float64{2, 0, 0, 3.5})

			// A second file layers onto the first.
			r = wiggle.NewReader(strings.NewReader("chr1\t4\t6\t1.0\n"))
			require.NoError(t, a.AddWiggle(r, interval.Fwd))
			vec, err = a.Get(iv("chr1", 4, 8, interval.Fwd))
			require.NoError(t, err)
			expect.EQ(t, vec, []float64{3, 1, 0, 3.5})
		})
	}
}
