package garray_test

import (
	"bytes"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/ribolab/garray"
	"github.com/ribolab/garray/encoding/wiggle"
	"github.com/ribolab/garray/interval"
	"github.com/stretchr/testify/require"
)

func TestWriteVariableStep(t *testing.T) {
	for name, newArray := range backends {
		t.Run(name, func(t *testing.T) {
			a := newArray(map[string]int{"chr1": 10, "chr2": 10})
			require.NoError(t, a.Set(iv("chr1", 4, 5, interval.Fwd), []float64{2}))
			require.NoError(t, a.Set(iv("chr1", 7, 8, interval.Fwd), []float64{3.5}))

			var buf bytes.Buffer
			require.NoError(t, garray.WriteVariableStep(&buf, a, interval.Fwd, garray.TrackOpts{Name: "test"}))
			expect.EQ(t, buf.String(), `track type=wiggle_0 name=test
variableStep chrom=chr1 span=1
5	2.0
8	3.5
variableStep chrom=chr2 span=1
`)
		})
	}
}

func TestWriteBedGraph(t *testing.T) {
	for name, newArray := range backends {
		t.Run(name, func(t *testing.T) {
			a := newArray(map[string]int{"chr1": 20, "chr2": 20})
			require.NoError(t, a.Set(iv("chr1", 10, 13, interval.Fwd), []float64{1, 1, 1}))
			require.NoError(t, a.Set(iv("chr1", 15, 17, interval.Fwd), []float64{2.5, 2.5}))

			var buf bytes.Buffer
			require.NoError(t, garray.WriteBedGraph(&buf, a, interval.Fwd, garray.TrackOpts{Name: "test"}))
			expect.EQ(t, buf.String(), `track type=bedGraph name=test
chr1	10	13	1.0
chr1	15	17	2.5
`)
		})
	}
}

// A constant region longer than the fetch window splits at the window
// boundary.
func TestWriteBedGraphWindowBoundary(t *testing.T) {
	a := garray.NewDense(map[string]int{"chr1": 10})
	require.NoError(t, a.Set(iv("chr1", 2, 8, interval.Fwd), []float64{1, 1, 1, 1, 1, 1}))

	var buf bytes.Buffer
	require.NoError(t, garray.WriteBedGraph(&buf, a, interval.Fwd, garray.TrackOpts{WindowSize: 5}))
	expect.EQ(t, buf.String(), `track type=bedGraph
chr1	2	5	1.0
chr1	5	8	1.0
`)
}

func TestTrackAttrs(t *testing.T) {
	a := garray.NewDense(map[string]int{"chr1": 10})
	var buf bytes.Buffer
	opts := garray.TrackOpts{
		Name:  "n",
		Attrs: map[string]string{"color": "0,0,255", "autoScale": "off"},
	}
	require.NoError(t, garray.WriteBedGraph(&buf, a, interval.Fwd, opts))
	expect.EQ(t, buf.String(), "track type=bedGraph name=n autoScale=off color=0,0,255\n")
}

func TestWriteVariableStepNormalized(t *testing.T) {
	a := garray.NewDense(map[string]int{"chr1": 10})
	require.NoError(t, a.Set(iv("chr1", 4, 5, interval.Fwd), []float64{2}))
	a.SetSum(4e6)
	a.SetNormalize(true)

	var buf bytes.Buffer
	require.NoError(t, garray.WriteVariableStep(&buf, a, interval.Fwd, garray.TrackOpts{}))
	expect.EQ(t, buf.String(), `track type=wiggle_0
variableStep chrom=chr1 span=1
5	0.5
`)
}

// Exported variableStep output re-imports to an equal array.
func TestTrackRoundTrip(t *testing.T) {
	a := garray.NewSparse(map[string]int{"chr1": 100, "chr2": 100})
	require.NoError(t, a.Set(iv("chr1", 4, 5, interval.Fwd), []float64{2}))
	require.NoError(t, a.Set(iv("chr1", 40, 43, interval.Fwd), []float64{1, 5, 1}))
	require.NoError(t, a.Set(iv("chr2", 0, 1, interval.Fwd), []float64{0.25}))

	var buf bytes.Buffer
	require.NoError(t, garray.WriteVariableStep(&buf, a, interval.Fwd, garray.TrackOpts{}))

	b := garray.NewDense(map[string]int{"chr1": 100, "chr2": 100})
	require.NoError(t, b.AddWiggle(wiggle.NewReader(&buf), interval.Fwd))
	require.True(t, a.Equal(b, 1e-12))
}
