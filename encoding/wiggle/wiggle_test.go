package wiggle_test

import (
	"io"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/ribolab/garray/encoding/wiggle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, text string) []wiggle.Entry {
	r := wiggle.NewReader(strings.NewReader(text))
	var out []wiggle.Entry
	for {
		e, err := r.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, e)
	}
}

func TestVariableStep(t *testing.T) {
	entries := readAll(t, `track type=wiggle_0 name=test
variableStep chrom=chr1
5	2.0
8	3.5
`)
	expect.EQ(t, entries, []wiggle.Entry{
		{Chrom: "chr1", Start: 4, End: 5, Value: 2},
		{Chrom: "chr1", Start: 7, End: 8, Value: 3.5},
	})
}

func TestVariableStepSpan(t *testing.T) {
	entries := readAll(t, `variableStep chrom=chrII span=3
10	1.5
`)
	expect.EQ(t, entries, []wiggle.Entry{
		{Chrom: "chrII", Start: 9, End: 12, Value: 1.5},
	})
}

func TestFixedStep(t *testing.T) {
	entries := readAll(t, `fixedStep chrom=chr2 start=10 step=5 span=2
1.0
2.0
`)
	expect.EQ(t, entries, []wiggle.Entry{
		{Chrom: "chr2", Start: 9, End: 11, Value: 1},
		{Chrom: "chr2", Start: 14, End: 16, Value: 2},
	})
}

func TestBedGraph(t *testing.T) {
	entries := readAll(t, `# a comment
track type=bedGraph

chr3	10	13	1.0
chr3	20	21	-2.5
`)
	expect.EQ(t, entries, []wiggle.Entry{
		{Chrom: "chr3", Start: 10, End: 13, Value: 1},
		{Chrom: "chr3", Start: 20, End: 21, Value: -2.5},
	})
}

// Each section header resets the chromosome, span, and position state of
// the previous one.
func TestMixedSections(t *testing.T) {
	entries := readAll(t, `variableStep chrom=chr1 span=4
3	1.0
fixedStep chrom=chr2 start=1
7.0
variableStep chrom=chr3
9	2.0
`)
	expect.EQ(t, entries, []wiggle.Entry{
		{Chrom: "chr1", Start: 2, End: 6, Value: 1},
		{Chrom: "chr2", Start: 0, End: 1, Value: 7},
		{Chrom: "chr3", Start: 8, End: 9, Value: 2},
	})
}

func TestHeaderWithDescription(t *testing.T) {
	entries := readAll(t, `fixedStep chrom=chr1 start=4 description="step=100 nonsense"
1.0
`)
	expect.EQ(t, entries, []wiggle.Entry{
		{Chrom: "chr1", Start: 3, End: 4, Value: 1},
	})
}

func TestErrors(t *testing.T) {
	for _, tc := range []struct {
		name, text string
	}{
		{"missing chrom", "variableStep span=2\n3\t1.0\n"},
		{"bad fixedStep start", "fixedStep chrom=chr1 start=0\n1.0\n"},
		{"non-numeric header field", "fixedStep chrom=chr1 start=x\n1.0\n"},
		{"orphan data line", "3\t1.0\n"},
		{"bad variableStep position", "variableStep chrom=chr1\nx\t1.0\n"},
		{"bad variableStep value", "variableStep chrom=chr1\n3\tx\n"},
		{"bad fixedStep value", "fixedStep chrom=chr1 start=1\nx\n"},
		{"bad bedGraph coordinate", "chr1\tx\t13\t1.0\n"},
		{"bad bedGraph value", "chr1\t10\t13\tx\n"},
	} {
		r := wiggle.NewReader(strings.NewReader(tc.text))
		var err error
		for err == nil {
			_, err = r.Next()
		}
		assert.NotEqual(t, io.EOF, err, tc.name)
	}
}
