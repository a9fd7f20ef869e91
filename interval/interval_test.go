package interval_test

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/ribolab/garray/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	iv, err := interval.New("chr1", 10, 20, interval.Fwd)
	require.NoError(t, err)
	expect.EQ(t, iv.Len(), 10)
	expect.EQ(t, iv.String(), "chr1:10-20(+)")
	assert.True(t, iv.Contains(10))
	assert.True(t, iv.Contains(19))
	assert.False(t, iv.Contains(9))
	assert.False(t, iv.Contains(20))
}

func TestCheck(t *testing.T) {
	_, err := interval.New("chr1", -1, 5, interval.Fwd)
	assert.Error(t, err)
	_, err = interval.New("chr1", 5, 4, interval.Fwd)
	assert.Error(t, err)
	_, err = interval.New("chr1", 0, 5, interval.Strand('x'))
	assert.Error(t, err)
	iv, err := interval.New("chr1", 7, 7, interval.None)
	require.NoError(t, err)
	expect.EQ(t, iv.Len(), 0)
}

func TestParseStrand(t *testing.T) {
	for _, sym := range []string{"+", "-", "."} {
		s, err := interval.ParseStrand(sym)
		require.NoError(t, err)
		expect.EQ(t, s.String(), sym)
		assert.True(t, s.Valid())
	}
	for _, sym := range []string{"", "x", "+-"} {
		_, err := interval.ParseStrand(sym)
		assert.Error(t, err, "strand %q", sym)
	}
}
