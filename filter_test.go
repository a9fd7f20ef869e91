package garray

import (
	"testing"

	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil/expect"
	"github.com/ribolab/garray/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readNames(reads []*sam.Record) []string {
	out := make([]string, len(reads))
	for i, r := range reads {
		out[i] = r.Name
	}
	return out
}

func TestFilterChainStrandGate(t *testing.T) {
	ref := testRef(t, "chr1")
	fwd := testRead("fwd", ref, 100, false, cig(sam.CigarMatch, 10))
	rev := testRead("rev", ref, 100, true, cig(sam.CigarMatch, 10))
	reads := []*sam.Record{fwd, rev}

	chain := NewFilterChain()
	expect.EQ(t, readNames(chain.apply(reads, interval.Fwd)), []string{"fwd"})
	expect.EQ(t, readNames(chain.apply(reads, interval.Rev)), []string{"rev"})
	expect.EQ(t, readNames(chain.apply(reads, interval.None)), []string{"fwd", "rev"})
}

func TestFilterChainOrderAndMutation(t *testing.T) {
	ref := testRef(t, "chr1")
	reads := []*sam.Record{
		testRead("a", ref, 100, false, cig(sam.CigarMatch, 10)),
		testRead("b", ref, 200, false, cig(sam.CigarMatch, 20)),
		testRead("c", ref, 300, false, cig(sam.CigarMatch, 30)),
	}

	chain := NewFilterChain()
	chain.Add("short", func(r *sam.Record) bool { return r.End()-r.Pos < 25 })
	chain.Add("late", func(r *sam.Record) bool { return r.Pos >= 150 })
	expect.EQ(t, chain.Names(), []string{"short", "late"})
	expect.EQ(t, readNames(chain.apply(reads, interval.Fwd)), []string{"b"})

	// Re-adding replaces the filter but keeps its position.
	chain.Add("short", func(r *sam.Record) bool { return true })
	expect.EQ(t, chain.Names(), []string{"short", "late"})
	expect.EQ(t, readNames(chain.apply(reads, interval.Fwd)), []string{"b", "c"})

	removed, err := chain.Remove("late")
	require.NoError(t, err)
	assert.NotNil(t, removed)
	expect.EQ(t, chain.Names(), []string{"short"})
	expect.EQ(t, readNames(chain.apply(reads, interval.Fwd)), []string{"a", "b", "c"})

	_, err = chain.Remove("late")
	assert.Error(t, err)
}

func TestSizeFilter(t *testing.T) {
	ref := testRef(t, "chr1")
	// 20 query bases but only 10 aligned; the filter sees aligned length.
	clipped := testRead("clipped", ref, 100, false, cig(sam.CigarSoftClipped, 10), cig(sam.CigarMatch, 10))

	assert.True(t, SizeFilter(10, 10)(clipped))
	assert.False(t, SizeFilter(11, 0)(clipped))
	assert.False(t, SizeFilter(0, 9)(clipped))
	assert.True(t, SizeFilter(0, 0)(clipped))
}
