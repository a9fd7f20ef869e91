package garray

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
	"github.com/ribolab/garray/interval"
)

// Filter reports whether an alignment should be included in count output.
type Filter func(*sam.Record) bool

// FilterChain is an ordered, named set of filters combined by logical AND.
// Queries evaluate the strand gate first, then each filter in insertion
// order, short-circuiting per alignment.  Mutations take effect on the next
// query; nothing is cached across queries.
type FilterChain struct {
	names   []string
	filters map[string]Filter
}

// NewFilterChain returns an empty chain.
func NewFilterChain() *FilterChain {
	return &FilterChain{filters: make(map[string]Filter)}
}

// Add registers f under name.  Re-adding a name replaces the filter but
// keeps its original evaluation position.
func (c *FilterChain) Add(name string, f Filter) {
	if _, ok := c.filters[name]; !ok {
		c.names = append(c.names, name)
	}
	c.filters[name] = f
}

// Remove deletes and returns the filter registered under name.
func (c *FilterChain) Remove(name string) (Filter, error) {
	f, ok := c.filters[name]
	if !ok {
		return nil, errors.E(errors.NotExist, fmt.Sprintf("no filter named %q", name))
	}
	delete(c.filters, name)
	for i, n := range c.names {
		if n == name {
			c.names = append(c.names[:i], c.names[i+1:]...)
			break
		}
	}
	return f, nil
}

// Names returns the registered filter names in evaluation order.
func (c *FilterChain) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// apply returns the reads passing the strand gate and every registered
// filter.  An unstranded query strand admits both strands.
func (c *FilterChain) apply(reads []*sam.Record, strand interval.Strand) []*sam.Record {
	out := reads[:0:0]
reads:
	for _, read := range reads {
		switch strand {
		case interval.Fwd:
			if read.Flags&sam.Reverse != 0 {
				continue
			}
		case interval.Rev:
			if read.Flags&sam.Reverse == 0 {
				continue
			}
		}
		for _, name := range c.names {
			if !c.filters[name](read) {
				continue reads
			}
		}
		out = append(out, read)
	}
	return out
}

// SizeFilter returns a filter passing alignments whose aligned length lies
// in [min, max].  max <= 0 means no upper bound.
func SizeFilter(min, max int) Filter {
	return func(r *sam.Record) bool {
		n := len(alignedPositions(r))
		if n < min {
			return false
		}
		return max <= 0 || n <= max
	}
}
