package garray

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/tsv"
	"github.com/ribolab/garray/interval"
)

// defaultWindowSize is the number of positions fetched per Get while
// streaming a whole genome, bounding memory for on-demand arrays.
const defaultWindowSize = 100 * 1000

// TrackOpts configures browser track export.
type TrackOpts struct {
	// Name becomes the track's name attribute.
	Name string
	// Attrs are extra track-line attributes, written sorted by key.
	Attrs map[string]string
	// WindowSize caps the positions fetched per query.  Zero selects the
	// default of 100000.
	WindowSize int
}

func (o TrackOpts) window() int {
	if o.WindowSize > 0 {
		return o.WindowSize
	}
	return defaultWindowSize
}

func (o TrackOpts) header(trackType string) string {
	var b strings.Builder
	b.WriteString("track type=")
	b.WriteString(trackType)
	if o.Name != "" {
		b.WriteString(" name=")
		b.WriteString(o.Name)
	}
	keys := make([]string, 0, len(o.Attrs))
	for k := range o.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(o.Attrs[k])
	}
	return b.String()
}

// formatFloat renders a value for track output.  Integral values keep a
// trailing ".0" so that re-importing reproduces the written text.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !math.IsInf(v, 0) && !math.IsNaN(v) {
		s += ".0"
	}
	return s
}

// WriteVariableStep exports one strand of g as variableStep wiggle.  Every
// chromosome gets a declaration line even when it holds no nonzero values;
// positions are one-based, one per line, zeros omitted.  Values reflect g's
// normalization state.
func WriteVariableStep(w io.Writer, g GenomeArray, strand interval.Strand, opts TrackOpts) error {
	tw := tsv.NewWriter(w)
	tw.WriteString(opts.header("wiggle_0"))
	if err := tw.EndLine(); err != nil {
		return err
	}
	lengths := g.Lengths()
	window := opts.window()
	for _, chrom := range g.Chroms() {
		tw.WriteString("variableStep chrom=" + chrom + " span=1")
		if err := tw.EndLine(); err != nil {
			return err
		}
		length := lengths[chrom]
		for start := 0; start < length; start += window {
			end := start + window
			if end > length {
				end = length
			}
			vec, err := g.Get(interval.Interval{Chrom: chrom, Start: start, End: end, Strand: strand})
			if err != nil {
				return err
			}
			for i, v := range vec {
				if v == 0 {
					continue
				}
				tw.WriteUint32(uint32(start + i + 1)) // 1-based in wiggle text
				tw.WriteString(formatFloat(v))
				if err := tw.EndLine(); err != nil {
					return err
				}
			}
		}
	}
	return tw.Flush()
}

// WriteBedGraph exports one strand of g as bedGraph, collapsing adjacent
// equal nonzero values into runs.  Runs never cross a fetch window, so a
// constant region longer than the window emits several lines.  Coordinates
// are zero-based half-open; values reflect g's normalization state.
func WriteBedGraph(w io.Writer, g GenomeArray, strand interval.Strand, opts TrackOpts) error {
	tw := tsv.NewWriter(w)
	tw.WriteString(opts.header("bedGraph"))
	if err := tw.EndLine(); err != nil {
		return err
	}
	lengths := g.Lengths()
	window := opts.window()
	for _, chrom := range g.Chroms() {
		length := lengths[chrom]
		for start := 0; start < length; start += window {
			end := start + window
			if end > length {
				end = length
			}
			vec, err := g.Get(interval.Interval{Chrom: chrom, Start: start, End: end, Strand: strand})
			if err != nil {
				return err
			}
			if err := writeRuns(tw, chrom, start, vec); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}

// writeRuns emits the maximal equal-value runs of vec, offset to genome
// coordinates, skipping zero runs.
func writeRuns(tw *tsv.Writer, chrom string, offset int, vec []float64) error {
	for i := 0; i < len(vec); {
		j := i + 1
		for j < len(vec) && vec[j] == vec[i] {
			j++
		}
		if vec[i] != 0 {
			tw.WriteString(chrom)
			tw.WriteUint32(uint32(offset + i))
			tw.WriteUint32(uint32(offset + j))
			tw.WriteString(formatFloat(vec[i]))
			if err := tw.EndLine(); err != nil {
				return err
			}
		}
		i = j
	}
	return nil
}
