package main

/*
garray-track converts read alignments in sorted, indexed BAM files into a
genome browser track, counting each alignment at the position chosen by the
configured mapping rule.
*/

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/ribolab/garray"
	"github.com/ribolab/garray/bamsource"
	"github.com/ribolab/garray/interval"
)

var (
	mapping   = flag.String("mapping", "fiveprime", "Mapping rule; 'fiveprime', 'threeprime', 'center' or 'variable'")
	offset    = flag.Int("offset", 0, "Offset into each read for the fiveprime/threeprime rules, in nt")
	nibble    = flag.Int("nibble", 0, "Bases trimmed from each read end for the center rule, in nt")
	offsets   = flag.String("offsets", "", "Per-length offsets for the variable rule, e.g. '26:12,27:13,default:14'")
	minLength = flag.Int("min-length", 0, "Reads aligning over fewer nt are skipped")
	maxLength = flag.Int("max-length", 0, "Reads aligning over more nt are skipped; 0 = unbounded")
	format    = flag.String("format", "wiggle", "Output format; 'wiggle' (variableStep) or 'bedgraph'")
	strand    = flag.String("strand", "+", "Strand to export; '+', '-' or '.'")
	name      = flag.String("name", "", "Track name attribute")
	normalize = flag.Bool("normalize", false, "Report reads per million mapped instead of raw counts")
	window    = flag.Int("window", 0, "Positions fetched per query; 0 = 100000")
	outPath   = flag.String("out", "-", "Output path; '-' = stdout")
)

func usage() {
	fmt.Printf("Usage: %s [OPTIONS] bampath...\n", os.Args[0])
	fmt.Printf("Options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() == 0 {
		log.Fatalf("At least one bampath argument required; run with -help for usage")
	}
	mapFn, err := makeMapFunc()
	if err != nil {
		log.Fatalf("Configuring -mapping %s: %v", *mapping, err)
	}
	exportStrand, err := interval.ParseStrand(*strand)
	if err != nil {
		log.Fatalf("Parsing -strand: %v", err)
	}

	sources := make([]bamsource.Source, 0, flag.NArg())
	for _, path := range flag.Args() {
		sources = append(sources, bamsource.New(path, ""))
	}
	arr, err := garray.NewBAMArray(sources...)
	if err != nil {
		log.Fatalf("Opening alignments: %v", err)
	}
	defer func() {
		if err := arr.Close(); err != nil {
			log.Error.Printf("Closing alignments: %v", err)
		}
	}()
	arr.SetMapping(mapFn)
	if *minLength > 0 || *maxLength > 0 {
		arr.AddFilter("size", garray.SizeFilter(*minLength, *maxLength))
	}
	arr.SetNormalize(*normalize)

	out := os.Stdout
	if *outPath != "-" {
		out, err = os.Create(*outPath)
		if err != nil {
			log.Fatalf("Creating %s: %v", *outPath, err)
		}
		defer func() {
			if err := out.Close(); err != nil {
				log.Error.Printf("Closing %s: %v", *outPath, err)
			}
		}()
	}
	opts := garray.TrackOpts{Name: *name, WindowSize: *window}
	switch *format {
	case "wiggle":
		err = garray.WriteVariableStep(out, arr, exportStrand, opts)
	case "bedgraph":
		err = garray.WriteBedGraph(out, arr, exportStrand, opts)
	default:
		log.Fatalf("Unknown -format %q; want 'wiggle' or 'bedgraph'", *format)
	}
	if err != nil {
		log.Fatalf("Writing track: %v", err)
	}
}

func makeMapFunc() (garray.MapFunc, error) {
	switch *mapping {
	case "fiveprime":
		return garray.FivePrimeMap(*offset)
	case "threeprime":
		return garray.ThreePrimeMap(*offset)
	case "center":
		return garray.NibbleMap(*nibble)
	case "variable":
		table, err := parseOffsetTable(*offsets)
		if err != nil {
			return nil, err
		}
		return garray.VariableFivePrimeMap(table)
	}
	return nil, fmt.Errorf("unknown rule %q; want 'fiveprime', 'threeprime', 'center' or 'variable'", *mapping)
}

// parseOffsetTable parses the -offsets syntax: comma-separated length:offset
// pairs, where length is a read length in nt or the literal "default".
func parseOffsetTable(s string) (garray.OffsetTable, error) {
	table := garray.OffsetTable{Offsets: make(map[int]int)}
	if s == "" {
		return table, fmt.Errorf("-offsets required for the variable rule")
	}
	for _, item := range strings.Split(s, ",") {
		kv := strings.SplitN(item, ":", 2)
		if len(kv) != 2 {
			return table, fmt.Errorf("bad -offsets entry %q; want length:offset", item)
		}
		off, err := strconv.Atoi(kv[1])
		if err != nil {
			return table, fmt.Errorf("bad offset in -offsets entry %q: %v", item, err)
		}
		if kv[0] == "default" {
			table.Default = off
			table.HasDefault = true
			continue
		}
		length, err := strconv.Atoi(kv[0])
		if err != nil {
			return table, fmt.Errorf("bad read length in -offsets entry %q: %v", item, err)
		}
		table.Offsets[length] = off
	}
	return table, nil
}
