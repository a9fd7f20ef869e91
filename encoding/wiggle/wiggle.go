// Package wiggle parses fixedStep wiggle, variableStep wiggle, and bedGraph
// files into (chromosome, start, end, value) tuples.  fixedStep and
// variableStep coordinates are one-based in the file and are converted to
// zero-based half-open intervals on the way out; bedGraph lines are already
// zero-based half-open and pass through unchanged.
//
// See the UCSC file format FAQ, http://genome.ucsc.edu/FAQ/FAQformat.html.
package wiggle

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Entry is one data record, in zero-based half-open coordinates.
type Entry struct {
	Chrom string
	Start int
	End   int
	Value float64
}

// Reader reads wiggle and bedGraph data line by line.  Track and data-section
// header lines are consumed internally; Next only ever returns data entries.
type Reader struct {
	scanner *bufio.Scanner
	lineno  int

	// Data-section state, reset at each fixedStep/variableStep header.
	format string // "bedGraph", "variableStep" or "fixedStep"
	chrom  string
	step   int
	span   int
	pos    int // next fixedStep position, 1-based
}

// NewReader returns a Reader consuming r.
func NewReader(r io.Reader) *Reader {
	w := &Reader{scanner: bufio.NewScanner(r)}
	w.reset()
	return w
}

func (w *Reader) reset() {
	w.format = "bedGraph"
	w.chrom = ""
	w.step = 1
	w.span = 1
	w.pos = 1
}

// Next returns the next data entry, or io.EOF after the last one.
func (w *Reader) Next() (Entry, error) {
	for w.scanner.Scan() {
		w.lineno++
		line := strings.TrimSpace(w.scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		switch {
		case fields[0] == "track":
			// Track definition lines carry only display metadata.
			continue
		case fields[0] == "variableStep" || fields[0] == "fixedStep":
			if err := w.startSection(fields); err != nil {
				return Entry{}, err
			}
			continue
		case len(fields) == 4:
			return w.bedGraphEntry(fields)
		default:
			return w.dataEntry(line, fields)
		}
	}
	if err := w.scanner.Err(); err != nil {
		return Entry{}, err
	}
	return Entry{}, io.EOF
}

// startSection parses a variableStep/fixedStep declaration line.
func (w *Reader) startSection(fields []string) error {
	w.reset()
	w.format = fields[0]
	for _, item := range fields[1:] {
		if strings.HasPrefix(item, "description") {
			break
		}
		kv := strings.SplitN(item, "=", 2)
		if len(kv) != 2 {
			continue
		}
		var err error
		switch kv[0] {
		case "chrom":
			w.chrom = kv[1]
		case "span":
			w.span, err = strconv.Atoi(kv[1])
		case "step":
			w.step, err = strconv.Atoi(kv[1])
		case "start":
			w.pos, err = strconv.Atoi(kv[1])
		}
		if err != nil {
			return errors.Wrapf(err, "wiggle: line %d: bad %s header field %q", w.lineno, w.format, item)
		}
	}
	if w.chrom == "" {
		return errors.Errorf("wiggle: line %d: %s header missing chrom", w.lineno, w.format)
	}
	if w.format == "fixedStep" && w.pos < 1 {
		return errors.Errorf("wiggle: line %d: fixedStep start must be >= 1", w.lineno)
	}
	return nil
}

func (w *Reader) bedGraphEntry(fields []string) (Entry, error) {
	w.reset()
	start, err := strconv.Atoi(fields[1])
	if err != nil {
		return Entry{}, errors.Wrapf(err, "wiggle: line %d: bad bedGraph start", w.lineno)
	}
	end, err := strconv.Atoi(fields[2])
	if err != nil {
		return Entry{}, errors.Wrapf(err, "wiggle: line %d: bad bedGraph end", w.lineno)
	}
	val, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "wiggle: line %d: bad bedGraph value", w.lineno)
	}
	return Entry{Chrom: fields[0], Start: start, End: end, Value: val}, nil
}

func (w *Reader) dataEntry(line string, fields []string) (Entry, error) {
	switch w.format {
	case "variableStep":
		if len(fields) != 2 {
			return Entry{}, errors.Errorf("wiggle: line %d: want 2 variableStep fields, got %d", w.lineno, len(fields))
		}
		pos, err := strconv.Atoi(fields[0])
		if err != nil {
			return Entry{}, errors.Wrapf(err, "wiggle: line %d: bad variableStep position", w.lineno)
		}
		val, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return Entry{}, errors.Wrapf(err, "wiggle: line %d: bad variableStep value", w.lineno)
		}
		start := pos - 1 // 1-based -> 0-based
		return Entry{Chrom: w.chrom, Start: start, End: start + w.span, Value: val}, nil
	case "fixedStep":
		val, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return Entry{}, errors.Wrapf(err, "wiggle: line %d: bad fixedStep value", w.lineno)
		}
		start := w.pos - 1 // 1-based -> 0-based
		w.pos += w.step
		return Entry{Chrom: w.chrom, Start: start, End: start + w.span, Value: val}, nil
	}
	return Entry{}, errors.Errorf("wiggle: line %d: data line before any header: %q", w.lineno, line)
}
