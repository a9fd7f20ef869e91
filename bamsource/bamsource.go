// Package bamsource provides indexed, fetch-by-region access to alignment
// records in coordinate-sorted BAM files.  It is the record supplier for
// garray's on-demand arrays: a Source hands out the alignments overlapping a
// genomic window plus the index metadata (reference lengths, mapped-read
// counts) needed for array shaping and normalization.
package bamsource

import (
	"fmt"
	"io"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/bgzf"
	"github.com/grailbio/hts/bgzf/index"
	"github.com/grailbio/hts/sam"
	"v.io/x/lib/vlog"
)

// Source is an indexed alignment source.
type Source interface {
	// Fetch returns the records overlapping the zero-based half-open range
	// [start, end) on chrom, in coordinate order.  An unknown chromosome
	// yields no records and no error.
	Fetch(chrom string, start, end int) ([]*sam.Record, error)

	// References returns the (reference name, length) pairs declared by the
	// source.
	References() (map[string]int, error)

	// MappedReads returns the total number of mapped records in the source,
	// independent of any filtering applied downstream.
	MappedReads() (int64, error)

	// Close releases underlying file handles.  It must be called exactly once.
	Close() error
}

// BAM is a Source backed by a coordinate-sorted BAM file and its .bai index.
// Both paths may be local or S3.  Construction never touches the filesystem;
// a missing or stale index surfaces at the first Fetch or MappedReads call.
// Thread safe: concurrent Fetch calls use pooled readers.
type BAM struct {
	path      string
	indexPath string
	err       errors.Once

	mu          sync.Mutex
	header      *sam.Header
	index       *bam.Index
	freeReaders []*bamReader
	nActive     int
	closed      bool
}

type bamReader struct {
	in     file.File
	reader *bam.Reader
}

// New returns a BAM source for path.  indexPath may be empty, in which case
// path + ".bai" is used.
func New(path string, indexPath string) *BAM {
	if indexPath == "" {
		indexPath = path + ".bai"
	}
	return &BAM{path: path, indexPath: indexPath}
}

// Path returns the BAM path the source was created with.
func (b *BAM) Path() string { return b.path }

// Header returns the BAM header, reading it on first use.
func (b *BAM) Header() (*sam.Header, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.headerLocked()
}

func (b *BAM) headerLocked() (*sam.Header, error) {
	if b.header != nil {
		return b.header, nil
	}
	ctx := vcontext.Background()
	in, err := file.Open(ctx, b.path)
	if err != nil {
		b.err.Set(err)
		return nil, err
	}
	defer in.Close(ctx) // nolint: errcheck
	r, err := bam.NewReader(in.Reader(ctx), 1)
	if err != nil {
		b.err.Set(err)
		return nil, err
	}
	defer r.Close() // nolint: errcheck
	b.header = r.Header()
	return b.header, nil
}

func (b *BAM) indexLocked() (*bam.Index, error) {
	if b.index != nil {
		return b.index, nil
	}
	ctx := vcontext.Background()
	in, err := file.Open(ctx, b.indexPath)
	if err != nil {
		err = errors.E(err, fmt.Sprintf("%s: BAM file must be sorted and indexed", b.path))
		b.err.Set(err)
		return nil, err
	}
	defer in.Close(ctx) // nolint: errcheck
	idx, err := bam.ReadIndex(in.Reader(ctx))
	if err != nil {
		err = errors.E(err, fmt.Sprintf("%s: corrupt BAM index", b.indexPath))
		b.err.Set(err)
		return nil, err
	}
	b.index = idx
	return idx, nil
}

// References implements Source.
func (b *BAM) References() (map[string]int, error) {
	header, err := b.Header()
	if err != nil {
		return nil, err
	}
	refs := make(map[string]int, len(header.Refs()))
	for _, ref := range header.Refs() {
		refs[ref.Name()] = ref.Len()
	}
	return refs, nil
}

// MappedReads implements Source.  The count comes from the index metadata and
// covers every mapped record in the file.
func (b *BAM) MappedReads() (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx, err := b.indexLocked()
	if err != nil {
		return 0, err
	}
	var n int64
	for id := 0; id < idx.NumRefs(); id++ {
		if stats, ok := idx.ReferenceStats(id); ok {
			n += int64(stats.Mapped)
		}
	}
	return n, nil
}

// Fetch implements Source.
func (b *BAM) Fetch(chrom string, start, end int) ([]*sam.Record, error) {
	if start < 0 || end < start {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("fetch %s:%d-%d: want 0 <= start <= end", chrom, start, end))
	}
	b.mu.Lock()
	header, err := b.headerLocked()
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}
	idx, err := b.indexLocked()
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}
	b.mu.Unlock()

	ref, ok := refByName(header, chrom)
	if !ok {
		return nil, nil
	}
	if end > ref.Len() {
		end = ref.Len()
	}
	if start >= end {
		return nil, nil
	}
	chunks, err := idx.Chunks(ref, start, end)
	if err == index.ErrInvalid || len(chunks) == 0 {
		// No reads indexed for this window.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	br, err := b.allocateReader()
	if err != nil {
		return nil, err
	}
	recs, err := scanRegion(br.reader, chunks[0].Begin, ref, start, end)
	b.freeReader(br, err)
	return recs, err
}

// scanRegion seeks to offset and collects records on ref overlapping
// [start, end).  Chunk granularity means the first records seen may lie
// before start; they are skipped, and the scan stops at the first record at
// or beyond end.
func scanRegion(r *bam.Reader, offset bgzf.Offset, ref *sam.Reference, start, end int) ([]*sam.Record, error) {
	if err := r.Seek(offset); err != nil {
		return nil, err
	}
	var recs []*sam.Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return recs, nil
		}
		if err != nil {
			return recs, err
		}
		if rec.Ref == nil || rec.Ref.ID() != ref.ID() || rec.Pos >= end {
			return recs, nil
		}
		if rec.End() > start {
			recs = append(recs, rec)
		}
	}
}

func refByName(header *sam.Header, chrom string) (*sam.Reference, bool) {
	for _, ref := range header.Refs() {
		if ref.Name() == chrom {
			return ref, true
		}
	}
	return nil, false
}

// allocateReader returns a pooled reader, opening a new one when the pool is
// empty.
func (b *BAM) allocateReader() (*bamReader, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		vlog.Fatalf("Fetch on closed source %s", b.path)
	}
	b.nActive++
	if n := len(b.freeReaders); n > 0 {
		br := b.freeReaders[n-1]
		b.freeReaders = b.freeReaders[:n-1]
		b.mu.Unlock()
		return br, nil
	}
	b.mu.Unlock()

	ctx := vcontext.Background()
	in, err := file.Open(ctx, b.path)
	if err != nil {
		b.release(err)
		return nil, err
	}
	reader, err := bam.NewReader(in.Reader(ctx), 1)
	if err != nil {
		in.Close(ctx) // nolint: errcheck
		b.release(err)
		return nil, err
	}
	return &bamReader{in: in, reader: reader}, nil
}

func (b *BAM) freeReader(br *bamReader, err error) {
	if err != nil {
		// The reader may be mid-stream in an undefined state. Don't reuse it.
		br.close(b)
	}
	b.mu.Lock()
	if err == nil {
		b.freeReaders = append(b.freeReaders, br)
	}
	b.nActive--
	if b.nActive < 0 {
		vlog.Fatalf("negative active reader count for %s", b.path)
	}
	b.mu.Unlock()
}

func (b *BAM) release(err error) {
	b.err.Set(err)
	b.mu.Lock()
	b.nActive--
	b.mu.Unlock()
}

func (br *bamReader) close(b *BAM) {
	if err := br.reader.Close(); err != nil {
		b.err.Set(err)
	}
	if err := br.in.Close(vcontext.Background()); err != nil {
		b.err.Set(err)
	}
}

// Close implements Source.  It must be called exactly once, after all Fetch
// calls have returned.
func (b *BAM) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return errors.E(errors.Invalid, fmt.Sprintf("%s: Close called twice", b.path))
	}
	if b.nActive > 0 {
		vlog.Fatalf("%d fetches still active for %s", b.nActive, b.path)
	}
	b.closed = true
	readers := b.freeReaders
	b.freeReaders = nil
	b.mu.Unlock()
	for _, br := range readers {
		br.close(b)
	}
	return b.err.Err()
}
