package wiggle

import (
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// OpenReader opens a wiggle/bedGraph file at a local or S3 path, with
// transparent gzip decompression for .gz files.  The returned closer must be
// closed exactly once after the Reader is drained.
func OpenReader(path string) (*Reader, io.Closer, error) {
	ctx := vcontext.Background()
	infile, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	reader := io.Reader(infile.Reader(ctx))
	c := &fileCloser{f: infile}
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		gz, err := gzip.NewReader(reader)
		if err != nil {
			_ = c.Close()
			return nil, nil, err
		}
		c.gz = gz
		reader = gz
	}
	return NewReader(reader), c, nil
}

type fileCloser struct {
	f  file.File
	gz *gzip.Reader
}

func (c *fileCloser) Close() error {
	var err error
	if c.gz != nil {
		err = c.gz.Close()
	}
	if cerr := c.f.Close(vcontext.Background()); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
