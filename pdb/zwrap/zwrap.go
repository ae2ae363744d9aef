// Package zwrap takes a file pointer or a byte slice and, if the data
// is gzipped, wraps it so reads come from the decompressor. Closing the
// wrapper closes the decompressor, followed by the underlying file.
// We decide by looking at the gzip magic bytes, not the file name,
// since prediction programs are not careful about names.

package zwrap

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
)

var magic = []byte{0x1f, 0x8b}

type FpGzip struct { // This is what we return.
	fp   io.Closer
	rdr  io.Reader
	zrdr *gzip.Reader
}

// IsGzip looks at the first bytes of b.
func IsGzip(b []byte) bool {
	return bytes.HasPrefix(b, magic)
}

// Close closes the decompressor, then the underlying backing readCloser.
func (fc *FpGzip) Close() error {
	var errs []error
	if fc.zrdr != nil {
		errs = append(errs, fc.zrdr.Close())
	}
	if fc.fp != nil {
		errs = append(errs, fc.fp.Close())
	}
	return errors.Join(errs...)
}

// Read makes sure we read from the decompressed stream if there is one.
func (fc *FpGzip) Read(p []byte) (int, error) {
	if fc.zrdr != nil {
		return fc.zrdr.Read(p)
	}
	return fc.rdr.Read(p)
}

// WrapMaybe peeks at the start of fp and only puts a decompressor in
// front if the magic bytes are there. Nothing needs to seek.
func WrapMaybe(fp io.ReadCloser) (*FpGzip, error) {
	br := bufio.NewReader(fp)
	head, err := br.Peek(len(magic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	fc := &FpGzip{fp: fp, rdr: br}
	if IsGzip(head) {
		if fc.zrdr, err = gzip.NewReader(br); err != nil {
			return nil, err
		}
	}
	return fc, nil
}

// FromBytes does the same for data already in memory, such as a
// mapped file. There is nothing to close, but we return the same type
// so callers can treat both alike.
func FromBytes(b []byte) (*FpGzip, error) {
	fc := &FpGzip{rdr: bytes.NewReader(b)}
	if IsGzip(b) {
		var err error
		if fc.zrdr, err = gzip.NewReader(fc.rdr); err != nil {
			return nil, err
		}
	}
	return fc, nil
}
