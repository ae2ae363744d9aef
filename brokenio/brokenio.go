// brokenio is a wrapper around an io.ReadCloser that breaks on demand.
// Typical use: You get a file pointer or a reader from a compressed
// source. You write
// reader = brokenio.NewReader(reader) to wrap the old reader. Everything
// then functions as before until the reader has delivered the number
// of bytes set by SetFailAfter. After that, reads return an error.
// Failures are at fixed places, so tests give the same answer every
// time.

package brokenio

import (
	"errors"
	"fmt"
	"io"
)

var ErrBroken = errors.New("brokenio: read failure")

// A BrknRdrClsr is modelled on the various Readers in the standard
// library, but fails where we tell it to.
// If verbose is true, print out the amount of data when the file is closed.
type BrknRdrClsr struct {
	rdr_orig  io.ReadCloser // Wrapped reader
	failAfter int           // bytes to deliver before failing, -1 for never
	fracTrash float32       // fraction of the failing read to zero
	zeroFile  bool          // first read gives EOF, like an empty file
	failErr   error
	nCalled   int
	nByte     int
	verbose   bool
}

// NewReader returns a new Reader - a wrapper around the old one.
// It does not fail until told to.
func NewReader(rIn io.ReadCloser) *BrknRdrClsr {
	return &BrknRdrClsr{rdr_orig: rIn, failAfter: -1, failErr: ErrBroken}
}

// SetVerbose sets the verbosity flag to true or false
func (r *BrknRdrClsr) SetVerbose(newV bool) { r.verbose = newV }

// SetFailAfter makes reads fail once n bytes have been delivered.
// A negative n means never.
func (r *BrknRdrClsr) SetFailAfter(n int) { r.failAfter = n }

// SetFracTrash sets how much of the read that hits the failure point
// is wiped out. With 0, the read is cut short at the failure point.
func (r *BrknRdrClsr) SetFracTrash(frac float32) { r.fracTrash = frac }

// SetZeroFile makes the first read return nothing, which is what one
// often sees with a zero length file.
func (r *BrknRdrClsr) SetZeroFile(b bool) { r.zeroFile = b }

// SetErr changes the error returned on failure.
func (r *BrknRdrClsr) SetErr(err error) { r.failErr = err }

// trashSlice wipes out the second part of a slice.
// The amount to wipe out is given by a fraction, so 0.3
// will wipe out the second 30 % of a slice
func trashSlice(p []byte, frac float32) int {
	nkeep := int(float32(len(p)) * (1. - frac))
	clear(p[nkeep:])
	return nkeep
}

// Read wraps the original reader and sums up the amount of data that
// has gone through.
func (r *BrknRdrClsr) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.nCalled == 0 && r.zeroFile {
		r.nCalled++
		return 0, io.EOF
	}
	r.nCalled++
	if r.failAfter < 0 {
		n, err = r.rdr_orig.Read(p)
		r.nByte += n
		return n, err
	}
	left := r.failAfter - r.nByte
	if left <= 0 {
		return 0, r.failErr
	}
	if len(p) <= left {
		n, err = r.rdr_orig.Read(p)
		r.nByte += n
		return n, err
	}
	n, err = r.rdr_orig.Read(p[:left])
	r.nByte += n
	if n < left { // short read, failure point not reached yet
		return n, err
	}
	return trashSlice(p[:n], r.fracTrash), r.failErr
}

// Close wraps the original Close method.
func (r *BrknRdrClsr) Close() error {
	if r.verbose {
		fmt.Println("Closing", r.nCalled, "calls and", r.nByte, "bytes")
	}
	return r.rdr_orig.Close()
}
