// An error implementation that saves the file name, line number and
// the line we were trying to read.
package pdb

import (
	"errors"
	"strconv"
)

const maxMsgLen = 70

var (
	ErrNoAtoms = errors.New("no atoms found")
	ErrMmcif   = errors.New("mmcif format is not supported, convert to pdb format")
	ErrEmpty   = errors.New("zero length file")
)

// ReadError is returned when a line cannot be parsed.
type ReadError struct {
	Name   string // file name
	N      int    // line number
	inline string // The line that provoked the error
	Desc   string // Description of error
	Err    error  // underlying error, if any
}

func firstPart(s string) string {
	l := len(s)
	if l > maxMsgLen {
		l = maxMsgLen
	}
	return s[:l]
}

// Error puts together the name, line number and the start of the
// offending line.
func (e *ReadError) Error() string {
	errmsg := e.Name
	if e.N != 0 {
		errmsg += " line " + strconv.Itoa(e.N)
	}
	errmsg += ": " + e.Desc
	if e.Err != nil {
		errmsg += ": " + e.Err.Error()
	}
	if e.inline != "" {
		errmsg += "\nLine starting with\n" + firstPart(e.inline)
	}
	return errmsg
}

func (e *ReadError) Unwrap() error { return e.Err }
