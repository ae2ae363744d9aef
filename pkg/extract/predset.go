package extract

import (
	"errors"
	"fmt"
	"slices"
)

var ErrBadPredSet = errors.New("bad prediction set")

// PredSet has the prediction files for each member of an ensemble.
// Either every member has one file, or, for programs that write a file
// per pocket, each member has a list. Which one is fixed when the set
// is built.
type PredSet struct {
	files [][]string
	multi bool
}

// NewSingle makes a set with one file per member.
func NewSingle(fnames []string) (*PredSet, error) {
	p := &PredSet{files: make([][]string, len(fnames))}
	for i, f := range fnames {
		if f == "" {
			return nil, fmt.Errorf("%w: member %d has an empty file name", ErrBadPredSet, i+1)
		}
		p.files[i] = []string{f}
	}
	return p, nil
}

// NewMulti makes a set where each member has one or more files.
func NewMulti(members [][]string) (*PredSet, error) {
	p := &PredSet{files: make([][]string, len(members)), multi: true}
	for i, m := range members {
		if len(m) == 0 {
			return nil, fmt.Errorf("%w: member %d has no files", ErrBadPredSet, i+1)
		}
		if slices.Contains(m, "") {
			return nil, fmt.Errorf("%w: member %d has an empty file name", ErrBadPredSet, i+1)
		}
		p.files[i] = slices.Clone(m)
	}
	return p, nil
}

func (p *PredSet) IsMulti() bool { return p.multi }
func (p *PredSet) Len() int      { return len(p.files) }

// Files returns the files of member i. Do not change them.
func (p *PredSet) Files(i int) []string { return p.files[i] }
