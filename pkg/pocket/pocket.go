// Package pocket decides which atoms and residues of a reference
// structure line a predicted pocket. Either the prediction lists the
// lining atoms by serial number (direct) or we look for reference atoms
// close to any prediction atom (spatial).
package pocket

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/andrew-torda/pocketprob/pdb/cmmn"
	"github.com/andrew-torda/pocketprob/pdb/geom"
)

var ErrRadius = errors.New("radius must be positive and finite")

// StructError says which structure and atom made classification
// impossible. The underlying error is usually a *geom.CoordError.
type StructError struct {
	Name  string // structure name
	Index int    // atom index in that structure
	Err   error
}

func (e *StructError) Error() string {
	return fmt.Sprintf("structure %s atom %d: %v", e.Name, e.Index, e.Err)
}

func (e *StructError) Unwrap() error { return e.Err }

// Result holds the classification of one reference structure.
// Residue r lives in slot r-1. The residue slices have one slot more
// than there are residues and the extra one is never set.
type Result struct {
	Atom    []bool    // per atom, is it pocket lining
	Res     []bool    // per residue, does it have a lining atom
	ResFrac []float64 // per residue, fraction of its atoms lining
}

func newResult(nAtom, maxRes int) *Result {
	return &Result{
		Atom:    make([]bool, nAtom),
		Res:     make([]bool, maxRes+1),
		ResFrac: make([]float64, maxRes+1),
	}
}

// Lining returns the indices of atoms classified as lining.
func Lining(res *Result) []int {
	var ret []int
	for i, b := range res.Atom {
		if b {
			ret = append(ret, i)
		}
	}
	return ret
}

// Find classifies every atom of ref against the prediction pred.
// In direct mode, radius is ignored.
func Find(ref, pred *cmmn.Struct, radius float64, direct bool) (*Result, error) {
	var isLining func(i int) (bool, error)
	if direct {
		isLining = serialMatcher(ref, pred)
	} else {
		if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
			return nil, fmt.Errorf("%w, got %g", ErrRadius, radius)
		}
		var err error
		if isLining, err = nearMatcher(ref, pred, radius); err != nil {
			return nil, err
		}
	}

	maxRes := ref.MaxRes()
	res := newResult(ref.NAtom(), maxRes)
	byRes := ref.ResidueIndex() // only residues 1..maxRes appear here
	for r, atoms := range byRes {
		nLining := 0
		for _, i := range atoms {
			if !res.Atom[i] {
				b, err := isLining(i)
				if err != nil {
					return nil, &StructError{Name: ref.Name, Index: i, Err: err}
				}
				res.Atom[i] = b
			}
			if res.Atom[i] {
				nLining++
			}
		}
		if nLining > 0 {
			res.Res[r] = true
			res.ResFrac[r] = float64(nLining) / float64(len(atoms))
		}
	}
	return res, nil
}

// serialMatcher says if a reference atom's serial number is among the
// prediction's serial numbers.
func serialMatcher(ref, pred *cmmn.Struct) func(int) (bool, error) {
	serials := pred.Serials()
	slices.Sort(serials)
	return func(i int) (bool, error) {
		_, found := slices.BinarySearch(serials, ref.Atoms[i].Serial)
		return found, nil
	}
}

// nearMatcher says if a reference atom is closer than radius to any
// prediction atom. Prediction atoms are sorted on x, so we only walk
// the slab around the reference atom and box test the other two axes
// before calculating a distance.
func nearMatcher(ref, pred *cmmn.Struct, radius float64) (func(int) (bool, error), error) {
	xyz := pred.Coords()
	for i := range xyz {
		if err := geom.Check(xyz[i]); err != nil {
			return nil, &StructError{Name: pred.Name, Index: i, Err: err}
		}
	}
	sort.Slice(xyz, func(i, j int) bool { return xyz[i].X < xyz[j].X })
	half := geom.HalfBox(radius)
	return func(i int) (bool, error) {
		p := ref.Atoms[i].Xyz
		if err := geom.Check(p); err != nil {
			return false, err
		}
		lo := sort.Search(len(xyz), func(j int) bool { return xyz[j].X >= p.X-half })
		for j := lo; j < len(xyz) && xyz[j].X <= p.X+half; j++ {
			if !geom.InBox(p, xyz[j], half) {
				continue
			}
			d, err := geom.Dist(p, xyz[j])
			if err != nil {
				return false, err
			}
			if d < radius {
				return true, nil
			}
		}
		return false, nil
	}, nil
}
