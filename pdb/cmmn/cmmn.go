// Package pdb/cmmn has common definitions for coordinates, atoms and
// the read-only view of one structure that everything downstream of the
// reader works with.
package cmmn

import (
	"math"
	"strings"
)

type Xyz struct{ X, Y, Z float64 }
type XyzSl []Xyz // xyz's are coordinates

// BrokenXyz is what the reader stores when it could not make sense of
// a coordinate. It is not finite, so Ok() says false.
var BrokenXyz = Xyz{math.Inf(1), 0, math.Inf(-1)}

// Ok is true if all three components are finite numbers.
func (xyz *Xyz) Ok() bool {
	for _, x := range [3]float64{xyz.X, xyz.Y, xyz.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Atom is one ATOM or HETATM record. Residue numbers are whatever the
// file says, so they may have gaps and may repeat across chains.
type Atom struct {
	Xyz
	Serial  int    // atom serial number from the file
	Name    string // atom name, like "CA"
	Element string
	ResName string // three letter residue name
	ResNum  int    // residue sequence number, 1-based
	Chain   string
	Het     bool // came from a HETATM record
}

// solvent residue names. Atoms from these never get into a Struct.
var solvent = map[string]bool{
	"HOH": true, "WAT": true, "DOD": true, "H2O": true,
	"SOL": true, "TIP": true, "TIP3": true,
}

// IsSolvent says if a residue name is water.
func IsSolvent(resName string) bool {
	return solvent[strings.ToUpper(strings.TrimSpace(resName))]
}

// Struct is the view of one structure. Build it with NewStruct and
// do not change it afterwards.
type Struct struct {
	Name   string // usually the file name
	Atoms  []Atom
	maxRes int
}

// NewStruct throws away solvent atoms and works out the highest
// residue number.
func NewStruct(name string, atoms []Atom) *Struct {
	s := &Struct{Name: name, Atoms: make([]Atom, 0, len(atoms))}
	for _, a := range atoms {
		if IsSolvent(a.ResName) {
			continue
		}
		s.Atoms = append(s.Atoms, a)
		if a.ResNum > s.maxRes {
			s.maxRes = a.ResNum
		}
	}
	return s
}

// NAtom is the number of (non-solvent) atoms.
func (s *Struct) NAtom() int { return len(s.Atoms) }

// MaxRes is the highest residue number seen.
func (s *Struct) MaxRes() int { return s.maxRes }

// Coords returns the coordinates in atom order.
func (s *Struct) Coords() XyzSl {
	ret := make(XyzSl, len(s.Atoms))
	for i := range s.Atoms {
		ret[i] = s.Atoms[i].Xyz
	}
	return ret
}

// Serials returns the atom serial numbers in atom order.
func (s *Struct) Serials() []int {
	ret := make([]int, len(s.Atoms))
	for i := range s.Atoms {
		ret[i] = s.Atoms[i].Serial
	}
	return ret
}

// ResidueIndex groups atom indices by residue number. Slot r-1 has the
// atoms of residue r, from all chains. Atoms whose residue number is
// not in [1, MaxRes] are in no slot.
func (s *Struct) ResidueIndex() [][]int {
	ndx := make([][]int, s.maxRes)
	for i, a := range s.Atoms {
		if a.ResNum < 1 || a.ResNum > s.maxRes {
			continue
		}
		ndx[a.ResNum-1] = append(ndx[a.ResNum-1], i)
	}
	return ndx
}
