package extract

import "github.com/andrew-torda/pocketprob/pkg/pocket"

// Accum sums classifications over the members of an ensemble. Its
// size comes from the first member and never changes. Residue r is in
// slot r-1.
type Accum struct {
	Atom    []float64 // times each atom was lining
	Res     []float64 // times each residue had a lining atom
	ResFrac []float64 // sum of the lining fraction of each residue
	NMember int       // members added
	Skipped int       // members that could not be processed
}

// NewAccum is sized for nAtom atoms and residues 1 to maxRes.
func NewAccum(nAtom, maxRes int) *Accum {
	return &Accum{
		Atom:    make([]float64, nAtom),
		Res:     make([]float64, maxRes),
		ResFrac: make([]float64, maxRes),
	}
}

// row is one member's result cut to the size of the accumulator.
// Hits are 0 or 1.
type row struct {
	atom, res []float32
	frac      []float64
}

// fill copies a classification into r. Anything past the end of the
// accumulator belongs to a bigger member and is dropped.
func (r row) fill(res *pocket.Result) {
	clear(r.atom)
	clear(r.res)
	clear(r.frac)
	for i := range min(len(r.atom), len(res.Atom)) {
		if res.Atom[i] {
			r.atom[i] = 1
		}
	}
	for i := range min(len(r.res), len(res.Res)) {
		if res.Res[i] {
			r.res[i] = 1
		}
	}
	copy(r.frac, res.ResFrac)
}

// add puts one member's row into the totals.
func (a *Accum) add(r row) {
	for i, x := range r.atom {
		a.Atom[i] += float64(x)
	}
	for i, x := range r.res {
		a.Res[i] += float64(x)
	}
	for i, x := range r.frac {
		a.ResFrac[i] += x
	}
	a.NMember++
}

// Add accumulates one member's classification. The finder's result has
// a spare slot past the last residue, which is never counted.
func (a *Accum) Add(res *pocket.Result) {
	r := row{
		atom: make([]float32, len(a.Atom)),
		res:  make([]float32, len(a.Res)),
		frac: make([]float64, len(a.ResFrac)),
	}
	r.fill(res)
	a.add(r)
}
