package report

import (
	"fmt"
	"io"
	"os"

	"github.com/andrew-torda/pocketprob/pdb"
	"github.com/andrew-torda/pocketprob/pdb/cmmn"
	"github.com/andrew-torda/pocketprob/pdb/zwrap"
)

// WriteAnnotated copies the structure in refFile to w with the
// B-factor of every atom set to 100 times its value. With perResidue,
// vals is indexed by residue number - 1 and every atom of a residue
// gets the same value. Atoms without a value get zero.
func WriteAnnotated(w io.Writer, refFile string, vals []float64, perResidue bool) error {
	fp, err := os.Open(refFile)
	if err != nil {
		return err
	}
	rdr, err := zwrap.WrapMaybe(fp)
	if err != nil {
		fp.Close()
		return fmt.Errorf("reading %s: %w", refFile, err)
	}
	defer rdr.Close()
	bfac := func(ndx int, a *cmmn.Atom) float64 {
		if perResidue {
			ndx = a.ResNum - 1
		}
		if ndx < 0 || ndx >= len(vals) {
			return 0
		}
		return 100 * vals[ndx]
	}
	return pdb.Rewrite(refFile, rdr, w, bfac)
}
