// Package pdbtest builds small structure files for tests. The pocket,
// extract and report tests all need a handful of atoms written in
// proper fixed column format.
package pdbtest

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/andrew-torda/pocketprob/pdb/cmmn"
	"github.com/andrew-torda/pocketprob/pkg/common"
)

// AtomLine formats one atom record. Occupancy is 1 and the B-factor 0.
func AtomLine(a cmmn.Atom) string {
	rec := "ATOM"
	if a.Het {
		rec = "HETATM"
	}
	name := a.Name
	if len(name) < 4 {
		name = " " + name
	}
	return fmt.Sprintf("%-6s%5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s",
		rec, a.Serial, name, a.ResName, a.Chain, a.ResNum, a.X, a.Y, a.Z, 1.0, 0.0, a.Element)
}

// Text returns atoms as the body of a PDB file with a header and END.
func Text(atoms []cmmn.Atom) string {
	var b strings.Builder
	b.WriteString("HEADER    TEST STRUCTURE\n")
	for _, a := range atoms {
		b.WriteString(AtomLine(a))
		b.WriteByte('\n')
	}
	b.WriteString("END\n")
	return b.String()
}

// At makes an atom at x, y, z with the given serial and residue number.
// The rest is filled in with something plausible.
func At(serial, resNum int, x, y, z float64) cmmn.Atom {
	return cmmn.Atom{
		Xyz:     cmmn.Xyz{X: x, Y: y, Z: z},
		Serial:  serial,
		Name:    "CA",
		Element: "C",
		ResName: "ALA",
		ResNum:  resNum,
		Chain:   "A",
	}
}

// Tempfile writes the atoms to a temporary ".pdb" file and returns its
// name. The file is removed when the test finishes.
func Tempfile(t testing.TB, atoms []cmmn.Atom) string {
	t.Helper()
	fname, err := common.WrtTempPattern(Text(atoms), "_del_me_testing*.pdb")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(fname) })
	return fname
}
