package pocketprob_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrew-torda/pocketprob/pdb/cmmn"
	"github.com/andrew-torda/pocketprob/pdb/pdbtest"
	"github.com/andrew-torda/pocketprob/pkg/config"
	"github.com/andrew-torda/pocketprob/pkg/extract"
	. "github.com/andrew-torda/pocketprob/pkg/pocketprob"
)

func wrt(t *testing.T, fname string, atoms []cmmn.Atom) {
	if err := os.MkdirAll(filepath.Dir(fname), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fname, []byte(pdbtest.Text(atoms)), 0644); err != nil {
		t.Fatal(err)
	}
}

// ensemble writes four structures of four atoms. A ligsite style probe
// sits next to atom 3 in three of them, and fpocket style pockets name
// atom 1 in all of them.
func ensemble(t *testing.T) (dir string, refs []string) {
	return ensembleIn(t, "")
}

// ensembleIn puts the ligsite files in ligDir, or with the structures
// if ligDir is empty.
func ensembleIn(t *testing.T, ligDir string) (dir string, refs []string) {
	dir = t.TempDir()
	if ligDir == "" {
		ligDir = dir
	}
	for m := 0; m < 4; m++ {
		stem := filepath.Join(dir, "model"+string(rune('1'+m)))
		var atoms []cmmn.Atom
		for i := 0; i < 4; i++ {
			atoms = append(atoms, pdbtest.At(i+1, i/2+1, 10*float64(i), 0, 0))
		}
		wrt(t, stem+".pdb", atoms)
		refs = append(refs, stem+".pdb")
		probe := pdbtest.At(1, 1, 20.5, 0, 0)
		if m == 3 {
			probe.X = 100
		}
		wrt(t, filepath.Join(ligDir, filepath.Base(stem)+".pdb_pocket_r.pdb"), []cmmn.Atom{probe})
		wrt(t, filepath.Join(stem+"_out", "pockets", "pocket1_atm.pdb"), []cmmn.Atom{atoms[0]})
	}
	return dir, refs
}

func flags(t *testing.T, dir string, progs ...string) *CmdFlag {
	cfg := &config.Config{Radius: 1, Workers: 1, LogLevel: "info", Programs: progs}
	f := DefaultFlags(cfg)
	f.OutPrefix = filepath.Join(dir, "out")
	return &f
}

func readFile(t *testing.T, fname string) string {
	b, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestMymain(t *testing.T) {
	dir, refs := ensemble(t)
	f := flags(t, dir, "ligsite,fpocket")
	f.Annotate = true
	f.Chimera = filepath.Join(dir, "out.defattr")
	f.Plot = filepath.Join(dir, "out.png")
	f.LogFile = filepath.Join(dir, "log")
	if err := Mymain(f, refs); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(dir, "out_ligsite_atom.csv")); got != "1,0\n2,0\n3,0.75\n4,0\n" {
		t.Errorf("ligsite atoms\n%s", got)
	}
	if got := readFile(t, filepath.Join(dir, "out_ligsite_res.csv")); got != "1,0\n2,0.75\n" {
		t.Errorf("ligsite residues\n%s", got)
	}
	if got := readFile(t, filepath.Join(dir, "out_ligsite_resfrac.csv")); got != "1,0\n2,0.375\n" {
		t.Errorf("ligsite residue fractions\n%s", got)
	}
	if got := readFile(t, filepath.Join(dir, "out_fpocket_atom.csv")); got != "1,1\n2,0\n3,0\n4,0\n" {
		t.Errorf("fpocket atoms\n%s", got)
	}
	sum := readFile(t, filepath.Join(dir, "out_fpocket_summary.txt"))
	for _, want := range []string{"# program fpocket", "used 4 skipped 0", "atom\tq25 0.000",
		"atom_normalised\tq25 1.000\tmedian 1.000\tq75 1.000"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary lacks %q:\n%s", want, sum)
		}
	}
	sum = readFile(t, filepath.Join(dir, "out_ligsite_summary.txt"))
	if !strings.Contains(sum, "atom_normalised\tq25 0.750\tmedian 0.750\tq75 0.750") {
		t.Errorf("ligsite summary without zeros:\n%s", sum)
	}
	for _, f := range []string{"out_ligsite_atom.pdb", "out_fpocket_res.pdb", "out_fpocket_resfrac.pdb", "out_ligsite.png", "out_fpocket.png", "out.defattr", "log"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Error(err)
		}
	}
	if att := readFile(t, f.Chimera); !strings.Contains(att, "attribute: pocket_fpocket") {
		t.Errorf("chimera file\n%s", att)
	}
	annot := readFile(t, filepath.Join(dir, "out_ligsite_atom.pdb"))
	if !strings.Contains(annot, " 75.00") {
		t.Errorf("annotated structure\n%s", annot)
	}
	annot = readFile(t, filepath.Join(dir, "out_ligsite_resfrac.pdb"))
	if strings.Count(annot, " 37.50") != 2 {
		t.Errorf("both atoms of residue 2 should have the mean fraction\n%s", annot)
	}
}

// Predictions in their own directory are found through PredDirs.
func TestPredDirs(t *testing.T) {
	ligDir := t.TempDir()
	dir, refs := ensembleIn(t, ligDir)
	var errOut bytes.Buffer
	defer SetStderr(&errOut)()
	f := flags(t, dir, "ligsite")
	if err := Mymain(f, refs); err != nil {
		t.Fatal(err)
	}
	if sum := readFile(t, filepath.Join(dir, "out_ligsite_summary.txt")); !strings.Contains(sum, "used 0 skipped 4") {
		t.Errorf("looked next to the structures, summary\n%s", sum)
	}
	f.PredDirs = map[string]string{"LIGSITE": ligDir}
	if err := Mymain(f, refs); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(dir, "out_ligsite_atom.csv")); got != "1,0\n2,0\n3,0.75\n4,0\n" {
		t.Errorf("ligsite atoms\n%s", got)
	}
}

// Forcing spatial mode on fpocket output looks at coordinates instead
// of serial numbers.
func TestMode(t *testing.T) {
	dir, refs := ensemble(t)
	f := flags(t, dir, "fpocket")
	f.Mode = ModeSpatial
	f.N = 2
	if err := Mymain(f, refs); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(dir, "out_fpocket_atom.csv")); got != "1,1\n2,0\n3,0\n4,0\n" {
		t.Errorf("got\n%s", got)
	}
	if sum := readFile(t, filepath.Join(dir, "out_fpocket_summary.txt")); !strings.Contains(sum, "# members 2 used 2") {
		t.Errorf("summary\n%s", sum)
	}
}

// A missing prediction file is reported and the member skipped. The
// error reaches stderr even with no log file.
func TestMissingPrediction(t *testing.T) {
	dir, refs := ensemble(t)
	os.Remove(filepath.Join(dir, "model2.pdb_pocket_r.pdb"))
	var errOut bytes.Buffer
	defer SetStderr(&errOut)()
	f := flags(t, dir, "ligsite")
	f.LogFile = ""
	if err := Mymain(f, refs); err != nil {
		t.Fatal(err)
	}
	msg := errOut.String()
	if !strings.Contains(msg, "error: Unable to process structure") || !strings.Contains(msg, "model2.pdb") {
		t.Errorf("stderr got %q", msg)
	}
	if strings.Contains(msg, "Reading structure") {
		t.Errorf("progress on stderr %q", msg)
	}
	sum := readFile(t, filepath.Join(dir, "out_ligsite_summary.txt"))
	if !strings.Contains(sum, "used 3 skipped 1") || !strings.Contains(sum, "errors 1") {
		t.Errorf("summary\n%s", sum)
	}
	if got := readFile(t, filepath.Join(dir, "out_ligsite_atom.csv")); got != "1,0\n2,0\n3,0.5\n4,0\n" {
		t.Errorf("got\n%s", got)
	}
}

func TestMymainErrors(t *testing.T) {
	dir, refs := ensemble(t)
	tests := []struct {
		name string
		mod  func(f *CmdFlag)
		refs []string
		want error
	}{
		{"no refs", func(*CmdFlag) {}, nil, extract.ErrEmptyEnsemble},
		{"no programs", func(f *CmdFlag) { f.Programs = nil }, refs, extract.ErrNoPrograms},
		{"too many", func(f *CmdFlag) { f.N = 5 }, refs, extract.ErrEnsembleSize},
		{"no pockets", func(f *CmdFlag) { f.Programs = []string{"fpocket"} }, append(refs[:1:1], filepath.Join(dir, "x.pdb")), extract.ErrNoPredictions},
	}
	for _, tt := range tests {
		f := flags(t, dir, "ligsite")
		tt.mod(f)
		if err := Mymain(f, tt.refs); !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v want %v", tt.name, err, tt.want)
		}
	}
	for _, mod := range []func(f *CmdFlag){
		func(f *CmdFlag) { f.Radius = 0 },
		func(f *CmdFlag) { f.Workers = 0 },
		func(f *CmdFlag) { f.Mode = "sideways" },
		func(f *CmdFlag) { f.N = -1 },
		func(f *CmdFlag) { f.OutPrefix = "" },
		func(f *CmdFlag) { f.Programs = []string{"nonsense"} },
		func(f *CmdFlag) { f.PredDirs = map[string]string{"nonsense": dir} },
	} {
		f := flags(t, dir, "ligsite")
		mod(f)
		if err := Mymain(f, refs); err == nil {
			t.Errorf("no error with %+v", f)
		}
	}
}
