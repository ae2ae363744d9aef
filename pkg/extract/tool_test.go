package extract_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/andrew-torda/pocketprob/pkg/extract"
	"github.com/andrew-torda/pocketprob/pkg/pocket"
	"github.com/google/go-cmp/cmp"
)

func TestNewTool(t *testing.T) {
	tests := []struct {
		p       Program
		pattern string
		direct  bool
		kind    Kind
	}{
		{Fpocket, "{stem}_out/pockets/pocket*_atm.pdb", true, MultiFile},
		{Pass, "{stem}_probes.pdb", false, SingleFile},
		{Ligsite, "{stem}.pdb_pocket_r.pdb", false, SingleFile},
		{Ghecom, "{stem}_ghecom.pdb", false, SingleFile},
	}
	for _, tt := range tests {
		tool := NewTool(tt.p)
		if tool.Pattern != tt.pattern || tool.Direct != tt.direct || tool.Kind != tt.kind {
			t.Errorf("%v: got %+v", tt.p, tool)
		}
		if p, err := ParseProgram(tool.Name); err != nil || p != tt.p {
			t.Errorf("name %q does not parse back, %v", tool.Name, err)
		}
	}
}

func TestParsePrograms(t *testing.T) {
	got, err := ParsePrograms([]string{"pass,FPOCKET", " ligsite ", "pass"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Program{Pass, Fpocket, Ligsite}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	for _, in := range [][]string{nil, {""}, {",,"}} {
		if _, err := ParsePrograms(in); !errors.Is(err, ErrNoPrograms) {
			t.Errorf("%q: got %v", in, err)
		}
	}
	if _, err := ParsePrograms([]string{"pass,nonsense"}); err == nil {
		t.Error("unknown program accepted")
	}
	if s := Program(99).String(); s != "Program(99)" {
		t.Errorf("got %s", s)
	}
}

func touch(t *testing.T, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "1abc.pdb.gz")
	got, err := NewTool(Pass).Resolve(ref)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{filepath.Join(dir, "1abc_probes.pdb")}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	pockets := filepath.Join(dir, "1abc_out", "pockets")
	for _, f := range []string{"pocket10_atm.pdb", "pocket2_atm.pdb", "pocket1_atm.pdb", "pocket1_vert.pqr"} {
		touch(t, filepath.Join(pockets, f))
	}
	got, err = NewTool(Fpocket).Resolve(ref)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(pockets, "pocket1_atm.pdb"),
		filepath.Join(pockets, "pocket2_atm.pdb"),
		filepath.Join(pockets, "pocket10_atm.pdb"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fpocket files (-want +got):\n%s", diff)
	}
	if _, err := NewTool(Fpocket).Resolve(filepath.Join(dir, "2xyz.pdb")); !errors.Is(err, ErrNoPredictions) {
		t.Errorf("no pockets, got %v", err)
	}
}

// Predictions kept away from the references.
func TestResolveDir(t *testing.T) {
	refDir, predDir := t.TempDir(), t.TempDir()
	ref := filepath.Join(refDir, "7.pdb")
	lig := NewTool(Ligsite)
	lig.Dir = predDir
	got, err := lig.Resolve(ref)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{filepath.Join(predDir, "7.pdb_pocket_r.pdb")}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	fp := NewTool(Fpocket)
	fp.Dir = predDir
	if _, err := fp.Resolve(ref); !errors.Is(err, ErrNoPredictions) {
		t.Errorf("no pockets yet, got %v", err)
	}
	touch(t, filepath.Join(predDir, "7_out", "pockets", "pocket1_atm.pdb"))
	touch(t, filepath.Join(refDir, "7_out", "pockets", "pocket2_atm.pdb"))
	got, err = fp.Resolve(ref)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{filepath.Join(predDir, "7_out", "pockets", "pocket1_atm.pdb")}, got); diff != "" {
		t.Errorf("looked next to the reference (-want +got):\n%s", diff)
	}
}

func TestPredSetFor(t *testing.T) {
	dir := t.TempDir()
	refs := []string{filepath.Join(dir, "a.pdb"), filepath.Join(dir, "b.pdb")}
	ps, err := PredSetFor(NewTool(Ghecom), refs)
	if err != nil {
		t.Fatal(err)
	}
	if ps.IsMulti() || ps.Len() != 2 || ps.Files(1)[0] != filepath.Join(dir, "b_ghecom.pdb") {
		t.Errorf("got %v %d %v", ps.IsMulti(), ps.Len(), ps.Files(1))
	}
	touch(t, filepath.Join(dir, "a_out", "pockets", "pocket1_atm.pdb"))
	if _, err := PredSetFor(NewTool(Fpocket), refs); !errors.Is(err, ErrNoPredictions) {
		t.Errorf("b has no pockets, got %v", err)
	}
	touch(t, filepath.Join(dir, "b_out", "pockets", "pocket1_atm.pdb"))
	touch(t, filepath.Join(dir, "b_out", "pockets", "pocket2_atm.pdb"))
	if ps, err = PredSetFor(NewTool(Fpocket), refs); err != nil {
		t.Fatal(err)
	}
	if !ps.IsMulti() || len(ps.Files(0)) != 1 || len(ps.Files(1)) != 2 {
		t.Errorf("got %v %v", ps.Files(0), ps.Files(1))
	}
}

func TestPredSet(t *testing.T) {
	if _, err := NewSingle([]string{"a", ""}); !errors.Is(err, ErrBadPredSet) {
		t.Errorf("empty name, got %v", err)
	}
	if _, err := NewMulti([][]string{{"a"}, {}}); !errors.Is(err, ErrBadPredSet) {
		t.Errorf("member without files, got %v", err)
	}
	if _, err := NewMulti([][]string{{"a", ""}}); !errors.Is(err, ErrBadPredSet) {
		t.Errorf("empty name, got %v", err)
	}
	in := [][]string{{"a", "b"}}
	ps, err := NewMulti(in)
	if err != nil {
		t.Fatal(err)
	}
	in[0][0] = "changed"
	if ps.Files(0)[0] != "a" {
		t.Error("prediction set shares the caller's slice")
	}
}

func TestAccum(t *testing.T) {
	acc := NewAccum(3, 2)
	big := &pocket.Result{
		Atom:    []bool{true, false, true, true},
		Res:     []bool{true, true, true, false},
		ResFrac: []float64{0.5, 1, 1, 0},
	}
	acc.Add(big)
	acc.Add(&pocket.Result{Atom: []bool{true}, Res: []bool{true}, ResFrac: []float64{0.25}})
	want := &Accum{
		Atom:    []float64{2, 0, 1},
		Res:     []float64{2, 1},
		ResFrac: []float64{0.75, 1},
		NMember: 2,
	}
	if diff := cmp.Diff(want, acc); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
