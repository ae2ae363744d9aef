package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrNoPrograms    = errors.New("no prediction programs given")
	ErrNoPredictions = errors.New("no prediction files found")
)

// Program is one of the pocket prediction programs we know about.
type Program uint8

const (
	Fpocket Program = iota
	Pass
	Ligsite
	Ghecom
)

var programNames = [...]string{"fpocket", "pass", "ligsite", "ghecom"}

func (p Program) String() string {
	if int(p) < len(programNames) {
		return programNames[p]
	}
	return fmt.Sprintf("Program(%d)", p)
}

// ParseProgram is case insensitive.
func ParseProgram(s string) (Program, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range programNames {
		if s == name {
			return Program(i), nil
		}
	}
	return 0, fmt.Errorf("unknown prediction program %q, want one of %s",
		s, strings.Join(programNames[:], ", "))
}

// ParsePrograms takes names, each of which may be a comma separated
// list, and returns the programs in order of first appearance.
func ParsePrograms(names []string) ([]Program, error) {
	var ret []Program
	for _, n := range names {
		for _, s := range strings.Split(n, ",") {
			if strings.TrimSpace(s) == "" {
				continue
			}
			p, err := ParseProgram(s)
			if err != nil {
				return nil, err
			}
			if !slices.Contains(ret, p) {
				ret = append(ret, p)
			}
		}
	}
	if len(ret) == 0 {
		return nil, ErrNoPrograms
	}
	return ret, nil
}

// Kind says if a program writes one file per structure or one per pocket.
type Kind uint8

const (
	SingleFile Kind = iota
	MultiFile
)

// Tool is the configuration of one prediction program.
// In Pattern, {stem} is replaced by the reference file name without
// directory or extension. The result is relative to Dir or, if Dir is
// empty, to the reference's directory.
type Tool struct {
	Program Program
	Name    string
	Pattern string
	Direct  bool // prediction lists the lining atoms by serial number
	Kind    Kind
	Dir     string // where the program wrote its files
}

const stemKey = "{stem}"

// NewTool returns the configuration for p.
func NewTool(p Program) Tool {
	t := Tool{Program: p, Name: p.String(), Kind: SingleFile}
	switch p {
	case Fpocket:
		t.Pattern = stemKey + "_out/pockets/pocket*_atm.pdb"
		t.Direct = true
		t.Kind = MultiFile
	case Pass:
		t.Pattern = stemKey + "_probes.pdb"
	case Ligsite:
		t.Pattern = stemKey + ".pdb_pocket_r.pdb"
	case Ghecom:
		t.Pattern = stemKey + "_ghecom.pdb"
	}
	return t
}

// stem removes the directory and extensions, including a trailing .gz,
// so dir/1abc.pdb.gz gives 1abc.
func stem(path string) string {
	s := filepath.Base(path)
	s = strings.TrimSuffix(s, ".gz")
	return strings.TrimSuffix(s, filepath.Ext(s))
}

// Resolve gives the prediction files belonging to the reference file
// ref. For a single file tool, the file may not exist yet. For a multi
// file tool, we look on disk and sort by pocket number.
func (t Tool) Resolve(ref string) ([]string, error) {
	dir := t.Dir
	if dir == "" {
		dir = filepath.Dir(ref)
	}
	path := filepath.Join(dir, strings.ReplaceAll(t.Pattern, stemKey, stem(ref)))
	if t.Kind == SingleFile {
		return []string{path}, nil
	}
	matches, err := filepath.Glob(path)
	if err != nil {
		return nil, fmt.Errorf("%s pattern %s: %w", t.Name, path, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%s for %s, looked for %s: %w", t.Name, ref, path, ErrNoPredictions)
	}
	slices.SortFunc(matches, func(a, b string) int {
		na, nb := firstNumber(filepath.Base(a)), firstNumber(filepath.Base(b))
		if na != nb {
			return na - nb
		}
		return strings.Compare(a, b)
	})
	return matches, nil
}

// firstNumber returns the first run of digits in s, or -1.
func firstNumber(s string) int {
	n, found := 0, false
	for _, c := range s {
		if c >= '0' && c <= '9' {
			n = 10*n + int(c-'0')
			found = true
		} else if found {
			break
		}
	}
	if !found {
		return -1
	}
	return n
}

// PredSetFor finds the prediction files of tool t for each reference.
func PredSetFor(t Tool, refs []string) (*PredSet, error) {
	members := make([][]string, len(refs))
	for i, r := range refs {
		var err error
		if members[i], err = t.Resolve(r); err != nil {
			return nil, err
		}
	}
	if t.Kind == MultiFile {
		return NewMulti(members)
	}
	single := make([]string, len(members))
	for i, m := range members {
		single[i] = m[0]
	}
	return NewSingle(single)
}
