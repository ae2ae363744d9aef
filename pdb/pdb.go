// This is the upper level for reading PDB files.
// Decide if a file is compressed or not, and what format
// we are going to read. Then call the line reader.
// Only the old, fixed column format is read. Pocket programs write
// that format, so mmcif would only matter for the reference files.

package pdb

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andrew-torda/pocketprob/pdb/cmmn"
	"github.com/andrew-torda/pocketprob/pdb/zwrap"
	"github.com/edsrzf/mmap-go"
)

const (
	old_fmt byte = iota
	mmcif_fmt
	unk_fmt
)

// comparefirst says if two words are the same, looking at
// the length of the shorter
func comparefirst(s, t string) bool {
	l := min(len(s), len(t))
	return s[:l] == t[:l]
}

// lookInBytes guesses from the record names if we have old PDB format
// or mmcif.
func lookInBytes(fname string, data []byte) (byte, error) {
	pdbWords := []string{"HEADER", "COMPND", "SOURCE", "REMARK", "SEQRES", "HETATM", "ATOM", "MODEL"}
	mmcifWords := []string{"data_", "loop_", "_entry.id"}
	const maxTestLines = 5000
	scnnr := bufio.NewScanner(bytes.NewReader(data))
	for i := 0; scnnr.Scan() && i < maxTestLines; i++ {
		s := scnnr.Text()
		if s == "" {
			continue
		}
		for _, w := range mmcifWords {
			if comparefirst(s, w) {
				return mmcif_fmt, nil
			}
		}
		for _, w := range pdbWords {
			if comparefirst(s, w) {
				return old_fmt, nil
			}
		}
	}
	return unk_fmt, fmt.Errorf("%s: cannot recognise format", fname)
}

// oldOrMmcif decides what format we have. It trusts the file name
// first, then peeks inside.
// We cannot use the function from filepath to get the file type,
// since it will return .gz if we feed it a.pdb.gz.
func oldOrMmcif(fname string, data []byte) (byte, error) {
	s := filepath.Base(fname)
	if i := strings.IndexByte(s, '.'); i != -1 {
		s = strings.ToLower(s[i+1:]) // change .ent to ent
		switch {
		case strings.Contains(s, "pdb") || strings.Contains(s, "ent"):
			return old_fmt, nil
		case strings.Contains(s, "cif"):
			return mmcif_fmt, nil
		}
	}
	return lookInBytes(fname, data)
}

// slurp maps the file into memory. Callers must call the returned
// function when finished with the bytes.
func slurp(fname string) ([]byte, func(), error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, nil, err
	}
	fi, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, nil, err
	}
	if fi.IsDir() {
		fp.Close()
		return nil, nil, fmt.Errorf("%s is a directory", fname)
	}
	if fi.Size() == 0 {
		fp.Close()
		return nil, nil, &ReadError{Name: fname, Desc: "cannot read", Err: ErrEmpty}
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		fp.Close()
		return nil, nil, fmt.Errorf("mapping %s: %w", fname, err)
	}
	done := func() {
		mm.Unmap()
		fp.Close()
	}
	return mm, done, nil
}

// ReadStruct reads one structure file, possibly gzipped.
func ReadStruct(fname string) (*cmmn.Struct, error) {
	data, done, err := slurp(fname)
	if err != nil {
		return nil, err
	}
	defer done()
	if zwrap.IsGzip(data) { // have to look at the decompressed text
		rdr, err := zwrap.FromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fname, err)
		}
		buf, err := io.ReadAll(rdr)
		rdr.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fname, err)
		}
		data = buf
	}
	typ, err := oldOrMmcif(fname, data)
	switch {
	case err != nil:
		return nil, err
	case typ == mmcif_fmt:
		return nil, &ReadError{Name: fname, Desc: "cannot read", Err: ErrMmcif}
	}
	return Parse(fname, bytes.NewReader(data))
}

// ReadParts reads a set of files and returns them as one structure, atoms
// in the order of the files. Pocket programs which write one file per
// pocket need this.
func ReadParts(fnames ...string) (*cmmn.Struct, error) {
	if len(fnames) == 0 {
		return nil, fmt.Errorf("no files given: %w", ErrNoAtoms)
	}
	if len(fnames) == 1 {
		return ReadStruct(fnames[0])
	}
	var atoms []cmmn.Atom
	for _, f := range fnames {
		s, err := ReadStruct(f)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, s.Atoms...)
	}
	return cmmn.NewStruct(strings.Join(fnames, "+"), atoms), nil
}

// FileLoader reads structures from disk.
type FileLoader struct{}

// Load reads one or more files into one structure.
func (FileLoader) Load(fnames ...string) (*cmmn.Struct, error) {
	return ReadParts(fnames...)
}

// lineReader walks over the atom records of the first model.
type lineReader struct {
	scnnr  *bufio.Scanner
	name   string
	n      int  // line number in the file
	nModel int  // how many MODEL records seen
	done   bool // finished with the first model
}

func newLineReader(name string, r io.Reader) *lineReader {
	scnnr := bufio.NewScanner(r)
	scnnr.Buffer(make([]byte, 0, 4096), 1024*1024)
	return &lineReader{scnnr: scnnr, name: name}
}

// next returns the next line and whether it is an atom record that we
// should use.
func (lr *lineReader) next() (line string, isAtom bool, ok bool) {
	if !lr.scnnr.Scan() {
		return "", false, false
	}
	lr.n++
	line = lr.scnnr.Text()
	switch {
	case lr.done:
		return line, false, true
	case strings.HasPrefix(line, "MODEL"):
		lr.nModel++
	case strings.HasPrefix(line, "ENDMDL") && lr.nModel > 0:
		lr.done = true
	case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
		return line, true, true
	}
	return line, false, true
}

func (lr *lineReader) err() error {
	if err := lr.scnnr.Err(); err != nil {
		return &ReadError{Name: lr.name, N: lr.n, Desc: "reading", Err: err}
	}
	return nil
}

// Parse reads atom records from r. name is only used for messages.
func Parse(name string, r io.Reader) (*cmmn.Struct, error) {
	var atoms []cmmn.Atom
	lr := newLineReader(name, r)
	for {
		line, isAtom, ok := lr.next()
		if !ok {
			break
		}
		if !isAtom {
			continue
		}
		atom, err := parseAtom(line)
		if err != nil {
			return nil, &ReadError{Name: name, N: lr.n, inline: line, Desc: "bad atom record", Err: err}
		}
		atoms = append(atoms, atom)
	}
	if err := lr.err(); err != nil {
		return nil, err
	}
	s := cmmn.NewStruct(name, atoms)
	if s.NAtom() == 0 {
		return nil, &ReadError{Name: name, Desc: "reading", Err: ErrNoAtoms}
	}
	return s, nil
}

// cols returns columns start to end, counting from 1 as the PDB format
// description does, with spaces trimmed.
func cols(line string, start, end int) string {
	rs, re := start-1, end
	if rs >= len(line) || rs < 0 {
		return ""
	}
	if re > len(line) {
		re = len(line)
	}
	return strings.TrimSpace(line[rs:re])
}

// https://www.wwpdb.org/documentation/file-format-content/format33/sect9.html#ATOM
func parseAtom(line string) (cmmn.Atom, error) {
	var atom cmmn.Atom
	var err error
	const minLen = 54
	if len(line) < minLen {
		return atom, fmt.Errorf("line too short, %d characters", len(line))
	}
	atoi := func(start, end int, what string) int {
		if err != nil {
			return 0
		}
		var i int
		if i, err = strconv.Atoi(cols(line, start, end)); err != nil {
			err = fmt.Errorf("%s: %w", what, err)
		}
		return i
	}
	atof := func(start, end int, what string) float64 {
		if err != nil {
			return 0
		}
		var x float64
		if x, err = strconv.ParseFloat(cols(line, start, end), 64); err != nil {
			err = fmt.Errorf("%s: %w", what, err)
		}
		return x
	}
	atom.Het = strings.HasPrefix(line, "HETATM")
	atom.Serial = atoi(7, 11, "serial number")
	atom.Name = cols(line, 13, 16)
	atom.ResName = cols(line, 18, 20)
	atom.Chain = cols(line, 22, 22)
	atom.ResNum = atoi(23, 26, "residue number")
	atom.X = atof(31, 38, "x")
	atom.Y = atof(39, 46, "y")
	atom.Z = atof(47, 54, "z")
	atom.Element = cols(line, 77, 78)
	return atom, err
}

// Rewrite copies a structure from r to w. For each atom record that
// would have been read as an atom, bfac is called with the atom's index
// and the B-factor field is replaced by what it returns. Everything
// else goes through untouched.
func Rewrite(name string, r io.Reader, w io.Writer, bfac func(ndx int, atom *cmmn.Atom) float64) error {
	bw := bufio.NewWriter(w)
	lr := newLineReader(name, r)
	ndx := 0
	for {
		line, isAtom, ok := lr.next()
		if !ok {
			break
		}
		if isAtom {
			atom, err := parseAtom(line)
			if err != nil {
				return &ReadError{Name: name, N: lr.n, inline: line, Desc: "bad atom record", Err: err}
			}
			if !cmmn.IsSolvent(atom.ResName) {
				line = setBfac(line, bfac(ndx, &atom))
				ndx++
			}
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	if err := lr.err(); err != nil {
		return err
	}
	return bw.Flush()
}

// setBfac puts x into columns 61-66, padding short lines.
func setBfac(line string, x float64) string {
	const start, end = 60, 66
	if len(line) < end {
		line += strings.Repeat(" ", end-len(line))
	}
	return line[:start] + fmt.Sprintf("%6.2f", x) + line[end:]
}
