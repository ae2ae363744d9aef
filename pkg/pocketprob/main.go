// 16 Oct 2026
package pocketprob

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andrew-torda/pocketprob/pdb"
	"github.com/andrew-torda/pocketprob/pkg/config"
	"github.com/andrew-torda/pocketprob/pkg/extract"
	"github.com/andrew-torda/pocketprob/pkg/notify"
	"github.com/andrew-torda/pocketprob/pkg/prob"
	"github.com/andrew-torda/pocketprob/pkg/report"
	"github.com/google/uuid"
)

// Ways of choosing between direct and spatial classification.
const (
	ModeTool    = "tool" // whatever the program normally needs
	ModeDirect  = "direct"
	ModeSpatial = "spatial"
)

type CmdFlag struct {
	Programs  []string // prediction programs, names may be comma separated
	Radius    float64  // distance for spatial classification
	N         int      // ensemble size, 0 means all reference files
	Mode      string   // ModeTool, ModeDirect or ModeSpatial
	OutPrefix string   // start of output file names
	Chimera   string   // write chimera attribute file
	Plot      string   // write a png plot of residue probabilities
	Annotate  bool     // write reference structure with probabilities as B-factors
	Workers   int      // members classified in parallel
	LogFile   string   // "" means no logging
	LogLevel  string
	PredDirs  map[string]string // program name to where its files are
	Time      bool              // do we want to print out run time ?
}

// stderr gets warnings and errors whatever the logging settings.
var stderr io.Writer = os.Stderr

// DefaultFlags fills flags from the environment, so command line flags
// only have to override.
func DefaultFlags(cfg *config.Config) CmdFlag {
	return CmdFlag{
		Programs:  cfg.Programs,
		Radius:    cfg.Radius,
		Mode:      ModeTool,
		OutPrefix: "pocketprob",
		Workers:   cfg.Workers,
		LogFile:   cfg.LogFile,
		LogLevel:  cfg.LogLevel,
		PredDirs:  maps.Clone(cfg.PredDirs),
	}
}

// check looks at the flags before anything is read.
func (flags *CmdFlag) check() error {
	cfg := config.Config{Radius: flags.Radius, Workers: flags.Workers}
	if err := cfg.Validate(); err != nil {
		return err
	}
	switch flags.Mode {
	case ModeTool, ModeDirect, ModeSpatial:
	default:
		return fmt.Errorf("mode must be %s, %s or %s, got %q", ModeTool, ModeDirect, ModeSpatial, flags.Mode)
	}
	if flags.N < 0 {
		return fmt.Errorf("ensemble size %d is negative", flags.N)
	}
	if flags.OutPrefix == "" {
		return errors.New("empty output prefix")
	}
	for name := range flags.PredDirs {
		if _, err := extract.ParseProgram(name); err != nil {
			return fmt.Errorf("prediction directory: %w", err)
		}
	}
	return nil
}

// predDir is where prog's files are, "" for next to the references.
func (flags *CmdFlag) predDir(prog extract.Program) string {
	for name, dir := range flags.PredDirs {
		if p, err := extract.ParseProgram(name); err == nil && p == prog {
			return dir
		}
	}
	return ""
}

// nonzero leaves out atoms that were never lining.
func nonzero(counts []float64) []float64 {
	var ret []float64
	for _, c := range counts {
		if c != 0 {
			ret = append(ret, c)
		}
	}
	return ret
}

// result is what one program's run gives us.
type result struct {
	prog        extract.Program
	acc         *extract.Accum
	atom, res   *prob.Calc
	frac        *prob.Calc
	atomNorm    *prob.Calc // atoms lining at least once
	nWarn, nErr int
}

// writeFile creates fname and calls wrt on it.
func writeFile(fname string, wrt func(w io.Writer) error) error {
	fp, err := report.Create(fname)
	if err != nil {
		return err
	}
	if err := wrt(fp); err != nil {
		fp.Close()
		return fmt.Errorf("writing %s: %w", fname, err)
	}
	return fp.Close()
}

// perProgram puts the program name into fname if there is more than
// one program, so each gets its own file.
func perProgram(fname string, prog extract.Program, nProg int) string {
	if nProg == 1 || fname == "-" {
		return fname
	}
	ext := filepath.Ext(fname)
	return strings.TrimSuffix(fname, ext) + "_" + prog.String() + ext
}

// runOne does the whole ensemble for one program.
func runOne(flags *CmdFlag, prog extract.Program, refs []string, n int, hub *notify.Hub) (*result, error) {
	tool := extract.NewTool(prog)
	tool.Dir = flags.predDir(prog)
	direct := tool.Direct
	switch flags.Mode {
	case ModeDirect:
		direct = true
	case ModeSpatial:
		direct = false
	}
	preds, err := extract.PredSetFor(tool, refs[:min(n, len(refs))])
	if err != nil {
		return nil, err
	}
	rec := &notify.Recorder{}
	h := hub.Register(rec)
	defer hub.Unregister(h)
	ext := &extract.Extractor{
		Loader:  pdb.FileLoader{},
		Hub:     hub,
		Radius:  flags.Radius,
		Direct:  direct,
		Workers: flags.Workers,
	}
	acc, err := ext.Run(refs, preds, n)
	if err != nil {
		return nil, err
	}
	return &result{
		prog:     prog,
		acc:      acc,
		atom:     prob.New(acc.Atom, n),
		res:      prob.New(acc.Res, n),
		frac:     prob.New(acc.ResFrac, n),
		atomNorm: prob.New(nonzero(acc.Atom), n),
		nWarn:    rec.Count(notify.Warning),
		nErr:     rec.Count(notify.Error),
	}, nil
}

// writeSummary writes the run details and the quantiles of each kind
// of probability.
func writeSummary(w io.Writer, runID string, flags *CmdFlag, n int, r *result) error {
	_, err := fmt.Fprintf(w, "# run %s\n# program %s\n# members %d used %d skipped %d\n# warnings %d errors %d\n# radius %g\n",
		runID, r.prog, n, r.acc.NMember, r.acc.Skipped, r.nWarn, r.nErr, flags.Radius)
	if err != nil {
		return err
	}
	for _, x := range []struct {
		label string
		c     *prob.Calc
	}{{"atom", r.atom}, {"atom_normalised", r.atomNorm}, {"residue", r.res}, {"residue_fraction", r.frac}} {
		q25, q50, q75 := x.c.Quantiles()
		if err := report.WriteSummary(w, x.label, q25, q50, q75); err != nil {
			return err
		}
	}
	return nil
}

// writeResults writes all the files for one program.
func writeResults(flags *CmdFlag, runID string, refs []string, n, nProg int, r *result) error {
	base := flags.OutPrefix + "_" + r.prog.String()
	for _, f := range []struct {
		suffix string
		vals   []float64
	}{{"_atom.csv", r.atom.Probs()}, {"_res.csv", r.res.Probs()}, {"_resfrac.csv", r.frac.Probs()}} {
		if err := writeFile(base+f.suffix, func(w io.Writer) error { return report.WriteProbs(w, f.vals) }); err != nil {
			return err
		}
	}
	err := writeFile(base+"_summary.txt", func(w io.Writer) error { return writeSummary(w, runID, flags, n, r) })
	if err != nil {
		return err
	}
	if flags.Annotate {
		annot := []struct {
			suffix     string
			vals       []float64
			perResidue bool
		}{{"_atom.pdb", r.atom.Probs(), false}, {"_res.pdb", r.res.Probs(), true}, {"_resfrac.pdb", r.frac.Probs(), true}}
		for _, a := range annot {
			wrt := func(w io.Writer) error { return report.WriteAnnotated(w, refs[0], a.vals, a.perResidue) }
			if err := writeFile(base+a.suffix, wrt); err != nil {
				return err
			}
		}
	}
	if flags.Plot != "" {
		title := fmt.Sprintf("%s, %d structures, residue probability", r.prog, n)
		wrt := func(w io.Writer) error { return report.WritePlot(w, r.res.Probs(), title) }
		if err := writeFile(perProgram(flags.Plot, r.prog, nProg), wrt); err != nil {
			return err
		}
	}
	return nil
}

// writeChimera puts the residue probabilities of every program into
// one attribute file.
func writeChimera(fname string, results []*result) error {
	return writeFile(fname, func(w io.Writer) error {
		for _, r := range results {
			if err := report.WriteChimera(w, "pocket_"+r.prog.String(), r.res.Probs()); err != nil {
				return err
			}
			if err := report.WriteChimera(w, "pocketfrac_"+r.prog.String(), r.frac.Probs()); err != nil {
				return err
			}
		}
		return nil
	})
}

// Mymain runs every requested prediction program over the ensemble
// given by refs and writes the probabilities.
func Mymain(flags *CmdFlag, refs []string) (err error) {
	if flags.Time {
		startTime := time.Now()
		end := func() { // Wrapping in a closure is helpful. Gives the right time.
			fmt.Println("finished after", time.Since(startTime).Milliseconds(), "ms")
		}
		defer end()
	}
	if err := flags.check(); err != nil {
		return err
	}
	if len(refs) == 0 {
		return fmt.Errorf("no reference structures: %w", extract.ErrEmptyEnsemble)
	}
	progs, err := extract.ParsePrograms(flags.Programs)
	if err != nil {
		return err
	}
	n := flags.N
	if n == 0 {
		n = len(refs)
	}

	logger, err := notify.NewLogger(flags.LogLevel, flags.LogFile)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, logger.Close()) }()
	runID := uuid.NewString()
	logger.Info("run %s: %d structures, programs %v", runID, n, progs)
	hub := notify.NewHub(notify.LogSink(logger), notify.ProblemSink(stderr))

	var results []*result
	for _, prog := range progs {
		r, err := runOne(flags, prog, refs, n, hub)
		if err != nil {
			logger.Error("%s: %v", prog, err)
			return fmt.Errorf("%s: %w", prog, err)
		}
		logger.Info("%s: %d of %d structures used", prog, r.acc.NMember, n)
		if err := writeResults(flags, runID, refs, n, len(progs), r); err != nil {
			return err
		}
		results = append(results, r)
	}
	if flags.Chimera != "" {
		if err := writeChimera(flags.Chimera, results); err != nil {
			return err
		}
	}
	logger.Info("run %s finished", runID)
	return nil
}
