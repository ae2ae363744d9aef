// 16 Oct 2026
// Read an ensemble of structures and the pocket predictions for each,
// then say how often each atom and residue lines a pocket.

package main

import (
	"flag"
	"fmt"
	"os"
	"path"
	"strings"

	. "github.com/andrew-torda/pocketprob/pkg/common"
	"github.com/andrew-torda/pocketprob/pkg/config"
	"github.com/andrew-torda/pocketprob/pkg/pocketprob"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage:", path.Base(os.Args[0]), "[flags] ref1.pdb [ref2.pdb ...]")
	long := `Each reference structure needs its pocket predictions next to it,
or in the directory given by -D, named the way the prediction program
names them. Defaults for some flags come from POCKETPROB_ environment
variables or a .env file.`
	fmt.Fprintln(os.Stderr, long)
	flag.PrintDefaults()
}

// progList lets -p be given more than once. The first use throws away
// the default.
type progList struct {
	progs *[]string
	set   bool
}

func (p *progList) String() string {
	if p.progs == nil {
		return ""
	}
	return strings.Join(*p.progs, ",")
}

func (p *progList) Set(s string) error {
	if !p.set {
		*p.progs = nil
		p.set = true
	}
	*p.progs = append(*p.progs, s)
	return nil
}

// dirList collects -D program=dir. Settings from the environment stay
// unless the same program is given again.
type dirList struct {
	dirs *map[string]string
}

func (d dirList) String() string {
	if d.dirs == nil {
		return ""
	}
	var s []string
	for k, v := range *d.dirs {
		s = append(s, k+"="+v)
	}
	return strings.Join(s, ",")
}

func (d dirList) Set(s string) error {
	prog, dir, ok := strings.Cut(s, "=")
	if !ok || prog == "" || dir == "" {
		return fmt.Errorf("want program=directory, got %q", s)
	}
	if *d.dirs == nil {
		*d.dirs = make(map[string]string)
	}
	(*d.dirs)[strings.ToLower(prog)] = dir
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsageError)
	}
	flags := pocketprob.DefaultFlags(cfg)

	flag.Var(&progList{progs: &flags.Programs}, "p", "prediction program (fpocket, pass, ligsite, ghecom), repeat or use commas")
	flag.Float64Var(&flags.Radius, "r", flags.Radius, "radius in Angstrom for spatial classification")
	flag.IntVar(&flags.N, "n", 0, "ensemble size, default is all structures given")
	flag.StringVar(&flags.Mode, "d", flags.Mode, "classification: tool, direct or spatial")
	flag.StringVar(&flags.OutPrefix, "o", flags.OutPrefix, "prefix for output file names")
	flag.StringVar(&flags.Chimera, "c", "", "filename to write chimera format to")
	flag.StringVar(&flags.Plot, "g", "", "filename for png plot of residue probabilities")
	flag.BoolVar(&flags.Annotate, "a", false, "write reference structure with probabilities as B-factors")
	flag.IntVar(&flags.Workers, "w", flags.Workers, "number of structures to work on at once")
	flag.StringVar(&flags.LogFile, "l", flags.LogFile, "log file, stdout or stderr")
	flag.Var(dirList{dirs: &flags.PredDirs}, "D", "program=directory where that program's predictions are, may be repeated")
	flag.BoolVar(&flags.Time, "t", false, "print out timing information")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(ExitUsageError)
	}

	if err := pocketprob.Mymain(&flags, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	} else {
		os.Exit(ExitSuccess)
	}
}
