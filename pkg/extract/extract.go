// Package extract walks over an ensemble of structures with their
// pocket predictions and counts how often each atom and residue lines
// a pocket.
//
// The first reference structure fixes the number of atoms and residues.
// Members that do not match are warned about but still used. Members
// that cannot be read or classified are reported and skipped.
package extract

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/andrew-torda/matrix"
	"github.com/andrew-torda/pocketprob/pdb/cmmn"
	"github.com/andrew-torda/pocketprob/pkg/notify"
	"github.com/andrew-torda/pocketprob/pkg/pocket"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyEnsemble = errors.New("empty ensemble")
	ErrEnsembleSize  = errors.New("ensemble size does not match the files given")
)

// Loader reads a structure which may be spread over several files.
type Loader interface {
	Load(fnames ...string) (*cmmn.Struct, error)
}

// Extractor holds the settings for a walk over an ensemble.
type Extractor struct {
	Loader  Loader
	Hub     *notify.Hub // may be nil
	Radius  float64
	Direct  bool
	Workers int // more than 1 classifies members in parallel
}

// member is what one ensemble member produced. Messages are kept so
// they can be published in member order.
type member struct {
	msgs []string
	res  *pocket.Result
}

func (m *member) say(format string, a ...any) {
	m.msgs = append(m.msgs, fmt.Sprintf(format, a...))
}

// check looks at everything that would stop the run before it starts.
func (e *Extractor) check(refs []string, preds *PredSet, n int) error {
	switch {
	case n < 1 || len(refs) == 0:
		return fmt.Errorf("%w: %d members requested, %d references", ErrEmptyEnsemble, n, len(refs))
	case preds == nil:
		return fmt.Errorf("%w: no predictions", ErrEmptyEnsemble)
	case n > len(refs) || n > preds.Len():
		return fmt.Errorf("%w: %d members, %d references, %d predictions",
			ErrEnsembleSize, n, len(refs), preds.Len())
	case e.Loader == nil:
		return errors.New("extractor has no structure loader")
	}
	if !e.Direct && (e.Radius <= 0 || math.IsNaN(e.Radius) || math.IsInf(e.Radius, 0)) {
		return fmt.Errorf("%w, got %g", pocket.ErrRadius, e.Radius)
	}
	for _, r := range refs[:n] {
		if _, err := os.Stat(r); err != nil {
			return fmt.Errorf("reference structure: %w", err)
		}
	}
	return nil
}

// Run classifies the first n members and returns the totals.
// Errors returned are for problems that stop the run before any member
// is processed. Everything else goes to the notification hub.
func (e *Extractor) Run(refs []string, preds *PredSet, n int) (*Accum, error) {
	if err := e.check(refs, preds, n); err != nil {
		return nil, err
	}
	first, err := e.Loader.Load(refs[0])
	if err != nil {
		return nil, fmt.Errorf("first reference structure: %w", err)
	}
	acc := NewAccum(first.NAtom(), first.MaxRes())
	if e.Workers > 1 {
		e.parallel(acc, first, refs, preds, n)
	} else {
		e.serial(acc, first, refs, preds, n)
	}
	return acc, nil
}

// one does the work for member i. first is the already loaded first
// reference.
func (e *Extractor) one(i int, first *cmmn.Struct, refs []string, preds *PredSet) *member {
	m := &member{}
	m.say("%s %d: %s", notify.MsgReading, i+1, refs[i])
	ref := first
	if i > 0 {
		var err error
		if ref, err = e.Loader.Load(refs[i]); err != nil {
			m.say("%s: %s: %v", notify.MsgUnable, refs[i], err)
			return m
		}
	}
	files := preds.Files(i)
	if !preds.IsMulti() {
		files = files[:1]
	}
	pred, err := e.Loader.Load(files...)
	if err != nil {
		m.say("%s: %s: %v", notify.MsgUnable, refs[i], err)
		return m
	}
	if ref.NAtom() != first.NAtom() {
		m.say("Structures %s and %s have %s (%d and %d)",
			refs[0], refs[i], notify.MsgMismatch, first.NAtom(), ref.NAtom())
	}
	if m.res, err = pocket.Find(ref, pred, e.Radius, e.Direct); err != nil {
		m.say("%s: %s: %v", notify.MsgUnable, refs[i], err)
		return m
	}
	m.say("Structure %d: %d pocket lining atoms", i+1, len(pocket.Lining(m.res)))
	return m
}

// finish publishes what member m said and adds its row, which has
// already been filled, to the totals.
func (e *Extractor) finish(acc *Accum, m *member, r row) {
	for _, msg := range m.msgs {
		e.Hub.Publish(msg)
	}
	if m.res == nil {
		acc.Skipped++
		return
	}
	acc.add(r)
}

// serial does one member after the other.
func (e *Extractor) serial(acc *Accum, first *cmmn.Struct, refs []string, preds *PredSet, n int) {
	r := row{
		atom: make([]float32, len(acc.Atom)),
		res:  make([]float32, len(acc.Res)),
		frac: make([]float64, len(acc.ResFrac)),
	}
	for i := 0; i < n; i++ {
		m := e.one(i, first, refs, preds)
		if m.res != nil {
			r.fill(m.res)
		}
		e.finish(acc, m, r)
	}
}

// parallel classifies members concurrently. Each member writes only
// its own row of the hit tables. A member is published and summed as
// soon as it and all before it are done, so the totals and messages
// come out in the same order as serial's.
func (e *Extractor) parallel(acc *Accum, first *cmmn.Struct, refs []string, preds *PredSet, n int) {
	hits, resHits := matrix.NewFMatrix2d(n, len(acc.Atom)), matrix.NewFMatrix2d(n, len(acc.Res))
	frac := make([][]float64, n)
	members := make([]*member, n)
	var mu sync.Mutex
	next := 0 // first member not yet published
	var g errgroup.Group
	g.SetLimit(e.Workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			m := e.one(i, first, refs, preds)
			if m.res != nil {
				frac[i] = make([]float64, len(acc.ResFrac))
				row{atom: hits.Mat[i], res: resHits.Mat[i], frac: frac[i]}.fill(m.res)
			}
			mu.Lock()
			defer mu.Unlock()
			members[i] = m
			for ; next < n && members[next] != nil; next++ {
				e.finish(acc, members[next], row{atom: hits.Mat[next], res: resHits.Mat[next], frac: frac[next]})
			}
			return nil
		})
	}
	g.Wait() // members never fail the group
}
