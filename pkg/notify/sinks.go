package notify

import (
	"fmt"
	"io"
	"slices"
	"sync"
)

// LogSink sends progress to the debug log, warnings and errors to their
// own levels.
func LogSink(l *Logger) Sink {
	return SinkFunc(func(msg string) {
		switch Classify(msg) {
		case Error:
			l.Error("%s", msg)
		case Warning:
			l.Warn("%s", msg)
		default:
			l.Debug("%s", msg)
		}
	})
}

// ProblemSink writes warnings and errors to w, one per line, and drops
// progress. w is usually os.Stderr.
func ProblemSink(w io.Writer) Sink {
	var mu sync.Mutex
	return SinkFunc(func(msg string) {
		c := Classify(msg)
		if c == Progress {
			return
		}
		mu.Lock()
		fmt.Fprintf(w, "%s: %s\n", c, msg)
		mu.Unlock()
	})
}

// Recorder keeps every message it is sent.
type Recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *Recorder) Notify(msg string) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

// Messages returns a copy of what has been received so far.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.msgs)
}

// Count is the number of messages of class c.
func (r *Recorder) Count(c Class) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.msgs {
		if Classify(m) == c {
			n++
		}
	}
	return n
}
