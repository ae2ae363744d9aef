// Package notify carries one line text messages from the code doing
// the work to whoever wants to see them. Sinks are called
// synchronously, in the order they were registered, and a sink only
// sees messages published after it was registered.
package notify

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Start of the messages the extractor sends. Sinks can tell them
// apart with Classify.
const (
	MsgReading  = "Reading structure"
	MsgMismatch = "different numbers of atoms"
	MsgUnable   = "Unable to process structure"
)

// Sink receives messages.
type Sink interface {
	Notify(msg string)
}

// SinkFunc lets an ordinary function be a Sink.
type SinkFunc func(msg string)

func (f SinkFunc) Notify(msg string) { f(msg) }

// Handle identifies a registered sink.
type Handle uint64

type entry struct {
	h    Handle
	sink Sink
}

// Hub is the registry of sinks. The zero value is ready to use.
type Hub struct {
	mu    sync.Mutex
	last  Handle
	sinks []entry
}

// NewHub returns a hub with sinks already registered.
func NewHub(sinks ...Sink) *Hub {
	h := &Hub{}
	for _, s := range sinks {
		h.Register(s)
	}
	return h
}

// Register adds a sink at the end of the list.
func (h *Hub) Register(s Sink) Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last++
	h.sinks = append(h.sinks, entry{h: h.last, sink: s})
	return h.last
}

// Unregister removes a sink. Unknown handles are ignored.
func (h *Hub) Unregister(handle Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sinks = slices.DeleteFunc(h.sinks, func(e entry) bool { return e.h == handle })
}

// Publish sends msg to every sink. A sink may register or unregister
// others while being called. That only affects later messages.
func (h *Hub) Publish(msg string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	sinks := slices.Clone(h.sinks)
	h.mu.Unlock()
	for _, e := range sinks {
		e.sink.Notify(msg)
	}
}

func (h *Hub) Publishf(format string, a ...any) {
	h.Publish(fmt.Sprintf(format, a...))
}

// Len is the number of registered sinks.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sinks)
}

type Class uint8

const (
	Progress Class = iota
	Warning
	Error
)

func (c Class) String() string {
	switch c {
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "progress"
}

// Classify guesses what kind of message msg is from its content.
// Anything not recognised is progress.
func Classify(msg string) Class {
	switch {
	case strings.Contains(msg, MsgUnable):
		return Error
	case strings.Contains(msg, MsgMismatch):
		return Warning
	}
	return Progress
}
