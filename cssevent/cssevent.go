// Package cssevent provides the event-target capability the Grammar
// Engine is built on: a small multi-subscriber dispatcher, embedded
// by composition rather than inherited. spec.md calls this plumbing
// "trivial" and external to the hard engineering of the parser; this
// package keeps it that way.
package cssevent

import (
	"sync"

	"github.com/mattiacci/parser-lib/cssast"
)

// Kind identifies an event's place in the taxonomy from spec.md §6.
type Kind int

const (
	StartStyleSheet Kind = iota
	EndStyleSheet
	Charset
	Import
	Namespace
	StartMedia
	EndMedia
	StartPage
	EndPage
	StartPageMargin
	EndPageMargin
	StartFontFace
	EndFontFace
	StartRule
	EndRule
	Property
	Error
)

func (k Kind) String() string {
	switch k {
	case StartStyleSheet:
		return "startstylesheet"
	case EndStyleSheet:
		return "endstylesheet"
	case Charset:
		return "charset"
	case Import:
		return "import"
	case Namespace:
		return "namespace"
	case StartMedia:
		return "startmedia"
	case EndMedia:
		return "endmedia"
	case StartPage:
		return "startpage"
	case EndPage:
		return "endpage"
	case StartPageMargin:
		return "startpagemargin"
	case EndPageMargin:
		return "endpagemargin"
	case StartFontFace:
		return "startfontface"
	case EndFontFace:
		return "endfontface"
	case StartRule:
		return "startrule"
	case EndRule:
		return "endrule"
	case Property:
		return "property"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a single emitted event. Payload holds one of the *Payload
// types below, chosen by Kind, or is nil for the payload-free kinds
// (StartStyleSheet, EndStyleSheet, StartFontFace, EndFontFace).
type Event struct {
	Kind    Kind
	Payload interface{}
}

// CharsetPayload is the payload of a Charset event.
type CharsetPayload struct {
	Charset string
}

// ImportPayload is the payload of an Import event.
type ImportPayload struct {
	URI   string
	Media []cssast.MediaQuery
}

// NamespacePayload is the payload of a Namespace event.
type NamespacePayload struct {
	Prefix string // "" when no prefix was written
	URI    string
}

// MediaPayload is the payload of StartMedia/EndMedia events.
type MediaPayload struct {
	Media []cssast.MediaQuery
}

// PagePayload is the payload of StartPage/EndPage events.
type PagePayload struct {
	Selector cssast.PageSelector
}

// MarginPayload is the payload of StartPageMargin/EndPageMargin
// events.
type MarginPayload struct {
	Margin cssast.MarginBox
}

// RulePayload is the payload of StartRule/EndRule events.
type RulePayload struct {
	Selectors []cssast.Selector
}

// PropertyPayload is the payload of a Property event.
type PropertyPayload struct {
	Property  cssast.PropertyName
	Value     cssast.Expr
	Important bool
}

// ErrorPayload is the payload of an Error event.
type ErrorPayload struct {
	Err     error
	Message string
	Line    int
	Col     int
}

// Listener receives fired events.
type Listener func(Event)

// Dispatcher is a map from event Kind to a list of listeners, guarded
// by a mutex so it is safe to register listeners and fire events from
// different goroutines (though a single parse itself is always
// single-threaded, per spec.md §5).
type Dispatcher struct {
	mu        sync.Mutex
	listeners map[Kind][]Listener
}

// AddListener registers fn to be called for every event of kind.
func (d *Dispatcher) AddListener(kind Kind, fn Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listeners == nil {
		d.listeners = make(map[Kind][]Listener)
	}
	d.listeners[kind] = append(d.listeners[kind], fn)
}

// RemoveListener unregisters every listener registered for kind. It
// takes no listener argument, so a single listener cannot be removed
// while others for the same kind stay registered.
func (d *Dispatcher) RemoveListener(kind Kind) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.listeners, kind)
}

// Fire invokes every listener registered for e.Kind, in registration
// order.
func (d *Dispatcher) Fire(e Event) {
	d.mu.Lock()
	fns := append([]Listener(nil), d.listeners[e.Kind]...)
	d.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}
