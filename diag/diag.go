// Package diag carries the diagnostics raised by every pipeline stage and
// the policies that decide whether a stage aborts or keeps going.
package diag

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Diagnostic is one reported problem. Line and Column are 1-based; zero
// means the position is unknown.
type Diagnostic struct {
	Kind    Kind
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) Error() string {
	if d.Line == 0 {
		return fmt.Sprintf("%s error: %s", d.Kind.Stage(), d.Message)
	}
	return fmt.Sprintf("%d:%d: %s error: %s", d.Line, d.Column, d.Kind.Stage(), d.Message)
}

// Error is returned by a stage that was aborted by a diagnostic.
type Error struct {
	Diagnostic
	Fatal bool
}

func (e *Error) Error() string {
	return e.Diagnostic.Error()
}

// KindOf extracts the diagnostic kind carried by err.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// IsFatal reports whether err was caused by an unconditionally fatal diagnostic.
func IsFatal(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Fatal
}

// Policy decides what happens after a diagnostic is reported. A non-nil
// return aborts the running stage.
type Policy interface {
	Handle(d Diagnostic) error
}

// FailFast aborts on the first diagnostic.
type FailFast struct{}

func (FailFast) Handle(d Diagnostic) error {
	return &Error{Diagnostic: d, Fatal: d.Kind.Fatal()}
}

// Collector records every diagnostic and lets the stage continue.
type Collector struct {
	// Logger, when set, receives each diagnostic at error level.
	Logger *log.Logger
	// OnReport, when set, is called after the diagnostic is recorded.
	OnReport func(Diagnostic)

	mu    sync.Mutex
	items []Diagnostic
}

func NewCollector(logger *log.Logger) *Collector {
	return &Collector{Logger: logger}
}

func (c *Collector) Handle(d Diagnostic) error {
	c.mu.Lock()
	c.items = append(c.items, d)
	hook := c.OnReport
	c.mu.Unlock()
	if c.Logger != nil {
		c.Logger.Error(d.Message, "kind", d.Kind.String(), "line", d.Line, "col", d.Column)
	}
	if hook != nil {
		hook(d)
	}
	return nil
}

func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic(nil), c.items...)
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Err joins all recorded diagnostics, or returns nil when there are none.
func (c *Collector) Err() error {
	items := c.Diagnostics()
	if len(items) == 0 {
		return nil
	}
	errs := make([]error, 0, len(items))
	for _, d := range items {
		errs = append(errs, d)
	}
	return errors.Join(errs...)
}

// Has reports whether a diagnostic of kind k was recorded.
func (c *Collector) Has(k Kind) bool {
	for _, d := range c.Diagnostics() {
		if d.Kind == k {
			return true
		}
	}
	return false
}
