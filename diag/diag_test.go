package diag_test

import (
	"errors"
	"testing"

	"github.com/gosuda/variant/diag"
)

func runStage(s *diag.Sink, f func()) (err error) {
	defer diag.Recover(&err)
	f()
	return nil
}

func TestFailFastAbortsStage(t *testing.T) {
	s := diag.NewSink(diag.FailFast{})
	reached := false
	err := runStage(s, func() {
		s.IntTooBig(3, 7)
		reached = true
	})
	if reached {
		t.Fatalf("stage continued after fail-fast diagnostic")
	}
	kind, ok := diag.KindOf(err)
	if !ok || kind != diag.IntTooBig {
		t.Fatalf("unexpected error: %v", err)
	}
	var de *diag.Error
	if !errors.As(err, &de) || de.Line != 3 || de.Column != 7 {
		t.Fatalf("unexpected position: %+v", de)
	}
	if diag.IsFatal(err) {
		t.Fatalf("IntTooBig must not be fatal")
	}
}

func TestCollectorContinues(t *testing.T) {
	c := diag.NewCollector(nil)
	var hooked []diag.Kind
	c.OnReport = func(d diag.Diagnostic) { hooked = append(hooked, d.Kind) }
	s := diag.NewSink(c)
	err := runStage(s, func() {
		s.UnexpectedToken(1, 1, "Semicolon", "BracketsClose")
		s.WrongType(2, 4, stringer("Int"), stringer("String"))
	})
	if err != nil {
		t.Fatalf("collector aborted: %v", err)
	}
	if c.Len() != 2 || s.Count() != 2 {
		t.Fatalf("unexpected count: %d/%d", c.Len(), s.Count())
	}
	if len(hooked) != 2 || hooked[1] != diag.WrongType {
		t.Fatalf("unexpected hook calls: %v", hooked)
	}
	if !c.Has(diag.WrongType) || c.Err() == nil {
		t.Fatalf("collector lost diagnostics")
	}
}

func TestFatalKindAbortsUnderCollector(t *testing.T) {
	c := diag.NewCollector(nil)
	s := diag.NewSink(c)
	err := runStage(s, func() {
		s.MainNotOccured()
		t.Fatalf("fatal diagnostic returned")
	})
	if !diag.IsFatal(err) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("fatal diagnostic not recorded")
	}
}

func TestRecoverRepanicsForeignPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("unexpected recover value: %v", r)
		}
	}()
	_ = runStage(diag.NewSink(nil), func() { panic("boom") })
}

func TestKindStages(t *testing.T) {
	cases := map[diag.Kind]diag.Stage{
		diag.StringTooLong:      diag.Lexical,
		diag.Desynchronized:     diag.Syntactic,
		diag.IllegalAssignment:  diag.Semantic,
		diag.IllegalNegation:    diag.Semantic,
		diag.LibraryCallFailed:  diag.Runtime,
		diag.IllegalInstruction: diag.Runtime,
	}
	for k, want := range cases {
		if got := k.Stage(); got != want {
			t.Fatalf("%s: stage %s, want %s", k, got, want)
		}
	}
}

type stringer string

func (s stringer) String() string { return string(s) }
