package main

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gosuda/variant"
	"github.com/gosuda/variant/diag"
	"github.com/gosuda/variant/stdlib"
	"github.com/gosuda/variant/stdlib/imageedit"
)

// session holds what one pipeline run needs besides the source.
type session struct {
	opts      []variant.Option
	collector *diag.Collector
}

func newSession(cfg appConfig, host *stdlib.Host) *session {
	s := &session{}
	reg := stdlib.NewRegistry(stdlib.WithPlugins(imageedit.Plugins()...))
	s.opts = append(s.opts, variant.WithRegistry(reg), variant.WithLogger(cfg.logger))
	if host != nil {
		s.opts = append(s.opts, variant.WithHost(host))
	}
	if cfg.policy == "collect" {
		s.collector = diag.NewCollector(nil)
		if cfg.verbose {
			s.collector.Logger = cfg.logger
		}
		s.opts = append(s.opts, variant.WithPolicy(s.collector))
	}
	return s
}

func (s *session) diagnostics() []diag.Diagnostic {
	if s.collector == nil {
		return nil
	}
	return s.collector.Diagnostics()
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case diag.IsFatal(err):
		return exitFatal
	case errors.Is(err, variant.ErrRejected):
		return exitDiagnostics
	}
	if _, ok := diag.KindOf(err); ok {
		return exitDiagnostics
	}
	return exitUsage
}

// runScript executes the script in its own goroutine and reports back to
// the UI only through events.
func runScript(cfg appConfig, events chan<- tea.Msg) {
	defer close(events)
	host := &stdlib.Host{
		Output: func(out stdlib.Output) {
			events <- runOutputMsg{out: out}
		},
		Input: func(req stdlib.InputRequest) (string, error) {
			resp := make(chan string, 1)
			events <- runPromptMsg{req: req, resp: resp}
			return <-resp, nil
		},
	}
	s := newSession(cfg, host)
	_, err := variant.Run(cfg.src, s.opts...)
	events <- runDoneMsg{err: err, diags: s.diagnostics()}
}
