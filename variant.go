// Package variant wires the lexer, parser, analyzer and executor into one
// pipeline sharing a single diagnostic sink.
package variant

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/gosuda/variant/ast"
	"github.com/gosuda/variant/diag"
	"github.com/gosuda/variant/parser"
	vruntime "github.com/gosuda/variant/runtime"
	"github.com/gosuda/variant/semantic"
	"github.com/gosuda/variant/stdlib"
)

// ErrRejected is returned when a stage reported diagnostics under a policy
// that did not abort, so the next stage was not started.
var ErrRejected = errors.New("program rejected")

type config struct {
	policy diag.Policy
	reg    *stdlib.Registry
	host   *stdlib.Host
	logger *log.Logger
}

type Option func(*config)

// WithPolicy selects how diagnostics are handled. The default is diag.FailFast.
func WithPolicy(p diag.Policy) Option {
	return func(c *config) { c.policy = p }
}

func WithRegistry(r *stdlib.Registry) Option {
	return func(c *config) { c.reg = r }
}

func WithHost(h *stdlib.Host) Option {
	return func(c *config) { c.host = h }
}

func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

func newConfig(opts []Option) *config {
	c := &config{policy: diag.FailFast{}}
	for _, opt := range opts {
		opt(c)
	}
	if c.reg == nil {
		c.reg = stdlib.NewRegistry()
	}
	return c
}

// pipeline carries the sink shared by the stages of one run.
type pipeline struct {
	*config
	sink *diag.Sink
}

func newPipeline(opts []Option) *pipeline {
	c := newConfig(opts)
	return &pipeline{config: c, sink: diag.NewSink(c.policy)}
}

// gate fails when diagnostics were reported since start.
func (p *pipeline) gate(stage string, start int) error {
	n := p.sink.Count() - start
	if n == 0 {
		return nil
	}
	err := fmt.Errorf("%w: %d %s diagnostic(s)", ErrRejected, n, stage)
	if c, ok := p.policy.(*diag.Collector); ok {
		return errors.Join(err, c.Err())
	}
	return err
}

func (p *pipeline) parse(src string) (*ast.Program, error) {
	prog, err := parser.ParseString(src, p.sink)
	if err != nil {
		return nil, err
	}
	if err := p.gate("syntax", 0); err != nil {
		return nil, err
	}
	return prog, nil
}

func (p *pipeline) check(src string) (*ast.Program, error) {
	prog, err := p.parse(src)
	if err != nil {
		return nil, err
	}
	start := p.sink.Count()
	a := semantic.New(p.reg, p.sink)
	if !a.Validate(prog) {
		if err := a.Err(); err != nil {
			return nil, err
		}
		return nil, p.gate("semantic", start)
	}
	return prog, nil
}

// Parse lexes and parses src.
func Parse(src string, opts ...Option) (*ast.Program, error) {
	return newPipeline(opts).parse(src)
}

// Check parses src and validates the result.
func Check(src string, opts ...Option) (*ast.Program, error) {
	return newPipeline(opts).check(src)
}

func (p *pipeline) executor(prog *ast.Program) *vruntime.Executor {
	var opts []vruntime.Option
	if p.host != nil {
		opts = append(opts, vruntime.WithHost(p.host))
	}
	if p.logger != nil {
		opts = append(opts, vruntime.WithLogger(p.logger))
	}
	return vruntime.New(prog, p.reg, p.sink, opts...)
}

// Compile checks src and returns an executor ready to run it.
func Compile(src string, opts ...Option) (*vruntime.Executor, error) {
	p := newPipeline(opts)
	prog, err := p.check(src)
	if err != nil {
		return nil, err
	}
	return p.executor(prog), nil
}

// Run compiles src and executes main. Under a collecting policy a run that
// reported runtime diagnostics still returns ErrRejected.
func Run(src string, opts ...Option) ([]stdlib.Output, error) {
	p := newPipeline(opts)
	prog, err := p.check(src)
	if err != nil {
		return nil, err
	}
	start := p.sink.Count()
	outs, err := p.executor(prog).Run()
	if err != nil {
		return outs, err
	}
	return outs, p.gate("runtime", start)
}
