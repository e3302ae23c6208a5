// Package vruntime executes a validated program by walking its tree.
package vruntime

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/gosuda/variant/ast"
	"github.com/gosuda/variant/diag"
	"github.com/gosuda/variant/scope"
	"github.com/gosuda/variant/stdlib"
	"github.com/gosuda/variant/value"
)

type Executor struct {
	prog *ast.Program
	reg  *stdlib.Registry
	sink *diag.Sink
	host *stdlib.Host
	log  *log.Logger

	// plugins holds the registry plugins the program declared with dllload.
	plugins map[string]*stdlib.Function
	vars    *scope.Stack[value.Value]
	at      ast.Pos
	depth   int
}

type resultKind int

const (
	resultNone resultKind = iota
	resultReturn
)

type execResult struct {
	kind  resultKind
	value value.Value
}

type Option func(*Executor)

// WithHost sets the host that print and input talk to.
func WithHost(h *stdlib.Host) Option {
	return func(e *Executor) {
		if h != nil {
			e.host = h
		}
	}
}

// WithLogger enables debug logging of calls and loop iterations.
func WithLogger(l *log.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.log = l
		}
	}
}

func New(prog *ast.Program, reg *stdlib.Registry, sink *diag.Sink, opts ...Option) *Executor {
	if reg == nil {
		reg = stdlib.NewRegistry()
	}
	if sink == nil {
		sink = diag.NewSink(nil)
	}
	e := &Executor{
		prog:    prog,
		reg:     reg,
		sink:    sink,
		host:    stdlib.NewHost(nil, nil),
		log:     log.New(io.Discard),
		plugins: map[string]*stdlib.Function{},
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, d := range prog.DllLoaders {
		if p, ok := reg.Plugin(d.Name); ok {
			e.plugins[d.Name] = p
		}
	}
	return e
}

// Host returns the host the executor prints to.
func (e *Executor) Host() *stdlib.Host { return e.host }

// Run calls main and returns what the script printed. When a runtime
// diagnostic aborts the run, the output produced up to that point is
// returned together with the error.
func (e *Executor) Run() (outputs []stdlib.Output, err error) {
	e.host.Reset()
	defer func() {
		outputs = e.host.Outputs()
	}()
	defer diag.Recover(&err)

	main, ok := e.prog.Functions["main"]
	if !ok {
		e.sink.MainNotOccured()
		return nil, nil
	}
	e.log.Debug("run", "functions", len(e.prog.Order), "plugins", len(e.plugins))
	e.callUser(main, nil)
	return nil, nil
}

// call resolves name in priority order: library functions, declared
// plugins, constructors, then user functions.
func (e *Executor) call(c ast.FunctionCall) value.Value {
	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		args[i] = e.eval(a)
	}
	if fn, ok := e.reg.Function(c.Name); ok {
		return e.callLibrary(c, fn, args)
	}
	if fn, ok := e.plugins[c.Name]; ok {
		return e.callLibrary(c, fn, args)
	}
	if fn, ok := e.reg.Constructor(c.Name); ok {
		return e.callLibrary(c, fn, args)
	}
	if fn, ok := e.prog.Functions[c.Name]; ok {
		if len(args) != len(fn.Parameters) {
			e.sink.IllegalExpression(c.Line, c.Column)
			return value.InvalidValue()
		}
		return e.callUser(fn, args)
	}
	e.sink.IllegalExpression(c.Line, c.Column)
	return value.InvalidValue()
}

func (e *Executor) callLibrary(c ast.FunctionCall, fn *stdlib.Function, args []value.Value) value.Value {
	if len(args) != len(fn.Params) {
		e.sink.IllegalExpression(c.Line, c.Column)
		return value.InvalidValue()
	}
	for _, a := range args {
		if !a.IsValid() {
			return value.InvalidValue()
		}
	}
	e.log.Debug("call", "name", c.Name, "args", len(args))
	v, err := fn.Call(e.host, args)
	if err != nil {
		e.sink.LibraryCallFailed(c.Line, c.Column, c.Name, err)
		return value.InvalidValue()
	}
	return v
}

// callUser runs fn on a scope stack of its own; the caller's locals are
// not visible inside.
func (e *Executor) callUser(fn *ast.FunctionDefinition, args []value.Value) value.Value {
	e.depth++
	e.log.Debug("call", "name", fn.Name, "args", len(args), "depth", e.depth)
	saved, savedAt := e.vars, e.at
	e.vars = scope.New[value.Value]()
	defer func() {
		e.vars, e.at = saved, savedAt
		e.depth--
	}()

	for i, p := range fn.Parameters {
		e.vars.Declare(p.Name, args[i])
	}
	res := e.run(fn.Body)
	if res.kind == resultReturn {
		return res.value
	}
	return value.Zero(value.FromDataType(fn.ReturnType))
}

// run executes body in the current frame and stops at the first
// instruction that returns.
func (e *Executor) run(body []ast.Instruction) execResult {
	for _, in := range body {
		res := e.instruction(in)
		if res.kind != resultNone {
			return res
		}
	}
	return execResult{kind: resultNone}
}

func (e *Executor) block(body []ast.Instruction) execResult {
	e.vars.Push()
	defer e.vars.Pop()
	return e.run(body)
}

func (e *Executor) instruction(in ast.Instruction) execResult {
	if in == nil {
		e.sink.IllegalInstruction(e.at.Line, e.at.Column)
		return execResult{kind: resultNone}
	}
	e.at = in.Position()

	switch in := in.(type) {
	case ast.Returning:
		return execResult{kind: resultReturn, value: e.eval(in.Expr)}
	case ast.DeclaringVariable:
		v := value.Zero(value.FromDataType(in.Type))
		if in.Init != nil {
			v = e.eval(in.Init)
		}
		if !e.vars.Declare(in.Name, v) {
			e.vars.Assign(in.Name, v)
		}
	case ast.ExpressionInstruction:
		e.eval(in.Expr)
	case ast.AssigningToMember:
		v := e.eval(in.Expr)
		vg, ok := in.Target.(ast.ValueGetter)
		if !ok {
			e.sink.IllegalExpression(in.Line, in.Column)
			break
		}
		e.store(vg, v)
	case ast.IfOrIfElse:
		cond := e.eval(in.Cond)
		if cond.Type() != value.Bool {
			if cond.IsValid() {
				e.sink.IllegalExpression(in.Line, in.Column)
			}
			break
		}
		if cond.Bool() {
			return e.block(in.Then)
		}
		if in.HasElse {
			return e.block(in.Else)
		}
	case ast.ForeachLoop:
		return e.foreach(in)
	default:
		e.sink.IllegalInstruction(in.Position().Line, in.Position().Column)
	}
	return execResult{kind: resultNone}
}

func (e *Executor) foreach(in ast.ForeachLoop) execResult {
	list := e.eval(in.Iterable)
	elem := value.FromDataType(in.ElementType)
	if list.Type() != value.ListOf(elem) {
		if list.IsValid() {
			e.sink.IllegalExpression(in.Line, in.Column)
		}
		return execResult{kind: resultNone}
	}
	items := list.Items()
	e.log.Debug("foreach", "var", in.Name, "items", len(items))
	for _, item := range items {
		e.vars.Push()
		e.vars.Declare(in.Name, item)
		res := e.run(in.Body)
		e.vars.Pop()
		if res.kind != resultNone {
			return res
		}
	}
	return execResult{kind: resultNone}
}
