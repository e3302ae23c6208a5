// Package semantic type-checks a parsed program before it is executed.
package semantic

import (
	"github.com/gosuda/variant/ast"
	"github.com/gosuda/variant/diag"
	"github.com/gosuda/variant/scope"
	"github.com/gosuda/variant/stdlib"
	"github.com/gosuda/variant/value"
)

type signature struct {
	params []value.Type
	ret    value.Type
}

type Analyzer struct {
	reg  *stdlib.Registry
	sink *diag.Sink

	funcs map[string]signature
	vars  *scope.Stack[value.Type]
	fn    *ast.FunctionDefinition
	// at is the position of the instruction being checked, used for
	// diagnostics about nodes that are missing from the tree.
	at  ast.Pos
	err error
}

func New(reg *stdlib.Registry, sink *diag.Sink) *Analyzer {
	if reg == nil {
		reg = stdlib.NewRegistry()
	}
	return &Analyzer{reg: reg, sink: sink}
}

// Validate reports whether prog is free of semantic errors. It returns false
// if any diagnostic was reported during the call; when the sink aborted the
// check, Err holds the cause.
func (a *Analyzer) Validate(prog *ast.Program) bool {
	start := a.sink.Count()
	a.err = a.validate(prog)
	return a.err == nil && a.sink.Count() == start
}

// Err returns the diagnostic that aborted the last Validate, if any.
func (a *Analyzer) Err() error { return a.err }

func (a *Analyzer) validate(prog *ast.Program) (err error) {
	defer diag.Recover(&err)
	a.register(prog)

	main, ok := prog.Functions["main"]
	if !ok {
		a.sink.MainNotOccured()
		return nil
	}
	if n := len(main.Parameters); n > 0 {
		a.sink.WrongArgumentCount(main.Line, main.Column, "main", 0, n)
	}
	for _, name := range prog.Order {
		a.function(prog.Functions[name])
	}
	return nil
}

func (a *Analyzer) register(prog *ast.Program) {
	a.funcs = map[string]signature{}
	for _, fn := range a.reg.Functions() {
		a.funcs[fn.Name] = signature{params: fn.Params, ret: fn.Return}
	}
	for _, fn := range a.reg.Constructors() {
		a.funcs[fn.Name] = signature{params: fn.Params, ret: fn.Return}
	}
	for _, d := range prog.DllLoaders {
		p, ok := a.reg.Plugin(d.Name)
		if !ok {
			a.sink.UnresolvedReference(d.Line, d.Column, d.Name)
			continue
		}
		if _, dup := a.funcs[d.Name]; dup {
			a.sink.FunctionAlreadyDeclared(d.Line, d.Column, d.Name)
			continue
		}
		a.funcs[d.Name] = signature{params: p.Params, ret: p.Return}
	}
	for _, name := range prog.Order {
		fn := prog.Functions[name]
		if _, dup := a.funcs[name]; dup {
			a.sink.FunctionAlreadyDeclared(fn.Line, fn.Column, name)
			continue
		}
		sig := signature{ret: value.FromDataType(fn.ReturnType)}
		for _, p := range fn.Parameters {
			sig.params = append(sig.params, value.FromDataType(p.Type))
		}
		a.funcs[name] = sig
	}
}

func (a *Analyzer) function(fn *ast.FunctionDefinition) {
	a.fn = fn
	a.at = fn.Pos
	a.vars = scope.New[value.Type]()

	for _, p := range fn.Parameters {
		if !a.vars.Declare(p.Name, value.FromDataType(p.Type)) {
			a.sink.ParameterDuplicated(p.Line, p.Column, p.Name, fn.Name)
		}
	}
	if !canReturn(fn.Body) {
		a.sink.FunctionDoesNotReturnAnything(fn.Line, fn.Column, fn.Name)
	}
	// Parameters and the function's top-level locals share one frame.
	for _, in := range fn.Body {
		a.instruction(in)
	}
}

// canReturn reports whether body returns on every path: it holds a return
// itself, or a foreach whose body can return, or an if/else whose branches
// both can.
func canReturn(body []ast.Instruction) bool {
	for _, in := range body {
		if _, ok := in.(ast.Returning); ok {
			return true
		}
	}
	for i := len(body) - 1; i >= 0; i-- {
		switch in := body[i].(type) {
		case ast.ForeachLoop:
			if canReturn(in.Body) {
				return true
			}
		case ast.IfOrIfElse:
			if in.HasElse && canReturn(in.Then) && canReturn(in.Else) {
				return true
			}
		}
	}
	return false
}

func (a *Analyzer) block(body []ast.Instruction) {
	a.vars.Push()
	for _, in := range body {
		a.instruction(in)
	}
	a.vars.Pop()
}

func (a *Analyzer) instruction(in ast.Instruction) {
	if in == nil {
		a.sink.UnrecognisedType(a.at.Line, a.at.Column)
		return
	}
	a.at = in.Position()

	switch in := in.(type) {
	case ast.Returning:
		got := a.expr(in.Expr)
		a.expect(a.posOf(in.Expr), value.FromDataType(a.fn.ReturnType), got)
	case ast.DeclaringVariable:
		t := value.FromDataType(in.Type)
		if in.Init != nil {
			a.expect(a.posOf(in.Init), t, a.expr(in.Init))
		}
		if !a.vars.Declare(in.Name, t) {
			a.sink.VariableAlreadyDeclared(in.Line, in.Column, in.Name)
		}
	case ast.ExpressionInstruction:
		a.expr(in.Expr)
	case ast.AssigningToMember:
		a.assignment(in)
	case ast.ForeachLoop:
		elem := value.FromDataType(in.ElementType)
		a.expect(a.posOf(in.Iterable), value.ListOf(elem), a.expr(in.Iterable))
		a.vars.Push()
		a.vars.Declare(in.Name, elem)
		for _, body := range in.Body {
			a.instruction(body)
		}
		a.vars.Pop()
	case ast.IfOrIfElse:
		a.expect(a.posOf(in.Cond), value.Bool, a.expr(in.Cond))
		a.block(in.Then)
		if in.HasElse {
			a.block(in.Else)
		}
	default:
		a.sink.UnrecognisedType(a.at.Line, a.at.Column)
	}
}

func (a *Analyzer) assignment(in ast.AssigningToMember) {
	vg, ok := in.Target.(ast.ValueGetter)
	if !ok {
		a.sink.IllegalAssignment(in.Line, in.Column)
		a.expr(in.Expr)
		return
	}
	target := a.writeTarget(vg, a.sink.IllegalAssignment)
	a.expect(a.posOf(in.Expr), target, a.expr(in.Expr))
}

// writeTarget resolves the type of an assignable value getter: a single
// variable, or a chain ending in a settable property. Anything else is
// reported through illegal.
func (a *Analyzer) writeTarget(vg ast.ValueGetter, illegal func(line, col int)) value.Type {
	if len(vg.Chain) == 0 {
		a.sink.UnrecognisedType(vg.Line, vg.Column)
		return value.Invalid
	}
	last := vg.Chain[len(vg.Chain)-1]
	prop, ok := last.(ast.Variable)
	if !ok {
		illegal(vg.Line, vg.Column)
		return value.Invalid
	}
	if len(vg.Chain) == 1 {
		t, ok := a.vars.Lookup(prop.Name)
		if !ok {
			a.sink.UnresolvedReference(prop.Line, prop.Column, prop.Name)
			return value.Invalid
		}
		return t
	}

	owner := a.head(vg.Chain[0])
	for _, seg := range vg.Chain[1 : len(vg.Chain)-1] {
		owner = a.member(owner, seg)
	}
	if owner == value.Invalid {
		return value.Invalid
	}
	m, ok := a.reg.Member(owner, prop.Name, false)
	if !ok {
		a.sink.UnresolvedReference(prop.Line, prop.Column, owner.String()+"."+prop.Name)
		return value.Invalid
	}
	if !m.Settable() {
		illegal(prop.Line, prop.Column)
		return value.Invalid
	}
	return m.Type
}

// expect reports a WrongType unless got matches want. Invalid on either
// side was reported already and matches anything.
func (a *Analyzer) expect(pos ast.Pos, want, got value.Type) bool {
	if want == value.Invalid || got == value.Invalid || want == got {
		return true
	}
	a.sink.WrongType(pos.Line, pos.Column, want, got)
	return false
}

func (a *Analyzer) posOf(e ast.Expr) ast.Pos {
	if e == nil {
		return a.at
	}
	return e.Position()
}
