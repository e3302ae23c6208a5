package vruntime

import (
	"strings"

	"github.com/gosuda/variant/ast"
	"github.com/gosuda/variant/value"
)

func (e *Executor) eval(x ast.Expr) value.Value {
	switch x := x.(type) {
	case nil:
		e.sink.IllegalExpression(e.at.Line, e.at.Column)
		return value.InvalidValue()
	case ast.LogicalExpression:
		return e.boolChain(x.Init, x.Alternatives, false)
	case ast.ConditionConjunction:
		return e.boolChain(x.Init, x.Conjunctions, true)
	case ast.Condition:
		return e.condition(x)
	case ast.MathExpression:
		return e.addition(x)
	case ast.MathMultiplication:
		return e.multiplication(x)
	case ast.NegatedExpression:
		return e.negation(x)
	case ast.IncrementedExpression:
		return e.increment(x)
	case ast.ValueGetter:
		return e.valueGetter(x)
	case ast.Variable, ast.FunctionCall:
		return e.valueGetter(ast.ValueGetter{Pos: x.Position(), Chain: []ast.Expr{x}})
	case ast.StringExpression:
		return value.Str(x.Value)
	case ast.IntExpression:
		return value.Int64(x.Value)
	}
	pos := x.Position()
	e.sink.IllegalExpression(pos.Line, pos.Column)
	return value.InvalidValue()
}

// boolChain evaluates every operand, then folds them with AND when all is
// set and OR otherwise.
func (e *Executor) boolChain(init ast.Expr, rest []ast.Expr, all bool) value.Value {
	acc := all
	valid := true
	for _, x := range append([]ast.Expr{init}, rest...) {
		v := e.eval(x)
		if v.Type() != value.Bool {
			if v.IsValid() {
				pos := e.posOf(x)
				e.sink.IllegalExpression(pos.Line, pos.Column)
			}
			valid = false
			continue
		}
		if all {
			acc = acc && v.Bool()
		} else {
			acc = acc || v.Bool()
		}
	}
	if !valid {
		return value.InvalidValue()
	}
	return value.Boolean(acc)
}

func (e *Executor) condition(c ast.Condition) value.Value {
	left, right := e.eval(c.Left), e.eval(c.Right)
	if !left.IsValid() || !right.IsValid() {
		return value.InvalidValue()
	}
	var cmp int
	switch {
	case left.Type() == value.Int && right.Type() == value.Int:
		switch {
		case left.Int() < right.Int():
			cmp = -1
		case left.Int() > right.Int():
			cmp = 1
		}
	case left.Type() == value.String && right.Type() == value.String:
		cmp = strings.Compare(left.String(), right.String())
	default:
		e.sink.IllegalExpression(c.Line, c.Column)
		return value.InvalidValue()
	}

	switch c.Op {
	case "==":
		return value.Boolean(cmp == 0)
	case "!=":
		return value.Boolean(cmp != 0)
	case "<":
		return value.Boolean(cmp < 0)
	case "<=":
		return value.Boolean(cmp <= 0)
	case ">":
		return value.Boolean(cmp > 0)
	case ">=":
		return value.Boolean(cmp >= 0)
	}
	e.sink.IllegalExpression(c.Line, c.Column)
	return value.InvalidValue()
}

func (e *Executor) addition(m ast.MathExpression) value.Value {
	acc := e.eval(m.Init)
	for _, op := range m.Operations {
		term := e.eval(op.Term)
		if !acc.IsValid() || !term.IsValid() {
			acc = value.InvalidValue()
			continue
		}
		switch {
		case acc.Type() == value.Int && term.Type() == value.Int:
			if op.Op == "+" {
				acc = value.Int64(acc.Int() + term.Int())
			} else {
				acc = value.Int64(acc.Int() - term.Int())
			}
		case acc.Type() == value.String && term.Type() == value.String && op.Op == "+":
			acc = value.Str(acc.String() + term.String())
		default:
			pos := e.posOf(op.Term)
			e.sink.IllegalAdditionOperation(pos.Line, pos.Column, acc.Type(), term.Type())
			acc = value.InvalidValue()
		}
	}
	return acc
}

func (e *Executor) multiplication(m ast.MathMultiplication) value.Value {
	acc := e.eval(m.Init)
	for _, op := range m.Operations {
		term := e.eval(op.Term)
		if !acc.IsValid() || !term.IsValid() {
			acc = value.InvalidValue()
			continue
		}
		pos := e.posOf(op.Term)
		if acc.Type() != value.Int || term.Type() != value.Int {
			e.sink.IllegalMultiplicationOperation(pos.Line, pos.Column)
			acc = value.InvalidValue()
			continue
		}
		switch op.Op {
		case "*":
			acc = value.Int64(acc.Int() * term.Int())
		case "/", "%":
			if term.Int() == 0 {
				e.sink.IllegalZeroOperation(pos.Line, pos.Column)
				acc = value.InvalidValue()
				continue
			}
			if op.Op == "/" {
				acc = value.Int64(acc.Int() / term.Int())
			} else {
				acc = value.Int64(acc.Int() % term.Int())
			}
		default:
			e.sink.IllegalMultiplicationOperation(pos.Line, pos.Column)
			acc = value.InvalidValue()
		}
	}
	return acc
}

func (e *Executor) negation(n ast.NegatedExpression) value.Value {
	v := e.eval(n.Inner)
	switch v.Type() {
	case value.Int:
		return value.Int64(-v.Int())
	case value.Bool:
		return value.Boolean(!v.Bool())
	case value.Invalid:
		return v
	}
	e.sink.IllegalNegation(n.Line, n.Column)
	return value.InvalidValue()
}

// increment adds one to the target and writes the result back through the
// same path it was read from.
func (e *Executor) increment(n ast.IncrementedExpression) value.Value {
	vg, ok := n.Inner.(ast.ValueGetter)
	if !ok {
		e.sink.IllegalIncrement(n.Line, n.Column)
		return value.InvalidValue()
	}
	cur := e.valueGetter(vg)
	if cur.Type() != value.Int {
		if cur.IsValid() {
			e.sink.IllegalIncrement(n.Line, n.Column)
		}
		return value.InvalidValue()
	}
	next := value.Int64(cur.Int() + 1)
	e.store(vg, next)
	return next
}

func (e *Executor) valueGetter(vg ast.ValueGetter) value.Value {
	if len(vg.Chain) == 0 {
		e.sink.IllegalExpression(vg.Line, vg.Column)
		return value.InvalidValue()
	}
	v := e.head(vg.Chain[0])
	for _, seg := range vg.Chain[1:] {
		v = e.member(v, seg)
	}
	return v
}

func (e *Executor) head(seg ast.Expr) value.Value {
	switch seg := seg.(type) {
	case ast.Variable:
		v, ok := e.vars.Lookup(seg.Name)
		if !ok {
			e.sink.VariableDoesNotExist(seg.Line, seg.Column, seg.Name)
			return value.InvalidValue()
		}
		return v
	case ast.FunctionCall:
		return e.call(seg)
	}
	pos := e.posOf(seg)
	e.sink.IllegalExpression(pos.Line, pos.Column)
	return value.InvalidValue()
}

// member reads a property or calls a method on recv. The segment kind
// decides which table is consulted.
func (e *Executor) member(recv value.Value, seg ast.Expr) value.Value {
	switch seg := seg.(type) {
	case ast.Variable:
		if !recv.IsValid() {
			return recv
		}
		m, ok := e.reg.Member(recv.Type(), seg.Name, false)
		if !ok || m.Get == nil {
			e.sink.VariableDoesNotExist(seg.Line, seg.Column, recv.Type().String()+"."+seg.Name)
			return value.InvalidValue()
		}
		v, err := m.Get(recv)
		if err != nil {
			e.sink.LibraryCallFailed(seg.Line, seg.Column, seg.Name, err)
			return value.InvalidValue()
		}
		return v
	case ast.FunctionCall:
		args := make([]value.Value, len(seg.Args))
		for i, a := range seg.Args {
			args[i] = e.eval(a)
		}
		if !recv.IsValid() {
			return recv
		}
		m, ok := e.reg.Member(recv.Type(), seg.Name, true)
		if !ok || len(args) != len(m.Params) {
			e.sink.IllegalExpression(seg.Line, seg.Column)
			return value.InvalidValue()
		}
		for _, a := range args {
			if !a.IsValid() {
				return value.InvalidValue()
			}
		}
		e.log.Debug("call", "name", recv.Type().String()+"."+seg.Name, "args", len(args))
		v, err := m.Call(e.host, recv, args)
		if err != nil {
			e.sink.LibraryCallFailed(seg.Line, seg.Column, seg.Name, err)
			return value.InvalidValue()
		}
		return v
	}
	pos := e.posOf(seg)
	e.sink.IllegalExpression(pos.Line, pos.Column)
	return value.InvalidValue()
}

// store writes v to the target named by vg: a variable for a single
// segment, otherwise the settable property the chain ends in.
func (e *Executor) store(vg ast.ValueGetter, v value.Value) {
	if len(vg.Chain) == 0 {
		e.sink.IllegalExpression(vg.Line, vg.Column)
		return
	}
	last, ok := vg.Chain[len(vg.Chain)-1].(ast.Variable)
	if !ok {
		e.sink.IllegalExpression(vg.Line, vg.Column)
		return
	}
	if len(vg.Chain) == 1 {
		if !e.vars.Assign(last.Name, v) {
			e.sink.VariableDoesNotExist(last.Line, last.Column, last.Name)
		}
		return
	}

	owner := e.head(vg.Chain[0])
	for _, seg := range vg.Chain[1 : len(vg.Chain)-1] {
		owner = e.member(owner, seg)
	}
	if !owner.IsValid() || !v.IsValid() {
		return
	}
	m, ok := e.reg.Member(owner.Type(), last.Name, false)
	if !ok || !m.Settable() {
		e.sink.IllegalExpression(last.Line, last.Column)
		return
	}
	if err := m.Set(owner, v); err != nil {
		e.sink.LibraryCallFailed(last.Line, last.Column, last.Name, err)
	}
}

func (e *Executor) posOf(x ast.Expr) ast.Pos {
	if x == nil {
		return e.at
	}
	return x.Position()
}
