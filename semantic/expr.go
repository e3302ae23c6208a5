package semantic

import (
	"github.com/gosuda/variant/ast"
	"github.com/gosuda/variant/value"
)

func (a *Analyzer) expr(e ast.Expr) value.Type {
	switch e := e.(type) {
	case nil:
		a.sink.UnrecognisedType(a.at.Line, a.at.Column)
		return value.Invalid
	case ast.LogicalExpression:
		return a.boolChain(e.Init, e.Alternatives)
	case ast.ConditionConjunction:
		return a.boolChain(e.Init, e.Conjunctions)
	case ast.Condition:
		return a.condition(e)
	case ast.MathExpression:
		return a.addition(e)
	case ast.MathMultiplication:
		return a.multiplication(e)
	case ast.NegatedExpression:
		return a.negation(e)
	case ast.IncrementedExpression:
		return a.increment(e)
	case ast.ValueGetter:
		return a.valueGetter(e)
	case ast.Variable, ast.FunctionCall:
		return a.valueGetter(ast.ValueGetter{Pos: e.Position(), Chain: []ast.Expr{e}})
	case ast.StringExpression:
		return value.String
	case ast.IntExpression:
		return value.Int
	}
	pos := e.Position()
	a.sink.UnrecognisedType(pos.Line, pos.Column)
	return value.Invalid
}

func (a *Analyzer) boolChain(init ast.Expr, rest []ast.Expr) value.Type {
	result := value.Bool
	for _, e := range append([]ast.Expr{init}, rest...) {
		if !a.expect(a.posOf(e), value.Bool, a.expr(e)) {
			result = value.Invalid
		}
	}
	return result
}

func (a *Analyzer) condition(c ast.Condition) value.Type {
	left, right := a.expr(c.Left), a.expr(c.Right)
	if left == value.Invalid || right == value.Invalid {
		return value.Invalid
	}
	switch {
	case left == value.Int && right == value.Int:
		return value.Bool
	case left == value.String && right == value.String:
		if c.Op == "==" || c.Op == "!=" {
			return value.Bool
		}
		a.sink.IllegalStringOperation(c.Line, c.Column)
		return value.Invalid
	case left != value.Int && left != value.String:
		a.sink.WrongType(c.Line, c.Column, value.Int, left)
	default:
		a.sink.WrongType(a.posOf(c.Right).Line, a.posOf(c.Right).Column, left, right)
	}
	return value.Invalid
}

func (a *Analyzer) addition(m ast.MathExpression) value.Type {
	init := a.expr(m.Init)
	switch init {
	case value.String:
		result := value.String
		for _, op := range m.Operations {
			t := a.expr(op.Term)
			if op.Op != "+" || (t != value.String && t != value.Invalid) {
				pos := a.posOf(op.Term)
				a.sink.IllegalStringOperation(pos.Line, pos.Column)
				result = value.Invalid
			}
		}
		return result
	case value.Int:
		result := value.Int
		for _, op := range m.Operations {
			if !a.expect(a.posOf(op.Term), value.Int, a.expr(op.Term)) {
				result = value.Invalid
			}
		}
		return result
	case value.Invalid:
	default:
		a.sink.WrongType(m.Line, m.Column, value.Int, init)
	}
	for _, op := range m.Operations {
		a.expr(op.Term)
	}
	return value.Invalid
}

func (a *Analyzer) multiplication(m ast.MathMultiplication) value.Type {
	result := value.Int
	if !a.expect(a.posOf(m.Init), value.Int, a.expr(m.Init)) {
		result = value.Invalid
	}
	for _, op := range m.Operations {
		if !a.expect(a.posOf(op.Term), value.Int, a.expr(op.Term)) {
			result = value.Invalid
		}
		if op.Op == "/" || op.Op == "%" {
			if v, ok := constant(op.Term); ok && v == 0 {
				pos := a.posOf(op.Term)
				a.sink.IllegalZeroOperation(pos.Line, pos.Column)
				result = value.Invalid
			}
		}
	}
	return result
}

// negatable lists the expression kinds that may follow a unary minus.
func negatable(e ast.Expr) bool {
	switch e.(type) {
	case ast.IntExpression, ast.IncrementedExpression, ast.LogicalExpression,
		ast.ConditionConjunction, ast.Condition, ast.MathExpression,
		ast.MathMultiplication, ast.ValueGetter:
		return true
	}
	return false
}

func (a *Analyzer) negation(n ast.NegatedExpression) value.Type {
	if n.Inner != nil && !negatable(n.Inner) {
		a.sink.IllegalNegation(n.Line, n.Column)
		a.expr(n.Inner)
		return value.Invalid
	}
	t := a.expr(n.Inner)
	if t != value.Invalid && t != value.Int && t != value.Bool {
		a.sink.IllegalNegation(n.Line, n.Column)
		return value.Invalid
	}
	return t
}

func (a *Analyzer) increment(n ast.IncrementedExpression) value.Type {
	vg, ok := n.Inner.(ast.ValueGetter)
	if !ok {
		a.sink.IllegalIncrement(n.Line, n.Column)
		a.expr(n.Inner)
		return value.Invalid
	}
	t := a.writeTarget(vg, a.sink.IllegalIncrement)
	if t != value.Invalid && t != value.Int {
		a.sink.IllegalIncrement(n.Line, n.Column)
		return value.Invalid
	}
	return t
}

func (a *Analyzer) valueGetter(vg ast.ValueGetter) value.Type {
	if len(vg.Chain) == 0 {
		a.sink.UnrecognisedType(vg.Line, vg.Column)
		return value.Invalid
	}
	t := a.head(vg.Chain[0])
	for _, seg := range vg.Chain[1:] {
		t = a.member(t, seg)
	}
	return t
}

// head resolves the first segment of a value getter.
func (a *Analyzer) head(seg ast.Expr) value.Type {
	switch seg := seg.(type) {
	case ast.Variable:
		t, ok := a.vars.Lookup(seg.Name)
		if !ok {
			a.sink.UnresolvedReference(seg.Line, seg.Column, seg.Name)
			return value.Invalid
		}
		return t
	case ast.FunctionCall:
		sig, ok := a.funcs[seg.Name]
		if !ok {
			a.sink.UnresolvedReference(seg.Line, seg.Column, seg.Name)
			a.argumentTypes(seg.Args)
			return value.Invalid
		}
		a.arguments(seg, sig.params)
		return sig.ret
	}
	pos := a.posOf(seg)
	a.sink.UnrecognisedType(pos.Line, pos.Column)
	return value.Invalid
}

// member resolves a segment after the first against the type before it.
func (a *Analyzer) member(owner value.Type, seg ast.Expr) value.Type {
	switch seg := seg.(type) {
	case ast.Variable:
		if owner == value.Invalid {
			return value.Invalid
		}
		m, ok := a.reg.Member(owner, seg.Name, false)
		if !ok {
			a.sink.UnresolvedReference(seg.Line, seg.Column, owner.String()+"."+seg.Name)
			return value.Invalid
		}
		return m.Type
	case ast.FunctionCall:
		if owner == value.Invalid {
			a.argumentTypes(seg.Args)
			return value.Invalid
		}
		m, ok := a.reg.Member(owner, seg.Name, true)
		if !ok {
			a.sink.UnresolvedReference(seg.Line, seg.Column, owner.String()+"."+seg.Name)
			a.argumentTypes(seg.Args)
			return value.Invalid
		}
		a.arguments(seg, m.Params)
		return m.Type
	}
	pos := a.posOf(seg)
	a.sink.UnrecognisedType(pos.Line, pos.Column)
	return value.Invalid
}

func (a *Analyzer) argumentTypes(args []ast.Expr) []value.Type {
	types := make([]value.Type, len(args))
	for i, arg := range args {
		types[i] = a.expr(arg)
	}
	return types
}

func (a *Analyzer) arguments(call ast.FunctionCall, params []value.Type) {
	types := a.argumentTypes(call.Args)
	if len(types) != len(params) {
		a.sink.WrongArgumentCount(call.Line, call.Column, call.Name, len(params), len(types))
		return
	}
	for i, t := range types {
		a.expect(a.posOf(call.Args[i]), params[i], t)
	}
}

// constant folds e when it is built from integer literals only.
func constant(e ast.Expr) (int64, bool) {
	switch e := e.(type) {
	case ast.IntExpression:
		return e.Value, true
	case ast.NegatedExpression:
		v, ok := constant(e.Inner)
		return -v, ok
	case ast.MathExpression:
		v, ok := constant(e.Init)
		for _, op := range e.Operations {
			t, tok := constant(op.Term)
			if !ok || !tok {
				return 0, false
			}
			if op.Op == "+" {
				v += t
			} else {
				v -= t
			}
		}
		return v, ok
	case ast.MathMultiplication:
		v, ok := constant(e.Init)
		for _, op := range e.Operations {
			t, tok := constant(op.Term)
			if !ok || !tok {
				return 0, false
			}
			switch op.Op {
			case "*":
				v *= t
			case "/", "%":
				if t == 0 {
					return 0, false
				}
				if op.Op == "/" {
					v /= t
				} else {
					v %= t
				}
			}
		}
		return v, ok
	}
	return 0, false
}
