package ast

import (
	"strconv"
	"strings"
)

// Format renders a node in compact constructor notation, for example
//
//	Returning(MathExpression(MathMultiplication(2,[(*,3)]),[(+,1)]))
//
// Literals print as their value, variables as their name, calls as
// name(args) and value getters as their dotted chain.
func Format(node any) string {
	var b strings.Builder
	format(&b, node)
	return b.String()
}

func format(b *strings.Builder, node any) {
	switch n := node.(type) {
	case nil:
		b.WriteString("nil")
	case *Program:
		for i, name := range n.Order {
			if i > 0 {
				b.WriteByte('\n')
			}
			format(b, n.Functions[name])
		}
		for _, d := range n.DllLoaders {
			b.WriteString("\nDllLoader(" + d.Name + ")")
		}
	case *FunctionDefinition:
		b.WriteString("FunctionDefinition(" + n.ReturnType.String() + "," + n.Name + ",[")
		for i, p := range n.Parameters {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(p.Type.String() + " " + p.Name)
		}
		b.WriteString("],")
		formatBlock(b, n.Body)
		b.WriteByte(')')
	case Returning:
		call(b, "Returning", n.Expr)
	case ForeachLoop:
		b.WriteString("ForeachLoop(" + n.ElementType.String() + "," + n.Name + ",")
		format(b, n.Iterable)
		b.WriteByte(',')
		formatBlock(b, n.Body)
		b.WriteByte(')')
	case DeclaringVariable:
		b.WriteString("DeclaringVariable(" + n.Type.String() + "," + n.Name)
		if n.Init != nil {
			b.WriteByte(',')
			format(b, n.Init)
		}
		b.WriteByte(')')
	case ExpressionInstruction:
		call(b, "ExpressionInstruction", n.Expr)
	case AssigningToMember:
		call(b, "AssigningToMember", n.Target, n.Expr)
	case IfOrIfElse:
		b.WriteString("IfOrIfElse(")
		format(b, n.Cond)
		b.WriteByte(',')
		formatBlock(b, n.Then)
		if n.HasElse {
			b.WriteByte(',')
			formatBlock(b, n.Else)
		}
		b.WriteByte(')')
	case LogicalExpression:
		chain(b, "LogicalExpression", n.Init, n.Alternatives)
	case ConditionConjunction:
		chain(b, "ConditionConjunction", n.Init, n.Conjunctions)
	case Condition:
		b.WriteString("Condition(")
		format(b, n.Left)
		b.WriteString("," + n.Op + ",")
		format(b, n.Right)
		b.WriteByte(')')
	case MathExpression:
		operations(b, "MathExpression", n.Init, n.Operations)
	case MathMultiplication:
		operations(b, "MathMultiplication", n.Init, n.Operations)
	case NegatedExpression:
		call(b, "NegatedExpression", n.Inner)
	case IncrementedExpression:
		call(b, "IncrementedExpression", n.Inner)
	case ValueGetter:
		for i, seg := range n.Chain {
			if i > 0 {
				b.WriteByte('.')
			}
			format(b, seg)
		}
	case StringExpression:
		b.WriteString(strconv.Quote(n.Value))
	case IntExpression:
		b.WriteString(strconv.FormatInt(n.Value, 10))
	case Variable:
		b.WriteString(n.Name)
	case FunctionCall:
		b.WriteString(n.Name + "(")
		for i, a := range n.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			format(b, a)
		}
		b.WriteByte(')')
	default:
		b.WriteString("?")
	}
}

func call(b *strings.Builder, name string, args ...any) {
	b.WriteString(name + "(")
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		format(b, a)
	}
	b.WriteByte(')')
}

func chain(b *strings.Builder, name string, init Expr, rest []Expr) {
	b.WriteString(name + "(")
	format(b, init)
	b.WriteString(",[")
	for i, e := range rest {
		if i > 0 {
			b.WriteByte(',')
		}
		format(b, e)
	}
	b.WriteString("])")
}

func operations(b *strings.Builder, name string, init Expr, ops []Operation) {
	b.WriteString(name + "(")
	format(b, init)
	b.WriteString(",[")
	for i, op := range ops {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("(" + op.Op + ",")
		format(b, op.Term)
		b.WriteByte(')')
	}
	b.WriteString("])")
}

func formatBlock(b *strings.Builder, body []Instruction) {
	b.WriteByte('[')
	for i, in := range body {
		if i > 0 {
			b.WriteByte(',')
		}
		format(b, in)
	}
	b.WriteByte(']')
}
