// Package ast holds the syntax tree produced by the parser. Nodes are plain
// values; a nil Expr or Instruction marks a construct the parser could not
// recover under a continuing diagnostic policy.
package ast

// DataType is a type name written in source.
type DataType uint8

const (
	Int DataType = iota
	String
	File
	Directory
)

func (t DataType) String() string {
	switch t {
	case Int:
		return "Int"
	case String:
		return "String"
	case File:
		return "File"
	case Directory:
		return "Directory"
	}
	return "Unknown"
}

// Pos is the source position of the first token of a node.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) Position() Pos { return p }

type Program struct {
	Functions  map[string]*FunctionDefinition
	Order      []string
	DllLoaders []DllLoader
}

func NewProgram() *Program {
	return &Program{Functions: make(map[string]*FunctionDefinition)}
}

// Add registers fn unless a function of that name exists already.
func (p *Program) Add(fn *FunctionDefinition) bool {
	if _, ok := p.Functions[fn.Name]; ok {
		return false
	}
	p.Functions[fn.Name] = fn
	p.Order = append(p.Order, fn.Name)
	return true
}

type FunctionDefinition struct {
	Pos
	Name       string
	ReturnType DataType
	Parameters []Parameter
	Body       []Instruction
}

type Parameter struct {
	Pos
	Type DataType
	Name string
}

type DllLoader struct {
	Pos
	Name string
}

type Instruction interface {
	Position() Pos
	isInstruction()
}

type Returning struct {
	Pos
	Expr Expr
}

func (Returning) isInstruction() {}

type ForeachLoop struct {
	Pos
	ElementType DataType
	Name        string
	Iterable    Expr
	Body        []Instruction
}

func (ForeachLoop) isInstruction() {}

// DeclaringVariable declares Name in the current block. Init is nil when the
// declaration has no initializer.
type DeclaringVariable struct {
	Pos
	Type DataType
	Name string
	Init Expr
}

func (DeclaringVariable) isInstruction() {}

type ExpressionInstruction struct {
	Pos
	Expr Expr
}

func (ExpressionInstruction) isInstruction() {}

type AssigningToMember struct {
	Pos
	Target Expr
	Expr   Expr
}

func (AssigningToMember) isInstruction() {}

type IfOrIfElse struct {
	Pos
	Cond    Expr
	Then    []Instruction
	Else    []Instruction
	HasElse bool
}

func (IfOrIfElse) isInstruction() {}

type Expr interface {
	Position() Pos
	isExpr()
}

// LogicalExpression is an OR chain.
type LogicalExpression struct {
	Pos
	Init         Expr
	Alternatives []Expr
}

func (LogicalExpression) isExpr() {}

// ConditionConjunction is an AND chain.
type ConditionConjunction struct {
	Pos
	Init         Expr
	Conjunctions []Expr
}

func (ConditionConjunction) isExpr() {}

type Condition struct {
	Pos
	Left  Expr
	Op    string
	Right Expr
}

func (Condition) isExpr() {}

// Operation is one `op term` step of an additive or multiplicative chain.
type Operation struct {
	Op   string
	Term Expr
}

type MathExpression struct {
	Pos
	Init       Expr
	Operations []Operation
}

func (MathExpression) isExpr() {}

type MathMultiplication struct {
	Pos
	Init       Expr
	Operations []Operation
}

func (MathMultiplication) isExpr() {}

type NegatedExpression struct {
	Pos
	Inner Expr
}

func (NegatedExpression) isExpr() {}

type IncrementedExpression struct {
	Pos
	Inner Expr
}

func (IncrementedExpression) isExpr() {}

// ValueGetter is a dotted chain like a.b(c).d. The first element is a
// Variable or FunctionCall; later elements name members of the value before.
type ValueGetter struct {
	Pos
	Chain []Expr
}

func (ValueGetter) isExpr() {}

type StringExpression struct {
	Pos
	Value string
}

func (StringExpression) isExpr() {}

type IntExpression struct {
	Pos
	Value int64
}

func (IntExpression) isExpr() {}

type Variable struct {
	Pos
	Name string
}

func (Variable) isExpr() {}

type FunctionCall struct {
	Pos
	Name string
	Args []Expr
}

func (FunctionCall) isExpr() {}
