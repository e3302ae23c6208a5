package diag

import "fmt"

// abort is the panic value a Sink uses to unwind the current stage.
type abort struct {
	err *Error
}

// Sink is shared by all stages of one pipeline run. Each method reports a
// single diagnostic kind; whether the call returns depends on the policy.
type Sink struct {
	policy Policy
	count  int
}

func NewSink(policy Policy) *Sink {
	if policy == nil {
		policy = FailFast{}
	}
	return &Sink{policy: policy}
}

func (s *Sink) Policy() Policy { return s.policy }

// Count is the number of diagnostics reported so far.
func (s *Sink) Count() int { return s.count }

// Recover turns a Sink abort into an error. Stage entry points defer it:
//
//	defer diag.Recover(&err)
//
// Panics that did not originate from a Sink are re-raised.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	a, ok := r.(abort)
	if !ok {
		panic(r)
	}
	*errp = a.err
}

func (s *Sink) report(kind Kind, line, col int, format string, args ...any) {
	d := Diagnostic{Kind: kind, Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
	s.count++
	err := s.policy.Handle(d)
	if err == nil && !kind.Fatal() {
		return
	}
	de, ok := err.(*Error)
	if !ok {
		de = &Error{Diagnostic: d}
	}
	de.Fatal = kind.Fatal()
	panic(abort{err: de})
}

// Lexical

func (s *Sink) UnknownEscapeCharacter(line, col int, ch rune) {
	s.report(UnknownEscapeCharacter, line, col, "unknown escape character %q in string", ch)
}

func (s *Sink) IntTooBig(line, col int) {
	s.report(IntTooBig, line, col, "integer literal too big")
}

func (s *Sink) StringNotClosed(line, col int) {
	s.report(StringNotClosed, line, col, "string literal is not closed")
}

func (s *Sink) IdentifierTooLong(line, col, limit int) {
	s.report(IdentifierTooLong, line, col, "identifier exceeds %d characters", limit)
}

func (s *Sink) StringTooLong(line, col, limit int) {
	s.report(StringTooLong, line, col, "string literal exceeds %d characters", limit)
}

// Syntactic

func (s *Sink) IdentifierIsNull(line, col int) {
	s.report(IdentifierIsNull, line, col, "identifier expected but none present")
}

func (s *Sink) UnexpectedToken(line, col int, expected, received string) {
	s.report(UnexpectedToken, line, col, "expected %s, received %s", expected, received)
}

func (s *Sink) UnexpectStatement(line, col int, expected, received string) {
	s.report(UnexpectStatement, line, col, "expected %s, received %s", expected, received)
}

func (s *Sink) MissingParameter(line, col int) {
	s.report(MissingParameter, line, col, "missing parameter")
}

func (s *Sink) FunctionNameAlreadyExists(line, col int, name string) {
	s.report(FunctionNameAlreadyExists, line, col, "function %s is already defined", name)
}

func (s *Sink) Desynchronized(line, col int, received string) {
	s.report(Desynchronized, line, col, "expected function definition or dllload, received %s", received)
}

// Semantic

func (s *Sink) MainNotOccured() {
	s.report(MainNotOccured, 0, 0, `program lacks a function called "main"`)
}

func (s *Sink) FunctionAlreadyDeclared(line, col int, name string) {
	s.report(FunctionAlreadyDeclared, line, col, "function %s is already declared", name)
}

func (s *Sink) ParameterDuplicated(line, col int, param, function string) {
	s.report(ParameterDuplicated, line, col, "parameter %s is duplicated in function %s", param, function)
}

func (s *Sink) UnrecognisedType(line, col int) {
	s.report(UnrecognisedType, line, col, "unrecognised expression type")
}

func (s *Sink) UnresolvedReference(line, col int, name string) {
	s.report(UnresolvedReference, line, col, "%s referenced before declaration", name)
}

func (s *Sink) WrongType(line, col int, expected, received fmt.Stringer) {
	s.report(WrongType, line, col, "expected type %s, received %s", expected, received)
}

func (s *Sink) FunctionDoesNotReturnAnything(line, col int, name string) {
	s.report(FunctionDoesNotReturnAnything, line, col, "function %s does not return on every path", name)
}

func (s *Sink) IllegalStringOperation(line, col int) {
	s.report(IllegalStringOperation, line, col, "illegal operation on string")
}

func (s *Sink) IllegalZeroOperation(line, col int) {
	s.report(IllegalZeroOperation, line, col, "division or modulo by zero")
}

func (s *Sink) VariableAlreadyDeclared(line, col int, name string) {
	s.report(VariableAlreadyDeclared, line, col, "variable %s is already declared in this block", name)
}

func (s *Sink) WrongArgumentCount(line, col int, name string, expected, received int) {
	s.report(WrongArgumentCount, line, col, "%s takes %d argument(s), received %d", name, expected, received)
}

func (s *Sink) IllegalAssignment(line, col int) {
	s.report(IllegalAssignment, line, col, "expression cannot be assigned to")
}

// Shared semantic/runtime

func (s *Sink) IllegalIncrement(line, col int) {
	s.report(IllegalIncrement, line, col, "illegal increment")
}

func (s *Sink) IllegalNegation(line, col int) {
	s.report(IllegalNegation, line, col, "illegal negation")
}

// Runtime

func (s *Sink) VariableDoesNotExist(line, col int, name string) {
	s.report(VariableDoesNotExist, line, col, "variable %s does not exist", name)
}

func (s *Sink) IllegalExpression(line, col int) {
	s.report(IllegalExpression, line, col, "illegal expression")
}

func (s *Sink) IllegalAdditionOperation(line, col int, left, right any) {
	s.report(IllegalAdditionOperation, line, col, "illegal addition between %v and %v", left, right)
}

func (s *Sink) IllegalMultiplicationOperation(line, col int) {
	s.report(IllegalMultiplicationOperation, line, col, "illegal multiplication")
}

func (s *Sink) IllegalInstruction(line, col int) {
	s.report(IllegalInstruction, line, col, "illegal instruction")
}

func (s *Sink) LibraryCallFailed(line, col int, name string, err error) {
	s.report(LibraryCallFailed, line, col, "%s: %v", name, err)
}
