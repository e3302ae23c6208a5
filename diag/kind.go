package diag

type Stage int

const (
	Lexical Stage = iota
	Syntactic
	Semantic
	Runtime
)

func (s Stage) String() string {
	switch s {
	case Lexical:
		return "lexical"
	case Syntactic:
		return "syntax"
	case Semantic:
		return "semantic"
	case Runtime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Kind identifies one diagnostic condition.
type Kind int

const (
	UnknownEscapeCharacter Kind = iota
	IntTooBig
	StringNotClosed
	IdentifierTooLong
	StringTooLong

	IdentifierIsNull
	UnexpectedToken
	UnexpectStatement
	MissingParameter
	FunctionNameAlreadyExists
	Desynchronized

	MainNotOccured
	FunctionAlreadyDeclared
	ParameterDuplicated
	UnrecognisedType
	UnresolvedReference
	WrongType
	FunctionDoesNotReturnAnything
	IllegalStringOperation
	IllegalZeroOperation
	VariableAlreadyDeclared
	WrongArgumentCount
	IllegalAssignment

	IllegalIncrement
	IllegalNegation

	VariableDoesNotExist
	IllegalExpression
	IllegalAdditionOperation
	IllegalMultiplicationOperation
	IllegalInstruction
	LibraryCallFailed

	kindCount
)

var kindNames = [...]string{
	UnknownEscapeCharacter:         "UnknownEscapeCharacter",
	IntTooBig:                      "IntTooBig",
	StringNotClosed:                "StringNotClosed",
	IdentifierTooLong:              "IdentifierTooLong",
	StringTooLong:                  "StringTooLong",
	IdentifierIsNull:               "IdentifierIsNull",
	UnexpectedToken:                "UnexpectedToken",
	UnexpectStatement:              "UnexpectStatement",
	MissingParameter:               "MissingParameter",
	FunctionNameAlreadyExists:      "FunctionNameAlreadyExists",
	Desynchronized:                 "Desynchronized",
	MainNotOccured:                 "MainNotOccured",
	FunctionAlreadyDeclared:        "FunctionAlreadyDeclared",
	ParameterDuplicated:            "ParameterDuplicated",
	UnrecognisedType:               "UnrecognisedType",
	UnresolvedReference:            "UnresolvedReference",
	WrongType:                      "WrongType",
	FunctionDoesNotReturnAnything:  "FunctionDoesNotReturnAnything",
	IllegalStringOperation:         "IllegalStringOperation",
	IllegalZeroOperation:           "IllegalZeroOperation",
	VariableAlreadyDeclared:        "VariableAlreadyDeclared",
	WrongArgumentCount:             "WrongArgumentCount",
	IllegalAssignment:              "IllegalAssignment",
	IllegalIncrement:               "IllegalIncrement",
	IllegalNegation:                "IllegalNegation",
	VariableDoesNotExist:           "VariableDoesNotExist",
	IllegalExpression:              "IllegalExpression",
	IllegalAdditionOperation:       "IllegalAdditionOperation",
	IllegalMultiplicationOperation: "IllegalMultiplicationOperation",
	IllegalInstruction:             "IllegalInstruction",
	LibraryCallFailed:              "LibraryCallFailed",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return "Unknown"
}

// Stage reports which pipeline stage normally raises k. The shared
// increment/negation kinds report Semantic.
func (k Kind) Stage() Stage {
	switch {
	case k <= StringTooLong:
		return Lexical
	case k <= Desynchronized:
		return Syntactic
	case k <= IllegalNegation:
		return Semantic
	default:
		return Runtime
	}
}

// Fatal reports whether k terminates the run regardless of policy.
func (k Kind) Fatal() bool {
	switch k {
	case MainNotOccured, StringNotClosed, IdentifierIsNull, MissingParameter, Desynchronized:
		return true
	}
	return false
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
