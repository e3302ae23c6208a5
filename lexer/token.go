package lexer

// Kind is the type of a token.
type Kind uint8

const (
	Identifier Kind = iota
	IntLiteral
	StringLiteral
	Undefined
	EOF

	// keywords
	Foreach
	If
	Else
	Int
	String
	File
	Directory
	Return
	DllLoad
	In

	// operators
	Equals         // ==
	NotEquals      // !=
	Greater        // >
	GreaterOrEqual // >=
	Lesser         // <
	LesserOrEqual  // <=
	And            // &&
	Or             // ||
	Plus           // +
	Minus          // -
	Multiplication // *
	Division       // /
	Modulo         // %
	Increment      // ++
	LogicNegation  // !

	// punctuation
	ParenthesesOpen  // (
	ParenthesesClose // )
	BracketsOpen     // {
	BracketsClose    // }
	Comma            // ,
	Dot              // .
	Assign           // =
	Semicolon        // ;
)

var kindNames = [...]string{
	Identifier:       "Identifier",
	IntLiteral:       "IntLiteral",
	StringLiteral:    "StringLiteral",
	Undefined:        "Undefined",
	EOF:              "EndOfFile",
	Foreach:          "Foreach",
	If:               "If",
	Else:             "Else",
	Int:              "Int",
	String:           "String",
	File:             "File",
	Directory:        "Directory",
	Return:           "Return",
	DllLoad:          "DllLoad",
	In:               "In",
	Equals:           "Equals",
	NotEquals:        "NotEquals",
	Greater:          "Greater",
	GreaterOrEqual:   "GreaterOrEqual",
	Lesser:           "Lesser",
	LesserOrEqual:    "LesserOrEqual",
	And:              "And",
	Or:               "Or",
	Plus:             "Plus",
	Minus:            "Minus",
	Multiplication:   "Multiplication",
	Division:         "Division",
	Modulo:           "Modulo",
	Increment:        "Increment",
	LogicNegation:    "LogicNegation",
	ParenthesesOpen:  "ParenthesesOpen",
	ParenthesesClose: "ParenthesesClose",
	BracketsOpen:     "BracketsOpen",
	BracketsClose:    "BracketsClose",
	Comma:            "Comma",
	Dot:              "Dot",
	Assign:           "Assign",
	Semicolon:        "Semicolon",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

var keywords = map[string]Kind{
	"foreach":   Foreach,
	"if":        If,
	"else":      Else,
	"int":       Int,
	"string":    String,
	"file":      File,
	"directory": Directory,
	"return":    Return,
	"dllload":   DllLoad,
	"in":        In,
}

var singleChar = map[rune]Kind{
	'.': Dot,
	',': Comma,
	'{': BracketsOpen,
	'}': BracketsClose,
	'(': ParenthesesOpen,
	')': ParenthesesClose,
	'%': Modulo,
	'*': Multiplication,
	'/': Division,
	'-': Minus,
	';': Semicolon,
}

// Token is a lexical unit. Int is set for IntLiteral tokens; Text holds the
// name of an Identifier, the decoded value of a StringLiteral, or the
// offending character of an Undefined token.
type Token struct {
	Kind   Kind
	Line   int
	Column int
	Int    int64
	Text   string
}

func (t Token) String() string {
	switch t.Kind {
	case Identifier, Undefined:
		return t.Kind.String() + "(" + t.Text + ")"
	case StringLiteral:
		return t.Kind.String() + "(\"" + t.Text + "\")"
	default:
		return t.Kind.String()
	}
}
