// Package lexer turns a character Source into Variant tokens, one token per
// call to Next.
package lexer

import (
	"math"
	"strings"
	"unicode"

	"github.com/gosuda/variant/diag"
)

const (
	MaxIdentifierLength = 50
	MaxStringLength     = 5000
)

type Lexer struct {
	src  Source
	sink *diag.Sink
	ch   rune
	line int
	col  int
}

func New(src Source, sink *diag.Sink) *Lexer {
	l := &Lexer{src: src, sink: sink}
	l.advance()
	return l
}

// Tokenize lexes the whole source, EOF token included. Tokens produced before
// an aborting diagnostic are returned along with the error.
func Tokenize(src Source, sink *diag.Sink) (toks []Token, err error) {
	defer diag.Recover(&err)
	l := New(src, sink)
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) advance() {
	l.ch = l.src.Next()
}

// Next returns the next token. Once the input is exhausted it keeps
// returning EOF. Diagnostics that abort unwind through Next; callers run it
// under diag.Recover.
func (l *Lexer) Next() Token {
	l.skipWhitespaceAndComments()
	l.line, l.col = l.src.Line(), l.src.Column()

	if l.ch == EOT {
		return l.token(EOF)
	}
	if tok, ok := l.singleChar(); ok {
		return tok
	}
	if tok, ok := l.operator(); ok {
		return tok
	}
	if tok, ok := l.intLiteral(); ok {
		return tok
	}
	if tok, ok := l.stringLiteral(); ok {
		return tok
	}
	if tok, ok := l.identifierOrKeyword(); ok {
		return tok
	}
	tok := l.token(Undefined)
	tok.Text = string(l.ch)
	l.advance()
	return tok
}

func (l *Lexer) token(kind Kind) Token {
	return Token{Kind: kind, Line: l.line, Column: l.col}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case unicode.IsSpace(l.ch):
			l.advance()
		case l.ch == '#':
			for l.ch != '\n' && l.ch != '\r' && l.ch != EOT {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) singleChar() (Token, bool) {
	kind, ok := singleChar[l.ch]
	if !ok {
		return Token{}, false
	}
	l.advance()
	return l.token(kind), true
}

func (l *Lexer) operator() (Token, bool) {
	var tail rune
	var paired, lone Kind
	switch l.ch {
	case '>':
		tail, paired, lone = '=', GreaterOrEqual, Greater
	case '<':
		tail, paired, lone = '=', LesserOrEqual, Lesser
	case '!':
		tail, paired, lone = '=', NotEquals, LogicNegation
	case '=':
		tail, paired, lone = '=', Equals, Assign
	case '&':
		tail, paired, lone = '&', And, Undefined
	case '|':
		tail, paired, lone = '|', Or, Undefined
	case '+':
		tail, paired, lone = '+', Increment, Plus
	default:
		return Token{}, false
	}
	first := l.ch
	l.advance()
	if l.ch == tail {
		l.advance()
		return l.token(paired), true
	}
	tok := l.token(lone)
	if lone == Undefined {
		tok.Text = string(first)
	}
	return tok, true
}

func (l *Lexer) intLiteral() (Token, bool) {
	if l.ch < '0' || l.ch > '9' {
		return Token{}, false
	}
	var v int64
	overflow := false
	for l.ch >= '0' && l.ch <= '9' {
		d := int64(l.ch - '0')
		if !overflow && v > (math.MaxInt64-d)/10 {
			overflow = true
			v = math.MaxInt64
			l.sink.IntTooBig(l.line, l.col)
		}
		if !overflow {
			v = v*10 + d
		}
		l.advance()
	}
	tok := l.token(IntLiteral)
	tok.Int = v
	return tok, true
}

func (l *Lexer) stringLiteral() (Token, bool) {
	if l.ch != '"' {
		return Token{}, false
	}
	var b strings.Builder
	n := 0
	l.advance()
	for l.ch != '"' && l.ch != EOT {
		ch := l.ch
		if ch == '\\' {
			l.advance()
			if l.ch == EOT {
				break
			}
			switch l.ch {
			case 'n':
				ch = '\n'
			case 't':
				ch = '\t'
			case '0':
				ch = 0
			case '\\':
				ch = '\\'
			case '"':
				ch = '"'
			default:
				ch = l.ch
				l.sink.UnknownEscapeCharacter(l.src.Line(), l.src.Column(), ch)
			}
		}
		if n == MaxStringLength {
			l.sink.StringTooLong(l.line, l.col, MaxStringLength)
		}
		b.WriteRune(ch)
		n++
		l.advance()
	}
	if l.ch == EOT {
		l.sink.StringNotClosed(l.line, l.col)
	} else {
		l.advance()
	}
	tok := l.token(StringLiteral)
	tok.Text = b.String()
	return tok, true
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *Lexer) identifierOrKeyword() (Token, bool) {
	if !isIdentStart(l.ch) {
		return Token{}, false
	}
	var b strings.Builder
	n := 0
	for isIdentPart(l.ch) {
		if n == MaxIdentifierLength {
			l.sink.IdentifierTooLong(l.line, l.col, MaxIdentifierLength)
		}
		b.WriteRune(l.ch)
		n++
		l.advance()
	}
	text := b.String()
	if kind, ok := keywords[text]; ok {
		return l.token(kind), true
	}
	tok := l.token(Identifier)
	tok.Text = text
	return tok, true
}
