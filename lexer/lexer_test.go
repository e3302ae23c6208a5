package lexer_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/gosuda/variant/diag"
	"github.com/gosuda/variant/lexer"
)

func tokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	toks, err := lexer.Tokenize(lexer.NewStringSource(src), diag.NewSink(nil))
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	return toks
}

func kinds(toks []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestEscapedTab(t *testing.T) {
	toks := tokenize(t, `"sand\twich"`)
	if len(toks) != 2 || toks[0].Kind != lexer.StringLiteral {
		t.Fatalf("unexpected tokens: %v", toks)
	}
	if toks[0].Text != "sand\twich" {
		t.Fatalf("unexpected value: %q", toks[0].Text)
	}
}

func TestEscapesRoundTrip(t *testing.T) {
	encode := strings.NewReplacer("\\", `\\`, "\"", `\"`, "\n", `\n`, "\t", `\t`, "\x00", `\0`)
	for _, want := range []string{"", "plain", "a\nb", "tab\there", "nul\x00", `back\slash`, `say "hi"`, "\\\"\n\t\x00"} {
		toks := tokenize(t, `"`+encode.Replace(want)+`"`)
		if toks[0].Kind != lexer.StringLiteral || toks[0].Text != want {
			t.Fatalf("round trip %q: got %v %q", want, toks[0].Kind, toks[0].Text)
		}
	}
}

func TestUnknownEscapeKeepsCharacter(t *testing.T) {
	c := diag.NewCollector(nil)
	toks, err := lexer.Tokenize(lexer.NewStringSource(`"a\qb"`), diag.NewSink(c))
	if err != nil {
		t.Fatalf("unexpected abort: %v", err)
	}
	if toks[0].Text != "aqb" {
		t.Fatalf("unexpected value: %q", toks[0].Text)
	}
	d := c.Diagnostics()
	if len(d) != 1 || d[0].Kind != diag.UnknownEscapeCharacter || d[0].Column != 4 {
		t.Fatalf("unexpected diagnostics: %v", d)
	}
}

func TestStringNotClosed(t *testing.T) {
	_, err := lexer.Tokenize(lexer.NewStringSource(`"open`), diag.NewSink(diag.NewCollector(nil)))
	if k, ok := diag.KindOf(err); !ok || k != diag.StringNotClosed {
		t.Fatalf("unexpected error: %v", err)
	}
	if !diag.IsFatal(err) {
		t.Fatalf("StringNotClosed must be fatal")
	}

	_, err = lexer.Tokenize(lexer.NewStringSource(`"trailing\`), diag.NewSink(diag.NewCollector(nil)))
	if k, _ := diag.KindOf(err); k != diag.StringNotClosed {
		t.Fatalf("unexpected error for trailing backslash: %v", err)
	}
}

func TestStringTooLong(t *testing.T) {
	c := diag.NewCollector(nil)
	long := strings.Repeat("x", lexer.MaxStringLength+10)
	toks, err := lexer.Tokenize(lexer.NewStringSource(`"`+long+`"`), diag.NewSink(c))
	if err != nil {
		t.Fatalf("unexpected abort: %v", err)
	}
	if c.Len() != 1 || !c.Has(diag.StringTooLong) {
		t.Fatalf("unexpected diagnostics: %v", c.Diagnostics())
	}
	if len(toks[0].Text) != len(long) {
		t.Fatalf("string truncated to %d", len(toks[0].Text))
	}

	exact := strings.Repeat("y", lexer.MaxStringLength)
	if tokenize(t, `"`+exact+`"`)[0].Text != exact {
		t.Fatalf("string at the limit rejected")
	}
}

func TestIdentifierTooLong(t *testing.T) {
	c := diag.NewCollector(nil)
	name := strings.Repeat("n", lexer.MaxIdentifierLength+1)
	toks, err := lexer.Tokenize(lexer.NewStringSource(name), diag.NewSink(c))
	if err != nil {
		t.Fatalf("unexpected abort: %v", err)
	}
	if c.Len() != 1 || !c.Has(diag.IdentifierTooLong) {
		t.Fatalf("unexpected diagnostics: %v", c.Diagnostics())
	}
	if toks[0].Kind != lexer.Identifier || toks[0].Text != name {
		t.Fatalf("unexpected token: %v", toks[0])
	}
}

func TestIntLiterals(t *testing.T) {
	for _, v := range []int64{0, 7, 42, 1000000, 9223372036854775807} {
		text := strconv.FormatInt(v, 10)
		toks := tokenize(t, text)
		if toks[0].Kind != lexer.IntLiteral || toks[0].Int != v {
			t.Fatalf("%s: got %v %d", text, toks[0].Kind, toks[0].Int)
		}
		again := tokenize(t, strconv.FormatInt(toks[0].Int, 10))
		if again[0].Int != v {
			t.Fatalf("%s: re-lex gave %d", text, again[0].Int)
		}
	}
}

func TestIntTooBig(t *testing.T) {
	_, err := lexer.Tokenize(lexer.NewStringSource("9223372036854775808"), diag.NewSink(nil))
	if k, ok := diag.KindOf(err); !ok || k != diag.IntTooBig {
		t.Fatalf("unexpected error: %v", err)
	}

	c := diag.NewCollector(nil)
	toks, err := lexer.Tokenize(lexer.NewStringSource("99999999999999999999999 1"), diag.NewSink(c))
	if err != nil {
		t.Fatalf("unexpected abort: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %v", c.Diagnostics())
	}
	if len(toks) != 3 || toks[1].Int != 1 {
		t.Fatalf("lexing did not continue: %v", toks)
	}
}

func TestKeywordsAndOperators(t *testing.T) {
	src := `foreach if else int string file directory return dllload in
== != > >= < <= && || + - * / % ++ ! ( ) { } , . = ; name _x1`
	want := []lexer.Kind{
		lexer.Foreach, lexer.If, lexer.Else, lexer.Int, lexer.String, lexer.File,
		lexer.Directory, lexer.Return, lexer.DllLoad, lexer.In,
		lexer.Equals, lexer.NotEquals, lexer.Greater, lexer.GreaterOrEqual,
		lexer.Lesser, lexer.LesserOrEqual, lexer.And, lexer.Or, lexer.Plus,
		lexer.Minus, lexer.Multiplication, lexer.Division, lexer.Modulo,
		lexer.Increment, lexer.LogicNegation, lexer.ParenthesesOpen,
		lexer.ParenthesesClose, lexer.BracketsOpen, lexer.BracketsClose,
		lexer.Comma, lexer.Dot, lexer.Assign, lexer.Semicolon,
		lexer.Identifier, lexer.Identifier, lexer.EOF,
	}
	got := kinds(tokenize(t, src))
	if len(got) != len(want) {
		t.Fatalf("token count %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: %s, want %s", i, got[i], want[i])
		}
	}
}

func TestUndefinedCharacters(t *testing.T) {
	toks := tokenize(t, "a & b | c @")
	want := []string{"Identifier(a)", "Undefined(&)", "Identifier(b)", "Undefined(|)", "Identifier(c)", "Undefined(@)", "EndOfFile"}
	if len(toks) != len(want) {
		t.Fatalf("unexpected tokens: %v", toks)
	}
	for i, w := range want {
		if toks[i].String() != w {
			t.Fatalf("token %d: %s, want %s", i, toks[i], w)
		}
	}
}

func TestCommentsAndPositions(t *testing.T) {
	toks := tokenize(t, "int a; # trailing\r\n\r\n  return\nb")
	type pos struct{ line, col int }
	want := []pos{{1, 1}, {1, 5}, {1, 6}, {3, 3}, {4, 1}}
	for i, w := range want {
		if toks[i].Line != w.line || toks[i].Column != w.col {
			t.Fatalf("token %d (%s) at %d:%d, want %d:%d", i, toks[i], toks[i].Line, toks[i].Column, w.line, w.col)
		}
	}
	if toks[3].Kind != lexer.Return {
		t.Fatalf("comment not skipped: %v", toks)
	}
}

func TestLoneCarriageReturn(t *testing.T) {
	toks := tokenize(t, "a\rb\n\nc")
	if toks[1].Line != 2 || toks[2].Line != 4 {
		t.Fatalf("unexpected lines: %d %d", toks[1].Line, toks[2].Line)
	}
}

func TestEOFRepeats(t *testing.T) {
	l := lexer.New(lexer.NewStringSource("x"), diag.NewSink(nil))
	if tok := l.Next(); tok.Kind != lexer.Identifier {
		t.Fatalf("unexpected first token: %v", tok)
	}
	for i := 0; i < 3; i++ {
		if tok := l.Next(); tok.Kind != lexer.EOF {
			t.Fatalf("call %d after end: %v", i, tok)
		}
	}
}

func TestReaderSource(t *testing.T) {
	src := lexer.NewReaderSource(strings.NewReader("string s = \"é\";"))
	toks, err := lexer.Tokenize(src, diag.NewSink(nil))
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if len(toks) != 6 || toks[3].Text != "é" || toks[4].Column != 15 {
		t.Fatalf("unexpected tokens: %v", toks)
	}
	if src.Err() != nil {
		t.Fatalf("unexpected read error: %v", src.Err())
	}
}
