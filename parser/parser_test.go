package parser_test

import (
	"testing"

	"github.com/kr/pretty"

	"github.com/gosuda/variant/ast"
	"github.com/gosuda/variant/diag"
	"github.com/gosuda/variant/parser"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.ParseString(src, diag.NewSink(nil))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return prog
}

func body(t *testing.T, prog *ast.Program, name string) []ast.Instruction {
	t.Helper()
	fn, ok := prog.Functions[name]
	if !ok {
		t.Fatalf("function %s not parsed", name)
	}
	return fn.Body
}

func TestOperatorPrecedence(t *testing.T) {
	prog := mustParse(t, `int main() { return 2*3 + 1 - 4%3; }`)
	got := ast.Format(body(t, prog, "main")[0])
	want := `Returning(MathExpression(MathMultiplication(2,[(*,3)]),[(+,1),(-,MathMultiplication(4,[(%,3)]))]))`
	if got != want {
		t.Fatalf("unexpected tree:\n got %s\nwant %s", got, want)
	}
}

func TestStatements(t *testing.T) {
	prog := mustParse(t, `
int main() {
    file f = File("a.txt");
    int n;
    foreach (file x in Directory("d").Files) {
        print(x.Name);
    }
    if (a > 1 && b == 2 || c) {
        a++;
    } else {
        a = -a;
    }
    f.FilePath = appendPath("out", f.Name);
    return (1 + 2) * 3;
}
`)
	want := []string{
		`DeclaringVariable(File,f,File("a.txt"))`,
		`DeclaringVariable(Int,n)`,
		`ForeachLoop(File,x,Directory("d").Files,[ExpressionInstruction(print(x.Name))])`,
		`IfOrIfElse(LogicalExpression(ConditionConjunction(Condition(a,>,1),[Condition(b,==,2)]),[c]),[ExpressionInstruction(IncrementedExpression(a))],[AssigningToMember(a,NegatedExpression(a))])`,
		`AssigningToMember(f.FilePath,appendPath("out",f.Name))`,
		`Returning(MathMultiplication(MathExpression(1,[(+,2)]),[(*,3)]))`,
	}
	got := body(t, prog, "main")
	if len(got) != len(want) {
		t.Fatalf("instruction count %d, want %d", len(got), len(want))
	}
	for i := range want {
		if s := ast.Format(got[i]); s != want[i] {
			t.Fatalf("instruction %d:\n got %s\nwant %s", i, s, want[i])
		}
	}
}

func TestIfWithoutElse(t *testing.T) {
	prog := mustParse(t, `int main() { if (1 == 1) { return 1; } return 0; }`)
	stmt, ok := body(t, prog, "main")[0].(ast.IfOrIfElse)
	if !ok {
		t.Fatalf("unexpected instruction: %T", body(t, prog, "main")[0])
	}
	if stmt.HasElse || stmt.Else != nil {
		t.Fatalf("else branch present: %+v", stmt)
	}
}

func TestFunctionDefinitionTree(t *testing.T) {
	prog := mustParse(t, `string f(int a, file b) { return "x"; }`)
	want := &ast.FunctionDefinition{
		Pos:        ast.Pos{Line: 1, Column: 1},
		Name:       "f",
		ReturnType: ast.String,
		Parameters: []ast.Parameter{
			{Pos: ast.Pos{Line: 1, Column: 10}, Type: ast.Int, Name: "a"},
			{Pos: ast.Pos{Line: 1, Column: 17}, Type: ast.File, Name: "b"},
		},
		Body: []ast.Instruction{
			ast.Returning{
				Pos:  ast.Pos{Line: 1, Column: 27},
				Expr: ast.StringExpression{Pos: ast.Pos{Line: 1, Column: 34}, Value: "x"},
			},
		},
	}
	if diff := pretty.Diff(want, prog.Functions["f"]); len(diff) > 0 {
		t.Fatalf("unexpected definition:\n%s", pretty.Sprint(diff))
	}
}

func TestDllLoadAndOrder(t *testing.T) {
	prog := mustParse(t, `
dllload imageedit;
int helper(string s) { return 1; }
int main() { return helper("x"); }
`)
	if len(prog.DllLoaders) != 1 || prog.DllLoaders[0].Name != "imageedit" {
		t.Fatalf("unexpected dll loaders: %# v", pretty.Formatter(prog.DllLoaders))
	}
	if len(prog.Order) != 2 || prog.Order[0] != "helper" || prog.Order[1] != "main" {
		t.Fatalf("unexpected order: %v", prog.Order)
	}
}

func TestMissingSemicolonFailsFast(t *testing.T) {
	_, err := parser.ParseString(`int main() { return 0 }`, diag.NewSink(nil))
	if k, ok := diag.KindOf(err); !ok || k != diag.UnexpectedToken {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCollectorKeepsParsing(t *testing.T) {
	c := diag.NewCollector(nil)
	prog, err := parser.ParseString(`int main() { int a = 1 int b = 2; return a }`, diag.NewSink(c))
	if err != nil {
		t.Fatalf("unexpected abort: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", c.Diagnostics())
	}
	for _, d := range c.Diagnostics() {
		if d.Kind != diag.UnexpectedToken {
			t.Fatalf("unexpected diagnostic: %v", d)
		}
	}
	if n := len(body(t, prog, "main")); n != 3 {
		t.Fatalf("expected 3 instructions, got %d", n)
	}
}

func TestDuplicateFunctionKeepsFirst(t *testing.T) {
	c := diag.NewCollector(nil)
	prog, err := parser.ParseString(`int f() { return 1; } int f() { return 2; }`, diag.NewSink(c))
	if err != nil {
		t.Fatalf("unexpected abort: %v", err)
	}
	if !c.Has(diag.FunctionNameAlreadyExists) {
		t.Fatalf("duplicate not reported: %v", c.Diagnostics())
	}
	if got := ast.Format(body(t, prog, "f")[0]); got != "Returning(1)" {
		t.Fatalf("second definition won: %s", got)
	}
}

func TestFatalSyntaxErrors(t *testing.T) {
	cases := map[string]diag.Kind{
		`int main() { return 0; } )`:  diag.Desynchronized,
		`int f(int a, ) { return a; }`: diag.MissingParameter,
		`dllload ;`:                    diag.IdentifierIsNull,
	}
	for src, want := range cases {
		c := diag.NewCollector(nil)
		_, err := parser.ParseString(src, diag.NewSink(c))
		if !diag.IsFatal(err) {
			t.Fatalf("%q: expected fatal error, got %v", src, err)
		}
		if k, _ := diag.KindOf(err); k != want {
			t.Fatalf("%q: got %s, want %s", src, k, want)
		}
	}
}

func TestLexicalErrorSurfacesFromParse(t *testing.T) {
	_, err := parser.ParseString(`int main() { return "open; }`, diag.NewSink(nil))
	if k, _ := diag.KindOf(err); k != diag.StringNotClosed {
		t.Fatalf("unexpected error: %v", err)
	}
}
