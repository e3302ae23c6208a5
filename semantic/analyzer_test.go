package semantic_test

import (
	"testing"

	"github.com/gosuda/variant/diag"
	"github.com/gosuda/variant/parser"
	"github.com/gosuda/variant/semantic"
	"github.com/gosuda/variant/stdlib"
	"github.com/gosuda/variant/stdlib/imageedit"
)

// check parses src strictly and validates it while collecting diagnostics.
func check(t *testing.T, src string) (bool, *diag.Collector, error) {
	t.Helper()
	prog, err := parser.ParseString(src, diag.NewSink(nil))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	c := diag.NewCollector(nil)
	reg := stdlib.NewRegistry(stdlib.WithPlugins(imageedit.Plugins()...))
	a := semantic.New(reg, diag.NewSink(c))
	ok := a.Validate(prog)
	return ok, c, a.Err()
}

func expectValid(t *testing.T, src string) {
	t.Helper()
	ok, c, err := check(t, src)
	if !ok {
		t.Fatalf("expected valid program, got %v %v", c.Diagnostics(), err)
	}
}

func expectKind(t *testing.T, src string, kind diag.Kind) {
	t.Helper()
	ok, c, _ := check(t, src)
	if ok {
		t.Fatalf("expected %s, program validated", kind)
	}
	if !c.Has(kind) {
		t.Fatalf("expected %s, got %v", kind, c.Diagnostics())
	}
}

func TestWrongTypeInDeclaration(t *testing.T) {
	ok, c, _ := check(t, `int main() { int a = "b"; return 0; }`)
	if ok {
		t.Fatalf("program validated")
	}
	d := c.Diagnostics()
	if len(d) != 1 || d[0].Kind != diag.WrongType {
		t.Fatalf("unexpected diagnostics: %v", d)
	}
	if d[0].Message != "expected type Int, received String" {
		t.Fatalf("unexpected message: %q", d[0].Message)
	}
}

func TestReturnReachability(t *testing.T) {
	expectKind(t, `int main(){}`, diag.FunctionDoesNotReturnAnything)
	expectValid(t, `int main(){return 0;}`)
	expectValid(t, `int main(){ if (1 == 1) { return 1; } else { return 2; } }`)
	expectKind(t, `int main(){ if (1 == 1) { return 1; } }`, diag.FunctionDoesNotReturnAnything)
	expectValid(t, `int main(){ foreach (file f in folder(".")) { return 1; } }`)
}

func TestZeroOperation(t *testing.T) {
	expectKind(t, `int main() { int b = 100 / (1-1); return b; }`, diag.IllegalZeroOperation)
	expectKind(t, `int main() { return 5 % 0; }`, diag.IllegalZeroOperation)
	expectValid(t, `int main() { int z = 0; return 5 / z; }`)
}

func TestShadowing(t *testing.T) {
	expectValid(t, `
int main() {
    int a = 1;
    if (a == 1) {
        string a = "inner";
        print(a);
    }
    return a;
}`)
	expectKind(t, `int main() { int a = 1; int a = 2; return a; }`, diag.VariableAlreadyDeclared)
	expectKind(t, `int f(int a) { int a = 2; return a; } int main() { return f(1); }`, diag.VariableAlreadyDeclared)
}

func TestLoopVariableIsLocalToLoop(t *testing.T) {
	expectKind(t, `
int main() {
    foreach (file f in folder(".")) {
        print(f.Name);
    }
    print(f.Name);
    return 0;
}`, diag.UnresolvedReference)
}

func TestReferences(t *testing.T) {
	expectKind(t, `int main() { return x; }`, diag.UnresolvedReference)
	expectKind(t, `int main() { return missing(); }`, diag.UnresolvedReference)
	expectKind(t, `int main() { file f = File("a"); return f.Nope; }`, diag.UnresolvedReference)
	expectKind(t, `dllload nothing; int main() { return 0; }`, diag.UnresolvedReference)
	expectValid(t, `dllload sepia; int main() { sepia("a.png", "b.png"); return 0; }`)
	expectKind(t, `int main() { sepia("a.png", "b.png"); return 0; }`, diag.UnresolvedReference)
}

func TestDeclarationErrors(t *testing.T) {
	expectKind(t, `int f(int a, string a) { return 1; } int main() { return 0; }`, diag.ParameterDuplicated)
	expectKind(t, `int print(string s) { return 1; } int main() { return 0; }`, diag.FunctionAlreadyDeclared)
	expectKind(t, `int main(int argc) { return argc; }`, diag.WrongArgumentCount)

	_, c, err := check(t, `int helper() { return 1; }`)
	if !diag.IsFatal(err) || !c.Has(diag.MainNotOccured) {
		t.Fatalf("expected fatal MainNotOccured, got %v", err)
	}
}

func TestCalls(t *testing.T) {
	expectKind(t, `int main() { print("a", "b"); return 0; }`, diag.WrongArgumentCount)
	expectKind(t, `int main() { print(1); return 0; }`, diag.WrongType)
	expectValid(t, `
string greet(string who) { return "hi " + who; }
int main() {
    print(greet(toString(length("abc"))));
    return toInt("3") * 2;
}`)
}

func TestOperators(t *testing.T) {
	expectKind(t, `int main() { string s = "a" - "b"; return 0; }`, diag.IllegalStringOperation)
	expectKind(t, `int main() { string s = "a" + 1; return 0; }`, diag.IllegalStringOperation)
	expectKind(t, `int main() { if ("a" < "b") { return 1; } return 0; }`, diag.IllegalStringOperation)
	expectKind(t, `int main() { if (1 == "b") { return 1; } return 0; }`, diag.WrongType)
	expectKind(t, `int main() { if (1) { return 1; } return 0; }`, diag.WrongType)
	expectKind(t, `int main() { return "a" * 2; }`, diag.WrongType)
	expectKind(t, `int main() { return 1 + "a"; }`, diag.WrongType)
	expectValid(t, `int main() { if ("a" == "b" || 1 < 2 && 3 >= 3) { return 1; } return 0; }`)
}

func TestNegationAndIncrement(t *testing.T) {
	expectValid(t, `int main() { int a = 1; a++; return -a + -(a * 2); }`)
	expectKind(t, `int main() { string s = -"a"; return 0; }`, diag.IllegalNegation)
	expectKind(t, `int main() { string s = "a"; s++; return 0; }`, diag.IllegalIncrement)
	expectKind(t, `int main() { file f = File("a"); f.Size++; return 0; }`, diag.IllegalIncrement)
	expectKind(t, `int main() { return 1++; }`, diag.IllegalIncrement)
}

func TestAssignment(t *testing.T) {
	expectValid(t, `
int main() {
    file f = File("a.txt");
    f.FilePath = appendPath(f.FilePath, "_copy");
    string s;
    s = f.Name;
    return 0;
}`)
	expectKind(t, `int main() { file f = File("a"); f.Name = "b"; return 0; }`, diag.IllegalAssignment)
	expectKind(t, `int main() { file f = File("a"); f.read() = "b"; return 0; }`, diag.IllegalAssignment)
	expectKind(t, `int main() { 1 = 2; return 0; }`, diag.IllegalAssignment)
	expectKind(t, `int main() { int a; a = "x"; return 0; }`, diag.WrongType)
}

func TestForeachElementType(t *testing.T) {
	expectKind(t, `int main() { foreach (directory d in folder(".")) { print(d.DirPath); } return 0; }`, diag.WrongType)
	expectValid(t, `
int main() {
    directory root = Directory(".");
    foreach (directory d in root.Directories) {
        foreach (file f in d.Files) {
            print(f.Name + "." + f.Extension);
        }
    }
    return root.NumberOfFiles;
}`)
}

func TestFailFastStopsAtFirst(t *testing.T) {
	prog, err := parser.ParseString(`int main() { int a = "x"; int a = 1; return a; }`, diag.NewSink(nil))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	a := semantic.New(nil, diag.NewSink(diag.FailFast{}))
	if a.Validate(prog) {
		t.Fatalf("program validated")
	}
	if k, _ := diag.KindOf(a.Err()); k != diag.WrongType {
		t.Fatalf("unexpected error: %v", a.Err())
	}
}
