package vruntime_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gosuda/variant/diag"
	"github.com/gosuda/variant/parser"
	vruntime "github.com/gosuda/variant/runtime"
	"github.com/gosuda/variant/stdlib"
	"github.com/gosuda/variant/stdlib/imageedit"
	"github.com/gosuda/variant/value"
)

func run(t *testing.T, src string, opts ...vruntime.Option) ([]string, error) {
	t.Helper()
	prog, err := parser.ParseString(src, diag.NewSink(nil))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	reg := stdlib.NewRegistry(stdlib.WithPlugins(imageedit.Plugins()...))
	outs, err := vruntime.New(prog, reg, diag.NewSink(nil), opts...).Run()
	lines := make([]string, len(outs))
	for i, o := range outs {
		lines[i] = o.Text
	}
	return lines, err
}

func mustRun(t *testing.T, src string, opts ...vruntime.Option) []string {
	t.Helper()
	lines, err := run(t, src, opts...)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return lines
}

func expectLines(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected output: got %q want %q", got, want)
	}
}

// quote turns a host path into a string literal usable in a script.
func quote(path string) string {
	return `"` + filepath.ToSlash(path) + `"`
}

func TestArithmeticAndPrint(t *testing.T) {
	got := mustRun(t, `
int main() {
    int a = 2 + 3 * 4;
    int b = (2 + 3) * 4 - 7 % 4;
    print(toString(a) + " " + toString(b));
    print(toString(-a + 20 / 3));
    a++;
    print(toString(a++));
    print(toString(a));
    return 0;
}`)
	expectLines(t, got, "14 17", "-8", "16", "16")
}

func TestConditionsAndStrings(t *testing.T) {
	got := mustRun(t, `
string describe(int n) {
    if (n > 10 || n == 5 && 1 < 2) {
        return "big";
    } else {
        if (n >= 0) {
            return "small";
        }
    }
    return "negative";
}
int main() {
    print(describe(11));
    print(describe(5));
    print(describe(3));
    print(describe(-1));
    string s = "abc";
    if (s != "abd") {
        print(upper(s) + toString(s.Length) + toString(s.contains("bc")));
    }
    print(s.upper().lower());
    return 0;
}`)
	expectLines(t, got, "big", "big", "small", "negative", "ABC31", "abc")
}

func TestCallsAndScoping(t *testing.T) {
	got := mustRun(t, `
int fact(int n) {
    if (n <= 1) { return 1; }
    return n * fact(n - 1);
}
int shadow(int x) {
    int y = x;
    if (x > 0) {
        int y = 100;
        print(toString(y));
    }
    return y;
}
int main() {
    print(toString(fact(5)));
    int y = 7;
    print(toString(shadow(3)));
    print(toString(y));
    return 0;
}`)
	expectLines(t, got, "120", "100", "3", "7")
}

func TestEagerLogic(t *testing.T) {
	got := mustRun(t, `
int noisy(string s) {
    print(s);
    return 1;
}
int main() {
    if (1 == 1 || noisy("or") == 1) {
        print("yes");
    }
    if (1 == 2 && noisy("and") == 1) {
        print("no");
    }
    return 0;
}`)
	expectLines(t, got, "or", "yes", "and")
}

func TestRuntimeZeroDivision(t *testing.T) {
	_, err := run(t, `int main() { int z = 0; print("before"); return 10 / z; }`)
	if k, _ := diag.KindOf(err); k != diag.IllegalZeroOperation {
		t.Fatalf("expected IllegalZeroOperation, got %v", err)
	}

	lines, err := run(t, `int main() { int z = 0; print("before"); return 10 % z; }`)
	if err == nil || len(lines) != 1 || lines[0] != "before" {
		t.Fatalf("expected partial output and error, got %q %v", lines, err)
	}
}

func TestCollectorContinues(t *testing.T) {
	prog, err := parser.ParseString(`
int main() {
    int z = 0;
    int a = 5 / z;
    print("after " + toString(a));
    print("end");
    return 0;
}`, diag.NewSink(nil))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c := diag.NewCollector(nil)
	outs, err := vruntime.New(prog, nil, diag.NewSink(c)).Run()
	if err != nil {
		t.Fatalf("collector should not abort: %v", err)
	}
	if !c.Has(diag.IllegalZeroOperation) {
		t.Fatalf("zero division not reported: %v", c.Diagnostics())
	}
	if len(outs) != 1 || outs[0].Text != "end" {
		t.Fatalf("unexpected outputs: %+v", outs)
	}
}

func TestLibraryCallFailed(t *testing.T) {
	_, err := run(t, `int main() { return toInt("twelve"); }`)
	if k, _ := diag.KindOf(err); k != diag.LibraryCallFailed {
		t.Fatalf("expected LibraryCallFailed, got %v", err)
	}
}

func TestForeachOverFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.txt", "a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got := mustRun(t, `
int main() {
    int n = 0;
    foreach (file f in folder(`+quote(dir)+`)) {
        n++;
        print(toString(n) + ":" + f.Name + "." + f.Extension + "=" + f.read());
    }
    directory d = Directory(`+quote(dir)+`);
    foreach (directory sub in d.Directories) {
        print(toString(sub.NumberOfFiles));
    }
    print(toString(d.Files.Count));
    return n;
}`)
	expectLines(t, got, "1:a.txt=a.txt", "2:b.txt=b.txt", "3:c.txt=c.txt", "0", "3")
}

func TestForeachEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	got := mustRun(t, `
int main() {
    foreach (file f in folder(`+quote(dir)+`)) {
        print("never");
    }
    print("done");
    return 0;
}`)
	expectLines(t, got, "done")
}

func TestReturnFromLoop(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"x.log", "y.txt", "z.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	got := mustRun(t, `
string firstText(directory d) {
    foreach (file f in d.Files) {
        if (f.Extension == "txt") {
            return f.Name;
        }
    }
    return "none";
}
int main() {
    print(firstText(Directory(`+quote(dir)+`)));
    return 0;
}`)
	expectLines(t, got, "y")
}

func TestPropertyAssignment(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.txt")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := mustRun(t, `
int main() {
    file f = File(`+quote(src)+`);
    file c = f.copyTo(appendPath(f.FilePath, "_copy"));
    c.FilePath = appendPath(c.FilePath, "2");
    print(c.Name);
    print(f.Name);
    return 0;
}`)
	expectLines(t, got, "photo_copy2", "photo")
	if _, err := os.Stat(filepath.Join(dir, "photo_copy.txt")); err != nil {
		t.Fatalf("copy missing: %v", err)
	}
}

func TestInputQueue(t *testing.T) {
	host := stdlib.NewHost(nil, nil)
	host.EnqueueInput("Ada")
	got := mustRun(t, `
int main() {
    string name = input("name?");
    print("hello " + name);
    return 0;
}`, vruntime.WithHost(host))
	expectLines(t, got, "name?", "hello Ada")
}

func TestLookupPriority(t *testing.T) {
	shout := &stdlib.Function{
		Name:   "shout",
		Params: []value.Type{value.String},
		Return: value.String,
		Call: func(_ *stdlib.Host, args []value.Value) (value.Value, error) {
			return value.Str(args[0].String() + "!"), nil
		},
	}
	prog, err := parser.ParseString(`
string shout(string s) { return "user"; }
int main() { print(shout("lib")); return 0; }`, diag.NewSink(nil))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	reg := stdlib.NewRegistry(stdlib.WithFunctions(shout))
	outs, err := vruntime.New(prog, reg, diag.NewSink(nil)).Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(outs) != 1 || outs[0].Text != "lib!" {
		t.Fatalf("library function should win, got %+v", outs)
	}
}

func TestPluginNeedsDllload(t *testing.T) {
	_, err := run(t, `int main() { invert("a.png", "b.png"); return 0; }`)
	if k, _ := diag.KindOf(err); k != diag.IllegalExpression {
		t.Fatalf("undeclared plugin should not resolve, got %v", err)
	}
}

func TestDllloadImagePlugin(t *testing.T) {
	_, err := run(t, `
dllload invert;
int main() {
    invert("missing.png", "out.png");
    return 0;
}`)
	if k, _ := diag.KindOf(err); k != diag.LibraryCallFailed {
		t.Fatalf("expected LibraryCallFailed from plugin, got %v", err)
	}
}

func TestMissingMain(t *testing.T) {
	_, err := run(t, `int helper() { return 1; }`)
	if !diag.IsFatal(err) {
		t.Fatalf("expected fatal error, got %v", err)
	}
}
