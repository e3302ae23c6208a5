package main

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/gosuda/variant/stdlib"
	"github.com/gosuda/variant/stdlib/imageedit"
	"github.com/gosuda/variant/value"
)

var memberTypes = []value.Type{value.String, value.File, value.Directory, value.FileList, value.DirectoryList}

// Prints the capability table of the standard library. Given a markdown
// file, it also lists the documented names the registry lacks and the
// registered names the document never mentions.
func main() {
	reg := stdlib.NewRegistry(stdlib.WithPlugins(imageedit.Plugins()...))
	known := map[string]struct{}{}

	section := func(title string, fns []*stdlib.Function) {
		fmt.Printf("## %s\n", title)
		for _, fn := range fns {
			fmt.Printf("  %s(%s) %s\n", fn.Name, typeList(fn.Params), fn.Return)
			known[fn.Name] = struct{}{}
		}
	}
	section("functions", reg.Functions())
	section("constructors", reg.Constructors())
	section("plugins", reg.Plugins())
	for _, t := range memberTypes {
		fmt.Printf("## %s\n", t)
		for _, m := range reg.Members(t) {
			if m.IsMethod() {
				fmt.Printf("  .%s(%s) %s\n", m.Name, typeList(m.Params), m.Type)
			} else {
				access := "read-only"
				if m.Settable() {
					access = "settable"
				}
				fmt.Printf("  .%s %s (%s)\n", m.Name, m.Type, access)
			}
			known[m.Name] = struct{}{}
		}
	}

	if len(os.Args) < 2 {
		return
	}
	documented, err := extractDocumented(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	missing := diff(documented, known)
	extra := diff(known, documented)
	fmt.Printf("missing in registry: %d\n", len(missing))
	for _, n := range missing {
		fmt.Println("  - " + n)
	}
	fmt.Printf("undocumented: %d\n", len(extra))
	for _, n := range extra {
		fmt.Println("  + " + n)
	}
}

func typeList(ts []value.Type) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

// extractDocumented collects the names written as `name(` or `.Name` inside
// backticks.
func extractDocumented(path string) (map[string]struct{}, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile("`\\.?([A-Za-z][A-Za-z0-9]*)(\\(|`)")
	set := map[string]struct{}{}
	for _, m := range re.FindAllStringSubmatch(string(b), -1) {
		set[m[1]] = struct{}{}
	}
	return set, nil
}

func diff(base, comp map[string]struct{}) []string {
	out := make([]string, 0)
	for n := range base {
		if _, ok := comp[n]; !ok {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
