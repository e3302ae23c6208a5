package stdlib

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gosuda/variant/value"
)

// Casers keep state between calls, so each conversion gets its own.
func upper(s string) string { return cases.Upper(language.Und).String(s) }
func lower(s string) string { return cases.Lower(language.Und).String(s) }
func title(s string) string { return cases.Title(language.Und).String(s) }

func builtinFunctions() []*Function {
	str := []value.Type{value.String}
	return []*Function{
		{Name: "appendPath", Params: []value.Type{value.String, value.String}, Return: value.String, Call: appendPath},
		{Name: "toInt", Params: str, Return: value.Int, Call: toInt},
		{Name: "toString", Params: []value.Type{value.Int}, Return: value.String, Call: toString},
		{Name: "print", Params: str, Return: value.Void, Call: printLine},
		{Name: "input", Params: str, Return: value.String, Call: readInput},
		{Name: "folder", Params: str, Return: value.FileList, Call: folder},
		{Name: "upper", Params: str, Return: value.String, Call: mapString(upper)},
		{Name: "lower", Params: str, Return: value.String, Call: mapString(lower)},
		{Name: "title", Params: str, Return: value.String, Call: mapString(title)},
		{Name: "length", Params: str, Return: value.Int, Call: length},
		{Name: "exists", Params: str, Return: value.Int, Call: exists},
	}
}

// AppendPath inserts suffix between the file name and its extension:
// "img/cat.png" + "_small" gives "img/cat_small.png".
func AppendPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

func appendPath(_ *Host, args []value.Value) (value.Value, error) {
	return value.Str(AppendPath(args[0].String(), args[1].String())), nil
}

func toInt(_ *Host, args []value.Value) (value.Value, error) {
	s := strings.TrimSpace(args[0].String())
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return value.InvalidValue(), fmt.Errorf("%q is not an integer", s)
	}
	return value.Int64(n), nil
}

func toString(_ *Host, args []value.Value) (value.Value, error) {
	return value.Str(strconv.FormatInt(args[0].Int(), 10)), nil
}

func printLine(h *Host, args []value.Value) (value.Value, error) {
	h.Println(args[0].String())
	return value.VoidValue(), nil
}

func readInput(h *Host, args []value.Value) (value.Value, error) {
	line, err := h.ReadLine(args[0].String())
	if err != nil {
		return value.InvalidValue(), err
	}
	return value.Str(line), nil
}

func folder(_ *Host, args []value.Value) (value.Value, error) {
	files, err := NewDirectory(args[0].String()).Files()
	if err != nil {
		return value.InvalidValue(), err
	}
	return fileList(files), nil
}

func mapString(f func(string) string) Func {
	return func(_ *Host, args []value.Value) (value.Value, error) {
		return value.Str(f(args[0].String())), nil
	}
}

func length(_ *Host, args []value.Value) (value.Value, error) {
	return value.Int64(int64(utf8.RuneCountInString(args[0].String()))), nil
}

func exists(_ *Host, args []value.Value) (value.Value, error) {
	_, err := os.Stat(args[0].String())
	return boolInt(err == nil), nil
}

func boolInt(b bool) value.Value {
	if b {
		return value.Int64(1)
	}
	return value.Int64(0)
}

func stringMembers() []*Member {
	return []*Member{
		{Name: "Length", Type: value.Int, Get: func(recv value.Value) (value.Value, error) {
			return value.Int64(int64(utf8.RuneCountInString(recv.String()))), nil
		}},
		{Name: "upper", Type: value.String, Call: func(_ *Host, recv value.Value, _ []value.Value) (value.Value, error) {
			return value.Str(upper(recv.String())), nil
		}},
		{Name: "lower", Type: value.String, Call: func(_ *Host, recv value.Value, _ []value.Value) (value.Value, error) {
			return value.Str(lower(recv.String())), nil
		}},
		{Name: "contains", Type: value.Int, Params: []value.Type{value.String}, Call: func(_ *Host, recv value.Value, args []value.Value) (value.Value, error) {
			return boolInt(strings.Contains(recv.String(), args[0].String())), nil
		}},
	}
}

func listMembers() []*Member {
	return []*Member{
		{Name: "Count", Type: value.Int, Get: func(recv value.Value) (value.Value, error) {
			return value.Int64(int64(len(recv.Items()))), nil
		}},
	}
}
