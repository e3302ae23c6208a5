package stdlib

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosuda/variant/value"
)

var errWrongReceiver = errors.New("receiver has the wrong type")

// File is the host object behind a File value. Values share the pointer, so
// changing FilePath through one variable is visible through every other.
type File struct {
	Path string
}

func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) String() string { return f.Path }

// Name is the base name without extension.
func (f *File) Name() string {
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Extension is the extension without the leading dot, or "".
func (f *File) Extension() string {
	return strings.TrimPrefix(filepath.Ext(f.Path), ".")
}

func (f *File) Size() (int64, error) {
	info, err := os.Stat(f.Path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (f *File) Exists() bool {
	info, err := os.Stat(f.Path)
	return err == nil && info.Mode().IsRegular()
}

func (f *File) Read() (string, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (f *File) Write(s string) error {
	return os.WriteFile(f.Path, []byte(s), 0o644)
}

func (f *File) Append(s string) error {
	fh, err := os.OpenFile(f.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := fh.WriteString(s); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

func (f *File) Delete() error {
	return os.Remove(f.Path)
}

// target resolves dst; an existing directory receives the file under its
// current base name.
func (f *File) target(dst string) string {
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		return filepath.Join(dst, filepath.Base(f.Path))
	}
	return dst
}

func (f *File) CopyTo(dst string) (*File, error) {
	dst = f.target(dst)
	in, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return nil, fmt.Errorf("copy %s: %w", f.Path, err)
	}
	if err := out.Close(); err != nil {
		return nil, err
	}
	return NewFile(dst), nil
}

// MoveTo renames the file and points f at the new location.
func (f *File) MoveTo(dst string) (*File, error) {
	dst = f.target(dst)
	if err := os.Rename(f.Path, dst); err != nil {
		return nil, err
	}
	f.Path = dst
	return f, nil
}

func asFile(v value.Value) (*File, error) {
	f, ok := v.Ref().(*File)
	if !ok || f == nil {
		return nil, fmt.Errorf("file: %w", errWrongReceiver)
	}
	return f, nil
}

func fileValue(f *File) value.Value {
	return value.Object(value.File, f)
}

func fileList(files []*File) value.Value {
	items := make([]value.Value, len(files))
	for i, f := range files {
		items[i] = fileValue(f)
	}
	return value.List(value.File, items)
}

func fileConstructor() *Function {
	return &Function{
		Name:   "File",
		Params: []value.Type{value.String},
		Return: value.File,
		Call: func(_ *Host, args []value.Value) (value.Value, error) {
			return fileValue(NewFile(args[0].String())), nil
		},
	}
}

// fileGetter adapts a string accessor of *File to a property getter.
func fileGetter(get func(*File) string) func(value.Value) (value.Value, error) {
	return func(recv value.Value) (value.Value, error) {
		f, err := asFile(recv)
		if err != nil {
			return value.InvalidValue(), err
		}
		return value.Str(get(f)), nil
	}
}

// fileMethod adapts an operation on *File that takes string arguments.
func fileMethod(name string, params int, ret value.Type, call func(f *File, args []string) (value.Value, error)) *Member {
	types := make([]value.Type, params)
	for i := range types {
		types[i] = value.String
	}
	return &Member{
		Name:   name,
		Type:   ret,
		Params: types,
		Call: func(_ *Host, recv value.Value, args []value.Value) (value.Value, error) {
			f, err := asFile(recv)
			if err != nil {
				return value.InvalidValue(), err
			}
			strs := make([]string, len(args))
			for i, a := range args {
				strs[i] = a.String()
			}
			v, err := call(f, strs)
			if err != nil {
				return value.InvalidValue(), fmt.Errorf("%s: %w", name, err)
			}
			return v, nil
		},
	}
}

func fileMembers() []*Member {
	return []*Member{
		{
			Name: "FilePath",
			Type: value.String,
			Get:  fileGetter(func(f *File) string { return f.Path }),
			Set: func(recv value.Value, v value.Value) error {
				f, err := asFile(recv)
				if err != nil {
					return err
				}
				f.Path = v.String()
				return nil
			},
		},
		{Name: "Name", Type: value.String, Get: fileGetter((*File).Name)},
		{Name: "Extension", Type: value.String, Get: fileGetter((*File).Extension)},
		{Name: "Size", Type: value.Int, Get: func(recv value.Value) (value.Value, error) {
			f, err := asFile(recv)
			if err != nil {
				return value.InvalidValue(), err
			}
			n, err := f.Size()
			if err != nil {
				return value.InvalidValue(), err
			}
			return value.Int64(n), nil
		}},
		fileMethod("read", 0, value.String, func(f *File, _ []string) (value.Value, error) {
			s, err := f.Read()
			return value.Str(s), err
		}),
		fileMethod("write", 1, value.Int, func(f *File, args []string) (value.Value, error) {
			return value.Int64(int64(len(args[0]))), f.Write(args[0])
		}),
		fileMethod("append", 1, value.Int, func(f *File, args []string) (value.Value, error) {
			return value.Int64(int64(len(args[0]))), f.Append(args[0])
		}),
		fileMethod("exists", 0, value.Int, func(f *File, _ []string) (value.Value, error) {
			return boolInt(f.Exists()), nil
		}),
		fileMethod("delete", 0, value.Int, func(f *File, _ []string) (value.Value, error) {
			return value.Int64(1), f.Delete()
		}),
		fileMethod("copyTo", 1, value.File, func(f *File, args []string) (value.Value, error) {
			c, err := f.CopyTo(args[0])
			if err != nil {
				return value.InvalidValue(), err
			}
			return fileValue(c), nil
		}),
		fileMethod("moveTo", 1, value.File, func(f *File, args []string) (value.Value, error) {
			m, err := f.MoveTo(args[0])
			if err != nil {
				return value.InvalidValue(), err
			}
			return fileValue(m), nil
		}),
	}
}
