package stdlib

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosuda/variant/value"
)

var ErrNotDirectory = errors.New("not a directory")

// Directory is the host object behind a Directory value. Listings are read
// from disk on every access and ordered by name.
type Directory struct {
	Path string
}

func NewDirectory(path string) *Directory {
	return &Directory{Path: path}
}

func (d *Directory) String() string { return d.Path }

func (d *Directory) entries() ([]os.DirEntry, error) {
	info, err := os.Stat(d.Path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", d.Path, ErrNotDirectory)
	}
	return os.ReadDir(d.Path)
}

// Files lists the regular files directly inside d.
func (d *Directory) Files() ([]*File, error) {
	entries, err := d.entries()
	if err != nil {
		return nil, err
	}
	var files []*File
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, NewFile(filepath.Join(d.Path, e.Name())))
		}
	}
	return files, nil
}

// Directories lists the subdirectories directly inside d.
func (d *Directory) Directories() ([]*Directory, error) {
	entries, err := d.entries()
	if err != nil {
		return nil, err
	}
	var dirs []*Directory
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, NewDirectory(filepath.Join(d.Path, e.Name())))
		}
	}
	return dirs, nil
}

func (d *Directory) Exists() bool {
	info, err := os.Stat(d.Path)
	return err == nil && info.IsDir()
}

func (d *Directory) Create() error {
	return os.MkdirAll(d.Path, 0o755)
}

// File names a file inside d; it need not exist.
func (d *Directory) File(name string) *File {
	return NewFile(filepath.Join(d.Path, name))
}

func asDirectory(v value.Value) (*Directory, error) {
	d, ok := v.Ref().(*Directory)
	if !ok || d == nil {
		return nil, fmt.Errorf("directory: %w", errWrongReceiver)
	}
	return d, nil
}

func directoryValue(d *Directory) value.Value {
	return value.Object(value.Directory, d)
}

func directoryConstructor() *Function {
	return &Function{
		Name:   "Directory",
		Params: []value.Type{value.String},
		Return: value.Directory,
		Call: func(_ *Host, args []value.Value) (value.Value, error) {
			return directoryValue(NewDirectory(args[0].String())), nil
		},
	}
}

func directoryProperty(name string, t value.Type, get func(d *Directory) (value.Value, error)) *Member {
	return &Member{
		Name: name,
		Type: t,
		Get: func(recv value.Value) (value.Value, error) {
			d, err := asDirectory(recv)
			if err != nil {
				return value.InvalidValue(), err
			}
			v, err := get(d)
			if err != nil {
				return value.InvalidValue(), fmt.Errorf("%s: %w", name, err)
			}
			return v, nil
		},
	}
}

func directoryMembers() []*Member {
	dirPath := directoryProperty("DirPath", value.String, func(d *Directory) (value.Value, error) {
		return value.Str(d.Path), nil
	})
	dirPath.Set = func(recv value.Value, v value.Value) error {
		d, err := asDirectory(recv)
		if err != nil {
			return err
		}
		d.Path = v.String()
		return nil
	}
	return []*Member{
		dirPath,
		directoryProperty("Files", value.FileList, func(d *Directory) (value.Value, error) {
			files, err := d.Files()
			if err != nil {
				return value.InvalidValue(), err
			}
			return fileList(files), nil
		}),
		directoryProperty("Directories", value.DirectoryList, func(d *Directory) (value.Value, error) {
			dirs, err := d.Directories()
			if err != nil {
				return value.InvalidValue(), err
			}
			items := make([]value.Value, len(dirs))
			for i, sub := range dirs {
				items[i] = directoryValue(sub)
			}
			return value.List(value.Directory, items), nil
		}),
		directoryProperty("NumberOfFiles", value.Int, func(d *Directory) (value.Value, error) {
			files, err := d.Files()
			if err != nil {
				return value.InvalidValue(), err
			}
			return value.Int64(int64(len(files))), nil
		}),
		{Name: "exists", Type: value.Int, Call: func(_ *Host, recv value.Value, _ []value.Value) (value.Value, error) {
			d, err := asDirectory(recv)
			if err != nil {
				return value.InvalidValue(), err
			}
			return boolInt(d.Exists()), nil
		}},
		{Name: "create", Type: value.Int, Call: func(_ *Host, recv value.Value, _ []value.Value) (value.Value, error) {
			d, err := asDirectory(recv)
			if err != nil {
				return value.InvalidValue(), err
			}
			if err := d.Create(); err != nil {
				return value.InvalidValue(), fmt.Errorf("create: %w", err)
			}
			return value.Int64(1), nil
		}},
		{Name: "file", Type: value.File, Params: []value.Type{value.String}, Call: func(_ *Host, recv value.Value, args []value.Value) (value.Value, error) {
			d, err := asDirectory(recv)
			if err != nil {
				return value.InvalidValue(), err
			}
			return fileValue(d.File(args[0].String())), nil
		}},
	}
}
