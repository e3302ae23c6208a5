// Package value defines the language-level types and the runtime values the
// analyzer and executor pass around.
package value

import (
	"strconv"

	"github.com/gosuda/variant/ast"
)

// Type tags both static types and runtime values. Invalid marks an
// expression whose type could not be determined; it is reported once and
// then accepted everywhere to avoid cascading diagnostics.
type Type uint8

const (
	Void Type = iota
	Int
	String
	Bool
	File
	Directory
	FileList
	DirectoryList
	Invalid
)

var typeNames = [...]string{
	Void:          "Void",
	Int:           "Int",
	String:        "String",
	Bool:          "Bool",
	File:          "File",
	Directory:     "Directory",
	FileList:      "FileList",
	DirectoryList: "DirectoryList",
	Invalid:       "Invalid",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Elem is the element type of a list type, or Invalid.
func (t Type) Elem() Type {
	switch t {
	case FileList:
		return File
	case DirectoryList:
		return Directory
	}
	return Invalid
}

// ListOf is the list type holding elements of t, or Invalid.
func ListOf(t Type) Type {
	switch t {
	case File:
		return FileList
	case Directory:
		return DirectoryList
	}
	return Invalid
}

func FromDataType(t ast.DataType) Type {
	switch t {
	case ast.Int:
		return Int
	case ast.String:
		return String
	case ast.File:
		return File
	case ast.Directory:
		return Directory
	}
	return Invalid
}

// Value is a tagged runtime value. Objects (File, Directory) carry their
// host representation in ref; lists carry []Value.
type Value struct {
	typ Type
	i   int64
	s   string
	b   bool
	ref any
}

func Int64(v int64) Value { return Value{typ: Int, i: v} }

func Str(v string) Value { return Value{typ: String, s: v} }

func Boolean(v bool) Value { return Value{typ: Bool, b: v} }

func VoidValue() Value { return Value{typ: Void} }

func InvalidValue() Value { return Value{typ: Invalid} }

// Object wraps a host object of type t.
func Object(t Type, ref any) Value { return Value{typ: t, ref: ref} }

// List builds a FileList or DirectoryList.
func List(elem Type, items []Value) Value { return Value{typ: ListOf(elem), ref: items} }

// Zero is the value a declaration without initializer starts with.
func Zero(t Type) Value {
	switch t {
	case Int:
		return Int64(0)
	case String:
		return Str("")
	case Bool:
		return Boolean(false)
	case Void:
		return VoidValue()
	}
	return Value{typ: t}
}

func (v Value) Type() Type { return v.typ }

func (v Value) IsValid() bool { return v.typ != Invalid }

func (v Value) Int() int64 { return v.i }

func (v Value) Bool() bool { return v.b }

// Ref returns the host object behind an object value, or nil.
func (v Value) Ref() any { return v.ref }

// Items returns the elements of a list value.
func (v Value) Items() []Value {
	items, _ := v.ref.([]Value)
	return items
}

func (v Value) String() string {
	switch v.typ {
	case Int:
		return strconv.FormatInt(v.i, 10)
	case String:
		return v.s
	case Bool:
		return strconv.FormatBool(v.b)
	case Void:
		return "void"
	case Invalid:
		return "invalid"
	case FileList, DirectoryList:
		return v.typ.String() + "[" + strconv.Itoa(len(v.Items())) + "]"
	}
	if s, ok := v.ref.(interface{ String() string }); ok {
		return s.String()
	}
	return v.typ.String()
}
