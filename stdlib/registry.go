// Package stdlib is the capability table of the language: free functions,
// constructible object types, plugins loadable with dllload and the members
// each value type exposes. The analyzer reads signatures from it and the
// executor invokes through it, so both agree on what a name means.
package stdlib

import (
	"sort"

	"github.com/gosuda/variant/value"
)

// Func implements a free function, constructor or plugin.
type Func func(h *Host, args []value.Value) (value.Value, error)

type Function struct {
	Name   string
	Params []value.Type
	Return value.Type
	Call   Func
}

// Member is a method (Call set) or a property (Get set, Set when writable)
// of a value type. Type is the property type or the method's return type.
type Member struct {
	Name   string
	Type   value.Type
	Params []value.Type
	Get    func(recv value.Value) (value.Value, error)
	Set    func(recv value.Value, v value.Value) error
	Call   func(h *Host, recv value.Value, args []value.Value) (value.Value, error)
}

func (m *Member) IsMethod() bool { return m.Call != nil }

func (m *Member) Settable() bool { return m.Set != nil }

// Registry is built once and read-only afterwards.
type Registry struct {
	functions    map[string]*Function
	constructors map[string]*Function
	plugins      map[string]*Function
	methods      map[value.Type]map[string]*Member
	properties   map[value.Type]map[string]*Member
}

type Option func(*Registry)

// WithFunctions adds or replaces free functions.
func WithFunctions(fns ...*Function) Option {
	return func(r *Registry) {
		for _, fn := range fns {
			r.functions[fn.Name] = fn
		}
	}
}

// WithPlugins makes fns available to scripts that declare them with dllload.
func WithPlugins(fns ...*Function) Option {
	return func(r *Registry) {
		for _, fn := range fns {
			r.plugins[fn.Name] = fn
		}
	}
}

// WithMembers adds members to value type t.
func WithMembers(t value.Type, members ...*Member) Option {
	return func(r *Registry) {
		r.addMembers(t, members...)
	}
}

// NewRegistry returns the standard library with opts applied on top.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		functions:    map[string]*Function{},
		constructors: map[string]*Function{},
		plugins:      map[string]*Function{},
		methods:      map[value.Type]map[string]*Member{},
		properties:   map[value.Type]map[string]*Member{},
	}
	for _, fn := range builtinFunctions() {
		r.functions[fn.Name] = fn
	}
	r.constructors["File"] = fileConstructor()
	r.constructors["Directory"] = directoryConstructor()
	r.addMembers(value.File, fileMembers()...)
	r.addMembers(value.Directory, directoryMembers()...)
	r.addMembers(value.String, stringMembers()...)
	r.addMembers(value.FileList, listMembers()...)
	r.addMembers(value.DirectoryList, listMembers()...)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) addMembers(t value.Type, members ...*Member) {
	for _, m := range members {
		table := r.properties
		if m.IsMethod() {
			table = r.methods
		}
		if table[t] == nil {
			table[t] = map[string]*Member{}
		}
		table[t][m.Name] = m
	}
}

func (r *Registry) Function(name string) (*Function, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}

func (r *Registry) Constructor(name string) (*Function, bool) {
	fn, ok := r.constructors[name]
	return fn, ok
}

func (r *Registry) Plugin(name string) (*Function, bool) {
	fn, ok := r.plugins[name]
	return fn, ok
}

// Member resolves a member of type t: a method when call is set, a property
// otherwise.
func (r *Registry) Member(t value.Type, name string, call bool) (*Member, bool) {
	table := r.properties
	if call {
		table = r.methods
	}
	m, ok := table[t][name]
	return m, ok
}

// Members lists the properties and methods of t sorted by name, properties
// first.
func (r *Registry) Members(t value.Type) []*Member {
	var out []*Member
	for _, table := range []map[value.Type]map[string]*Member{r.properties, r.methods} {
		start := len(out)
		for _, m := range table[t] {
			out = append(out, m)
		}
		part := out[start:]
		sort.Slice(part, func(i, j int) bool { return part[i].Name < part[j].Name })
	}
	return out
}

// Functions lists the free functions sorted by name.
func (r *Registry) Functions() []*Function {
	return sortedFunctions(r.functions)
}

// Constructors lists the constructors sorted by name.
func (r *Registry) Constructors() []*Function {
	return sortedFunctions(r.constructors)
}

// Plugins lists the loadable plugins sorted by name.
func (r *Registry) Plugins() []*Function {
	return sortedFunctions(r.plugins)
}

func sortedFunctions(m map[string]*Function) []*Function {
	out := make([]*Function, 0, len(m))
	for _, fn := range m {
		out = append(out, fn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
