// Package scope implements the stack of lexical frames shared by the
// analyzer (names to types) and the executor (names to values).
package scope

type Stack[T any] struct {
	frames []map[string]T
}

func New[T any]() *Stack[T] {
	s := &Stack[T]{}
	s.Push()
	return s
}

func (s *Stack[T]) Push() {
	s.frames = append(s.frames, map[string]T{})
}

func (s *Stack[T]) Pop() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

func (s *Stack[T]) Depth() int { return len(s.frames) }

// Declare binds name in the innermost frame. It returns false, leaving the
// frame untouched, when the name is already bound there.
func (s *Stack[T]) Declare(name string, v T) bool {
	if len(s.frames) == 0 {
		s.Push()
	}
	top := s.frames[len(s.frames)-1]
	if _, ok := top[name]; ok {
		return false
	}
	top[name] = v
	return true
}

// Lookup searches from the innermost frame outwards.
func (s *Stack[T]) Lookup(name string) (T, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][name]; ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Assign rebinds the innermost existing binding of name.
func (s *Stack[T]) Assign(name string, v T) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, ok := s.frames[i][name]; ok {
			s.frames[i][name] = v
			return true
		}
	}
	return false
}
