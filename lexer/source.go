package lexer

import (
	"bufio"
	"io"
)

// EOT is returned by a Source once its input is exhausted.
const EOT rune = 0x03

// Source produces one character at a time. Line and Column describe the
// character most recently returned by Next.
type Source interface {
	Next() rune
	Line() int
	Column() int
}

type position struct {
	line    int
	column  int
	afterCR bool
	done    bool
}

func newPosition() position {
	return position{line: 1}
}

func (p *position) advance(r rune) {
	if p.done {
		return
	}
	switch r {
	case EOT:
		p.done = true
		p.column++
		return
	case '\r':
		p.line++
		p.column = 0
		p.afterCR = true
		return
	case '\n':
		if !p.afterCR {
			p.line++
		}
		p.column = 0
		p.afterCR = false
		return
	}
	p.afterCR = false
	p.column++
}

// StringSource reads characters from an in-memory script.
type StringSource struct {
	runes []rune
	idx   int
	pos   position
}

func NewStringSource(src string) *StringSource {
	return &StringSource{runes: []rune(src), pos: newPosition()}
}

func (s *StringSource) Next() rune {
	r := EOT
	if s.idx < len(s.runes) {
		r = s.runes[s.idx]
		s.idx++
	}
	s.pos.advance(r)
	return r
}

func (s *StringSource) Line() int   { return s.pos.line }
func (s *StringSource) Column() int { return s.pos.column }

// ReaderSource reads characters from a stream, typically a script file.
// Read errors other than io.EOF are kept in Err and end the input.
type ReaderSource struct {
	r   *bufio.Reader
	pos position
	err error
}

func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: bufio.NewReader(r), pos: newPosition()}
}

func (s *ReaderSource) Next() rune {
	if s.pos.done {
		return EOT
	}
	r, _, err := s.r.ReadRune()
	if err != nil {
		if err != io.EOF {
			s.err = err
		}
		r = EOT
	}
	s.pos.advance(r)
	return r
}

func (s *ReaderSource) Line() int   { return s.pos.line }
func (s *ReaderSource) Column() int { return s.pos.column }

// Err returns the first read error other than io.EOF.
func (s *ReaderSource) Err() error { return s.err }
