package stdlib

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Output is one line printed by a script.
type Output struct {
	Text    string
	NewLine bool
}

// InputRequest is issued when a script asks the user for a line of text.
type InputRequest struct {
	Prompt string
}

// Host connects library functions to the outside world. Output and Input
// are optional hooks; every printed line is also kept and returned by
// Outputs. Queued input is consumed before Input is asked.
type Host struct {
	Output func(Output)
	Input  func(InputRequest) (string, error)

	outputs []Output
	queue   []string
}

// NewHost returns a host printing to stdout and reading lines from stdin.
// Either may be nil.
func NewHost(stdout io.Writer, stdin io.Reader) *Host {
	h := &Host{}
	if stdout != nil {
		h.Output = func(out Output) {
			if out.NewLine {
				fmt.Fprintln(stdout, out.Text)
			} else {
				fmt.Fprint(stdout, out.Text)
			}
		}
	}
	if stdin != nil {
		reader := bufio.NewReader(stdin)
		h.Input = func(InputRequest) (string, error) {
			line, err := reader.ReadString('\n')
			if err != nil && err != io.EOF {
				return "", err
			}
			return strings.TrimRight(line, "\r\n"), nil
		}
	}
	return h
}

func (h *Host) Emit(out Output) {
	h.outputs = append(h.outputs, out)
	if h.Output != nil {
		h.Output(out)
	}
}

func (h *Host) Println(text string) {
	h.Emit(Output{Text: text, NewLine: true})
}

// Outputs returns everything emitted since the last Reset.
func (h *Host) Outputs() []Output {
	return append([]Output(nil), h.outputs...)
}

func (h *Host) Reset() {
	h.outputs = h.outputs[:0]
}

// EnqueueInput pre-fills answers for upcoming input requests.
func (h *Host) EnqueueInput(values ...string) {
	h.queue = append(h.queue, values...)
}

// ReadLine prints prompt and returns one line of input. Without queued
// input and without an Input hook it returns the empty string.
func (h *Host) ReadLine(prompt string) (string, error) {
	h.Println(prompt)
	if len(h.queue) > 0 {
		v := h.queue[0]
		h.queue = h.queue[1:]
		return v, nil
	}
	if h.Input == nil {
		return "", nil
	}
	v, err := h.Input(InputRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return v, nil
}
