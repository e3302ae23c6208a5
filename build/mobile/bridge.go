package mobile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gosuda/variant"
	"github.com/gosuda/variant/diag"
	"github.com/gosuda/variant/stdlib"
	"github.com/gosuda/variant/stdlib/imageedit"
)

type diagnostic struct {
	Kind    string `json:"kind"`
	Stage   string `json:"stage"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

type runResult struct {
	Outputs     []stdlib.Output `json:"outputs"`
	Diagnostics []diagnostic    `json:"diagnostics,omitempty"`
	Error       string          `json:"error,omitempty"`
	Fatal       bool            `json:"fatal,omitempty"`
}

// Run executes a script and returns the JSON encoded result.
// inputsJSON format: ["first answer", "second answer", ...]
// policy is "failfast" (default) or "collect".
func Run(src, inputsJSON, policy string) string {
	result := runResult{}

	var queued []string
	if strings.TrimSpace(inputsJSON) != "" {
		if err := json.Unmarshal([]byte(inputsJSON), &queued); err != nil {
			result.Error = fmt.Sprintf("invalid inputs json: %v", err)
			return encode(result)
		}
	}

	host := stdlib.NewHost(nil, nil)
	host.EnqueueInput(queued...)
	opts := []variant.Option{
		variant.WithHost(host),
		variant.WithRegistry(stdlib.NewRegistry(stdlib.WithPlugins(imageedit.Plugins()...))),
	}
	var c *diag.Collector
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "", "failfast":
	case "collect":
		c = diag.NewCollector(nil)
		opts = append(opts, variant.WithPolicy(c))
	default:
		result.Error = fmt.Sprintf("unknown policy %q", policy)
		return encode(result)
	}

	out, err := variant.Run(src, opts...)
	result.Outputs = out
	if err != nil {
		result.Error = err.Error()
		result.Fatal = diag.IsFatal(err)
		var de *diag.Error
		switch {
		case c != nil:
			for _, d := range c.Diagnostics() {
				result.Diagnostics = append(result.Diagnostics, toJSON(d))
			}
		case errors.As(err, &de):
			result.Diagnostics = []diagnostic{toJSON(de.Diagnostic)}
		}
	}
	return encode(result)
}

func toJSON(d diag.Diagnostic) diagnostic {
	return diagnostic{
		Kind:    d.Kind.String(),
		Stage:   d.Kind.Stage().String(),
		Line:    d.Line,
		Column:  d.Column,
		Message: d.Message,
	}
}

func encode(r runResult) string {
	b, _ := json.Marshal(r)
	return string(b)
}
