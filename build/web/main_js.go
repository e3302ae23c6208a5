//go:build js && wasm

package main

import (
	"encoding/json"
	"errors"
	"syscall/js"

	"github.com/gosuda/variant"
	"github.com/gosuda/variant/diag"
	"github.com/gosuda/variant/stdlib"
)

type runResult struct {
	Outputs     []stdlib.Output   `json:"outputs"`
	Diagnostics []diag.Diagnostic `json:"diagnostics,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// inputPrompt asks the page for a line through variantInputNext(prompt).
// Without that hook every input reads as the empty string.
func inputPrompt(req stdlib.InputRequest) (string, error) {
	fn := js.Global().Get("variantInputNext")
	if fn.Type() != js.TypeFunction {
		return "", nil
	}
	v := fn.Invoke(req.Prompt)
	if v.IsUndefined() || v.IsNull() {
		return "", nil
	}
	return v.String(), nil
}

// runScript is exposed as variantRun(src[, inputsJSON]) and returns JSON.
func runScript(this js.Value, args []js.Value) any {
	result := runResult{}
	if len(args) < 1 {
		result.Error = "variantRun requires the script source"
		return encode(result)
	}

	host := &stdlib.Host{Input: inputPrompt}
	if len(args) > 1 && args[1].String() != "" {
		var queued []string
		if err := json.Unmarshal([]byte(args[1].String()), &queued); err != nil {
			result.Error = "invalid inputs json: " + err.Error()
			return encode(result)
		}
		host.EnqueueInput(queued...)
	}

	c := diag.NewCollector(nil)
	out, err := variant.Run(args[0].String(), variant.WithHost(host), variant.WithPolicy(c))
	result.Outputs = out
	result.Diagnostics = c.Diagnostics()
	if err != nil {
		result.Error = err.Error()
		var de *diag.Error
		if len(result.Diagnostics) == 0 && errors.As(err, &de) {
			result.Diagnostics = []diag.Diagnostic{de.Diagnostic}
		}
	}
	return encode(result)
}

func encode(r runResult) string {
	b, _ := json.Marshal(r)
	return string(b)
}

func main() {
	js.Global().Set("variantRun", js.FuncOf(runScript))
	select {}
}
