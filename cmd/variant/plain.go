package main

import (
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"

	"github.com/gosuda/variant"
	"github.com/gosuda/variant/ast"
	"github.com/gosuda/variant/stdlib"
)

func runPlain(cfg appConfig, stdin io.Reader, stdout, stderr io.Writer) int {
	host := stdlib.NewHost(stdout, stdin)
	if f, ok := stdin.(*os.File); ok && cfg.path != "-" && isTerminal(f) {
		ln := liner.NewLiner()
		defer ln.Close()
		ln.SetCtrlCAborts(true)
		host.Input = func(stdlib.InputRequest) (string, error) {
			line, err := ln.Prompt("> ")
			if err != nil {
				return "", err
			}
			ln.AppendHistory(line)
			return line, nil
		}
	}

	s := newSession(cfg, host)
	var err error
	switch {
	case cfg.dump:
		var prog *ast.Program
		if prog, err = variant.Parse(cfg.src, s.opts...); err == nil {
			dumpProgram(stdout, prog)
		}
	case cfg.check:
		if _, err = variant.Check(cfg.src, s.opts...); err == nil {
			fmt.Fprintf(stdout, "%s: ok\n", cfg.path)
		}
	default:
		_, err = variant.Run(cfg.src, s.opts...)
	}
	if err != nil {
		newRenderer(cfg.path, cfg.src, stderr, cfg.color).report(err, s.diagnostics())
	}
	return exitCode(err)
}

func dumpProgram(w io.Writer, prog *ast.Program) {
	for _, d := range prog.DllLoaders {
		fmt.Fprintf(w, "dllload %s\n", d.Name)
	}
	for _, name := range prog.Order {
		fmt.Fprintln(w, ast.Format(prog.Functions[name]))
	}
}
