package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

const (
	exitOK          = 0
	exitDiagnostics = 1
	exitFatal       = 2
	exitUsage       = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("variant", flag.ContinueOnError)
	fs.SetOutput(stderr)
	policy := fs.String("policy", "failfast", "diagnostic policy: failfast|collect")
	tui := fs.Bool("tui", false, "run the script in the terminal UI")
	check := fs.Bool("check", false, "validate the script without running it")
	dump := fs.Bool("dump", false, "print the parsed program and exit")
	color := fs.String("color", "auto", "colored diagnostics: auto|always|never")
	verbose := fs.Bool("v", false, "log calls and loop iterations")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: variant [flags] <script.var | ->")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}

	cfg := appConfig{
		path:    fs.Arg(0),
		policy:  strings.ToLower(strings.TrimSpace(*policy)),
		check:   *check,
		dump:    *dump,
		verbose: *verbose,
	}
	if cfg.policy != "failfast" && cfg.policy != "collect" {
		fmt.Fprintf(stderr, "unknown policy %q\n", *policy)
		return exitUsage
	}
	switch *color {
	case "always":
		cfg.color = true
	case "never":
	case "auto":
		cfg.color = isTerminal(stderr)
	default:
		fmt.Fprintf(stderr, "unknown color mode %q\n", *color)
		return exitUsage
	}

	src, err := readScript(cfg.path, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "read script: %v\n", err)
		return exitUsage
	}
	cfg.src = src

	logger := log.NewWithOptions(stderr, log.Options{Prefix: "variant"})
	if cfg.verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	cfg.logger = logger

	if *tui && !cfg.check && !cfg.dump {
		if cfg.path == "-" {
			fmt.Fprintln(stderr, "tui: the script must be read from a file")
			return exitUsage
		}
		final, err := tea.NewProgram(newModel(cfg), tea.WithAltScreen()).Run()
		if err != nil {
			fmt.Fprintf(stderr, "tui: %v\n", err)
			return exitUsage
		}
		m := final.(model)
		if m.err != nil {
			newRenderer(cfg.path, cfg.src, stderr, cfg.color).report(m.err, m.diags)
		}
		return exitCode(m.err)
	}
	return runPlain(cfg, stdin, stdout, stderr)
}

func readScript(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
