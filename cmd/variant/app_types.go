package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/gosuda/variant/diag"
	"github.com/gosuda/variant/stdlib"
)

type appConfig struct {
	path    string
	src     string
	policy  string
	check   bool
	dump    bool
	color   bool
	verbose bool
	logger  *log.Logger
}

type runStartedMsg struct {
	events <-chan tea.Msg
}

type runOutputMsg struct {
	out stdlib.Output
}

type runDoneMsg struct {
	err   error
	diags []diag.Diagnostic
}

type runPromptMsg struct {
	req  stdlib.InputRequest
	resp chan string
}

type runPollMsg struct{}

type pendingInput struct {
	req  stdlib.InputRequest
	resp chan string
}
