package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gosuda/variant/diag"
	"github.com/gosuda/variant/stdlib"
)

type model struct {
	cfg      appConfig
	viewport viewport.Model
	input    textinput.Model
	ready    bool
	status   string
	running  bool
	events   <-chan tea.Msg
	pending  *pendingInput
	history  []string
	tail     string

	err   error
	diags []diag.Diagnostic
}

var (
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	inputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func newModel(cfg appConfig) model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 4096
	return model{
		cfg:      cfg,
		viewport: viewport.New(80, 20),
		input:    ti,
		status:   "starting",
	}
}

func startRun(cfg appConfig) tea.Cmd {
	return func() tea.Msg {
		events := make(chan tea.Msg, 256)
		go runScript(cfg, events)
		return runStartedMsg{events: events}
	}
}

func waitRunEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case msg, ok := <-events:
			if !ok {
				return nil
			}
			return msg
		case <-time.After(20 * time.Millisecond):
			return runPollMsg{}
		}
	}
}

func sendInput(ch chan string, v string) {
	select {
	case ch <- v:
	default:
	}
}

func (m model) Init() tea.Cmd {
	return startRun(m.cfg)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		footer := 1
		if m.pending != nil {
			footer++
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-footer, 1)
		m.ready = true
		return m, nil

	case runStartedMsg:
		m.events = msg.events
		m.running = true
		m.status = "running " + m.cfg.path
		return m, waitRunEvent(m.events)

	case runOutputMsg:
		m.appendOutput(msg.out)
		return m, waitRunEvent(m.events)

	case runPollMsg:
		if m.running && m.pending == nil {
			return m, waitRunEvent(m.events)
		}
		return m, nil

	case runPromptMsg:
		m.pending = &pendingInput{req: msg.req, resp: msg.resp}
		m.input.SetValue("")
		m.input.Placeholder = msg.req.Prompt
		m.status = "input: " + msg.req.Prompt
		return m, m.input.Focus()

	case runDoneMsg:
		m.running = false
		m.pending = nil
		m.input.Blur()
		m.err, m.diags = msg.err, msg.diags
		if msg.err != nil {
			m.status = "failed, press q to see diagnostics"
			for _, d := range msg.diags {
				m.appendOutput(stdlib.Output{Text: errStyle.Render(d.Error()), NewLine: true})
			}
			m.appendOutput(stdlib.Output{Text: errStyle.Render(msg.err.Error()), NewLine: true})
		} else {
			m.status = "done"
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			if m.pending != nil {
				sendInput(m.pending.resp, "")
			}
			return m, tea.Quit
		}

		if m.pending != nil {
			if msg.Type == tea.KeyEnter {
				sendInput(m.pending.resp, m.input.Value())
				m.pending = nil
				m.input.Blur()
				m.input.SetValue("")
				m.status = "running " + m.cfg.path
				return m, waitRunEvent(m.events)
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "r":
			if m.running {
				return m, nil
			}
			m.clearForRestart()
			m.status = "restarting"
			return m, startRun(m.cfg)
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return "initializing..."
	}
	parts := []string{m.viewport.View()}
	if m.pending != nil {
		parts = append(parts, inputStyle.Render(m.input.View()))
	}
	parts = append(parts, statusStyle.Render(fmt.Sprintf("[%s] q quit  r rerun  g/G top/bottom", m.status)))
	return strings.Join(parts, "\n")
}

func (m *model) appendOutput(out stdlib.Output) {
	if out.NewLine {
		m.history = append(m.history, m.tail+out.Text)
		m.tail = ""
	} else {
		m.tail += out.Text
	}
	content := strings.Join(m.history, "\n")
	if m.tail != "" {
		if content != "" {
			content += "\n"
		}
		content += m.tail
	}
	if content == "" {
		content = "(no output yet)"
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m *model) clearForRestart() {
	m.history = nil
	m.tail = ""
	m.err, m.diags = nil, nil
	m.viewport.SetContent("")
	m.pending = nil
	m.input.Blur()
	m.input.SetValue("")
}
