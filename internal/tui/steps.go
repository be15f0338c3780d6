// Package tui renders a live table of installation steps for interactive
// runs. CI runs bypass it and stream plain logs instead.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 150 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// tickMsg drives the spinner animation.
type tickMsg time.Time

// StepUpdateMsg transitions a step's displayed state.
type StepUpdateMsg struct {
	Step   string
	Status string
	Detail string
}

// WorkDoneMsg signals that the driving work finished successfully.
type WorkDoneMsg struct{}

// ErrorMsg signals a fatal error; the program exits and surfaces Err.
type ErrorMsg struct {
	Err error
}

type stepRow struct {
	name   string
	status string
	detail string
}

// StepModel is a bubbletea model showing one row per installation step.
type StepModel struct {
	title   string
	rows    []stepRow
	rowIdx  map[string]int
	done    bool
	err     error
	tick    int
	nameW   int
	statusW int
}

// NewStepModel creates a model with every step pre-populated as pending.
func NewStepModel(title string, steps []string) StepModel {
	m := StepModel{
		title:   title,
		rowIdx:  make(map[string]int, len(steps)),
		nameW:   len("STEP"),
		statusW: len("pending"),
	}
	for _, name := range steps {
		m.rowIdx[name] = len(m.rows)
		m.rows = append(m.rows, stepRow{name: name, status: "pending"})
		if len(name) > m.nameW {
			m.nameW = len(name)
		}
	}
	return m
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m StepModel) Init() tea.Cmd {
	return scheduleTick()
}

// Update satisfies the tea.Model interface.
func (m StepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, scheduleTick()

	case StepUpdateMsg:
		if idx, ok := m.rowIdx[msg.Step]; ok {
			m.rows[idx].status = msg.Status
			m.rows[idx].detail = msg.Detail
		}
		return m, nil

	case WorkDoneMsg:
		m.done = true
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View satisfies the tea.Model interface.
func (m StepModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.title))
	b.WriteString("\n\n")

	b.WriteString(HeaderStyle.Render(pad("STEP", m.nameW)))
	b.WriteString("  ")
	b.WriteString(HeaderStyle.Render(pad("STATUS", m.statusW)))
	b.WriteString("\n")

	for _, row := range m.rows {
		b.WriteString(pad(row.name, m.nameW))
		b.WriteString("  ")
		b.WriteString(StatusStyle(row.status).Render(pad(row.status, m.statusW)))
		if row.detail != "" {
			b.WriteString("  ")
			b.WriteString(DetailStyle.Render(row.detail))
		}
		b.WriteByte('\n')
	}

	if !m.done {
		spinner := spinnerFrames[m.tick%len(spinnerFrames)]
		fmt.Fprintf(&b, "\n%s Installing...\n", spinner)
	} else if m.err != nil {
		fmt.Fprintf(&b, "\nError: %v\n", m.err)
	}
	return b.String()
}

// Err returns any fatal error the program ended with.
func (m StepModel) Err() error {
	return m.err
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
