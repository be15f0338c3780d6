package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RunWithWork starts a bubbletea program for model, launches workFn in a
// goroutine, and blocks until the program exits. workFn receives a send
// callback that yields briefly between messages so the renderer can draw.
func RunWithWork(out io.Writer, model StepModel, workFn func(send func(tea.Msg))) error {
	p := tea.NewProgram(model, tea.WithOutput(out))

	go func() {
		// Let the event loop render the initial frame first.
		time.Sleep(50 * time.Millisecond)

		workFn(func(msg tea.Msg) {
			p.Send(msg)
			time.Sleep(5 * time.Millisecond)
		})

		p.Send(WorkDoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(StepModel); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
