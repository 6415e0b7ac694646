package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run boots the TUI program and blocks until it exits. It returns the run
// file the form ended with, after it has been written to the form config.
func Run(ctx context.Context, opts Options) (string, error) {
	m := initialModel(ctx, opts)
	program := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return "", err
	}
	fm, ok := final.(model)
	if !ok {
		return "", errors.New("unexpected final model")
	}
	return fm.runFn, fm.saveErr
}
