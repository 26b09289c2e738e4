package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/gantt/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Tasks    service.TaskService
	Plans    service.PlanService
	Charts   service.ChartService
	Import   service.ImportService

	Settings Settings

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a huh confirm form.
	Confirm func(title string) (bool, error)
	// RunProgram runs a bubbletea model. Nil starts a full-screen program
	// with mouse motion reporting.
	RunProgram func(m tea.Model) error
}

// Settings are the presentation defaults taken from configuration.
type Settings struct {
	Currency   string
	CellWidth  int
	LabelWidth int
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// confirm returns true when the user accepted, or when yes was passed.
// Without a terminal it refuses rather than guessing.
func (a *App) confirm(yes bool, title string) (bool, error) {
	if yes {
		return true, nil
	}
	if !a.interactive() {
		return false, fmt.Errorf("refusing to continue without confirmation; pass --yes")
	}
	ask := a.Confirm
	if ask == nil {
		ask = confirmPrompt
	}
	return ask(title)
}

func (a *App) runProgram(ctx context.Context, m tea.Model) error {
	if a.RunProgram != nil {
		return a.RunProgram(m)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run()
	return err
}
