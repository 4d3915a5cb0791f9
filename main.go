package main

import (
	"os"

	"github.com/Guerrilla-Interactive/snip-cli/app"
	"github.com/Guerrilla-Interactive/snip-cli/app/cli"
	"github.com/Guerrilla-Interactive/snip-cli/app/screens"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Define Version (will be set via linker flags during build)
var Version = "v0.1.0"

// ProgramModel wraps app.Model so we can hold Update logic in one place.
type ProgramModel struct {
	M         app.Model
	StartPath string
}

// Init navigates to the start path.
func (pm ProgramModel) Init() tea.Cmd {
	return screens.Start(pm.StartPath)
}

// Update handles incoming Msgs (both from commands and user interaction).
func (pm ProgramModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typedMsg := msg.(type) {

	case screens.NavigateMsg:
		var cmd tea.Cmd
		if typedMsg.Replace {
			pm.M, cmd = screens.Replace(pm.M, typedMsg.Path)
		} else {
			pm.M, cmd = screens.Navigate(pm.M, typedMsg.Path)
		}
		return pm, cmd

	case tea.WindowSizeMsg:
		// Record terminal dimensions for layout purposes.
		pm.M.TerminalWidth = typedMsg.Width
		pm.M.TerminalHeight = typedMsg.Height
		return pm, nil

	case spinner.TickMsg:
		if !pm.M.Busy {
			return pm, nil
		}
		var cmd tea.Cmd
		pm.M.Spinner, cmd = pm.M.Spinner.Update(typedMsg)
		return pm, cmd

	case tea.KeyMsg:
		if updatedM, cmd, handled := screens.UpdateGlobalKeys(pm.M, typedMsg); handled {
			pm.M = updatedM
			return pm, cmd
		}
		switch pm.M.CurrentScreen {
		case app.ScreenShortener:
			updatedM, cmd := screens.UpdateScreenShortener(pm.M, typedMsg)
			pm.M = updatedM
			return pm, cmd
		case app.ScreenRedirect:
			updatedM, cmd := screens.UpdateScreenRedirect(pm.M, typedMsg)
			pm.M = updatedM
			return pm, cmd
		case app.ScreenProtectedLink:
			updatedM, cmd := screens.UpdateScreenProtectedLink(pm.M, typedMsg)
			pm.M = updatedM
			return pm, cmd
		case app.ScreenLogin, app.ScreenRegister:
			updatedM, cmd := screens.UpdateScreenAuth(pm.M, typedMsg)
			pm.M = updatedM
			return pm, cmd
		case app.ScreenMyURLs:
			updatedM, cmd := screens.UpdateScreenMyURLs(pm.M, typedMsg)
			pm.M = updatedM
			return pm, cmd
		case app.ScreenNotFound:
			updatedM, cmd := screens.UpdateScreenNotFound(pm.M, typedMsg)
			pm.M = updatedM
			return pm, cmd
		default:
			return pm, nil
		}
	}

	if updatedM, cmd, ok := screens.HandleResult(pm.M, msg); ok {
		pm.M = updatedM
		return pm, cmd
	}

	// Everything else (cursor blinks and similar) goes to the focused input.
	updatedM, cmd := screens.UpdateFocused(pm.M, msg)
	pm.M = updatedM
	return pm, cmd
}

// View selects which screen's View function to call based on pm.M.CurrentScreen.
func (pm ProgramModel) View() string {
	switch pm.M.CurrentScreen {
	case app.ScreenShortener:
		return screens.ViewScreenShortener(pm.M)
	case app.ScreenRedirect:
		return screens.ViewScreenRedirect(pm.M)
	case app.ScreenProtectedLink:
		return screens.ViewScreenProtectedLink(pm.M)
	case app.ScreenLogin, app.ScreenRegister:
		return screens.ViewScreenAuth(pm.M)
	case app.ScreenMyURLs:
		return screens.ViewScreenMyURLs(pm.M)
	case app.ScreenNotFound:
		return screens.ViewScreenNotFound(pm.M)
	}
	return ""
}

// runTUI starts the interactive program at startPath.
func runTUI(env *cli.Env, startPath string) error {
	m, err := app.NewModel(env.Config, env.Session, env.API, env.Log)
	if err != nil {
		return err
	}
	env.Log.Info("starting tui", zap.String("path", startPath))
	p := tea.NewProgram(ProgramModel{M: m, StartPath: startPath}, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func main() {
	root := cli.NewRootCommand(Version, runTUI)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
