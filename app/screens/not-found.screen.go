package screens

import (
	"github.com/Guerrilla-Interactive/snip-cli/app"
	sharedScreens "github.com/Guerrilla-Interactive/snip-cli/app/screens/shared"
	tea "github.com/charmbracelet/bubbletea"
)

// UpdateScreenNotFound offers a way home.
func UpdateScreenNotFound(m app.Model, msg tea.KeyMsg) (app.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		return Navigate(m, "/")
	}
	return m, nil
}

// ViewScreenNotFound renders the catch-all route.
func ViewScreenNotFound(m app.Model) string {
	body := "Nothing lives at " + app.HighlightStyle.Render(m.Location.Path) + "."
	return sharedScreens.Page(m, "Page not found", body, "enter home")
}
