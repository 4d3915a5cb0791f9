package shared

import (
	"strings"

	"github.com/Guerrilla-Interactive/snip-cli/app"
)

// Footer joins navigation tips with a consistent separator and applies
// the global help style for footers.
func Footer(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	text := strings.Join(parts, "  •  ")
	return app.HelpStyle.Render(text)
}

// GlobalKeys are the shortcuts available on every screen.
func GlobalKeys(m app.Model) []string {
	keys := []string{"ctrl+g go to"}
	if m.Nav != nil && m.Nav.CanGoBack() {
		keys = append(keys, "alt+← back")
	}
	if m.Nav != nil && m.Nav.CanGoForward() {
		keys = append(keys, "alt+→ forward")
	}
	if m.Session != nil && m.Session.IsLoggedIn() {
		keys = append(keys, "ctrl+o logout")
	}
	return append(keys, "ctrl+c quit")
}
