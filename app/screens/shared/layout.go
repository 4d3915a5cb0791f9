package shared

import (
	"strings"

	"github.com/Guerrilla-Interactive/snip-cli/app"
	"github.com/charmbracelet/lipgloss"
)

// ContentWidth is the usable width inside the page padding, clamped for very
// small or unknown terminals.
func ContentWidth(termWidth int) int {
	const (
		defaultWidth = 72
		minWidth     = 30
		maxWidth     = 100
		chrome       = 8
	)
	if termWidth <= 0 {
		return defaultWidth
	}
	w := termWidth - chrome
	if w < minWidth {
		w = minWidth
	}
	if w > maxWidth {
		w = maxWidth
	}
	return w
}

// Header shows the current path, where it was redirected from and who is
// signed in.
func Header(m app.Model) string {
	path := m.Location.Path
	if path == "" {
		path = "/"
	}
	left := app.PathStyle.Render("snip " + path)
	if m.Location.Redirected() {
		left += app.HelpStyle.Render("  (redirected from " + m.Location.RedirectedFrom + ")")
	}
	who := "guest"
	if m.Session != nil {
		if id, ok := m.Session.Identity(); ok {
			who = id.Label()
		} else if m.Session.IsLoggedIn() {
			who = "signed in"
		}
	}
	return left + "  " + app.ChoiceStyle.Render("["+who+"]")
}

// StatusLine renders the model status with a spinner while busy.
func StatusLine(m app.Model) string {
	switch {
	case m.Busy:
		return m.Spinner.View() + " " + app.HelpStyle.Render("working...")
	case m.Status == "":
		return ""
	case m.StatusError:
		return app.ErrorStyle.Render(m.Status)
	default:
		return app.SuccessStyle.Render(m.Status)
	}
}

// Page assembles a screen: header, title, body, status, optional address bar
// and footer, placed at the bottom left like the rest of the CLI.
func Page(m app.Model, title, body string, keys ...string) string {
	var b strings.Builder
	b.WriteString(Header(m))
	b.WriteString("\n")
	b.WriteString(app.TitleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(body)
	if status := StatusLine(m); status != "" {
		b.WriteString("\n\n")
		b.WriteString(status)
	}
	if m.AddressBarActive {
		b.WriteString("\n\n")
		b.WriteString(m.AddressBar.View())
	}
	b.WriteString("\n\n")
	b.WriteString(Footer(append(keys, GlobalKeys(m)...)...))

	panel := lipgloss.NewStyle().Padding(1, 2).Margin(1).Render(b.String())
	if m.TerminalWidth > 0 && m.TerminalHeight > 0 {
		return lipgloss.Place(m.TerminalWidth, m.TerminalHeight, lipgloss.Left, lipgloss.Bottom, panel)
	}
	return panel
}
