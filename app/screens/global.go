package screens

import (
	"strings"

	"github.com/Guerrilla-Interactive/snip-cli/app"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// UpdateGlobalKeys handles the address bar and shortcuts shared by every
// screen. handled is false when the key belongs to the active screen.
func UpdateGlobalKeys(m app.Model, msg tea.KeyMsg) (app.Model, tea.Cmd, bool) {
	if m.AddressBarActive {
		m, cmd := updateAddressBar(m, msg)
		return m, cmd, true
	}

	var cmd tea.Cmd
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true
	case "ctrl+g":
		m.AddressBarActive = true
		m.AddressBar.SetValue(m.Location.Path)
		m.AddressBar.CursorEnd()
		return m, m.AddressBar.Focus(), true
	case "alt+left":
		m, cmd = Back(m)
	case "alt+right":
		m, cmd = Forward(m)
	case "ctrl+r":
		m, cmd = Reload(m)
	case "ctrl+n":
		m, cmd = Navigate(m, "/")
	case "ctrl+l":
		m, cmd = Navigate(m, app.MyURLsPath)
	case "ctrl+o":
		if !m.Session.IsLoggedIn() {
			return m, nil, true
		}
		m, cmd = Logout(m)
	default:
		return m, nil, false
	}
	return m, cmd, true
}

func updateAddressBar(m app.Model, msg tea.KeyMsg) (app.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.AddressBarActive = false
		m.AddressBar.Blur()
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.AddressBar.Value())
		m.AddressBarActive = false
		m.AddressBar.Blur()
		if path == "" {
			return m, nil
		}
		return Navigate(m, path)
	}
	var cmd tea.Cmd
	m.AddressBar, cmd = m.AddressBar.Update(msg)
	return m, cmd
}

// Start returns the first command of the program: navigate to path and
// start the cursor blinking.
func Start(path string) tea.Cmd {
	if path == "" {
		path = "/"
	}
	return tea.Batch(NavigateCmd(path), textinput.Blink)
}

// UpdateFocused forwards non-key messages to whichever input has focus.
func UpdateFocused(m app.Model, msg tea.Msg) (app.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.AddressBarActive {
		m.AddressBar, cmd = m.AddressBar.Update(msg)
		return m, cmd
	}
	switch m.CurrentScreen {
	case app.ScreenShortener:
		m.ShortenerForm, cmd = m.ShortenerForm.Forward(msg)
	case app.ScreenProtectedLink:
		m.UnlockForm, cmd = m.UnlockForm.Forward(msg)
	case app.ScreenLogin, app.ScreenRegister:
		m.AuthForm, cmd = m.AuthForm.Forward(msg)
	case app.ScreenMyURLs:
		if m.Editing {
			m.EditForm, cmd = m.EditForm.Forward(msg)
		}
	}
	return m, cmd
}
