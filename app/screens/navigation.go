package screens

import (
	"errors"
	"fmt"

	"github.com/Guerrilla-Interactive/snip-cli/app"
	"github.com/Guerrilla-Interactive/snip-cli/app/api"
	"github.com/Guerrilla-Interactive/snip-cli/app/forms"
	"github.com/Guerrilla-Interactive/snip-cli/app/router"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// NavigateMsg asks the program to navigate. The initial path is delivered
// this way from Init.
type NavigateMsg struct {
	Path    string
	Replace bool
}

// NavigateCmd wraps a NavigateMsg in a command.
func NavigateCmd(path string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Path: path} }
}

// Navigate pushes path through the guard and activates the resulting screen.
func Navigate(m app.Model, path string) (app.Model, tea.Cmd) {
	loc, err := m.Nav.Navigate(path)
	return enter(m, loc, err)
}

// Replace is Navigate without a new history entry.
func Replace(m app.Model, path string) (app.Model, tea.Cmd) {
	loc, err := m.Nav.Replace(path)
	return enter(m, loc, err)
}

// Reload re-runs the guard for the current path.
func Reload(m app.Model) (app.Model, tea.Cmd) {
	loc, err := m.Nav.Reload()
	return enter(m, loc, err)
}

// Back and Forward walk history; each step is guarded again.
func Back(m app.Model) (app.Model, tea.Cmd) {
	if !m.Nav.CanGoBack() {
		return m, nil
	}
	loc, err := m.Nav.Back()
	return enter(m, loc, err)
}

func Forward(m app.Model) (app.Model, tea.Cmd) {
	if !m.Nav.CanGoForward() {
		return m, nil
	}
	loc, err := m.Nav.Forward()
	return enter(m, loc, err)
}

func enter(m app.Model, loc router.Location, err error) (app.Model, tea.Cmd) {
	if err != nil {
		m.SetError(err)
		return m, nil
	}
	m.Location = loc
	m.CurrentScreen = app.Screen(loc.Route.View)
	m.Busy = false
	m.Status = ""
	m.StatusError = false
	m.AddressBarActive = false
	m.Log.Info("screen entered",
		zap.String("path", loc.Path),
		zap.String("view", loc.Route.View),
		zap.String("redirected_from", loc.RedirectedFrom),
	)
	return onEnter(m)
}

// onEnter resets the screen's state and starts whatever it loads.
func onEnter(m app.Model) (app.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case app.ScreenShortener:
		m.ShortenerForm = newShortenerForm()
		return m, textinput.Blink
	case app.ScreenRedirect:
		m.ResolvedURL = ""
		return startBusy(m, resolveCmd(m.API, m.Location.Path, m.Location.Param("shortCode")))
	case app.ScreenProtectedLink:
		m.ResolvedURL = ""
		m.UnlockForm = newUnlockForm()
		return m, textinput.Blink
	case app.ScreenLogin, app.ScreenRegister:
		m.AuthForm = newAuthForm()
		return m, textinput.Blink
	case app.ScreenMyURLs:
		m.Editing = false
		m.EditingID = ""
		m.ConfirmDelete = false
		m.LinksTable = newLinksTable(m)
		return startBusy(m, fetchLinksCmd(m.API, m.Location.Path))
	}
	return m, nil
}

func startBusy(m app.Model, cmd tea.Cmd) (app.Model, tea.Cmd) {
	m.Busy = true
	m.Status = ""
	m.StatusError = false
	return m, tea.Batch(m.Spinner.Tick, cmd)
}

// Logout clears the session and re-runs the guard for the current path, so a
// protected screen falls back to login.
func Logout(m app.Model) (app.Model, tea.Cmd) {
	err := m.Session.Logout()
	m, cmd := Reload(m)
	if err != nil {
		m.SetError(err)
		return m, cmd
	}
	m.SetStatus("Signed out.")
	return m, cmd
}

// handleAPIError reports errors of requests made on behalf of the account
// (shorten, my links, edit, delete, login). An unauthorized response while
// signed in means the token is no longer accepted: the session is dropped and
// login shown.
func handleAPIError(m app.Model, err error) (app.Model, tea.Cmd) {
	m.Busy = false
	if errors.Is(err, api.ErrUnauthorized) && m.Session.IsLoggedIn() {
		m.Log.Info("token rejected, logging out")
		logoutErr := m.Session.Logout()
		m, cmd := Navigate(m, router.LoginPath)
		if logoutErr != nil {
			m.SetError(logoutErr)
			return m, cmd
		}
		m.SetError(errors.New("your session has expired, please log in again"))
		return m, cmd
	}
	m.SetError(err)
	return m, nil
}

// showInvalid points at the inline field errors the form now carries.
func showInvalid(m app.Model, res forms.Result) app.Model {
	if fields := res.Fields(); len(fields) == 1 {
		m.Status = res.FieldErrors()[fields[0]]
	} else {
		m.Status = fmt.Sprintf("%d fields need attention", len(fields))
	}
	m.StatusError = true
	return m
}
