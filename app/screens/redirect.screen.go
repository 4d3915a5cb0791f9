package screens

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Guerrilla-Interactive/snip-cli/app"
	"github.com/Guerrilla-Interactive/snip-cli/app/api"
	"github.com/Guerrilla-Interactive/snip-cli/app/forms"
	sharedScreens "github.com/Guerrilla-Interactive/snip-cli/app/screens/shared"
	tea "github.com/charmbracelet/bubbletea"
)

func newUnlockForm() app.Form {
	return app.NewForm(
		app.FormField{Name: "password", Label: "Password", Secret: true, MaxChars: 20},
	)
}

// UpdateScreenRedirect handles keys once a short code has been resolved.
func UpdateScreenRedirect(m app.Model, msg tea.KeyMsg) (app.Model, tea.Cmd) {
	if m.Busy {
		return m, nil
	}
	switch msg.String() {
	case "enter", "o":
		if m.ResolvedURL != "" {
			return m, openBrowserCmd(m.ResolvedURL)
		}
	case "c":
		if m.ResolvedURL != "" {
			return m, copyCmd(m.ResolvedURL)
		}
	case "r":
		return Reload(m)
	case "esc":
		return Navigate(m, "/")
	}
	return m, nil
}

// UpdateScreenProtectedLink handles the password prompt.
func UpdateScreenProtectedLink(m app.Model, msg tea.KeyMsg) (app.Model, tea.Cmd) {
	if m.Busy {
		return m, nil
	}
	switch msg.String() {
	case "enter":
		if m.ResolvedURL != "" {
			return m, openBrowserCmd(m.ResolvedURL)
		}
		res := m.UnlockForm.Validate(forms.UnlockFormSchema)
		if !res.Valid() {
			return showInvalid(m, res), nil
		}
		code := m.Location.Param("shortCode")
		return startBusy(m, unlockCmd(m.API, m.Location.Path, code, m.UnlockForm.Value("password")))
	case "esc":
		return Navigate(m, "/")
	}
	var cmd tea.Cmd
	m.UnlockForm, cmd = m.UnlockForm.Update(msg)
	return m, cmd
}

func handleResolved(m app.Model, msg resolvedMsg) (app.Model, tea.Cmd) {
	m.Busy = false
	switch {
	case msg.err == nil:
		m.ResolvedURL = msg.target
		m.SetStatus("Opening %s", msg.target)
		return m, openBrowserCmd(msg.target)
	case errors.Is(msg.err, api.ErrPasswordRequired) && m.CurrentScreen == app.ScreenRedirect:
		return Replace(m, app.ProtectedLinkPath(msg.shortCode))
	case errors.Is(msg.err, api.ErrNotFound):
		m.Status = fmt.Sprintf("No link found for %q", msg.shortCode)
		m.StatusError = true
		return m, nil
	}
	// Resolving and unlocking concern the link, not the account: a 401 or
	// 403 here is a wrong link password and never ends the session.
	if errors.Is(msg.err, api.ErrUnauthorized) {
		return linkRejected(m, "Incorrect password"), nil
	}
	var httpErr *api.HTTPError
	if errors.As(msg.err, &httpErr) && (httpErr.StatusCode == http.StatusForbidden || httpErr.StatusCode == http.StatusGone) && httpErr.Message != "" {
		return linkRejected(m, httpErr.Message), nil
	}
	m.SetError(msg.err)
	return m, nil
}

// linkRejected shows why a link could not be opened. On the password prompt
// the reason is attached to the field and the input is cleared for a retry.
func linkRejected(m app.Model, reason string) app.Model {
	if m.CurrentScreen == app.ScreenProtectedLink {
		m.UnlockForm.SetValue("password", "")
		m.UnlockForm.Errors = map[string]string{"password": reason}
	}
	m.Status = reason
	m.StatusError = true
	return m
}

// ViewScreenRedirect shows the resolution of a short code.
func ViewScreenRedirect(m app.Model) string {
	code := m.Location.Param("shortCode")
	body := resolvedBody(m, "Resolving "+app.HighlightStyle.Render(code))
	return sharedScreens.Page(m, "Redirect", body, "enter open", "c copy", "r retry", "esc home")
}

// ViewScreenProtectedLink asks for the password of a protected short code.
func ViewScreenProtectedLink(m app.Model) string {
	code := m.Location.Param("shortCode")
	var b strings.Builder
	b.WriteString("The link " + app.HighlightStyle.Render(code) + " is password protected.\n\n")
	if m.ResolvedURL == "" {
		b.WriteString(sharedScreens.RenderForm(m.UnlockForm))
	} else {
		b.WriteString(resolvedBody(m, ""))
	}
	keys := []string{"enter unlock", "esc home"}
	if m.ResolvedURL != "" {
		keys[0] = "enter open"
	}
	return sharedScreens.Page(m, "Protected link", b.String(), keys...)
}

func resolvedBody(m app.Model, pending string) string {
	if m.ResolvedURL == "" {
		return pending
	}
	width := sharedScreens.ContentWidth(m.TerminalWidth)
	return app.SubtitleStyle.Render("Destination") + "\n" +
		app.LinkStyle.Render(sharedScreens.WrapText(m.ResolvedURL, width))
}
