package screens

import (
	"strings"

	"github.com/Guerrilla-Interactive/snip-cli/app"
	"github.com/Guerrilla-Interactive/snip-cli/app/api"
	"github.com/Guerrilla-Interactive/snip-cli/app/forms"
	sharedScreens "github.com/Guerrilla-Interactive/snip-cli/app/screens/shared"
	tea "github.com/charmbracelet/bubbletea"
)

func newShortenerForm() app.Form {
	f := app.NewForm(
		app.FormField{Name: "originalUrl", Label: "URL", Placeholder: "https://example.com/a/long/path", MaxChars: 2048},
		app.FormField{Name: "customShortCode", Label: "Custom code", Placeholder: "optional", Presence: forms.Optional, MaxChars: 20},
		app.FormField{Name: "password", Label: "Password", Placeholder: "optional", Presence: forms.Nullish, Secret: true, MaxChars: 20},
		app.FormField{Name: "description", Label: "Description", Placeholder: "optional", Presence: forms.Nullish, MaxChars: 300},
		app.FormField{Name: "isActive", Label: "Active", Toggle: true},
	)
	f.SetToggle("isActive", true)
	return f
}

// UpdateScreenShortener handles key events for the shortener form.
func UpdateScreenShortener(m app.Model, msg tea.KeyMsg) (app.Model, tea.Cmd) {
	if m.Busy {
		return m, nil
	}
	switch msg.String() {
	case "enter":
		res := m.ShortenerForm.Validate(forms.ShortenerFormSchema)
		if !res.Valid() {
			return showInvalid(m, res), nil
		}
		var req api.ShortenRequest
		if err := res.Bind(&req); err != nil {
			m.SetError(err)
			return m, nil
		}
		return startBusy(m, shortenCmd(m.API, m.Location.Path, req))
	case "ctrl+y":
		if m.LastLink != nil {
			return m, copyCmd(m.Config.ShortLink(m.LastLink.ShortCode))
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.ShortenerForm, cmd = m.ShortenerForm.Update(msg)
	return m, cmd
}

func handleShortened(m app.Model, msg shortenedMsg) (app.Model, tea.Cmd) {
	if msg.err != nil {
		return handleAPIError(m, msg.err)
	}
	m.Busy = false
	link := msg.link
	m.LastLink = &link
	m.ShortenerForm = newShortenerForm()
	short := m.Config.ShortLink(link.ShortCode)
	m.SetStatus("Created %s", short)
	return m, copyCmd(short)
}

// ViewScreenShortener renders the shortener form and the last created link.
func ViewScreenShortener(m app.Model) string {
	var b strings.Builder
	b.WriteString(sharedScreens.RenderForm(m.ShortenerForm))
	if m.LastLink != nil {
		width := sharedScreens.ContentWidth(m.TerminalWidth)
		b.WriteString("\n\n")
		b.WriteString(app.SubtitleStyle.Render("Last link  "))
		b.WriteString(app.LinkStyle.Render(m.Config.ShortLink(m.LastLink.ShortCode)))
		b.WriteString("\n")
		b.WriteString(app.PathStyle.Render(sharedScreens.Truncate(m.LastLink.OriginalURL, width)))
	}
	keys := []string{"enter shorten", "tab next field", "space toggle"}
	if m.LastLink != nil {
		keys = append(keys, "ctrl+y copy link")
	}
	if m.Session.IsLoggedIn() {
		keys = append(keys, "ctrl+l my urls")
	} else {
		keys = append(keys, "ctrl+l log in")
	}
	return sharedScreens.Page(m, "Shorten a URL", b.String(), keys...)
}
