package screens

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Guerrilla-Interactive/snip-cli/app"
	"github.com/Guerrilla-Interactive/snip-cli/app/api"
	"github.com/Guerrilla-Interactive/snip-cli/app/forms"
	sharedScreens "github.com/Guerrilla-Interactive/snip-cli/app/screens/shared"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const linksTableHeight = 10

func newLinksTable(m app.Model) table.Model {
	width := sharedScreens.ContentWidth(m.TerminalWidth)
	// short | url | active | lock | clicks
	fixed := 22 + 8 + 6 + 8
	urlWidth := width - fixed
	if urlWidth < 16 {
		urlWidth = 16
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Short code", Width: 22},
			{Title: "Original URL", Width: urlWidth},
			{Title: "Active", Width: 8},
			{Title: "Lock", Width: 6},
			{Title: "Clicks", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(linksTableHeight),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#FFA500")).Bold(true)
	t.SetStyles(styles)
	t.SetRows(linkRows(m.Links, urlWidth))
	return t
}

func linkRows(links []api.Link, urlWidth int) []table.Row {
	rows := make([]table.Row, 0, len(links))
	for _, l := range links {
		active, lock := "no", ""
		if l.IsActive {
			active = "yes"
		}
		if l.Protected {
			lock = "yes"
		}
		rows = append(rows, table.Row{
			l.ShortCode,
			sharedScreens.Truncate(l.OriginalURL, urlWidth),
			active,
			lock,
			strconv.Itoa(l.Clicks),
		})
	}
	return rows
}

func refreshRows(m app.Model) app.Model {
	cursor := m.LinksTable.Cursor()
	m.LinksTable = newLinksTable(m)
	if cursor >= len(m.Links) {
		cursor = len(m.Links) - 1
	}
	if cursor >= 0 {
		m.LinksTable.SetCursor(cursor)
	}
	return m
}

func selectedLink(m app.Model) (api.Link, bool) {
	i := m.LinksTable.Cursor()
	if i < 0 || i >= len(m.Links) {
		return api.Link{}, false
	}
	return m.Links[i], true
}

func newEditForm(l api.Link) app.Form {
	f := app.NewForm(
		app.FormField{Name: "originalUrl", Label: "URL", MaxChars: 2048},
		app.FormField{Name: "description", Label: "Description", Presence: forms.Nullish, MaxChars: 300},
		app.FormField{Name: "password", Label: "New password", Placeholder: "unchanged", Presence: forms.Nullish, Secret: true, MaxChars: 20},
		app.FormField{Name: "isActive", Label: "Active", Toggle: true},
	)
	f.SetValue("originalUrl", l.OriginalURL)
	f.SetValue("description", l.Description)
	f.SetToggle("isActive", l.IsActive)
	return f
}

// UpdateScreenMyURLs handles the dashboard: table navigation, refresh, copy,
// edit, delete and the active toggle.
func UpdateScreenMyURLs(m app.Model, msg tea.KeyMsg) (app.Model, tea.Cmd) {
	if m.Busy {
		return m, nil
	}
	if m.Editing {
		return updateEditLink(m, msg)
	}
	if m.ConfirmDelete {
		m.ConfirmDelete = false
		if msg.String() == "y" {
			if l, ok := selectedLink(m); ok {
				return startBusy(m, deleteLinkCmd(m.API, m.Location.Path, l.ID))
			}
		}
		m.SetStatus("Delete cancelled.")
		return m, nil
	}

	switch msg.String() {
	case "r":
		return startBusy(m, fetchLinksCmd(m.API, m.Location.Path))
	case "c", "enter":
		if l, ok := selectedLink(m); ok {
			return m, copyCmd(m.Config.ShortLink(l.ShortCode))
		}
		return m, nil
	case "e":
		if l, ok := selectedLink(m); ok {
			m.Editing = true
			m.EditingID = l.ID
			m.EditForm = newEditForm(l)
			m.Status = ""
		}
		return m, nil
	case "d":
		if l, ok := selectedLink(m); ok {
			m.ConfirmDelete = true
			m.Status = fmt.Sprintf("Delete %s? press y to confirm", l.ShortCode)
			m.StatusError = true
		}
		return m, nil
	case "a":
		if l, ok := selectedLink(m); ok {
			req := api.EditRequest{OriginalURL: l.OriginalURL, IsActive: !l.IsActive}
			if l.Description != "" {
				desc := l.Description
				req.Description = &desc
			}
			return startBusy(m, editLinkCmd(m.API, m.Location.Path, l.ID, req))
		}
		return m, nil
	case "n":
		return Navigate(m, "/")
	}
	var cmd tea.Cmd
	m.LinksTable, cmd = m.LinksTable.Update(msg)
	return m, cmd
}

func updateEditLink(m app.Model, msg tea.KeyMsg) (app.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Editing = false
		m.EditingID = ""
		return m, nil
	case "enter":
		res := m.EditForm.Validate(forms.EditFormSchema)
		if !res.Valid() {
			return showInvalid(m, res), nil
		}
		var req api.EditRequest
		if err := res.Bind(&req); err != nil {
			m.SetError(err)
			return m, nil
		}
		return startBusy(m, editLinkCmd(m.API, m.Location.Path, m.EditingID, req))
	}
	var cmd tea.Cmd
	m.EditForm, cmd = m.EditForm.Update(msg)
	return m, cmd
}

func handleLinksLoaded(m app.Model, msg linksLoadedMsg) (app.Model, tea.Cmd) {
	if msg.err != nil {
		return handleAPIError(m, msg.err)
	}
	m.Busy = false
	m.Links = msg.links
	m = refreshRows(m)
	m.SetStatus("%d links", len(m.Links))
	return m, nil
}

func handleLinkSaved(m app.Model, msg linkSavedMsg) (app.Model, tea.Cmd) {
	if msg.err != nil {
		return handleAPIError(m, msg.err)
	}
	m.Busy = false
	m.Editing = false
	m.EditingID = ""
	for i := range m.Links {
		if m.Links[i].ID == msg.link.ID {
			m.Links[i] = msg.link
		}
	}
	m = refreshRows(m)
	m.SetStatus("Saved %s", msg.link.ShortCode)
	return m, nil
}

func handleLinkDeleted(m app.Model, msg linkDeletedMsg) (app.Model, tea.Cmd) {
	if msg.err != nil {
		return handleAPIError(m, msg.err)
	}
	m.Busy = false
	kept := make([]api.Link, 0, len(m.Links))
	for _, l := range m.Links {
		if l.ID != msg.id {
			kept = append(kept, l)
		}
	}
	m.Links = kept
	m = refreshRows(m)
	m.SetStatus("Deleted.")
	return m, nil
}

// ViewScreenMyURLs renders the dashboard or the edit form.
func ViewScreenMyURLs(m app.Model) string {
	if m.Editing {
		return sharedScreens.Page(m, "Edit link", sharedScreens.RenderForm(m.EditForm),
			"enter save", "tab next field", "space toggle", "esc cancel")
	}

	var b strings.Builder
	if len(m.Links) == 0 && !m.Busy {
		b.WriteString(app.ChoiceStyle.Render("You have no links yet. Press n to create one."))
	} else {
		b.WriteString(m.LinksTable.View())
		if l, ok := selectedLink(m); ok {
			width := sharedScreens.ContentWidth(m.TerminalWidth)
			b.WriteString("\n\n")
			b.WriteString(app.LinkStyle.Render(m.Config.ShortLink(l.ShortCode)))
			b.WriteString("\n")
			b.WriteString(app.PathStyle.Render(sharedScreens.WrapText(l.OriginalURL, width)))
			if l.Description != "" {
				b.WriteString("\n")
				b.WriteString(sharedScreens.WrapText(l.Description, width))
			}
		}
	}
	return sharedScreens.Page(m, "My URLs", b.String(),
		"↑/↓ select", "c copy", "e edit", "a toggle active", "d delete", "r refresh", "n new")
}
