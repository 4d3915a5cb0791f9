package screens

import (
	"context"

	"github.com/Guerrilla-Interactive/snip-cli/app"
	"github.com/Guerrilla-Interactive/snip-cli/app/api"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// Results of asynchronous work. Each carries the path it was started from;
// a result for a screen the user already left is dropped.

type linksLoadedMsg struct {
	path  string
	links []api.Link
	err   error
}

type shortenedMsg struct {
	path string
	link api.Link
	err  error
}

type resolvedMsg struct {
	path      string
	shortCode string
	target    string
	err       error
}

type authMsg struct {
	path  string
	token string
	err   error
}

type linkSavedMsg struct {
	path string
	link api.Link
	err  error
}

type linkDeletedMsg struct {
	path string
	id   string
	err  error
}

type clipboardMsg struct {
	text string
	err  error
}

type browserMsg struct {
	url string
	err error
}

func fetchLinksCmd(client *api.Client, path string) tea.Cmd {
	return func() tea.Msg {
		links, err := client.MyLinks(context.Background())
		return linksLoadedMsg{path: path, links: links, err: err}
	}
}

func shortenCmd(client *api.Client, path string, req api.ShortenRequest) tea.Cmd {
	return func() tea.Msg {
		link, err := client.Shorten(context.Background(), req)
		return shortenedMsg{path: path, link: link, err: err}
	}
}

func resolveCmd(client *api.Client, path, shortCode string) tea.Cmd {
	return func() tea.Msg {
		target, err := client.Resolve(context.Background(), shortCode)
		return resolvedMsg{path: path, shortCode: shortCode, target: target, err: err}
	}
}

func unlockCmd(client *api.Client, path, shortCode, password string) tea.Cmd {
	return func() tea.Msg {
		target, err := client.Unlock(context.Background(), shortCode, password)
		return resolvedMsg{path: path, shortCode: shortCode, target: target, err: err}
	}
}

func authCmd(client *api.Client, path string, register bool, creds api.Credentials) tea.Cmd {
	return func() tea.Msg {
		var token string
		var err error
		if register {
			token, err = client.Register(context.Background(), creds)
		} else {
			token, err = client.Login(context.Background(), creds)
		}
		return authMsg{path: path, token: token, err: err}
	}
}

func editLinkCmd(client *api.Client, path, id string, req api.EditRequest) tea.Cmd {
	return func() tea.Msg {
		link, err := client.Edit(context.Background(), id, req)
		return linkSavedMsg{path: path, link: link, err: err}
	}
}

func deleteLinkCmd(client *api.Client, path, id string) tea.Cmd {
	return func() tea.Msg {
		return linkDeletedMsg{path: path, id: id, err: client.Delete(context.Background(), id)}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{text: text, err: clipboard.WriteAll(text)}
	}
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		return browserMsg{url: url, err: app.OpenBrowser(url)}
	}
}

// HandleResult applies an asynchronous result to the model. ok is false for
// messages that are not results.
func HandleResult(m app.Model, msg tea.Msg) (app.Model, tea.Cmd, bool) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case linksLoadedMsg:
		if msg.path == m.Location.Path {
			m, cmd = handleLinksLoaded(m, msg)
		}
	case shortenedMsg:
		if msg.path == m.Location.Path {
			m, cmd = handleShortened(m, msg)
		}
	case resolvedMsg:
		if msg.path == m.Location.Path {
			m, cmd = handleResolved(m, msg)
		}
	case authMsg:
		if msg.path == m.Location.Path {
			m, cmd = handleAuth(m, msg)
		}
	case linkSavedMsg:
		if msg.path == m.Location.Path {
			m, cmd = handleLinkSaved(m, msg)
		}
	case linkDeletedMsg:
		if msg.path == m.Location.Path {
			m, cmd = handleLinkDeleted(m, msg)
		}
	case clipboardMsg:
		if msg.err != nil {
			m.SetError(msg.err)
		} else if !m.StatusError {
			m.SetStatus("Copied %s", msg.text)
		}
	case browserMsg:
		if msg.err != nil {
			m.SetError(msg.err)
		}
	default:
		return m, nil, false
	}
	return m, cmd, true
}
