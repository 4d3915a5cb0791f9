package screens

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Guerrilla-Interactive/snip-cli/app"
	"github.com/Guerrilla-Interactive/snip-cli/app/api"
	"github.com/Guerrilla-Interactive/snip-cli/app/router"
	"github.com/Guerrilla-Interactive/snip-cli/app/session"
	config "github.com/Guerrilla-Interactive/snip-cli/internal"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, handler http.HandlerFunc) app.Model {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := session.NewStore(session.NewMemoryStorage(), nil)
	require.NoError(t, err)
	cfg := config.DefaultConfig()
	cfg.PublicURL = "https://sn.ip"
	m, err := app.NewModel(cfg, store, api.New(srv.URL, store), nil)
	require.NoError(t, err)
	return m
}

// results runs cmd and any batched commands, keeping only results this
// package produces. Spinner ticks return immediately and are dropped.
func results(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, results(c)...)
		}
		return out
	}
	switch msg.(type) {
	case linksLoadedMsg, shortenedMsg, resolvedMsg, authMsg, linkSavedMsg, linkDeletedMsg:
		return []tea.Msg{msg}
	}
	return nil
}

// settle feeds every result of cmd back into the model.
func settle(t *testing.T, m app.Model, cmd tea.Cmd) app.Model {
	t.Helper()
	for _, msg := range results(cmd) {
		var ok bool
		m, _, ok = HandleResult(m, msg)
		require.True(t, ok)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "alt+left":
		return tea.KeyMsg{Type: tea.KeyLeft, Alt: true}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNavigate_GuardRedirectsToLogin(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	m, _ = Navigate(m, "/my-urls")
	assert.Equal(t, app.ScreenLogin, m.CurrentScreen)
	assert.Equal(t, router.LoginPath, m.Location.Path)
	assert.Equal(t, "/my-urls", m.Location.RedirectedFrom)

	m, _ = Navigate(m, "/no/such/page")
	assert.Equal(t, app.ScreenNotFound, m.CurrentScreen)

	m, _ = UpdateScreenNotFound(m, key("enter"))
	assert.Equal(t, app.ScreenShortener, m.CurrentScreen)
}

func TestLoginFlow(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			_, _ = w.Write([]byte(`{"token":"tok-1"}`))
		case "/api/urls/mine":
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`[{"id":"1","shortCode":"abc123","originalUrl":"https://example.com","isActive":true}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	m, _ = Navigate(m, "/login")
	require.Equal(t, app.ScreenLogin, m.CurrentScreen)

	// invalid input never reaches the API
	m.AuthForm.SetValue("email", "not-an-email")
	m.AuthForm.SetValue("password", "ab")
	m, cmd := UpdateScreenAuth(m, key("enter"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.AuthForm.Errors, "email")
	assert.Contains(t, m.AuthForm.Errors, "password")

	m.AuthForm.SetValue("email", "a@b.com")
	m.AuthForm.SetValue("password", "abc123")
	m, cmd = UpdateScreenAuth(m, key("enter"))
	require.True(t, m.Busy)
	m = settle(t, m, cmd)

	assert.Equal(t, "tok-1", m.Session.Token())
	assert.Equal(t, app.ScreenShortener, m.CurrentScreen)

	// guest-only screens now bounce home
	m, _ = Navigate(m, "/register")
	assert.Equal(t, app.ScreenShortener, m.CurrentScreen)
	assert.Equal(t, "/register", m.Location.RedirectedFrom)

	m, cmd = Navigate(m, "/my-urls")
	require.Equal(t, app.ScreenMyURLs, m.CurrentScreen)
	m = settle(t, m, cmd)
	require.Len(t, m.Links, 1)
	assert.False(t, m.Busy)

	// ctrl+o logs out and the guard moves the dashboard to login
	m, _, handled := UpdateGlobalKeys(m, key("ctrl+o"))
	require.True(t, handled)
	assert.False(t, m.Session.IsLoggedIn())
	assert.Equal(t, app.ScreenLogin, m.CurrentScreen)
}

func TestUnauthorizedResponseLogsOut(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	require.NoError(t, m.Session.SetToken("expired"))

	m, cmd := Navigate(m, "/my-urls")
	require.Equal(t, app.ScreenMyURLs, m.CurrentScreen)
	m = settle(t, m, cmd)

	assert.False(t, m.Session.IsLoggedIn())
	assert.Equal(t, app.ScreenLogin, m.CurrentScreen)
	assert.True(t, m.StatusError)
}

func TestRedirect_ProtectedLink(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/urls/locked1":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"passwordRequired":true}`))
		case "/api/urls/locked1/unlock":
			_, _ = w.Write([]byte(`{"originalUrl":"https://example.com/secret"}`))
		case "/api/urls/gone12":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	m, cmd := Navigate(m, "/locked1")
	require.Equal(t, app.ScreenRedirect, m.CurrentScreen)
	m = settle(t, m, cmd)
	assert.Equal(t, app.ScreenProtectedLink, m.CurrentScreen)
	assert.Equal(t, "/protected-link/locked1", m.Location.Path)

	m.UnlockForm.SetValue("password", "p@ss12")
	m, cmd = UpdateScreenProtectedLink(m, key("enter"))
	for _, msg := range results(cmd) {
		// handle without running the browser command
		m, _, _ = HandleResult(m, msg)
	}
	assert.Equal(t, "https://example.com/secret", m.ResolvedURL)

	m, cmd = Navigate(m, "/gone12")
	m = settle(t, m, cmd)
	assert.Equal(t, app.ScreenRedirect, m.CurrentScreen)
	assert.True(t, m.StatusError)
	assert.Contains(t, m.Status, "gone12")
}

func TestProtectedLink_WrongPasswordKeepsSession(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/urls/locked1":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"passwordRequired":true}`))
		case "/api/urls/locked1/unlock":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"wrong password"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	require.NoError(t, m.Session.SetToken("tok-1"))

	m, cmd := Navigate(m, "/locked1")
	m = settle(t, m, cmd)
	require.Equal(t, app.ScreenProtectedLink, m.CurrentScreen)

	m.UnlockForm.SetValue("password", "wrong1")
	m, cmd = UpdateScreenProtectedLink(m, key("enter"))
	m = settle(t, m, cmd)

	assert.True(t, m.Session.IsLoggedIn())
	assert.Equal(t, "tok-1", m.Session.Token())
	assert.Equal(t, app.ScreenProtectedLink, m.CurrentScreen)
	assert.Equal(t, "/protected-link/locked1", m.Location.Path)
	assert.False(t, m.Busy)
	assert.True(t, m.StatusError)
	assert.Equal(t, "Incorrect password", m.UnlockForm.Errors["password"])
	assert.Empty(t, m.UnlockForm.Value("password"))
	assert.Empty(t, m.ResolvedURL)
}

func TestShortener_SubmitsValidForm(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"1","shortCode":"mycode1","originalUrl":"https://example.com","isActive":true}`))
	})

	m, _ = Navigate(m, "/")
	m.ShortenerForm.SetValue("originalUrl", "ftp://x.com")
	m, cmd := UpdateScreenShortener(m, key("enter"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.ShortenerForm.Errors, "originalUrl")

	m.ShortenerForm.SetValue("originalUrl", "https://example.com")
	m, cmd = UpdateScreenShortener(m, key("enter"))
	m = settle(t, m, cmd)
	require.NotNil(t, m.LastLink)
	assert.Equal(t, "mycode1", m.LastLink.ShortCode)
	assert.Contains(t, m.Status, "https://sn.ip/mycode1")
}

func TestStaleResultIsDropped(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {})
	m, _ = Navigate(m, "/")

	m, _, ok := HandleResult(m, linksLoadedMsg{path: "/my-urls", links: []api.Link{{ID: "1"}}})
	assert.True(t, ok)
	assert.Empty(t, m.Links)
}

func TestAddressBarAndHistory(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {})
	m, _ = Navigate(m, "/")

	m, _, _ = UpdateGlobalKeys(m, key("ctrl+g"))
	require.True(t, m.AddressBarActive)
	m.AddressBar.SetValue("/register")
	m, _, _ = UpdateGlobalKeys(m, key("enter"))
	assert.False(t, m.AddressBarActive)
	assert.Equal(t, app.ScreenRegister, m.CurrentScreen)

	m, _, handled := UpdateGlobalKeys(m, key("alt+left"))
	require.True(t, handled)
	assert.Equal(t, app.ScreenShortener, m.CurrentScreen)

	_, _, handled = UpdateGlobalKeys(m, key("x"))
	assert.False(t, handled)
}

// linksBackend serves the dashboard endpoints over an in-memory link list and
// records the raw bodies of PATCH requests.
type linksBackend struct {
	mu      sync.Mutex
	links   []api.Link
	patches []map[string]any
	deletes []string
}

func (b *linksBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer tok-1" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if r.URL.Path == "/api/urls/mine" {
		_ = json.NewEncoder(w).Encode(b.links)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/urls/")
	for i, l := range b.links {
		if l.ID != id {
			continue
		}
		switch r.Method {
		case http.MethodPatch:
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			b.patches = append(b.patches, body)
			l.OriginalURL, _ = body["originalUrl"].(string)
			l.Description, _ = body["description"].(string)
			l.IsActive, _ = body["isActive"].(bool)
			b.links[i] = l
			_ = json.NewEncoder(w).Encode(l)
		case http.MethodDelete:
			b.deletes = append(b.deletes, id)
			b.links = append(b.links[:i:i], b.links[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
		}
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (b *linksBackend) lastPatch() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.patches) == 0 {
		return nil
	}
	return b.patches[len(b.patches)-1]
}

func (b *linksBackend) deleted() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deletes...)
}

func newDashboard(t *testing.T) (app.Model, *linksBackend) {
	t.Helper()
	backend := &linksBackend{links: []api.Link{
		{ID: "1", ShortCode: "abc123", OriginalURL: "https://a.com", Description: "docs", IsActive: true},
		{ID: "2", ShortCode: "xyz789", OriginalURL: "https://b.com"},
	}}
	m := newTestModel(t, backend.ServeHTTP)
	require.NoError(t, m.Session.SetToken("tok-1"))

	m, cmd := Navigate(m, "/my-urls")
	require.Equal(t, app.ScreenMyURLs, m.CurrentScreen)
	m = settle(t, m, cmd)
	require.Len(t, m.Links, 2)
	return m, backend
}

func TestMyURLs_ToggleActiveKeepsDescription(t *testing.T) {
	m, backend := newDashboard(t)

	m, cmd := UpdateScreenMyURLs(m, key("a"))
	require.True(t, m.Busy)
	m = settle(t, m, cmd)

	body := backend.lastPatch()
	require.NotNil(t, body)
	assert.Equal(t, false, body["isActive"])
	assert.Equal(t, "docs", body["description"])
	_, hasPassword := body["password"]
	assert.False(t, hasPassword)

	assert.False(t, m.Links[0].IsActive)
	assert.Equal(t, "docs", m.Links[0].Description)
	assert.Equal(t, "Saved abc123", m.Status)

	// a link without a description sends an explicit null
	m.LinksTable.SetCursor(1)
	m, cmd = UpdateScreenMyURLs(m, key("a"))
	m = settle(t, m, cmd)
	body = backend.lastPatch()
	assert.Equal(t, true, body["isActive"])
	desc, hasDesc := body["description"]
	assert.True(t, hasDesc)
	assert.Nil(t, desc)
	assert.True(t, m.Links[1].IsActive)
}

func TestMyURLs_EditClearsDescription(t *testing.T) {
	m, backend := newDashboard(t)

	m, _ = UpdateScreenMyURLs(m, key("e"))
	require.True(t, m.Editing)
	assert.Equal(t, "1", m.EditingID)
	assert.Equal(t, "https://a.com", m.EditForm.Value("originalUrl"))
	assert.Equal(t, "docs", m.EditForm.Value("description"))

	// invalid input stays in the form
	m.EditForm.SetValue("originalUrl", "ftp://a.com")
	m, cmd := UpdateScreenMyURLs(m, key("enter"))
	assert.Nil(t, cmd)
	assert.True(t, m.Editing)
	assert.Contains(t, m.EditForm.Errors, "originalUrl")
	assert.Nil(t, backend.lastPatch())

	m.EditForm.SetValue("originalUrl", "https://a.com/new")
	m.EditForm.SetValue("description", "")
	m, cmd = UpdateScreenMyURLs(m, key("enter"))
	m = settle(t, m, cmd)

	body := backend.lastPatch()
	require.NotNil(t, body)
	assert.Equal(t, "https://a.com/new", body["originalUrl"])
	desc, hasDesc := body["description"]
	assert.True(t, hasDesc)
	assert.Nil(t, desc)
	_, hasPassword := body["password"]
	assert.False(t, hasPassword)

	assert.False(t, m.Editing)
	assert.Empty(t, m.EditingID)
	assert.Equal(t, "https://a.com/new", m.Links[0].OriginalURL)
	assert.Empty(t, m.Links[0].Description)

	// esc leaves the form without saving
	m, _ = UpdateScreenMyURLs(m, key("e"))
	require.True(t, m.Editing)
	m, _ = UpdateScreenMyURLs(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Editing)
}

func TestMyURLs_DeleteConfirmAndClampCursor(t *testing.T) {
	m, backend := newDashboard(t)
	m.LinksTable.SetCursor(1)

	m, _ = UpdateScreenMyURLs(m, key("d"))
	require.True(t, m.ConfirmDelete)
	assert.Contains(t, m.Status, "xyz789")

	m, cmd := UpdateScreenMyURLs(m, key("n"))
	assert.Nil(t, cmd)
	assert.False(t, m.ConfirmDelete)
	assert.Equal(t, "Delete cancelled.", m.Status)
	assert.Empty(t, backend.deleted())
	require.Len(t, m.Links, 2)

	m, _ = UpdateScreenMyURLs(m, key("d"))
	m, cmd = UpdateScreenMyURLs(m, key("y"))
	require.True(t, m.Busy)
	m = settle(t, m, cmd)

	assert.Equal(t, []string{"2"}, backend.deleted())
	require.Len(t, m.Links, 1)
	assert.Equal(t, "Deleted.", m.Status)
	assert.Equal(t, 0, m.LinksTable.Cursor())
	l, ok := selectedLink(m)
	require.True(t, ok)
	assert.Equal(t, "abc123", l.ShortCode)
}
