package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Guerrilla-Interactive/snip-cli/app/api"
	config "github.com/Guerrilla-Interactive/snip-cli/internal"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a minimal snip API.
type fakeBackend struct {
	mu         sync.Mutex
	token      string
	authCalls  int
	shortened  []api.ShortenRequest
	rejectMine bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-1",
		"email": "a@b.com",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return &fakeBackend{token: token}
}

func (b *fakeBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.authCalls
}

func (b *fakeBackend) requests() []api.ShortenRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.ShortenRequest(nil), b.shortened...)
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	authorized := r.Header.Get("Authorization") == "Bearer "+b.token
	switch {
	case r.URL.Path == "/api/auth/login" || r.URL.Path == "/api/auth/register":
		b.authCalls++
		var creds api.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid email or password"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": b.token})
	case r.URL.Path == "/api/urls" && r.Method == http.MethodPost:
		var req api.ShortenRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.shortened = append(b.shortened, req)
		code := req.CustomShortCode
		if code == "" {
			code = "gen123"
		}
		_ = json.NewEncoder(w).Encode(api.Link{ID: "9", ShortCode: code, OriginalURL: req.OriginalURL, IsActive: req.IsActive})
	case r.URL.Path == "/api/urls/mine":
		if !authorized || b.rejectMine {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"1","shortCode":"abc123","originalUrl":"https://example.com","isActive":true,"clicks":4}]`))
	case r.URL.Path == "/api/urls/open12":
		_, _ = w.Write([]byte(`{"originalUrl":"https://example.com/open"}`))
	case r.URL.Path == "/api/urls/locked1":
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"passwordRequired":true}`))
	case r.URL.Path == "/api/urls/locked1/unlock":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "p@ss12" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"wrong password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"originalUrl":"https://example.com/secret"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// setup writes a config pointing at backend into a temp dir and returns its path.
func setup(t *testing.T, backend http.Handler) string {
	for _, k := range []string{"SNIP_BASE_URL", "SNIP_PUBLIC_URL", "SNIP_STORAGE_BACKEND", "SNIP_STORAGE_PATH", "SNIP_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.PublicURL = "https://sn.ip"
	cfg.Logging.Level = "error"
	require.NoError(t, config.SaveConfig(path, cfg))
	return path
}

func run(t *testing.T, cfgPath string, stdin io.Reader, tui TUIRunner, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand("test", tui)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	root.SetOut(&out)
	root.SetErr(&out)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	root.SetIn(stdin)
	err := root.Execute()
	return out.String(), err
}

func TestRoutes_ShowsGuardDecisions(t *testing.T) {
	cfg := setup(t, newFakeBackend(t))

	out, err := run(t, cfg, nil, nil, "routes")
	require.NoError(t, err)
	assert.Contains(t, out, "/my-urls")
	assert.Contains(t, out, "requires-auth")
	assert.Contains(t, out, "redirect to /login")
	assert.Contains(t, out, "session: guest")
}

func TestLoginMineLogout(t *testing.T) {
	backend := newFakeBackend(t)
	cfg := setup(t, backend)

	_, err := run(t, cfg, nil, nil, "mine")
	assert.ErrorIs(t, err, ErrLoginRequired)

	out, err := run(t, cfg, nil, nil, "login", "--email", "a@b.com", "--password", "abc123")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as a@b.com")

	_, err = run(t, cfg, nil, nil, "login", "--email", "a@b.com", "--password", "abc123")
	assert.ErrorIs(t, err, ErrAlreadyLoggedIn)
	_, err = run(t, cfg, nil, nil, "register", "--email", "a@b.com", "--password", "abc123")
	assert.ErrorIs(t, err, ErrAlreadyLoggedIn)

	out, err = run(t, cfg, nil, nil, "mine")
	require.NoError(t, err)
	assert.Contains(t, out, "https://sn.ip/abc123")

	out, err = run(t, cfg, nil, nil, "mine", "--json")
	require.NoError(t, err)
	var links []api.Link
	require.NoError(t, json.Unmarshal([]byte(out), &links))
	require.Len(t, links, 1)
	assert.Equal(t, 4, links[0].Clicks)

	out, err = run(t, cfg, nil, nil, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as a@b.com")

	out, err = run(t, cfg, nil, nil, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = run(t, cfg, nil, nil, "mine")
	assert.ErrorIs(t, err, ErrLoginRequired)
}

func TestLogin_InvalidFormSkipsAPI(t *testing.T) {
	backend := newFakeBackend(t)
	cfg := setup(t, backend)

	_, err := run(t, cfg, nil, nil, "login", "--email", "not-an-email", "--password", "ab")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "password")
	assert.Equal(t, 0, backend.calls())

	_, err = run(t, cfg, nil, nil, "login", "--email", "a@b.com", "--password", "wrong1")
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, 1, backend.calls())
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	cfg := setup(t, newFakeBackend(t))

	out, err := run(t, cfg, strings.NewReader("abc123\n"), nil, "register", "--email", "a@b.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as")
}

func TestShorten(t *testing.T) {
	backend := newFakeBackend(t)
	cfg := setup(t, backend)

	out, err := run(t, cfg, nil, nil, "shorten", "https://example.com/long", "--code", "mycode1", "--description", "docs")
	require.NoError(t, err)
	assert.Equal(t, "https://sn.ip/mycode1\n", out)

	require.Len(t, backend.requests(), 1)
	req := backend.requests()[0]
	assert.Equal(t, "mycode1", req.CustomShortCode)
	assert.True(t, req.IsActive)
	assert.Nil(t, req.Password)
	require.NotNil(t, req.Description)
	assert.Equal(t, "docs", *req.Description)

	_, err = run(t, cfg, nil, nil, "shorten", "ftp://x.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "originalUrl")

	_, err = run(t, cfg, nil, nil, "shorten", "https://example.com", "--code", "abc!23")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customShortCode")
	assert.Len(t, backend.requests(), 1)
}

func TestResolve(t *testing.T) {
	cfg := setup(t, newFakeBackend(t))

	out, err := run(t, cfg, nil, nil, "resolve", "open12")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/open\n", out)

	_, err = run(t, cfg, nil, nil, "resolve", "locked1")
	assert.ErrorIs(t, err, api.ErrPasswordRequired)

	out, err = run(t, cfg, nil, nil, "resolve", "locked1", "--password", "p@ss12")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/secret\n", out)

	_, err = run(t, cfg, nil, nil, "resolve", "missing")
	assert.ErrorIs(t, err, api.ErrNotFound)

	_, err = run(t, cfg, nil, nil, "resolve", "login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a short code")
}

func TestMine_RejectedTokenLogsOut(t *testing.T) {
	backend := newFakeBackend(t)
	cfg := setup(t, backend)

	_, err := run(t, cfg, nil, nil, "login", "--email", "a@b.com", "--password", "abc123")
	require.NoError(t, err)

	backend.mu.Lock()
	backend.rejectMine = true
	backend.mu.Unlock()

	_, err = run(t, cfg, nil, nil, "mine")
	assert.ErrorIs(t, err, ErrLoginRequired)

	out, err := run(t, cfg, nil, nil, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "session:  guest")
}

func TestOpen_StartsTUIAtPath(t *testing.T) {
	cfg := setup(t, newFakeBackend(t))

	var paths []string
	tui := func(env *Env, startPath string) error {
		require.NotNil(t, env.Session)
		paths = append(paths, startPath)
		return nil
	}

	_, err := run(t, cfg, nil, tui)
	require.NoError(t, err)
	_, err = run(t, cfg, nil, tui, "abc123")
	require.NoError(t, err)
	_, err = run(t, cfg, nil, tui, "open", "/my-urls/")
	require.NoError(t, err)

	assert.Equal(t, []string{"/", "/abc123", "/my-urls"}, paths)
}

func TestConfigCommands(t *testing.T) {
	cfg := setup(t, newFakeBackend(t))

	out, err := run(t, cfg, nil, nil, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, cfg+"\n", out)

	_, err = run(t, cfg, nil, nil, "config", "set", "http.timeout", "30s")
	require.NoError(t, err)
	out, err = run(t, cfg, nil, nil, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "timeout: 30s")

	_, err = run(t, cfg, nil, nil, "config", "set", "storage.backend", "redis")
	assert.Error(t, err)
	_, err = run(t, cfg, nil, nil, "config", "set", "nope", "x")
	assert.Error(t, err)

	_, err = run(t, cfg, nil, nil, "config", "init")
	assert.Error(t, err)
	_, err = run(t, cfg, nil, nil, "config", "init", "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url: http://localhost:3000")
}

func TestConfigSet_RepairsInvalidFile(t *testing.T) {
	cfg := setup(t, newFakeBackend(t))
	require.NoError(t, os.WriteFile(cfg, []byte("base_url: localhost:3000\npublic_url: https://sn.ip\n"), 0o600))

	// commands that need a valid config refuse to start
	_, err := run(t, cfg, nil, nil, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")

	out, err := run(t, cfg, nil, nil, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "localhost:3000")
	assert.Contains(t, out, "warning: invalid config")

	_, err = run(t, cfg, nil, nil, "config", "set", "base_url", "http://localhost:3000")
	require.NoError(t, err)

	out, err = run(t, cfg, nil, nil, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "api:      http://localhost:3000")
}

func TestConfigSet_IgnoresBadEnvOverride(t *testing.T) {
	cfg := setup(t, newFakeBackend(t))
	t.Setenv("SNIP_LOG_LEVEL", "bogus")

	_, err := run(t, cfg, nil, nil, "config", "set", "http.timeout", "20s")
	require.NoError(t, err)

	data, err := os.ReadFile(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 20s")
	assert.NotContains(t, string(data), "bogus")
}
