package app

import (
	"errors"
	"fmt"

	"github.com/Guerrilla-Interactive/snip-cli/app/api"
	"github.com/Guerrilla-Interactive/snip-cli/app/router"
	"github.com/Guerrilla-Interactive/snip-cli/app/session"
	config "github.com/Guerrilla-Interactive/snip-cli/internal"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Screen indicates which screen is currently shown. Values match the View
// names in the route table.
type Screen string

const (
	ScreenShortener     Screen = "shortener"
	ScreenRedirect      Screen = "redirect"
	ScreenProtectedLink Screen = "protected-link"
	ScreenLogin         Screen = "login"
	ScreenRegister      Screen = "register"
	ScreenMyURLs        Screen = "my-urls"
	ScreenNotFound      Screen = "not-found"
)

// Model is the primary application state shared by all screens.
type Model struct {
	CurrentScreen Screen
	Location      router.Location

	Config  config.Config
	Session *session.Store
	Nav     *router.Navigator
	API     *api.Client
	Log     *zap.Logger

	TerminalWidth  int
	TerminalHeight int

	// Status is the one-line message under the active screen.
	Status      string
	StatusError bool
	Busy        bool
	Spinner     spinner.Model

	AddressBar       textinput.Model
	AddressBarActive bool

	// Shortener
	ShortenerForm Form
	LastLink      *api.Link

	// Login and register share one form layout.
	AuthForm Form

	// Redirect and protected-link
	ResolvedURL string
	UnlockForm  Form

	// My URLs dashboard
	Links         []api.Link
	LinksTable    table.Model
	EditForm      Form
	Editing       bool
	EditingID     string
	ConfirmDelete bool
}

// NewModel wires the session, router and API client into a fresh Model.
// No screen is active until the first navigation.
func NewModel(cfg config.Config, store *session.Store, client *api.Client, log *zap.Logger) (Model, error) {
	if store == nil || client == nil {
		return Model{}, errors.New("app: session and api client are required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	routes, err := NewRouteTable()
	if err != nil {
		return Model{}, fmt.Errorf("invalid route table: %w", err)
	}

	addr := textinput.New()
	addr.Prompt = "go to: "
	addr.Placeholder = "/my-urls"
	addr.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = HighlightStyle

	return Model{
		Config:     cfg,
		Session:    store,
		Nav:        router.NewNavigator(routes, store, log),
		API:        client,
		Log:        log,
		Spinner:    sp,
		AddressBar: addr,
	}, nil
}

// SetStatus shows an informational line.
func (m *Model) SetStatus(format string, args ...any) {
	m.Status = fmt.Sprintf(format, args...)
	m.StatusError = false
}

// SetError shows err in the status line and logs it.
func (m *Model) SetError(err error) {
	if err == nil {
		return
	}
	m.Log.Warn("screen error", zap.String("screen", string(m.CurrentScreen)), zap.Error(err))
	m.Status = err.Error()
	m.StatusError = true
}

var (
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).MarginTop(1)
	SubtitleStyle  = lipgloss.NewStyle().Bold(true)
	HighlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA500"))
	ChoiceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	HelpStyle      = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#888888"))
	PathStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	LinkStyle      = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("#5FAFFF"))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F"))
)
