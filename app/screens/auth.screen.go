package screens

import (
	"github.com/Guerrilla-Interactive/snip-cli/app"
	"github.com/Guerrilla-Interactive/snip-cli/app/api"
	"github.com/Guerrilla-Interactive/snip-cli/app/forms"
	"github.com/Guerrilla-Interactive/snip-cli/app/router"
	sharedScreens "github.com/Guerrilla-Interactive/snip-cli/app/screens/shared"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func newAuthForm() app.Form {
	return app.NewForm(
		app.FormField{Name: "email", Label: "Email", Placeholder: "you@example.com", MaxChars: 254},
		app.FormField{Name: "password", Label: "Password", Secret: true, MaxChars: 20},
	)
}

// UpdateScreenAuth handles key events for both the login and register screens.
func UpdateScreenAuth(m app.Model, msg tea.KeyMsg) (app.Model, tea.Cmd) {
	if m.Busy {
		return m, nil
	}
	register := m.CurrentScreen == app.ScreenRegister
	switch msg.String() {
	case "enter":
		schema := forms.LoginFormSchema
		if register {
			schema = forms.RegisterFormSchema
		}
		res := m.AuthForm.Validate(schema)
		if !res.Valid() {
			return showInvalid(m, res), nil
		}
		var creds api.Credentials
		if err := res.Bind(&creds); err != nil {
			m.SetError(err)
			return m, nil
		}
		return startBusy(m, authCmd(m.API, m.Location.Path, register, creds))
	case "ctrl+t":
		if register {
			return Navigate(m, router.LoginPath)
		}
		return Navigate(m, app.RegisterPath)
	}
	var cmd tea.Cmd
	m.AuthForm, cmd = m.AuthForm.Update(msg)
	return m, cmd
}

func handleAuth(m app.Model, msg authMsg) (app.Model, tea.Cmd) {
	m.Busy = false
	if msg.err != nil {
		m.AuthForm.SetValue("password", "")
		return handleAPIError(m, msg.err)
	}
	storeErr := m.Session.SetToken(msg.token)
	m, cmd := Navigate(m, router.HomePath)
	if storeErr != nil {
		m.SetError(storeErr)
		return m, cmd
	}
	if id, ok := m.Session.Identity(); ok {
		m.Log.Info("signed in", zap.String("who", id.Label()))
		m.SetStatus("Welcome, %s!", id.Label())
		return m, cmd
	}
	m.Log.Info("signed in")
	m.SetStatus("Welcome back!")
	return m, cmd
}

// ViewScreenAuth renders the login or register form.
func ViewScreenAuth(m app.Model) string {
	title, other := "Log in", "ctrl+t create an account"
	if m.CurrentScreen == app.ScreenRegister {
		title, other = "Create an account", "ctrl+t log in instead"
	}
	return sharedScreens.Page(m, title, sharedScreens.RenderForm(m.AuthForm), "enter submit", "tab next field", other)
}
