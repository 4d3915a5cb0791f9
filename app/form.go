package app

import (
	"github.com/Guerrilla-Interactive/snip-cli/app/forms"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FormField describes one input row of a Form.
type FormField struct {
	Name        string
	Label       string
	Placeholder string
	Presence    forms.Presence
	Secret      bool
	// Toggle fields are booleans flipped with space; they have no text input.
	Toggle   bool
	MaxChars int
}

// Form is the terminal rendition of a form: text inputs, toggles, one focus
// and the last validation errors keyed by field name.
type Form struct {
	Fields  []FormField
	Inputs  []textinput.Model
	Toggles map[string]bool
	Focus   int
	Errors  map[string]string
}

// NewForm builds a form with the first field focused.
func NewForm(fields ...FormField) Form {
	f := Form{
		Fields:  fields,
		Inputs:  make([]textinput.Model, len(fields)),
		Toggles: make(map[string]bool),
	}
	for i, field := range fields {
		if field.Toggle {
			continue
		}
		in := textinput.New()
		in.Placeholder = field.Placeholder
		in.Prompt = ""
		if field.MaxChars > 0 {
			in.CharLimit = field.MaxChars
		}
		if field.Secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.Inputs[i] = in
	}
	f.focus(0)
	return f
}

// Values maps the current inputs to schema input. Empty optional fields are
// omitted, empty nullish fields become nil and required ones stay "".
func (f Form) Values() map[string]any {
	out := make(map[string]any, len(f.Fields))
	for i, field := range f.Fields {
		if field.Toggle {
			out[field.Name] = f.Toggles[field.Name]
			continue
		}
		v := f.Inputs[i].Value()
		if v == "" {
			switch field.Presence {
			case forms.Optional:
				continue
			case forms.Nullish:
				out[field.Name] = nil
				continue
			}
		}
		out[field.Name] = v
	}
	return out
}

// Value returns the raw text of a field.
func (f Form) Value(name string) string {
	if i := f.index(name); i >= 0 {
		return f.Inputs[i].Value()
	}
	return ""
}

// SetValue fills a text field.
func (f *Form) SetValue(name, value string) {
	if i := f.index(name); i >= 0 && !f.Fields[i].Toggle {
		f.Inputs[i].SetValue(value)
	}
}

// SetToggle sets a boolean field.
func (f *Form) SetToggle(name string, on bool) {
	f.Toggles[name] = on
}

// Validate runs schema against the current values and keeps the errors for
// rendering.
func (f *Form) Validate(schema forms.Schema) forms.Result {
	res := schema.Validate(f.Values())
	f.Errors = res.FieldErrors()
	return res
}

// Update moves focus on tab/shift+tab/up/down, flips toggles with space and
// feeds everything else to the focused input.
func (f Form) Update(msg tea.KeyMsg) (Form, tea.Cmd) {
	if len(f.Fields) == 0 {
		return f, nil
	}
	switch msg.String() {
	case "tab", "down":
		return f, f.focus((f.Focus + 1) % len(f.Fields))
	case "shift+tab", "up":
		return f, f.focus((f.Focus + len(f.Fields) - 1) % len(f.Fields))
	case " ":
		if f.Fields[f.Focus].Toggle {
			name := f.Fields[f.Focus].Name
			f.Toggles[name] = !f.Toggles[name]
			return f, nil
		}
	}
	if f.Fields[f.Focus].Toggle {
		return f, nil
	}
	var cmd tea.Cmd
	f.Inputs[f.Focus], cmd = f.Inputs[f.Focus].Update(msg)
	return f, cmd
}

// Forward passes non-key messages such as cursor blinks to the focused input.
func (f Form) Forward(msg tea.Msg) (Form, tea.Cmd) {
	if f.Focus < 0 || f.Focus >= len(f.Fields) || f.Fields[f.Focus].Toggle {
		return f, nil
	}
	var cmd tea.Cmd
	f.Inputs[f.Focus], cmd = f.Inputs[f.Focus].Update(msg)
	return f, cmd
}

func (f *Form) focus(i int) tea.Cmd {
	if i < 0 || i >= len(f.Fields) {
		return nil
	}
	f.Focus = i
	var cmd tea.Cmd
	for j := range f.Inputs {
		if f.Fields[j].Toggle {
			continue
		}
		if j == i {
			cmd = f.Inputs[j].Focus()
		} else {
			f.Inputs[j].Blur()
		}
	}
	return cmd
}

func (f Form) index(name string) int {
	for i, field := range f.Fields {
		if field.Name == name {
			return i
		}
	}
	return -1
}
