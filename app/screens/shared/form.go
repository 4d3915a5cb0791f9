package shared

import (
	"strings"

	"github.com/Guerrilla-Interactive/snip-cli/app"
)

const labelWidth = 18

// RenderForm draws each field with its label, input and last error.
func RenderForm(f app.Form) string {
	var b strings.Builder
	for i, field := range f.Fields {
		label := field.Label
		if label == "" {
			label = field.Name
		}
		cursor := "  "
		style := app.ChoiceStyle
		if i == f.Focus {
			cursor = app.HighlightStyle.Render("> ")
			style = app.SubtitleStyle
		}
		b.WriteString(cursor)
		b.WriteString(style.Width(labelWidth).Render(label))
		if field.Toggle {
			box := "[ ]"
			if f.Toggles[field.Name] {
				box = "[x]"
			}
			b.WriteString(box)
		} else {
			b.WriteString(f.Inputs[i].View())
		}
		if msg, ok := f.Errors[field.Name]; ok {
			b.WriteString("\n")
			b.WriteString(strings.Repeat(" ", labelWidth+2))
			b.WriteString(app.ErrorStyle.Render(msg))
		}
		if i < len(f.Fields)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
