package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mdoering/marquee/internal/tui/styles"
)

// FormField describes one input in a Form
type FormField struct {
	Label  string
	Secret bool // mask input (passwords)
}

// Form is a vertical stack of labeled text inputs with a focus cursor.
// Used for the login, signup and profile edit screens.
type Form struct {
	title  string
	fields []FormField
	inputs []textinput.Model
	focus  int
	errMsg string
}

// NewForm creates a form with the given fields, first field focused
func NewForm(title string, fields []FormField) Form {
	inputs := make([]textinput.Model, len(fields))
	for i, field := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 100
		ti.Width = 32
		ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
		ti.PlaceholderStyle = styles.DimStyle
		if field.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		if i == 0 {
			ti.Focus()
		}
		inputs[i] = ti
	}

	return Form{
		title:  title,
		fields: fields,
		inputs: inputs,
	}
}

// Values returns the current field values in declaration order
func (f Form) Values() []string {
	values := make([]string, len(f.inputs))
	for i, input := range f.inputs {
		values[i] = strings.TrimSpace(input.Value())
	}
	return values
}

// SetValue pre-fills a field, used when editing an existing profile
func (f *Form) SetValue(i int, value string) {
	if i >= 0 && i < len(f.inputs) {
		f.inputs[i].SetValue(value)
	}
}

// SetError displays an error line under the form
func (f *Form) SetError(msg string) {
	f.errMsg = msg
}

// Reset clears all fields and errors and refocuses the first field
func (f *Form) Reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.inputs[0].Focus()
	f.focus = 0
	f.errMsg = ""
}

// Update handles input events, returns (form, cmd, submitted). Enter on
// the last field submits; tab and shift+tab move the focus.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd, bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if f.focus == len(f.inputs)-1 {
				return f, nil, true
			}
			f.setFocus(f.focus + 1)
			return f, nil, false
		case "tab", "down":
			f.setFocus((f.focus + 1) % len(f.inputs))
			return f, nil, false
		case "shift+tab", "up":
			f.setFocus((f.focus + len(f.inputs) - 1) % len(f.inputs))
			return f, nil, false
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f *Form) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

// View renders the form inside a bordered modal
func (f Form) View() string {
	rows := make([]string, 0, len(f.fields)+3)
	rows = append(rows, styles.ModalTitleStyle.Render(f.title))

	for i, field := range f.fields {
		label := styles.LabelStyle
		if i == f.focus {
			label = styles.FocusedLabelStyle
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			label.Render(field.Label),
			f.inputs[i].View(),
		))
	}

	if f.errMsg != "" {
		rows = append(rows, "", styles.ErrorStyle.Render(f.errMsg))
	}
	rows = append(rows, "", styles.DimStyle.Render("enter submit · tab next field · esc cancel"))

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
