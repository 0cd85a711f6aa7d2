package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kidtimer/internal/ui/theme"
)

// InputKind restricts what a TextInput accepts.
type InputKind int

const (
	InputText    InputKind = iota
	InputInteger           // digits only
	InputDecimal           // digits and one dot
)

// TextInput wraps bubbles/textinput with a label and validity mark.
type TextInput struct {
	Model   textinput.Model
	Label   string
	Kind    InputKind
	invalid bool
}

// NewTextInput creates a labelled input. It starts blurred.
func NewTextInput(label, placeholder string, kind InputKind, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	return TextInput{Model: ti, Label: label, Kind: kind}
}

// Update handles messages, dropping keys the input kind rejects.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && !t.accepts(kmsg.String()) {
		return t, nil
	}
	t.invalid = false
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) accepts(key string) bool {
	if len(key) != 1 {
		return true // control keys
	}
	c := key[0]
	switch t.Kind {
	case InputInteger:
		return c >= '0' && c <= '9'
	case InputDecimal:
		if c == '.' {
			return !strings.Contains(t.Model.Value(), ".")
		}
		return c >= '0' && c <= '9'
	}
	return true
}

// View renders the label and input.
func (t TextInput) View() string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(14).Render(t.Label)
	if t.Model.Focused() {
		label = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Width(14).Render(t.Label)
	}
	view := label + t.Model.View()
	if t.invalid {
		view += " " + theme.Bad.Render("✗")
	}
	return view
}

// Focus focuses the input.
func (t *TextInput) Focus() tea.Cmd { return t.Model.Focus() }

// Blur removes focus.
func (t *TextInput) Blur() { t.Model.Blur() }

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(s string) { t.Model.SetValue(s) }

// Int returns the value as an integer; empty is def.
func (t TextInput) Int(def int) (int, error) {
	if t.Value() == "" {
		return def, nil
	}
	return strconv.Atoi(t.Value())
}

// Float returns the value as a float; empty is def.
func (t TextInput) Float(def float64) (float64, error) {
	if t.Value() == "" {
		return def, nil
	}
	return strconv.ParseFloat(t.Value(), 64)
}

// MarkInvalid flags the input until it is edited again.
func (t *TextInput) MarkInvalid() { t.invalid = true }

// Invalid reports whether the input is flagged.
func (t TextInput) Invalid() bool { return t.invalid }
