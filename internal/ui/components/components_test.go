package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

func TestProgressBarWidth(t *testing.T) {
	for _, pct := range []float64{0, 0.5, 1, 1.7, -1} {
		bar := NewProgressBar("🎹 Piano", pct, "2/4", 40)
		if got := lipgloss.Width(bar.View()); got != 40 {
			t.Errorf("pct %.1f: width = %d, want 40", pct, got)
		}
	}
}

func TestProgressBarDetail(t *testing.T) {
	view := NewProgressBar("", 0.25, "1/4", 20).View()
	if !strings.Contains(view, "1/4") {
		t.Errorf("expected detail in %q", view)
	}
}

func TestMenuSkipsDisabled(t *testing.T) {
	called := ""
	m := NewMenu([]MenuItem{
		{Label: "off", Disabled: true},
		{Label: "a", Action: func() tea.Cmd { called = "a"; return nil }},
		{Label: "off2", Disabled: true},
		{Label: "b", Action: func() tea.Cmd { called = "b"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want first enabled item 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("after down Selected = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if called != "b" {
		t.Errorf("called = %q, want b", called)
	}

	m.Select(2)
	if m.Selected != 3 {
		t.Errorf("Select(disabled) moved cursor to %d", m.Selected)
	}
	if !strings.Contains(m.View(), "▸ b") {
		t.Errorf("view does not mark selection: %q", m.View())
	}
}

func TestTextInputKinds(t *testing.T) {
	type step struct {
		kind InputKind
		keys string
		want string
	}
	tests := []step{
		{InputText, "ab1.", "ab1."},
		{InputInteger, "1a2.", "12"},
		{InputDecimal, "0.5.x1", "0.51"},
	}
	for _, tt := range tests {
		in := NewTextInput("x", "", tt.kind, 0)
		in.Focus()
		for _, r := range tt.keys {
			in, _ = in.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
		}
		if in.Value() != tt.want {
			t.Errorf("kind %d keys %q: value = %q, want %q", tt.kind, tt.keys, in.Value(), tt.want)
		}
	}
}

func TestTextInputParse(t *testing.T) {
	in := NewTextInput("n", "", InputInteger, 0)
	if v, err := in.Int(7); err != nil || v != 7 {
		t.Errorf("empty Int = %d, %v; want default", v, err)
	}
	in.SetValue("12")
	if v, err := in.Int(0); err != nil || v != 12 {
		t.Errorf("Int = %d, %v", v, err)
	}
	in.SetValue("1.5")
	if v, err := in.Float(0); err != nil || v != 1.5 {
		t.Errorf("Float = %v, %v", v, err)
	}
	in.MarkInvalid()
	if !in.Invalid() || !strings.Contains(in.View(), "✗") {
		t.Error("expected invalid mark")
	}
}
