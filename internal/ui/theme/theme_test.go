package theme

import (
	"testing"

	"charm.land/lipgloss/v2"
)

func TestActivityColor(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"#FF6B6B", lipgloss.Color("#FF6B6B")},
		{" #00aa00 ", lipgloss.Color("#00aa00")},
		{"", Accent},
		{"red", Accent},
		{"#GG0000", Accent},
		{"#FFF", Accent},
	}
	for _, tt := range tests {
		if got := ActivityColor(tt.in); got != tt.want {
			t.Errorf("ActivityColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
