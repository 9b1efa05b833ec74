package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestCompactThresholds(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          bool
	}{
		{"wide and tall", 120, 40, false},
		{"narrow", 99, 40, true},
		{"at width threshold", 100, 40, false},
		{"short content area", 120, 21, true},
		{"content area just tall enough", 120, 22, false},
	}
	for _, tt := range tests {
		if got := Compact(tt.width, tt.height); got != tt.want {
			t.Errorf("%s: Compact(%d, %d) = %v, want %v", tt.name, tt.width, tt.height, got, tt.want)
		}
	}
}

func TestIsTooSmall(t *testing.T) {
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("minimum size should be allowed")
	}
	if !IsTooSmall(MinWidth-1, MinHeight) || !IsTooSmall(MinWidth, MinHeight-1) {
		t.Error("below minimum in either dimension should be too small")
	}
}

func TestRenderHeaderSessionCell(t *testing.T) {
	signedOut := RenderHeader("Home", "", 0, 120)
	if !strings.Contains(signedOut, "not signed in") {
		t.Errorf("expected signed-out cell in header:\n%s", signedOut)
	}

	signedIn := RenderHeader("Home", "mina", 4, 120)
	if !strings.Contains(signedIn, "@mina") || !strings.Contains(signedIn, "4 day") {
		t.Errorf("expected nickname and streak in header:\n%s", signedIn)
	}
	if !strings.Contains(signedIn, "Code to You") {
		t.Errorf("expected product name in header:\n%s", signedIn)
	}
}

func TestRenderFooterListsHints(t *testing.T) {
	footer := RenderFooter([]KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}, 120)
	for _, want := range []string{"Esc", "Back", "Ctrl+C", "Quit"} {
		if !strings.Contains(footer, want) {
			t.Errorf("expected %q in footer:\n%s", want, footer)
		}
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("Home", "", 0, 80)
	footer := RenderFooter([]KeyHint{{Key: "q", Description: "quit"}}, 80)
	frame := RenderFrame(header, "hello", footer, 80, 24)

	if got := lipgloss.Height(frame); got != 24 {
		t.Errorf("frame height = %d, want 24", got)
	}
}

func TestSpreadKeepsCellOrder(t *testing.T) {
	line := spread("L", "C", "R", 40)
	l, c, r := strings.Index(line, "L"), strings.Index(line, "C"), strings.Index(line, "R")
	if !(l < c && c < r) {
		t.Errorf("cells out of order: %q", line)
	}
	if len(line) != 40 {
		t.Errorf("line width = %d, want 40", len(line))
	}
}
