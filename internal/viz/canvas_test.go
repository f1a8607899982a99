package viz

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0, 0)
	c.Set(1, 3, 0)
	c.Set(2, 0, 1)

	if c.Grid[0][0] != 0x2800|0x1|0x80 {
		t.Errorf("unexpected cell %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2801 {
		t.Errorf("unexpected cell %U", c.Grid[0][1])
	}
	if c.Ink[0][1] != 1 {
		t.Errorf("expected ink 1, got %d", c.Ink[0][1])
	}

	// Out of bounds is ignored.
	c.Set(-1, 0, 0)
	c.Set(4, 0, 0)
	c.Set(0, 4, 0)
}

func TestCanvasFillDisc(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillDisc(4, 4, 5, 1)

	set := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for p := r - 0x2800; p != 0; p &= p - 1 {
				set++
			}
		}
	}
	if set < 12 || set > 25 {
		t.Errorf("expected a disc of ~20 dots, got %d", set)
	}

	c.Clear()
	if strings.Trim(c.String(), "\u2800\n") != "" {
		t.Error("expected blank canvas after clear")
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(4, 1)
	c.Set(0, 0, 0)
	c.Set(6, 0, 1)

	if got, want := c.Render(nil), c.String(); got != want {
		t.Errorf("unstyled render mismatch: %q vs %q", got, want)
	}

	styled := c.Render([]lipgloss.Style{lipgloss.NewStyle().Bold(true), lipgloss.NewStyle()})
	if !strings.Contains(styled, string(c.Grid[0][3])) {
		t.Errorf("styled render lost cells: %q", styled)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		index, total, width int
		filled              int
	}{
		{0, 10, 10, 0},
		{9, 10, 10, 10},
		{0, 1, 5, 0},
		{3, 7, 12, 6},
	}

	for _, tt := range tests {
		bar := []rune(ProgressBar(tt.index, tt.total, tt.width))
		if len(bar) != tt.width {
			t.Errorf("expected width %d, got %d", tt.width, len(bar))
		}
		if n := strings.Count(string(bar), "█"); n != tt.filled {
			t.Errorf("%d/%d: expected %d filled, got %d", tt.index, tt.total, tt.filled, n)
		}
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "classic" {
		t.Error("unknown theme should fall back to classic")
	}
	seen := map[string]bool{}
	th := ThemeClassic
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th)
	}
	if len(seen) != len(ThemeNames()) {
		t.Errorf("NextTheme visited %d of %d themes", len(seen), len(Themes))
	}
}
