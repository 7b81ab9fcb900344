package components

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestScoreBar_Animation(t *testing.T) {
	bar := NewScoreBar(30)
	if cmd := bar.SetScore(80); cmd == nil {
		t.Fatal("SetScore() should start the animation")
	}

	for i := 0; i < 1000; i++ {
		var cmd tea.Cmd
		bar, cmd = bar.Update(AnimationTickMsg(time.Now()))
		if cmd == nil {
			break
		}
	}
	if bar.Score() != 80 {
		t.Errorf("Score() = %v, want 80", bar.Score())
	}
	if cmd := bar.SetScore(80); cmd != nil {
		t.Error("SetScore() at the current score should not animate")
	}
	if view := bar.View(30); !strings.Contains(view, "80") {
		t.Errorf("View() = %q, missing score", view)
	}
}

func TestScoreBar_Clamps(t *testing.T) {
	tests := []struct {
		in   int
		want float64
	}{
		{150, 100},
		{-5, 0},
	}

	for _, tt := range tests {
		bar := NewScoreBar(20)
		bar.current = 50
		bar.SetScore(tt.in)
		for i := 0; i < 1000 && bar.animated; i++ {
			bar, _ = bar.Update(AnimationTickMsg(time.Now()))
		}
		if bar.Score() != tt.want {
			t.Errorf("SetScore(%d) settled at %v, want %v", tt.in, bar.Score(), tt.want)
		}
	}
}

func TestScoreBar_IgnoresOtherMessages(t *testing.T) {
	bar := NewScoreBar(20)
	bar.SetScore(40)
	next, cmd := bar.Update("other")
	if cmd != nil || next.Score() != 0 {
		t.Errorf("Update(other) moved bar to %v", next.Score())
	}
}

func TestRenderGradientBar(t *testing.T) {
	tests := []struct {
		percent      float64
		width        int
		filled, rest int
	}{
		{50, 10, 5, 5},
		{0, 4, 0, 4},
		{100, 4, 4, 0},
		{150, 4, 4, 0},
		{-10, 4, 0, 4},
	}

	for _, tt := range tests {
		got := RenderGradientBar(tt.percent, tt.width)
		if n := strings.Count(got, "█"); n != tt.filled {
			t.Errorf("RenderGradientBar(%v, %d) filled = %d, want %d", tt.percent, tt.width, n, tt.filled)
		}
		if n := strings.Count(got, "░"); n != tt.rest {
			t.Errorf("RenderGradientBar(%v, %d) empty = %d, want %d", tt.percent, tt.width, n, tt.rest)
		}
	}

	if got := RenderGradientBar(50, 0); got != "" {
		t.Errorf("RenderGradientBar(width 0) = %q, want empty", got)
	}
}

func TestRenderScoreCell(t *testing.T) {
	if got := RenderScoreCell(73, 15); !strings.Contains(got, "73") {
		t.Errorf("RenderScoreCell() = %q, missing score", got)
	}
}

func TestInterpolateColor(t *testing.T) {
	tests := []struct {
		from, to string
		t        float64
		want     string
	}{
		{"#000000", "#ffffff", 0, "#000000"},
		{"#000000", "#ffffff", 1, "#ffffff"},
		{"#000000", "#ffffff", 0.5, "#7f7f7f"},
		{"bogus", "#ffffff", 0, "#000000"},
	}

	for _, tt := range tests {
		if got := interpolateColor(tt.from, tt.to, tt.t); got != tt.want {
			t.Errorf("interpolateColor(%q, %q, %v) = %q, want %q", tt.from, tt.to, tt.t, got, tt.want)
		}
	}
}

func TestRenderShimmer(t *testing.T) {
	for _, frame := range []int{0, 30, 60, 119, 500} {
		got := RenderShimmer("forecast", 40, frame)
		if !strings.Contains(got, "forecast") {
			t.Errorf("RenderShimmer(frame %d) = %q, missing label", frame, got)
		}
		if !strings.Contains(got, "▓") {
			t.Errorf("RenderShimmer(frame %d) has no highlight", frame)
		}
	}
}
