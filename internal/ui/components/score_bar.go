package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/logger"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/styles"
)

const (
	lowColor  = "#ff6b6b"
	highColor = "#51cf66"
)

// AnimationTickMsg drives score bar and shimmer animations.
type AnimationTickMsg time.Time

func animationTick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimationTickMsg(t)
	})
}

// ScoreBar renders a 0..100 normalized score as a gradient progress bar
// that eases toward its target whenever the score changes.
type ScoreBar struct {
	progress progress.Model
	target   float64
	current  float64
	animated bool
}

// NewScoreBar creates a score bar of the given width.
func NewScoreBar(width int) ScoreBar {
	return ScoreBar{
		progress: progress.New(
			progress.WithScaledGradient(lowColor, highColor),
			progress.WithWidth(max(width, 5)),
			progress.WithoutPercentage(),
		),
	}
}

// SetScore moves the bar toward score. It returns the first animation tick,
// or nil when the bar already shows score. Callers driving several bars
// should forward one tick per AnimationTickMsg.
func (b *ScoreBar) SetScore(score int) tea.Cmd {
	b.target = float64(min(max(score, 0), 100))
	if b.current == b.target {
		b.animated = false
		return nil
	}
	b.animated = true
	return animationTick()
}

// Score returns the value currently drawn.
func (b ScoreBar) Score() float64 {
	return b.current
}

// Update advances the animation.
func (b ScoreBar) Update(msg tea.Msg) (ScoreBar, tea.Cmd) {
	if _, ok := msg.(AnimationTickMsg); !ok || !b.animated {
		return b, nil
	}

	diff := b.target - b.current
	step := max(abs(diff)/10, 0.5)
	switch {
	case diff > 0:
		b.current = min(b.current+step, b.target)
	case diff < 0:
		b.current = max(b.current-step, b.target)
	}
	if b.current == b.target {
		b.animated = false
		return b, nil
	}
	return b, animationTick()
}

// View renders the bar followed by the score.
func (b ScoreBar) View(width int) string {
	b.progress.Width = max(width-5, 5)
	score := styles.ScoreStyle(int(b.current+0.5)).
		Width(4).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f", b.current))
	return b.progress.ViewAs(b.current/100) + " " + score
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// RenderGradientBar renders a static bar filled to percent, shading from
// red at the empty end to green at the full end.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := min(max(int(float64(width)*percent/100), 0), width)

	var b strings.Builder
	empty := lipgloss.NewStyle().Foreground(styles.Subtle)
	for i := 0; i < width; i++ {
		if i >= filled {
			b.WriteString(empty.Render("░"))
			continue
		}
		t := float64(i) / float64(max(1, width-1))
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(interpolateColor(lowColor, highColor, t))).
			Render("█"))
	}
	return b.String()
}

// RenderScoreCell renders a compact score for a table cell.
func RenderScoreCell(score int, width int) string {
	label := styles.ScoreStyle(score).Width(4).Align(lipgloss.Right).Render(fmt.Sprintf("%d", score))
	return RenderGradientBar(float64(score), max(width-5, 1)) + " " + label
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	mix := func(a, b int) int {
		return int(float64(a) + t*(float64(b)-float64(a)))
	}
	return fmt.Sprintf("#%02x%02x%02x", mix(from[0], to[0]), mix(from[1], to[1]), mix(from[2], to[2]))
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}

// ShimmerCycle is the number of frames for one sweep of the loading shimmer.
const ShimmerCycle = 120

var loadingDots = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// RenderShimmer renders a placeholder bar for a section that is still
// loading. frame advances the highlight back and forth across the bar.
func RenderShimmer(label string, width, frame int) string {
	barWidth := max(width-len(label)-4, 10)

	t := float64(frame%ShimmerCycle) / float64(ShimmerCycle)
	p := t * 2
	if t >= 0.5 {
		p = (1 - t) * 2
	}
	eased := p * p * (3 - 2*p)
	pos := int(eased * float64(barWidth))

	accent := lipgloss.NewStyle().Foreground(styles.Primary)
	mid := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	dim := lipgloss.NewStyle().Foreground(styles.BgLight)

	var b strings.Builder
	for i := 0; i < barWidth; i++ {
		dist := pos - i
		if dist < 0 {
			dist = -dist
		}
		switch {
		case dist < 3:
			b.WriteString(accent.Render("▓"))
		case dist < 5:
			b.WriteString(mid.Render("▒"))
		default:
			b.WriteString(dim.Render("░"))
		}
	}

	dot := accent.Render(loadingDots[(frame/2)%len(loadingDots)])
	return lipgloss.JoinHorizontal(lipgloss.Left,
		styles.LabelStyle.Render(label), " ", b.String(), " ", dot)
}
