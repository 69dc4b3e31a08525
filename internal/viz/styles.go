package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravsim/internal/sim"
)

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Primary)
}

func labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Width(14)
}

func valueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Text)
}

func subtle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
}

// Row renders an aligned "label value" line.
func Row(label, value string) string {
	return labelStyle().Render(label) + valueStyle().Render(value)
}

func Title(s string) string { return titleStyle().Render(s) }

// DriftStyle colors a relative energy drift: green below 1e-4, yellow below
// 1e-2, red otherwise.
func DriftStyle(drift float64) lipgloss.Style {
	c := CurrentTheme.Error
	switch {
	case drift < 1e-4:
		c = CurrentTheme.Success
	case drift < 1e-2:
		c = CurrentTheme.Warning
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

// ProgressBar renders a progress bar
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(bar)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the last width values as block characters.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / rng * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteRune(sparkChars[idx])
	}
	return b.String()
}

// Summary renders the outcome of a run as a bordered panel.
func Summary(name string, stepper, estimator string, res *sim.Result) string {
	var s strings.Builder
	s.WriteString(Title(strings.ToUpper(name)) + "\n\n")
	s.WriteString(Row("Stepper", stepper) + "\n")
	s.WriteString(Row("Estimator", estimator) + "\n")
	s.WriteString(Row("Bodies", fmt.Sprint(len(res.Bodies))) + "\n")
	s.WriteString(Row("Iterations", fmt.Sprint(res.StepsTaken)) + "\n")
	s.WriteString(Row("Snapshots", fmt.Sprint(res.Snapshots)) + "\n")
	s.WriteString(Row("Final time", fmt.Sprintf("%.6g", res.Time)) + "\n")
	s.WriteString(Row("dt range", fmt.Sprintf("%.3g .. %.3g", res.MinDt, res.MaxDt)) + "\n")
	s.WriteString(Row("Energy", fmt.Sprintf("%.8g -> %.8g", res.InitialEnergy, res.FinalEnergy)) + "\n")
	s.WriteString(labelStyle().Render("Energy drift") + DriftStyle(res.EnergyDrift).Render(fmt.Sprintf("%.3e", res.EnergyDrift)) + "\n")

	if len(res.Metrics) > 0 {
		keys := make([]string, 0, len(res.Metrics))
		for k := range res.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		s.WriteString("\n" + subtle().Render("metrics") + "\n")
		for _, k := range keys {
			s.WriteString(Row(k, fmt.Sprintf("%.6g", res.Metrics[k])) + "\n")
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(CurrentTheme.Muted).
		Padding(0, 2).
		Render(strings.TrimRight(s.String(), "\n"))
}
