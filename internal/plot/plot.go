package plot

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odeint/ode/solver"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Title renders a styled heading for a block of plots.
func Title(s string) string { return titleStyle.Render(s) }

// Trajectory renders each state component against time as its own graph.
// labels may be shorter than the state; missing entries fall back to xN.
func Trajectory(sol *solver.Solution, labels []string, width, height int) string {
	var b strings.Builder
	for i := range sol.Y[0] {
		caption := fmt.Sprintf("x%d vs time", i)
		if i < len(labels) && labels[i] != "" {
			caption = labels[i]
		}
		graph := asciigraph.Plot(sol.Component(i),
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(caption),
		)
		b.WriteString(graph)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Spread overlays one component of several trajectories in a single
// frame, one series per run.
func Spread(sols []*solver.Solution, comp, width, height int) string {
	series := make([][]float64, len(sols))
	for i, sol := range sols {
		series[i] = sol.Component(comp)
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("x%d across runs", comp)),
	)
}

// Convergence renders log10 of the error against log10 of the step size.
// Points are plotted coarse to fine; a straight line of slope p marks a
// p-th order method.
func Convergence(hs, errs []float64, width, height int) string {
	logE := make([]float64, len(errs))
	for i, e := range errs {
		if e <= 0 {
			e = 1e-17
		}
		logE[i] = math.Log10(e)
	}
	graph := asciigraph.Plot(logE,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("log10(error), coarse to fine h"),
	)
	legend := captionStyle.Render(fmt.Sprintf("h: %.4g .. %.4g", hs[0], hs[len(hs)-1]))
	return graph + "\n" + legend
}

// Phase scatters component yi against component xi, marking early,
// middle and late samples with increasingly heavy glyphs.
func Phase(sol *solver.Solution, xi, yi, width, height int) (string, error) {
	if len(sol.Y) == 0 {
		return "", fmt.Errorf("no data to plot")
	}
	if len(sol.Y[0]) <= xi || len(sol.Y[0]) <= yi {
		return "", fmt.Errorf("state dimension too small for selected axes")
	}

	xs := sol.Component(xi)
	ys := sol.Component(yi)

	xMin, xMax := bounds(xs)
	yMin, yMax := bounds(ys)
	xRange := xMax - xMin
	yRange := yMax - yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i := range xs {
		px := int(float64(width-1) * (xs[i] - xMin) / xRange)
		py := int(float64(height-1) * (ys[i] - yMin) / yRange)
		py = height - 1 - py
		if px < 0 || px >= width || py < 0 || py >= height {
			continue
		}
		switch {
		case i < len(xs)/3:
			canvas[py][px] = '.'
		case i < 2*len(xs)/3:
			canvas[py][px] = 'o'
		default:
			canvas[py][px] = '●'
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%8.2f ┌%s┐\n", yMax, strings.Repeat("─", width))
	for i := range canvas {
		if i == height/2 {
			fmt.Fprintf(&b, "%8.2f │", (yMax+yMin)/2)
		} else {
			b.WriteString("         │")
		}
		b.WriteString(string(canvas[i]))
		b.WriteString("│\n")
	}
	fmt.Fprintf(&b, "%8.2f └%s┘\n", yMin, strings.Repeat("─", width))
	fmt.Fprintf(&b, "          %-10.2f%*.2f\n", xMin, width-10, xMax)
	b.WriteString(captionStyle.Render(fmt.Sprintf("x%d vs x%d   . = early  o = middle  ● = late", yi, xi)))
	return b.String(), nil
}

func bounds(s []float64) (lo, hi float64) {
	lo, hi = s[0], s[0]
	for _, v := range s {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
