package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/odeint/ode/solver"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// svgPalette cycles per state component.
var svgPalette = []string{"#00ff9f", "#ffb454", "#59c2ff", "#d2a6ff", "#f07178"}

// SVG writes the trajectory as a standalone SVG document, one polyline
// per state component against time. All components share one vertical
// scale so their relative magnitudes survive.
func SVG(w io.Writer, sol *solver.Solution, width, height int) error {
	if len(sol.Y) < 2 {
		return fmt.Errorf("need at least two points to draw")
	}

	lo, hi := sol.Y[0][0], sol.Y[0][0]
	for _, y := range sol.Y {
		for _, v := range y {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	x0, x1 := padRange(sol.T[0], sol.T[len(sol.T)-1])
	y0, y1 := padRange(lo, hi)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	for c := range sol.Y[0] {
		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"%s\"/>\n",
			svgPalette[c%len(svgPalette)],
			pathData(sol.T, sol.Component(c), x0, x1, y0, y1, width, height))
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// SVGPhase writes the phase-plane projection of two state components.
func SVGPhase(w io.Writer, sol *solver.Solution, xi, yi, width, height int) error {
	if len(sol.Y) < 2 {
		return fmt.Errorf("need at least two points to draw")
	}
	if n := len(sol.Y[0]); xi < 0 || yi < 0 || xi >= n || yi >= n {
		return fmt.Errorf("state dimension too small for selected axes")
	}

	xs, ys := sol.Component(xi), sol.Component(yi)
	x0, x1 := padRange(minMax(xs))
	y0, y1 := padRange(minMax(ys))

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"%s\"/>\n",
		svgPalette[0], pathData(xs, ys, x0, x1, y0, y1, width, height))
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// padRange widens the interval by 10% each side so the curve clears the
// frame. A degenerate interval opens to unit width.
func padRange(lo, hi float64) (float64, float64) {
	if hi < lo {
		lo, hi = hi, lo
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - 0.1*span, hi + 0.1*span
}

func minMax(s []float64) (lo, hi float64) {
	lo, hi = s[0], s[0]
	for _, v := range s {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func pathData(xs, ys []float64, x0, x1, y0, y1 float64, width, height int) string {
	var sb strings.Builder
	for i := range xs {
		x := (xs[i] - x0) / (x1 - x0) * float64(width)
		y := float64(height) - (ys[i]-y0)/(y1-y0)*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	return sb.String()
}
