package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/viz"
)

type SVGOptions struct {
	Width, Height int
	Background    string
	// Stroke is the colour of the newest segment; older samples fade to
	// Faded.
	Stroke, Faded string
	// Bands splits each trail into that many polylines of increasing
	// opacity. Defaults to 4.
	Bands int
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 800, Height: 800, Background: "#0a0a0a", Stroke: "#ff00ff", Faded: "#2a0a3a", Bands: 4}
}

// WindowToSVG writes the trails of seg projected through cam. Only the last
// filled steps are drawn; non-finite samples break the polyline.
func WindowToSVG(w io.Writer, seg dynamo.Segment, filled int, cam *viz.Camera, opts SVGOptions) error {
	if opts.Bands < 1 {
		opts.Bands = 4
	}
	if filled > seg.S {
		filled = seg.S
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, opts.Height, opts.Width, opts.Height, opts.Background))

	colors := viz.Gradient(lipgloss.Color(opts.Faded), lipgloss.Color(opts.Stroke), opts.Bands)
	first := seg.S - filled
	for band := 0; band < opts.Bands && filled > 0; band++ {
		from := first + band*filled/opts.Bands
		to := first + (band+1)*filled/opts.Bands
		if band > 0 {
			from-- // join to the previous band
		}
		if to-from < 1 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<g fill="none" stroke="%s" stroke-width="1" stroke-opacity="%.2f">
`, colors[band], 0.4+0.6*float64(band+1)/float64(opts.Bands)))
		for p := 0; p < seg.P; p++ {
			writeTrail(&sb, seg, p, from, to, cam, opts)
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTrail(sb *strings.Builder, seg dynamo.Segment, p, from, to int, cam *viz.Camera, opts SVGOptions) {
	points := make([]string, 0, to-from)
	flush := func() {
		if len(points) > 1 {
			sb.WriteString(`<polyline points="` + strings.Join(points, " ") + `"/>` + "\n")
		}
		points = points[:0]
	}
	for s := from; s < to; s++ {
		pt := seg.Point(p, s)
		if !finite(pt) {
			flush()
			continue
		}
		x, y, _, vis := cam.Project(viz.FromSlice(pt), opts.Width, opts.Height)
		if !vis {
			flush()
			continue
		}
		points = append(points, fmt.Sprintf("%d,%d", x, y))
	}
	flush()
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
