package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/integrators"
)

// FieldAt builds the field for one parameter value.
type FieldAt func(v float64) (dynamo.Field, error)

// SweepPoint is the result for one parameter value.
type SweepPoint struct {
	Param    float64
	Exponent float64
	// Maxima are the distinct local maxima of the recorded coordinate after
	// the transient, rounded to 1e-3. One value means a limit cycle.
	Maxima []float64
}

type SweepOptions struct {
	Options
	// Coord is the state index whose maxima are recorded.
	Coord int
	// MaxMaxima caps Maxima per point. Defaults to 200.
	MaxMaxima int
}

// Linspace returns n evenly spaced values over [from, to].
func Linspace(from, to float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{from}
	}
	out := make([]float64, n)
	step := (to - from) / float64(n-1)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	out[n-1] = to
	return out
}

// Sweep evaluates the field at every value, starting each run from x0.
// newStepper is called once per value so runs never share scratch space.
func Sweep(at FieldAt, newStepper func() integrators.Stepper, values []float64, x0 []float64, opts SweepOptions) ([]SweepPoint, error) {
	maxN := opts.MaxMaxima
	if maxN <= 0 {
		maxN = 200
	}

	results := make([]SweepPoint, 0, len(values))
	for _, v := range values {
		field, err := at(v)
		if err != nil {
			return nil, fmt.Errorf("sweep at %v: %w", v, err)
		}
		if opts.Coord < 0 || opts.Coord >= field.Dim() {
			return nil, fmt.Errorf("%w: coordinate %d of a %d-dimensional field", dynamo.ErrDimensionMismatch, opts.Coord, field.Dim())
		}
		integ := integrators.New(field, newStepper())

		lambda, err := LyapunovExponent(integ, x0, opts.Options)
		if err != nil {
			return nil, fmt.Errorf("sweep at %v: %w", v, err)
		}
		maxima, err := sectionMaxima(integ, x0, opts, maxN)
		if err != nil {
			return nil, fmt.Errorf("sweep at %v: %w", v, err)
		}
		results = append(results, SweepPoint{Param: v, Exponent: lambda, Maxima: maxima})
	}
	return results, nil
}

func sectionMaxima(integ *integrators.Integrator, x0 []float64, opts SweepOptions, maxN int) ([]float64, error) {
	x := dynamo.NewBatch(1, len(x0))
	copy(x.Data, x0)
	if opts.Transient > 0 {
		var err error
		if x, err = integ.Advance(x, opts.Transient, opts.Dt); err != nil {
			return nil, err
		}
	}
	seg, err := integ.Integrate(x, opts.Steps+1, opts.Dt)
	if err != nil {
		return nil, err
	}

	values := make([]float64, 0, 16)
	seen := make(map[int64]bool)
	for s := 1; s+1 < seg.S && len(values) < maxN; s++ {
		prev, cur, next := seg.At(0, s-1, opts.Coord), seg.At(0, s, opts.Coord), seg.At(0, s+1, opts.Coord)
		if math.IsNaN(cur) || math.IsInf(cur, 0) {
			break
		}
		if cur > prev && cur >= next {
			key := int64(math.Round(cur * 1000))
			if !seen[key] {
				seen[key] = true
				values = append(values, float64(key)/1000)
			}
		}
	}
	return values, nil
}

// SweepToASCII draws the maxima of every point as a column of dots.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	foundFirst := false
	for _, p := range data {
		for _, v := range p.Maxima {
			if !foundFirst {
				minVal, maxVal = v, v
				foundFirst = true
			} else {
				minVal = math.Min(minVal, v)
				maxVal = math.Max(maxVal, v)
			}
		}
	}
	if !foundFirst {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := i * width / len(data)
		for _, v := range p.Maxima {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}

	var b strings.Builder
	for _, row := range canvas {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
