package physics

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/attractor/internal/dynamo"
)

// applyParams overwrites the named coefficients. Unknown names and non-finite
// values are rejected.
func applyParams(fields map[string]*float64, params map[string]float64) error {
	for name, v := range params {
		p, ok := fields[name]
		if !ok {
			return fmt.Errorf("%w: unknown coefficient %q (have %v)", dynamo.ErrInvalidParameter, name, paramNames(fields))
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s=%v", dynamo.ErrInvalidParameter, name, v)
		}
		*p = v
	}
	return nil
}

func paramNames(fields map[string]*float64) []string {
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func checkShape(dim int, dst, x dynamo.Batch) {
	if x.D != dim || !dst.SameShape(x) {
		panic(fmt.Sprintf("physics: batch shape (%d, %d) -> (%d, %d), field dim %d", x.P, x.D, dst.P, dst.D, dim))
	}
}
