package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/attractor/internal/dynamo"
)

// WriteCSV writes one row per particle and step: particle, step, t, then
// one column per coordinate. Steps are numbered from the first written step;
// t is firstTime + step*dt.
func WriteCSV(w io.Writer, seg dynamo.Segment, firstTime, dt float64) error {
	cw := csv.NewWriter(w)

	header := []string{"particle", "step", "t"}
	for d := 0; d < seg.D; d++ {
		header = append(header, "x"+strconv.Itoa(d))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, 3+seg.D)
	for p := 0; p < seg.P; p++ {
		for s := 0; s < seg.S; s++ {
			row[0] = strconv.Itoa(p)
			row[1] = strconv.Itoa(s)
			row[2] = strconv.FormatFloat(firstTime+float64(s)*dt, 'g', -1, 64)
			for d, v := range seg.Point(p, s) {
				row[3+d] = strconv.FormatFloat(v, 'g', -1, 64)
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
