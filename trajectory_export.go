package radauint

import (
	"encoding/csv"
	"fmt"
	"os"
)

// ExportCSV writes a dense-output buffer (as produced by Recorder into
// OutTime/OutState) to a CSV file, one row per recorded sample: time
// followed by the 6*N state components. Component K of SPEC_FULL.md §2,
// grounded on the teacher's export.go CSV sink (createAsCSVCSVFile /
// StreamStates), generalized from one spacecraft's Cartesian state to the
// whole real+variational particle array.
func ExportCSV(path string, outTime, outState []float64, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("radauint: creating %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := make([]string, 0, 1+6*n)
	header = append(header, "t")
	for i := 0; i < n; i++ {
		header = append(header,
			fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i), fmt.Sprintf("z%d", i),
			fmt.Sprintf("vx%d", i), fmt.Sprintf("vy%d", i), fmt.Sprintf("vz%d", i),
		)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, 1+6*n)
	for s := 0; s < len(outTime); s++ {
		row[0] = fmt.Sprintf("%.15g", outTime[s])
		base := s * 6 * n
		for k := 0; k < 6*n; k++ {
			row[1+k] = fmt.Sprintf("%.15g", outState[base+k])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
