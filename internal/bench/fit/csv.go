package fit

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var AveragedHeader = []string{"run", "k", "alpha", "k_std", "alpha_std", "n"}

func WriteAveragedCSV(w io.Writer, fits []AveragedFit) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(AveragedHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, a := range fits {
		rec := []string{a.Run, f(a.KMean), f(a.AlphaMean), f(a.KStd), f(a.AlphaStd), strconv.Itoa(a.N)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write fit %s: %w", a.Run, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
