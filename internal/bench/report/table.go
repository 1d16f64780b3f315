package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Kernel Security Benchmark Analysis %s ===\n", r.Meta.ID)

	labels := make(map[string]string, len(r.Runs))
	for _, rr := range r.Runs {
		labels[rr.Run] = rr.DisplayName
	}

	for _, rr := range r.Runs {
		fmt.Fprintf(tw, "\n--- Run: %s (%d iterations) ---\n\n", rr.DisplayName, rr.Iterations)
		if rr.Failed {
			fmt.Fprintf(tw, "aggregation failed, see errors\n")
			continue
		}
		writeMetricsTable(tw, &rr)
	}

	if len(r.Comparisons) > 0 {
		writeComparisonTable(tw, r, labels)
	}
	if len(r.KeyFigures) > 0 {
		writeKeyFiguresTable(tw, r, labels)
	}
	if len(r.Fits) > 0 {
		writeFitsTable(tw, r, labels)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintf(tw, "Errors (%d)\n\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(tw, "  %s\n", e)
		}
		fmt.Fprintln(tw)
	}

	tw.Flush()
}

func writeHeader(tw *tabwriter.Writer, header ...string) {
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))
}

func writeMetricsTable(tw *tabwriter.Writer, rr *RunReport) {
	writeHeader(tw, "Metric", "Mean", "Stdev", "Samples", "Unit")
	for _, m := range rr.Metrics {
		row := []string{
			m.Metric,
			fmt.Sprintf("%.4f", m.Mean),
			fmt.Sprintf("%.4f", m.Stdev),
			fmt.Sprintf("%d", m.SampleCount),
			AbbrevUnit(m.Unit),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	fmt.Fprintln(tw)
}

func writeComparisonTable(tw *tabwriter.Writer, r *Report, labels map[string]string) {
	fmt.Fprintf(tw, "Difference from baseline %s\n\n", labels[r.Meta.Baseline])
	writeHeader(tw, "Run", "Metric", "Mean", "Baseline", "Diff")
	for _, c := range r.Comparisons {
		row := []string{
			labels[c.Run],
			c.Metric,
			fmt.Sprintf("%.4f", c.Mean),
			fmt.Sprintf("%.4f", c.BaselineMean),
			fmt.Sprintf("%+.2f%%", c.PctDiff),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	fmt.Fprintln(tw)
}

func writeKeyFiguresTable(tw *tabwriter.Writer, r *Report, labels map[string]string) {
	fmt.Fprintf(tw, "Stream figures (mean across iterations)\n\n")
	writeHeader(tw, "Run", "Stream", "Peak", "at x", "Worst", "at x", "Mean")
	for _, rk := range r.KeyFigures {
		for _, kf := range rk.Figures {
			row := []string{
				labels[rk.Run],
				kf.Stream,
				fmt.Sprintf("%.2f", kf.Peak),
				fmtX(kf.PeakAtX),
				fmt.Sprintf("%.2f", kf.Worst),
				fmtX(kf.WorstAtX),
				fmt.Sprintf("%.2f", kf.Mean),
			}
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
	}
	fmt.Fprintln(tw)
}

func writeFitsTable(tw *tabwriter.Writer, r *Report, labels map[string]string) {
	fmt.Fprintf(tw, "Power-law fits y = k * x^alpha\n\n")
	writeHeader(tw, "Stream", "Run", "k", "alpha", "k std", "alpha std", "N")
	for _, sf := range r.Fits {
		for _, a := range sf.Averaged {
			row := []string{
				sf.Stream,
				labels[a.Run],
				fmt.Sprintf("%.4f", a.KMean),
				fmt.Sprintf("%.4f", a.AlphaMean),
				fmt.Sprintf("%.4f", a.KStd),
				fmt.Sprintf("%.4f", a.AlphaStd),
				fmt.Sprintf("%d", a.N),
			}
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
	}
	fmt.Fprintln(tw)
}

func fmtX(x float64) string {
	return fmt.Sprintf("%g", x)
}
