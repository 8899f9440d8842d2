// Renders simulation summaries and per-day series for human consumption.

package sim

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Print writes the end-of-run summary to w.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Retention Simulation Summary ===")
	fmt.Fprintf(w, "Simulated Days          : %d\n", s.Days)
	fmt.Fprintf(w, "Retained Logical        : %.3f TiB\n", s.RetainedLogicalTiB)
	fmt.Fprintf(w, "Stored (compressed)     : %.3f TiB\n", s.StoredCompressedTiB)
	fmt.Fprintf(w, "  Local                 : %.3f TiB\n", s.StoredLocalTiB)
	fmt.Fprintf(w, "  Cloud                 : %.3f TiB\n", s.StoredCloudTiB)
	fmt.Fprintf(w, "Peak Stored             : %.3f TiB\n", s.PeakStoredCompressedTiB)
	fmt.Fprintf(w, "Efficiency (post-comp.) : %.2f %%\n", s.DedupeEfficiencyPostCompressionPct)
	fmt.Fprintf(w, "Efficiency (pre-comp.)  : %.2f %%\n", s.DedupeEfficiencyPreCompressionPct)
	fmt.Fprintf(w, "Required Keys           : %d\n", s.Sizing.RequiredKeys)
	fmt.Fprintf(w, "Peak Required Keys      : %d\n", s.PeakRequiredKeys)
	if s.Sizing.Fits() {
		t := s.Sizing.Tier
		fmt.Fprintf(w, "Dictionary Tier         : %s (%.2f %% used)\n", t.SizeLabel, s.Sizing.UsedPct)
		fmt.Fprintf(w, "RAM                     : %d MB base + %d MB additional\n", t.BaseRAMMB, t.AdditionalRAMMB)
		fmt.Fprintf(w, "Shift / Page Shift      : %d / %d\n", t.Shift, t.PageShift)
	} else {
		fmt.Fprintf(w, "Dictionary Tier         : none (%s)\n", s.Sizing.Status)
	}
	if s.FirstOverCapacityDay >= 0 {
		fmt.Fprintf(w, "First Over-Capacity Day : %d\n", s.FirstOverCapacityDay)
	}
}

// PrintSeries writes one row per day as an aligned table.
func PrintSeries(w io.Writer, days []DailySimulationResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "day\tbackups\tlogical_tib\tstored_tib\tlocal_tib\tcloud_tib\teff_post_%\teff_pre_%\tkeys\ttier\t")
	for _, d := range days {
		fmt.Fprintf(tw, "%d\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.2f\t%.2f\t%d\t%s\t\n",
			d.Day, d.RetainedBackups, d.RetainedLogicalTiB, d.StoredCompressedTiB, d.StoredLocalTiB,
			d.StoredCloudTiB, d.DedupeEfficiencyPostCompressionPct, d.DedupeEfficiencyPreCompressionPct,
			d.Sizing.RequiredKeys, d.Sizing.TierLabel())
	}
	return tw.Flush()
}
