package cmd

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dedupsim/dedupsim/sim"
)

var (
	validOutputs = map[string]bool{"table": true, "json": true, "yaml": true, "csv": true}
	validSeries  = map[string]bool{"daily": true, "monthly": true, "none": true}
)

// Report is the machine-readable form of a run.
type Report struct {
	Params  sim.SimulationParameters    `json:"params" yaml:"params"`
	Cutoffs sim.RetentionCutoffs        `json:"cutoffs" yaml:"cutoffs"`
	Series  []sim.DailySimulationResult `json:"series,omitempty" yaml:"series,omitempty"`
	Summary sim.Summary                 `json:"summary" yaml:"summary"`
}

var errCSVNeedsSeries = errors.New("csv output needs a series; use --series daily or monthly")

func selectSeries(r *sim.SimulationResult, series string) []sim.DailySimulationResult {
	switch series {
	case "daily":
		return r.Days
	case "monthly":
		return r.Monthly
	default:
		return nil
	}
}

// writeResult renders r in the requested format.
func writeResult(w io.Writer, r *sim.SimulationResult, format, series string) error {
	rows := selectSeries(r, series)
	switch format {
	case "table":
		if len(rows) > 0 {
			if err := sim.PrintSeries(w, rows); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}
		r.Summary.Print(w)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Report{Params: r.Params, Cutoffs: r.Cutoffs, Series: rows, Summary: r.Summary})
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Report{Params: r.Params, Cutoffs: r.Cutoffs, Series: rows, Summary: r.Summary}); err != nil {
			return err
		}
		return enc.Close()
	case "csv":
		if rows == nil {
			return errCSVNeedsSeries
		}
		return writeCSV(w, rows)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

var csvHeader = []string{
	"day", "retained_backups", "retained_logical_tib", "retained_uncompressed_tib",
	"stored_compressed_tib", "stored_local_tib", "stored_cloud_tib",
	"dedupe_efficiency_post_compression_pct", "dedupe_efficiency_pre_compression_pct",
	"required_keys", "tier", "tier_used_pct",
}

func writeCSV(w io.Writer, rows []sim.DailySimulationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, d := range rows {
		record := []string{
			strconv.Itoa(d.Day), strconv.Itoa(d.RetainedBackups),
			f(d.RetainedLogicalTiB), f(d.RetainedUncompressedTiB),
			f(d.StoredCompressedTiB), f(d.StoredLocalTiB), f(d.StoredCloudTiB),
			f(d.DedupeEfficiencyPostCompressionPct), f(d.DedupeEfficiencyPreCompressionPct),
			strconv.FormatUint(d.Sizing.RequiredKeys, 10), d.Sizing.TierLabel(), f(d.Sizing.UsedPct),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
