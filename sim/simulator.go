package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dedupsim/dedupsim/sim/dictionary"
)

// Simulate runs the retention model over params.SimulationDays days.
//
// For every day the full backup log is scanned, so the cost is O(days^2).
// Results depend only on params: two calls with equal params return equal
// results.
func Simulate(params SimulationParameters) (*SimulationResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	startTime := time.Now()
	cutoffs := NewRetentionCutoffs(params)
	logrus.Infof("Starting retention simulation: source=%.3fTiB change=%.4f compression=%.3f days=%d cutoffs=%+v cloudDelay=%d",
		params.SourceSizeTiB, params.DailyChangeRate, params.CompressionRatio, params.SimulationDays, cutoffs, params.CloudDelayDays)

	backups := BuildBackupLog(params)
	result := &SimulationResult{
		Params:  params,
		Cutoffs: cutoffs,
		Backups: backups,
		Days:    make([]DailySimulationResult, 0, params.SimulationDays),
	}

	summary := Summary{FirstOverCapacityDay: -1}
	for day := 0; day < params.SimulationDays; day++ {
		d := simulateDay(backups, cutoffs, params.CloudDelayDays, day)
		result.Days = append(result.Days, d)

		if d.StoredCompressedTiB > summary.PeakStoredCompressedTiB {
			summary.PeakStoredCompressedTiB = d.StoredCompressedTiB
		}
		if d.Sizing.RequiredKeys > summary.PeakRequiredKeys {
			summary.PeakRequiredKeys = d.Sizing.RequiredKeys
		}
		if !d.Sizing.Fits() && summary.FirstOverCapacityDay < 0 {
			summary.FirstOverCapacityDay = day
			logrus.Warnf("Day %d: %d dictionary keys exceed the largest tier (%d keys)",
				day, d.Sizing.RequiredKeys, dictionary.MaxKeys())
		}
		if day%MonthlyCadenceDays == 0 || day == params.SimulationDays-1 {
			result.Monthly = append(result.Monthly, d)
			logrus.Debugf("Day %d: logical=%.3fTiB stored=%.3fTiB local=%.3fTiB cloud=%.3fTiB keys=%d tier=%s",
				day, d.RetainedLogicalTiB, d.StoredCompressedTiB, d.StoredLocalTiB, d.StoredCloudTiB,
				d.Sizing.RequiredKeys, d.Sizing.TierLabel())
		}
	}

	final := result.Final()
	summary.Days = params.SimulationDays
	summary.RetainedLogicalTiB = final.RetainedLogicalTiB
	summary.StoredCompressedTiB = final.StoredCompressedTiB
	summary.StoredLocalTiB = final.StoredLocalTiB
	summary.StoredCloudTiB = final.StoredCloudTiB
	summary.DedupeEfficiencyPostCompressionPct = final.DedupeEfficiencyPostCompressionPct
	summary.DedupeEfficiencyPreCompressionPct = final.DedupeEfficiencyPreCompressionPct
	summary.Sizing = final.Sizing
	result.Summary = summary

	logrus.Infof("Simulation complete in %v: stored=%.3fTiB tier=%s",
		time.Since(startTime), summary.StoredCompressedTiB, summary.Sizing.TierLabel())
	return result, nil
}

// simulateDay aggregates every backup still retained on currentDay.
func simulateDay(backups []SyntheticBackup, cutoffs RetentionCutoffs, cloudDelayDays, currentDay int) DailySimulationResult {
	d := DailySimulationResult{Day: currentDay}
	for _, b := range backups {
		if b.Day > currentDay {
			break
		}
		age := currentDay - b.Day
		if !cutoffs.Keep(b.Tiers, age) {
			continue
		}
		d.RetainedBackups++
		d.RetainedLogicalTiB += b.DeltaSizeTiB
		d.RetainedUncompressedTiB += b.DeltaSizeTiB

		contrib := b.StoredContribution()
		d.StoredCompressedTiB += contrib
		// The day-0 seed is the local baseline; it never migrates.
		if b.Day == 0 || age < cloudDelayDays {
			d.StoredLocalTiB += contrib
		} else {
			d.StoredCloudTiB += contrib
		}
	}
	d.DedupeEfficiencyPostCompressionPct = efficiencyPct(d.RetainedLogicalTiB, d.StoredCompressedTiB)
	d.DedupeEfficiencyPreCompressionPct = efficiencyPct(d.RetainedUncompressedTiB, d.StoredCompressedTiB)
	d.Sizing = dictionary.Resolve(dictionary.KeysForTiB(d.FootprintTiB()))
	return d
}

// efficiencyPct is the share of total not physically stored, in [0, 100].
// A zero total yields 0.
func efficiencyPct(total, stored float64) float64 {
	if total <= 0 {
		return 0
	}
	pct := (total - stored) / total * 100
	return math.Max(0, math.Min(100, pct))
}

// String renders a one-line summary of the day.
func (d DailySimulationResult) String() string {
	return fmt.Sprintf("day=%d logical=%.3fTiB stored=%.3fTiB local=%.3fTiB cloud=%.3fTiB eff=%.1f%% keys=%d tier=%s",
		d.Day, d.RetainedLogicalTiB, d.StoredCompressedTiB, d.StoredLocalTiB, d.StoredCloudTiB,
		d.DedupeEfficiencyPostCompressionPct, d.Sizing.RequiredKeys, d.Sizing.TierLabel())
}
