package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dedupsim/dedupsim/sim/dictionary"
)

const tolerance = 1e-9

// referenceParams is the 90-day scenario used across these tests.
func referenceParams() SimulationParameters {
	return SimulationParameters{
		SourceSizeTiB:         10,
		DailyChangeRate:       0.02,
		CompressionRatio:      0.5,
		DailyRetentionDays:    12,
		WeeklyRetentionCount:  4,
		MonthlyRetentionCount: 11,
		YearlyRetentionCount:  7,
		SimulationDays:        90,
		CloudDelayDays:        5,
	}
}

func mustSimulate(t *testing.T, p SimulationParameters) *SimulationResult {
	t.Helper()
	r, err := Simulate(p)
	require.NoError(t, err)
	require.Len(t, r.Days, p.SimulationDays)
	return r
}

func TestSimulate_FirstDayIsUncompressedSeed(t *testing.T) {
	r := mustSimulate(t, referenceParams())

	d0 := r.Days[0]
	assert.Equal(t, 1, d0.RetainedBackups)
	assert.InDelta(t, 10.0, d0.RetainedLogicalTiB, tolerance)
	assert.InDelta(t, 10.0, d0.StoredCompressedTiB, tolerance)
	assert.InDelta(t, 10.0, d0.StoredLocalTiB, tolerance)
	assert.Zero(t, d0.StoredCloudTiB)
	assert.Zero(t, d0.DedupeEfficiencyPostCompressionPct)
	assert.Equal(t, uint64(0), d0.Sizing.RequiredKeys)
	assert.Equal(t, "64GiB", d0.Sizing.TierLabel())
}

func TestSimulate_NonWeeklyBackupAgesOutAfterDailyWindow(t *testing.T) {
	r := mustSimulate(t, referenceParams())

	// GIVEN a 12-day daily window, on day 12 every backup is still held
	// (day 0 sits in the weekly window and is a weekly backup)
	assert.Equal(t, 13, r.Days[12].RetainedBackups)

	// WHEN day 13 arrives, day 1 (not weekly) leaves the daily window
	d13 := r.Days[13]
	assert.Equal(t, 13, d13.RetainedBackups)
	// THEN retained uncompressed is the seed plus days 2..13
	assert.InDelta(t, 10+12*0.2, d13.RetainedUncompressedTiB, tolerance)
}

func TestSimulate_ReferenceScenarioFinalDay(t *testing.T) {
	r := mustSimulate(t, referenceParams())
	final := r.Final()

	// Retained on day 89: days 78..89 (daily), 56/63/70/77 (weekly) and day 0,
	// the only backup that was also weekly when it reached the monthly window.
	assert.Equal(t, 17, final.RetainedBackups)

	// Local: seed plus the five youngest deltas; cloud: the other eleven deltas.
	assert.InDelta(t, 10.5, final.StoredLocalTiB, 1e-9)
	assert.InDelta(t, 1.1, final.StoredCloudTiB, 1e-9)
	assert.InDelta(t, 11.6, final.StoredCompressedTiB, 1e-9)

	assert.InDelta(t, 13.2, final.RetainedLogicalTiB, 1e-9)
	assert.InDelta(t, 13.2, final.RetainedUncompressedTiB, 1e-9)
	assert.InDelta(t, (13.2-11.6)/13.2*100, final.DedupeEfficiencyPostCompressionPct, 1e-9)
	assert.InDelta(t, (13.2-11.6)/13.2*100, final.DedupeEfficiencyPreCompressionPct, 1e-9)

	// 1.6 TiB footprint * 1024^3 / 32 ≈ 53.7e6 keys -> 64GiB tier
	assert.InDelta(t, 53_687_091, float64(final.Sizing.RequiredKeys), 2)
	assert.Equal(t, "64GiB", final.Sizing.TierLabel())

	assert.Equal(t, final.StoredCompressedTiB, r.Summary.StoredCompressedTiB)
	assert.Equal(t, final.Sizing, r.Summary.Sizing)
	assert.Equal(t, -1, r.Summary.FirstOverCapacityDay)
	assert.Equal(t, 90, r.Summary.Days)
}

func TestSimulate_MonthlyBackupOutsideWeeklyCadenceNeverReturns(t *testing.T) {
	r := mustSimulate(t, referenceParams())

	// GIVEN backup 30 is monthly but not weekly, it leaves at age 12 (day 42)
	// WHEN it later reaches the monthly window (age 40, day 70)
	// THEN it is still excluded: day 0 is the only monthly survivor
	assert.Equal(t, 17, r.Days[70].RetainedBackups)
	assert.InDelta(t, 10+16*0.2, r.Days[70].RetainedUncompressedTiB, 1e-9)
}

// windowKeep is the per-age window rule without memory of earlier ages.
func windowKeep(c RetentionCutoffs, tiers TierSet, age int) bool {
	switch {
	case age < c.Daily:
		return true
	case age < c.Weekly:
		return tiers.Has(TierWeekly)
	case age < c.Monthly:
		return tiers.Has(TierMonthly)
	case age < c.Yearly:
		return tiers.Has(TierYearly)
	}
	return false
}

func TestSimulate_DroppedBackupsStayDropped(t *testing.T) {
	// GIVEN short windows so backups pass through every tier within the horizon
	p := SimulationParameters{
		SourceSizeTiB: 1, DailyChangeRate: 0.05, CompressionRatio: 0.3,
		DailyRetentionDays: 3, WeeklyRetentionCount: 2, MonthlyRetentionCount: 2, YearlyRetentionCount: 1,
		SimulationDays: 900, CloudDelayDays: 4,
	}
	r := mustSimulate(t, p)

	// WHEN the expected count is replayed day by day, marking a backup
	// expired the first day the window rule rejects it
	expired := make([]bool, p.SimulationDays)
	for day := 0; day < p.SimulationDays; day++ {
		want := 0
		for _, b := range r.Backups[:day+1] {
			if expired[b.Day] {
				continue
			}
			if !windowKeep(r.Cutoffs, b.Tiers, day-b.Day) {
				expired[b.Day] = true
				continue
			}
			want++
		}

		// THEN the simulator agrees on every day
		if got := r.Days[day].RetainedBackups; got != want {
			t.Fatalf("day %d: retained %d backups, want %d", day, got, want)
		}
	}
}

func TestSimulate_LogicalEqualsUncompressedEveryDay(t *testing.T) {
	p := referenceParams()
	p.SimulationDays = 400
	r := mustSimulate(t, p)
	for _, d := range r.Days {
		assert.Equal(t, d.RetainedUncompressedTiB, d.RetainedLogicalTiB, "day %d", d.Day)
	}
	assert.InDelta(t, 10.2, r.Days[1].RetainedLogicalTiB, tolerance)
}

func TestSimulate_LocalPlusCloudEqualsStored(t *testing.T) {
	params := []SimulationParameters{
		referenceParams(),
		{SourceSizeTiB: 3, DailyChangeRate: 0.1, CompressionRatio: 0.9, DailyRetentionDays: 1,
			WeeklyRetentionCount: 2, MonthlyRetentionCount: 3, YearlyRetentionCount: 1, SimulationDays: 800, CloudDelayDays: 0},
		{SourceSizeTiB: 0.5, DailyChangeRate: 0, CompressionRatio: 0, SimulationDays: 40, CloudDelayDays: 100},
	}
	for _, p := range params {
		r := mustSimulate(t, p)
		for _, d := range r.Days {
			assert.InDelta(t, d.StoredCompressedTiB, d.StoredLocalTiB+d.StoredCloudTiB, 1e-9, "day %d", d.Day)
		}
	}
}

func TestSimulate_EfficiencyWithinBounds(t *testing.T) {
	p := referenceParams()
	p.SimulationDays = 400
	r := mustSimulate(t, p)
	for _, d := range r.Days {
		assert.GreaterOrEqual(t, d.DedupeEfficiencyPostCompressionPct, 0.0)
		assert.LessOrEqual(t, d.DedupeEfficiencyPostCompressionPct, 100.0)
		assert.GreaterOrEqual(t, d.DedupeEfficiencyPreCompressionPct, 0.0)
		assert.LessOrEqual(t, d.DedupeEfficiencyPreCompressionPct, 100.0)
		assert.False(t, math.IsNaN(d.DedupeEfficiencyPostCompressionPct))
	}
}

func TestSimulate_MonotonicWithinDailyWindow(t *testing.T) {
	r := mustSimulate(t, referenceParams())
	for day := 1; day < r.Params.DailyRetentionDays; day++ {
		prev, cur := r.Days[day-1], r.Days[day]
		assert.GreaterOrEqual(t, cur.RetainedLogicalTiB, prev.RetainedLogicalTiB, "day %d", day)
		assert.GreaterOrEqual(t, cur.StoredCompressedTiB, prev.StoredCompressedTiB, "day %d", day)
	}
}

func TestSimulate_Idempotent(t *testing.T) {
	// GIVEN identical parameters
	p := referenceParams()
	p.SimulationDays = 500

	// WHEN simulated twice
	r1 := mustSimulate(t, p)
	r2 := mustSimulate(t, p)

	// THEN results are bit-identical
	assert.Equal(t, r1, r2)
}

func TestSimulate_NothingRetainedGivesZeroEfficiency(t *testing.T) {
	// GIVEN no retention at all, nothing survives even its own day
	p := SimulationParameters{SourceSizeTiB: 1, DailyChangeRate: 0.1, CompressionRatio: 0.5, SimulationDays: 5}

	r := mustSimulate(t, p)

	for _, d := range r.Days {
		assert.Zero(t, d.RetainedBackups)
		assert.Zero(t, d.RetainedLogicalTiB)
		assert.Zero(t, d.DedupeEfficiencyPostCompressionPct)
		assert.Zero(t, d.DedupeEfficiencyPreCompressionPct)
		assert.True(t, d.Sizing.Fits())
	}
}

func TestSimulate_OverCapacityIsReportedNotClamped(t *testing.T) {
	// GIVEN a huge, fast-changing, highly compressible source
	p := SimulationParameters{
		SourceSizeTiB:      100_000,
		DailyChangeRate:    0.5,
		CompressionRatio:   0.9,
		DailyRetentionDays: 30,
		SimulationDays:     10,
		CloudDelayDays:     3,
	}

	r := mustSimulate(t, p)

	// THEN day 0 (no compression yet) fits and day 1 already overflows the table
	assert.True(t, r.Days[0].Sizing.Fits())
	assert.Equal(t, "64GiB", r.Days[0].Sizing.TierLabel())
	assert.Equal(t, dictionary.StatusNoTierAvailable, r.Days[1].Sizing.Status)
	assert.Equal(t, 1, r.Summary.FirstOverCapacityDay)
	assert.False(t, r.Summary.Sizing.Fits())
	assert.Equal(t, dictionary.Tier{}, r.Summary.Sizing.Tier)
	assert.Greater(t, r.Summary.PeakRequiredKeys, dictionary.MaxKeys())
}

func TestSimulate_CloudDelayZeroMovesDeltasImmediately(t *testing.T) {
	p := referenceParams()
	p.CloudDelayDays = 0
	r := mustSimulate(t, p)

	d5 := r.Days[5]
	assert.InDelta(t, 10.0, d5.StoredLocalTiB, tolerance) // seed only
	assert.InDelta(t, d5.StoredCompressedTiB-10, d5.StoredCloudTiB, tolerance)
}

func TestSimulate_MonthlySeriesSampling(t *testing.T) {
	p := referenceParams()
	p.SimulationDays = 95
	r := mustSimulate(t, p)

	var days []int
	for _, d := range r.Monthly {
		days = append(days, d.Day)
	}
	assert.Equal(t, []int{0, 30, 60, 90, 94}, days)
	assert.Equal(t, r.Days[60], r.Monthly[2])
}

func TestSimulate_PeakStoredTracksMaximum(t *testing.T) {
	p := referenceParams()
	p.SimulationDays = 200
	r := mustSimulate(t, p)

	peak := 0.0
	for _, d := range r.Days {
		peak = math.Max(peak, d.StoredCompressedTiB)
	}
	assert.Equal(t, peak, r.Summary.PeakStoredCompressedTiB)
}

func TestSimulate_InvalidParametersFailFast(t *testing.T) {
	p := referenceParams()
	p.SimulationDays = 0
	p.WeeklyRetentionCount = -1

	r, err := Simulate(p)

	assert.Nil(t, r)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"weekly_retention_count", "simulation_days"}, ve.Fields())
}
