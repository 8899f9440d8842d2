package sim

import "github.com/dedupsim/dedupsim/sim/dictionary"

// DailySimulationResult holds the storage state at the end of one simulated day.
type DailySimulationResult struct {
	Day                     int     `json:"day" yaml:"day"`
	RetainedBackups         int     `json:"retained_backups" yaml:"retained_backups"`
	RetainedLogicalTiB      float64 `json:"retained_logical_tib" yaml:"retained_logical_tib"`
	RetainedUncompressedTiB float64 `json:"retained_uncompressed_tib" yaml:"retained_uncompressed_tib"`
	StoredCompressedTiB     float64 `json:"stored_compressed_tib" yaml:"stored_compressed_tib"`
	StoredLocalTiB          float64 `json:"stored_local_tib" yaml:"stored_local_tib"`
	StoredCloudTiB          float64 `json:"stored_cloud_tib" yaml:"stored_cloud_tib"`

	DedupeEfficiencyPostCompressionPct float64 `json:"dedupe_efficiency_post_compression_pct" yaml:"dedupe_efficiency_post_compression_pct"`
	DedupeEfficiencyPreCompressionPct  float64 `json:"dedupe_efficiency_pre_compression_pct" yaml:"dedupe_efficiency_pre_compression_pct"`

	Sizing dictionary.Sizing `json:"sizing" yaml:"sizing"`
}

// FootprintTiB is the deduplicated-but-still-logical volume that drives
// dictionary growth. Never negative.
func (d DailySimulationResult) FootprintTiB() float64 {
	if f := d.RetainedLogicalTiB - d.StoredCompressedTiB; f > 0 {
		return f
	}
	return 0
}

// Summary captures the final state of a run plus a few peaks over the horizon.
type Summary struct {
	Days                               int               `json:"days" yaml:"days"`
	RetainedLogicalTiB                 float64           `json:"retained_logical_tib" yaml:"retained_logical_tib"`
	StoredCompressedTiB                float64           `json:"stored_compressed_tib" yaml:"stored_compressed_tib"`
	StoredLocalTiB                     float64           `json:"stored_local_tib" yaml:"stored_local_tib"`
	StoredCloudTiB                     float64           `json:"stored_cloud_tib" yaml:"stored_cloud_tib"`
	DedupeEfficiencyPostCompressionPct float64           `json:"dedupe_efficiency_post_compression_pct" yaml:"dedupe_efficiency_post_compression_pct"`
	DedupeEfficiencyPreCompressionPct  float64           `json:"dedupe_efficiency_pre_compression_pct" yaml:"dedupe_efficiency_pre_compression_pct"`
	Sizing                             dictionary.Sizing `json:"sizing" yaml:"sizing"`

	PeakStoredCompressedTiB float64 `json:"peak_stored_compressed_tib" yaml:"peak_stored_compressed_tib"`
	PeakRequiredKeys        uint64  `json:"peak_required_keys" yaml:"peak_required_keys"`
	FirstOverCapacityDay    int     `json:"first_over_capacity_day" yaml:"first_over_capacity_day"` // -1 if every day fit
}

// SimulationResult is the full output of Simulate.
type SimulationResult struct {
	Params  SimulationParameters    `json:"params" yaml:"params"`
	Cutoffs RetentionCutoffs        `json:"cutoffs" yaml:"cutoffs"`
	Backups []SyntheticBackup       `json:"-" yaml:"-"`
	Days    []DailySimulationResult `json:"days" yaml:"days"`
	Monthly []DailySimulationResult `json:"monthly" yaml:"monthly"` // every MonthlyCadenceDays days plus the final day
	Summary Summary                 `json:"summary" yaml:"summary"`
}

// Final returns the last simulated day.
func (r *SimulationResult) Final() DailySimulationResult {
	return r.Days[len(r.Days)-1]
}
