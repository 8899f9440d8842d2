package sim

import (
	"math"
	"strings"
)

// RampUpDays is how many daily cycles the compression engine needs before it
// reaches its configured ratio.
const RampUpDays = 3

// Tier is a retention class a backup can belong to.
type Tier uint8

const (
	TierDaily Tier = 1 << iota
	TierWeekly
	TierMonthly
	TierYearly
)

// Cadences, in days, at which backups join the coarser tiers.
const (
	WeeklyCadenceDays  = 7
	MonthlyCadenceDays = 30
	YearlyCadenceDays  = 365
)

var tierNames = []struct {
	tier Tier
	name string
}{
	{TierDaily, "daily"},
	{TierWeekly, "weekly"},
	{TierMonthly, "monthly"},
	{TierYearly, "yearly"},
}

// TierSet is a bitmask of Tier values.
type TierSet uint8

// Has reports whether t is in the set.
func (s TierSet) Has(t Tier) bool {
	return uint8(s)&uint8(t) != 0
}

// String lists member tier names joined by "+".
func (s TierSet) String() string {
	var names []string
	for _, tn := range tierNames {
		if s.Has(tn.tier) {
			names = append(names, tn.name)
		}
	}
	return strings.Join(names, "+")
}

// MarshalText renders the set for JSON and YAML output.
func (s TierSet) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// tierMembership returns the tiers a backup taken on day joins.
func tierMembership(day int) TierSet {
	s := TierSet(TierDaily)
	if day%WeeklyCadenceDays == 0 {
		s |= TierSet(TierWeekly)
	}
	if day%MonthlyCadenceDays == 0 {
		s |= TierSet(TierMonthly)
	}
	if day%YearlyCadenceDays == 0 {
		s |= TierSet(TierYearly)
	}
	return s
}

// SyntheticBackup is one simulated daily backup. It is never modified after
// BuildBackupLog returns.
type SyntheticBackup struct {
	Day                int     `json:"day" yaml:"day"`
	LogicalSizeTiB     float64 `json:"logical_size_tib" yaml:"logical_size_tib"`         // full-copy footprint on this day
	DeltaSizeTiB       float64 `json:"delta_size_tib" yaml:"delta_size_tib"`             // new or changed bytes
	CompressedDeltaTiB float64 `json:"compressed_delta_tib" yaml:"compressed_delta_tib"` // delta after compression
	CompressedFullTiB  float64 `json:"compressed_full_tib" yaml:"compressed_full_tib"`   // logical after compression; stored only on day 0
	Tiers              TierSet `json:"tiers" yaml:"tiers"`
}

// StoredContribution is what this backup adds to physical storage: the
// compressed full copy for the day-0 seed, the compressed delta otherwise.
func (b SyntheticBackup) StoredContribution() float64 {
	if b.Day == 0 {
		return b.CompressedFullTiB
	}
	return b.CompressedDeltaTiB
}

// EffectiveCompression ramps linearly from 0 on day 0 to ratio on RampUpDays.
func EffectiveCompression(ratio float64, day int) float64 {
	if day <= 0 {
		return 0
	}
	return ratio * math.Min(1, float64(day)/RampUpDays)
}

// BuildBackupLog creates one backup per simulated day. Params must be valid.
func BuildBackupLog(p SimulationParameters) []SyntheticBackup {
	log := make([]SyntheticBackup, 0, p.SimulationDays)
	dailyDelta := p.SourceSizeTiB * p.DailyChangeRate

	logical := p.SourceSizeTiB
	for day := 0; day < p.SimulationDays; day++ {
		delta := p.SourceSizeTiB
		if day > 0 {
			logical += dailyDelta
			delta = dailyDelta
		}
		keep := 1 - EffectiveCompression(p.CompressionRatio, day)
		log = append(log, SyntheticBackup{
			Day:                day,
			LogicalSizeTiB:     logical,
			DeltaSizeTiB:       delta,
			CompressedDeltaTiB: delta * keep,
			CompressedFullTiB:  logical * keep,
			Tiers:              tierMembership(day),
		})
	}
	return log
}
