package dictionary

import "math"

// BytesPerKey is the dictionary footprint of one deduplication key.
const BytesPerKey = 32

// SizingStatus tags whether a key count fits in the tier table.
type SizingStatus string

const (
	// StatusFits means a tier holds the key count.
	StatusFits SizingStatus = "fits"
	// StatusNoTierAvailable means the key count exceeds the largest tier.
	StatusNoTierAvailable SizingStatus = "no-tier-available"
)

// Sizing is the outcome of resolving a key count against the tier table.
// Tier is only meaningful when Status is StatusFits.
type Sizing struct {
	RequiredKeys uint64       `json:"required_keys" yaml:"required_keys"`
	Status       SizingStatus `json:"status" yaml:"status"`
	Tier         Tier         `json:"tier" yaml:"tier"`
	UsedPct      float64      `json:"used_pct" yaml:"used_pct"` // RequiredKeys / Tier.MaxKeys * 100
}

// Fits reports whether a tier was found.
func (s Sizing) Fits() bool {
	return s.Status == StatusFits
}

// TierLabel returns the tier's size label, or the status when nothing fits.
func (s Sizing) TierLabel() string {
	if !s.Fits() {
		return string(s.Status)
	}
	return s.Tier.SizeLabel
}

// Resolve looks up keys and reports usage of the matched tier.
func Resolve(keys uint64) Sizing {
	t, ok := Find(keys)
	if !ok {
		return Sizing{RequiredKeys: keys, Status: StatusNoTierAvailable}
	}
	return Sizing{
		RequiredKeys: keys,
		Status:       StatusFits,
		Tier:         t,
		UsedPct:      float64(keys) / float64(t.MaxKeys) * 100,
	}
}

// KeysForTiB converts a deduplicated footprint into a key count as
// floor(footprintTiB * 1024^3 / BytesPerKey). Negative or NaN footprints
// yield 0; counts beyond uint64 saturate.
func KeysForTiB(footprintTiB float64) uint64 {
	if math.IsNaN(footprintTiB) || footprintTiB <= 0 {
		return 0
	}
	keys := math.Floor(footprintTiB * (1 << 30) / BytesPerKey)
	if keys >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(keys)
}
