// Package dictionary maps deduplication key counts to hardware sizing tiers.
//
// The table is static: each tier covers a contiguous, inclusive key range and
// carries the RAM and shift settings an appliance needs to hold a dictionary
// of that size. Ranges are contiguous and together cover [0, MaxKeys()].
package dictionary

import (
	"fmt"
	"strconv"
	"strings"
)

// Tier describes one hardware sizing tier for the deduplication dictionary.
type Tier struct {
	MinKeys         uint64 `json:"min_keys" yaml:"min_keys"`
	MaxKeys         uint64 `json:"max_keys" yaml:"max_keys"`
	SizeLabel       string `json:"size_label" yaml:"size_label"` // total dictionary size, e.g. "256GiB"
	BaseRAMMB       int    `json:"base_ram_mb" yaml:"base_ram_mb"`
	AdditionalRAMMB int    `json:"additional_ram_mb" yaml:"additional_ram_mb"`
	Shift           int    `json:"shift" yaml:"shift"`
	PageShift       int    `json:"page_shift" yaml:"page_shift"`
}

// TotalRAMMB is the RAM an appliance needs for this tier.
func (t Tier) TotalRAMMB() int {
	return t.BaseRAMMB + t.AdditionalRAMMB
}

// Contains reports whether keys falls inside the tier's inclusive range.
func (t Tier) Contains(keys uint64) bool {
	return keys >= t.MinKeys && keys <= t.MaxKeys
}

// SizeBytes parses SizeLabel into bytes.
func (t Tier) SizeBytes() (uint64, error) {
	return ParseSize(t.SizeLabel)
}

// table is ordered by ascending MinKeys.
var table = []Tier{
	{MinKeys: 0, MaxKeys: 2_863_355_222, SizeLabel: "64GiB", BaseRAMMB: 4096, AdditionalRAMMB: 0, Shift: 19, PageShift: 12},
	{MinKeys: 2_863_355_223, MaxKeys: 5_726_710_444, SizeLabel: "128GiB", BaseRAMMB: 4096, AdditionalRAMMB: 0, Shift: 20, PageShift: 12},
	{MinKeys: 5_726_710_445, MaxKeys: 11_453_420_886, SizeLabel: "256GiB", BaseRAMMB: 8192, AdditionalRAMMB: 0, Shift: 21, PageShift: 12},
	{MinKeys: 11_453_420_887, MaxKeys: 22_906_841_772, SizeLabel: "384GiB", BaseRAMMB: 8192, AdditionalRAMMB: 1412, Shift: 22, PageShift: 12},
	{MinKeys: 22_906_841_773, MaxKeys: 45_813_683_542, SizeLabel: "640GiB", BaseRAMMB: 16384, AdditionalRAMMB: 2576, Shift: 23, PageShift: 12},
	{MinKeys: 45_813_683_543, MaxKeys: 91_627_367_084, SizeLabel: "1.52TiB", BaseRAMMB: 32768, AdditionalRAMMB: 4880, Shift: 24, PageShift: 12},
	{MinKeys: 91_627_367_085, MaxKeys: 183_254_734_166, SizeLabel: "2.176TiB", BaseRAMMB: 65536, AdditionalRAMMB: 9488, Shift: 25, PageShift: 12},
	{MinKeys: 183_254_734_167, MaxKeys: 366_509_468_332, SizeLabel: "4.224TiB", BaseRAMMB: 65536, AdditionalRAMMB: 18704, Shift: 26, PageShift: 12},
}

// Tiers returns a copy of the tier table in ascending order.
func Tiers() []Tier {
	out := make([]Tier, len(table))
	copy(out, table)
	return out
}

// MaxKeys is the largest key count any tier can hold.
func MaxKeys() uint64 {
	return table[len(table)-1].MaxKeys
}

// Find returns the tier whose range contains keys.
// The second result is false when keys exceeds every tier.
func Find(keys uint64) (Tier, bool) {
	// Eight rows; a linear scan is clearer than a binary search.
	for _, t := range table {
		if t.Contains(keys) {
			return t, true
		}
	}
	return Tier{}, false
}

// ByLabel returns the tier with the given size label (case-insensitive).
func ByLabel(label string) (Tier, bool) {
	for _, t := range table {
		if strings.EqualFold(t.SizeLabel, strings.TrimSpace(label)) {
			return t, true
		}
	}
	return Tier{}, false
}

// sizeUnits maps label suffixes to byte multipliers.
var sizeUnits = []struct {
	suffix string
	mult   float64
}{
	{"TiB", 1 << 40},
	{"GiB", 1 << 30},
	{"MiB", 1 << 20},
	{"KiB", 1 << 10},
	{"B", 1},
}

// ParseSize converts a binary size label such as "64GiB" or "1.52TiB" to bytes.
func ParseSize(label string) (uint64, error) {
	s := strings.TrimSpace(label)
	for _, u := range sizeUnits {
		if !strings.HasSuffix(s, u.suffix) {
			continue
		}
		num := strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing size %q: %w", label, err)
		}
		if v < 0 {
			return 0, fmt.Errorf("parsing size %q: negative size", label)
		}
		return uint64(v * u.mult), nil
	}
	return 0, fmt.Errorf("parsing size %q: unknown unit; valid: B, KiB, MiB, GiB, TiB", label)
}
