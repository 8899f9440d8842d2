package dictionary

// sizeMatchTolerance is the relative slack allowed when matching an on-disk
// dictionary file to a tier's nominal size.
const sizeMatchTolerance = 0.01

// Health compares an operator-reported dictionary against the tier table.
type Health struct {
	Required       Sizing `json:"required" yaml:"required"`
	HeadroomKeys   uint64 `json:"headroom_keys" yaml:"headroom_keys"` // keys left in the required tier
	DictFileBytes  uint64 `json:"dict_file_bytes,omitempty" yaml:"dict_file_bytes,omitempty"`
	Configured     *Tier  `json:"configured,omitempty" yaml:"configured,omitempty"` // tier matching DictFileBytes, if any
	NeedsResize    bool   `json:"needs_resize" yaml:"needs_resize"`
	SizeRecognized bool   `json:"size_recognized" yaml:"size_recognized"`
}

// Assess resolves usedKeys and, when dictFileBytes is non-zero, identifies the
// tier the existing dictionary file was built for. NeedsResize is set when the
// configured tier is smaller than the required one or no tier can hold usedKeys.
func Assess(usedKeys, dictFileBytes uint64) Health {
	h := Health{
		Required:      Resolve(usedKeys),
		DictFileBytes: dictFileBytes,
	}
	if h.Required.Fits() {
		h.HeadroomKeys = h.Required.Tier.MaxKeys - usedKeys
	} else {
		h.NeedsResize = true
	}
	if dictFileBytes == 0 {
		return h
	}
	if t, ok := BySize(dictFileBytes); ok {
		h.Configured = &t
		h.SizeRecognized = true
		if h.Required.Fits() && t.MaxKeys < h.Required.Tier.MaxKeys {
			h.NeedsResize = true
		}
	}
	return h
}

// BySize returns the tier whose nominal size is within 1% of sizeBytes.
func BySize(sizeBytes uint64) (Tier, bool) {
	for _, t := range table {
		nominal, err := t.SizeBytes()
		if err != nil || nominal == 0 {
			continue
		}
		diff := float64(sizeBytes) - float64(nominal)
		if diff < 0 {
			diff = -diff
		}
		if diff/float64(nominal) <= sizeMatchTolerance {
			return t, true
		}
	}
	return Tier{}, false
}
