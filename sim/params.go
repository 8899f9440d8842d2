package sim

import (
	"fmt"
	"math"
	"strings"
)

// DaysPerMonth converts a simulation length in months to days.
const DaysPerMonth = 30

// SimulationParameters is the input to Simulate. All sizes are in TiB and all
// ratios are fractions in [0, 1].
type SimulationParameters struct {
	SourceSizeTiB         float64 `yaml:"source_size_tib" json:"source_size_tib"`
	DailyChangeRate       float64 `yaml:"daily_change_rate" json:"daily_change_rate"`
	CompressionRatio      float64 `yaml:"compression_ratio" json:"compression_ratio"`
	DailyRetentionDays    int     `yaml:"daily_retention_days" json:"daily_retention_days"`
	WeeklyRetentionCount  int     `yaml:"weekly_retention_count" json:"weekly_retention_count"`
	MonthlyRetentionCount int     `yaml:"monthly_retention_count" json:"monthly_retention_count"`
	YearlyRetentionCount  int     `yaml:"yearly_retention_count" json:"yearly_retention_count"`
	SimulationDays        int     `yaml:"simulation_days" json:"simulation_days"`
	CloudDelayDays        int     `yaml:"cloud_delay_days" json:"cloud_delay_days"`
}

// NewParametersFromMonths builds parameters for a horizon given in months
// of DaysPerMonth days each.
func NewParametersFromMonths(sourceSizeTiB, dailyChangeRate, compressionRatio float64,
	daily, weekly, monthly, yearly, months, cloudDelayDays int) SimulationParameters {
	return SimulationParameters{
		SourceSizeTiB:         sourceSizeTiB,
		DailyChangeRate:       dailyChangeRate,
		CompressionRatio:      compressionRatio,
		DailyRetentionDays:    daily,
		WeeklyRetentionCount:  weekly,
		MonthlyRetentionCount: monthly,
		YearlyRetentionCount:  yearly,
		SimulationDays:        months * DaysPerMonth,
		CloudDelayDays:        cloudDelayDays,
	}
}

// FieldProblem names one invalid parameter.
type FieldProblem struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field found by Validate.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Field + ": " + p.Message
	}
	return "invalid simulation parameters: " + strings.Join(parts, "; ")
}

// Fields returns the names of the offending fields in report order.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		out[i] = p.Field
	}
	return out
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Problems = append(e.Problems, FieldProblem{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks every field and returns a *ValidationError naming all
// offending fields, or nil.
func (p SimulationParameters) Validate() error {
	ve := &ValidationError{}

	switch {
	case !isFinite(p.SourceSizeTiB):
		ve.add("source_size_tib", "must be a finite number, got %v", p.SourceSizeTiB)
	case p.SourceSizeTiB <= 0:
		ve.add("source_size_tib", "must be positive, got %v", p.SourceSizeTiB)
	}
	validateFraction(ve, "daily_change_rate", p.DailyChangeRate)
	validateFraction(ve, "compression_ratio", p.CompressionRatio)

	validateNonNegative(ve, "daily_retention_days", p.DailyRetentionDays)
	validateNonNegative(ve, "weekly_retention_count", p.WeeklyRetentionCount)
	validateNonNegative(ve, "monthly_retention_count", p.MonthlyRetentionCount)
	validateNonNegative(ve, "yearly_retention_count", p.YearlyRetentionCount)
	validateNonNegative(ve, "cloud_delay_days", p.CloudDelayDays)

	if p.SimulationDays <= 0 {
		ve.add("simulation_days", "must be positive, got %d", p.SimulationDays)
	}

	if len(ve.Problems) == 0 {
		return nil
	}
	return ve
}

func validateFraction(ve *ValidationError, field string, v float64) {
	switch {
	case !isFinite(v):
		ve.add(field, "must be a finite number, got %v", v)
	case v < 0 || v > 1:
		ve.add(field, "must be in [0, 1], got %v", v)
	}
}

func validateNonNegative(ve *ValidationError, field string, v int) {
	if v < 0 {
		ve.add(field, "must be non-negative, got %d", v)
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
