package sim

// RetentionCutoffs are the ages, in days, at which each retention window
// ends. Windows are half-open and laid end to end:
// daily [0, Daily), weekly [Daily, Weekly), monthly [Weekly, Monthly),
// yearly [Monthly, Yearly).
type RetentionCutoffs struct {
	Daily   int `json:"daily" yaml:"daily"`
	Weekly  int `json:"weekly" yaml:"weekly"`
	Monthly int `json:"monthly" yaml:"monthly"`
	Yearly  int `json:"yearly" yaml:"yearly"`
}

// NewRetentionCutoffs derives the window ends from the retention knobs.
func NewRetentionCutoffs(p SimulationParameters) RetentionCutoffs {
	c := RetentionCutoffs{Daily: p.DailyRetentionDays}
	c.Weekly = c.Daily + p.WeeklyRetentionCount*WeeklyCadenceDays
	c.Monthly = c.Weekly + p.MonthlyRetentionCount*MonthlyCadenceDays
	c.Yearly = c.Monthly + p.YearlyRetentionCount*YearlyCadenceDays
	return c
}

// Keep reports whether a backup with the given tiers is still retained at
// age days. A backup ages through the windows in order and must belong to the
// tier of every non-empty window it has entered, so once Keep is false for
// some age it stays false for every larger age. At or beyond Yearly nothing
// is retained.
func (c RetentionCutoffs) Keep(tiers TierSet, age int) bool {
	if age < 0 || age >= c.Yearly {
		return false
	}
	windows := []struct {
		start, end int
		tier       Tier
	}{
		{c.Daily, c.Weekly, TierWeekly},
		{c.Weekly, c.Monthly, TierMonthly},
		{c.Monthly, c.Yearly, TierYearly},
	}
	for _, w := range windows {
		if age < w.start {
			return true
		}
		if w.end > w.start && !tiers.Has(w.tier) {
			return false
		}
	}
	return true
}
