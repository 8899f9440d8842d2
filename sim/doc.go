// Package sim models how a deduplicated backup store grows under a
// daily/weekly/monthly/yearly retention policy.
//
// # Reading Guide
//
//   - params.go: SimulationParameters and validation
//   - backup.go: the synthetic daily backup log and the compression ramp
//   - retention.go: retention windows and the keep rule
//   - simulator.go: Simulate, the day-by-day aggregation
//
// Dictionary sizing (key counts to hardware tiers) lives in sim/dictionary.
//
// Simulate is a pure function of its parameters. It performs no I/O apart
// from logging and keeps no state between calls.
package sim
