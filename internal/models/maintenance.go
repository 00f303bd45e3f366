package models

import "time"

// SweepState represents the current state of the maintenance sweep.
type SweepState string

const (
	// SweepStateIdle - no sweep activity since the last pass completed
	SweepStateIdle SweepState = "idle"
	// SweepStateSweeping - a verification batch is being processed
	SweepStateSweeping SweepState = "sweeping"
	// SweepStateError - the last batch failed
	SweepStateError SweepState = "error"
)

// SweepStatus holds the maintenance service's aggregate progress.
type SweepStatus struct {
	State        SweepState
	LastSweep    time.Time
	LastError    string
	FilesChecked int64
	Mismatches   int64
	Pruned       int64
}
