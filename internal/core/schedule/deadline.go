// Package schedule contains the pure deadline and compliance state logic.
// This is part of the Functional Core - no I/O, only pure functions. The
// current time is always passed in by the caller.
package schedule

import "time"

// RecoveryWindow is the grace period after a missed deadline during which a
// late submission still counts as on-contract.
const RecoveryWindow = 24 * time.Hour

// DeadlineHour is the local hour of day (20:00) at which weekly deadlines fall.
const DeadlineHour = 20

// WeekStart returns the start of a contract week (1-based) in the contract's
// timezone. Week arithmetic uses AddDate so DST transitions keep calendar days
// aligned.
func WeekStart(contractStart time.Time, week int, loc *time.Location) time.Time {
	start := contractStart.In(loc)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, (week-1)*7)
}

// Deadline returns the submission deadline for a contract week: the sixth day
// after week start, at 20:00 in the contract's timezone.
func Deadline(contractStart time.Time, week int, loc *time.Location) time.Time {
	day := WeekStart(contractStart, week, loc).AddDate(0, 0, 6)
	return time.Date(day.Year(), day.Month(), day.Day(), DeadlineHour, 0, 0, 0, loc)
}

// RecoveryEnd returns the end of the recovery window for a deadline.
func RecoveryEnd(deadline time.Time) time.Time {
	return deadline.Add(RecoveryWindow)
}

// CurrentWeek returns the 1-based week number that now falls in, relative to
// the contract start. Returns 0 before the contract starts. The result is not
// clamped to the contract's total weeks; callers clamp when iterating.
func CurrentWeek(contractStart time.Time, now time.Time) int {
	if now.Before(contractStart) {
		return 0
	}
	return int(now.Sub(contractStart)/(7*24*time.Hour)) + 1
}

// Timing classifies a submission instant against a week's deadline.
type Timing int

const (
	// TimingOnTime means the submission arrived at or before the deadline.
	TimingOnTime Timing = iota
	// TimingInRecovery means the deadline passed but the recovery window is open.
	TimingInRecovery
	// TimingMissed means the recovery window has closed.
	TimingMissed
)

// ClassifyTiming places now against the deadline and its recovery window.
// The deadline itself is inclusive; the window closes strictly after
// deadline + 24h, so now > recovery_end is the missed threshold.
func ClassifyTiming(now, deadline time.Time) Timing {
	if !now.After(deadline) {
		return TimingOnTime
	}
	if !now.After(RecoveryEnd(deadline)) {
		return TimingInRecovery
	}
	return TimingMissed
}
