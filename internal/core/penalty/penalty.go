// Package penalty contains the pure penalty computations over a contract's
// history. This is part of the Functional Core - no I/O, only pure functions.
package penalty

import "time"

// BaseMinimumLines is the default minimum poem length.
const BaseMinimumLines = 14

// EscalatedMinimumLines is the doubled minimum applied after repeated misses
// in a single calendar month.
const EscalatedMinimumLines = 28

// MissesForEscalation is the number of same-month misses that doubles the
// minimum for the next submission.
const MissesForEscalation = 2

// MonthlyReleaseWindowDays is how many days before month end (inclusive) a
// monthly release becomes due.
const MonthlyReleaseWindowDays = 2

// MinimumLines returns the minimum line count for the next submission. Each
// missed week maps to the calendar month its week started in; when two or
// more of those fall in the current month, the minimum doubles. The penalty is
// month-relative and slides off as the calendar advances, so it must be
// recomputed at submission time, never cached.
func MinimumLines(contractStart time.Time, missedWeeks []int, now time.Time, loc *time.Location) int {
	nowLocal := now.In(loc)
	missesThisMonth := 0
	for _, week := range missedWeeks {
		weekStart := contractStart.In(loc).AddDate(0, 0, (week-1)*7)
		if weekStart.Year() == nowLocal.Year() && weekStart.Month() == nowLocal.Month() {
			missesThisMonth++
		}
	}
	if missesThisMonth >= MissesForEscalation {
		return EscalatedMinimumLines
	}
	return BaseMinimumLines
}

// MonthlyReleaseDue reports whether a monthly release is currently due:
// nothing has been published this calendar month, and today falls within the
// last two days of the month (inclusive). lastPublished is the zero value
// when no release was ever published.
func MonthlyReleaseDue(lastPublished time.Time, now time.Time, loc *time.Location) bool {
	nowLocal := now.In(loc)
	if !lastPublished.IsZero() {
		p := lastPublished.In(loc)
		if p.Year() == nowLocal.Year() && p.Month() == nowLocal.Month() {
			return false
		}
	}
	lastDay := time.Date(nowLocal.Year(), nowLocal.Month(), 1, 0, 0, 0, 0, loc).
		AddDate(0, 1, -1).Day()
	return nowLocal.Day() >= lastDay-(MonthlyReleaseWindowDays-1)
}

// MonthlyReleaseMissed reports whether the month ending at monthEnd went by
// without a published release. Used at month rollover by the sweep.
func MonthlyReleaseMissed(lastPublished time.Time, monthEnd time.Time, loc *time.Location) bool {
	end := monthEnd.In(loc)
	if lastPublished.IsZero() {
		return true
	}
	p := lastPublished.In(loc)
	return p.Year() != end.Year() || p.Month() != end.Month()
}
