// Package notify computes which alerts should fire for a contract. It is a
// read-only consumer of contract and compliance state; delivery is someone
// else's problem.
package notify

import (
	"fmt"
	"time"

	"github.com/example/quill/internal/core/schedule"
)

// Alert types.
const (
	TypeDeadlineWarning = "deadline_warning"
	TypeRecoveryWindow  = "recovery_window"
	TypePenaltyNotice   = "penalty_notice"
	TypeMonthlyRelease  = "monthly_release_due"
	TypeWeekMissed      = "week_missed"
)

// Alert severities.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityWarning  = "warning"
	SeverityMedium   = "medium"
)

// DeadlineWarningLead is how far ahead of a deadline the warning fires.
const DeadlineWarningLead = 24 * time.Hour

// Alert is one computed notification payload.
type Alert struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	ContractID string `json:"contract_id"`
	WeekNumber int    `json:"week_number,omitempty"`
}

// WeekState is the scheduler's view of one compliance log.
type WeekState struct {
	Week     int
	Status   schedule.Status
	Deadline time.Time
}

// Input is the full snapshot the scheduler computes alerts from.
type Input struct {
	ContractID         string
	Weeks              []WeekState
	MinimumLines       int
	EscalatedMinimum   bool
	MonthlyReleaseDue  bool
	RecentlyMissedWeek int // 0 when none
	Now                time.Time
}

// Compute returns the alerts that should fire right now, in week order with
// contract-wide alerts last. It never mutates state and calling it twice with
// the same input yields the same alerts.
func Compute(in Input) []Alert {
	var alerts []Alert

	for _, w := range in.Weeks {
		switch w.Status {
		case schedule.StatusPending:
			until := w.Deadline.Sub(in.Now)
			if until > 0 && until <= DeadlineWarningLead {
				alerts = append(alerts, Alert{
					Type:       TypeDeadlineWarning,
					Severity:   SeverityWarning,
					Title:      fmt.Sprintf("Week %d deadline approaching", w.Week),
					Message:    fmt.Sprintf("Week %d poem is due %s", w.Week, w.Deadline.Format("Mon Jan 2 15:04 MST")),
					ContractID: in.ContractID,
					WeekNumber: w.Week,
				})
			}
		case schedule.StatusInRecovery:
			alerts = append(alerts, Alert{
				Type:       TypeRecoveryWindow,
				Severity:   SeverityHigh,
				Title:      fmt.Sprintf("Week %d in recovery", w.Week),
				Message:    fmt.Sprintf("Deadline passed; submit by %s to stay on contract", schedule.RecoveryEnd(w.Deadline).Format("Mon Jan 2 15:04 MST")),
				ContractID: in.ContractID,
				WeekNumber: w.Week,
			})
		}
	}

	if in.RecentlyMissedWeek > 0 {
		alerts = append(alerts, Alert{
			Type:       TypeWeekMissed,
			Severity:   SeverityCritical,
			Title:      fmt.Sprintf("Week %d missed", in.RecentlyMissedWeek),
			Message:    "The recovery window closed with no submission. The miss is on your record.",
			ContractID: in.ContractID,
			WeekNumber: in.RecentlyMissedWeek,
		})
	}

	if in.EscalatedMinimum {
		alerts = append(alerts, Alert{
			Type:       TypePenaltyNotice,
			Severity:   SeverityHigh,
			Title:      "Minimum line count doubled",
			Message:    fmt.Sprintf("Two misses this month: the next poem must be at least %d lines", in.MinimumLines),
			ContractID: in.ContractID,
		})
	}

	if in.MonthlyReleaseDue {
		alerts = append(alerts, Alert{
			Type:       TypeMonthlyRelease,
			Severity:   SeverityMedium,
			Title:      "Monthly release due",
			Message:    "The month ends within two days and no release has been published",
			ContractID: in.ContractID,
		})
	}

	return alerts
}
