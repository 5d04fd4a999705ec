package notify

import (
	"testing"
	"time"

	"github.com/example/quill/internal/core/schedule"
)

func TestCompute(t *testing.T) {
	now := time.Date(2026, 2, 26, 10, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 2, 26, 20, 0, 0, 0, time.UTC)

	t.Run("deadline warning inside 24h lead", func(t *testing.T) {
		alerts := Compute(Input{
			ContractID: "CONTRACT-001",
			Now:        now,
			Weeks:      []WeekState{{Week: 1, Status: schedule.StatusPending, Deadline: deadline}},
		})
		if len(alerts) != 1 {
			t.Fatalf("got %d alerts, want 1: %+v", len(alerts), alerts)
		}
		if alerts[0].Type != TypeDeadlineWarning || alerts[0].Severity != SeverityWarning {
			t.Errorf("alert = %+v", alerts[0])
		}
		if alerts[0].WeekNumber != 1 {
			t.Errorf("week = %d, want 1", alerts[0].WeekNumber)
		}
	})

	t.Run("no warning when deadline is far", func(t *testing.T) {
		alerts := Compute(Input{
			ContractID: "CONTRACT-001",
			Now:        now,
			Weeks:      []WeekState{{Week: 2, Status: schedule.StatusPending, Deadline: deadline.AddDate(0, 0, 7)}},
		})
		if len(alerts) != 0 {
			t.Fatalf("got %d alerts, want 0: %+v", len(alerts), alerts)
		}
	})

	t.Run("recovery window alert", func(t *testing.T) {
		alerts := Compute(Input{
			ContractID: "CONTRACT-001",
			Now:        deadline.Add(time.Hour),
			Weeks:      []WeekState{{Week: 1, Status: schedule.StatusInRecovery, Deadline: deadline}},
		})
		if len(alerts) != 1 || alerts[0].Type != TypeRecoveryWindow || alerts[0].Severity != SeverityHigh {
			t.Fatalf("alerts = %+v", alerts)
		}
	})

	t.Run("contract-wide alerts come after week alerts", func(t *testing.T) {
		alerts := Compute(Input{
			ContractID:        "CONTRACT-001",
			Now:               now,
			Weeks:             []WeekState{{Week: 1, Status: schedule.StatusPending, Deadline: deadline}},
			EscalatedMinimum:  true,
			MinimumLines:      28,
			MonthlyReleaseDue: true,
		})
		if len(alerts) != 3 {
			t.Fatalf("got %d alerts, want 3: %+v", len(alerts), alerts)
		}
		if alerts[1].Type != TypePenaltyNotice || alerts[2].Type != TypeMonthlyRelease {
			t.Errorf("order = %s, %s, %s", alerts[0].Type, alerts[1].Type, alerts[2].Type)
		}
	})

	t.Run("computation is repeatable", func(t *testing.T) {
		in := Input{
			ContractID: "CONTRACT-001",
			Now:        now,
			Weeks:      []WeekState{{Week: 1, Status: schedule.StatusInRecovery, Deadline: deadline}},
		}
		first := Compute(in)
		second := Compute(in)
		if len(first) != len(second) {
			t.Fatalf("alert counts differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("alert %d differs", i)
			}
		}
	})
}
