package schedule

import "time"

// LogSnapshot is the planner's view of one weekly compliance log.
type LogSnapshot struct {
	Week     int
	Status   Status
	Deadline time.Time
	HasPoem  bool // a non-draft poem exists for this week
}

// SweepAction is one state change the sweep should apply. CountMiss is set
// only on the transition into missed, which is the single place contract-level
// miss counters are incremented.
type SweepAction struct {
	Week      int
	NewStatus Status
	CountMiss bool
}

// SweepInput is the snapshot a sweep plans over.
type SweepInput struct {
	TotalWeeks int
	Logs       []LogSnapshot
	Now        time.Time
}

// PlanSweep computes the state changes a periodic sweep should apply. It is
// pure and idempotent: logs already in a terminal state produce no action,
// and a log moved to in_recovery produces no further action until the window
// closes.
func PlanSweep(in SweepInput) []SweepAction {
	var actions []SweepAction
	for _, log := range in.Logs {
		if log.Status != StatusPending && log.Status != StatusInRecovery {
			continue
		}
		if log.Week > in.TotalWeeks {
			continue
		}

		switch ClassifyTiming(in.Now, log.Deadline) {
		case TimingMissed:
			if !log.HasPoem {
				actions = append(actions, SweepAction{
					Week:      log.Week,
					NewStatus: StatusMissed,
					CountMiss: true,
				})
			}
		case TimingInRecovery:
			if log.Status == StatusPending {
				actions = append(actions, SweepAction{
					Week:      log.Week,
					NewStatus: StatusInRecovery,
				})
			}
		}
	}
	return actions
}
