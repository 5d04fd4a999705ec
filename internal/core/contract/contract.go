// Package contract contains the pure business rules for the discipline
// contract lifecycle. This is part of the Functional Core - no I/O, only
// pure functions.
package contract

import (
	"fmt"
	"strings"
	"time"
)

// TotalWeeks is the fixed length of every discipline contract.
const TotalWeeks = 10

// Status represents the possible states of a contract.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusViolated  Status = "violated"
	StatusAbandoned Status = "abandoned"
)

// IsTerminal reports whether a contract status is final. Contracts are
// append-only; no terminal state is ever reopened.
func (s Status) IsTerminal() bool {
	return s != StatusActive
}

// InitialStatus returns the status for a new contract.
func InitialStatus() Status {
	return StatusActive
}

// GenerateContractID returns the next contract ID given the current maximum
// numeric suffix.
func GenerateContractID(maxID int) string {
	return fmt.Sprintf("CONTRACT-%03d", maxID+1)
}

// EndDate returns the contract end: start plus the full ten weeks.
func EndDate(start time.Time) time.Time {
	return start.AddDate(0, 0, TotalWeeks*7)
}

// CountLines returns the number of non-empty lines in a poem.
func CountLines(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
